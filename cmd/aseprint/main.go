// SPDX-License-Identifier: GPL-2.0-or-later

// aseprint inspects, previews and exports sprite documents.
//
//	aseprint -info sprite.ase
//	aseprint -preview -frame 2 sprite.ase
//	aseprint -gif out.gif -tag walk -scale 4 sprite.ase
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pennie-quinn/paq/ase"
	"github.com/pennie-quinn/paq/compose"
	"github.com/pennie-quinn/paq/export"
	"github.com/pennie-quinn/paq/preview"
)

var (
	info     = flag.Bool("info", false, "print a document summary")
	show     = flag.Bool("preview", false, "draw a frame on the terminal")
	frame    = flag.Int("frame", 0, "frame index for -preview and -png")
	scale    = flag.Int("scale", 1, "integer upscaling factor")
	tagName  = flag.String("tag", "", "animation tag for -gif, all frames when empty")
	gifOut   = flag.String("gif", "", "write an animated GIF to this file")
	pngOut   = flag.String("png", "", "write a single frame PNG to this file")
	sheetOut = flag.String("sheet", "", "write all frames as one PNG strip to this file")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: aseprint [flags] file.ase\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	doc, err := ase.Load(flag.Arg(0))
	if err != nil {
		log.Fatalf("load %s: %v", flag.Arg(0), err)
	}
	for _, d := range doc.Diagnostics {
		log.Printf("warning: %v", d)
	}

	ran := false
	if *info {
		printInfo(doc)
		ran = true
	}
	if *gifOut != "" {
		writeGIF(doc)
		ran = true
	}
	if *pngOut != "" {
		writePNG(doc)
		ran = true
	}
	if *sheetOut != "" {
		writeSheet(doc)
		ran = true
	}
	if *show || !ran {
		img, err := compose.Frame(doc, *frame)
		if err != nil {
			log.Fatal(err)
		}
		if err := preview.Best(os.Stdout, img); err != nil {
			log.Fatal(err)
		}
	}
}

func printInfo(doc *ase.Sprite) {
	fmt.Printf("%dx%d %s, %d frames, %d colors\n",
		doc.Width, doc.Height, doc.Depth, len(doc.Frames), doc.Palette.Count)

	fmt.Println("layers:")
	for i := range doc.Layers {
		l := &doc.Layers[i]
		vis := " "
		if !l.Visible() {
			vis = "hidden"
		}
		kind := ""
		if l.Kind == ase.LayerGroup {
			kind = "/"
		}
		fmt.Printf("  %s%s%s %s\n", strings.Repeat("  ", l.Level), l.Name, kind, vis)
	}

	if len(doc.Tags) > 0 {
		fmt.Println("tags:")
		for _, t := range doc.Tags {
			fmt.Printf("  %s [%d..%d] %s\n", t.Name, t.From, t.To, t.Dir)
		}
	}

	total := 0
	for i := range doc.Frames {
		total += doc.Frames[i].Duration
	}
	fmt.Printf("total animation time: %dms\n", total)
}

func findTag(doc *ase.Sprite) *ase.Tag {
	if *tagName == "" {
		return nil
	}
	t := doc.TagByName(*tagName)
	if t == nil {
		log.Fatalf("no tag named %q", *tagName)
	}
	return t
}

func writeGIF(doc *ase.Sprite) {
	f, err := os.Create(*gifOut)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := export.WriteGIF(doc, findTag(doc), *scale, f); err != nil {
		log.Fatal(err)
	}
}

func writePNG(doc *ase.Sprite) {
	f, err := os.Create(*pngOut)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := export.PNG(doc, *frame, *scale, f); err != nil {
		log.Fatal(err)
	}
}

func writeSheet(doc *ase.Sprite) {
	f, err := os.Create(*sheetOut)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := export.Sheet(doc, f); err != nil {
		log.Fatal(err)
	}
}
