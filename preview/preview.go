// SPDX-License-Identifier: GPL-2.0-or-later

// Package preview draws images on the terminal. Graphics-capable
// terminals get real pixels through their escape protocols; everything
// else gets colored character cells, two per pixel.
package preview

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
	"github.com/gookit/color"
)

// Best writes img with the richest protocol the terminal supports:
// kitty, then iTerm, then sixel, then truecolor cells.
func Best(w io.Writer, img image.Image) error {
	settings := rasterm.Settings{}
	if rasterm.IsTermKitty() {
		if err := settings.KittyWriteImage(w, img); err != nil {
			return err
		}
		fmt.Fprintln(w)
		return nil
	}
	if rasterm.IsTermItermWez() {
		if err := settings.ItermWriteImage(w, img); err != nil {
			return err
		}
		fmt.Fprintln(w)
		return nil
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		paletted := image.NewPaletted(img.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(paletted, img.Bounds(), img, image.Point{})
		if err := settings.SixelWriteImage(w, paletted); err != nil {
			return err
		}
		fmt.Fprintln(w)
		return nil
	}
	ANSI(w, img, true)
	return nil
}

// ANSI draws img as truecolor background cells. With blanks the cells
// are empty; otherwise a rough brightness glyph is printed in each.
func ANSI(w io.Writer, img image.Image, blanks bool) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cR, cG, cB, cA := img.At(x, y).RGBA()
			if cA == 0 {
				fmt.Fprint(w, "\x1b[0m  ")
				continue
			}
			cell := color.RGB(uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), true)
			if blanks {
				fmt.Fprint(w, cell.Sprint("  "))
			} else {
				fmt.Fprint(w, cell.Sprint(shade(cR, cG, cB)))
			}
		}
		fmt.Fprint(w, "\x1b[0m\n")
	}
}

// Mono draws img with plain characters only, for terminals without color
// support.
func Mono(w io.Writer, img image.Image) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cR, cG, cB, cA := img.At(x, y).RGBA()
			if cA == 0 {
				fmt.Fprint(w, "  ")
				continue
			}
			fmt.Fprint(w, shade(cR, cG, cB))
		}
		fmt.Fprintln(w)
	}
}

func shade(r, g, b uint32) string {
	a := ((r + g + b) / 3) >> 8
	switch {
	case a < 32:
		return ".."
	case a < 64:
		return "--"
	case a < 128:
		return "=="
	default:
		return "##"
	}
}
