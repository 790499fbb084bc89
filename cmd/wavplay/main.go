// SPDX-License-Identifier: GPL-2.0-or-later

// wavplay auditions a wave file through the default audio device.
//
//	wavplay sound.wav
//	wavplay -info sound.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/pennie-quinn/paq/wav"
)

var info = flag.Bool("info", false, "print the format line and exit")

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: wavplay [flags] file.wav\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	snd, err := wav.Load(flag.Arg(0))
	if err != nil {
		log.Fatalf("load %s: %v", flag.Arg(0), err)
	}
	fmt.Printf("%s: %d Hz, %d bit, %d channel(s), %d frames, %v\n",
		flag.Arg(0), snd.SampleRate, snd.Bits, snd.Channels,
		snd.Frames(), snd.Duration().Round(time.Millisecond))
	if *info {
		return
	}

	st, err := snd.Streamer()
	if err != nil {
		log.Fatal(err)
	}
	sr := snd.Format().SampleRate
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		log.Fatal(err)
	}
	defer speaker.Close()

	done := make(chan struct{})
	speaker.Play(beep.Seq(st, beep.Callback(func() {
		close(done)
	})))
	<-done
}
