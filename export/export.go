// SPDX-License-Identifier: GPL-2.0-or-later

// Package export renders decoded sprite documents to PNG and animated
// GIF. Frames are flattened through the compose package and upscaled
// with nearest-neighbor sampling, which keeps pixel art crisp.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/nfnt/resize"

	"github.com/pennie-quinn/paq/ase"
	"github.com/pennie-quinn/paq/compose"
)

// PNG writes one flattened frame to w, upscaled by scale.
func PNG(s *ase.Sprite, frame, scale int, w io.Writer) error {
	img, err := compose.Frame(s, frame)
	if err != nil {
		return err
	}
	return png.Encode(w, upscale(img, scale))
}

// Sheet writes all frames side by side in one PNG strip.
func Sheet(s *ase.Sprite, w io.Writer) error {
	if len(s.Frames) == 0 {
		return fmt.Errorf("export: document has no frames")
	}
	sheet := image.NewNRGBA(image.Rect(0, 0, s.Width*len(s.Frames), s.Height))
	for i := range s.Frames {
		img, err := compose.Frame(s, i)
		if err != nil {
			return err
		}
		at := image.Rect(i*s.Width, 0, (i+1)*s.Width, s.Height)
		draw.Draw(sheet, at, img, image.Point{}, draw.Src)
	}
	return png.Encode(w, sheet)
}

// GIF builds an animated GIF from the document. With a tag the animation
// is one full loop of the tag's range in its loop direction (ping-pong
// expands to its oscillation period); with tag == nil it is all frames
// once, in order. Delays come from the frame durations.
func GIF(s *ase.Sprite, tag *ase.Tag, scale int) (*gif.GIF, error) {
	seq, err := frameSequence(s, tag)
	if err != nil {
		return nil, err
	}

	g := &gif.GIF{}
	quantizer := quantize.MedianCutQuantizer{AddTransparent: true}
	for _, fi := range seq {
		img, err := compose.Frame(s, fi)
		if err != nil {
			return nil, err
		}
		scaled := upscale(img, scale)

		pal := quantizer.Quantize(make(color.Palette, 0, 256), scaled)
		frame := image.NewPaletted(scaled.Bounds(), pal)
		draw.Draw(frame, scaled.Bounds(), scaled, image.Point{}, draw.Over)

		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, s.Frames[fi].Duration/10) // ms to cs
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	return g, nil
}

// WriteGIF encodes the animation straight to w.
func WriteGIF(s *ase.Sprite, tag *ase.Tag, scale int, w io.Writer) error {
	g, err := GIF(s, tag, scale)
	if err != nil {
		return err
	}
	return gif.EncodeAll(w, g)
}

// frameSequence expands a tag into the frame indices of one loop pass.
func frameSequence(s *ase.Sprite, tag *ase.Tag) ([]int, error) {
	if tag == nil {
		seq := make([]int, len(s.Frames))
		for i := range seq {
			seq[i] = i
		}
		return seq, nil
	}
	if tag.From < 0 || tag.To >= len(s.Frames) || tag.From > tag.To {
		return nil, fmt.Errorf("export: tag %q range [%d,%d] outside document frames",
			tag.Name, tag.From, tag.To)
	}
	n := tag.To - tag.From + 1
	period := n
	cur := tag.From
	switch tag.Dir {
	case ase.Reverse:
		cur = tag.To
	case ase.PingPong:
		if n > 1 {
			period = 2 * (n - 1)
		}
	}
	seq := make([]int, 0, period)
	for i := 0; i < period; i++ {
		seq = append(seq, tag.FrameAt(cur))
		cur = tag.NextFrame(cur)
	}
	return seq, nil
}

func upscale(img *image.NRGBA, scale int) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	return resize.Resize(uint(b.Dx()*scale), uint(b.Dy()*scale), img, resize.NearestNeighbor)
}
