// SPDX-License-Identifier: GPL-2.0-or-later

// Package compose flattens decoded sprite documents into standard images.
// Cels are converted to non-premultiplied RGBA through the document
// palette, then drawn onto a document-sized canvas in layer order with
// normal alpha blending.
package compose

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/pennie-quinn/paq/ase"
)

// CelImage converts one cel's pixel data to an NRGBA image at the cel's
// own size. Linked cels are resolved first. A cel with no image (empty,
// dangling link, failed decompression) yields nil.
func CelImage(s *ase.Sprite, c *ase.Cel) *image.NRGBA {
	c = s.LinkedCel(c)
	if c == nil || c.Pixels == nil {
		return nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, c.W, c.H))
	n := c.W * c.H
	switch p := c.Pixels.(type) {
	case ase.RGBAPixels:
		copy(img.Pix, p)
	case ase.GrayPixels:
		for i := 0; i < n; i++ {
			col := p.At(i)
			img.Pix[i*4+0] = col.R
			img.Pix[i*4+1] = col.G
			img.Pix[i*4+2] = col.B
			img.Pix[i*4+3] = col.A
		}
	case ase.IndexedPixels:
		for i := 0; i < n; i++ {
			idx := p.Index(i)
			if idx == s.Transparent {
				continue
			}
			col := s.Palette.Colors[idx]
			img.Pix[i*4+0] = col.R
			img.Pix[i*4+1] = col.G
			img.Pix[i*4+2] = col.B
			img.Pix[i*4+3] = col.A
		}
	}
	return img
}

// Frame flattens one animation frame onto a document-sized canvas. Cels
// on invisible layers are skipped; cel and layer opacity combine
// multiplicatively. Only normal blending is applied.
func Frame(s *ase.Sprite, frame int) (*image.NRGBA, error) {
	if frame < 0 || frame >= len(s.Frames) {
		return nil, fmt.Errorf("compose: frame %d out of range [0,%d)", frame, len(s.Frames))
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	f := &s.Frames[frame]
	for i := range f.Cels {
		c := &f.Cels[i]
		l := s.Layer(c.Layer)
		if l == nil || !l.Visible() {
			continue
		}
		img := CelImage(s, c)
		if img == nil {
			continue
		}
		opacity := combineAlpha(c.Opacity, layerAlpha(l))
		drawCel(canvas, img, c.X, c.Y, opacity)
	}
	return canvas, nil
}

// layerAlpha is the layer's contribution to a cel's opacity. Background
// layers carry no opacity of their own and count as fully opaque.
func layerAlpha(l *ase.Layer) uint8 {
	if l.Background() {
		return 255
	}
	return l.Opacity
}

func combineAlpha(a, b uint8) uint8 {
	return uint8(math32.Round(float32(a) * float32(b) / 255))
}

// drawCel composites src over dst at (x, y), clipping to the canvas.
func drawCel(dst *image.NRGBA, src *image.NRGBA, x, y int, opacity uint8) {
	b := src.Bounds()
	for sy := 0; sy < b.Dy(); sy++ {
		dy := y + sy
		if dy < 0 || dy >= dst.Rect.Dy() {
			continue
		}
		for sx := 0; sx < b.Dx(); sx++ {
			dx := x + sx
			if dx < 0 || dx >= dst.Rect.Dx() {
				continue
			}
			so := src.PixOffset(sx, sy)
			do := dst.PixOffset(dx, dy)
			s := color.NRGBA{src.Pix[so], src.Pix[so+1], src.Pix[so+2], src.Pix[so+3]}
			d := color.NRGBA{dst.Pix[do], dst.Pix[do+1], dst.Pix[do+2], dst.Pix[do+3]}
			o := blend(d, s, opacity)
			dst.Pix[do+0] = o.R
			dst.Pix[do+1] = o.G
			dst.Pix[do+2] = o.B
			dst.Pix[do+3] = o.A
		}
	}
}

// blend is non-premultiplied source-over with an extra opacity applied to
// the source.
func blend(dst, src color.NRGBA, opacity uint8) color.NRGBA {
	sa := float32(src.A) / 255 * float32(opacity) / 255
	if sa <= 0 {
		return dst
	}
	da := float32(dst.A) / 255
	oa := sa + da*(1-sa)
	if oa <= 0 {
		return color.NRGBA{}
	}
	ch := func(s, d uint8) uint8 {
		v := (float32(s)*sa + float32(d)*da*(1-sa)) / oa
		return uint8(math32.Round(math32.Min(v, 255)))
	}
	return color.NRGBA{
		R: ch(src.R, dst.R),
		G: ch(src.G, dst.G),
		B: ch(src.B, dst.B),
		A: uint8(math32.Round(oa * 255)),
	}
}
