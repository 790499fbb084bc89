// SPDX-License-Identifier: GPL-2.0-or-later

package ase

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/pennie-quinn/paq/inflate"
	"github.com/pennie-quinn/paq/stream"
)

// Load reads and decodes the document at path.
func Load(path string) (*Sprite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "ase: open")
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadBytes decodes a document held in memory.
func LoadBytes(b []byte) (*Sprite, error) {
	return LoadSource(stream.NewBytes(b))
}

// LoadReader decodes a document from a seekable reader, starting at its
// current position.
func LoadReader(r io.ReadSeeker) (*Sprite, error) {
	return LoadSource(stream.NewSeeker(r))
}

// LoadSource decodes a document from an arbitrary byte source.
func LoadSource(src stream.Source) (*Sprite, error) {
	d := decoder{
		cur:       stream.NewCursor(src),
		sprite:    &Sprite{},
		lastLayer: NoLayer,
		lastLevel: -1,
	}
	return d.decode()
}

type decoder struct {
	cur    *stream.Cursor
	sprite *Sprite

	// layer tree running state
	lastLayer LayerID
	lastLevel int
}

// diag records a recoverable decode problem without stopping the walk.
func (d *decoder) diag(err error) {
	d.sprite.Diagnostics = append(d.sprite.Diagnostics, err)
	glog.V(1).Info(err)
}

func (d *decoder) decode() (*Sprite, error) {
	base := d.cur.Tell()
	frames, err := d.readHeader(base)
	if err != nil {
		return nil, err
	}
	// The header occupies a fixed 128 bytes regardless of how much of
	// it we read.
	d.cur.SeekTo(base + 128)

	for i := 0; i < frames; i++ {
		d.readFrame(i)
	}
	return d.sprite, nil
}

func (d *decoder) readHeader(base int) (frames int, err error) {
	cur := d.cur
	s := d.sprite

	cur.U32() // declared file size, unused
	magic := cur.U16()
	frames = int(cur.U16())
	s.Width = int(cur.U16())
	s.Height = int(cur.U16())
	s.Depth = Depth(cur.U16())
	s.Flags = cur.U32()
	s.Speed = int(cur.U16())
	cur.U32() // reserved
	cur.U32() // reserved
	s.Transparent = cur.U8()
	cur.Skip(3)
	ncolors := int(cur.U16())
	s.PixelHeight = int(cur.U8()) // aspect is stored height first
	s.PixelWidth = int(cur.U8())

	if magic != docMagic {
		return 0, &FormatError{
			Offset: base + 4,
			Reason: fmt.Sprintf("bad document magic %#04x", magic),
		}
	}
	if s.Depth.BytesPerPixel() == 0 {
		return 0, &FormatError{
			Offset: base + 12,
			Reason: fmt.Sprintf("unsupported color depth %d", uint16(s.Depth)),
		}
	}
	if ncolors == 0 {
		ncolors = 256 // older writers left this zero
	}
	if s.PixelWidth == 0 || s.PixelHeight == 0 {
		s.PixelWidth, s.PixelHeight = 1, 1
	}
	s.Palette.Count = ncolors

	glog.V(2).Infof("ase: %dx%d %s, %d frames, %d colors",
		s.Width, s.Height, s.Depth, frames, ncolors)

	s.Frames = make([]Frame, 0, frames)
	return frames, nil
}

func (d *decoder) readFrame(index int) {
	cur := d.cur
	start := cur.Tell()

	size := int(cur.U32())
	magic := cur.U16()
	chunks := int(cur.U16())
	duration := int(cur.U16())
	cur.Skip(6)

	if magic != frameMagic {
		d.diag(fmt.Errorf("ase: frame %d: bad frame magic %#04x", index, magic))
	}

	d.sprite.Frames = append(d.sprite.Frames, Frame{Duration: duration})

	for j := 0; j < chunks; j++ {
		chunkStart := cur.Tell()
		chunkSize := int(cur.U32())
		chunkType := cur.U16()
		end := chunkStart + chunkSize

		switch chunkType {
		case chunkPalette:
			d.readPalette()
		case chunkLayer:
			d.readLayer()
		case chunkCel:
			d.readCel(index, end)
		case chunkTags:
			d.readTags()
		case chunkLegacyColor, chunkLegacyColor2:
			// Superseded by the palette chunk.
		case chunkCelExtra, chunkMask, chunkPath,
			chunkSlices, chunkSlice, chunkUserData:
			// Intentionally unparsed.
		default:
			glog.V(2).Infof("ase: frame %d: skipping chunk type %#04x", index, chunkType)
		}

		// Reposition on the declared end no matter how much the
		// chunk handler consumed. This is what makes unknown and
		// partially parsed chunks safe.
		cur.SeekTo(end)
	}

	cur.SeekTo(start + size)
}

func (d *decoder) readLayer() {
	cur := d.cur
	s := d.sprite

	flags := cur.U16()
	kind := LayerKind(cur.U16())
	level := int(cur.U16())
	cur.U16() // default width, unused
	cur.U16() // default height, unused
	blend := cur.U16()
	opacity := cur.U8()
	cur.Skip(3)
	name := cur.String()

	if kind != LayerImage && kind != LayerGroup {
		glog.V(1).Infof("ase: dropping layer %q of unknown kind %d", name, kind)
		return
	}

	l := Layer{
		Name:   name,
		Flags:  flags,
		Kind:   kind,
		Level:  level,
		Parent: NoLayer,
	}
	// Background layers define no blend mode or opacity of their own.
	if kind == LayerImage && flags&LayerBackground == 0 {
		l.BlendMode = blend
		l.Opacity = opacity
	}

	switch {
	case level == 0:
		l.Parent = NoLayer
	case d.lastLayer == NoLayer:
		// Nested layer with nothing before it. Treat as root.
		l.Parent = NoLayer
	case level == d.lastLevel:
		l.Parent = s.Layers[d.lastLayer].Parent
	case level > d.lastLevel:
		l.Parent = d.lastLayer
	default:
		// Walk back up the previous layer's parent chain until the
		// ancestor at the matching level.
		parent := s.Layers[d.lastLayer].Parent
		if parent >= 0 {
			for steps := d.lastLevel - level; steps > 0; steps-- {
				p := s.Layers[parent].Parent
				if p == NoLayer {
					break
				}
				parent = p
			}
		}
		l.Parent = parent
	}

	s.Layers = append(s.Layers, l)
	d.lastLayer = LayerID(len(s.Layers) - 1)
	d.lastLevel = level
}

func (d *decoder) readCel(frame, end int) {
	cur := d.cur
	s := d.sprite

	layer := int(cur.U16())
	x := int(cur.I16())
	y := int(cur.I16())
	opacity := cur.U8()
	kind := cur.U16()
	cur.Skip(7)

	if layer < 0 || layer >= len(s.Layers) {
		d.diag(fmt.Errorf("ase: frame %d: cel names missing layer %d", frame, layer))
		return
	}
	if s.Layers[layer].Kind != LayerImage {
		d.diag(fmt.Errorf("ase: frame %d: cel on layer %d which holds no images", frame, layer))
		return
	}

	c := Cel{
		Layer:   LayerID(layer),
		X:       x,
		Y:       y,
		Opacity: opacity,
		Link:    -1,
	}

	switch kind {
	case celRaw:
		c.W = int(cur.U16())
		c.H = int(cur.U16())
		if c.W > 0 && c.H > 0 {
			buf := make([]byte, c.W*c.H*s.Depth.BytesPerPixel())
			cur.ReadFull(buf)
			c.Pixels = s.Depth.pixels(buf)
		}

	case celLinked:
		c.Link = int(cur.U16())

	case celCompressed:
		c.W = int(cur.U16())
		c.H = int(cur.U16())
		if c.W > 0 && c.H > 0 {
			c.Pixels = d.inflateCel(&c, frame, end)
		}

	default:
		d.diag(fmt.Errorf("ase: frame %d: cel on layer %d has unknown kind %d", frame, layer, kind))
	}

	f := &s.Frames[len(s.Frames)-1]
	f.Cels = append(f.Cels, c)
}

// inflateCel decompresses a cel's pixel payload, everything between the
// current position and the chunk end. Failure leaves the cel without
// pixel data and is reported as a diagnostic only.
func (d *decoder) inflateCel(c *Cel, frame, end int) Pixels {
	cur := d.cur
	s := d.sprite

	size := end - cur.Tell()
	if size <= 0 {
		d.diag(fmt.Errorf("ase: frame %d: cel on layer %d has no compressed payload", frame, c.Layer))
		return nil
	}
	comp := make([]byte, size)
	comp = comp[:cur.ReadFull(comp)]

	buf := make([]byte, c.W*c.H*s.Depth.BytesPerPixel())
	if _, err := inflate.Decode(buf, comp); err != nil {
		d.diag(fmt.Errorf("ase: frame %d: cel on layer %d: %w", frame, c.Layer, err))
		return nil
	}
	return s.Depth.pixels(buf)
}

func (d *decoder) readPalette() {
	cur := d.cur
	p := &d.sprite.Palette

	cur.U32() // declared palette size, irrelevant for a fixed table
	from := int(cur.U32())
	to := int(cur.U32())
	cur.Skip(8)

	if to >= len(p.Colors) {
		d.diag(fmt.Errorf("ase: palette range %d..%d exceeds table", from, to))
		to = len(p.Colors) - 1
	}
	if from > to {
		return
	}

	for i := from; i <= to; i++ {
		flags := cur.U16()
		c0, c1, c2, c3 := cur.U8(), cur.U8(), cur.U8(), cur.U8()
		// The file stores red and blue exchanged.
		p.Colors[i] = color.NRGBA{R: c2, G: c1, B: c0, A: c3}
		if flags&paletteHasName != 0 {
			_ = cur.String() // read to keep the stream aligned, discarded
		}
	}

	if to+1 > p.Count {
		p.Count = to + 1
	}
}

func (d *decoder) readTags() {
	cur := d.cur

	count := int(cur.U16())
	cur.Skip(8) // reserved

	for i := 0; i < count; i++ {
		from := int(cur.I16())
		to := int(cur.I16())
		dir := LoopDir(cur.U8())
		if dir != Forward && dir != Reverse && dir != PingPong {
			dir = Forward
		}
		cur.Skip(8) // reserved
		cur.Skip(4) // tag color
		name := cur.String()

		d.sprite.Tags = append(d.sprite.Tags, Tag{
			Name: name,
			From: from,
			To:   to,
			Dir:  dir,
		})
	}
}
