// SPDX-License-Identifier: GPL-2.0-or-later

// Package ase decodes Aseprite sprite documents: a 128-byte header, then
// per frame a run of length-prefixed chunks carrying the palette, the
// layer list, per-layer images (cels) and animation tags.
//
// Decoding is tolerant by construction. Every chunk declares its own span
// and the walk reseeks to the declared end after each one, so unknown or
// partially parsed chunks can never desynchronize it. Problems inside a
// single cel (a bad layer reference, a pixel payload that fails to
// decompress) are absorbed there and reported on Sprite.Diagnostics;
// only a broken document header aborts the whole decode.
package ase

import (
	"fmt"
	"image/color"
)

const (
	docMagic   = 0xA5E0
	frameMagic = 0xF1FA
)

// Chunk type codes.
const (
	chunkLegacyColor  = 0x0004
	chunkLegacyColor2 = 0x000B
	chunkLayer        = 0x2004
	chunkCel          = 0x2005
	chunkCelExtra     = 0x2006
	chunkMask         = 0x2016
	chunkPath         = 0x2017
	chunkTags         = 0x2018
	chunkPalette      = 0x2019
	chunkUserData     = 0x2020
	chunkSlices       = 0x2021
	chunkSlice        = 0x2022
)

// Cel storage kinds.
const (
	celRaw        = 0
	celLinked     = 1
	celCompressed = 2
)

const paletteHasName = 1 << 0

// Depth is the per-pixel storage format of a document.
type Depth uint16

const (
	RGBA      Depth = 32 // 4 bytes per pixel: red, green, blue, alpha
	Grayscale Depth = 16 // 2 bytes per pixel: value, alpha
	Indexed   Depth = 8  // 1 byte per pixel: palette index
)

func (d Depth) BytesPerPixel() int {
	switch d {
	case RGBA:
		return 4
	case Grayscale:
		return 2
	case Indexed:
		return 1
	}
	return 0
}

func (d Depth) String() string {
	switch d {
	case RGBA:
		return "rgba"
	case Grayscale:
		return "grayscale"
	case Indexed:
		return "indexed"
	}
	return fmt.Sprintf("Depth(%d)", uint16(d))
}

// pixels tags a raw decoded buffer with the document depth.
func (d Depth) pixels(b []byte) Pixels {
	switch d {
	case RGBA:
		return RGBAPixels(b)
	case Grayscale:
		return GrayPixels(b)
	case Indexed:
		return IndexedPixels(b)
	}
	return nil
}

// Pixels is the decoded image data of a cel. The concrete type encodes
// the depth the document was decoded under, so consumers switch on it
// instead of trusting a separate depth field.
type Pixels interface {
	// Bytes returns the raw pixel data in on-disk channel order.
	Bytes() []byte
	pixels()
}

// RGBAPixels holds 4 bytes per pixel: red, green, blue, alpha.
type RGBAPixels []byte

// GrayPixels holds 2 bytes per pixel: value, alpha.
type GrayPixels []byte

// IndexedPixels holds 1 byte per pixel: a palette index.
type IndexedPixels []byte

func (p RGBAPixels) Bytes() []byte    { return p }
func (p GrayPixels) Bytes() []byte    { return p }
func (p IndexedPixels) Bytes() []byte { return p }

func (p RGBAPixels) pixels()    {}
func (p GrayPixels) pixels()    {}
func (p IndexedPixels) pixels() {}

// At returns pixel i as a non-premultiplied color.
func (p RGBAPixels) At(i int) color.NRGBA {
	return color.NRGBA{R: p[i*4], G: p[i*4+1], B: p[i*4+2], A: p[i*4+3]}
}

// At returns pixel i as a non-premultiplied color.
func (p GrayPixels) At(i int) color.NRGBA {
	v := p[i*2]
	return color.NRGBA{R: v, G: v, B: v, A: p[i*2+1]}
}

// Index returns the palette index of pixel i.
func (p IndexedPixels) Index(i int) uint8 { return p[i] }

// LayerID is a checked index into a sprite's layer list. Resolve one
// through Sprite.Layer rather than indexing Layers directly.
type LayerID int

// NoLayer marks the absence of a layer reference, such as the parent of a
// root-level layer.
const NoLayer LayerID = -1

// LayerKind tells image layers from grouping layers.
type LayerKind uint16

const (
	LayerImage LayerKind = 0
	LayerGroup LayerKind = 1
)

// Layer flag bits.
const (
	LayerVisible          = 1 << 0
	LayerEditable         = 1 << 1
	LayerLockMovement     = 1 << 2
	LayerBackground       = 1 << 3
	LayerPreferLinkedCels = 1 << 4
	LayerCollapsed        = 1 << 5
	LayerReference        = 1 << 6
)

// Layer is one entry of the document's flat layer list. Nesting is
// expressed through Parent references reconstructed from the per-layer
// child level, root layers have Parent == NoLayer.
type Layer struct {
	Name      string
	Flags     uint16
	Kind      LayerKind
	Level     int // nesting depth as stored in the file
	Parent    LayerID
	BlendMode uint16
	Opacity   uint8
}

func (l *Layer) Visible() bool {
	return l.Flags&LayerVisible != 0
}

func (l *Layer) Background() bool {
	return l.Flags&LayerBackground != 0
}

// Cel is a single layer's image contribution to a single frame. A cel
// either owns pixel data, or references another frame's cel on the same
// layer (Link >= 0), or is empty.
type Cel struct {
	Layer   LayerID
	X, Y    int // signed offset within the sprite canvas
	Opacity uint8
	W, H    int
	Pixels  Pixels // nil for linked and empty cels
	Link    int    // target frame index for linked cels, else -1
}

// Linked reports whether the cel references another frame's image
// instead of carrying its own.
func (c *Cel) Linked() bool {
	return c.Link >= 0
}

// Frame is one animation frame: a display duration and the cels that
// compose it.
type Frame struct {
	Duration int // milliseconds
	Cels     []Cel
}

// Palette is the document's fixed-capacity color table. Count is the
// number of live entries; chunks update ranges in place, so later chunks
// overwrite earlier ones per index.
type Palette struct {
	Count  int
	Colors [256]color.NRGBA
}

// LoopDir is a tag's playback direction.
type LoopDir uint8

const (
	Forward  LoopDir = 0
	Reverse  LoopDir = 1
	PingPong LoopDir = 2
)

func (d LoopDir) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case PingPong:
		return "pingpong"
	}
	return fmt.Sprintf("LoopDir(%d)", uint8(d))
}

// Tag names an inclusive frame range [From, To] with a loop direction.
type Tag struct {
	Name     string
	From, To int
	Dir      LoopDir
}

// Sprite is a fully decoded document.
type Sprite struct {
	Width, Height int
	Depth         Depth
	Flags         uint32
	Speed         int // legacy default frame duration in milliseconds
	Transparent   uint8
	PixelWidth    int // pixel aspect ratio, normally 1:1
	PixelHeight   int

	Palette Palette
	Layers  []Layer
	Frames  []Frame
	Tags    []Tag

	// Diagnostics collects recoverable problems hit while decoding:
	// cels that failed to decompress, bad layer references, frame
	// headers with the wrong magic. The sprite is usable regardless.
	Diagnostics []error
}

// FormatError reports an unrecoverable structural problem with a
// document. When a load returns one, no partial sprite is returned with
// it.
type FormatError struct {
	Offset int // absolute byte offset of the failed check
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ase: %s at offset %d", e.Reason, e.Offset)
}
