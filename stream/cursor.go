// SPDX-License-Identifier: GPL-2.0-or-later

package stream

import "encoding/binary"

// Cursor reads little-endian scalars off a Source. Reads past the end of
// the source yield the zero value, so callers can decode a whole structure
// and validate it afterward instead of checking every field read.
type Cursor struct {
	src Source
}

func NewCursor(src Source) *Cursor {
	return &Cursor{src: src}
}

func (c *Cursor) U8() uint8 {
	var b [1]byte
	if c.src.Read(b[:]) != 1 {
		return 0
	}
	return b[0]
}

func (c *Cursor) U16() uint16 {
	var b [2]byte
	if c.src.Read(b[:]) != 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b[:])
}

func (c *Cursor) U32() uint32 {
	var b [4]byte
	if c.src.Read(b[:]) != 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b[:])
}

func (c *Cursor) I16() int16 {
	return int16(c.U16())
}

func (c *Cursor) I32() int32 {
	return int32(c.U32())
}

// String reads a u16 length prefix followed by that many bytes. The bytes
// are not null-terminated on disk. A truncated read yields the bytes that
// were present.
func (c *Cursor) String() string {
	n := int(c.U16())
	if n == 0 {
		return ""
	}
	b := make([]byte, n)
	got := c.src.Read(b)
	return string(b[:got])
}

// ReadFull fills p from the source and reports how many bytes were read.
func (c *Cursor) ReadFull(p []byte) int {
	return c.src.Read(p)
}

func (c *Cursor) Skip(n int) {
	c.src.Skip(n)
}

func (c *Cursor) Tell() int {
	return c.src.Tell()
}

func (c *Cursor) SeekTo(pos int) {
	c.src.Seek(pos)
}

func (c *Cursor) EOF() bool {
	return c.src.EOF()
}
