// SPDX-License-Identifier: GPL-2.0-or-later

package stream

import (
	"bytes"
	"testing"
)

func TestBytesSource(t *testing.T) {
	b := NewBytes([]byte{1, 2, 3, 4, 5})
	p := make([]byte, 3)
	if n := b.Read(p); n != 3 {
		t.Errorf("Read = %d, want 3", n)
	}
	if !bytes.Equal(p, []byte{1, 2, 3}) {
		t.Errorf("Read got %v, want [1 2 3]", p)
	}
	if got := b.Tell(); got != 3 {
		t.Errorf("Tell = %d, want 3", got)
	}
	b.Skip(100)
	if got := b.Tell(); got != 5 {
		t.Errorf("Tell after clamped skip = %d, want 5", got)
	}
	if !b.EOF() {
		t.Error("EOF = false at end of buffer")
	}
	if n := b.Read(p); n != 0 {
		t.Errorf("Read past end = %d, want 0", n)
	}
	b.Seek(4)
	if b.EOF() {
		t.Error("EOF = true after seeking back")
	}
	if n := b.Read(p); n != 1 {
		t.Errorf("short Read = %d, want 1", n)
	}
	if p[0] != 5 {
		t.Errorf("short Read got %d, want 5", p[0])
	}
}

func TestCursorReads(t *testing.T) {
	c := NewCursor(NewBytes([]byte{
		0x2a,       // u8
		0x34, 0x12, // u16
		0x78, 0x56, 0x34, 0x12, // u32
		0xff, 0xff, // i16 -1
	}))
	if got := c.U8(); got != 0x2a {
		t.Errorf("U8 = %#x, want 0x2a", got)
	}
	if got := c.U16(); got != 0x1234 {
		t.Errorf("U16 = %#x, want 0x1234", got)
	}
	if got := c.U32(); got != 0x12345678 {
		t.Errorf("U32 = %#x, want 0x12345678", got)
	}
	if got := c.I16(); got != -1 {
		t.Errorf("I16 = %d, want -1", got)
	}
}

func TestCursorSoftEOF(t *testing.T) {
	// One byte left where a u32 is expected: the read comes back zero
	// and the cursor keeps working.
	c := NewCursor(NewBytes([]byte{0xaa}))
	if got := c.U32(); got != 0 {
		t.Errorf("truncated U32 = %#x, want 0", got)
	}
	if got := c.U8(); got != 0 {
		t.Errorf("U8 after exhausted source = %d, want 0", got)
	}
	if !c.EOF() {
		t.Error("EOF = false on exhausted source")
	}
}

func TestCursorString(t *testing.T) {
	c := NewCursor(NewBytes([]byte{5, 0, 'h', 'e', 'l', 'l', 'o'}))
	if got := c.String(); got != "hello" {
		t.Errorf("String = %q, want %q", got, "hello")
	}

	// Zero-length string.
	c = NewCursor(NewBytes([]byte{0, 0, 'x'}))
	if got := c.String(); got != "" {
		t.Errorf("empty String = %q, want \"\"", got)
	}

	// Length prefix promises more bytes than exist.
	c = NewCursor(NewBytes([]byte{9, 0, 'a', 'b'}))
	if got := c.String(); got != "ab" {
		t.Errorf("truncated String = %q, want %q", got, "ab")
	}
}

func TestCursorSeekTell(t *testing.T) {
	c := NewCursor(NewBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
	c.Skip(4)
	if got := c.Tell(); got != 4 {
		t.Errorf("Tell = %d, want 4", got)
	}
	if got := c.U8(); got != 5 {
		t.Errorf("U8 after skip = %d, want 5", got)
	}
	c.SeekTo(1)
	if got := c.U8(); got != 2 {
		t.Errorf("U8 after seek = %d, want 2", got)
	}
}

func TestSeekerSource(t *testing.T) {
	s := NewSeeker(bytes.NewReader([]byte{1, 2, 3, 4}))
	p := make([]byte, 2)
	if n := s.Read(p); n != 2 {
		t.Errorf("Read = %d, want 2", n)
	}
	if s.EOF() {
		t.Error("EOF = true before the end")
	}
	p = make([]byte, 8)
	if n := s.Read(p); n != 2 {
		t.Errorf("short Read = %d, want 2", n)
	}
	if !s.EOF() {
		t.Error("EOF = false after short read")
	}
	s.Seek(0)
	if s.EOF() {
		t.Error("EOF sticky across Seek")
	}
	if got := s.Tell(); got != 0 {
		t.Errorf("Tell = %d, want 0", got)
	}
	s.Skip(3)
	if got := s.Tell(); got != 3 {
		t.Errorf("Tell after skip = %d, want 3", got)
	}
}

func TestFuncsSource(t *testing.T) {
	b := NewBytes([]byte{7, 8, 9})
	f := Funcs{
		ReadFunc: b.Read,
		SkipFunc: b.Skip,
		EOFFunc:  b.EOF,
		TellFunc: b.Tell,
		SeekFunc: b.Seek,
	}
	c := NewCursor(f)
	c.Skip(1)
	if got := c.U8(); got != 8 {
		t.Errorf("U8 through Funcs = %d, want 8", got)
	}
	if got := c.Tell(); got != 2 {
		t.Errorf("Tell through Funcs = %d, want 2", got)
	}
}
