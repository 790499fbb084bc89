// SPDX-License-Identifier: GPL-2.0-or-later

// Package stream provides the byte sources the asset decoders read from.
//
// Sources are forgiving by contract: a read past the end returns fewer (or
// zero) bytes instead of an error, and an I/O failure is indistinguishable
// from end-of-stream. Decoders detect corruption through semantic checks
// (magic numbers, depth fields) on the values they read, not through I/O
// errors.
package stream

import "io"

// Source is a randomly positionable byte stream. Decoders seek both forward
// and backward, so forward-only inputs must be buffered before use (wrap the
// data in NewBytes) or handle positioning internally (Funcs).
type Source interface {
	// Read fills p with as many bytes as are available and reports how
	// many were actually read. Zero past the end, never an error.
	Read(p []byte) int
	// Skip advances the position by n bytes.
	Skip(n int)
	// EOF reports whether the end of the stream has been reached.
	EOF() bool
	// Tell returns the current absolute position.
	Tell() int
	// Seek sets the absolute position.
	Seek(pos int)
}

// Bytes is an in-memory Source over a byte slice.
type Bytes struct {
	buf []byte
	pos int
}

func NewBytes(buf []byte) *Bytes {
	return &Bytes{buf: buf}
}

func (b *Bytes) Read(p []byte) int {
	if b.pos >= len(b.buf) {
		return 0
	}
	n := copy(p, b.buf[b.pos:])
	b.pos += n
	return n
}

func (b *Bytes) Skip(n int) {
	b.pos += n
	if b.pos > len(b.buf) {
		b.pos = len(b.buf)
	}
}

func (b *Bytes) EOF() bool {
	return b.pos >= len(b.buf)
}

func (b *Bytes) Tell() int {
	return b.pos
}

func (b *Bytes) Seek(pos int) {
	b.pos = pos
}

// Seeker adapts an io.ReadSeeker (an *os.File, a bytes.Reader) to a Source.
type Seeker struct {
	r   io.ReadSeeker
	eof bool
}

func NewSeeker(r io.ReadSeeker) *Seeker {
	return &Seeker{r: r}
}

func (s *Seeker) Read(p []byte) int {
	n, err := io.ReadFull(s.r, p)
	if err != nil {
		s.eof = true
	}
	return n
}

func (s *Seeker) Skip(n int) {
	s.r.Seek(int64(n), io.SeekCurrent)
}

// EOF is sticky like feof: it reports true only once a read came up short.
// A Seek clears it.
func (s *Seeker) EOF() bool {
	return s.eof
}

func (s *Seeker) Tell() int {
	pos, err := s.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0
	}
	return int(pos)
}

func (s *Seeker) Seek(pos int) {
	s.r.Seek(int64(pos), io.SeekStart)
	s.eof = false
}

// Funcs adapts user callbacks to a Source, for inputs that are neither a
// byte slice nor an io.ReadSeeker. All five callbacks must be set.
type Funcs struct {
	ReadFunc func(p []byte) int
	SkipFunc func(n int)
	EOFFunc  func() bool
	TellFunc func() int
	SeekFunc func(pos int)
}

func (f Funcs) Read(p []byte) int { return f.ReadFunc(p) }
func (f Funcs) Skip(n int)        { f.SkipFunc(n) }
func (f Funcs) EOF() bool         { return f.EOFFunc() }
func (f Funcs) Tell() int         { return f.TellFunc() }
func (f Funcs) Seek(pos int)      { f.SeekFunc(pos) }
