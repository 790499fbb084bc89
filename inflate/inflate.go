// SPDX-License-Identifier: GPL-2.0-or-later

// Package inflate decompresses DEFLATE streams and their zlib framing.
//
// The whole input must be in memory; decoding is a single call, not a
// streaming reader. The Adler-32 trailer of a zlib stream is not verified.
// Every call owns all of its state, so the package is safe for concurrent
// use from multiple goroutines.
package inflate

import "errors"

var (
	ErrHeader      = errors.New("inflate: bad zlib header")
	ErrBlockType   = errors.New("inflate: bad block type")
	ErrCodeLengths = errors.New("inflate: bad code lengths")
	ErrSymbol      = errors.New("inflate: bad huffman code")
	ErrDistance    = errors.New("inflate: distance too far back")
	ErrTruncated   = errors.New("inflate: unexpected end of stream")
	ErrStoredCheck = errors.New("inflate: stored block length check failed")
	ErrOutputLimit = errors.New("inflate: output buffer too small")
)

// Decode decompresses the zlib stream in src into dst and returns the
// number of bytes written. dst must be at least as large as the
// decompressed data; a stream producing more than len(dst) bytes fails
// with ErrOutputLimit. Bytes in src past the end of the stream are
// ignored.
func Decode(dst, src []byte) (int, error) {
	return decodeInto(dst, src, true)
}

// DecodeNoHeader is Decode for a raw DEFLATE stream without zlib framing.
func DecodeNoHeader(dst, src []byte) (int, error) {
	return decodeInto(dst, src, false)
}

// DecodeAll decompresses the zlib stream in src into a freshly allocated
// buffer. sizeHint seeds the output allocation and may be zero.
func DecodeAll(src []byte, sizeHint int) ([]byte, error) {
	return decodeAll(src, sizeHint, true)
}

// DecodeAllNoHeader is DecodeAll for a raw DEFLATE stream without zlib
// framing.
func DecodeAllNoHeader(src []byte, sizeHint int) ([]byte, error) {
	return decodeAll(src, sizeHint, false)
}

func decodeInto(dst, src []byte, header bool) (int, error) {
	// Cap at len(dst), not cap(dst): a re-sliced buffer with spare
	// capacity must not receive more bytes than documented.
	d := decoder{in: src, out: dst[:0:len(dst)]}
	if err := d.run(header); err != nil {
		return len(d.out), err
	}
	return len(d.out), nil
}

func decodeAll(src []byte, sizeHint int, header bool) ([]byte, error) {
	if sizeHint <= 0 {
		sizeHint = 64
	}
	d := decoder{in: src, out: make([]byte, 0, sizeHint), expandable: true}
	if err := d.run(header); err != nil {
		return nil, err
	}
	return d.out, nil
}

type decoder struct {
	in  []byte
	pos int

	code    uint32 // bit accumulator, next bit in the LSB
	nbits   int
	hitZeof bool

	out        []byte
	expandable bool

	length   huffman
	distance huffman
}

func (d *decoder) eof() bool {
	return d.pos >= len(d.in)
}

// get8 reads the next input byte, zero once the input is exhausted.
func (d *decoder) get8() byte {
	if d.pos >= len(d.in) {
		return 0
	}
	b := d.in[d.pos]
	d.pos++
	return b
}

func (d *decoder) fillBits() {
	for {
		if d.code >= 1<<uint(d.nbits) {
			// Accumulator holds bits beyond the advertised count.
			// The stream is corrupt, stop feeding it.
			d.pos = len(d.in)
			return
		}
		d.code |= uint32(d.get8()) << uint(d.nbits)
		d.nbits += 8
		if d.nbits > 24 {
			return
		}
	}
}

func (d *decoder) receive(n int) uint32 {
	if d.nbits < n {
		d.fillBits()
	}
	k := d.code & (1<<uint(n) - 1)
	d.code >>= uint(n)
	d.nbits -= n
	return k
}

func (d *decoder) huffDecode(h *huffman) (int, error) {
	if d.nbits < 16 {
		if d.eof() {
			if d.hitZeof {
				return 0, ErrTruncated
			}
			// Grant one window of phantom zero bits so a final code
			// flush against the end of input still decodes.
			d.hitZeof = true
			d.nbits += 16
		} else {
			d.fillBits()
		}
	}
	f := h.fast[d.code&fastMask]
	if f != 0 {
		s := int(f >> fastBits)
		d.code >>= uint(s)
		d.nbits -= s
		return int(f & fastMask), nil
	}
	return d.huffDecodeSlow(h)
}

func (d *decoder) huffDecodeSlow(h *huffman) (int, error) {
	k := bitReverse16(int(d.code & 0xffff))
	s := fastBits + 1
	for k >= h.maxCode[s] {
		s++
	}
	if s >= 16 {
		return 0, ErrSymbol
	}
	c := (k >> (16 - s)) - int(h.firstCode[s]) + int(h.firstSymbol[s])
	if c >= numSyms {
		return 0, ErrSymbol
	}
	if int(h.size[c]) != s {
		return 0, ErrSymbol
	}
	d.code >>= uint(s)
	d.nbits -= s
	return int(h.value[c]), nil
}

// ensure makes room for n more output bytes, doubling the buffer when
// growth is allowed.
func (d *decoder) ensure(n int) error {
	if len(d.out)+n <= cap(d.out) {
		return nil
	}
	if !d.expandable {
		return ErrOutputLimit
	}
	newCap := cap(d.out)
	if newCap == 0 {
		newCap = 1
	}
	for len(d.out)+n > newCap {
		newCap *= 2
	}
	grown := make([]byte, len(d.out), newCap)
	copy(grown, d.out)
	d.out = grown
	return nil
}

func (d *decoder) run(header bool) error {
	if header {
		if err := d.parseHeader(); err != nil {
			return err
		}
	}
	d.nbits = 0
	d.code = 0
	d.hitZeof = false
	for {
		final := d.receive(1)
		switch d.receive(2) {
		case 0:
			if err := d.parseStored(); err != nil {
				return err
			}
		case 1:
			if err := d.length.build(fixedLengthSizes[:]); err != nil {
				return err
			}
			if err := d.distance.build(fixedDistSizes[:]); err != nil {
				return err
			}
			if err := d.parseBlock(); err != nil {
				return err
			}
		case 2:
			if err := d.readCodeTables(); err != nil {
				return err
			}
			if err := d.parseBlock(); err != nil {
				return err
			}
		default:
			return ErrBlockType
		}
		if final != 0 {
			return nil
		}
	}
}

func (d *decoder) parseHeader() error {
	cmf := int(d.get8())
	flg := int(d.get8())
	if d.eof() {
		return ErrHeader
	}
	if (cmf*256+flg)%31 != 0 {
		return ErrHeader
	}
	if flg&0x20 != 0 {
		// Preset dictionaries are not supported.
		return ErrHeader
	}
	if cmf&15 != 8 {
		return ErrHeader
	}
	return nil
}

func (d *decoder) parseStored() error {
	var header [4]byte
	if d.nbits&7 != 0 {
		d.receive(d.nbits & 7) // discard to byte boundary
	}
	// Drain whole bytes still sitting in the accumulator.
	k := 0
	for d.nbits > 0 {
		header[k] = byte(d.code)
		k++
		d.code >>= 8
		d.nbits -= 8
	}
	if d.nbits < 0 {
		return ErrTruncated
	}
	for k < 4 {
		header[k] = d.get8()
		k++
	}
	length := int(header[1])<<8 | int(header[0])
	nlen := int(header[3])<<8 | int(header[2])
	if nlen != length^0xffff {
		return ErrStoredCheck
	}
	if d.pos+length > len(d.in) {
		return ErrTruncated
	}
	if err := d.ensure(length); err != nil {
		return err
	}
	d.out = append(d.out, d.in[d.pos:d.pos+length]...)
	d.pos += length
	return nil
}

func (d *decoder) readCodeTables() error {
	var codelength huffman
	var lencodes [286 + 32 + 137]byte // padded for one max-run overshoot
	var sizes [19]byte

	hlit := int(d.receive(5)) + 257
	hdist := int(d.receive(5)) + 1
	hclen := int(d.receive(4)) + 4
	total := hlit + hdist

	for i := 0; i < hclen; i++ {
		sizes[codeLengthOrder[i]] = byte(d.receive(3))
	}
	if err := codelength.build(sizes[:]); err != nil {
		return err
	}

	n := 0
	for n < total {
		c, err := d.huffDecode(&codelength)
		if err != nil {
			return err
		}
		if c < 0 || c >= 19 {
			return ErrCodeLengths
		}
		if c < 16 {
			lencodes[n] = byte(c)
			n++
			continue
		}
		var fill byte
		switch c {
		case 16:
			c = int(d.receive(2)) + 3
			if n == 0 {
				return ErrCodeLengths
			}
			fill = lencodes[n-1]
		case 17:
			c = int(d.receive(3)) + 3
		default:
			c = int(d.receive(7)) + 11
		}
		if total-n < c {
			return ErrCodeLengths
		}
		for i := 0; i < c; i++ {
			lencodes[n+i] = fill
		}
		n += c
	}
	if n != total {
		return ErrCodeLengths
	}
	if err := d.length.build(lencodes[:hlit]); err != nil {
		return err
	}
	return d.distance.build(lencodes[hlit : hlit+hdist])
}

func (d *decoder) parseBlock() error {
	for {
		sym, err := d.huffDecode(&d.length)
		if err != nil {
			return err
		}
		if sym < 256 {
			if err := d.ensure(1); err != nil {
				return err
			}
			d.out = append(d.out, byte(sym))
			continue
		}
		if sym == 256 {
			if d.hitZeof && d.nbits < 16 {
				// The end-of-block code decoded out of phantom
				// bits past the real input.
				return ErrTruncated
			}
			return nil
		}
		if sym >= 286 {
			return ErrSymbol
		}

		sym -= 257
		length := lengthBase[sym]
		if lengthExtra[sym] != 0 {
			length += int(d.receive(lengthExtra[sym]))
		}
		dsym, err := d.huffDecode(&d.distance)
		if err != nil {
			return err
		}
		if dsym >= 30 {
			return ErrSymbol
		}
		dist := distBase[dsym]
		if distExtra[dsym] != 0 {
			dist += int(d.receive(distExtra[dsym]))
		}
		if dist > len(d.out) {
			return ErrDistance
		}
		if err := d.ensure(length); err != nil {
			return err
		}
		p := len(d.out) - dist
		if dist == 1 {
			// Run of a single byte.
			v := d.out[p]
			for i := 0; i < length; i++ {
				d.out = append(d.out, v)
			}
		} else {
			for i := 0; i < length; i++ {
				d.out = append(d.out, d.out[p+i])
			}
		}
	}
}
