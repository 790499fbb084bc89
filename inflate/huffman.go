// SPDX-License-Identifier: GPL-2.0-or-later

package inflate

const (
	fastBits = 9
	fastMask = (1 << fastBits) - 1
	numSyms  = 288
)

// huffman is a canonical Huffman decoding table. Codes of at most fastBits
// bits resolve with a single table lookup; longer codes fall back to a
// per-length binary range check on the bit-reversed accumulator.
type huffman struct {
	fast        [1 << fastBits]uint16
	firstCode   [16]uint16
	maxCode     [17]int
	firstSymbol [16]uint16
	size        [numSyms]byte
	value       [numSyms]uint16
}

func bitReverse16(n int) int {
	n = ((n & 0xAAAA) >> 1) | ((n & 0x5555) << 1)
	n = ((n & 0xCCCC) >> 2) | ((n & 0x3333) << 2)
	n = ((n & 0xF0F0) >> 4) | ((n & 0x0F0F) << 4)
	n = ((n & 0xFF00) >> 8) | ((n & 0x00FF) << 8)
	return n
}

func bitReverse(v, bits int) int {
	// DEFLATE codes arrive LSB first, the range checks want them MSB first.
	return bitReverse16(v) >> (16 - bits)
}

// build assigns canonical codes to the given code lengths and fills the
// lookup tables. A length table promising more codes than a bit width can
// hold, or over-subscribing the code space, is rejected.
func (h *huffman) build(sizes []byte) error {
	var sizeCount [17]int
	var nextCode [16]int

	for _, s := range sizes {
		sizeCount[s]++
	}
	sizeCount[0] = 0
	for i := 1; i < 16; i++ {
		if sizeCount[i] > 1<<i {
			return ErrCodeLengths
		}
	}

	for i := range h.fast {
		h.fast[i] = 0
	}

	code := 0
	k := 0
	for i := 1; i < 16; i++ {
		nextCode[i] = code
		h.firstCode[i] = uint16(code)
		h.firstSymbol[i] = uint16(k)
		code += sizeCount[i]
		if sizeCount[i] != 0 && code-1 >= 1<<i {
			return ErrCodeLengths
		}
		h.maxCode[i] = code << (16 - i) // preshift for decode comparison
		code <<= 1
		k += sizeCount[i]
	}
	h.maxCode[16] = 0x10000 // sentinel

	for sym, s := range sizes {
		if s == 0 {
			continue
		}
		c := nextCode[s] - int(h.firstCode[s]) + int(h.firstSymbol[s])
		h.size[c] = s
		h.value[c] = uint16(sym)
		if int(s) <= fastBits {
			// Replicate the entry for every accumulator value that
			// begins with this code.
			j := bitReverse(nextCode[s], int(s))
			fast := uint16(s)<<fastBits | uint16(sym)
			for j < 1<<fastBits {
				h.fast[j] = fast
				j += 1 << s
			}
		}
		nextCode[s]++
	}
	return nil
}

// Base values and extra-bit counts for the length codes 257..285 and the
// distance codes 0..29.
var (
	lengthBase = [31]int{
		3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
		35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
	}
	lengthExtra = [31]int{
		0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
		3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5,
	}
	distBase = [32]int{
		1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
		257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145,
		8193, 12289, 16385, 24577,
	}
	distExtra = [32]int{
		0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
		7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
	}
)

// Order in which code lengths for the code-length alphabet are stored in a
// dynamic block header.
var codeLengthOrder = [19]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// Fixed-block code lengths, RFC 1951 section 3.2.6.
var (
	fixedLengthSizes [numSyms]byte
	fixedDistSizes   [32]byte
)

func init() {
	i := 0
	for ; i <= 143; i++ {
		fixedLengthSizes[i] = 8
	}
	for ; i <= 255; i++ {
		fixedLengthSizes[i] = 9
	}
	for ; i <= 279; i++ {
		fixedLengthSizes[i] = 7
	}
	for ; i <= 287; i++ {
		fixedLengthSizes[i] = 8
	}
	for j := range fixedDistSizes {
		fixedDistSizes[j] = 5
	}
}
