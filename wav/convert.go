// SPDX-License-Identifier: GPL-2.0-or-later

package wav

import (
	"encoding/binary"
	"fmt"
	"math"
)

// The converters change the sample encoding of Data in place, scaling
// through the full range of the source and target widths. 8-bit samples
// produced here are signed, unlike the unsigned 8-bit PCM a wave file
// stores; Float32 samples are little-endian IEEE floats in [-1, 1].

func (s *Sound) samples() int {
	return len(s.Data) / (s.Bits / 8)
}

// reformat fixes the derived fields after a width change.
func (s *Sound) reformat(bits int, data []byte) {
	s.Bits = bits
	s.Data = data
	s.BytesPerFrame = s.Channels * bits / 8
	s.ByteRate = s.SampleRate * s.BytesPerFrame
}

// To8Bit converts the sample data to signed 8-bit PCM.
func (s *Sound) To8Bit() error {
	switch s.Bits {
	case Bits8:
		return nil
	case Bits16:
		n := s.samples()
		out := make([]byte, n)
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(s.Data[i*2:]))
			out[i] = byte(int8(float32(v) / 32767.0 * 127.0))
		}
		s.reformat(Bits8, out)
		return nil
	case Float32:
		n := s.samples()
		out := make([]byte, n)
		for i := 0; i < n; i++ {
			f := math.Float32frombits(binary.LittleEndian.Uint32(s.Data[i*4:]))
			out[i] = byte(int8(f * 127.0))
		}
		s.reformat(Bits8, out)
		return nil
	}
	return fmt.Errorf("wav: cannot convert from %d bit samples", s.Bits)
}

// To16Bit converts the sample data to signed 16-bit PCM.
func (s *Sound) To16Bit() error {
	switch s.Bits {
	case Bits16:
		return nil
	case Bits8:
		n := s.samples()
		out := make([]byte, n*2)
		for i := 0; i < n; i++ {
			v := int16(float32(int8(s.Data[i])) / 127.0 * 32767.0)
			binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
		}
		s.reformat(Bits16, out)
		return nil
	case Float32:
		n := s.samples()
		out := make([]byte, n*2)
		for i := 0; i < n; i++ {
			f := math.Float32frombits(binary.LittleEndian.Uint32(s.Data[i*4:]))
			binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(f*32767.0)))
		}
		s.reformat(Bits16, out)
		return nil
	}
	return fmt.Errorf("wav: cannot convert from %d bit samples", s.Bits)
}

// ToFloat converts the sample data to 32-bit float samples in [-1, 1].
func (s *Sound) ToFloat() error {
	switch s.Bits {
	case Float32:
		return nil
	case Bits8:
		n := s.samples()
		out := make([]byte, n*4)
		for i := 0; i < n; i++ {
			f := float32(int8(s.Data[i])) / 127.0
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
		}
		s.reformat(Float32, out)
		return nil
	case Bits16:
		n := s.samples()
		out := make([]byte, n*4)
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(s.Data[i*2:]))
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(float32(v)/32767.0))
		}
		s.reformat(Float32, out)
		return nil
	}
	return fmt.Errorf("wav: cannot convert from %d bit samples", s.Bits)
}
