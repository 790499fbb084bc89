// SPDX-License-Identifier: GPL-2.0-or-later

// Package wav loads PCM audio from RIFF wave files: the format chunk, the
// data chunk, nothing else. Unknown chunks are skipped by their declared
// size.
package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	mono   = 1
	stereo = 2
)

// Sample encodings held in Sound.Data. The loader produces 8 or 16 bit
// integer PCM; Float32 only appears after an in-memory conversion.
const (
	Bits8   = 8
	Bits16  = 16
	Float32 = 32
)

// Sound is a fully loaded wave file. Data holds raw little-endian sample
// frames in the encoding named by Bits.
type Sound struct {
	Channels      int
	SampleRate    int
	ByteRate      int
	BytesPerFrame int
	Bits          int
	Data          []byte
}

// Frames returns the number of sample frames.
func (s *Sound) Frames() int {
	if s.BytesPerFrame == 0 {
		return 0
	}
	return len(s.Data) / s.BytesPerFrame
}

// Duration returns the playing time of the sample data.
func (s *Sound) Duration() time.Duration {
	if s.SampleRate == 0 {
		return 0
	}
	return time.Duration(s.Frames()) * time.Second / time.Duration(s.SampleRate)
}

type header struct {
	ID   [4]byte
	Size uint32
}

type waveHeader struct {
	ID       [4]byte // better be RIFF
	Size     uint32  // file size - 8
	RiffType [4]byte // better be WAVE
}

type waveFmt struct {
	CompressionCode uint16 // better be PCM (0x0001)
	ChannelNum      uint16 // expect 1 or 2
	SampleRate      uint32
	ByteRate        uint32
	BytesPerFrame   uint16
	BitsPerSample   uint16
}

// Load reads the wave file at path.
func Load(path string) (*Sound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "wav: open")
	}
	defer f.Close()
	return Decode(f)
}

// DecodeBytes loads a wave file held in memory.
func DecodeBytes(b []byte) (*Sound, error) {
	return Decode(bytes.NewReader(b))
}

// Decode loads a wave file from r, starting at its current position. The
// position is left after the data chunk.
func Decode(r io.ReadSeeker) (*Sound, error) {
	wh := waveHeader{} // 12 byte
	if err := binary.Read(r, binary.LittleEndian, &wh); err != nil {
		return nil, fmt.Errorf("failed to read header: %v", err)
	}
	if wh.ID != [4]byte{'R', 'I', 'F', 'F'} ||
		wh.RiffType != [4]byte{'W', 'A', 'V', 'E'} {
		return nil, fmt.Errorf("file is not a RIFF wave file")
	}

	snd := &Sound{}
	gotFMT := false
	for {
		var h header
		if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read chunk header: %v", err)
		}
		size := int64(h.Size)
		if size%2 != 0 {
			// Chunks are WORD aligned with 0 padding, but 'size'
			// does not include the padding.
			size++
		}

		switch h.ID {
		case [4]byte{'f', 'm', 't', ' '}:
			if h.Size < 16 {
				return nil, fmt.Errorf("got broken fmt chunk")
			}
			var f waveFmt
			if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
				return nil, fmt.Errorf("failed to read fmt chunk: %v", err)
			}
			if f.CompressionCode != 0x0001 {
				return nil, fmt.Errorf("invalid sound format: %v", f.CompressionCode)
			}
			if f.ChannelNum != mono && f.ChannelNum != stereo {
				return nil, fmt.Errorf("invalid number of sound channels: %v", f.ChannelNum)
			}
			if f.BitsPerSample != Bits8 && f.BitsPerSample != Bits16 {
				return nil, fmt.Errorf("invalid sound bitrate: %v", f.BitsPerSample)
			}
			snd.Channels = int(f.ChannelNum)
			snd.SampleRate = int(f.SampleRate)
			snd.ByteRate = int(f.ByteRate)
			snd.BytesPerFrame = int(f.BytesPerFrame)
			snd.Bits = int(f.BitsPerSample)
			gotFMT = true
			if rest := size - 16; rest > 0 {
				if _, err := r.Seek(rest, io.SeekCurrent); err != nil {
					return nil, fmt.Errorf("seek error: %v", err)
				}
			}

		case [4]byte{'d', 'a', 't', 'a'}:
			if !gotFMT {
				return nil, fmt.Errorf("data chunk before fmt chunk")
			}
			snd.Data = make([]byte, h.Size)
			if _, err := io.ReadFull(r, snd.Data); err != nil {
				return nil, fmt.Errorf("short data chunk: %v", err)
			}
			return snd, nil

		default:
			if _, err := r.Seek(size, io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("seek error: %v", err)
			}
		}
	}
	return nil, fmt.Errorf("no data chunk found")
}
