// SPDX-License-Identifier: GPL-2.0-or-later

package wav

import (
	"fmt"

	"github.com/gopxl/beep/v2"
)

// Streamer plays a Sound's sample data as a beep.StreamSeeker. It expects
// the encoding as loaded from disk: unsigned 8-bit or signed 16-bit PCM,
// mono or stereo. Mono input is mirrored onto both output channels.
type Streamer struct {
	snd *Sound
	pos int // byte offset into snd.Data
	err error
}

// Streamer returns a fresh streamer positioned at the first frame.
func (s *Sound) Streamer() (*Streamer, error) {
	if s.Bits != Bits8 && s.Bits != Bits16 {
		return nil, fmt.Errorf("wav: cannot stream %d bit samples", s.Bits)
	}
	if s.Channels != mono && s.Channels != stereo {
		return nil, fmt.Errorf("wav: cannot stream %d channels", s.Channels)
	}
	if s.BytesPerFrame <= 0 {
		return nil, fmt.Errorf("wav: bad frame size %d", s.BytesPerFrame)
	}
	return &Streamer{snd: s}, nil
}

// Format describes the stream for speaker initialization.
func (s *Sound) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(s.SampleRate),
		NumChannels: s.Channels,
		Precision:   s.Bits / 8,
	}
}

func (st *Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	s := st.snd
	if st.err != nil || st.pos >= len(s.Data) {
		return 0, false
	}
	bytesPerFrame := s.BytesPerFrame
	want := len(samples) * bytesPerFrame
	avail := len(s.Data) - st.pos
	numBytes := min(want, avail)
	d := s.Data[st.pos : st.pos+numBytes]
	switch {
	case s.Bits == Bits8 && s.Channels == mono:
		for i, j := 0, 0; i <= numBytes-bytesPerFrame; i, j = i+bytesPerFrame, j+1 {
			val := float64(d[i])/(1<<8)*2 - 1
			samples[j][0] = val
			samples[j][1] = val
		}
	case s.Bits == Bits8 && s.Channels == stereo:
		for i, j := 0, 0; i <= numBytes-bytesPerFrame; i, j = i+bytesPerFrame, j+1 {
			samples[j][0] = float64(d[i+0])/(1<<8)*2 - 1
			samples[j][1] = float64(d[i+1])/(1<<8)*2 - 1
		}
	case s.Bits == Bits16 && s.Channels == mono:
		for i, j := 0, 0; i <= numBytes-bytesPerFrame; i, j = i+bytesPerFrame, j+1 {
			val := float64(int16(d[i+0])+int16(d[i+1])*(1<<8)) / (1 << 15)
			samples[j][0] = val
			samples[j][1] = val
		}
	case s.Bits == Bits16 && s.Channels == stereo:
		for i, j := 0, 0; i <= numBytes-bytesPerFrame; i, j = i+bytesPerFrame, j+1 {
			samples[j][0] = float64(int16(d[i+0])+int16(d[i+1])*(1<<8)) / (1 << 15)
			samples[j][1] = float64(int16(d[i+2])+int16(d[i+3])*(1<<8)) / (1 << 15)
		}
	}
	st.pos += numBytes
	return numBytes / bytesPerFrame, true
}

func (st *Streamer) Err() error {
	return st.err
}

func (st *Streamer) Len() int {
	return len(st.snd.Data) / st.snd.BytesPerFrame
}

func (st *Streamer) Position() int {
	return st.pos / st.snd.BytesPerFrame
}

func (st *Streamer) Seek(p int) error {
	if p < 0 || st.Len() < p {
		return fmt.Errorf("seek position %d is out of range [%d,%d]", p, 0, st.Len())
	}
	st.pos = p * st.snd.BytesPerFrame
	return nil
}
