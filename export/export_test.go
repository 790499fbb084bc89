// SPDX-License-Identifier: GPL-2.0-or-later

package export

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/pennie-quinn/paq/ase"
)

// testSprite builds a 1x1 document with n solid single-cel frames.
func testSprite(n int) *ase.Sprite {
	s := &ase.Sprite{Width: 1, Height: 1, Depth: ase.RGBA}
	s.Layers = []ase.Layer{
		{Name: "a", Flags: ase.LayerVisible, Kind: ase.LayerImage, Parent: ase.NoLayer, Opacity: 255},
	}
	for i := 0; i < n; i++ {
		s.Frames = append(s.Frames, ase.Frame{
			Duration: 100,
			Cels: []ase.Cel{{
				Layer: 0, W: 1, H: 1, Link: -1, Opacity: 255,
				Pixels: ase.RGBAPixels{byte(i * 10), 0, 0, 255},
			}},
		})
	}
	return s
}

func TestPNG(t *testing.T) {
	s := testSprite(1)
	var buf bytes.Buffer
	if err := PNG(s, 0, 1, &buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Errorf("bounds = %v, want 1x1", img.Bounds())
	}
}

func TestPNGScaled(t *testing.T) {
	s := testSprite(1)
	var buf bytes.Buffer
	if err := PNG(s, 0, 4, &buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("bounds = %v, want 4x4", img.Bounds())
	}
}

func TestSheet(t *testing.T) {
	s := testSprite(3)
	var buf bytes.Buffer
	if err := Sheet(s, &buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("sheet width = %d, want 3", img.Bounds().Dx())
	}
}

func TestGIFAllFrames(t *testing.T) {
	s := testSprite(3)
	g, err := GIF(s, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 3 {
		t.Fatalf("frames = %d, want 3", len(g.Image))
	}
	for i, d := range g.Delay {
		if d != 10 {
			t.Errorf("delay %d = %d, want 10cs from a 100ms frame", i, d)
		}
	}
}

func TestGIFTagDirections(t *testing.T) {
	s := testSprite(4)
	for _, tc := range []struct {
		tag  ase.Tag
		want int
	}{
		{ase.Tag{Name: "fwd", From: 1, To: 3, Dir: ase.Forward}, 3},
		{ase.Tag{Name: "rev", From: 1, To: 3, Dir: ase.Reverse}, 3},
		{ase.Tag{Name: "pp", From: 1, To: 3, Dir: ase.PingPong}, 4},
		{ase.Tag{Name: "one", From: 2, To: 2, Dir: ase.PingPong}, 1},
	} {
		g, err := GIF(s, &tc.tag, 1)
		if err != nil {
			t.Fatalf("%s: %v", tc.tag.Name, err)
		}
		if len(g.Image) != tc.want {
			t.Errorf("%s: frames = %d, want %d", tc.tag.Name, len(g.Image), tc.want)
		}
	}
}

func TestGIFPingPongSequence(t *testing.T) {
	s := testSprite(3)
	tag := &ase.Tag{Name: "pp", From: 0, To: 2, Dir: ase.PingPong}
	seq, err := frameSequence(s, tag)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 1, 2, 1}
	if len(seq) != len(want) {
		t.Fatalf("sequence = %v, want %v", seq, want)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("sequence = %v, want %v", seq, want)
		}
	}
}

func TestGIFBadTagRange(t *testing.T) {
	s := testSprite(2)
	tag := &ase.Tag{Name: "broken", From: 0, To: 5, Dir: ase.Forward}
	if _, err := GIF(s, tag, 1); err == nil {
		t.Error("expected an error for a tag past the last frame")
	}
}

func TestWriteGIF(t *testing.T) {
	s := testSprite(2)
	var buf bytes.Buffer
	if err := WriteGIF(s, nil, 1, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 || !bytes.HasPrefix(buf.Bytes(), []byte("GIF8")) {
		t.Error("output does not look like a GIF")
	}
}
