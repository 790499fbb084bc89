// SPDX-License-Identifier: GPL-2.0-or-later

package ase

// Layer resolves a layer handle. It returns nil for NoLayer and for
// out-of-range values.
func (s *Sprite) Layer(id LayerID) *Layer {
	if id < 0 || int(id) >= len(s.Layers) {
		return nil
	}
	return &s.Layers[id]
}

// LayerByName returns the handle of the first layer with the given name,
// NoLayer if there is none.
func (s *Sprite) LayerByName(name string) LayerID {
	for i := range s.Layers {
		if s.Layers[i].Name == name {
			return LayerID(i)
		}
	}
	return NoLayer
}

// TagByName returns the first tag with the given name, nil if there is
// none.
func (s *Sprite) TagByName(name string) *Tag {
	for i := range s.Tags {
		if s.Tags[i].Name == name {
			return &s.Tags[i]
		}
	}
	return nil
}

// LinkedCel resolves c to the cel that owns its image. For a linked cel
// that is the first cel on the same layer in the target frame; for any
// other cel it is c itself. A dangling link resolves to nil.
func (s *Sprite) LinkedCel(c *Cel) *Cel {
	if c == nil {
		return nil
	}
	if !c.Linked() {
		return c
	}
	if c.Link >= len(s.Frames) {
		return nil
	}
	f := &s.Frames[c.Link]
	for i := range f.Cels {
		if f.Cels[i].Layer == c.Layer {
			return &f.Cels[i]
		}
	}
	return nil
}

// CelVisible reports whether the cel's layer has its visible flag set.
func (s *Sprite) CelVisible(c *Cel) bool {
	if c == nil {
		return false
	}
	l := s.Layer(c.Layer)
	return l != nil && l.Visible()
}

// NextFrame advances a frame index one step along the tag's loop.
//
// For PingPong tags the result can be negative: a value v < 0 stands for
// frame To+v, the backward leg of the loop. Callers must feed the raw
// value back in on the next step and translate only for display.
func (t *Tag) NextFrame(frame int) int {
	switch t.Dir {
	case Forward:
		frame++
		if frame > t.To {
			frame = t.From
		}
	case Reverse:
		frame--
		if frame < t.From {
			frame = t.To
		}
	case PingPong:
		if frame >= 0 {
			frame++
			if frame > t.To {
				frame = -1
				if t.To == t.From {
					frame = 0 // single-frame tag, nothing to bounce
				}
			}
		} else {
			frame--
			if frame < t.From {
				frame = 0
			}
		}
	}
	return frame
}

// FrameAt translates a NextFrame result to a concrete frame index,
// folding the negative PingPong encoding back into the tag's range.
func (t *Tag) FrameAt(frame int) int {
	if frame < 0 {
		return t.To + frame
	}
	return frame
}
