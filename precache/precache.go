// SPDX-License-Identifier: GPL-2.0-or-later

// Package precache loads decoded assets ahead of use and keeps them
// available: a bounded cache keyed by path, and identity-tagged groups of
// documents loaded as a batch. Decoding is reentrant, so batch loads run
// concurrently.
package precache

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/pennie-quinn/paq/ase"
	"github.com/pennie-quinn/paq/wav"
)

// Cache is a bounded, path-keyed asset cache. A miss runs the load
// function; the least recently used entry is evicted when the cache is
// full.
type Cache[T any] struct {
	entries *lru.Cache[string, T]
	load    func(string) (T, error)
}

// NewCache builds a cache holding at most size loaded assets.
func NewCache[T any](size int, load func(string) (T, error)) (*Cache[T], error) {
	entries, err := lru.New[string, T](size)
	if err != nil {
		return nil, err
	}
	return &Cache[T]{entries: entries, load: load}, nil
}

// Sprites is a Cache preconfigured for sprite documents.
func Sprites(size int) (*Cache[*ase.Sprite], error) {
	return NewCache(size, ase.Load)
}

// Sounds is a Cache preconfigured for wave files.
func Sounds(size int) (*Cache[*wav.Sound], error) {
	return NewCache(size, wav.Load)
}

// Get returns the asset at path, loading it on a miss.
func (c *Cache[T]) Get(path string) (T, error) {
	if v, ok := c.entries.Get(path); ok {
		return v, nil
	}
	v, err := c.load(path)
	if err != nil {
		var zero T
		return zero, errors.Wrapf(err, "precache: load %s", path)
	}
	c.entries.Add(path, v)
	return v, nil
}

// Contains reports whether path is currently cached, without loading.
func (c *Cache[T]) Contains(path string) bool {
	return c.entries.Contains(path)
}

// Len returns the number of cached assets.
func (c *Cache[T]) Len() int {
	return c.entries.Len()
}

// Group is a batch of sprite documents preloaded together, identified by
// a unique id for bookkeeping across systems.
type Group struct {
	id      uuid.UUID
	paths   []string
	sprites []*ase.Sprite
}

// LoadGroup decodes all paths concurrently. Each document is decoded on
// its own goroutine; decoding shares no state between calls. The first
// failure aborts the batch.
func LoadGroup(paths ...string) (*Group, error) {
	g := &Group{
		id:      uuid.Must(uuid.NewV7()),
		paths:   paths,
		sprites: make([]*ase.Sprite, len(paths)),
	}
	var eg errgroup.Group
	for i, path := range paths {
		eg.Go(func() error {
			s, err := ase.Load(path)
			if err != nil {
				return errors.Wrapf(err, "precache: load %s", path)
			}
			g.sprites[i] = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return g, nil
}

// ID returns the group's identity handle.
func (g *Group) ID() uuid.UUID {
	return g.id
}

// Len returns the number of documents in the group.
func (g *Group) Len() int {
	return len(g.sprites)
}

// Sprite returns document i, nil when out of range.
func (g *Group) Sprite(i int) *ase.Sprite {
	if i < 0 || i >= len(g.sprites) {
		return nil
	}
	return g.sprites[i]
}

// Index returns the position of the document loaded from path.
func (g *Group) Index(path string) (int, bool) {
	for i, p := range g.paths {
		if p == path {
			return i, true
		}
	}
	return -1, false
}
