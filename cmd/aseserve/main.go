// SPDX-License-Identifier: GPL-2.0-or-later

// aseserve serves sprite documents from a directory as PNG and animated
// GIF.
//
//	GET /sprite/{name}.png            first frame
//	GET /sprite/{name}/frame/{n}.png  one frame
//	GET /sprite/{name}.gif            animation, ?tag= selects a tag
//
// A ?scale= query parameter upscales any of them.
package main

import (
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/pennie-quinn/paq/ase"
	"github.com/pennie-quinn/paq/export"
	"github.com/pennie-quinn/paq/precache"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address")
	spriteDir     = flag.String("dir", ".", "directory holding .ase files")
	cacheSize     = flag.Int("cache_size", 64, "number of decoded documents kept in memory")
)

type server struct {
	cache *precache.Cache[*ase.Sprite]
}

func (s *server) sprite(w http.ResponseWriter, r *http.Request) (*ase.Sprite, bool) {
	name := mux.Vars(r)["name"]
	if strings.ContainsAny(name, "/\\") || name == ".." {
		http.Error(w, "bad sprite name", http.StatusBadRequest)
		return nil, false
	}
	doc, err := s.cache.Get(filepath.Join(*spriteDir, name+".ase"))
	if err != nil {
		glog.Warningf("load %s: %v", name, err)
		http.Error(w, "sprite not found", http.StatusNotFound)
		return nil, false
	}
	return doc, true
}

func scaleOf(r *http.Request) int {
	if s, err := strconv.Atoi(r.URL.Query().Get("scale")); err == nil && s > 0 && s <= 16 {
		return s
	}
	return 1
}

func (s *server) pngHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.sprite(w, r)
	if !ok {
		return
	}
	frame := 0
	if n := mux.Vars(r)["n"]; n != "" {
		frame, _ = strconv.Atoi(n)
	}
	w.Header().Set("Content-Type", "image/png")
	if err := export.PNG(doc, frame, scaleOf(r), w); err != nil {
		glog.Warningf("png %s: %v", r.URL.Path, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func (s *server) gifHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.sprite(w, r)
	if !ok {
		return
	}
	var tag *ase.Tag
	if name := r.URL.Query().Get("tag"); name != "" {
		if tag = doc.TagByName(name); tag == nil {
			http.Error(w, "no such tag", http.StatusNotFound)
			return
		}
	}
	w.Header().Set("Content-Type", "image/gif")
	if err := export.WriteGIF(doc, tag, scaleOf(r), w); err != nil {
		glog.Warningf("gif %s: %v", r.URL.Path, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func main() {
	flag.Parse()

	cache, err := precache.Sprites(*cacheSize)
	if err != nil {
		glog.Exit(err)
	}
	s := &server{cache: cache}

	r := mux.NewRouter()
	r.HandleFunc("/sprite/{name}.png", s.pngHandler)
	r.HandleFunc("/sprite/{name}.gif", s.gifHandler)
	r.HandleFunc("/sprite/{name}/frame/{n:[0-9]+}.png", s.pngHandler)

	glog.Infof("serving %s on %s", *spriteDir, *listenAddress)
	err = http.ListenAndServe(*listenAddress,
		handlers.CombinedLoggingHandler(os.Stdout, r))
	glog.Exit(err)
}
