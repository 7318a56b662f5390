// Package source resolves media file paths into decoded, playable handles
// and memoizes them for the process lifetime. Decoding a file is the only
// potentially slow operation in the trigger path, so every path is decoded
// at most once; all instruments and notes referencing the same file share
// one handle.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shaban/miditrig/host"
)

// Decoder turns a media file on disk into a playable Source.
type Decoder interface {
	Decode(path string) (host.Source, error)
}

// Cache memoizes decoded media handles by normalized path.
//
// Entries are created lazily on first resolution and never evicted. Decode
// failures are returned to the caller but not cached, so a later resolution
// of the same path retries the decode (the file may have appeared or been
// fixed in the meantime).
type Cache struct {
	mu      sync.RWMutex
	decoder Decoder
	sources map[string]host.Source
}

// NewCache creates an empty cache backed by the given decoder.
func NewCache(decoder Decoder) (*Cache, error) {
	if decoder == nil {
		return nil, errors.New("decoder cannot be nil")
	}
	return &Cache{
		decoder: decoder,
		sources: make(map[string]host.Source),
	}, nil
}

// Resolve returns the decoded handle for path, decoding it on first use.
// Two resolutions of the same path (modulo separator normalization) return
// the identical handle.
func (c *Cache) Resolve(path string) (host.Source, error) {
	if path == "" {
		return nil, errors.New("empty media path")
	}
	key := Normalize(path)

	c.mu.RLock()
	src, ok := c.sources[key]
	c.mu.RUnlock()
	if ok {
		return src, nil
	}

	src, err := c.decoder.Decode(key)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}

	c.mu.Lock()
	// Another resolver may have won the race; keep the first handle so all
	// callers see the same one.
	if cached, ok := c.sources[key]; ok {
		src = cached
	} else {
		c.sources[key] = src
	}
	c.mu.Unlock()

	return src, nil
}

// Len returns the number of cached handles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sources)
}

// Normalize unifies path separators so the same file referenced with
// foreign-platform separators maps to one cache entry.
func Normalize(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return filepath.FromSlash(path)
}
