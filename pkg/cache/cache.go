// Package cache stores converted documents between builds.
//
// Extracting archives and converting binary documents to JSON is the slow
// part of a build. The converted JSON of each document is cached under a key
// derived from a hash of the game's reference file, so a game update
// invalidates every entry at once.
//
// # Backends
//
//   - [FileCache]: entries as files under a directory (CLI default)
//   - [RedisCache]: entries in Redis, shared between machines
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// A [Keyer] derives keys from the reference hash, archive path and document
// name. [ScopedKeyer] prefixes keys so several profiles can share one Redis
// database.
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().DocumentKey(ref, "Champions/Xerath.wad.client", "a1.json")
//	data, ok, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored data. A miss is reported as ok == false with a
	// nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// DocumentKey is the key of one converted document. ref identifies the
	// game build the document was extracted from.
	DocumentKey(ref, wad, bin string) string
}

// DefaultKeyer hashes the key components.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey returns "doc:" followed by a hash of ref, wad and bin.
func (DefaultKeyer) DocumentKey(ref, wad, bin string) string {
	return hashKey("doc", ref, wad, bin)
}

// ScopedKeyer wraps a Keyer with a prefix, so that several profiles can
// share one backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means the
// default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentKey returns the prefixed key.
func (k *ScopedKeyer) DocumentKey(ref, wad, bin string) string {
	return k.prefix + k.inner.DocumentKey(ref, wad, bin)
}
