// Package cache decorates any bptree.BlockingBackend with a read-through
// LRU cache, built on github.com/elastic/go-freelru. This is a property of
// the backend composition, not of the tree itself: bptree.Tree holds no
// node cache of its own between public calls, but nothing stops a backend
// it talks to from caching raw records on its own side of the Store
// boundary -- which is what this package gives any backend for free.
package cache

import (
	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"

	"github.com/riftlabs/bptree"
)

// Backend wraps a bptree.BlockingBackend with an LRU cache of recently read
// or written values, keyed by the raw node/metadata key.
type Backend struct {
	inner bptree.BlockingBackend
	lru   *freelru.LRU[string, []byte]
}

// Wrap returns a cached view of inner holding up to capacity entries.
func Wrap(inner bptree.BlockingBackend, capacity uint32) (*Backend, error) {
	lru, err := freelru.New[string, []byte](capacity, hashString)
	if err != nil {
		return nil, err
	}
	return &Backend{inner: inner, lru: lru}, nil
}

func hashString(s string) uint32 {
	return uint32(xxhash.Sum64String(s))
}

func (b *Backend) Get(key []byte) ([]byte, bool, error) {
	if v, ok := b.lru.Get(string(key)); ok {
		return v, true, nil
	}
	v, found, err := b.inner.Get(key)
	if err != nil {
		return nil, false, err
	}
	if found {
		b.lru.Add(string(key), v)
	}
	return v, found, nil
}

func (b *Backend) Write(batch bptree.WriteBatch) error {
	if err := b.inner.Write(batch); err != nil {
		return err
	}
	for k, v := range batch.Sets {
		b.lru.Add(k, v)
	}
	for k := range batch.Deletes {
		b.lru.Remove(k)
	}
	return nil
}

var _ bptree.BlockingBackend = (*Backend)(nil)
