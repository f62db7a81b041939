// Package memokv is a pure in-memory ordered key-value store, holding a
// single flat keyspace -- the shape bptree.Store actually wants. Backend
// tests such as backend/cache run against it (bptree's own package tests
// use a private map backend instead, to avoid an import cycle), and it
// doubles as the simplest possible example of implementing bptree.Store.
package memokv

import (
	"bytes"
	"slices"
	"sort"
	"sync"

	"github.com/riftlabs/bptree"
)

type kv struct {
	key   []byte
	value []byte
}

// Store is a sorted-slice, mutex-guarded ordered key-value store. It
// implements both bptree.BlockingBackend (for bptree.NewBlockingStore) and
// bptree.ReadStore (for external range scans over the same keyspace).
type Store struct {
	mu    sync.Mutex
	items []kv // sorted by key
}

func New() *Store {
	return &Store{}
}

func (s *Store) find(key []byte) (idx int, ok bool) {
	i := sort.Search(len(s.items), func(i int) bool {
		return bytes.Compare(s.items[i].key, key) >= 0
	})
	return i, i < len(s.items) && bytes.Equal(s.items[i].key, key)
}

func (s *Store) Get(key []byte) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.find(key)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(s.items[i].value), true, nil
}

func (s *Store) Write(batch bptree.WriteBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range batch.Sets {
		s.putLocked([]byte(k), v)
	}
	for k := range batch.Deletes {
		s.deleteLocked([]byte(k))
	}
	return nil
}

func (s *Store) putLocked(key, value []byte) {
	key = slices.Clone(key)
	value = slices.Clone(value)
	i, ok := s.find(key)
	if ok {
		s.items[i].value = value
		return
	}
	s.items = slices.Insert(s.items, i, kv{key: key, value: value})
}

func (s *Store) deleteLocked(key []byte) {
	i, ok := s.find(key)
	if !ok {
		return
	}
	s.items = slices.Delete(s.items, i, i+1)
}

// Len returns the current key count (mostly useful in tests).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

var _ bptree.BlockingBackend = (*Store)(nil)
