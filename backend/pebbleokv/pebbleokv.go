// Package pebbleokv backs bptree.Store with a github.com/cockroachdb/pebble
// LSM store, grounded in the retrieved benchmark suite's own Pebble wrapper
// -- there, Pebble played a competing index; here it plays bptree's
// backing store, which is exactly the OKV collaborator role the tree
// expects.
package pebbleokv

import (
	"context"

	"github.com/cockroachdb/pebble"

	"github.com/riftlabs/bptree"
)

type Store struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Get(key []byte) ([]byte, bool, error) {
	val, closer, err := s.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	out := append([]byte(nil), val...)
	closer.Close()
	return out, true, nil
}

func (s *Store) Write(batch bptree.WriteBatch) error {
	b := s.db.NewBatch()
	for k, v := range batch.Sets {
		if err := b.Set([]byte(k), v, nil); err != nil {
			return err
		}
	}
	for k := range batch.Deletes {
		if err := b.Delete([]byte(k), nil); err != nil {
			return err
		}
	}
	return b.Commit(pebble.Sync)
}

// NewCursor implements bptree.ReadStore over the full Pebble keyspace.
func (s *Store) NewCursor(ctx context.Context) (bptree.Cursor, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	return &cursor{iter: iter}, nil
}

type cursor struct {
	iter  *pebble.Iterator
	valid bool
}

func (c *cursor) Seek(key []byte) bool {
	c.valid = c.iter.SeekGE(key)
	return c.valid
}

func (c *cursor) Next() bool {
	c.valid = c.iter.Next()
	return c.valid
}

func (c *cursor) Key() []byte {
	if !c.valid {
		return nil
	}
	return c.iter.Key()
}

func (c *cursor) Value() []byte {
	if !c.valid {
		return nil
	}
	return c.iter.Value()
}

func (c *cursor) Close() error { return c.iter.Close() }

var _ bptree.BlockingBackend = (*Store)(nil)
