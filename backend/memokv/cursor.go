package memokv

import (
	"bytes"
	"context"
	"sort"

	"github.com/riftlabs/bptree"
)

// NewCursor implements bptree.ReadStore: external callers can walk the
// entire flat keyspace directly, something the tree itself never does on
// its own Store.
func (s *Store) NewCursor(ctx context.Context) (bptree.Cursor, error) {
	return &cursor{s: s, pos: -1}, nil
}

type cursor struct {
	s        *Store
	snapshot []kv
	pos      int
}

func (c *cursor) ensureSnapshot() {
	if c.snapshot == nil {
		c.s.mu.Lock()
		c.snapshot = append([]kv(nil), c.s.items...)
		c.s.mu.Unlock()
	}
}

func (c *cursor) Seek(key []byte) bool {
	c.ensureSnapshot()
	c.pos = sort.Search(len(c.snapshot), func(i int) bool {
		return bytes.Compare(c.snapshot[i].key, key) >= 0
	})
	return c.pos < len(c.snapshot)
}

func (c *cursor) Next() bool {
	c.ensureSnapshot()
	c.pos++
	return c.pos < len(c.snapshot)
}

func (c *cursor) Key() []byte {
	if c.pos < 0 || c.pos >= len(c.snapshot) {
		return nil
	}
	return c.snapshot[c.pos].key
}

func (c *cursor) Value() []byte {
	if c.pos < 0 || c.pos >= len(c.snapshot) {
		return nil
	}
	return c.snapshot[c.pos].value
}

func (c *cursor) Close() error { return nil }
