package boltokv

import (
	"context"

	"go.etcd.io/bbolt"

	"github.com/riftlabs/bptree"
)

// NewCursor implements bptree.ReadStore over the bucket, handing back a
// cursor backed by a fresh read-only transaction that lives as long as the
// cursor is open.
func (s *Store) NewCursor(ctx context.Context) (bptree.Cursor, error) {
	tx, err := s.db.Begin(false)
	if err != nil {
		return nil, err
	}
	return &cursor{tx: tx, c: tx.Bucket(bucketName).Cursor()}, nil
}

type cursor struct {
	tx       *bbolt.Tx
	c        *bbolt.Cursor
	key, val []byte
}

func (c *cursor) Seek(key []byte) bool {
	c.key, c.val = c.c.Seek(key)
	return c.key != nil
}

func (c *cursor) Next() bool {
	c.key, c.val = c.c.Next()
	return c.key != nil
}

func (c *cursor) Key() []byte   { return c.key }
func (c *cursor) Value() []byte { return c.val }
func (c *cursor) Close() error  { return c.tx.Rollback() }
