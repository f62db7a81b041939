// Package boltokv backs bptree.Store with a single go.etcd.io/bbolt
// bucket, flattened from a nested-bucket scheme to the one flat bucket
// bptree's keyspace needs.
package boltokv

import (
	"unsafe"

	"go.etcd.io/bbolt"

	"github.com/riftlabs/bptree"
)

var bucketName = unsafeBytesFromString("bptree")

// Store wraps a *bbolt.DB, applying every bptree.WriteBatch inside a
// single writable bbolt transaction so the batch is durable atomically to
// the extent bbolt itself guarantees.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) a bbolt file at path and returns a
// Store backed by it.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Get(key []byte) ([]byte, bool, error) {
	var value []byte
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get(key)
		if v != nil {
			found = true
			value = append([]byte(nil), v...)
		}
		return nil
	})
	return value, found, err
}

func (s *Store) Write(batch bptree.WriteBatch) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		for k, v := range batch.Sets {
			if err := b.Put([]byte(k), v); err != nil {
				return err
			}
		}
		for k := range batch.Deletes {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

func unsafeBytesFromString(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

var _ bptree.BlockingBackend = (*Store)(nil)
