package bptree

import "context"

// Ops is a batch of sets and deletes applied together by Write. Unlike the
// internal node-level WriteBatch (a single Store.Write call), Ops describes
// user keys and is applied key by key against the tree, with every
// resulting node mutation still collapsed into exactly one Store.Write.
type Ops struct {
	Sets    map[string][]byte
	Deletes [][]byte
}

// Get returns the value stored for key, or (nil, false) if key is absent.
func (t *Tree) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	_, _, leaf, err := t.descend(ctx, key, nil)
	if err != nil {
		return nil, false, err
	}
	idx, found := leafIndexFor(t.opts.Comparator, leaf, key)
	if !found {
		return nil, false, nil
	}
	return leaf.Values[idx], true, nil
}

// Set inserts or overwrites the value for key.
func (t *Tree) Set(ctx context.Context, key, value []byte) error {
	batch := newWriteBatch()
	if _, err := t.insertKey(ctx, key, value, &batch); err != nil {
		return err
	}
	t.saveMetadata(&batch)
	_, err := t.store.Write(ctx, batch).Await(ctx)
	return err
}

// Delete removes key, if present. Deleting an absent key is a no-op, not
// an error.
func (t *Tree) Delete(ctx context.Context, key []byte) error {
	batch := newWriteBatch()
	removed, err := t.removeKey(ctx, key, &batch)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}
	t.saveMetadata(&batch)
	_, err = t.store.Write(ctx, batch).Await(ctx)
	return err
}

// Write applies a batch of sets and deletes as a single Store.Write. Sets
// are applied before deletes within the batch, so setting and deleting the
// same key in one Ops deletes it.
func (t *Tree) Write(ctx context.Context, ops Ops) error {
	batch := newWriteBatch()
	for k, v := range ops.Sets {
		if _, err := t.insertKey(ctx, []byte(k), v, &batch); err != nil {
			return err
		}
	}
	for _, k := range ops.Deletes {
		if _, err := t.removeKey(ctx, k, &batch); err != nil {
			return err
		}
	}
	if batch.Empty() {
		return nil
	}
	t.saveMetadata(&batch)
	_, err := t.store.Write(ctx, batch).Await(ctx)
	return err
}

// RootID and Height expose the tree's current root identifier and height,
// mainly useful for tests asserting a particular shape after a sequence of
// operations (see the scenario tests).
func (t *Tree) RootID() NodeID { return t.rootID }
func (t *Tree) Height() int    { return t.height }
