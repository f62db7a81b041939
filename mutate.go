package bptree

import "context"

// insertKey finds or creates the slot for key within the tree and applies
// a set, batching every node write (leaf, any splits, the new root if one
// is created) into batch without touching the Store until the caller
// flushes it. Returns true if this was a fresh key (not an overwrite).
func (t *Tree) insertKey(ctx context.Context, key, value []byte, batch *WriteBatch) (inserted bool, err error) {
	path, leafID, leaf, err := t.descend(ctx, key, batch)
	if err != nil {
		return false, err
	}

	idx, found := leafIndexFor(t.opts.Comparator, leaf, key)
	if found {
		leaf.Values[idx] = value
		body, err := encodeLeaf(leaf)
		if err != nil {
			return false, err
		}
		batch.Set(leafID, body)
		return false, nil
	}

	leaf.Keys = insertAtBytes(leaf.Keys, idx, key)
	leaf.Values = insertAtBytes(leaf.Values, idx, value)

	if leaf.size() <= t.opts.MaxLeafSize {
		body, err := encodeLeaf(leaf)
		if err != nil {
			return false, err
		}
		batch.Set(leafID, body)
		return true, nil
	}

	left, right, sep := splitLeaf(leaf)
	rightID := t.allocate(KindLeaf)
	left.Next = rightID
	bodyL, err := encodeLeaf(left)
	if err != nil {
		return false, err
	}
	bodyR, err := encodeLeaf(right)
	if err != nil {
		return false, err
	}
	batch.Set(leafID, bodyL)
	batch.Set(rightID, bodyR)
	if err := t.insertIntoParent(path, leafID, rightID, sep, batch); err != nil {
		return false, err
	}
	return true, nil
}

// removeKey finds key within the tree and removes it, batching every node
// write from any borrow/merge/root-demotion needed to restore the minimum
// size invariant. Returns true if the key was present.
func (t *Tree) removeKey(ctx context.Context, key []byte, batch *WriteBatch) (removed bool, err error) {
	path, leafID, leaf, err := t.descend(ctx, key, batch)
	if err != nil {
		return false, err
	}
	idx, found := leafIndexFor(t.opts.Comparator, leaf, key)
	if !found {
		return false, nil
	}
	leaf.Keys = removeAtBytes(leaf.Keys, idx)
	leaf.Values = removeAtBytes(leaf.Values, idx)

	// Removing a leaf's first key changes its subtree's smallest key, so the
	// separator naming it in the nearest ancestor where this subtree is a
	// right-hand child must follow (I4).
	if idx == 0 && leaf.size() > 0 {
		for i := len(path) - 1; i >= 0; i-- {
			if step := path[i]; step.childIdx > 0 {
				step.node.Keys[step.childIdx-1] = leaf.Keys[0]
				body, err := encodeInternal(step.node)
				if err != nil {
					return false, err
				}
				batch.Set(step.id, body)
				break
			}
		}
	}

	if len(path) == 0 || leaf.size() >= minSize(t.opts.MaxLeafSize) {
		body, err := encodeLeaf(leaf)
		if err != nil {
			return false, err
		}
		batch.Set(leafID, body)
		return true, nil
	}
	if err := t.repairLeafUnderflow(ctx, path, leafID, leaf, batch); err != nil {
		return false, err
	}
	return true, nil
}
