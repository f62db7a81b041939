package bptree

import "context"

// minSize is the role-parameterized underflow threshold for leaves: half of
// MaxLeafSize, rounded up. Using the node's own role (leaf vs internal)
// rather than always comparing against MaxLeafSize is the fix for the
// underflow-threshold bug called out in the design notes -- an internal
// node's minimum must be derived from MaxInternalSize, via minInternalSize
// below rather than this function.
func minSize(maxSize int) int {
	return (maxSize + 1) / 2
}

// minInternalSize is the underflow threshold for internal nodes: half of
// MaxInternalSize, rounded DOWN rather than up.
//
// splitInternal promotes one key out of the max+1 keys an overflowing node
// holds, leaving max keys to divide between the two halves. When max is
// odd, those max keys cannot be split into two halves that both meet a
// rounded-up minimum of ⌈max/2⌉ -- 2*⌈max/2⌉ exceeds max by one whenever
// max is odd, so the smaller half is always exactly ⌊max/2⌋. Enforcing
// ⌈max/2⌉ as the internal minimum would therefore flag a node this split
// itself just produced as underflowing, with no sibling able to fix it.
// The internal minimum is ⌊max/2⌋ for this reason; leaves have no such
// constraint since splitLeaf's two halves are never further split, so
// minSize above keeps the rounded-up threshold for them.
func minInternalSize(maxSize int) int {
	return maxSize / 2
}

func insertAtBytes(s [][]byte, idx int, v []byte) [][]byte {
	s = append(s, nil)
	copy(s[idx+1:], s[idx:])
	s[idx] = v
	return s
}

func insertAtID(s []NodeID, idx int, v NodeID) []NodeID {
	s = append(s, nil)
	copy(s[idx+1:], s[idx:])
	s[idx] = v
	return s
}

func removeAtBytes(s [][]byte, idx int) [][]byte {
	copy(s[idx:], s[idx+1:])
	return s[:len(s)-1]
}

func removeAtID(s []NodeID, idx int) []NodeID {
	copy(s[idx:], s[idx+1:])
	return s[:len(s)-1]
}

// splitLeaf splits an overflowing leaf in two, returning the left half
// (which keeps the original identity), the right half, and the separator
// key -- the first key of the right half, which is what a descent compares
// against to choose between the two going forward.
func splitLeaf(n *leafNode) (left, right *leafNode, sep []byte) {
	mid := len(n.Keys) / 2
	left = &leafNode{Keys: n.Keys[:mid], Values: n.Values[:mid]}
	right = &leafNode{Keys: n.Keys[mid:], Values: n.Values[mid:], Next: n.Next}
	sep = right.Keys[0]
	return
}

// splitInternal splits an overflowing internal node, promoting the middle
// separator key up to the caller rather than keeping a copy in either half
// (the classic B-tree key-promotion split, as opposed to a B+tree leaf
// split which duplicates the separator).
func splitInternal(n *internalNode) (left, right *internalNode, sep []byte) {
	mid := len(n.Keys) / 2
	sep = n.Keys[mid]
	left = &internalNode{Keys: n.Keys[:mid], Children: n.Children[:mid+1]}
	right = &internalNode{Keys: n.Keys[mid+1:], Children: n.Children[mid+1:]}
	return
}

// insertIntoParent propagates a split result one level up the captured
// descent path, possibly splitting the parent in turn, and possibly growing
// the tree by one level if the split reaches the root.
func (t *Tree) insertIntoParent(path []pathStep, leftID, rightID NodeID, sepKey []byte, batch *WriteBatch) error {
	if len(path) == 0 {
		newRoot := &internalNode{Keys: [][]byte{sepKey}, Children: []NodeID{leftID, rightID}}
		newRootID := t.allocate(KindInternal)
		body, err := encodeInternal(newRoot)
		if err != nil {
			return err
		}
		batch.Set(newRootID, body)
		t.rootID = newRootID
		t.height++
		return nil
	}

	step := path[len(path)-1]
	parent := step.node
	idx := step.childIdx
	parent.Children[idx] = leftID
	parent.Keys = insertAtBytes(parent.Keys, idx, sepKey)
	parent.Children = insertAtID(parent.Children, idx+1, rightID)

	if parent.size() <= t.opts.MaxInternalSize {
		body, err := encodeInternal(parent)
		if err != nil {
			return err
		}
		batch.Set(step.id, body)
		return nil
	}

	left, right, promoted := splitInternal(parent)
	rightID2 := t.allocate(KindInternal)
	bodyL, err := encodeInternal(left)
	if err != nil {
		return err
	}
	bodyR, err := encodeInternal(right)
	if err != nil {
		return err
	}
	batch.Set(step.id, bodyL)
	batch.Set(rightID2, bodyR)
	return t.insertIntoParent(path[:len(path)-1], step.id, rightID2, promoted, batch)
}

// repairLeafUnderflow restores the minimum-size invariant for a leaf that
// fell below it after a delete, trying borrow-left, borrow-right,
// merge-left, and merge-right in that order, per the design's priority.
func (t *Tree) repairLeafUnderflow(ctx context.Context, path []pathStep, id NodeID, node *leafNode, batch *WriteBatch) error {
	if len(path) == 0 {
		// The leaf is the root; underflow below the usual minimum is fine.
		body, err := encodeLeaf(node)
		if err != nil {
			return err
		}
		batch.Set(id, body)
		return nil
	}

	step := path[len(path)-1]
	parent := step.node
	idx := step.childIdx
	min := minSize(t.opts.MaxLeafSize)

	if idx > 0 {
		leftID := parent.Children[idx-1]
		leftLeaf, _, err := t.getNode(ctx, leftID, batch)
		if err != nil {
			return err
		}
		if leftLeaf != nil && leftLeaf.size() > min {
			n := leftLeaf.size()
			borrowedKey, borrowedVal := leftLeaf.Keys[n-1], leftLeaf.Values[n-1]
			leftLeaf.Keys, leftLeaf.Values = leftLeaf.Keys[:n-1], leftLeaf.Values[:n-1]
			node.Keys = insertAtBytes(node.Keys, 0, borrowedKey)
			node.Values = insertAtBytes(node.Values, 0, borrowedVal)
			parent.Keys[idx-1] = node.Keys[0]
			return t.flushLeafBorrow(leftID, leftLeaf, id, node, step, parent, batch)
		}
	}
	if idx < len(parent.Children)-1 {
		rightID := parent.Children[idx+1]
		rightLeaf, _, err := t.getNode(ctx, rightID, batch)
		if err != nil {
			return err
		}
		if rightLeaf != nil && rightLeaf.size() > min {
			borrowedKey, borrowedVal := rightLeaf.Keys[0], rightLeaf.Values[0]
			rightLeaf.Keys, rightLeaf.Values = rightLeaf.Keys[1:], rightLeaf.Values[1:]
			node.Keys = append(node.Keys, borrowedKey)
			node.Values = append(node.Values, borrowedVal)
			parent.Keys[idx] = rightLeaf.Keys[0]
			return t.flushLeafBorrow(rightID, rightLeaf, id, node, step, parent, batch)
		}
	}
	if idx > 0 {
		leftID := parent.Children[idx-1]
		leftLeaf, _, err := t.getNode(ctx, leftID, batch)
		if err != nil {
			return err
		}
		if leftLeaf != nil {
			leftLeaf.Keys = append(leftLeaf.Keys, node.Keys...)
			leftLeaf.Values = append(leftLeaf.Values, node.Values...)
			leftLeaf.Next = node.Next
			body, err := encodeLeaf(leftLeaf)
			if err != nil {
				return err
			}
			batch.Set(leftID, body)
			batch.Delete(id)
			parent.Keys = removeAtBytes(parent.Keys, idx-1)
			parent.Children = removeAtID(parent.Children, idx)
			return t.repairInternalAfterCollapse(ctx, path[:len(path)-1], step.id, parent, batch)
		}
	}
	if idx < len(parent.Children)-1 {
		rightID := parent.Children[idx+1]
		rightLeaf, _, err := t.getNode(ctx, rightID, batch)
		if err != nil {
			return err
		}
		if rightLeaf != nil {
			node.Keys = append(node.Keys, rightLeaf.Keys...)
			node.Values = append(node.Values, rightLeaf.Values...)
			node.Next = rightLeaf.Next
			body, err := encodeLeaf(node)
			if err != nil {
				return err
			}
			batch.Set(id, body)
			batch.Delete(rightID)
			parent.Keys = removeAtBytes(parent.Keys, idx)
			parent.Children = removeAtID(parent.Children, idx+1)
			return t.repairInternalAfterCollapse(ctx, path[:len(path)-1], step.id, parent, batch)
		}
	}
	// No sibling at all: this leaf is the sole child of its parent, which
	// only happens transiently at the root; nothing further to do.
	body, err := encodeLeaf(node)
	if err != nil {
		return err
	}
	batch.Set(id, body)
	return nil
}

func (t *Tree) flushLeafBorrow(sibID NodeID, sib *leafNode, id NodeID, node *leafNode, step pathStep, parent *internalNode, batch *WriteBatch) error {
	sibBody, err := encodeLeaf(sib)
	if err != nil {
		return err
	}
	nodeBody, err := encodeLeaf(node)
	if err != nil {
		return err
	}
	parentBody, err := encodeInternal(parent)
	if err != nil {
		return err
	}
	batch.Set(sibID, sibBody)
	batch.Set(id, nodeBody)
	batch.Set(step.id, parentBody)
	return nil
}

// repairInternalAfterCollapse writes the parent node after one of its
// children was removed by a merge, and continues the underflow repair
// upward if the parent itself is now too small -- or demotes the root if
// the parent is the root and has been reduced to a single child.
func (t *Tree) repairInternalAfterCollapse(ctx context.Context, path []pathStep, parentID NodeID, parent *internalNode, batch *WriteBatch) error {
	if len(path) == 0 {
		if len(parent.Children) == 1 {
			batch.Delete(parentID)
			t.rootID = parent.Children[0]
			t.height--
			return nil
		}
		body, err := encodeInternal(parent)
		if err != nil {
			return err
		}
		batch.Set(parentID, body)
		return nil
	}
	if parent.size() >= minInternalSize(t.opts.MaxInternalSize) {
		body, err := encodeInternal(parent)
		if err != nil {
			return err
		}
		batch.Set(parentID, body)
		return nil
	}
	return t.repairInternalUnderflow(ctx, path, parentID, parent, batch)
}

// repairInternalUnderflow is the internal-node counterpart of
// repairLeafUnderflow: same borrow-left/borrow-right/merge-left/merge-right
// priority, but moving (key, child) pairs and folding the parent separator
// into merges, per the classic B-tree merge rule.
func (t *Tree) repairInternalUnderflow(ctx context.Context, path []pathStep, id NodeID, node *internalNode, batch *WriteBatch) error {
	step := path[len(path)-1]
	parent := step.node
	idx := step.childIdx
	min := minInternalSize(t.opts.MaxInternalSize)

	if idx > 0 {
		leftID := parent.Children[idx-1]
		_, leftInt, err := t.getNode(ctx, leftID, batch)
		if err != nil {
			return err
		}
		if leftInt != nil && leftInt.size() > min {
			n := len(leftInt.Keys)
			movedKey := leftInt.Keys[n-1]
			movedChild := leftInt.Children[len(leftInt.Children)-1]
			leftInt.Keys = leftInt.Keys[:n-1]
			leftInt.Children = leftInt.Children[:len(leftInt.Children)-1]

			node.Keys = insertAtBytes(node.Keys, 0, parent.Keys[idx-1])
			node.Children = insertAtID(node.Children, 0, movedChild)
			parent.Keys[idx-1] = movedKey

			return t.flushInternalBorrow(leftID, leftInt, id, node, step, parent, batch)
		}
	}
	if idx < len(parent.Children)-1 {
		rightID := parent.Children[idx+1]
		_, rightInt, err := t.getNode(ctx, rightID, batch)
		if err != nil {
			return err
		}
		if rightInt != nil && rightInt.size() > min {
			movedKey := rightInt.Keys[0]
			movedChild := rightInt.Children[0]
			rightInt.Keys = rightInt.Keys[1:]
			rightInt.Children = rightInt.Children[1:]

			node.Keys = append(node.Keys, parent.Keys[idx])
			node.Children = append(node.Children, movedChild)
			parent.Keys[idx] = movedKey

			return t.flushInternalBorrow(rightID, rightInt, id, node, step, parent, batch)
		}
	}
	if idx > 0 {
		leftID := parent.Children[idx-1]
		_, leftInt, err := t.getNode(ctx, leftID, batch)
		if err != nil {
			return err
		}
		if leftInt != nil {
			leftInt.Keys = append(leftInt.Keys, parent.Keys[idx-1])
			leftInt.Keys = append(leftInt.Keys, node.Keys...)
			leftInt.Children = append(leftInt.Children, node.Children...)
			body, err := encodeInternal(leftInt)
			if err != nil {
				return err
			}
			batch.Set(leftID, body)
			batch.Delete(id)
			parent.Keys = removeAtBytes(parent.Keys, idx-1)
			parent.Children = removeAtID(parent.Children, idx)
			return t.repairInternalAfterCollapse(ctx, path[:len(path)-1], step.id, parent, batch)
		}
	}
	if idx < len(parent.Children)-1 {
		rightID := parent.Children[idx+1]
		_, rightInt, err := t.getNode(ctx, rightID, batch)
		if err != nil {
			return err
		}
		if rightInt != nil {
			node.Keys = append(node.Keys, parent.Keys[idx])
			node.Keys = append(node.Keys, rightInt.Keys...)
			node.Children = append(node.Children, rightInt.Children...)
			body, err := encodeInternal(node)
			if err != nil {
				return err
			}
			batch.Set(id, body)
			batch.Delete(rightID)
			parent.Keys = removeAtBytes(parent.Keys, idx)
			parent.Children = removeAtID(parent.Children, idx+1)
			return t.repairInternalAfterCollapse(ctx, path[:len(path)-1], step.id, parent, batch)
		}
	}
	body, err := encodeInternal(node)
	if err != nil {
		return err
	}
	batch.Set(id, body)
	return nil
}

func (t *Tree) flushInternalBorrow(sibID NodeID, sib *internalNode, id NodeID, node *internalNode, step pathStep, parent *internalNode, batch *WriteBatch) error {
	sibBody, err := encodeInternal(sib)
	if err != nil {
		return err
	}
	nodeBody, err := encodeInternal(node)
	if err != nil {
		return err
	}
	parentBody, err := encodeInternal(parent)
	if err != nil {
		return err
	}
	batch.Set(sibID, sibBody)
	batch.Set(id, nodeBody)
	batch.Set(step.id, parentBody)
	return nil
}
