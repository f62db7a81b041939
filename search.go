package bptree

import (
	"context"
	"sort"
)

// pathStep records one internal node visited during a descent, along with
// which child index was taken, so structural repair can walk back up
// without re-descending.
type pathStep struct {
	id       NodeID
	node     *internalNode
	childIdx int
}

// childIndexFor returns the index of the child that key descends into. A
// key exactly equal to a separator descends into the right child -- this is
// the load-bearing convention the split/borrow/merge separator math assumes
// throughout.
func childIndexFor(cmp Comparator, n *internalNode, key []byte) int {
	return sort.Search(len(n.Keys), func(i int) bool {
		return cmp(key, n.Keys[i]) < 0
	})
}

// leafIndexFor returns the index of key within a leaf's Keys, and whether it
// was found exactly (lower-bound search: first index whose key is >= key).
func leafIndexFor(cmp Comparator, n *leafNode, key []byte) (idx int, found bool) {
	idx = sort.Search(len(n.Keys), func(i int) bool {
		return cmp(n.Keys[i], key) >= 0
	})
	found = idx < len(n.Keys) && cmp(n.Keys[idx], key) == 0
	return idx, found
}

// descend walks from the root to the leaf that would contain key, capturing
// the path of internal nodes taken along the way. batch is the pending
// WriteBatch of the operation this descent is part of (nil for a
// standalone read) -- see getNode for why a descent mid-operation must
// read through it.
func (t *Tree) descend(ctx context.Context, key []byte, batch *WriteBatch) (path []pathStep, leafID NodeID, leaf *leafNode, err error) {
	id := t.rootID
	for depth := 0; depth < t.height; depth++ {
		l, internal, err := t.getNode(ctx, id, batch)
		if err != nil {
			return nil, nil, nil, err
		}
		if internal == nil {
			// A node that should be internal decoded as an empty leaf due
			// to soft corruption; treat the subtree as empty from here.
			_ = l
			return path, id, &leafNode{}, nil
		}
		idx := childIndexFor(t.opts.Comparator, internal, key)
		path = append(path, pathStep{id: id, node: internal, childIdx: idx})
		id = internal.Children[idx]
	}
	l, _, err := t.getNode(ctx, id, batch)
	if err != nil {
		return nil, nil, nil, err
	}
	if l == nil {
		l = &leafNode{}
	}
	return path, id, l, nil
}

// descendLeftmost walks from the given node to the leftmost leaf beneath
// it, used when repositioning a List scan at the start of the keyspace.
// Only called from List, which never has a pending batch of its own.
func (t *Tree) descendLeftmost(ctx context.Context, id NodeID, depth int) (NodeID, *leafNode, error) {
	for ; depth < t.height; depth++ {
		_, internal, err := t.getNode(ctx, id, nil)
		if err != nil {
			return nil, nil, err
		}
		if internal == nil || len(internal.Children) == 0 {
			return id, &leafNode{}, nil
		}
		id = internal.Children[0]
	}
	l, _, err := t.getNode(ctx, id, nil)
	if err != nil {
		return nil, nil, err
	}
	if l == nil {
		l = &leafNode{}
	}
	return id, l, nil
}
