package bptree

import (
	"bytes"
	"context"
	"testing"
)

// walkInvariants walks the whole tree from the root and asserts I1-I5 hold
// at rest, per the testable-properties list: sorted leaf chain, structural
// count equality, uniform depth, separator correctness, and occupancy.
// Occupancy for internal nodes is checked against minInternalSize rather
// than minSize -- see the comment on minInternalSize in repair.go for why
// the two roles need different thresholds.
func walkInvariants(t *testing.T, tr *Tree) {
	t.Helper()
	ctx := context.Background()

	type leafRecord struct {
		id   NodeID
		node *leafNode
	}
	var leaves []leafRecord

	var walk func(id NodeID, depth int, isRoot bool) []byte
	walk = func(id NodeID, depth int, isRoot bool) []byte {
		leaf, internal, err := tr.getNode(ctx, id, nil)
		if err != nil {
			t.Fatalf("getNode(%s): %v", id, err)
		}

		if internal != nil {
			if depth >= tr.height {
				t.Fatalf("I3: internal node %s at depth %d but tree height is %d", id, depth, tr.height)
			}
			if len(internal.Children) != len(internal.Keys)+1 {
				t.Fatalf("I2: internal node %s has %d children and %d keys", id, len(internal.Children), len(internal.Keys))
			}
			if !isRoot {
				min := minInternalSize(tr.opts.MaxInternalSize)
				if internal.size() < min || internal.size() > tr.opts.MaxInternalSize {
					t.Fatalf("I5: internal node %s has %d keys, want between %d and %d", id, internal.size(), min, tr.opts.MaxInternalSize)
				}
			}

			firstKeys := make([][]byte, len(internal.Children))
			for i, childID := range internal.Children {
				firstKeys[i] = walk(childID, depth+1, false)
			}
			for i, sep := range internal.Keys {
				if !bytes.Equal(sep, firstKeys[i+1]) {
					t.Fatalf("I4: separator %q at index %d of node %s does not match child's smallest key %q", sep, i, id, firstKeys[i+1])
				}
			}
			return firstKeys[0]
		}

		if depth != tr.height {
			t.Fatalf("I3: leaf %s at depth %d but tree height is %d", id, depth, tr.height)
		}
		if len(leaf.Values) != len(leaf.Keys) {
			t.Fatalf("I2: leaf %s has %d values and %d keys", id, len(leaf.Values), len(leaf.Keys))
		}
		if !isRoot {
			min := minSize(tr.opts.MaxLeafSize)
			if leaf.size() < min || leaf.size() > tr.opts.MaxLeafSize {
				t.Fatalf("I5: leaf %s has %d keys, want between %d and %d", id, leaf.size(), min, tr.opts.MaxLeafSize)
			}
		}
		leaves = append(leaves, leafRecord{id: id, node: leaf})
		if len(leaf.Keys) == 0 {
			return nil
		}
		return leaf.Keys[0]
	}
	walk(tr.rootID, 0, true)

	var allKeys [][]byte
	for i, lr := range leaves {
		allKeys = append(allKeys, lr.node.Keys...)
		if i < len(leaves)-1 {
			if !lr.node.Next.equal(leaves[i+1].id) {
				t.Fatalf("I1: leaf %s.Next = %s, want next leaf %s", lr.id, lr.node.Next, leaves[i+1].id)
			}
		} else if lr.node.Next != nil {
			t.Fatalf("I1: rightmost leaf %s.Next = %s, want nil", lr.id, lr.node.Next)
		}
	}
	for i := 1; i < len(allKeys); i++ {
		if tr.opts.Comparator(allKeys[i-1], allKeys[i]) >= 0 {
			t.Fatalf("I1: leaf chain not strictly ascending at index %d: %q then %q", i, allKeys[i-1], allKeys[i])
		}
	}

	listed, err := tr.List(ctx, ListArgs{})
	must(t, err)
	if len(listed) != len(allKeys) {
		t.Fatalf("I1: leaf chain has %d keys but List({}) has %d", len(allKeys), len(listed))
	}
	for i, k := range allKeys {
		if !bytes.Equal(k, listed[i].Key) {
			t.Fatalf("I1: leaf chain key %d is %q but List({}) key %d is %q", i, k, i, listed[i].Key)
		}
	}
}
