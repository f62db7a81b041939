package bptree

import (
	"strings"
	"testing"
)

func TestCounterIDAllocatorMonotonicAndPrefixed(t *testing.T) {
	a := CounterIDAllocator{}
	id1, next1 := a.Allocate(KindLeaf, 1)
	id2, next2 := a.Allocate(KindLeaf, next1)
	if next2 <= next1 {
		t.Fatalf("expected counter to advance, got %d then %d", next1, next2)
	}
	if !strings.HasPrefix(id1.String(), LeafPrefix) || !strings.HasPrefix(id2.String(), LeafPrefix) {
		t.Fatalf("expected leaf prefix on %q and %q", id1, id2)
	}
	if id1.equal(id2) {
		t.Fatal("expected distinct identifiers")
	}
}

func TestCounterIDAllocatorInternalPrefix(t *testing.T) {
	a := CounterIDAllocator{}
	id, _ := a.Allocate(KindInternal, 1)
	if !strings.HasPrefix(id.String(), InternalPrefix) {
		t.Fatalf("expected internal prefix on %q", id)
	}
}

func TestRandomIDAllocatorDoesNotCollide(t *testing.T) {
	a := RandomIDAllocator{}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, _ := a.Allocate(KindLeaf, 1)
		if seen[id.String()] {
			t.Fatalf("collision at iteration %d: %q", i, id)
		}
		seen[id.String()] = true
	}
}
