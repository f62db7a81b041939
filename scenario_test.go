package bptree

import (
	"context"
	"fmt"
	"testing"
)

// TestScenario1Basic exercises the package's simplest end-to-end path.
func TestScenario1Basic(t *testing.T) {
	ctx := context.Background()
	tr := newTestTree(t)

	must(t, tr.Set(ctx, []byte("a"), []byte("1")))
	must(t, tr.Set(ctx, []byte("b"), []byte("2")))
	must(t, tr.Set(ctx, []byte("c"), []byte("3")))

	v, found, err := tr.Get(ctx, []byte("b"))
	must(t, err)
	if !found || string(v) != "2" {
		t.Fatalf("got %q found=%v", v, found)
	}

	entries, err := tr.List(ctx, ListArgs{})
	must(t, err)
	if fmt.Sprint(keysOf(entries)) != fmt.Sprint([]string{"a", "b", "c"}) {
		t.Fatalf("got %v", keysOf(entries))
	}

	must(t, tr.Delete(ctx, []byte("b")))
	entries, err = tr.List(ctx, ListArgs{})
	must(t, err)
	if fmt.Sprint(keysOf(entries)) != fmt.Sprint([]string{"a", "c"}) {
		t.Fatalf("got %v after delete", keysOf(entries))
	}
}

// TestScenario2SmallFanoutSplit pins the exact tree shape produced by the
// first leaf split at maxLeafSize=4, including which keys land on which
// side and what separator gets promoted.
func TestScenario2SmallFanoutSplit(t *testing.T) {
	ctx := context.Background()
	tr := newTestTree(t, WithMaxLeafSize(4))

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		must(t, tr.Set(ctx, []byte(k), []byte(k)))
	}

	if tr.Height() != 1 {
		t.Fatalf("expected height 1, got %d", tr.Height())
	}
	_, root, err := tr.getNode(ctx, tr.RootID(), nil)
	must(t, err)
	if root == nil || fmt.Sprint(stringsOf(root.Keys)) != fmt.Sprint([]string{"c"}) {
		t.Fatalf("expected root separator [c], got %+v", root)
	}
	leftLeaf, _, err := tr.getNode(ctx, root.Children[0], nil)
	must(t, err)
	if fmt.Sprint(stringsOf(leftLeaf.Keys)) != fmt.Sprint([]string{"a", "b"}) {
		t.Fatalf("expected left leaf [a b], got %v", stringsOf(leftLeaf.Keys))
	}
	rightLeaf, _, err := tr.getNode(ctx, root.Children[1], nil)
	must(t, err)
	if fmt.Sprint(stringsOf(rightLeaf.Keys)) != fmt.Sprint([]string{"c", "d", "e"}) {
		t.Fatalf("expected right leaf [c d e], got %v", stringsOf(rightLeaf.Keys))
	}
}

func stringsOf(bs [][]byte) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = string(b)
	}
	return out
}

// TestScenario3RangeUnderSplit follows scenario 2 with a range query that
// spans both leaves produced by the split.
func TestScenario3RangeUnderSplit(t *testing.T) {
	ctx := context.Background()
	tr := newTestTree(t, WithMaxLeafSize(4))
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		must(t, tr.Set(ctx, []byte(k), []byte(k)))
	}
	entries, err := tr.List(ctx, ListArgs{GTE: []byte("b"), LT: []byte("e")})
	must(t, err)
	if fmt.Sprint(keysOf(entries)) != fmt.Sprint([]string{"b", "c", "d"}) {
		t.Fatalf("got %v", keysOf(entries))
	}
}

// TestScenario4ReverseLimitSingleLeaf checks reverse+limit when the whole
// result set lives in one leaf, where the offset/reverse policy decision
// (see §4.7/list.go) cannot yet make a visible difference.
func TestScenario4ReverseLimitSingleLeaf(t *testing.T) {
	ctx := context.Background()
	tr := newTestTree(t)
	for _, k := range []string{"a", "b", "c", "d", "e", "f"} {
		must(t, tr.Set(ctx, []byte(k), []byte(k)))
	}
	entries, err := tr.List(ctx, ListArgs{Reverse: true, Limit: 3})
	must(t, err)
	if fmt.Sprint(keysOf(entries)) != fmt.Sprint([]string{"f", "e", "d"}) {
		t.Fatalf("got %v", keysOf(entries))
	}
}

// TestScenario5UnderflowMerge drives a realistic delete-heavy workload
// through the default fan-out and checks both point lookups and a range
// spanning the deleted gap land exactly where scenario 5 says they should.
func TestScenario5UnderflowMerge(t *testing.T) {
	ctx := context.Background()
	tr := newTestTree(t)

	for i := 0; i < 100; i++ {
		k := fmt.Sprintf("key%03d", i)
		must(t, tr.Set(ctx, []byte(k), []byte(k)))
	}
	for i := 20; i < 40; i++ {
		must(t, tr.Delete(ctx, []byte(fmt.Sprintf("key%03d", i))))
	}

	_, found, err := tr.Get(ctx, []byte("key025"))
	must(t, err)
	if found {
		t.Fatal("expected key025 to be absent after the delete range")
	}
	v, found, err := tr.Get(ctx, []byte("key050"))
	must(t, err)
	if !found || string(v) != "key050" {
		t.Fatalf("expected key050 present, got found=%v v=%q", found, v)
	}

	// key010..key049 is 40 keys before the delete; removing key020..key039
	// (20 keys) from that span leaves key010..key019 plus key040..key049,
	// 20 entries total.
	entries, err := tr.List(ctx, ListArgs{GTE: []byte("key010"), LT: []byte("key050")})
	must(t, err)
	if len(entries) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(entries))
	}
	if string(entries[9].Key) != "key019" {
		t.Fatalf("expected key019 at index 9, got %q", entries[9].Key)
	}
	if string(entries[10].Key) != "key040" {
		t.Fatalf("expected key040 at index 10, got %q", entries[10].Key)
	}

	walkInvariants(t, tr)
}
