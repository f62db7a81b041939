package bptree

import (
	"bytes"
	"testing"
)

func TestByteBufVarBytesRoundTrip(t *testing.T) {
	buf := newByteBuf(16)
	buf.AppendVarBytes([]byte("hello"))
	buf.AppendUvarint(42)

	d := makeByteDecoder(buf.Trimmed())
	got, err := d.VarBytes()
	must(t, err)
	if !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("got %q", got)
	}
	n, err := d.Uvarint()
	must(t, err)
	if n != 42 {
		t.Fatalf("got %d", n)
	}
	if !d.Done() {
		t.Fatal("expected decoder exhausted")
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	m := &treeMetadata{RootID: NodeID("LFabc"), Height: 3, NextID: 99}
	raw := encodeMetadata(m)
	got, err := decodeMetadata(raw)
	must(t, err)
	if got.Height != 3 || got.NextID != 99 || !got.RootID.equal(m.RootID) {
		t.Fatalf("mismatch: %+v", got)
	}
}

func TestMetadataRoundTripEmptyRoot(t *testing.T) {
	m := &treeMetadata{Height: 0, NextID: 1}
	raw := encodeMetadata(m)
	got, err := decodeMetadata(raw)
	must(t, err)
	if got.RootID != nil {
		t.Fatalf("expected nil root id, got %q", got.RootID)
	}
}
