package bptree

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// nodeWire is the tagged-sum shape that actually crosses the wire via
// msgpack. Using one struct with a Kind discriminator (rather than two
// separate encode paths keyed off a type switch at every call site) keeps
// the leaf/internal union honest at the codec boundary, per the package's
// one place to decide "what kind of node is this" rule.
type nodeWire struct {
	Kind        NodeKind
	LeafKeys    [][]byte `msgpack:",omitempty"`
	LeafValues  [][]byte `msgpack:",omitempty"`
	LeafNext    []byte   `msgpack:",omitempty"`
	IntKeys     [][]byte `msgpack:",omitempty"`
	IntChildren [][]byte `msgpack:",omitempty"`
}

const checksumLen = 8

func encodeLeaf(n *leafNode) ([]byte, error) {
	w := nodeWire{Kind: KindLeaf, LeafKeys: n.Keys, LeafValues: n.Values}
	if n.Next != nil {
		w.LeafNext = n.Next
	}
	return encodeEnvelope(&w)
}

func encodeInternal(n *internalNode) ([]byte, error) {
	w := nodeWire{Kind: KindInternal, IntKeys: n.Keys}
	w.IntChildren = make([][]byte, len(n.Children))
	for i, c := range n.Children {
		w.IntChildren[i] = c
	}
	return encodeEnvelope(&w)
}

func encodeEnvelope(w *nodeWire) ([]byte, error) {
	body, err := msgpack.Marshal(w)
	if err != nil {
		return nil, err
	}
	sum := xxhash.Sum64(body)
	out := make([]byte, checksumLen+len(body))
	binary.LittleEndian.PutUint64(out, sum)
	copy(out[checksumLen:], body)
	return out, nil
}

// decodeNode decodes a stored record into either a leaf or an internal node.
// If strict is false and the checksum fails to verify, decodeNode returns a
// freshly-zeroed leaf rather than an error, matching the package's default
// soft-corruption policy (see Options.StrictCorruption and ErrCorruption).
func decodeNode(raw []byte, strict bool) (leaf *leafNode, internal *internalNode, err error) {
	if len(raw) == 0 {
		return &leafNode{}, nil, nil
	}
	if len(raw) < checksumLen {
		return softCorruption(raw, strict, nil, "record shorter than checksum header")
	}
	sum := binary.LittleEndian.Uint64(raw)
	body := raw[checksumLen:]
	if xxhash.Sum64(body) != sum {
		return softCorruption(raw, strict, nil, "checksum mismatch")
	}
	var w nodeWire
	if err := msgpack.Unmarshal(body, &w); err != nil {
		return softCorruption(raw, strict, err, "malformed node body")
	}
	switch w.Kind {
	case KindLeaf:
		next := NodeID(nil)
		if len(w.LeafNext) > 0 {
			next = w.LeafNext
		}
		return &leafNode{Keys: w.LeafKeys, Values: w.LeafValues, Next: next}, nil, nil
	case KindInternal:
		children := make([]NodeID, len(w.IntChildren))
		for i, c := range w.IntChildren {
			children[i] = c
		}
		return nil, &internalNode{Keys: w.IntKeys, Children: children}, nil
	default:
		return softCorruption(raw, strict, nil, "unknown node kind %d", w.Kind)
	}
}

func softCorruption(raw []byte, strict bool, cause error, format string, args ...any) (*leafNode, *internalNode, error) {
	if strict {
		detail := dataErrf(raw, 0, cause, format, args...)
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruption, detail)
	}
	return &leafNode{}, nil, nil
}
