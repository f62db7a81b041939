package bptree

import (
	"encoding/base32"
	"strconv"

	"github.com/google/uuid"
)

// IDAllocator mints fresh node identifiers. next is the persisted counter
// value from the metadata record (only meaningful to CounterIDAllocator);
// callers pass it through unconditionally so the allocator interface stays
// uniform across strategies.
type IDAllocator interface {
	// Allocate returns a new identifier for a node of the given kind, plus
	// the counter value that should be persisted as NextID afterwards.
	Allocate(kind NodeKind, next uint64) (NodeID, uint64)
}

var base32enc = base32.HexEncoding.WithPadding(base32.NoPadding)

// CounterIDAllocator is the default allocator: identifiers are
// prefix + base32hex(counter), with the counter persisted in the metadata
// record (NextID) so it survives process restarts. This is the allocation
// scheme recommended when a single tree instance owns its backing store
// outright, since it can never collide with itself.
type CounterIDAllocator struct{}

func (CounterIDAllocator) Allocate(kind NodeKind, next uint64) (NodeID, uint64) {
	prefix := prefixFor(kind)
	id := NodeID(prefix + base32enc.EncodeToString([]byte(strconv.FormatUint(next, 36))))
	return id, next + 1
}

// RandomIDAllocator mints identifiers from a random UUID rather than the
// persisted counter, so two tree instances can share one backing store's
// identifier namespace without coordinating a counter between them. The
// tradeoff, as called out in the design notes, is that it relies on the
// randomness source rather than a monotonic guarantee for uniqueness.
type RandomIDAllocator struct{}

func (RandomIDAllocator) Allocate(kind NodeKind, next uint64) (NodeID, uint64) {
	prefix := prefixFor(kind)
	id := NodeID(prefix + uuid.NewString())
	return id, next // does not consume the persisted counter
}

func prefixFor(kind NodeKind) string {
	if kind == KindInternal {
		return InternalPrefix
	}
	return LeafPrefix
}
