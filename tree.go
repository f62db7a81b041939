package bptree

import "context"

// Tree is a B+ tree index backed by a Store. Its only in-memory state is
// the current root identifier, height, and node-identifier counter; it caches no node bodies between
// public calls and performs no locking of its own -- callers are expected
// to serialize writers themselves (see the design's single-writer
// discipline).
type Tree struct {
	store Store
	opts  Options

	rootID NodeID
	height int
	nextID uint64
}

// Open loads (or initializes) a tree against the given Store. On a cold
// store -- MetadataKey absent -- it initializes an empty tree whose root is
// a single empty leaf and persists that fact before returning.
func Open(ctx context.Context, store Store, options ...Option) (*Tree, error) {
	opts := defaultOptions()
	for _, opt := range options {
		opt(&opts)
	}

	t := &Tree{store: store, opts: opts}

	res, err := store.Get(ctx, MetadataKey).Await(ctx)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		return t.initEmpty(ctx)
	}
	meta, err := decodeMetadata(res.Value)
	if err != nil {
		return nil, err
	}
	t.rootID = meta.RootID
	t.height = meta.Height
	t.nextID = meta.NextID
	return t, nil
}

// initialRootID is the fixed identifier given to the empty root leaf on
// cold start, per the persisted-layout contract: the first root is always
// LeafPrefix ++ "root", even though every later allocation goes through
// the configured IDAllocator.
var initialRootID = NodeID(LeafPrefix + "root")

func (t *Tree) initEmpty(ctx context.Context) (*Tree, error) {
	body, err := encodeLeaf(&leafNode{})
	if err != nil {
		return nil, err
	}
	batch := newWriteBatch()
	batch.Set(initialRootID, body)
	t.rootID = initialRootID
	t.height = 0
	t.nextID = 1
	batch.Set(MetadataKey, encodeMetadata(&treeMetadata{RootID: t.rootID, Height: t.height, NextID: t.nextID}))
	if _, err := t.store.Write(ctx, batch).Await(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) allocate(kind NodeKind) NodeID {
	id, next := t.opts.IDAllocator.Allocate(kind, t.nextID)
	t.nextID = next
	return id
}

func (t *Tree) saveMetadata(batch *WriteBatch) {
	batch.Set(MetadataKey, encodeMetadata(&treeMetadata{RootID: t.rootID, Height: t.height, NextID: t.nextID}))
}

// getNode reads a node body by id, reading through batch first if one is
// given: a multi-step operation (insertKey, removeKey, and the repair
// functions they call into) stages every node it touches into the same
// WriteBatch before it is ever flushed to the Store, so a later step of
// the same operation that revisits an id already written by an earlier
// step -- a second insert landing on a leaf the first insert just split,
// a sibling a borrow or merge already rewrote -- must see that pending
// write, not the stale Store record. Pass a nil batch for a standalone
// read with no pending writes (Get, List).
func (t *Tree) getNode(ctx context.Context, id NodeID, batch *WriteBatch) (*leafNode, *internalNode, error) {
	if batch != nil {
		if body, ok := batch.Sets[id.String()]; ok {
			return decodeNode(body, t.opts.StrictCorruption)
		}
		if _, ok := batch.Deletes[id.String()]; ok {
			return &leafNode{}, nil, nil
		}
	}
	res, err := t.store.Get(ctx, id).Await(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !res.Found {
		t.opts.Logger.Warn("bptree: missing node record", "id", id.String())
		return &leafNode{}, nil, nil
	}
	leaf, internal, err := decodeNode(res.Value, t.opts.StrictCorruption)
	if err != nil {
		return nil, nil, err
	}
	// In soft mode a corrupt record decodes to an empty leaf; a strict
	// re-decode of empty leaves tells it apart from a genuinely empty one.
	if !t.opts.StrictCorruption && leaf != nil && leaf.size() == 0 {
		if _, _, cerr := decodeNode(res.Value, true); cerr != nil {
			t.opts.Logger.Warn("bptree: soft corruption decoding node", "id", id.String(), "err", cerr)
		}
	}
	return leaf, internal, nil
}
