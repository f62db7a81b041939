package bptree

// MetadataKey is the reserved Store key holding the tree's root identifier,
// height, and node-identifier counter. It intentionally does not share a
// prefix with LeafPrefix/InternalPrefix so it can never collide with an
// allocated node identifier.
var MetadataKey NodeID = []byte("\x00bptree-meta")

type treeMetadata struct {
	RootID NodeID
	Height int
	NextID uint64
}

func encodeMetadata(m *treeMetadata) []byte {
	buf := newByteBuf(32 + len(m.RootID))
	buf.AppendVarBytes(m.RootID)
	buf.AppendUvarint(uint64(m.Height))
	buf.AppendUvarint(m.NextID)
	return buf.Trimmed()
}

func decodeMetadata(raw []byte) (*treeMetadata, error) {
	d := makeByteDecoder(raw)
	rootID, err := d.VarBytes()
	if err != nil {
		return nil, err
	}
	height, err := d.Uvarinti()
	if err != nil {
		return nil, err
	}
	nextID, err := d.Uvarint()
	if err != nil {
		return nil, err
	}
	m := &treeMetadata{Height: height, NextID: nextID}
	if len(rootID) > 0 {
		m.RootID = rootID
	}
	return m, nil
}
