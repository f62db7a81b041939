/*
Package bptree implements a persistent B+ tree index on top of a pluggable
ordered key-value store.

The tree itself only ever needs two operations from its backing store: point
get and batch write. It is written once against the Store interface, which
comes in a blocking flavor (the backing store resolves immediately) and a
suspending flavor (resolution happens later, e.g. across a network). Both
share the exact same tree algorithm; see Awaitable.

# Technical Details

**Node identifiers.** Every leaf and internal node is addressed by an opaque
byte string that doubles as its key in the backing store. The string carries
a two-character prefix (LeafPrefix or InternalPrefix) so node dumps are easy
to eyeball, but the node's actual role is determined by its decoded body, not
the prefix.

**Metadata.** A single reserved key (MetadataKey) stores the current root
identifier, tree height, and the next value of the node-identifier counter.
It is rewritten atomically (via a single Store.Write batch) whenever any of
the three changes.

**Node encoding.** Node bodies are msgpack, wrapped in an envelope that also
carries an xxhash64 checksum so corruption can be told apart from an absent
key. The metadata record uses a small hand-rolled varint encoding instead,
since it never needs msgpack's flexibility.

**Range scans.** Leaves are chained via a Next pointer, so List walks the
chain directly once it has descended to the first qualifying leaf, the same
way a sorted file format chains its blocks.
*/
package bptree
