/*
Package facet decomposes documents into typed components and compiles them
into mutations for a sorted multi-dimensional key-value store, one whose
entries are addressed by (row, family, qualifier, visibility, timestamp).

The package handles:

1. Components, the content-bearing units of a document, stored under the
document's row key with the component type as the family.

2. Views, alternate index entries that point at a component from rows of
their own, so the document can be found by terms other than its identifier.

3. Revisions, immutable write batches that compile a set of components into
an ordered list of cell mutations, all sharing a single timestamp.

4. Delete revisions, which compile previously stored key-set manifests into
delete-marker mutations covering exactly the physical footprint of a prior
write.

The package never talks to a store itself. It produces ordered []Mutation
values for a caller-owned apply step; facet/tablet is an embedded store that
consumes them directly.

# Technical Details

**Manifests.**
The target store has no multi-row transactions and no practical way to
enumerate the entries a write produced. So every component write also
records a manifest: the ordered list of every physical key the write touched
(the view keys, the component body key, and the manifest entry's own key).
The manifest is stored as the value of the component's metadata entry and is
the only input deletion takes; re-deriving keys from current view logic
would miss entries written under older derivations. See facet/keyset for
the binary format.

**Metadata families.**
A component of type T stores its body under family T and its manifest under
family "_meta\x00" + T. The prefix is reserved: NewRevision rejects
component types and view families that carry it, so data and metadata
families cannot collide, and a family scan can tell the two apart without
any out-of-band schema.

**Qualifiers.**
Entries are uniquified within their (row, family) pair by a qualifier.
Qualifiers left empty are assigned collision-resistant random 128-bit hex
tokens during NewRevision, so independent writes indexing the same term
never overwrite each other. A component's body and manifest share one
qualifier, pairing them 1:1.

**Timestamps.**
A revision carries exactly one timestamp, in milliseconds, stamped on every
mutation it emits. Version resolution and delete-marker semantics belong to
the store: a delete marker suppresses versions at or below its timestamp,
which is why deleting and rewriting within the same millisecond is the
caller's race to avoid.
*/
package facet
