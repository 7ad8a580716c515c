// Package fuguetext implements a collaborative plain-text CRDT using the
// Fugue algorithm: a mutable text object that can be replicated across
// independently editing clients and merged in any order while guaranteeing
// maximal non-interleaving. Concurrent inserts at the same location land
// as contiguous per-author runs rather than character-level interleavings.
//
// A Replica owns five cooperating parts: a totally-ordered node identifier
// scheme, a block store keyed by that order, a Lamport clock, a rendered
// grapheme buffer, and a position cache/resolver that maps a user-facing
// grapheme index to the (left, right) origin pair a new insert anchors to.
// Merging unions a remote replica's blocks into the local store and is
// commutative, associative, and idempotent.
//
// Replica is single-threaded and non-suspending: every operation is
// synchronous in-memory work. Callers sharing one Replica across goroutines
// must serialize access themselves; the type has no internal locking.
package fuguetext
