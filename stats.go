package fuguetext

// opStats tracks inserted/deleted grapheme counts for diagnostics, adapted
// from a positive/negative counter pair: instead of tracking generic
// increment/decrement, the two counters here track graphemes inserted and
// graphemes deleted over the replica's lifetime, so Inserted-Deleted
// reconstructs the current length without re-scanning the store.
//
// This is purely observational. It is not part of the CRDT state, is not
// serialized, and does not participate in merge.
type opStats struct {
	inserted int
	deleted  int
}

func (s *opStats) recordInsert(graphemes int) {
	s.inserted += graphemes
}

func (s *opStats) recordDelete(graphemes int) {
	s.deleted += graphemes
}

// Stats is the read-only snapshot returned by Replica.Stats.
type Stats struct {
	// Inserted is the total number of graphemes ever locally inserted.
	Inserted int
	// Deleted is the total number of graphemes ever removed from the
	// visible document by local deletes (the requested range lengths, not
	// the full lengths of the blocks those deletes tombstoned).
	Deleted int
}

// Net returns Inserted-Deleted, which equals Length() for a replica that
// has only performed local operations (a freshly merged-in replica's Net
// does not account for graphemes contributed by remote operations, since
// those were never counted by this replica's own insert/delete calls).
func (s Stats) Net() int {
	return s.Inserted - s.Deleted
}
