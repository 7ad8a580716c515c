package fuguetext

// lamportClock is a single-replica monotone counter used to timestamp
// local operations with a causally-ordered Lamport value.
//
// This follows the same update-by-max discipline as a grow-only counter
// guarding a map[string]int under a mutex and merging by per-key max,
// collapsed to one slot. There is only ever one "node" (this replica)
// whose count can increase locally via tick, and merging folds in a
// remote value via that same max rule. Replica itself is single-threaded
// and non-suspending and performs no internal locking of its own, so
// unlike a mutex-guarded counter this type carries no mutex. Callers
// sharing a Replica across goroutines serialize externally.
type lamportClock struct {
	value uint64
}

// Value returns the current clock value without mutating it.
func (c *lamportClock) Value() uint64 {
	return c.value
}

// Tick increments the clock and returns the new value. Called once per
// local insert to mint a NodeID's Clock field.
func (c *lamportClock) Tick() uint64 {
	c.value++
	return c.value
}

// Update folds in a remote clock value by taking the max, with no
// increment, since the local replica did not itself perform an operation. A
// subsequent local Tick is what produces a strictly-greater id, which
// suffices to keep local NodeIDs causally ahead of anything merged in.
func (c *lamportClock) Update(remote uint64) {
	if remote > c.value {
		c.value = remote
	}
}
