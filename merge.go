package fuguetext

import (
	"strings"

	"go.uber.org/zap"
)

// Merge unions remote's block store into r, preserving convergence. The
// algorithm:
//
//  1. Every remote block absent locally is cloned in; a remote block
//     present locally whose tombstone is set but the local copy's isn't
//     adopts the tombstone (the tombstone lattice is monotone: true
//     dominates false). Immutable fields (Text, LeftOrigin, RightOrigin)
//     never need reconciling: they are identical across replicas for the
//     same id by construction.
//  2. If step 1 changed anything (a block was added or a tombstone was
//     newly adopted), the rendered buffer is wholly rebuilt by
//     concatenating live text in store order and the position cache is
//     invalidated.
//  3. The Lamport clock is updated to the max of every remote block's
//     clock component, unconditionally.
//
// The buffer rebuild is gated on actual change rather than unconditional
// (contrast the teacher's RGA-derived merge, which always re-registers)
// because an unconditional rebuild is observably non-idempotent here: a
// block this replica only partially overlapped with a local Delete (§9 -
// no splitting - tombstones the whole block while the live buffer keeps
// only the requested byte range removed) renders at finer granularity
// than a from-scratch store rebuild would. Merging a snapshot of this
// replica's own unchanged state must be a true no-op per spec.md §8
// property 6; skipping the rebuild when nothing new arrived is what makes
// that hold. See DESIGN.md for the full accounting of this tension and
// its effect on serialization round-trips.
//
// Because identifiers are globally unique and totally ordered, the store
// is keyed by that order, block content is immutable post-creation, the
// tombstone lattice is monotone, and the rendered buffer is a deterministic
// function of the store whenever it is rebuilt, this operation is
// commutative, associative, and idempotent.
func (r *Replica) Merge(remote *Replica) error {
	var maxRemoteClock uint64
	changed := false

	remote.store.Ascend(func(rb *Block) bool {
		if rb.ID.Clock > maxRemoteClock {
			maxRemoteClock = rb.ID.Clock
		}

		if lb, ok := r.store.Get(rb.ID); ok {
			if rb.Deleted && !lb.Deleted {
				lb.Deleted = true
				changed = true
				r.log.Debug("merge: adopted remote tombstone", zap.String("id", rb.ID.String()))
			}
			return true
		}

		nb := rb.clone()
		r.store.Insert(nb)
		changed = true
		if nb.LeftOrigin != nil && !r.store.Has(*nb.LeftOrigin) {
			r.log.Warn("merge: left origin not present locally",
				zap.String("block", nb.ID.String()),
				zap.String("origin", nb.LeftOrigin.String()),
			)
		}
		if nb.RightOrigin != nil && !r.store.Has(*nb.RightOrigin) {
			r.log.Warn("merge: right origin not present locally",
				zap.String("block", nb.ID.String()),
				zap.String("origin", nb.RightOrigin.String()),
			)
		}
		return true
	})

	if changed {
		r.rebuildRenderedBuffer()
		r.cache.invalidate()
	}
	r.clock.Update(maxRemoteClock)

	r.log.Debug("merge complete", zap.Int("local_blocks", r.store.Len()), zap.Bool("changed", changed))
	return nil
}

// rebuildRenderedBuffer recomputes the rendered buffer wholesale by
// concatenating live block text in store order. This is the derived-state
// rebuild used whenever the buffer's relationship to the store is in doubt
// (merge, deserialization).
func (r *Replica) rebuildRenderedBuffer() {
	var sb strings.Builder
	r.store.Ascend(func(b *Block) bool {
		if !b.Deleted {
			sb.WriteString(b.Text)
		}
		return true
	})
	r.buffer.Rebuild(sb.String())
}
