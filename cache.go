package fuguetext

import "sort"

// positionCache is the O(log n) position resolver. It is the hard part of
// this package. It holds an ordered slice of live (non-deleted) block ids
// and a single validity flag; each block's own cachedStartPos (set via
// Block.setCachedStartPos) carries its grapheme start offset in the
// current rendered document.
//
// Validity protocol: valid starts true for an empty document and after
// every rebuild; it is set false by anything that rebuilds the rendered
// buffer wholesale (a merge that changes the store, deserialization). The
// incremental insert patch and the delete re-stripe never invalidate it.
// Every resolver call checks the flag first and rebuilds lazily if needed.
type positionCache struct {
	valid bool
	live  []NodeID
}

func newPositionCache() *positionCache {
	return &positionCache{valid: true}
}

// invalidate marks the cache stale; the next resolve/ensureValid rebuilds it.
func (c *positionCache) invalidate() {
	c.valid = false
}

// ensureValid rebuilds from store if the cache is currently invalid.
func (c *positionCache) ensureValid(store *blockStore) {
	if c.valid {
		return
	}
	c.rebuild(store)
}

// rebuild is the single O(n) pass over the block store: for each block,
// assign cachedStartPos = running total; push live ids onto the cache,
// advancing the total by each block's grapheme length;
// tombstoned blocks still get a cachedStartPos (useful for diagnostics)
// but are not pushed.
func (c *positionCache) rebuild(store *blockStore) {
	c.live = c.live[:0]
	pos := 0
	store.AscendMutate(func(b *Block) bool {
		b.setCachedStartPos(pos)
		if !b.Deleted {
			pos += b.graphemeLen()
			c.live = append(c.live, b.ID)
		}
		return true
	})
	c.valid = true
}

// resolve computes the (left, right) origin pair a new block inserted at
// grapheme position pos should anchor to. It assumes the cache is valid;
// callers must call ensureValid first.
//
// An interior-position insert (strictly inside a live block's span) is
// demoted to anchor at that block's right edge. Blocks are never split.
func (c *positionCache) resolve(store *blockStore, pos int) (left, right *NodeID) {
	n := len(c.live)
	if n == 0 {
		return nil, nil
	}

	// First index whose live span ends strictly after pos. Spans are
	// non-decreasing in start/end along c.live, so this predicate is
	// monotonic and binary-searchable.
	idx := sort.Search(n, func(i int) bool {
		b, _ := store.Get(c.live[i])
		start, _ := b.CachedStartPos()
		end := start + b.graphemeLen()
		return pos < end
	})

	if idx == n {
		// pos is at or beyond the end of the last live block: append.
		last := c.live[n-1]
		return &last, nil
	}

	b, _ := store.Get(c.live[idx])
	start, _ := b.CachedStartPos()

	if pos <= start {
		// pos falls exactly on, or before, the start of block idx: the
		// boundary between block idx-1 (if any) and block idx.
		r := c.live[idx]
		if idx == 0 {
			return nil, &r
		}
		l := c.live[idx-1]
		return &l, &r
	}

	// start < pos < end: strictly inside this block's span. Demote to the
	// block's right edge.
	l := c.live[idx]
	if idx+1 < n {
		r := c.live[idx+1]
		return &l, &r
	}
	return &l, nil
}

// patchAfterInsert incrementally updates the cache after a local insert of
// a k-grapheme block with id at grapheme position pos, avoiding a full
// O(n) rebuild.
//
// Fast path: appending at the current end is O(1), the common case for
// interactive typing. Otherwise this is the general path: an O(log n)
// binary search for the insertion index, then splicing the id in and
// shifting every later block's cachedStartPos by k, which is linear in the
// number of later live blocks.
func (c *positionCache) patchAfterInsert(store *blockStore, pos, k int, id NodeID) {
	if !c.valid {
		return
	}

	n := len(c.live)
	lastEnd := 0
	if n > 0 {
		lb, _ := store.Get(c.live[n-1])
		start, _ := lb.CachedStartPos()
		lastEnd = start + lb.graphemeLen()
	}

	if pos >= lastEnd {
		if nb, ok := store.Get(id); ok {
			nb.setCachedStartPos(pos)
		}
		c.live = append(c.live, id)
		return
	}

	idx := sort.Search(n, func(i int) bool {
		b, _ := store.Get(c.live[i])
		start, _ := b.CachedStartPos()
		end := start + b.graphemeLen()
		return pos < end
	})

	if nb, ok := store.Get(id); ok {
		nb.setCachedStartPos(pos)
	}
	c.live = append(c.live, NodeID{})
	copy(c.live[idx+1:], c.live[idx:])
	c.live[idx] = id

	for i := idx + 1; i < len(c.live); i++ {
		b, _ := store.Get(c.live[i])
		start, _ := b.CachedStartPos()
		b.setCachedStartPos(start + k)
	}
}

// rebuildAfterDelete re-stripes the whole cache from the block store. A
// delete may tombstone an arbitrary number of blocks, so this takes a full
// relinearization rather than an incremental patch. The cache remains
// valid throughout; this is not the same as invalidate.
func (c *positionCache) rebuildAfterDelete(store *blockStore) {
	c.rebuild(store)
}
