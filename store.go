package fuguetext

import "github.com/google/btree"

// btreeDegree starts from the degree erigon passes to btree.New(16) for its
// ordered in-memory indices and doubles it; block stores in this package are
// typically much smaller per-document, so a slightly wider node (32) trades a little
// extra per-node memory for fewer tree levels on the common case.
const btreeDegree = 32

// blockStore is the ordered map of NodeID -> *Block. Iteration order equals
// the NodeID total order, which is the canonical Fugue document order. It
// is backed by google/btree, the same library erigon uses for its ordered
// indices via btree.New/ReplaceOrInsert/AscendGreaterOrEqual, giving O(log
// n) insert and lookup.
//
// The store is append-mostly. Blocks are added on local insert and on
// merge and are never removed, only tombstoned in place.
type blockStore struct {
	tree *btree.BTree
}

func newBlockStore() *blockStore {
	return &blockStore{tree: btree.New(btreeDegree)}
}

// Insert adds b, keyed by b.ID. Re-inserting an existing id replaces it;
// callers (merge) are responsible for not clobbering an existing block's
// immutable fields.
func (s *blockStore) Insert(b *Block) {
	s.tree.ReplaceOrInsert(b)
}

// Get looks up a block by id.
func (s *blockStore) Get(id NodeID) (*Block, bool) {
	item := s.tree.Get(&Block{ID: id})
	if item == nil {
		return nil, false
	}
	return item.(*Block), true
}

// Has reports whether id is present.
func (s *blockStore) Has(id NodeID) bool {
	return s.tree.Has(&Block{ID: id})
}

// Len returns the total number of blocks, live and tombstoned.
func (s *blockStore) Len() int {
	return s.tree.Len()
}

// Ascend visits every block in store order for reading, stopping early if
// fn returns false.
func (s *blockStore) Ascend(fn func(*Block) bool) {
	s.tree.Ascend(func(i btree.Item) bool {
		return fn(i.(*Block))
	})
}

// AscendMutate visits every block in store order, the same as Ascend, but
// names the intent at call sites that update a block in place (setting
// Deleted or the cached start position) rather than only reading it. Since
// *Block is stored by pointer and the ordering key (ID) never changes after
// insertion, fn may freely mutate Deleted or the cache bookkeeping fields
// without corrupting the tree's invariants. Used by delete and by the
// position cache's rebuild pass.
func (s *blockStore) AscendMutate(fn func(*Block) bool) {
	s.tree.Ascend(func(i btree.Item) bool {
		return fn(i.(*Block))
	})
}
