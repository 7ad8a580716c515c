package fuguetext

import "github.com/google/btree"

// Block is an atomic, immutable run of graphemes inserted in a single
// operation. One Insert call produces one Block no matter how many
// graphemes its text holds (run-length encoding), plus the two Fugue
// anchors recorded at the moment of insertion.
//
// Text, LeftOrigin, RightOrigin, and ID never change after construction.
// Deleted is a monotone tombstone flag: once true, it is never reset.
// cachedStartPos is pure bookkeeping for the position cache (component E)
// and carries no CRDT semantics of its own.
type Block struct {
	ID          NodeID  `json:"id"`
	Text        string  `json:"text"`
	LeftOrigin  *NodeID `json:"left_origin"`
	RightOrigin *NodeID `json:"right_origin"`
	Deleted     bool    `json:"deleted"`

	cachedStartPos *int
}

var _ btree.Item = (*Block)(nil)

// Less implements btree.Item, keying the block store on NodeID order. That
// order is the canonical Fugue document order.
func (b *Block) Less(than btree.Item) bool {
	return b.ID.Less(than.(*Block).ID)
}

// graphemeLen returns the block's contribution to the rendered document in
// grapheme clusters. Deleted blocks contribute zero.
func (b *Block) graphemeLen() int {
	if b.Deleted {
		return 0
	}
	return graphemeCount(b.Text)
}

// setCachedStartPos records the block's first-grapheme offset in the
// current rendered document, maintained by the position cache's
// rebuild/patch protocol.
func (b *Block) setCachedStartPos(pos int) {
	b.cachedStartPos = &pos
}

// CachedStartPos returns the block's last-computed start offset and
// whether one has ever been recorded. Exposed for diagnostics, and also
// read by the position cache's resolve and patch binary searches to derive
// each live block's span.
func (b *Block) CachedStartPos() (int, bool) {
	if b.cachedStartPos == nil {
		return 0, false
	}
	return *b.cachedStartPos, true
}

// clone produces a value-independent copy suitable for crossing into
// another replica's store during merge. Text/LeftOrigin/RightOrigin/ID are
// immutable so sharing them would be safe too, but a defensive copy keeps
// Deleted and cachedStartPos from aliasing across replicas.
func (b *Block) clone() *Block {
	cp := &Block{
		ID:      b.ID,
		Text:    b.Text,
		Deleted: b.Deleted,
	}
	if b.LeftOrigin != nil {
		lo := *b.LeftOrigin
		cp.LeftOrigin = &lo
	}
	if b.RightOrigin != nil {
		ro := *b.RightOrigin
		cp.RightOrigin = &ro
	}
	return cp
}
