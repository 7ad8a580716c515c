package fuguetext

import (
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Package-level (de)serialization uses goccy/go-json, a drop-in faster
// replacement for encoding/json also depended on directly by erigon. The
// replica's JSON shape needs nothing encoding/json couldn't do, but there
// is no reason to prefer the slower stdlib codec when a faster drop-in is
// already on hand for this exact concern.

type wireClock struct {
	Value uint64 `json:"value"`
}

// blockPair marshals as the two-element JSON array form required for
// each store entry: [NodeID, Block].
type blockPair struct {
	ID    NodeID
	Block *Block
}

func (p blockPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.ID, p.Block})
}

func (p *blockPair) UnmarshalJSON(data []byte) error {
	var arr [2]json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if err := json.Unmarshal(arr[0], &p.ID); err != nil {
		return err
	}
	p.Block = &Block{}
	return json.Unmarshal(arr[1], p.Block)
}

type wireReplica struct {
	Blocks   []blockPair `json:"blocks"`
	Clock    wireClock   `json:"clock"`
	ClientID string      `json:"client_id"`
}

// MarshalJSON produces the stable wire schema:
//
//	{ "blocks": [[NodeId, Block], ...], "clock": {"value": u64}, "client_id": string }
//
// Blocks are emitted in store order, though that order is only a hint to
// readers. UnmarshalJSON re-sorts by id regardless of input order.
func (r *Replica) MarshalJSON() ([]byte, error) {
	pairs := make([]blockPair, 0, r.store.Len())
	r.store.Ascend(func(b *Block) bool {
		pairs = append(pairs, blockPair{ID: b.ID, Block: b})
		return true
	})
	return json.Marshal(wireReplica{
		Blocks:   pairs,
		Clock:    wireClock{Value: r.clock.Value()},
		ClientID: r.clientID,
	})
}

// UnmarshalJSON reconstructs a Replica from the wire schema: the block
// store is rebuilt from the array (re-sorted by id, since array order is
// only a hint), the rendered buffer is rebuilt by concatenating live text
// in store order, and the position cache is invalidated.
func (r *Replica) UnmarshalJSON(data []byte) error {
	var w wireReplica
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(err, "fuguetext: malformed replica json")
	}

	r.clientID = w.ClientID
	r.clock = lamportClock{value: w.Clock.Value}
	r.store = newBlockStore()
	for _, p := range w.Blocks {
		b := p.Block
		b.ID = p.ID
		r.store.Insert(b)
	}

	if r.buffer == nil {
		r.buffer = newRenderedBuffer()
	}
	r.rebuildRenderedBuffer()

	if r.cache == nil {
		r.cache = newPositionCache()
	}
	r.cache.invalidate()

	if r.log == nil {
		r.log = zap.NewNop()
	}
	r.stats = opStats{}

	return nil
}
