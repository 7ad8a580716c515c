package fuguetext

import "fmt"

// NodeID is the globally unique, totally ordered identity of a Block.
// Ordering is lexicographic on (Clock, ClientID, Offset): Clock dominates
// so the order respects Lamport causality, ClientID breaks ties
// deterministically across replicas, and Offset is reserved for future
// block splitting. Today every minted id carries Offset 0.
//
// NodeID is minted only by Replica.Insert, pairing a fresh tick of the
// replica's local Lamport clock with its client id; it is otherwise an immutable, value-typed key used
// for lookups, never a pointer into another structure.
type NodeID struct {
	ClientID string `json:"client_id"`
	Clock    uint64 `json:"clock"`
	Offset   uint32 `json:"offset"`
}

// Less reports whether n sorts strictly before other under the Fugue total
// order. It is the sole comparison Block relies on to satisfy btree.Item,
// and therefore the comparison that defines store order.
func (n NodeID) Less(other NodeID) bool {
	if n.Clock != other.Clock {
		return n.Clock < other.Clock
	}
	if n.ClientID != other.ClientID {
		return n.ClientID < other.ClientID
	}
	return n.Offset < other.Offset
}

// Equal reports structural equality.
func (n NodeID) Equal(other NodeID) bool {
	return n.Clock == other.Clock && n.ClientID == other.ClientID && n.Offset == other.Offset
}

func (n NodeID) String() string {
	return fmt.Sprintf("%s@%d:%d", n.ClientID, n.Clock, n.Offset)
}
