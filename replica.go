package fuguetext

import "go.uber.org/zap"

// Option configures a Replica at construction time. The core takes no
// environment variables, CLI flags, or config files. This small
// functional-options surface is the only construction-time configuration
// it owns, mirroring the constructor-injection pattern used throughout
// zap-based service types (e.g. a channel repository or Redis client
// built as NewX(..., log *zap.Logger)).
type Option func(*Replica)

// WithLogger injects a *zap.Logger for structured diagnostic logging. If
// not supplied, Replica logs to a no-op logger so it never performs I/O a
// caller didn't ask for.
func WithLogger(log *zap.Logger) Option {
	return func(r *Replica) {
		if log != nil {
			r.log = log
		}
	}
}

// WithBufferCapacityHint pre-sizes the internal rendered buffer to avoid
// reallocation when a replica is about to be hydrated with a
// known-approximate amount of text (e.g. loading a large snapshot).
func WithBufferCapacityHint(byteCapacity int) Option {
	return func(r *Replica) {
		if byteCapacity > 0 {
			r.buffer.data = make([]byte, 0, byteCapacity)
		}
	}
}

// Replica is a single collaboratively-editable text CRDT instance,
// identified by an opaque client id supplied at construction. It consumes
// only that client identifier and fully-deserialized remote snapshots,
// nothing more.
//
// Replica is single-threaded and non-suspending: every operation is
// synchronous CPU work over in-memory state, and the type holds no
// internal lock. Concurrent access from multiple goroutines requires
// external mutual exclusion.
type Replica struct {
	clientID string
	clock    lamportClock
	store    *blockStore
	buffer   *renderedBuffer
	cache    *positionCache
	stats    opStats
	log      *zap.Logger
}

// New creates an empty replica for clientID: empty store, clock at 0, a
// valid (empty) position cache.
func New(clientID string, opts ...Option) *Replica {
	r := &Replica{
		clientID: clientID,
		store:    newBlockStore(),
		buffer:   newRenderedBuffer(),
		cache:    newPositionCache(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ClientID returns this replica's opaque identifier.
func (r *Replica) ClientID() string {
	return r.clientID
}

// Clock returns the current Lamport clock value.
func (r *Replica) Clock() uint64 {
	return r.clock.Value()
}

// Length returns the number of grapheme clusters in the visible document.
func (r *Replica) Length() int {
	return r.buffer.GraphemeCount()
}

// IsEmpty reports whether the visible document has zero graphemes.
func (r *Replica) IsEmpty() bool {
	return r.Length() == 0
}

// Render returns the visible document as a string.
func (r *Replica) Render() string {
	return r.buffer.RenderToString()
}

// Stats returns a snapshot of this replica's lifetime insert/delete
// grapheme counts. Diagnostic only; see stats.go.
func (r *Replica) Stats() Stats {
	return Stats{Inserted: r.stats.inserted, Deleted: r.stats.deleted}
}

// Insert splices text into the document at the given grapheme position,
// the core Fugue operation. It resolves the (left, right) origin anchors
// via the position cache, mints a new NodeID by ticking the Lamport
// clock, and returns that id.
func (r *Replica) Insert(pos int, text string) (NodeID, error) {
	length := r.Length()
	if pos > length {
		return NodeID{}, errPositionOutOfBounds(pos, length)
	}

	r.cache.ensureValid(r.store)
	left, right := r.cache.resolve(r.store, pos)

	ts := r.clock.Tick()
	id := NodeID{ClientID: r.clientID, Clock: ts, Offset: 0}

	block := &Block{
		ID:          id,
		Text:        text,
		LeftOrigin:  left,
		RightOrigin: right,
	}
	r.store.Insert(block)

	byteOff, err := r.buffer.GraphemeIndexToByteOffset(pos)
	if err != nil {
		return id, errRenderedBufferFailure(err)
	}
	if err := r.buffer.Insert(byteOff, text); err != nil {
		return id, errRenderedBufferFailure(err)
	}

	k := graphemeCount(text)
	r.cache.patchAfterInsert(r.store, pos, k, id)
	r.stats.recordInsert(k)

	r.log.Debug("insert",
		zap.String("id", id.String()),
		zap.Int("pos", pos),
		zap.Int("graphemes", k),
	)
	return id, nil
}

// Delete tombstones every live block whose span overlaps
// [pos, pos+length), removes the corresponding bytes from the rendered
// buffer, and returns the ids that were newly tombstoned.
func (r *Replica) Delete(pos, length int) ([]NodeID, error) {
	docLen := r.Length()
	if pos+length > docLen {
		return nil, errRangeOutOfBounds(pos, pos+length, docLen)
	}
	if length == 0 {
		return nil, nil
	}

	var deletedIDs []NodeID
	current := 0
	r.store.AscendMutate(func(b *Block) bool {
		if b.Deleted {
			return true
		}
		blockLen := b.graphemeLen()
		start, end := current, current+blockLen
		if start < pos+length && end > pos {
			b.Deleted = true
			deletedIDs = append(deletedIDs, b.ID)
		}
		current += blockLen
		return true
	})

	if len(deletedIDs) > 0 {
		byteStart, err := r.buffer.GraphemeIndexToByteOffset(pos)
		if err != nil {
			return nil, errRenderedBufferFailure(err)
		}
		byteEnd, err := r.buffer.GraphemeIndexToByteOffset(pos + length)
		if err != nil {
			return nil, errRenderedBufferFailure(err)
		}
		if err := r.buffer.Delete(byteStart, byteEnd); err != nil {
			return nil, errRenderedBufferFailure(err)
		}
		r.cache.rebuildAfterDelete(r.store)
		r.stats.recordDelete(length)
	}

	r.log.Debug("delete",
		zap.Int("pos", pos),
		zap.Int("length", length),
		zap.Int("tombstoned", len(deletedIDs)),
	)
	return deletedIDs, nil
}
