package fuguetext

import (
	"fmt"

	"github.com/rivo/uniseg"
)

// graphemeCount returns the number of UAX #29 extended grapheme clusters in
// s. All user-facing lengths and positions in this package count
// graphemes, never code points or bytes. "Hello 👋" is 7 graphemes and 7
// runes but 10 bytes.
func graphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// renderedBuffer is the grapheme-indexable, byte-addressable text store
// mirroring the visible (non-deleted) blocks. It has no CRDT metadata of
// its own: at quiescence its content is exactly the concatenation of live
// block text in store order, and it is rebuilt from the block store
// wholesale whenever that invariant might otherwise be in doubt (merge,
// deserialization).
//
// No mature Go rope or piece-table library exists (ropey is Rust-only), so
// this is a plain growable byte slice with grapheme boundaries located via
// uniseg on demand. See DESIGN.md for why that tradeoff was accepted
// instead of hand-rolling a rope.
type renderedBuffer struct {
	data []byte
}

func newRenderedBuffer() *renderedBuffer {
	return &renderedBuffer{}
}

// Insert splices s into the buffer at byteOffset.
func (b *renderedBuffer) Insert(byteOffset int, s string) error {
	if byteOffset < 0 || byteOffset > len(b.data) {
		return fmt.Errorf("byte offset %d out of bounds (len %d)", byteOffset, len(b.data))
	}
	if s == "" {
		return nil
	}
	next := make([]byte, 0, len(b.data)+len(s))
	next = append(next, b.data[:byteOffset]...)
	next = append(next, s...)
	next = append(next, b.data[byteOffset:]...)
	b.data = next
	return nil
}

// Delete removes the byte range [byteStart, byteEnd) from the buffer.
func (b *renderedBuffer) Delete(byteStart, byteEnd int) error {
	if byteStart < 0 || byteEnd > len(b.data) || byteStart > byteEnd {
		return fmt.Errorf("byte range %d..%d out of bounds (len %d)", byteStart, byteEnd, len(b.data))
	}
	if byteStart == byteEnd {
		return nil
	}
	next := make([]byte, 0, len(b.data)-(byteEnd-byteStart))
	next = append(next, b.data[:byteStart]...)
	next = append(next, b.data[byteEnd:]...)
	b.data = next
	return nil
}

// GraphemeCount returns the number of grapheme clusters currently held.
func (b *renderedBuffer) GraphemeCount() int {
	return graphemeCount(string(b.data))
}

// GraphemeIndexToByteOffset converts a grapheme-cluster index in [0,
// GraphemeCount()] to the corresponding byte offset, scanning cluster
// boundaries from the start. idx == GraphemeCount() yields len(data).
func (b *renderedBuffer) GraphemeIndexToByteOffset(idx int) (int, error) {
	if idx == 0 {
		return 0, nil
	}
	bytePos := 0
	count := 0
	g := uniseg.NewGraphemes(string(b.data))
	for g.Next() {
		if count == idx {
			return bytePos, nil
		}
		bytePos += len(g.Bytes())
		count++
	}
	if count == idx {
		return bytePos, nil
	}
	return 0, fmt.Errorf("grapheme index %d out of bounds (count %d)", idx, count)
}

// RenderToString returns the buffer's full visible content.
func (b *renderedBuffer) RenderToString() string {
	return string(b.data)
}

// Rebuild replaces the buffer's content wholesale, used after merge and
// after deserialization where the block store is the only trustworthy
// source of truth: on any ambiguity about the buffer's relationship to the
// store, it is rebuilt from the block store rather than patched.
func (b *renderedBuffer) Rebuild(text string) {
	b.data = append(b.data[:0], text...)
}
