package item

import "sync/atomic"

// chunkSize is the segment size of the Pool's segmented vector. Once a
// chunk is allocated it is never reallocated, so a reader holding a
// snapshot length can safely index into chunks below that length while
// the writer appends into later chunks or the tail of the current one.
const chunkSize = 4096

// Pool is an append-only, ordered sequence of Items. It is safe for
// exactly one writer (the Reader) to call Append concurrently with many
// readers (Matcher workers) calling At/Len, following the acquire/release
// discipline documented on Len and Append: readers must load Len with
// Len() before indexing, and never index at or beyond that snapshot.
type Pool struct {
	chunks atomic.Pointer[[][]Item] // append-only slice of chunk pointers, replaced (not mutated) under growth
	length atomic.Int64
	epoch  uint64
}

// NewPool creates an empty pool tagged with the given reader epoch. A
// restart (§4.4) creates a fresh Pool with a bumped epoch rather than
// mutating an old one, so any reference into the old Pool remains valid
// and inert.
func NewPool(epoch uint64) *Pool {
	p := &Pool{epoch: epoch}
	chunks := make([][]Item, 0, 1)
	p.chunks.Store(&chunks)
	return p
}

// Epoch returns the reader-epoch this pool belongs to.
func (p *Pool) Epoch() uint64 { return p.epoch }

// Len returns the number of published items. This is the
// acquire-load readers must take before scanning: everything below the
// returned value is guaranteed fully written and stable.
func (p *Pool) Len() int {
	return int(p.length.Load())
}

// Append adds one item to the pool, assigning it the next stable index.
// Only the Reader goroutine may call Append; concurrent Append calls are
// not supported (the single-writer invariant, §4.1/§5).
func (p *Pool) Append(it Item) int {
	idx := int(p.length.Load())
	it.Index = idx
	it.Epoch = p.epoch

	chunkIdx := idx / chunkSize
	offset := idx % chunkSize

	chunksPtr := p.chunks.Load()
	chunks := *chunksPtr
	if chunkIdx >= len(chunks) {
		grown := make([][]Item, chunkIdx+1)
		copy(grown, chunks)
		chunks = grown
	}
	if chunks[chunkIdx] == nil {
		chunks[chunkIdx] = make([]Item, chunkSize)
	}
	chunks[chunkIdx][offset] = it
	p.chunks.Store(&chunks)

	// Publish the new length only after the item is fully written and
	// the chunk pointer swapped, so a concurrent Len()+At() sequence on
	// another goroutine never observes a torn write.
	p.length.Store(int64(idx + 1))
	return idx
}

// At returns the item at idx. Callers must have first observed idx <
// Len() (typically by snapshotting Len() once at the start of a scan).
// At does not check Len(): an idx past it but inside an allocated chunk
// returns a zero Item, and an idx past the last allocated chunk panics.
func (p *Pool) At(idx int) Item {
	chunks := *p.chunks.Load()
	return chunks[idx/chunkSize][idx%chunkSize]
}

// Snapshot copies out items [0, n) for tests and small pools. Not used
// on the hot matching path, which reads through At to avoid the copy.
func (p *Pool) Snapshot(n int) []Item {
	out := make([]Item, n)
	for i := 0; i < n; i++ {
		out[i] = p.At(i)
	}
	return out
}
