// Package matcher implements the hot-path parallel scoring engine
// described in spec.md §4.5: it drives a worker pool over the item pool,
// publishes an ordered ranked view, resumes on new items without
// rescoring old ones, and cancels cooperatively on query-epoch bumps.
package matcher

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/skim-rs/skim/internal/skim/engine"
	"github.com/skim-rs/skim/internal/skim/item"
)

// TieBreakCriterion names one field of the tie-break tuple (§3's
// default: score desc, begin asc, end asc, length asc, index asc).
// SPEC_FULL §12 generalizes this into a user-orderable list, the same
// way the original skim's --tiebreak flag composes ranks.rs criteria.
type TieBreakCriterion int

const (
	ByScore TieBreakCriterion = iota
	ByBegin
	ByEnd
	ByLength
	ByIndex
)

// DefaultTieBreak is spec.md §3's prescribed default order.
var DefaultTieBreak = []TieBreakCriterion{ByScore, ByBegin, ByEnd, ByLength, ByIndex}

// Result is one scored item, keyed by its stable pool index, carrying
// the engine's MatchResult plus the derived tie-break fields.
type Result struct {
	Index     int
	Score     int32
	Positions []int // rune offsets into the item's Match text, for render emphasis
	Begin     int
	End       int
	Length    int
}

// View is an immutable, atomically-swappable snapshot of the ranked
// output for one (reader-epoch, query-epoch) pair (§3, §5).
type View struct {
	ReaderEpoch uint64
	QueryEpoch  uint64
	Seq         uint64
	Results     []Result
	Matched     int
	Scanned     int
	Total       int
}

// Progress is the shape of a lightweight status update (§4.5 point 4).
// Run publishes only final Views; nothing sends a Progress on the
// channel ProgressCh returns.
type Progress struct {
	ReaderEpoch uint64
	QueryEpoch  uint64
	Matched     int
	Scanned     int
	Total       int
}

// scanKey identifies one (query epoch, tree shape) pair for the resume
// cursor: the same query text can be rebuilt into an equal-but-distinct
// Tree value across calls, so the key is the tree's string form, not
// its address.
type scanKey struct {
	epoch uint64
	tree  string
}

// Matcher owns one worker pool bound to one item.Pool. A new Matcher is
// created per reader-epoch; within an epoch, Run is invoked
// repeatedly as the query changes and as the pool grows.
type Matcher struct {
	pool     *item.Pool
	tieBreak []TieBreakCriterion
	workers  int

	viewCh     chan View
	progressCh chan Progress

	mu          sync.Mutex
	lastResults []Result // sorted results for the most recently completed (epoch, tree)
	lastKey     scanKey
	scanCursor  map[scanKey]int // how many pool indices have been scanned for a given (epoch, tree)
	seq         uint64
}

// New builds a Matcher over pool. viewBuf/progressBuf size the output
// channels; the Model should drain both continuously (§4.8).
func New(pool *item.Pool, tieBreak []TieBreakCriterion, viewBuf int, progressBuf int) *Matcher {
	workers := runtime.GOMAXPROCS(0)
	if workers > 8 {
		workers = 8
	}
	if workers < 1 {
		workers = 1
	}
	if tieBreak == nil {
		tieBreak = DefaultTieBreak
	}
	return &Matcher{
		pool:       pool,
		tieBreak:   tieBreak,
		workers:    workers,
		viewCh:     make(chan View, viewBuf),
		progressCh: make(chan Progress, progressBuf),
		scanCursor: make(map[scanKey]int),
	}
}

// Views returns the channel the Model should select on for new ranked
// views.
func (m *Matcher) Views() <-chan View { return m.viewCh }

// ProgressCh returns the channel the Model should select on for status
// updates.
func (m *Matcher) ProgressCh() <-chan Progress { return m.progressCh }

// Run scores the pool's current snapshot against tree under queryEpoch,
// publishing a final view. ctx is expected to be canceled by the caller
// the instant a newer query epoch is known (§4.5 point 6); Run checks
// ctx between chunks of items and abandons the run without publishing a
// (now-stale) view when canceled.
//
// If this exact (queryEpoch, tree) pair has already been scanned up to
// some prefix of the pool (because Run was previously called for it
// before the reader grew the pool further), Run rescans only the new
// indices and merges them into the previous sorted results (§4.5 point
// 5) instead of starting over from index 0.
func (m *Matcher) Run(ctx context.Context, readerEpoch uint64, queryEpoch uint64, tree engine.Tree) {
	total := m.pool.Len()
	key := scanKey{epoch: queryEpoch, tree: treeKeyString(tree)}

	m.mu.Lock()
	resumeFrom := m.scanCursor[key]
	var base []Result
	if resumeFrom > 0 && key == m.lastKey {
		base = m.lastResults
	} else {
		resumeFrom = 0
	}
	m.mu.Unlock()
	if resumeFrom > total {
		resumeFrom = 0
		base = nil
	}

	fresh, ok := m.scoreRange(ctx, resumeFrom, total, tree)
	if !ok {
		return // canceled: a newer epoch superseded this run
	}

	var merged []Result
	if base != nil {
		merged = mergeResults(base, fresh, m.tieBreak)
	} else {
		merged = fresh
		sortResults(merged, m.tieBreak)
	}

	m.mu.Lock()
	m.lastResults = merged
	m.lastKey = key
	m.scanCursor[key] = total
	m.seq++
	seq := m.seq
	m.mu.Unlock()

	view := View{
		ReaderEpoch: readerEpoch,
		QueryEpoch:  queryEpoch,
		Seq:         seq,
		Results:     merged,
		Matched:     len(merged),
		Scanned:     total,
		Total:       total,
	}
	select {
	case m.viewCh <- view:
	case <-ctx.Done():
	}
}

// scoreRange scores pool indices [start, total) against tree, fanning
// out across m.workers goroutines via errgroup, respecting ctx
// cancellation between item batches (cooperative cancellation, §4.5/§5).
func (m *Matcher) scoreRange(ctx context.Context, start int, total int, tree engine.Tree) ([]Result, bool) {
	if start >= total {
		return nil, true
	}
	n := total - start
	workers := m.workers
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	parts := make([][]Result, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		chunkStart := start + w*n/workers
		chunkEnd := start + (w+1)*n/workers
		g.Go(func() error {
			local := make([]Result, 0, (chunkEnd-chunkStart)/4+1)
			for i := chunkStart; i < chunkEnd; i++ {
				if i%256 == 0 {
					select {
					case <-gctx.Done():
						return gctx.Err()
					default:
					}
				}
				it := m.pool.At(i)
				res, ok := tree.Score(it.Match)
				if !ok {
					continue
				}
				local = append(local, resultFromMatch(i, res))
			}
			parts[w] = local
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, false
	}

	n2 := 0
	for _, p := range parts {
		n2 += len(p)
	}
	out := make([]Result, 0, n2)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, true
}

func resultFromMatch(index int, res engine.MatchResult) Result {
	begin, end := 0, 0
	if len(res.Positions) > 0 {
		begin = res.Positions[0]
		end = res.Positions[len(res.Positions)-1] + 1
	}
	return Result{
		Index:     index,
		Score:     res.Score,
		Positions: res.Positions,
		Begin:     begin,
		End:       end,
		Length:    end - begin,
	}
}

func sortResults(results []Result, tieBreak []TieBreakCriterion) {
	sort.Slice(results, func(i, j int) bool {
		return less(results[i], results[j], tieBreak)
	})
}

func less(a, b Result, tieBreak []TieBreakCriterion) bool {
	for _, c := range tieBreak {
		switch c {
		case ByScore:
			if a.Score != b.Score {
				return a.Score > b.Score
			}
		case ByBegin:
			if a.Begin != b.Begin {
				return a.Begin < b.Begin
			}
		case ByEnd:
			if a.End != b.End {
				return a.End < b.End
			}
		case ByLength:
			if a.Length != b.Length {
				return a.Length < b.Length
			}
		case ByIndex:
			if a.Index != b.Index {
				return a.Index < b.Index
			}
		}
	}
	return a.Index < b.Index
}

func mergeResults(a, b []Result, tieBreak []TieBreakCriterion) []Result {
	if len(b) == 0 {
		return a
	}
	sortResults(b, tieBreak)
	out := make([]Result, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if less(a[i], b[j], tieBreak) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// treeKeyString renders a Tree into a stable string so two structurally
// identical trees built from the same query text (but not the same Go
// value) hash to the same resume-cursor key.
func treeKeyString(t engine.Tree) string {
	var b []byte
	b = appendTreeKey(b, t)
	return string(b)
}

func appendTreeKey(b []byte, t engine.Tree) []byte {
	b = fmt.Appendf(b, "(%d neg=%v anc=%d pat=%q ic=%v algo=%d", t.Kind, t.Negate, t.Anchor, t.Leaf.Pattern, t.Leaf.IgnoreCase, t.Leaf.Algorithm)
	for _, c := range t.Children {
		b = append(b, ' ')
		b = appendTreeKey(b, c)
	}
	b = append(b, ')')
	return b
}
