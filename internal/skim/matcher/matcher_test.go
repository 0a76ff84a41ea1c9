package matcher

import (
	"context"
	"testing"

	"github.com/skim-rs/skim/internal/skim/engine"
	"github.com/skim-rs/skim/internal/skim/item"
)

func fill(pool *item.Pool, lines []string) {
	for _, l := range lines {
		pool.Append(item.Item{Raw: l, Display: l, Match: l, Preview: l})
	}
}

func TestMatcherRanksByScore(t *testing.T) {
	pool := item.NewPool(1)
	fill(pool, []string{"xxfooxx", "banana", "foo"})

	m := New(pool, nil, 4, 4)
	f := engine.Factory{DefaultMode: engine.KindFuzzy, Extended: true}
	tree := f.Build("foo", false)

	m.Run(context.Background(), 1, 1, tree)
	view := <-m.Views()

	if view.Matched != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", view.Matched, view.Results)
	}
	if view.Results[0].Index != 2 {
		t.Fatalf("expected 'foo' at a boundary (index 2) to outscore mid-word 'xxfooxx', got %+v", view.Results)
	}
}

func TestMatcherResumesFromScanCursor(t *testing.T) {
	pool := item.NewPool(1)
	fill(pool, []string{"foo", "bar"})

	m := New(pool, nil, 4, 4)
	f := engine.Factory{DefaultMode: engine.KindFuzzy, Extended: true}
	tree := f.Build("foo", false)

	m.Run(context.Background(), 1, 1, tree)
	first := <-m.Views()
	if first.Matched != 1 {
		t.Fatalf("expected 1 match before growth, got %d", first.Matched)
	}

	pool.Append(item.Item{Raw: "food", Display: "food", Match: "food", Preview: "food"})
	m.Run(context.Background(), 1, 1, tree)
	second := <-m.Views()
	if second.Matched != 2 {
		t.Fatalf("expected 2 matches after growth, got %d: %+v", second.Matched, second.Results)
	}
}

func TestMatcherCancellationSkipsPublish(t *testing.T) {
	pool := item.NewPool(1)
	fill(pool, []string{"foo", "bar", "baz"})

	m := New(pool, nil, 1, 1)
	f := engine.Factory{DefaultMode: engine.KindFuzzy, Extended: true}
	tree := f.Build("foo", false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.Run(ctx, 1, 1, tree)

	select {
	case v := <-m.Views():
		t.Fatalf("expected no view published after cancellation, got %+v", v)
	default:
	}
}

func TestTreeKeyStringDistinguishesPatterns(t *testing.T) {
	f := engine.Factory{DefaultMode: engine.KindFuzzy, Extended: true}
	a := f.Build("foo", false)
	b := f.Build("bar", false)
	if treeKeyString(a) == treeKeyString(b) {
		t.Fatal("expected distinct patterns to produce distinct keys")
	}
	c := f.Build("foo", false)
	if treeKeyString(a) != treeKeyString(c) {
		t.Fatal("expected identical patterns to produce identical keys")
	}
}
