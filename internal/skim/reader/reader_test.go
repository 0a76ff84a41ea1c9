package reader

import (
	"context"
	"strings"
	"testing"

	"github.com/skim-rs/skim/internal/skim/item"
)

func TestRunDecodesNewlineDelimited(t *testing.T) {
	pool := item.NewPool(1)
	r := New(pool, Config{Delim: DelimNewline})

	err := r.Run(context.Background(), strings.NewReader("foo\nbar\nbaz\n"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", pool.Len())
	}
	if pool.At(1).Display != "bar" {
		t.Fatalf("expected 'bar', got %q", pool.At(1).Display)
	}
}

func TestRunDecodesNULDelimited(t *testing.T) {
	pool := item.NewPool(1)
	r := New(pool, Config{Delim: DelimNUL})

	err := r.Run(context.Background(), strings.NewReader("foo\x00bar\x00"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", pool.Len())
	}
}

func TestRunAppliesFieldSelector(t *testing.T) {
	pool := item.NewPool(1)
	sel, err := item.ParseFieldSelector("2", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := New(pool, Config{Delim: DelimNewline, Fields: sel})

	if err := r.Run(context.Background(), strings.NewReader("one two three\n"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := pool.At(0)
	if it.Display != "one two three" {
		t.Fatalf("expected Display unrestricted, got %q", it.Display)
	}
	if it.Match != "two" {
		t.Fatalf("expected Match narrowed to field 2, got %q", it.Match)
	}
}

func TestRunParsesANSI(t *testing.T) {
	pool := item.NewPool(1)
	r := New(pool, Config{Delim: DelimNewline, ANSI: true})

	if err := r.Run(context.Background(), strings.NewReader("\x1b[1mbold\x1b[0m\n"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := pool.At(0)
	if it.Display != "bold" {
		t.Fatalf("expected stripped display 'bold', got %q", it.Display)
	}
	if len(it.Segments) != 1 || !it.Segments[0].Attr.Bold {
		t.Fatalf("expected one bold segment, got %+v", it.Segments)
	}
}

func TestRunNotifiesBatches(t *testing.T) {
	pool := item.NewPool(1)
	r := New(pool, Config{Delim: DelimNewline})

	total := 0
	err := r.Run(context.Background(), strings.NewReader("a\nb\nc\n"), func(n int) {
		total += n
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected notify total 3, got %d", total)
	}
}

func TestRunCommandRoutesThroughShell(t *testing.T) {
	pool := item.NewPool(1)
	r := New(pool, Config{Delim: DelimNewline})

	err := r.RunCommand(context.Background(), Command{Line: "echo one; echo two"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.Len() != 2 {
		t.Fatalf("expected 2 items from a shell-joined command, got %d", pool.Len())
	}
	if pool.At(0).Display != "one" || pool.At(1).Display != "two" {
		t.Fatalf("unexpected items: %q, %q", pool.At(0).Display, pool.At(1).Display)
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	pool := item.NewPool(1)
	r := New(pool, Config{Delim: DelimNewline})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx, strings.NewReader("a\nb\nc\n"), nil)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}
