package preview

import (
	"context"
	"testing"
	"time"

	"github.com/skim-rs/skim/internal/skim/action"
)

func TestPreviewerRunsCommandAndHighlights(t *testing.T) {
	p := New(Config{Command: "printf {}", Debounce: time.Millisecond}, 4)
	p.Focus(1, action.Context{Current: "package main"}, 80, 24)

	select {
	case res := <-p.Results():
		if res.Err != nil {
			t.Fatalf("unexpected error: %v", res.Err)
		}
		if res.Text == "" {
			t.Fatal("expected non-empty preview text")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for preview result")
	}
}

func TestPreviewerDebounceCancelsSuperseded(t *testing.T) {
	p := New(Config{Command: "printf {}", Debounce: 200 * time.Millisecond}, 4)
	p.Focus(1, action.Context{Current: "first"}, 80, 24)
	p.Focus(2, action.Context{Current: "second"}, 80, 24)

	select {
	case res := <-p.Results():
		if res.FocusEpoch != 2 {
			t.Fatalf("expected only the superseding focus (epoch 2) to publish, got %d", res.FocusEpoch)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for preview result")
	}

	select {
	case res := <-p.Results():
		t.Fatalf("expected no second result, got %+v", res)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestHighlightJSONMarksKeys(t *testing.T) {
	h := NewHighlighter("")
	out := h.Highlight(context.Background(), "data.json", LangJSON, `{"name":"go"}`)
	if out == `{"name":"go"}` {
		t.Fatal("expected ANSI-escaped output distinct from plain input")
	}
}

func TestHighlightPlainTextFallsBackGracefully(t *testing.T) {
	h := NewHighlighter("")
	out := h.Highlight(context.Background(), "", LangPlain, "just some text")
	if out == "" {
		t.Fatal("expected non-empty output for plain text")
	}
}
