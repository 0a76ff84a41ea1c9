package history

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	h, err := Load(filepath.Join(t.TempDir(), "nope"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Len() != 0 {
		t.Fatalf("expected empty history, got %d entries", h.Len())
	}
}

func TestUpDownCyclesNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist")
	if err := os.WriteFile(path, []byte("a\nb\nc"), 0o644); err != nil {
		t.Fatal(err)
	}
	h, err := Load(path, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := h.Up("bn")
	if !ok || got != "c" {
		t.Fatalf("expected first Up to return c, got %q ok=%v", got, ok)
	}
	got, ok = h.Up("")
	if !ok || got != "b" {
		t.Fatalf("expected second Up to return b, got %q ok=%v", got, ok)
	}
	got, ok = h.Up("")
	if !ok || got != "a" {
		t.Fatalf("expected third Up to return a, got %q ok=%v", got, ok)
	}
	if _, ok := h.Up(""); ok {
		t.Fatal("expected Up at the oldest entry to report no further entry")
	}

	got, ok = h.Down()
	if !ok || got != "b" {
		t.Fatalf("expected Down to return b, got %q ok=%v", got, ok)
	}
	got, ok = h.Down()
	if !ok || got != "c" {
		t.Fatalf("expected Down to return c, got %q ok=%v", got, ok)
	}
	got, ok = h.Down()
	if !ok || got != "bn" {
		t.Fatalf("expected Down past the newest entry to restore the draft, got %q ok=%v", got, ok)
	}
}

func TestAppendPersistsAndCapsSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist")
	if err := os.WriteFile(path, []byte("a\nb\nc"), 0o644); err != nil {
		t.Fatal(err)
	}
	h, err := Load(path, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.Append("bn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Len() != 3 {
		t.Fatalf("expected history capped at 3 entries, got %d", h.Len())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "b\nc\nbn" {
		t.Fatalf("expected persisted file to drop the oldest entry, got %q", string(data))
	}
}

func TestAppendIgnoresEmptyQuery(t *testing.T) {
	h, err := Load(filepath.Join(t.TempDir(), "hist"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.Append(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Len() != 0 {
		t.Fatal("expected empty query not to be recorded")
	}
}
