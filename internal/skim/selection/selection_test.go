package selection

import "testing"

func TestToggleAndCount(t *testing.T) {
	s := New()
	s.Toggle(3)
	s.Toggle(7)
	if s.Count() != 2 {
		t.Fatalf("expected 2 selected, got %d", s.Count())
	}
	s.Toggle(3)
	if s.Count() != 1 {
		t.Fatalf("expected 1 selected after untoggle, got %d", s.Count())
	}
	if !s.IsSelected(7) {
		t.Fatal("expected 7 still selected")
	}
}

func TestSelectedPreservesOrder(t *testing.T) {
	s := New()
	s.Select(5)
	s.Select(1)
	s.Select(9)
	got := s.Selected()
	want := []int{5, 1, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	sorted := s.SelectedSorted()
	wantSorted := []int{1, 5, 9}
	for i := range wantSorted {
		if sorted[i] != wantSorted[i] {
			t.Fatalf("got %v want %v", sorted, wantSorted)
		}
	}
}

func TestCursorClamping(t *testing.T) {
	s := New()
	s.SetCursor(5, 3)
	if s.Cursor() != 2 {
		t.Fatalf("expected clamp to 2, got %d", s.Cursor())
	}
	s.SetCursor(-1, 3)
	if s.Cursor() != 0 {
		t.Fatalf("expected clamp to 0, got %d", s.Cursor())
	}
	s.SetCursor(1, 0)
	if s.Cursor() != 0 {
		t.Fatalf("expected cursor 0 on empty view, got %d", s.Cursor())
	}
}

func TestMoveWraplessClamp(t *testing.T) {
	s := New()
	s.SetCursor(1, 5)
	s.Move(10, 5)
	if s.Cursor() != 4 {
		t.Fatalf("expected clamp to 4, got %d", s.Cursor())
	}
	s.Move(-10, 5)
	if s.Cursor() != 0 {
		t.Fatalf("expected clamp to 0, got %d", s.Cursor())
	}
}

func TestClearEmptiesSelection(t *testing.T) {
	s := New()
	s.Select(1)
	s.Select(2)
	s.Clear()
	if s.Count() != 0 {
		t.Fatalf("expected 0 after clear, got %d", s.Count())
	}
}
