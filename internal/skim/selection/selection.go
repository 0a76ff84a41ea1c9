// Package selection tracks cursor position and the multi-select set
// described in spec.md §4.6: selection is keyed by an item's stable pool
// index, so it survives re-ranking, filtering, and reordering of the
// ranked view.
package selection

import "sort"

// State holds the cursor position (an offset into the current ranked
// view, not a pool index) and the set of pool indices marked selected.
type State struct {
	cursor   int
	selected map[int]struct{}
	// order preserves the sequence selections were made in, since some
	// consumers (the {+} template expansion, per spec.md §6) need
	// selection order rather than pool order.
	order []int
}

// New returns an empty selection state with the cursor at the top.
func New() *State {
	return &State{selected: make(map[int]struct{})}
}

// Cursor returns the current cursor offset into the ranked view.
func (s *State) Cursor() int { return s.cursor }

// SetCursor clamps and sets the cursor offset. viewLen is the length of
// the current ranked view; a cursor is always kept in [0, viewLen-1]
// (or 0 when the view is empty).
func (s *State) SetCursor(pos int, viewLen int) {
	if viewLen <= 0 {
		s.cursor = 0
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= viewLen {
		pos = viewLen - 1
	}
	s.cursor = pos
}

// Move shifts the cursor by delta, clamping to the view bounds.
func (s *State) Move(delta int, viewLen int) {
	s.SetCursor(s.cursor+delta, viewLen)
}

// Toggle flips whether poolIndex is selected.
func (s *State) Toggle(poolIndex int) {
	if _, ok := s.selected[poolIndex]; ok {
		delete(s.selected, poolIndex)
		s.removeFromOrder(poolIndex)
		return
	}
	s.selected[poolIndex] = struct{}{}
	s.order = append(s.order, poolIndex)
}

// Select marks poolIndex selected unconditionally (idempotent).
func (s *State) Select(poolIndex int) {
	if _, ok := s.selected[poolIndex]; ok {
		return
	}
	s.selected[poolIndex] = struct{}{}
	s.order = append(s.order, poolIndex)
}

// Deselect clears poolIndex unconditionally (idempotent).
func (s *State) Deselect(poolIndex int) {
	if _, ok := s.selected[poolIndex]; !ok {
		return
	}
	delete(s.selected, poolIndex)
	s.removeFromOrder(poolIndex)
}

// SelectAll marks every poolIndex in indices selected, preserving the
// order they're given in (used by select-all and by-pattern bindings).
func (s *State) SelectAll(indices []int) {
	for _, idx := range indices {
		s.Select(idx)
	}
}

// Clear empties the selection set without touching the cursor.
func (s *State) Clear() {
	s.selected = make(map[int]struct{})
	s.order = nil
}

// IsSelected reports whether poolIndex is currently selected.
func (s *State) IsSelected(poolIndex int) bool {
	_, ok := s.selected[poolIndex]
	return ok
}

// Count returns the number of selected items.
func (s *State) Count() int { return len(s.selected) }

// Selected returns selected pool indices in selection order (the order
// {+} should expand them in). The returned slice is a copy.
func (s *State) Selected() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// SelectedSorted returns selected pool indices in ascending pool order,
// used when the caller wants deterministic output rather than selection
// order (e.g. the final "print selection" step when nothing was
// explicitly multi-selected in a particular order and pool order is
// more natural).
func (s *State) SelectedSorted() []int {
	out := s.Selected()
	sort.Ints(out)
	return out
}

func (s *State) removeFromOrder(poolIndex int) {
	for i, idx := range s.order {
		if idx == poolIndex {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
