// Package item implements the ownership-stable item record and the
// append-only pool that the Reader publishes into and the Matcher scans.
package item

import "strings"

// Segment is a run of display text sharing one set of ANSI attributes.
type Segment struct {
	Text string
	Attr Attr
}

// Attr holds the SGR attributes active for a Segment.
type Attr struct {
	Fg        int32 // -1 = unset
	Bg        int32 // -1 = unset
	Bold      bool
	Underline bool
	Reverse   bool
	Dim       bool
	Italic    bool
}

// DefaultAttr is the zero-value attribute set (no color, no styling).
func DefaultAttr() Attr {
	return Attr{Fg: -1, Bg: -1}
}

// Item is immutable after publication into the Pool. All fields are set
// once at construction time and never mutated afterward, so concurrent
// readers never need to synchronize on an individual Item.
type Item struct {
	// Index is the stable, monotonically increasing insertion rank
	// assigned by the Pool. It never changes for the lifetime of the item.
	Index int

	// Raw is the unmodified input line with only the record delimiter
	// stripped.
	Raw string

	// Display is Raw with ANSI stripped (or, when ANSI parsing is
	// enabled, Raw's plain-text projection); it is what the renderer
	// shows absent field restriction.
	Display string

	// Match is what the Engine scores against. It normally equals
	// Display but is narrowed by a FieldSelector when --nth is
	// configured.
	Match string

	// Preview is the text used to expand {} et al. in preview/execute
	// command templates; the reader narrows it with the same
	// FieldSelector as Match, so the two hold the same text.
	Preview string

	// Segments holds the ANSI attribute runs over Display, or nil if
	// ANSI parsing was disabled or the line carried no escapes.
	Segments []Segment

	// Epoch identifies the reader generation this item belongs to. A
	// restart bumps the epoch and starts a new Pool, so stale
	// in-flight matcher work can detect and discard results referring
	// to a superseded epoch.
	Epoch uint64
}

// PlainText strips a slice of Segments back down to concatenated text.
// ParseANSI uses it to build the plain text of a multi-segment line.
func PlainText(segs []Segment) string {
	if len(segs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}
