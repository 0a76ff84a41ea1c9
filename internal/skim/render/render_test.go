package render

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/skim-rs/skim/internal/skim/item"
)

func TestRowEmphasizesMatchPositions(t *testing.T) {
	it := item.Item{Display: "banana"}
	out := Row(it, []int{0, 1, 2}, false, 20, DefaultTheme)
	if !strings.Contains(out, "ban") {
		t.Fatalf("expected rendered text to contain the source runes, got %q", out)
	}
	if out == "banana"+strings.Repeat(" ", 14) {
		t.Fatal("expected ANSI styling to be applied, got unstyled plain text")
	}
}

func TestRowPadsToWidth(t *testing.T) {
	it := item.Item{Display: "ab"}
	out := Row(it, nil, false, 10, DefaultTheme)
	if runewidth.StringWidth(stripSGR(out)) != 10 {
		t.Fatalf("expected padded width 10, got %d (%q)", runewidth.StringWidth(stripSGR(out)), out)
	}
}

func TestRowTruncatesOverflow(t *testing.T) {
	it := item.Item{Display: strings.Repeat("x", 50)}
	out := Row(it, nil, false, 10, DefaultTheme)
	if runewidth.StringWidth(stripSGR(out)) != 10 {
		t.Fatalf("expected truncated width 10, got %d", runewidth.StringWidth(stripSGR(out)))
	}
	if !strings.Contains(out, "…") {
		t.Fatal("expected ellipsis marker on truncated row")
	}
}

func TestRowHonorsANSISegments(t *testing.T) {
	plain, segs := item.ParseANSI("\x1b[31mred\x1b[0mplain")
	it := item.Item{Display: plain, Segments: segs}
	out := Row(it, nil, false, 20, DefaultTheme)
	if !strings.Contains(out, "red") || !strings.Contains(out, "plain") {
		t.Fatalf("expected both segments' text preserved, got %q", out)
	}
}

func TestLocationKeepsFilenameVisibleUnderTruncation(t *testing.T) {
	out := Location("a/very/deeply/nested/path/to/file.go", 42, 7, nil, false, 20, DefaultTheme)
	if !strings.Contains(out, "file.go") {
		t.Fatalf("expected filename to survive truncation, got %q", out)
	}
	if !strings.Contains(out, "42") {
		t.Fatalf("expected line number suffix, got %q", out)
	}
}

func TestLoadThemeRejectsUnknownName(t *testing.T) {
	if _, err := LoadTheme("definitely-not-a-real-theme"); err == nil {
		t.Fatal("expected an error for an unknown theme name")
	}
}

func TestLoadThemeResolvesKnownStyle(t *testing.T) {
	th, err := LoadTheme("dracula")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.Name != "dracula" {
		t.Fatalf("expected resolved name dracula, got %q", th.Name)
	}
}

// stripSGR removes ANSI SGR escapes so width assertions operate on
// visible columns only.
func stripSGR(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			i = j + 1
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
