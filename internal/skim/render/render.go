package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/skim-rs/skim/internal/skim/item"
)

// Row renders one list row: it.Display styled by its ANSI segments (if
// any, from --ansi), overlaid with emphasis on matchPositions (rune
// offsets into it.Match, which equals Display unless narrowed by a
// FieldSelector), truncated and padded to width, with selected applying
// the theme's selection background across the whole row.
func Row(it item.Item, matchPositions []int, selected bool, width int, theme Theme) string {
	if width <= 0 {
		return ""
	}
	text := it.Display
	if len(it.Segments) > 0 {
		text = item.PlainText(it.Segments)
	}
	text = sanitizeRow(text)

	runes := []rune(text)
	attrs := perRuneAttr(runes, it.Segments)
	emph := emphasisMask(len(runes), matchPositions)

	runes, attrs, emph = truncateRow(runes, attrs, emph, width)

	var b strings.Builder
	rendered := 0
	i := 0
	for i < len(runes) {
		j := i + 1
		for j < len(runes) && attrs[j] == attrs[i] && emph[j] == emph[i] {
			j++
		}
		run := string(runes[i:j])
		b.WriteString(styleFor(attrs[i], emph[i], selected, theme).Render(run))
		rendered += runewidth.StringWidth(run)
		i = j
	}
	if pad := width - rendered; pad > 0 {
		padStyle := lipgloss.NewStyle()
		if selected {
			padStyle = padStyle.Background(lipgloss.Color(theme.SelectionBG))
		}
		b.WriteString(padStyle.Render(strings.Repeat(" ", pad)))
	}
	return b.String()
}

// Location renders a "dir/file:line:col"-shaped string (the common case
// for file-path items), keeping the filename visible under truncation by
// shrinking the directory portion first, with the same match-emphasis
// overlay as Row.
func Location(path string, line, col int, matchPositions []int, selected bool, width int, theme Theme) string {
	if width <= 0 {
		return ""
	}
	suffix := ""
	if line > 0 {
		if col > 0 {
			suffix = ":" + strconv.Itoa(line) + ":" + strconv.Itoa(col)
		} else {
			suffix = ":" + strconv.Itoa(line)
		}
	}
	full := path + suffix
	runes := []rune(full)
	emph := emphasisMask(len(runes), matchPositions)

	dirEnd := strings.LastIndexByte(path, '/') + 1 // 0 if no slash

	fixedWidth := runewidth.StringWidth(suffix)
	budget := width - fixedWidth
	if budget < 1 {
		budget = 1
	}

	dirRunes := []rune(path[:dirEnd])
	baseRunes := []rune(path[dirEnd:])
	if runewidth.StringWidth(string(dirRunes))+runewidth.StringWidth(string(baseRunes)) > budget {
		keep := budget - runewidth.StringWidth(string(baseRunes))
		if keep < 1 {
			dirRunes = nil
			baseRunes = []rune(runewidth.Truncate(string(baseRunes), budget, "…"))
		} else {
			dirRunes = []rune(runewidth.Truncate(string(dirRunes), keep, "…"))
		}
	}

	var b strings.Builder
	pos := 0
	writeRun := func(s string, style lipgloss.Style) {
		for _, r := range s {
			sub := style
			if emphasisAt(emph, pos) {
				sub = sub.Bold(true).Underline(true).Foreground(lipgloss.Color(theme.MatchFG))
			}
			b.WriteString(sub.Render(string(r)))
			pos++
		}
	}

	dirStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.PathDir))
	fileStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.PathFile)).Bold(true)
	suffixStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.PathMeta))
	if selected {
		bg := lipgloss.Color(theme.SelectionBG)
		dirStyle = dirStyle.Background(bg)
		fileStyle = fileStyle.Background(bg)
		suffixStyle = suffixStyle.Background(bg)
	}

	writeRun(string(dirRunes), dirStyle)
	writeRun(string(baseRunes), fileStyle)
	writeRun(suffix, suffixStyle)

	used := runewidth.StringWidth(string(dirRunes)) + runewidth.StringWidth(string(baseRunes)) + fixedWidth
	if pad := width - used; pad > 0 {
		style := lipgloss.NewStyle()
		if selected {
			style = style.Background(lipgloss.Color(theme.SelectionBG))
		}
		b.WriteString(style.Render(strings.Repeat(" ", pad)))
	}
	return b.String()
}

func sanitizeRow(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", "    ")
	return s
}

// perRuneAttr expands segs (byte-run attributes over the segment text,
// which concatenates to the same string runes was built from) into one
// Attr per rune in runes. Absent segments, every rune gets the default
// (unstyled) attribute.
func perRuneAttr(runes []rune, segs []item.Segment) []item.Attr {
	attrs := make([]item.Attr, len(runes))
	if len(segs) == 0 {
		def := item.DefaultAttr()
		for i := range attrs {
			attrs[i] = def
		}
		return attrs
	}
	idx := 0
	for _, seg := range segs {
		n := len([]rune(seg.Text))
		for k := 0; k < n && idx < len(attrs); k++ {
			attrs[idx] = seg.Attr
			idx++
		}
	}
	for idx < len(attrs) {
		attrs[idx] = item.DefaultAttr()
		idx++
	}
	return attrs
}

// emphasisMask marks every rune index present in positions (§4.2's match
// position set) as emphasized.
func emphasisMask(runeLen int, positions []int) []bool {
	mask := make([]bool, runeLen)
	for _, p := range positions {
		if p >= 0 && p < runeLen {
			mask[p] = true
		}
	}
	return mask
}

func emphasisAt(mask []bool, idx int) bool {
	if idx < 0 || idx >= len(mask) {
		return false
	}
	return mask[idx]
}

// truncateRow shortens runes/attrs/emph together to fit width display
// columns, appending an ellipsis rune when truncated.
func truncateRow(runes []rune, attrs []item.Attr, emph []bool, width int) ([]rune, []item.Attr, []bool) {
	if runewidth.StringWidth(string(runes)) <= width {
		return runes, attrs, emph
	}
	if width <= 1 {
		return []rune{'…'}, []item.Attr{item.DefaultAttr()}, []bool{false}
	}
	w := 0
	cut := 0
	for cut < len(runes) {
		rw := runewidth.RuneWidth(runes[cut])
		if w+rw > width-1 {
			break
		}
		w += rw
		cut++
	}
	out := make([]rune, cut+1)
	copy(out, runes[:cut])
	out[cut] = '…'
	outAttrs := make([]item.Attr, cut+1)
	copy(outAttrs, attrs[:cut])
	outAttrs[cut] = item.DefaultAttr()
	outEmph := make([]bool, cut+1)
	copy(outEmph, emph[:cut])
	return out, outAttrs, outEmph
}

func styleFor(attr item.Attr, emphasized, selected bool, theme Theme) lipgloss.Style {
	style := lipgloss.NewStyle()
	if attr.Fg >= 0 {
		style = style.Foreground(ansiColor(attr.Fg))
	} else {
		style = style.Foreground(lipgloss.Color(theme.Text))
	}
	if attr.Bg >= 0 {
		style = style.Background(ansiColor(attr.Bg))
	}
	if attr.Bold {
		style = style.Bold(true)
	}
	if attr.Underline {
		style = style.Underline(true)
	}
	if attr.Italic {
		style = style.Italic(true)
	}
	if attr.Dim {
		style = style.Faint(true)
	}
	if attr.Reverse {
		style = style.Reverse(true)
	}
	if emphasized {
		style = style.Bold(true).Underline(true).Foreground(lipgloss.Color(theme.MatchFG))
	}
	if selected {
		style = style.Background(lipgloss.Color(theme.SelectionBG))
	}
	return style
}

func ansiColor(code int32) lipgloss.Color {
	return lipgloss.Color(strconv.Itoa(int(code)))
}
