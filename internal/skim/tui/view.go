package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/skim-rs/skim/internal/skim/render"
)

// View renders the full screen: the query line, the ranked list (split
// against a preview pane when enabled), and a status/error footer in a
// vertical input-over-list layout (§4.8).
func (m *Model) View() string {
	if m.width == 0 {
		return "initializing…"
	}

	input := m.viewInput()
	body := m.viewBody()
	footer := m.viewFooter()
	return lipgloss.JoinVertical(lipgloss.Left, input, body, footer)
}

func (m *Model) viewInput() string {
	return m.input.View()
}

func (m *Model) viewBody() string {
	listWidth := m.width
	previewWidth := 0
	if m.previewVisible {
		previewWidth = m.width/2 - 1
		listWidth = m.width - previewWidth - 1
	}

	list := m.viewList(listWidth)
	if !m.previewVisible {
		return list
	}
	preview := m.viewPreview(previewWidth)
	sepLines := make([]string, m.listHeight())
	for i := range sepLines {
		sepLines[i] = "│"
	}
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color(m.opts.Theme.Dim)).Render(strings.Join(sepLines, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, list, sep, preview)
}

func (m *Model) viewList(width int) string {
	rows := m.listHeight()
	var b strings.Builder
	for i := 0; i < rows; i++ {
		if i >= len(m.view.Results) {
			b.WriteString(strings.Repeat(" ", width) + "\n")
			continue
		}
		res := m.view.Results[i]
		it := m.pool.At(res.Index)
		selected := m.sel.IsSelected(res.Index)
		cursor := i == m.sel.Cursor()

		pointerCell := " "
		if cursor {
			pointerCell = m.opts.Pointer
		}
		markCell := " "
		if selected {
			markCell = m.opts.Marker
		}
		marker := pointerCell + markCell + " "
		rowWidth := width - markerWidth(marker)

		var row string
		if m.opts.LocationMode {
			if path, line, col, ok := parseLocation(it.Display); ok {
				row = render.Location(path, line, col, res.Positions, cursor, rowWidth, m.opts.Theme)
			}
		}
		if row == "" {
			row = render.Row(it, res.Positions, cursor, rowWidth, m.opts.Theme)
		}
		b.WriteString(marker + row + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m *Model) viewPreview(width int) string {
	rows := m.listHeight()
	text := m.previewText
	if m.previewErr != "" {
		text = m.previewErr
	}
	lines := strings.Split(text, "\n")
	if m.previewScroll > 0 && m.previewScroll < len(lines) {
		lines = lines[m.previewScroll:]
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.opts.Theme.Text)).Width(width).MaxWidth(width)
	if m.previewErr != "" {
		style = style.Foreground(lipgloss.Color(m.opts.Theme.Error))
	}
	var b strings.Builder
	for i := 0; i < rows; i++ {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m *Model) viewFooter() string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(m.opts.Theme.Muted))
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(m.opts.Theme.Accent))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.opts.Theme.Error))

	counts := fmt.Sprintf("%d/%d", m.view.Matched, m.view.Total)
	if !m.readerDone {
		counts += " …"
	}
	if m.sel.Count() > 0 {
		counts += fmt.Sprintf(" (%d)", m.sel.Count())
	}
	line := accent.Render(counts)

	if msg := m.errMsg; msg != "" {
		line += "  " + errStyle.Render(msg)
	} else if m.regexErr != "" {
		line += "  " + errStyle.Render("regex: "+m.regexErr)
	} else {
		line += "  " + muted.Render(m.tracker.Current().Mode.String())
	}
	return line
}

func markerWidth(s string) int {
	return lipgloss.Width(s)
}
