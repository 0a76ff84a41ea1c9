package tui

import (
	"context"
	"os/exec"
	"strings"
	"unicode"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skim-rs/skim/internal/skim/action"
	"github.com/skim-rs/skim/internal/skim/item"
	"github.com/skim-rs/skim/internal/skim/matcher"
	"github.com/skim-rs/skim/internal/skim/query"
	"github.com/skim-rs/skim/internal/skim/reader"
)

// handleKey resolves one terminal key event against the active binding
// table (§6); an unbound key falls through to the query line editor via
// textinput.Model.Update.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+up":
		if text, ok := m.hist.Up(m.input.Value()); ok {
			m.setQueryText(text)
		}
		return m, nil
	case "ctrl+down":
		if text, ok := m.hist.Down(); ok {
			m.setQueryText(text)
		}
		return m, nil
	}

	if chain, ok := m.bindings[key]; ok {
		var cmd tea.Cmd
		for _, a := range chain {
			if c := m.applyAction(a); c != nil {
				cmd = c
			}
			if m.state == StateExiting {
				break
			}
		}
		m.syncPreview()
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.onQueryEdited()
	}
	return m, cmd
}

// syncPreview re-fetches the preview when the cursor now sits over a
// different item than the one the last preview run was focused on.
func (m *Model) syncPreview() {
	if !m.previewVisible {
		return
	}
	if idx := m.currentPoolIndex(); idx >= 0 && idx != m.previewKey {
		m.refreshPreview()
	}
}

// onQueryEdited fires whenever the query line changes by direct edit
// rather than Up/Down history browsing (§4.5 point 6: a genuine query
// change cancels in-flight matcher work).
func (m *Model) onQueryEdited() {
	m.hist.Reset()
	if _, changed := m.tracker.SetText(m.input.Value()); changed {
		m.queryChanged()
	}
}

func (m *Model) setQueryText(text string) {
	m.input.SetValue(text)
	m.input.CursorEnd()
	if _, changed := m.tracker.SetText(text); changed {
		m.queryChanged()
	}
}

// queryChanged reacts to a genuine query-text change: in interactive
// mode (§12's toggle-interactive) it re-invokes the producer command
// with the live query substituted into its {q} placeholder ({} still
// expands to the item under the cursor), discarding the current pool;
// otherwise it re-matches the existing pool.
func (m *Model) queryChanged() {
	if m.interactive && !m.opts.Source.Stdin {
		m.reload(m.opts.Source.Command.Line)
		return
	}
	m.requestMatch(true)
}

// applyAction runs one action of a chain against Model state, returning
// a tea.Cmd for the rare actions (execute) that need one.
func (m *Model) applyAction(a action.Action) tea.Cmd {
	switch a.Name {
	// Query edits.
	case action.Insert:
		runes := []rune(m.input.Value())
		pos := m.input.Position()
		merged := string(runes[:pos]) + a.Arg + string(runes[pos:])
		m.setQueryText(merged)
		m.input.SetCursor(pos + len([]rune(a.Arg)))
	case action.DeleteChar:
		m.deleteBackward()
	case action.DeleteCharForward:
		m.deleteForward()
	case action.KillWord:
		m.killWordBackward()
	case action.KillLine:
		runes := []rune(m.input.Value())
		pos := m.input.Position()
		m.killBuffer = string(runes[pos:])
		m.setQueryText(string(runes[:pos]))
		m.input.SetCursor(pos)
	case action.BeginningOfLine:
		m.input.SetCursor(0)
	case action.EndOfLine:
		m.input.CursorEnd()
	case action.Yank:
		if a.Arg == "clipboard" {
			m.yankToClipboard()
		} else if m.killBuffer != "" {
			runes := []rune(m.input.Value())
			pos := m.input.Position()
			m.setQueryText(string(runes[:pos]) + m.killBuffer + string(runes[pos:]))
			m.input.SetCursor(pos + len([]rune(m.killBuffer)))
		}
	case action.BackwardWord:
		m.input.SetCursor(backwardWordBoundary([]rune(m.input.Value()), m.input.Position()))
	case action.ForwardWord:
		m.input.SetCursor(forwardWordBoundary([]rune(m.input.Value()), m.input.Position()))
	case action.ClearQuery:
		m.setQueryText("")

	// Navigation.
	case action.Up:
		m.sel.Move(-1, len(m.view.Results))
	case action.Down:
		m.sel.Move(1, len(m.view.Results))
	case action.PageUp:
		m.sel.Move(-m.listHeight(), len(m.view.Results))
	case action.PageDown:
		m.sel.Move(m.listHeight(), len(m.view.Results))
	case action.HalfPageUp:
		m.sel.Move(-max(1, m.listHeight()/2), len(m.view.Results))
	case action.HalfPageDown:
		m.sel.Move(max(1, m.listHeight()/2), len(m.view.Results))
	case action.First:
		m.sel.SetCursor(0, len(m.view.Results))
	case action.Last:
		m.sel.SetCursor(len(m.view.Results)-1, len(m.view.Results))

	// Selection.
	case action.Toggle:
		m.toggleCursor()
	case action.ToggleAll:
		m.toggleAllInView()
	case action.SelectAll:
		for _, r := range m.view.Results {
			m.sel.Select(r.Index)
		}
	case action.DeselectAll:
		for _, r := range m.view.Results {
			m.sel.Deselect(r.Index)
		}
	case action.ToggleIn:
		m.toggleCursor()
		m.sel.Move(1, len(m.view.Results))
	case action.ToggleOut:
		m.toggleCursor()
		m.sel.Move(-1, len(m.view.Results))

	// Submission.
	case action.Accept:
		m.accept()
	case action.AcceptNonEmpty:
		if m.view.Matched > 0 {
			m.accept()
		}
	case action.Abort:
		m.abort()
	case action.IfNonMatched:
		if m.view.Matched == 0 {
			return m.applyChain(a.Chain)
		}
	case action.IfQueryEmpty:
		if m.tracker.Current().Text == "" {
			return m.applyChain(a.Chain)
		}

	// UI.
	case action.TogglePreview:
		m.previewVisible = !m.previewVisible
		if m.previewVisible {
			m.refreshPreview()
		}
	case action.PreviewUp:
		if m.previewScroll > 0 {
			m.previewScroll--
		}
	case action.PreviewDown:
		m.previewScroll++
	case action.PreviewPage:
		m.previewScroll += max(1, m.listHeight())
	case action.ToggleInteractive:
		m.interactive = !m.interactive
		m.queryChanged()
	case action.RefreshPreview:
		m.refreshPreview()
	case action.Reload:
		return m.reload(a.Arg)
	case action.SetQuery:
		m.setQueryText(action.Expand(a.Arg, m.templateContext()))
	case action.Execute:
		return m.execute(a.Arg, false)
	case action.ExecuteSilent:
		return m.execute(a.Arg, true)

	// Mode.
	case action.ToggleSort:
		m.noSort = !m.noSort
	case action.ToggleRegex:
		next := query.ModeRegex
		if m.tracker.Current().Mode == query.ModeRegex {
			next = query.ModeFuzzy
		}
		if _, changed := m.tracker.SetMode(next); changed {
			m.requestMatch(true)
		}
	case action.ToggleCase:
		next := map[query.CasePolicy]query.CasePolicy{
			query.CaseSmart:   query.CaseRespect,
			query.CaseRespect: query.CaseIgnore,
			query.CaseIgnore:  query.CaseSmart,
		}[m.tracker.Current().Case]
		if _, changed := m.tracker.SetCase(next); changed {
			m.requestMatch(true)
		}
	}
	return nil
}

func (m *Model) applyChain(chain []action.Action) tea.Cmd {
	var cmd tea.Cmd
	for _, a := range chain {
		if c := m.applyAction(a); c != nil {
			cmd = c
		}
	}
	return cmd
}

// currentPoolIndex returns the pool index under the cursor, or -1 if the
// view is empty.
func (m *Model) currentPoolIndex() int {
	if m.sel.Cursor() < 0 || m.sel.Cursor() >= len(m.view.Results) {
		return -1
	}
	return m.view.Results[m.sel.Cursor()].Index
}

func (m *Model) toggleCursor() {
	if idx := m.currentPoolIndex(); idx >= 0 {
		m.sel.Toggle(idx)
	}
}

func (m *Model) toggleAllInView() {
	allSelected := len(m.view.Results) > 0
	for _, r := range m.view.Results {
		if !m.sel.IsSelected(r.Index) {
			allSelected = false
			break
		}
	}
	for _, r := range m.view.Results {
		if allSelected {
			m.sel.Deselect(r.Index)
		} else {
			m.sel.Select(r.Index)
		}
	}
}

// listHeight estimates the rows available for the result list: total
// height minus the prompt, status, and footer rows, halved when the
// preview pane is visible.
func (m *Model) listHeight() int {
	h := m.height - 3
	if m.previewVisible {
		h /= 2
	}
	if h < 1 {
		return 1
	}
	return h
}

// templateContext builds the action.Context a command template expands
// against, from the item under the cursor and the current selection.
func (m *Model) templateContext() action.Context {
	ctx := action.Context{
		Query:   m.tracker.Current().Text,
		Index:   m.sel.Cursor(),
		Total:   m.pool.Len(),
		Matched: m.view.Matched,
	}
	if idx := m.currentPoolIndex(); idx >= 0 {
		ctx.Current = m.pool.At(idx).Preview
	}
	for _, idx := range m.sel.Selected() {
		ctx.Selected = append(ctx.Selected, m.pool.At(idx).Preview)
	}
	return ctx
}

func (m *Model) refreshPreview() {
	if !m.previewVisible {
		return
	}
	idx := m.currentPoolIndex()
	if idx < 0 {
		return
	}
	m.previewKey = idx
	m.focusEpoch++
	m.previewScroll = 0
	m.previewer.Focus(m.focusEpoch, m.templateContext(), m.width/2-1, m.listHeight())
}

// accept finalizes the session: the selected set (or, absent any
// explicit multi-selection, the item under the cursor) becomes the
// output lines, and the submitted query is recorded to history (§6).
func (m *Model) accept() {
	q := m.tracker.Current().Text
	_ = m.hist.Append(q)

	var lines []string
	if m.sel.Count() > 0 {
		for _, idx := range m.sel.Selected() {
			lines = append(lines, m.pool.At(idx).Raw)
		}
	} else if idx := m.currentPoolIndex(); idx >= 0 {
		lines = append(lines, m.pool.At(idx).Raw)
	}

	m.outcome = Outcome{Code: 0, Query: q, Cmd: m.lastCmd, Lines: lines}
	m.state = StateExiting
}

// yankToClipboard copies the raw lines of the current selection (or the
// item under the cursor, absent a selection) to the OS clipboard, the
// system-clipboard variant of yank called out alongside the readline
// kill-ring paste.
func (m *Model) yankToClipboard() {
	var lines []string
	if m.sel.Count() > 0 {
		for _, idx := range m.sel.Selected() {
			lines = append(lines, m.pool.At(idx).Raw)
		}
	} else if idx := m.currentPoolIndex(); idx >= 0 {
		lines = append(lines, m.pool.At(idx).Raw)
	}
	if len(lines) == 0 {
		return
	}
	if err := clipboard.WriteAll(strings.Join(lines, "\n")); err != nil {
		m.errMsg = "clipboard: " + err.Error()
	}
}

func (m *Model) abort() {
	m.outcome = Outcome{Code: 130, Query: m.tracker.Current().Text, Cmd: m.lastCmd, Aborted: true}
	m.state = StateExiting
}

// reload replaces the Reader's source, bumping the reader epoch so
// stale matcher work from the previous generation is discarded (§4.4).
// The expanded template is run through "sh -c", not split into argv
// directly, so pipes/redirects/globs in a reload binding behave the way
// they would in a shell.
func (m *Model) reload(template string) tea.Cmd {
	expanded := action.Expand(template, m.templateContext())
	if strings.TrimSpace(expanded) == "" {
		m.errMsg = "reload: empty command"
		return nil
	}

	m.pool = item.NewPool(m.pool.Epoch() + 1)
	m.readerEpoch++
	// The running matcher is bound to the old pool: stop it, start a new
	// one over the new pool, and drop the view that indexes the old pool.
	m.runner.mu.Lock()
	if m.runner.cancel != nil {
		m.runner.cancel()
	}
	m.runner.pending = nil
	m.runner.mu.Unlock()
	m.mat = matcher.New(m.pool, m.opts.TieBreak, 4, 16)
	m.runner = newMatcherRunner(m.mat)
	m.view = matcher.View{}
	m.rdr = reader.New(m.pool, reader.Config{Delim: m.opts.Delim, ANSI: m.opts.ANSI, StripANSI: m.opts.StripANSI, Fields: m.opts.Fields})
	m.activeSource = Source{Command: reader.Command{Line: expanded}}
	m.lastCmd = expanded
	m.sel.Clear()
	m.preselOnce = false
	m.readerDone = false
	m.readerErr = nil
	m.errMsg = ""
	m.state = StateLoading

	go m.runReader(context.Background())
	return nil
}

// execute runs a command for {} against the item under the cursor,
// suspending the TUI for a visible run and simply discarding output for
// a silent one (§6's execute/execute-silent).
func (m *Model) execute(template string, silent bool) tea.Cmd {
	expanded := action.Expand(template, m.templateContext())
	if silent {
		go func() {
			_ = exec.Command("sh", "-c", expanded).Run()
		}()
		return nil
	}
	c := exec.Command("sh", "-c", expanded)
	return tea.ExecProcess(c, func(error) tea.Msg { return tickMsg{} })
}

func (m *Model) deleteBackward() {
	pos := m.input.Position()
	if pos == 0 {
		return
	}
	runes := []rune(m.input.Value())
	m.setQueryText(string(runes[:pos-1]) + string(runes[pos:]))
	m.input.SetCursor(pos - 1)
}

func (m *Model) deleteForward() {
	runes := []rune(m.input.Value())
	pos := m.input.Position()
	if pos >= len(runes) {
		return
	}
	m.setQueryText(string(runes[:pos]) + string(runes[pos+1:]))
	m.input.SetCursor(pos)
}

func (m *Model) killWordBackward() {
	runes := []rune(m.input.Value())
	pos := m.input.Position()
	start := backwardWordBoundary(runes, pos)
	m.killBuffer = string(runes[start:pos])
	m.setQueryText(string(runes[:start]) + string(runes[pos:]))
	m.input.SetCursor(start)
}

func backwardWordBoundary(runes []rune, pos int) int {
	if pos > len(runes) {
		pos = len(runes)
	}
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return i
}

func forwardWordBoundary(runes []rune, pos int) int {
	if pos < 0 {
		pos = 0
	}
	i := pos
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		i++
	}
	return i
}
