package tui

import (
	"io"
)

// Result exposes the Outcome the event loop settled on, for cmd/skim to
// write out after the bubbletea program exits.
func (m *Model) Result() Outcome { return m.outcome }

// WriteOutcome writes the session's final output per §6: the submitted
// query first (if --print-query), then the last producer command (if
// --print-cmd), then the selected lines, NUL- or
// newline-terminated. Exit codes follow fzf/skim convention: 0 normal,
// 1 no match (--exit-0), 130 aborted; 2 is reserved for startup/flag
// errors raised before the event loop ever runs.
func WriteOutcome(w io.Writer, opts Options, outcome Outcome) int {
	term := "\n"
	if opts.PrintNUL {
		term = "\x00"
	}
	if opts.PrintQuery {
		io.WriteString(w, outcome.Query+term)
	}
	if opts.PrintCmd {
		io.WriteString(w, outcome.Cmd+term)
	}
	for _, line := range outcome.Lines {
		io.WriteString(w, line+term)
	}
	return outcome.Code
}
