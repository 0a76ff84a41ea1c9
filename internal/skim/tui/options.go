// Package tui implements the Model/EventLoop coordinator described in
// spec.md §4.8: it multiplexes terminal input, reader progress, matcher
// publications, and previewer output into one bubbletea program.
package tui

import (
	"time"

	"github.com/skim-rs/skim/internal/skim/action"
	"github.com/skim-rs/skim/internal/skim/item"
	"github.com/skim-rs/skim/internal/skim/matcher"
	"github.com/skim-rs/skim/internal/skim/preview"
	"github.com/skim-rs/skim/internal/skim/query"
	"github.com/skim-rs/skim/internal/skim/reader"
	"github.com/skim-rs/skim/internal/skim/render"
)

// Source selects where the Reader pulls bytes from.
type Source struct {
	Stdin   bool
	Command reader.Command
}

// Options is the single immutable configuration struct built once by
// cmd/skim's flag parsing and passed by reference into the Model (§9
// "Global mutable state is a single immutable struct").
type Options struct {
	Source Source

	Delim     reader.Delimiter
	ANSI      bool
	StripANSI bool
	Fields    item.FieldSelector

	Mode           query.Mode
	Case           query.CasePolicy
	Algorithm      query.Algorithm
	Extended       bool
	TieBreak       []matcher.TieBreakCriterion
	FoldDiacritics bool

	Multi       bool
	NoMultiSort bool

	PreviewCommand  string
	PreviewDebounce time.Duration
	PreviewSizeCap  int64
	PreviewEnabled  bool

	Prompt  string
	Pointer string
	Marker  string

	Bindings []action.Binding

	HistoryPath string
	HistorySize int

	Sync    bool
	Select1 bool
	Exit0   bool

	// Interactive starts the session with the reader bound to the
	// producer command re-invoked on every query edit (the command's
	// {q} placeholder carries the live query) rather than a one-shot
	// static pool filtered locally. toggle-interactive flips this at
	// runtime regardless of the starting value.
	Interactive bool

	PrintQuery bool
	PrintCmd   bool
	PrintNUL   bool

	LocationMode bool // treat "path:line[:col]:rest" items specially, per §12's path-result convention

	PreselectPattern string
	PreselectCount   int
	PreselectList    []string

	Theme render.Theme

	FrameInterval time.Duration
}

// DefaultOptions fills in the baseline defaults cmd/skim's flag parsing
// overrides from command-line values.
func DefaultOptions() Options {
	return Options{
		Delim:           reader.DelimNewline,
		Mode:            query.ModeFuzzy,
		Case:            query.CaseSmart,
		Extended:        true,
		TieBreak:        matcher.DefaultTieBreak,
		PreviewDebounce: preview.DefaultDebounce,
		PreviewSizeCap:  preview.DefaultSizeCap,
		Prompt:          "> ",
		Pointer:         ">",
		Marker:          "»",
		Theme:           render.DefaultTheme,
		FrameInterval:   16 * time.Millisecond, // ~60Hz; comfortably under spec's 120Hz ceiling
	}
}
