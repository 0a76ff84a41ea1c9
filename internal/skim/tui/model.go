package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dlclark/regexp2"

	"github.com/skim-rs/skim/internal/skim/action"
	"github.com/skim-rs/skim/internal/skim/engine"
	"github.com/skim-rs/skim/internal/skim/history"
	"github.com/skim-rs/skim/internal/skim/item"
	"github.com/skim-rs/skim/internal/skim/matcher"
	"github.com/skim-rs/skim/internal/skim/preview"
	"github.com/skim-rs/skim/internal/skim/query"
	"github.com/skim-rs/skim/internal/skim/reader"
	"github.com/skim-rs/skim/internal/skim/selection"
)

// State names the top-level state machine positions from spec.md §4.8.
type State int

const (
	StateLoading State = iota
	StateInteractive
	StateExiting
)

// Outcome records how the program should terminate once Exiting is
// reached: exit code plus whatever stdout output §6 prescribes.
type Outcome struct {
	Code    int
	Query   string
	Cmd     string // the producer command line last run, for --print-cmd
	Lines   []string
	Aborted bool
}

// RemoteMsg carries one action chain received over the optional control
// socket (§6), submitted via tea.Program.Send from the socket server's
// accept loop.
type RemoteMsg struct {
	Chain []action.Action
}

type tickMsg struct{}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{} })
}

// Model is the single coordinator described in §4.8, built once per
// session by cmd/skim.
type Model struct {
	opts Options

	pool         *item.Pool
	readerEpoch  uint64
	rdr          *reader.Reader
	activeSource Source
	readerDone   bool
	readerErr    error
	batchDirty   chan struct{}
	errCh        chan error

	tracker *query.Tracker
	factory engine.Factory
	mat     *matcher.Matcher
	runner  *matcherRunner

	view     matcher.View
	progress matcher.Progress

	sel        *selection.State
	preselOnce bool

	previewer   *preview.Previewer
	focusEpoch  uint64
	previewText string
	previewErr  string
	previewKey  int // pool index the current preview text belongs to

	hist *history.History

	input textinput.Model

	bindings map[string][]action.Action

	previewVisible bool
	previewScroll  int
	killBuffer     string
	noSort         bool
	interactive    bool
	lastCmd        string

	width, height int
	state         State
	status        string
	errMsg        string
	regexErr      string

	outcome Outcome
}

// New builds a Model ready to run under tea.NewProgram. ctx governs the
// Reader's producer subprocess (if any); canceling it on shutdown
// guarantees the child process is reaped.
func New(ctx context.Context, opts Options) (*Model, error) {
	pool := item.NewPool(1)
	rdr := reader.New(pool, reader.Config{Delim: opts.Delim, ANSI: opts.ANSI, StripANSI: opts.StripANSI, Fields: opts.Fields})

	mat := matcher.New(pool, opts.TieBreak, 4, 16)

	hist, err := history.Load(opts.HistoryPath, opts.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	prev := preview.New(preview.Config{
		Command:      opts.PreviewCommand,
		Debounce:     opts.PreviewDebounce,
		SizeCap:      opts.PreviewSizeCap,
		Highlighter:  preview.NewHighlighter(opts.Theme.Name),
		PathFromItem: pathFromItem(opts),
	}, 4)

	in := textinput.New()
	in.Prompt = opts.Prompt
	in.Focus()
	in.CharLimit = 4096

	m := &Model{
		opts:         opts,
		pool:         pool,
		readerEpoch:  1,
		rdr:          rdr,
		activeSource: opts.Source,
		batchDirty:   make(chan struct{}, 1),
		errCh:        make(chan error, 1),
		tracker:     query.NewTracker(),
		factory:     factoryFor(opts),
		mat:         mat,
		sel:         selection.New(),
		previewer:   prev,
		hist:           hist,
		input:          in,
		state:          StateLoading,
		previewVisible: opts.PreviewEnabled,
		bindings:       bindingMap(opts),
		interactive:    opts.Interactive,
		lastCmd:        opts.Source.Command.Line,
	}
	m.tracker.SetMode(opts.Mode)
	m.tracker.SetCase(opts.Case)
	m.tracker.SetAlgorithm(opts.Algorithm)
	m.runner = newMatcherRunner(mat)

	go m.runReader(ctx)
	return m, nil
}

// pathFromItem extracts a filesystem path from a preview template's
// {} expansion to steer the previewer's syntax-highlight lexer choice.
// In location mode the item is "path:line[:col]:rest"; otherwise the
// item's own preview text is assumed to already be the path (the common
// "pipe a list of files into skim" case).
func pathFromItem(opts Options) func(action.Context) string {
	return func(ctx action.Context) string {
		if !opts.LocationMode {
			return ctx.Current
		}
		if path, _, _, ok := parseLocation(ctx.Current); ok {
			return path
		}
		return ctx.Current
	}
}

func factoryFor(opts Options) engine.Factory {
	kind := engine.KindFuzzy
	switch opts.Mode {
	case query.ModeExact:
		kind = engine.KindExact
	case query.ModeRegex:
		kind = engine.KindRegex
	case query.ModeDisabled:
		kind = engine.KindDisabled
	}
	return engine.Factory{DefaultMode: kind, Extended: opts.Extended, Algorithm: int(opts.Algorithm), FoldDiacritics: opts.FoldDiacritics}
}

func (m *Model) runReader(ctx context.Context) {
	notify := func(int) {
		select {
		case m.batchDirty <- struct{}{}:
		default:
		}
	}
	var err error
	if m.activeSource.Stdin {
		err = m.rdr.RunStdin(ctx, notify)
	} else {
		err = m.rdr.RunCommand(ctx, m.activeSource.Command, notify)
	}
	m.errCh <- err
}

func (m *Model) Init() tea.Cmd {
	return tickCmd(m.opts.FrameInterval)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(8, m.width-len(m.opts.Prompt)-2)
		return m, nil

	case tickMsg:
		m.drainReader()
		m.drainViews()
		m.drainPreview()
		m.applyShortCircuits()
		if m.state == StateExiting {
			return m, tea.Quit
		}
		return m, tickCmd(m.opts.FrameInterval)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case RemoteMsg:
		cmd := m.applyChain(msg.Chain)
		m.syncPreview()
		return m, cmd
	}
	return m, nil
}

func (m *Model) drainReader() {
	select {
	case <-m.batchDirty:
		m.requestMatch(false)
	default:
	}
	if !m.readerDone {
		select {
		case err := <-m.errCh:
			m.readerDone = true
			m.readerErr = err
			if err != nil {
				m.errMsg = err.Error()
			}
			m.requestMatch(false)
		default:
		}
	}
}

func (m *Model) drainViews() {
	views := m.mat.Views()
	progress := m.mat.ProgressCh()
	for {
		select {
		case v := <-views:
			if v.QueryEpoch != m.tracker.Current().Epoch {
				continue // stale, superseded since enqueue (§5 ordering guarantee)
			}
			m.view = v
			m.applyPreselection()
			if m.state == StateLoading && (!m.opts.Sync || m.readerDone) {
				m.state = StateInteractive
			}
		case p := <-progress:
			if p.QueryEpoch == m.tracker.Current().Epoch {
				m.progress = p
			}
		default:
			m.syncPreview()
			return
		}
	}
}

func (m *Model) drainPreview() {
	select {
	case res := <-m.previewer.Results():
		if res.FocusEpoch != m.focusEpoch {
			return
		}
		if res.Err != nil {
			m.previewErr = res.Err.Error()
			m.previewText = ""
			return
		}
		m.previewErr = ""
		m.previewText = res.Text
	default:
	}
}

// applyPreselection implements §4.6: applied exactly once, at the first
// ranked-view publication after items are loaded.
func (m *Model) applyPreselection() {
	if m.preselOnce {
		return
	}
	if m.opts.PreselectPattern == "" && m.opts.PreselectCount == 0 && len(m.opts.PreselectList) == 0 {
		m.preselOnce = true
		return
	}
	m.preselOnce = true

	var matched []int
	listSet := make(map[string]struct{}, len(m.opts.PreselectList))
	for _, s := range m.opts.PreselectList {
		listSet[s] = struct{}{}
	}
	var re *regexp2.Regexp
	if m.opts.PreselectPattern != "" {
		re, _ = regexp2.Compile(m.opts.PreselectPattern, 0)
	}
	total := m.pool.Len()
	for i := 0; i < total; i++ {
		it := m.pool.At(i)
		if m.opts.PreselectCount > 0 && i < m.opts.PreselectCount {
			matched = append(matched, i)
			continue
		}
		if _, ok := listSet[it.Raw]; ok {
			matched = append(matched, i)
			continue
		}
		if re != nil {
			if ok, _ := re.MatchString(it.Raw); ok {
				matched = append(matched, i)
			}
		}
	}
	m.sel.SelectAll(matched)
}

func (m *Model) applyShortCircuits() {
	if m.state != StateLoading {
		return
	}
	if m.opts.Select1 && m.readerDone && m.view.Matched == 1 {
		m.sel.Toggle(m.view.Results[0].Index)
		m.accept()
		return
	}
	if m.opts.Exit0 && m.readerDone && m.view.Matched == 0 {
		m.outcome = Outcome{Code: 1, Query: m.tracker.Current().Text, Cmd: m.lastCmd}
		m.state = StateExiting
	}
}

// requestMatch enqueues a matcher run. cancelPrior is true for a genuine
// query-semantic change (§4.5 point 6: cancel in-flight work on query
// change); false for pool growth, which should resume rather than
// restart (§4.5 point 5).
func (m *Model) requestMatch(cancelPrior bool) {
	tree, engErr := m.buildTree()
	m.regexErr = engErr
	q := m.tracker.Current()
	m.runner.enqueue(m.readerEpoch, q.Epoch, tree, cancelPrior)
}

func (m *Model) buildTree() (engine.Tree, string) {
	// In interactive mode the query line drives the producer command
	// (§12), not local filtering: the command has already narrowed the
	// pool by the time it lands here, so every item it returns shows.
	if m.interactive && !m.opts.Source.Stdin {
		return engine.Disabled(), ""
	}
	q := m.tracker.Current()
	if q.Mode == query.ModeDisabled {
		return engine.Disabled(), ""
	}
	if q.Mode == query.ModeRegex && q.Text != "" {
		if _, err := regexp2.Compile(q.Text, 0); err != nil {
			return engine.Disabled(), err.Error()
		}
	}
	// The tracker's mode (which toggle-regex changes) picks the leaf kind.
	f := m.factory
	switch q.Mode {
	case query.ModeRegex:
		f.DefaultMode = engine.KindRegex
	case query.ModeExact:
		f.DefaultMode = engine.KindExact
	default:
		f.DefaultMode = engine.KindFuzzy
	}
	return f.Build(q.Text, q.EffectiveIgnoreCase()), ""
}

// matcherRunner serializes Matcher.Run calls so at most one is in
// flight, coalescing pool-growth requests that arrive while a run is
// already executing (§4.5's "resumes ... merges" is only safe to call
// from one goroutine at a time given Matcher's internal resume-cursor
// state).
type matcherRunner struct {
	mat *matcher.Matcher

	mu      sync.Mutex
	busy    bool
	pending *runRequest
	cancel  context.CancelFunc
}

type runRequest struct {
	readerEpoch uint64
	queryEpoch  uint64
	tree        engine.Tree
}

func newMatcherRunner(mat *matcher.Matcher) *matcherRunner {
	return &matcherRunner{mat: mat}
}

func (r *matcherRunner) enqueue(readerEpoch, queryEpoch uint64, tree engine.Tree, cancelPrior bool) {
	r.mu.Lock()
	if cancelPrior && r.cancel != nil {
		r.cancel()
	}
	r.pending = &runRequest{readerEpoch: readerEpoch, queryEpoch: queryEpoch, tree: tree}
	busy := r.busy
	r.mu.Unlock()
	if !busy {
		go r.drain()
	}
}

func (r *matcherRunner) drain() {
	r.mu.Lock()
	r.busy = true
	for {
		req := r.pending
		r.pending = nil
		if req == nil {
			r.busy = false
			r.mu.Unlock()
			return
		}
		ctx, cancel := context.WithCancel(context.Background())
		r.cancel = cancel
		r.mu.Unlock()

		r.mat.Run(ctx, req.readerEpoch, req.queryEpoch, req.tree)

		r.mu.Lock()
	}
}
