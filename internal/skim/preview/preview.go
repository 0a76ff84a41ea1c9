package preview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/skim-rs/skim/internal/skim/action"
)

// defaultCols/defaultRows size the pseudo-terminal when the Model has
// not yet reported a real preview-pane size (e.g. the very first Focus
// before a WindowSizeMsg arrives).
const (
	defaultCols = 80
	defaultRows = 24
)

// DefaultDebounce matches spec.md §4.7's "debounces ... on focus
// change" requirement: a focus move this close to the last one
// supersedes the in-flight preview run before it spawns a process.
const DefaultDebounce = 80 * time.Millisecond

// DefaultSizeCap is the output cap spec.md §5 calls out: "an optional
// output size cap (e.g. 1 MiB) beyond which the subprocess is killed."
const DefaultSizeCap = 1 << 20

// Result is one completed (or partial, if capped/canceled) preview run.
type Result struct {
	FocusEpoch uint64
	Text       string // ANSI-escaped, ready for item.ParseANSI
	Err        error
	Truncated  bool
}

// Config configures preview command expansion and highlighting.
type Config struct {
	Command     string // template, e.g. "bat --color=always {}"
	Debounce    time.Duration
	SizeCap     int64
	Highlighter *Highlighter
	// PathFromItem extracts a filesystem path from the current item's
	// preview text, used only to steer syntax-highlight lexer selection
	// when the preview command's own output isn't self-describing.
	PathFromItem func(ctx action.Context) string
}

// Previewer runs at most one preview subprocess at a time, canceling
// and restarting on every focus change per an increasing focus-epoch
// (§4.7, §5: "Previewer supervisor ... debounces and cancels on focus
// change").
type Previewer struct {
	cfg Config

	mu       sync.Mutex
	cancel   context.CancelFunc
	curEpoch uint64

	resultsCh chan Result
}

// New builds a Previewer publishing completed runs on its Results
// channel (buffer size resultsBuf; the Model should drain continuously).
func New(cfg Config, resultsBuf int) *Previewer {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.SizeCap <= 0 {
		cfg.SizeCap = DefaultSizeCap
	}
	if cfg.Highlighter == nil {
		cfg.Highlighter = NewHighlighter("")
	}
	return &Previewer{cfg: cfg, resultsCh: make(chan Result, resultsBuf)}
}

// Results returns the channel the Model should select on for completed
// preview runs.
func (p *Previewer) Results() <-chan Result { return p.resultsCh }

// Focus requests a preview of ctx under focusEpoch, debouncing and
// canceling any prior in-flight run. It returns immediately; the result
// (or nothing, if a newer Focus supersedes this one before the debounce
// window elapses) arrives on Results. cols/rows size the pseudo-terminal
// the preview command runs in, so curses-style previewers (less, bat
// --paging, a pager-driven diff) see a real terminal size instead of
// guessing; pass 0 for either to use the default.
func (p *Previewer) Focus(focusEpoch uint64, ctx action.Context, cols, rows int) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	runCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.curEpoch = focusEpoch
	p.mu.Unlock()

	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}
	go p.run(runCtx, focusEpoch, ctx, cols, rows)
}

// Stop cancels any in-flight preview run without starting another.
func (p *Previewer) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()
}

func (p *Previewer) run(ctx context.Context, focusEpoch uint64, actx action.Context, cols, rows int) {
	select {
	case <-time.After(p.cfg.Debounce):
	case <-ctx.Done():
		return
	}

	if p.cfg.Command == "" {
		return
	}
	cmdline := action.Expand(p.cfg.Command, actx)

	out, truncated, err := runCapped(ctx, cmdline, cols, rows, p.cfg.SizeCap)
	if err != nil {
		p.publish(ctx, Result{FocusEpoch: focusEpoch, Err: err, Text: out})
		return
	}

	path := ""
	if p.cfg.PathFromItem != nil {
		path = p.cfg.PathFromItem(actx)
	}
	lang := DetectLang(path)
	highlighted := p.cfg.Highlighter.Highlight(ctx, path, lang, out)

	p.publish(ctx, Result{FocusEpoch: focusEpoch, Text: highlighted, Truncated: truncated})
}

func (p *Previewer) publish(ctx context.Context, res Result) {
	select {
	case p.resultsCh <- res:
	case <-ctx.Done():
	}
}

// runCapped spawns cmdline under "sh -c" inside a pseudo-terminal sized
// cols x rows, capturing up to sizeCap bytes of its combined
// stdout/stderr. Exceeding the cap kills the subprocess (including any
// children, via the process group that the PTY's new session makes the
// child lead) rather than letting it run to
// completion unread, per §5's size-cap rule. The PTY (rather than a
// plain pipe) is what lets a curses-style previewer that checks
// isatty(3) or reads $COLUMNS/$LINES render normally instead of
// falling back to a dumb-terminal mode.
func runCapped(ctx context.Context, cmdline string, cols, rows int, sizeCap int64) (string, bool, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", cmdline)
	cmd.Env = append(cmd.Environ(), "PAGER=", fmt.Sprintf("COLUMNS=%d", cols), fmt.Sprintf("LINES=%d", rows))

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
	if err != nil {
		return "", false, fmt.Errorf("start preview command: %w", err)
	}
	defer ptmx.Close()

	var buf bytes.Buffer
	limited := io.LimitReader(ptmx, sizeCap+1)
	n, _ := io.Copy(&buf, limited)
	truncated := n > sizeCap
	if truncated {
		buf.Truncate(int(sizeCap))
		killProcessGroup(cmd)
	}

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return buf.String(), truncated, ctx.Err()
	}
	// A PTY read surfaces the child's exit as an I/O error once the
	// slave side closes; that's expected and not itself a failure.
	if waitErr != nil && !truncated {
		return buf.String(), truncated, fmt.Errorf("preview command failed: %w", waitErr)
	}
	return buf.String(), truncated, nil
}
