// Package reader implements the ingestion pipeline described in
// spec.md §4.4: decode a byte stream into records by a delimiter,
// optionally parse ANSI, batch records into the item.Pool, and report
// completion or failure through the error a run returns.
package reader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/skim-rs/skim/internal/skim/item"
)

// Delimiter selects the record separator decoded from the byte stream.
type Delimiter byte

const (
	DelimNewline Delimiter = '\n'
	DelimNUL     Delimiter = 0
)

const (
	maxBatch    = 1024
	batchWindow = 30 * time.Millisecond
)

// Config configures one Reader run (§4.4).
type Config struct {
	// Delim is the record delimiter.
	Delim Delimiter
	// ANSI enables ANSI-escape parsing into item.Segment runs; when
	// false the raw line is used as Display with escapes left intact
	// only if StripANSI is also false (matching skim's --ansi flag).
	ANSI bool
	// StripANSI strips escapes from Display without building styled
	// segments, used when ANSI is false but the input is known to carry
	// control sequences that should not be shown raw.
	StripANSI bool
	// Fields narrows Match/Preview via a field selector; a zero-value
	// (Empty) selector leaves Match/Preview equal to Display.
	Fields item.FieldSelector
}

// Command describes a producer subprocess to read items from (§4.4's
// producer process source). Line is a shell command line, not a
// pre-split argv, so pipes/redirects/globs in a user-supplied --cmd or
// reload template behave the way a shell session running it would.
type Command struct {
	Line string
	Dir  string
	Env  []string
}

// Reader decodes one byte stream into a sequence of Items, appending
// them into a Pool. Exactly one Reader instance is active per
// reader-epoch; cancelling the context passed to its run stops it, and
// a restart (§4.4) constructs a new Reader bound to a new Pool with a
// bumped epoch.
type Reader struct {
	pool *item.Pool
	cfg  Config
}

// New builds a Reader that appends into pool using cfg.
func New(pool *item.Pool, cfg Config) *Reader {
	return &Reader{pool: pool, cfg: cfg}
}

// Run decodes src until EOF, ctx cancellation, or a read error,
// batching appends into the pool and reporting batch boundaries on
// notify (which may be nil). It returns the terminal error, or nil on
// clean EOF; ctx cancellation returns ctx.Err().
func (r *Reader) Run(ctx context.Context, src io.Reader, notify func(appended int)) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if r.cfg.Delim == DelimNUL {
		scanner.Split(splitNUL)
	}

	batch := 0
	lastFlush := time.Now()

	flush := func() {
		if batch > 0 && notify != nil {
			notify(batch)
		}
		batch = 0
		lastFlush = time.Now()
	}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			flush()
			return ctx.Err()
		default:
		}

		line := scanner.Text()
		r.append(line)
		batch++

		if batch >= maxBatch || time.Since(lastFlush) >= batchWindow {
			flush()
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func (r *Reader) append(raw string) {
	display := raw
	var segs []item.Segment
	if r.cfg.ANSI {
		display, segs = item.ParseANSI(raw)
	} else if r.cfg.StripANSI {
		display = item.StripANSI(raw)
	}

	match, preview := display, display
	if !r.cfg.Fields.Empty() {
		match = r.cfg.Fields.Apply(display)
		preview = match
	}

	r.pool.Append(item.Item{
		Raw:      raw,
		Display:  display,
		Match:    match,
		Preview:  preview,
		Segments: segs,
	})
}

// RunStdin decodes os.Stdin, the default input source (§4.4).
func (r *Reader) RunStdin(ctx context.Context, notify func(appended int)) error {
	return r.Run(ctx, os.Stdin, notify)
}

// RunCommand spawns command.Line through "sh -c" and decodes its
// stdout, canceling the process when ctx is done (§4.4's "producer
// process" source, and the --reload binding's resupply path): a pipe, a
// scanner over it, and exit-code-aware error reporting.
func (r *Reader) RunCommand(ctx context.Context, command Command, notify func(appended int)) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command.Line)
	if command.Dir != "" {
		cmd.Dir = command.Dir
	}
	if len(command.Env) > 0 {
		cmd.Env = command.Env
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("open command stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	runErr := r.Run(ctx, stdout, notify)

	if waitErr := cmd.Wait(); waitErr != nil && runErr == nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("command failed: %w", waitErr)
	}
	return runErr
}

// splitNUL is a bufio.SplitFunc that decodes NUL-delimited records
// (skim/fzf's --read0), mirroring bufio.ScanLines but on byte 0.
func splitNUL(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		if b == 0 {
			return i + 1, data[:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
