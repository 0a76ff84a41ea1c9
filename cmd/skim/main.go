// Command skim is an interactive, line-oriented fuzzy finder: it reads
// candidates from stdin or a producer command, ranks them against an
// editable query, and writes the chosen line(s) to stdout (§1, §6).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skim-rs/skim/internal/skim/action"
	"github.com/skim-rs/skim/internal/skim/item"
	"github.com/skim-rs/skim/internal/skim/matcher"
	"github.com/skim-rs/skim/internal/skim/query"
	"github.com/skim-rs/skim/internal/skim/reader"
	"github.com/skim-rs/skim/internal/skim/render"
	"github.com/skim-rs/skim/internal/skim/socket"
	"github.com/skim-rs/skim/internal/skim/tui"
)

func main() {
	opts := tui.DefaultOptions()

	var (
		delim        string
		ansi         bool
		stripANSI    bool
		nth          string
		exact        bool
		regexMode    bool
		disabledMode bool
		caseFlag     string
		algoFlag     string
		noExtended   bool
		multi        bool
		noMultiSort  bool
		previewCmd   string
		previewSize  int64
		noPreview    bool
		prompt       string
		pointer      string
		marker       string
		bindSpec     string
		historyPath  string
		historySize  int
		sync         bool
		select1      bool
		exit0        bool
		printQuery   bool
		print0       bool
		locationMode bool
		preselectPat string
		preselectN   int
		preselectLst string
		themeName    string
		cmdSpec        string
		listenAddr     string
		remoteAddr     string
		foldDiacritics bool
		interactive    bool
		printCmd       bool
	)

	flag.StringVar(&delim, "delimiter", "\n", "record delimiter between input lines ('\\n' or '\\0')")
	flag.BoolVar(&ansi, "ansi", false, "parse ANSI color codes in input into styled segments")
	flag.BoolVar(&stripANSI, "strip-ansi", false, "strip ANSI escapes without building styled segments")
	flag.StringVar(&nth, "nth", "", "restrict matching to these whitespace-delimited fields, e.g. '2..'")
	flag.BoolVar(&exact, "exact", false, "use exact substring matching instead of fuzzy")
	flag.BoolVar(&regexMode, "regex", false, "interpret the query as a regular expression")
	flag.BoolVar(&disabledMode, "disabled", false, "disable matching entirely; the query line only drives reload")
	flag.StringVar(&caseFlag, "case", "smart", "case sensitivity: smart, respect, or ignore")
	flag.StringVar(&algoFlag, "algo", "v2", "fuzzy scoring algorithm: v2 or v1")
	flag.BoolVar(&noExtended, "no-extended", false, "disable the extended 'term1 term2 | term3' query grammar")
	flag.BoolVar(&multi, "multi", false, "accepted for compatibility; multi-selection is always enabled")
	flag.BoolVar(&noMultiSort, "no-multi-sort", false, "accepted for compatibility; selected lines are always written in selection order")
	flag.StringVar(&previewCmd, "preview", "", "preview command template, e.g. 'bat --color=always {}'")
	flag.Int64Var(&previewSize, "preview-size-cap", 1<<20, "kill the preview subprocess past this many output bytes")
	flag.BoolVar(&noPreview, "no-preview-on-start", false, "start with the preview pane hidden even if -preview is set")
	flag.StringVar(&prompt, "prompt", "> ", "query line prompt string")
	flag.StringVar(&pointer, "pointer", ">", "cursor row pointer glyph")
	flag.StringVar(&marker, "marker", "»", "multi-select marker glyph")
	flag.StringVar(&bindSpec, "bind", "", "comma-separated key:action[+action...] overrides")
	flag.StringVar(&historyPath, "history", "", "query history file path")
	flag.IntVar(&historySize, "history-size", 1000, "maximum history entries retained")
	flag.BoolVar(&sync, "sync", false, "wait for the initial scan to finish before becoming interactive")
	flag.BoolVar(&select1, "select-1", false, "accept automatically if exactly one item ever matches")
	flag.BoolVar(&exit0, "exit-0", false, "exit with no output if nothing ever matches")
	flag.BoolVar(&printQuery, "print-query", false, "print the final query before the selected lines")
	flag.BoolVar(&print0, "print0", false, "NUL-terminate output lines instead of newline-terminating them")
	flag.BoolVar(&locationMode, "location", false, "render items as path:line[:col] locations")
	flag.StringVar(&preselectPat, "pre-select-pattern", "", "regex of raw lines to select before the first keystroke")
	flag.IntVar(&preselectN, "pre-select-n", 0, "number of leading items to select before the first keystroke")
	flag.StringVar(&preselectLst, "pre-select-items", "", "comma-separated raw lines to select before the first keystroke")
	flag.StringVar(&themeName, "color", "nord", "color theme (nord, dracula, monokai, github, solarized-dark, ...)")
	flag.StringVar(&cmdSpec, "cmd", "", "producer command to read candidates from, instead of stdin")
	flag.StringVar(&listenAddr, "listen", "", "unix socket path to accept remote action chains on, e.g. /tmp/skim.sock")
	flag.StringVar(&remoteAddr, "remote", "", "unix socket path of a running skim -listen session; reads action chains from stdin, one per line, sends each, then exits")
	flag.BoolVar(&foldDiacritics, "fold-diacritics", false, "compare exact-mode matches with Latin accents folded away")
	flag.BoolVar(&interactive, "interactive", false, "re-invoke -cmd on every query edit instead of filtering a static pool")
	flag.BoolVar(&printCmd, "print-cmd", false, "print the final interactive command before the selected lines")
	flag.Parse()

	if remoteAddr != "" {
		// §6's --remote: action chains are read from stdin, one per
		// line, and sent to a running -listen session; all other flags
		// are ignored, e.g. `echo 'up+accept' | skim -remote /tmp/skim.sock`.
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if err := socket.Send("unix", remoteAddr, line); err != nil {
				fmt.Fprintf(os.Stderr, "skim: %v\n", err)
				os.Exit(2)
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "skim: read remote chain: %v\n", err)
			os.Exit(2)
		}
		return
	}

	theme, err := render.LoadTheme(themeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -color: %v\n", err)
		os.Exit(2)
	}
	opts.Theme = theme

	if delim == `\0` {
		opts.Delim = reader.DelimNUL
	} else {
		opts.Delim = reader.DelimNewline
	}
	opts.ANSI = ansi
	opts.StripANSI = stripANSI

	if nth != "" {
		fs, err := item.ParseFieldSelector(nth, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -nth: %v\n", err)
			os.Exit(2)
		}
		opts.Fields = fs
	}

	switch {
	case disabledMode:
		opts.Mode = query.ModeDisabled
	case regexMode:
		opts.Mode = query.ModeRegex
	case exact:
		opts.Mode = query.ModeExact
	default:
		opts.Mode = query.ModeFuzzy
	}
	opts.Extended = !noExtended

	switch strings.ToLower(caseFlag) {
	case "respect":
		opts.Case = query.CaseRespect
	case "ignore":
		opts.Case = query.CaseIgnore
	default:
		opts.Case = query.CaseSmart
	}
	if strings.ToLower(algoFlag) == "v1" {
		opts.Algorithm = query.AlgoSkimV1
	} else {
		opts.Algorithm = query.AlgoSkimV2
	}

	opts.FoldDiacritics = foldDiacritics
	opts.Multi = multi
	opts.NoMultiSort = noMultiSort
	opts.PreviewCommand = previewCmd
	opts.PreviewSizeCap = previewSize
	opts.PreviewEnabled = previewCmd != "" && !noPreview
	opts.Prompt = prompt
	opts.Pointer = pointer
	opts.Marker = marker
	opts.HistoryPath = historyPath
	opts.HistorySize = historySize
	opts.Sync = sync
	opts.Select1 = select1
	opts.Exit0 = exit0
	opts.PrintQuery = printQuery
	opts.PrintNUL = print0
	opts.PrintCmd = printCmd
	opts.Interactive = interactive
	opts.LocationMode = locationMode
	opts.PreselectPattern = preselectPat
	opts.PreselectCount = preselectN
	if preselectLst != "" {
		opts.PreselectList = strings.Split(preselectLst, ",")
	}

	if bindSpec != "" {
		bindings, err := action.ParseBindings(bindSpec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -bind: %v\n", err)
			os.Exit(2)
		}
		opts.Bindings = bindings
	}

	opts.TieBreak = matcher.DefaultTieBreak

	if cmdSpec != "" {
		opts.Source = tui.Source{Command: reader.Command{Line: cmdSpec}}
	} else {
		opts.Source = tui.Source{Stdin: true}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m, err := tui.New(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skim: %v\n", err)
		os.Exit(2)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if listenAddr != "" {
		srv, err := socket.Listen("unix", listenAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skim: %v\n", err)
			os.Exit(2)
		}
		defer srv.Close()
		go srv.Serve(ctx, func(chain []action.Action) {
			p.Send(tui.RemoteMsg{Chain: chain})
		})
	}

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "skim: %v\n", err)
		os.Exit(2)
	}

	outcome := finalModel.(*tui.Model).Result()
	code := tui.WriteOutcome(os.Stdout, opts, outcome)
	os.Exit(code)
}
