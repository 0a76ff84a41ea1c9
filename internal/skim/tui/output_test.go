package tui

import (
	"strings"
	"testing"
)

func TestWriteOutcomeOrdersQueryThenCmdThenLines(t *testing.T) {
	opts := Options{PrintQuery: true, PrintCmd: true}
	outcome := Outcome{Code: 0, Query: "abc", Cmd: "rg {q}", Lines: []string{"one", "two"}}

	var buf strings.Builder
	code := WriteOutcome(&buf, opts, outcome)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	want := "abc\nrg {q}\none\ntwo\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteOutcomeOmitsCmdWhenDisabled(t *testing.T) {
	opts := Options{}
	outcome := Outcome{Code: 0, Query: "abc", Cmd: "rg {q}", Lines: []string{"one"}}

	var buf strings.Builder
	WriteOutcome(&buf, opts, outcome)
	if buf.String() != "one\n" {
		t.Fatalf("got %q, want %q", buf.String(), "one\n")
	}
}
