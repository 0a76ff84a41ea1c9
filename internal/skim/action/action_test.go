package action

import "testing"

func TestParseChainSimple(t *testing.T) {
	actions, err := ParseChain("down+toggle+down")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Name{Down, Toggle, Down}
	if len(actions) != len(want) {
		t.Fatalf("got %v", actions)
	}
	for i := range want {
		if actions[i].Name != want[i] {
			t.Fatalf("got %v want %v", actions[i].Name, want[i])
		}
	}
}

func TestParseChainWithArg(t *testing.T) {
	actions, err := ParseChain("execute(less {})")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Name != Execute || actions[0].Arg != "less {}" {
		t.Fatalf("got %+v", actions)
	}
}

func TestFormatChainRoundTripsThroughParseChain(t *testing.T) {
	for _, s := range []string{"down+toggle+down", "execute(less {})", "if-non-matched(reload(git ls-files)+accept)"} {
		chain, err := ParseChain(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		got := FormatChain(chain)
		reparsed, err := ParseChain(got)
		if err != nil {
			t.Fatalf("reparse %q: %v", got, err)
		}
		if FormatChain(reparsed) != got {
			t.Fatalf("round-trip unstable: %q -> %q -> %q", s, got, FormatChain(reparsed))
		}
	}
}

func TestParseChainArgWithPlus(t *testing.T) {
	actions, err := ParseChain("execute(echo a+b)+accept")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %+v", actions)
	}
	if actions[0].Arg != "echo a+b" {
		t.Fatalf("expected arg to retain internal '+', got %q", actions[0].Arg)
	}
	if actions[1].Name != Accept {
		t.Fatalf("expected second action accept, got %v", actions[1].Name)
	}
}

func TestParseChainNestedIfNonMatched(t *testing.T) {
	actions, err := ParseChain("if-non-matched(beginning-of-line+execute(bell))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Name != IfNonMatched {
		t.Fatalf("got %+v", actions)
	}
	if len(actions[0].Chain) != 2 {
		t.Fatalf("expected nested chain of 2, got %+v", actions[0].Chain)
	}
}

func TestParseChainUnclosedArg(t *testing.T) {
	if _, err := ParseChain("execute(less {}"); err == nil {
		t.Fatal("expected error for unclosed arg")
	}
}

func TestParseBindingsSplitsOnTopLevelComma(t *testing.T) {
	bindings, err := ParseBindings("ctrl-j:down,ctrl-k:up,enter:execute(echo a,b)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bindings) != 3 {
		t.Fatalf("expected 3 bindings, got %+v", bindings)
	}
	if bindings[2].Key != "enter" || bindings[2].Chain[0].Arg != "echo a,b" {
		t.Fatalf("got %+v", bindings[2])
	}
}

func TestParseBindingsMissingColon(t *testing.T) {
	if _, err := ParseBindings("ctrl-j"); err == nil {
		t.Fatal("expected error for missing ':'")
	}
}
