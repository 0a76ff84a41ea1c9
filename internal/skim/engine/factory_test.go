package engine

import "testing"

func TestFactoryEmptyQueryIsDisabled(t *testing.T) {
	f := Factory{DefaultMode: KindFuzzy, Extended: true}
	tr := f.Build("  ", false)
	if tr.Kind != KindDisabled {
		t.Fatalf("expected disabled, got %v", tr.Kind)
	}
	if _, ok := tr.Score("anything"); !ok {
		t.Fatal("disabled engine should match everything")
	}
}

func TestFactoryExactPrefix(t *testing.T) {
	f := Factory{DefaultMode: KindFuzzy, Extended: true}
	tr := f.Build("'apple", false)
	if _, ok := tr.Score("pineapple"); !ok {
		t.Fatal("expected exact substring match")
	}
	if _, ok := tr.Score("banana"); ok {
		t.Fatal("expected no match")
	}
}

func TestFactoryAndTerms(t *testing.T) {
	f := Factory{DefaultMode: KindFuzzy, Extended: true}
	tr := f.Build("'foo 'bar", false)
	if _, ok := tr.Score("foobar"); !ok {
		t.Fatal("expected AND of foo and bar to match foobar")
	}
	if _, ok := tr.Score("foo"); ok {
		t.Fatal("expected AND to fail when bar is missing")
	}
}

func TestFactoryOrTerm(t *testing.T) {
	f := Factory{DefaultMode: KindFuzzy, Extended: true}
	tr := f.Build("'foo|'bar", false)
	if _, ok := tr.Score("bar"); !ok {
		t.Fatal("expected OR alternative to match")
	}
}

func TestFactoryNegation(t *testing.T) {
	f := Factory{DefaultMode: KindFuzzy, Extended: true}
	tr := f.Build("!'foo", false)
	if _, ok := tr.Score("bar"); !ok {
		t.Fatal("expected negated term to match when pattern absent")
	}
	if _, ok := tr.Score("foobar"); ok {
		t.Fatal("expected negated term to fail when pattern present")
	}
}

func TestFactoryAnchors(t *testing.T) {
	f := Factory{DefaultMode: KindFuzzy, Extended: true}
	start := f.Build("^foo", false)
	if _, ok := start.Score("foobar"); !ok {
		t.Fatal("expected start anchor to match prefix")
	}
	if _, ok := start.Score("barfoo"); ok {
		t.Fatal("expected start anchor to reject non-prefix")
	}

	end := f.Build("bar$", false)
	if _, ok := end.Score("foobar"); !ok {
		t.Fatal("expected end anchor to match suffix")
	}
	if _, ok := end.Score("barfoo"); ok {
		t.Fatal("expected end anchor to reject non-suffix")
	}

	both := f.Build("^foo$", false)
	if _, ok := both.Score("foo"); !ok {
		t.Fatal("expected both-anchor to match the whole string")
	}
	if _, ok := both.Score("foobar"); ok {
		t.Fatal("expected both-anchor to reject a mere prefix")
	}
	if _, ok := both.Score("barfoo"); ok {
		t.Fatal("expected both-anchor to reject a mere suffix")
	}
}

func TestFactoryRegexMode(t *testing.T) {
	f := Factory{DefaultMode: KindRegex}
	tr := f.Build(`fo+`, false)
	if _, ok := tr.Score("foo"); !ok {
		t.Fatal("expected regex match")
	}
	if _, ok := tr.Score("bar"); ok {
		t.Fatal("expected regex non-match")
	}
}

func TestFactoryFoldDiacritics(t *testing.T) {
	f := Factory{DefaultMode: KindExact, Extended: true, FoldDiacritics: true}
	tr := f.Build("cafe", false)
	res, ok := tr.Score("le café du coin")
	if !ok {
		t.Fatal("expected folded match against accented text")
	}
	if len(res.Positions) != 4 {
		t.Fatalf("expected 4 matched positions, got %v", res.Positions)
	}

	plain := Factory{DefaultMode: KindExact, Extended: true}
	if _, ok := plain.Build("cafe", false).Score("le café du coin"); ok {
		t.Fatal("expected no match without folding enabled")
	}
}

func TestFactoryInvalidRegexFailsCleanly(t *testing.T) {
	f := Factory{DefaultMode: KindRegex}
	tr := f.Build(`[`, false)
	if _, ok := tr.Score("anything"); ok {
		t.Fatal("invalid regex should never match, not panic")
	}
}
