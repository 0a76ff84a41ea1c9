package engine

import "testing"

func TestScoreFuzzyBasics(t *testing.T) {
	// §8 scenario 1: query "fz" over fuzz/buzz: fuzz matches (f...z),
	// buzz does not (no leading f).
	if _, ok := scoreFuzzy("fz", "fuzz", true, 0); !ok {
		t.Fatal("expected fuzz to match fz")
	}
	if _, ok := scoreFuzzy("fz", "buzz", true, 0); ok {
		t.Fatal("expected buzz to NOT match fz (no f)")
	}
}

func TestScoreFuzzyOrdersConsecutiveHigher(t *testing.T) {
	res1, ok := scoreFuzzy("ab", "xaxbx", true, 0)
	if !ok {
		t.Fatal("expected match")
	}
	res2, ok := scoreFuzzy("ab", "xabxx", true, 0)
	if !ok {
		t.Fatal("expected match")
	}
	if res2.Score <= res1.Score {
		t.Fatalf("expected consecutive match to score higher: got %d vs %d", res2.Score, res1.Score)
	}
}

func TestScoreFuzzyPositionsInOrder(t *testing.T) {
	res, ok := scoreFuzzy("ace", "abcde", true, 0)
	if !ok {
		t.Fatal("expected match")
	}
	want := []int{0, 2, 4}
	if len(res.Positions) != len(want) {
		t.Fatalf("got positions %v want %v", res.Positions, want)
	}
	for i := range want {
		if res.Positions[i] != want[i] {
			t.Fatalf("got positions %v want %v", res.Positions, want)
		}
	}
}

func TestScoreFuzzyCaseSensitivity(t *testing.T) {
	if _, ok := scoreFuzzy("AB", "ab", false, 0); ok {
		t.Fatal("expected case-sensitive mismatch")
	}
	if _, ok := scoreFuzzy("AB", "ab", true, 0); !ok {
		t.Fatal("expected case-insensitive match")
	}
}

func TestScoreFuzzyGreedyAlgorithm(t *testing.T) {
	res, ok := scoreFuzzy("ace", "abcde", true, 1)
	if !ok {
		t.Fatal("expected greedy match")
	}
	if len(res.Positions) != 3 {
		t.Fatalf("got %v", res.Positions)
	}
}

func TestScoreFuzzyLongerThanTextFails(t *testing.T) {
	if _, ok := scoreFuzzy("abcdef", "abc", true, 0); ok {
		t.Fatal("pattern longer than text should never match")
	}
}
