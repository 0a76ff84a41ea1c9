// Package engine implements the pluggable scorers described in spec.md
// §4.2: given a query and an item's match text, an Engine returns a
// score and the set of matched positions, or reports no match.
//
// Engine variants are modeled as a tagged union (spec.md §9 "Dynamic
// dispatch for engines") rather than an interface hierarchy with many
// small implementations, so EngineFactory's parser stays a pure data
// transformation from query text to a tree value.
package engine

// Kind tags which scoring rule a Tree node applies.
type Kind int

const (
	KindDisabled Kind = iota
	KindFuzzy
	KindExact
	KindRegex
	KindAnd
	KindOr
)

// MatchResult is the score and position set returned by a successful
// Score call, plus the derived tie-break fields spec.md §3 requires
// (Begin, End, Length are computed from Positions by the caller when it
// assembles the ranked view; engines only need to fill Score and
// Positions accurately).
type MatchResult struct {
	Score     int32
	Positions []int // rune offsets into the scored text
}

// Tree is a parsed engine: either a leaf (Fuzzy/Exact/Regex/Disabled)
// or a composite (And/Or) over child Trees. EngineFactory builds Trees;
// Score evaluates them.
type Tree struct {
	Kind     Kind
	Leaf     Leaf   // valid when Kind is a leaf kind
	Children []Tree // valid when Kind is And/Or
	Negate   bool   // '!' prefix: leaf/subtree must NOT match
	Anchor   Anchor // '^'/'$' prefix on exact leaves
}

// Anchor constrains where an Exact leaf may match.
type Anchor int

const (
	AnchorNone Anchor = iota
	AnchorStart
	AnchorEnd
	AnchorBoth
)

// Leaf holds the per-variant configuration for a leaf Tree node.
type Leaf struct {
	Pattern        string
	IgnoreCase     bool
	Algorithm      int  // see query.Algorithm; only meaningful for KindFuzzy
	FoldDiacritics bool // compare with Latin accents folded away; only meaningful for KindExact
}

// Score evaluates the tree against text and returns the combined
// result, or ok=false if the tree does not match (§4.2: "Failure of any
// AND term yields None").
func (t Tree) Score(text string) (MatchResult, bool) {
	res, ok := t.scoreInner(text)
	if t.Negate {
		if ok {
			return MatchResult{}, false
		}
		return MatchResult{Score: 0}, true
	}
	return res, ok
}

func (t Tree) scoreInner(text string) (MatchResult, bool) {
	switch t.Kind {
	case KindDisabled:
		return MatchResult{Score: 0}, true
	case KindFuzzy:
		return scoreFuzzy(t.Leaf.Pattern, text, t.Leaf.IgnoreCase, t.Leaf.Algorithm)
	case KindExact:
		return scoreExactFold(t.Leaf.Pattern, text, t.Leaf.IgnoreCase, t.Leaf.FoldDiacritics, t.Anchor)
	case KindRegex:
		return scoreRegex(t.Leaf.Pattern, text, t.Leaf.IgnoreCase)
	case KindAnd:
		return scoreAnd(t.Children, text)
	case KindOr:
		return scoreOr(t.Children, text)
	default:
		return MatchResult{}, false
	}
}

func scoreAnd(children []Tree, text string) (MatchResult, bool) {
	if len(children) == 0 {
		return MatchResult{Score: 0}, true
	}
	var total int32
	var positions []int
	for _, c := range children {
		res, ok := c.Score(text)
		if !ok {
			return MatchResult{}, false
		}
		total += res.Score
		positions = append(positions, res.Positions...)
	}
	return MatchResult{Score: total, Positions: dedupSorted(positions)}, true
}

func scoreOr(children []Tree, text string) (MatchResult, bool) {
	var best MatchResult
	found := false
	for _, c := range children {
		res, ok := c.Score(text)
		if !ok {
			continue
		}
		if !found || res.Score > best.Score {
			best = res
			found = true
		}
	}
	return best, found
}

func dedupSorted(positions []int) []int {
	if len(positions) < 2 {
		return positions
	}
	seen := make(map[int]struct{}, len(positions))
	out := positions[:0]
	for _, p := range positions {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
