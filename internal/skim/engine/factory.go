package engine

import "strings"

// Factory builds a Tree from query text per a fixed configuration
// (§4.3): the default algorithm/mode to fall back to when a term carries
// no prefix, the case policy already resolved by the caller into
// ignoreCase, and whether extended (AND/OR/prefix) parsing is enabled at
// all — plain mode treats the whole query text as one literal term for
// the configured default.
type Factory struct {
	// DefaultMode is the leaf kind used for a term with no recognized
	// prefix: KindFuzzy, KindExact, or KindRegex.
	DefaultMode Kind
	// Extended enables the AND/OR/prefix grammar (spaces split AND
	// terms, '|' splits OR alternatives within a term, and
	// '/^/$/!' prefixes select sub-engines). When false the entire
	// query text is a single DefaultMode term (skim/fzf's --no-extended).
	Extended bool
	// Algorithm selects the fuzzy variant for fuzzy leaves.
	Algorithm int
	// FoldDiacritics makes exact leaves compare with Latin accents
	// folded away (normalize.FoldDiacriticsAligned), so "cafe" matches
	// "café" (§4.2).
	FoldDiacritics bool
}

// Build parses text into an engine Tree. An empty (post-trim) text
// produces the Disabled engine, matching "empty query produces the
// disabled engine ... ordering falls back to tie-breakers other than
// score" (§4.3).
func (f Factory) Build(text string, ignoreCase bool) Tree {
	if strings.TrimSpace(text) == "" {
		return Disabled()
	}
	if f.DefaultMode == KindRegex {
		return Tree{Kind: KindRegex, Leaf: Leaf{Pattern: text, IgnoreCase: ignoreCase}}
	}
	if !f.Extended {
		return f.buildLeaf(text, ignoreCase)
	}

	terms := strings.Fields(text)
	var andChildren []Tree
	for _, term := range terms {
		if term == "" {
			continue
		}
		andChildren = append(andChildren, f.buildTerm(term, ignoreCase))
	}
	switch len(andChildren) {
	case 0:
		return Disabled()
	case 1:
		return andChildren[0]
	default:
		return Tree{Kind: KindAnd, Children: andChildren}
	}
}

func (f Factory) buildTerm(term string, ignoreCase bool) Tree {
	negate := false
	if strings.HasPrefix(term, "!") {
		negate = true
		term = term[1:]
	}

	alts := strings.Split(term, "|")
	if len(alts) <= 1 {
		leaf := f.buildLeaf(term, ignoreCase)
		leaf.Negate = negate
		return leaf
	}

	var orChildren []Tree
	for _, alt := range alts {
		if alt == "" {
			continue
		}
		orChildren = append(orChildren, f.buildLeaf(alt, ignoreCase))
	}
	tree := Tree{Kind: KindOr, Children: orChildren, Negate: negate}
	return tree
}

func (f Factory) buildLeaf(token string, ignoreCase bool) Tree {
	switch {
	case strings.HasPrefix(token, "'"):
		return Tree{Kind: KindExact, Leaf: Leaf{Pattern: unquoteExact(token[1:]), IgnoreCase: ignoreCase, FoldDiacritics: f.FoldDiacritics}}
	case strings.HasPrefix(token, "^") && strings.HasSuffix(token, "$") && len(token) > 1:
		return Tree{Kind: KindExact, Leaf: Leaf{Pattern: token[1 : len(token)-1], IgnoreCase: ignoreCase, FoldDiacritics: f.FoldDiacritics}, Anchor: AnchorBoth}
	case strings.HasPrefix(token, "^"):
		return Tree{Kind: KindExact, Leaf: Leaf{Pattern: token[1:], IgnoreCase: ignoreCase, FoldDiacritics: f.FoldDiacritics}, Anchor: AnchorStart}
	case strings.HasSuffix(token, "$") && len(token) > 1:
		return Tree{Kind: KindExact, Leaf: Leaf{Pattern: token[:len(token)-1], IgnoreCase: ignoreCase, FoldDiacritics: f.FoldDiacritics}, Anchor: AnchorEnd}
	default:
		switch f.DefaultMode {
		case KindExact:
			return Tree{Kind: KindExact, Leaf: Leaf{Pattern: token, IgnoreCase: ignoreCase, FoldDiacritics: f.FoldDiacritics}}
		case KindRegex:
			return Tree{Kind: KindRegex, Leaf: Leaf{Pattern: token, IgnoreCase: ignoreCase}}
		default:
			return Tree{Kind: KindFuzzy, Leaf: Leaf{Pattern: token, IgnoreCase: ignoreCase, Algorithm: f.Algorithm}}
		}
	}
}

// unquoteExact strips a single '-quoted exact token's closing quote if
// present; skim's grammar only honors the opening quote as the "force
// exact" marker and does not require balancing it, matching §4.3's "no
// other quoting" rule.
func unquoteExact(s string) string {
	return strings.TrimSuffix(s, "'")
}
