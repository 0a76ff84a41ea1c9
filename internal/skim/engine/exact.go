package engine

import (
	"strings"

	"github.com/skim-rs/skim/internal/skim/normalize"
)

// Exact constants (§4.2): "score = constant high value minus distance of
// match start from a configured anchor". Anchor here is always 0 (start
// of text); biasing toward earlier matches falls naturally out of
// subtracting the match's begin offset.
const exactBaseScore int32 = 10_000

func scoreExact(pattern string, text string, ignoreCase bool, anchor Anchor) (MatchResult, bool) {
	return scoreExactFold(pattern, text, ignoreCase, false, anchor)
}

func scoreExactFold(pattern string, text string, ignoreCase bool, foldDiacritics bool, anchor Anchor) (MatchResult, bool) {
	if pattern == "" {
		return MatchResult{Score: exactBaseScore}, true
	}

	hay, needle := text, pattern
	if foldDiacritics {
		hay = normalize.FoldDiacriticsAligned(hay)
		needle = normalize.FoldDiacriticsAligned(needle)
	}
	if ignoreCase {
		hay = strings.ToLower(hay)
		needle = strings.ToLower(needle)
	}

	switch anchor {
	case AnchorBoth:
		if hay != needle {
			return MatchResult{}, false
		}
		return positionsFor(text, 0, len([]rune(pattern))), true
	case AnchorStart:
		if !strings.HasPrefix(hay, needle) {
			return MatchResult{}, false
		}
		return positionsFor(text, 0, len([]rune(pattern))), true
	case AnchorEnd:
		if !strings.HasSuffix(hay, needle) {
			return MatchResult{}, false
		}
		runeLen := len([]rune(text))
		patLen := len([]rune(pattern))
		return positionsFor(text, runeLen-patLen, patLen), true
	default:
		byteIdx := strings.Index(hay, needle)
		if byteIdx < 0 {
			return MatchResult{}, false
		}
		runeStart := len([]rune(hay[:byteIdx]))
		return positionsFor(text, runeStart, len([]rune(pattern))), true
	}
}

func positionsFor(text string, start int, length int) MatchResult {
	score := exactBaseScore - int32(start)
	if score < 0 {
		score = 0
	}
	positions := make([]int, length)
	for i := range positions {
		positions[i] = start + i
	}
	return MatchResult{Score: score, Positions: positions}
}
