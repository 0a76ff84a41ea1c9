package engine

import "unicode"

// Fuzzy scoring constants. Named after the equivalent bonuses in the
// original skim's fuzzy_matcher module, tuned for the simpler
// (non-affine, no-transposition) "skim-v2" default algorithm spec.md
// §4.2 describes: dynamic programming, consecutive-run bonus,
// word-boundary/camelCase bonus, gap penalty, ties broken by earliest
// start.
const (
	scoreMatch        int32 = 16
	bonusBoundary     int32 = 10
	bonusCamel        int32 = 8
	bonusConsecutive  int32 = 6
	bonusCaseMatch    int32 = 4
	penaltyGapPerRune int32 = 1
	negInf            int32 = -1 << 30
)

// scoreFuzzy runs the DP fuzzy match of pattern against text. algorithm
// selects among skim-v2 (default, DP with bonuses) and skim-v1 (a
// simpler greedy single pass, kept for --algo v1 compatibility per
// SPEC_FULL §12).
func scoreFuzzy(pattern string, text string, ignoreCase bool, algorithm int) (MatchResult, bool) {
	if pattern == "" {
		return MatchResult{Score: 0}, true
	}
	if algorithm == 1 {
		return scoreFuzzyGreedy(pattern, text, ignoreCase)
	}
	return scoreFuzzyDP(pattern, text, ignoreCase)
}

// scoreFuzzyDP implements the DP described above. It allocates an
// (m+1) x (n+1) score matrix, which is fine for the single-line items
// skim scores (typically well under a few thousand runes); a
// sliding-window score-only fast path is not needed at this scale.
func scoreFuzzyDP(pattern string, text string, ignoreCase bool) (MatchResult, bool) {
	p := []rune(pattern)
	t := []rune(text)
	m, n := len(p), len(t)
	if m == 0 {
		return MatchResult{Score: 0}, true
	}
	if m > n {
		return MatchResult{}, false
	}

	pFold := foldRunes(p, ignoreCase)
	tFold := foldRunes(t, ignoreCase)
	bonus := positionalBonus(t)

	// H[i][j]: best score aligning pattern[:i] against text[:j].
	// matched[i][j]: whether the best path to (i,j) ends in a match
	// (as opposed to a carried-forward skip), used both to compute the
	// consecutive-run bonus and to backtrack positions.
	H := make([][]int32, m+1)
	matched := make([][]bool, m+1)
	for i := range H {
		H[i] = make([]int32, n+1)
		matched[i] = make([]bool, n+1)
	}
	for j := 0; j <= n; j++ {
		H[0][j] = 0
	}
	for i := 1; i <= m; i++ {
		H[i][i-1] = negInf
	}

	for i := 1; i <= m; i++ {
		for j := i; j <= n; j++ {
			// Gaps before the first pattern character cost nothing (a
			// match starting deep in a long line is not itself
			// penalized); gaps between subsequent matched characters
			// are penalized per skipped rune.
			skip := H[i][j-1]
			if i > 1 {
				skip -= penaltyGapPerRune
			}

			var diag int32 = negInf
			if tFold[j-1] == pFold[i-1] && H[i-1][j-1] > negInf/2 {
				s := scoreMatch + bonus[j-1]
				if p[i-1] == t[j-1] {
					s += bonusCaseMatch
				}
				if matched[i-1][j-1] {
					s += bonusConsecutive
				}
				diag = H[i-1][j-1] + s
			}

			if diag >= skip && diag > negInf/2 {
				H[i][j] = diag
				matched[i][j] = true
			} else {
				H[i][j] = skip
				matched[i][j] = false
			}
		}
	}

	if H[m][n] <= negInf/2 {
		return MatchResult{}, false
	}

	positions := make([]int, 0, m)
	i, j := m, n
	for i > 0 {
		if matched[i][j] {
			positions = append(positions, j-1)
			i--
			j--
		} else {
			j--
		}
	}
	reverseInts(positions)

	return MatchResult{Score: H[m][n], Positions: positions}, true
}

// scoreFuzzyGreedy is a single left-to-right greedy match (no
// backtracking), matching the classic "does every pattern rune occur in
// order" quick check with the same bonus vocabulary but no DP
// optimality guarantee. Selected via --algo v1.
func scoreFuzzyGreedy(pattern string, text string, ignoreCase bool) (MatchResult, bool) {
	p := []rune(pattern)
	t := []rune(text)
	pFold := foldRunes(p, ignoreCase)
	tFold := foldRunes(t, ignoreCase)
	bonus := positionalBonus(t)

	positions := make([]int, 0, len(p))
	pi := 0
	last := -2
	var score int32
	for ti := 0; ti < len(t) && pi < len(p); ti++ {
		if tFold[ti] != pFold[pi] {
			continue
		}
		s := scoreMatch + bonus[ti]
		if last+1 == ti {
			s += bonusConsecutive
		}
		if p[pi] == t[ti] {
			s += bonusCaseMatch
		}
		score += s
		positions = append(positions, ti)
		last = ti
		pi++
	}
	if pi != len(p) {
		return MatchResult{}, false
	}
	return MatchResult{Score: score, Positions: positions}, true
}

// positionalBonus computes the word-boundary/camelCase/start-of-string
// bonus for every rune of text, independent of any pattern.
func positionalBonus(t []rune) []int32 {
	bonus := make([]int32, len(t))
	for j := range t {
		if j == 0 {
			bonus[j] = bonusBoundary
			continue
		}
		prev := t[j-1]
		cur := t[j]
		if isBoundaryRune(prev) {
			bonus[j] = bonusBoundary
		} else if unicode.IsLower(prev) && unicode.IsUpper(cur) {
			bonus[j] = bonusCamel
		}
	}
	return bonus
}

func isBoundaryRune(r rune) bool {
	switch r {
	case '_', '-', '/', '.', ':', ' ':
		return true
	}
	return false
}

func foldRunes(rs []rune, ignoreCase bool) []rune {
	if !ignoreCase {
		return rs
	}
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
