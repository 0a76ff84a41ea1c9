package engine

import (
	"sync"

	"github.com/dlclark/regexp2"
)

// Regex constants (§4.2): "score = constant; positions = span of first
// non-empty match".
const regexScore int32 = 5_000

// compileCache memoizes compiled regexes so that the same pattern text
// (the common case: the query doesn't change between items within one
// matching epoch) is compiled exactly once per epoch rather than once
// per item. EngineFactory builds one Tree per query change, so the
// cache is keyed on pattern+flags and sized generously; stale entries
// are harmless, just unused memory until GC.
var compileCache sync.Map // map[regexCacheKey]*regexp2.Regexp

type regexCacheKey struct {
	pattern    string
	ignoreCase bool
}

func compileRegex(pattern string, ignoreCase bool) (*regexp2.Regexp, error) {
	key := regexCacheKey{pattern: pattern, ignoreCase: ignoreCase}
	if v, ok := compileCache.Load(key); ok {
		return v.(*regexp2.Regexp), nil
	}

	opts := regexp2.None
	if ignoreCase {
		opts = regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	compileCache.Store(key, re)
	return re, nil
}

func scoreRegex(pattern string, text string, ignoreCase bool) (MatchResult, bool) {
	if pattern == "" {
		return MatchResult{Score: regexScore}, true
	}
	re, err := compileRegex(pattern, ignoreCase)
	if err != nil {
		// §7: invalid regex is a user-input error surfaced at the
		// status-line level by the caller (EngineFactory), not here;
		// treat an uncompilable pattern as "does not match".
		return MatchResult{}, false
	}

	m, err := re.FindStringMatch(text)
	if err != nil || m == nil {
		return MatchResult{}, false
	}
	// Skip empty matches so positions cover the first non-empty one; a
	// pattern that only ever matches empty still counts as a match.
	for m.Length == 0 {
		next, err := re.FindNextMatch(m)
		if err != nil || next == nil {
			return MatchResult{Score: regexScore, Positions: nil}, true
		}
		m = next
	}

	runes := []rune(text[:m.Index])
	start := len(runes)
	length := len([]rune(m.String()))
	if length == 0 {
		return MatchResult{Score: regexScore, Positions: nil}, true
	}
	return positionsFor(text, start, length), true
}
