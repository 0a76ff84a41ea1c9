package item

import "strings"

// FieldSelector implements --nth / --with-nth style field restriction:
// a comma-separated list of 1-based field ranges (open-ended with "..")
// evaluated against a line split on Delimiter (default: runs of
// whitespace, matching skim/fzf's AWK-like default).
type FieldSelector struct {
	Delimiter string
	Ranges    []FieldRange
}

// FieldRange is an inclusive 1-based field range. End == 0 means "to the
// end of the line" (the "N.." form).
type FieldRange struct {
	Start int
	End   int
}

// Empty reports whether the selector has no configured ranges, meaning
// "use the whole line" (the common case, and the fast path).
func (f FieldSelector) Empty() bool {
	return len(f.Ranges) == 0
}

// SplitFields tokenizes raw per the selector's delimiter. An empty
// Delimiter means "split on runs of ASCII whitespace and drop empty
// tokens", matching AWK/skim's default field splitting; a non-empty
// Delimiter is matched literally, one byte-for-byte separator per split,
// preserving empty fields (matching --delimiter's exact semantics).
func (f FieldSelector) SplitFields(raw string) []string {
	if f.Delimiter == "" {
		return strings.Fields(raw)
	}
	return strings.Split(raw, f.Delimiter)
}

// Apply extracts the selected fields from raw, rejoining them with a
// single space (skim's own field-selection rendering convention,
// independent of the input delimiter).
func (f FieldSelector) Apply(raw string) string {
	if f.Empty() {
		return raw
	}
	fields := f.SplitFields(raw)
	if len(fields) == 0 {
		return ""
	}

	var out []string
	for _, r := range f.Ranges {
		start := r.Start
		end := r.End
		if start < 0 {
			start = len(fields) + start + 1
		}
		if end == 0 {
			end = len(fields)
		} else if end < 0 {
			end = len(fields) + end + 1
		}
		if start < 1 {
			start = 1
		}
		if end > len(fields) {
			end = len(fields)
		}
		for i := start; i <= end; i++ {
			out = append(out, fields[i-1])
		}
	}
	return strings.Join(out, " ")
}

// ParseFieldSelector parses skim/fzf's --nth grammar: comma-separated
// entries of "N", "N..", "..N", "N..M", or "-N" (negative index counts
// from the end).
func ParseFieldSelector(spec string, delimiter string) (FieldSelector, error) {
	sel := FieldSelector{Delimiter: delimiter}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return sel, nil
	}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := parseFieldRange(part)
		if err != nil {
			return FieldSelector{}, err
		}
		sel.Ranges = append(sel.Ranges, r)
	}
	return sel, nil
}

func parseFieldRange(part string) (FieldRange, error) {
	if idx := strings.Index(part, ".."); idx >= 0 {
		startStr, endStr := part[:idx], part[idx+2:]
		start, err := parseSignedOrZero(startStr, 1)
		if err != nil {
			return FieldRange{}, err
		}
		end, err := parseSignedOrZero(endStr, 0)
		if err != nil {
			return FieldRange{}, err
		}
		return FieldRange{Start: start, End: end}, nil
	}
	n, err := parseSignedOrZero(part, 0)
	if err != nil {
		return FieldRange{}, err
	}
	return FieldRange{Start: n, End: n}, nil
}

func parseSignedOrZero(s string, dflt int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return dflt, nil
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, &InvalidFieldSpecError{Spec: s}
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

// InvalidFieldSpecError is returned when a --nth/--with-nth range token
// cannot be parsed.
type InvalidFieldSpecError struct {
	Spec string
}

func (e *InvalidFieldSpecError) Error() string {
	return "invalid field spec: " + e.Spec
}
