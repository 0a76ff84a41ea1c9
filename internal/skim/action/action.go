package action

import "strings"

// Name identifies one action in the vocabulary of spec.md §6. Actions
// that carry a string argument (reload, set-query, execute,
// execute-silent) hold it in Action.Arg; if-non-matched and
// if-query-empty hold their nested chain in Action.Chain.
type Name string

const (
	// Query edits.
	Insert            Name = "insert"
	DeleteChar        Name = "delete-char"
	DeleteCharForward Name = "delete-char-forward"
	KillWord          Name = "kill-word"
	KillLine          Name = "kill-line"
	BeginningOfLine   Name = "beginning-of-line"
	EndOfLine         Name = "end-of-line"
	Yank              Name = "yank"
	BackwardWord      Name = "backward-word"
	ForwardWord       Name = "forward-word"
	ClearQuery        Name = "clear-query"

	// Navigation.
	Up            Name = "up"
	Down          Name = "down"
	PageUp        Name = "page-up"
	PageDown      Name = "page-down"
	HalfPageUp    Name = "half-page-up"
	HalfPageDown  Name = "half-page-down"
	First         Name = "first"
	Last          Name = "last"

	// Selection.
	Toggle       Name = "toggle"
	ToggleAll    Name = "toggle-all"
	SelectAll    Name = "select-all"
	DeselectAll  Name = "deselect-all"
	ToggleIn     Name = "toggle-in"
	ToggleOut    Name = "toggle-out"

	// Submission.
	Accept          Name = "accept"
	AcceptNonEmpty  Name = "accept-non-empty"
	Abort           Name = "abort"
	IfNonMatched    Name = "if-non-matched"
	IfQueryEmpty    Name = "if-query-empty"

	// UI.
	TogglePreview   Name = "toggle-preview"
	PreviewUp       Name = "preview-up"
	PreviewDown     Name = "preview-down"
	PreviewPage     Name = "preview-page"
	ToggleInteractive Name = "toggle-interactive"
	RefreshPreview  Name = "refresh-preview"
	Reload          Name = "reload"
	SetQuery        Name = "set-query"
	Execute         Name = "execute"
	ExecuteSilent   Name = "execute-silent"

	// Mode.
	ToggleSort  Name = "toggle-sort"
	ToggleRegex Name = "toggle-regex"
	ToggleCase  Name = "toggle-case"
)

// Action is one step of a chain: a name plus an optional argument for
// the actions that carry one (a command, a query string, or a nested
// chain for if-non-matched/if-query-empty).
type Action struct {
	Name  Name
	Arg   string
	Chain []Action // populated for if-non-matched(...)/if-query-empty(...)
}

// namesWithArg are the actions whose "(...)" suffix holds a single
// string argument rather than a nested chain.
var namesWithArg = map[Name]bool{
	Reload:        true,
	SetQuery:      true,
	Execute:       true,
	ExecuteSilent: true,
}

var namesWithChain = map[Name]bool{
	IfNonMatched: true,
	IfQueryEmpty: true,
}

// ParseChain parses one "+"-separated action chain, e.g.
// "down+toggle+down" or "execute(less {})". Argument-bearing actions
// use the fzf/skim "name(arg)" syntax; the argument runs to the
// matching close paren, since arguments themselves may contain "+".
func ParseChain(s string) ([]Action, error) {
	var actions []Action
	for len(s) > 0 {
		s = strings.TrimSpace(s)
		if s == "" {
			break
		}
		name, arg, rest, hasArg, err := parseOne(s)
		if err != nil {
			return nil, err
		}
		a := Action{Name: Name(name)}
		if hasArg {
			if namesWithChain[Name(name)] {
				chain, err := ParseChain(arg)
				if err != nil {
					return nil, err
				}
				a.Chain = chain
			} else {
				a.Arg = arg
			}
		}
		actions = append(actions, a)
		s = strings.TrimPrefix(rest, "+")
	}
	return actions, nil
}

// FormatChain renders a chain back to the "+"-separated wire syntax
// ParseChain accepts, the inverse used by the socket client to
// reserialize a chain it parsed from its text argument before sending
// it over the wire.
func FormatChain(chain []Action) string {
	parts := make([]string, len(chain))
	for i, a := range chain {
		switch {
		case namesWithChain[a.Name]:
			parts[i] = string(a.Name) + "(" + FormatChain(a.Chain) + ")"
		case namesWithArg[a.Name]:
			parts[i] = string(a.Name) + "(" + a.Arg + ")"
		default:
			parts[i] = string(a.Name)
		}
	}
	return strings.Join(parts, "+")
}

// parseOne extracts one action token (with an optional "(...)" argument)
// from the front of s, returning the remainder starting right after the
// token (including any leading '+').
func parseOne(s string) (name string, arg string, rest string, hasArg bool, err error) {
	i := 0
	for i < len(s) && s[i] != '+' && s[i] != '(' {
		i++
	}
	name = s[:i]
	if i >= len(s) || s[i] != '(' {
		return name, "", s[i:], false, nil
	}

	depth := 0
	j := i
	for j < len(s) {
		switch s[j] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return name, s[i+1 : j], s[j+1:], true, nil
			}
		}
		j++
	}
	return "", "", "", false, &UnclosedArgError{Chain: s}
}

// UnclosedArgError is returned when an action's "(" argument is never
// closed.
type UnclosedArgError struct {
	Chain string
}

func (e *UnclosedArgError) Error() string {
	return "unclosed action argument in: " + e.Chain
}

// Binding maps one key token (e.g. "ctrl+j", "alt+r", "down") to an
// action chain, using skim/fzf's --bind grammar "key:action[+action...]".
// The TUI looks Key up verbatim by the terminal library's key name, so
// dash-style names such as "ctrl-j" match no key.
type Binding struct {
	Key    string
	Chain  []Action
}

// ParseBindings parses a comma-separated list of "key:chain" bindings.
func ParseBindings(spec string) ([]Binding, error) {
	var out []Binding
	for _, entry := range splitBindings(spec) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		idx := strings.Index(entry, ":")
		if idx < 0 {
			return nil, &InvalidBindingError{Entry: entry}
		}
		key := entry[:idx]
		chain, err := ParseChain(entry[idx+1:])
		if err != nil {
			return nil, err
		}
		out = append(out, Binding{Key: key, Chain: chain})
	}
	return out, nil
}

// splitBindings splits on top-level commas only, so a comma inside an
// action argument (e.g. execute(echo a,b)) does not split the binding.
func splitBindings(spec string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(spec); i++ {
		switch spec[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, spec[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, spec[start:])
	return out
}

// InvalidBindingError is returned when a --bind entry has no "key:"
// prefix.
type InvalidBindingError struct {
	Entry string
}

func (e *InvalidBindingError) Error() string {
	return "invalid key binding (expected key:action): " + e.Entry
}
