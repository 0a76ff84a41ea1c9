package tui

import (
	"github.com/skim-rs/skim/internal/skim/action"
)

// DefaultBindings is the fixed skim/fzf-style default key table (up/
// ctrl+p, down/ctrl+n, pgup/pgdown, home/end, tab, enter, esc, ...)
// mapped onto the full §6 action vocabulary; --bind overrides entries
// wholesale by key.
func DefaultBindings() []action.Binding {
	chain := func(names ...action.Name) []action.Action {
		actions := make([]action.Action, len(names))
		for i, n := range names {
			actions[i] = action.Action{Name: n}
		}
		return actions
	}
	return []action.Binding{
		{Key: "up", Chain: chain(action.Up)},
		{Key: "ctrl+p", Chain: chain(action.Up)},
		{Key: "down", Chain: chain(action.Down)},
		{Key: "ctrl+n", Chain: chain(action.Down)},
		{Key: "pgup", Chain: chain(action.PageUp)},
		{Key: "pgdown", Chain: chain(action.PageDown)},
		{Key: "ctrl+u", Chain: chain(action.HalfPageUp)},
		{Key: "ctrl+d", Chain: chain(action.HalfPageDown)},
		{Key: "home", Chain: chain(action.First)},
		{Key: "end", Chain: chain(action.Last)},
		{Key: "tab", Chain: chain(action.Toggle, action.Down)},
		{Key: "shift+tab", Chain: chain(action.Toggle, action.Up)},
		{Key: "alt+a", Chain: chain(action.SelectAll)},
		{Key: "alt+d", Chain: chain(action.DeselectAll)},
		{Key: "enter", Chain: chain(action.Accept)},
		{Key: "esc", Chain: chain(action.Abort)},
		{Key: "ctrl+c", Chain: chain(action.Abort)},
		{Key: "ctrl+g", Chain: chain(action.Abort)},
		{Key: "ctrl+y", Chain: chain(action.Yank)},
		{Key: "alt+y", Chain: []action.Action{{Name: action.Yank, Arg: "clipboard"}}},
		{Key: "ctrl+k", Chain: chain(action.KillLine)},
		{Key: "ctrl+w", Chain: chain(action.KillWord)},
		{Key: "ctrl+space", Chain: chain(action.TogglePreview)},
		{Key: "ctrl+r", Chain: chain(action.RefreshPreview)},
		{Key: "alt+r", Chain: chain(action.ToggleRegex)},
		{Key: "alt+c", Chain: chain(action.ToggleCase)},
		{Key: "alt+s", Chain: chain(action.ToggleSort)},
		{Key: "alt+i", Chain: chain(action.ToggleInteractive)},
		{Key: "alt+up", Chain: chain(action.PreviewUp)},
		{Key: "alt+down", Chain: chain(action.PreviewDown)},
	}
}

// bindingMap resolves Options.Bindings over DefaultBindings, so a user
// --bind entry overrides the default chain for that key without losing
// the rest of the defaults.
func bindingMap(opts Options) map[string][]action.Action {
	out := make(map[string][]action.Action)
	for _, b := range DefaultBindings() {
		out[b.Key] = b.Chain
	}
	for _, b := range opts.Bindings {
		out[b.Key] = b.Chain
	}
	return out
}
