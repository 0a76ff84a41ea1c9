// Package preview implements the Previewer described in spec.md §4.7:
// it spawns a debounced subprocess per focused item, expands the
// command template, caps output, and applies syntax highlighting to
// the captured bytes before handing them to the renderer.
package preview

import (
	"path/filepath"
	"strings"
)

// LangID names a detected content language, used to pick a highlighting
// strategy for preview output.
type LangID string

const (
	LangPlain LangID = "plain"
	LangJSON  LangID = "json"
)

var extToLang = map[string]LangID{
	".json":  LangJSON,
	".jsonc": LangJSON,
	".json5": LangJSON,
}

// DetectLang classifies path for preview highlighting: JSON gets the
// precise tree-sitter path (Highlighter.highlightJSON); everything else
// falls through to chroma's own filename/content-based lexer analysis.
func DetectLang(path string) LangID {
	ext := strings.ToLower(filepath.Ext(path))
	if id, ok := extToLang[ext]; ok {
		return id
	}
	return LangPlain
}
