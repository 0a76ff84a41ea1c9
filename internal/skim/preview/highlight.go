package preview

import (
	"bytes"
	"context"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	sitter "github.com/smacker/go-tree-sitter"
	tsjson "github.com/tree-sitter/tree-sitter-json/bindings/go"
)

// Highlighter turns preview content into ANSI-escaped text: chroma for
// the general case (lexer chosen by file extension or, failing that, by
// content analysis), and tree-sitter's JSON grammar for a precise
// structural parse when the content is JSON (§12 SUPPLEMENTED
// FEATURES: "JSON records piped into skim"). The result is plain ANSI
// text, the same shape item.ParseANSI already knows how to turn into
// styled Segments for rendering.
type Highlighter struct {
	jsonLang  *sitter.Language
	styleName string
}

// NewHighlighter constructs a Highlighter using styleName (a chroma
// style name, e.g. "nord"; empty falls back to chroma's default style).
func NewHighlighter(styleName string) *Highlighter {
	return &Highlighter{jsonLang: sitter.NewLanguage(tsjson.Language()), styleName: styleName}
}

// Highlight classifies text for preview rendering. path steers chroma's
// lexer selection when lang isn't LangJSON; an unrecognized or empty
// path falls back to chroma's content-based analysis.
func (h *Highlighter) Highlight(ctx context.Context, path string, lang LangID, text string) string {
	if text == "" {
		return text
	}
	if lang == LangJSON {
		if out, ok := h.highlightJSON(ctx, text); ok {
			return out
		}
	}
	return h.highlightChroma(path, text)
}

func (h *Highlighter) highlightChroma(path string, text string) string {
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	style := styles.Get(h.styleName)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return text
	}
	return buf.String()
}

// highlightJSON renders ANSI SGR codes directly from a tree-sitter-json
// parse, bypassing chroma's lexer entirely (chroma's own json lexer is
// regex-based and less precise about key-vs-value strings than a real
// parse, which §12 calls out explicitly as the reason tree-sitter-json
// is wired in at all).
func (h *Highlighter) highlightJSON(ctx context.Context, text string) (string, bool) {
	parser := sitter.NewParser()
	parser.SetLanguage(h.jsonLang)

	src := []byte(text)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil || tree == nil {
		return "", false
	}
	defer tree.Close()
	root := tree.RootNode()
	if root == nil {
		return "", false
	}

	var spans []byteSpan
	collectJSONLeafSpans(root, "", &spans)

	var out bytes.Buffer
	cursor := 0
	for _, sp := range spans {
		if sp.Start < cursor {
			continue
		}
		if sp.Start > cursor {
			out.WriteString(text[cursor:sp.Start])
		}
		code := jsonSGRCode(sp.Cat)
		if code == "" {
			out.WriteString(text[sp.Start:sp.End])
		} else {
			out.WriteString("\x1b[" + code + "m" + text[sp.Start:sp.End] + "\x1b[0m")
		}
		cursor = sp.End
	}
	if cursor < len(text) {
		out.WriteString(text[cursor:])
	}
	return out.String(), true
}

func jsonSGRCode(cat tokenCategory) string {
	switch cat {
	case catKey:
		return "36" // cyan: object keys
	case catString:
		return "32" // green
	case catNumber:
		return "33" // yellow
	case catOperator:
		return "2" // dim
	case catError:
		return "31" // red
	default:
		return ""
	}
}

type tokenCategory int

const (
	catPlain tokenCategory = iota
	catKey
	catString
	catNumber
	catOperator
	catError
)

type byteSpan struct {
	Start int
	End   int
	Cat   tokenCategory
}

// collectJSONLeafSpans walks tree-sitter-json's parse tree classifying
// leaves: the leaves of a string that is the first child (the key) of a
// "pair" are object keys; other strings are values; numbers/true/false/
// null are catNumber; structural punctuation is catOperator.
func collectJSONLeafSpans(node *sitter.Node, parentType string, out *[]byteSpan) {
	if node == nil {
		return
	}
	if node.ChildCount() == 0 {
		start, end := int(node.StartByte()), int(node.EndByte())
		if start >= end {
			return
		}
		*out = append(*out, byteSpan{Start: start, End: end, Cat: classifyJSONLeaf(node, parentType)})
		return
	}
	nodeType := node.Type()
	for i := 0; i < int(node.ChildCount()); i++ {
		childParent := nodeType
		switch {
		case nodeType == "pair" && i > 0:
			// Only a pair's first child is its key.
			childParent = "pair-value"
		case nodeType == "string" && parentType == "pair":
			// The key string's own leaves classify as keys.
			childParent = "pair"
		}
		collectJSONLeafSpans(node.Child(i), childParent, out)
	}
}

func classifyJSONLeaf(node *sitter.Node, parentType string) tokenCategory {
	switch node.Type() {
	case "string", "string_content":
		if parentType == "pair" {
			return catKey
		}
		return catString
	case "number":
		return catNumber
	case "true", "false", "null":
		return catNumber
	case "{", "}", "[", "]", ":", ",":
		return catOperator
	case "ERROR":
		return catError
	default:
		return catPlain
	}
}
