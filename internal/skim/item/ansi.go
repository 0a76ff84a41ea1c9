package item

import "strconv"

// ParseANSI splits raw into a plain-text projection and a Segment list
// carrying whatever SGR (Select Graphic Rendition) attributes were
// active over each run. Only CSI "m" sequences are interpreted; any
// other CSI ("ESC [") sequence is dropped from the plain-text projection
// without affecting attributes, and an unterminated one drops the rest
// of the line. Escapes that do not start with "ESC [" are not recognized
// and stay in the text.
func ParseANSI(raw string) (plain string, segs []Segment) {
	cur := DefaultAttr()
	var textBuf []byte
	var out []Segment

	flush := func() {
		if len(textBuf) == 0 {
			return
		}
		out = append(out, Segment{Text: string(textBuf), Attr: cur})
		textBuf = nil
	}

	i := 0
	n := len(raw)
	for i < n {
		if raw[i] == 0x1b && i+1 < n && raw[i+1] == '[' {
			j := i + 2
			for j < n && !isCSIFinal(raw[j]) {
				j++
			}
			if j < n {
				if raw[j] == 'm' {
					flush()
					cur = applySGR(cur, raw[i+2:j])
				}
				i = j + 1
				continue
			}
			// Unterminated escape: drop the rest.
			break
		}
		textBuf = append(textBuf, raw[i])
		i++
	}
	flush()

	if len(out) == 0 {
		return "", nil
	}
	if len(out) == 1 && out[0].Attr == DefaultAttr() {
		return out[0].Text, nil
	}
	return PlainText(out), out
}

func isCSIFinal(b byte) bool {
	return b >= 0x40 && b <= 0x7e
}

func applySGR(attr Attr, params string) Attr {
	if params == "" {
		return DefaultAttr()
	}
	codes := splitParams(params)
	for i := 0; i < len(codes); i++ {
		switch {
		case codes[i] == 0:
			attr = DefaultAttr()
		case codes[i] == 1:
			attr.Bold = true
		case codes[i] == 2:
			attr.Dim = true
		case codes[i] == 3:
			attr.Italic = true
		case codes[i] == 4:
			attr.Underline = true
		case codes[i] == 7:
			attr.Reverse = true
		case codes[i] == 22:
			attr.Bold, attr.Dim = false, false
		case codes[i] == 24:
			attr.Underline = false
		case codes[i] == 27:
			attr.Reverse = false
		case codes[i] >= 30 && codes[i] <= 37:
			attr.Fg = int32(codes[i] - 30)
		case codes[i] == 38:
			c, adv := parseExtendedColor(codes[i:])
			attr.Fg = c
			i += adv
		case codes[i] == 39:
			attr.Fg = -1
		case codes[i] >= 40 && codes[i] <= 47:
			attr.Bg = int32(codes[i] - 40)
		case codes[i] == 48:
			c, adv := parseExtendedColor(codes[i:])
			attr.Bg = c
			i += adv
		case codes[i] == 49:
			attr.Bg = -1
		case codes[i] >= 90 && codes[i] <= 97:
			attr.Fg = int32(codes[i] - 90 + 8)
		case codes[i] >= 100 && codes[i] <= 107:
			attr.Bg = int32(codes[i] - 100 + 8)
		}
	}
	return attr
}

// parseExtendedColor handles "38;5;N" (256-color) and "38;2;R;G;B"
// (truecolor, folded to a palette index by taking the sum of R, G and B
// modulo 256; the exact color is a rendering concern, not a matching
// one). Returns the resolved color code and how many extra codes to
// skip.
func parseExtendedColor(codes []int) (int32, int) {
	if len(codes) < 2 {
		return -1, 0
	}
	switch codes[1] {
	case 5:
		if len(codes) >= 3 {
			return int32(codes[2]), 2
		}
	case 2:
		if len(codes) >= 5 {
			return int32((codes[2] + codes[3] + codes[4]) % 256), 4
		}
	}
	return -1, len(codes) - 1
}

func splitParams(s string) []int {
	var out []int
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ';' {
			if i == start {
				out = append(out, 0)
			} else if v, err := strconv.Atoi(s[start:i]); err == nil {
				out = append(out, v)
			}
			start = i + 1
		}
	}
	if len(out) == 0 {
		out = append(out, 0)
	}
	return out
}

// StripANSI removes CSI "m" SGR sequences and returns just the plain
// text, discarding attribute information. Used when --ansi is off but
// the source still emits color codes that must not corrupt matching.
func StripANSI(raw string) string {
	plain, _ := ParseANSI(raw)
	if plain == "" && raw != "" {
		// ParseANSI returns "" for a non-empty raw only when every byte
		// belonged to an escape sequence; that case yields "". raw is
		// returned as-is only when it holds no ESC byte at all.
		hasEscape := false
		for i := 0; i < len(raw); i++ {
			if raw[i] == 0x1b {
				hasEscape = true
				break
			}
		}
		if !hasEscape {
			return raw
		}
	}
	return plain
}
