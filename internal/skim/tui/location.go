package tui

import (
	"strconv"
	"strings"
)

// parseLocation splits "path:line[:col]:rest" into its components for
// Options.LocationMode (§12), following the convention grep -n and rg
// --vimgrep output use. ok is false if text doesn't look like a
// location (no numeric second field), in which case callers should fall
// back to rendering the raw line.
func parseLocation(text string) (path string, line, col int, ok bool) {
	parts := strings.SplitN(text, ":", 4)
	if len(parts) < 2 {
		return "", 0, 0, false
	}
	path = parts[0]
	n, err := strconv.Atoi(parts[1])
	if err != nil || n <= 0 {
		return "", 0, 0, false
	}
	line = n
	if len(parts) >= 3 {
		if c, err := strconv.Atoi(parts[2]); err == nil && c > 0 {
			col = c
		}
	}
	return path, line, col, true
}
