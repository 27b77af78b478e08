// internal/util/util.go
package util

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// WriteFile writes data to a file with 0o644 permissions, creating the
// parent directory when it does not exist.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// TruncateRunes truncates a string to a maximum number of runes,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// PadRunes returns text as exactly width runes: right-padded with spaces, or
// cut to width-1 runes plus an ellipsis.
func PadRunes(text string, width int) string {
	if width <= 0 {
		return ""
	}
	n := utf8.RuneCountInString(text)
	if n > width {
		return TruncateRunes(text, width-1)
	}
	return text + strings.Repeat(" ", width-n)
}

// Bar renders pct (0-100) of width as a block bar.
func Bar(pct float64, width int) string {
	if width <= 0 || math.IsNaN(pct) || pct <= 0 {
		return ""
	}
	if pct > 100 {
		pct = 100
	}
	cells := int(math.Round(pct / 100 * float64(width)))
	if cells == 0 {
		cells = 1
	}
	return strings.Repeat("█", cells)
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
