package util

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
)

// GetDisplayWidth calculates the display width of a string in terminal cells
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads s with spaces up to width display cells.
func PadString(s string, width int, leftAlign bool) string {
	w := GetDisplayWidth(s)
	if w >= width {
		return s
	}
	padding := strings.Repeat(" ", width-w)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// Truncate shortens s to at most width display cells, marking the cut with "…".
func Truncate(s string, width int) string {
	if GetDisplayWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// ColorSwatch renders a 24-bit ANSI colour block for a "#rrggbb" colour.
// Malformed colours render as plain spaces.
func ColorSwatch(hex string) string {
	if len(hex) != 7 || hex[0] != '#' {
		return "  "
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return "  "
	}
	r, g, b := (v>>16)&0xff, (v>>8)&0xff, v&0xff
	return "\033[48;2;" + strconv.FormatUint(r, 10) + ";" + strconv.FormatUint(g, 10) + ";" +
		strconv.FormatUint(b, 10) + "m  " + ColorReset
}
