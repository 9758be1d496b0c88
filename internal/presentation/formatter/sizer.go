package formatter

import (
	"os"

	"github.com/pgperffarm/farmplot/internal/util"
	"golang.org/x/term"
)

// Table width bounds
const (
	minTableWidth      = 60
	fallbackTableWidth = 100
)

// TerminalWidth returns the usable width of stdout, or a fallback when
// stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minTableWidth {
		width = fallbackTableWidth
	}
	util.LogDebugf("TerminalWidth %d", width)
	return width
}
