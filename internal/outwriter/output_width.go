package outwriter

import (
	"os"

	"github.com/huangsam/marquee/internal/contract"
	"golang.org/x/term"
)

const (
	fallbackTermWidth = 80 // CI and pipes report no size

	// fixedColumnsWidth covers the Rank, Credits and ID columns with borders and padding.
	fixedColumnsWidth = 40

	minNameWidth = 12
	maxNameWidth = 50
)

// terminalWidth returns the width override, the detected stdout width, or the fallback.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallbackTermWidth
}

// GetMaxTableNameWidth returns how many cells the Name column may use,
// clamped to [minNameWidth, maxNameWidth].
func GetMaxTableNameWidth(cfg *contract.Config) int {
	return min(max(terminalWidth(cfg)-fixedColumnsWidth, minNameWidth), maxNameWidth)
}
