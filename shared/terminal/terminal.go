// Package terminal answers questions about the attached console.
package terminal

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const defaultWidth = 80

// Interactive reports whether stdout is a terminal.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Width returns the stdout column count, or 80 when it cannot be read.
func Width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

// backgroundFromColorFGBG reads the background index from a COLORFGBG value such as
// "15;0" or "15;default;4".
func backgroundFromColorFGBG(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	parts := strings.Split(raw, ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return 0, false
	}
	return bg, true
}

// blue and bright blue in the 16-color palette.
func isBlueIndex(bg int) bool {
	return bg == 4 || bg == 12
}
