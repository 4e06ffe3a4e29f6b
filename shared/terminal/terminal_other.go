//go:build !windows

package terminal

import "os"

// EnableANSI does nothing; Unix terminals interpret escape sequences already.
func EnableANSI() {}

// BlueBackground reports a blue background as advertised by COLORFGBG.
func BlueBackground() bool {
	bg, ok := backgroundFromColorFGBG(os.Getenv("COLORFGBG"))
	return ok && isBlueIndex(bg)
}
