//go:build windows

package terminal

import (
	"os"

	"golang.org/x/sys/windows"
)

const (
	enableVirtualTerminalProcessing = 0x0004
	backgroundBlue                  = 0x0010
)

func stdout() windows.Handle {
	return windows.Handle(os.Stdout.Fd())
}

// EnableANSI turns on escape sequence processing for the console.
func EnableANSI() {
	var mode uint32
	if err := windows.GetConsoleMode(stdout(), &mode); err != nil {
		return
	}
	_ = windows.SetConsoleMode(stdout(), mode|enableVirtualTerminalProcessing)
}

// BlueBackground reports whether the console background attribute has blue set.
// COLORFGBG wins when a terminal emulator exports it.
func BlueBackground() bool {
	if bg, ok := backgroundFromColorFGBG(os.Getenv("COLORFGBG")); ok {
		return isBlueIndex(bg)
	}

	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(stdout(), &info); err != nil {
		return false
	}
	return info.Attributes&backgroundBlue != 0
}
