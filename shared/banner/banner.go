// Package banner draws the application title.
package banner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/thirukguru/yolo-workbench/shared/terminal"
)

type bannerColor int

const (
	bannerNvidiaGreen bannerColor = iota
	bannerTorchOrange
	bannerTensorFlowOrange
	bannerUltralyticsBlue
	bannerAndroidGreen
	bannerAmazonOrange
)

var bannerTitleColors = []string{
	"\x1b[38;2;118;185;0m",  // NVIDIA Green
	"\x1b[38;2;238;76;44m",  // PyTorch Orange
	"\x1b[38;2;255;111;0m",  // TensorFlow Orange
	"\x1b[38;2;4;42;255m",   // Ultralytics Blue
	"\x1b[38;2;61;220;132m", // Android Green
	"\x1b[38;2;255;153;0m",  // Amazon Orange
}

var bannerTitleColorNames = []string{
	"NvidiaGreen",
	"TorchOrange",
	"TensorFlowOrange",
	"UltralyticsBlue",
	"AndroidGreen",
	"AmazonOrange",
}

const (
	bannerTitleColorDefault        = bannerNvidiaGreen
	bannerTitleColorBlueBackground = bannerTorchOrange
	bannerTitleColorEnv            = "YOLO_WORKBENCH_BANNER_COLOR"
)

var titleLines = []string{
	"██╗   ██╗  ██████╗  ██╗       ██████╗       ██╗    ██╗  ██████╗  ██████╗  ██╗  ██╗ ██████╗  ███████╗ ███╗   ██╗  ██████╗ ██╗  ██╗",
	"╚██╗ ██╔╝ ██╔═══██╗ ██║      ██╔═══██╗      ██║    ██║ ██╔═══██╗ ██╔══██╗ ██║ ██╔╝ ██╔══██╗ ██╔════╝ ████╗  ██║ ██╔════╝ ██║  ██║",
	" ╚████╔╝  ██║   ██║ ██║      ██║   ██║      ██║ █╗ ██║ ██║   ██║ ██████╔╝ █████╔╝  ██████╔╝ █████╗   ██╔██╗ ██║ ██║      ███████║",
	"  ╚██╔╝   ██║   ██║ ██║      ██║   ██║      ██║███╗██║ ██║   ██║ ██╔══██╗ ██╔═██╗  ██╔══██╗ ██╔══╝   ██║╚██╗██║ ██║      ██╔══██║",
	"   ██║    ╚██████╔╝ ███████╗ ╚██████╔╝      ╚███╔███╔╝ ╚██████╔╝ ██║  ██║ ██║  ██╗ ██████╔╝ ███████╗ ██║ ╚████║ ╚██████╗ ██║  ██║",
	"   ╚═╝     ╚═════╝  ╚══════╝  ╚═════╝        ╚══╝╚══╝   ╚═════╝  ╚═╝  ╚═╝ ╚═╝  ╚═╝ ╚═════╝  ╚══════╝ ╚═╝  ╚═══╝  ╚═════╝ ╚═╝  ╚═╝",
}

func printCenteredLines(w io.Writer, lines []string, width int) {
	for _, line := range lines {
		pad := 0

		if n := utf8.RuneCountInString(line); width > n {
			pad = (width - n) / 2
		}

		if pad > 0 {
			fmt.Fprint(w, strings.Repeat(" ", pad))
		}

		fmt.Fprintln(w, line)
	}
}

func bannerTitleColor() bannerColor {
	if color, ok := bannerTitleColorFromEnv(); ok {
		return color
	}

	if terminal.BlueBackground() {
		return bannerTitleColorBlueBackground
	}

	return bannerTitleColorDefault
}

func bannerTitleColorFromEnv() (bannerColor, bool) {
	raw := strings.TrimSpace(os.Getenv(bannerTitleColorEnv))

	if raw == "" {
		return 0, false
	}

	for idx, color := range bannerTitleColors {
		name := bannerTitleColorName(bannerColor(idx))
		if strings.EqualFold(raw, name) || raw == color {
			return bannerColor(idx), true
		}
	}

	return 0, false
}

func bannerTitleColorName(color bannerColor) string {
	if color < 0 || int(color) >= len(bannerTitleColorNames) {
		return ""
	}

	return bannerTitleColorNames[int(color)]
}

// DrawBannerTitle prints the application title banner to stdout.
func DrawBannerTitle() {
	terminal.EnableANSI()

	fmt.Print(bannerTitleColors[bannerTitleColor()])
	printCenteredLines(os.Stdout, titleLines, terminal.Width())
	fmt.Print("\x1b[0m")
}
