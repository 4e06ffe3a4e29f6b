// Package spinner shows a progress spinner on interactive terminals.
package spinner

import (
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/thirukguru/yolo-workbench/shared/terminal"
)

var (
	mu     sync.Mutex
	loader *spinner.Spinner
)

// Enabled reports whether stdout is a terminal the spinner can draw on.
func Enabled() bool {
	return terminal.Interactive()
}

// StartSpinner starts the CLI loading spinner with the given suffix.
func StartSpinner(suffix string) {
	mu.Lock()
	defer mu.Unlock()

	if loader != nil {
		loader.Suffix = " " + suffix
		return
	}

	loader = spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	loader.Color("yellow") //nolint:errcheck
	loader.Suffix = " " + suffix
	loader.Start()
}

// StopSpinner stops the CLI loading spinner.
func StopSpinner() {
	mu.Lock()
	defer mu.Unlock()

	if loader != nil {
		loader.Stop()
		loader = nil
	}
}
