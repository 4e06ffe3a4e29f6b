package runner

import (
	"context"
	"io"
)

// Result is the exit code and captured combined output of a finished command.
type Result struct {
	ExitCode int
	Output   string
}

// Runner is the interface for invoking external commands.
type Runner interface {
	LookPath(name string) (string, error)
	// Run captures output. A non-zero exit is reported in Result, not as an error.
	Run(ctx context.Context, name string, args ...string) (Result, error)
	// Stream forwards output to the configured writers and returns the exit code.
	Stream(ctx context.Context, name string, args ...string) (int, error)
}

type service struct {
	stdout io.Writer
	stderr io.Writer
	echo   bool
}
