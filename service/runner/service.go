// Package runner executes external commands synchronously.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thirukguru/yolo-workbench/shared/logger"
	"go.uber.org/zap"
)

// NewService creates a runner that streams to the process stdout/stderr and echoes
// each streamed command line.
func NewService() Runner {
	return NewServiceWithWriters(os.Stdout, os.Stderr, true)
}

// NewServiceWithWriters creates a runner bound to the given writers.
func NewServiceWithWriters(stdout, stderr io.Writer, echo bool) Runner {
	return &service{stdout: stdout, stderr: stderr, echo: echo}
}

func (s *service) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (s *service) Run(ctx context.Context, name string, args ...string) (Result, error) {
	logger.L().Debug("run", zap.String("cmd", name), zap.Strings("args", args))

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	code, err := exitCode(err)
	if err != nil {
		return Result{ExitCode: -1, Output: buf.String()}, fmt.Errorf("failed to start %s: %w", name, err)
	}

	logger.L().Debug("run finished", zap.String("cmd", name), zap.Int("exit", code))
	return Result{ExitCode: code, Output: buf.String()}, nil
}

func (s *service) Stream(ctx context.Context, name string, args ...string) (int, error) {
	if s.echo {
		fmt.Fprintln(s.stdout, ">", FormatCommand(name, args...))
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	code, err := exitCode(cmd.Run())
	if err != nil {
		return -1, fmt.Errorf("failed to start %s: %w", name, err)
	}
	logger.L().Debug("stream finished", zap.String("cmd", name), zap.Int("exit", code))
	return code, nil
}

// exitCode turns an *exec.ExitError into its code. Any other error is returned.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// FormatCommand renders a command line the way it would be typed.
func FormatCommand(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	parts = append(parts, args...)
	return strings.Join(parts, " ")
}

// LastLine returns the last non-empty line of output.
func LastLine(output string) string {
	lines := strings.Split(strings.TrimRight(output, "\r\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
