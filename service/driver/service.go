// Package driver queries the local GPU driver for its supported CUDA version.
package driver

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/runner"
	"github.com/thirukguru/yolo-workbench/service/selector"
	"github.com/thirukguru/yolo-workbench/shared/logger"
	"go.uber.org/zap"
)

var versionToken = regexp.MustCompile(`\d+\.\d+(?:\.\d+)*`)

// NewService creates a driver detection service. Empty command or marker fall back
// to the nvidia-smi defaults.
func NewService(r runner.Runner, command, marker string) Service {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	if strings.TrimSpace(marker) == "" {
		marker = DefaultMarker
	}
	return &service{runner: r, command: command, marker: marker}
}

// DetectDriverVersion never fails: every tool problem yields a Detection with a nil Version.
func (s *service) DetectDriverVersion(ctx context.Context) model.Detection {
	if _, err := s.runner.LookPath(s.command); err != nil {
		logger.L().Debug("diagnostic tool not found", zap.String("cmd", s.command), zap.Error(err))
		return model.Detection{
			Status: model.DetectionToolUnavailable,
			Reason: fmt.Sprintf("%s not found", s.command),
		}
	}

	res, err := s.runner.Run(ctx, s.command)
	if err != nil {
		logger.L().Warn("diagnostic tool failed to start", zap.String("cmd", s.command), zap.Error(err))
		return model.Detection{Status: model.DetectionToolFailed, Reason: err.Error()}
	}
	if res.ExitCode != 0 {
		return model.Detection{
			Status: model.DetectionToolFailed,
			Reason: fmt.Sprintf("%s exited with code %d", s.command, res.ExitCode),
		}
	}

	raw, ok := ExtractVersion(res.Output, s.marker)
	if !ok {
		return model.Detection{
			Status: model.DetectionMarkerNotFound,
			Reason: fmt.Sprintf("no %q line in %s output", s.marker, s.command),
		}
	}

	v, err := selector.ParseVersion(raw)
	if err != nil {
		logger.L().Warn("unusable driver version", zap.String("raw", raw), zap.Error(err))
		return model.Detection{
			Raw:    raw,
			Status: model.DetectionMarkerNotFound,
			Reason: fmt.Sprintf("unusable %q value in %s output: %v", s.marker, s.command, err),
		}
	}
	return model.Detection{Version: &v, Raw: raw, Status: model.DetectionDetected}
}

// ExtractVersion returns the first version-like token following marker on the first
// line that has one.
func ExtractVersion(output, marker string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := sc.Text()
		idx := strings.Index(line, marker)
		if idx < 0 {
			continue
		}
		if tok := versionToken.FindString(line[idx+len(marker):]); tok != "" {
			return tok, true
		}
	}
	return "", false
}
