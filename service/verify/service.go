// Package verify probes the installed ML framework in a child interpreter.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/runner"
	"github.com/thirukguru/yolo-workbench/shared/logger"
	"go.uber.org/zap"
)

const probeTemplate = `import json
import %[1]s as fw
info = {
    "version": str(fw.__version__),
    "cuda": fw.version.cuda,
    "available": bool(fw.cuda.is_available()),
    "count": int(fw.cuda.device_count()),
}
if info["count"] > 0:
    info["device0"] = fw.cuda.get_device_name(0)
print(json.dumps(info))
`

// NewService creates a verification service running probes with python.
func NewService(r runner.Runner, python, module string) Service {
	if strings.TrimSpace(module) == "" {
		module = DefaultModule
	}
	return &service{runner: r, python: python, module: module}
}

// ProbeScript returns the inline script passed to the interpreter.
func ProbeScript(module string) string {
	return fmt.Sprintf(probeTemplate, module)
}

// VerifyInstallation never fails: a framework that cannot be loaded yields a report
// with Loaded=false and the captured message.
func (s *service) VerifyInstallation(ctx context.Context) model.VerificationReport {
	res, err := s.runner.Run(ctx, s.python, "-c", ProbeScript(s.module))
	if err != nil {
		logger.L().Warn("verification probe failed to start", zap.Error(err))
		return model.VerificationReport{LoadError: err.Error()}
	}
	if res.ExitCode != 0 {
		msg := runner.LastLine(res.Output)
		if msg == "" {
			msg = fmt.Sprintf("%s exited with code %d", s.python, res.ExitCode)
		}
		return model.VerificationReport{LoadError: msg}
	}

	out, err := decodeReport(res.Output)
	if err != nil {
		logger.L().Warn("unparseable verification output", zap.String("output", res.Output), zap.Error(err))
		return model.VerificationReport{LoadError: fmt.Sprintf("unexpected probe output: %v", err)}
	}

	report := model.VerificationReport{
		Loaded:           true,
		FrameworkVersion: out.Version,
		GPUAvailable:     out.Available,
		DeviceCount:      out.Count,
		Device0Name:      out.Device0,
	}
	if out.Cuda != nil {
		report.ToolkitVersion = *out.Cuda
	}
	return report
}

// decodeReport takes the last line holding a JSON object; warnings printed to stderr
// may land on either side of it.
func decodeReport(output string) (probeOutput, error) {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var out probeOutput
		if err := json.Unmarshal([]byte(line), &out); err == nil {
			return out, nil
		}
	}
	return probeOutput{}, errors.New("no JSON report line")
}
