// Package installer installs the framework build matching the local GPU driver,
// then the pinned project requirements.
package installer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/runner"
	"github.com/thirukguru/yolo-workbench/service/selector"
	"github.com/thirukguru/yolo-workbench/shared/logger"
	"go.uber.org/zap"
)

const pythonVersionScript = "import sys; print(sys.version.split()[0])"

// Interpreters from this version on may lack complete CUDA wheels.
var pythonWarnFrom = model.DriverVersion{Major: 3, Minor: 12}

// NewService creates a new installer.
func NewService(deps Deps) Service {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	return &service{Deps: deps}
}

// Detect runs driver detection and build selection without installing anything.
func (s *service) Detect(ctx context.Context) (model.Detection, model.SelectionResult) {
	det := s.Driver.DetectDriverVersion(ctx)
	return det, s.Table.Select(det.Version)
}

// Run executes detect, select, uninstall, install, verify and the requirements step.
// Failing pip commands are reported in the summary; they are not errors.
func (s *service) Run(ctx context.Context, opts Options) (model.InstallSummary, error) {
	if len(opts.Packages) == 0 {
		opts.Packages = DefaultPackages
	}

	summary := model.InstallSummary{
		RunUUID:   uuid.NewString(),
		StartedAt: time.Now().UTC(),
		DryRun:    opts.DryRun,
	}

	s.printf("%s\n", strings.Repeat("=", 60))
	summary.Detection, summary.Selection = s.Detect(ctx)
	logger.L().Debug("build selected",
		zap.String("status", string(summary.Detection.Status)),
		zap.String("tag", summary.Selection.Tag))

	s.printf("🚀 Installing %s\n", strings.Join(opts.Packages, ", "))
	s.printf("• CUDA (driver) detected: %s\n", summary.Selection.DetectedLabel())
	if summary.Detection.Reason != "" {
		s.printf("  (%s)\n", summary.Detection.Reason)
	}

	summary.PythonVersion, summary.PythonWarning = s.pythonVersion(ctx, opts.Python)
	s.printf("• Python: %s\n", summary.PythonVersion)
	if summary.PythonWarning {
		s.printf("⚠️  Warning: Python %d.%d+ may not have complete CUDA wheels. "+
			"If GPU detection fails after installing, use Python 3.10/3.11.\n",
			pythonWarnFrom.Major, pythonWarnFrom.Minor)
	}

	uninstall := append([]string{"-m", "pip", "uninstall", "-y"}, opts.Packages...)
	summary.UninstallExit = s.exec(ctx, opts, opts.Python, uninstall...)

	install := append([]string{"-m", "pip", "install"}, opts.Packages...)
	if s.Table.IsCPU(summary.Selection.Tag) {
		s.printf("➡️  Installing CPU build (no CUDA).\n")
	} else {
		summary.IndexURL = s.Index.IndexURL(summary.Selection.Tag)
		s.printf("➡️  Installing CUDA build: %s (driver %s)\n", summary.Selection.Tag, summary.Selection.DetectedLabel())
		if opts.CheckIndex {
			if err := s.Index.Check(ctx, summary.Selection.Tag); err != nil {
				summary.IndexWarning = err.Error()
				s.printf("⚠️  %s\n", err)
			}
		}
		install = append(install, "--index-url", summary.IndexURL)
	}
	summary.InstallExit = s.exec(ctx, opts, opts.Python, install...)
	if summary.InstallExit != 0 {
		s.printf("❌ Framework installation exited with code %d\n", summary.InstallExit)
	}

	summary.Verification = s.Verifier.VerifyInstallation(ctx)
	switch {
	case !summary.Verification.Loaded:
		s.printf("❌ Error importing the framework after installation: %s\n", summary.Verification.LoadError)
	case !summary.Verification.GPUAvailable && !s.Table.IsCPU(summary.Selection.Tag):
		s.printf("⚠️  GPU not detected by the framework. On Python 3.12+, consider Python 3.10/3.11 "+
			"and reinstalling with %s.\n", summary.Selection.Tag)
	}

	if !opts.SkipRequirements {
		s.printf("\n📦 Installing packages from %s…\n", opts.Requirements)
		code := s.exec(ctx, opts, opts.Python, "-m", "pip", "install", "-r", opts.Requirements)
		summary.RequirementsExit = &code
		if code == 0 {
			s.printf("✅ Dependencies installed.\n")
		} else {
			s.printf("❌ Error installing %s\n", opts.Requirements)
		}
	}

	s.printf("Summary → CUDA driver: %s | wheel: %s\n", summary.Selection.DetectedLabel(), summary.Selection.Tag)
	s.printf("%s\n", strings.Repeat("=", 60))

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("install run interrupted: %w", err)
	}
	return summary, nil
}

// exec streams a pip command, or only prints it in dry-run mode.
func (s *service) exec(ctx context.Context, opts Options, name string, args ...string) int {
	if opts.DryRun {
		s.printf("> (dry-run) %s\n", runner.FormatCommand(name, args...))
		return 0
	}
	code, err := s.Runner.Stream(ctx, name, args...)
	if err != nil {
		s.printf("❌ %s\n", err)
		return -1
	}
	return code
}

func (s *service) pythonVersion(ctx context.Context, python string) (string, bool) {
	res, err := s.Runner.Run(ctx, python, "-c", pythonVersionScript)
	if err != nil || res.ExitCode != 0 {
		logger.L().Warn("unable to query interpreter version", zap.String("python", python), zap.Error(err))
		return "unknown", false
	}

	raw := runner.LastLine(res.Output)
	v, err := selector.ParseVersion(raw)
	if err != nil {
		logger.L().Warn("unexpected interpreter version", zap.String("raw", raw), zap.Error(err))
		return raw, false
	}
	return raw, v.AtLeast(pythonWarnFrom)
}

func (s *service) printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}
