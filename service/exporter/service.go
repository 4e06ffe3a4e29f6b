// Package exporter converts every project's trained weights to a mobile inference format.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/runner"
	"github.com/thirukguru/yolo-workbench/shared/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ArtifactPrefix marks the line carrying the exported file path; ultralytics logs
// freely around it.
const ArtifactPrefix = "EXPORTED_ARTIFACT="

const exportScript = `import sys
from ultralytics import YOLO
path = YOLO(sys.argv[1]).export(format=sys.argv[2])
print("` + ArtifactPrefix + `" + str(path), flush=True)
`

// NewService creates an exporter writing status lines to out.
func NewService(r runner.Runner, opts Options, out io.Writer) Service {
	if opts.ProjectsDir == "" {
		opts.ProjectsDir = DefaultProjectsDir
	}
	if opts.ExportDir == "" {
		opts.ExportDir = DefaultExportDir
	}
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}
	if out == nil {
		out = os.Stdout
	}
	return &service{runner: r, opts: opts, out: out}
}

// ExportAll exports <projects>/<name>/weights/best.pt for every project and moves each
// artifact to <exportDir>/<name>.<ext>. Per-project failures are recorded in the results.
func (s *service) ExportAll(ctx context.Context) ([]model.ExportResult, error) {
	projectsDir, err := filepath.Abs(s.opts.ProjectsDir)
	if err != nil {
		return nil, err
	}
	exportDir, err := filepath.Abs(s.opts.ExportDir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects in %s: %w", projectsDir, err)
	}
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}

	s.printf("🔍 Looking for models in: %s\n", projectsDir)
	s.printf("📁 Saving .%s models in: %s\n", s.opts.Format, exportDir)

	var projects []string
	for _, e := range entries {
		if e.IsDir() {
			projects = append(projects, e.Name())
		}
	}
	sort.Strings(projects)

	results := make([]model.ExportResult, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Parallel)
	for i, name := range projects {
		g.Go(func() error {
			results[i] = s.exportProject(gctx, projectsDir, exportDir, name)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (s *service) exportProject(ctx context.Context, projectsDir, exportDir, name string) model.ExportResult {
	weights := filepath.Join(projectsDir, name, weightsSubpath, weightsFile)
	res := model.ExportResult{Project: name, Weights: weights}

	if _, err := os.Stat(weights); err != nil {
		s.printf("⚠️  '%s' not found in: %s\n", weightsFile, name)
		res.Status = model.ExportMissing
		return res
	}

	s.printf("📦 Exporting: %s\n", weights)
	artifact, err := s.runExport(ctx, weights)
	if err == nil {
		res.Artifact = filepath.Join(exportDir, name+artifactExt(artifact, s.opts.Format))
		err = moveFile(artifact, res.Artifact)
	}
	if err != nil {
		s.printf("❌ Error exporting %s: %v\n", weights, err)
		logger.L().Warn("export failed", zap.String("project", name), zap.Error(err))
		res.Status = model.ExportFailed
		res.Artifact = ""
		res.Error = err.Error()
		return res
	}

	s.printf("✅ Saved as: %s\n", res.Artifact)
	res.Status = model.ExportExported
	return res
}

func (s *service) runExport(ctx context.Context, weights string) (string, error) {
	out, err := s.runner.Run(ctx, s.opts.Python, "-c", exportScript, weights, s.opts.Format)
	if err != nil {
		return "", err
	}
	if out.ExitCode != 0 {
		last := runner.LastLine(out.Output)
		if last == "" {
			last = fmt.Sprintf("exit code %d", out.ExitCode)
		}
		return "", errors.New(last)
	}

	artifact, ok := artifactPath(out.Output)
	if !ok {
		return "", errors.New("exporter printed no artifact path")
	}
	// the child runs in our working directory
	return filepath.Abs(artifact)
}

// artifactPath returns the path on the last marked line of output.
func artifactPath(output string) (string, bool) {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if p, ok := strings.CutPrefix(line, ArtifactPrefix); ok && strings.TrimSpace(p) != "" {
			return strings.TrimSpace(p), true
		}
	}
	return "", false
}

func artifactExt(artifact, format string) string {
	if ext := filepath.Ext(artifact); ext != "" {
		return ext
	}
	return "." + strings.TrimPrefix(format, ".")
}

// moveFile renames src to dst, copying across filesystems when rename cannot.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile copies src to dst. A failed copy leaves no partial dst behind.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (s *service) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
