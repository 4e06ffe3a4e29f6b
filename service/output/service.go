// Package output provides a service for rendering results to the console.
package output

import (
	"io"
	"os"

	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/selector"
	"github.com/thirukguru/yolo-workbench/service/storage"
	"github.com/thirukguru/yolo-workbench/shared/jsonoutput"
)

// NewService creates a new output service with the specified format
func NewService(format string) Service {
	return NewServiceWithWriter(format, os.Stdout)
}

// NewServiceWithWriter creates an output service rendering to w.
func NewServiceWithWriter(format string, w io.Writer) Service {
	f := FormatTable
	if format == "json" {
		f = FormatJSON
	}

	return &service{
		format:   f,
		renderer: &realRenderer{w: w},
	}
}

func (s *service) Format() Format {
	return s.format
}

func (s *service) RenderDetection(det model.Detection, sel model.SelectionResult, table selector.Table) error {
	if s.format == FormatJSON {
		return s.renderer.PrintJSON(jsonoutput.DetectionJSON{
			Detection:     det,
			Selection:     sel,
			Compatibility: table.Entries(),
			CPUTag:        table.CPUTag(),
		})
	}
	s.renderer.DrawDetection(det, sel, table)
	return nil
}

func (s *service) RenderSummary(summary model.InstallSummary) error {
	if s.format == FormatJSON {
		return s.renderer.PrintJSON(summary)
	}
	s.renderer.DrawSummary(summary)
	return nil
}

func (s *service) RenderVerification(report model.VerificationReport) error {
	if s.format == FormatJSON {
		return s.renderer.PrintJSON(report)
	}
	s.renderer.DrawVerification(report)
	return nil
}

func (s *service) RenderManifest(rewrite model.ManifestRewrite) error {
	if s.format == FormatJSON {
		return s.renderer.PrintJSON(rewrite)
	}
	s.renderer.DrawManifest(rewrite)
	return nil
}

func (s *service) RenderExports(results []model.ExportResult) error {
	if s.format == FormatJSON {
		return s.renderer.PrintJSON(results)
	}
	s.renderer.DrawExports(results)
	return nil
}

func (s *service) RenderInstallHistory(runs []storage.InstallRun) error {
	if s.format == FormatJSON {
		return s.renderer.PrintJSON(runs)
	}
	s.renderer.DrawInstallHistory(runs)
	return nil
}

func (s *service) RenderExportHistory(runs []storage.ExportRun) error {
	if s.format == FormatJSON {
		return s.renderer.PrintJSON(runs)
	}
	s.renderer.DrawExportHistory(runs)
	return nil
}
