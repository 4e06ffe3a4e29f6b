package output

import (
	"io"

	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/selector"
	"github.com/thirukguru/yolo-workbench/service/storage"
	"github.com/thirukguru/yolo-workbench/shared/jsonoutput"
	"github.com/thirukguru/yolo-workbench/shared/tables"
)

// Format represents the output format type
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Renderer defines the interface for drawing tables
type Renderer interface {
	DrawDetection(det model.Detection, sel model.SelectionResult, table selector.Table)
	DrawSummary(summary model.InstallSummary)
	DrawVerification(report model.VerificationReport)
	DrawManifest(rewrite model.ManifestRewrite)
	DrawExports(results []model.ExportResult)
	DrawInstallHistory(runs []storage.InstallRun)
	DrawExportHistory(runs []storage.ExportRun)
	PrintJSON(v any) error
}

type realRenderer struct {
	w io.Writer
}

func (r *realRenderer) DrawDetection(det model.Detection, sel model.SelectionResult, table selector.Table) {
	tables.DrawDetection(r.w, det, sel, table.Entries(), table.CPUTag())
}

func (r *realRenderer) DrawSummary(summary model.InstallSummary) {
	tables.DrawSummary(r.w, summary)
}

func (r *realRenderer) DrawVerification(report model.VerificationReport) {
	tables.DrawVerification(r.w, report)
}

func (r *realRenderer) DrawManifest(rewrite model.ManifestRewrite) {
	tables.DrawManifest(r.w, rewrite)
}

func (r *realRenderer) DrawExports(results []model.ExportResult) {
	tables.DrawExports(r.w, results)
}

func (r *realRenderer) DrawInstallHistory(runs []storage.InstallRun) {
	tables.DrawInstallHistory(r.w, runs)
}

func (r *realRenderer) DrawExportHistory(runs []storage.ExportRun) {
	tables.DrawExportHistory(r.w, runs)
}

func (r *realRenderer) PrintJSON(v any) error {
	return jsonoutput.Print(r.w, v)
}

// service is the internal implementation
type service struct {
	format   Format
	renderer Renderer
}

// Service defines the interface for output operations
type Service interface {
	Format() Format
	RenderDetection(det model.Detection, sel model.SelectionResult, table selector.Table) error
	RenderSummary(summary model.InstallSummary) error
	RenderVerification(report model.VerificationReport) error
	RenderManifest(rewrite model.ManifestRewrite) error
	RenderExports(results []model.ExportResult) error
	RenderInstallHistory(runs []storage.InstallRun) error
	RenderExportHistory(runs []storage.ExportRun) error
}
