// Package tables renders workbench results as terminal tables.
package tables

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/storage"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func yesNo(b bool) string {
	if b {
		return text.FgGreen.Sprint("yes")
	}
	return text.FgRed.Sprint("no")
}

func exitCell(code int) string {
	if code == 0 {
		return text.FgGreen.Sprint("0")
	}
	return text.FgRed.Sprint(strconv.Itoa(code))
}

// DrawDetection renders the driver probe, the compatibility table and the selected tag.
func DrawDetection(w io.Writer, det model.Detection, sel model.SelectionResult, entries []model.CompatibilityEntry, cpuTag string) {
	t := newTable(w, "🔎 GPU Driver")
	t.AppendRows([]table.Row{
		{"Status", string(det.Status)},
		{"CUDA (driver)", sel.DetectedLabel()},
	})
	if det.Reason != "" {
		t.AppendRow(table.Row{"Reason", det.Reason})
	}
	t.AppendRow(table.Row{"Selected build", text.Bold.Sprint(sel.Tag)})
	t.Render()

	c := newTable(w, "Compatibility")
	c.AppendHeader(table.Row{"Minimum driver", "Build tag", ""})
	for _, e := range entries {
		mark := ""
		if e.Tag == sel.Tag {
			mark = "◀"
		}
		c.AppendRow(table.Row{e.Minimum.String(), e.Tag, mark})
	}
	mark := ""
	if sel.Tag == cpuTag {
		mark = "◀"
	}
	c.AppendRow(table.Row{"(no match)", cpuTag, mark})
	c.Render()
}

// DrawVerification renders what the installed framework reports.
func DrawVerification(w io.Writer, r model.VerificationReport) {
	t := newTable(w, "🧪 Verification")
	t.AppendRow(table.Row{"Loaded", yesNo(r.Loaded)})
	if !r.Loaded {
		t.AppendRow(table.Row{"Error", text.FgRed.Sprint(r.LoadError)})
		t.Render()
		return
	}
	toolkit := r.ToolkitVersion
	if toolkit == "" {
		toolkit = "-"
	}
	t.AppendRows([]table.Row{
		{"Framework", r.FrameworkVersion},
		{"Toolkit", toolkit},
		{"GPU available", yesNo(r.GPUAvailable)},
		{"GPUs detected", r.DeviceCount},
	})
	if r.DeviceCount > 0 {
		t.AppendRow(table.Row{"GPU 0", r.Device0Name})
	}
	t.Render()
}

// DrawSummary renders an install run.
func DrawSummary(w io.Writer, s model.InstallSummary) {
	t := newTable(w, "📦 Install Summary")
	t.AppendRows([]table.Row{
		{"Run", s.RunUUID},
		{"CUDA (driver)", s.Selection.DetectedLabel()},
		{"Build", s.Selection.Tag},
		{"Python", s.PythonVersion},
	})
	if s.IndexURL != "" {
		t.AppendRow(table.Row{"Index", s.IndexURL})
	}
	if s.DryRun {
		t.AppendRow(table.Row{"Mode", text.FgYellow.Sprint("dry-run")})
	}
	t.AppendRow(table.Row{"Framework install", exitCell(s.InstallExit)})
	if s.RequirementsExit != nil {
		t.AppendRow(table.Row{"Requirements", exitCell(*s.RequirementsExit)})
	} else {
		t.AppendRow(table.Row{"Requirements", "skipped"})
	}
	t.Render()

	DrawVerification(w, s.Verification)
}

// DrawManifest renders a rewritten dataset manifest.
func DrawManifest(w io.Writer, m model.ManifestRewrite) {
	fmt.Fprintf(w, "✅ Paths updated in: %s\n", m.Destination)
	t := newTable(w, "📂 New paths")
	t.AppendRows([]table.Row{
		{"train", m.Train},
		{"val", m.Val},
		{"test", m.Test},
	})
	t.Render()
}

// DrawExports renders the outcome of an export run.
func DrawExports(w io.Writer, results []model.ExportResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No projects found")
		return
	}
	t := newTable(w, "📱 Exports")
	t.AppendHeader(table.Row{"Project", "Status", "Artifact", "Remote", "Error"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Project, statusCell(r.Status), r.Artifact, r.Remote, r.Error})
	}
	t.Render()
}

func statusCell(s model.ExportStatus) string {
	switch s {
	case model.ExportExported:
		return text.FgGreen.Sprint(string(s))
	case model.ExportMissing:
		return text.FgYellow.Sprint(string(s))
	default:
		return text.FgRed.Sprint(string(s))
	}
}

// DrawInstallHistory renders stored install runs.
func DrawInstallHistory(w io.Writer, runs []storage.InstallRun) {
	t := newTable(w, "")
	t.AppendHeader(table.Row{"ID", "Time", "Driver", "Build", "Python", "Install", "Requirements", "Loaded", "GPU"})
	for _, r := range runs {
		req := "skipped"
		if r.RequirementsExit != nil {
			req = exitCell(*r.RequirementsExit)
		}
		driver := r.DetectedDriver
		if driver == "" {
			driver = r.DetectionStatus
		}
		t.AppendRow(table.Row{
			r.RunID, r.RunTimestamp.Format("2006-01-02 15:04:05"), driver, r.SelectedTag, r.PythonVersion,
			exitCell(r.InstallExit), req, yesNo(r.FrameworkLoaded), yesNo(r.GPUAvailable),
		})
	}
	t.Render()
}

// DrawExportHistory renders stored export results.
func DrawExportHistory(w io.Writer, runs []storage.ExportRun) {
	t := newTable(w, "")
	t.AppendHeader(table.Row{"Time", "Run", "Project", "Status", "Artifact", "Remote"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.RunTimestamp.Format("2006-01-02 15:04:05"), r.RunUUID, r.Project,
			statusCell(model.ExportStatus(r.Status)), r.Artifact, r.Remote,
		})
	}
	t.Render()
}
