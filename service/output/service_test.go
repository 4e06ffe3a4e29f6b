package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/selector"
)

func TestRenderDetectionTable(t *testing.T) {
	var buf bytes.Buffer
	svc := NewServiceWithWriter("table", &buf)
	assert.Equal(t, FormatTable, svc.Format())

	d := model.DriverVersion{Major: 12, Minor: 9}
	err := svc.RenderDetection(
		model.Detection{Version: &d, Raw: "12.9", Status: model.DetectionDetected},
		model.SelectionResult{Detected: &d, Tag: "cu128"},
		selector.DefaultTable(),
	)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "12.9")
	assert.Contains(t, out, "cu128")
	assert.Contains(t, out, "cu118")
	assert.Contains(t, out, "(no match)")
}

func TestRenderDetectionJSON(t *testing.T) {
	var buf bytes.Buffer
	svc := NewServiceWithWriter("json", &buf)

	err := svc.RenderDetection(
		model.Detection{Status: model.DetectionToolUnavailable, Reason: "nvidia-smi not found"},
		model.SelectionResult{Tag: "cpu"},
		selector.DefaultTable(),
	)
	require.NoError(t, err)

	var got struct {
		Detection struct {
			Status string `json:"status"`
		} `json:"detection"`
		Selection struct {
			Detected *model.DriverVersion `json:"detected"`
			Tag      string               `json:"tag"`
		} `json:"selection"`
		Compatibility []model.CompatibilityEntry `json:"compatibility"`
		CPUTag        string                     `json:"cpu_tag"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "tool-unavailable", got.Detection.Status)
	assert.Nil(t, got.Selection.Detected)
	assert.Equal(t, "cpu", got.Selection.Tag)
	assert.Len(t, got.Compatibility, 3)
	assert.Equal(t, "cpu", got.CPUTag)
}

func TestRenderSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	reqExit := 1
	err := NewServiceWithWriter("table", &buf).RenderSummary(model.InstallSummary{
		RunUUID:          "run-1",
		Selection:        model.SelectionResult{Tag: "cpu"},
		PythonVersion:    "3.12.1",
		RequirementsExit: &reqExit,
		Verification:     model.VerificationReport{LoadError: "No module named 'torch'"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "not available")
	assert.Contains(t, out, "3.12.1")
	assert.Contains(t, out, "No module named 'torch'")
}

func TestRenderExports(t *testing.T) {
	var buf bytes.Buffer
	svc := NewServiceWithWriter("table", &buf)

	require.NoError(t, svc.RenderExports(nil))
	assert.Contains(t, buf.String(), "No projects found")

	buf.Reset()
	require.NoError(t, svc.RenderExports([]model.ExportResult{
		{Project: "helmets", Status: model.ExportExported, Artifact: "/e/helmets.tflite"},
		{Project: "empty", Status: model.ExportMissing},
	}))
	assert.Contains(t, buf.String(), "helmets.tflite")
	assert.Contains(t, buf.String(), "missing")
}

func TestRenderManifestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewServiceWithWriter("json", &buf).RenderManifest(model.ManifestRewrite{
		Destination: "/d/data.yaml", Train: "/d/train/images", Val: "/d/valid/images", Test: "/d/test/images",
	}))

	var got model.ManifestRewrite
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "/d/valid/images", got.Val)
}
