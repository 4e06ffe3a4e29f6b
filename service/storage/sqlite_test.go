package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/yolo-workbench/model"
)

func newTestStorage(t *testing.T) Service {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	svc, err := NewService(dbPath)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestSaveInstallRunRoundTrip(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	reqExit := 0
	id, err := svc.SaveInstallRun(ctx, model.InstallSummary{
		RunUUID:   "run-1",
		StartedAt: time.Now(),
		Detection: model.Detection{Status: model.DetectionDetected, Raw: "12.9"},
		Selection: model.SelectionResult{
			Detected: &model.DriverVersion{Major: 12, Minor: 9},
			Tag:      "cu128",
		},
		PythonVersion:    "3.11.9",
		InstallExit:      0,
		RequirementsExit: &reqExit,
		Verification: model.VerificationReport{
			Loaded:           true,
			FrameworkVersion: "2.8.0+cu128",
			GPUAvailable:     true,
			DeviceCount:      1,
			Device0Name:      "NVIDIA RTX A6000",
		},
	}, "v1.2.0")
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = svc.SaveInstallRun(ctx, model.InstallSummary{
		RunUUID:      "run-2",
		StartedAt:    time.Now().Add(time.Minute),
		Detection:    model.Detection{Status: model.DetectionToolUnavailable},
		Selection:    model.SelectionResult{Tag: "cpu"},
		InstallExit:  1,
		Verification: model.VerificationReport{LoadError: "No module named 'torch'"},
		DryRun:       true,
	}, "v1.2.0")
	require.NoError(t, err)

	runs, err := svc.GetRecentInstallRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	latest, first := runs[0], runs[1]
	assert.Equal(t, "run-2", latest.RunUUID)
	assert.Equal(t, "", latest.DetectedDriver)
	assert.Equal(t, "cpu", latest.SelectedTag)
	assert.Nil(t, latest.RequirementsExit)
	assert.False(t, latest.FrameworkLoaded)
	assert.True(t, latest.DryRun)
	assert.Equal(t, "No module named 'torch'", latest.LoadError)

	assert.Equal(t, "12.9", first.DetectedDriver)
	assert.Equal(t, "cu128", first.SelectedTag)
	require.NotNil(t, first.RequirementsExit)
	assert.Equal(t, 0, *first.RequirementsExit)
	assert.True(t, first.FrameworkLoaded)
	assert.True(t, first.GPUAvailable)
	assert.Equal(t, "NVIDIA RTX A6000", first.Device0Name)
	assert.Equal(t, "v1.2.0", first.CLIVersion)
	assert.False(t, first.RunTimestamp.IsZero())

	_, err = svc.SaveInstallRun(ctx, model.InstallSummary{RunUUID: "run-1"}, "")
	assert.Error(t, err, "duplicate run uuid must be rejected")
}

func TestSaveExportRun(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	n, err := svc.SaveExportRun(ctx, "export-1", []model.ExportResult{
		{Project: "helmets", Status: model.ExportExported, Artifact: "/x/helmets.tflite", Remote: "s3://m/helmets.tflite"},
		{Project: "empty", Status: model.ExportMissing},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	runs, err := svc.GetRecentExportRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "helmets", runs[0].Project)
	assert.Equal(t, "s3://m/helmets.tflite", runs[0].Remote)
	assert.Equal(t, "missing", runs[1].Status)

	_, err = svc.SaveExportRun(ctx, "", nil)
	assert.Error(t, err)
}

func TestMaintenance(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	_, err := svc.SaveInstallRun(ctx, model.InstallSummary{
		RunUUID:   "old",
		StartedAt: time.Now().Add(-90 * 24 * time.Hour),
		Detection: model.Detection{Status: model.DetectionToolUnavailable},
		Selection: model.SelectionResult{Tag: "cpu"},
	}, "")
	require.NoError(t, err)
	_, err = svc.SaveInstallRun(ctx, model.InstallSummary{
		RunUUID:   "new",
		StartedAt: time.Now(),
		Detection: model.Detection{Status: model.DetectionToolUnavailable},
		Selection: model.SelectionResult{Tag: "cpu"},
	}, "")
	require.NoError(t, err)

	purged, err := svc.PurgeOlderThan(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	runs, err := svc.GetRecentInstallRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "new", runs[0].RunUUID)

	_, err = svc.PurgeOlderThan(ctx, 0)
	assert.Error(t, err)
	assert.NoError(t, svc.Vacuum(ctx))
}

func TestResolvePath(t *testing.T) {
	p, err := resolvePath("")
	require.NoError(t, err)
	assert.Equal(t, "history.db", filepath.Base(p))
	assert.True(t, filepath.IsAbs(p))

	p, err = resolvePath("/tmp/a/../b.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/tmp/b.db"), p)
}

func TestInstallRunColumns(t *testing.T) {
	svc := newTestStorage(t).(*service)

	rows, err := svc.db.Query(`SELECT name FROM pragma_table_info('install_runs')`)
	require.NoError(t, err)
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []string{
		"run_id", "run_uuid", "run_timestamp", "detected_driver", "detection_status", "selected_tag",
		"python_version", "uninstall_exit", "install_exit", "requirements_exit", "index_url",
		"framework_loaded", "framework_version", "toolkit_version", "gpu_available", "device_count",
		"device0_name", "load_error", "cli_version", "dry_run",
	}, cols)
}
