package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/config"
	"github.com/thirukguru/yolo-workbench/service/exporter"
	"github.com/thirukguru/yolo-workbench/service/runner"
	"github.com/thirukguru/yolo-workbench/service/runner/runnertest"
	"github.com/thirukguru/yolo-workbench/service/selector"
	"github.com/thirukguru/yolo-workbench/service/storage"
)

func newTestApp(t *testing.T, format string, fake *runnertest.Fake) (*app, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)

	var buf bytes.Buffer
	return &app{
		flags:  model.Flags{Output: format},
		cfg:    cfg,
		info:   model.VersionInfo{Version: "test"},
		stdout: &buf,
		newRunner: func(io.Writer) runner.Runner {
			return fake
		},
	}, &buf
}

func TestRecoverDefect(t *testing.T) {
	run := func() (err error) {
		defer recoverDefect(&err)
		selector.MustParseVersion("twelve")
		return nil
	}

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal defect")
	assert.True(t, errors.Is(err, selector.ErrMalformedVersion))
}

func TestRecoverDefectNonError(t *testing.T) {
	run := func() (err error) {
		defer recoverDefect(&err)
		panic("boom")
	}

	err := run()
	require.Error(t, err)
	assert.Equal(t, "internal defect: boom", err.Error())
}

func TestRecoverDefectNoPanic(t *testing.T) {
	want := errors.New("plain")
	run := func() (err error) {
		defer recoverDefect(&err)
		return want
	}

	assert.Equal(t, want, run())
}

func TestDispatchUnknownCommand(t *testing.T) {
	a, _ := newTestApp(t, "table", runnertest.New())
	err := a.dispatch(context.Background(), "train", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "train"`)
}

func TestPrintVersion(t *testing.T) {
	info := model.VersionInfo{Version: "1.2.3", Commit: "abc", Date: "2026-01-01"}

	var buf bytes.Buffer
	require.NoError(t, printVersion(&buf, "table", info))
	assert.Equal(t, "yolo-workbench 1.2.3 (commit abc, built 2026-01-01)\n", buf.String())

	buf.Reset()
	require.NoError(t, printVersion(&buf, "json", info))
	var got model.VersionInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, info, got)
}

func TestJSONOutput(t *testing.T) {
	a, _ := newTestApp(t, "json", runnertest.New())
	assert.True(t, a.jsonOutput())
	assert.Equal(t, os.Stderr, a.status())

	a, buf := newTestApp(t, "table", runnertest.New())
	assert.False(t, a.jsonOutput())
	assert.Equal(t, buf, a.status())
}

func TestRunDetectWithoutDriverTool(t *testing.T) {
	fake := runnertest.New()
	fake.Missing["nvidia-smi"] = true
	a, buf := newTestApp(t, "json", fake)

	require.NoError(t, a.runDetect(context.Background(), nil))

	var got struct {
		Detection struct {
			Status string `json:"status"`
		} `json:"detection"`
		Selection struct {
			Tag string `json:"tag"`
		} `json:"selection"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "tool-unavailable", got.Detection.Status)
	assert.Equal(t, "cpu", got.Selection.Tag)
}

func TestRunInstallDryRunStored(t *testing.T) {
	fake := runnertest.New()
	fake.On("nvidia-smi", runnertest.Response{Result: runner.Result{
		Output: "| NVIDIA-SMI 560.35   Driver Version: 560.35   CUDA Version: 12.6 |\n",
	}})
	fake.On("python3 -c import sys", runnertest.Response{Result: runner.Result{Output: "3.11.9\n"}})
	fake.On("python3 -c import json", runnertest.Response{Result: runner.Result{
		Output: `{"version": "2.8.0+cu126", "cuda": "12.6", "available": true, "count": 1, "device0": "RTX 4090"}`,
	}})
	a, buf := newTestApp(t, "table", fake)
	dbPath := filepath.Join(t.TempDir(), "history.db")

	err := a.runInstall(context.Background(), []string{"--dry-run", "--store", "--db-path", dbPath})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "> (dry-run) python3 -m pip install torch torchvision torchaudio --index-url https://download.pytorch.org/whl/cu126")
	assert.Contains(t, out, "Summary → CUDA driver: 12.6 | wheel: cu126")
	assert.Empty(t, fake.Streamed())

	store, err := storage.NewService(dbPath)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.GetRecentInstallRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "cu126", runs[0].SelectedTag)
	assert.True(t, runs[0].DryRun)
	assert.Equal(t, "test", runs[0].CLIVersion)
}

func TestRunDataset(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("train: ../train/images\nval: ../valid/images\nnc: 2\n"), 0o644))

	a, buf := newTestApp(t, "json", runnertest.New())
	require.NoError(t, a.runDataset([]string{manifest}))

	var got model.ManifestRewrite
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	base, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "train", "images"), got.Train)
	assert.Equal(t, filepath.Join(base, "test", "images"), got.Test)
}

func TestRunDatasetRequiresManifest(t *testing.T) {
	a, _ := newTestApp(t, "table", runnertest.New())
	err := a.runDataset(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")
}

func TestRunExportStoresAndLists(t *testing.T) {
	dir := t.TempDir()
	projects := filepath.Join(dir, "projects")
	require.NoError(t, os.MkdirAll(filepath.Join(projects, "helmets", "weights"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(projects, "empty"), 0o755))
	weights := filepath.Join(projects, "helmets", "weights", "best.pt")
	require.NoError(t, os.WriteFile(weights, []byte("pt"), 0o644))

	fake := runnertest.New()
	fake.On("python3 -c", runnertest.Response{Func: func(args []string) (runner.Result, error) {
		artifact := filepath.Join(filepath.Dir(args[2]), "best_float32.tflite")
		if err := os.WriteFile(artifact, []byte("tflite"), 0o644); err != nil {
			return runner.Result{}, err
		}
		return runner.Result{Output: fmt.Sprintf("exporting...\n%s%s\n", exporter.ArtifactPrefix, artifact)}, nil
	}})

	a, _ := newTestApp(t, "table", fake)
	dbPath := filepath.Join(dir, "history.db")
	exportDir := filepath.Join(dir, "exports")

	err := a.runExport(context.Background(), []string{
		"--projects-dir", projects,
		"--export-dir", exportDir,
		"--store", "--db-path", dbPath,
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(exportDir, "helmets.tflite"))

	a, buf := newTestApp(t, "json", fake)
	require.NoError(t, a.runHistory([]string{"exports", "--db-path", dbPath}))

	var runs []storage.ExportRun
	require.NoError(t, json.Unmarshal(buf.Bytes(), &runs))
	require.Len(t, runs, 2)
	statuses := map[string]string{}
	for _, r := range runs {
		statuses[r.Project] = r.Status
	}
	assert.Equal(t, "exported", statuses["helmets"])
	assert.Equal(t, "missing", statuses["empty"])
}

func TestRunHistoryAndDBErrors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	a, _ := newTestApp(t, "table", runnertest.New())

	err := a.runHistory([]string{"--db-path", dbPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")

	err = a.runHistory([]string{"scans", "--db-path", dbPath})
	require.Error(t, err)

	err = a.runDB(context.Background(), []string{"reindex", "--db-path", dbPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported db command")
}

func TestRunDBMaintenance(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	a, buf := newTestApp(t, "table", runnertest.New())

	require.NoError(t, a.runDB(context.Background(), []string{"vacuum", "--db-path", dbPath}))
	assert.Contains(t, buf.String(), "Vacuumed")

	buf.Reset()
	require.NoError(t, a.runDB(context.Background(), []string{"purge", "--older-than", "7", "--db-path", dbPath}))
	assert.Equal(t, "Purged 0 runs\n", buf.String())
}

func TestCommandHelpIsNotAnError(t *testing.T) {
	a, buf := newTestApp(t, "table", runnertest.New())
	require.NoError(t, a.runInstall(context.Background(), []string{"--help"}))
	assert.Contains(t, buf.String(), "--skip-requirements")
}
