package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/selector"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "nvidia-smi", cfg.Driver.Command)
	assert.Equal(t, "CUDA Version:", cfg.Driver.Marker)
	assert.Equal(t, "python3", cfg.Install.Python)
	assert.Equal(t, []string{"torch", "torchvision", "torchaudio"}, cfg.Install.Packages)
	assert.Equal(t, "exports/tflite_models", cfg.Export.ExportDir)

	table, err := cfg.Table()
	require.NoError(t, err)
	assert.Equal(t, selector.DefaultTable().Entries(), table.Entries())
	assert.Equal(t, "cu128", table.SelectBuildTag(&model.DriverVersion{Major: 12, Minor: 9}))
}

func TestLoadFileExtendsTable(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	content := `selector:
  cputag: cpu
  table:
    - minimum: "11.8"
      tag: cu118
    - minimum: "13.0"
      tag: cu130
    - minimum: "12.8"
      tag: cu128
install:
  python: /opt/venv/bin/python
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(content), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/opt/venv/bin/python", cfg.Install.Python)

	table, err := cfg.Table()
	require.NoError(t, err)
	entries := table.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "cu130", entries[0].Tag)
	assert.Equal(t, "cu130", table.SelectBuildTag(&model.DriverVersion{Major: 13, Minor: 1}))
	assert.Equal(t, "cu118", table.SelectBuildTag(&model.DriverVersion{Major: 12, Minor: 6}))
}

func TestLoadFileUnquotedMinimums(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	content := `selector:
  table:
    - minimum: 12.10
      tag: cu1210
    - minimum: 13.0
      tag: cu130
    - minimum: 12.8
      tag: cu128
    - minimum: 11.8
      tag: cu118
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(content), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	minimums := make([]string, 0, len(cfg.Selector.Table))
	for _, row := range cfg.Selector.Table {
		minimums = append(minimums, row.Minimum)
	}
	assert.Equal(t, []string{"12.10", "13.0", "12.8", "11.8"}, minimums)

	table, err := cfg.Table()
	require.NoError(t, err)
	assert.Equal(t, "cu128", table.SelectBuildTag(&model.DriverVersion{Major: 12, Minor: 9}))
	assert.Equal(t, "cu1210", table.SelectBuildTag(&model.DriverVersion{Major: 12, Minor: 10}))
	assert.Equal(t, "cu130", table.SelectBuildTag(&model.DriverVersion{Major: 13, Minor: 1}))
	assert.Equal(t, "cu118", table.SelectBuildTag(&model.DriverVersion{Major: 11, Minor: 9}))
}

func TestVersionYAMLLeavesOtherScalars(t *testing.T) {
	got, err := versionYAML{}.Unmarshal([]byte("export:\n  format: tflite\nratio: 0.5\ncount: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, got["ratio"])
	assert.Equal(t, 3, got["count"])
	assert.Equal(t, map[string]interface{}{"format": "tflite"}, got["export"])

	empty, err := versionYAML{}.Unmarshal(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("YOLO_WORKBENCH_INSTALL_PYTHON", "python3.11")
	t.Setenv("YOLO_WORKBENCH_INSTALL_PACKAGES", "torch, torchvision")
	t.Setenv("YOLO_WORKBENCH_EXPORT_FORMAT", "onnx")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "python3.11", cfg.Install.Python)
	assert.Equal(t, []string{"torch", "torchvision"}, cfg.Install.Packages)
	assert.Equal(t, "onnx", cfg.Export.Format)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	bad := cfg
	bad.Install.Packages = nil
	assert.Error(t, Validate(bad))

	bad = cfg
	bad.Selector.Table = []TableEntry{{Minimum: "twelve", Tag: "cu128"}}
	err = Validate(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, selector.ErrMalformedVersion))
}
