// Package config loads layered configuration: defaults, an optional YAML file, then
// YOLO_WORKBENCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/selector"
)

func defaults() map[string]any {
	return map[string]any{
		"selector.table": []map[string]any{
			{"minimum": "12.8", "tag": "cu128"},
			{"minimum": "12.6", "tag": "cu126"},
			{"minimum": "11.8", "tag": "cu118"},
		},
		"selector.cputag":      selector.DefaultCPUTag,
		"driver.command":       "nvidia-smi",
		"driver.marker":        "CUDA Version:",
		"install.python":       "python3",
		"install.packages":     []string{"torch", "torchvision", "torchaudio"},
		"install.indexbase":    "https://download.pytorch.org/whl",
		"install.requirements": "requirements.txt",
		"install.module":       "torch",
		"export.projectsdir":   "projects",
		"export.exportdir":     "exports/tflite_models",
		"export.format":        "tflite",
		"storage.dbpath":       "",
	}
}

// Load reads configuration. An empty path loads DefaultFile when it exists; an
// explicit path must exist.
func Load(path string) (AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return AppConfig{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	filePath := path
	if filePath == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			filePath = DefaultFile
		}
	}
	if filePath != "" {
		if err := k.Load(file.Provider(filePath), versionYAML{}); err != nil {
			return AppConfig{}, fmt.Errorf("failed to load config file %s: %w", filePath, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(s string, v string) (string, any) {
		key := strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
		if strings.Contains(v, ",") {
			parts := strings.Split(v, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return key, parts
		}
		return key, v
	}), nil); err != nil {
		return AppConfig{}, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, Validate(cfg)
}

// Validate checks the configuration for values that cannot work.
func Validate(cfg AppConfig) error {
	if len(cfg.Install.Packages) == 0 {
		return errors.New("install.packages must not be empty")
	}
	if strings.TrimSpace(cfg.Install.Python) == "" {
		return errors.New("install.python must not be empty")
	}
	_, err := cfg.Table()
	return err
}

// Table builds the immutable compatibility table from the configured rows.
func (c AppConfig) Table() (selector.Table, error) {
	entries := make([]model.CompatibilityEntry, 0, len(c.Selector.Table))
	for _, row := range c.Selector.Table {
		v, err := selector.ParseVersion(row.Minimum)
		if err != nil {
			return selector.Table{}, fmt.Errorf("selector.table: %w", err)
		}
		entries = append(entries, model.CompatibilityEntry{Minimum: v, Tag: row.Tag})
	}
	t, err := selector.NewTable(entries, c.Selector.CPUTag)
	if err != nil {
		return selector.Table{}, fmt.Errorf("selector.table: %w", err)
	}
	return t, nil
}
