package storage

import (
	"context"
	"time"

	"github.com/thirukguru/yolo-workbench/model"
)

// Service defines persistence and history query operations.
type Service interface {
	SaveInstallRun(ctx context.Context, summary model.InstallSummary, cliVersion string) (int64, error)
	SaveExportRun(ctx context.Context, runUUID string, results []model.ExportResult) (int, error)
	GetRecentInstallRuns(limit int) ([]InstallRun, error)
	GetRecentExportRuns(limit int) ([]ExportRun, error)
	Vacuum(ctx context.Context) error
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
	Close() error
}

// InstallRun is a stored install run.
type InstallRun struct {
	RunID            int64     `json:"run_id"`
	RunUUID          string    `json:"run_uuid"`
	RunTimestamp     time.Time `json:"run_timestamp"`
	DetectedDriver   string    `json:"detected_driver"`
	DetectionStatus  string    `json:"detection_status"`
	SelectedTag      string    `json:"selected_tag"`
	PythonVersion    string    `json:"python_version"`
	InstallExit      int       `json:"install_exit"`
	RequirementsExit *int      `json:"requirements_exit,omitempty"`
	FrameworkLoaded  bool      `json:"framework_loaded"`
	FrameworkVersion string    `json:"framework_version"`
	GPUAvailable     bool      `json:"gpu_available"`
	DeviceCount      int       `json:"device_count"`
	Device0Name      string    `json:"device0_name"`
	LoadError        string    `json:"load_error"`
	CLIVersion       string    `json:"cli_version"`
	DryRun           bool      `json:"dry_run"`
}

// ExportRun is one stored project export.
type ExportRun struct {
	RunID        int64     `json:"run_id"`
	RunUUID      string    `json:"run_uuid"`
	RunTimestamp time.Time `json:"run_timestamp"`
	Project      string    `json:"project"`
	Status       string    `json:"status"`
	Artifact     string    `json:"artifact"`
	Remote       string    `json:"remote"`
	Error        string    `json:"error"`
}
