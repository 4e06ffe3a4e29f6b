package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thirukguru/yolo-workbench/model"
	_ "modernc.org/sqlite"
)

const defaultDBPath = "~/.yolo-workbench/history.db"

// timestamps are stored as UTC text so DATETIME('now', ...) comparisons work.
const timestampLayout = "2006-01-02 15:04:05"

// NewService creates a SQLite-backed storage service.
func NewService(dbPath string) (Service, error) {
	resolved, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &service{db: db, dbPath: resolved}, nil
}

type service struct {
	db     *sql.DB
	dbPath string
}

func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = defaultDBPath
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timestampLayout)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *service) SaveInstallRun(ctx context.Context, summary model.InstallSummary, cliVersion string) (int64, error) {
	if summary.RunUUID == "" {
		return 0, errors.New("run uuid is required")
	}

	var detected any
	if summary.Selection.Detected != nil {
		detected = summary.Selection.Detected.String()
	}
	var reqExit any
	if summary.RequirementsExit != nil {
		reqExit = *summary.RequirementsExit
	}
	v := summary.Verification

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO install_runs (
			run_uuid, run_timestamp, detected_driver, detection_status, selected_tag, python_version,
			uninstall_exit, install_exit, requirements_exit, index_url,
			framework_loaded, framework_version, toolkit_version, gpu_available, device_count,
			device0_name, load_error, cli_version, dry_run
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, summary.RunUUID, formatTime(summary.StartedAt), detected, string(summary.Detection.Status),
		summary.Selection.Tag, summary.PythonVersion,
		summary.UninstallExit, summary.InstallExit, reqExit, summary.IndexURL,
		boolInt(v.Loaded), v.FrameworkVersion, v.ToolkitVersion, boolInt(v.GPUAvailable), v.DeviceCount,
		v.Device0Name, v.LoadError, cliVersion, boolInt(summary.DryRun))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *service) SaveExportRun(ctx context.Context, runUUID string, results []model.ExportResult) (int, error) {
	if runUUID == "" {
		return 0, errors.New("run uuid is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := formatTime(time.Now())
	for _, r := range results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO export_runs(run_uuid, run_timestamp, project, status, artifact, remote, error)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, runUUID, now, r.Project, string(r.Status), r.Artifact, r.Remote, r.Error)
		if err != nil {
			return 0, err
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return len(results), nil
}

func (s *service) GetRecentInstallRuns(limit int) ([]InstallRun, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT run_id, run_uuid, run_timestamp, COALESCE(detected_driver, ''), detection_status, selected_tag,
			COALESCE(python_version, ''), install_exit, requirements_exit, framework_loaded,
			COALESCE(framework_version, ''), gpu_available, device_count, COALESCE(device0_name, ''),
			COALESCE(load_error, ''), COALESCE(cli_version, ''), dry_run
		FROM install_runs
		ORDER BY run_timestamp DESC, run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []InstallRun{}
	for rows.Next() {
		var (
			r       InstallRun
			ts      string
			reqExit sql.NullInt64
			loaded  int
			gpu     int
			dryRun  int
		)
		if err := rows.Scan(&r.RunID, &r.RunUUID, &ts, &r.DetectedDriver, &r.DetectionStatus, &r.SelectedTag,
			&r.PythonVersion, &r.InstallExit, &reqExit, &loaded, &r.FrameworkVersion, &gpu, &r.DeviceCount,
			&r.Device0Name, &r.LoadError, &r.CLIVersion, &dryRun); err != nil {
			return nil, err
		}
		r.RunTimestamp = parseTime(ts)
		if reqExit.Valid {
			code := int(reqExit.Int64)
			r.RequirementsExit = &code
		}
		r.FrameworkLoaded = loaded == 1
		r.GPUAvailable = gpu == 1
		r.DryRun = dryRun == 1
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *service) GetRecentExportRuns(limit int) ([]ExportRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, run_uuid, run_timestamp, project, status,
			COALESCE(artifact, ''), COALESCE(remote, ''), COALESCE(error, '')
		FROM export_runs
		ORDER BY run_timestamp DESC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []ExportRun{}
	for rows.Next() {
		var (
			r  ExportRun
			ts string
		)
		if err := rows.Scan(&r.RunID, &r.RunUUID, &ts, &r.Project, &r.Status, &r.Artifact, &r.Remote, &r.Error); err != nil {
			return nil, err
		}
		r.RunTimestamp = parseTime(ts)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func parseTime(s string) time.Time {
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (s *service) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

func (s *service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("days must be positive")
	}
	window := fmt.Sprintf("-%d day", days)

	res, err := s.db.ExecContext(ctx, `DELETE FROM install_runs WHERE run_timestamp < DATETIME('now', ?)`, window)
	if err != nil {
		return 0, err
	}
	installs, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	res, err = s.db.ExecContext(ctx, `DELETE FROM export_runs WHERE run_timestamp < DATETIME('now', ?)`, window)
	if err != nil {
		return 0, err
	}
	exports, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return installs + exports, nil
}

func (s *service) Close() error {
	return s.db.Close()
}
