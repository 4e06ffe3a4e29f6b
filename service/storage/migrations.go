package storage

const schemaV1 = `
CREATE TABLE IF NOT EXISTS install_runs (
    run_id            INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid          TEXT UNIQUE NOT NULL,
    run_timestamp     DATETIME DEFAULT CURRENT_TIMESTAMP,
    detected_driver   TEXT,
    detection_status  TEXT NOT NULL,
    selected_tag      TEXT NOT NULL,
    python_version    TEXT,
    uninstall_exit    INTEGER DEFAULT 0,
    install_exit      INTEGER DEFAULT 0,
    requirements_exit INTEGER,
    index_url         TEXT,
    framework_loaded  INTEGER DEFAULT 0,
    framework_version TEXT,
    toolkit_version   TEXT,
    gpu_available     INTEGER DEFAULT 0,
    device_count      INTEGER DEFAULT 0,
    device0_name      TEXT,
    load_error        TEXT,
    cli_version       TEXT,
    dry_run           INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_install_runs_timestamp
    ON install_runs(run_timestamp DESC);

CREATE TABLE IF NOT EXISTS export_runs (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid       TEXT NOT NULL,
    run_timestamp  DATETIME DEFAULT CURRENT_TIMESTAMP,
    project        TEXT NOT NULL,
    status         TEXT NOT NULL,
    artifact       TEXT,
    remote         TEXT,
    error          TEXT
);

CREATE INDEX IF NOT EXISTS idx_export_runs_uuid ON export_runs(run_uuid);
CREATE INDEX IF NOT EXISTS idx_export_runs_timestamp ON export_runs(run_timestamp DESC);
`
