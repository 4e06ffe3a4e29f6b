package model

import "time"

// InstallSummary captures a single install run.
type InstallSummary struct {
	RunUUID          string             `json:"run_uuid"`
	StartedAt        time.Time          `json:"started_at"`
	Detection        Detection          `json:"detection"`
	Selection        SelectionResult    `json:"selection"`
	PythonVersion    string             `json:"python_version,omitempty"`
	PythonWarning    bool               `json:"python_warning"`
	IndexURL         string             `json:"index_url,omitempty"`
	IndexWarning     string             `json:"index_warning,omitempty"`
	UninstallExit    int                `json:"uninstall_exit"`
	InstallExit      int                `json:"install_exit"`
	RequirementsExit *int               `json:"requirements_exit,omitempty"`
	Verification     VerificationReport `json:"verification"`
	DryRun           bool               `json:"dry_run"`
}

// RequirementsInstalled reports whether the requirements step ran and succeeded.
func (s InstallSummary) RequirementsInstalled() bool {
	return s.RequirementsExit != nil && *s.RequirementsExit == 0
}
