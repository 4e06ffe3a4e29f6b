package model

// ExportStatus is the outcome of exporting a single project.
type ExportStatus string

const (
	ExportExported ExportStatus = "exported"
	ExportMissing  ExportStatus = "missing"
	ExportFailed   ExportStatus = "failed"
)

// ExportResult reports what happened to one project's weights.
type ExportResult struct {
	Project  string       `json:"project"`
	Weights  string       `json:"weights"`
	Artifact string       `json:"artifact,omitempty"`
	Status   ExportStatus `json:"status"`
	Error    string       `json:"error,omitempty"`
	Remote   string       `json:"remote,omitempty"`
}
