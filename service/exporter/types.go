package exporter

import (
	"context"
	"io"
	"sync"

	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/runner"
)

const (
	DefaultProjectsDir = "projects"
	DefaultExportDir   = "exports/tflite_models"
	DefaultFormat      = "tflite"

	weightsSubpath = "weights"
	weightsFile    = "best.pt"
)

// Options controls an export run. Relative directories resolve against the working directory.
type Options struct {
	Python      string
	ProjectsDir string
	ExportDir   string
	Format      string
	Parallel    int
}

type service struct {
	runner runner.Runner
	opts   Options
	out    io.Writer
	outMu  sync.Mutex
}

// Service is the interface for batch weight export.
type Service interface {
	ExportAll(ctx context.Context) ([]model.ExportResult, error)
}
