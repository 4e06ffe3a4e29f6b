package driver

import (
	"context"

	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/runner"
)

const (
	// DefaultCommand is the diagnostic tool queried for driver information.
	DefaultCommand = "nvidia-smi"
	// DefaultMarker precedes the driver's CUDA version in the tool's output.
	DefaultMarker = "CUDA Version:"
)

type service struct {
	runner  runner.Runner
	command string
	marker  string
}

// Service is the interface for GPU driver detection.
type Service interface {
	DetectDriverVersion(ctx context.Context) model.Detection
}
