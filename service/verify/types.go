package verify

import (
	"context"

	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/runner"
)

// DefaultModule is the framework package probed after installation.
const DefaultModule = "torch"

type service struct {
	runner runner.Runner
	python string
	module string
}

// Service is the interface for post-install verification.
type Service interface {
	VerifyInstallation(ctx context.Context) model.VerificationReport
}

type probeOutput struct {
	Version   string  `json:"version"`
	Cuda      *string `json:"cuda"`
	Available bool    `json:"available"`
	Count     int     `json:"count"`
	Device0   string  `json:"device0"`
}
