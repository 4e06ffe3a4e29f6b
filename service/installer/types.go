package installer

import (
	"context"
	"io"

	"github.com/thirukguru/yolo-workbench/model"
	"github.com/thirukguru/yolo-workbench/service/driver"
	"github.com/thirukguru/yolo-workbench/service/pkgindex"
	"github.com/thirukguru/yolo-workbench/service/runner"
	"github.com/thirukguru/yolo-workbench/service/selector"
	"github.com/thirukguru/yolo-workbench/service/verify"
)

// DefaultPackages are uninstalled and reinstalled from the selected build.
var DefaultPackages = []string{"torch", "torchvision", "torchaudio"}

// Options controls a single install run.
type Options struct {
	Python           string
	Packages         []string
	Requirements     string
	SkipRequirements bool
	DryRun           bool
	CheckIndex       bool
}

// Deps are the collaborators of the installer.
type Deps struct {
	Runner   runner.Runner
	Driver   driver.Service
	Table    selector.Table
	Verifier verify.Service
	Index    pkgindex.Service
	Out      io.Writer
}

type service struct {
	Deps
}

// Service is the interface for the dependency installer.
type Service interface {
	Run(ctx context.Context, opts Options) (model.InstallSummary, error)
	Detect(ctx context.Context) (model.Detection, model.SelectionResult)
}
