package selector

import (
	"errors"
	"fmt"

	"github.com/thirukguru/yolo-workbench/model"
)

// DefaultCPUTag is installed when no GPU build matches.
const DefaultCPUTag = "cpu"

// ErrMalformedVersion is matched by every version parse failure.
var ErrMalformedVersion = errors.New("malformed version")

// MalformedVersionError carries the offending input.
type MalformedVersionError struct {
	Input string
}

func (e *MalformedVersionError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMalformedVersion, e.Input)
}

// Is lets errors.Is match ErrMalformedVersion.
func (e *MalformedVersionError) Is(target error) bool {
	return target == ErrMalformedVersion
}

// Table is an immutable compatibility table ordered from the highest minimum to the lowest.
type Table struct {
	entries []model.CompatibilityEntry
	cpuTag  string
}
