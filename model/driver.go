package model

import "fmt"

// DriverVersion is the (major, minor) CUDA version reported by the GPU driver.
type DriverVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// Compare returns -1, 0 or 1 ordering by major, then minor.
func (v DriverVersion) Compare(other DriverVersion) int {
	switch {
	case v.Major < other.Major:
		return -1
	case v.Major > other.Major:
		return 1
	case v.Minor < other.Minor:
		return -1
	case v.Minor > other.Minor:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether v >= min.
func (v DriverVersion) AtLeast(min DriverVersion) bool {
	return v.Compare(min) >= 0
}

func (v DriverVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CompatibilityEntry maps a minimum driver version to a framework build tag.
type CompatibilityEntry struct {
	Minimum DriverVersion `json:"minimum"`
	Tag     string        `json:"tag"`
}

// DetectionStatus explains the outcome of a driver probe.
type DetectionStatus string

const (
	DetectionDetected        DetectionStatus = "detected"
	DetectionToolUnavailable DetectionStatus = "tool-unavailable"
	DetectionToolFailed      DetectionStatus = "tool-failed"
	DetectionMarkerNotFound  DetectionStatus = "marker-not-found"
)

// Detection is the result of querying the diagnostic command.
// Version is nil unless Status is DetectionDetected.
type Detection struct {
	Version *DriverVersion  `json:"version,omitempty"`
	Raw     string          `json:"raw,omitempty"`
	Status  DetectionStatus `json:"status"`
	Reason  string          `json:"reason,omitempty"`
}

// SelectionResult is the selected build tag for a detected driver.
type SelectionResult struct {
	Detected *DriverVersion `json:"detected,omitempty"`
	Tag      string         `json:"tag"`
}

// DetectedLabel renders the detected version or a placeholder when absent.
func (s SelectionResult) DetectedLabel() string {
	if s.Detected == nil {
		return "not available"
	}
	return s.Detected.String()
}

// VerificationReport is what the installed framework reports about itself.
type VerificationReport struct {
	Loaded           bool   `json:"loaded"`
	LoadError        string `json:"load_error,omitempty"`
	FrameworkVersion string `json:"framework_version,omitempty"`
	ToolkitVersion   string `json:"toolkit_version,omitempty"`
	GPUAvailable     bool   `json:"gpu_available"`
	DeviceCount      int    `json:"device_count"`
	Device0Name      string `json:"device0_name,omitempty"`
}
