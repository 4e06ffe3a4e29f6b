// Package selector maps a detected GPU driver version to a framework build tag.
package selector

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/thirukguru/yolo-workbench/model"
)

// ParseVersion parses the first two dot-separated components of text.
// Extra components are ignored.
func ParseVersion(text string) (model.DriverVersion, error) {
	parts := strings.Split(strings.TrimSpace(text), ".")
	if len(parts) < 2 {
		return model.DriverVersion{}, &MalformedVersionError{Input: text}
	}

	major, ok := parseComponent(parts[0])
	if !ok {
		return model.DriverVersion{}, &MalformedVersionError{Input: text}
	}
	minor, ok := parseComponent(parts[1])
	if !ok {
		return model.DriverVersion{}, &MalformedVersionError{Input: text}
	}

	return model.DriverVersion{Major: major, Minor: minor}, nil
}

// MustParseVersion is ParseVersion for inputs already known to look like "N.N".
// It panics otherwise.
func MustParseVersion(text string) model.DriverVersion {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}

func parseComponent(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// DefaultTable returns the built-in table: 12.8 -> cu128, 12.6 -> cu126, 11.8 -> cu118.
func DefaultTable() Table {
	t, err := NewTable([]model.CompatibilityEntry{
		{Minimum: MustParseVersion("12.8"), Tag: "cu128"},
		{Minimum: MustParseVersion("12.6"), Tag: "cu126"},
		{Minimum: MustParseVersion("11.8"), Tag: "cu118"},
	}, DefaultCPUTag)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTable copies and sorts entries highest minimum first.
func NewTable(entries []model.CompatibilityEntry, cpuTag string) (Table, error) {
	if strings.TrimSpace(cpuTag) == "" {
		cpuTag = DefaultCPUTag
	}

	sorted := make([]model.CompatibilityEntry, 0, len(entries))
	seen := map[model.DriverVersion]bool{}
	for _, e := range entries {
		if strings.TrimSpace(e.Tag) == "" {
			return Table{}, fmt.Errorf("compatibility entry %s has an empty tag", e.Minimum)
		}
		if e.Minimum.Major < 0 || e.Minimum.Minor < 0 {
			return Table{}, fmt.Errorf("compatibility entry %s has a negative version", e.Minimum)
		}
		if seen[e.Minimum] {
			return Table{}, fmt.Errorf("duplicate compatibility entry for %s", e.Minimum)
		}
		seen[e.Minimum] = true
		sorted = append(sorted, e)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Minimum.Compare(sorted[j].Minimum) > 0
	})

	return Table{entries: sorted, cpuTag: cpuTag}, nil
}

// Entries returns a copy of the table rows in evaluation order.
func (t Table) Entries() []model.CompatibilityEntry {
	out := make([]model.CompatibilityEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// CPUTag returns the fallback tag.
func (t Table) CPUTag() string {
	if t.cpuTag == "" {
		return DefaultCPUTag
	}
	return t.cpuTag
}

// SelectBuildTag returns the tag of the first entry whose minimum is <= detected.
// A nil version, or one older than every threshold, selects the CPU tag.
func (t Table) SelectBuildTag(detected *model.DriverVersion) string {
	if detected == nil {
		return t.CPUTag()
	}
	for _, e := range t.entries {
		if detected.AtLeast(e.Minimum) {
			return e.Tag
		}
	}
	return t.CPUTag()
}

// Select wraps SelectBuildTag into a SelectionResult.
func (t Table) Select(detected *model.DriverVersion) model.SelectionResult {
	var v *model.DriverVersion
	if detected != nil {
		c := *detected
		v = &c
	}
	return model.SelectionResult{Detected: v, Tag: t.SelectBuildTag(v)}
}

// IsCPU reports whether tag is this table's CPU fallback.
func (t Table) IsCPU(tag string) bool {
	return tag == t.CPUTag()
}
