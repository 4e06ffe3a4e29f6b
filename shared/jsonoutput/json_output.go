// Package jsonoutput prints results as indented JSON.
package jsonoutput

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/thirukguru/yolo-workbench/model"
)

// DetectionJSON is the JSON shape of a detect command.
type DetectionJSON struct {
	Detection     model.Detection            `json:"detection"`
	Selection     model.SelectionResult      `json:"selection"`
	Compatibility []model.CompatibilityEntry `json:"compatibility"`
	CPUTag        string                     `json:"cpu_tag"`
}

// Print writes v to w as indented JSON.
func Print(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
