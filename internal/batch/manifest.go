package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest is the JSON summary written after a batch run.
type Manifest struct {
	Rendered int      `json:"rendered"`
	Failed   int      `json:"failed"`
	Results  []Result `json:"results"`
}

// Summarize counts successes and failures.
func Summarize(results []Result) Manifest {
	m := Manifest{Results: results}
	for _, r := range results {
		if r.Success {
			m.Rendered++
		} else {
			m.Failed++
		}
	}
	return m
}

// WriteManifest writes the run summary as indented JSON.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("batch: mkdir for manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
