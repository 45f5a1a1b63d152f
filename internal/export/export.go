// Package export writes annotation snapshots to disk.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the suggested name for exported annotations.
const DefaultFileName = "annotations.json"

// Exporter produces a serialized snapshot of an annotation collection.
type Exporter interface {
	Export() ([]byte, error)
}

// WriteFile exports src to path, adding a .json extension when missing.
// It returns the path actually written.
func WriteFile(path string, src Exporter) (string, error) {
	if path == "" {
		path = DefaultFileName
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		path += ".json"
	}

	data, err := src.Export()
	if err != nil {
		return "", fmt.Errorf("export annotations: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
