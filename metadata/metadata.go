// Package metadata persists dataset metadata alongside the transformed
// outputs so downstream training jobs can reconstruct the feature
// layout.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/tuhinmallick/kaggle-outbrain-click-prediction-google-cloud-ml-engine/schema"
)

// FileName is the metadata file written inside a metadata directory.
const FileName = "schema.yaml"

// DatasetMetadata describes one dataset.
type DatasetMetadata struct {
	Schema schema.Schema `yaml:"schema"`
}

// Write stores the metadata under dir, creating it if needed.
func Write(dir string, md DatasetMetadata) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("metadata: failed to create %s: %w", dir, err)
	}

	b, err := yaml.Marshal(md)
	if err != nil {
		return fmt.Errorf("metadata: failed to marshal: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), b, 0o600); err != nil {
		return fmt.Errorf("metadata: failed to write: %w", err)
	}
	return nil
}

// Read loads metadata written by Write.
func Read(dir string) (DatasetMetadata, error) {
	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return DatasetMetadata{}, fmt.Errorf("metadata: failed to read: %w", err)
	}

	var md DatasetMetadata
	if err := yaml.Unmarshal(b, &md); err != nil {
		return DatasetMetadata{}, fmt.Errorf("metadata: failed to parse: %w", err)
	}
	return md, nil
}
