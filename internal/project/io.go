package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/imfaisalpk/olive/internal/effects"
)

// Write saves rows as a project file at path.
func Write(rows []*effects.Row, path string) error {
	data, err := yaml.Marshal(Snapshot(rows))
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// Read loads a project file and rebuilds its rows.
func Read(path string) ([]*effects.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project file: %w", err)
	}
	return Restore(&p)
}
