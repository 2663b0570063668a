/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File is the YAML document shape for declarative model definitions.
type File struct {
	Models []Model `yaml:"models"`
}

// LoadFile reads and validates the model definitions in a single YAML file.
func LoadFile(path string) ([]Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, m := range f.Models {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return f.Models, nil
}

// Load reads model definitions from all files matching the given glob
// pattern. Model names must be unique across files.
func Load(pattern string) ([]Model, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob pattern error: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no model files found matching: %s", pattern)
	}

	var models []Model
	seen := make(map[string]string)
	for _, path := range matches {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		for _, m := range loaded {
			if prev, ok := seen[m.Name]; ok {
				return nil, fmt.Errorf("model %q defined in both %s and %s", m.Name, prev, path)
			}
			seen[m.Name] = path
			models = append(models, m)
		}
	}
	return models, nil
}
