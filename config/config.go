// Package config provides a reference YAML decoder for the device graph
// tree the engine consumes. Grounded on aleFerri99-device-gpiod's
// gpio/parser.go (read-file-then-yaml.Unmarshal-into-a-typed-list shape),
// generalized from one GPIO list to Torc's three-section graph and upgraded
// from yaml.v2 to yaml.v3 per go.mod.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"torc/types"
)

// Load reads path and decodes it into a types.GraphConfig. This is a
// convenience collaborator, not the schema validator spec.md §6 leaves out
// of scope — it performs no cross-field validation beyond what yaml.v3's
// decoder does on its own.
func Load(path string) (types.GraphConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.GraphConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes an in-memory YAML document, for callers (tests, embedded
// configs) that don't have a file on disk.
func Parse(raw []byte) (types.GraphConfig, error) {
	var cfg types.GraphConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return types.GraphConfig{}, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}
