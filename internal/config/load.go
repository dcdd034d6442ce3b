package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a pipeline file. Files ending in .yaml or .yml are decoded as
// YAML, anything else as JSON. Defaults are applied to the result.
func Load(path string) (Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read config: %w", err)
	}
	p, err := Decode(b, filepath.Ext(path))
	if err != nil {
		return Pipeline{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return p, nil
}

// Decode parses b as YAML when ext is .yaml/.yml, otherwise as JSON.
// Unknown fields are rejected in both formats.
func Decode(b []byte, ext string) (Pipeline, error) {
	var p Pipeline
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return Pipeline{}, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return Pipeline{}, err
		}
	}
	p.ApplyDefaults()
	return p, nil
}
