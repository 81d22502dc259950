package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/schoolcal/internal/core"
)

// LoadCatalog reads the validation vocabularies from a YAML file such as:
//
//	schools: [wlhs, wvhs]
//	departments: [athletics, arts, math]
//	grade_levels: [9, 10, 11, 12]
//
// An empty path returns the built-in catalog. Lists left out of the file
// keep their defaults.
func LoadCatalog(path string) (core.Catalog, error) {
	if path == "" {
		return core.DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return core.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var catalog core.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return core.Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	return catalog.WithDefaults(), nil
}
