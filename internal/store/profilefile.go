package store

import (
	"fmt"
	"os"

	"fjacquet/csv-classify/internal/models"

	"gopkg.in/yaml.v3"
)

// LoadProfile reads one CSV import profile from a YAML file.
func LoadProfile(path string) (models.CSVProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.CSVProfile{}, fmt.Errorf("error reading profile file: %w", err)
	}

	var profile models.CSVProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return models.CSVProfile{}, fmt.Errorf("error parsing profile file %s: %w", path, err)
	}
	if profile.Name == "" {
		profile.Name = path
	}
	return profile, nil
}
