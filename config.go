package kcl

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when no .kcl.yaml exists in dir or any
// parent directory.
var ErrConfigNotFound = errors.New("no .kcl.yaml found")

// Config represents the .kcl.yaml configuration file.
type Config struct {
	// Default units as written in the config file. Nothing in the CLI or the
	// settings pass reads them; only @settings annotations set file units.
	DefaultLengthUnit string `yaml:"defaultLengthUnit,omitempty"`
	DefaultAngleUnit  string `yaml:"defaultAngleUnit,omitempty"`

	// Fmt holds formatter settings.
	Fmt FmtConfig `yaml:"fmt,omitempty"`

	// Files maps glob patterns to per-pattern length-unit overrides.
	Files map[string]string `yaml:"files,omitempty"`
}

// FmtConfig holds settings for the fmt command.
type FmtConfig struct {
	Indent int `yaml:"indent,omitempty"`
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".kcl.yaml", ".kcl.yml", "kcl.yaml", "kcl.yml"}

// LoadConfig finds and loads the nearest .kcl.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- config path comes from discovery
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
