package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".siruta.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .siruta.yaml configuration file.
// Every field is optional; zero values leave the defaults untouched.
type File struct {
	BaseURL     string        `yaml:"baseURL,omitempty"`
	DateSuffix  string        `yaml:"dateSuffix,omitempty"`
	TotalIDs    int           `yaml:"count,omitempty"`
	Output      string        `yaml:"output,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Concurrency int           `yaml:"concurrency,omitempty"`
	Summary     string        `yaml:"summary,omitempty"`
	History     bool          `yaml:"history,omitempty"`
}

// ErrInvalidConfigFile wraps YAML decoding errors, including unknown keys.
var ErrInvalidConfigFile = errors.New("invalid configuration file")

// LoadConfigFile reads and decodes the YAML file at path.
// Unknown keys are rejected so that typos do not go unnoticed.
// A missing file yields ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}

	var cf File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}
	return &cf, nil
}

// configCandidates lists the default configuration locations in lookup order.
func configCandidates() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, DefaultConfigFile))
	}
	paths = append(paths, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, DefaultConfigFile))
	}
	return paths
}

// FindConfigFile returns the configuration file to load, or "" if none.
//
// An explicit configPath is returned only if it exists. Otherwise the first
// existing file among ./.siruta.yaml, $XDG_CONFIG_HOME/siruta/config.yaml
// and ~/.siruta.yaml wins.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	for _, path := range configCandidates() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
