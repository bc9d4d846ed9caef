package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// A run with no flags and no configuration file uses exactly these values.
const (
	// DefaultBaseURL is the prefix of every county nomenclature document.
	// The county id and DefaultDateSuffix are appended to it.
	DefaultBaseURL = "https://mfinante.gov.ro/static/40/Mfp/nomenclatoare/nomLocalitati_"

	// DefaultDateSuffix is the publication date of the nomenclature plus the
	// file extension. The ministry republishes the files under a new date.
	DefaultDateSuffix = "_07.10.2025.xml"

	// DefaultOutputFile is the merged JSON document, relative to the working directory.
	DefaultOutputFile = "data.json"

	// DefaultTotalIDs is the number of county documents, fetched as ids 1..40.
	DefaultTotalIDs = 40

	// DefaultTimeout of zero leaves the HTTP transport default in place.
	DefaultTimeout time.Duration = 0

	// DefaultConcurrency of zero issues all requests at once.
	DefaultConcurrency = 0

	// AppName is the application name used for XDG directory paths.
	AppName = "siruta"
)

// Config holds all configuration options for a siruta run.
// It is populated from defaults, the optional configuration file and CLI
// flags, in that order, and passed down explicitly.
type Config struct {
	// BaseURL is the URL prefix of the county documents.
	BaseURL string

	// DateSuffix is appended to BaseURL and the county id.
	DateSuffix string

	// TotalIDs is the number of county documents to fetch (ids 1..TotalIDs).
	TotalIDs int

	// OutputFile is the path of the merged JSON document.
	// The file is replaced on every successful run.
	OutputFile string

	// Timeout bounds each HTTP request. Zero keeps the transport default.
	Timeout time.Duration

	// Concurrency limits the number of in-flight requests. Zero is unlimited.
	Concurrency int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the YAML configuration file given with --config.
	// When empty, the default locations of FindConfigFile are searched.
	ConfigFilePath string

	// SummaryFile is the optional Markdown run summary path.
	// When empty, no summary is written.
	SummaryFile string

	// SaveHistory records the run and its per-document outcomes in the
	// SQLite history database under DBDir.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/siruta on Linux).
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		DateSuffix:  DefaultDateSuffix,
		TotalIDs:    DefaultTotalIDs,
		OutputFile:  DefaultOutputFile,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for siruta.
// On Linux: ~/.local/share/siruta
// On macOS: ~/Library/Application Support/siruta
// On Windows: %LOCALAPPDATA%\siruta
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for siruta.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Apply overlays the non-zero values of a configuration file onto c.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.DateSuffix != "" {
		c.DateSuffix = f.DateSuffix
	}
	if f.TotalIDs != 0 {
		c.TotalIDs = f.TotalIDs
	}
	if f.Output != "" {
		c.OutputFile = f.Output
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.Concurrency != 0 {
		c.Concurrency = f.Concurrency
	}
	if f.Summary != "" {
		c.SummaryFile = f.Summary
	}
	if f.History {
		c.SaveHistory = true
	}
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrEmptyBaseURL
	}
	if c.TotalIDs <= 0 {
		return ErrInvalidCount
	}
	if c.OutputFile == "" {
		return ErrEmptyOutput
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}
	return nil
}
