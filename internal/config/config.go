// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"vmcatalog/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Session contains HTTP session and retry configuration
	Session SessionConfig `json:"session"`

	// Azure contains Azure retail pricing source configuration
	Azure AzureConfig `json:"azure"`

	// AWS contains instance catalog source configuration
	AWS AWSConfig `json:"aws"`

	// Output contains export configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// SessionConfig contains HTTP retry settings
type SessionConfig struct {
	// MaxRetries is the number of automatic retries for transient failures
	MaxRetries int `json:"max_retries"`

	// RetryStatusCodes are the HTTP statuses treated as transient
	RetryStatusCodes []int `json:"retry_status_codes"`

	// BackoffFactorSeconds controls the exponential delay between retries
	BackoffFactorSeconds float64 `json:"backoff_factor_seconds"`

	// BackoffMaxSeconds caps the delay between retries
	BackoffMaxSeconds int `json:"backoff_max_seconds"`

	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int `json:"timeout_seconds"`
}

// AzureConfig contains the paginated pricing source settings
type AzureConfig struct {
	// PricingURL is the first page of the retail prices API
	PricingURL string `json:"pricing_url"`

	// RecordLimit bounds the total records collected
	RecordLimit int `json:"record_limit"`

	// SeriesPrefixes is the SKU prefix allowlist
	SeriesPrefixes []string `json:"series_prefixes"`

	// PageDelayMillis is the polite delay between page requests
	PageDelayMillis int `json:"page_delay_millis"`

	// MaxTimeoutRetries bounds consecutive timeout retries on one page
	MaxTimeoutRetries int `json:"max_timeout_retries"`
}

// AWSConfig contains the fallback catalog source settings
type AWSConfig struct {
	// CatalogURLs are the instance catalog mirrors, tried in order
	CatalogURLs []string `json:"catalog_urls"`
}

// OutputConfig contains export settings
type OutputConfig struct {
	// WorkbookPath is the spreadsheet artifact path
	WorkbookPath string `json:"workbook_path"`

	// CSVDir is where per-collection CSV fallbacks are written
	CSVDir string `json:"csv_dir"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Session: SessionConfig{
			MaxRetries:           5,
			RetryStatusCodes:     []int{429, 500, 502, 503, 504},
			BackoffFactorSeconds: 5,
			BackoffMaxSeconds:    120,
			TimeoutSeconds:       60,
		},
		Azure: AzureConfig{
			PricingURL:        "https://prices.azure.com/api/retail/prices?$filter=serviceName eq 'Virtual Machines'",
			RecordLimit:       2000,
			SeriesPrefixes:    []string{"P", "T", "B", "D", "H", "F"},
			PageDelayMillis:   1500,
			MaxTimeoutRetries: 5,
		},
		AWS: AWSConfig{
			CatalogURLs: []string{
				"https://ec2instances.info/instances.json",
				"https://raw.githubusercontent.com/powdahound/ec2instances.info/master/www/instances.json",
			},
		},
		Output: OutputConfig{
			WorkbookPath: "cloud_vm_benchmarks.xlsx",
			CSVDir:       ".",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnvOverrides overlays VMCATALOG_* environment variables.
// These usually arrive via a .env file loaded at startup.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("VMCATALOG_WORKBOOK"); v != "" {
		c.Output.WorkbookPath = v
	}
	if v := os.Getenv("VMCATALOG_CSV_DIR"); v != "" {
		c.Output.CSVDir = v
	}
	if v := os.Getenv("VMCATALOG_RECORD_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Azure.RecordLimit = n
		}
	}
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
