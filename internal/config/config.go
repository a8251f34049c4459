package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/pfrederiksen/ward-profiles/internal/ckan"
)

const (
	DefaultPackageID       = "ward-profiles-25-ward-model"
	DefaultResourceName    = "2023-wardprofiles-2011-2021-censusdata"
	DefaultSpreadsheetPath = "2023_WardProfiles_2011_2021_CensusData.xlsx"
	DefaultOutputPath      = "data/01-raw_data/raw_data_ward_profile.csv"
	DefaultFormat          = "text"
	DefaultLogLevel        = "info"

	// DefaultConfigFile is read when present and --config is not given.
	DefaultConfigFile = "ward-profiles.yaml"
	// EnvPrefix prefixes environment overrides, e.g. WARD_PROFILES_PACKAGE_ID.
	EnvPrefix = "WARD_PROFILES_"
)

// Config holds everything a run needs.
type Config struct {
	BaseURL         string        `koanf:"base_url" json:"base_url"`
	PackageID       string        `koanf:"package_id" json:"package_id"`
	ResourceName    string        `koanf:"resource_name" json:"resource_name"`
	SpreadsheetPath string        `koanf:"spreadsheet_path" json:"spreadsheet_path"`
	OutputPath      string        `koanf:"output_path" json:"output_path"`
	Timeout         time.Duration `koanf:"timeout" json:"timeout"`
	UserAgent       string        `koanf:"user_agent" json:"user_agent"`
	Format          string        `koanf:"format" json:"format"`
	LogLevel        string        `koanf:"log_level" json:"log_level"`
	Verbose         bool          `koanf:"verbose" json:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:         ckan.DefaultBaseURL,
		PackageID:       DefaultPackageID,
		ResourceName:    DefaultResourceName,
		SpreadsheetPath: DefaultSpreadsheetPath,
		OutputPath:      DefaultOutputPath,
		UserAgent:       ckan.UserAgent,
		Format:          DefaultFormat,
		LogLevel:        DefaultLogLevel,
	}
}

func defaultsMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"base_url":         d.BaseURL,
		"package_id":       d.PackageID,
		"resource_name":    d.ResourceName,
		"spreadsheet_path": d.SpreadsheetPath,
		"output_path":      d.OutputPath,
		"timeout":          "0s",
		"user_agent":       d.UserAgent,
		"format":           d.Format,
		"log_level":        d.LogLevel,
		"verbose":          false,
	}
}

// Load resolves the configuration. cfgFile may be empty; flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// .env is optional; a missing file is not an error
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	// WARD_PROFILES_OUTPUT_PATH -> output_path
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// findConfigFile returns the explicit path, or the default file if it exists.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// Validate checks that required settings are present and well-formed.
func (c *Config) Validate() error {
	var errs []error
	required := []struct {
		key, val string
	}{
		{"base_url", c.BaseURL},
		{"package_id", c.PackageID},
		{"resource_name", c.ResourceName},
		{"spreadsheet_path", c.SpreadsheetPath},
		{"output_path", c.OutputPath},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.key))
		}
	}

	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("base_url must be an http(s) URL: %q", c.BaseURL))
	}

	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid format: %s (must be 'text' or 'json')", c.Format))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative: %s", c.Timeout))
	}

	return errors.Join(errs...)
}
