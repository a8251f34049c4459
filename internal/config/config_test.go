package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/ward-profiles/internal/ckan"
)

// chdir moves into a fresh directory so no stray .env or config file is read.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("base-url", "", "")
	fs.String("package-id", "", "")
	fs.String("output-path", "", "")
	fs.Duration("timeout", 0, "")
	fs.Bool("verbose", false, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ckan.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "ward-profiles-25-ward-model", cfg.PackageID)
	assert.Equal(t, "2023-wardprofiles-2011-2021-censusdata", cfg.ResourceName)
	assert.Equal(t, "2023_WardProfiles_2011_2021_CensusData.xlsx", cfg.SpreadsheetPath)
	assert.Equal(t, "data/01-raw_data/raw_data_ward_profile.csv", cfg.OutputPath)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Verbose)
}

func TestLoad_Precedence(t *testing.T) {
	dir := chdir(t)

	yaml := "package_id: from-file\noutput_path: file.csv\nresource_name: file-resource\ntimeout: 5s\n"
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0644))

	t.Setenv("WARD_PROFILES_OUTPUT_PATH", "env.csv")
	t.Setenv("WARD_PROFILES_RESOURCE_NAME", "env-resource")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--output-path", "flag.csv", "--verbose"}))

	cfg, err := Load(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.PackageID, "file overrides default")
	assert.Equal(t, "env-resource", cfg.ResourceName, "env overrides file")
	assert.Equal(t, "flag.csv", cfg.OutputPath, "flag overrides env")
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, ckan.DefaultBaseURL, cfg.BaseURL, "unset flags do not clobber defaults")
}

func TestLoad_DefaultConfigFile(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("package_id: picked-up\n"), 0644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "picked-up", cfg.PackageID)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WARD_PROFILES_PACKAGE_ID=from-dotenv\n"), 0644))
	// registered so the variable godotenv sets is removed after the test
	t.Setenv("WARD_PROFILES_PACKAGE_ID", "")
	require.NoError(t, os.Unsetenv("WARD_PROFILES_PACKAGE_ID"))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.PackageID)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdir(t)

	_, err := Load("does-not-exist.yaml", nil)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	chdir(t)

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--base-url", "ftp://example.com"}))

	_, err := Load("", flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"defaults valid", func(*Config) {}, ""},
		{"json format", func(c *Config) { c.Format = "JSON" }, ""},
		{"empty package", func(c *Config) { c.PackageID = "" }, "package_id is required"},
		{"blank resource", func(c *Config) { c.ResourceName = "  " }, "resource_name is required"},
		{"empty output", func(c *Config) { c.OutputPath = "" }, "output_path is required"},
		{"bad format", func(c *Config) { c.Format = "xml" }, "invalid format"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
		{"non-http base", func(c *Config) { c.BaseURL = "localhost:8080" }, "base_url must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}
