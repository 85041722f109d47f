package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// setupHome points HOME at a fresh temp dir and resets viper
func setupHome(t *testing.T) string {
	t.Helper()
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	viper.Reset()
	return tmpHome
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".config", "cfl")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestGetTimeout(t *testing.T) {
	tests := []struct {
		name     string
		timeout  int
		expected time.Duration
	}{
		{name: "30 seconds", timeout: 30, expected: 30 * time.Second},
		{name: "60 seconds", timeout: 60, expected: 60 * time.Second},
		{name: "5 seconds", timeout: 5, expected: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := SourceConfig{Timeout: tt.timeout}
			if result := cfg.GetTimeout(); result != tt.expected {
				t.Errorf("GetTimeout() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		location string
		expected bool
	}{
		{"https://example.com/list.jsonc", true},
		{"http://localhost:8080/list.jsonc", true},
		{"HTTPS://EXAMPLE.COM/list.jsonc", true},
		{"/srv/data/list.jsonc", false},
		{"~/list.jsonc", false},
		{"list.jsonc", false},
		{"", false},
	}

	for _, tt := range tests {
		cfg := SourceConfig{Location: tt.location}
		if got := cfg.IsRemote(); got != tt.expected {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.location, got, tt.expected)
		}
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/test/home")

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "tilde alone", path: "~", expected: "/test/home"},
		{name: "tilde with path", path: "~/data/list.jsonc", expected: "/test/home/data/list.jsonc"},
		{name: "absolute path", path: "/absolute/path", expected: "/absolute/path"},
		{name: "relative path", path: "relative/path", expected: "relative/path"},
		{name: "empty path", path: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Skip "tilde with path" test on Windows due to path separator differences
			if runtime.GOOS == "windows" && tt.name == "tilde with path" {
				t.Skip("Skipping test on Windows: path separators differ")
			}
			if result := expandPath(tt.path); result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpHome := setupHome(t)

	cfg := &Config{
		Source:  SourceConfig{Location: "https://data.test.com/list.jsonc", Timeout: 45, Retries: 4},
		Search:  SearchConfig{IndexThreshold: 250},
		Cache:   CacheConfig{MaxEntries: 1000},
		Session: SessionConfig{MaxRetries: 5},
	}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	configPath := filepath.Join(tmpHome, ".config", "cfl", "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Errorf("Config file was not created at %s", configPath)
	}

	viper.Reset()
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if *loaded != *cfg {
		t.Errorf("Loaded config = %+v, want %+v", *loaded, *cfg)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpHome := setupHome(t)
	writeConfig(t, tmpHome, `source:
  location: "https://data.test.com/list.jsonc"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Source.Timeout != 30 {
		t.Errorf("Default timeout = %d, want 30", cfg.Source.Timeout)
	}
	if cfg.Source.Retries != 2 {
		t.Errorf("Default retries = %d, want 2", cfg.Source.Retries)
	}
	if cfg.Search.IndexThreshold != 100 {
		t.Errorf("Default index threshold = %d, want 100", cfg.Search.IndexThreshold)
	}
	if cfg.Cache.MaxEntries != 0 {
		t.Errorf("Default max entries = %d, want 0", cfg.Cache.MaxEntries)
	}
	if cfg.Session.MaxRetries != 3 {
		t.Errorf("Default max retries = %d, want 3", cfg.Session.MaxRetries)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default("list.jsonc")

	if cfg.Source.Location != "list.jsonc" {
		t.Errorf("Location = %q, want list.jsonc", cfg.Source.Location)
	}
	if cfg.Source.Timeout != 30 || cfg.Source.Retries != 2 {
		t.Errorf("Unexpected source defaults: %+v", cfg.Source)
	}
	if cfg.Search.IndexThreshold != 100 || cfg.Session.MaxRetries != 3 || cfg.Cache.MaxEntries != 0 {
		t.Errorf("Unexpected defaults: %+v", *cfg)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{name: "missing location", config: "source:\n  timeout: 10\n"},
		{name: "blank location", config: "source:\n  location: \"   \"\n"},
		{name: "only cache section", config: "cache:\n  max_entries: 10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpHome := setupHome(t)
			writeConfig(t, tmpHome, tt.config)

			if _, err := Load(); !errors.Is(err, ErrConfigNotFound) {
				t.Errorf("Expected ErrConfigNotFound, got: %v", err)
			}
		})
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	setupHome(t)

	if _, err := Load(); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound without config file, got: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	tmpHome := setupHome(t)
	writeConfig(t, tmpHome, `source:
  location: "https://data.test.com/list.jsonc"
`)

	t.Setenv("CFL_SOURCE_LOCATION", "https://override.test.com/list.jsonc")
	t.Setenv("CFL_CACHE_MAX_ENTRIES", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Source.Location != "https://override.test.com/list.jsonc" {
		t.Errorf("Location = %q, want env override", cfg.Source.Location)
	}
	if cfg.Cache.MaxEntries != 500 {
		t.Errorf("MaxEntries = %d, want 500", cfg.Cache.MaxEntries)
	}
}

func TestLoadEnvOnly(t *testing.T) {
	setupHome(t)
	t.Setenv("CFL_SOURCE_LOCATION", "https://env.test.com/list.jsonc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Source.Location != "https://env.test.com/list.jsonc" {
		t.Errorf("Location = %q, want env value", cfg.Source.Location)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	tmpHome := setupHome(t)

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir failed: %v", err)
	}

	configDir := filepath.Join(tmpHome, ".config", "cfl")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Errorf("Config directory was not created")
	}

	// Second call should be idempotent
	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("Second EnsureConfigDir failed: %v", err)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tmpHome := setupHome(t)
	writeConfig(t, tmpHome, `source:
  location: "https://data.test.com/list.jsonc"
  timeout: 0
  retries: -1
search:
  index_threshold: -5
cache:
  max_entries: -10
session:
  max_retries: -2
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Source.Timeout != 30 {
		t.Errorf("Invalid timeout should fallback to 30, got %d", cfg.Source.Timeout)
	}
	if cfg.Source.Retries != 0 {
		t.Errorf("Negative retries should clamp to 0, got %d", cfg.Source.Retries)
	}
	if cfg.Search.IndexThreshold != 100 {
		t.Errorf("Negative threshold should fallback to 100, got %d", cfg.Search.IndexThreshold)
	}
	if cfg.Cache.MaxEntries != 0 {
		t.Errorf("Negative max entries should clamp to 0, got %d", cfg.Cache.MaxEntries)
	}
	if cfg.Session.MaxRetries != 3 {
		t.Errorf("Negative max retries should fallback to 3, got %d", cfg.Session.MaxRetries)
	}
}

func TestLoadExpandTildeLocation(t *testing.T) {
	tmpHome := setupHome(t)
	writeConfig(t, tmpHome, `source:
  location: "~/data/list.jsonc"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	expected := filepath.Join(tmpHome, "data", "list.jsonc")
	if cfg.Source.Location != expected {
		t.Errorf("Location = %q, want %q (tilde should be expanded)", cfg.Source.Location, expected)
	}
}

func TestExampleConfigPath(t *testing.T) {
	t.Setenv("HOME", "/tmp/test-home")

	expected := filepath.Join("/tmp/test-home", ".config", "cfl", "config.yaml.example")
	if result := ExampleConfigPath(); result != expected {
		t.Errorf("ExampleConfigPath() = %q, want %q", result, expected)
	}
}

func TestCreateExampleConfig(t *testing.T) {
	setupHome(t)

	if err := CreateExampleConfig(); err != nil {
		t.Fatalf("CreateExampleConfig failed: %v", err)
	}

	content, err := os.ReadFile(ExampleConfigPath())
	if err != nil {
		t.Fatalf("Failed to read example config: %v", err)
	}

	contentStr := string(content)
	expectedStrings := []string{
		"# CFL Configuration File",
		"source:",
		"location:",
		"timeout:",
		"retries:",
		"index_threshold:",
		"max_entries:",
		"max_retries:",
		"CFL_SOURCE_LOCATION",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(contentStr, expected) {
			t.Errorf("Example config missing expected content: %q", expected)
		}
	}
}

func TestLoadCorruptedConfigFile(t *testing.T) {
	tmpHome := setupHome(t)
	writeConfig(t, tmpHome, `source:
  location: "https://data.test.com/list.jsonc"
  invalid yaml syntax ][{
`)

	_, err := Load()
	if err == nil {
		t.Error("Expected error when loading corrupted config file, got nil")
	}
	if errors.Is(err, ErrConfigNotFound) {
		t.Error("Should not return ErrConfigNotFound for corrupted file")
	}
}

func TestLoad_UnmarshalError(t *testing.T) {
	tmpHome := setupHome(t)
	writeConfig(t, tmpHome, `source:
  location: "https://data.test.com/list.jsonc"
  timeout: [not, an, int]
`)

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error when config has wrong types, got nil")
	}
	if !strings.Contains(err.Error(), "error unmarshaling config") {
		t.Errorf("Expected 'error unmarshaling config' in error, got: %v", err)
	}
}

func TestSave_WriteConfigError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("Skipping test when running as root")
	}

	tmpHome := setupHome(t)
	cfg := Default("https://data.test.com/list.jsonc")

	configDir := filepath.Join(tmpHome, ".config", "cfl")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("old"), 0444); err != nil {
		t.Fatalf("Failed to create read-only file: %v", err)
	}
	defer os.Chmod(configPath, 0644)

	err := cfg.Save()
	if err == nil {
		t.Fatal("Save should fail when config file is read-only")
	}
	if !strings.Contains(err.Error(), "failed to write config file") {
		t.Errorf("Expected 'failed to write config file' in error, got: %v", err)
	}
}

func TestSave_EnsureConfigDirError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows: chmod doesn't work the same way")
	}
	if os.Getuid() == 0 {
		t.Skip("Skipping test when running as root")
	}

	tmpHome := setupHome(t)
	cfg := Default("https://data.test.com/list.jsonc")

	// Read-only .config prevents creating cfl inside it
	configParent := filepath.Join(tmpHome, ".config")
	if err := os.MkdirAll(configParent, 0755); err != nil {
		t.Fatalf("Failed to create .config dir: %v", err)
	}
	if err := os.Chmod(configParent, 0555); err != nil {
		t.Fatalf("Failed to chmod directory: %v", err)
	}
	defer os.Chmod(configParent, 0755)

	err := cfg.Save()
	if err == nil {
		t.Fatal("Save should fail when EnsureConfigDir cannot create directory")
	}
	if !strings.Contains(err.Error(), "failed to create config directory") {
		t.Errorf("Expected 'failed to create config directory' in error, got: %v", err)
	}
}

func TestCreateExampleConfig_WriteError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("Skipping test when running as root")
	}

	setupHome(t)
	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	examplePath := ExampleConfigPath()
	if err := os.WriteFile(examplePath, []byte("old"), 0444); err != nil {
		t.Fatalf("Failed to create read-only file: %v", err)
	}
	defer os.Chmod(examplePath, 0644)

	if err := CreateExampleConfig(); err == nil {
		t.Error("CreateExampleConfig should fail when file is read-only")
	}
}
