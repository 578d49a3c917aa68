package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.REPL.ShowBanner {
		t.Error("Expected ShowBanner=true")
	}
	if !cfg.REPL.Echo {
		t.Error("Expected Echo=true")
	}

	if cfg.Monitor.HistorySize != 1000 {
		t.Errorf("Expected HistorySize=1000, got %d", cfg.Monitor.HistorySize)
	}
	if !cfg.Monitor.ColorOutput {
		t.Error("Expected ColorOutput=true")
	}

	if cfg.Arena.Size != 32768 {
		t.Errorf("Expected Arena.Size=32768, got %d", cfg.Arena.Size)
	}

	if cfg.IO.DefaultDir != "." {
		t.Errorf("Expected IO.DefaultDir=., got %s", cfg.IO.DefaultDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}

	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "config.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "tbasic" && path != "config.toml" {
			t.Errorf("Expected path in tbasic directory or fallback, got %s", path)
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()

	if path == "" {
		t.Error("GetLogPath returned empty string")
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "logs" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		if filepath.Base(path) != "logs" {
			t.Errorf("Expected path to end with logs, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.REPL.ShowBanner = false
	cfg.Monitor.HistorySize = 500
	cfg.Monitor.ColorOutput = false
	cfg.Arena.Size = 65536
	cfg.IO.DefaultDir = "/tmp/progs"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.REPL.ShowBanner {
		t.Error("Expected ShowBanner=false")
	}
	if loaded.Monitor.HistorySize != 500 {
		t.Errorf("Expected HistorySize=500, got %d", loaded.Monitor.HistorySize)
	}
	if loaded.Monitor.ColorOutput {
		t.Error("Expected ColorOutput=false")
	}
	if loaded.Arena.Size != 65536 {
		t.Errorf("Expected Arena.Size=65536, got %d", loaded.Arena.Size)
	}
	if loaded.IO.DefaultDir != "/tmp/progs" {
		t.Errorf("Expected IO.DefaultDir=/tmp/progs, got %s", loaded.IO.DefaultDir)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.Arena.Size != 32768 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[arena]
size = "not a number"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
