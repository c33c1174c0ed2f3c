package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// FileName is the config file Save writes into ConfigDir.
const FileName = "roadkit.yaml"

// baseName is the config file name without extension. Discovery accepts it
// with any of the extensions in Extensions.
const baseName = "roadkit"

// Load builds the effective configuration: defaults, then the file from
// File, then command line flags.
func Load() (*Config, error) {
	cfg := Default()

	if path := File(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)
	return cfg, nil
}

// File returns the config file Load reads: the --config flag when set,
// otherwise the first file found by discovery, or "" when there is none.
func File() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	return findConfigFile()
}

// findConfigFile searches the working directory, then ConfigDir, for
// roadkit.<ext> in Extensions order.
func findConfigFile() string {
	for _, dir := range []string{".", ConfigDir()} {
		for _, ext := range Extensions {
			path := filepath.Join(dir, baseName+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Roadkit")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Roadkit")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "roadkit")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "roadkit")
	}
}

// loadFromFile merges the file at path into cfg. The format follows FormatOf.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Unmarshal(FormatOf(path), data, cfg)
}
