package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	return c.SaveTo(filepath.Join(ConfigDir(), FileName))
}

// SaveTo writes the config to path in the format FormatOf picks for it,
// creating parent directories as needed.
func (c *Config) SaveTo(path string) error {
	format := FormatOf(path)
	data, err := Marshal(format, c)
	if err != nil {
		return fmt.Errorf("encoding %s config: %w", format, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
