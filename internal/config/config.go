// Package config handles roadkit configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/roadkit/internal/intersection"
	"github.com/Faultbox/roadkit/internal/parking"
	"github.com/Faultbox/roadkit/internal/road"
)

// Config holds all tool settings.
type Config struct {
	Logging  LoggingConfig `yaml:"logging" toml:"logging"`
	Output   OutputConfig  `yaml:"output" toml:"output"`
	Watch    WatchConfig   `yaml:"watch" toml:"watch"`
	Defaults Defaults      `yaml:"defaults" toml:"defaults"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
	JSON    bool   `yaml:"json" toml:"json"`
}

// OutputConfig selects which artifacts a build writes.
type OutputConfig struct {
	Dir     string        `yaml:"dir" toml:"dir"`
	OBJ     bool          `yaml:"obj" toml:"obj"`
	STL     bool          `yaml:"stl" toml:"stl"`
	Preview PreviewConfig `yaml:"preview" toml:"preview"`
}

// PreviewConfig holds the top-down PNG settings.
type PreviewConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	Width   int  `yaml:"width" toml:"width"`
	Height  int  `yaml:"height" toml:"height"`
	// Margin is the border around the scene bounds, in pixels.
	Margin int `yaml:"margin" toml:"margin"`
}

// WatchConfig holds the file watcher settings.
type WatchConfig struct {
	// Tick is how often pending changes are rebuilt.
	Tick time.Duration `yaml:"tick" toml:"tick"`
}

// Defaults are the object options a scene entry starts from.
type Defaults struct {
	Road         road.Options         `yaml:"road" toml:"road"`
	Intersection intersection.Options `yaml:"intersection" toml:"intersection"`
	Parking      parking.Options      `yaml:"parking" toml:"parking"`
}

// DefaultDefaults returns the stock options of every object kind.
func DefaultDefaults() Defaults {
	return Defaults{
		Road:         road.DefaultOptions(),
		Intersection: intersection.DefaultOptions(),
		Parking:      parking.DefaultOptions(),
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Output: OutputConfig{
			Dir: "out",
			OBJ: true,
			STL: true,
			Preview: PreviewConfig{
				Enabled: true,
				Width:   1024,
				Height:  1024,
				Margin:  32,
			},
		},
		Watch: WatchConfig{
			Tick: 250 * time.Millisecond,
		},
		Defaults: DefaultDefaults(),
	}
}
