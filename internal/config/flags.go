package config

import (
	"time"

	"github.com/spf13/pflag"
)

var (
	flagConfig    = new(string)
	flagDebug     = new(bool)
	flagLogLevel  = new(string)
	flagLogFile   = new(string)
	flagOutput    = new(string)
	flagNoPreview = new(bool)
	flagTick      = new(time.Duration)
)

// BindFlags registers the config override flags on fs. Call it once while
// building the command line, before parsing.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(flagConfig, "config", "c", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(flagDebug, "debug", false, "Enable debug logging")
	fs.StringVar(flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(flagLogFile, "log-file", "", "Also write logs to this file")
	fs.StringVarP(flagOutput, "output", "o", "", "Output directory")
	fs.BoolVar(flagNoPreview, "no-preview", false, "Skip the PNG preview")
	fs.DurationVar(flagTick, "tick", 0, "Watch rebuild interval")
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagLogLevel != "" {
		cfg.Logging.Level = *flagLogLevel
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagOutput != "" {
		cfg.Output.Dir = *flagOutput
	}
	if *flagNoPreview {
		cfg.Output.Preview.Enabled = false
	}
	if *flagTick > 0 {
		cfg.Watch.Tick = *flagTick
	}
}
