// Package main is the entry point for the roadkit command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/roadkit/internal/config"
	"github.com/Faultbox/roadkit/internal/logger"
)

// cfg is loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "roadkit",
	Short: "Procedural road, intersection and parking lot geometry",
	Long: `roadkit turns spline scene files into road meshes. It builds the drivable
surface, sidewalks and line markings of every road, junction pads and parking
lots, and writes render meshes (OBJ), collision meshes (STL) and a top-down
PNG preview.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		// Initialize logger
		opts := logger.Options{Level: cfg.Logging.Level, Console: true, JSON: cfg.Logging.JSON}
		if cfg.Logging.LogFile != "" {
			opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
		}
		if err := logger.InitWithOptions(opts); err != nil {
			return fmt.Errorf("logger error: %w", err)
		}
		logger.Sugar.Debugf("Config: %+v", cfg)
		return nil
	},
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		logger.Error("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
