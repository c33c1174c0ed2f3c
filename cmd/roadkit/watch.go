package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/roadkit/internal/config"
	"github.com/Faultbox/roadkit/internal/logger"
	"github.com/Faultbox/roadkit/internal/rebuild"
	"github.com/Faultbox/roadkit/internal/scene"
	"github.com/Faultbox/roadkit/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <scene>",
	Short: "Rebuild a scene whenever it changes",
	Long: `Watch a scene file and rebuild its outputs after every change. Bursts of
edits between two ticks collapse into a single rebuild.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	builder := scene.NewBuilder()

	loop := rebuild.NewLoop(func() (*scene.Output, error) {
		return rebuildWatched(builder, path)
	})
	loop.OnPublish = printSummary

	w, err := watch.New(loop.Dirty)
	if err != nil {
		return err
	}
	defer w.Close()

	files := []string{path}
	if p := config.File(); p != "" {
		files = append(files, p)
	}
	if err := w.Add(files...); err != nil {
		return err
	}
	w.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tick := cfg.Watch.Tick
	if tick <= 0 {
		tick = config.Default().Watch.Tick
	}
	logger.Info("watching scene", zap.String("path", path), zap.Duration("tick", tick))
	loop.Dirty.Mark()
	loop.Tick()
	loop.Run(ctx, tick)
	logger.Info("watch stopped", zap.Int64("builds", loop.Builds()))
	return nil
}

// rebuildWatched reloads the config before every build, so edits to object
// defaults or output settings apply on the next tick. A config that no longer
// loads fails the rebuild and the last good output stays published.
func rebuildWatched(builder *scene.Builder, path string) (*scene.Output, error) {
	current, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("reloading config: %w", err)
	}
	built, err := loadAndBuild(builder, path, current.Defaults)
	if err != nil {
		return nil, err
	}
	return built, writeOutputs(current.Output, built)
}
