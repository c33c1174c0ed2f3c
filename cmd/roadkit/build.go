package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/roadkit/internal/scene"
)

var buildCmd = &cobra.Command{
	Use:   "build <scene>",
	Short: "Build a scene and write its meshes",
	Long:  "Build every object in a scene file and write OBJ, STL and preview files into the output directory.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	built, err := loadAndBuild(scene.NewBuilder(), args[0], cfg.Defaults)
	if err != nil {
		return err
	}
	if err := writeOutputs(cfg.Output, built); err != nil {
		return err
	}
	printSummary(built)
	if len(built.Failures) > 0 {
		return fmt.Errorf("%d objects failed to build", len(built.Failures))
	}
	return nil
}
