package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/roadkit/internal/scene"
)

var previewFile string

var previewCmd = &cobra.Command{
	Use:   "preview <scene>",
	Short: "Render a top-down PNG of a scene",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewFile, "png", "p", "preview.png", "Output image path")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	built, err := loadAndBuild(scene.NewBuilder(), args[0], cfg.Defaults)
	if err != nil {
		return err
	}
	if err := renderPreview(previewFile, cfg.Output.Preview, built); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d objects)\n", previewFile, len(built.Objects))
	return nil
}
