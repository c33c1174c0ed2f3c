package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/roadkit/internal/config"
	"github.com/Faultbox/roadkit/internal/export"
	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/internal/logger"
	"github.com/Faultbox/roadkit/internal/scene"
)

// PreviewFile is the preview image name inside the output directory.
const PreviewFile = "preview.png"

// loadAndBuild reads the scene at path over defaults and builds it with b.
func loadAndBuild(b *scene.Builder, path string, defaults config.Defaults) (*scene.Output, error) {
	s, err := scene.Load(path, defaults)
	if err != nil {
		return nil, err
	}
	return b.Build(s), nil
}

// writeOutputs writes every artifact selected in out to its directory.
func writeOutputs(outCfg config.OutputConfig, built *scene.Output) error {
	if err := os.MkdirAll(outCfg.Dir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	for _, obj := range built.Objects {
		if outCfg.OBJ {
			path := filepath.Join(outCfg.Dir, obj.Name+".obj")
			if err := writeFile(path, func(f *os.File) error {
				return export.WriteOBJ(f, obj.Name, obj.Model)
			}); err != nil {
				return err
			}
		}
		if outCfg.STL {
			path := filepath.Join(outCfg.Dir, obj.Name+".stl")
			err := writeFile(path, func(f *os.File) error {
				return export.WriteSTL(f, obj.Name, obj.Collision, obj.Model.Transform)
			})
			if errors.Is(err, export.ErrEmptyCollision) {
				// no collider for this object
				_ = os.Remove(path)
				logger.Debug("no collision geometry", zap.String("object", obj.Name))
				continue
			}
			if err != nil {
				return err
			}
		}
	}

	if outCfg.Preview.Enabled {
		path := filepath.Join(outCfg.Dir, PreviewFile)
		if err := renderPreview(path, outCfg.Preview, built); err != nil {
			return err
		}
	}
	return nil
}

func renderPreview(path string, p config.PreviewConfig, built *scene.Output) error {
	models := make([]*mesh.Model, 0, len(built.Objects))
	for _, obj := range built.Objects {
		models = append(models, obj.Model)
	}
	err := export.RenderPreview(path, models, export.PreviewOptions{
		Width:  p.Width,
		Height: p.Height,
		Margin: p.Margin,
	})
	if errors.Is(err, export.ErrNothingToDraw) {
		logger.Warn("scene is empty, no preview written")
		return nil
	}
	return err
}

// writeFile creates path and fills it with write. A failed write removes the file.
func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	logger.Debug("wrote file", zap.String("path", path))
	return nil
}

func printSummary(built *scene.Output) {
	vertices, triangles := built.Counts()
	fmt.Printf("Built %d objects in %v\n", len(built.Objects), built.Duration)
	for _, obj := range built.Objects {
		fmt.Printf("  %-13s %-20s %7d vertices %7d triangles\n",
			obj.Kind, obj.Name, obj.Model.VertexCount(), obj.Model.TriangleCount())
		for _, a := range obj.Anchors {
			fmt.Printf("    exit %-8s at (%.1f, %.1f, %.1f)\n", a.Name, a.Position.X, a.Position.Y, a.Position.Z)
		}
	}
	fmt.Printf("Total: %d vertices, %d triangles\n", vertices, triangles)
	for _, f := range built.Failures {
		fmt.Printf("  FAILED %s\n", f.Error())
	}
}
