package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/roadkit/internal/geometry/frame"
	"github.com/Faultbox/roadkit/internal/road"
	"github.com/Faultbox/roadkit/internal/scene"
	"github.com/Faultbox/roadkit/pkg/math"
)

// framesQuery selects which frames of a road get printed.
type framesQuery struct {
	Road    string
	Count   int
	Mode    string
	Spacing float32
	Near    []float32
}

var framesFlags framesQuery

var framesCmd = &cobra.Command{
	Use:   "frames <scene>",
	Short: "Print frames along a road",
	Long: `Sample a road's spline and print the frames as YAML, for placing props such
as lamp posts or barriers along the road.

By default --count frames are spread evenly over the road. --spacing prints a
frame every given distance instead, and --near prints the single frame closest
to a point.`,
	Example: `  roadkit frames town.yaml --road main --count 20
  roadkit frames town.yaml --spacing 800
  roadkit frames town.yaml --near 1200,300,0`,
	Args: cobra.ExactArgs(1),
	RunE: runFrames,
}

func init() {
	f := framesCmd.Flags()
	f.StringVarP(&framesFlags.Road, "road", "r", "", "Road name (defaults to the first road)")
	f.IntVarP(&framesFlags.Count, "count", "n", 10, "Number of evenly spaced frames")
	f.StringVar(&framesFlags.Mode, "mode", "", "Frame mode (up_vector or rotation_minimizing), defaults to the road's")
	f.Float32Var(&framesFlags.Spacing, "spacing", 0, "Distance between frames, overrides --count")
	f.Float32SliceVar(&framesFlags.Near, "near", nil, "Print the frame closest to x,y,z")
	rootCmd.AddCommand(framesCmd)
}

// frameDoc is the YAML form of one frame.
type frameDoc struct {
	Distance float32   `yaml:"distance"`
	Position math.Vec3 `yaml:"position"`
	Forward  math.Vec3 `yaml:"forward"`
	Right    math.Vec3 `yaml:"right"`
	Up       math.Vec3 `yaml:"up"`
	Scale    math.Vec3 `yaml:"scale"`
	Matrix   math.Mat4 `yaml:"matrix,flow"`
}

func newFrameDoc(f frame.Frame) frameDoc {
	return frameDoc{
		Distance: f.Distance,
		Position: f.Position,
		Forward:  f.Rotation.Forward,
		Right:    f.Rotation.Right,
		Up:       f.Rotation.Up,
		Scale:    f.Scale,
		Matrix:   f.Transform(),
	}
}

func runFrames(cmd *cobra.Command, args []string) error {
	s, err := scene.Load(args[0], cfg.Defaults)
	if err != nil {
		return err
	}
	return writeFrames(os.Stdout, s, framesFlags)
}

// selectFrames samples the road and applies the query.
func selectFrames(r scene.Road, q framesQuery) (frame.Mode, []frame.Frame, error) {
	mode := r.Options.FrameMode
	if q.Mode != "" {
		if err := mode.UnmarshalText([]byte(q.Mode)); err != nil {
			return mode, nil, err
		}
	}
	if q.Near != nil && len(q.Near) != 3 {
		return mode, nil, fmt.Errorf("--near wants x,y,z, got %d values", len(q.Near))
	}

	curve, err := r.Spline.Build()
	if err != nil {
		return mode, nil, err
	}

	count := q.Count
	if q.Spacing > 0 || q.Near != nil {
		// dense enough that interpolation follows the curve like the mesh does
		count = max(count, road.SegmentCount(curve.Length(), r.Options.Surface.Precision)+1)
	}
	frames, err := frame.Sample(curve, count, mode)
	if err != nil {
		return mode, nil, err
	}

	switch {
	case q.Near != nil:
		p := math.Vec3{X: q.Near[0], Y: q.Near[1], Z: q.Near[2]}
		return mode, []frame.Frame{frame.Nearest(curve, frames, p)}, nil
	case q.Spacing > 0:
		return mode, frame.Every(frames, q.Spacing), nil
	}
	return mode, frames, nil
}

// writeFrames prints the selected frames of one road in s as YAML.
func writeFrames(w io.Writer, s *scene.Scene, q framesQuery) error {
	if len(s.Roads) == 0 {
		return fmt.Errorf("scene %s has no roads", s.Path)
	}
	r := s.Roads[0]
	if q.Road != "" {
		var err error
		if r, err = s.Road(q.Road); err != nil {
			return err
		}
	}

	mode, frames, err := selectFrames(r, q)
	if err != nil {
		return fmt.Errorf("road %s: %w", r.Name, err)
	}

	docs := make([]frameDoc, len(frames))
	for i, f := range frames {
		docs[i] = newFrameDoc(f)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"road": r.Name, "mode": mode, "frames": docs}); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
