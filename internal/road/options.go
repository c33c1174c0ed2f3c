package road

import (
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/roadkit/internal/geometry/frame"
	"github.com/Faultbox/roadkit/internal/geometry/simplify"
	"github.com/Faultbox/roadkit/pkg/math"
)

// Limits applied to line definitions.
const (
	MaxDashSpacing = 10000
)

// Options is everything a road rebuild reads.
type Options struct {
	FrameMode frame.Mode       `yaml:"frame_mode" toml:"frame_mode"`
	Simplify  simplify.Options `yaml:"simplify" toml:"simplify"`
	Surface   SurfaceOptions   `yaml:"surface" toml:"surface"`
	Sidewalk  SidewalkOptions  `yaml:"sidewalk" toml:"sidewalk"`
	Lines     LinesOptions     `yaml:"lines" toml:"lines"`
}

// SurfaceOptions configures the drivable surface.
type SurfaceOptions struct {
	Material string  `yaml:"material" toml:"material"`
	Width    float32 `yaml:"width" toml:"width"`
	// Precision is the target segment length along the curve.
	Precision     float32 `yaml:"precision" toml:"precision"`
	TextureRepeat float32 `yaml:"texture_repeat" toml:"texture_repeat"`
}

// SidewalkOptions configures the raised curbs on both sides.
type SidewalkOptions struct {
	Enabled       bool    `yaml:"enabled" toml:"enabled"`
	Material      string  `yaml:"material" toml:"material"`
	Width         float32 `yaml:"width" toml:"width"`
	Height        float32 `yaml:"height" toml:"height"`
	TextureRepeat float32 `yaml:"texture_repeat" toml:"texture_repeat"`
}

// LinesOptions configures painted line markings.
type LinesOptions struct {
	Definitions []LineDefinition `yaml:"definitions" toml:"definitions"`
	// Offset lifts lines above the surface.
	Offset float32 `yaml:"offset" toml:"offset"`
	Width  float32 `yaml:"width" toml:"width"`
	// ExtraSpacing widens the span the lines are distributed over.
	ExtraSpacing  float32 `yaml:"extra_spacing" toml:"extra_spacing"`
	TextureRepeat float32 `yaml:"texture_repeat" toml:"texture_repeat"`
}

// LineDefinition is one marking. A zero DashSpacing draws a solid line.
type LineDefinition struct {
	Material      string  `yaml:"material" toml:"material"`
	DashSpacing   float32 `yaml:"dash_spacing" toml:"dash_spacing"`
	DashFillRatio float32 `yaml:"dash_fill_ratio" toml:"dash_fill_ratio"`
}

// UnmarshalYAML decodes a definition. An omitted dash_fill_ratio means fully drawn.
func (d *LineDefinition) UnmarshalYAML(value *yaml.Node) error {
	type plain LineDefinition
	v := plain{DashFillRatio: 1}
	if err := value.Decode(&v); err != nil {
		return err
	}
	*d = LineDefinition(v)
	return nil
}

// Normalized returns the definition with its dash values clamped to range.
func (d LineDefinition) Normalized() LineDefinition {
	d.DashSpacing = math.Clamp(d.DashSpacing, 0, MaxDashSpacing)
	d.DashFillRatio = math.Clamp(d.DashFillRatio, 0, 1)
	return d
}

// SolidLine returns a solid line definition.
func SolidLine(material string) LineDefinition {
	return LineDefinition{Material: material, DashFillRatio: 1}
}

// DefaultOptions returns the stock road settings.
func DefaultOptions() Options {
	return Options{
		FrameMode: frame.ModeUpVector,
		Simplify:  simplify.DefaultOptions(),
		Surface: SurfaceOptions{
			Width:         500,
			Precision:     40,
			TextureRepeat: 500,
		},
		Sidewalk: SidewalkOptions{
			Enabled:       true,
			Width:         150,
			Height:        5,
			TextureRepeat: 200,
		},
		Lines: LinesOptions{
			Offset:        0.1,
			Width:         1,
			TextureRepeat: 10,
		},
	}
}

// LineOffset returns the lateral offset of line i of n across a road of the given width.
func (o LinesOptions) LineOffset(i, n int, roadWidth float32) float32 {
	w := roadWidth + o.ExtraSpacing
	return float32(i+1)*w/float32(n+1) - w/2
}
