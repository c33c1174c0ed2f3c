package intersection

import (
	"fmt"
	"strings"

	"github.com/Faultbox/roadkit/internal/geometry/profile"
	"github.com/Faultbox/roadkit/pkg/math"
)

// Shape selects the pad layout.
type Shape int

const (
	ShapeRectangle Shape = iota
	ShapeCircle
)

func (s Shape) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeCircle:
		return "circle"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "rectangle", "rect":
		*s = ShapeRectangle
	case "circle", "round":
		*s = ShapeCircle
	default:
		return fmt.Errorf("unknown intersection shape %q", text)
	}
	return nil
}

// Options is everything an intersection rebuild reads.
type Options struct {
	Shape    Shape     `yaml:"shape" toml:"shape"`
	Position math.Vec3 `yaml:"position" toml:"position"`
	// Yaw rotates the pad about up, in degrees.
	Yaw float32 `yaml:"yaw" toml:"yaw"`

	Road      RoadOptions      `yaml:"road" toml:"road"`
	Sidewalk  SidewalkOptions  `yaml:"sidewalk" toml:"sidewalk"`
	Rectangle RectangleOptions `yaml:"rectangle" toml:"rectangle"`
	Circle    CircleOptions    `yaml:"circle" toml:"circle"`
}

// RoadOptions configures the drivable pad.
type RoadOptions struct {
	Material      string  `yaml:"material" toml:"material"`
	TextureRepeat float32 `yaml:"texture_repeat" toml:"texture_repeat"`
}

// SidewalkOptions configures the raised border. Width or Height <= 0 disables it.
type SidewalkOptions struct {
	Material      string  `yaml:"material" toml:"material"`
	Width         float32 `yaml:"width" toml:"width"`
	Height        float32 `yaml:"height" toml:"height"`
	TextureRepeat float32 `yaml:"texture_repeat" toml:"texture_repeat"`
}

func (s SidewalkOptions) enabled() bool {
	return s.Width > 0 && s.Height > 0
}

// RectangleOptions configures a rectangular pad. Length runs along forward.
type RectangleOptions struct {
	Width  float32       `yaml:"width" toml:"width"`
	Length float32       `yaml:"length" toml:"length"`
	Exits  ExitSet       `yaml:"exits" toml:"exits"`
	Corner CornerOptions `yaml:"corner" toml:"corner"`
}

// CornerOptions rounds corners that sit between two exits. Zero segments keeps them square.
type CornerOptions struct {
	Radius   float32 `yaml:"radius" toml:"radius"`
	Segments int     `yaml:"segments" toml:"segments"`
}

// CircleOptions configures a round pad.
type CircleOptions struct {
	Radius    float32            `yaml:"radius" toml:"radius"`
	Precision float32            `yaml:"precision" toml:"precision"`
	Exits     []profile.RingExit `yaml:"exits" toml:"exits"`
}

// DefaultOptions returns the stock intersection settings.
func DefaultOptions() Options {
	return Options{
		Shape: ShapeRectangle,
		Road:  RoadOptions{TextureRepeat: 500},
		Sidewalk: SidewalkOptions{
			Width:         150,
			Height:        5,
			TextureRepeat: 200,
		},
		Rectangle: RectangleOptions{
			Width:  500,
			Length: 500,
			Exits:  NewExitSet(North, East, South, West),
		},
		Circle: CircleOptions{
			Radius:    600,
			Precision: 40,
		},
	}
}
