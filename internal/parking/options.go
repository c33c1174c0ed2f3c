package parking

import (
	"fmt"
	"strings"

	"github.com/Faultbox/roadkit/pkg/math"
)

// Caps selects which end lines of the row are drawn.
type Caps uint8

const (
	CapStart Caps = 1 << iota
	CapEnd

	CapNone Caps = 0
	CapBoth      = CapStart | CapEnd
)

// Has reports whether c includes every cap in other.
func (c Caps) Has(other Caps) bool {
	return c&other == other
}

func (c Caps) String() string {
	switch c {
	case CapNone:
		return "none"
	case CapStart:
		return "start"
	case CapEnd:
		return "end"
	case CapBoth:
		return "start,end"
	}
	return fmt.Sprintf("Caps(%d)", uint8(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Caps) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts "none", "both"
// or a comma separated list of "start" and "end".
func (c *Caps) UnmarshalText(text []byte) error {
	var v Caps
	for _, part := range strings.Split(string(text), ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "", "none":
		case "start":
			v |= CapStart
		case "end":
			v |= CapEnd
		case "both":
			v |= CapBoth
		default:
			return fmt.Errorf("unknown line cap %q", part)
		}
	}
	*c = v
	return nil
}

// Options is everything a parking lot rebuild reads.
type Options struct {
	Position math.Vec3 `yaml:"position" toml:"position"`
	Yaw      float32   `yaml:"yaw" toml:"yaw"`

	SpotCount  int     `yaml:"spot_count" toml:"spot_count"`
	SpotLength float32 `yaml:"spot_length" toml:"spot_length"`
	SpotWidth  float32 `yaml:"spot_width" toml:"spot_width"`
	// SpotAngle tilts the spots in degrees. 0 is perpendicular to the row.
	SpotAngle float32 `yaml:"spot_angle" toml:"spot_angle"`
	// SpotAngleThreshold floors the cosine used for spacing so steep angles stay packed.
	SpotAngleThreshold float32 `yaml:"spot_angle_threshold" toml:"spot_angle_threshold"`

	Lines LinesOptions `yaml:"lines" toml:"lines"`
	Curbs CurbsOptions `yaml:"curbs" toml:"curbs"`
}

// LinesOptions configures the separator lines.
type LinesOptions struct {
	Material      string  `yaml:"material" toml:"material"`
	Caps          Caps    `yaml:"caps" toml:"caps"`
	Width         float32 `yaml:"width" toml:"width"`
	Offset        float32 `yaml:"offset" toml:"offset"`
	TextureRepeat float32 `yaml:"texture_repeat" toml:"texture_repeat"`
}

// CurbsOptions configures the wheel stops at the back of each spot.
type CurbsOptions struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	Material string `yaml:"material" toml:"material"`
	Segments int    `yaml:"segments" toml:"segments"`
	// FillRatio is the share of the spot width a curb covers.
	FillRatio     float32 `yaml:"fill_ratio" toml:"fill_ratio"`
	Height        float32 `yaml:"height" toml:"height"`
	Depth         float32 `yaml:"depth" toml:"depth"`
	Offset        float32 `yaml:"offset" toml:"offset"`
	TextureRepeat float32 `yaml:"texture_repeat" toml:"texture_repeat"`
}

// DefaultOptions returns the stock parking lot settings.
func DefaultOptions() Options {
	return Options{
		SpotCount:          10,
		SpotLength:         250,
		SpotWidth:          150,
		SpotAngleThreshold: 0.5,
		Lines: LinesOptions{
			Caps:          CapBoth,
			Width:         5,
			Offset:        0.1,
			TextureRepeat: 10,
		},
		Curbs: CurbsOptions{
			Segments:      3,
			FillRatio:     0.667,
			Height:        8,
			Depth:         12,
			Offset:        6,
			TextureRepeat: 10,
		},
	}
}

// normalized clamps values into their working ranges.
func (o Options) normalized() Options {
	o.SpotCount = max(o.SpotCount, 0)
	o.SpotAngle = math.Clamp(o.SpotAngle, -90, 90)
	o.SpotAngleThreshold = math.Clamp(o.SpotAngleThreshold, 0.5, 1)
	o.Lines.TextureRepeat = math.Clamp(o.Lines.TextureRepeat, 1, 100000)
	o.Curbs.TextureRepeat = math.Clamp(o.Curbs.TextureRepeat, 1, 100000)
	return o
}
