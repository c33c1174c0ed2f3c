// Package spline implements the cubic Bezier curve that drives road generation.
package spline

import (
	"fmt"
	"strings"

	"github.com/Faultbox/roadkit/pkg/math"
)

// HandleMode controls how a point's tangent handles are derived.
type HandleMode int

const (
	// HandleAuto derives smooth handles from the neighbouring points.
	HandleAuto HandleMode = iota
	// HandleLinear collapses both handles onto the point.
	HandleLinear
	// HandleMirrored uses Out and mirrors it into In.
	HandleMirrored
	// HandleSplit keeps In and Out independent.
	HandleSplit
)

var handleModeNames = map[HandleMode]string{
	HandleAuto:     "auto",
	HandleLinear:   "linear",
	HandleMirrored: "mirrored",
	HandleSplit:    "split",
}

func (m HandleMode) String() string {
	if s, ok := handleModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("HandleMode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m HandleMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *HandleMode) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	if name == "" {
		*m = HandleAuto
		return nil
	}
	for mode, s := range handleModeNames {
		if s == name {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown handle mode %q", text)
}

// Point is a spline control point. In and Out are handle offsets relative to Position.
type Point struct {
	Position math.Vec3 `yaml:"position" toml:"position"`
	In       math.Vec3 `yaml:"in,omitempty" toml:"in,omitempty"`
	Out      math.Vec3 `yaml:"out,omitempty" toml:"out,omitempty"`
	// Roll is a twist about the tangent in degrees.
	Roll float32 `yaml:"roll,omitempty" toml:"roll,omitempty"`
	// Up is an optional up hint. Zero means world up.
	Up math.Vec3 `yaml:"up,omitempty" toml:"up,omitempty"`
	// Scale is an optional per-point scale. Zero means (1,1,1).
	Scale math.Vec3  `yaml:"scale,omitempty" toml:"scale,omitempty"`
	Mode  HandleMode `yaml:"mode,omitempty" toml:"mode,omitempty"`
}

// Definition is the serialisable form of a spline.
type Definition struct {
	Loop   bool    `yaml:"loop,omitempty" toml:"loop,omitempty"`
	Points []Point `yaml:"points" toml:"points"`
}

// Build creates the spline described by d.
func (d Definition) Build() (*Spline, error) {
	return New(d.Points, d.Loop)
}
