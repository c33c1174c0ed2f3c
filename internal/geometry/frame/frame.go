// Package frame samples oriented frames along a curve.
package frame

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/roadkit/pkg/math"
	"github.com/Faultbox/roadkit/pkg/spline"
)

// ErrTooFewFrames is returned when fewer than two frames are requested.
var ErrTooFewFrames = errors.New("frame count must be at least 2")

// parallelLimit is the |dot(tangent, up)| above which the up hint is replaced.
const parallelLimit = 0.999

// Curve is the read-only view of a spline the sampler needs.
type Curve interface {
	Length() float32
	SampleAtDistance(d float32) spline.Sample
	// ClosestPoint projects p onto the curve, returning the distance and position.
	ClosestPoint(p math.Vec3) (float32, math.Vec3)
	IsLoop() bool
}

// Frame is a position with an orthonormal orientation at a distance along the curve.
type Frame struct {
	Position math.Vec3
	Rotation math.Basis
	Scale    math.Vec3
	Distance float32
}

// Mode selects the orientation algorithm.
type Mode int

const (
	// ModeUpVector orients each frame independently from the curve's up hint.
	ModeUpVector Mode = iota
	// ModeRotationMinimizing transports the first frame along the curve without twist.
	ModeRotationMinimizing
)

func (m Mode) String() string {
	switch m {
	case ModeUpVector:
		return "up_vector"
	case ModeRotationMinimizing:
		return "rotation_minimizing"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "up_vector", "up":
		*m = ModeUpVector
	case "rotation_minimizing", "rmf":
		*m = ModeRotationMinimizing
	default:
		return fmt.Errorf("unknown frame mode %q", text)
	}
	return nil
}

// Sample returns count frames at distances i/(count-1) * length.
func Sample(curve Curve, count int, mode Mode) ([]Frame, error) {
	if count < 2 {
		return nil, fmt.Errorf("sampling %d frames: %w", count, ErrTooFewFrames)
	}
	if mode == ModeRotationMinimizing {
		return sampleRotationMinimizing(curve, count), nil
	}
	return sampleUpVector(curve, count), nil
}

func distanceAt(curve Curve, i, count int) float32 {
	return float32(i) / float32(count-1) * curve.Length()
}

// seedUp returns the up hint, replaced by world right when it is nearly parallel to the tangent.
func seedUp(s spline.Sample) math.Vec3 {
	up := s.Up
	if math32.Abs(s.Tangent.Dot(up)) > parallelLimit {
		up = math.WorldRight
	}
	return up
}

func sampleUpVector(curve Curve, count int) []Frame {
	frames := make([]Frame, count)
	for i := range frames {
		d := distanceAt(curve, i, count)
		s := curve.SampleAtDistance(d)
		up := math.RotateAround(seedUp(s), s.Tangent, s.Roll)
		frames[i] = Frame{
			Position: s.Position,
			Rotation: math.LookBasis(s.Tangent, up),
			Scale:    s.Scale,
			Distance: d,
		}
	}
	return frames
}

func sampleRotationMinimizing(curve Curve, count int) []Frame {
	frames := propagate(curve, count)
	if curve.IsLoop() {
		correctSeam(frames)
	}
	return frames
}

// propagate transports the seed frame along the curve without seam correction.
func propagate(curve Curve, count int) []Frame {
	frames := make([]Frame, count)

	s := curve.SampleAtDistance(0)
	up := math.RotateAround(seedUp(s), s.Tangent, s.Roll)
	frames[0] = Frame{
		Position: s.Position,
		Rotation: math.LookBasis(s.Tangent, up),
		Scale:    s.Scale,
	}

	prev := s
	for i := 1; i < count; i++ {
		d := distanceAt(curve, i, count)
		cur := curve.SampleAtDistance(d)

		up = transport(prev.Position, prev.Tangent, frames[i-1].Rotation.Up, cur.Position, cur.Tangent)
		up = math.RotateAround(up, cur.Tangent, cur.Roll-prev.Roll)

		frames[i] = Frame{
			Position: cur.Position,
			Rotation: math.LookBasis(cur.Tangent, up),
			Scale:    cur.Scale,
			Distance: d,
		}
		prev = cur
	}
	return frames
}

// transport carries the normal nA at (pA, tA) to (pB, tB) by double reflection.
// Degenerate reflections are skipped.
func transport(pA, tA, nA, pB, tB math.Vec3) math.Vec3 {
	nL, tL := nA, tA

	v1 := pB.Sub(pA)
	if c1 := v1.Dot(v1); c1 > 1e-12 {
		r1 := 2 / c1
		nL = nA.Sub(v1.Scale(r1 * v1.Dot(nA)))
		tL = tA.Sub(v1.Scale(r1 * v1.Dot(tA)))
	}

	v2 := tB.Sub(tL)
	if c2 := v2.Dot(v2); c2 > 1e-12 {
		nL = nL.Sub(v2.Scale(2 / c2 * v2.Dot(nL)))
	}

	n := nL.Normalize()
	if n == (math.Vec3{}) {
		return nA
	}
	return n
}

// correctSeam spreads the up mismatch between the first and last frame of a
// closed loop linearly over all frames.
func correctSeam(frames []Frame) {
	n := len(frames)
	startUp := frames[0].Rotation.Up
	endUp := frames[n-1].Rotation.Up

	total := math32.Acos(math.Clamp(startUp.Dot(endUp), -1, 1))
	if total == 0 {
		return
	}
	theta := total / float32(n-1)
	if frames[0].Rotation.Forward.Dot(startUp.Cross(endUp)) > 0 {
		theta = -theta
	}

	for i := 1; i < n; i++ {
		f := &frames[i]
		up := math.RotateAround(f.Rotation.Up, f.Rotation.Forward, theta*float32(i))
		f.Rotation = math.LookBasis(f.Rotation.Forward, up)
	}
}

// Interpolate returns the frame at distance d between the two sampled frames
// that bracket it. frames must be ordered by distance.
func Interpolate(frames []Frame, d float32) Frame {
	if len(frames) == 0 {
		return Frame{Rotation: math.IdentityBasis()}
	}
	if d <= frames[0].Distance {
		return frames[0]
	}
	last := frames[len(frames)-1]
	if d >= last.Distance {
		return last
	}

	lo, hi := 0, len(frames)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if frames[mid].Distance <= d {
			lo = mid
		} else {
			hi = mid
		}
	}

	a, b := frames[lo], frames[hi]
	t := float32(0)
	if span := b.Distance - a.Distance; span > 0 {
		t = (d - a.Distance) / span
	}
	forward := a.Rotation.Forward.Lerp(b.Rotation.Forward, t)
	up := a.Rotation.Up.Lerp(b.Rotation.Up, t)
	return Frame{
		Position: a.Position.Lerp(b.Position, t),
		Rotation: math.LookBasis(forward, up),
		Scale:    a.Scale.Lerp(b.Scale, t),
		Distance: d,
	}
}

// Every resamples frames at a fixed step along their distance range. The
// first frame is always included and so is the last, even when it falls
// short of a full step. A non-positive step returns frames unchanged.
func Every(frames []Frame, step float32) []Frame {
	if step <= 0 || len(frames) < 2 {
		return frames
	}
	start, end := frames[0].Distance, frames[len(frames)-1].Distance
	n := int(math32.Floor((end - start) / step))
	out := make([]Frame, 0, n+2)
	for k := 0; k <= n; k++ {
		out = append(out, Interpolate(frames, start+float32(k)*step))
	}
	if end-out[len(out)-1].Distance > 1e-3 {
		out = append(out, frames[len(frames)-1])
	}
	return out
}

// Nearest returns the frame at the point of curve closest to p, interpolated
// from frames sampled on the same curve.
func Nearest(curve Curve, frames []Frame, p math.Vec3) Frame {
	d, _ := curve.ClosestPoint(p)
	return Interpolate(frames, d)
}

// Transform returns the local-to-world matrix of the frame, scale included.
func (f Frame) Transform() math.Mat4 {
	p := f.Position
	return math.Translate(p.X, p.Y, p.Z).Mul(f.Rotation.Mat4()).Mul(math.Scale(f.Scale.X, f.Scale.Y, f.Scale.Z))
}
