package profile

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/pkg/math"
)

// minRingSegments is the lowest ring resolution regardless of precision.
const minRingSegments = 8

// RingKind selects what a Ring builds.
type RingKind int

const (
	// RingDisc is a triangle fan from the centre to the rim.
	RingDisc RingKind = iota
	// RingAnnulus is a raised band outside the rim with a curb wall facing inward.
	RingAnnulus
)

// RingExit is a road leaving a ring. Angle is the yaw in degrees, 0 along +X.
type RingExit struct {
	Angle float32 `yaml:"angle" toml:"angle"`
	Width float32 `yaml:"width" toml:"width"`
}

// HalfAngle returns the angular half-width of the exit in degrees at the given radius.
func (e RingExit) HalfAngle(radius float32) float32 {
	return math32.Atan(e.Width/radius) * math.RadToDeg
}

// Ring is a circle in the ground plane of Center, divided into arcs of about
// Precision units. Arcs touched by an exit are left out.
type Ring struct {
	Center    math.Vec3
	Radius    float32
	Precision float32
	Exits     []RingExit
	Kind      RingKind

	// Width and Height size the annulus band.
	Width  float32
	Height float32

	TextureRepeat float32
}

// SegmentCount returns max(8, ceil(2*pi*r / precision)).
func (r Ring) SegmentCount() int {
	if r.Precision <= 0 {
		return minRingSegments
	}
	return max(minRingSegments, int(math32.Ceil(2*math32.Pi*r.Radius/r.Precision)))
}

func (r Ring) angle(k int) float32 {
	return float32(k) * 360 / float32(r.SegmentCount())
}

// Blocked reports whether arc k is covered by an exit.
func (r Ring) Blocked(k int) bool {
	a0, a1 := r.angle(k), r.angle(k+1)
	span := a1 - a0
	for _, e := range r.Exits {
		if e.Width <= 0 {
			continue
		}
		half := e.HalfAngle(r.Radius)
		d0 := math.AngleDelta(a0, e.Angle)
		d1 := math.AngleDelta(a1, e.Angle)
		if math32.Abs(d0) < half || math32.Abs(d1) < half {
			return true
		}
		// exit narrower than the arc, centred inside it
		if d0 > 0 && d0 < span {
			return true
		}
	}
	return false
}

// ActiveSegments returns the number of arcs not blocked by exits.
func (r Ring) ActiveSegments() int {
	if !r.valid() {
		return 0
	}
	n := 0
	for k := 0; k < r.SegmentCount(); k++ {
		if !r.Blocked(k) {
			n++
		}
	}
	return n
}

func (r Ring) valid() bool {
	if r.Radius <= 0 {
		return false
	}
	if r.Kind == RingAnnulus {
		return r.Width > 0 && r.Height > 0
	}
	return true
}

// Count implements Shape.
func (r Ring) Count() (int, int) {
	n := r.ActiveSegments()
	if r.Kind == RingAnnulus {
		return 8 * n, 12 * n
	}
	return 3 * n, 3 * n
}

func (r Ring) rim(k int, radius float32) math.Vec3 {
	s, c := math32.Sincos(r.angle(k) * math.DegToRad)
	return r.Center.Add(math.Vec3{X: c * radius, Y: s * radius})
}

// Emit implements Shape.
func (r Ring) Emit(b *mesh.Builder, submesh string) {
	if !r.valid() {
		return
	}
	arc := 2 * math32.Pi * r.Radius / float32(r.SegmentCount())
	for k := 0; k < r.SegmentCount(); k++ {
		if r.Blocked(k) {
			continue
		}
		p0, p1 := r.rim(k, r.Radius), r.rim(k+1, r.Radius)
		tangent := p1.Sub(p0).Normalize()

		if r.Kind == RingDisc {
			p := [3]math.Vec3{r.Center, p0, p1}
			uv := [3]math.Vec2{planarUV(p[0], r.TextureRepeat), planarUV(p[1], r.TextureRepeat), planarUV(p[2], r.TextureRepeat)}
			b.EmitTriangle(submesh, orientTriangle(mesh.NewTriangle(p, math.WorldUp, tangent, uv), math.WorldUp))
			continue
		}

		lift := math.WorldUp.Scale(r.Height)
		o0, o1 := r.rim(k, r.Radius+r.Width).Add(lift), r.rim(k+1, r.Radius+r.Width).Add(lift)
		t0, t1 := p0.Add(lift), p1.Add(lift)
		u0 := texel(float32(k)*arc, r.TextureRepeat)
		u1 := texel(float32(k+1)*arc, r.TextureRepeat)
		vw := texel(r.Width, r.TextureRepeat)
		vh := texel(r.Height, r.TextureRepeat)

		top := mesh.NewQuad([4]math.Vec3{t0, o0, o1, t1}, math.WorldUp, tangent,
			[4]math.Vec2{{X: u0, Y: 0}, {X: u0, Y: vw}, {X: u1, Y: vw}, {X: u1, Y: 0}})
		b.EmitQuad(submesh, orientQuad(top, math.WorldUp))

		in0 := r.Center.Sub(p0).Normalize()
		in1 := r.Center.Sub(p1).Normalize()
		curb := mesh.Quad{
			P:  [4]math.Vec3{p0, p1, t1, t0},
			N:  [4]math.Vec3{in0, in1, in1, in0},
			T:  tangent,
			UV: [4]math.Vec2{{X: u0, Y: 0}, {X: u1, Y: 0}, {X: u1, Y: vh}, {X: u0, Y: vh}},
		}
		b.EmitQuad(submesh, orientQuad(curb, in0.Add(in1)))
	}
}
