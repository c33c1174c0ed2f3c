package profile

import (
	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/pkg/math"
)

// Curb is a raised strip on one side of a path: a top face with an inner wall
// facing the centre line and an outer wall facing away from it.
type Curb struct {
	Path
	Side Side
	// Inner is the distance from the centre line to the inner wall.
	Inner  float32
	Width  float32
	Height float32
	// TextureRepeat scales the along-path texture axis.
	TextureRepeat float32
	// CrossTextureRepeat scales the width/height texture axis.
	CrossTextureRepeat float32
}

func (c Curb) segments() int {
	if c.Width <= 0 || c.Height <= 0 {
		return 0
	}
	return c.Segments()
}

// Count implements Shape.
func (c Curb) Count() (int, int) {
	n := c.segments()
	return 12 * n, 18 * n
}

// Emit implements Shape.
func (c Curb) Emit(b *mesh.Builder, submesh string) {
	s := c.Side.Sign()
	inner := s * c.Inner
	outer := s * (c.Inner + c.Width)
	uTop := texel(c.Width, c.CrossTextureRepeat)
	uWall := texel(c.Height, c.CrossTextureRepeat)

	var v float32
	for k := 0; k < c.segments(); k++ {
		f0, f1 := c.Segment(k)

		ib0, ib1 := offset(f0, inner, 0), offset(f1, inner, 0)
		it0, it1 := offset(f0, inner, c.Height), offset(f1, inner, c.Height)
		ob0, ob1 := offset(f0, outer, 0), offset(f1, outer, 0)
		ot0, ot1 := offset(f0, outer, c.Height), offset(f1, outer, c.Height)

		// mean of the inner and outer edge lengths keeps both walls in step
		step := (it1.Distance(it0) + ot1.Distance(ot0)) / 2
		v0 := texel(v, c.TextureRepeat)
		v1 := texel(v+step, c.TextureRepeat)
		v += step

		up0, up1 := f0.Rotation.Up, f1.Rotation.Up
		in0, in1 := f0.Rotation.Right.Scale(-s), f1.Rotation.Right.Scale(-s)
		out0, out1 := in0.Neg(), in1.Neg()
		tangent := f0.Rotation.Forward

		top := mesh.Quad{
			P:  [4]math.Vec3{it0, ot0, ot1, it1},
			N:  [4]math.Vec3{up0, up0, up1, up1},
			T:  tangent,
			UV: [4]math.Vec2{{X: 0, Y: v0}, {X: uTop, Y: v0}, {X: uTop, Y: v1}, {X: 0, Y: v1}},
		}
		innerWall := mesh.Quad{
			P:  [4]math.Vec3{ib0, it0, it1, ib1},
			N:  [4]math.Vec3{in0, in0, in1, in1},
			T:  tangent,
			UV: [4]math.Vec2{{X: 0, Y: v0}, {X: uWall, Y: v0}, {X: uWall, Y: v1}, {X: 0, Y: v1}},
		}
		outerWall := mesh.Quad{
			P:  [4]math.Vec3{ob0, ot0, ot1, ob1},
			N:  [4]math.Vec3{out0, out0, out1, out1},
			T:  tangent,
			UV: [4]math.Vec2{{X: 0, Y: v0}, {X: uWall, Y: v0}, {X: uWall, Y: v1}, {X: 0, Y: v1}},
		}
		b.EmitQuad(submesh, orientQuad(top, up0))
		b.EmitQuad(submesh, orientQuad(innerWall, in0))
		b.EmitQuad(submesh, orientQuad(outerWall, out0))
	}
}
