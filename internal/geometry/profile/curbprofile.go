package profile

import (
	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/pkg/math"
)

// Bevel profile anchor positions along the profile parameter.
const (
	bevelFront = 0.333
	bevelBack  = 0.666
)

// CurbProfile extrudes a beveled cross-section from Start to End. The profile
// lies in the plane spanned by Across and Up and is centred on the base line.
// With Segments <= 1 the curb is a plain box.
type CurbProfile struct {
	Start, End math.Vec3
	Across     math.Vec3
	Up         math.Vec3

	Depth    float32
	Height   float32
	Segments int

	TextureRepeat float32
}

func (c CurbProfile) valid() bool {
	return c.Depth > 0 && c.Height > 0 && c.End.Sub(c.Start).LengthSquared() > 0
}

func (c CurbProfile) beveled() bool {
	return c.Segments > 1
}

// Count implements Shape.
func (c CurbProfile) Count() (int, int) {
	if !c.valid() {
		return 0, 0
	}
	var n mesh.Counter
	if !c.beveled() {
		n.AddQuads(5)
		return n.Vertices, n.Indices
	}
	n.AddQuads(c.Segments)
	n.AddTriangles(2 * c.Segments)
	return n.Vertices, n.Indices
}

// profilePoint returns point j of the bevel outline as (across, up) offsets.
// The outline climbs the front bevel, crosses the top and drops down the back.
func (c CurbProfile) profilePoint(j int) (float32, float32) {
	d, h := c.Depth/2, c.Height
	anchors := [4][2]float32{{-d, 0}, {-d / 2, h}, {d / 2, h}, {d, 0}}
	t := float32(j) / float32(c.Segments)

	var a, b [2]float32
	var s float32
	switch {
	case t < bevelFront:
		a, b, s = anchors[0], anchors[1], t/bevelFront
	case t < bevelBack:
		a, b, s = anchors[1], anchors[2], (t-bevelFront)/(bevelBack-bevelFront)
	default:
		a, b, s = anchors[2], anchors[3], (t-bevelBack)/(1-bevelBack)
	}
	s = math.Clamp(s, 0, 1)
	return math.Lerp(a[0], b[0], s), math.Lerp(a[1], b[1], s)
}

func (c CurbProfile) at(base math.Vec3, across, up float32) math.Vec3 {
	return base.Add(c.Across.Scale(across)).Add(c.Up.Scale(up))
}

// Emit implements Shape.
func (c CurbProfile) Emit(b *mesh.Builder, submesh string) {
	if !c.valid() {
		return
	}
	along := c.End.Sub(c.Start).Normalize()
	length := c.End.Distance(c.Start)
	ul := texel(length, c.TextureRepeat)

	if !c.beveled() {
		c.emitBox(b, submesh, along, ul)
		return
	}

	var profileLen float32
	for j := 0; j < c.Segments; j++ {
		x0, y0 := c.profilePoint(j)
		x1, y1 := c.profilePoint(j + 1)
		s0, s1 := c.at(c.Start, x0, y0), c.at(c.Start, x1, y1)
		e0, e1 := c.at(c.End, x0, y0), c.at(c.End, x1, y1)

		v0 := texel(profileLen, c.TextureRepeat)
		profileLen += s1.Distance(s0)
		v1 := texel(profileLen, c.TextureRepeat)

		// outward is away from the base centre line
		mid := c.Across.Scale((x0 + x1) / 2).Add(c.Up.Scale((y0 + y1) / 2))
		q := mesh.NewQuad(
			[4]math.Vec3{s0, e0, e1, s1},
			mesh.FaceNormal(s0, e0, e1), along,
			[4]math.Vec2{{X: 0, Y: v0}, {X: ul, Y: v0}, {X: ul, Y: v1}, {X: 0, Y: v1}},
		)
		q = orientQuad(q, mid)
		n := mesh.FaceNormal(q.P[0], q.P[1], q.P[2])
		q.N = [4]math.Vec3{n, n, n, n}
		b.EmitQuad(submesh, q)
	}

	for _, end := range []struct {
		base   math.Vec3
		normal math.Vec3
	}{{c.Start, along.Neg()}, {c.End, along}} {
		for j := 0; j < c.Segments; j++ {
			x0, y0 := c.profilePoint(j)
			x1, y1 := c.profilePoint(j + 1)
			p := [3]math.Vec3{end.base, c.at(end.base, x0, y0), c.at(end.base, x1, y1)}
			uv := [3]math.Vec2{
				{X: 0.5, Y: 0},
				{X: 0.5 + texel(x0, c.TextureRepeat), Y: texel(y0, c.TextureRepeat)},
				{X: 0.5 + texel(x1, c.TextureRepeat), Y: texel(y1, c.TextureRepeat)},
			}
			t := mesh.NewTriangle(p, end.normal, c.Across, uv)
			b.EmitTriangle(submesh, orientTriangle(t, end.normal))
		}
	}
}

func (c CurbProfile) emitBox(b *mesh.Builder, submesh string, along math.Vec3, ul float32) {
	d, h := c.Depth/2, c.Height
	sf, sb := c.at(c.Start, -d, 0), c.at(c.Start, d, 0)
	ef, eb := c.at(c.End, -d, 0), c.at(c.End, d, 0)
	sft, sbt := c.at(c.Start, -d, h), c.at(c.Start, d, h)
	eft, ebt := c.at(c.End, -d, h), c.at(c.End, d, h)
	ud := texel(c.Depth, c.TextureRepeat)
	uh := texel(c.Height, c.TextureRepeat)

	faces := []struct {
		p      [4]math.Vec3
		normal math.Vec3
		u, v   float32
	}{
		{[4]math.Vec3{sft, eft, ebt, sbt}, c.Up, ul, ud},
		{[4]math.Vec3{sf, ef, eft, sft}, c.Across.Neg(), ul, uh},
		{[4]math.Vec3{sb, eb, ebt, sbt}, c.Across, ul, uh},
		{[4]math.Vec3{sf, sb, sbt, sft}, along.Neg(), ud, uh},
		{[4]math.Vec3{ef, eb, ebt, eft}, along, ud, uh},
	}
	for _, f := range faces {
		q := mesh.NewQuad(f.p, f.normal, along,
			[4]math.Vec2{{X: 0, Y: 0}, {X: f.u, Y: 0}, {X: f.u, Y: f.v}, {X: 0, Y: f.v}})
		b.EmitQuad(submesh, orientQuad(q, f.normal))
	}
}
