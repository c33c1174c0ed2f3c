package profile

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/pkg/math"
)

// Corner is the raised block filling the square between two sides of a
// rectangular pad. Origin is the pad corner, DirA and DirB point outward along
// the two sides. The block spans Width along both directions.
//
// A side is sealed with a wall when a road leaves the pad on that side
// (SealA for the edge along DirA, SealB for the edge along DirB). When both
// sides are sealed and Segments > 0 the inner corner is rounded with Radius.
type Corner struct {
	Origin     math.Vec3
	DirA, DirB math.Vec3
	Up         math.Vec3

	Width  float32
	Height float32

	SealA, SealB bool

	Radius   float32
	Segments int

	TextureRepeat float32
}

// Rounded reports whether the inner corner is built as an arc.
func (c Corner) Rounded() bool {
	return c.SealA && c.SealB && c.Segments > 0 && c.radius() > 0
}

func (c Corner) radius() float32 {
	return math.Clamp(c.Radius, 0, c.Width)
}

func (c Corner) valid() bool {
	return c.Width > 0 && c.Height > 0
}

// hasStraightSeal reports whether a straight wall remains between the arc and the block edge.
func (c Corner) hasStraightSeal() bool {
	return c.Width-c.radius() > 1e-3
}

// Count implements Shape.
func (c Corner) Count() (int, int) {
	if !c.valid() {
		return 0, 0
	}
	var n mesh.Counter
	n.AddQuads(2) // outer faces
	if c.Rounded() {
		n.AddQuads(2 * c.Segments) // top fan and arc wall
		if c.straddlesFar() {
			n.AddTriangles(1)
		}
		if c.hasStraightSeal() {
			n.AddQuads(2)
		}
		return n.Vertices, n.Indices
	}
	n.AddQuads(1)
	if c.SealA {
		n.AddQuads(1)
	}
	if c.SealB {
		n.AddQuads(1)
	}
	return n.Vertices, n.Indices
}

// straddlesFar reports whether the far block corner falls inside a top fan
// segment instead of on a vertex, which happens for odd segment counts.
func (c Corner) straddlesFar() bool {
	return c.Segments%2 == 1
}

// arcCenter is the centre of the rounded inner corner.
func (c Corner) arcCenter() math.Vec3 {
	r := c.radius()
	return c.Origin.Add(c.DirA.Scale(r)).Add(c.DirB.Scale(r))
}

// arcPoint returns point k of the inner arc, running from the DirA edge to the DirB edge.
func (c Corner) arcPoint(k int) math.Vec3 {
	r := c.radius()
	theta := float32(k) / float32(c.Segments) * math32.Pi / 2
	sin, cos := math32.Sincos(theta)
	return c.arcCenter().Sub(c.DirB.Scale(r * cos)).Sub(c.DirA.Scale(r * sin))
}

// outerPoint returns point k interpolated along the outer edges, from the end of
// the DirA edge through the far corner to the end of the DirB edge.
func (c Corner) outerPoint(k int) math.Vec3 {
	endA := c.Origin.Add(c.DirA.Scale(c.Width))
	far := endA.Add(c.DirB.Scale(c.Width))
	endB := c.Origin.Add(c.DirB.Scale(c.Width))
	t := 2 * float32(k) / float32(c.Segments)
	if t <= 1 {
		return endA.Lerp(far, t)
	}
	return far.Lerp(endB, t-1)
}

func (c Corner) wall(p0, p1 math.Vec3, normal math.Vec3, u0, u1 float32) mesh.Quad {
	lift := c.Up.Scale(c.Height)
	v := texel(c.Height, c.TextureRepeat)
	q := mesh.NewQuad(
		[4]math.Vec3{p0, p1, p1.Add(lift), p0.Add(lift)},
		normal, p1.Sub(p0).Normalize(),
		[4]math.Vec2{{X: u0, Y: 0}, {X: u1, Y: 0}, {X: u1, Y: v}, {X: u0, Y: v}},
	)
	return orientQuad(q, normal)
}

func (c Corner) topQuad(p [4]math.Vec3) mesh.Quad {
	lift := c.Up.Scale(c.Height)
	var uv [4]math.Vec2
	for i := range p {
		p[i] = p[i].Add(lift)
		uv[i] = planarUV(p[i], c.TextureRepeat)
	}
	return orientQuad(mesh.NewQuad(p, c.Up, c.DirA, uv), c.Up)
}

// Emit implements Shape.
func (c Corner) Emit(b *mesh.Builder, submesh string) {
	if !c.valid() {
		return
	}
	w := c.Width
	endA := c.Origin.Add(c.DirA.Scale(w))
	far := endA.Add(c.DirB.Scale(w))
	endB := c.Origin.Add(c.DirB.Scale(w))
	uw := texel(w, c.TextureRepeat)

	b.EmitQuad(submesh, c.wall(endA, far, c.DirA, 0, uw))
	b.EmitQuad(submesh, c.wall(far, endB, c.DirB, 0, uw))

	if !c.Rounded() {
		b.EmitQuad(submesh, c.topQuad([4]math.Vec3{c.Origin, endA, far, endB}))
		if c.SealA {
			b.EmitQuad(submesh, c.wall(c.Origin, endA, c.DirB.Neg(), 0, uw))
		}
		if c.SealB {
			b.EmitQuad(submesh, c.wall(c.Origin, endB, c.DirA.Neg(), 0, uw))
		}
		return
	}

	center := c.arcCenter()
	lift := c.Up.Scale(c.Height)
	v := texel(c.Height, c.TextureRepeat)
	r := c.radius()
	arcStep := r * math32.Pi / 2 / float32(c.Segments)
	for k := 0; k < c.Segments; k++ {
		p0, p1 := c.arcPoint(k), c.arcPoint(k+1)
		o0, o1 := c.outerPoint(k), c.outerPoint(k+1)
		b.EmitQuad(submesh, c.topQuad([4]math.Vec3{p0, o0, o1, p1}))
		if c.straddlesFar() && k == c.Segments/2 {
			p := [3]math.Vec3{o0.Add(lift), far.Add(lift), o1.Add(lift)}
			uv := [3]math.Vec2{planarUV(p[0], c.TextureRepeat), planarUV(p[1], c.TextureRepeat), planarUV(p[2], c.TextureRepeat)}
			b.EmitTriangle(submesh, orientTriangle(mesh.NewTriangle(p, c.Up, c.DirA, uv), c.Up))
		}

		n0 := p0.Sub(center).Normalize()
		n1 := p1.Sub(center).Normalize()
		u0 := texel(float32(k)*arcStep, c.TextureRepeat)
		u1 := texel(float32(k+1)*arcStep, c.TextureRepeat)
		q := mesh.Quad{
			P:  [4]math.Vec3{p0, p1, p1.Add(lift), p0.Add(lift)},
			N:  [4]math.Vec3{n0, n1, n1, n0},
			T:  p1.Sub(p0).Normalize(),
			UV: [4]math.Vec2{{X: u0, Y: 0}, {X: u1, Y: 0}, {X: u1, Y: v}, {X: u0, Y: v}},
		}
		b.EmitQuad(submesh, orientQuad(q, n0.Add(n1)))
	}

	if c.hasStraightSeal() {
		us := texel(w-r, c.TextureRepeat)
		b.EmitQuad(submesh, c.wall(c.Origin.Add(c.DirA.Scale(r)), endA, c.DirB.Neg(), 0, us))
		b.EmitQuad(submesh, c.wall(c.Origin.Add(c.DirB.Scale(r)), endB, c.DirA.Neg(), 0, us))
	}
}

// CornerFill is the road surface between a pad corner and the rounded arc of
// its Corner block. It is empty unless the corner is rounded.
type CornerFill struct {
	Corner
	RoadTextureRepeat float32
}

// Count implements Shape.
func (f CornerFill) Count() (int, int) {
	if !f.valid() || !f.Rounded() {
		return 0, 0
	}
	return 3 * f.Segments, 3 * f.Segments
}

// Emit implements Shape.
func (f CornerFill) Emit(b *mesh.Builder, submesh string) {
	if !f.valid() || !f.Rounded() {
		return
	}
	for k := 0; k < f.Segments; k++ {
		p := [3]math.Vec3{f.Origin, f.arcPoint(k), f.arcPoint(k + 1)}
		var uv [3]math.Vec2
		for i := range p {
			uv[i] = planarUV(p[i], f.RoadTextureRepeat)
		}
		t := mesh.NewTriangle(p, f.Up, f.DirA, uv)
		b.EmitTriangle(submesh, orientTriangle(t, f.Up))
	}
}
