package mesh

import "github.com/Faultbox/roadkit/pkg/math"

// Triangle is one emitted triangle. Vertices wind counter-clockwise seen from the normal side.
type Triangle struct {
	P  [3]math.Vec3
	N  [3]math.Vec3
	T  math.Vec3
	UV [3]math.Vec2
}

// NewTriangle builds a triangle with one shared normal.
func NewTriangle(p [3]math.Vec3, normal, tangent math.Vec3, uv [3]math.Vec2) Triangle {
	return Triangle{P: p, N: [3]math.Vec3{normal, normal, normal}, T: tangent, UV: uv}
}

// Quad is one emitted quad, split as 0-1-2 and 0-2-3.
type Quad struct {
	P  [4]math.Vec3
	N  [4]math.Vec3
	T  math.Vec3
	UV [4]math.Vec2
}

// NewQuad builds a quad with one shared normal.
func NewQuad(p [4]math.Vec3, normal, tangent math.Vec3, uv [4]math.Vec2) Quad {
	return Quad{P: p, N: [4]math.Vec3{normal, normal, normal, normal}, T: tangent, UV: uv}
}

// FaceNormal returns the normal implied by the winding of a, b, c.
func FaceNormal(a, b, c math.Vec3) math.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// Counter accumulates buffer sizes during a counting pass.
type Counter struct {
	Vertices int
	Indices  int
}

// AddQuads counts n quads.
func (c *Counter) AddQuads(n int) {
	c.Vertices += 4 * n
	c.Indices += 6 * n
}

// AddTriangles counts n triangles.
func (c *Counter) AddTriangles(n int) {
	c.Vertices += 3 * n
	c.Indices += 3 * n
}

// Add merges a (vertices, indices) pair.
func (c *Counter) Add(vertices, indices int) {
	c.Vertices += vertices
	c.Indices += indices
}
