// Package mesh provides the two-pass mesh assembly used by every generator:
// declare exact buffer sizes, emit primitives, then finish into a model.
package mesh

import "github.com/Faultbox/roadkit/pkg/math"

// DefaultMaterial is used by Finish for submeshes declared without a material.
const DefaultMaterial = "materials/default.vmat"

// Vertex represents a mesh vertex with all attributes.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	// Tangent xyz with handedness in w.
	Tangent  math.Vec4
	TexCoord math.Vec2
}

// Mesh is one finished submesh.
type Mesh struct {
	Name      string
	Material  string
	Collision bool
	Vertices  []Vertex
	Indices   []uint32
	Bounds    Bounds
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Model is the renderable output of a rebuild. It is not modified after Finish.
type Model struct {
	Meshes []Mesh
	// Transform places the object's local geometry in the world.
	Transform math.Mat4
	Bounds    Bounds
}

// Mesh returns the mesh with the given name, or nil.
func (m *Model) Mesh(name string) *Mesh {
	for i := range m.Meshes {
		if m.Meshes[i].Name == name {
			return &m.Meshes[i]
		}
	}
	return nil
}

// VertexCount returns the vertex total over all meshes.
func (m *Model) VertexCount() int {
	n := 0
	for i := range m.Meshes {
		n += len(m.Meshes[i].Vertices)
	}
	return n
}

// TriangleCount returns the triangle total over all meshes.
func (m *Model) TriangleCount() int {
	n := 0
	for i := range m.Meshes {
		n += m.Meshes[i].TriangleCount()
	}
	return n
}

// Empty reports whether the model has no meshes.
func (m *Model) Empty() bool {
	return len(m.Meshes) == 0
}

// Collision is the merged triangle soup handed to the physics sink.
type Collision struct {
	Vertices []math.Vec3
	Indices  []uint32
}

// Empty reports whether there is nothing to collide with. The physics sink
// should remove any existing collider in that case.
func (c Collision) Empty() bool {
	return len(c.Vertices) == 0 || len(c.Indices) == 0
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyBounds returns inverted bounds ready for Extend.
func EmptyBounds() Bounds {
	return Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
}

// Valid reports whether at least one point was added.
func (b Bounds) Valid() bool {
	return b.Min.X <= b.Max.X
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p math.Vec3) {
	b.Min = math.Vec3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
	b.Max = math.Vec3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
}

// Union grows b to contain o.
func (b *Bounds) Union(o Bounds) {
	if !o.Valid() {
		return
	}
	b.Extend(o.Min)
	b.Extend(o.Max)
}

// Center returns the bounds midpoint.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the bounds extent.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}
