package mesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/roadkit/internal/logger"
	"github.com/Faultbox/roadkit/pkg/math"
)

// SubMesh is a named buffer pair with write cursors.
type SubMesh struct {
	Name      string
	Material  string
	Collision bool

	vertices []Vertex
	indices  []uint32
	vCursor  int
	iCursor  int
}

// Fill reports cursor positions against capacities.
type Fill struct {
	Vertices, VertexCap int
	Indices, IndexCap   int
}

// Full reports whether both buffers are exactly filled.
func (f Fill) Full() bool {
	return f.Vertices == f.VertexCap && f.Indices == f.IndexCap
}

// Builder assembles named submeshes into a Model. It is not safe for concurrent use.
//
// Usage:
//
//	b.Declare("road", v, i, material, true)  // counting pass results
//	b.EmitQuad("road", q)                    // emission pass
//	model := b.Finish()
//	collision := b.ExtractCollision()
type Builder struct {
	submeshes map[string]*SubMesh
	order     []string
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{submeshes: make(map[string]*SubMesh)}
}

// Reset drops every declaration.
func (b *Builder) Reset() {
	clear(b.submeshes)
	b.order = b.order[:0]
}

// Declare allocates exactly vertexCap vertices and indexCap indices for name and
// resets its cursors. Declaring an existing name replaces its allocation but keeps
// its position in the output order.
func (b *Builder) Declare(name string, vertexCap, indexCap int, material string, collision bool) {
	vertexCap = max(vertexCap, 0)
	indexCap = max(indexCap, 0)
	if _, ok := b.submeshes[name]; !ok {
		b.order = append(b.order, name)
	}
	b.submeshes[name] = &SubMesh{
		Name:      name,
		Material:  material,
		Collision: collision,
		vertices:  make([]Vertex, vertexCap),
		indices:   make([]uint32, indexCap),
	}
}

// Has reports whether name is declared.
func (b *Builder) Has(name string) bool {
	_, ok := b.submeshes[name]
	return ok
}

// Fill returns the cursor state of a declared submesh.
func (b *Builder) Fill(name string) Fill {
	sm := b.submesh(name)
	return Fill{
		Vertices: sm.vCursor, VertexCap: len(sm.vertices),
		Indices: sm.iCursor, IndexCap: len(sm.indices),
	}
}

func (b *Builder) submesh(name string) *SubMesh {
	sm, ok := b.submeshes[name]
	if !ok {
		panic(&CapacityError{Submesh: name, Buffer: "vertex", Err: ErrUndeclared})
	}
	return sm
}

func (sm *SubMesh) reserve(nv, ni int) (uint32, int) {
	if sm.vCursor+nv > len(sm.vertices) {
		panic(&CapacityError{Submesh: sm.Name, Buffer: "vertex", Capacity: len(sm.vertices), Cursor: sm.vCursor + nv, Err: ErrCapacityExceeded})
	}
	if sm.iCursor+ni > len(sm.indices) {
		panic(&CapacityError{Submesh: sm.Name, Buffer: "index", Capacity: len(sm.indices), Cursor: sm.iCursor + ni, Err: ErrCapacityExceeded})
	}
	base := uint32(sm.vCursor)
	vi := sm.vCursor
	sm.vCursor += nv
	return base, vi
}

// EmitTriangle writes 3 vertices and 3 indices.
func (b *Builder) EmitTriangle(name string, t Triangle) {
	sm := b.submesh(name)
	base, vi := sm.reserve(3, 3)
	tangent := math.Vec4{t.T.X, t.T.Y, t.T.Z, 1}
	for k := 0; k < 3; k++ {
		sm.vertices[vi+k] = Vertex{Position: t.P[k], Normal: t.N[k], Tangent: tangent, TexCoord: t.UV[k]}
	}
	ii := sm.iCursor
	sm.indices[ii], sm.indices[ii+1], sm.indices[ii+2] = base, base+1, base+2
	sm.iCursor += 3
}

// EmitQuad writes 4 vertices and 6 indices, triangulated 0-1-2, 0-2-3.
func (b *Builder) EmitQuad(name string, q Quad) {
	sm := b.submesh(name)
	base, vi := sm.reserve(4, 6)
	tangent := math.Vec4{q.T.X, q.T.Y, q.T.Z, 1}
	for k := 0; k < 4; k++ {
		sm.vertices[vi+k] = Vertex{Position: q.P[k], Normal: q.N[k], Tangent: tangent, TexCoord: q.UV[k]}
	}
	ii := sm.iCursor
	copy(sm.indices[ii:ii+6], []uint32{base, base + 1, base + 2, base, base + 2, base + 3})
	sm.iCursor += 6
}

// Finish packages every non-empty submesh into a Model in declaration order.
// It panics if a submesh was not filled to its declared capacity. Cursors are
// left untouched, so calling Finish again yields the same model.
func (b *Builder) Finish() *Model {
	model := &Model{Transform: math.Identity(), Bounds: EmptyBounds()}
	for _, name := range b.order {
		sm := b.submeshes[name]
		if len(sm.vertices) == 0 || len(sm.indices) == 0 {
			logger.Debug("skipping empty submesh", zap.String("submesh", name))
			continue
		}
		if sm.vCursor != len(sm.vertices) {
			panic(&CapacityError{Submesh: name, Buffer: "vertex", Capacity: len(sm.vertices), Cursor: sm.vCursor, Err: ErrCapacityMismatch})
		}
		if sm.iCursor != len(sm.indices) {
			panic(&CapacityError{Submesh: name, Buffer: "index", Capacity: len(sm.indices), Cursor: sm.iCursor, Err: ErrCapacityMismatch})
		}

		material := sm.Material
		if material == "" {
			material = DefaultMaterial
		}
		m := Mesh{
			Name:      name,
			Material:  material,
			Collision: sm.Collision,
			Vertices:  sm.vertices,
			Indices:   sm.indices,
			Bounds:    EmptyBounds(),
		}
		for i := range m.Vertices {
			m.Bounds.Extend(m.Vertices[i].Position)
		}
		model.Bounds.Union(m.Bounds)
		model.Meshes = append(model.Meshes, m)
	}
	return model
}

// ExtractCollision merges the positions of every collision-enabled submesh in
// declaration order, rebasing indices by the running vertex count.
func (b *Builder) ExtractCollision() Collision {
	var nv, ni int
	for _, name := range b.order {
		sm := b.submeshes[name]
		if sm.Collision && len(sm.vertices) > 0 && len(sm.indices) > 0 {
			nv += len(sm.vertices)
			ni += len(sm.indices)
		}
	}
	if nv == 0 {
		return Collision{}
	}

	c := Collision{
		Vertices: make([]math.Vec3, 0, nv),
		Indices:  make([]uint32, 0, ni),
	}
	for _, name := range b.order {
		sm := b.submeshes[name]
		if !sm.Collision || len(sm.vertices) == 0 || len(sm.indices) == 0 {
			continue
		}
		offset := uint32(len(c.Vertices))
		for i := range sm.vertices {
			c.Vertices = append(c.Vertices, sm.vertices[i].Position)
		}
		for _, idx := range sm.indices {
			c.Indices = append(c.Indices, idx+offset)
		}
	}
	return c
}
