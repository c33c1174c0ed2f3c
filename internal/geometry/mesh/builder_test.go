package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/roadkit/pkg/math"
)

func unitQuad(z float32) Quad {
	return NewQuad(
		[4]math.Vec3{{X: 0, Y: 0, Z: z}, {X: 1, Y: 0, Z: z}, {X: 1, Y: 1, Z: z}, {X: 0, Y: 1, Z: z}},
		math.WorldUp, math.WorldForward,
		[4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	)
}

func unitTriangle() Triangle {
	return NewTriangle(
		[3]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		math.WorldUp, math.WorldForward,
		[3]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
	)
}

// capacityPanic runs fn and returns the CapacityError it panicked with.
func capacityPanic(t *testing.T, fn func()) (err *CapacityError) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		var ok bool
		err, ok = r.(*CapacityError)
		require.True(t, ok, "panic value %T", r)
	}()
	fn()
	return nil
}

func TestQuadIndexPattern(t *testing.T) {
	b := NewBuilder()
	b.Declare("road", 8, 12, "", true)
	b.EmitQuad("road", unitQuad(0))
	b.EmitQuad("road", unitQuad(1))

	m := b.Finish()
	require.Len(t, m.Meshes, 1)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}, m.Meshes[0].Indices)
	assert.Equal(t, math.Vec4{1, 0, 0, 1}, m.Meshes[0].Vertices[0].Tangent)
	assert.Equal(t, DefaultMaterial, m.Meshes[0].Material)
	assert.Equal(t, 4, m.TriangleCount())
	assert.Equal(t, math.Vec3{X: 1, Y: 1, Z: 1}, m.Bounds.Max)
}

func TestEmitTriangle(t *testing.T) {
	b := NewBuilder()
	b.Declare("fan", 3, 3, "materials/road.vmat", false)
	b.EmitTriangle("fan", unitTriangle())
	assert.True(t, b.Fill("fan").Full())

	m := b.Finish()
	assert.Equal(t, "materials/road.vmat", m.Mesh("fan").Material)
	assert.Equal(t, []uint32{0, 1, 2}, m.Mesh("fan").Indices)
	assert.Nil(t, m.Mesh("missing"))
}

func TestOverflowPanics(t *testing.T) {
	b := NewBuilder()
	b.Declare("road", 4, 6, "", true)
	b.EmitQuad("road", unitQuad(0))

	err := capacityPanic(t, func() { b.EmitQuad("road", unitQuad(0)) })
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.Equal(t, "road", err.Submesh)
	assert.Equal(t, "vertex", err.Buffer)
}

func TestIndexOverflowPanics(t *testing.T) {
	b := NewBuilder()
	b.Declare("road", 8, 6, "", true)
	b.EmitQuad("road", unitQuad(0))

	err := capacityPanic(t, func() { b.EmitQuad("road", unitQuad(0)) })
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, "index", err.Buffer)
}

func TestUndeclaredPanics(t *testing.T) {
	b := NewBuilder()
	err := capacityPanic(t, func() { b.EmitTriangle("nope", unitTriangle()) })
	assert.ErrorIs(t, err, ErrUndeclared)
}

func TestFinishPanicsWhenUnderfilled(t *testing.T) {
	b := NewBuilder()
	b.Declare("road", 8, 12, "", true)
	b.EmitQuad("road", unitQuad(0))

	err := capacityPanic(t, func() { b.Finish() })
	assert.ErrorIs(t, err, ErrCapacityMismatch)
}

func TestFinishSkipsEmpty(t *testing.T) {
	b := NewBuilder()
	b.Declare("empty", 0, 0, "", true)
	b.Declare("novertices", 0, 6, "", true)
	b.Declare("road", 4, 6, "", true)
	b.EmitQuad("road", unitQuad(0))

	m := b.Finish()
	require.Len(t, m.Meshes, 1)
	assert.Equal(t, "road", m.Meshes[0].Name)
}

func TestFinishTwiceDoesNotDoubleCount(t *testing.T) {
	b := NewBuilder()
	b.Declare("road", 4, 6, "", true)
	b.EmitQuad("road", unitQuad(0))

	first := b.Finish()
	second := b.Finish()
	assert.Equal(t, first.VertexCount(), second.VertexCount())
	assert.Equal(t, 4, second.VertexCount())
	assert.Equal(t, 6, len(second.Meshes[0].Indices))
}

func TestRedeclareResetsCursors(t *testing.T) {
	b := NewBuilder()
	b.Declare("a", 4, 6, "", false)
	b.Declare("b", 3, 3, "", false)
	b.EmitQuad("a", unitQuad(0))

	b.Declare("a", 4, 6, "x", false)
	assert.Equal(t, Fill{VertexCap: 4, IndexCap: 6}, b.Fill("a"))
	b.EmitQuad("a", unitQuad(0))
	b.EmitTriangle("b", unitTriangle())

	m := b.Finish()
	require.Len(t, m.Meshes, 2)
	assert.Equal(t, "a", m.Meshes[0].Name, "redeclare keeps first position")
	assert.Equal(t, "x", m.Meshes[0].Material)
}

func TestExtractCollision(t *testing.T) {
	b := NewBuilder()
	b.Declare("road", 4, 6, "", true)
	b.Declare("line_0", 4, 6, "", false)
	b.Declare("sidewalk", 3, 3, "", true)
	b.EmitQuad("road", unitQuad(0))
	b.EmitQuad("line_0", unitQuad(0.1))
	b.EmitTriangle("sidewalk", unitTriangle())

	c := b.ExtractCollision()
	require.False(t, c.Empty())
	assert.Len(t, c.Vertices, 7)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6}, c.Indices)
	assert.Equal(t, math.Vec3{X: 1}, c.Vertices[5])
}

func TestExtractCollisionEmpty(t *testing.T) {
	b := NewBuilder()
	b.Declare("line_0", 4, 6, "", false)
	b.EmitQuad("line_0", unitQuad(0))
	assert.True(t, b.ExtractCollision().Empty())

	b.Reset()
	assert.False(t, b.Has("line_0"))
	assert.True(t, b.ExtractCollision().Empty())
	assert.True(t, b.Finish().Empty())
}

func TestCounter(t *testing.T) {
	var c Counter
	c.AddQuads(3)
	c.AddTriangles(2)
	c.Add(1, 2)
	assert.Equal(t, Counter{Vertices: 19, Indices: 26}, c)
}

func TestFaceNormal(t *testing.T) {
	n := FaceNormal(math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Y: 1})
	assert.Equal(t, math.WorldUp, n)
}
