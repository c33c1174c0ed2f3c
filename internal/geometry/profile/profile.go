// Package profile holds the cross-section generators.
//
// Every generator is a Shape: Count reports the exact buffer sizes it will
// write and Emit writes them. Both passes walk the same loop, so a Builder
// declared from Count is always filled exactly by Emit.
package profile

import (
	"github.com/Faultbox/roadkit/internal/geometry/frame"
	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/pkg/math"
)

// Shape is a generator that can size and then fill a submesh.
type Shape interface {
	Count() (vertices, indices int)
	Emit(b *mesh.Builder, submesh string)
}

// Build declares submesh with the summed counts of shapes and emits each of them.
func Build(b *mesh.Builder, submesh, material string, collision bool, shapes ...Shape) mesh.Counter {
	var c mesh.Counter
	for _, s := range shapes {
		c.Add(s.Count())
	}
	b.Declare(submesh, c.Vertices, c.Indices, material, collision)
	for _, s := range shapes {
		s.Emit(b, submesh)
	}
	return c
}

// Side selects which side of the centre line a generator builds on.
type Side int

const (
	Left  Side = -1
	Right Side = 1
)

// Sign returns -1 for Left and +1 for Right.
func (s Side) Sign() float32 {
	if s == Left {
		return -1
	}
	return 1
}

// Path is a run of sampled frames and the indices a generator walks.
type Path struct {
	Frames   []frame.Frame
	Retained []int
}

// Segments returns the number of retained segments.
func (p Path) Segments() int {
	if len(p.Retained) < 2 {
		return 0
	}
	return len(p.Retained) - 1
}

// Segment returns the frames bounding retained segment k.
func (p Path) Segment(k int) (frame.Frame, frame.Frame) {
	return p.Frames[p.Retained[k]], p.Frames[p.Retained[k+1]]
}

// offset moves a frame's position sideways along Right and up along Up.
func offset(f frame.Frame, lateral, lift float32) math.Vec3 {
	return f.Position.Add(f.Rotation.Right.Scale(lateral)).Add(f.Rotation.Up.Scale(lift))
}

// texel scales a distance by a texture repeat length. Non-positive repeats leave it unscaled.
func texel(d, repeat float32) float32 {
	if repeat <= 0 {
		return d
	}
	return d / repeat
}

// orientQuad reverses the winding of q when its face normal points away from want.
func orientQuad(q mesh.Quad, want math.Vec3) mesh.Quad {
	if mesh.FaceNormal(q.P[0], q.P[1], q.P[2]).Dot(want) >= 0 {
		return q
	}
	q.P[1], q.P[3] = q.P[3], q.P[1]
	q.N[1], q.N[3] = q.N[3], q.N[1]
	q.UV[1], q.UV[3] = q.UV[3], q.UV[1]
	return q
}

// orientTriangle reverses the winding of t when its face normal points away from want.
func orientTriangle(t mesh.Triangle, want math.Vec3) mesh.Triangle {
	if mesh.FaceNormal(t.P[0], t.P[1], t.P[2]).Dot(want) >= 0 {
		return t
	}
	t.P[1], t.P[2] = t.P[2], t.P[1]
	t.N[1], t.N[2] = t.N[2], t.N[1]
	t.UV[1], t.UV[2] = t.UV[2], t.UV[1]
	return t
}

// planarUV projects p onto the ground plane for texturing.
func planarUV(p math.Vec3, repeat float32) math.Vec2 {
	return math.Vec2{X: texel(p.X, repeat), Y: texel(p.Y, repeat)}
}
