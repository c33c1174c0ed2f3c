package profile

import (
	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/pkg/math"
)

// Patch is a single quad wound to face Normal.
type Patch struct {
	Corners [4]math.Vec3
	Normal  math.Vec3
	Tangent math.Vec3
	UV      [4]math.Vec2
}

// PlanarPatch returns an upward facing patch textured by ground plane projection.
func PlanarPatch(corners [4]math.Vec3, repeat float32) Patch {
	p := Patch{Corners: corners, Normal: math.WorldUp, Tangent: math.WorldForward}
	for i, c := range corners {
		p.UV[i] = planarUV(c, repeat)
	}
	return p
}

// Count implements Shape.
func (p Patch) Count() (int, int) {
	return 4, 6
}

// Emit implements Shape.
func (p Patch) Emit(b *mesh.Builder, submesh string) {
	q := mesh.NewQuad(p.Corners, p.Normal, p.Tangent, p.UV)
	b.EmitQuad(submesh, orientQuad(q, p.Normal))
}
