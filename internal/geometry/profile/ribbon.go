package profile

import (
	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/pkg/math"
)

// Ribbon is a flat strip swept along a path, centred Offset to the right of the
// centre line and lifted Lift along the frame up vector.
type Ribbon struct {
	Path
	Width         float32
	Offset        float32
	Lift          float32
	TextureRepeat float32
}

func (r Ribbon) segments() int {
	if r.Width <= 0 {
		return 0
	}
	return r.Segments()
}

// Count implements Shape.
func (r Ribbon) Count() (int, int) {
	n := r.segments()
	return 4 * n, 6 * n
}

// Emit implements Shape.
func (r Ribbon) Emit(b *mesh.Builder, submesh string) {
	half := r.Width / 2
	for k := 0; k < r.segments(); k++ {
		a, c := r.Segment(k)
		l0 := offset(a, r.Offset-half, r.Lift)
		r0 := offset(a, r.Offset+half, r.Lift)
		l1 := offset(c, r.Offset-half, r.Lift)
		r1 := offset(c, r.Offset+half, r.Lift)
		v0 := texel(a.Distance, r.TextureRepeat)
		v1 := texel(c.Distance, r.TextureRepeat)

		q := mesh.Quad{
			P:  [4]math.Vec3{l0, r0, r1, l1},
			N:  [4]math.Vec3{a.Rotation.Up, a.Rotation.Up, c.Rotation.Up, c.Rotation.Up},
			T:  a.Rotation.Forward,
			UV: [4]math.Vec2{{X: 0, Y: v0}, {X: 1, Y: v0}, {X: 1, Y: v1}, {X: 0, Y: v1}},
		}
		b.EmitQuad(submesh, orientQuad(q, a.Rotation.Up))
	}
}
