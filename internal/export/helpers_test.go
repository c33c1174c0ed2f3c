package export

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/pkg/math"
)

func fmtSscan(fields []string, p *math.Vec3) (int, error) {
	if len(fields) != 3 {
		return 0, fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	return fmt.Sscan(fields[0]+" "+fields[1]+" "+fields[2], &p.X, &p.Y, &p.Z)
}

func sscanFace(line string, a, b, c *int) (int, error) {
	var a1, a2, b1, b2, c1, c2 int
	return fmt.Sscanf(line, "f %d/%d/%d %d/%d/%d %d/%d/%d", a, &a1, &a2, b, &b1, &b2, c, &c1, &c2)
}

func boundsOf(models ...*mesh.Model) mesh.Bounds {
	b := mesh.EmptyBounds()
	for _, m := range models {
		for _, sm := range m.Meshes {
			for _, v := range sm.Vertices {
				b.Extend(m.Transform.TransformVec3(v.Position))
			}
		}
	}
	return b
}

func assertColor(t *testing.T, want gg.RGBA, got color.Color) {
	t.Helper()
	r, g, b, _ := got.RGBA()
	assert.InDelta(t, want.R, float64(r)/0xffff, 0.02, "red")
	assert.InDelta(t, want.G, float64(g)/0xffff, 0.02, "green")
	assert.InDelta(t, want.B, float64(b)/0xffff, 0.02, "blue")
}
