// Package export writes built models to files: Wavefront OBJ for render
// geometry, binary STL for collision geometry and a top-down PNG preview.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/roadkit/internal/geometry/mesh"
)

// WriteOBJ writes model as a Wavefront OBJ object called name. Vertices are
// transformed to world space and every submesh becomes a group using its
// material name.
func WriteOBJ(w io.Writer, name string, model *mesh.Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# roadkit %s: %d vertices, %d triangles\n", name, model.VertexCount(), model.TriangleCount())
	fmt.Fprintf(bw, "o %s\n", name)

	xf := model.Transform
	base := 1
	for _, m := range model.Meshes {
		fmt.Fprintf(bw, "g %s\n", m.Name)
		fmt.Fprintf(bw, "usemtl %s\n", m.Material)
		for _, v := range m.Vertices {
			p := xf.TransformVec3(v.Position)
			fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
		}
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "vt %g %g\n", v.TexCoord.X, v.TexCoord.Y)
		}
		for _, v := range m.Vertices {
			n := xf.TransformDirection(v.Normal).Normalize()
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
		for i := 0; i+2 < len(m.Indices); i += 3 {
			a := int(m.Indices[i]) + base
			b := int(m.Indices[i+1]) + base
			c := int(m.Indices[i+2]) + base
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
		base += len(m.Vertices)
	}
	return bw.Flush()
}
