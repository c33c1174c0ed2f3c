package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/pkg/math"
)

// ErrEmptyCollision is returned for collision geometry with no triangles. The
// caller should remove the object's collider instead of writing a file.
var ErrEmptyCollision = errors.New("collision geometry is empty")

const stlHeaderSize = 80

// WriteSTL writes collision as a binary STL solid called name, transformed by xf.
func WriteSTL(w io.Writer, name string, collision mesh.Collision, xf math.Mat4) error {
	if collision.Empty() {
		return ErrEmptyCollision
	}
	triangles := len(collision.Indices) / 3

	bw := bufio.NewWriter(w)
	var header [stlHeaderSize]byte
	copy(header[:], name)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(triangles)); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i := 0; i < triangles; i++ {
		a := xf.TransformVec3(collision.Vertices[collision.Indices[3*i]])
		b := xf.TransformVec3(collision.Vertices[collision.Indices[3*i+1]])
		c := xf.TransformVec3(collision.Vertices[collision.Indices[3*i+2]])
		n := mesh.FaceNormal(a, b, c)

		facet := [12]float32{
			n.X, n.Y, n.Z,
			a.X, a.Y, a.Z,
			b.X, b.Y, b.Z,
			c.X, c.Y, c.Z,
		}
		if err := binary.Write(bw, binary.LittleEndian, facet); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
		// attribute byte count
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("failed to write attribute for triangle %d: %w", i, err)
		}
	}
	return bw.Flush()
}
