package export

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/internal/intersection"
	"github.com/Faultbox/roadkit/pkg/math"
)

func pad(t *testing.T, position math.Vec3) *intersection.Result {
	t.Helper()
	opts := intersection.DefaultOptions()
	opts.Position = position
	res, err := intersection.New("pad").Rebuild(opts)
	require.NoError(t, err)
	return res
}

func TestWriteOBJ(t *testing.T) {
	res := pad(t, math.Vec3{X: 1000})

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, "pad", res.Model))

	var v, vt, vn, f, groups int
	minX := float32(1e9)
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			v++
			var p math.Vec3
			_, err := fmtSscan(fields[1:], &p)
			require.NoError(t, err)
			minX = min(minX, p.X)
		case "vt":
			vt++
		case "vn":
			vn++
		case "f":
			f++
			require.Len(t, fields, 4)
		case "g":
			groups++
		}
	}
	require.NoError(t, scanner.Err())

	assert.Equal(t, res.Model.VertexCount(), v)
	assert.Equal(t, v, vt)
	assert.Equal(t, v, vn)
	assert.Equal(t, res.Model.TriangleCount(), f)
	assert.Equal(t, len(res.Model.Meshes), groups)
	// the pad spans +-400 around its placement
	assert.InDelta(t, 600, minX, 1e-2)
}

func TestWriteOBJFaceIndicesAreGlobal(t *testing.T) {
	res := pad(t, math.Vec3{})
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, "pad", res.Model))

	total := res.Model.VertexCount()
	lines := strings.Split(buf.String(), "\n")
	var last string
	for _, l := range lines {
		if strings.HasPrefix(l, "f ") {
			last = l
		}
	}
	require.NotEmpty(t, last)
	// the final face references the final vertices
	assert.Contains(t, last, "/")
	var a, b, c int
	_, err := sscanFace(last, &a, &b, &c)
	require.NoError(t, err)
	assert.LessOrEqual(t, max(a, b, c), total)
	assert.Greater(t, max(a, b, c), total-4)
}

func TestWriteSTL(t *testing.T) {
	res := pad(t, math.Vec3{Z: 10})
	var buf bytes.Buffer
	require.NoError(t, WriteSTL(&buf, "pad", res.Collision, res.Model.Transform))

	triangles := len(res.Collision.Indices) / 3
	assert.Equal(t, stlHeaderSize+4+50*triangles, buf.Len())

	data := buf.Bytes()
	assert.Equal(t, "pad", string(bytes.TrimRight(data[:stlHeaderSize], "\x00")))
	assert.Equal(t, uint32(triangles), binary.LittleEndian.Uint32(data[stlHeaderSize:]))

	var facet [12]float32
	require.NoError(t, binary.Read(bytes.NewReader(data[stlHeaderSize+4:]), binary.LittleEndian, &facet))
	// first triangle is the pad surface, lifted by the placement
	assert.InDelta(t, 1, facet[2], 1e-5)
	assert.InDelta(t, 10, facet[5], 1e-5)
}

func TestWriteSTLEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSTL(&buf, "nothing", mesh.Collision{}, math.Identity())
	assert.ErrorIs(t, err, ErrEmptyCollision)
	assert.Zero(t, buf.Len())
}

func TestRenderPreview(t *testing.T) {
	a := pad(t, math.Vec3{})
	b := pad(t, math.Vec3{X: 2000})
	opts := PreviewOptions{Width: 200, Height: 100, Margin: 10}

	path := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, RenderPreview(path, []*mesh.Model{a.Model, b.Model}, opts))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	// the corner is background, a point inside the left pad away from its diagonal is surface
	assertColor(t, backgroundColor, img.At(1, 1))
	x, y := newProjection(boundsOf(a.Model, b.Model), opts).apply(math.Vec3{X: 120, Y: 60})
	assertColor(t, surfaceColor, img.At(int(x), int(y)))
}

func TestPreviewErrors(t *testing.T) {
	_, err := DrawPreview(nil, PreviewOptions{Width: 100, Height: 100})
	assert.ErrorIs(t, err, ErrNothingToDraw)

	_, err = DrawPreview([]*mesh.Model{pad(t, math.Vec3{}).Model}, PreviewOptions{Width: 20, Height: 20, Margin: 10})
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodePreview(&buf, []*mesh.Model{pad(t, math.Vec3{}).Model}, PreviewOptions{Width: 64, Height: 64, Margin: 4}))
	_, err = png.Decode(&buf)
	assert.NoError(t, err)
}

func TestLayerOf(t *testing.T) {
	assert.Equal(t, 0, layerOf("road").order)
	assert.Equal(t, 0, layerOf(intersection.SubmeshRoad).order)
	assert.Equal(t, 1, layerOf("sidewalk").order)
	assert.Equal(t, 1, layerOf("parking_curbs").order)
	assert.Equal(t, 2, layerOf("line_3").order)
	assert.Equal(t, 2, layerOf("parking_lines").order)
}
