package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/roadkit/internal/geometry/frame"
	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/internal/geometry/simplify"
	"github.com/Faultbox/roadkit/pkg/math"
	"github.com/Faultbox/roadkit/pkg/spline"
)

func straightPath(t *testing.T, length float32, segments int) Path {
	t.Helper()
	s, err := spline.New([]spline.Point{{}, {Position: math.Vec3{X: length}}}, false)
	require.NoError(t, err)
	frames, err := frame.Sample(s, segments+1, frame.ModeUpVector)
	require.NoError(t, err)
	return Path{Frames: frames, Retained: simplify.All(segments)}
}

func curvedPath(t *testing.T, segments int) Path {
	t.Helper()
	s, err := spline.New([]spline.Point{
		{},
		{Position: math.Vec3{X: 600, Y: 500, Z: 40}, Roll: 10},
		{Position: math.Vec3{X: 1400, Y: -200}},
	}, false)
	require.NoError(t, err)
	frames, err := frame.Sample(s, segments+1, frame.ModeRotationMinimizing)
	require.NoError(t, err)
	return Path{Frames: frames, Retained: simplify.Retain(frames, segments, 3, 1)}
}

// buildExact declares and emits shapes and checks that counting matched emission.
func buildExact(t *testing.T, shapes ...Shape) *mesh.Mesh {
	t.Helper()
	b := mesh.NewBuilder()
	c := Build(b, "test", "", true, shapes...)
	fill := b.Fill("test")
	require.True(t, fill.Full(), "fill %+v", fill)
	assert.Equal(t, c.Vertices, fill.VertexCap)

	m := b.Finish()
	if c.Vertices == 0 {
		assert.True(t, m.Empty())
		return nil
	}
	require.Len(t, m.Meshes, 1)
	return &m.Meshes[0]
}

func assertNormalsAgreeWithWinding(t *testing.T, m *mesh.Mesh) {
	t.Helper()
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		face := mesh.FaceNormal(a.Position, b.Position, c.Position)
		if face == (math.Vec3{}) {
			continue
		}
		avg := a.Normal.Add(b.Normal).Add(c.Normal)
		assert.GreaterOrEqual(t, face.Dot(avg), float32(0), "triangle %d winds against its normals", i/3)
	}
}

func TestRibbon(t *testing.T) {
	p := straightPath(t, 1000, 25)
	m := buildExact(t, Ribbon{Path: p, Width: 500, TextureRepeat: 500})
	require.NotNil(t, m)
	assert.Len(t, m.Vertices, 100)
	assert.Len(t, m.Indices, 150)
	assert.InDelta(t, 250, m.Bounds.Max.Y, 1e-3)
	assert.InDelta(t, -250, m.Bounds.Min.Y, 1e-3)
	assert.InDelta(t, 2, m.Vertices[len(m.Vertices)-1].TexCoord.Y, 1e-3, "v = distance / repeat")
	assertNormalsAgreeWithWinding(t, m)
}

func TestRibbonOnCurve(t *testing.T) {
	p := curvedPath(t, 40)
	m := buildExact(t, Ribbon{Path: p, Width: 300, Offset: 20, Lift: 0.1, TextureRepeat: 100})
	require.NotNil(t, m)
	assert.Len(t, m.Vertices, 4*p.Segments())
	assertNormalsAgreeWithWinding(t, m)
}

func TestRibbonDegenerate(t *testing.T) {
	p := straightPath(t, 100, 2)
	assert.Nil(t, buildExact(t, Ribbon{Path: p, Width: 0}))
	assert.Nil(t, buildExact(t, Ribbon{Path: Path{Frames: p.Frames, Retained: []int{0}}, Width: 10}))
}

func TestCurbBothSides(t *testing.T) {
	p := straightPath(t, 400, 10)
	left := Curb{Path: p, Side: Left, Inner: 250, Width: 150, Height: 5, TextureRepeat: 200, CrossTextureRepeat: 200}
	right := left
	right.Side = Right

	m := buildExact(t, left, right)
	require.NotNil(t, m)
	assert.Len(t, m.Vertices, 2*10*12)
	assert.Len(t, m.Indices, 2*10*18)
	assert.InDelta(t, 400, m.Bounds.Max.Y, 1e-3)
	assert.InDelta(t, -400, m.Bounds.Min.Y, 1e-3)
	assert.InDelta(t, 5, m.Bounds.Max.Z, 1e-3)
	assertNormalsAgreeWithWinding(t, m)

	assert.Nil(t, buildExact(t, Curb{Path: p, Side: Left, Inner: 250, Width: 150, Height: 0}))
}

func TestDashWalkScenario(t *testing.T) {
	pattern := DashPattern{Period: 40, FillRatio: 0.6}
	var state DashState
	dashes := 0
	var spans []Span
	pattern.Walk(&state, 1000, func(sp Span) {
		spans = append(spans, sp)
		if sp.On {
			dashes++
			assert.InDelta(t, 24, sp.Length, 1e-3)
		}
	})
	assert.Equal(t, 25, dashes)
	assert.InDelta(t, 1000, state.Accumulated, 1e-3)

	// determinism
	var again DashState
	i := 0
	pattern.Walk(&again, 1000, func(sp Span) {
		assert.Equal(t, spans[i], sp)
		i++
	})
	assert.Equal(t, len(spans), i)
}

func TestDashWalkCarriesPhase(t *testing.T) {
	pattern := DashPattern{Period: 40, FillRatio: 0.5}
	var state DashState
	var got []Span
	pattern.Walk(&state, 30, func(sp Span) { got = append(got, sp) })
	pattern.Walk(&state, 30, func(sp Span) { got = append(got, sp) })

	require.Len(t, got, 4)
	assert.True(t, got[0].On)
	assert.False(t, got[1].On)
	assert.InDelta(t, 10, got[1].Length, 1e-4, "gap cut at segment end")
	assert.False(t, got[2].On, "second segment resumes inside the gap")
	assert.InDelta(t, 10, got[2].Length, 1e-4)
	assert.True(t, got[3].On)
	assert.InDelta(t, 10, got[3].Offset, 1e-4)
}

func TestDashWalkEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		pattern DashPattern
		length  float32
		spans   int
		on      int
	}{
		{"solid", DashPattern{Period: 0, FillRatio: 1}, 500, 1, 1},
		{"never on", DashPattern{Period: 40, FillRatio: 0}, 200, 5, 0},
		{"always on", DashPattern{Period: 40, FillRatio: 1}, 200, 5, 5},
		{"zero length", DashPattern{Period: 40, FillRatio: 0.5}, 0, 0, 0},
		{"fill clamped", DashPattern{Period: 40, FillRatio: 3}, 80, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var state DashState
			spans, on := 0, 0
			tt.pattern.Walk(&state, tt.length, func(sp Span) {
				spans++
				if sp.On {
					on++
				}
				assert.GreaterOrEqual(t, sp.Length, float32(0))
			})
			assert.Equal(t, tt.spans, spans)
			assert.Equal(t, tt.on, on)
		})
	}
}

func TestDashedStripAcrossSegments(t *testing.T) {
	p := straightPath(t, 1000, 25)
	strip := DashedStrip{Path: p, Width: 1, Lift: 0.1, Pattern: DashPattern{Period: 40, FillRatio: 0.6}, TextureRepeat: 10}
	assert.Equal(t, 25, strip.Dashes())

	m := buildExact(t, strip)
	require.NotNil(t, m)
	assert.Len(t, m.Vertices, 100)
	assertNormalsAgreeWithWinding(t, m)
}

func TestDashedStripOnCurveIsExact(t *testing.T) {
	p := curvedPath(t, 60)
	for _, fill := range []float32{0.1, 0.5, 0.9, 1} {
		strip := DashedStrip{Path: p, Width: 2, Offset: -80, Pattern: DashPattern{Period: 37, FillRatio: fill}}
		m := buildExact(t, strip)
		require.NotNil(t, m)
		assert.Len(t, m.Vertices, 4*strip.Dashes())
	}
}

func TestCornerFlat(t *testing.T) {
	tests := []struct {
		name         string
		sealA, sealB bool
		quads        int
	}{
		{"closed", false, false, 3},
		{"seal a", true, false, 4},
		{"seal both without segments", true, true, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Corner{
				Origin: math.Vec3{X: -250, Y: -250}, DirA: math.Vec3{X: -1}, DirB: math.Vec3{Y: -1}, Up: math.WorldUp,
				Width: 150, Height: 5, SealA: tt.sealA, SealB: tt.sealB, Radius: 100,
			}
			assert.False(t, c.Rounded())
			m := buildExact(t, c)
			require.NotNil(t, m)
			assert.Len(t, m.Vertices, 4*tt.quads)
			assertNormalsAgreeWithWinding(t, m)
			assert.Nil(t, buildExact(t, CornerFill{Corner: c}))
		})
	}
}

func TestCornerRounded(t *testing.T) {
	c := Corner{
		Origin: math.Vec3{X: 250, Y: 250}, DirA: math.Vec3{X: 1}, DirB: math.Vec3{Y: 1}, Up: math.WorldUp,
		Width: 150, Height: 5, SealA: true, SealB: true, Radius: 100, Segments: 6, TextureRepeat: 200,
	}
	require.True(t, c.Rounded())
	m := buildExact(t, c)
	require.NotNil(t, m)
	// 2 outer faces + 6 top + 6 arc wall + 2 straight seals
	assert.Len(t, m.Vertices, 4*16)
	assertNormalsAgreeWithWinding(t, m)

	// arc endpoints sit on the block edges at the radius
	assert.InDelta(t, 0, c.arcPoint(0).Distance(math.Vec3{X: 350, Y: 250}), 1e-3)
	assert.InDelta(t, 0, c.arcPoint(6).Distance(math.Vec3{X: 250, Y: 350}), 1e-3)
	for k := 0; k <= 6; k++ {
		assert.InDelta(t, 100, c.arcPoint(k).Distance(c.arcCenter()), 1e-3)
	}

	fill := buildExact(t, CornerFill{Corner: c, RoadTextureRepeat: 500})
	require.NotNil(t, fill)
	assert.Len(t, fill.Vertices, 18)
	assertNormalsAgreeWithWinding(t, fill)
}

func TestCornerRoundedOddSegmentsCoversFarCorner(t *testing.T) {
	c := Corner{
		Origin: math.Vec3{}, DirA: math.Vec3{X: 1}, DirB: math.Vec3{Y: 1}, Up: math.WorldUp,
		Width: 150, Height: 5, SealA: true, SealB: true, Radius: 50, Segments: 3,
	}
	m := buildExact(t, c)
	require.NotNil(t, m)
	// 2 outer + 3 top + 3 arc + 2 seals as quads, plus the far corner triangle
	assert.Len(t, m.Vertices, 4*10+3)
	found := false
	for _, v := range m.Vertices {
		if v.Position.Distance(math.Vec3{X: 150, Y: 150, Z: 5}) < 1e-3 {
			found = true
		}
	}
	assert.True(t, found, "far corner must be a top vertex")
	assertNormalsAgreeWithWinding(t, m)
}

func TestCornerRadiusClampedToWidth(t *testing.T) {
	c := Corner{
		Origin: math.Vec3{}, DirA: math.Vec3{X: 1}, DirB: math.Vec3{Y: 1}, Up: math.WorldUp,
		Width: 150, Height: 5, SealA: true, SealB: true, Radius: 400, Segments: 4,
	}
	m := buildExact(t, c)
	require.NotNil(t, m)
	// no straight seal left once the arc spans the whole block edge
	assert.Len(t, m.Vertices, 4*(2+8))
}

func TestCurbProfileBox(t *testing.T) {
	c := CurbProfile{
		Start: math.Vec3{}, End: math.Vec3{X: 100}, Across: math.Vec3{Y: 1}, Up: math.WorldUp,
		Depth: 12, Height: 8, Segments: 1, TextureRepeat: 10,
	}
	m := buildExact(t, c)
	require.NotNil(t, m)
	assert.Len(t, m.Vertices, 20)
	assert.Len(t, m.Indices, 30)
	assert.InDelta(t, 8, m.Bounds.Max.Z, 1e-4)
	assertNormalsAgreeWithWinding(t, m)
}

func TestCurbProfileBeveled(t *testing.T) {
	for _, segments := range []int{2, 3, 7} {
		c := CurbProfile{
			Start: math.Vec3{}, End: math.Vec3{X: 100}, Across: math.Vec3{Y: 1}, Up: math.WorldUp,
			Depth: 12, Height: 8, Segments: segments, TextureRepeat: 10,
		}
		m := buildExact(t, c)
		require.NotNil(t, m)
		assert.Len(t, m.Vertices, 10*segments)
		assert.Len(t, m.Indices, 12*segments)
		assert.InDelta(t, 8, m.Bounds.Max.Z, 0.1)
		assert.InDelta(t, 6, m.Bounds.Max.Y, 1e-4)
		assertNormalsAgreeWithWinding(t, m)
	}
	assert.Nil(t, buildExact(t, CurbProfile{Start: math.Vec3{}, End: math.Vec3{}, Depth: 1, Height: 1, Segments: 3}))
}

func TestRingSegmentCount(t *testing.T) {
	assert.Equal(t, 95, Ring{Radius: 600, Precision: 40}.SegmentCount())
	assert.Equal(t, 8, Ring{Radius: 10, Precision: 40}.SegmentCount())
	assert.Equal(t, 8, Ring{Radius: 600, Precision: 0}.SegmentCount())
}

func TestRingExitScenario(t *testing.T) {
	exit := RingExit{Angle: 0, Width: 500}
	assert.InDelta(t, 39.8, exit.HalfAngle(600), 0.01)

	r := Ring{Radius: 600, Precision: 40, Exits: []RingExit{exit}, TextureRepeat: 500}
	assert.Equal(t, 95-22, r.ActiveSegments())
	for k := 0; k < r.SegmentCount(); k++ {
		mid := (r.angle(k) + r.angle(k+1)) / 2
		if d := math.AngleDelta(mid, 0); d > -30 && d < 30 {
			assert.True(t, r.Blocked(k), "arc %d near the exit must be omitted", k)
		}
	}

	disc := buildExact(t, r)
	require.NotNil(t, disc)
	assert.Len(t, disc.Vertices, 3*73)
	assertNormalsAgreeWithWinding(t, disc)

	band := r
	band.Kind = RingAnnulus
	band.Width, band.Height = 150, 5
	m := buildExact(t, band)
	require.NotNil(t, m)
	assert.Len(t, m.Vertices, 8*73)
	assert.Len(t, m.Indices, 12*73)
	assertNormalsAgreeWithWinding(t, m)
}

func TestRingNarrowExitInsideArc(t *testing.T) {
	r := Ring{Radius: 600, Precision: 1000, Exits: []RingExit{{Angle: 20, Width: 1}}}
	require.Equal(t, 8, r.SegmentCount())
	assert.True(t, r.Blocked(0))
	assert.Equal(t, 7, r.ActiveSegments())
}

func TestRingDegenerate(t *testing.T) {
	assert.Nil(t, buildExact(t, Ring{Radius: 0, Precision: 40}))
	assert.Nil(t, buildExact(t, Ring{Radius: 600, Precision: 40, Kind: RingAnnulus}))
}

func TestSideSign(t *testing.T) {
	assert.Equal(t, float32(-1), Left.Sign())
	assert.Equal(t, float32(1), Right.Sign())
}
