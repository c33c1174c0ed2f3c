package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/roadkit/internal/config"
	"github.com/Faultbox/roadkit/internal/intersection"
	"github.com/Faultbox/roadkit/internal/parking"
	"github.com/Faultbox/roadkit/internal/road"
	"github.com/Faultbox/roadkit/pkg/spline"
)

const sceneYAML = `
roads:
  - name: main
    spline:
      points:
        - position: {x: 0, y: 0, z: 0}
        - position: {x: 1000, y: 0, z: 0}
    options:
      surface:
        width: 600
      lines:
        definitions:
          - dash_spacing: 100
            dash_fill_ratio: 0.5
  - spline:
      loop: true
      points:
        - position: {x: 0, y: 0, z: 0}
        - position: {x: 500, y: 500, z: 0}
        - position: {x: 0, y: 1000, z: 0}
intersections:
  - name: cross
    options:
      position: {x: 1250, y: 0, z: 0}
      rectangle:
        exits: [south, north]
        corner: {radius: 100, segments: 4}
  - name: roundabout
    options:
      shape: circle
      circle:
        exits:
          - {angle: 180, width: 500}
parking:
  - name: lot
    options:
      spot_count: 4
      curbs: {enabled: true}
`

const sceneTOML = `
[[roads]]
name = "main"

[roads.spline]
points = [
  { position = { x = 0, y = 0, z = 0 } },
  { position = { x = 0, y = 800, z = 0 } },
]

[roads.options.sidewalk]
enabled = false

[[intersections]]
name = "cross"

[intersections.options.rectangle]
exits = ["east"]
`

func TestParseYAML(t *testing.T) {
	s, err := Parse(config.FormatYAML, []byte(sceneYAML), config.DefaultDefaults())
	require.NoError(t, err)
	require.Len(t, s.Roads, 2)
	require.Len(t, s.Intersections, 2)
	require.Len(t, s.Lots, 1)
	assert.Equal(t, 5, s.Len())

	main := s.Roads[0]
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, float32(600), main.Options.Surface.Width)
	// untouched fields keep their defaults
	assert.Equal(t, float32(40), main.Options.Surface.Precision)
	assert.True(t, main.Options.Sidewalk.Enabled)
	require.Len(t, main.Options.Lines.Definitions, 1)
	assert.Equal(t, float32(100), main.Options.Lines.Definitions[0].DashSpacing)

	assert.Equal(t, "road_1", s.Roads[1].Name)
	assert.True(t, s.Roads[1].Spline.Loop)
	assert.Equal(t, road.DefaultOptions(), s.Roads[1].Options)

	cross := s.Intersections[0]
	assert.Equal(t, intersection.NewExitSet(intersection.North, intersection.South), cross.Options.Rectangle.Exits)
	assert.Equal(t, float32(500), cross.Options.Rectangle.Width)
	assert.Equal(t, intersection.ShapeCircle, s.Intersections[1].Options.Shape)

	assert.Equal(t, 4, s.Lots[0].Options.SpotCount)
	assert.True(t, s.Lots[0].Options.Curbs.Enabled)
	assert.Equal(t, 3, s.Lots[0].Options.Curbs.Segments)
}

func TestParseTOML(t *testing.T) {
	s, err := Parse(config.FormatTOML, []byte(sceneTOML), config.DefaultDefaults())
	require.NoError(t, err)
	require.Len(t, s.Roads, 1)
	assert.False(t, s.Roads[0].Options.Sidewalk.Enabled)
	require.Len(t, s.Roads[0].Spline.Points, 2)
	assert.Equal(t, float32(800), s.Roads[0].Spline.Points[1].Position.Y)
	require.Len(t, s.Intersections, 1)
	assert.Equal(t, intersection.NewExitSet(intersection.East), s.Intersections[0].Options.Rectangle.Exits)
}

func TestParseDefaultsFromConfig(t *testing.T) {
	defaults := config.DefaultDefaults()
	defaults.Parking.SpotWidth = 200
	s, err := Parse(config.FormatYAML, []byte("parking:\n  - name: a\n"), defaults)
	require.NoError(t, err)
	require.Len(t, s.Lots, 1)
	assert.Equal(t, float32(200), s.Lots[0].Options.SpotWidth)
}

func TestParseLineWithoutFillRatio(t *testing.T) {
	doc := `
roads:
  - name: dashed
    spline:
      points:
        - position: {x: 0, y: 0, z: 0}
        - position: {x: 1000, y: 0, z: 0}
    options:
      lines:
        definitions:
          - dash_spacing: 40
`
	s, err := Parse(config.FormatYAML, []byte(doc), config.DefaultDefaults())
	require.NoError(t, err)
	require.Len(t, s.Roads[0].Options.Lines.Definitions, 1)
	assert.Equal(t, float32(1), s.Roads[0].Options.Lines.Definitions[0].DashFillRatio)

	out := NewBuilder().Build(s)
	require.Empty(t, out.Failures)
	assert.NotNil(t, out.Object("dashed").Model.Mesh(road.LineSubmesh(0)))
}

func TestParseDuplicateName(t *testing.T) {
	doc := `
intersections:
  - name: a
parking:
  - name: a
`
	_, err := Parse(config.FormatYAML, []byte(doc), config.DefaultDefaults())
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse(config.FormatYAML, []byte("roads: [name: x"), config.DefaultDefaults())
	assert.Error(t, err)

	_, err = Parse(config.FormatYAML, []byte("intersections:\n  - options:\n      shape: hexagon\n"), config.DefaultDefaults())
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(sceneTOML), 0644))

	s, err := Load(path, config.DefaultDefaults())
	require.NoError(t, err)
	assert.Equal(t, path, s.Path)

	r, err := s.Road("main")
	require.NoError(t, err)
	assert.Equal(t, "main", r.Name)

	_, err = s.Road("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Load(filepath.Join(dir, "nope.yaml"), config.DefaultDefaults())
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	s, err := Parse(config.FormatYAML, []byte(sceneYAML), config.DefaultDefaults())
	require.NoError(t, err)

	out := NewBuilder().Build(s)
	assert.Empty(t, out.Failures)
	require.Len(t, out.Objects, 5)

	main := out.Object("main")
	require.NotNil(t, main)
	assert.Equal(t, KindRoad, main.Kind)
	assert.NotNil(t, main.Model.Mesh(road.SubmeshRoad))
	assert.NotNil(t, main.Model.Mesh(road.SubmeshSidewalk))
	assert.NotNil(t, main.Model.Mesh(road.LineSubmesh(0)))
	assert.NotEmpty(t, main.Frames)
	assert.False(t, main.Collision.Empty())

	cross := out.Object("cross")
	require.NotNil(t, cross)
	assert.Len(t, cross.Anchors, 2)

	lot := out.Object("lot")
	require.NotNil(t, lot)
	assert.Len(t, lot.Spots, 4)
	assert.NotNil(t, lot.Model.Mesh(parking.SubmeshCurbs))

	vertices, triangles := out.Counts()
	assert.Positive(t, vertices)
	assert.Positive(t, triangles)
}

func TestBuildIsolatesFailures(t *testing.T) {
	s := &Scene{
		Roads: []Road{
			{Name: "broken", Spline: spline.Definition{Points: []spline.Point{{}}}, Options: road.DefaultOptions()},
		},
		Intersections: []Intersection{
			{Name: "bad-shape", Options: intersection.Options{Shape: intersection.Shape(7)}},
			{Name: "ok", Options: intersection.DefaultOptions()},
		},
	}

	out := NewBuilder().Build(s)
	require.Len(t, out.Failures, 2)
	assert.True(t, errors.Is(out.Failures[0], spline.ErrTooFewPoints))
	assert.Equal(t, "bad-shape", out.Failures[1].Name)
	require.Len(t, out.Objects, 1)
	assert.Equal(t, "ok", out.Objects[0].Name)
}

func TestBuilderReusesAndPrunes(t *testing.T) {
	b := NewBuilder()
	s := &Scene{Lots: []Lot{{Name: "a", Options: parking.DefaultOptions()}}}

	b.Build(s)
	gen := b.lots["a"]
	require.NotNil(t, gen)
	b.Build(s)
	assert.Same(t, gen, b.lots["a"])

	b.Build(&Scene{})
	assert.Empty(t, b.lots)
}
