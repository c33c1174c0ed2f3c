// Package parking builds a row of parking spots: separator lines and optional
// wheel stop curbs.
package parking

import (
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/internal/geometry/profile"
	"github.com/Faultbox/roadkit/internal/logger"
	"github.com/Faultbox/roadkit/pkg/math"
)

// Submesh names.
const (
	SubmeshLines = "parking_lines"
	SubmeshCurbs = "parking_curbs"
)

// Result is the output of one rebuild.
type Result struct {
	Model     *mesh.Model
	Collision mesh.Collision
	Spots     []Spot
	Duration  time.Duration
}

// Spot is the centre of one parking space in world space, for spawning props.
type Spot struct {
	Index    int
	Position math.Vec3
	// Yaw in degrees.
	Yaw float32
}

// Lot owns the mesh builder of one parking lot.
type Lot struct {
	name    string
	builder *mesh.Builder
	log     *zap.Logger
}

// New creates a parking lot generator.
func New(name string) *Lot {
	return &Lot{
		name:    name,
		builder: mesh.NewBuilder(),
		log:     logger.Named("parking").With(zap.String("lot", name)),
	}
}

// Spacing returns the distance between neighbouring spot origins along the row.
func Spacing(width, angleDegrees, threshold float32) float32 {
	return width / max(math32.Cos(angleDegrees*math.DegToRad), threshold)
}

// layout holds the row geometry shared by lines, curbs and spots.
type layout struct {
	opts    Options
	spacing float32
	// across runs along the row, deep runs into the spot.
	across, deep math.Vec3
}

func newLayout(opts Options) layout {
	sin, cos := math32.Sincos(opts.SpotAngle * math.DegToRad)
	return layout{
		opts:    opts,
		spacing: Spacing(opts.SpotWidth, opts.SpotAngle, opts.SpotAngleThreshold),
		across:  math.Vec3{X: cos, Y: sin},
		deep:    math.Vec3{X: -sin, Y: cos},
	}
}

// origin is the front corner of spot i, also where separator line i starts.
func (l layout) origin(i int) math.Vec3 {
	return math.Vec3{X: float32(i) * l.spacing}
}

// center returns a point of spot i, half a spot across and depth into it.
func (l layout) center(i int, depth float32) math.Vec3 {
	return l.origin(i).Add(l.across.Scale(l.opts.SpotWidth / 2)).Add(l.deep.Scale(depth))
}

// lineIndices lists the separator lines drawn, skipping disabled caps.
func (l layout) lineIndices() []int {
	n := l.opts.SpotCount
	caps := l.opts.Lines.Caps
	var out []int
	for i := 0; i <= n; i++ {
		if i == 0 && !caps.Has(CapStart) {
			continue
		}
		if i == n && !caps.Has(CapEnd) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func (l layout) line(i int) profile.Patch {
	lines := l.opts.Lines
	hw := lines.Width / 2
	lift := math.WorldUp.Scale(lines.Offset)
	base := l.origin(i).Add(lift)
	p0 := base.Sub(l.across.Scale(hw))
	p1 := base.Add(l.across.Scale(hw))
	p2 := p1.Add(l.deep.Scale(l.opts.SpotLength))
	p3 := p0.Add(l.deep.Scale(l.opts.SpotLength))
	v := l.opts.SpotLength / lines.TextureRepeat
	return profile.Patch{
		Corners: [4]math.Vec3{p1, p2, p3, p0},
		Normal:  math.WorldUp,
		Tangent: math.WorldForward,
		UV:      [4]math.Vec2{{X: 1, Y: 0}, {X: 1, Y: v}, {X: 0, Y: v}, {X: 0, Y: 0}},
	}
}

func (l layout) curb(i int) profile.CurbProfile {
	c := l.opts.Curbs
	half := l.opts.SpotWidth * c.FillRatio / 2
	center := l.center(i, l.opts.SpotLength-c.Depth/2-c.Offset)
	return profile.CurbProfile{
		Start:         center.Sub(l.across.Scale(half)),
		End:           center.Add(l.across.Scale(half)),
		Across:        l.deep,
		Up:            math.WorldUp,
		Depth:         c.Depth,
		Height:        c.Height,
		Segments:      c.Segments,
		TextureRepeat: c.TextureRepeat,
	}
}

// Rebuild regenerates the lot from opts.
func (p *Lot) Rebuild(opts Options) (*Result, error) {
	start := time.Now()
	p.builder.Reset()
	opts = opts.normalized()
	l := newLayout(opts)

	if opts.Lines.Width > 0 && opts.SpotLength > 0 {
		var lines []profile.Shape
		for _, i := range l.lineIndices() {
			lines = append(lines, l.line(i))
		}
		if len(lines) > 0 {
			profile.Build(p.builder, SubmeshLines, opts.Lines.Material, false, lines...)
		}
	}

	if opts.Curbs.Enabled && opts.SpotCount > 0 {
		curbs := make([]profile.Shape, 0, opts.SpotCount)
		for i := 0; i < opts.SpotCount; i++ {
			curbs = append(curbs, l.curb(i))
		}
		profile.Build(p.builder, SubmeshCurbs, opts.Curbs.Material, true, curbs...)
	}

	transform := math.Placement(opts.Position, opts.Yaw)
	model := p.builder.Finish()
	model.Transform = transform

	res := &Result{
		Model:     model,
		Collision: p.builder.ExtractCollision(),
		Duration:  time.Since(start),
	}
	for i := 0; i < opts.SpotCount; i++ {
		res.Spots = append(res.Spots, Spot{
			Index:    i,
			Position: transform.TransformVec3(l.center(i, opts.SpotLength/2)),
			Yaw:      opts.Yaw + opts.SpotAngle,
		})
	}

	p.log.Debug("parking lot rebuilt",
		zap.Int("spots", opts.SpotCount),
		zap.Float32("spacing", l.spacing),
		zap.Int("vertices", model.VertexCount()),
		zap.Int("triangles", model.TriangleCount()),
		zap.Duration("took", res.Duration))
	return res, nil
}
