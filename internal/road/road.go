// Package road builds the surface, sidewalks and line markings of a spline road.
package road

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/roadkit/internal/geometry/frame"
	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/internal/geometry/profile"
	"github.com/Faultbox/roadkit/internal/logger"
)

// Submesh names.
const (
	SubmeshRoad     = "road"
	SubmeshSidewalk = "sidewalk"
)

// LineSubmesh returns the submesh name of line i.
func LineSubmesh(i int) string {
	return fmt.Sprintf("line_%d", i)
}

// minLength is the shortest curve that produces geometry.
const minLength = 1e-3

// Result is the output of one rebuild.
type Result struct {
	Model     *mesh.Model
	Collision mesh.Collision
	Frames    []frame.Frame
	Retained  []int
	Stats     Stats
}

// Stats summarises a rebuild for logging.
type Stats struct {
	Segments  int
	Retained  int
	Vertices  int
	Triangles int
	Duration  time.Duration
}

// Road owns the mesh builder of one road object.
type Road struct {
	name    string
	builder *mesh.Builder
	log     *zap.Logger
}

// New creates a road generator.
func New(name string) *Road {
	return &Road{
		name:    name,
		builder: mesh.NewBuilder(),
		log:     logger.Named("road").With(zap.String("road", name)),
	}
}

// SegmentCount returns max(2, ceil(length / precision)).
func SegmentCount(length, precision float32) int {
	return max(2, int(math32.Ceil(length/precision)))
}

// Rebuild regenerates every submesh of the road from curve and opts.
// Degenerate input yields an empty model, not an error.
func (r *Road) Rebuild(curve frame.Curve, opts Options) (*Result, error) {
	start := time.Now()
	r.builder.Reset()

	length := curve.Length()
	if length < minLength || opts.Surface.Precision <= 0 {
		r.log.Warn("road produces no geometry",
			zap.Float32("length", length),
			zap.Float32("precision", opts.Surface.Precision))
		return &Result{Model: r.builder.Finish()}, nil
	}

	segments := SegmentCount(length, opts.Surface.Precision)
	frames, err := frame.Sample(curve, segments+1, opts.FrameMode)
	if err != nil {
		return nil, fmt.Errorf("sampling road %s: %w", r.name, err)
	}
	retained := opts.Simplify.Apply(frames, segments)
	path := profile.Path{Frames: frames, Retained: retained}

	profile.Build(r.builder, SubmeshRoad, opts.Surface.Material, true, profile.Ribbon{
		Path:          path,
		Width:         opts.Surface.Width,
		TextureRepeat: opts.Surface.TextureRepeat,
	})

	if sw := opts.Sidewalk; sw.Enabled {
		curb := profile.Curb{
			Path:               path,
			Inner:              opts.Surface.Width / 2,
			Width:              sw.Width,
			Height:             sw.Height,
			TextureRepeat:      sw.TextureRepeat,
			CrossTextureRepeat: sw.TextureRepeat,
		}
		left, right := curb, curb
		left.Side, right.Side = profile.Left, profile.Right
		profile.Build(r.builder, SubmeshSidewalk, sw.Material, true, left, right)
	}

	lines := opts.Lines
	for i, def := range lines.Definitions {
		def = def.Normalized()
		profile.Build(r.builder, LineSubmesh(i), def.Material, false, profile.DashedStrip{
			Path:          path,
			Offset:        lines.LineOffset(i, len(lines.Definitions), opts.Surface.Width),
			Lift:          lines.Offset,
			Width:         lines.Width,
			Pattern:       profile.DashPattern{Period: def.DashSpacing, FillRatio: def.DashFillRatio},
			TextureRepeat: lines.TextureRepeat,
		})
	}

	res := &Result{
		Model:     r.builder.Finish(),
		Collision: r.builder.ExtractCollision(),
		Frames:    frames,
		Retained:  retained,
	}
	res.Stats = Stats{
		Segments:  segments,
		Retained:  len(retained),
		Vertices:  res.Model.VertexCount(),
		Triangles: res.Model.TriangleCount(),
		Duration:  time.Since(start),
	}
	r.log.Debug("road rebuilt",
		zap.Int("segments", res.Stats.Segments),
		zap.Int("retained", res.Stats.Retained),
		zap.Int("vertices", res.Stats.Vertices),
		zap.Int("triangles", res.Stats.Triangles),
		zap.Duration("took", res.Stats.Duration))
	return res, nil
}
