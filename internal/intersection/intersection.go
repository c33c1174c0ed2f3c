// Package intersection builds rectangular and circular junction pads.
package intersection

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/roadkit/internal/geometry/frame"
	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/internal/geometry/profile"
	"github.com/Faultbox/roadkit/internal/logger"
	"github.com/Faultbox/roadkit/pkg/math"
)

// Submesh names.
const (
	SubmeshRoad     = "intersection_road"
	SubmeshSidewalk = "intersection_sidewalk"
)

// Result is the output of one rebuild.
type Result struct {
	Model     *mesh.Model
	Collision mesh.Collision
	Anchors   []Anchor
	Duration  time.Duration
}

// Anchor is where a road leaving the pad should attach, in world space.
type Anchor struct {
	Name      string
	Position  math.Vec3
	Direction math.Vec3
	Width     float32
}

// Intersection owns the mesh builder of one pad.
type Intersection struct {
	name    string
	builder *mesh.Builder
	log     *zap.Logger
}

// New creates an intersection generator.
func New(name string) *Intersection {
	return &Intersection{
		name:    name,
		builder: mesh.NewBuilder(),
		log:     logger.Named("intersection").With(zap.String("intersection", name)),
	}
}

// Rebuild regenerates the pad from opts.
func (x *Intersection) Rebuild(opts Options) (*Result, error) {
	start := time.Now()
	x.builder.Reset()

	switch opts.Shape {
	case ShapeRectangle:
		x.buildRectangle(opts)
	case ShapeCircle:
		x.buildCircle(opts)
	default:
		return nil, fmt.Errorf("building intersection %s: unknown shape %v", x.name, opts.Shape)
	}

	transform := math.Placement(opts.Position, opts.Yaw)
	model := x.builder.Finish()
	model.Transform = transform

	res := &Result{
		Model:     model,
		Collision: x.builder.ExtractCollision(),
		Anchors:   anchors(opts, transform),
		Duration:  time.Since(start),
	}
	x.log.Debug("intersection rebuilt",
		zap.Stringer("shape", opts.Shape),
		zap.Int("vertices", model.VertexCount()),
		zap.Int("triangles", model.TriangleCount()),
		zap.Int("exits", len(res.Anchors)),
		zap.Duration("took", res.Duration))
	return res, nil
}

func (x *Intersection) buildRectangle(opts Options) {
	rect := opts.Rectangle
	if rect.Width <= 0 || rect.Length <= 0 {
		x.log.Warn("rectangle has no area", zap.Float32("width", rect.Width), zap.Float32("length", rect.Length))
		return
	}
	hw, hl := rect.Width/2, rect.Length/2
	fwd, right, up := math.WorldForward, math.WorldRight, math.WorldUp
	sw := opts.Sidewalk

	at := func(f, r float32) math.Vec3 {
		return fwd.Scale(f).Add(right.Scale(r))
	}

	shapes := []profile.Shape{
		profile.PlanarPatch([4]math.Vec3{at(-hl, -hw), at(-hl, hw), at(hl, hw), at(hl, -hw)}, opts.Road.TextureRepeat),
	}
	if sw.Width > 0 {
		for _, e := range rect.Exits.Exits() {
			shapes = append(shapes, extension(e, hw, hl, sw.Width, opts.Road.TextureRepeat))
		}
	}

	var walk []profile.Shape
	if sw.enabled() {
		for _, e := range exitOrder {
			if !rect.Exits.Has(e) {
				walk = append(walk, strip(e, hw, hl, sw))
			}
		}
		for _, c := range corners {
			corner := profile.Corner{
				Origin:        at(c.forward*hl, c.right*hw),
				DirA:          right.Scale(c.right),
				DirB:          fwd.Scale(c.forward),
				Up:            up,
				Width:         sw.Width,
				Height:        sw.Height,
				SealA:         rect.Exits.Has(c.sideA),
				SealB:         rect.Exits.Has(c.sideB),
				Radius:        rect.Corner.Radius,
				Segments:      rect.Corner.Segments,
				TextureRepeat: sw.TextureRepeat,
			}
			walk = append(walk, corner)
			shapes = append(shapes, profile.CornerFill{Corner: corner, RoadTextureRepeat: opts.Road.TextureRepeat})
		}
	}

	profile.Build(x.builder, SubmeshRoad, opts.Road.Material, true, shapes...)
	if len(walk) > 0 {
		profile.Build(x.builder, SubmeshSidewalk, sw.Material, true, walk...)
	}
}

func (x *Intersection) buildCircle(opts Options) {
	c := opts.Circle
	ring := profile.Ring{
		Radius:        c.Radius,
		Precision:     c.Precision,
		Exits:         c.Exits,
		Kind:          profile.RingDisc,
		TextureRepeat: opts.Road.TextureRepeat,
	}
	profile.Build(x.builder, SubmeshRoad, opts.Road.Material, true, ring)

	if opts.Sidewalk.enabled() {
		band := ring
		band.Kind = profile.RingAnnulus
		band.Width = opts.Sidewalk.Width
		band.Height = opts.Sidewalk.Height
		band.TextureRepeat = opts.Sidewalk.TextureRepeat
		profile.Build(x.builder, SubmeshSidewalk, opts.Sidewalk.Material, true, band)
	}
}

// extension is the road quad continuing the pad through the sidewalk band on an open side.
func extension(e Exit, hw, hl, length, repeat float32) profile.Patch {
	out := e.Direction()
	var along math.Vec3
	var half, reach float32
	switch e {
	case North, South:
		along, half, reach = math.WorldRight, hw, hl
	default:
		along, half, reach = math.WorldForward, hl, hw
	}
	inner := out.Scale(reach)
	outer := out.Scale(reach + length)
	return profile.PlanarPatch([4]math.Vec3{
		inner.Sub(along.Scale(half)),
		inner.Add(along.Scale(half)),
		outer.Add(along.Scale(half)),
		outer.Sub(along.Scale(half)),
	}, repeat)
}

// strip is the sidewalk band along a closed side, built as a two-frame curb.
func strip(e Exit, hw, hl float32, sw SidewalkOptions) profile.Curb {
	out := e.Direction()
	var along math.Vec3
	var half, reach float32
	switch e {
	case North, South:
		along, half, reach = math.WorldRight, hw, hl
	default:
		along, half, reach = math.WorldForward, hl, hw
	}
	basis := math.LookBasis(math.WorldUp.Cross(out), math.WorldUp)
	center := out.Scale(reach)
	a, b := center.Sub(along.Scale(half)), center.Add(along.Scale(half))
	if basis.Forward.Dot(b.Sub(a)) < 0 {
		a, b = b, a
	}
	return profile.Curb{
		Path: profile.Path{
			Frames: []frame.Frame{
				{Position: a, Rotation: basis, Distance: 0},
				{Position: b, Rotation: basis, Distance: 2 * half},
			},
			Retained: []int{0, 1},
		},
		Side:               profile.Right,
		Width:              sw.Width,
		Height:             sw.Height,
		TextureRepeat:      sw.TextureRepeat,
		CrossTextureRepeat: sw.TextureRepeat,
	}
}

// anchors lists the attachment points of every exit in world space.
func anchors(opts Options, transform math.Mat4) []Anchor {
	var out []Anchor
	add := func(name string, local, dir math.Vec3, width float32) {
		out = append(out, Anchor{
			Name:      name,
			Position:  transform.TransformVec3(local),
			Direction: transform.TransformDirection(dir).Normalize(),
			Width:     width,
		})
	}

	reach := max(opts.Sidewalk.Width, 0)
	switch opts.Shape {
	case ShapeRectangle:
		rect := opts.Rectangle
		for _, e := range rect.Exits.Exits() {
			dir := e.Direction()
			switch e {
			case North, South:
				add(e.String(), dir.Scale(rect.Length/2+reach), dir, rect.Width)
			default:
				add(e.String(), dir.Scale(rect.Width/2+reach), dir, rect.Length)
			}
		}
	case ShapeCircle:
		c := opts.Circle
		for i, e := range c.Exits {
			dir := math.RotateZ(e.Angle * math.DegToRad).TransformDirection(math.WorldForward)
			add(fmt.Sprintf("exit_%d", i), dir.Scale(c.Radius+reach), dir, e.Width)
		}
	}
	return out
}
