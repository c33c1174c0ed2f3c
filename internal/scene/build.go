package scene

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/roadkit/internal/geometry/frame"
	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/internal/intersection"
	"github.com/Faultbox/roadkit/internal/logger"
	"github.com/Faultbox/roadkit/internal/parking"
	"github.com/Faultbox/roadkit/internal/road"
)

// Object is one built scene entry.
type Object struct {
	Kind      Kind
	Name      string
	Model     *mesh.Model
	Collision mesh.Collision

	// Frames are set for roads.
	Frames []frame.Frame
	// Anchors are set for intersections.
	Anchors []intersection.Anchor
	// Spots are set for parking lots.
	Spots []parking.Spot
}

// Failure records an entry that did not build.
type Failure struct {
	Kind Kind
	Name string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Kind, f.Name, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Output is the result of building a whole scene.
type Output struct {
	Objects  []Object
	Failures []Failure
	Duration time.Duration
}

// Object returns the built object called name, or nil.
func (o *Output) Object(name string) *Object {
	for i := range o.Objects {
		if o.Objects[i].Name == name {
			return &o.Objects[i]
		}
	}
	return nil
}

// Counts returns the total vertex and triangle counts of every object.
func (o *Output) Counts() (vertices, triangles int) {
	for _, obj := range o.Objects {
		vertices += obj.Model.VertexCount()
		triangles += obj.Model.TriangleCount()
	}
	return vertices, triangles
}

// Builder keeps one generator per object name so repeated builds reuse them.
type Builder struct {
	roads         map[string]*road.Road
	intersections map[string]*intersection.Intersection
	lots          map[string]*parking.Lot
	log           *zap.Logger
}

// NewBuilder creates a scene builder.
func NewBuilder() *Builder {
	return &Builder{
		roads:         make(map[string]*road.Road),
		intersections: make(map[string]*intersection.Intersection),
		lots:          make(map[string]*parking.Lot),
		log:           logger.Named("scene"),
	}
}

// Build rebuilds every object in s. An object that fails is logged and
// recorded in Failures; the others still build.
func (b *Builder) Build(s *Scene) *Output {
	start := time.Now()
	out := &Output{}

	for _, r := range s.Roads {
		gen, ok := b.roads[r.Name]
		if !ok {
			gen = road.New(r.Name)
			b.roads[r.Name] = gen
		}
		b.run(out, KindRoad, r.Name, func() (Object, error) {
			curve, err := r.Spline.Build()
			if err != nil {
				return Object{}, err
			}
			res, err := gen.Rebuild(curve, r.Options)
			if err != nil {
				return Object{}, err
			}
			return Object{Model: res.Model, Collision: res.Collision, Frames: res.Frames}, nil
		})
	}

	for _, x := range s.Intersections {
		gen, ok := b.intersections[x.Name]
		if !ok {
			gen = intersection.New(x.Name)
			b.intersections[x.Name] = gen
		}
		b.run(out, KindIntersection, x.Name, func() (Object, error) {
			res, err := gen.Rebuild(x.Options)
			if err != nil {
				return Object{}, err
			}
			return Object{Model: res.Model, Collision: res.Collision, Anchors: res.Anchors}, nil
		})
	}

	for _, l := range s.Lots {
		gen, ok := b.lots[l.Name]
		if !ok {
			gen = parking.New(l.Name)
			b.lots[l.Name] = gen
		}
		b.run(out, KindParking, l.Name, func() (Object, error) {
			res, err := gen.Rebuild(l.Options)
			if err != nil {
				return Object{}, err
			}
			return Object{Model: res.Model, Collision: res.Collision, Spots: res.Spots}, nil
		})
	}

	b.prune(s)
	out.Duration = time.Since(start)
	vertices, triangles := out.Counts()
	b.log.Info("scene built",
		zap.Int("objects", len(out.Objects)),
		zap.Int("failed", len(out.Failures)),
		zap.Int("vertices", vertices),
		zap.Int("triangles", triangles),
		zap.Duration("took", out.Duration))
	return out
}

// run builds one object, turning errors and capacity panics into a Failure.
func (b *Builder) run(out *Output, kind Kind, name string, build func() (Object, error)) {
	obj, err := func() (obj Object, err error) {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = fmt.Errorf("generator panic: %w", e)
					return
				}
				err = fmt.Errorf("generator panic: %v", r)
			}
		}()
		return build()
	}()
	if err != nil {
		b.log.Error("object failed to build",
			zap.String("kind", string(kind)),
			zap.String("name", name),
			zap.Error(err))
		out.Failures = append(out.Failures, Failure{Kind: kind, Name: name, Err: err})
		return
	}
	obj.Kind, obj.Name = kind, name
	out.Objects = append(out.Objects, obj)
}

// prune drops generators of objects no longer in the scene.
func (b *Builder) prune(s *Scene) {
	roads := make(map[string]bool, len(s.Roads))
	for _, r := range s.Roads {
		roads[r.Name] = true
	}
	intersections := make(map[string]bool, len(s.Intersections))
	for _, x := range s.Intersections {
		intersections[x.Name] = true
	}
	lots := make(map[string]bool, len(s.Lots))
	for _, l := range s.Lots {
		lots[l.Name] = true
	}
	pruneMap(b.roads, roads)
	pruneMap(b.intersections, intersections)
	pruneMap(b.lots, lots)
}

func pruneMap[T any](m map[string]T, keep map[string]bool) {
	for name := range m {
		if !keep[name] {
			delete(m, name)
		}
	}
}
