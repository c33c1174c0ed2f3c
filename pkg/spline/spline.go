package spline

import (
	"errors"
	"sort"

	"github.com/Faultbox/roadkit/pkg/math"
)

// ErrTooFewPoints is returned when a spline has fewer than two control points.
var ErrTooFewPoints = errors.New("spline needs at least two points")

// stepsPerSegment is the arc-length table resolution.
const stepsPerSegment = 64

// Sample is the curve state at a distance along the spline.
type Sample struct {
	Position math.Vec3
	// Tangent is unit length.
	Tangent math.Vec3
	// Roll is in radians.
	Roll float32
	// Up is the interpolated up hint, unit length.
	Up    math.Vec3
	Scale math.Vec3
}

type segment struct {
	p0, p1, p2, p3 math.Vec3
	a, b           *Point
}

// Spline is a piecewise cubic Bezier curve parameterised by arc length.
type Spline struct {
	points   []Point
	loop     bool
	segments []segment
	// table[i] is the arc length at global parameter i/stepsPerSegment.
	table []float32
}

// New builds a spline from control points. The points are copied.
func New(points []Point, loop bool) (*Spline, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	s := &Spline{
		points: append([]Point(nil), points...),
		loop:   loop,
	}
	s.resolveHandles()
	s.buildSegments()
	s.buildTable()
	return s, nil
}

// Points returns the control points with resolved handles.
func (s *Spline) Points() []Point {
	return append([]Point(nil), s.points...)
}

// IsLoop reports whether the last point connects back to the first.
func (s *Spline) IsLoop() bool {
	return s.loop
}

// Length returns the total arc length.
func (s *Spline) Length() float32 {
	return s.table[len(s.table)-1]
}

func (s *Spline) resolveHandles() {
	n := len(s.points)
	for i := range s.points {
		p := &s.points[i]
		switch p.Mode {
		case HandleLinear:
			p.In, p.Out = math.Vec3{}, math.Vec3{}
		case HandleMirrored:
			p.In = p.Out.Neg()
		case HandleAuto:
			prev, next := i-1, i+1
			if s.loop {
				prev = (i - 1 + n) % n
				next = (i + 1) % n
			}
			var dir math.Vec3
			switch {
			case prev < 0:
				dir = s.points[next].Position.Sub(p.Position)
			case next >= n:
				dir = p.Position.Sub(s.points[prev].Position)
			default:
				dir = s.points[next].Position.Sub(s.points[prev].Position).Scale(0.5)
			}
			p.Out = dir.Scale(1.0 / 3)
			p.In = p.Out.Neg()
		}
	}
}

func (s *Spline) buildSegments() {
	n := len(s.points)
	count := n - 1
	if s.loop {
		count = n
	}
	s.segments = make([]segment, count)
	for i := 0; i < count; i++ {
		a := &s.points[i]
		b := &s.points[(i+1)%n]
		s.segments[i] = segment{
			p0: a.Position,
			p1: a.Position.Add(a.Out),
			p2: b.Position.Add(b.In),
			p3: b.Position,
			a:  a,
			b:  b,
		}
	}
}

func (s *Spline) buildTable() {
	s.table = make([]float32, len(s.segments)*stepsPerSegment+1)
	var total float32
	prev := s.segments[0].p0
	k := 1
	for i := range s.segments {
		seg := &s.segments[i]
		for j := 1; j <= stepsPerSegment; j++ {
			p := seg.position(float32(j) / stepsPerSegment)
			total += p.Distance(prev)
			prev = p
			s.table[k] = total
			k++
		}
	}
}

// locate maps a distance to a segment index and local parameter.
func (s *Spline) locate(d float32) (int, float32) {
	d = math.Clamp(d, 0, s.Length())
	i := sort.Search(len(s.table), func(i int) bool { return s.table[i] >= d })
	if i == 0 {
		return 0, 0
	}
	if i >= len(s.table) {
		i = len(s.table) - 1
	}
	lo, hi := s.table[i-1], s.table[i]
	frac := float32(0)
	if hi > lo {
		frac = (d - lo) / (hi - lo)
	}
	g := (float32(i-1) + frac) / stepsPerSegment
	seg := int(g)
	if seg >= len(s.segments) {
		return len(s.segments) - 1, 1
	}
	return seg, g - float32(seg)
}

// SampleAtDistance evaluates the curve at d, clamped to [0, Length()].
func (s *Spline) SampleAtDistance(d float32) Sample {
	i, t := s.locate(d)
	seg := &s.segments[i]

	tangent := seg.derivative(t)
	if tangent.IsNearZero(1e-6) {
		tangent = seg.p3.Sub(seg.p0)
	}
	tangent = tangent.Normalize()
	if tangent == (math.Vec3{}) {
		tangent = math.WorldForward
	}

	up := upHint(seg.a).Lerp(upHint(seg.b), t).Normalize()
	if up == (math.Vec3{}) {
		up = math.WorldUp
	}

	return Sample{
		Position: seg.position(t),
		Tangent:  tangent,
		Roll:     math.Lerp(seg.a.Roll, seg.b.Roll, t) * math.DegToRad,
		Up:       up,
		Scale:    scaleOf(seg.a).Lerp(scaleOf(seg.b), t),
	}
}

// ClosestPoint returns the distance along the curve and the position nearest to p.
func (s *Spline) ClosestPoint(p math.Vec3) (float32, math.Vec3) {
	best, bestDist := -1, float32(0)
	for k, d := range s.table {
		q := s.SampleAtDistance(d).Position
		if dd := q.Sub(p).LengthSquared(); best < 0 || dd < bestDist {
			best, bestDist = k, dd
		}
	}

	lo := s.table[max(best-1, 0)]
	hi := s.table[min(best+1, len(s.table)-1)]
	dist := func(d float32) float32 {
		return s.SampleAtDistance(d).Position.Sub(p).LengthSquared()
	}
	// golden-section search on the bracketing span
	const invPhi = 0.6180339887
	a, b := lo, hi
	c := b - (b-a)*invPhi
	e := a + (b-a)*invPhi
	for i := 0; i < 32 && b-a > 1e-4; i++ {
		if dist(c) < dist(e) {
			b = e
		} else {
			a = c
		}
		c = b - (b-a)*invPhi
		e = a + (b-a)*invPhi
	}
	d := (a + b) / 2
	return d, s.SampleAtDistance(d).Position
}

// Bounds returns the axis-aligned bounds of the control points.
func (s *Spline) Bounds() (lo, hi math.Vec3) {
	lo, hi = s.points[0].Position, s.points[0].Position
	for _, p := range s.points[1:] {
		lo = math.Vec3{X: min(lo.X, p.Position.X), Y: min(lo.Y, p.Position.Y), Z: min(lo.Z, p.Position.Z)}
		hi = math.Vec3{X: max(hi.X, p.Position.X), Y: max(hi.Y, p.Position.Y), Z: max(hi.Z, p.Position.Z)}
	}
	return lo, hi
}

func upHint(p *Point) math.Vec3 {
	if p.Up == (math.Vec3{}) {
		return math.WorldUp
	}
	return p.Up.Normalize()
}

func scaleOf(p *Point) math.Vec3 {
	if p.Scale == (math.Vec3{}) {
		return math.Vec3{X: 1, Y: 1, Z: 1}
	}
	return p.Scale
}

func (g *segment) position(t float32) math.Vec3 {
	u := 1 - t
	return g.p0.Scale(u * u * u).
		Add(g.p1.Scale(3 * u * u * t)).
		Add(g.p2.Scale(3 * u * t * t)).
		Add(g.p3.Scale(t * t * t))
}

func (g *segment) derivative(t float32) math.Vec3 {
	u := 1 - t
	return g.p1.Sub(g.p0).Scale(3 * u * u).
		Add(g.p2.Sub(g.p1).Scale(6 * u * t)).
		Add(g.p3.Sub(g.p2).Scale(3 * t * t))
}
