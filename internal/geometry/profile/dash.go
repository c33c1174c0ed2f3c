package profile

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/pkg/math"
)

const (
	// dashMinStep keeps the walk moving when float error leaves a zero-length step.
	dashMinStep = 0.01
	// dashRemainEpsilon ends a segment walk once less than this is left.
	dashRemainEpsilon = 0.001
	// dashSnapEpsilon snaps cycle positions within this of a cycle boundary.
	dashSnapEpsilon = 1e-4
)

// DashPattern is a repeating on/off pattern. A non-positive Period is a solid line.
type DashPattern struct {
	Period    float32
	FillRatio float32
}

// DashState is the distance walked so far along one strip. It carries the
// pattern phase from one segment into the next.
type DashState struct {
	Accumulated float32
}

// Span is one step of a dash walk.
type Span struct {
	// Offset is where the span starts within the current segment.
	Offset float32
	Length float32
	// Distance is the strip distance at the span start.
	Distance float32
	On       bool
}

func (p DashPattern) onLength() float32 {
	return p.Period * math.Clamp(p.FillRatio, 0, 1)
}

// Walk advances state across a segment of the given length, calling visit for
// every dash and gap. Identical inputs always produce identical spans.
func (p DashPattern) Walk(state *DashState, length float32, visit func(Span)) {
	on := p.onLength()
	var local float32
	remaining := length
	for remaining > dashRemainEpsilon {
		pos := state.Accumulated

		var cycle float32
		if p.Period > 0 {
			cycle = math32.Mod(pos, p.Period)
			if cycle < dashSnapEpsilon || p.Period-cycle < dashSnapEpsilon {
				cycle = 0
			}
		}

		inDash := p.Period <= 0 || cycle <= on-dashSnapEpsilon

		var step float32
		switch {
		case p.Period <= 0:
			step = remaining
		case inDash:
			step = on - cycle
		default:
			step = p.Period - cycle
		}
		step = max(step, dashMinStep)
		step = min(step, remaining)

		visit(Span{Offset: local, Length: step, Distance: pos, On: inDash})

		state.Accumulated += step
		local += step
		remaining -= step
	}
}

// DashedStrip lays a dashed line along a path. The pattern phase runs
// continuously across segments, starting from Start.
type DashedStrip struct {
	Path
	Offset        float32
	Lift          float32
	Width         float32
	Pattern       DashPattern
	Start         DashState
	TextureRepeat float32
}

func (s DashedStrip) walk(visit func(k int, segLen float32, sp Span)) {
	if s.Width <= 0 {
		return
	}
	state := s.Start
	for k := 0; k < s.Segments(); k++ {
		f0, f1 := s.Segment(k)
		segLen := offset(f1, s.Offset, s.Lift).Distance(offset(f0, s.Offset, s.Lift))
		s.Pattern.Walk(&state, segLen, func(sp Span) {
			if sp.On {
				visit(k, segLen, sp)
			}
		})
	}
}

// Dashes returns the number of dash quads the strip produces.
func (s DashedStrip) Dashes() int {
	n := 0
	s.walk(func(int, float32, Span) { n++ })
	return n
}

// Count implements Shape.
func (s DashedStrip) Count() (int, int) {
	n := s.Dashes()
	return 4 * n, 6 * n
}

// Emit implements Shape.
func (s DashedStrip) Emit(b *mesh.Builder, submesh string) {
	half := s.Width / 2
	s.walk(func(k int, segLen float32, sp Span) {
		f0, f1 := s.Segment(k)
		t0 := sp.Offset / segLen
		t1 := (sp.Offset + sp.Length) / segLen

		c0 := offset(f0, s.Offset, s.Lift)
		c1 := offset(f1, s.Offset, s.Lift)
		right := f0.Rotation.Right.Lerp(f1.Rotation.Right, (t0+t1)/2).Normalize()
		up := f0.Rotation.Up.Lerp(f1.Rotation.Up, (t0+t1)/2).Normalize()

		a := c0.Lerp(c1, t0)
		e := c0.Lerp(c1, t1)
		v0 := texel(sp.Distance, s.TextureRepeat)
		v1 := texel(sp.Distance+sp.Length, s.TextureRepeat)

		q := mesh.NewQuad(
			[4]math.Vec3{
				a.Sub(right.Scale(half)),
				a.Add(right.Scale(half)),
				e.Add(right.Scale(half)),
				e.Sub(right.Scale(half)),
			},
			up, f0.Rotation.Forward,
			[4]math.Vec2{{X: 0, Y: v0}, {X: 1, Y: v0}, {X: 1, Y: v1}, {X: 0, Y: v1}},
		)
		b.EmitQuad(submesh, orientQuad(q, up))
	})
}
