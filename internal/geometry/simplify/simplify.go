// Package simplify picks which sampled frames a generator actually needs.
//
// Long straight runs collapse to their endpoints while every frame on a curve
// is kept. The first and last frames always survive.
package simplify

import (
	"sort"

	"github.com/Faultbox/roadkit/internal/geometry/frame"
	"github.com/Faultbox/roadkit/pkg/math"
)

// Options controls simplification.
type Options struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	// AngleThreshold is the turning angle in degrees below which a frame counts as straight.
	AngleThreshold float32 `yaml:"angle_threshold" toml:"angle_threshold"`
	// MinRun is the number of consecutive straight frames needed before they are dropped.
	MinRun int `yaml:"min_run" toml:"min_run"`
}

// DefaultOptions returns the stock simplification settings.
func DefaultOptions() Options {
	return Options{Enabled: true, AngleThreshold: 1, MinRun: 3}
}

// Apply returns the retained indices for frames under opts.
func (o Options) Apply(frames []frame.Frame, segmentCount int) []int {
	if !o.Enabled {
		return All(segmentCount)
	}
	return Retain(frames, segmentCount, o.MinRun, o.AngleThreshold)
}

// All returns every index 0..segmentCount.
func All(segmentCount int) []int {
	idx := make([]int, segmentCount+1)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// TurningAngle returns the angle in degrees between b-a and c-b.
// Degenerate directions count as straight.
func TurningAngle(a, b, c math.Vec3) float32 {
	d0 := b.Sub(a).Normalize()
	d1 := c.Sub(b).Normalize()
	if d0 == (math.Vec3{}) || d1 == (math.Vec3{}) {
		return 0
	}
	return math.AngleBetween(d0, d1) * math.RadToDeg
}

// Retain walks boundaries 1..segmentCount-1 measuring the turning angle at each.
// A run of straight boundaries shorter than minRun is kept; a longer run is dropped.
// The curved boundary that ends a run is kept. frames must hold at least
// segmentCount+1 entries. The result is sorted, unique and contains 0 and segmentCount.
func Retain(frames []frame.Frame, segmentCount, minRun int, angleThreshold float32) []int {
	if segmentCount < 1 {
		return []int{0}
	}

	keep := []int{0}
	var run []int
	flush := func(drop bool) {
		if !drop {
			keep = append(keep, run...)
		}
		run = run[:0]
	}

	for i := 1; i < segmentCount; i++ {
		angle := TurningAngle(frames[i-1].Position, frames[i].Position, frames[i+1].Position)
		if angle < angleThreshold {
			run = append(run, i)
			continue
		}
		flush(len(run) >= minRun)
		keep = append(keep, i)
	}
	flush(len(run) >= minRun)
	keep = append(keep, segmentCount)

	sort.Ints(keep)
	out := keep[:1]
	for _, k := range keep[1:] {
		if k != out[len(out)-1] {
			out = append(out, k)
		}
	}
	return out
}
