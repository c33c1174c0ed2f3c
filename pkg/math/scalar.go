package math

import "github.com/chewxy/math32"

// Degrees to radians and back.
const (
	DegToRad = math32.Pi / 180
	RadToDeg = 180 / math32.Pi
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// AngleDelta returns the signed shortest difference b - a in degrees, in (-180, 180].
func AngleDelta(a, b float32) float32 {
	d := math32.Mod(b-a, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}
