package math

// Basis is an orthonormal frame orientation.
// Right is always Forward x Up.
type Basis struct {
	Forward, Right, Up Vec3
}

// IdentityBasis is aligned with the world axes.
func IdentityBasis() Basis {
	return Basis{Forward: WorldForward, Right: WorldRight, Up: WorldUp}
}

// LookBasis aligns Forward with forward and Up as close to up as possible.
// When the two are parallel the world axes are tried in turn so the result
// is always orthonormal.
func LookBasis(forward, up Vec3) Basis {
	f := forward.Normalize()
	if f == (Vec3{}) {
		f = WorldForward
	}
	r := f.Cross(up).Normalize()
	if r == (Vec3{}) {
		r = f.Cross(WorldUp).Normalize()
	}
	if r == (Vec3{}) {
		r = f.Cross(WorldForward.Neg()).Normalize()
	}
	return Basis{Forward: f, Right: r, Up: r.Cross(f)}
}

// Mat4 returns the basis as a rotation matrix mapping local X/Y/Z to
// Forward/-Right/Up.
func (b Basis) Mat4() Mat4 {
	l := b.Right.Neg()
	return Mat4{
		b.Forward.X, b.Forward.Y, b.Forward.Z, 0,
		l.X, l.Y, l.Z, 0,
		b.Up.X, b.Up.Y, b.Up.Z, 0,
		0, 0, 0, 1,
	}
}
