package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
	if !m.IsIdentity() {
		t.Error("IsIdentity() = false")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTransformVec3(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformVec3(Vec3{1, 2, 3})
	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformVec3: got %v, want %v", got, want)
	}
	if d := m.TransformDirection(Vec3{1, 2, 3}); d != (Vec3{1, 2, 3}) {
		t.Errorf("TransformDirection should ignore translation, got %v", d)
	}
}

func TestPlacement(t *testing.T) {
	m := Placement(Vec3{100, 0, 5}, 90)
	got := m.TransformVec3(Vec3{10, 0, 0})
	want := Vec3{100, 10, 5}
	if !nearVec(got, want, 1e-4) {
		t.Errorf("Placement: got %v, want %v", got, want)
	}
}

func TestRotateZ(t *testing.T) {
	got := RotateZ(math.Pi / 2).TransformDirection(WorldForward)
	if !nearVec(got, Vec3{0, 1, 0}, 1e-6) {
		t.Errorf("RotateZ(90) forward = %v", got)
	}
}

func TestLookBasis(t *testing.T) {
	tests := []struct {
		name        string
		forward, up Vec3
	}{
		{"level", Vec3{1, 0, 0}, WorldUp},
		{"diagonal", Vec3{1, 1, 0.3}, WorldUp},
		{"parallel", WorldUp, WorldUp},
		{"zero forward", Vec3{}, WorldUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := LookBasis(tt.forward, tt.up)
			for _, v := range []Vec3{b.Forward, b.Right, b.Up} {
				if !near(v.Length(), 1, 1e-5) {
					t.Fatalf("axis %v not unit", v)
				}
			}
			if !near(b.Forward.Dot(b.Up), 0, 1e-5) || !near(b.Forward.Dot(b.Right), 0, 1e-5) {
				t.Errorf("basis not orthogonal: %+v", b)
			}
			if !nearVec(b.Forward.Cross(b.Up), b.Right, 1e-5) {
				t.Errorf("right != forward x up: %+v", b)
			}
		})
	}
	if got := IdentityBasis().Mat4().TransformDirection(Vec3{1, 0, 0}); got != WorldForward {
		t.Errorf("identity basis matrix maps X to %v", got)
	}
}
