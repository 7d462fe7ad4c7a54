package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tolerance = 1e-9

func TestVector_Normalize(t *testing.T) {
	v := Vector{}
	u := v.Normalize()
	if u.X != 0.0 || u.Y != 0.0 {
		t.Errorf("Expected zero vector, got %v", u)
	}

	u, length := Vector{3, 4}.NormalizeLength()
	if math.Abs(length-5) > tolerance || !u.Near(Vector{0.6, 0.8}, tolerance) {
		t.Errorf("Expected (0.6, 0.8) and 5, got %v and %v", u, length)
	}
}

func TestVector_Cross(t *testing.T) {
	a := Vector{1, 0}
	b := Vector{0, 1}
	if a.Cross(b) != 1 {
		t.Errorf("Expected 1, got %v", a.Cross(b))
	}
	if got := CrossVS(a, 2); !got.Equal(Vector{0, -2}) {
		t.Errorf("Expected (0, -2), got %v", got)
	}
	if got := CrossSV(2, a); !got.Equal(Vector{0, 2}) {
		t.Errorf("Expected (0, 2), got %v", got)
	}
}

func TestVector_Clamp(t *testing.T) {
	v := Vector{10, 0}.Clamp(2)
	if !v.Near(Vector{2, 0}, tolerance) {
		t.Errorf("Expected (2, 0), got %v", v)
	}
	v = Vector{1, 0}.Clamp(2)
	if !v.Equal(Vector{1, 0}) {
		t.Errorf("Expected (1, 0), got %v", v)
	}
	if Clamp(5, 0, 1) != 1 || Clamp(-5, 0, 1) != 0 {
		t.Error("Scalar clamp out of range")
	}
}

func TestVector_IsValid(t *testing.T) {
	if !(Vector{1, 2}).IsValid() {
		t.Error("Finite vector reported invalid")
	}
	if (Vector{math.NaN(), 0}).IsValid() || (Vector{0, math.Inf(1)}).IsValid() {
		t.Error("Non-finite vector reported valid")
	}
}

func TestTransform_Inverse(t *testing.T) {
	xf := NewTransform(Vector{3, -2}, 0.7)
	p := Vector{1.5, 4}
	if got := xf.InvPoint(xf.Point(p)); !got.Near(p, tolerance) {
		t.Errorf("Expected %v, got %v", p, got)
	}
	v := Vector{-1, 2}
	if got := xf.Q.Unrotate(xf.Q.Rotate(v)); !got.Near(v, tolerance) {
		t.Errorf("Expected %v, got %v", v, got)
	}
	if got := NewRot(0.7).Angle(); math.Abs(got-0.7) > tolerance {
		t.Errorf("Expected 0.7, got %v", got)
	}
}

func TestSweep_Normalize(t *testing.T) {
	s := Sweep{A0: 7 * math.Pi, A: 7*math.Pi + 0.5}
	s.Normalize()
	if s.A0 < 0 || s.A0 >= 2*math.Pi {
		t.Errorf("A0 not normalized: %v", s.A0)
	}
	if math.Abs(s.A-s.A0-0.5) > tolerance {
		t.Errorf("Sweep delta changed: %v", s.A-s.A0)
	}
}

func TestSweep_Advance(t *testing.T) {
	s := Sweep{C0: Vector{0, 0}, C: Vector{10, 0}, A0: 0, A: 1}
	s.Advance(0.5)
	if !s.C0.Near(Vector{5, 0}, tolerance) || math.Abs(s.A0-0.5) > tolerance || s.Alpha0 != 0.5 {
		t.Errorf("Unexpected sweep after advance: %+v", s)
	}
	xf := s.Transform(1)
	if !xf.P.Near(Vector{10, 0}, tolerance) {
		t.Errorf("Expected end position (10, 0), got %v", xf.P)
	}
}

func TestMat22_Solve(t *testing.T) {
	m := NewMat22(2, 1, 1, 3)
	b := Vector{3, 5}
	x := m.Solve(b)
	if got := m.Transform(x); !got.Near(b, tolerance) {
		t.Errorf("Expected %v, got %v", b, got)
	}
	if got := m.Inverse().Transform(b); !got.Near(x, tolerance) {
		t.Errorf("Inverse disagrees with Solve: %v vs %v", got, x)
	}

	singular := NewMat22(1, 2, 2, 4)
	if got := singular.Solve(b); !got.Equal(Vector{}) {
		t.Errorf("Expected zero for singular matrix, got %v", got)
	}
}

func TestMat33_Solve(t *testing.T) {
	m := Mat33{
		Ex: mgl64.Vec3{4, 1, 0},
		Ey: mgl64.Vec3{1, 3, 1},
		Ez: mgl64.Vec3{0, 1, 2},
	}
	b := mgl64.Vec3{1, 2, 3}
	x := m.Solve33(b)
	if got := m.Mul(x); !got.ApproxEqualThreshold(b, 1e-9) {
		t.Errorf("Expected %v, got %v", b, got)
	}

	x2 := m.Solve22(Vector{1, 2})
	if got := m.Mul22(x2); !got.Near(Vector{1, 2}, tolerance) {
		t.Errorf("Expected (1, 2), got %v", got)
	}

	inv := m.SymInverse33()
	if got := inv.Mul(m.Mul(b)); !got.ApproxEqualThreshold(b, 1e-9) {
		t.Errorf("SymInverse33 failed to invert: %v", got)
	}
}

func TestMat33_SolveSmallEntries(t *testing.T) {
	const scale = 1e-8
	m := Mat33{
		Ex: mgl64.Vec3{4 * scale, 1 * scale, 0},
		Ey: mgl64.Vec3{1 * scale, 3 * scale, 1 * scale},
		Ez: mgl64.Vec3{0, 1 * scale, 2 * scale},
	}
	b := mgl64.Vec3{1, 2, 3}

	x := m.Solve33(b)
	if x.Len() == 0 {
		t.Fatal("Solve33 treated a well conditioned matrix as singular")
	}
	if got := m.Mul(x); !got.ApproxEqualThreshold(b, 1e-6) {
		t.Errorf("Expected %v, got %v", b, got)
	}

	inv := m.SymInverse33()
	if got := m.Mul(inv.Mul(b)); !got.ApproxEqualThreshold(b, 1e-6) {
		t.Errorf("SymInverse33 failed to invert: %v", got)
	}

	var singular Mat33
	singular.Ex = mgl64.Vec3{1, 2, 3}
	singular.Ey = mgl64.Vec3{2, 4, 6}
	singular.Ez = mgl64.Vec3{0, 1, 1}
	if got := singular.Solve33(b); got != (mgl64.Vec3{}) {
		t.Errorf("Expected zero for singular matrix, got %v", got)
	}
}
