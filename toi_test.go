package physics

import (
	"math"
	"testing"
)

func TestTimeOfImpact_Circles(t *testing.T) {
	circle := NewCircle(0.5, Vector{})
	input := TOIInput{
		ProxyA: NewDistanceProxy(circle, 0),
		ProxyB: NewDistanceProxy(circle, 0),
		SweepA: Sweep{},
		SweepB: Sweep{C0: Vector{-10, 0}, C: Vector{10, 0}},
		TMax:   1,
	}

	out := TimeOfImpact(&input)
	if out.State != TOIStateTouching {
		t.Fatalf("Expected touching, got %v", out.State)
	}

	// The sweep stops once the cores are target apart.
	target := 1 - 3*LinearSlop
	want := (10 - target) / 20
	if math.Abs(out.T-want) > 0.25*LinearSlop/20+1e-9 {
		t.Errorf("Expected t=%v, got %v", want, out.T)
	}
}

func TestTimeOfImpact_Separated(t *testing.T) {
	circle := NewCircle(0.5, Vector{})
	input := TOIInput{
		ProxyA: NewDistanceProxy(circle, 0),
		ProxyB: NewDistanceProxy(circle, 0),
		SweepA: Sweep{},
		SweepB: Sweep{C0: Vector{-10, 3}, C: Vector{10, 3}},
		TMax:   1,
	}

	out := TimeOfImpact(&input)
	if out.State != TOIStateSeparated || out.T != 1 {
		t.Errorf("Expected separated at 1, got %v at %v", out.State, out.T)
	}
}

func TestTimeOfImpact_Overlapped(t *testing.T) {
	box := NewBox(1, 1)
	input := TOIInput{
		ProxyA: NewDistanceProxy(box, 0),
		ProxyB: NewDistanceProxy(box, 0),
		SweepA: Sweep{},
		SweepB: Sweep{C0: Vector{0.5, 0}, C: Vector{3, 0}},
		TMax:   1,
	}

	out := TimeOfImpact(&input)
	if out.State != TOIStateOverlapped || out.T != 0 {
		t.Errorf("Expected overlapped at 0, got %v at %v", out.State, out.T)
	}
}

func TestTimeOfImpact_RotatingBox(t *testing.T) {
	// A thin spinning bar sweeps through a box it never overlaps at either
	// end of the step.
	bar := NewBox(2, 0.05)
	box := NewBox(0.2, 0.2)
	input := TOIInput{
		ProxyA: NewDistanceProxy(box, 0),
		ProxyB: NewDistanceProxy(bar, 0),
		SweepA: Sweep{C0: Vector{1.5, 0}, C: Vector{1.5, 0}},
		SweepB: Sweep{A0: -math.Pi / 4, A: math.Pi / 4},
		TMax:   1,
	}

	out := TimeOfImpact(&input)
	if out.State != TOIStateTouching {
		t.Fatalf("Expected touching, got %v", out.State)
	}
	if out.T <= 0 || out.T >= 0.5 {
		t.Errorf("Expected impact before the bar is horizontal, got %v", out.T)
	}

	xfA := input.SweepA.Transform(out.T)
	xfB := input.SweepB.Transform(out.T)
	d := distanceBetween(box, xfA, bar, xfB, false)
	if math.Abs(d.Distance-(2*PolygonRadius-3*LinearSlop)) > 0.5*LinearSlop {
		t.Errorf("Expected the cores near the target separation, got %v", d.Distance)
	}
}
