package physics

import (
	"math"
	"testing"
)

func TestShapeCircleMass(t *testing.T) {
	circle := NewCircle(2, Vector{})
	md := circle.ComputeMass(1)
	if math.Abs(md.Mass-4*math.Pi) > tolerance {
		t.Errorf("Expected mass 4pi, got %v", md.Mass)
	}
	if math.Abs(md.I-0.5*md.Mass*4) > tolerance {
		t.Errorf("Expected inertia %v, got %v", 0.5*md.Mass*4, md.I)
	}

	offset := NewCircle(1, Vector{3, 0}).ComputeMass(1)
	if !offset.Center.Equal(Vector{3, 0}) {
		t.Errorf("Expected center (3, 0), got %v", offset.Center)
	}
	if math.Abs(offset.I-offset.Mass*(0.5+9)) > tolerance {
		t.Errorf("Parallel axis not applied: %v", offset.I)
	}
}

func TestShapeBoxMass(t *testing.T) {
	box := NewBox(1, 0.5)
	md := box.ComputeMass(2)
	if math.Abs(md.Mass-4) > tolerance {
		t.Errorf("Expected mass 4, got %v", md.Mass)
	}
	if !md.Center.Near(Vector{}, tolerance) {
		t.Errorf("Expected centered box, got %v", md.Center)
	}
	// m * (w^2 + h^2) / 12
	want := 4 * (4 + 1) / 12.0
	if math.Abs(md.I-want) > 1e-9 {
		t.Errorf("Expected inertia %v, got %v", want, md.I)
	}

	shifted := NewOrientedBox(1, 0.5, Vector{2, 0}, 0).ComputeMass(2)
	if !shifted.Center.Near(Vector{2, 0}, 1e-9) {
		t.Errorf("Expected center (2, 0), got %v", shifted.Center)
	}
	if math.Abs(shifted.I-(want+4*4)) > 1e-9 {
		t.Errorf("Expected inertia %v, got %v", want+16, shifted.I)
	}
}

func TestShapePolygonHull(t *testing.T) {
	poly := NewPolygon([]Vector{{0, 0}, {1, 1}, {2, 0}, {2, 2}, {0, 2}})
	if poly.Count() != 4 {
		t.Fatalf("Expected the interior point to be dropped, got %v vertices", poly.Count())
	}
	if !poly.Validate() {
		t.Error("Hull is not convex")
	}
	if !poly.Centroid.Near(Vector{1, 1}, 1e-9) {
		t.Errorf("Expected centroid (1, 1), got %v", poly.Centroid)
	}
	for i, n := range poly.Normals {
		if n.Dot(poly.Vertices[i].Sub(poly.Centroid)) <= 0 {
			t.Errorf("Normal %v does not point outward", i)
		}
		if math.Abs(n.Length()-1) > 1e-9 {
			t.Errorf("Normal %v is not unit length", i)
		}
	}
}

func TestShapePolygonDegenerate(t *testing.T) {
	for _, points := range [][]Vector{
		{{0, 0}, {1, 0}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 0}, {0.001, 0}, {0, 0.001}},
	} {
		poly := NewPolygon(points)
		if poly.Count() != 4 || !poly.Vertices[2].Equal(Vector{1, 1}) {
			t.Errorf("Expected fallback box for %v, got %v", points, poly.Vertices)
		}
	}
}

func TestShapeTestPoint(t *testing.T) {
	xf := NewTransform(Vector{5, 0}, math.Pi/4)

	box := NewBox(1, 1)
	if !box.TestPoint(xf, Vector{5, 0}) {
		t.Error("Expected box center inside")
	}
	if !box.TestPoint(xf, Vector{5, 1.3}) {
		t.Error("Expected rotated corner region inside")
	}
	if box.TestPoint(xf, Vector{6, 1}) {
		t.Error("Expected point outside rotated box")
	}

	circle := NewCircle(1, Vector{1, 0})
	if !circle.TestPoint(NewTransformIdentity(), Vector{1.5, 0}) {
		t.Error("Expected point inside circle")
	}
	if circle.TestPoint(NewTransformIdentity(), Vector{-0.5, 0}) {
		t.Error("Expected point outside circle")
	}

	if NewEdge(Vector{-1, 0}, Vector{1, 0}).TestPoint(NewTransformIdentity(), Vector{}) {
		t.Error("Edges have no interior")
	}
}

func TestShapeRayCast(t *testing.T) {
	input := RayCastInput{P1: Vector{-3, 0}, P2: Vector{3, 0}, MaxFraction: 1}
	xf := NewTransformIdentity()

	for _, shape := range []Shape{NewCircle(1, Vector{}), NewBox(1, 1)} {
		out, hit := shape.RayCast(input, xf, 0)
		if !hit {
			t.Errorf("%v: expected hit", shape.Kind())
			continue
		}
		if math.Abs(out.Fraction-1.0/3.0) > 1e-9 {
			t.Errorf("%v: expected fraction 1/3, got %v", shape.Kind(), out.Fraction)
		}
		if !out.Normal.Near(Vector{-1, 0}, 1e-9) {
			t.Errorf("%v: expected normal (-1, 0), got %v", shape.Kind(), out.Normal)
		}
	}

	short := input
	short.MaxFraction = 0.2
	if _, hit := NewBox(1, 1).RayCast(short, xf, 0); hit {
		t.Error("Expected miss for a ray clipped before the box")
	}

	edge := NewEdge(Vector{-1, 0}, Vector{1, 0})
	out, hit := edge.RayCast(RayCastInput{P1: Vector{0, 2}, P2: Vector{0, -2}, MaxFraction: 1}, xf, 0)
	if !hit || math.Abs(out.Fraction-0.5) > 1e-9 || !out.Normal.Near(Vector{0, 1}, 1e-9) {
		t.Errorf("Unexpected edge hit %v %+v", hit, out)
	}
	if _, hit := edge.RayCast(RayCastInput{P1: Vector{3, 2}, P2: Vector{3, -2}, MaxFraction: 1}, xf, 0); hit {
		t.Error("Expected miss beyond the edge end")
	}
}

func TestShapeComputeAABB(t *testing.T) {
	bb := NewBox(1, 2).ComputeAABB(NewTransform(Vector{1, 1}, 0), 0)
	r := PolygonRadius
	want := BB{-r, -1 - r, 2 + r, 3 + r}
	if math.Abs(bb.L-want.L) > 1e-9 || math.Abs(bb.T-want.T) > 1e-9 {
		t.Errorf("Expected %v, got %v", want, bb)
	}

	bb = NewCircle(0.5, Vector{1, 0}).ComputeAABB(NewTransform(Vector{}, math.Pi/2), 0)
	if !bb.Center().Near(Vector{0, 1}, 1e-9) {
		t.Errorf("Expected rotated circle center (0, 1), got %v", bb.Center())
	}
}

func TestShapeChain(t *testing.T) {
	chain := NewChain([]Vector{{0, 0}, {1, 0}, {1, 0.001}, {2, 0}, {3, 1}})
	if chain.ChildCount() != 3 {
		t.Fatalf("Expected welded chain of 3 edges, got %v", chain.ChildCount())
	}
	first := chain.ChildEdge(0)
	if first.HasVertex0 || !first.HasVertex3 || !first.Vertex3.Equal(Vector{2, 0}) {
		t.Errorf("Unexpected ghost vertices on first edge: %+v", first)
	}
	last := chain.ChildEdge(2)
	if !last.HasVertex0 || last.HasVertex3 {
		t.Errorf("Unexpected ghost vertices on last edge: %+v", last)
	}
	if md := chain.ComputeMass(1); md.Mass != 0 {
		t.Errorf("Expected zero chain mass, got %v", md.Mass)
	}

	loop := NewLoop([]Vector{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	if !loop.IsClosed() || loop.ChildCount() != 4 {
		t.Fatalf("Expected closed loop with 4 edges, got %v", loop.ChildCount())
	}
	edge := loop.ChildEdge(0)
	if !edge.HasVertex0 || !edge.Vertex0.Equal(Vector{0, 1}) {
		t.Errorf("Expected loop to wrap ghost vertex, got %+v", edge)
	}
	edge = loop.ChildEdge(3)
	if !edge.HasVertex3 || !edge.Vertex3.Equal(Vector{1, 0}) {
		t.Errorf("Expected loop to wrap ghost vertex, got %+v", edge)
	}
}

func TestShapeClone(t *testing.T) {
	poly := NewBox(1, 1)
	clone := poly.Clone().(*Polygon)
	clone.Vertices[0] = Vector{9, 9}
	if poly.Vertices[0].Equal(Vector{9, 9}) {
		t.Error("Clone shares vertex storage")
	}
}
