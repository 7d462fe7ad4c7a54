package physics

import (
	"math"
	"testing"
)

func TestCollideCircles(t *testing.T) {
	a := NewCircle(1, Vector{})
	b := NewCircle(1, Vector{})
	xfA := NewTransformIdentity()
	xfB := NewTransform(Vector{1.5, 0}, 0)

	m := CollideCircles(a, xfA, b, xfB)
	if m.PointCount != 1 || m.Type != ManifoldCircles {
		t.Fatalf("Expected one circle point, got %+v", m)
	}

	wm := NewWorldManifold(&m, xfA, a.R, xfB, b.R)
	if !wm.Normal.Near(Vector{1, 0}, 1e-9) {
		t.Errorf("Expected normal (1, 0), got %v", wm.Normal)
	}
	if math.Abs(wm.Separations[0]+0.5) > 1e-9 {
		t.Errorf("Expected separation -0.5, got %v", wm.Separations[0])
	}
	if !wm.Points[0].Near(Vector{0.75, 0}, 1e-9) {
		t.Errorf("Expected midpoint (0.75, 0), got %v", wm.Points[0])
	}

	m = CollideCircles(a, xfA, b, NewTransform(Vector{2.1, 0}, 0))
	if m.PointCount != 0 {
		t.Errorf("Expected no points, got %v", m.PointCount)
	}
}

func TestCollidePolygonAndCircle(t *testing.T) {
	box := NewBox(1, 1)
	circle := NewCircle(0.5, Vector{})
	xfA := NewTransformIdentity()

	// Face region.
	xfB := NewTransform(Vector{0, 1.4}, 0)
	m := CollidePolygonAndCircle(box, xfA, circle, xfB)
	if m.PointCount != 1 || m.Type != ManifoldFaceA {
		t.Fatalf("Expected face contact, got %+v", m)
	}
	wm := NewWorldManifold(&m, xfA, box.R, xfB, circle.R)
	if !wm.Normal.Near(Vector{0, 1}, 1e-9) {
		t.Errorf("Expected normal (0, 1), got %v", wm.Normal)
	}
	if math.Abs(wm.Separations[0]-(0.4-0.5-box.R)) > 1e-9 {
		t.Errorf("Unexpected separation %v", wm.Separations[0])
	}

	// Vertex region.
	xfB = NewTransform(Vector{1.3, 1.3}, 0)
	m = CollidePolygonAndCircle(box, xfA, circle, xfB)
	if m.PointCount != 1 {
		t.Fatalf("Expected vertex contact, got %+v", m)
	}
	wm = NewWorldManifold(&m, xfA, box.R, xfB, circle.R)
	diag := Vector{1, 1}.Normalize()
	if !wm.Normal.Near(diag, 1e-9) {
		t.Errorf("Expected diagonal normal, got %v", wm.Normal)
	}

	m = CollidePolygonAndCircle(box, xfA, circle, NewTransform(Vector{1.5, 1.5}, 0))
	if m.PointCount != 0 {
		t.Errorf("Expected no contact past the corner, got %v", m.PointCount)
	}
}

func TestCollidePolygons(t *testing.T) {
	ground := NewBox(1, 1)
	box := NewBox(0.5, 0.5)
	xfA := NewTransformIdentity()
	xfB := NewTransform(Vector{0, 1.4}, 0)

	m := CollidePolygons(ground, xfA, box, xfB)
	if m.PointCount != 2 {
		t.Fatalf("Expected two points, got %+v", m)
	}

	wm := NewWorldManifold(&m, xfA, ground.R, xfB, box.R)
	if !wm.Normal.Near(Vector{0, 1}, 1e-9) {
		t.Errorf("Expected normal (0, 1), got %v", wm.Normal)
	}
	for i := 0; i < 2; i++ {
		if math.Abs(wm.Separations[i]-(-0.1-2*PolygonRadius)) > 1e-9 {
			t.Errorf("Point %v: unexpected separation %v", i, wm.Separations[i])
		}
		if math.Abs(math.Abs(wm.Points[i].X)-0.5) > 1e-9 {
			t.Errorf("Point %v: expected a box corner, got %v", i, wm.Points[i])
		}
	}
	if m.Points[0].ID.Key() == m.Points[1].ID.Key() {
		t.Error("Manifold points share an id")
	}

	// Reversing the pair reverses the normal.
	m = CollidePolygons(box, xfB, ground, xfA)
	wm = NewWorldManifold(&m, xfB, box.R, xfA, ground.R)
	if m.PointCount != 2 || !wm.Normal.Near(Vector{0, -1}, 1e-9) {
		t.Errorf("Expected normal (0, -1) for the reversed pair, got %v", wm.Normal)
	}

	m = CollidePolygons(ground, xfA, box, NewTransform(Vector{0, 1.6}, 0))
	if m.PointCount != 0 {
		t.Errorf("Expected separated boxes, got %v points", m.PointCount)
	}
}

func TestManifoldPointStates(t *testing.T) {
	ground := NewBox(1, 1)
	box := NewBox(0.5, 0.5)
	xfA := NewTransformIdentity()

	m1 := CollidePolygons(ground, xfA, box, NewTransform(Vector{0, 1.4}, 0))
	m2 := CollidePolygons(ground, xfA, box, NewTransform(Vector{0.01, 1.39}, 0))

	state1, state2 := PointStates(&m1, &m2)
	for i := 0; i < 2; i++ {
		if state1[i] != PointStatePersist || state2[i] != PointStatePersist {
			t.Errorf("Point %v did not persist: %v %v", i, state1[i], state2[i])
		}
	}

	var empty Manifold
	state1, state2 = PointStates(&m1, &empty)
	if state1[0] != PointStateRemove || state2[0] != PointStateNull {
		t.Errorf("Expected remove/null, got %v %v", state1[0], state2[0])
	}
	state1, state2 = PointStates(&empty, &m1)
	if state1[0] != PointStateNull || state2[0] != PointStateAdd {
		t.Errorf("Expected null/add, got %v %v", state1[0], state2[0])
	}
}

func TestContactID(t *testing.T) {
	id := ContactID{IndexA: 1, IndexB: 2, TypeA: FeatureVertex, TypeB: FeatureFace}
	if id.Swap().Swap() != id {
		t.Error("Swap is not an involution")
	}
	if id.Swap().Key() == id.Key() {
		t.Error("Swapped id should have a different key")
	}
	if (ContactID{IndexA: 1}).Key() == (ContactID{IndexB: 1}).Key() {
		t.Error("Key mixes up the features")
	}
}

func TestCollideEdgeAndCircle(t *testing.T) {
	edge := NewEdge(Vector{-1, 0}, Vector{1, 0})
	circle := NewCircle(0.5, Vector{})
	xfA := NewTransformIdentity()

	xfB := NewTransform(Vector{0, 0.4}, 0)
	m := CollideEdgeAndCircle(edge, xfA, circle, xfB)
	if m.PointCount != 1 || m.Type != ManifoldFaceA {
		t.Fatalf("Expected face contact, got %+v", m)
	}
	wm := NewWorldManifold(&m, xfA, edge.R, xfB, circle.R)
	if !wm.Normal.Near(Vector{0, 1}, 1e-9) {
		t.Errorf("Expected normal (0, 1), got %v", wm.Normal)
	}

	// From below the edge is two-sided.
	xfB = NewTransform(Vector{0, -0.4}, 0)
	m = CollideEdgeAndCircle(edge, xfA, circle, xfB)
	wm = NewWorldManifold(&m, xfA, edge.R, xfB, circle.R)
	if m.PointCount != 1 || !wm.Normal.Near(Vector{0, -1}, 1e-9) {
		t.Errorf("Expected normal (0, -1) from below, got %v", wm.Normal)
	}

	// Vertex region.
	xfB = NewTransform(Vector{1.3, 0}, 0)
	m = CollideEdgeAndCircle(edge, xfA, circle, xfB)
	if m.PointCount != 1 || m.Type != ManifoldCircles || m.Points[0].ID.IndexA != 1 {
		t.Errorf("Expected a vertex contact on the second vertex, got %+v", m)
	}

	// A neighbouring edge owns the vertex region.
	edge.Vertex3 = Vector{2, 0}
	edge.HasVertex3 = true
	m = CollideEdgeAndCircle(edge, xfA, circle, xfB)
	if m.PointCount != 0 {
		t.Errorf("Expected the ghost vertex to suppress the contact, got %+v", m)
	}
}

func TestCollideEdgeAndPolygon(t *testing.T) {
	edge := NewEdge(Vector{-5, 0}, Vector{5, 0})
	box := NewBox(0.5, 0.5)
	xfA := NewTransformIdentity()
	xfB := NewTransform(Vector{0, 0.45}, 0)

	m := CollideEdgeAndPolygon(edge, xfA, box, xfB)
	if m.PointCount != 2 {
		t.Fatalf("Expected two points, got %+v", m)
	}
	wm := NewWorldManifold(&m, xfA, edge.R, xfB, box.R)
	if !wm.Normal.Near(Vector{0, 1}, 1e-9) {
		t.Errorf("Expected normal (0, 1), got %v", wm.Normal)
	}
	for i := 0; i < 2; i++ {
		if wm.Separations[i] > 0 {
			t.Errorf("Point %v: expected penetration, got %v", i, wm.Separations[i])
		}
	}
}

func TestCollideChainSmooth(t *testing.T) {
	chain := NewChain([]Vector{{-4, 0}, {0, 0}, {4, 0}})
	box := NewBox(0.5, 0.5)
	xfA := NewTransformIdentity()
	// Straddling the shared vertex.
	xfB := NewTransform(Vector{0, 0.49}, 0)

	for child := 0; child < chain.ChildCount(); child++ {
		fn, primary := lookupManifold(ShapeChain, ShapePolygon)
		if fn == nil || !primary {
			t.Fatal("Missing chain/polygon manifold function")
		}
		m := fn(chain, child, xfA, box, 0, xfB)
		if m.PointCount == 0 {
			t.Fatalf("Child %v: expected contact", child)
		}
		wm := NewWorldManifold(&m, xfA, chain.R, xfB, box.R)
		if !wm.Normal.Near(Vector{0, 1}, 1e-6) {
			t.Errorf("Child %v: expected normal (0, 1), got %v", child, wm.Normal)
		}
	}
}

func TestManifoldDispatch(t *testing.T) {
	cases := []struct {
		a, b    ShapeKind
		ok      bool
		primary bool
	}{
		{ShapeCircle, ShapeCircle, true, true},
		{ShapePolygon, ShapeCircle, true, true},
		{ShapeCircle, ShapePolygon, true, false},
		{ShapePolygon, ShapePolygon, true, true},
		{ShapeEdge, ShapeCircle, true, true},
		{ShapePolygon, ShapeEdge, true, false},
		{ShapeChain, ShapeCircle, true, true},
		{ShapeCircle, ShapeChain, true, false},
		{ShapeEdge, ShapeEdge, false, false},
		{ShapeEdge, ShapeChain, false, false},
		{ShapeChain, ShapeChain, false, false},
	}
	for _, c := range cases {
		fn, primary := lookupManifold(c.a, c.b)
		if (fn != nil) != c.ok || primary != c.primary {
			t.Errorf("%v/%v: got fn=%v primary=%v", c.a, c.b, fn != nil, primary)
		}
	}
}
