package march

import (
	"math"
	"testing"

	physics "github.com/flowersteam/Interactive-DeepRL-Demo-sub000"
)

func signedArea(verts []physics.Vector) float64 {
	var area float64
	for i := 1; i < len(verts); i++ {
		area += verts[i-1].Cross(verts[i])
	}
	return area / 2
}

func TestSoft_Circle(t *testing.T) {
	const r2 = 0.95 * 0.95
	var set PolyLineSet
	Soft(physics.NewBB(-2, -2, 2, 2), 41, 41, 0, set.Collect, func(p physics.Vector) float64 {
		return r2 - p.LengthSq()
	})

	if len(set.Lines) != 1 {
		t.Fatalf("Expected one contour, got %v", len(set.Lines))
	}
	line := set.Lines[0]
	if !line.IsClosed() {
		t.Fatal("Contour around a disc should be closed")
	}
	for _, v := range line.Verts {
		if math.Abs(v.Length()-0.95) > 0.02 {
			t.Errorf("Vertex %v is off the circle", v)
		}
	}
	if area := signedArea(line.Verts); math.Abs(area-math.Pi*r2) > 0.02*math.Pi*r2 {
		t.Errorf("Contour area %v, want about %v", area, math.Pi*r2)
	}

	simple := line.SimplifyCurves(0.01)
	if !simple.IsClosed() || len(simple.Verts) >= len(line.Verts) {
		t.Errorf("Simplified %v vertices to %v", len(line.Verts), len(simple.Verts))
	}
	if area := signedArea(simple.Verts); area <= 0 {
		t.Error("Simplified contour lost its winding")
	}
}

func TestHard_Tile(t *testing.T) {
	var set PolyLineSet
	Hard(physics.NewBB(-3, -3, 3, 3), 7, 7, 0.5, set.Collect, func(p physics.Vector) float64 {
		if math.Abs(p.X) < 0.5 && math.Abs(p.Y) < 0.5 {
			return 1
		}
		return 0
	})

	if len(set.Lines) != 1 || !set.Lines[0].IsClosed() {
		t.Fatalf("Expected one closed contour, got %v", len(set.Lines))
	}
	if n := len(set.Lines[0].Verts); n != 9 {
		t.Errorf("Expected 8 vertices and the closing one, got %v", n)
	}

	square := set.Lines[0].SimplifyVertexes(0.1)
	if len(square.Verts) != 5 || !square.IsClosed() {
		t.Fatalf("Expected a closed square, got %v", square.Verts)
	}
	for _, v := range square.Verts {
		if math.Abs(math.Abs(v.X)-0.5) > 1e-9 || math.Abs(math.Abs(v.Y)-0.5) > 1e-9 {
			t.Errorf("Vertex %v is not a corner", v)
		}
	}

	loop := square.Chain()
	if !loop.IsClosed() || loop.ChildCount() != 4 {
		t.Errorf("Expected a four edge loop, got %v edges", loop.ChildCount())
	}
}

func TestCollect_Joins(t *testing.T) {
	var set PolyLineSet
	set.Collect(physics.Vector{X: 0}, physics.Vector{X: 1})
	set.Collect(physics.Vector{X: 2}, physics.Vector{X: 3})
	set.Collect(physics.Vector{X: 1}, physics.Vector{X: 2})
	if len(set.Lines) != 1 {
		t.Fatalf("Expected the pieces to join, got %v lines", len(set.Lines))
	}
	want := []float64{0, 1, 2, 3}
	if len(set.Lines[0].Verts) != len(want) {
		t.Fatalf("Joined line %v", set.Lines[0].Verts)
	}
	for i, v := range set.Lines[0].Verts {
		if v.X != want[i] {
			t.Errorf("Vertex %v is %v", i, v)
		}
	}

	set.Collect(physics.Vector{X: -1}, physics.Vector{X: 0})
	if set.Lines[0].Verts[0].X != -1 {
		t.Error("Segment ending at the start should be prepended")
	}
}

func TestTerrain(t *testing.T) {
	flat := Terrain(-5, 5, -2, 0.5, 0.05, func(float64) float64 { return 0.2 })
	if len(flat) != 1 {
		t.Fatalf("Expected one chain, got %v", len(flat))
	}
	if n := len(flat[0].Vertices); n != 2 {
		t.Fatalf("Flat ground should simplify to one edge, got %v vertices", n)
	}
	for _, v := range flat[0].Vertices {
		if math.Abs(v.Y-0.2) > 1e-9 || math.Abs(math.Abs(v.X)-5) > 1e-9 {
			t.Errorf("Unexpected vertex %v", v)
		}
	}

	hills := Terrain(-10, 10, -3, 0.25, 0.01, math.Sin)
	if len(hills) != 1 {
		t.Fatalf("Expected one chain, got %v", len(hills))
	}
	for _, v := range hills[0].Vertices {
		if math.Abs(v.Y-math.Sin(v.X)) > 0.02 {
			t.Errorf("Vertex %v is off the surface", v)
		}
	}
}

func TestTerrain_Supports(t *testing.T) {
	world := physics.NewWorld(physics.Vector{Y: -10})
	groundDef := physics.NewBodyDef()
	ground := world.CreateBody(&groundDef)
	for _, chain := range Terrain(-5, 5, -2, 0.5, 0.05, func(float64) float64 { return 0.2 }) {
		ground.CreateFixtureFromShape(chain, 0)
	}

	def := physics.NewBodyDef()
	def.Type = physics.DynamicBody
	def.Position = physics.Vector{Y: 3}
	ball := world.CreateBody(&def)
	ball.CreateFixtureFromShape(physics.NewCircle(0.5, physics.Vector{}), 1)

	for i := 0; i < 180; i++ {
		world.Step(1.0/60.0, 8, 3)
	}
	if y := ball.Position().Y; math.Abs(y-0.7) > 0.05 {
		t.Errorf("Ball should rest on the terrain, y = %v", y)
	}
}
