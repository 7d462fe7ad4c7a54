package rope

import (
	"math"
	"testing"

	physics "github.com/flowersteam/Interactive-DeepRL-Demo-sub000"
	"github.com/pkg/errors"
)

const dt = 1.0 / 60.0

func horizontal(count int, spacing float64) Def {
	def := NewDef()
	for i := 0; i < count; i++ {
		def.Vertices = append(def.Vertices, physics.Vector{X: float64(i) * spacing})
		def.Masses = append(def.Masses, 1)
	}
	return def
}

func TestNew_Rejects(t *testing.T) {
	def := horizontal(2, 1)
	if _, err := New(&def); errors.Cause(err) != ErrTooShort {
		t.Errorf("Expected ErrTooShort, got %v", err)
	}

	def = horizontal(4, 1)
	def.Masses = def.Masses[:3]
	if _, err := New(&def); err == nil {
		t.Error("Accepted a rope with missing masses")
	}
}

func TestRope_Hangs(t *testing.T) {
	def := horizontal(10, 0.5)
	def.Masses[0] = 0
	def.Gravity = physics.Vector{Y: -10}
	def.Damping = 2
	rope, err := New(&def)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rope.RestLength()-4.5) > 1e-12 {
		t.Fatalf("Rest length %v", rope.RestLength())
	}

	for i := 0; i < 600; i++ {
		rope.Step(dt, 8)
	}

	vs := rope.Vertices()
	if !vs[0].Equal(physics.Vector{}) {
		t.Errorf("Pinned vertex moved to %v", vs[0])
	}
	last := vs[len(vs)-1]
	if math.Abs(last.X) > 0.05 || last.Y > -4 || last.Y < -6 {
		t.Errorf("Rope should hang straight down, end at %v", last)
	}
	if stretch := rope.Length() / rope.RestLength(); stretch > 1.1 {
		t.Errorf("Rope stretched by %v", stretch)
	}
	for i := range vs {
		if v := rope.Velocity(i).Length(); v > 1e-2 {
			t.Errorf("Vertex %v still moving at %v", i, v)
		}
	}
}

func TestRope_Bend(t *testing.T) {
	def := horizontal(8, 0.5)
	def.Bend = 0.5
	def.Damping = 1
	rope, err := New(&def)
	if err != nil {
		t.Fatal(err)
	}
	rope.SetAngle(0.3)

	for i := 0; i < 300; i++ {
		rope.Step(dt, 8)
	}

	vs := rope.Vertices()
	for i := 0; i+2 < len(vs); i++ {
		d1 := vs[i+1].Sub(vs[i])
		d2 := vs[i+2].Sub(vs[i+1])
		angle := math.Atan2(d1.Cross(d2), d1.Dot(d2))
		if math.Abs(angle-0.3) > 0.05 {
			t.Errorf("Angle at vertex %v is %v", i+1, angle)
		}
	}
}

func TestRope_Pin(t *testing.T) {
	def := horizontal(3, 1)
	def.Masses[0] = 0
	rope, err := New(&def)
	if err != nil {
		t.Fatal(err)
	}

	rope.Pin(0, physics.Vector{X: -1, Y: 2})
	rope.Pin(2, physics.Vector{X: 9, Y: 9})
	vs := rope.Vertices()
	if !vs[0].Equal(physics.Vector{X: -1, Y: 2}) {
		t.Errorf("Pinned vertex at %v", vs[0])
	}
	if !vs[2].Equal(physics.Vector{X: 2}) {
		t.Errorf("Free vertex moved to %v", vs[2])
	}

	before := append([]physics.Vector(nil), vs...)
	rope.Step(0, 8)
	for i := range vs {
		if !vs[i].Equal(before[i]) {
			t.Error("A zero step moved the rope")
		}
	}
}

type segments int

func (s *segments) DrawPolygon([]physics.Vector, physics.FColor) {}
func (s *segments) DrawSolidPolygon([]physics.Vector, physics.FColor) {}
func (s *segments) DrawCircle(physics.Vector, float64, physics.FColor) {}
func (s *segments) DrawSolidCircle(physics.Vector, float64, physics.Vector, physics.FColor) {}
func (s *segments) DrawSegment(physics.Vector, physics.Vector, physics.FColor) { *s++ }
func (s *segments) DrawTransform(physics.Transform) {}
func (s *segments) DrawPoint(physics.Vector, float64, physics.FColor) {}

func TestRope_Draw(t *testing.T) {
	def := horizontal(5, 1)
	rope, err := New(&def)
	if err != nil {
		t.Fatal(err)
	}
	var s segments
	rope.Draw(&s)
	if s != 4 {
		t.Errorf("Drew %v segments", s)
	}
}
