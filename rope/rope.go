// Package rope simulates a chain of point masses with position based
// stretch and bend constraints. It does not collide and is stepped apart
// from a physics.World; a pinned end can follow a body each step.
package rope

import (
	"math"

	physics "github.com/flowersteam/Interactive-DeepRL-Demo-sub000"
	"github.com/pkg/errors"
)

var ErrTooShort = errors.New("rope needs at least three vertices")

type Def struct {
	Vertices []physics.Vector
	// Masses holds one mass per vertex. A zero mass pins the vertex.
	Masses  []float64
	Gravity physics.Vector
	Damping float64
	// Stretch stiffness in [0, 1].
	Stretch float64
	// Bend stiffness. Values above 0.5 can make the rope blow up.
	Bend float64
}

func NewDef() Def {
	return Def{
		Damping: 0.1,
		Stretch: 0.9,
		Bend:    0.1,
	}
}

type Rope struct {
	ps, p0s, vs []physics.Vector
	ims         []float64

	// rest lengths of each segment and rest angles at each inner vertex
	lengths []float64
	angles  []float64

	gravity physics.Vector
	damping float64
	stretch float64
	bend    float64
}

// New builds a rope at rest in the shape of def.Vertices.
func New(def *Def) (*Rope, error) {
	count := len(def.Vertices)
	if count < 3 {
		return nil, errors.Wrapf(ErrTooShort, "got %d", count)
	}
	if len(def.Masses) != count {
		return nil, errors.Errorf("rope has %d vertices but %d masses", count, len(def.Masses))
	}

	rope := &Rope{
		ps:      make([]physics.Vector, count),
		p0s:     make([]physics.Vector, count),
		vs:      make([]physics.Vector, count),
		ims:     make([]float64, count),
		lengths: make([]float64, count-1),
		angles:  make([]float64, count-2),
		gravity: def.Gravity,
		damping: def.Damping,
		stretch: def.Stretch,
		bend:    def.Bend,
	}

	copy(rope.ps, def.Vertices)
	copy(rope.p0s, def.Vertices)
	for i, m := range def.Masses {
		if m > 0 {
			rope.ims[i] = 1 / m
		}
	}

	for i := range rope.lengths {
		rope.lengths[i] = rope.ps[i].Distance(rope.ps[i+1])
	}
	for i := range rope.angles {
		d1 := rope.ps[i+1].Sub(rope.ps[i])
		d2 := rope.ps[i+2].Sub(rope.ps[i+1])
		rope.angles[i] = math.Atan2(d1.Cross(d2), d1.Dot(d2))
	}
	return rope, nil
}

func (rope *Rope) VertexCount() int {
	return len(rope.ps)
}

// Vertices returns the current positions. The slice is owned by the rope.
func (rope *Rope) Vertices() []physics.Vector {
	return rope.ps
}

func (rope *Rope) Velocity(i int) physics.Vector {
	return rope.vs[i]
}

// Pin moves a zero mass vertex. Moving a free vertex is ignored.
func (rope *Rope) Pin(i int, p physics.Vector) {
	if rope.ims[i] == 0 {
		rope.ps[i] = p
	}
}

// SetAngle sets the rest angle of every inner vertex.
func (rope *Rope) SetAngle(angle float64) {
	for i := range rope.angles {
		rope.angles[i] = angle
	}
}

// Length is the current length along the rope.
func (rope *Rope) Length() float64 {
	var length float64
	for i := 1; i < len(rope.ps); i++ {
		length += rope.ps[i-1].Distance(rope.ps[i])
	}
	return length
}

// RestLength is the length the rope was built with.
func (rope *Rope) RestLength() float64 {
	var length float64
	for _, l := range rope.lengths {
		length += l
	}
	return length
}

// Step integrates by h seconds and relaxes the constraints.
func (rope *Rope) Step(h float64, iterations int) {
	if h == 0 {
		return
	}

	d := math.Exp(-h * rope.damping)
	for i := range rope.ps {
		rope.p0s[i] = rope.ps[i]
		if rope.ims[i] > 0 {
			rope.vs[i] = rope.vs[i].Add(rope.gravity.Mult(h))
		}
		rope.vs[i] = rope.vs[i].Mult(d)
		rope.ps[i] = rope.ps[i].Add(rope.vs[i].Mult(h))
	}

	for i := 0; i < iterations; i++ {
		rope.solveStretch()
		rope.solveBend()
		rope.solveStretch()
	}

	invH := 1 / h
	for i := range rope.ps {
		rope.vs[i] = rope.ps[i].Sub(rope.p0s[i]).Mult(invH)
	}
}

func (rope *Rope) solveStretch() {
	for i, rest := range rope.lengths {
		im1, im2 := rope.ims[i], rope.ims[i+1]
		if im1+im2 == 0 {
			continue
		}

		d, length := rope.ps[i+1].Sub(rope.ps[i]).NormalizeLength()
		s1 := im1 / (im1 + im2)
		s2 := im2 / (im1 + im2)
		c := rope.stretch * (rest - length)

		rope.ps[i] = rope.ps[i].Sub(d.Mult(c * s1))
		rope.ps[i+1] = rope.ps[i+1].Add(d.Mult(c * s2))
	}
}

func (rope *Rope) solveBend() {
	for i, rest := range rope.angles {
		p1, p2, p3 := rope.ps[i], rope.ps[i+1], rope.ps[i+2]
		m1, m2, m3 := rope.ims[i], rope.ims[i+1], rope.ims[i+2]

		d1 := p2.Sub(p1)
		d2 := p3.Sub(p2)
		l1 := d1.LengthSq()
		l2 := d2.LengthSq()
		if l1*l2 == 0 {
			continue
		}

		angle := math.Atan2(d1.Cross(d2), d1.Dot(d2))

		jd1 := d1.Perp().Mult(-1 / l1)
		jd2 := d2.Perp().Mult(1 / l2)
		j1 := jd1.Neg()
		j2 := jd1.Sub(jd2)
		j3 := jd2

		mass := m1*j1.Dot(j1) + m2*j2.Dot(j2) + m3*j3.Dot(j3)
		if mass == 0 {
			continue
		}

		c := angle - rest
		for c > math.Pi {
			angle -= 2 * math.Pi
			c = angle - rest
		}
		for c < -math.Pi {
			angle += 2 * math.Pi
			c = angle - rest
		}

		impulse := -rope.bend * c / mass
		rope.ps[i] = p1.Add(j1.Mult(m1 * impulse))
		rope.ps[i+1] = p2.Add(j2.Mult(m2 * impulse))
		rope.ps[i+2] = p3.Add(j3.Mult(m3 * impulse))
	}
}

var ropeColor = physics.FColor{R: 0.4, G: 0.5, B: 0.7, A: 1}

func (rope *Rope) Draw(draw physics.Drawer) {
	for i := 1; i < len(rope.ps); i++ {
		draw.DrawSegment(rope.ps[i-1], rope.ps[i], ropeColor)
	}
}
