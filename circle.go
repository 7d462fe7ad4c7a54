package physics

import "math"

// Circle is a solid disc with a local center offset.
type Circle struct {
	Center Vector
	R      float64
}

func NewCircle(radius float64, offset Vector) *Circle {
	return &Circle{Center: offset, R: radius}
}

func (circle *Circle) Kind() ShapeKind {
	return ShapeCircle
}

func (circle *Circle) Radius() float64 {
	return circle.R
}

func (circle *Circle) ChildCount() int {
	return 1
}

func (circle *Circle) Clone() Shape {
	clone := *circle
	return &clone
}

func (circle *Circle) TestPoint(xf Transform, p Vector) bool {
	center := xf.Point(circle.Center)
	d := p.Sub(center)
	return d.Dot(d) <= circle.R*circle.R
}

// Collision Detection in Interactive 3D Environments by Gino van den Bergen
// From Section 3.1.2
// x = s + a * r
// norm(x) = radius
func (circle *Circle) RayCast(input RayCastInput, xf Transform, childIndex int) (RayCastOutput, bool) {
	position := xf.Point(circle.Center)
	s := input.P1.Sub(position)
	b := s.Dot(s) - circle.R*circle.R

	// Solve quadratic equation.
	r := input.P2.Sub(input.P1)
	c := s.Dot(r)
	rr := r.Dot(r)
	sigma := c*c - rr*b

	// Check for negative discriminant and short segment.
	if sigma < 0.0 || rr < epsilon {
		return RayCastOutput{}, false
	}

	// Find the point of intersection of the line with the circle.
	a := -(c + math.Sqrt(sigma))

	// Is the intersection point on the segment?
	if 0.0 <= a && a <= input.MaxFraction*rr {
		a /= rr
		return RayCastOutput{
			Fraction: a,
			Normal:   s.Add(r.Mult(a)).Normalize(),
		}, true
	}

	return RayCastOutput{}, false
}

func (circle *Circle) ComputeAABB(xf Transform, childIndex int) BB {
	return NewBBForCircle(xf.Point(circle.Center), circle.R)
}

func (circle *Circle) ComputeMass(density float64) MassData {
	rr := circle.R * circle.R
	mass := density * math.Pi * rr
	return MassData{
		Mass:   mass,
		Center: circle.Center,
		// inertia about the local origin
		I: mass * (0.5*rr + circle.Center.Dot(circle.Center)),
	}
}

func (circle *Circle) distanceProxy(int) DistanceProxy {
	return DistanceProxy{Vertices: []Vector{circle.Center}, Radius: circle.R}
}
