package physics

import "math"

// Rot is a rotation stored as the sine and cosine of its angle.
type Rot struct {
	S, C float64
}

func NewRot(angle float64) Rot {
	return Rot{S: math.Sin(angle), C: math.Cos(angle)}
}

func RotIdentity() Rot {
	return Rot{S: 0, C: 1}
}

func (q Rot) Angle() float64 {
	return math.Atan2(q.S, q.C)
}

func (q Rot) XAxis() Vector {
	return Vector{q.C, q.S}
}

func (q Rot) YAxis() Vector {
	return Vector{-q.S, q.C}
}

// Mul composes two rotations: q * r.
func (q Rot) Mul(r Rot) Rot {
	return Rot{
		S: q.S*r.C + q.C*r.S,
		C: q.C*r.C - q.S*r.S,
	}
}

// MulT composes the inverse of q with r: transpose(q) * r.
func (q Rot) MulT(r Rot) Rot {
	return Rot{
		S: q.C*r.S - q.S*r.C,
		C: q.C*r.C + q.S*r.S,
	}
}

// Rotate rotates v by q.
func (q Rot) Rotate(v Vector) Vector {
	return Vector{q.C*v.X - q.S*v.Y, q.S*v.X + q.C*v.Y}
}

// Unrotate rotates v by the inverse of q.
func (q Rot) Unrotate(v Vector) Vector {
	return Vector{q.C*v.X + q.S*v.Y, -q.S*v.X + q.C*v.Y}
}

// Transform is a rigid transform: a translation and a rotation.
type Transform struct {
	P Vector
	Q Rot
}

func NewTransformIdentity() Transform {
	return Transform{Q: RotIdentity()}
}

func NewTransform(position Vector, angle float64) Transform {
	return Transform{P: position, Q: NewRot(angle)}
}

// Point maps a local point into the parent frame.
func (t Transform) Point(p Vector) Vector {
	return Vector{
		t.Q.C*p.X - t.Q.S*p.Y + t.P.X,
		t.Q.S*p.X + t.Q.C*p.Y + t.P.Y,
	}
}

// InvPoint maps a parent frame point into the local frame.
func (t Transform) InvPoint(p Vector) Vector {
	px := p.X - t.P.X
	py := p.Y - t.P.Y
	return Vector{t.Q.C*px + t.Q.S*py, -t.Q.S*px + t.Q.C*py}
}

// Vect rotates a direction into the parent frame.
func (t Transform) Vect(v Vector) Vector {
	return t.Q.Rotate(v)
}

// InvVect rotates a direction into the local frame.
func (t Transform) InvVect(v Vector) Vector {
	return t.Q.Unrotate(v)
}

// Mul composes two transforms: t * t2.
func (t Transform) Mul(t2 Transform) Transform {
	return Transform{
		P: t.Q.Rotate(t2.P).Add(t.P),
		Q: t.Q.Mul(t2.Q),
	}
}

// MulT composes the inverse of t with t2.
func (t Transform) MulT(t2 Transform) Transform {
	return Transform{
		P: t.Q.Unrotate(t2.P.Sub(t.P)),
		Q: t.Q.MulT(t2.Q),
	}
}

// Sweep describes the motion of a body/shape for TOI computation. Shapes are
// defined with respect to the body origin, which may not coincide with the
// center of mass. However, to support dynamics we must interpolate the center
// of mass position.
type Sweep struct {
	LocalCenter Vector
	C0, C       Vector
	A0, A       float64

	// Fraction of the current time step in the range [0,1].
	// C0 and A0 are the positions at Alpha0.
	Alpha0 float64
}

// Transform returns the interpolated transform at time beta in [0,1].
func (s Sweep) Transform(beta float64) Transform {
	var xf Transform
	xf.P = s.C0.Mult(1.0 - beta).Add(s.C.Mult(beta))
	xf.Q = NewRot((1.0-beta)*s.A0 + beta*s.A)
	xf.P = xf.P.Sub(xf.Q.Rotate(s.LocalCenter))
	return xf
}

// Advance moves the sweep forward, yielding a new initial state.
func (s *Sweep) Advance(alpha float64) {
	assert(s.Alpha0 < 1.0, "sweep already at the end of the step")
	beta := (alpha - s.Alpha0) / (1.0 - s.Alpha0)
	s.C0 = s.C0.Add(s.C.Sub(s.C0).Mult(beta))
	s.A0 += beta * (s.A - s.A0)
	s.Alpha0 = alpha
}

// Normalize the angles into [0, 2pi).
func (s *Sweep) Normalize() {
	twoPi := 2.0 * math.Pi
	d := twoPi * math.Floor(s.A0/twoPi)
	s.A0 -= d
	s.A -= d
}
