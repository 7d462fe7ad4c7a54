package physics

import "math"

// BB is an axis-aligned bounding box.
type BB struct {
	L, B, R, T float64
}

func NewBB(l, b, r, t float64) BB {
	return BB{l, b, r, t}
}

func NewBBForExtents(c Vector, hw, hh float64) BB {
	return BB{
		L: c.X - hw,
		B: c.Y - hh,
		R: c.X + hw,
		T: c.Y + hh,
	}
}

func NewBBForCircle(p Vector, r float64) BB {
	return NewBBForExtents(p, r, r)
}

// NewBBForPoints returns the smallest box containing both points.
func NewBBForPoints(a, b Vector) BB {
	lower := a.Min(b)
	upper := a.Max(b)
	return BB{lower.X, lower.Y, upper.X, upper.Y}
}

func (bb BB) Lower() Vector {
	return Vector{bb.L, bb.B}
}

func (bb BB) Upper() Vector {
	return Vector{bb.R, bb.T}
}

// IsValid reports whether the bounds are sorted and finite.
func (bb BB) IsValid() bool {
	d := Vector{bb.R - bb.L, bb.T - bb.B}
	return d.X >= 0 && d.Y >= 0 && bb.Lower().IsValid() && bb.Upper().IsValid()
}

func (a BB) Intersects(b BB) bool {
	return a.L <= b.R && b.L <= a.R && a.B <= b.T && b.B <= a.T
}

func (bb BB) Contains(other BB) bool {
	return bb.L <= other.L && bb.R >= other.R && bb.B <= other.B && bb.T >= other.T
}

func (bb BB) ContainsVect(v Vector) bool {
	return bb.L <= v.X && bb.R >= v.X && bb.B <= v.Y && bb.T >= v.Y
}

func (a BB) Merge(b BB) BB {
	return BB{
		math.Min(a.L, b.L),
		math.Min(a.B, b.B),
		math.Max(a.R, b.R),
		math.Max(a.T, b.T),
	}
}

// Fatten grows the box by r on every side.
func (bb BB) Fatten(r float64) BB {
	return BB{bb.L - r, bb.B - r, bb.R + r, bb.T + r}
}

func (bb BB) Center() Vector {
	return Vector{0.5 * (bb.L + bb.R), 0.5 * (bb.B + bb.T)}
}

// Extents returns the half-widths.
func (bb BB) Extents() Vector {
	return Vector{0.5 * (bb.R - bb.L), 0.5 * (bb.T - bb.B)}
}

func (bb BB) Perimeter() float64 {
	return 2.0 * ((bb.R - bb.L) + (bb.T - bb.B))
}

func (bb BB) Area() float64 {
	return (bb.R - bb.L) * (bb.T - bb.B)
}

func (bb BB) Offset(v Vector) BB {
	return BB{
		bb.L + v.X,
		bb.B + v.Y,
		bb.R + v.X,
		bb.T + v.Y,
	}
}

// RayCast clips the ray segment p1 + t*(p2 - p1), t in [0, maxFraction],
// against the box. It reports the entry fraction and surface normal.
func (bb BB) RayCast(input RayCastInput) (RayCastOutput, bool) {
	tmin := -maxFloat
	tmax := maxFloat

	p := input.P1
	d := input.P2.Sub(input.P1)
	absD := d.Abs()

	var normal Vector

	lower := [2]float64{bb.L, bb.B}
	upper := [2]float64{bb.R, bb.T}
	ps := [2]float64{p.X, p.Y}
	ds := [2]float64{d.X, d.Y}
	abs := [2]float64{absD.X, absD.Y}

	for i := 0; i < 2; i++ {
		if abs[i] < epsilon {
			// Parallel.
			if ps[i] < lower[i] || upper[i] < ps[i] {
				return RayCastOutput{}, false
			}
			continue
		}

		invD := 1.0 / ds[i]
		t1 := (lower[i] - ps[i]) * invD
		t2 := (upper[i] - ps[i]) * invD

		// Sign of the normal vector.
		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}

		if t1 > tmin {
			normal = Vector{}
			if i == 0 {
				normal.X = s
			} else {
				normal.Y = s
			}
			tmin = t1
		}

		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return RayCastOutput{}, false
		}
	}

	// Does the ray start inside the box?
	// Does the ray intersect beyond the max fraction?
	if tmin < 0.0 || input.MaxFraction < tmin {
		return RayCastOutput{}, false
	}

	return RayCastOutput{Normal: normal, Fraction: tmin}, true
}
