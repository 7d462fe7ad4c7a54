package physics

// Polygon is a solid convex polygon. Its interior is to the left of each
// edge (counter-clockwise winding). Polygons have at most MaxPolygonVertices
// vertices and carry a PolygonRadius skin.
type Polygon struct {
	Centroid Vector
	Vertices []Vector
	Normals  []Vector
	R        float64
}

// NewPolygon computes the convex hull of the points. A degenerate point set
// (fewer than three well-separated points, or a collinear set) becomes a
// 2x2 box.
func NewPolygon(points []Vector) *Polygon {
	poly := &Polygon{R: PolygonRadius}
	poly.Set(points)
	return poly
}

// NewBox returns an axis-aligned box centered on the body origin.
func NewBox(hx, hy float64) *Polygon {
	poly := &Polygon{R: PolygonRadius}
	poly.SetAsBox(hx, hy)
	return poly
}

// NewOrientedBox returns a box with the given half-widths, center and angle
// in body coordinates.
func NewOrientedBox(hx, hy float64, center Vector, angle float64) *Polygon {
	poly := &Polygon{R: PolygonRadius}
	poly.SetAsOrientedBox(hx, hy, center, angle)
	return poly
}

func (poly *Polygon) Kind() ShapeKind {
	return ShapePolygon
}

func (poly *Polygon) Radius() float64 {
	return poly.R
}

func (poly *Polygon) ChildCount() int {
	return 1
}

func (poly *Polygon) Count() int {
	return len(poly.Vertices)
}

func (poly *Polygon) Clone() Shape {
	return &Polygon{
		Centroid: poly.Centroid,
		Vertices: append([]Vector(nil), poly.Vertices...),
		Normals:  append([]Vector(nil), poly.Normals...),
		R:        poly.R,
	}
}

func (poly *Polygon) SetAsBox(hx, hy float64) {
	poly.Vertices = []Vector{{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy}}
	poly.Normals = []Vector{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	poly.Centroid = Vector{}
}

func (poly *Polygon) SetAsOrientedBox(hx, hy float64, center Vector, angle float64) {
	poly.SetAsBox(hx, hy)
	poly.Centroid = center

	xf := NewTransform(center, angle)
	for i := range poly.Vertices {
		poly.Vertices[i] = xf.Point(poly.Vertices[i])
		poly.Normals[i] = xf.Q.Rotate(poly.Normals[i])
	}
}

// Set replaces the geometry by the convex hull of points using gift
// wrapping. Points closer than half the linear slop are welded.
func (poly *Polygon) Set(points []Vector) {
	n := len(points)
	if n > MaxPolygonVertices {
		n = MaxPolygonVertices
	}
	if n < 3 {
		poly.SetAsBox(1.0, 1.0)
		return
	}

	// Perform welding and copy vertices into local buffer.
	ps := make([]Vector, 0, n)
	for _, v := range points[:n] {
		unique := true
		for _, p := range ps {
			if v.DistanceSq(p) < (0.5*LinearSlop)*(0.5*LinearSlop) {
				unique = false
				break
			}
		}
		if unique {
			ps = append(ps, v)
		}
	}

	n = len(ps)
	if n < 3 {
		// Polygon is degenerate.
		poly.SetAsBox(1.0, 1.0)
		return
	}

	// Find the right most point on the hull.
	i0 := 0
	x0 := ps[0].X
	for i := 1; i < n; i++ {
		x := ps[i].X
		if x > x0 || (x == x0 && ps[i].Y < ps[i0].Y) {
			i0 = i
			x0 = x
		}
	}

	hull := make([]int, 0, MaxPolygonVertices)
	ih := i0
	for {
		if len(hull) == MaxPolygonVertices {
			break
		}
		hull = append(hull, ih)
		m := len(hull) - 1

		ie := 0
		for j := 1; j < n; j++ {
			if ie == ih {
				ie = j
				continue
			}

			r := ps[ie].Sub(ps[hull[m]])
			v := ps[j].Sub(ps[hull[m]])
			c := r.Cross(v)
			if c < 0.0 {
				ie = j
			}

			// Collinearity check
			if c == 0.0 && v.LengthSq() > r.LengthSq() {
				ie = j
			}
		}

		ih = ie
		if ie == i0 {
			break
		}
	}

	if len(hull) < 3 {
		// Polygon is degenerate.
		poly.SetAsBox(1.0, 1.0)
		return
	}

	m := len(hull)
	poly.Vertices = make([]Vector, m)
	poly.Normals = make([]Vector, m)
	for i, h := range hull {
		poly.Vertices[i] = ps[h]
	}

	for i := 0; i < m; i++ {
		edge := poly.Vertices[(i+1)%m].Sub(poly.Vertices[i])
		poly.Normals[i] = CrossVS(edge, 1.0).Normalize()
	}

	centroid, ok := computeCentroid(poly.Vertices)
	if !ok {
		poly.SetAsBox(1.0, 1.0)
		return
	}
	poly.Centroid = centroid
}

func computeCentroid(vs []Vector) (Vector, bool) {
	var c Vector
	area := 0.0

	// Reference point inside the polygon keeps the triangle fan well
	// conditioned.
	var pRef Vector
	for _, v := range vs {
		pRef = pRef.Add(v)
	}
	pRef = pRef.Mult(1.0 / float64(len(vs)))

	const inv3 = 1.0 / 3.0
	for i := range vs {
		p1 := pRef
		p2 := vs[i]
		p3 := vs[(i+1)%len(vs)]

		e1 := p2.Sub(p1)
		e2 := p3.Sub(p1)
		triangleArea := 0.5 * e1.Cross(e2)
		area += triangleArea

		// Area weighted centroid
		c = c.Add(p1.Add(p2).Add(p3).Mult(triangleArea * inv3))
	}

	if area <= epsilon {
		return Vector{}, false
	}
	return c.Mult(1.0 / area), true
}

func (poly *Polygon) TestPoint(xf Transform, p Vector) bool {
	pLocal := xf.InvPoint(p)
	for i, n := range poly.Normals {
		if n.Dot(pLocal.Sub(poly.Vertices[i])) > 0.0 {
			return false
		}
	}
	return true
}

func (poly *Polygon) RayCast(input RayCastInput, xf Transform, childIndex int) (RayCastOutput, bool) {
	// Put the ray into the polygon's frame of reference.
	p1 := xf.InvPoint(input.P1)
	p2 := xf.InvPoint(input.P2)
	d := p2.Sub(p1)

	lower, upper := 0.0, input.MaxFraction
	index := -1

	for i, n := range poly.Normals {
		// p = p1 + a * d
		// dot(normal, p - v) = 0
		// dot(normal, p1 - v) + a * dot(normal, d) = 0
		numerator := n.Dot(poly.Vertices[i].Sub(p1))
		denominator := n.Dot(d)

		if denominator == 0.0 {
			if numerator < 0.0 {
				return RayCastOutput{}, false
			}
		} else {
			// The segment enters this half-space when denominator < 0 and
			// leaves it when denominator > 0.
			if denominator < 0.0 && numerator < lower*denominator {
				lower = numerator / denominator
				index = i
			} else if denominator > 0.0 && numerator < upper*denominator {
				upper = numerator / denominator
			}
		}

		if upper < lower {
			return RayCastOutput{}, false
		}
	}

	if index >= 0 {
		return RayCastOutput{
			Fraction: lower,
			Normal:   xf.Q.Rotate(poly.Normals[index]),
		}, true
	}
	return RayCastOutput{}, false
}

func (poly *Polygon) ComputeAABB(xf Transform, childIndex int) BB {
	lower := xf.Point(poly.Vertices[0])
	upper := lower
	for _, v := range poly.Vertices[1:] {
		w := xf.Point(v)
		lower = lower.Min(w)
		upper = upper.Max(w)
	}
	return BB{lower.X, lower.Y, upper.X, upper.Y}.Fatten(poly.R)
}

// ComputeMass integrates the polygon as a triangle fan about a reference
// point s inside the polygon:
//
//	I = density * sum over triangles of the second moment about s,
//
// then shifts the inertia to the body origin with the parallel axis theorem.
func (poly *Polygon) ComputeMass(density float64) MassData {
	count := len(poly.Vertices)

	var center Vector
	area := 0.0
	I := 0.0

	var s Vector
	for _, v := range poly.Vertices {
		s = s.Add(v)
	}
	s = s.Mult(1.0 / float64(count))

	const inv3 = 1.0 / 3.0
	for i := 0; i < count; i++ {
		// Triangle vertices.
		e1 := poly.Vertices[i].Sub(s)
		e2 := poly.Vertices[(i+1)%count].Sub(s)

		D := e1.Cross(e2)
		triangleArea := 0.5 * D
		area += triangleArea

		// Area weighted centroid
		center = center.Add(e1.Add(e2).Mult(triangleArea * inv3))

		intx2 := e1.X*e1.X + e2.X*e1.X + e2.X*e2.X
		inty2 := e1.Y*e1.Y + e2.Y*e1.Y + e2.Y*e2.Y
		I += (0.25 * inv3 * D) * (intx2 + inty2)
	}

	var md MassData
	md.Mass = density * area

	if area > epsilon {
		center = center.Mult(1.0 / area)
	}
	md.Center = center.Add(s)

	// Inertia tensor relative to the local origin (point s), shifted to the
	// center of mass and then to the body origin.
	md.I = density*I + md.Mass*(md.Center.Dot(md.Center)-center.Dot(center))
	return md
}

// Validate checks convexity. It is an expensive O(n^2) check.
func (poly *Polygon) Validate() bool {
	count := len(poly.Vertices)
	for i := 0; i < count; i++ {
		i1 := i
		i2 := (i + 1) % count
		p := poly.Vertices[i1]
		e := poly.Vertices[i2].Sub(p)

		for j := 0; j < count; j++ {
			if j == i1 || j == i2 {
				continue
			}
			if e.Cross(poly.Vertices[j].Sub(p)) < 0.0 {
				return false
			}
		}
	}
	return true
}

func (poly *Polygon) distanceProxy(int) DistanceProxy {
	return DistanceProxy{Vertices: poly.Vertices, Radius: poly.R}
}
