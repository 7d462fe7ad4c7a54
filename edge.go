package physics

// Edge is a line segment. Edges carry optional ghost vertices (Vertex0
// before Vertex1, Vertex3 after Vertex2) describing the neighbouring
// segments of a chain; these make collisions smooth across shared vertices.
type Edge struct {
	Vertex1, Vertex2 Vector

	Vertex0, Vertex3       Vector
	HasVertex0, HasVertex3 bool

	R float64
}

func NewEdge(v1, v2 Vector) *Edge {
	return &Edge{Vertex1: v1, Vertex2: v2, R: PolygonRadius}
}

// Set replaces the segment and clears the ghost vertices.
func (edge *Edge) Set(v1, v2 Vector) {
	edge.Vertex1 = v1
	edge.Vertex2 = v2
	edge.HasVertex0 = false
	edge.HasVertex3 = false
}

func (edge *Edge) Kind() ShapeKind {
	return ShapeEdge
}

func (edge *Edge) Radius() float64 {
	return edge.R
}

func (edge *Edge) ChildCount() int {
	return 1
}

func (edge *Edge) Clone() Shape {
	clone := *edge
	return &clone
}

// TestPoint always fails: edges have no area.
func (edge *Edge) TestPoint(xf Transform, p Vector) bool {
	return false
}

// p = p1 + t * d
// v = v1 + s * e
// p1 + t * d = v1 + s * e
// s * e - t * d = p1 - v1
func (edge *Edge) RayCast(input RayCastInput, xf Transform, childIndex int) (RayCastOutput, bool) {
	// Put the ray into the edge's frame of reference.
	p1 := xf.InvPoint(input.P1)
	p2 := xf.InvPoint(input.P2)
	d := p2.Sub(p1)

	v1 := edge.Vertex1
	v2 := edge.Vertex2
	e := v2.Sub(v1)
	normal := Vector{e.Y, -e.X}.Normalize()

	// q = p1 + t * d
	// dot(normal, q - v1) = 0
	// dot(normal, p1 - v1) + t * dot(normal, d) = 0
	numerator := normal.Dot(v1.Sub(p1))
	denominator := normal.Dot(d)
	if denominator == 0.0 {
		return RayCastOutput{}, false
	}

	t := numerator / denominator
	if t < 0.0 || input.MaxFraction < t {
		return RayCastOutput{}, false
	}

	q := p1.Add(d.Mult(t))

	// q = v1 + s * r
	// s = dot(q - v1, r) / dot(r, r)
	r := v2.Sub(v1)
	rr := r.Dot(r)
	if rr == 0.0 {
		return RayCastOutput{}, false
	}

	s := q.Sub(v1).Dot(r) / rr
	if s < 0.0 || 1.0 < s {
		return RayCastOutput{}, false
	}

	n := xf.Q.Rotate(normal)
	if numerator > 0.0 {
		n = n.Neg()
	}
	return RayCastOutput{Fraction: t, Normal: n}, true
}

func (edge *Edge) ComputeAABB(xf Transform, childIndex int) BB {
	v1 := xf.Point(edge.Vertex1)
	v2 := xf.Point(edge.Vertex2)
	return NewBBForPoints(v1, v2).Fatten(edge.R)
}

// ComputeMass returns zero mass centered on the segment midpoint.
func (edge *Edge) ComputeMass(density float64) MassData {
	return MassData{Center: edge.Vertex1.Add(edge.Vertex2).Mult(0.5)}
}

func (edge *Edge) distanceProxy(int) DistanceProxy {
	return DistanceProxy{Vertices: []Vector{edge.Vertex1, edge.Vertex2}, Radius: edge.R}
}
