package physics

// DistanceProxy is the support set the distance routine sees for one shape
// child: a convex vertex list plus a rounding radius.
type DistanceProxy struct {
	Vertices []Vector
	Radius   float64
}

// NewDistanceProxy builds the proxy for a shape child.
func NewDistanceProxy(shape Shape, childIndex int) DistanceProxy {
	return shape.distanceProxy(childIndex)
}

// Support returns the index of the vertex furthest along d.
func (proxy *DistanceProxy) Support(d Vector) int {
	best := 0
	bestValue := proxy.Vertices[0].Dot(d)
	for i := 1; i < len(proxy.Vertices); i++ {
		if value := proxy.Vertices[i].Dot(d); value > bestValue {
			best = i
			bestValue = value
		}
	}
	return best
}

func (proxy *DistanceProxy) SupportVertex(d Vector) Vector {
	return proxy.Vertices[proxy.Support(d)]
}

// SimplexCache warm starts Distance. Set Count to zero on first use.
type SimplexCache struct {
	// Length or area of the cached simplex.
	Metric float64
	Count  int
	IndexA [3]int
	IndexB [3]int
}

type DistanceInput struct {
	ProxyA, ProxyB         DistanceProxy
	TransformA, TransformB Transform
	UseRadii               bool
}

// DistanceOutput holds the closest points on each shape.
type DistanceOutput struct {
	PointA, PointB Vector
	Distance       float64
	// Number of GJK iterations used.
	Iterations int
}

const maxDistanceIterations = 20

type simplexVertex struct {
	wA, wB Vector // support points in world space
	w      Vector // wB - wA
	a      float64
	indexA int
	indexB int
}

type simplex struct {
	v     [3]simplexVertex
	count int
}

func (s *simplex) readCache(cache *SimplexCache, proxyA *DistanceProxy, xfA Transform, proxyB *DistanceProxy, xfB Transform) {
	assert(cache.Count <= 3, "bad simplex cache")

	s.count = cache.Count
	for i := 0; i < s.count; i++ {
		v := &s.v[i]
		v.indexA = cache.IndexA[i]
		v.indexB = cache.IndexB[i]
		v.wA = xfA.Point(proxyA.Vertices[v.indexA])
		v.wB = xfB.Point(proxyB.Vertices[v.indexB])
		v.w = v.wB.Sub(v.wA)
		v.a = 0
	}

	// Flush the simplex if its metric changed substantially.
	if s.count > 1 {
		metric1 := cache.Metric
		metric2 := s.metric()
		if metric2 < 0.5*metric1 || 2.0*metric1 < metric2 || metric2 < epsilon {
			s.count = 0
		}
	}

	if s.count == 0 {
		v := &s.v[0]
		v.indexA = 0
		v.indexB = 0
		v.wA = xfA.Point(proxyA.Vertices[0])
		v.wB = xfB.Point(proxyB.Vertices[0])
		v.w = v.wB.Sub(v.wA)
		v.a = 1
		s.count = 1
	}
}

func (s *simplex) writeCache(cache *SimplexCache) {
	cache.Metric = s.metric()
	cache.Count = s.count
	for i := 0; i < s.count; i++ {
		cache.IndexA[i] = s.v[i].indexA
		cache.IndexB[i] = s.v[i].indexB
	}
}

func (s *simplex) searchDirection() Vector {
	switch s.count {
	case 1:
		return s.v[0].w.Neg()
	case 2:
		e12 := s.v[1].w.Sub(s.v[0].w)
		if e12.Cross(s.v[0].w.Neg()) > 0 {
			// Origin is left of e12.
			return CrossSV(1.0, e12)
		}
		return CrossVS(e12, 1.0)
	}
	assert(false, "bad simplex count")
	return Vector{}
}

func (s *simplex) witnessPoints() (pA, pB Vector) {
	switch s.count {
	case 1:
		return s.v[0].wA, s.v[0].wB
	case 2:
		pA = s.v[0].wA.Mult(s.v[0].a).Add(s.v[1].wA.Mult(s.v[1].a))
		pB = s.v[0].wB.Mult(s.v[0].a).Add(s.v[1].wB.Mult(s.v[1].a))
		return pA, pB
	case 3:
		pA = s.v[0].wA.Mult(s.v[0].a).Add(s.v[1].wA.Mult(s.v[1].a)).Add(s.v[2].wA.Mult(s.v[2].a))
		return pA, pA
	}
	assert(false, "bad simplex count")
	return
}

func (s *simplex) metric() float64 {
	switch s.count {
	case 2:
		return s.v[0].w.Distance(s.v[1].w)
	case 3:
		return s.v[1].w.Sub(s.v[0].w).Cross(s.v[2].w.Sub(s.v[0].w))
	}
	return 0
}

// solve2 reduces a segment simplex with barycentric coordinates.
func (s *simplex) solve2() {
	w1 := s.v[0].w
	w2 := s.v[1].w
	e12 := w2.Sub(w1)

	// w1 region
	d12n2 := -w1.Dot(e12)
	if d12n2 <= 0 {
		s.v[0].a = 1
		s.count = 1
		return
	}

	// w2 region
	d12n1 := w2.Dot(e12)
	if d12n1 <= 0 {
		s.v[1].a = 1
		s.count = 1
		s.v[0] = s.v[1]
		return
	}

	inv := 1.0 / (d12n1 + d12n2)
	s.v[0].a = d12n1 * inv
	s.v[1].a = d12n2 * inv
	s.count = 2
}

// solve3 reduces a triangle simplex. Possible regions are the three
// vertices, the three edges and the interior.
func (s *simplex) solve3() {
	w1 := s.v[0].w
	w2 := s.v[1].w
	w3 := s.v[2].w

	e12 := w2.Sub(w1)
	d12n1 := w2.Dot(e12)
	d12n2 := -w1.Dot(e12)

	e13 := w3.Sub(w1)
	d13n1 := w3.Dot(e13)
	d13n2 := -w1.Dot(e13)

	e23 := w3.Sub(w2)
	d23n1 := w3.Dot(e23)
	d23n2 := -w2.Dot(e23)

	n123 := e12.Cross(e13)
	d123n1 := n123 * w2.Cross(w3)
	d123n2 := n123 * w3.Cross(w1)
	d123n3 := n123 * w1.Cross(w2)

	switch {
	case d12n2 <= 0 && d13n2 <= 0:
		s.v[0].a = 1
		s.count = 1

	case d12n1 > 0 && d12n2 > 0 && d123n3 <= 0:
		inv := 1.0 / (d12n1 + d12n2)
		s.v[0].a = d12n1 * inv
		s.v[1].a = d12n2 * inv
		s.count = 2

	case d13n1 > 0 && d13n2 > 0 && d123n2 <= 0:
		inv := 1.0 / (d13n1 + d13n2)
		s.v[0].a = d13n1 * inv
		s.v[2].a = d13n2 * inv
		s.count = 2
		s.v[1] = s.v[2]

	case d12n1 <= 0 && d23n2 <= 0:
		s.v[1].a = 1
		s.count = 1
		s.v[0] = s.v[1]

	case d13n1 <= 0 && d23n1 <= 0:
		s.v[2].a = 1
		s.count = 1
		s.v[0] = s.v[2]

	case d23n1 > 0 && d23n2 > 0 && d123n1 <= 0:
		inv := 1.0 / (d23n1 + d23n2)
		s.v[1].a = d23n1 * inv
		s.v[2].a = d23n2 * inv
		s.count = 2
		s.v[0] = s.v[2]

	default:
		inv := 1.0 / (d123n1 + d123n2 + d123n3)
		s.v[0].a = d123n1 * inv
		s.v[1].a = d123n2 * inv
		s.v[2].a = d123n3 * inv
		s.count = 3
	}
}

// Distance computes the closest points between two convex proxies using
// GJK, warm started from cache. The cache is updated on return.
// On overlap the distance is zero and both points lie between the shapes.
func Distance(cache *SimplexCache, input *DistanceInput) DistanceOutput {
	proxyA := &input.ProxyA
	proxyB := &input.ProxyB
	xfA := input.TransformA
	xfB := input.TransformB

	var s simplex
	s.readCache(cache, proxyA, xfA, proxyB, xfB)

	// Vertices of the last simplex, to detect cycling.
	var saveA, saveB [3]int

	iter := 0
	for iter < maxDistanceIterations {
		saveCount := s.count
		for i := 0; i < saveCount; i++ {
			saveA[i] = s.v[i].indexA
			saveB[i] = s.v[i].indexB
		}

		switch s.count {
		case 2:
			s.solve2()
		case 3:
			s.solve3()
		}

		// The origin is inside the triangle.
		if s.count == 3 {
			break
		}

		d := s.searchDirection()

		// The origin is probably on the segment or triangle, so the shapes
		// overlap. Zero cannot be returned here: the simplex may only be
		// very close to the origin.
		if d.LengthSq() < epsilon*epsilon {
			break
		}

		vertex := &s.v[s.count]
		vertex.indexA = proxyA.Support(xfA.Q.Unrotate(d.Neg()))
		vertex.wA = xfA.Point(proxyA.Vertices[vertex.indexA])
		vertex.indexB = proxyB.Support(xfB.Q.Unrotate(d))
		vertex.wB = xfB.Point(proxyB.Vertices[vertex.indexB])
		vertex.w = vertex.wB.Sub(vertex.wA)

		iter++

		// A repeated support point is the main termination criterion.
		duplicate := false
		for i := 0; i < saveCount; i++ {
			if vertex.indexA == saveA[i] && vertex.indexB == saveB[i] {
				duplicate = true
				break
			}
		}
		if duplicate {
			break
		}

		s.count++
	}

	var output DistanceOutput
	output.PointA, output.PointB = s.witnessPoints()
	output.Distance = output.PointA.Distance(output.PointB)
	output.Iterations = iter

	s.writeCache(cache)

	if input.UseRadii {
		rA := proxyA.Radius
		rB := proxyB.Radius

		if output.Distance > rA+rB && output.Distance > epsilon {
			// Move the witness points to the outer surfaces.
			output.Distance -= rA + rB
			normal := output.PointB.Sub(output.PointA).Normalize()
			output.PointA = output.PointA.Add(normal.Mult(rA))
			output.PointB = output.PointB.Sub(normal.Mult(rB))
		} else {
			// Overlapping: use the midpoint.
			p := output.PointA.Lerp(output.PointB, 0.5)
			output.PointA = p
			output.PointB = p
			output.Distance = 0
		}
	}

	return output
}
