package physics

// Chain is a free-form sequence of line segments. Each segment is exposed
// as an Edge child whose ghost vertices are its neighbours, so bodies slide
// across interior vertices without catching. A loop closes back on its first
// vertex. Chains have no mass and should only be attached to static bodies.
type Chain struct {
	Vertices []Vector

	PrevVertex, NextVertex       Vector
	HasPrevVertex, HasNextVertex bool

	R float64
}

// NewChain creates an open chain. Consecutive vertices closer than
// LinearSlop are welded.
func NewChain(vertices []Vector) *Chain {
	chain := &Chain{R: PolygonRadius}
	chain.Vertices = weldChainVertices(vertices)
	return chain
}

// NewLoop creates a closed chain; the first vertex is appended to the end
// and the ghost vertices wrap around.
func NewLoop(vertices []Vector) *Chain {
	chain := &Chain{R: PolygonRadius}
	vs := weldChainVertices(vertices)
	if len(vs) > 1 && vs[0].Near(vs[len(vs)-1], LinearSlop) {
		vs = vs[:len(vs)-1]
	}
	if len(vs) < 3 {
		chain.Vertices = vs
		return chain
	}
	chain.Vertices = append(vs, vs[0])
	chain.PrevVertex = chain.Vertices[len(chain.Vertices)-2]
	chain.NextVertex = chain.Vertices[1]
	chain.HasPrevVertex = true
	chain.HasNextVertex = true
	return chain
}

func weldChainVertices(vertices []Vector) []Vector {
	out := make([]Vector, 0, len(vertices))
	for _, v := range vertices {
		if len(out) > 0 && v.Near(out[len(out)-1], LinearSlop) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// IsClosed reports whether the chain ends on its first vertex.
func (chain *Chain) IsClosed() bool {
	n := len(chain.Vertices)
	return n > 1 && chain.Vertices[0].Equal(chain.Vertices[n-1])
}

// SetPrevVertex establishes connectivity to a vertex that precedes the
// first vertex.
func (chain *Chain) SetPrevVertex(v Vector) {
	chain.PrevVertex = v
	chain.HasPrevVertex = true
}

// SetNextVertex establishes connectivity to a vertex that follows the last
// vertex.
func (chain *Chain) SetNextVertex(v Vector) {
	chain.NextVertex = v
	chain.HasNextVertex = true
}

func (chain *Chain) Kind() ShapeKind {
	return ShapeChain
}

func (chain *Chain) Radius() float64 {
	return chain.R
}

// ChildCount is the number of edges.
func (chain *Chain) ChildCount() int {
	if len(chain.Vertices) < 2 {
		return 0
	}
	return len(chain.Vertices) - 1
}

func (chain *Chain) Clone() Shape {
	clone := *chain
	clone.Vertices = append([]Vector(nil), chain.Vertices...)
	return &clone
}

// ChildEdge returns the edge for a child index with its ghost vertices.
func (chain *Chain) ChildEdge(index int) *Edge {
	assert(0 <= index && index < len(chain.Vertices)-1, "chain child out of range")
	count := len(chain.Vertices)

	edge := &Edge{
		Vertex1: chain.Vertices[index],
		Vertex2: chain.Vertices[index+1],
		R:       chain.R,
	}

	if index > 0 {
		edge.Vertex0 = chain.Vertices[index-1]
		edge.HasVertex0 = true
	} else {
		edge.Vertex0 = chain.PrevVertex
		edge.HasVertex0 = chain.HasPrevVertex
	}

	if index < count-2 {
		edge.Vertex3 = chain.Vertices[index+2]
		edge.HasVertex3 = true
	} else {
		edge.Vertex3 = chain.NextVertex
		edge.HasVertex3 = chain.HasNextVertex
	}

	return edge
}

// TestPoint always fails: chains have no area.
func (chain *Chain) TestPoint(xf Transform, p Vector) bool {
	return false
}

func (chain *Chain) RayCast(input RayCastInput, xf Transform, childIndex int) (RayCastOutput, bool) {
	edge := Edge{
		Vertex1: chain.Vertices[childIndex],
		Vertex2: chain.Vertices[childIndex+1],
		R:       chain.R,
	}
	return edge.RayCast(input, xf, 0)
}

func (chain *Chain) ComputeAABB(xf Transform, childIndex int) BB {
	v1 := xf.Point(chain.Vertices[childIndex])
	v2 := xf.Point(chain.Vertices[childIndex+1])
	return NewBBForPoints(v1, v2).Fatten(chain.R)
}

// ComputeMass returns zero mass: chains have no area.
func (chain *Chain) ComputeMass(density float64) MassData {
	return MassData{}
}

func (chain *Chain) distanceProxy(childIndex int) DistanceProxy {
	return DistanceProxy{
		Vertices: chain.Vertices[childIndex : childIndex+2],
		Radius:   chain.R,
	}
}
