package physics

import "math"

// CollideEdgeAndCircle computes the manifold between an edge and a circle.
// Ghost vertices suppress vertex contacts that belong to a neighbouring
// edge.
func CollideEdgeAndCircle(edgeA *Edge, xfA Transform, circleB *Circle, xfB Transform) (manifold Manifold) {
	// Circle in the frame of the edge.
	Q := xfA.InvPoint(xfB.Point(circleB.Center))

	A := edgeA.Vertex1
	B := edgeA.Vertex2
	e := B.Sub(A)

	// Barycentric coordinates
	u := e.Dot(B.Sub(Q))
	v := e.Dot(Q.Sub(A))

	radius := edgeA.R + circleB.R

	id := ContactID{IndexB: 0, TypeB: FeatureVertex}

	// Region A
	if v <= 0 {
		if Q.DistanceSq(A) > radius*radius {
			return
		}

		// The circle is in region AB of the previous edge.
		if edgeA.HasVertex0 {
			e1 := A.Sub(edgeA.Vertex0)
			if e1.Dot(A.Sub(Q)) > 0 {
				return
			}
		}

		id.IndexA = 0
		id.TypeA = FeatureVertex
		manifold.PointCount = 1
		manifold.Type = ManifoldCircles
		manifold.LocalPoint = A
		manifold.Points[0].ID = id
		manifold.Points[0].LocalPoint = circleB.Center
		return
	}

	// Region B
	if u <= 0 {
		if Q.DistanceSq(B) > radius*radius {
			return
		}

		// The circle is in region AB of the next edge.
		if edgeA.HasVertex3 {
			e2 := edgeA.Vertex3.Sub(B)
			if e2.Dot(Q.Sub(B)) > 0 {
				return
			}
		}

		id.IndexA = 1
		id.TypeA = FeatureVertex
		manifold.PointCount = 1
		manifold.Type = ManifoldCircles
		manifold.LocalPoint = B
		manifold.Points[0].ID = id
		manifold.Points[0].LocalPoint = circleB.Center
		return
	}

	// Region AB
	den := e.Dot(e)
	assert(den > 0, "degenerate edge")
	P := A.Mult(u).Add(B.Mult(v)).Mult(1.0 / den)
	if Q.DistanceSq(P) > radius*radius {
		return
	}

	n := Vector{-e.Y, e.X}
	if n.Dot(Q.Sub(A)) < 0 {
		n = n.Neg()
	}

	id.IndexA = 0
	id.TypeA = FeatureFace
	manifold.PointCount = 1
	manifold.Type = ManifoldFaceA
	manifold.LocalNormal = n.Normalize()
	manifold.LocalPoint = A
	manifold.Points[0].ID = id
	manifold.Points[0].LocalPoint = circleB.Center
	return
}

type epAxisType uint8

const (
	epAxisUnknown epAxisType = iota
	epAxisEdgeA
	epAxisEdgeB
)

type epAxis struct {
	kind       epAxisType
	index      int
	separation float64
}

// tempPolygon holds polygon B expressed in the edge's frame.
type tempPolygon struct {
	vertices [MaxPolygonVertices]Vector
	normals  [MaxPolygonVertices]Vector
	count    int
}

// referenceFace is the face used for clipping.
type referenceFace struct {
	i1, i2 int
	v1, v2 Vector
	normal Vector

	sideNormal1 Vector
	sideOffset1 float64

	sideNormal2 Vector
	sideOffset2 float64
}

// epCollider collides an edge and a polygon, taking edge adjacency into
// account. It lives on the stack of one CollideEdgeAndPolygon call.
type epCollider struct {
	polygonB tempPolygon

	xf                        Transform
	centroidB                 Vector
	v0, v1, v2, v3            Vector
	normal0, normal1, normal2 Vector
	normal                    Vector
	lowerLimit, upperLimit    Vector
	radius                    float64
	front                     bool
}

// CollideEdgeAndPolygon computes the manifold between an edge and a
// polygon:
//
//  1. classify the ghost vertices as convex or concave
//  2. classify the polygon centroid as in front of or behind the edge
//  3. restrict the admissible normal range using the adjacent edges
//  4. test the edge axis and every polygon axis inside the range
//  5. clip the incident edge against the reference face
func CollideEdgeAndPolygon(edgeA *Edge, xfA Transform, polygonB *Polygon, xfB Transform) Manifold {
	var collider epCollider
	return collider.collide(edgeA, xfA, polygonB, xfB)
}

func (c *epCollider) collide(edgeA *Edge, xfA Transform, polygonB *Polygon, xfB Transform) (manifold Manifold) {
	c.xf = xfA.MulT(xfB)
	c.centroidB = c.xf.Point(polygonB.Centroid)

	c.v0 = edgeA.Vertex0
	c.v1 = edgeA.Vertex1
	c.v2 = edgeA.Vertex2
	c.v3 = edgeA.Vertex3

	hasVertex0 := edgeA.HasVertex0
	hasVertex3 := edgeA.HasVertex3

	edge1 := c.v2.Sub(c.v1).Normalize()
	c.normal1 = Vector{edge1.Y, -edge1.X}
	offset1 := c.normal1.Dot(c.centroidB.Sub(c.v1))
	offset0, offset2 := 0.0, 0.0
	convex1, convex2 := false, false

	// Is there a preceding edge?
	if hasVertex0 {
		edge0 := c.v1.Sub(c.v0).Normalize()
		c.normal0 = Vector{edge0.Y, -edge0.X}
		convex1 = edge0.Cross(edge1) >= 0
		offset0 = c.normal0.Dot(c.centroidB.Sub(c.v0))
	}

	// Is there a following edge?
	if hasVertex3 {
		edge2 := c.v3.Sub(c.v2).Normalize()
		c.normal2 = Vector{edge2.Y, -edge2.X}
		convex2 = edge1.Cross(edge2) > 0
		offset2 = c.normal2.Dot(c.centroidB.Sub(c.v2))
	}

	n0, n1, n2 := c.normal0, c.normal1, c.normal2

	// Determine front or back collision and the normal limits.
	switch {
	case hasVertex0 && hasVertex3:
		switch {
		case convex1 && convex2:
			c.front = offset0 >= 0 || offset1 >= 0 || offset2 >= 0
			c.setLimits(n0, n2, n1.Neg(), n1.Neg())
		case convex1:
			c.front = offset0 >= 0 || (offset1 >= 0 && offset2 >= 0)
			c.setLimits(n0, n1, n2.Neg(), n1.Neg())
		case convex2:
			c.front = offset2 >= 0 || (offset0 >= 0 && offset1 >= 0)
			c.setLimits(n1, n2, n1.Neg(), n0.Neg())
		default:
			c.front = offset0 >= 0 && offset1 >= 0 && offset2 >= 0
			c.setLimits(n1, n1, n2.Neg(), n0.Neg())
		}

	case hasVertex0:
		if convex1 {
			c.front = offset0 >= 0 || offset1 >= 0
			c.setLimits(n0, n1.Neg(), n1, n1.Neg())
		} else {
			c.front = offset0 >= 0 && offset1 >= 0
			c.setLimits(n1, n1.Neg(), n1, n0.Neg())
		}

	case hasVertex3:
		if convex2 {
			c.front = offset1 >= 0 || offset2 >= 0
			c.setLimits(n1.Neg(), n2, n1.Neg(), n1)
		} else {
			c.front = offset1 >= 0 && offset2 >= 0
			c.setLimits(n1.Neg(), n1, n2.Neg(), n1)
		}

	default:
		c.front = offset1 >= 0
		c.setLimits(n1.Neg(), n1.Neg(), n1, n1)
	}

	// Polygon B in frame A.
	c.polygonB.count = len(polygonB.Vertices)
	for i := range polygonB.Vertices {
		c.polygonB.vertices[i] = c.xf.Point(polygonB.Vertices[i])
		c.polygonB.normals[i] = c.xf.Q.Rotate(polygonB.Normals[i])
	}

	c.radius = polygonB.R + edgeA.R

	edgeAxis := c.computeEdgeSeparation()

	// No admissible normal: this edge should not collide.
	if edgeAxis.kind == epAxisUnknown {
		return
	}
	if edgeAxis.separation > c.radius {
		return
	}

	polygonAxis := c.computePolygonSeparation()
	if polygonAxis.kind != epAxisUnknown && polygonAxis.separation > c.radius {
		return
	}

	// Hysteresis for jitter reduction.
	const relativeTol = 0.98
	const absoluteTol = 0.001

	primaryAxis := edgeAxis
	if polygonAxis.kind != epAxisUnknown && polygonAxis.separation > relativeTol*edgeAxis.separation+absoluteTol {
		primaryAxis = polygonAxis
	}

	var ie [2]ClipVertex
	var rf referenceFace

	if primaryAxis.kind == epAxisEdgeA {
		manifold.Type = ManifoldFaceA

		// The polygon normal most anti-parallel to the edge normal.
		bestIndex := 0
		bestValue := c.normal.Dot(c.polygonB.normals[0])
		for i := 1; i < c.polygonB.count; i++ {
			if value := c.normal.Dot(c.polygonB.normals[i]); value < bestValue {
				bestValue = value
				bestIndex = i
			}
		}

		i1 := bestIndex
		i2 := (i1 + 1) % c.polygonB.count

		ie[0] = ClipVertex{
			V:  c.polygonB.vertices[i1],
			ID: ContactID{IndexA: 0, IndexB: uint8(i1), TypeA: FeatureFace, TypeB: FeatureVertex},
		}
		ie[1] = ClipVertex{
			V:  c.polygonB.vertices[i2],
			ID: ContactID{IndexA: 0, IndexB: uint8(i2), TypeA: FeatureFace, TypeB: FeatureVertex},
		}

		if c.front {
			rf.i1, rf.i2 = 0, 1
			rf.v1, rf.v2 = c.v1, c.v2
			rf.normal = c.normal1
		} else {
			rf.i1, rf.i2 = 1, 0
			rf.v1, rf.v2 = c.v2, c.v1
			rf.normal = c.normal1.Neg()
		}
	} else {
		manifold.Type = ManifoldFaceB

		ie[0] = ClipVertex{
			V:  c.v1,
			ID: ContactID{IndexA: 0, IndexB: uint8(primaryAxis.index), TypeA: FeatureVertex, TypeB: FeatureFace},
		}
		ie[1] = ClipVertex{
			V:  c.v2,
			ID: ContactID{IndexA: 0, IndexB: uint8(primaryAxis.index), TypeA: FeatureVertex, TypeB: FeatureFace},
		}

		rf.i1 = primaryAxis.index
		rf.i2 = (rf.i1 + 1) % c.polygonB.count
		rf.v1 = c.polygonB.vertices[rf.i1]
		rf.v2 = c.polygonB.vertices[rf.i2]
		rf.normal = c.polygonB.normals[rf.i1]
	}

	rf.sideNormal1 = Vector{rf.normal.Y, -rf.normal.X}
	rf.sideNormal2 = rf.sideNormal1.Neg()
	rf.sideOffset1 = rf.sideNormal1.Dot(rf.v1)
	rf.sideOffset2 = rf.sideNormal2.Dot(rf.v2)

	clipPoints1, np := clipSegmentToLine(ie, rf.sideNormal1, rf.sideOffset1, rf.i1)
	if np < MaxManifoldPoints {
		return Manifold{}
	}

	clipPoints2, np := clipSegmentToLine(clipPoints1, rf.sideNormal2, rf.sideOffset2, rf.i2)
	if np < MaxManifoldPoints {
		return Manifold{}
	}

	if primaryAxis.kind == epAxisEdgeA {
		manifold.LocalNormal = rf.normal
		manifold.LocalPoint = rf.v1
	} else {
		manifold.LocalNormal = polygonB.Normals[rf.i1]
		manifold.LocalPoint = polygonB.Vertices[rf.i1]
	}

	pointCount := 0
	for i := 0; i < MaxManifoldPoints; i++ {
		separation := rf.normal.Dot(clipPoints2[i].V.Sub(rf.v1))
		if separation <= c.radius {
			cp := &manifold.Points[pointCount]
			if primaryAxis.kind == epAxisEdgeA {
				cp.LocalPoint = c.xf.InvPoint(clipPoints2[i].V)
				cp.ID = clipPoints2[i].ID
			} else {
				cp.LocalPoint = clipPoints2[i].V
				cp.ID = clipPoints2[i].ID.Swap()
			}
			pointCount++
		}
	}
	manifold.PointCount = pointCount
	return
}

// setLimits picks the collision normal and its admissible range for the
// front or back side.
func (c *epCollider) setLimits(frontLower, frontUpper, backLower, backUpper Vector) {
	if c.front {
		c.normal = c.normal1
		c.lowerLimit = frontLower
		c.upperLimit = frontUpper
	} else {
		c.normal = c.normal1.Neg()
		c.lowerLimit = backLower
		c.upperLimit = backUpper
	}
}

func (c *epCollider) computeEdgeSeparation() epAxis {
	axis := epAxis{kind: epAxisEdgeA, separation: maxFloat}
	if !c.front {
		axis.index = 1
	}

	for i := 0; i < c.polygonB.count; i++ {
		if s := c.normal.Dot(c.polygonB.vertices[i].Sub(c.v1)); s < axis.separation {
			axis.separation = s
		}
	}
	return axis
}

func (c *epCollider) computePolygonSeparation() epAxis {
	axis := epAxis{kind: epAxisUnknown, index: -1, separation: -maxFloat}

	perp := Vector{-c.normal.Y, c.normal.X}

	for i := 0; i < c.polygonB.count; i++ {
		n := c.polygonB.normals[i].Neg()

		s1 := n.Dot(c.polygonB.vertices[i].Sub(c.v1))
		s2 := n.Dot(c.polygonB.vertices[i].Sub(c.v2))
		s := math.Min(s1, s2)

		if s > c.radius {
			// No collision
			return epAxis{kind: epAxisEdgeB, index: i, separation: s}
		}

		// Adjacency
		if n.Dot(perp) >= 0 {
			if n.Sub(c.upperLimit).Dot(c.normal) < -AngularSlop {
				continue
			}
		} else {
			if n.Sub(c.lowerLimit).Dot(c.normal) < -AngularSlop {
				continue
			}
		}

		if s > axis.separation {
			axis = epAxis{kind: epAxisEdgeB, index: i, separation: s}
		}
	}
	return axis
}

func collideEdgeCircleShapes(shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) Manifold {
	return CollideEdgeAndCircle(shapeA.(*Edge), xfA, shapeB.(*Circle), xfB)
}

func collideEdgePolygonShapes(shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) Manifold {
	return CollideEdgeAndPolygon(shapeA.(*Edge), xfA, shapeB.(*Polygon), xfB)
}

func collideChainCircleShapes(shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) Manifold {
	edge := shapeA.(*Chain).ChildEdge(indexA)
	return CollideEdgeAndCircle(edge, xfA, shapeB.(*Circle), xfB)
}

func collideChainPolygonShapes(shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) Manifold {
	edge := shapeA.(*Chain).ChildEdge(indexA)
	return CollideEdgeAndPolygon(edge, xfA, shapeB.(*Polygon), xfB)
}
