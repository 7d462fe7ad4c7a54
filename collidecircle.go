package physics

// CollideCircles computes the manifold between two circles.
func CollideCircles(circleA *Circle, xfA Transform, circleB *Circle, xfB Transform) (manifold Manifold) {
	pA := xfA.Point(circleA.Center)
	pB := xfB.Point(circleB.Center)

	radius := circleA.R + circleB.R
	if pA.DistanceSq(pB) > radius*radius {
		return
	}

	manifold.Type = ManifoldCircles
	manifold.LocalPoint = circleA.Center
	manifold.PointCount = 1
	manifold.Points[0].LocalPoint = circleB.Center
	return
}

// CollidePolygonAndCircle computes the manifold between a polygon and a
// circle. The circle center is classified against the closest face, or the
// vertex regions at either end of it.
func CollidePolygonAndCircle(polygonA *Polygon, xfA Transform, circleB *Circle, xfB Transform) (manifold Manifold) {
	// Circle position in the frame of the polygon.
	c := xfB.Point(circleB.Center)
	cLocal := xfA.InvPoint(c)

	// Find the min separating edge.
	normalIndex := 0
	separation := -maxFloat
	radius := polygonA.R + circleB.R
	vertices := polygonA.Vertices
	normals := polygonA.Normals
	vertexCount := len(vertices)

	for i := 0; i < vertexCount; i++ {
		s := normals[i].Dot(cLocal.Sub(vertices[i]))
		if s > radius {
			return
		}
		if s > separation {
			separation = s
			normalIndex = i
		}
	}

	// Vertices that subtend the incident face.
	vertIndex1 := normalIndex
	vertIndex2 := (vertIndex1 + 1) % vertexCount
	v1 := vertices[vertIndex1]
	v2 := vertices[vertIndex2]

	manifold.Type = ManifoldFaceA
	manifold.Points[0].LocalPoint = circleB.Center

	// The center is inside the polygon.
	if separation < epsilon {
		manifold.PointCount = 1
		manifold.LocalNormal = normals[normalIndex]
		manifold.LocalPoint = v1.Lerp(v2, 0.5)
		return
	}

	// Barycentric coordinates
	u1 := cLocal.Sub(v1).Dot(v2.Sub(v1))
	u2 := cLocal.Sub(v2).Dot(v1.Sub(v2))

	switch {
	case u1 <= 0:
		if cLocal.DistanceSq(v1) > radius*radius {
			return Manifold{}
		}
		manifold.PointCount = 1
		manifold.LocalNormal = cLocal.Sub(v1).Normalize()
		manifold.LocalPoint = v1

	case u2 <= 0:
		if cLocal.DistanceSq(v2) > radius*radius {
			return Manifold{}
		}
		manifold.PointCount = 1
		manifold.LocalNormal = cLocal.Sub(v2).Normalize()
		manifold.LocalPoint = v2

	default:
		faceCenter := v1.Lerp(v2, 0.5)
		if cLocal.Sub(faceCenter).Dot(normals[vertIndex1]) > radius {
			return Manifold{}
		}
		manifold.PointCount = 1
		manifold.LocalNormal = normals[vertIndex1]
		manifold.LocalPoint = faceCenter
	}
	return
}

func collideCircleShapes(shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) Manifold {
	return CollideCircles(shapeA.(*Circle), xfA, shapeB.(*Circle), xfB)
}

func collidePolygonCircleShapes(shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) Manifold {
	return CollidePolygonAndCircle(shapeA.(*Polygon), xfA, shapeB.(*Circle), xfB)
}
