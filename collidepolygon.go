package physics

// findMaxSeparation finds the face normal of poly1 with the largest
// separation from poly2.
func findMaxSeparation(poly1 *Polygon, xf1 Transform, poly2 *Polygon, xf2 Transform) (edgeIndex int, maxSeparation float64) {
	n1s := poly1.Normals
	v1s := poly1.Vertices
	v2s := poly2.Vertices
	xf := xf2.MulT(xf1)

	maxSeparation = -maxFloat
	for i := range n1s {
		// poly1 normal in frame 2
		n := xf.Q.Rotate(n1s[i])
		v1 := xf.Point(v1s[i])

		// Deepest point for normal i.
		si := maxFloat
		for _, v2 := range v2s {
			if sij := n.Dot(v2.Sub(v1)); sij < si {
				si = sij
			}
		}

		if si > maxSeparation {
			maxSeparation = si
			edgeIndex = i
		}
	}
	return
}

// findIncidentEdge returns the edge of poly2 most anti-parallel to the
// reference face edge1 of poly1, in world coordinates.
func findIncidentEdge(poly1 *Polygon, xf1 Transform, edge1 int, poly2 *Polygon, xf2 Transform) (c [2]ClipVertex) {
	// Reference normal in poly2's frame.
	normal1 := xf2.Q.Unrotate(xf1.Q.Rotate(poly1.Normals[edge1]))

	index := 0
	minDot := maxFloat
	for i, n := range poly2.Normals {
		if dot := normal1.Dot(n); dot < minDot {
			minDot = dot
			index = i
		}
	}

	i1 := index
	i2 := (i1 + 1) % len(poly2.Vertices)

	c[0] = ClipVertex{
		V:  xf2.Point(poly2.Vertices[i1]),
		ID: ContactID{IndexA: uint8(edge1), IndexB: uint8(i1), TypeA: FeatureFace, TypeB: FeatureVertex},
	}
	c[1] = ClipVertex{
		V:  xf2.Point(poly2.Vertices[i2]),
		ID: ContactID{IndexA: uint8(edge1), IndexB: uint8(i2), TypeA: FeatureFace, TypeB: FeatureVertex},
	}
	return
}

// CollidePolygons computes the manifold between two convex polygons:
//
//	find the face of A with max separation; stop if it separates
//	find the face of B with max separation; stop if it separates
//	take the better face as reference, preferring A within a tolerance
//	clip the incident edge against the reference face side planes
//
// The normal points from polyA to polyB.
func CollidePolygons(polyA *Polygon, xfA Transform, polyB *Polygon, xfB Transform) (manifold Manifold) {
	totalRadius := polyA.R + polyB.R

	edgeA, separationA := findMaxSeparation(polyA, xfA, polyB, xfB)
	if separationA > totalRadius {
		return
	}

	edgeB, separationB := findMaxSeparation(polyB, xfB, polyA, xfA)
	if separationB > totalRadius {
		return
	}

	// reference polygon 1, incident polygon 2
	poly1, poly2 := polyA, polyB
	xf1, xf2 := xfA, xfB
	edge1 := edgeA
	flip := false
	manifold.Type = ManifoldFaceA

	const tol = 0.1 * LinearSlop
	if separationB > separationA+tol {
		poly1, poly2 = polyB, polyA
		xf1, xf2 = xfB, xfA
		edge1 = edgeB
		flip = true
		manifold.Type = ManifoldFaceB
	}

	incidentEdge := findIncidentEdge(poly1, xf1, edge1, poly2, xf2)

	vertices1 := poly1.Vertices
	iv1 := edge1
	iv2 := (edge1 + 1) % len(vertices1)

	v11 := vertices1[iv1]
	v12 := vertices1[iv2]

	localTangent := v12.Sub(v11).Normalize()
	localNormal := CrossVS(localTangent, 1.0)
	planePoint := v11.Lerp(v12, 0.5)

	tangent := xf1.Q.Rotate(localTangent)
	normal := CrossVS(tangent, 1.0)

	v11 = xf1.Point(v11)
	v12 = xf1.Point(v12)

	// Face offset.
	frontOffset := normal.Dot(v11)

	// Side offsets, extended by the rounding radii.
	sideOffset1 := -tangent.Dot(v11) + totalRadius
	sideOffset2 := tangent.Dot(v12) + totalRadius

	clipPoints1, np := clipSegmentToLine(incidentEdge, tangent.Neg(), sideOffset1, iv1)
	if np < 2 {
		return Manifold{}
	}

	clipPoints2, np := clipSegmentToLine(clipPoints1, tangent, sideOffset2, iv2)
	if np < 2 {
		return Manifold{}
	}

	manifold.LocalNormal = localNormal
	manifold.LocalPoint = planePoint

	pointCount := 0
	for i := 0; i < MaxManifoldPoints; i++ {
		separation := normal.Dot(clipPoints2[i].V) - frontOffset
		if separation <= totalRadius {
			cp := &manifold.Points[pointCount]
			cp.LocalPoint = xf2.InvPoint(clipPoints2[i].V)
			cp.ID = clipPoints2[i].ID
			if flip {
				cp.ID = cp.ID.Swap()
			}
			pointCount++
		}
	}
	manifold.PointCount = pointCount
	return
}

func collidePolygonShapes(shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) Manifold {
	return CollidePolygons(shapeA.(*Polygon), xfA, shapeB.(*Polygon), xfB)
}
