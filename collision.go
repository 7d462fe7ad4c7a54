package physics

// ContactFeatureType tells whether a contact point came from a vertex or a
// face.
type ContactFeatureType uint8

const (
	FeatureVertex ContactFeatureType = iota
	FeatureFace
)

// ContactID names the features that intersect to form a contact point. It
// identifies the point across steps so impulses can be warm started.
type ContactID struct {
	// Feature index on shape A
	IndexA uint8
	// Feature index on shape B
	IndexB uint8
	TypeA  ContactFeatureType
	TypeB  ContactFeatureType
}

// Key packs the id into one comparable word.
func (id ContactID) Key() uint32 {
	return uint32(id.IndexA) | uint32(id.IndexB)<<8 | uint32(id.TypeA)<<16 | uint32(id.TypeB)<<24
}

// Swap exchanges the A and B features.
func (id ContactID) Swap() ContactID {
	return ContactID{IndexA: id.IndexB, IndexB: id.IndexA, TypeA: id.TypeB, TypeB: id.TypeA}
}

// ManifoldPoint is a contact point in the manifold. Its meaning depends on
// the manifold type:
//
//	circles: the local center of circle B
//	faceA: the local center of circle B or the clip point of polygon B
//	faceB: the clip point of polygon A
//
// The impulses are kept for warm starting.
type ManifoldPoint struct {
	LocalPoint     Vector
	NormalImpulse  float64
	TangentImpulse float64
	ID             ContactID
}

type ManifoldType uint8

const (
	ManifoldCircles ManifoldType = iota
	ManifoldFaceA
	ManifoldFaceB
)

// Manifold describes how two touching convex shapes overlap, in local
// coordinates so it stays valid while the bodies move.
type Manifold struct {
	Points [MaxManifoldPoints]ManifoldPoint
	// not used for ManifoldCircles
	LocalNormal Vector
	// usage depends on the manifold type
	LocalPoint Vector
	Type       ManifoldType
	PointCount int
}

// WorldManifold is a manifold evaluated in world coordinates.
type WorldManifold struct {
	// Points from A to B.
	Normal Vector
	// Midpoints between the two surfaces.
	Points [MaxManifoldPoints]Vector
	// A negative value indicates overlap.
	Separations [MaxManifoldPoints]float64
}

// NewWorldManifold evaluates the manifold with the given transforms and
// shape radii. Normal points from A to B.
func NewWorldManifold(manifold *Manifold, xfA Transform, radiusA float64, xfB Transform, radiusB float64) WorldManifold {
	var wm WorldManifold
	if manifold.PointCount == 0 {
		return wm
	}

	switch manifold.Type {
	case ManifoldCircles:
		wm.Normal = Vector{1, 0}
		pointA := xfA.Point(manifold.LocalPoint)
		pointB := xfB.Point(manifold.Points[0].LocalPoint)
		if pointA.DistanceSq(pointB) > epsilon*epsilon {
			wm.Normal = pointB.Sub(pointA).Normalize()
		}

		cA := pointA.Add(wm.Normal.Mult(radiusA))
		cB := pointB.Sub(wm.Normal.Mult(radiusB))
		wm.Points[0] = cA.Lerp(cB, 0.5)
		wm.Separations[0] = cB.Sub(cA).Dot(wm.Normal)

	case ManifoldFaceA:
		wm.Normal = xfA.Q.Rotate(manifold.LocalNormal)
		planePoint := xfA.Point(manifold.LocalPoint)

		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := xfB.Point(manifold.Points[i].LocalPoint)
			cA := clipPoint.Add(wm.Normal.Mult(radiusA - clipPoint.Sub(planePoint).Dot(wm.Normal)))
			cB := clipPoint.Sub(wm.Normal.Mult(radiusB))
			wm.Points[i] = cA.Lerp(cB, 0.5)
			wm.Separations[i] = cB.Sub(cA).Dot(wm.Normal)
		}

	case ManifoldFaceB:
		wm.Normal = xfB.Q.Rotate(manifold.LocalNormal)
		planePoint := xfB.Point(manifold.LocalPoint)

		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := xfA.Point(manifold.Points[i].LocalPoint)
			cB := clipPoint.Add(wm.Normal.Mult(radiusB - clipPoint.Sub(planePoint).Dot(wm.Normal)))
			cA := clipPoint.Sub(wm.Normal.Mult(radiusA))
			wm.Points[i] = cA.Lerp(cB, 0.5)
			wm.Separations[i] = cA.Sub(cB).Dot(wm.Normal)
		}

		// Ensure normal points from A to B.
		wm.Normal = wm.Normal.Neg()
	}

	return wm
}

// PointState is the life of a manifold point between two updates.
type PointState uint8

const (
	// point does not exist
	PointStateNull PointState = iota
	// point was added in the update
	PointStateAdd
	// point persisted across the update
	PointStatePersist
	// point was removed in the update
	PointStateRemove
)

// PointStates compares the points of two manifolds by contact id. The
// first result describes manifold1's points, the second manifold2's.
func PointStates(manifold1, manifold2 *Manifold) (state1, state2 [MaxManifoldPoints]PointState) {
	// Detect persists and removes.
	for i := 0; i < manifold1.PointCount; i++ {
		key := manifold1.Points[i].ID.Key()
		state1[i] = PointStateRemove
		for j := 0; j < manifold2.PointCount; j++ {
			if manifold2.Points[j].ID.Key() == key {
				state1[i] = PointStatePersist
				break
			}
		}
	}

	// Detect persists and adds.
	for i := 0; i < manifold2.PointCount; i++ {
		key := manifold2.Points[i].ID.Key()
		state2[i] = PointStateAdd
		for j := 0; j < manifold1.PointCount; j++ {
			if manifold1.Points[j].ID.Key() == key {
				state2[i] = PointStatePersist
				break
			}
		}
	}
	return
}

// ClipVertex is a point produced while clipping an incident edge.
type ClipVertex struct {
	V  Vector
	ID ContactID
}

// clipSegmentToLine keeps the part of the segment vIn behind the plane
// dot(normal, v) = offset. A crossing produces a new vertex whose id names
// vertexIndexA.
func clipSegmentToLine(vIn [2]ClipVertex, normal Vector, offset float64, vertexIndexA int) (vOut [2]ClipVertex, count int) {
	distance0 := normal.Dot(vIn[0].V) - offset
	distance1 := normal.Dot(vIn[1].V) - offset

	// Keep the points behind the plane.
	if distance0 <= 0 {
		vOut[count] = vIn[0]
		count++
	}
	if distance1 <= 0 {
		vOut[count] = vIn[1]
		count++
	}

	// The points are on different sides of the plane.
	if distance0*distance1 < 0 {
		interp := distance0 / (distance0 - distance1)
		vOut[count].V = vIn[0].V.Add(vIn[1].V.Sub(vIn[0].V).Mult(interp))

		// Vertex A is hitting edge B.
		vOut[count].ID = ContactID{
			IndexA: uint8(vertexIndexA),
			IndexB: vIn[0].ID.IndexB,
			TypeA:  FeatureVertex,
			TypeB:  FeatureFace,
		}
		count++
	}

	return vOut, count
}

// TestOverlap reports whether two shape children touch, including their
// radii.
func TestOverlap(shapeA Shape, indexA int, shapeB Shape, indexB int, xfA, xfB Transform) bool {
	input := DistanceInput{
		ProxyA:     NewDistanceProxy(shapeA, indexA),
		ProxyB:     NewDistanceProxy(shapeB, indexB),
		TransformA: xfA,
		TransformB: xfB,
		UseRadii:   true,
	}

	var cache SimplexCache
	output := Distance(&cache, &input)
	return output.Distance < 10.0*epsilon
}

// ManifoldFunc generates the manifold between child indexA of shape A and
// child indexB of shape B.
type ManifoldFunc func(shapeA Shape, indexA int, xfA Transform, shapeB Shape, indexB int, xfB Transform) Manifold

type manifoldEntry struct {
	fn ManifoldFunc
	// primary entries take the shapes in table order; the others need the
	// pair swapped first.
	primary bool
}

// manifoldFuncs dispatches on the shape kind pair. Missing entries (edge
// against edge or chain) never collide.
var manifoldFuncs [shapeKindCount][shapeKindCount]manifoldEntry

func registerManifold(fn ManifoldFunc, kindA, kindB ShapeKind) {
	manifoldFuncs[kindA][kindB] = manifoldEntry{fn: fn, primary: true}
	if kindA != kindB {
		manifoldFuncs[kindB][kindA] = manifoldEntry{fn: fn, primary: false}
	}
}

func init() {
	registerManifold(collideCircleShapes, ShapeCircle, ShapeCircle)
	registerManifold(collidePolygonCircleShapes, ShapePolygon, ShapeCircle)
	registerManifold(collidePolygonShapes, ShapePolygon, ShapePolygon)
	registerManifold(collideEdgeCircleShapes, ShapeEdge, ShapeCircle)
	registerManifold(collideEdgePolygonShapes, ShapeEdge, ShapePolygon)
	registerManifold(collideChainCircleShapes, ShapeChain, ShapeCircle)
	registerManifold(collideChainPolygonShapes, ShapeChain, ShapePolygon)
}

// lookupManifold returns the manifold function for a kind pair and whether
// the pair is in the function's argument order.
func lookupManifold(kindA, kindB ShapeKind) (ManifoldFunc, bool) {
	entry := manifoldFuncs[kindA][kindB]
	return entry.fn, entry.primary
}
