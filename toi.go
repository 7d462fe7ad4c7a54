package physics

import "math"

// TOIInput describes two shapes sweeping over [0, TMax].
type TOIInput struct {
	ProxyA, ProxyB DistanceProxy
	SweepA, SweepB Sweep
	// Sweep interval is [0, TMax].
	TMax float64
}

type TOIState uint8

const (
	TOIStateUnknown TOIState = iota
	TOIStateFailed
	TOIStateOverlapped
	TOIStateTouching
	TOIStateSeparated
)

func (s TOIState) String() string {
	switch s {
	case TOIStateFailed:
		return "failed"
	case TOIStateOverlapped:
		return "overlapped"
	case TOIStateTouching:
		return "touching"
	case TOIStateSeparated:
		return "separated"
	}
	return "unknown"
}

type TOIOutput struct {
	State TOIState
	T     float64
}

const (
	maxTOIIterations     = 20
	maxTOIRootIterations = 50
)

type separationType uint8

const (
	separationPoints separationType = iota
	separationFaceA
	separationFaceB
)

// separationFunction measures the distance between two sweeping proxies
// along an axis fixed to one of them, chosen from a GJK simplex.
type separationFunction struct {
	proxyA, proxyB *DistanceProxy
	sweepA, sweepB Sweep
	kind           separationType
	localPoint     Vector
	axis           Vector
}

// init sets up the axis from the simplex cache at time t1 and returns the
// separation there.
func (f *separationFunction) init(cache *SimplexCache, proxyA *DistanceProxy, sweepA Sweep, proxyB *DistanceProxy, sweepB Sweep, t1 float64) float64 {
	f.proxyA = proxyA
	f.proxyB = proxyB
	count := cache.Count
	assert(0 < count && count < 3, "bad simplex cache for separation")

	f.sweepA = sweepA
	f.sweepB = sweepB

	xfA := f.sweepA.Transform(t1)
	xfB := f.sweepB.Transform(t1)

	switch {
	case count == 1:
		f.kind = separationPoints
		pointA := xfA.Point(proxyA.Vertices[cache.IndexA[0]])
		pointB := xfB.Point(proxyB.Vertices[cache.IndexB[0]])
		var s float64
		f.axis, s = pointB.Sub(pointA).NormalizeLength()
		return s

	case cache.IndexA[0] == cache.IndexA[1]:
		// Two points on B and one on A.
		f.kind = separationFaceB
		localPointB1 := proxyB.Vertices[cache.IndexB[0]]
		localPointB2 := proxyB.Vertices[cache.IndexB[1]]

		f.axis = CrossVS(localPointB2.Sub(localPointB1), 1.0).Normalize()
		normal := xfB.Q.Rotate(f.axis)

		f.localPoint = localPointB1.Lerp(localPointB2, 0.5)
		pointB := xfB.Point(f.localPoint)
		pointA := xfA.Point(proxyA.Vertices[cache.IndexA[0]])

		s := pointA.Sub(pointB).Dot(normal)
		if s < 0 {
			f.axis = f.axis.Neg()
			s = -s
		}
		return s

	default:
		// Two points on A and one or two points on B.
		f.kind = separationFaceA
		localPointA1 := proxyA.Vertices[cache.IndexA[0]]
		localPointA2 := proxyA.Vertices[cache.IndexA[1]]

		f.axis = CrossVS(localPointA2.Sub(localPointA1), 1.0).Normalize()
		normal := xfA.Q.Rotate(f.axis)

		f.localPoint = localPointA1.Lerp(localPointA2, 0.5)
		pointA := xfA.Point(f.localPoint)
		pointB := xfB.Point(proxyB.Vertices[cache.IndexB[0]])

		s := pointB.Sub(pointA).Dot(normal)
		if s < 0 {
			f.axis = f.axis.Neg()
			s = -s
		}
		return s
	}
}

// findMinSeparation returns the deepest points along the axis at time t
// and their separation. A face side reports -1 as its index.
func (f *separationFunction) findMinSeparation(t float64) (indexA, indexB int, separation float64) {
	xfA := f.sweepA.Transform(t)
	xfB := f.sweepB.Transform(t)

	switch f.kind {
	case separationPoints:
		axisA := xfA.Q.Unrotate(f.axis)
		axisB := xfB.Q.Unrotate(f.axis.Neg())

		indexA = f.proxyA.Support(axisA)
		indexB = f.proxyB.Support(axisB)

		pointA := xfA.Point(f.proxyA.Vertices[indexA])
		pointB := xfB.Point(f.proxyB.Vertices[indexB])
		return indexA, indexB, pointB.Sub(pointA).Dot(f.axis)

	case separationFaceA:
		normal := xfA.Q.Rotate(f.axis)
		pointA := xfA.Point(f.localPoint)

		indexB = f.proxyB.Support(xfB.Q.Unrotate(normal.Neg()))
		pointB := xfB.Point(f.proxyB.Vertices[indexB])
		return -1, indexB, pointB.Sub(pointA).Dot(normal)

	default:
		normal := xfB.Q.Rotate(f.axis)
		pointB := xfB.Point(f.localPoint)

		indexA = f.proxyA.Support(xfA.Q.Unrotate(normal.Neg()))
		pointA := xfA.Point(f.proxyA.Vertices[indexA])
		return indexA, -1, pointA.Sub(pointB).Dot(normal)
	}
}

// evaluate returns the separation of the given points at time t.
func (f *separationFunction) evaluate(indexA, indexB int, t float64) float64 {
	xfA := f.sweepA.Transform(t)
	xfB := f.sweepB.Transform(t)

	switch f.kind {
	case separationPoints:
		pointA := xfA.Point(f.proxyA.Vertices[indexA])
		pointB := xfB.Point(f.proxyB.Vertices[indexB])
		return pointB.Sub(pointA).Dot(f.axis)

	case separationFaceA:
		normal := xfA.Q.Rotate(f.axis)
		pointA := xfA.Point(f.localPoint)
		pointB := xfB.Point(f.proxyB.Vertices[indexB])
		return pointB.Sub(pointA).Dot(normal)

	default:
		normal := xfB.Q.Rotate(f.axis)
		pointB := xfB.Point(f.localPoint)
		pointA := xfA.Point(f.proxyA.Vertices[indexA])
		return pointA.Sub(pointB).Dot(normal)
	}
}

// TimeOfImpact computes the upper bound on time before two shapes
// penetrate, using conservative advancement on separating axes. Time is
// the fraction of the sweep interval [0, TMax]. The result stops short of
// contact by a few multiples of LinearSlop so that the solver has a target
// separation to work with.
func TimeOfImpact(input *TOIInput) TOIOutput {
	output := TOIOutput{State: TOIStateUnknown, T: input.TMax}

	proxyA := &input.ProxyA
	proxyB := &input.ProxyB

	sweepA := input.SweepA
	sweepB := input.SweepB

	// Large rotations can make the root finder fail, so normalize the
	// sweep angles.
	sweepA.Normalize()
	sweepB.Normalize()

	tMax := input.TMax

	totalRadius := proxyA.Radius + proxyB.Radius
	target := math.Max(LinearSlop, totalRadius-3.0*LinearSlop)
	tolerance := 0.25 * LinearSlop
	assert(target > tolerance, "toi target below tolerance")

	t1 := 0.0
	iter := 0

	// Prepare input for distance query.
	var cache SimplexCache
	distanceInput := DistanceInput{ProxyA: input.ProxyA, ProxyB: input.ProxyB}

	// The outer loop progressively attempts to compute new separating axes.
	// It terminates when an axis is repeated (no progress is made).
	for {
		distanceInput.TransformA = sweepA.Transform(t1)
		distanceInput.TransformB = sweepB.Transform(t1)

		distanceOutput := Distance(&cache, &distanceInput)

		// The shapes overlap: give up on continuous collision.
		if distanceOutput.Distance <= 0 {
			output.State = TOIStateOverlapped
			output.T = 0
			break
		}

		if distanceOutput.Distance < target+tolerance {
			output.State = TOIStateTouching
			output.T = t1
			break
		}

		var fcn separationFunction
		fcn.init(&cache, proxyA, sweepA, proxyB, sweepB, t1)

		// Resolve the deepest point on the current axis. The inner loop
		// pushes back t2 until the deepest point is within tolerance.
		done := false
		t2 := tMax
		pushBackIter := 0
		for {
			indexA, indexB, s2 := fcn.findMinSeparation(t2)

			// Final configuration is separated.
			if s2 > target+tolerance {
				output.State = TOIStateSeparated
				output.T = tMax
				done = true
				break
			}

			// Advance the sweeps.
			if s2 > target-tolerance {
				t1 = t2
				break
			}

			s1 := fcn.evaluate(indexA, indexB, t1)

			// The root finder would fail: the initial separation is below
			// the target.
			if s1 < target-tolerance {
				output.State = TOIStateFailed
				output.T = t1
				done = true
				break
			}

			// Touching at t1.
			if s1 <= target+tolerance {
				output.State = TOIStateTouching
				output.T = t1
				done = true
				break
			}

			// 1D root of f(t) - target = 0, alternating secant and
			// bisection steps.
			a1, a2 := t1, t2
			for rootIter := 0; rootIter < maxTOIRootIterations; rootIter++ {
				var t float64
				if rootIter&1 != 0 {
					t = a1 + (target-s1)*(a2-a1)/(s2-s1)
				} else {
					t = 0.5 * (a1 + a2)
				}

				s := fcn.evaluate(indexA, indexB, t)

				if math.Abs(s-target) < tolerance {
					t2 = t
					break
				}

				// Keep the brackets on opposite sides of the target.
				if s > target {
					a1 = t
					s1 = s
				} else {
					a2 = t
					s2 = s
				}
			}

			pushBackIter++
			if pushBackIter == MaxPolygonVertices {
				break
			}
		}

		iter++

		if done {
			break
		}

		if iter == maxTOIIterations {
			// The root finder got stuck.
			output.State = TOIStateFailed
			output.T = t1
			break
		}
	}

	return output
}
