package physics

import "math"

// blockSolve turns on the 2x2 block solver for two-point manifolds.
const blockSolve = true

// A poorly conditioned block falls back to solving one point.
const maxConditionNumber = 1000.0

type velocityConstraintPoint struct {
	rA, rB         Vector
	normalImpulse  float64
	tangentImpulse float64
	normalMass     float64
	tangentMass    float64
	velocityBias   float64
}

type contactVelocityConstraint struct {
	points       [MaxManifoldPoints]velocityConstraintPoint
	normal       Vector
	normalMass   Mat22
	K            Mat22
	indexA       int
	indexB       int
	invMassA     float64
	invMassB     float64
	invIA, invIB float64
	friction     float64
	restitution  float64
	tangentSpeed float64
	pointCount   int
	contactIndex int
}

type contactPositionConstraint struct {
	localPoints                [MaxManifoldPoints]Vector
	localNormal                Vector
	localPoint                 Vector
	indexA                     int
	indexB                     int
	invMassA, invMassB         float64
	localCenterA, localCenterB Vector
	invIA, invIB               float64
	typ                        ManifoldType
	radiusA, radiusB           float64
	pointCount                 int
}

// contactSolver runs the sequential impulse passes over the contacts of one
// island.
type contactSolver struct {
	step                TimeStep
	positions           []position
	velocities          []velocity
	positionConstraints []contactPositionConstraint
	velocityConstraints []contactVelocityConstraint
	contacts            []*Contact
}

// newContactSolver initializes the position independent portions of the
// constraints.
func newContactSolver(step TimeStep, contacts []*Contact, positions []position, velocities []velocity) *contactSolver {
	solver := &contactSolver{
		step:                step,
		positions:           positions,
		velocities:          velocities,
		contacts:            contacts,
		positionConstraints: make([]contactPositionConstraint, len(contacts)),
		velocityConstraints: make([]contactVelocityConstraint, len(contacts)),
	}

	for i, contact := range contacts {
		fixtureA := contact.fixtureA
		fixtureB := contact.fixtureB
		bodyA := fixtureA.body
		bodyB := fixtureB.body
		manifold := &contact.manifold

		pointCount := manifold.PointCount
		assert(pointCount > 0, "solving a contact without points")

		vc := &solver.velocityConstraints[i]
		vc.friction = contact.friction
		vc.restitution = contact.restitution
		vc.tangentSpeed = contact.tangentSpeed
		vc.indexA = bodyA.islandIndex
		vc.indexB = bodyB.islandIndex
		vc.invMassA = bodyA.invMass
		vc.invMassB = bodyB.invMass
		vc.invIA = bodyA.invI
		vc.invIB = bodyB.invI
		vc.contactIndex = i
		vc.pointCount = pointCount

		pc := &solver.positionConstraints[i]
		pc.indexA = bodyA.islandIndex
		pc.indexB = bodyB.islandIndex
		pc.invMassA = bodyA.invMass
		pc.invMassB = bodyB.invMass
		pc.localCenterA = bodyA.sweep.LocalCenter
		pc.localCenterB = bodyB.sweep.LocalCenter
		pc.invIA = bodyA.invI
		pc.invIB = bodyB.invI
		pc.localNormal = manifold.LocalNormal
		pc.localPoint = manifold.LocalPoint
		pc.pointCount = pointCount
		pc.radiusA = fixtureA.shape.Radius()
		pc.radiusB = fixtureB.shape.Radius()
		pc.typ = manifold.Type

		for j := 0; j < pointCount; j++ {
			mp := &manifold.Points[j]
			vcp := &vc.points[j]

			if step.WarmStarting {
				vcp.normalImpulse = step.DtRatio * mp.NormalImpulse
				vcp.tangentImpulse = step.DtRatio * mp.TangentImpulse
			}

			pc.localPoints[j] = mp.LocalPoint
		}
	}

	return solver
}

// initializeVelocityConstraints computes the position dependent portions:
// anchors, effective masses and restitution bias.
func (solver *contactSolver) initializeVelocityConstraints() {
	for i := range solver.velocityConstraints {
		vc := &solver.velocityConstraints[i]
		pc := &solver.positionConstraints[i]

		manifold := &solver.contacts[vc.contactIndex].manifold

		indexA := vc.indexA
		indexB := vc.indexB

		mA := vc.invMassA
		mB := vc.invMassB
		iA := vc.invIA
		iB := vc.invIB

		cA := solver.positions[indexA].C
		aA := solver.positions[indexA].A
		vA := solver.velocities[indexA].V
		wA := solver.velocities[indexA].W

		cB := solver.positions[indexB].C
		aB := solver.positions[indexB].A
		vB := solver.velocities[indexB].V
		wB := solver.velocities[indexB].W

		assert(manifold.PointCount > 0, "solving a contact without points")

		xfA := Transform{Q: NewRot(aA)}
		xfB := Transform{Q: NewRot(aB)}
		xfA.P = cA.Sub(xfA.Q.Rotate(pc.localCenterA))
		xfB.P = cB.Sub(xfB.Q.Rotate(pc.localCenterB))

		worldManifold := NewWorldManifold(manifold, xfA, pc.radiusA, xfB, pc.radiusB)

		vc.normal = worldManifold.Normal
		tangent := CrossVS(vc.normal, 1.0)

		for j := 0; j < vc.pointCount; j++ {
			vcp := &vc.points[j]

			vcp.rA = worldManifold.Points[j].Sub(cA)
			vcp.rB = worldManifold.Points[j].Sub(cB)

			rnA := vcp.rA.Cross(vc.normal)
			rnB := vcp.rB.Cross(vc.normal)

			kNormal := mA + mB + iA*rnA*rnA + iB*rnB*rnB
			if kNormal > 0 {
				vcp.normalMass = 1.0 / kNormal
			} else {
				vcp.normalMass = 0
			}

			rtA := vcp.rA.Cross(tangent)
			rtB := vcp.rB.Cross(tangent)

			kTangent := mA + mB + iA*rtA*rtA + iB*rtB*rtB
			if kTangent > 0 {
				vcp.tangentMass = 1.0 / kTangent
			} else {
				vcp.tangentMass = 0
			}

			// Setup a velocity bias for restitution.
			vcp.velocityBias = 0
			vRel := vc.normal.Dot(vB.Add(CrossSV(wB, vcp.rB)).Sub(vA).Sub(CrossSV(wA, vcp.rA)))
			if vRel < -VelocityThreshold {
				vcp.velocityBias = -vc.restitution * vRel
			}
		}

		// If we have two points, then prepare the block solver.
		if vc.pointCount == 2 && blockSolve {
			vcp1 := &vc.points[0]
			vcp2 := &vc.points[1]

			rn1A := vcp1.rA.Cross(vc.normal)
			rn1B := vcp1.rB.Cross(vc.normal)
			rn2A := vcp2.rA.Cross(vc.normal)
			rn2B := vcp2.rB.Cross(vc.normal)

			k11 := mA + mB + iA*rn1A*rn1A + iB*rn1B*rn1B
			k22 := mA + mB + iA*rn2A*rn2A + iB*rn2B*rn2B
			k12 := mA + mB + iA*rn1A*rn2A + iB*rn1B*rn2B

			if k11*k11 < maxConditionNumber*(k11*k22-k12*k12) {
				// K is safe to invert.
				vc.K = NewMat22(k11, k12, k12, k22)
				vc.normalMass = vc.K.Inverse()
			} else {
				// The constraints are redundant, just use one.
				vc.pointCount = 1
			}
		}
	}
}

// warmStart applies the accumulated impulses from the previous step.
func (solver *contactSolver) warmStart() {
	for i := range solver.velocityConstraints {
		vc := &solver.velocityConstraints[i]

		indexA := vc.indexA
		indexB := vc.indexB
		mA := vc.invMassA
		iA := vc.invIA
		mB := vc.invMassB
		iB := vc.invIB

		vA := solver.velocities[indexA].V
		wA := solver.velocities[indexA].W
		vB := solver.velocities[indexB].V
		wB := solver.velocities[indexB].W

		normal := vc.normal
		tangent := CrossVS(normal, 1.0)

		for j := 0; j < vc.pointCount; j++ {
			vcp := &vc.points[j]
			P := normal.Mult(vcp.normalImpulse).Add(tangent.Mult(vcp.tangentImpulse))
			wA -= iA * vcp.rA.Cross(P)
			vA = vA.Sub(P.Mult(mA))
			wB += iB * vcp.rB.Cross(P)
			vB = vB.Add(P.Mult(mB))
		}

		solver.velocities[indexA] = velocity{vA, wA}
		solver.velocities[indexB] = velocity{vB, wB}
	}
}

func (solver *contactSolver) solveVelocityConstraints() {
	for i := range solver.velocityConstraints {
		vc := &solver.velocityConstraints[i]

		indexA := vc.indexA
		indexB := vc.indexB
		mA := vc.invMassA
		iA := vc.invIA
		mB := vc.invMassB
		iB := vc.invIB
		pointCount := vc.pointCount

		vA := solver.velocities[indexA].V
		wA := solver.velocities[indexA].W
		vB := solver.velocities[indexB].V
		wB := solver.velocities[indexB].W

		normal := vc.normal
		tangent := CrossVS(normal, 1.0)
		friction := vc.friction

		assert(pointCount == 1 || pointCount == 2, "bad point count")

		// Solve tangent constraints first because non-penetration is more
		// important than friction.
		for j := 0; j < pointCount; j++ {
			vcp := &vc.points[j]

			// Relative velocity at contact
			dv := vB.Add(CrossSV(wB, vcp.rB)).Sub(vA).Sub(CrossSV(wA, vcp.rA))

			// Compute tangent force
			vt := dv.Dot(tangent) - vc.tangentSpeed
			lambda := vcp.tangentMass * (-vt)

			// Clamp the accumulated force
			maxFriction := friction * vcp.normalImpulse
			newImpulse := Clamp(vcp.tangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - vcp.tangentImpulse
			vcp.tangentImpulse = newImpulse

			// Apply contact impulse
			P := tangent.Mult(lambda)

			vA = vA.Sub(P.Mult(mA))
			wA -= iA * vcp.rA.Cross(P)

			vB = vB.Add(P.Mult(mB))
			wB += iB * vcp.rB.Cross(P)
		}

		if pointCount == 1 || !blockSolve {
			for j := 0; j < pointCount; j++ {
				vcp := &vc.points[j]

				// Relative velocity at contact
				dv := vB.Add(CrossSV(wB, vcp.rB)).Sub(vA).Sub(CrossSV(wA, vcp.rA))

				// Compute normal impulse
				vn := dv.Dot(normal)
				lambda := -vcp.normalMass * (vn - vcp.velocityBias)

				// Clamp the accumulated impulse
				newImpulse := math.Max(vcp.normalImpulse+lambda, 0.0)
				lambda = newImpulse - vcp.normalImpulse
				vcp.normalImpulse = newImpulse

				// Apply contact impulse
				P := normal.Mult(lambda)
				vA = vA.Sub(P.Mult(mA))
				wA -= iA * vcp.rA.Cross(P)

				vB = vB.Add(P.Mult(mB))
				wB += iB * vcp.rB.Cross(P)
			}
		} else {
			vA, wA, vB, wB = solver.solveBlock(vc, vA, wA, vB, wB)
		}

		solver.velocities[indexA] = velocity{vA, wA}
		solver.velocities[indexB] = velocity{vB, wB}
	}
}

// solveBlock solves the normal constraints of a two-point manifold together
// as a linear complementarity problem:
//
//	vn = A * x + b, vn >= 0, x >= 0 and vn_i * x_i = 0 with i = 1..2
//
// A = J * W * JT and J = ( -n, -r1 x n, n, r2 x n )
// b = vn0 - velocityBias
//
// The system is solved using the "total enumeration method". In 2D only the
// four cases below need testing. Since the accumulated impulse a is
// clamped rather than the incremental one, the problem is rewritten in
// terms of x = a + d:
//
//	vn = A * d + b
//	   = A * (x - a) + b
//	   = A * x + b - A * a
//	   = A * x + b'
//	b' = b - A * a
func (solver *contactSolver) solveBlock(vc *contactVelocityConstraint, vA Vector, wA float64, vB Vector, wB float64) (Vector, float64, Vector, float64) {
	mA := vc.invMassA
	iA := vc.invIA
	mB := vc.invMassB
	iB := vc.invIB
	normal := vc.normal

	cp1 := &vc.points[0]
	cp2 := &vc.points[1]

	a := Vector{cp1.normalImpulse, cp2.normalImpulse}
	assert(a.X >= 0.0 && a.Y >= 0.0, "negative accumulated impulse")

	// Relative velocity at contact
	dv1 := vB.Add(CrossSV(wB, cp1.rB)).Sub(vA).Sub(CrossSV(wA, cp1.rA))
	dv2 := vB.Add(CrossSV(wB, cp2.rB)).Sub(vA).Sub(CrossSV(wA, cp2.rA))

	// Compute normal velocity
	vn1 := dv1.Dot(normal)
	vn2 := dv2.Dot(normal)

	b := Vector{vn1 - cp1.velocityBias, vn2 - cp2.velocityBias}

	// Compute b'
	b = b.Sub(vc.K.Transform(a))

	apply := func(x Vector) {
		// Resubstitute for the incremental impulse
		d := x.Sub(a)

		// Apply incremental impulse
		P1 := normal.Mult(d.X)
		P2 := normal.Mult(d.Y)
		vA = vA.Sub(P1.Add(P2).Mult(mA))
		wA -= iA * (cp1.rA.Cross(P1) + cp2.rA.Cross(P2))

		vB = vB.Add(P1.Add(P2).Mult(mB))
		wB += iB * (cp1.rB.Cross(P1) + cp2.rB.Cross(P2))

		// Accumulate
		cp1.normalImpulse = x.X
		cp2.normalImpulse = x.Y
	}

	// Case 1: vn = 0
	//
	// 0 = A * x + b'
	//
	// Solve for x:
	//
	// x = - inv(A) * b'
	x := vc.normalMass.Transform(b).Neg()
	if x.X >= 0.0 && x.Y >= 0.0 {
		apply(x)
		return vA, wA, vB, wB
	}

	// Case 2: vn1 = 0 and x2 = 0
	//
	//   0 = a11 * x1 + a12 * 0 + b1'
	// vn2 = a21 * x1 + a22 * 0 + b2'
	x = Vector{-cp1.normalMass * b.X, 0.0}
	vn2 = vc.K.Ex.Y*x.X + b.Y
	if x.X >= 0.0 && vn2 >= 0.0 {
		apply(x)
		return vA, wA, vB, wB
	}

	// Case 3: vn2 = 0 and x1 = 0
	//
	// vn1 = a11 * 0 + a12 * x2 + b1'
	//   0 = a21 * 0 + a22 * x2 + b2'
	x = Vector{0.0, -cp2.normalMass * b.Y}
	vn1 = vc.K.Ey.X*x.Y + b.X
	if x.Y >= 0.0 && vn1 >= 0.0 {
		apply(x)
		return vA, wA, vB, wB
	}

	// Case 4: x1 = 0 and x2 = 0
	//
	// vn1 = b1
	// vn2 = b2
	x = Vector{}
	vn1 = b.X
	vn2 = b.Y
	if vn1 >= 0.0 && vn2 >= 0.0 {
		apply(x)
		return vA, wA, vB, wB
	}

	// No solution, give up. This is hit sometimes, but it doesn't seem to
	// matter.
	return vA, wA, vB, wB
}

// storeImpulses copies the accumulated impulses back into the manifolds for
// warm starting the next step.
func (solver *contactSolver) storeImpulses() {
	for i := range solver.velocityConstraints {
		vc := &solver.velocityConstraints[i]
		manifold := &solver.contacts[vc.contactIndex].manifold

		for j := 0; j < vc.pointCount; j++ {
			manifold.Points[j].NormalImpulse = vc.points[j].normalImpulse
			manifold.Points[j].TangentImpulse = vc.points[j].tangentImpulse
		}
	}
}

// positionSolverManifold re-evaluates one manifold point from the current
// transforms.
func positionSolverManifold(pc *contactPositionConstraint, xfA, xfB Transform, index int) (normal, point Vector, separation float64) {
	assert(pc.pointCount > 0, "solving a contact without points")

	switch pc.typ {
	case ManifoldCircles:
		pointA := xfA.Point(pc.localPoint)
		pointB := xfB.Point(pc.localPoints[0])
		normal = pointB.Sub(pointA).Normalize()
		point = pointA.Add(pointB).Mult(0.5)
		separation = pointB.Sub(pointA).Dot(normal) - pc.radiusA - pc.radiusB

	case ManifoldFaceA:
		normal = xfA.Q.Rotate(pc.localNormal)
		planePoint := xfA.Point(pc.localPoint)

		clipPoint := xfB.Point(pc.localPoints[index])
		separation = clipPoint.Sub(planePoint).Dot(normal) - pc.radiusA - pc.radiusB
		point = clipPoint

	case ManifoldFaceB:
		normal = xfB.Q.Rotate(pc.localNormal)
		planePoint := xfB.Point(pc.localPoint)

		clipPoint := xfA.Point(pc.localPoints[index])
		separation = clipPoint.Sub(planePoint).Dot(normal) - pc.radiusA - pc.radiusB
		point = clipPoint

		// Ensure normal points from A to B
		normal = normal.Neg()
	}
	return
}

// solvePositionConstraints pushes overlapping shapes apart directly. It
// reports whether the worst overlap is within tolerance.
func (solver *contactSolver) solvePositionConstraints() bool {
	return solver.solvePosition(Baumgarte, -3.0*LinearSlop, func(pc *contactPositionConstraint) (float64, float64, float64, float64) {
		return pc.invMassA, pc.invIA, pc.invMassB, pc.invIB
	})
}

// solveTOIPositionConstraints is the sub-step variant: only the two bodies
// of the TOI event move, every other body acts as if it had infinite mass.
func (solver *contactSolver) solveTOIPositionConstraints(toiIndexA, toiIndexB int) bool {
	return solver.solvePosition(TOIBaumgarte, -1.5*LinearSlop, func(pc *contactPositionConstraint) (float64, float64, float64, float64) {
		var mA, iA, mB, iB float64
		if pc.indexA == toiIndexA || pc.indexA == toiIndexB {
			mA = pc.invMassA
			iA = pc.invIA
		}
		if pc.indexB == toiIndexA || pc.indexB == toiIndexB {
			mB = pc.invMassB
			iB = pc.invIB
		}
		return mA, iA, mB, iB
	})
}

func (solver *contactSolver) solvePosition(baumgarte, tolerance float64, masses func(*contactPositionConstraint) (float64, float64, float64, float64)) bool {
	minSeparation := 0.0

	for i := range solver.positionConstraints {
		pc := &solver.positionConstraints[i]

		indexA := pc.indexA
		indexB := pc.indexB
		localCenterA := pc.localCenterA
		localCenterB := pc.localCenterB
		mA, iA, mB, iB := masses(pc)

		cA := solver.positions[indexA].C
		aA := solver.positions[indexA].A

		cB := solver.positions[indexB].C
		aB := solver.positions[indexB].A

		// Solve normal constraints
		for j := 0; j < pc.pointCount; j++ {
			xfA := Transform{Q: NewRot(aA)}
			xfB := Transform{Q: NewRot(aB)}
			xfA.P = cA.Sub(xfA.Q.Rotate(localCenterA))
			xfB.P = cB.Sub(xfB.Q.Rotate(localCenterB))

			normal, point, separation := positionSolverManifold(pc, xfA, xfB, j)

			rA := point.Sub(cA)
			rB := point.Sub(cB)

			// Track max constraint error.
			minSeparation = math.Min(minSeparation, separation)

			// Prevent large corrections and allow slop.
			C := Clamp(baumgarte*(separation+LinearSlop), -MaxLinearCorrection, 0.0)

			// Compute the effective mass.
			rnA := rA.Cross(normal)
			rnB := rB.Cross(normal)
			K := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			// Compute normal impulse
			impulse := 0.0
			if K > 0.0 {
				impulse = -C / K
			}

			P := normal.Mult(impulse)

			cA = cA.Sub(P.Mult(mA))
			aA -= iA * rA.Cross(P)

			cB = cB.Add(P.Mult(mB))
			aB += iB * rB.Cross(P)
		}

		solver.positions[indexA] = position{cA, aA}
		solver.positions[indexB] = position{cB, aB}
	}

	// We can't expect minSeparation >= -LinearSlop because we don't push
	// the separation above -LinearSlop.
	return minSeparation >= tolerance
}
