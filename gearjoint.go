package physics

// GearJointDef requires two existing revolute or prismatic joints, in any
// combination. BodyA and BodyB are taken from the second body of each
// joint; the values in JointDefBase are ignored.
type GearJointDef struct {
	JointDefBase

	// The first revolute/prismatic joint attached to the gear joint.
	Joint1 Joint
	// The second revolute/prismatic joint attached to the gear joint.
	Joint2 Joint

	// The gear ratio.
	Ratio float64
}

func NewGearJointDef() *GearJointDef {
	return &GearJointDef{Ratio: 1.0}
}

func (def *GearJointDef) Type() JointType {
	return GearJointType
}

// Bodies reports the bodies the gear will connect, which are derived from
// the two joints.
func (def *GearJointDef) Bodies() (*Body, *Body) {
	if def.Joint1 == nil || def.Joint2 == nil {
		return nil, nil
	}
	return def.Joint1.BodyB(), def.Joint2.BodyB()
}

// gearSide is one of the two joints a gear couples: the moving body, the
// reference body the joint is attached to, and the joint coordinate frame.
type gearSide struct {
	typ            JointType
	local          Vector // anchor on the moving body
	localRef       Vector // anchor on the reference body
	localAxis      Vector // prismatic axis in the reference body frame
	referenceAngle float64
}

func newGearSide(j Joint) (gearSide, bool) {
	switch joint := j.(type) {
	case *RevoluteJoint:
		return gearSide{
			typ:            RevoluteJointType,
			local:          joint.localAnchorB,
			localRef:       joint.localAnchorA,
			referenceAngle: joint.referenceAngle,
		}, true
	case *PrismaticJoint:
		return gearSide{
			typ:            PrismaticJointType,
			local:          joint.localAnchorB,
			localRef:       joint.localAnchorA,
			localAxis:      joint.localXAxisA,
			referenceAngle: joint.referenceAngle,
		}, true
	}
	return gearSide{}, false
}

// coordinate is the joint angle or translation of the side given the
// moving body transform and the reference body transform.
func (s gearSide) coordinate(xf, xfRef Transform, a, aRef float64) float64 {
	if s.typ == RevoluteJointType {
		return a - aRef - s.referenceAngle
	}
	p := xfRef.Q.Unrotate(xf.Q.Rotate(s.local).Add(xf.P.Sub(xfRef.P)))
	return p.Sub(s.localRef).Dot(s.localAxis)
}

func (def *GearJointDef) create() Joint {
	if def.Joint1 == nil || def.Joint2 == nil {
		return nil
	}
	sideA, okA := newGearSide(def.Joint1)
	sideB, okB := newGearSide(def.Joint2)
	if !okA || !okB {
		return nil
	}

	joint := &GearJoint{
		jointBase: jointBase{
			typ:              GearJointType,
			collideConnected: def.CollideConnected,
			userData:         def.UserData,
		},
		joint1: def.Joint1,
		joint2: def.Joint2,
		sideA:  sideA,
		sideB:  sideB,
		ratio:  def.Ratio,
	}

	// Body A is connected to body C, body B to body D.
	joint.bodyC = def.Joint1.BodyA()
	joint.bodyA = def.Joint1.BodyB()
	joint.bodyD = def.Joint2.BodyA()
	joint.bodyB = def.Joint2.BodyB()

	coordinateA := sideA.coordinate(joint.bodyA.xf, joint.bodyC.xf, joint.bodyA.sweep.A, joint.bodyC.sweep.A)
	coordinateB := sideB.coordinate(joint.bodyB.xf, joint.bodyD.xf, joint.bodyB.sweep.A, joint.bodyD.sweep.A)
	joint.constant = coordinateA + joint.ratio*coordinateB

	return joint
}

// GearJoint connects two revolute or prismatic joints so that
//
//	coordinate1 + ratio * coordinate2 = constant
//
// The ratio can be negative or positive. Mixing a revolute and a prismatic
// joint gives the ratio units of length or 1/length. The gear must be
// destroyed before either of its joints.
//
//	Revolute: coordinate = rotation, J = [0 0 1], K = invI
//	Prismatic: coordinate = dot(p - pg, ug), J = [ug cross(r, ug)]
//	K = J1 * invM1 * J1T + ratio * ratio * J2 * invM2 * J2T
type GearJoint struct {
	jointBase

	joint1, joint2 Joint
	sideA, sideB   gearSide

	// Body A is connected to body C
	// Body B is connected to body D
	bodyC, bodyD *Body

	constant float64
	ratio    float64
	impulse  float64

	// Solver temp
	indexC, indexD int
	lcC, lcD       Vector
	mC, mD         float64
	iC, iD         float64
	JvAC, JvBD     Vector
	JwA, JwB       float64
	JwC, JwD       float64
	mass           float64
}

func (joint *GearJoint) AnchorA() Vector {
	return joint.bodyA.WorldPoint(joint.sideA.local)
}

func (joint *GearJoint) AnchorB() Vector {
	return joint.bodyB.WorldPoint(joint.sideB.local)
}

func (joint *GearJoint) ReactionForce(invDt float64) Vector {
	return joint.JvAC.Mult(invDt * joint.impulse)
}

func (joint *GearJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.impulse * joint.JwA
}

func (joint *GearJoint) Joint1() Joint {
	return joint.joint1
}

func (joint *GearJoint) Joint2() Joint {
	return joint.joint2
}

func (joint *GearJoint) SetRatio(ratio float64) {
	assert(IsValid(ratio), "invalid gear ratio")
	joint.ratio = ratio
}

func (joint *GearJoint) Ratio() float64 {
	return joint.ratio
}

// jacobian computes one side of the gear Jacobian and its contribution to
// the effective mass. scale is 1 for side A and the ratio for side B.
func (s gearSide) jacobian(qA, qC Rot, lcA, lcC Vector, mA, mC, iA, iC, scale float64) (Jv Vector, JwA, JwC, mass float64) {
	if s.typ == RevoluteJointType {
		return Vector{}, scale, scale, scale * scale * (iA + iC)
	}
	u := qC.Rotate(s.localAxis)
	rC := qC.Rotate(s.localRef.Sub(lcC))
	rA := qA.Rotate(s.local.Sub(lcA))
	Jv = u.Mult(scale)
	JwC = scale * rC.Cross(u)
	JwA = scale * rA.Cross(u)
	mass = scale*scale*(mC+mA) + iC*JwC*JwC + iA*JwA*JwA
	return
}

func (joint *GearJoint) initVelocityConstraints(data *SolverData) {
	joint.initSolverBodies()
	joint.indexC = joint.bodyC.islandIndex
	joint.indexD = joint.bodyD.islandIndex
	joint.lcC = joint.bodyC.sweep.LocalCenter
	joint.lcD = joint.bodyD.sweep.LocalCenter
	joint.mC = joint.bodyC.invMass
	joint.mD = joint.bodyD.invMass
	joint.iC = joint.bodyC.invI
	joint.iD = joint.bodyD.invI

	_, aA, _, aB := joint.loadPositions(data)
	vA, wA, vB, wB := joint.loadVelocities(data)
	aC := data.positions[joint.indexC].A
	aD := data.positions[joint.indexD].A
	vC, wC := data.velocities[joint.indexC].V, data.velocities[joint.indexC].W
	vD, wD := data.velocities[joint.indexD].V, data.velocities[joint.indexD].W

	qA, qB, qC, qD := NewRot(aA), NewRot(aB), NewRot(aC), NewRot(aD)

	var massA, massB float64
	joint.JvAC, joint.JwA, joint.JwC, massA = joint.sideA.jacobian(qA, qC, joint.localCenterA, joint.lcC,
		joint.invMassA, joint.mC, joint.invIA, joint.iC, 1.0)
	joint.JvBD, joint.JwB, joint.JwD, massB = joint.sideB.jacobian(qB, qD, joint.localCenterB, joint.lcD,
		joint.invMassB, joint.mD, joint.invIB, joint.iD, joint.ratio)

	// Compute effective mass.
	joint.mass = massA + massB
	if joint.mass > 0.0 {
		joint.mass = 1.0 / joint.mass
	} else {
		joint.mass = 0.0
	}

	if data.Step.WarmStarting {
		joint.impulse *= data.Step.DtRatio

		vA = vA.Add(joint.JvAC.Mult(joint.invMassA * joint.impulse))
		wA += joint.invIA * joint.impulse * joint.JwA
		vB = vB.Add(joint.JvBD.Mult(joint.invMassB * joint.impulse))
		wB += joint.invIB * joint.impulse * joint.JwB
		vC = vC.Sub(joint.JvAC.Mult(joint.mC * joint.impulse))
		wC -= joint.iC * joint.impulse * joint.JwC
		vD = vD.Sub(joint.JvBD.Mult(joint.mD * joint.impulse))
		wD -= joint.iD * joint.impulse * joint.JwD
	} else {
		joint.impulse = 0.0
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
	data.velocities[joint.indexC] = velocity{vC, wC}
	data.velocities[joint.indexD] = velocity{vD, wD}
}

func (joint *GearJoint) solveVelocityConstraints(data *SolverData) {
	vA, wA, vB, wB := joint.loadVelocities(data)
	vC, wC := data.velocities[joint.indexC].V, data.velocities[joint.indexC].W
	vD, wD := data.velocities[joint.indexD].V, data.velocities[joint.indexD].W

	Cdot := joint.JvAC.Dot(vA.Sub(vC)) + joint.JvBD.Dot(vB.Sub(vD))
	Cdot += (joint.JwA*wA - joint.JwC*wC) + (joint.JwB*wB - joint.JwD*wD)

	impulse := -joint.mass * Cdot
	joint.impulse += impulse

	vA = vA.Add(joint.JvAC.Mult(joint.invMassA * impulse))
	wA += joint.invIA * impulse * joint.JwA
	vB = vB.Add(joint.JvBD.Mult(joint.invMassB * impulse))
	wB += joint.invIB * impulse * joint.JwB
	vC = vC.Sub(joint.JvAC.Mult(joint.mC * impulse))
	wC -= joint.iC * impulse * joint.JwC
	vD = vD.Sub(joint.JvBD.Mult(joint.mD * impulse))
	wD -= joint.iD * impulse * joint.JwD

	joint.storeVelocities(data, vA, wA, vB, wB)
	data.velocities[joint.indexC] = velocity{vC, wC}
	data.velocities[joint.indexD] = velocity{vD, wD}
}

func (joint *GearJoint) solvePositionConstraints(data *SolverData) bool {
	cA, aA, cB, aB := joint.loadPositions(data)
	cC, aC := data.positions[joint.indexC].C, data.positions[joint.indexC].A
	cD, aD := data.positions[joint.indexD].C, data.positions[joint.indexD].A

	qA, qB, qC, qD := NewRot(aA), NewRot(aB), NewRot(aC), NewRot(aD)

	JvAC, JwA, JwC, massA := joint.sideA.jacobian(qA, qC, joint.localCenterA, joint.lcC,
		joint.invMassA, joint.mC, joint.invIA, joint.iC, 1.0)
	JvBD, JwB, JwD, massB := joint.sideB.jacobian(qB, qD, joint.localCenterB, joint.lcD,
		joint.invMassB, joint.mD, joint.invIB, joint.iD, joint.ratio)
	mass := massA + massB

	coordinateA := joint.sideA.centerCoordinate(qA, qC, cA, cC, aA, aC, joint.localCenterA, joint.lcC)
	coordinateB := joint.sideB.centerCoordinate(qB, qD, cB, cD, aB, aD, joint.localCenterB, joint.lcD)

	C := (coordinateA + joint.ratio*coordinateB) - joint.constant

	impulse := 0.0
	if mass > 0.0 {
		impulse = -C / mass
	}

	cA = cA.Add(JvAC.Mult(joint.invMassA * impulse))
	aA += joint.invIA * impulse * JwA
	cB = cB.Add(JvBD.Mult(joint.invMassB * impulse))
	aB += joint.invIB * impulse * JwB
	cC = cC.Sub(JvAC.Mult(joint.mC * impulse))
	aC -= joint.iC * impulse * JwC
	cD = cD.Sub(JvBD.Mult(joint.mD * impulse))
	aD -= joint.iD * impulse * JwD

	joint.storePositions(data, cA, aA, cB, aB)
	data.positions[joint.indexC] = position{cC, aC}
	data.positions[joint.indexD] = position{cD, aD}

	// The gear error is not measured.
	return true
}

// centerCoordinate is the joint coordinate computed from mass center
// positions, as held by the position solver.
func (s gearSide) centerCoordinate(q, qRef Rot, c, cRef Vector, a, aRef float64, lc, lcRef Vector) float64 {
	if s.typ == RevoluteJointType {
		return a - aRef - s.referenceAngle
	}
	r := q.Rotate(s.local.Sub(lc))
	pRef := s.localRef.Sub(lcRef)
	p := qRef.Unrotate(r.Add(c.Sub(cRef)))
	return p.Sub(pRef).Dot(s.localAxis)
}
