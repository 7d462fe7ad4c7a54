package physics

// FrictionJointDef holds the anchors and friction limits of a friction
// joint.
type FrictionJointDef struct {
	JointDefBase

	LocalAnchorA Vector
	LocalAnchorB Vector

	// The maximum friction force in N.
	MaxForce float64
	// The maximum friction torque in N-m.
	MaxTorque float64
}

func NewFrictionJointDef() *FrictionJointDef {
	return &FrictionJointDef{}
}

// Initialize sets the bodies and anchors using a world anchor point.
func (def *FrictionJointDef) Initialize(bodyA, bodyB *Body, anchor Vector) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = bodyA.LocalPoint(anchor)
	def.LocalAnchorB = bodyB.LocalPoint(anchor)
}

func (def *FrictionJointDef) Type() JointType {
	return FrictionJointType
}

func (def *FrictionJointDef) create() Joint {
	return &FrictionJoint{
		jointBase:    newJointBase(FrictionJointType, &def.JointDefBase),
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		maxForce:     def.MaxForce,
		maxTorque:    def.MaxTorque,
	}
}

// FrictionJoint is used for top-down friction. It provides 2D translational
// friction and angular friction.
//
//	Point-to-point constraint
//	Cdot = v2 - v1
//	     = v2 + cross(w2, r2) - v1 - cross(w1, r1)
//	J = [-I -r1_skew I r2_skew ]
//
//	Angle constraint
//	Cdot = w2 - w1
//	J = [0 0 -1 0 0 1]
type FrictionJoint struct {
	jointBase

	localAnchorA Vector
	localAnchorB Vector

	// Solver shared
	linearImpulse  Vector
	angularImpulse float64
	maxForce       float64
	maxTorque      float64

	// Solver temp
	rA, rB      Vector
	linearMass  Mat22
	angularMass float64
}

func (joint *FrictionJoint) AnchorA() Vector {
	return joint.bodyA.WorldPoint(joint.localAnchorA)
}

func (joint *FrictionJoint) AnchorB() Vector {
	return joint.bodyB.WorldPoint(joint.localAnchorB)
}

func (joint *FrictionJoint) ReactionForce(invDt float64) Vector {
	return joint.linearImpulse.Mult(invDt)
}

func (joint *FrictionJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.angularImpulse
}

func (joint *FrictionJoint) LocalAnchorA() Vector {
	return joint.localAnchorA
}

func (joint *FrictionJoint) LocalAnchorB() Vector {
	return joint.localAnchorB
}

func (joint *FrictionJoint) SetMaxForce(force float64) {
	assert(IsValid(force) && force >= 0.0, "invalid max force")
	joint.maxForce = force
}

func (joint *FrictionJoint) MaxForce() float64 {
	return joint.maxForce
}

func (joint *FrictionJoint) SetMaxTorque(torque float64) {
	assert(IsValid(torque) && torque >= 0.0, "invalid max torque")
	joint.maxTorque = torque
}

func (joint *FrictionJoint) MaxTorque() float64 {
	return joint.maxTorque
}

// pointK is the effective mass of a point-to-point constraint.
func pointK(mA, mB, iA, iB float64, rA, rB Vector) Mat22 {
	k11 := mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
	k12 := -iA*rA.X*rA.Y - iB*rB.X*rB.Y
	k22 := mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X
	return NewMat22(k11, k12, k12, k22)
}

func (joint *FrictionJoint) initVelocityConstraints(data *SolverData) {
	joint.initSolverBodies()

	_, aA, _, aB := joint.loadPositions(data)
	vA, wA, vB, wB := joint.loadVelocities(data)

	qA, qB := NewRot(aA), NewRot(aB)

	// Compute the effective mass matrix.
	joint.rA = qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	joint.rB = qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	joint.linearMass = pointK(mA, mB, iA, iB, joint.rA, joint.rB).Inverse()

	joint.angularMass = iA + iB
	if joint.angularMass > 0.0 {
		joint.angularMass = 1.0 / joint.angularMass
	}

	if data.Step.WarmStarting {
		// Scale impulses to support a variable time step.
		joint.linearImpulse = joint.linearImpulse.Mult(data.Step.DtRatio)
		joint.angularImpulse *= data.Step.DtRatio

		P := joint.linearImpulse
		vA = vA.Sub(P.Mult(mA))
		wA -= iA * (joint.rA.Cross(P) + joint.angularImpulse)
		vB = vB.Add(P.Mult(mB))
		wB += iB * (joint.rB.Cross(P) + joint.angularImpulse)
	} else {
		joint.linearImpulse = Vector{}
		joint.angularImpulse = 0.0
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *FrictionJoint) solveVelocityConstraints(data *SolverData) {
	vA, wA, vB, wB := joint.loadVelocities(data)

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	h := data.Step.Dt

	// Solve angular friction
	{
		Cdot := wB - wA
		impulse := -joint.angularMass * Cdot

		oldImpulse := joint.angularImpulse
		maxImpulse := h * joint.maxTorque
		joint.angularImpulse = Clamp(joint.angularImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.angularImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve linear friction
	{
		Cdot := vB.Add(CrossSV(wB, joint.rB)).Sub(vA).Sub(CrossSV(wA, joint.rA))

		impulse := joint.linearMass.Transform(Cdot).Neg()
		oldImpulse := joint.linearImpulse
		joint.linearImpulse = joint.linearImpulse.Add(impulse).Clamp(h * joint.maxForce)
		impulse = joint.linearImpulse.Sub(oldImpulse)

		vA = vA.Sub(impulse.Mult(mA))
		wA -= iA * joint.rA.Cross(impulse)

		vB = vB.Add(impulse.Mult(mB))
		wB += iB * joint.rB.Cross(impulse)
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *FrictionJoint) solvePositionConstraints(data *SolverData) bool {
	return true
}
