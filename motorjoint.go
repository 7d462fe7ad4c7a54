package physics

// MotorJointDef holds the target offsets and limits of a motor joint.
type MotorJointDef struct {
	JointDefBase

	// Position of bodyB minus the position of bodyA, in bodyA's frame.
	LinearOffset Vector

	// The bodyB angle minus bodyA angle.
	AngularOffset float64

	// The maximum motor force in N.
	MaxForce float64
	// The maximum motor torque in N-m.
	MaxTorque float64

	// Position correction factor in the range [0,1].
	CorrectionFactor float64
}

func NewMotorJointDef() *MotorJointDef {
	return &MotorJointDef{
		MaxForce:         1.0,
		MaxTorque:        1.0,
		CorrectionFactor: 0.3,
	}
}

// Initialize sets the bodies and takes the offsets from their current
// positions.
func (def *MotorJointDef) Initialize(bodyA, bodyB *Body) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LinearOffset = bodyA.LocalPoint(bodyB.Position())
	def.AngularOffset = bodyB.Angle() - bodyA.Angle()
}

func (def *MotorJointDef) Type() JointType {
	return MotorJointType
}

func (def *MotorJointDef) create() Joint {
	return &MotorJoint{
		jointBase:        newJointBase(MotorJointType, &def.JointDefBase),
		linearOffset:     def.LinearOffset,
		angularOffset:    def.AngularOffset,
		maxForce:         def.MaxForce,
		maxTorque:        def.MaxTorque,
		correctionFactor: def.CorrectionFactor,
	}
}

// MotorJoint controls the relative motion between two bodies, typically a
// dynamic body driven relative to the ground. It pushes bodyB towards the
// target offsets with bounded force and torque.
//
//	Point-to-point constraint
//	Cdot = v2 - v1
//	     = v2 + cross(w2, r2) - v1 - cross(w1, r1)
//	J = [-I -r1_skew I r2_skew ]
//
//	Angle constraint
//	Cdot = w2 - w1
//	J = [0 0 -1 0 0 1]
type MotorJoint struct {
	jointBase

	// Solver shared
	linearOffset     Vector
	angularOffset    float64
	linearImpulse    Vector
	angularImpulse   float64
	maxForce         float64
	maxTorque        float64
	correctionFactor float64

	// Solver temp
	rA, rB       Vector
	linearError  Vector
	angularError float64
	linearMass   Mat22
	angularMass  float64
}

func (joint *MotorJoint) AnchorA() Vector {
	return joint.bodyA.Position()
}

func (joint *MotorJoint) AnchorB() Vector {
	return joint.bodyB.Position()
}

func (joint *MotorJoint) ReactionForce(invDt float64) Vector {
	return joint.linearImpulse.Mult(invDt)
}

func (joint *MotorJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.angularImpulse
}

func (joint *MotorJoint) SetLinearOffset(offset Vector) {
	if !offset.Equal(joint.linearOffset) {
		joint.wakeBodies()
		joint.linearOffset = offset
	}
}

func (joint *MotorJoint) LinearOffset() Vector {
	return joint.linearOffset
}

func (joint *MotorJoint) SetAngularOffset(offset float64) {
	if offset != joint.angularOffset {
		joint.wakeBodies()
		joint.angularOffset = offset
	}
}

func (joint *MotorJoint) AngularOffset() float64 {
	return joint.angularOffset
}

func (joint *MotorJoint) SetMaxForce(force float64) {
	assert(IsValid(force) && force >= 0.0, "invalid max force")
	joint.maxForce = force
}

func (joint *MotorJoint) MaxForce() float64 {
	return joint.maxForce
}

func (joint *MotorJoint) SetMaxTorque(torque float64) {
	assert(IsValid(torque) && torque >= 0.0, "invalid max torque")
	joint.maxTorque = torque
}

func (joint *MotorJoint) MaxTorque() float64 {
	return joint.maxTorque
}

func (joint *MotorJoint) SetCorrectionFactor(factor float64) {
	assert(IsValid(factor) && 0.0 <= factor && factor <= 1.0, "correction factor out of range")
	joint.correctionFactor = factor
}

func (joint *MotorJoint) CorrectionFactor() float64 {
	return joint.correctionFactor
}

func (joint *MotorJoint) initVelocityConstraints(data *SolverData) {
	joint.initSolverBodies()

	cA, aA, cB, aB := joint.loadPositions(data)
	vA, wA, vB, wB := joint.loadVelocities(data)

	qA, qB := NewRot(aA), NewRot(aB)

	// Compute the effective mass matrix.
	joint.rA = qA.Rotate(joint.localCenterA.Neg())
	joint.rB = qB.Rotate(joint.localCenterB.Neg())

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	joint.linearMass = pointK(mA, mB, iA, iB, joint.rA, joint.rB).Inverse()

	joint.angularMass = iA + iB
	if joint.angularMass > 0.0 {
		joint.angularMass = 1.0 / joint.angularMass
	}

	joint.linearError = cB.Add(joint.rB).Sub(cA).Sub(joint.rA).Sub(qA.Rotate(joint.linearOffset))
	joint.angularError = aB - aA - joint.angularOffset

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

func (joint *MotorJoint) solveVelocityConstraints(data *SolverData) {
	vA, wA, vB, wB := joint.loadVelocities(data)

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	h := data.Step.Dt
	invH := data.Step.InvDt

	// Solve angular friction
	{
		Cdot := wB - wA + invH*joint.correctionFactor*joint.angularError
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
		Cdot := vB.Add(CrossSV(wB, joint.rB)).Sub(vA).Sub(CrossSV(wA, joint.rA)).
			Add(joint.linearError.Mult(invH * joint.correctionFactor))

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

func (joint *MotorJoint) solvePositionConstraints(data *SolverData) bool {
	return true
}
