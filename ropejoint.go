package physics

// RopeJointDef requires two body anchor points and a maximum length.
type RopeJointDef struct {
	JointDefBase

	LocalAnchorA Vector
	LocalAnchorB Vector

	// The maximum length of the rope. It must be larger than LinearSlop or
	// the joint has no effect.
	MaxLength float64
}

func NewRopeJointDef() *RopeJointDef {
	return &RopeJointDef{
		LocalAnchorA: Vector{-1, 0},
		LocalAnchorB: Vector{1, 0},
	}
}

func (def *RopeJointDef) Type() JointType {
	return RopeJointType
}

func (def *RopeJointDef) create() Joint {
	return &RopeJoint{
		jointBase:    newJointBase(RopeJointType, &def.JointDefBase),
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		maxLength:    def.MaxLength,
		state:        inactiveLimit,
	}
}

// RopeJoint enforces a maximum distance between two points on two bodies.
// It has no other effect.
//
//	C = norm(pB - pA) - L
//	u = (pB - pA) / norm(pB - pA)
//	Cdot = dot(u, vB + cross(wB, rB) - vA - cross(wA, rA))
//	J = [-u -cross(rA, u) u cross(rB, u)]
//	K = J * invM * JT
//	  = invMassA + invIA * cross(rA, u)^2 + invMassB + invIB * cross(rB, u)^2
type RopeJoint struct {
	jointBase

	// Solver shared
	localAnchorA Vector
	localAnchorB Vector
	maxLength    float64
	length       float64
	impulse      float64

	// Solver temp
	u, rA, rB Vector
	mass      float64
	state     limitState
}

func (joint *RopeJoint) AnchorA() Vector {
	return joint.bodyA.WorldPoint(joint.localAnchorA)
}

func (joint *RopeJoint) AnchorB() Vector {
	return joint.bodyB.WorldPoint(joint.localAnchorB)
}

func (joint *RopeJoint) ReactionForce(invDt float64) Vector {
	return joint.u.Mult(invDt * joint.impulse)
}

func (joint *RopeJoint) ReactionTorque(invDt float64) float64 {
	return 0.0
}

func (joint *RopeJoint) LocalAnchorA() Vector {
	return joint.localAnchorA
}

func (joint *RopeJoint) LocalAnchorB() Vector {
	return joint.localAnchorB
}

func (joint *RopeJoint) SetMaxLength(length float64) {
	joint.maxLength = length
}

func (joint *RopeJoint) MaxLength() float64 {
	return joint.maxLength
}

// IsTaut reports whether the rope was taut during the last step.
func (joint *RopeJoint) IsTaut() bool {
	return joint.state == atUpperLimit
}

func (joint *RopeJoint) initVelocityConstraints(data *SolverData) {
	joint.initSolverBodies()

	cA, aA, cB, aB := joint.loadPositions(data)
	vA, wA, vB, wB := joint.loadVelocities(data)

	qA, qB := NewRot(aA), NewRot(aB)

	joint.rA = qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	joint.rB = qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))
	joint.u = cB.Add(joint.rB).Sub(cA).Sub(joint.rA)

	joint.length = joint.u.Length()

	C := joint.length - joint.maxLength
	if C > 0.0 {
		joint.state = atUpperLimit
	} else {
		joint.state = inactiveLimit
	}

	if joint.length > LinearSlop {
		joint.u = joint.u.Mult(1.0 / joint.length)
	} else {
		joint.u = Vector{}
		joint.mass = 0.0
		joint.impulse = 0.0
		return
	}

	// Compute effective mass.
	crA := joint.rA.Cross(joint.u)
	crB := joint.rB.Cross(joint.u)
	invMass := joint.invMassA + joint.invIA*crA*crA + joint.invMassB + joint.invIB*crB*crB

	joint.mass = 0.0
	if invMass != 0.0 {
		joint.mass = 1.0 / invMass
	}

	if data.Step.WarmStarting {
		// Scale the impulse to support a variable time step.
		joint.impulse *= data.Step.DtRatio

		P := joint.u.Mult(joint.impulse)
		vA = vA.Sub(P.Mult(joint.invMassA))
		wA -= joint.invIA * joint.rA.Cross(P)
		vB = vB.Add(P.Mult(joint.invMassB))
		wB += joint.invIB * joint.rB.Cross(P)
	} else {
		joint.impulse = 0.0
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *RopeJoint) solveVelocityConstraints(data *SolverData) {
	vA, wA, vB, wB := joint.loadVelocities(data)

	// Cdot = dot(u, v + cross(w, r))
	vpA := vA.Add(CrossSV(wA, joint.rA))
	vpB := vB.Add(CrossSV(wB, joint.rB))
	C := joint.length - joint.maxLength
	Cdot := joint.u.Dot(vpB.Sub(vpA))

	// Predictive constraint.
	if C < 0.0 {
		Cdot += data.Step.InvDt * C
	}

	impulse := -joint.mass * Cdot
	oldImpulse := joint.impulse
	joint.impulse = min(0.0, joint.impulse+impulse)
	impulse = joint.impulse - oldImpulse

	P := joint.u.Mult(impulse)
	vA = vA.Sub(P.Mult(joint.invMassA))
	wA -= joint.invIA * joint.rA.Cross(P)
	vB = vB.Add(P.Mult(joint.invMassB))
	wB += joint.invIB * joint.rB.Cross(P)

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *RopeJoint) solvePositionConstraints(data *SolverData) bool {
	cA, aA, cB, aB := joint.loadPositions(data)

	qA, qB := NewRot(aA), NewRot(aB)

	rA := qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	rB := qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))
	u, length := cB.Add(rB).Sub(cA).Sub(rA).NormalizeLength()

	C := Clamp(length-joint.maxLength, 0.0, MaxLinearCorrection)

	impulse := -joint.mass * C
	P := u.Mult(impulse)

	cA = cA.Sub(P.Mult(joint.invMassA))
	aA -= joint.invIA * rA.Cross(P)
	cB = cB.Add(P.Mult(joint.invMassB))
	aB += joint.invIB * rB.Cross(P)

	joint.storePositions(data, cA, aA, cB, aB)

	return length-joint.maxLength < LinearSlop
}
