package physics

import "math"

// PulleyJointDef requires two ground anchors, two dynamic body anchor
// points, and a pulley ratio.
type PulleyJointDef struct {
	JointDefBase

	// The first ground anchor in world coordinates. This point never moves.
	GroundAnchorA Vector
	// The second ground anchor in world coordinates. This point never moves.
	GroundAnchorB Vector

	LocalAnchorA Vector
	LocalAnchorB Vector

	// The reference length for the segment attached to bodyA.
	LengthA float64
	// The reference length for the segment attached to bodyB.
	LengthB float64

	// The pulley ratio, used to simulate a block-and-tackle.
	Ratio float64
}

func NewPulleyJointDef() *PulleyJointDef {
	def := &PulleyJointDef{
		GroundAnchorA: Vector{-1, 1},
		GroundAnchorB: Vector{1, 1},
		LocalAnchorA:  Vector{-1, 0},
		LocalAnchorB:  Vector{1, 0},
		Ratio:         1.0,
	}
	def.CollideConnected = true
	return def
}

// Initialize sets the bodies, anchors, lengths and ratio from world
// ground anchors and world body anchors.
func (def *PulleyJointDef) Initialize(bodyA, bodyB *Body, groundA, groundB, anchorA, anchorB Vector, ratio float64) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.GroundAnchorA = groundA
	def.GroundAnchorB = groundB
	def.LocalAnchorA = bodyA.LocalPoint(anchorA)
	def.LocalAnchorB = bodyB.LocalPoint(anchorB)
	def.LengthA = anchorA.Distance(groundA)
	def.LengthB = anchorB.Distance(groundB)
	def.Ratio = ratio
	assert(def.Ratio > epsilon, "pulley ratio must be positive")
}

func (def *PulleyJointDef) Type() JointType {
	return PulleyJointType
}

func (def *PulleyJointDef) create() Joint {
	assert(def.Ratio != 0.0, "pulley ratio must be non-zero")
	return &PulleyJoint{
		jointBase:     newJointBase(PulleyJointType, &def.JointDefBase),
		groundAnchorA: def.GroundAnchorA,
		groundAnchorB: def.GroundAnchorB,
		localAnchorA:  def.LocalAnchorA,
		localAnchorB:  def.LocalAnchorB,
		lengthA:       def.LengthA,
		lengthB:       def.LengthB,
		ratio:         def.Ratio,
		constant:      def.LengthA + def.Ratio*def.LengthB,
	}
}

// PulleyJoint connects two bodies to ground and to each other so that
//
//	length1 + ratio * length2 <= constant
//
// The force transmitted is scaled by the ratio. A pulley is best combined
// with prismatic joints, and the connected bodies should not get too close
// to the ground anchors.
//
//	Cdot = -dot(u1, v1 + cross(w1, r1)) - ratio * dot(u2, v2 + cross(w2, r2))
//	J = -[u1 cross(r1, u1) ratio * u2  ratio * cross(r2, u2)]
//	K = J * invM * JT
//	  = invMass1 + invI1 * cross(r1, u1)^2 + ratio^2 * (invMass2 + invI2 * cross(r2, u2)^2)
type PulleyJoint struct {
	jointBase

	groundAnchorA Vector
	groundAnchorB Vector
	lengthA       float64
	lengthB       float64

	// Solver shared
	localAnchorA Vector
	localAnchorB Vector
	constant     float64
	ratio        float64
	impulse      float64

	// Solver temp
	uA, uB Vector
	rA, rB Vector
	mass   float64
}

func (joint *PulleyJoint) AnchorA() Vector {
	return joint.bodyA.WorldPoint(joint.localAnchorA)
}

func (joint *PulleyJoint) AnchorB() Vector {
	return joint.bodyB.WorldPoint(joint.localAnchorB)
}

func (joint *PulleyJoint) ReactionForce(invDt float64) Vector {
	return joint.uB.Mult(invDt * joint.impulse)
}

func (joint *PulleyJoint) ReactionTorque(invDt float64) float64 {
	return 0.0
}

func (joint *PulleyJoint) LocalAnchorA() Vector {
	return joint.localAnchorA
}

func (joint *PulleyJoint) LocalAnchorB() Vector {
	return joint.localAnchorB
}

func (joint *PulleyJoint) GroundAnchorA() Vector {
	return joint.groundAnchorA
}

func (joint *PulleyJoint) GroundAnchorB() Vector {
	return joint.groundAnchorB
}

// LengthA is the reference length of the segment attached to bodyA.
func (joint *PulleyJoint) LengthA() float64 {
	return joint.lengthA
}

func (joint *PulleyJoint) LengthB() float64 {
	return joint.lengthB
}

func (joint *PulleyJoint) Ratio() float64 {
	return joint.ratio
}

// CurrentLengthA is the current length of the segment attached to bodyA.
func (joint *PulleyJoint) CurrentLengthA() float64 {
	return joint.bodyA.WorldPoint(joint.localAnchorA).Distance(joint.groundAnchorA)
}

func (joint *PulleyJoint) CurrentLengthB() float64 {
	return joint.bodyB.WorldPoint(joint.localAnchorB).Distance(joint.groundAnchorB)
}

func (joint *PulleyJoint) ShiftOrigin(newOrigin Vector) {
	joint.groundAnchorA = joint.groundAnchorA.Sub(newOrigin)
	joint.groundAnchorB = joint.groundAnchorB.Sub(newOrigin)
}

// pulleyAxis returns the unit direction from ground to body anchor and the
// segment length. Short segments get a zero axis.
func pulleyAxis(anchor, ground Vector) (Vector, float64) {
	u := anchor.Sub(ground)
	length := u.Length()
	if length > 10.0*LinearSlop {
		return u.Mult(1.0 / length), length
	}
	return Vector{}, length
}

func (joint *PulleyJoint) initVelocityConstraints(data *SolverData) {
	joint.initSolverBodies()

	cA, aA, cB, aB := joint.loadPositions(data)
	vA, wA, vB, wB := joint.loadVelocities(data)

	qA, qB := NewRot(aA), NewRot(aB)

	joint.rA = qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	joint.rB = qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))

	// Get the pulley axes.
	joint.uA, _ = pulleyAxis(cA.Add(joint.rA), joint.groundAnchorA)
	joint.uB, _ = pulleyAxis(cB.Add(joint.rB), joint.groundAnchorB)

	// Compute effective mass.
	ruA := joint.rA.Cross(joint.uA)
	ruB := joint.rB.Cross(joint.uB)

	mA := joint.invMassA + joint.invIA*ruA*ruA
	mB := joint.invMassB + joint.invIB*ruB*ruB

	joint.mass = mA + joint.ratio*joint.ratio*mB
	if joint.mass > 0.0 {
		joint.mass = 1.0 / joint.mass
	}

	if data.Step.WarmStarting {
		// Scale impulses to support variable time steps.
		joint.impulse *= data.Step.DtRatio

		// Warm starting.
		PA := joint.uA.Mult(-joint.impulse)
		PB := joint.uB.Mult(-joint.ratio * joint.impulse)

		vA = vA.Add(PA.Mult(joint.invMassA))
		wA += joint.invIA * joint.rA.Cross(PA)
		vB = vB.Add(PB.Mult(joint.invMassB))
		wB += joint.invIB * joint.rB.Cross(PB)
	} else {
		joint.impulse = 0.0
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *PulleyJoint) solveVelocityConstraints(data *SolverData) {
	vA, wA, vB, wB := joint.loadVelocities(data)

	vpA := vA.Add(CrossSV(wA, joint.rA))
	vpB := vB.Add(CrossSV(wB, joint.rB))

	Cdot := -joint.uA.Dot(vpA) - joint.ratio*joint.uB.Dot(vpB)
	impulse := -joint.mass * Cdot
	joint.impulse += impulse

	PA := joint.uA.Mult(-impulse)
	PB := joint.uB.Mult(-joint.ratio * impulse)

	vA = vA.Add(PA.Mult(joint.invMassA))
	wA += joint.invIA * joint.rA.Cross(PA)
	vB = vB.Add(PB.Mult(joint.invMassB))
	wB += joint.invIB * joint.rB.Cross(PB)

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *PulleyJoint) solvePositionConstraints(data *SolverData) bool {
	cA, aA, cB, aB := joint.loadPositions(data)

	qA, qB := NewRot(aA), NewRot(aB)

	rA := qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	rB := qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))

	// Get the pulley axes.
	uA, lengthA := pulleyAxis(cA.Add(rA), joint.groundAnchorA)
	uB, lengthB := pulleyAxis(cB.Add(rB), joint.groundAnchorB)

	// Compute effective mass.
	ruA := rA.Cross(uA)
	ruB := rB.Cross(uB)

	mA := joint.invMassA + joint.invIA*ruA*ruA
	mB := joint.invMassB + joint.invIB*ruB*ruB

	mass := mA + joint.ratio*joint.ratio*mB
	if mass > 0.0 {
		mass = 1.0 / mass
	}

	C := joint.constant - lengthA - joint.ratio*lengthB
	linearError := math.Abs(C)

	impulse := -mass * C

	PA := uA.Mult(-impulse)
	PB := uB.Mult(-joint.ratio * impulse)

	cA = cA.Add(PA.Mult(joint.invMassA))
	aA += joint.invIA * rA.Cross(PA)
	cB = cB.Add(PB.Mult(joint.invMassB))
	aB += joint.invIB * rB.Cross(PB)

	joint.storePositions(data, cA, aA, cB, aB)

	return linearError < LinearSlop
}
