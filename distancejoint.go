package physics

import "math"

// DistanceJointDef requires two anchor points on two bodies and the
// non-zero rest length of the distance constraint. Use Initialize to set
// the anchors from world points.
type DistanceJointDef struct {
	JointDefBase

	// The local anchor point relative to bodyA's origin.
	LocalAnchorA Vector
	// The local anchor point relative to bodyB's origin.
	LocalAnchorB Vector

	// The natural length between the anchor points.
	Length float64

	// The mass-spring-damper frequency in Hertz. A value of 0 disables
	// softness.
	FrequencyHz float64

	// The damping ratio. 0 = no damping, 1 = critical damping.
	DampingRatio float64
}

func NewDistanceJointDef() *DistanceJointDef {
	return &DistanceJointDef{Length: 1.0}
}

// Initialize sets the bodies, the anchors from world points and the length
// from the anchor distance.
func (def *DistanceJointDef) Initialize(bodyA, bodyB *Body, anchorA, anchorB Vector) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = bodyA.LocalPoint(anchorA)
	def.LocalAnchorB = bodyB.LocalPoint(anchorB)
	def.Length = anchorB.Sub(anchorA).Length()
}

func (def *DistanceJointDef) Type() JointType {
	return DistanceJointType
}

func (def *DistanceJointDef) create() Joint {
	return &DistanceJoint{
		jointBase:    newJointBase(DistanceJointType, &def.JointDefBase),
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		length:       def.Length,
		frequencyHz:  def.FrequencyHz,
		dampingRatio: def.DampingRatio,
	}
}

// DistanceJoint keeps two anchor points at a fixed distance, like a massless
// rigid rod. With a frequency it becomes a soft spring.
//
//	C = norm(p2 - p1) - L
//	u = (p2 - p1) / norm(p2 - p1)
//	Cdot = dot(u, v2 + cross(w2, r2) - v1 - cross(w1, r1))
//	J = [-u -cross(r1, u) u cross(r2, u)]
//	K = invMass1 + invI1 * cross(r1, u)^2 + invMass2 + invI2 * cross(r2, u)^2
type DistanceJoint struct {
	jointBase

	frequencyHz  float64
	dampingRatio float64
	bias         float64

	// Solver shared
	localAnchorA Vector
	localAnchorB Vector
	gamma        float64
	impulse      float64
	length       float64

	// Solver temp
	u, rA, rB Vector
	mass      float64
}

func (joint *DistanceJoint) AnchorA() Vector {
	return joint.bodyA.WorldPoint(joint.localAnchorA)
}

func (joint *DistanceJoint) AnchorB() Vector {
	return joint.bodyB.WorldPoint(joint.localAnchorB)
}

func (joint *DistanceJoint) ReactionForce(invDt float64) Vector {
	return joint.u.Mult(invDt * joint.impulse)
}

func (joint *DistanceJoint) ReactionTorque(invDt float64) float64 {
	return 0.0
}

func (joint *DistanceJoint) LocalAnchorA() Vector {
	return joint.localAnchorA
}

func (joint *DistanceJoint) LocalAnchorB() Vector {
	return joint.localAnchorB
}

func (joint *DistanceJoint) SetLength(length float64) {
	joint.length = length
}

func (joint *DistanceJoint) Length() float64 {
	return joint.length
}

func (joint *DistanceJoint) SetFrequency(hz float64) {
	joint.frequencyHz = hz
}

func (joint *DistanceJoint) Frequency() float64 {
	return joint.frequencyHz
}

func (joint *DistanceJoint) SetDampingRatio(ratio float64) {
	joint.dampingRatio = ratio
}

func (joint *DistanceJoint) DampingRatio() float64 {
	return joint.dampingRatio
}

func (joint *DistanceJoint) initVelocityConstraints(data *SolverData) {
	joint.initSolverBodies()

	cA, aA, cB, aB := joint.loadPositions(data)
	vA, wA, vB, wB := joint.loadVelocities(data)

	qA, qB := NewRot(aA), NewRot(aB)

	joint.rA = qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	joint.rB = qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))
	joint.u = cB.Add(joint.rB).Sub(cA).Sub(joint.rA)

	// Handle singularity.
	length := joint.u.Length()
	if length > LinearSlop {
		joint.u = joint.u.Mult(1.0 / length)
	} else {
		joint.u = Vector{}
	}

	crAu := joint.rA.Cross(joint.u)
	crBu := joint.rB.Cross(joint.u)
	invMass := joint.invMassA + joint.invIA*crAu*crAu + joint.invMassB + joint.invIB*crBu*crBu

	// Compute the effective mass matrix.
	joint.mass = 0
	if invMass != 0.0 {
		joint.mass = 1.0 / invMass
	}

	if joint.frequencyHz > 0.0 {
		C := length - joint.length

		var beta float64
		joint.gamma, beta = softConstraint(joint.mass, joint.frequencyHz, joint.dampingRatio, data.Step.Dt)
		joint.bias = C * beta

		invMass += joint.gamma
		joint.mass = 0
		if invMass != 0.0 {
			joint.mass = 1.0 / invMass
		}
	} else {
		joint.gamma = 0.0
		joint.bias = 0.0
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

func (joint *DistanceJoint) solveVelocityConstraints(data *SolverData) {
	vA, wA, vB, wB := joint.loadVelocities(data)

	// Cdot = dot(u, v + cross(w, r))
	vpA := vA.Add(CrossSV(wA, joint.rA))
	vpB := vB.Add(CrossSV(wB, joint.rB))
	Cdot := joint.u.Dot(vpB.Sub(vpA))

	impulse := -joint.mass * (Cdot + joint.bias + joint.gamma*joint.impulse)
	joint.impulse += impulse

	P := joint.u.Mult(impulse)
	vA = vA.Sub(P.Mult(joint.invMassA))
	wA -= joint.invIA * joint.rA.Cross(P)
	vB = vB.Add(P.Mult(joint.invMassB))
	wB += joint.invIB * joint.rB.Cross(P)

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *DistanceJoint) solvePositionConstraints(data *SolverData) bool {
	if joint.frequencyHz > 0.0 {
		// There is no position correction for soft distance constraints.
		return true
	}

	cA, aA, cB, aB := joint.loadPositions(data)

	qA, qB := NewRot(aA), NewRot(aB)

	rA := qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	rB := qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))
	u, length := cB.Add(rB).Sub(cA).Sub(rA).NormalizeLength()
	C := Clamp(length-joint.length, -MaxLinearCorrection, MaxLinearCorrection)

	impulse := -joint.mass * C
	P := u.Mult(impulse)

	cA = cA.Sub(P.Mult(joint.invMassA))
	aA -= joint.invIA * rA.Cross(P)
	cB = cB.Add(P.Mult(joint.invMassB))
	aB += joint.invIB * rB.Cross(P)

	joint.storePositions(data, cA, aA, cB, aB)

	return math.Abs(C) < LinearSlop
}
