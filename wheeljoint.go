package physics

import "math"

// WheelJointDef requires a line of motion defined by an axis and an anchor
// point. The definition uses local anchors and a local axis so that the
// initial configuration can violate the constraint slightly.
type WheelJointDef struct {
	JointDefBase

	LocalAnchorA Vector
	LocalAnchorB Vector

	// The local translation axis in bodyA.
	LocalAxisA Vector

	EnableMotor bool
	// The maximum motor torque, usually in N-m.
	MaxMotorTorque float64
	// The desired motor speed in radians per second.
	MotorSpeed float64

	// Suspension frequency, zero indicates no suspension.
	FrequencyHz float64
	// Suspension damping ratio, one indicates critical damping.
	DampingRatio float64
}

func NewWheelJointDef() *WheelJointDef {
	return &WheelJointDef{
		LocalAxisA:   Vector{1, 0},
		FrequencyHz:  2.0,
		DampingRatio: 0.7,
	}
}

// Initialize sets the bodies, anchors and axis using a world anchor point
// and a world axis.
func (def *WheelJointDef) Initialize(bodyA, bodyB *Body, anchor, axis Vector) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = bodyA.LocalPoint(anchor)
	def.LocalAnchorB = bodyB.LocalPoint(anchor)
	def.LocalAxisA = bodyA.LocalVector(axis)
}

func (def *WheelJointDef) Type() JointType {
	return WheelJointType
}

func (def *WheelJointDef) create() Joint {
	return &WheelJoint{
		jointBase:      newJointBase(WheelJointType, &def.JointDefBase),
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		localXAxisA:    def.LocalAxisA,
		localYAxisA:    CrossSV(1.0, def.LocalAxisA),
		maxMotorTorque: def.MaxMotorTorque,
		motorSpeed:     def.MotorSpeed,
		enableMotor:    def.EnableMotor,
		frequencyHz:    def.FrequencyHz,
		dampingRatio:   def.DampingRatio,
	}
}

// WheelJoint provides two degrees of freedom: translation along an axis
// fixed in bodyA and rotation in the plane. A line constraint with a
// rotational motor and a linear spring/damper models a vehicle suspension.
//
// Point to line constraint
//
//	C = dot(ay, d)
//	d = cB - cA + rB - rA
//	Cdot = dot(d, cross(wA, ay)) + dot(ay, vB + cross(wB, rB) - vA - cross(wA, rA))
//	J = [-ay, -cross(d + rA, ay), ay, cross(rB, ay)]
//
// Spring linear constraint
//
//	C = dot(ax, d)
//	J = [-ax -cross(d+rA, ax) ax cross(rB, ax)]
//
// Motor rotational constraint
//
//	Cdot = wB - wA
//	J = [0 0 -1 0 0 1]
type WheelJoint struct {
	jointBase

	frequencyHz  float64
	dampingRatio float64

	// Solver shared
	localAnchorA Vector
	localAnchorB Vector
	localXAxisA  Vector
	localYAxisA  Vector

	impulse       float64
	motorImpulse  float64
	springImpulse float64

	maxMotorTorque float64
	motorSpeed     float64
	enableMotor    bool

	// Solver temp
	ax, ay   Vector
	sAx, sBx float64
	sAy, sBy float64

	mass       float64
	motorMass  float64
	springMass float64

	bias  float64
	gamma float64
}

func (joint *WheelJoint) AnchorA() Vector {
	return joint.bodyA.WorldPoint(joint.localAnchorA)
}

func (joint *WheelJoint) AnchorB() Vector {
	return joint.bodyB.WorldPoint(joint.localAnchorB)
}

func (joint *WheelJoint) ReactionForce(invDt float64) Vector {
	return joint.ay.Mult(joint.impulse).Add(joint.ax.Mult(joint.springImpulse)).Mult(invDt)
}

func (joint *WheelJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.motorImpulse
}

func (joint *WheelJoint) LocalAnchorA() Vector {
	return joint.localAnchorA
}

func (joint *WheelJoint) LocalAnchorB() Vector {
	return joint.localAnchorB
}

func (joint *WheelJoint) LocalAxisA() Vector {
	return joint.localXAxisA
}

// JointTranslation is the current translation along the axis.
func (joint *WheelJoint) JointTranslation() float64 {
	pA := joint.bodyA.WorldPoint(joint.localAnchorA)
	pB := joint.bodyB.WorldPoint(joint.localAnchorB)
	axis := joint.bodyA.WorldVector(joint.localXAxisA)
	return pB.Sub(pA).Dot(axis)
}

func (joint *WheelJoint) JointLinearSpeed() float64 {
	bA, bB := joint.bodyA, joint.bodyB

	rA := bA.xf.Q.Rotate(joint.localAnchorA.Sub(bA.sweep.LocalCenter))
	rB := bB.xf.Q.Rotate(joint.localAnchorB.Sub(bB.sweep.LocalCenter))
	d := bB.sweep.C.Add(rB).Sub(bA.sweep.C.Add(rA))
	axis := bA.xf.Q.Rotate(joint.localXAxisA)

	vA, vB := bA.linearVelocity, bB.linearVelocity
	wA, wB := bA.angularVelocity, bB.angularVelocity

	rel := vB.Add(CrossSV(wB, rB)).Sub(vA).Sub(CrossSV(wA, rA))
	return d.Dot(CrossSV(wA, axis)) + axis.Dot(rel)
}

func (joint *WheelJoint) JointAngle() float64 {
	return joint.bodyB.sweep.A - joint.bodyA.sweep.A
}

func (joint *WheelJoint) JointAngularSpeed() float64 {
	return joint.bodyB.angularVelocity - joint.bodyA.angularVelocity
}

func (joint *WheelJoint) IsMotorEnabled() bool {
	return joint.enableMotor
}

func (joint *WheelJoint) EnableMotor(flag bool) {
	if flag != joint.enableMotor {
		joint.wakeBodies()
		joint.enableMotor = flag
	}
}

func (joint *WheelJoint) SetMotorSpeed(speed float64) {
	if speed != joint.motorSpeed {
		joint.wakeBodies()
		joint.motorSpeed = speed
	}
}

func (joint *WheelJoint) MotorSpeed() float64 {
	return joint.motorSpeed
}

func (joint *WheelJoint) SetMaxMotorTorque(torque float64) {
	if torque != joint.maxMotorTorque {
		joint.wakeBodies()
		joint.maxMotorTorque = torque
	}
}

func (joint *WheelJoint) MaxMotorTorque() float64 {
	return joint.maxMotorTorque
}

func (joint *WheelJoint) MotorTorque(invDt float64) float64 {
	return invDt * joint.motorImpulse
}

func (joint *WheelJoint) SetSpringFrequencyHz(hz float64) {
	joint.frequencyHz = hz
}

func (joint *WheelJoint) SpringFrequencyHz() float64 {
	return joint.frequencyHz
}

func (joint *WheelJoint) SetSpringDampingRatio(ratio float64) {
	joint.dampingRatio = ratio
}

func (joint *WheelJoint) SpringDampingRatio() float64 {
	return joint.dampingRatio
}

func (joint *WheelJoint) initVelocityConstraints(data *SolverData) {
	joint.initSolverBodies()

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	cA, aA, cB, aB := joint.loadPositions(data)
	vA, wA, vB, wB := joint.loadVelocities(data)

	qA, qB := NewRot(aA), NewRot(aB)

	// Compute the effective masses.
	rA := qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	rB := qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))
	d := cB.Add(rB).Sub(cA).Sub(rA)

	// Point to line constraint
	joint.ay = qA.Rotate(joint.localYAxisA)
	joint.sAy = d.Add(rA).Cross(joint.ay)
	joint.sBy = rB.Cross(joint.ay)

	joint.mass = mA + mB + iA*joint.sAy*joint.sAy + iB*joint.sBy*joint.sBy
	if joint.mass > 0.0 {
		joint.mass = 1.0 / joint.mass
	}

	// Spring constraint
	joint.springMass = 0.0
	joint.bias = 0.0
	joint.gamma = 0.0
	if joint.frequencyHz > 0.0 {
		joint.ax = qA.Rotate(joint.localXAxisA)
		joint.sAx = d.Add(rA).Cross(joint.ax)
		joint.sBx = rB.Cross(joint.ax)

		invMass := mA + mB + iA*joint.sAx*joint.sAx + iB*joint.sBx*joint.sBx
		if invMass > 0.0 {
			C := d.Dot(joint.ax)

			var beta float64
			joint.gamma, beta = softConstraint(1.0/invMass, joint.frequencyHz, joint.dampingRatio, data.Step.Dt)
			joint.bias = C * beta

			joint.springMass = invMass + joint.gamma
			if joint.springMass > 0.0 {
				joint.springMass = 1.0 / joint.springMass
			}
		}
	} else {
		joint.springImpulse = 0.0
	}

	// Rotational motor
	if joint.enableMotor {
		joint.motorMass = iA + iB
		if joint.motorMass > 0.0 {
			joint.motorMass = 1.0 / joint.motorMass
		}
	} else {
		joint.motorMass = 0.0
		joint.motorImpulse = 0.0
	}

	if data.Step.WarmStarting {
		// Account for variable time step.
		joint.impulse *= data.Step.DtRatio
		joint.springImpulse *= data.Step.DtRatio
		joint.motorImpulse *= data.Step.DtRatio

		P := joint.ay.Mult(joint.impulse).Add(joint.ax.Mult(joint.springImpulse))
		LA := joint.impulse*joint.sAy + joint.springImpulse*joint.sAx + joint.motorImpulse
		LB := joint.impulse*joint.sBy + joint.springImpulse*joint.sBx + joint.motorImpulse

		vA = vA.Sub(P.Mult(mA))
		wA -= iA * LA

		vB = vB.Add(P.Mult(mB))
		wB += iB * LB
	} else {
		joint.impulse = 0.0
		joint.springImpulse = 0.0
		joint.motorImpulse = 0.0
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *WheelJoint) solveVelocityConstraints(data *SolverData) {
	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	vA, wA, vB, wB := joint.loadVelocities(data)

	// Solve spring constraint
	{
		Cdot := joint.ax.Dot(vB.Sub(vA)) + joint.sBx*wB - joint.sAx*wA
		impulse := -joint.springMass * (Cdot + joint.bias + joint.gamma*joint.springImpulse)
		joint.springImpulse += impulse

		P := joint.ax.Mult(impulse)
		vA = vA.Sub(P.Mult(mA))
		wA -= iA * impulse * joint.sAx
		vB = vB.Add(P.Mult(mB))
		wB += iB * impulse * joint.sBx
	}

	// Solve rotational motor constraint
	{
		Cdot := wB - wA - joint.motorSpeed
		impulse := -joint.motorMass * Cdot

		oldImpulse := joint.motorImpulse
		maxImpulse := data.Step.Dt * joint.maxMotorTorque
		joint.motorImpulse = Clamp(joint.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.motorImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve point to line constraint
	{
		Cdot := joint.ay.Dot(vB.Sub(vA)) + joint.sBy*wB - joint.sAy*wA
		impulse := -joint.mass * Cdot
		joint.impulse += impulse

		P := joint.ay.Mult(impulse)
		vA = vA.Sub(P.Mult(mA))
		wA -= iA * impulse * joint.sAy
		vB = vB.Add(P.Mult(mB))
		wB += iB * impulse * joint.sBy
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *WheelJoint) solvePositionConstraints(data *SolverData) bool {
	cA, aA, cB, aB := joint.loadPositions(data)

	qA, qB := NewRot(aA), NewRot(aB)

	rA := qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	rB := qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))
	d := cB.Sub(cA).Add(rB).Sub(rA)

	ay := qA.Rotate(joint.localYAxisA)

	sAy := d.Add(rA).Cross(ay)
	sBy := rB.Cross(ay)

	C := d.Dot(ay)

	k := joint.invMassA + joint.invMassB + joint.invIA*sAy*sAy + joint.invIB*sBy*sBy

	impulse := 0.0
	if k != 0.0 {
		impulse = -C / k
	}

	P := ay.Mult(impulse)

	cA = cA.Sub(P.Mult(joint.invMassA))
	aA -= joint.invIA * impulse * sAy
	cB = cB.Add(P.Mult(joint.invMassB))
	aB += joint.invIB * impulse * sBy

	joint.storePositions(data, cA, aA, cB, aB)

	return math.Abs(C) <= LinearSlop
}
