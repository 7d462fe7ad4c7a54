package physics

// MouseJointDef requires a world target point, tuning parameters and the
// time step.
type MouseJointDef struct {
	JointDefBase

	// The initial world target point. This is assumed to coincide with the
	// body anchor initially.
	Target Vector

	// The maximum constraint force that can be exerted to move the
	// candidate body. Usually expressed as some multiple of the weight
	// (multiplier * mass * gravity).
	MaxForce float64

	// The response speed.
	FrequencyHz float64

	// The damping ratio. 0 = no damping, 1 = critical damping.
	DampingRatio float64
}

func NewMouseJointDef() *MouseJointDef {
	return &MouseJointDef{
		FrequencyHz:  5.0,
		DampingRatio: 0.7,
	}
}

func (def *MouseJointDef) Type() JointType {
	return MouseJointType
}

func (def *MouseJointDef) create() Joint {
	assert(def.Target.IsValid(), "invalid mouse target")
	assert(IsValid(def.MaxForce) && def.MaxForce >= 0.0, "invalid mouse max force")
	assert(IsValid(def.FrequencyHz) && def.FrequencyHz >= 0.0, "invalid mouse frequency")
	assert(IsValid(def.DampingRatio) && def.DampingRatio >= 0.0, "invalid mouse damping ratio")

	joint := &MouseJoint{
		jointBase:    newJointBase(MouseJointType, &def.JointDefBase),
		targetA:      def.Target,
		maxForce:     def.MaxForce,
		frequencyHz:  def.FrequencyHz,
		dampingRatio: def.DampingRatio,
	}
	joint.localAnchorB = joint.bodyB.xf.InvPoint(joint.targetA)
	return joint
}

// MouseJoint makes a point on bodyB track a world target. It is a soft
// constraint with a maximum force, so it stretches instead of applying
// huge forces. BodyA is only used as the graph anchor.
//
//	C = p - target
//	Cdot = v + cross(w, r)
//	J = [I r_skew]
type MouseJoint struct {
	jointBase

	localAnchorB Vector
	targetA      Vector
	frequencyHz  float64
	dampingRatio float64
	beta         float64

	// Solver shared
	impulse  Vector
	maxForce float64
	gamma    float64

	// Solver temp
	rB   Vector
	mass Mat22
	C    Vector
}

// AnchorA is the world target.
func (joint *MouseJoint) AnchorA() Vector {
	return joint.targetA
}

func (joint *MouseJoint) AnchorB() Vector {
	return joint.bodyB.WorldPoint(joint.localAnchorB)
}

func (joint *MouseJoint) ReactionForce(invDt float64) Vector {
	return joint.impulse.Mult(invDt)
}

func (joint *MouseJoint) ReactionTorque(invDt float64) float64 {
	return 0.0
}

// SetTarget moves the world target and wakes bodyB.
func (joint *MouseJoint) SetTarget(target Vector) {
	if target.Equal(joint.targetA) {
		return
	}
	if !joint.bodyB.IsAwake() {
		joint.bodyB.SetAwake(true)
	}
	joint.targetA = target
}

func (joint *MouseJoint) Target() Vector {
	return joint.targetA
}

func (joint *MouseJoint) SetMaxForce(force float64) {
	joint.maxForce = force
}

func (joint *MouseJoint) MaxForce() float64 {
	return joint.maxForce
}

func (joint *MouseJoint) SetFrequency(hz float64) {
	joint.frequencyHz = hz
}

func (joint *MouseJoint) Frequency() float64 {
	return joint.frequencyHz
}

func (joint *MouseJoint) SetDampingRatio(ratio float64) {
	joint.dampingRatio = ratio
}

func (joint *MouseJoint) DampingRatio() float64 {
	return joint.dampingRatio
}

func (joint *MouseJoint) ShiftOrigin(newOrigin Vector) {
	joint.targetA = joint.targetA.Sub(newOrigin)
}

func (joint *MouseJoint) initVelocityConstraints(data *SolverData) {
	joint.initSolverBodies()

	b := data.positions[joint.indexB]
	cB, aB := b.C, b.A
	vB := data.velocities[joint.indexB].V
	wB := data.velocities[joint.indexB].W

	qB := NewRot(aB)

	mass := joint.bodyB.Mass()

	// gamma has units of inverse mass.
	// beta has units of inverse time.
	joint.gamma, joint.beta = softConstraint(mass, joint.frequencyHz, joint.dampingRatio, data.Step.Dt)

	// Compute the effective mass matrix.
	joint.rB = qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))

	// K = [(1/m1 + 1/m2) * eye(2) - skew(r1) * invI1 * skew(r1) - skew(r2) * invI2 * skew(r2)]
	//   = [1/m1+1/m2     0    ] + invI1 * [r1.y*r1.y -r1.x*r1.y] + invI2 * [r1.y*r1.y -r1.x*r1.y]
	//     [    0     1/m1+1/m2]           [-r1.x*r1.y r1.x*r1.x]           [-r1.x*r1.y r1.x*r1.x]
	rB := joint.rB
	k11 := joint.invMassB + joint.invIB*rB.Y*rB.Y + joint.gamma
	k12 := -joint.invIB * rB.X * rB.Y
	k22 := joint.invMassB + joint.invIB*rB.X*rB.X + joint.gamma
	joint.mass = NewMat22(k11, k12, k12, k22).Inverse()

	joint.C = cB.Add(rB).Sub(joint.targetA).Mult(joint.beta)

	// Cheat with some damping
	wB *= 0.98

	if data.Step.WarmStarting {
		joint.impulse = joint.impulse.Mult(data.Step.DtRatio)
		vB = vB.Add(joint.impulse.Mult(joint.invMassB))
		wB += joint.invIB * rB.Cross(joint.impulse)
	} else {
		joint.impulse = Vector{}
	}

	data.velocities[joint.indexB] = velocity{vB, wB}
}

func (joint *MouseJoint) solveVelocityConstraints(data *SolverData) {
	vB := data.velocities[joint.indexB].V
	wB := data.velocities[joint.indexB].W

	// Cdot = v + cross(w, r)
	Cdot := vB.Add(CrossSV(wB, joint.rB))
	impulse := joint.mass.Transform(Cdot.Add(joint.C).Add(joint.impulse.Mult(joint.gamma)).Neg())

	oldImpulse := joint.impulse
	joint.impulse = joint.impulse.Add(impulse)
	maxImpulse := data.Step.Dt * joint.maxForce
	joint.impulse = joint.impulse.Clamp(maxImpulse)
	impulse = joint.impulse.Sub(oldImpulse)

	vB = vB.Add(impulse.Mult(joint.invMassB))
	wB += joint.invIB * joint.rB.Cross(impulse)

	data.velocities[joint.indexB] = velocity{vB, wB}
}

func (joint *MouseJoint) solvePositionConstraints(data *SolverData) bool {
	return true
}
