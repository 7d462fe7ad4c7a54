package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PrismaticJointDef requires a line of motion defined by an axis and an
// anchor point. The definition uses local anchor points and a local axis so
// that the initial configuration can violate the constraint slightly. The
// joint translation is zero when the local anchor points coincide in world
// space.
type PrismaticJointDef struct {
	JointDefBase

	LocalAnchorA Vector
	LocalAnchorB Vector

	// The local translation unit axis in bodyA.
	LocalAxisA Vector

	// The constrained angle between the bodies: bodyB angle - bodyA angle.
	ReferenceAngle float64

	EnableLimit      bool
	LowerTranslation float64
	UpperTranslation float64

	EnableMotor bool
	// The maximum motor force, usually in N.
	MaxMotorForce float64
	// The desired motor speed in meters per second.
	MotorSpeed float64
}

func NewPrismaticJointDef() *PrismaticJointDef {
	return &PrismaticJointDef{LocalAxisA: Vector{1, 0}}
}

// Initialize sets the bodies, anchors, axis and reference angle using a
// world anchor point and a world axis.
func (def *PrismaticJointDef) Initialize(bodyA, bodyB *Body, anchor, axis Vector) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = bodyA.LocalPoint(anchor)
	def.LocalAnchorB = bodyB.LocalPoint(anchor)
	def.LocalAxisA = bodyA.LocalVector(axis)
	def.ReferenceAngle = bodyB.Angle() - bodyA.Angle()
}

func (def *PrismaticJointDef) Type() JointType {
	return PrismaticJointType
}

func (def *PrismaticJointDef) create() Joint {
	axis := def.LocalAxisA.Normalize()
	return &PrismaticJoint{
		jointBase:        newJointBase(PrismaticJointType, &def.JointDefBase),
		localAnchorA:     def.LocalAnchorA,
		localAnchorB:     def.LocalAnchorB,
		localXAxisA:      axis,
		localYAxisA:      CrossSV(1.0, axis),
		referenceAngle:   def.ReferenceAngle,
		lowerTranslation: def.LowerTranslation,
		upperTranslation: def.UpperTranslation,
		maxMotorForce:    def.MaxMotorForce,
		motorSpeed:       def.MotorSpeed,
		enableLimit:      def.EnableLimit,
		enableMotor:      def.EnableMotor,
		limitState:       inactiveLimit,
	}
}

// PrismaticJoint allows relative translation of two bodies along an axis
// fixed in bodyA and prevents relative rotation.
//
// Linear constraint (point-to-line)
//
//	d = p2 - p1 = x2 + r2 - x1 - r1
//	C = dot(perp, d)
//	Cdot = dot(d, cross(w1, perp)) + dot(perp, v2 + cross(w2, r2) - v1 - cross(w1, r1))
//	J = [-perp, -cross(d + r1, perp), perp, cross(r2,perp)]
//
// Angular constraint
//
//	C = a2 - a1 + a_initial
//	Cdot = w2 - w1
//	J = [0 0 -1 0 0 1]
//
// The motor and limit act along the axis with the same Jacobian shape as
// the linear constraint, using the axis in place of perp.
type PrismaticJoint struct {
	jointBase

	// Solver shared
	localAnchorA     Vector
	localAnchorB     Vector
	localXAxisA      Vector
	localYAxisA      Vector
	referenceAngle   float64
	impulse          mgl64.Vec3
	motorImpulse     float64
	lowerTranslation float64
	upperTranslation float64
	maxMotorForce    float64
	motorSpeed       float64
	enableLimit      bool
	enableMotor      bool
	limitState       limitState

	// Solver temp
	axis, perp Vector
	s1, s2     float64
	a1, a2     float64
	k          Mat33
	motorMass  float64
}

func (joint *PrismaticJoint) AnchorA() Vector {
	return joint.bodyA.WorldPoint(joint.localAnchorA)
}

func (joint *PrismaticJoint) AnchorB() Vector {
	return joint.bodyB.WorldPoint(joint.localAnchorB)
}

func (joint *PrismaticJoint) ReactionForce(invDt float64) Vector {
	return joint.perp.Mult(joint.impulse[0]).Add(joint.axis.Mult(joint.motorImpulse + joint.impulse[2])).Mult(invDt)
}

func (joint *PrismaticJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.impulse[1]
}

func (joint *PrismaticJoint) LocalAnchorA() Vector {
	return joint.localAnchorA
}

func (joint *PrismaticJoint) LocalAnchorB() Vector {
	return joint.localAnchorB
}

func (joint *PrismaticJoint) LocalAxisA() Vector {
	return joint.localXAxisA
}

func (joint *PrismaticJoint) ReferenceAngle() float64 {
	return joint.referenceAngle
}

// JointTranslation is the current translation along the axis.
func (joint *PrismaticJoint) JointTranslation() float64 {
	pA := joint.bodyA.WorldPoint(joint.localAnchorA)
	pB := joint.bodyB.WorldPoint(joint.localAnchorB)
	axis := joint.bodyA.WorldVector(joint.localXAxisA)
	return pB.Sub(pA).Dot(axis)
}

// JointSpeed is the current translation speed along the axis.
func (joint *PrismaticJoint) JointSpeed() float64 {
	bA, bB := joint.bodyA, joint.bodyB

	rA := bA.xf.Q.Rotate(joint.localAnchorA.Sub(bA.sweep.LocalCenter))
	rB := bB.xf.Q.Rotate(joint.localAnchorB.Sub(bB.sweep.LocalCenter))
	p1 := bA.sweep.C.Add(rA)
	p2 := bB.sweep.C.Add(rB)
	d := p2.Sub(p1)
	axis := bA.xf.Q.Rotate(joint.localXAxisA)

	vA, vB := bA.linearVelocity, bB.linearVelocity
	wA, wB := bA.angularVelocity, bB.angularVelocity

	rel := vB.Add(CrossSV(wB, rB)).Sub(vA).Sub(CrossSV(wA, rA))
	return d.Dot(CrossSV(wA, axis)) + axis.Dot(rel)
}

func (joint *PrismaticJoint) IsLimitEnabled() bool {
	return joint.enableLimit
}

func (joint *PrismaticJoint) EnableLimit(flag bool) {
	if flag != joint.enableLimit {
		joint.wakeBodies()
		joint.enableLimit = flag
		joint.impulse[2] = 0.0
	}
}

func (joint *PrismaticJoint) LowerLimit() float64 {
	return joint.lowerTranslation
}

func (joint *PrismaticJoint) UpperLimit() float64 {
	return joint.upperTranslation
}

func (joint *PrismaticJoint) SetLimits(lower, upper float64) {
	assert(lower <= upper, "lower limit above upper limit")
	if lower != joint.lowerTranslation || upper != joint.upperTranslation {
		joint.wakeBodies()
		joint.lowerTranslation = lower
		joint.upperTranslation = upper
		joint.impulse[2] = 0.0
	}
}

func (joint *PrismaticJoint) IsMotorEnabled() bool {
	return joint.enableMotor
}

func (joint *PrismaticJoint) EnableMotor(flag bool) {
	if flag != joint.enableMotor {
		joint.wakeBodies()
		joint.enableMotor = flag
	}
}

func (joint *PrismaticJoint) SetMotorSpeed(speed float64) {
	if speed != joint.motorSpeed {
		joint.wakeBodies()
		joint.motorSpeed = speed
	}
}

func (joint *PrismaticJoint) MotorSpeed() float64 {
	return joint.motorSpeed
}

func (joint *PrismaticJoint) SetMaxMotorForce(force float64) {
	if force != joint.maxMotorForce {
		joint.wakeBodies()
		joint.maxMotorForce = force
	}
}

func (joint *PrismaticJoint) MaxMotorForce() float64 {
	return joint.maxMotorForce
}

// MotorForce is the current motor force given the inverse time step.
func (joint *PrismaticJoint) MotorForce(invDt float64) float64 {
	return invDt * joint.motorImpulse
}

// prismaticK builds the 3x3 effective mass of the point-to-line, angular
// and axial rows.
func prismaticK(mA, mB, iA, iB, s1, s2, a1, a2 float64) Mat33 {
	k11 := mA + mB + iA*s1*s1 + iB*s2*s2
	k12 := iA*s1 + iB*s2
	k13 := iA*s1*a1 + iB*s2*a2
	k22 := iA + iB
	if k22 == 0.0 {
		// For bodies with fixed rotation.
		k22 = 1.0
	}
	k23 := iA*a1 + iB*a2
	k33 := mA + mB + iA*a1*a1 + iB*a2*a2

	return Mat33{
		Ex: mgl64.Vec3{k11, k12, k13},
		Ey: mgl64.Vec3{k12, k22, k23},
		Ez: mgl64.Vec3{k13, k23, k33},
	}
}

func (joint *PrismaticJoint) initVelocityConstraints(data *SolverData) {
	joint.initSolverBodies()

	cA, aA, cB, aB := joint.loadPositions(data)
	vA, wA, vB, wB := joint.loadVelocities(data)

	qA, qB := NewRot(aA), NewRot(aB)

	// Compute the effective masses.
	rA := qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	rB := qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))
	d := cB.Sub(cA).Add(rB).Sub(rA)

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	// Compute motor Jacobian and effective mass.
	joint.axis = qA.Rotate(joint.localXAxisA)
	joint.a1 = d.Add(rA).Cross(joint.axis)
	joint.a2 = rB.Cross(joint.axis)

	joint.motorMass = mA + mB + iA*joint.a1*joint.a1 + iB*joint.a2*joint.a2
	if joint.motorMass > 0.0 {
		joint.motorMass = 1.0 / joint.motorMass
	}

	// Prismatic constraint.
	joint.perp = qA.Rotate(joint.localYAxisA)
	joint.s1 = d.Add(rA).Cross(joint.perp)
	joint.s2 = rB.Cross(joint.perp)
	joint.k = prismaticK(mA, mB, iA, iB, joint.s1, joint.s2, joint.a1, joint.a2)

	// Compute motor and limit terms.
	if joint.enableLimit {
		jointTranslation := joint.axis.Dot(d)
		switch {
		case math.Abs(joint.upperTranslation-joint.lowerTranslation) < 2.0*LinearSlop:
			joint.limitState = equalLimits
		case jointTranslation <= joint.lowerTranslation:
			if joint.limitState != atLowerLimit {
				joint.limitState = atLowerLimit
				joint.impulse[2] = 0.0
			}
		case jointTranslation >= joint.upperTranslation:
			if joint.limitState != atUpperLimit {
				joint.limitState = atUpperLimit
				joint.impulse[2] = 0.0
			}
		default:
			joint.limitState = inactiveLimit
			joint.impulse[2] = 0.0
		}
	} else {
		joint.limitState = inactiveLimit
		joint.impulse[2] = 0.0
	}

	if !joint.enableMotor {
		joint.motorImpulse = 0.0
	}

	if data.Step.WarmStarting {
		// Account for variable time step.
		joint.impulse = joint.impulse.Mul(data.Step.DtRatio)
		joint.motorImpulse *= data.Step.DtRatio

		axial := joint.motorImpulse + joint.impulse[2]
		P := joint.perp.Mult(joint.impulse[0]).Add(joint.axis.Mult(axial))
		LA := joint.impulse[0]*joint.s1 + joint.impulse[1] + axial*joint.a1
		LB := joint.impulse[0]*joint.s2 + joint.impulse[1] + axial*joint.a2

		vA = vA.Sub(P.Mult(mA))
		wA -= iA * LA

		vB = vB.Add(P.Mult(mB))
		wB += iB * LB
	} else {
		joint.impulse = mgl64.Vec3{}
		joint.motorImpulse = 0.0
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *PrismaticJoint) solveVelocityConstraints(data *SolverData) {
	vA, wA, vB, wB := joint.loadVelocities(data)

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	// Solve linear motor constraint.
	if joint.enableMotor && joint.limitState != equalLimits {
		Cdot := joint.axis.Dot(vB.Sub(vA)) + joint.a2*wB - joint.a1*wA
		impulse := joint.motorMass * (joint.motorSpeed - Cdot)
		oldImpulse := joint.motorImpulse
		maxImpulse := data.Step.Dt * joint.maxMotorForce
		joint.motorImpulse = Clamp(joint.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.motorImpulse - oldImpulse

		P := joint.axis.Mult(impulse)
		LA := impulse * joint.a1
		LB := impulse * joint.a2

		vA = vA.Sub(P.Mult(mA))
		wA -= iA * LA

		vB = vB.Add(P.Mult(mB))
		wB += iB * LB
	}

	Cdot1 := Vector{
		joint.perp.Dot(vB.Sub(vA)) + joint.s2*wB - joint.s1*wA,
		wB - wA,
	}

	if joint.enableLimit && joint.limitState != inactiveLimit {
		// Solve prismatic and limit constraint in block form.
		Cdot2 := joint.axis.Dot(vB.Sub(vA)) + joint.a2*wB - joint.a1*wA
		Cdot := mgl64.Vec3{Cdot1.X, Cdot1.Y, Cdot2}

		f1 := joint.impulse
		df := joint.k.Solve33(Cdot.Mul(-1))
		joint.impulse = joint.impulse.Add(df)

		if joint.limitState == atLowerLimit {
			joint.impulse[2] = math.Max(joint.impulse[2], 0.0)
		} else if joint.limitState == atUpperLimit {
			joint.impulse[2] = math.Min(joint.impulse[2], 0.0)
		}

		// f2(1:2) = invK(1:2,1:2) * (-Cdot(1:2) - K(1:2,3) * (f2(3) - f1(3))) + f1(1:2)
		b := Cdot1.Neg().Sub(Vector{joint.k.Ez[0], joint.k.Ez[1]}.Mult(joint.impulse[2] - f1[2]))
		f2r := joint.k.Solve22(b).Add(Vector{f1[0], f1[1]})
		joint.impulse[0] = f2r.X
		joint.impulse[1] = f2r.Y

		df = joint.impulse.Sub(f1)

		P := joint.perp.Mult(df[0]).Add(joint.axis.Mult(df[2]))
		LA := df[0]*joint.s1 + df[1] + df[2]*joint.a1
		LB := df[0]*joint.s2 + df[1] + df[2]*joint.a2

		vA = vA.Sub(P.Mult(mA))
		wA -= iA * LA

		vB = vB.Add(P.Mult(mB))
		wB += iB * LB
	} else {
		// Limit is inactive, just solve the prismatic constraint in block form.
		df := joint.k.Solve22(Cdot1.Neg())
		joint.impulse[0] += df.X
		joint.impulse[1] += df.Y

		P := joint.perp.Mult(df.X)
		LA := df.X*joint.s1 + df.Y
		LB := df.X*joint.s2 + df.Y

		vA = vA.Sub(P.Mult(mA))
		wA -= iA * LA

		vB = vB.Add(P.Mult(mB))
		wB += iB * LB
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
}

// The position solver only copes with integration error, so its pseudo
// impulses have no physical meaning. The limit state is recomputed here
// since the joint may push past a limit the velocity solver saw as inactive.
func (joint *PrismaticJoint) solvePositionConstraints(data *SolverData) bool {
	cA, aA, cB, aB := joint.loadPositions(data)

	qA, qB := NewRot(aA), NewRot(aB)

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	// Compute fresh Jacobians
	rA := qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	rB := qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))
	d := cB.Add(rB).Sub(cA).Sub(rA)

	axis := qA.Rotate(joint.localXAxisA)
	a1 := d.Add(rA).Cross(axis)
	a2 := rB.Cross(axis)
	perp := qA.Rotate(joint.localYAxisA)

	s1 := d.Add(rA).Cross(perp)
	s2 := rB.Cross(perp)

	C1 := Vector{perp.Dot(d), aB - aA - joint.referenceAngle}

	linearError := math.Abs(C1.X)
	angularError := math.Abs(C1.Y)

	active := false
	C2 := 0.0
	if joint.enableLimit {
		translation := axis.Dot(d)
		switch {
		case math.Abs(joint.upperTranslation-joint.lowerTranslation) < 2.0*LinearSlop:
			// Prevent large angular corrections
			C2 = Clamp(translation, -MaxLinearCorrection, MaxLinearCorrection)
			linearError = math.Max(linearError, math.Abs(translation))
			active = true
		case translation <= joint.lowerTranslation:
			// Prevent large linear corrections and allow some slop.
			C2 = Clamp(translation-joint.lowerTranslation+LinearSlop, -MaxLinearCorrection, 0.0)
			linearError = math.Max(linearError, joint.lowerTranslation-translation)
			active = true
		case translation >= joint.upperTranslation:
			C2 = Clamp(translation-joint.upperTranslation-LinearSlop, 0.0, MaxLinearCorrection)
			linearError = math.Max(linearError, translation-joint.upperTranslation)
			active = true
		}
	}

	var impulse mgl64.Vec3
	K := prismaticK(mA, mB, iA, iB, s1, s2, a1, a2)
	if active {
		impulse = K.Solve33(mgl64.Vec3{-C1.X, -C1.Y, -C2})
	} else {
		impulse1 := K.Solve22(C1.Neg())
		impulse = mgl64.Vec3{impulse1.X, impulse1.Y, 0.0}
	}

	P := perp.Mult(impulse[0]).Add(axis.Mult(impulse[2]))
	LA := impulse[0]*s1 + impulse[1] + impulse[2]*a1
	LB := impulse[0]*s2 + impulse[1] + impulse[2]*a2

	cA = cA.Sub(P.Mult(mA))
	aA -= iA * LA
	cB = cB.Add(P.Mult(mB))
	aB += iB * LB

	joint.storePositions(data, cA, aA, cB, aB)

	return linearError <= LinearSlop && angularError <= AngularSlop
}
