package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RevoluteJointDef requires an anchor point where the bodies are joined.
// The definition uses local anchor points so that the initial
// configuration can violate the constraint slightly. It also requires a
// reference angle so that the joint angle is zero when the bodies line up
// as they did at creation. Angles are in radians.
type RevoluteJointDef struct {
	JointDefBase

	// The local anchor point relative to bodyA's origin.
	LocalAnchorA Vector
	// The local anchor point relative to bodyB's origin.
	LocalAnchorB Vector

	// The bodyB angle minus bodyA angle in the reference state.
	ReferenceAngle float64

	EnableLimit bool
	LowerAngle  float64
	UpperAngle  float64

	EnableMotor bool
	// The desired motor speed, usually in radians per second.
	MotorSpeed float64
	// The maximum motor torque used to achieve the desired motor speed,
	// usually in N-m.
	MaxMotorTorque float64
}

func NewRevoluteJointDef() *RevoluteJointDef {
	return &RevoluteJointDef{}
}

// Initialize sets the bodies, anchors and reference angle using a world
// anchor point.
func (def *RevoluteJointDef) Initialize(bodyA, bodyB *Body, anchor Vector) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = bodyA.LocalPoint(anchor)
	def.LocalAnchorB = bodyB.LocalPoint(anchor)
	def.ReferenceAngle = bodyB.Angle() - bodyA.Angle()
}

func (def *RevoluteJointDef) Type() JointType {
	return RevoluteJointType
}

func (def *RevoluteJointDef) create() Joint {
	return &RevoluteJoint{
		jointBase:      newJointBase(RevoluteJointType, &def.JointDefBase),
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		lowerAngle:     def.LowerAngle,
		upperAngle:     def.UpperAngle,
		maxMotorTorque: def.MaxMotorTorque,
		motorSpeed:     def.MotorSpeed,
		enableLimit:    def.EnableLimit,
		enableMotor:    def.EnableMotor,
		limitState:     inactiveLimit,
	}
}

// RevoluteJoint pins two bodies at a shared point, leaving one relative
// rotational degree of freedom. An optional limit restricts the relative
// angle and an optional motor drives it.
//
// Point-to-point constraint
//
//	C = p2 - p1
//	Cdot = v2 - v1
//	     = v2 + cross(w2, r2) - v1 - cross(w1, r1)
//	J = [-I -r1_skew I r2_skew ]
//
// Motor constraint
//
//	Cdot = w2 - w1
//	J = [0 0 -1 0 0 1]
//	K = invI1 + invI2
type RevoluteJoint struct {
	jointBase

	// Solver shared
	localAnchorA Vector
	localAnchorB Vector
	impulse      mgl64.Vec3
	motorImpulse float64

	enableMotor    bool
	maxMotorTorque float64
	motorSpeed     float64

	enableLimit    bool
	referenceAngle float64
	lowerAngle     float64
	upperAngle     float64

	// Solver temp
	rA, rB     Vector
	mass       Mat33   // effective mass for point-to-point constraint.
	motorMass  float64 // effective mass for motor/limit angular constraint.
	limitState limitState
}

func (joint *RevoluteJoint) AnchorA() Vector {
	return joint.bodyA.WorldPoint(joint.localAnchorA)
}

func (joint *RevoluteJoint) AnchorB() Vector {
	return joint.bodyB.WorldPoint(joint.localAnchorB)
}

func (joint *RevoluteJoint) ReactionForce(invDt float64) Vector {
	return Vector{joint.impulse[0], joint.impulse[1]}.Mult(invDt)
}

func (joint *RevoluteJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.impulse[2]
}

func (joint *RevoluteJoint) LocalAnchorA() Vector {
	return joint.localAnchorA
}

func (joint *RevoluteJoint) LocalAnchorB() Vector {
	return joint.localAnchorB
}

func (joint *RevoluteJoint) ReferenceAngle() float64 {
	return joint.referenceAngle
}

// JointAngle is the current joint angle in radians.
func (joint *RevoluteJoint) JointAngle() float64 {
	return joint.bodyB.sweep.A - joint.bodyA.sweep.A - joint.referenceAngle
}

// JointSpeed is the current joint angle speed in radians per second.
func (joint *RevoluteJoint) JointSpeed() float64 {
	return joint.bodyB.angularVelocity - joint.bodyA.angularVelocity
}

func (joint *RevoluteJoint) IsLimitEnabled() bool {
	return joint.enableLimit
}

func (joint *RevoluteJoint) EnableLimit(flag bool) {
	if flag != joint.enableLimit {
		joint.wakeBodies()
		joint.enableLimit = flag
		joint.impulse[2] = 0.0
	}
}

func (joint *RevoluteJoint) LowerLimit() float64 {
	return joint.lowerAngle
}

func (joint *RevoluteJoint) UpperLimit() float64 {
	return joint.upperAngle
}

func (joint *RevoluteJoint) SetLimits(lower, upper float64) {
	assert(lower <= upper, "lower limit above upper limit")
	if lower != joint.lowerAngle || upper != joint.upperAngle {
		joint.wakeBodies()
		joint.impulse[2] = 0.0
		joint.lowerAngle = lower
		joint.upperAngle = upper
	}
}

func (joint *RevoluteJoint) IsMotorEnabled() bool {
	return joint.enableMotor
}

func (joint *RevoluteJoint) EnableMotor(flag bool) {
	if flag != joint.enableMotor {
		joint.wakeBodies()
		joint.enableMotor = flag
	}
}

func (joint *RevoluteJoint) SetMotorSpeed(speed float64) {
	if speed != joint.motorSpeed {
		joint.wakeBodies()
		joint.motorSpeed = speed
	}
}

func (joint *RevoluteJoint) MotorSpeed() float64 {
	return joint.motorSpeed
}

func (joint *RevoluteJoint) SetMaxMotorTorque(torque float64) {
	if torque != joint.maxMotorTorque {
		joint.wakeBodies()
		joint.maxMotorTorque = torque
	}
}

func (joint *RevoluteJoint) MaxMotorTorque() float64 {
	return joint.maxMotorTorque
}

// MotorTorque is the current motor torque given the inverse time step.
func (joint *RevoluteJoint) MotorTorque(invDt float64) float64 {
	return invDt * joint.motorImpulse
}

func (joint *RevoluteJoint) initVelocityConstraints(data *SolverData) {
	joint.initSolverBodies()

	_, aA, _, aB := joint.loadPositions(data)
	vA, wA, vB, wB := joint.loadVelocities(data)

	qA, qB := NewRot(aA), NewRot(aB)

	joint.rA = qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	joint.rB = qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	fixedRotation := iA+iB == 0.0

	joint.mass = pointAngleK(mA, mB, iA, iB, joint.rA, joint.rB)

	joint.motorMass = iA + iB
	if joint.motorMass > 0.0 {
		joint.motorMass = 1.0 / joint.motorMass
	}

	if !joint.enableMotor || fixedRotation {
		joint.motorImpulse = 0.0
	}

	if joint.enableLimit && !fixedRotation {
		jointAngle := aB - aA - joint.referenceAngle
		switch {
		case math.Abs(joint.upperAngle-joint.lowerAngle) < 2.0*AngularSlop:
			joint.limitState = equalLimits
		case jointAngle <= joint.lowerAngle:
			if joint.limitState != atLowerLimit {
				joint.impulse[2] = 0.0
			}
			joint.limitState = atLowerLimit
		case jointAngle >= joint.upperAngle:
			if joint.limitState != atUpperLimit {
				joint.impulse[2] = 0.0
			}
			joint.limitState = atUpperLimit
		default:
			joint.limitState = inactiveLimit
			joint.impulse[2] = 0.0
		}
	} else {
		joint.limitState = inactiveLimit
	}

	if data.Step.WarmStarting {
		// Scale impulses to support a variable time step.
		joint.impulse = joint.impulse.Mul(data.Step.DtRatio)
		joint.motorImpulse *= data.Step.DtRatio

		P := Vector{joint.impulse[0], joint.impulse[1]}

		vA = vA.Sub(P.Mult(mA))
		wA -= iA * (joint.rA.Cross(P) + joint.motorImpulse + joint.impulse[2])

		vB = vB.Add(P.Mult(mB))
		wB += iB * (joint.rB.Cross(P) + joint.motorImpulse + joint.impulse[2])
	} else {
		joint.impulse = mgl64.Vec3{}
		joint.motorImpulse = 0.0
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *RevoluteJoint) solveVelocityConstraints(data *SolverData) {
	vA, wA, vB, wB := joint.loadVelocities(data)

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	fixedRotation := iA+iB == 0.0

	// Solve motor constraint.
	if joint.enableMotor && joint.limitState != equalLimits && !fixedRotation {
		Cdot := wB - wA - joint.motorSpeed
		impulse := -joint.motorMass * Cdot
		oldImpulse := joint.motorImpulse
		maxImpulse := data.Step.Dt * joint.maxMotorTorque
		joint.motorImpulse = Clamp(joint.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.motorImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve limit constraint.
	if joint.enableLimit && joint.limitState != inactiveLimit && !fixedRotation {
		Cdot1 := vB.Add(CrossSV(wB, joint.rB)).Sub(vA).Sub(CrossSV(wA, joint.rA))
		Cdot2 := wB - wA
		Cdot := mgl64.Vec3{Cdot1.X, Cdot1.Y, Cdot2}

		impulse := joint.mass.Solve33(Cdot).Mul(-1)

		switch joint.limitState {
		case equalLimits:
			joint.impulse = joint.impulse.Add(impulse)

		case atLowerLimit, atUpperLimit:
			newImpulse := joint.impulse[2] + impulse[2]
			if (joint.limitState == atLowerLimit && newImpulse < 0.0) ||
				(joint.limitState == atUpperLimit && newImpulse > 0.0) {
				rhs := Cdot1.Neg().Add(Vector{joint.mass.Ez[0], joint.mass.Ez[1]}.Mult(joint.impulse[2]))
				reduced := joint.mass.Solve22(rhs)
				impulse = mgl64.Vec3{reduced.X, reduced.Y, -joint.impulse[2]}
				joint.impulse[0] += reduced.X
				joint.impulse[1] += reduced.Y
				joint.impulse[2] = 0.0
			} else {
				joint.impulse = joint.impulse.Add(impulse)
			}
		}

		P := Vector{impulse[0], impulse[1]}

		vA = vA.Sub(P.Mult(mA))
		wA -= iA * (joint.rA.Cross(P) + impulse[2])

		vB = vB.Add(P.Mult(mB))
		wB += iB * (joint.rB.Cross(P) + impulse[2])
	} else {
		// Solve point-to-point constraint
		Cdot := vB.Add(CrossSV(wB, joint.rB)).Sub(vA).Sub(CrossSV(wA, joint.rA))
		impulse := joint.mass.Solve22(Cdot.Neg())

		joint.impulse[0] += impulse.X
		joint.impulse[1] += impulse.Y

		vA = vA.Sub(impulse.Mult(mA))
		wA -= iA * joint.rA.Cross(impulse)

		vB = vB.Add(impulse.Mult(mB))
		wB += iB * joint.rB.Cross(impulse)
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *RevoluteJoint) solvePositionConstraints(data *SolverData) bool {
	cA, aA, cB, aB := joint.loadPositions(data)

	angularError := 0.0
	positionError := 0.0

	fixedRotation := joint.invIA+joint.invIB == 0.0

	// Solve angular limit constraint.
	if joint.enableLimit && joint.limitState != inactiveLimit && !fixedRotation {
		angle := aB - aA - joint.referenceAngle
		limitImpulse := 0.0

		switch joint.limitState {
		case equalLimits:
			// Prevent large angular corrections
			C := Clamp(angle-joint.lowerAngle, -MaxAngularCorrection, MaxAngularCorrection)
			limitImpulse = -joint.motorMass * C
			angularError = math.Abs(C)
		case atLowerLimit:
			C := angle - joint.lowerAngle
			angularError = -C

			// Prevent large angular corrections and allow some slop.
			C = Clamp(C+AngularSlop, -MaxAngularCorrection, 0.0)
			limitImpulse = -joint.motorMass * C
		case atUpperLimit:
			C := angle - joint.upperAngle
			angularError = C

			// Prevent large angular corrections and allow some slop.
			C = Clamp(C-AngularSlop, 0.0, MaxAngularCorrection)
			limitImpulse = -joint.motorMass * C
		}

		aA -= joint.invIA * limitImpulse
		aB += joint.invIB * limitImpulse
	}

	// Solve point-to-point constraint.
	{
		qA, qB := NewRot(aA), NewRot(aB)
		rA := qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
		rB := qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))

		C := cB.Add(rB).Sub(cA).Sub(rA)
		positionError = C.Length()

		mA, mB := joint.invMassA, joint.invMassB
		iA, iB := joint.invIA, joint.invIB

		impulse := pointK(mA, mB, iA, iB, rA, rB).Solve(C).Neg()

		cA = cA.Sub(impulse.Mult(mA))
		aA -= iA * rA.Cross(impulse)

		cB = cB.Add(impulse.Mult(mB))
		aB += iB * rB.Cross(impulse)
	}

	joint.storePositions(data, cA, aA, cB, aB)

	return positionError <= LinearSlop && angularError <= AngularSlop
}
