package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WeldJointDef requires two body anchor points and a reference angle.
// FrequencyHz softens the angular part of the weld; zero keeps it rigid.
type WeldJointDef struct {
	JointDefBase

	LocalAnchorA Vector
	LocalAnchorB Vector

	// The bodyB angle minus bodyA angle in the reference state.
	ReferenceAngle float64

	// The mass-spring-damper frequency in Hertz. Rotation only.
	FrequencyHz float64
	// The damping ratio. 0 = no damping, 1 = critical damping.
	DampingRatio float64
}

func NewWeldJointDef() *WeldJointDef {
	return &WeldJointDef{}
}

// Initialize sets the bodies, anchors and reference angle using a world
// anchor point.
func (def *WeldJointDef) Initialize(bodyA, bodyB *Body, anchor Vector) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = bodyA.LocalPoint(anchor)
	def.LocalAnchorB = bodyB.LocalPoint(anchor)
	def.ReferenceAngle = bodyB.Angle() - bodyA.Angle()
}

func (def *WeldJointDef) Type() JointType {
	return WeldJointType
}

func (def *WeldJointDef) create() Joint {
	return &WeldJoint{
		jointBase:      newJointBase(WeldJointType, &def.JointDefBase),
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		frequencyHz:    def.FrequencyHz,
		dampingRatio:   def.DampingRatio,
	}
}

// WeldJoint glues two bodies together. It removes all relative motion,
// though soft solving may let some flex through under load.
//
// Point-to-point constraint
//
//	C = p2 - p1
//	Cdot = v2 + cross(w2, r2) - v1 - cross(w1, r1)
//	J = [-I -r1_skew I r2_skew ]
//
// Angle constraint
//
//	C = angle2 - angle1 - referenceAngle
//	Cdot = w2 - w1
//	J = [0 0 -1 0 0 1]
type WeldJoint struct {
	jointBase

	frequencyHz  float64
	dampingRatio float64
	bias         float64

	// Solver shared
	localAnchorA   Vector
	localAnchorB   Vector
	referenceAngle float64
	gamma          float64
	impulse        mgl64.Vec3

	// Solver temp
	rA, rB Vector
	mass   Mat33
}

func (joint *WeldJoint) AnchorA() Vector {
	return joint.bodyA.WorldPoint(joint.localAnchorA)
}

func (joint *WeldJoint) AnchorB() Vector {
	return joint.bodyB.WorldPoint(joint.localAnchorB)
}

func (joint *WeldJoint) ReactionForce(invDt float64) Vector {
	return Vector{joint.impulse[0], joint.impulse[1]}.Mult(invDt)
}

func (joint *WeldJoint) ReactionTorque(invDt float64) float64 {
	return invDt * joint.impulse[2]
}

func (joint *WeldJoint) LocalAnchorA() Vector {
	return joint.localAnchorA
}

func (joint *WeldJoint) LocalAnchorB() Vector {
	return joint.localAnchorB
}

func (joint *WeldJoint) ReferenceAngle() float64 {
	return joint.referenceAngle
}

func (joint *WeldJoint) SetFrequency(hz float64) {
	joint.frequencyHz = hz
}

func (joint *WeldJoint) Frequency() float64 {
	return joint.frequencyHz
}

func (joint *WeldJoint) SetDampingRatio(ratio float64) {
	joint.dampingRatio = ratio
}

func (joint *WeldJoint) DampingRatio() float64 {
	return joint.dampingRatio
}

// pointAngleK is the effective mass of a point-to-point constraint coupled
// with an angle constraint.
//
//	K = [ mA+r1y^2*iA+mB+r2y^2*iB,  -r1y*iA*r1x-r2y*iB*r2x,          -r1y*iA-r2y*iB]
//	    [  -r1y*iA*r1x-r2y*iB*r2x, mA+r1x^2*iA+mB+r2x^2*iB,           r1x*iA+r2x*iB]
//	    [          -r1y*iA-r2y*iB,           r1x*iA+r2x*iB,                   iA+iB]
func pointAngleK(mA, mB, iA, iB float64, rA, rB Vector) Mat33 {
	var K Mat33
	K.Ex[0] = mA + mB + rA.Y*rA.Y*iA + rB.Y*rB.Y*iB
	K.Ey[0] = -rA.Y*rA.X*iA - rB.Y*rB.X*iB
	K.Ez[0] = -rA.Y*iA - rB.Y*iB
	K.Ex[1] = K.Ey[0]
	K.Ey[1] = mA + mB + rA.X*rA.X*iA + rB.X*rB.X*iB
	K.Ez[1] = rA.X*iA + rB.X*iB
	K.Ex[2] = K.Ez[0]
	K.Ey[2] = K.Ez[1]
	K.Ez[2] = iA + iB
	return K
}

func (joint *WeldJoint) initVelocityConstraints(data *SolverData) {
	joint.initSolverBodies()

	_, aA, _, aB := joint.loadPositions(data)
	vA, wA, vB, wB := joint.loadVelocities(data)

	qA, qB := NewRot(aA), NewRot(aB)

	joint.rA = qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	joint.rB = qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	K := pointAngleK(mA, mB, iA, iB, joint.rA, joint.rB)

	switch {
	case joint.frequencyHz > 0.0:
		joint.mass = K.Inverse22()

		invM := iA + iB
		m := 0.0
		if invM > 0.0 {
			m = 1.0 / invM
		}

		C := aB - aA - joint.referenceAngle

		var beta float64
		joint.gamma, beta = softConstraint(m, joint.frequencyHz, joint.dampingRatio, data.Step.Dt)
		joint.bias = C * beta

		invM += joint.gamma
		joint.mass.Ez[2] = 0.0
		if invM != 0.0 {
			joint.mass.Ez[2] = 1.0 / invM
		}
	case K.Ez[2] == 0.0:
		joint.mass = K.Inverse22()
		joint.gamma = 0.0
		joint.bias = 0.0
	default:
		joint.mass = K.SymInverse33()
		joint.gamma = 0.0
		joint.bias = 0.0
	}

	if data.Step.WarmStarting {
		// Scale impulses to support a variable time step.
		joint.impulse = joint.impulse.Mul(data.Step.DtRatio)

		P := Vector{joint.impulse[0], joint.impulse[1]}

		vA = vA.Sub(P.Mult(mA))
		wA -= iA * (joint.rA.Cross(P) + joint.impulse[2])

		vB = vB.Add(P.Mult(mB))
		wB += iB * (joint.rB.Cross(P) + joint.impulse[2])
	} else {
		joint.impulse = mgl64.Vec3{}
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *WeldJoint) solveVelocityConstraints(data *SolverData) {
	vA, wA, vB, wB := joint.loadVelocities(data)

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	if joint.frequencyHz > 0.0 {
		Cdot2 := wB - wA

		impulse2 := -joint.mass.Ez[2] * (Cdot2 + joint.bias + joint.gamma*joint.impulse[2])
		joint.impulse[2] += impulse2

		wA -= iA * impulse2
		wB += iB * impulse2

		Cdot1 := vB.Add(CrossSV(wB, joint.rB)).Sub(vA).Sub(CrossSV(wA, joint.rA))

		impulse1 := joint.mass.Mul22(Cdot1).Neg()
		joint.impulse[0] += impulse1.X
		joint.impulse[1] += impulse1.Y

		vA = vA.Sub(impulse1.Mult(mA))
		wA -= iA * joint.rA.Cross(impulse1)

		vB = vB.Add(impulse1.Mult(mB))
		wB += iB * joint.rB.Cross(impulse1)
	} else {
		Cdot1 := vB.Add(CrossSV(wB, joint.rB)).Sub(vA).Sub(CrossSV(wA, joint.rA))
		Cdot2 := wB - wA

		impulse := joint.mass.Mul(mgl64.Vec3{Cdot1.X, Cdot1.Y, Cdot2}).Mul(-1)
		joint.impulse = joint.impulse.Add(impulse)

		P := Vector{impulse[0], impulse[1]}

		vA = vA.Sub(P.Mult(mA))
		wA -= iA * (joint.rA.Cross(P) + impulse[2])

		vB = vB.Add(P.Mult(mB))
		wB += iB * (joint.rB.Cross(P) + impulse[2])
	}

	joint.storeVelocities(data, vA, wA, vB, wB)
}

func (joint *WeldJoint) solvePositionConstraints(data *SolverData) bool {
	cA, aA, cB, aB := joint.loadPositions(data)

	qA, qB := NewRot(aA), NewRot(aB)

	mA, mB := joint.invMassA, joint.invMassB
	iA, iB := joint.invIA, joint.invIB

	rA := qA.Rotate(joint.localAnchorA.Sub(joint.localCenterA))
	rB := qB.Rotate(joint.localAnchorB.Sub(joint.localCenterB))

	K := pointAngleK(mA, mB, iA, iB, rA, rB)

	C1 := cB.Add(rB).Sub(cA).Sub(rA)
	positionError := C1.Length()
	angularError := 0.0

	if joint.frequencyHz > 0.0 {
		P := K.Solve22(C1).Neg()

		cA = cA.Sub(P.Mult(mA))
		aA -= iA * rA.Cross(P)

		cB = cB.Add(P.Mult(mB))
		aB += iB * rB.Cross(P)
	} else {
		C2 := aB - aA - joint.referenceAngle
		angularError = math.Abs(C2)

		var impulse mgl64.Vec3
		if K.Ez[2] > 0.0 {
			impulse = K.Solve33(mgl64.Vec3{C1.X, C1.Y, C2}).Mul(-1)
		} else {
			impulse2 := K.Solve22(C1).Neg()
			impulse = mgl64.Vec3{impulse2.X, impulse2.Y, 0.0}
		}

		P := Vector{impulse[0], impulse[1]}

		cA = cA.Sub(P.Mult(mA))
		aA -= iA * (rA.Cross(P) + impulse[2])

		cB = cB.Add(P.Mult(mB))
		aB += iB * (rB.Cross(P) + impulse[2])
	}

	joint.storePositions(data, cA, aA, cB, aB)

	return positionError <= LinearSlop && angularError <= AngularSlop
}
