package physics

import (
	"fmt"
	"math"
)

// JointType tags the closed set of joint kinds.
type JointType uint8

const (
	UnknownJoint JointType = iota
	RevoluteJointType
	PrismaticJointType
	DistanceJointType
	PulleyJointType
	MouseJointType
	GearJointType
	WheelJointType
	WeldJointType
	FrictionJointType
	RopeJointType
	MotorJointType
)

var jointTypeNames = [...]string{
	UnknownJoint:       "unknown",
	RevoluteJointType:  "revolute",
	PrismaticJointType: "prismatic",
	DistanceJointType:  "distance",
	PulleyJointType:    "pulley",
	MouseJointType:     "mouse",
	GearJointType:      "gear",
	WheelJointType:     "wheel",
	WeldJointType:      "weld",
	FrictionJointType:  "friction",
	RopeJointType:      "rope",
	MotorJointType:     "motor",
}

func (t JointType) String() string {
	if int(t) < len(jointTypeNames) {
		return jointTypeNames[t]
	}
	return fmt.Sprintf("JointType(%d)", uint8(t))
}

// ParseJointType is the inverse of JointType.String.
func ParseJointType(name string) (JointType, bool) {
	for t, n := range jointTypeNames {
		if n == name && JointType(t) != UnknownJoint {
			return JointType(t), true
		}
	}
	return UnknownJoint, false
}

type limitState uint8

const (
	inactiveLimit limitState = iota
	atLowerLimit
	atUpperLimit
	equalLimits
)

// JointEdge connects bodies and joints in a graph where each body is a node
// and each joint is an edge. Each joint has two edges, one in each body's
// joint list.
type JointEdge struct {
	// Other is the body on the other side of the joint.
	Other *Body
	Joint Joint

	Prev, Next *JointEdge
}

// JointDef is implemented by the per-kind definition structs only.
type JointDef interface {
	Type() JointType
	Bodies() (bodyA, bodyB *Body)
	create() Joint
}

// JointDefBase holds the fields every joint definition shares.
type JointDefBase struct {
	UserData interface{}
	BodyA    *Body
	BodyB    *Body
	// CollideConnected lets the attached bodies collide with each other.
	CollideConnected bool
}

func (def *JointDefBase) Bodies() (*Body, *Body) {
	return def.BodyA, def.BodyB
}

// Joint constrains two bodies. The set of joint kinds is closed; joints are
// built with World.CreateJoint.
type Joint interface {
	Type() JointType
	BodyA() *Body
	BodyB() *Body

	// AnchorA returns the anchor point on body A in world coordinates.
	AnchorA() Vector
	// AnchorB returns the anchor point on body B in world coordinates.
	AnchorB() Vector

	// ReactionForce returns the reaction force on body B at the joint
	// anchor, in newtons.
	ReactionForce(invDt float64) Vector
	// ReactionTorque returns the reaction torque on body B in N*m.
	ReactionTorque(invDt float64) float64

	Next() Joint
	UserData() interface{}
	SetUserData(data interface{})

	// IsActive is short-hand for both bodies being active.
	IsActive() bool
	CollideConnected() bool

	// ShiftOrigin shifts any points stored in world coordinates.
	ShiftOrigin(newOrigin Vector)

	base() *jointBase
	initVelocityConstraints(data *SolverData)
	solveVelocityConstraints(data *SolverData)
	solvePositionConstraints(data *SolverData) bool
}

// jointBase carries the graph links and the per-solve body data shared by
// every joint kind.
type jointBase struct {
	typ        JointType
	prev, next Joint

	edgeA, edgeB JointEdge
	bodyA, bodyB *Body

	islandFlag       bool
	collideConnected bool
	userData         interface{}

	// Solver temporaries
	indexA, indexB             int
	localCenterA, localCenterB Vector
	invMassA, invMassB         float64
	invIA, invIB               float64
}

func newJointBase(typ JointType, def *JointDefBase) jointBase {
	assert(def.BodyA != def.BodyB, "joint connects a body to itself")
	return jointBase{
		typ:              typ,
		bodyA:            def.BodyA,
		bodyB:            def.BodyB,
		collideConnected: def.CollideConnected,
		userData:         def.UserData,
	}
}

func (j *jointBase) base() *jointBase {
	return j
}

func (j *jointBase) Type() JointType {
	return j.typ
}

func (j *jointBase) BodyA() *Body {
	return j.bodyA
}

func (j *jointBase) BodyB() *Body {
	return j.bodyB
}

func (j *jointBase) Next() Joint {
	return j.next
}

func (j *jointBase) UserData() interface{} {
	return j.userData
}

func (j *jointBase) SetUserData(data interface{}) {
	j.userData = data
}

func (j *jointBase) IsActive() bool {
	return j.bodyA.IsActive() && j.bodyB.IsActive()
}

func (j *jointBase) CollideConnected() bool {
	return j.collideConnected
}

func (j *jointBase) ShiftOrigin(Vector) {}

// initSolverBodies caches the island indices and mass properties of both
// bodies at the start of a solve.
func (j *jointBase) initSolverBodies() {
	j.indexA = j.bodyA.islandIndex
	j.indexB = j.bodyB.islandIndex
	j.localCenterA = j.bodyA.sweep.LocalCenter
	j.localCenterB = j.bodyB.sweep.LocalCenter
	j.invMassA = j.bodyA.invMass
	j.invMassB = j.bodyB.invMass
	j.invIA = j.bodyA.invI
	j.invIB = j.bodyB.invI
}

// wakeBodies wakes both bodies, as any parameter change on a joint must.
func (j *jointBase) wakeBodies() {
	j.bodyA.SetAwake(true)
	j.bodyB.SetAwake(true)
}

// softConstraint converts a spring frequency (Hz) and damping ratio into
// the gamma and bias factor used by soft constraints.
//
//	d = 2 * m * zeta * omega, k = m * omega^2
//	gamma = 1 / (h * (d + h * k)), beta = h * k * gamma
func softConstraint(mass, frequencyHz, dampingRatio, h float64) (gamma, beta float64) {
	omega := 2.0 * math.Pi * frequencyHz
	d := 2.0 * mass * dampingRatio * omega
	k := mass * omega * omega

	gamma = h * (d + h*k)
	if gamma != 0.0 {
		gamma = 1.0 / gamma
	}
	beta = h * k * gamma
	return
}

func (j *jointBase) loadVelocities(data *SolverData) (vA Vector, wA float64, vB Vector, wB float64) {
	a := data.velocities[j.indexA]
	b := data.velocities[j.indexB]
	return a.V, a.W, b.V, b.W
}

func (j *jointBase) storeVelocities(data *SolverData, vA Vector, wA float64, vB Vector, wB float64) {
	data.velocities[j.indexA] = velocity{vA, wA}
	data.velocities[j.indexB] = velocity{vB, wB}
}

func (j *jointBase) loadPositions(data *SolverData) (cA Vector, aA float64, cB Vector, aB float64) {
	a := data.positions[j.indexA]
	b := data.positions[j.indexB]
	return a.C, a.A, b.C, b.A
}

func (j *jointBase) storePositions(data *SolverData, cA Vector, aA float64, cB Vector, aB float64) {
	data.positions[j.indexA] = position{cA, aA}
	data.positions[j.indexB] = position{cB, aB}
}
