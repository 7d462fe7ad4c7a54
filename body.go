package physics

import "fmt"

// BodyType selects how a body is simulated.
type BodyType uint8

const (
	// zero mass, zero velocity, may be manually moved
	StaticBody BodyType = iota
	// zero mass, velocity set by user, moved by the solver
	KinematicBody
	// positive mass, velocity determined by forces, moved by the solver
	DynamicBody
)

func (t BodyType) String() string {
	switch t {
	case StaticBody:
		return "static"
	case KinematicBody:
		return "kinematic"
	case DynamicBody:
		return "dynamic"
	}
	return fmt.Sprintf("BodyType(%d)", uint8(t))
}

func ParseBodyType(name string) (BodyType, bool) {
	for t := StaticBody; t <= DynamicBody; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return StaticBody, false
}

// BodyDef holds the data needed to construct a body. Start from
// NewBodyDef for the usual defaults.
type BodyDef struct {
	Type BodyType

	// The world position of the body origin.
	Position Vector
	// The world angle of the body in radians.
	Angle float64

	// The linear velocity of the body origin in world coordinates.
	LinearVelocity  Vector
	AngularVelocity float64

	// Damping reduces velocity. It is not friction: contacts are not needed.
	LinearDamping  float64
	AngularDamping float64

	// Set to false if this body should never fall asleep.
	AllowSleep bool
	Awake      bool
	// Prevents the body from rotating; useful for characters.
	FixedRotation bool
	// Fast moving bodies flagged as bullets get continuous collision
	// against dynamic bodies too. Costs performance.
	Bullet bool
	Active bool

	GravityScale float64

	UserData interface{}
}

func NewBodyDef() BodyDef {
	return BodyDef{
		AllowSleep:   true,
		Awake:        true,
		Active:       true,
		GravityScale: 1.0,
	}
}

type bodyFlags uint16

const (
	bodyIslandFlag bodyFlags = 1 << iota
	bodyAwakeFlag
	bodyAutoSleepFlag
	bodyBulletFlag
	bodyFixedRotationFlag
	bodyActiveFlag
	bodyToiFlag
)

// Body is a rigid body. Bodies are created and destroyed through a World.
type Body struct {
	typ   BodyType
	flags bodyFlags

	islandIndex int

	// the body origin transform
	xf Transform
	// the swept motion for continuous collision
	sweep Sweep

	linearVelocity  Vector
	angularVelocity float64

	force  Vector
	torque float64

	world      *World
	prev, next *Body

	fixtureList  *Fixture
	fixtureCount int

	jointList   *JointEdge
	contactList *ContactEdge

	mass, invMass float64

	// Rotational inertia about the center of mass.
	i, invI float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	sleepTime float64

	UserData interface{}
}

func (body *Body) String() string {
	return fmt.Sprintf("Body(%v %v)", body.typ, body.xf.P)
}

func newBody(def *BodyDef, world *World) *Body {
	assert(def.Position.IsValid(), "body position invalid")
	assert(def.LinearVelocity.IsValid(), "body velocity invalid")
	assert(IsValid(def.Angle) && IsValid(def.AngularVelocity), "body angle invalid")
	assert(def.AngularDamping >= 0 && def.LinearDamping >= 0, "negative damping")

	body := &Body{
		typ:             def.Type,
		world:           world,
		linearVelocity:  def.LinearVelocity,
		angularVelocity: def.AngularVelocity,
		linearDamping:   def.LinearDamping,
		angularDamping:  def.AngularDamping,
		gravityScale:    def.GravityScale,
		UserData:        def.UserData,
	}

	if def.Bullet {
		body.flags |= bodyBulletFlag
	}
	if def.FixedRotation {
		body.flags |= bodyFixedRotationFlag
	}
	if def.AllowSleep {
		body.flags |= bodyAutoSleepFlag
	}
	if def.Awake {
		body.flags |= bodyAwakeFlag
	}
	if def.Active {
		body.flags |= bodyActiveFlag
	}

	body.xf = NewTransform(def.Position, def.Angle)
	body.sweep = Sweep{
		C0: body.xf.P,
		C:  body.xf.P,
		A0: def.Angle,
		A:  def.Angle,
	}

	if body.typ == DynamicBody {
		body.mass = 1.0
		body.invMass = 1.0
	}

	return body
}

func (body *Body) World() *World {
	return body.world
}

// Next is the next body in the world's body list.
func (body *Body) Next() *Body {
	return body.next
}

func (body *Body) Type() BodyType {
	return body.typ
}

// SetType changes the body type. Mass is recomputed and contacts are
// rebuilt. Ignored while the world is stepping.
func (body *Body) SetType(typ BodyType) {
	if body.world.rejectLocked("Body.SetType") {
		return
	}
	if body.typ == typ {
		return
	}

	body.typ = typ
	body.ResetMassData()

	if body.typ == StaticBody {
		body.linearVelocity = Vector{}
		body.angularVelocity = 0
		body.sweep.A0 = body.sweep.A
		body.sweep.C0 = body.sweep.C
		body.synchronizeFixtures()
	}

	body.SetAwake(true)

	body.force = Vector{}
	body.torque = 0

	body.destroyContacts()

	// Touch the proxies so that new contacts are created when appropriate.
	broadPhase := body.world.contactManager.broadPhase
	for f := body.fixtureList; f != nil; f = f.next {
		for i := range f.proxies {
			broadPhase.TouchProxy(f.proxies[i].proxyID)
		}
	}
}

// destroyContacts removes every contact touching the body.
func (body *Body) destroyContacts() {
	ce := body.contactList
	for ce != nil {
		ce0 := ce
		ce = ce.Next
		body.world.contactManager.destroy(ce0.Contact)
	}
	body.contactList = nil
}

// CreateFixture attaches a shape to the body. The shape is cloned. Mass is
// updated if the density is positive. Returns nil while the world is
// stepping.
func (body *Body) CreateFixture(def *FixtureDef) *Fixture {
	if body.world.rejectLocked("Body.CreateFixture") {
		return nil
	}

	fixture := newFixture(body, def)

	if body.flags&bodyActiveFlag != 0 {
		fixture.createProxies(body.world.contactManager.broadPhase, body.xf)
	}

	fixture.next = body.fixtureList
	body.fixtureList = fixture
	body.fixtureCount++

	if fixture.density > 0 {
		body.ResetMassData()
	}

	// Let the world know there are new fixtures so it can find new contacts
	// at the beginning of the next step.
	body.world.flags |= worldNewFixture

	return fixture
}

// CreateFixtureFromShape attaches a shape with default material.
func (body *Body) CreateFixtureFromShape(shape Shape, density float64) *Fixture {
	def := NewFixtureDef(shape)
	def.Density = density
	return body.CreateFixture(&def)
}

// DestroyFixture detaches and destroys a fixture, along with its contacts
// and broad-phase proxies. Mass is recomputed. Ignored while the world is
// stepping.
func (body *Body) DestroyFixture(fixture *Fixture) {
	if fixture == nil {
		return
	}
	if body.world.rejectLocked("Body.DestroyFixture") {
		return
	}

	assert(fixture.body == body, "fixture belongs to another body")
	assert(body.fixtureCount > 0, "body has no fixtures")

	node := &body.fixtureList
	found := false
	for *node != nil {
		if *node == fixture {
			*node = fixture.next
			found = true
			break
		}
		node = &(*node).next
	}
	assert(found, "fixture not in body list")

	// Destroy any contacts associated with the fixture.
	edge := body.contactList
	for edge != nil {
		c := edge.Contact
		edge = edge.Next
		if fixture == c.fixtureA || fixture == c.fixtureB {
			body.world.contactManager.destroy(c)
		}
	}

	if body.flags&bodyActiveFlag != 0 {
		fixture.destroyProxies(body.world.contactManager.broadPhase)
	}

	fixture.body = nil
	fixture.next = nil
	body.fixtureCount--

	body.ResetMassData()
}

// ResetMassData recomputes mass from the fixture densities. Static and
// kinematic bodies have zero mass; a dynamic body with no mass gets a
// mass of one.
func (body *Body) ResetMassData() {
	body.mass = 0
	body.invMass = 0
	body.i = 0
	body.invI = 0
	body.sweep.LocalCenter = Vector{}

	if body.typ == StaticBody || body.typ == KinematicBody {
		body.sweep.C0 = body.xf.P
		body.sweep.C = body.xf.P
		body.sweep.A0 = body.sweep.A
		return
	}

	// Accumulate mass over all fixtures.
	var localCenter Vector
	for f := body.fixtureList; f != nil; f = f.next {
		if f.density == 0 {
			continue
		}
		md := f.MassData()
		body.mass += md.Mass
		localCenter = localCenter.Add(md.Center.Mult(md.Mass))
		body.i += md.I
	}

	if body.mass > 0 {
		body.invMass = 1.0 / body.mass
		localCenter = localCenter.Mult(body.invMass)
	} else {
		// Force all dynamic bodies to have positive mass.
		body.mass = 1.0
		body.invMass = 1.0
	}

	if body.i > 0 && body.flags&bodyFixedRotationFlag == 0 {
		// Center the inertia about the center of mass.
		body.i -= body.mass * localCenter.Dot(localCenter)
		assert(body.i > 0, "non-positive inertia")
		body.invI = 1.0 / body.i
	} else {
		body.i = 0
		body.invI = 0
	}

	body.moveCenter(localCenter)
}

// moveCenter relocates the center of mass and keeps the velocity of the
// body origin unchanged.
func (body *Body) moveCenter(localCenter Vector) {
	oldCenter := body.sweep.C
	body.sweep.LocalCenter = localCenter
	body.sweep.C = body.xf.Point(localCenter)
	body.sweep.C0 = body.sweep.C

	body.linearVelocity = body.linearVelocity.Add(CrossSV(body.angularVelocity, body.sweep.C.Sub(oldCenter)))
}

// MassData returns the mass, local center and inertia about the body
// origin.
func (body *Body) MassData() MassData {
	return MassData{
		Mass:   body.mass,
		I:      body.i + body.mass*body.sweep.LocalCenter.Dot(body.sweep.LocalCenter),
		Center: body.sweep.LocalCenter,
	}
}

// SetMassData overrides the mass properties of a dynamic body. The inertia
// is taken about the body origin. Ignored while the world is stepping.
func (body *Body) SetMassData(md MassData) {
	if body.world.rejectLocked("Body.SetMassData") {
		return
	}
	if body.typ != DynamicBody {
		return
	}

	body.invMass = 0
	body.i = 0
	body.invI = 0

	body.mass = md.Mass
	if body.mass <= 0 {
		body.mass = 1.0
	}
	body.invMass = 1.0 / body.mass

	if md.I > 0 && body.flags&bodyFixedRotationFlag == 0 {
		body.i = md.I - body.mass*md.Center.Dot(md.Center)
		assert(body.i > 0, "non-positive inertia")
		body.invI = 1.0 / body.i
	}

	body.moveCenter(md.Center)
}

func (body *Body) Mass() float64 {
	return body.mass
}

// Inertia is the rotational inertia about the body origin.
func (body *Body) Inertia() float64 {
	return body.i + body.mass*body.sweep.LocalCenter.Dot(body.sweep.LocalCenter)
}

// shouldCollide is false when both bodies are non-dynamic or a joint
// between them disables collision.
func (body *Body) shouldCollide(other *Body) bool {
	if body.typ != DynamicBody && other.typ != DynamicBody {
		return false
	}

	for jn := body.jointList; jn != nil; jn = jn.Next {
		if jn.Other == other && !jn.Joint.CollideConnected() {
			return false
		}
	}
	return true
}

// SetTransform teleports the body origin. Contacts are updated on the
// next step. Ignored while the world is stepping.
func (body *Body) SetTransform(position Vector, angle float64) {
	if body.world.rejectLocked("Body.SetTransform") {
		return
	}

	body.xf = NewTransform(position, angle)

	body.sweep.C = body.xf.Point(body.sweep.LocalCenter)
	body.sweep.A = angle
	body.sweep.C0 = body.sweep.C
	body.sweep.A0 = angle

	broadPhase := body.world.contactManager.broadPhase
	for f := body.fixtureList; f != nil; f = f.next {
		f.synchronize(broadPhase, body.xf, body.xf)
	}
}

func (body *Body) Transform() Transform {
	return body.xf
}

// Position is the world position of the body origin.
func (body *Body) Position() Vector {
	return body.xf.P
}

func (body *Body) Angle() float64 {
	return body.sweep.A
}

// WorldCenter is the world position of the center of mass.
func (body *Body) WorldCenter() Vector {
	return body.sweep.C
}

// LocalCenter is the center of mass in body coordinates.
func (body *Body) LocalCenter() Vector {
	return body.sweep.LocalCenter
}

// SetLinearVelocity sets the velocity of the center of mass. Static bodies
// ignore it.
func (body *Body) SetLinearVelocity(v Vector) {
	if body.typ == StaticBody {
		return
	}
	if v.Dot(v) > 0 {
		body.SetAwake(true)
	}
	body.linearVelocity = v
}

func (body *Body) LinearVelocity() Vector {
	return body.linearVelocity
}

func (body *Body) SetAngularVelocity(w float64) {
	if body.typ == StaticBody {
		return
	}
	if w*w > 0 {
		body.SetAwake(true)
	}
	body.angularVelocity = w
}

func (body *Body) AngularVelocity() float64 {
	return body.angularVelocity
}

// ApplyForce applies a force at a world point. A force off the center of
// mass also produces a torque. The force is ignored on a sleeping body
// unless wake is set.
func (body *Body) ApplyForce(force, point Vector, wake bool) {
	if !body.prepareForce(wake) {
		return
	}
	body.force = body.force.Add(force)
	body.torque += point.Sub(body.sweep.C).Cross(force)
}

func (body *Body) ApplyForceToCenter(force Vector, wake bool) {
	if !body.prepareForce(wake) {
		return
	}
	body.force = body.force.Add(force)
}

// ApplyTorque affects angular velocity without affecting the linear
// velocity of the center of mass.
func (body *Body) ApplyTorque(torque float64, wake bool) {
	if !body.prepareForce(wake) {
		return
	}
	body.torque += torque
}

// ApplyLinearImpulse changes the velocity immediately. An impulse off the
// center of mass also changes the angular velocity.
func (body *Body) ApplyLinearImpulse(impulse, point Vector, wake bool) {
	if !body.prepareForce(wake) {
		return
	}
	body.linearVelocity = body.linearVelocity.Add(impulse.Mult(body.invMass))
	body.angularVelocity += body.invI * point.Sub(body.sweep.C).Cross(impulse)
}

func (body *Body) ApplyAngularImpulse(impulse float64, wake bool) {
	if !body.prepareForce(wake) {
		return
	}
	body.angularVelocity += body.invI * impulse
}

// prepareForce wakes the body if requested and reports whether forces
// apply.
func (body *Body) prepareForce(wake bool) bool {
	if body.typ != DynamicBody {
		return false
	}
	if wake && body.flags&bodyAwakeFlag == 0 {
		body.SetAwake(true)
	}
	return body.flags&bodyAwakeFlag != 0
}

func (body *Body) WorldPoint(localPoint Vector) Vector {
	return body.xf.Point(localPoint)
}

func (body *Body) WorldVector(localVector Vector) Vector {
	return body.xf.Q.Rotate(localVector)
}

func (body *Body) LocalPoint(worldPoint Vector) Vector {
	return body.xf.InvPoint(worldPoint)
}

func (body *Body) LocalVector(worldVector Vector) Vector {
	return body.xf.Q.Unrotate(worldVector)
}

// LinearVelocityFromWorldPoint is the velocity of a world point attached
// to the body.
func (body *Body) LinearVelocityFromWorldPoint(worldPoint Vector) Vector {
	return body.linearVelocity.Add(CrossSV(body.angularVelocity, worldPoint.Sub(body.sweep.C)))
}

func (body *Body) LinearVelocityFromLocalPoint(localPoint Vector) Vector {
	return body.LinearVelocityFromWorldPoint(body.WorldPoint(localPoint))
}

func (body *Body) LinearDamping() float64 {
	return body.linearDamping
}

func (body *Body) SetLinearDamping(damping float64) {
	body.linearDamping = damping
}

func (body *Body) AngularDamping() float64 {
	return body.angularDamping
}

func (body *Body) SetAngularDamping(damping float64) {
	body.angularDamping = damping
}

func (body *Body) GravityScale() float64 {
	return body.gravityScale
}

func (body *Body) SetGravityScale(scale float64) {
	body.gravityScale = scale
}

// SetBullet flags the body for continuous collision against other dynamic
// bodies.
func (body *Body) SetBullet(flag bool) {
	body.setFlag(bodyBulletFlag, flag)
}

func (body *Body) IsBullet() bool {
	return body.flags&bodyBulletFlag != 0
}

// SetSleepingAllowed disables sleep for this body; clearing it also wakes
// the body.
func (body *Body) SetSleepingAllowed(flag bool) {
	body.setFlag(bodyAutoSleepFlag, flag)
	if !flag {
		body.SetAwake(true)
	}
}

func (body *Body) IsSleepingAllowed() bool {
	return body.flags&bodyAutoSleepFlag != 0
}

// SetAwake wakes the body, or puts it to sleep. A sleeping body has zero
// velocity and no accumulated force.
func (body *Body) SetAwake(flag bool) {
	if flag {
		if body.flags&bodyAwakeFlag == 0 {
			body.flags |= bodyAwakeFlag
			body.sleepTime = 0
		}
		return
	}

	body.flags &^= bodyAwakeFlag
	body.sleepTime = 0
	body.linearVelocity = Vector{}
	body.angularVelocity = 0
	body.force = Vector{}
	body.torque = 0
}

func (body *Body) IsAwake() bool {
	return body.flags&bodyAwakeFlag != 0
}

// SetActive adds or removes the body from simulation. An inactive body
// keeps its fixtures and joints but has no broad-phase proxies and no
// contacts.
func (body *Body) SetActive(flag bool) {
	if body.world.rejectLocked("Body.SetActive") {
		return
	}
	if flag == body.IsActive() {
		return
	}

	broadPhase := body.world.contactManager.broadPhase
	if flag {
		body.flags |= bodyActiveFlag
		for f := body.fixtureList; f != nil; f = f.next {
			f.createProxies(broadPhase, body.xf)
		}
		// Contacts are created the next time step is called.
		return
	}

	body.flags &^= bodyActiveFlag
	for f := body.fixtureList; f != nil; f = f.next {
		f.destroyProxies(broadPhase)
	}
	body.destroyContacts()
}

func (body *Body) IsActive() bool {
	return body.flags&bodyActiveFlag != 0
}

// SetFixedRotation stops the body from rotating and recomputes its mass.
func (body *Body) SetFixedRotation(flag bool) {
	if body.IsFixedRotation() == flag {
		return
	}
	body.setFlag(bodyFixedRotationFlag, flag)
	body.angularVelocity = 0
	body.ResetMassData()
}

func (body *Body) IsFixedRotation() bool {
	return body.flags&bodyFixedRotationFlag != 0
}

func (body *Body) setFlag(flag bodyFlags, on bool) {
	if on {
		body.flags |= flag
	} else {
		body.flags &^= flag
	}
}

func (body *Body) FixtureList() *Fixture {
	return body.fixtureList
}

func (body *Body) FixtureCount() int {
	return body.fixtureCount
}

func (body *Body) JointList() *JointEdge {
	return body.jointList
}

// ContactList returns the body's contact edges. Contacts may not be
// touching; check Contact.IsTouching.
func (body *Body) ContactList() *ContactEdge {
	return body.contactList
}

// EachFixture calls f for every fixture attached to the body.
func (body *Body) EachFixture(f func(*Fixture)) {
	for fixture := body.fixtureList; fixture != nil; {
		next := fixture.next
		f(fixture)
		fixture = next
	}
}

// EachJoint calls f for every joint attached to the body.
func (body *Body) EachJoint(f func(Joint)) {
	for je := body.jointList; je != nil; {
		next := je.Next
		f(je.Joint)
		je = next
	}
}

// EachContact calls f for every contact touching the body's fixtures.
func (body *Body) EachContact(f func(*Contact)) {
	for ce := body.contactList; ce != nil; {
		next := ce.Next
		f(ce.Contact)
		ce = next
	}
}

// synchronizeFixtures moves the proxies to cover the sweep from the start
// of the step to the current transform.
func (body *Body) synchronizeFixtures() {
	q := NewRot(body.sweep.A0)
	xf1 := Transform{P: body.sweep.C0.Sub(q.Rotate(body.sweep.LocalCenter)), Q: q}

	broadPhase := body.world.contactManager.broadPhase
	for f := body.fixtureList; f != nil; f = f.next {
		f.synchronize(broadPhase, xf1, body.xf)
	}
}

// synchronizeTransform derives the origin transform from the sweep.
func (body *Body) synchronizeTransform() {
	body.xf.Q = NewRot(body.sweep.A)
	body.xf.P = body.sweep.C.Sub(body.xf.Q.Rotate(body.sweep.LocalCenter))
}

// advance moves the body to the sweep at alpha and makes that the new
// start of the sweep. It does not synchronize the broad phase.
func (body *Body) advance(alpha float64) {
	body.sweep.Advance(alpha)
	body.sweep.C = body.sweep.C0
	body.sweep.A = body.sweep.A0
	body.xf.Q = NewRot(body.sweep.A)
	body.xf.P = body.sweep.C.Sub(body.xf.Q.Rotate(body.sweep.LocalCenter))
}
