package physics

import (
	"log"
	"math"
	"time"
)

type worldFlags uint8

const (
	worldNewFixture worldFlags = 1 << iota
	worldLocked
	worldClearForces
)

// World manages all bodies, fixtures, joints and contacts, and steps the
// simulation. A World is not safe for concurrent use.
type World struct {
	flags worldFlags

	contactManager contactManager

	bodyList  *Body
	jointList Joint

	bodyCount  int
	jointCount int

	gravity    Vector
	allowSleep bool

	destructionListener DestructionListener

	debugDraw Drawer
	drawFlags DrawFlags

	// This is used to compute the time step ratio to support a variable
	// time step.
	invDt0 float64

	warmStarting      bool
	continuousPhysics bool
	subStepping       bool

	stepComplete bool

	profile Profile

	// Reused every step.
	island island
	stack  []*Body

	logger     *log.Logger
	lockWarned bool
}

// NewWorld returns an empty world with the given gravity. Sleeping, warm
// starting, continuous physics and force clearing are on.
func NewWorld(gravity Vector) *World {
	world := &World{
		contactManager:    newContactManager(),
		gravity:           gravity,
		allowSleep:        true,
		warmStarting:      true,
		continuousPhysics: true,
		stepComplete:      true,
		flags:             worldClearForces,
		logger:            log.Default(),
	}
	return world
}

// SetLogger replaces the logger used for rejected calls and internal
// errors.
func (world *World) SetLogger(logger *log.Logger) {
	world.logger = logger
	world.contactManager.logger = logger
}

// rejectLocked reports whether the world is mid-step. The first rejected
// call of each step is logged.
func (world *World) rejectLocked(name string) bool {
	if world.flags&worldLocked == 0 {
		return false
	}
	if !world.lockWarned {
		world.lockWarned = true
		world.logger.Printf("physics: %s ignored while the world is locked", name)
	}
	return true
}

// IsLocked reports whether the world is in the middle of a time step.
func (world *World) IsLocked() bool {
	return world.flags&worldLocked != 0
}

func (world *World) SetDestructionListener(listener DestructionListener) {
	world.destructionListener = listener
}

// SetContactFilter replaces the default category/mask/group filter.
func (world *World) SetContactFilter(filter ContactFilter) {
	world.contactManager.contactFilter = filter
}

func (world *World) SetContactListener(listener ContactListener) {
	world.contactManager.contactListener = listener
}

// CreateBody adds a rigid body. It returns nil while the world is locked.
func (world *World) CreateBody(def *BodyDef) *Body {
	if world.rejectLocked("World.CreateBody") {
		return nil
	}

	b := newBody(def, world)

	// Add to world doubly linked list.
	b.prev = nil
	b.next = world.bodyList
	if world.bodyList != nil {
		world.bodyList.prev = b
	}
	world.bodyList = b
	world.bodyCount++

	return b
}

// DestroyBody destroys a body along with its joints, contacts and fixtures.
// It is ignored while the world is locked.
func (world *World) DestroyBody(b *Body) {
	assert(world.bodyCount > 0, "no bodies to destroy")
	assert(b.world == world, "body belongs to another world")
	if world.rejectLocked("World.DestroyBody") {
		return
	}

	// Delete the attached joints.
	je := b.jointList
	for je != nil {
		je0 := je
		je = je.Next

		if world.destructionListener != nil {
			world.destructionListener.SayGoodbyeJoint(je0.Joint)
		}

		world.DestroyJoint(je0.Joint)

		b.jointList = je
	}
	b.jointList = nil

	// Delete the attached contacts.
	ce := b.contactList
	for ce != nil {
		ce0 := ce
		ce = ce.Next
		world.contactManager.destroy(ce0.Contact)
	}
	b.contactList = nil

	// Delete the attached fixtures. This destroys broad-phase proxies.
	f := b.fixtureList
	for f != nil {
		f0 := f
		f = f.next

		if world.destructionListener != nil {
			world.destructionListener.SayGoodbyeFixture(f0)
		}

		f0.destroyProxies(world.contactManager.broadPhase)

		b.fixtureList = f
		b.fixtureCount--
	}
	b.fixtureList = nil
	b.fixtureCount = 0

	// Remove world body list.
	if b.prev != nil {
		b.prev.next = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	}
	if b == world.bodyList {
		world.bodyList = b.next
	}

	world.bodyCount--
}

// CreateJoint adds a joint between two bodies. It returns nil while the
// world is locked or when the definition cannot be built.
func (world *World) CreateJoint(def JointDef) Joint {
	if world.rejectLocked("World.CreateJoint") {
		return nil
	}

	j := def.create()
	if j == nil {
		world.logger.Printf("physics: cannot create %v joint from %T", def.Type(), def)
		return nil
	}
	jb := j.base()

	// Connect to the world list.
	jb.prev = nil
	jb.next = world.jointList
	if world.jointList != nil {
		world.jointList.base().prev = j
	}
	world.jointList = j
	world.jointCount++

	// Connect to the bodies' doubly linked lists.
	jb.edgeA.Joint = j
	jb.edgeA.Other = jb.bodyB
	jb.edgeA.Prev = nil
	jb.edgeA.Next = jb.bodyA.jointList
	if jb.bodyA.jointList != nil {
		jb.bodyA.jointList.Prev = &jb.edgeA
	}
	jb.bodyA.jointList = &jb.edgeA

	jb.edgeB.Joint = j
	jb.edgeB.Other = jb.bodyA
	jb.edgeB.Prev = nil
	jb.edgeB.Next = jb.bodyB.jointList
	if jb.bodyB.jointList != nil {
		jb.bodyB.jointList.Prev = &jb.edgeB
	}
	jb.bodyB.jointList = &jb.edgeB

	// If the joint prevents collisions, then flag any contacts for filtering.
	if !jb.collideConnected {
		world.flagContactsBetween(jb.bodyA, jb.bodyB)
	}

	// Note: creating a joint doesn't wake the bodies.

	return j
}

func (world *World) flagContactsBetween(bodyA, bodyB *Body) {
	for edge := bodyB.contactList; edge != nil; edge = edge.Next {
		if edge.Other == bodyA {
			// Flag the contact for filtering at the next time step (where
			// either body is awake).
			edge.Contact.FlagForFiltering()
		}
	}
}

// DestroyJoint removes a joint and wakes its bodies. It is ignored while the
// world is locked.
func (world *World) DestroyJoint(j Joint) {
	if world.rejectLocked("World.DestroyJoint") {
		return
	}

	jb := j.base()
	collideConnected := jb.collideConnected

	// Remove from the doubly linked list.
	if jb.prev != nil {
		jb.prev.base().next = jb.next
	}
	if jb.next != nil {
		jb.next.base().prev = jb.prev
	}
	if j == world.jointList {
		world.jointList = jb.next
	}
	jb.prev = nil
	jb.next = nil

	// Disconnect from island graph.
	bodyA := jb.bodyA
	bodyB := jb.bodyB

	// Wake up connected bodies.
	bodyA.SetAwake(true)
	bodyB.SetAwake(true)

	// Remove from body 1.
	if jb.edgeA.Prev != nil {
		jb.edgeA.Prev.Next = jb.edgeA.Next
	}
	if jb.edgeA.Next != nil {
		jb.edgeA.Next.Prev = jb.edgeA.Prev
	}
	if &jb.edgeA == bodyA.jointList {
		bodyA.jointList = jb.edgeA.Next
	}
	jb.edgeA.Prev = nil
	jb.edgeA.Next = nil

	// Remove from body 2
	if jb.edgeB.Prev != nil {
		jb.edgeB.Prev.Next = jb.edgeB.Next
	}
	if jb.edgeB.Next != nil {
		jb.edgeB.Next.Prev = jb.edgeB.Prev
	}
	if &jb.edgeB == bodyB.jointList {
		bodyB.jointList = jb.edgeB.Next
	}
	jb.edgeB.Prev = nil
	jb.edgeB.Next = nil

	assert(world.jointCount > 0, "no joints to destroy")
	world.jointCount--

	// If the joint prevents collisions, then flag any contacts for filtering.
	if !collideConnected {
		world.flagContactsBetween(bodyA, bodyB)
	}
}

// Step advances the world by dt seconds. velocityIterations and
// positionIterations bound the two constraint solver passes.
func (world *World) Step(dt float64, velocityIterations, positionIterations int) {
	stepStart := time.Now()
	world.profile = Profile{}
	world.lockWarned = false

	// If new fixtures were added, we need to find the new contacts.
	if world.flags&worldNewFixture != 0 {
		world.contactManager.findNewContacts()
		world.flags &^= worldNewFixture
	}

	world.flags |= worldLocked

	step := TimeStep{
		Dt:                 dt,
		VelocityIterations: velocityIterations,
		PositionIterations: positionIterations,
		WarmStarting:       world.warmStarting,
	}
	if dt > 0.0 {
		step.InvDt = 1.0 / dt
	}
	step.DtRatio = world.invDt0 * dt

	// Update contacts. This is where some contacts are destroyed.
	start := time.Now()
	world.contactManager.collide()
	world.profile.Collide = time.Since(start)

	// Integrate velocities, solve velocity constraints, and integrate positions.
	if world.stepComplete && step.Dt > 0.0 {
		start = time.Now()
		world.solve(step)
		world.profile.Solve = time.Since(start)
	}

	// Handle TOI events.
	if world.continuousPhysics && step.Dt > 0.0 {
		start = time.Now()
		world.solveTOI(step)
		world.profile.SolveTOI = time.Since(start)
	}

	if step.Dt > 0.0 {
		world.invDt0 = step.InvDt
	}

	if world.flags&worldClearForces != 0 {
		world.ClearForces()
	}

	world.flags &^= worldLocked

	world.profile.Step = time.Since(stepStart)
}

// ClearForces zeroes the accumulated forces and torques of every body. Step
// calls it automatically unless SetAutoClearForces(false) was called.
func (world *World) ClearForces() {
	for body := world.bodyList; body != nil; body = body.next {
		body.force = Vector{}
		body.torque = 0.0
	}
}

// solve finds the islands, solves them and synchronizes the broad phase.
func (world *World) solve(step TimeStep) {
	isl := &world.island
	isl.listener = world.contactManager.contactListener

	// Clear all the island flags.
	for b := world.bodyList; b != nil; b = b.next {
		b.flags &^= bodyIslandFlag
	}
	for c := world.contactManager.contactList; c != nil; c = c.next {
		c.flags &^= contactIslandFlag
	}
	for j := world.jointList; j != nil; j = j.Next() {
		j.base().islandFlag = false
	}

	// Build and simulate all awake islands.
	stack := world.stack[:0]
	for seed := world.bodyList; seed != nil; seed = seed.next {
		if seed.flags&bodyIslandFlag != 0 {
			continue
		}

		if !seed.IsAwake() || !seed.IsActive() {
			continue
		}

		// The seed can be dynamic or kinematic.
		if seed.typ == StaticBody {
			continue
		}

		// Reset island and stack.
		isl.clear()
		stack = append(stack[:0], seed)
		seed.flags |= bodyIslandFlag

		// Perform a depth first search (DFS) on the constraint graph.
		for len(stack) > 0 {
			// Grab the next body off the stack and add it to the island.
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			assert(b.IsActive(), "inactive body in island")
			isl.addBody(b)

			// Make sure the body is awake (without resetting sleep timer).
			b.flags |= bodyAwakeFlag

			// To keep islands as small as possible, we don't
			// propagate islands across static bodies.
			if b.typ == StaticBody {
				continue
			}

			// Search all contacts connected to this body.
			for ce := b.contactList; ce != nil; ce = ce.Next {
				contact := ce.Contact

				// Has this contact already been added to an island?
				if contact.flags&contactIslandFlag != 0 {
					continue
				}

				// Is this contact solid and touching?
				if !contact.IsEnabled() || !contact.IsTouching() {
					continue
				}

				// Skip sensors.
				if contact.fixtureA.isSensor || contact.fixtureB.isSensor {
					continue
				}

				isl.addContact(contact)
				contact.flags |= contactIslandFlag

				other := ce.Other

				// Was the other body already added to this island?
				if other.flags&bodyIslandFlag != 0 {
					continue
				}

				stack = append(stack, other)
				other.flags |= bodyIslandFlag
			}

			// Search all joints connect to this body.
			for je := b.jointList; je != nil; je = je.Next {
				jb := je.Joint.base()
				if jb.islandFlag {
					continue
				}

				other := je.Other

				// Don't simulate joints connected to inactive bodies.
				if !other.IsActive() {
					continue
				}

				isl.addJoint(je.Joint)
				jb.islandFlag = true

				if other.flags&bodyIslandFlag != 0 {
					continue
				}

				stack = append(stack, other)
				other.flags |= bodyIslandFlag
			}
		}

		isl.solve(&world.profile, step, world.gravity, world.allowSleep)

		// Post solve cleanup.
		for _, b := range isl.bodies {
			// Allow static bodies to participate in other islands.
			if b.typ == StaticBody {
				b.flags &^= bodyIslandFlag
			}
		}
	}
	world.stack = stack[:0]

	start := time.Now()

	// Synchronize fixtures, check for out of range bodies.
	for b := world.bodyList; b != nil; b = b.next {
		// If a body was not in an island then it did not move.
		if b.flags&bodyIslandFlag == 0 {
			continue
		}

		if b.typ == StaticBody {
			continue
		}

		// Update fixtures (for broad-phase).
		b.synchronizeFixtures()
	}

	// Look for new contacts.
	world.contactManager.findNewContacts()
	world.profile.Broadphase = time.Since(start)
}

// solveTOI finds TOI contacts and solves them one event at a time, in time
// order.
func (world *World) solveTOI(step TimeStep) {
	isl := &world.island
	isl.listener = world.contactManager.contactListener
	isl.clear()

	if world.stepComplete {
		for b := world.bodyList; b != nil; b = b.next {
			b.flags &^= bodyIslandFlag
			b.sweep.Alpha0 = 0.0
		}

		for c := world.contactManager.contactList; c != nil; c = c.next {
			// Invalidate TOI
			c.flags &^= contactToiFlag | contactIslandFlag
			c.toiCount = 0
			c.toi = 1.0
		}
	}

	// Find TOI events and solve them.
	for {
		minContact, minAlpha := world.findMinTOIContact()

		if minContact == nil || 1.0-10.0*epsilon < minAlpha {
			// No more TOI events. Done!
			world.stepComplete = true
			break
		}

		// Advance the bodies to the TOI.
		bA := minContact.fixtureA.body
		bB := minContact.fixtureB.body

		backup1 := bA.sweep
		backup2 := bB.sweep

		bA.advance(minAlpha)
		bB.advance(minAlpha)

		// The TOI contact likely has some new contact points.
		minContact.update(world.contactManager.contactListener)
		minContact.flags &^= contactToiFlag
		minContact.toiCount++

		// Is the contact solid?
		if !minContact.IsEnabled() || !minContact.IsTouching() {
			// Restore the sweeps.
			minContact.SetEnabled(false)
			bA.sweep = backup1
			bB.sweep = backup2
			bA.synchronizeTransform()
			bB.synchronizeTransform()
			continue
		}

		bA.SetAwake(true)
		bB.SetAwake(true)

		// Build the island
		isl.clear()
		isl.addBody(bA)
		isl.addBody(bB)
		isl.addContact(minContact)

		bA.flags |= bodyIslandFlag
		bB.flags |= bodyIslandFlag
		minContact.flags |= contactIslandFlag

		// Get contacts on bodyA and bodyB.
		world.addTOIContacts(bA, minAlpha)
		world.addTOIContacts(bB, minAlpha)

		dt := (1.0 - minAlpha) * step.Dt
		subStep := TimeStep{
			Dt:                 dt,
			InvDt:              1.0 / dt,
			DtRatio:            1.0,
			PositionIterations: 20,
			VelocityIterations: step.VelocityIterations,
			WarmStarting:       false,
		}
		isl.solveTOI(subStep, bA.islandIndex, bB.islandIndex)

		// Reset island flags and synchronize broad-phase proxies.
		for _, body := range isl.bodies {
			body.flags &^= bodyIslandFlag

			if body.typ != DynamicBody {
				continue
			}

			body.synchronizeFixtures()

			// Invalidate all contact TOIs on this displaced body.
			for ce := body.contactList; ce != nil; ce = ce.Next {
				ce.Contact.flags &^= contactToiFlag | contactIslandFlag
			}
		}

		// Commit fixture proxy movements to the broad-phase so that new
		// contacts are created. Also, some contacts can be destroyed.
		world.contactManager.findNewContacts()

		if world.subStepping {
			world.stepComplete = false
			break
		}
	}
}

// findMinTOIContact computes or reuses the TOI of every eligible contact and
// returns the earliest.
func (world *World) findMinTOIContact() (*Contact, float64) {
	var minContact *Contact
	minAlpha := 1.0

	for c := world.contactManager.contactList; c != nil; c = c.next {
		// Is this contact disabled?
		if !c.IsEnabled() {
			continue
		}

		// Prevent excessive sub-stepping.
		if c.toiCount > MaxSubSteps {
			continue
		}

		alpha := 1.0
		if c.flags&contactToiFlag != 0 {
			// This contact has a valid cached TOI.
			alpha = c.toi
		} else {
			fA := c.fixtureA
			fB := c.fixtureB

			// Is there a sensor?
			if fA.isSensor || fB.isSensor {
				continue
			}

			bA := fA.body
			bB := fB.body

			typeA := bA.typ
			typeB := bB.typ
			assert(typeA == DynamicBody || typeB == DynamicBody, "toi contact without a dynamic body")

			activeA := bA.IsAwake() && typeA != StaticBody
			activeB := bB.IsAwake() && typeB != StaticBody

			// Is at least one body active (awake and dynamic or kinematic)?
			if !activeA && !activeB {
				continue
			}

			collideA := bA.IsBullet() || typeA != DynamicBody
			collideB := bB.IsBullet() || typeB != DynamicBody

			// Are these two non-bullet dynamic bodies?
			if !collideA && !collideB {
				continue
			}

			// Compute the TOI for this contact.
			// Put the sweeps onto the same time interval.
			alpha0 := bA.sweep.Alpha0

			if bA.sweep.Alpha0 < bB.sweep.Alpha0 {
				alpha0 = bB.sweep.Alpha0
				bA.sweep.Advance(alpha0)
			} else if bB.sweep.Alpha0 < bA.sweep.Alpha0 {
				alpha0 = bA.sweep.Alpha0
				bB.sweep.Advance(alpha0)
			}

			assert(alpha0 < 1.0, "sweep already complete")

			input := TOIInput{
				ProxyA: NewDistanceProxy(fA.shape, c.indexA),
				ProxyB: NewDistanceProxy(fB.shape, c.indexB),
				SweepA: bA.sweep,
				SweepB: bB.sweep,
				TMax:   1.0,
			}

			output := TimeOfImpact(&input)

			// Beta is the fraction of the remaining portion of the step.
			beta := output.T
			if output.State == TOIStateTouching {
				alpha = math.Min(alpha0+(1.0-alpha0)*beta, 1.0)
			} else {
				alpha = 1.0
			}

			c.toi = alpha
			c.flags |= contactToiFlag
		}

		if alpha < minAlpha {
			// This is the minimum TOI found so far.
			minContact = c
			minAlpha = alpha
		}
	}

	return minContact, minAlpha
}

// addTOIContacts grows the TOI island by the static, kinematic and bullet
// neighbours of body that touch it at minAlpha.
func (world *World) addTOIContacts(body *Body, minAlpha float64) {
	if body.typ != DynamicBody {
		return
	}

	isl := &world.island
	listener := world.contactManager.contactListener

	for ce := body.contactList; ce != nil; ce = ce.Next {
		if len(isl.bodies) == 2*MaxTOIContacts || len(isl.contacts) == MaxTOIContacts {
			break
		}

		contact := ce.Contact

		// Has this contact already been added to the island?
		if contact.flags&contactIslandFlag != 0 {
			continue
		}

		// Only add static, kinematic, or bullet bodies.
		other := ce.Other
		if other.typ == DynamicBody && !body.IsBullet() && !other.IsBullet() {
			continue
		}

		// Skip sensors.
		if contact.fixtureA.isSensor || contact.fixtureB.isSensor {
			continue
		}

		// Tentatively advance the body to the TOI.
		backup := other.sweep
		if other.flags&bodyIslandFlag == 0 {
			other.advance(minAlpha)
		}

		// Update the contact points
		contact.update(listener)

		// Was the contact disabled by the user? Are there contact points?
		if !contact.IsEnabled() || !contact.IsTouching() {
			other.sweep = backup
			other.synchronizeTransform()
			continue
		}

		// Add the contact to the island
		contact.flags |= contactIslandFlag
		isl.addContact(contact)

		// Has the other body already been added to the island?
		if other.flags&bodyIslandFlag != 0 {
			continue
		}

		// Add the other body to the island.
		other.flags |= bodyIslandFlag

		if other.typ != StaticBody {
			other.SetAwake(true)
		}

		isl.addBody(other)
	}
}

// QueryAABB calls callback for every fixture whose fat AABB overlaps aabb.
func (world *World) QueryAABB(callback QueryCallback, aabb BB) {
	broadPhase := world.contactManager.broadPhase
	broadPhase.Query(aabb, func(proxyID int) bool {
		proxy := broadPhase.UserData(proxyID).(*fixtureProxy)
		return callback(proxy.fixture)
	})
}

// RayCast casts the segment p1-p2 against every fixture the ray's path
// reaches. The callback controls clipping; see RayCastCallback.
func (world *World) RayCast(callback RayCastCallback, p1, p2 Vector) {
	broadPhase := world.contactManager.broadPhase
	input := RayCastInput{P1: p1, P2: p2, MaxFraction: 1.0}

	broadPhase.RayCast(input, func(input RayCastInput, proxyID int) float64 {
		proxy := broadPhase.UserData(proxyID).(*fixtureProxy)
		fixture := proxy.fixture

		output, hit := fixture.RayCast(input, proxy.childIndex)
		if !hit {
			return input.MaxFraction
		}

		fraction := output.Fraction
		point := input.P1.Mult(1.0 - fraction).Add(input.P2.Mult(fraction))
		return callback(fixture, point, output.Normal, fraction)
	})
}

// ShiftOrigin moves the world origin to newOrigin. Useful for large worlds.
// It is ignored while the world is locked.
func (world *World) ShiftOrigin(newOrigin Vector) {
	if world.rejectLocked("World.ShiftOrigin") {
		return
	}

	for b := world.bodyList; b != nil; b = b.next {
		b.xf.P = b.xf.P.Sub(newOrigin)
		b.sweep.C0 = b.sweep.C0.Sub(newOrigin)
		b.sweep.C = b.sweep.C.Sub(newOrigin)
	}

	for j := world.jointList; j != nil; j = j.Next() {
		j.ShiftOrigin(newOrigin)
	}

	world.contactManager.broadPhase.ShiftOrigin(newOrigin)
}

// Contact resolves a contact handle. It returns nil once the contact has
// been destroyed.
func (world *World) Contact(h ContactHandle) *Contact {
	return world.contactManager.contacts.get(h)
}

// BodyList returns the most recently created body. Iterate with Body.Next.
func (world *World) BodyList() *Body {
	return world.bodyList
}

// JointList returns the most recently created joint. Iterate with
// Joint.Next.
func (world *World) JointList() Joint {
	return world.jointList
}

// ContactList returns the head of the world contact list. Contacts are
// created and destroyed in the middle of a step; iterate with Contact.Next.
func (world *World) ContactList() *Contact {
	return world.contactManager.contactList
}

func (world *World) EachBody(f func(*Body)) {
	for b := world.bodyList; b != nil; {
		next := b.next
		f(b)
		b = next
	}
}

func (world *World) EachJoint(f func(Joint)) {
	for j := world.jointList; j != nil; {
		next := j.Next()
		f(j)
		j = next
	}
}

func (world *World) EachContact(f func(*Contact)) {
	for c := world.contactManager.contactList; c != nil; {
		next := c.next
		f(c)
		c = next
	}
}

func (world *World) BodyCount() int {
	return world.bodyCount
}

func (world *World) JointCount() int {
	return world.jointCount
}

func (world *World) ContactCount() int {
	return world.contactManager.contactCount
}

// ProxyCount is the number of broad-phase proxies.
func (world *World) ProxyCount() int {
	return world.contactManager.broadPhase.ProxyCount()
}

func (world *World) TreeHeight() int {
	return world.contactManager.broadPhase.TreeHeight()
}

func (world *World) TreeBalance() int {
	return world.contactManager.broadPhase.TreeBalance()
}

// TreeQuality is the ratio of the sum of node perimeters to the root
// perimeter.
func (world *World) TreeQuality() float64 {
	return world.contactManager.broadPhase.TreeQuality()
}

// Profile returns the phase timings of the last Step.
func (world *World) Profile() Profile {
	return world.profile
}

func (world *World) SetGravity(gravity Vector) {
	world.gravity = gravity
}

func (world *World) Gravity() Vector {
	return world.gravity
}

// SetAllowSleeping turns sleeping on or off. Turning it off wakes every
// body.
func (world *World) SetAllowSleeping(flag bool) {
	if flag == world.allowSleep {
		return
	}

	world.allowSleep = flag
	if !world.allowSleep {
		for b := world.bodyList; b != nil; b = b.next {
			b.SetAwake(true)
		}
	}
}

func (world *World) AllowSleeping() bool {
	return world.allowSleep
}

func (world *World) SetWarmStarting(flag bool) {
	world.warmStarting = flag
}

func (world *World) WarmStarting() bool {
	return world.warmStarting
}

func (world *World) SetContinuousPhysics(flag bool) {
	world.continuousPhysics = flag
}

func (world *World) ContinuousPhysics() bool {
	return world.continuousPhysics
}

// SetSubStepping makes each Step process at most one TOI event.
func (world *World) SetSubStepping(flag bool) {
	world.subStepping = flag
}

func (world *World) SubStepping() bool {
	return world.subStepping
}

func (world *World) SetAutoClearForces(flag bool) {
	if flag {
		world.flags |= worldClearForces
	} else {
		world.flags &^= worldClearForces
	}
}

func (world *World) AutoClearForces() bool {
	return world.flags&worldClearForces != 0
}
