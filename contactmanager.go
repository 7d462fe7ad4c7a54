package physics

import "log"

// contactManager creates contacts for new broad-phase pairs, keeps them up
// to date each step and destroys them once their fat AABBs stop
// overlapping.
type contactManager struct {
	broadPhase *BroadPhase

	contactList  *Contact
	contactCount int

	contacts *contactArena
	pairs    *pairSet

	contactFilter   ContactFilter
	contactListener ContactListener

	logger *log.Logger
}

func newContactManager() contactManager {
	return contactManager{
		broadPhase:    NewBroadPhase(),
		contacts:      newContactArena(),
		pairs:         newPairSet(),
		contactFilter: DefaultContactFilter{},
		logger:        log.Default(),
	}
}

// destroy ends, unlinks and releases a contact.
func (mgr *contactManager) destroy(c *Contact) {
	fixtureA := c.fixtureA
	fixtureB := c.fixtureB
	bodyA := fixtureA.body
	bodyB := fixtureB.body

	if mgr.contactListener != nil && c.IsTouching() {
		mgr.contactListener.EndContact(c)
	}

	// Remove from the world.
	if c.prev != nil {
		c.prev.next = c.next
	}
	if c.next != nil {
		c.next.prev = c.prev
	}
	if c == mgr.contactList {
		mgr.contactList = c.next
	}

	// Remove from body 1
	if c.nodeA.Prev != nil {
		c.nodeA.Prev.Next = c.nodeA.Next
	}
	if c.nodeA.Next != nil {
		c.nodeA.Next.Prev = c.nodeA.Prev
	}
	if &c.nodeA == bodyA.contactList {
		bodyA.contactList = c.nodeA.Next
	}

	// Remove from body 2
	if c.nodeB.Prev != nil {
		c.nodeB.Prev.Next = c.nodeB.Next
	}
	if c.nodeB.Next != nil {
		c.nodeB.Next.Prev = c.nodeB.Prev
	}
	if &c.nodeB == bodyB.contactList {
		bodyB.contactList = c.nodeB.Next
	}

	if c.manifold.PointCount > 0 && !fixtureA.isSensor && !fixtureB.isSensor {
		bodyA.SetAwake(true)
		bodyB.SetAwake(true)
	}

	if !mgr.pairs.Remove(c) {
		mgr.logger.Println("physics: Internal Error: contact missing from pair set")
	}
	if !mgr.contacts.release(c) {
		mgr.logger.Printf("physics: Internal Error: contact %v released with a stale handle", c.handle)
	}
	mgr.contactCount--
}

// collide is the top level narrow phase call for the time step. It filters,
// culls and updates every contact in the world contact list.
func (mgr *contactManager) collide() {
	c := mgr.contactList
	for c != nil {
		fixtureA := c.fixtureA
		fixtureB := c.fixtureB
		indexA := c.indexA
		indexB := c.indexB
		bodyA := fixtureA.body
		bodyB := fixtureB.body

		// Is this contact flagged for filtering?
		if c.flags&contactFilterFlag != 0 {
			// Should these bodies collide?
			if !bodyB.shouldCollide(bodyA) {
				cNuke := c
				c = cNuke.next
				mgr.destroy(cNuke)
				continue
			}

			// Check user filtering.
			if mgr.contactFilter != nil && !mgr.contactFilter.ShouldCollide(fixtureA, fixtureB) {
				cNuke := c
				c = cNuke.next
				mgr.destroy(cNuke)
				continue
			}

			c.flags &^= contactFilterFlag
		}

		activeA := bodyA.IsAwake() && bodyA.typ != StaticBody
		activeB := bodyB.IsAwake() && bodyB.typ != StaticBody

		// At least one body must be awake and it must be dynamic or kinematic.
		if !activeA && !activeB {
			c = c.next
			continue
		}

		proxyIDA := fixtureA.proxies[indexA].proxyID
		proxyIDB := fixtureB.proxies[indexB].proxyID

		// Destroy contacts that cease to overlap in the broad phase.
		if !mgr.broadPhase.TestOverlap(proxyIDA, proxyIDB) {
			cNuke := c
			c = cNuke.next
			mgr.destroy(cNuke)
			continue
		}

		// The contact persists.
		c.update(mgr.contactListener)
		c = c.next
	}
}

func (mgr *contactManager) findNewContacts() {
	mgr.broadPhase.UpdatePairs(mgr.addPair)
}

// addPair is the broad-phase callback for a new pair of overlapping
// proxies.
func (mgr *contactManager) addPair(userDataA, userDataB interface{}) {
	proxyA := userDataA.(*fixtureProxy)
	proxyB := userDataB.(*fixtureProxy)

	fixtureA := proxyA.fixture
	fixtureB := proxyB.fixture

	indexA := proxyA.childIndex
	indexB := proxyB.childIndex

	bodyA := fixtureA.body
	bodyB := fixtureB.body

	// Are the fixtures on the same body?
	if bodyA == bodyB {
		return
	}

	// Does a contact already exist?
	hash := HashPair(proxyA.proxyID, proxyB.proxyID)
	if mgr.pairs.Find(hash, fixtureA, indexA, fixtureB, indexB) != nil {
		return
	}

	// Does a joint override collision? Is at least one body dynamic?
	if !bodyB.shouldCollide(bodyA) {
		return
	}

	// Check user filtering.
	if mgr.contactFilter != nil && !mgr.contactFilter.ShouldCollide(fixtureA, fixtureB) {
		return
	}

	evaluate, primary := lookupManifold(fixtureA.shape.Kind(), fixtureB.shape.Kind())
	if evaluate == nil {
		return
	}

	// The manifold functions take their shapes in table order.
	if !primary {
		fixtureA, fixtureB = fixtureB, fixtureA
		indexA, indexB = indexB, indexA
		bodyA, bodyB = bodyB, bodyA
	}

	c := mgr.contacts.alloc()
	c.init(fixtureA, indexA, fixtureB, indexB, evaluate)
	c.pairHash = hash
	mgr.pairs.Insert(c)

	// Insert into the world.
	c.prev = nil
	c.next = mgr.contactList
	if mgr.contactList != nil {
		mgr.contactList.prev = c
	}
	mgr.contactList = c

	// Connect to body A
	c.nodeA.Contact = c
	c.nodeA.Other = bodyB

	c.nodeA.Prev = nil
	c.nodeA.Next = bodyA.contactList
	if bodyA.contactList != nil {
		bodyA.contactList.Prev = &c.nodeA
	}
	bodyA.contactList = &c.nodeA

	// Connect to body B
	c.nodeB.Contact = c
	c.nodeB.Other = bodyA

	c.nodeB.Prev = nil
	c.nodeB.Next = bodyB.contactList
	if bodyB.contactList != nil {
		bodyB.contactList.Prev = &c.nodeB
	}
	bodyB.contactList = &c.nodeB

	// Wake up the bodies
	if !fixtureA.isSensor && !fixtureB.isSensor {
		bodyA.SetAwake(true)
		bodyB.SetAwake(true)
	}

	mgr.contactCount++
}
