package physics

type contactFlags uint8

const (
	// Used when crawling the contact graph to build islands.
	contactIslandFlag contactFlags = 1 << iota
	// Set when the shapes are touching.
	contactTouchingFlag
	// This contact can be disabled by the user for one step.
	contactEnabledFlag
	// This contact needs filtering because a fixture filter was changed.
	contactFilterFlag
	// This bullet contact had a TOI event.
	contactBulletHitFlag
	// This contact has a valid cached TOI.
	contactToiFlag
)

// ContactEdge connects a body to the contacts it takes part in. Each
// contact has two edges, one in each body's contact list.
type ContactEdge struct {
	// Other is the body on the other side of the contact.
	Other   *Body
	Contact *Contact

	Prev, Next *ContactEdge
}

// Contact manages the contact between two fixture children. A contact
// exists for each overlapping pair of fat AABBs in the broad phase, so it
// may exist without any contact points.
type Contact struct {
	handle ContactHandle
	flags  contactFlags

	// World contact list.
	prev, next *Contact

	// Nodes for connecting bodies.
	nodeA, nodeB ContactEdge

	fixtureA, fixtureB *Fixture
	indexA, indexB     int
	pairHash           HashValue

	evaluate ManifoldFunc
	manifold Manifold

	toiCount int
	toi      float64

	friction     float64
	restitution  float64
	tangentSpeed float64
}

func (c *Contact) init(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int, evaluate ManifoldFunc) {
	c.flags = contactEnabledFlag

	c.fixtureA = fixtureA
	c.fixtureB = fixtureB
	c.indexA = indexA
	c.indexB = indexB
	c.evaluate = evaluate

	c.manifold.PointCount = 0

	c.prev = nil
	c.next = nil

	c.nodeA = ContactEdge{}
	c.nodeB = ContactEdge{}

	c.toiCount = 0

	c.friction = MixFriction(fixtureA.friction, fixtureB.friction)
	c.restitution = MixRestitution(fixtureA.restitution, fixtureB.restitution)
	c.tangentSpeed = 0
}

// Handle returns a reference that resolves through World.Contact for as long
// as the contact lives.
func (c *Contact) Handle() ContactHandle {
	return c.handle
}

// Manifold returns the local manifold. Modifying it is only meaningful
// inside ContactListener.PreSolve.
func (c *Contact) Manifold() *Manifold {
	return &c.manifold
}

// WorldManifold returns the manifold in world coordinates.
func (c *Contact) WorldManifold() WorldManifold {
	bodyA := c.fixtureA.body
	bodyB := c.fixtureB.body
	shapeA := c.fixtureA.shape
	shapeB := c.fixtureB.shape

	return NewWorldManifold(&c.manifold, bodyA.xf, shapeA.Radius(), bodyB.xf, shapeB.Radius())
}

// IsTouching reports whether the shapes touch or, for sensors, overlap.
func (c *Contact) IsTouching() bool {
	return c.flags&contactTouchingFlag != 0
}

// SetEnabled enables or disables the contact. This can be used inside
// PreSolve; it only lasts for the current step.
func (c *Contact) SetEnabled(flag bool) {
	if flag {
		c.flags |= contactEnabledFlag
	} else {
		c.flags &^= contactEnabledFlag
	}
}

func (c *Contact) IsEnabled() bool {
	return c.flags&contactEnabledFlag != 0
}

// Next returns the next contact in the world contact list.
func (c *Contact) Next() *Contact {
	return c.next
}

func (c *Contact) FixtureA() *Fixture {
	return c.fixtureA
}

func (c *Contact) ChildIndexA() int {
	return c.indexA
}

func (c *Contact) FixtureB() *Fixture {
	return c.fixtureB
}

func (c *Contact) ChildIndexB() int {
	return c.indexB
}

// SetFriction overrides the mixed friction. The value persists for the
// lifetime of the contact, or until ResetFriction.
func (c *Contact) SetFriction(friction float64) {
	c.friction = friction
}

func (c *Contact) Friction() float64 {
	return c.friction
}

func (c *Contact) ResetFriction() {
	c.friction = MixFriction(c.fixtureA.friction, c.fixtureB.friction)
}

func (c *Contact) SetRestitution(restitution float64) {
	c.restitution = restitution
}

func (c *Contact) Restitution() float64 {
	return c.restitution
}

func (c *Contact) ResetRestitution() {
	c.restitution = MixRestitution(c.fixtureA.restitution, c.fixtureB.restitution)
}

// SetTangentSpeed sets the desired surface speed, in meters per second, for
// conveyor belt behavior.
func (c *Contact) SetTangentSpeed(speed float64) {
	c.tangentSpeed = speed
}

func (c *Contact) TangentSpeed() float64 {
	return c.tangentSpeed
}

// FlagForFiltering makes the next Step re-run the contact filter on this
// contact.
func (c *Contact) FlagForFiltering() {
	c.flags |= contactFilterFlag
}

// Evaluate recomputes the manifold from the given transforms without
// touching the contact's stored state.
func (c *Contact) Evaluate(xfA, xfB Transform) Manifold {
	return c.evaluate(c.fixtureA.shape, c.indexA, xfA, c.fixtureB.shape, c.indexB, xfB)
}

// update refreshes the manifold and the touching flag, carrying impulses
// over from matching point ids, and reports touching transitions to the
// listener.
func (c *Contact) update(listener ContactListener) {
	oldManifold := c.manifold

	// Re-enable this contact.
	c.flags |= contactEnabledFlag

	touching := false
	wasTouching := c.flags&contactTouchingFlag != 0

	sensor := c.fixtureA.isSensor || c.fixtureB.isSensor

	bodyA := c.fixtureA.body
	bodyB := c.fixtureB.body
	xfA := bodyA.xf
	xfB := bodyB.xf

	if sensor {
		touching = TestOverlap(c.fixtureA.shape, c.indexA, c.fixtureB.shape, c.indexB, xfA, xfB)

		// Sensors don't generate manifolds.
		c.manifold.PointCount = 0
	} else {
		c.manifold = c.Evaluate(xfA, xfB)
		touching = c.manifold.PointCount > 0

		// Match old contact ids to new contact ids and copy the
		// stored impulses to warm start the solver.
		for i := 0; i < c.manifold.PointCount; i++ {
			mp2 := &c.manifold.Points[i]
			mp2.NormalImpulse = 0
			mp2.TangentImpulse = 0
			key := mp2.ID.Key()

			for j := 0; j < oldManifold.PointCount; j++ {
				mp1 := &oldManifold.Points[j]
				if mp1.ID.Key() == key {
					mp2.NormalImpulse = mp1.NormalImpulse
					mp2.TangentImpulse = mp1.TangentImpulse
					break
				}
			}
		}

		if touching != wasTouching {
			bodyA.SetAwake(true)
			bodyB.SetAwake(true)
		}
	}

	if touching {
		c.flags |= contactTouchingFlag
	} else {
		c.flags &^= contactTouchingFlag
	}

	if listener == nil {
		return
	}

	if !wasTouching && touching {
		listener.BeginContact(c)
	}

	if wasTouching && !touching {
		listener.EndContact(c)
	}

	if !sensor && touching {
		listener.PreSolve(c, &oldManifold)
	}
}
