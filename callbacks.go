package physics

// ContactFilter decides whether two fixtures may generate a contact. It is
// consulted when the broad phase first reports the pair and again after
// Fixture.Refilter.
type ContactFilter interface {
	ShouldCollide(fixtureA, fixtureB *Fixture) bool
}

// DefaultContactFilter implements the category/mask/group rules. Fixtures
// sharing a non-zero group index always collide (positive) or never collide
// (negative); otherwise each fixture's category must be in the other's mask.
type DefaultContactFilter struct{}

func (DefaultContactFilter) ShouldCollide(fixtureA, fixtureB *Fixture) bool {
	filterA := fixtureA.filter
	filterB := fixtureB.filter

	if filterA.GroupIndex == filterB.GroupIndex && filterA.GroupIndex != 0 {
		return filterA.GroupIndex > 0
	}

	return filterA.MaskBits&filterB.CategoryBits != 0 && filterA.CategoryBits&filterB.MaskBits != 0
}

// ContactImpulse reports the impulses the solver applied to a contact. The
// values match the manifold point order.
type ContactImpulse struct {
	NormalImpulses  [MaxManifoldPoints]float64
	TangentImpulses [MaxManifoldPoints]float64
	Count           int
}

// ContactListener receives contact events. All callbacks run inside Step
// while the world is locked, so they must not create or destroy bodies,
// fixtures or joints.
type ContactListener interface {
	// BeginContact is called when two fixtures begin to touch.
	BeginContact(contact *Contact)
	// EndContact is called when two fixtures cease to touch, including when
	// a touching contact is destroyed.
	EndContact(contact *Contact)
	// PreSolve is called after the manifold is updated and before the
	// solver runs. Disabling the contact here skips it for this step only.
	PreSolve(contact *Contact, oldManifold *Manifold)
	// PostSolve reports the impulses applied by the solver.
	PostSolve(contact *Contact, impulse *ContactImpulse)
}

// CollisionHandler adapts plain functions to a ContactListener. Nil funcs
// are skipped.
type CollisionHandler struct {
	BeginFunc     func(contact *Contact, userData interface{})
	EndFunc       func(contact *Contact, userData interface{})
	PreSolveFunc  func(contact *Contact, oldManifold *Manifold, userData interface{})
	PostSolveFunc func(contact *Contact, impulse *ContactImpulse, userData interface{})

	UserData interface{}
}

func (handler *CollisionHandler) BeginContact(contact *Contact) {
	if handler.BeginFunc != nil {
		handler.BeginFunc(contact, handler.UserData)
	}
}

func (handler *CollisionHandler) EndContact(contact *Contact) {
	if handler.EndFunc != nil {
		handler.EndFunc(contact, handler.UserData)
	}
}

func (handler *CollisionHandler) PreSolve(contact *Contact, oldManifold *Manifold) {
	if handler.PreSolveFunc != nil {
		handler.PreSolveFunc(contact, oldManifold, handler.UserData)
	}
}

func (handler *CollisionHandler) PostSolve(contact *Contact, impulse *ContactImpulse) {
	if handler.PostSolveFunc != nil {
		handler.PostSolveFunc(contact, impulse, handler.UserData)
	}
}

// DestructionListener is told about joints and fixtures that are destroyed
// implicitly because their body was destroyed.
type DestructionListener interface {
	SayGoodbyeJoint(joint Joint)
	SayGoodbyeFixture(fixture *Fixture)
}

// QueryCallback is called for each fixture whose fat AABB overlaps the
// query box. Return false to stop the query.
type QueryCallback func(fixture *Fixture) bool

// RayCastCallback is called for each fixture hit by the ray. The return
// value clips the ray:
//
//	-1: ignore this fixture and continue
//	 0: terminate the ray cast
//	 fraction: clip the ray to this point
//	 1: don't clip the ray and continue
type RayCastCallback func(fixture *Fixture, point, normal Vector, fraction float64) float64
