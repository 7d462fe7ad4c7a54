package physics

// Filter holds contact filtering data.
type Filter struct {
	// The collision category bits. Normally you would just set one bit.
	CategoryBits uint16
	// The collision mask bits: the categories this shape accepts for
	// collision.
	MaskBits uint16
	// Fixtures in the same group always collide (positive index) or never
	// collide (negative index). Zero means no group.
	GroupIndex int16
}

// DefaultFilter collides with everything.
func DefaultFilter() Filter {
	return Filter{CategoryBits: 0x0001, MaskBits: 0xFFFF}
}

// FixtureDef is used to create a fixture. Start from NewFixtureDef.
type FixtureDef struct {
	// The shape is cloned, so it may be reused.
	Shape Shape

	// Usually in the range [0,1].
	Friction float64
	// Usually in the range [0,1].
	Restitution float64
	// Usually in kg/m^2.
	Density float64

	// A sensor collects contact information but never generates a
	// collision response.
	IsSensor bool

	Filter Filter

	UserData interface{}
}

func NewFixtureDef(shape Shape) FixtureDef {
	return FixtureDef{
		Shape:    shape,
		Friction: 0.2,
		Filter:   DefaultFilter(),
	}
}

// fixtureProxy ties one shape child to a broad-phase proxy.
type fixtureProxy struct {
	bb         BB
	fixture    *Fixture
	childIndex int
	proxyID    int
}

// Fixture attaches a shape to a body for collision detection. It owns its
// shape and one broad-phase proxy per shape child.
type Fixture struct {
	density float64

	next *Fixture
	body *Body

	shape Shape

	friction    float64
	restitution float64

	proxies []fixtureProxy

	filter Filter

	isSensor bool

	UserData interface{}
}

func newFixture(body *Body, def *FixtureDef) *Fixture {
	assert(def.Shape != nil, "fixture without shape")
	assert(def.Density >= 0, "negative density")

	return &Fixture{
		UserData:    def.UserData,
		friction:    def.Friction,
		restitution: def.Restitution,
		body:        body,
		filter:      def.Filter,
		isSensor:    def.IsSensor,
		shape:       def.Shape.Clone(),
		density:     def.Density,
	}
}

func (fixture *Fixture) Type() ShapeKind {
	return fixture.shape.Kind()
}

// Shape returns the fixture's own copy of the shape. Do not modify its
// geometry while the fixture is attached.
func (fixture *Fixture) Shape() Shape {
	return fixture.shape
}

func (fixture *Fixture) Body() *Body {
	return fixture.body
}

// Next is the next fixture in the body's fixture list.
func (fixture *Fixture) Next() *Fixture {
	return fixture.next
}

// SetSensor toggles sensor mode and wakes the body.
func (fixture *Fixture) SetSensor(sensor bool) {
	if sensor != fixture.isSensor {
		fixture.body.SetAwake(true)
		fixture.isSensor = sensor
	}
}

func (fixture *Fixture) IsSensor() bool {
	return fixture.isSensor
}

// SetFilterData replaces the filter and schedules affected contacts for
// re-filtering.
func (fixture *Fixture) SetFilterData(filter Filter) {
	fixture.filter = filter
	fixture.Refilter()
}

func (fixture *Fixture) FilterData() Filter {
	return fixture.filter
}

// Refilter flags the fixture's contacts for filtering and touches its
// proxies so new pairs are found on the next step.
func (fixture *Fixture) Refilter() {
	if fixture.body == nil {
		return
	}

	for edge := fixture.body.contactList; edge != nil; edge = edge.Next {
		contact := edge.Contact
		if contact.fixtureA == fixture || contact.fixtureB == fixture {
			contact.FlagForFiltering()
		}
	}

	world := fixture.body.world
	if world == nil {
		return
	}

	broadPhase := world.contactManager.broadPhase
	for i := range fixture.proxies {
		broadPhase.TouchProxy(fixture.proxies[i].proxyID)
	}
}

// TestPoint reports whether a world point is inside the shape.
func (fixture *Fixture) TestPoint(p Vector) bool {
	return fixture.shape.TestPoint(fixture.body.Transform(), p)
}

// RayCast casts a ray against one shape child.
func (fixture *Fixture) RayCast(input RayCastInput, childIndex int) (RayCastOutput, bool) {
	return fixture.shape.RayCast(input, fixture.body.Transform(), childIndex)
}

// MassData computes the shape's mass properties from the fixture density.
func (fixture *Fixture) MassData() MassData {
	return fixture.shape.ComputeMass(fixture.density)
}

// SetDensity changes the density. Call Body.ResetMassData to update the
// body's mass.
func (fixture *Fixture) SetDensity(density float64) {
	assert(IsValid(density) && density >= 0, "bad density")
	fixture.density = density
}

func (fixture *Fixture) Density() float64 {
	return fixture.density
}

// SetFriction does not change the friction of existing contacts.
func (fixture *Fixture) SetFriction(friction float64) {
	fixture.friction = friction
}

func (fixture *Fixture) Friction() float64 {
	return fixture.friction
}

// SetRestitution does not change the restitution of existing contacts.
func (fixture *Fixture) SetRestitution(restitution float64) {
	fixture.restitution = restitution
}

func (fixture *Fixture) Restitution() float64 {
	return fixture.restitution
}

// AABB returns the fat box of a shape child. It may be stale and is only
// meaningful while the body is active.
func (fixture *Fixture) AABB(childIndex int) BB {
	assert(0 <= childIndex && childIndex < len(fixture.proxies), "child out of range")
	return fixture.proxies[childIndex].bb
}

// ProxyCount is the number of broad-phase proxies (one per child while the
// body is active).
func (fixture *Fixture) ProxyCount() int {
	return len(fixture.proxies)
}

func (fixture *Fixture) createProxies(broadPhase *BroadPhase, xf Transform) {
	assert(len(fixture.proxies) == 0, "proxies already created")

	count := fixture.shape.ChildCount()
	fixture.proxies = make([]fixtureProxy, count)
	for i := 0; i < count; i++ {
		proxy := &fixture.proxies[i]
		proxy.bb = fixture.shape.ComputeAABB(xf, i)
		proxy.fixture = fixture
		proxy.childIndex = i
		proxy.proxyID = broadPhase.CreateProxy(proxy.bb, proxy)
	}
}

func (fixture *Fixture) destroyProxies(broadPhase *BroadPhase) {
	for i := range fixture.proxies {
		broadPhase.DestroyProxy(fixture.proxies[i].proxyID)
		fixture.proxies[i].proxyID = nullNode
	}
	fixture.proxies = nil
}

// synchronize covers the motion from xf1 to xf2 with each child's box.
func (fixture *Fixture) synchronize(broadPhase *BroadPhase, xf1, xf2 Transform) {
	for i := range fixture.proxies {
		proxy := &fixture.proxies[i]

		// Compute a box that covers the swept shape (may miss some rotation
		// effect).
		bb1 := fixture.shape.ComputeAABB(xf1, proxy.childIndex)
		bb2 := fixture.shape.ComputeAABB(xf2, proxy.childIndex)
		proxy.bb = bb1.Merge(bb2)

		displacement := xf2.P.Sub(xf1.P)
		broadPhase.MoveProxy(proxy.proxyID, proxy.bb, displacement)
	}
}
