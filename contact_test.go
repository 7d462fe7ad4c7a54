package physics

import (
	"math"
	"testing"
)

type eventRecorder struct {
	events []string
	begun  map[*Contact]bool
	t      *testing.T
}

func newEventRecorder(t *testing.T) *eventRecorder {
	return &eventRecorder{begun: map[*Contact]bool{}, t: t}
}

func (r *eventRecorder) BeginContact(contact *Contact) {
	if r.begun[contact] {
		r.t.Error("BeginContact twice without EndContact")
	}
	r.begun[contact] = true
	r.events = append(r.events, "begin")
}

func (r *eventRecorder) EndContact(contact *Contact) {
	if !r.begun[contact] {
		r.t.Error("EndContact without BeginContact")
	}
	delete(r.begun, contact)
	r.events = append(r.events, "end")
}

func (r *eventRecorder) PreSolve(contact *Contact, oldManifold *Manifold) {
	if !r.begun[contact] {
		r.t.Error("PreSolve before BeginContact")
	}
	r.events = append(r.events, "pre")
}

func (r *eventRecorder) PostSolve(contact *Contact, impulse *ContactImpulse) {
	if !r.begun[contact] {
		r.t.Error("PostSolve before BeginContact")
	}
	if impulse.Count != contact.Manifold().PointCount {
		r.t.Errorf("Impulse count %v does not match manifold %v", impulse.Count, contact.Manifold().PointCount)
	}
	r.events = append(r.events, "post")
}

func (r *eventRecorder) count(name string) int {
	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}
	return n
}

func TestContact_ListenerOrder(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	recorder := newEventRecorder(t)
	world.SetContactListener(recorder)
	world.SetAllowSleeping(false)
	addGround(world)
	box := addBox(world, Vector{0, 2}, 0.5, 0.5)

	stepN(world, 120)
	if recorder.count("begin") != 1 {
		t.Fatalf("Expected one begin, got %v", recorder.events)
	}
	if recorder.events[0] != "begin" {
		t.Errorf("Expected begin first, got %v", recorder.events[0])
	}
	if recorder.count("pre") == 0 || recorder.count("pre") != recorder.count("post") {
		t.Errorf("Unbalanced pre/post solve: %v/%v", recorder.count("pre"), recorder.count("post"))
	}

	box.SetTransform(Vector{0, 20}, 0)
	stepN(world, 1)
	if recorder.count("end") != 1 || recorder.events[len(recorder.events)-1] != "end" {
		t.Errorf("Expected an end event after teleporting away, got %v", recorder.events[len(recorder.events)-3:])
	}
	if world.ContactCount() != 0 {
		t.Errorf("Expected the contact to be destroyed, got %v", world.ContactCount())
	}
}

func TestContact_EndOnDestroy(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	recorder := newEventRecorder(t)
	world.SetContactListener(recorder)
	addGround(world)
	box := addBox(world, Vector{0, 0.45}, 0.5, 0.5)

	stepN(world, 2)
	world.DestroyBody(box)
	if recorder.count("end") != 1 {
		t.Errorf("Expected end on destroy, got %v", recorder.events)
	}
}

func TestContact_Handle(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	addGround(world)
	box := addBox(world, Vector{0, 0.45}, 0.5, 0.5)
	stepN(world, 1)

	c := world.ContactList()
	if c == nil {
		t.Fatal("Expected a contact")
	}
	h := c.Handle()
	if h.IsNil() || world.Contact(h) != c {
		t.Fatal("Handle does not resolve to its contact")
	}

	world.DestroyBody(box)
	if world.Contact(h) != nil {
		t.Error("Stale handle still resolves")
	}

	// The freed slot is reused, the old handle stays stale.
	addBox(world, Vector{0, 0.45}, 0.5, 0.5)
	stepN(world, 1)
	if world.ContactCount() != 1 {
		t.Fatalf("Expected a new contact, got %v", world.ContactCount())
	}
	if world.Contact(h) != nil {
		t.Error("Stale handle resolves to a reused slot")
	}
	if world.Contact(world.ContactList().Handle()) != world.ContactList() {
		t.Error("New handle does not resolve")
	}
	if world.Contact(ContactHandle{}) != nil {
		t.Error("Zero handle resolves")
	}
}

func TestContact_Arena(t *testing.T) {
	arena := newContactArena()
	a := arena.alloc()
	b := arena.alloc()
	ha, hb := a.handle, b.handle

	if !arena.release(a) {
		t.Fatal("Release failed")
	}
	if arena.release(a) {
		t.Error("Double release succeeded")
	}
	c := arena.alloc()
	if c != a {
		t.Error("Expected the freed slot to be reused")
	}
	if arena.get(ha) != nil || arena.get(c.handle) != c || arena.get(hb) != b {
		t.Error("Handles resolve incorrectly after reuse")
	}
	if arena.Count() != 2 {
		t.Errorf("Expected 2 live contacts, got %v", arena.Count())
	}
}

func TestContact_PairSet(t *testing.T) {
	set := newPairSet()
	fa, fb, fc := &Fixture{}, &Fixture{}, &Fixture{}

	c1 := &Contact{fixtureA: fa, fixtureB: fb, pairHash: HashPair(1, 2)}
	c2 := &Contact{fixtureA: fa, fixtureB: fc, pairHash: HashPair(1, 3)}
	// Same bin as c1.
	c3 := &Contact{fixtureA: fb, fixtureB: fc, pairHash: HashPair(1, 2)}
	set.Insert(c1)
	set.Insert(c2)
	set.Insert(c3)

	if HashPair(1, 2) != HashPair(2, 1) {
		t.Error("HashPair is not symmetric")
	}
	if set.Find(HashPair(2, 1), fb, 0, fa, 0) != c1 {
		t.Error("Find misses the reversed pair")
	}
	if set.Find(HashPair(1, 2), fb, 0, fc, 0) != c3 {
		t.Error("Find misses the colliding entry")
	}

	if !set.Remove(c1) || set.Remove(c1) {
		t.Error("Remove reported the wrong result")
	}
	if set.Find(HashPair(1, 2), fa, 0, fb, 0) != nil {
		t.Error("Removed contact still found")
	}
	if set.Find(HashPair(1, 2), fb, 0, fc, 0) != c3 {
		t.Error("Removing a bin entry lost its neighbour")
	}

	n := 0
	set.Each(func(*Contact) { n++ })
	if n != 2 || set.Count() != 2 {
		t.Errorf("Expected 2 entries, got %v/%v", n, set.Count())
	}
}

func TestContact_FilterGroups(t *testing.T) {
	world := newTestWorld(Vector{})
	a := addBox(world, Vector{}, 0.5, 0.5)
	b := addBox(world, Vector{0.5, 0}, 0.5, 0.5)

	filter := DefaultFilter()
	filter.GroupIndex = -1
	a.FixtureList().SetFilterData(filter)
	b.FixtureList().SetFilterData(filter)

	stepN(world, 1)
	if world.ContactCount() != 0 {
		t.Fatalf("Negative group collided: %v contacts", world.ContactCount())
	}

	filter.GroupIndex = 0
	filter.CategoryBits = 0x0002
	filter.MaskBits = 0x0004
	b.FixtureList().SetFilterData(filter)
	stepN(world, 1)
	if world.ContactCount() != 0 {
		t.Fatalf("Mask mismatch collided: %v contacts", world.ContactCount())
	}

	b.FixtureList().SetFilterData(DefaultFilter())
	a.FixtureList().SetFilterData(DefaultFilter())
	stepN(world, 1)
	if world.ContactCount() != 1 {
		t.Fatalf("Expected a contact after refiltering, got %v", world.ContactCount())
	}

	// Refiltering an existing contact out destroys it.
	filter = DefaultFilter()
	filter.GroupIndex = -3
	a.FixtureList().SetFilterData(filter)
	b.FixtureList().SetFilterData(filter)
	stepN(world, 1)
	if world.ContactCount() != 0 {
		t.Errorf("Expected the contact to be filtered out, got %v", world.ContactCount())
	}
}

func TestContact_FilterDefault(t *testing.T) {
	fa := &Fixture{filter: DefaultFilter()}
	fb := &Fixture{filter: DefaultFilter()}
	var filter DefaultContactFilter

	cases := []struct {
		a, b Filter
		want bool
	}{
		{DefaultFilter(), DefaultFilter(), true},
		{Filter{CategoryBits: 1, MaskBits: 2}, Filter{CategoryBits: 2, MaskBits: 1}, true},
		{Filter{CategoryBits: 1, MaskBits: 2}, Filter{CategoryBits: 2, MaskBits: 2}, false},
		{Filter{CategoryBits: 1, MaskBits: 0, GroupIndex: 4}, Filter{CategoryBits: 1, MaskBits: 0, GroupIndex: 4}, true},
		{Filter{CategoryBits: 1, MaskBits: 0xFFFF, GroupIndex: -4}, Filter{CategoryBits: 1, MaskBits: 0xFFFF, GroupIndex: -4}, false},
		{Filter{CategoryBits: 1, MaskBits: 0xFFFF, GroupIndex: -4}, Filter{CategoryBits: 1, MaskBits: 0xFFFF, GroupIndex: -5}, true},
	}
	for i, c := range cases {
		fa.filter = c.a
		fb.filter = c.b
		if got := filter.ShouldCollide(fa, fb); got != c.want {
			t.Errorf("Case %v: expected %v, got %v", i, c.want, got)
		}
	}
}

func TestContact_JointDisablesCollision(t *testing.T) {
	world := newTestWorld(Vector{})
	a := addBox(world, Vector{}, 0.5, 0.5)
	b := addBox(world, Vector{0.5, 0}, 0.5, 0.5)
	stepN(world, 1)
	if world.ContactCount() != 1 {
		t.Fatalf("Expected a contact, got %v", world.ContactCount())
	}

	jd := NewRevoluteJointDef()
	jd.Initialize(a, b, Vector{0.25, 0})
	world.CreateJoint(jd)
	stepN(world, 1)
	if world.ContactCount() != 0 {
		t.Errorf("Joint did not filter the contact, got %v", world.ContactCount())
	}
}

func TestContact_Sensor(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	recorder := newEventRecorder(t)
	world.SetContactListener(recorder)

	def := NewBodyDef()
	region := world.CreateBody(&def)
	fd := NewFixtureDef(NewBox(2, 0.5))
	fd.IsSensor = true
	region.CreateFixture(&fd)

	ball := addBall(world, Vector{0, 3}, 0.25)
	stepN(world, 120)

	if recorder.count("begin") != 1 || recorder.count("end") != 1 {
		t.Errorf("Expected the ball to enter and leave the sensor, got %v", recorder.events)
	}
	if recorder.count("pre") != 0 {
		t.Error("Sensor contacts must not reach the solver")
	}
	if ball.Position().Y > -1 {
		t.Errorf("Sensor stopped the ball at %v", ball.Position())
	}
}

func TestContact_DisableInPreSolve(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	world.SetContactListener(&CollisionHandler{
		PreSolveFunc: func(contact *Contact, _ *Manifold, _ interface{}) {
			contact.SetEnabled(false)
		},
	})
	addGround(world)
	box := addBox(world, Vector{0, 1}, 0.5, 0.5)
	world.SetContinuousPhysics(false)

	stepN(world, 60)
	if box.Position().Y > -0.5 {
		t.Errorf("Disabled contact still supported the box at %v", box.Position())
	}
}

func TestContact_Overrides(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	addGround(world)
	box := addBox(world, Vector{0, 0.45}, 0.5, 0.5)
	box.FixtureList().SetFriction(0.8)
	stepN(world, 1)

	c := world.ContactList()
	if math.Abs(c.Friction()-math.Sqrt(0.8*0.2)) > 1e-9 {
		t.Errorf("Expected mixed friction, got %v", c.Friction())
	}
	c.SetFriction(0)
	c.SetRestitution(0.5)
	if c.Friction() != 0 || c.Restitution() != 0.5 {
		t.Error("Overrides not stored")
	}
	c.ResetFriction()
	c.ResetRestitution()
	if math.Abs(c.Friction()-math.Sqrt(0.8*0.2)) > 1e-9 || c.Restitution() != 0 {
		t.Error("Reset did not restore the mixed values")
	}

	// A conveyor contact drags the box along.
	world.SetContactListener(&CollisionHandler{
		PreSolveFunc: func(contact *Contact, _ *Manifold, _ interface{}) {
			contact.SetTangentSpeed(2)
		},
	})
	stepN(world, 60)
	if math.Abs(box.LinearVelocity().X) < 0.5 {
		t.Errorf("Tangent speed had no effect: %v", box.LinearVelocity())
	}
}

func TestContact_WarmStart(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	addGround(world)
	box := addBox(world, Vector{0, 0.5}, 0.5, 0.5)

	persisted := 0
	checked := 0
	world.SetContactListener(&CollisionHandler{
		PreSolveFunc: func(contact *Contact, oldManifold *Manifold, _ interface{}) {
			_, state2 := PointStates(oldManifold, contact.Manifold())
			for i := 0; i < contact.Manifold().PointCount; i++ {
				checked++
				if state2[i] == PointStatePersist {
					persisted++
				}
			}
		},
	})
	world.SetAllowSleeping(false)
	stepN(world, 30)
	checked, persisted = 0, 0
	stepN(world, 60)

	if checked == 0 || persisted != checked {
		t.Errorf("Expected every resting point to persist, got %v of %v", persisted, checked)
	}

	// At rest the stored impulses carry the box's weight.
	m := world.ContactList().Manifold()
	total := 0.0
	for i := 0; i < m.PointCount; i++ {
		total += m.Points[i].NormalImpulse
	}
	want := box.Mass() * 10 * dt
	if math.Abs(total-want) > 0.05*want {
		t.Errorf("Expected accumulated impulse %v, got %v", want, total)
	}
}

func TestContact_WorldManifold(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	addGround(world)
	addBox(world, Vector{0, 0.5}, 0.5, 0.5)
	stepN(world, 30)

	c := world.ContactList()
	if !c.IsTouching() {
		t.Fatal("Expected a touching contact")
	}
	wm := c.WorldManifold()
	normal := wm.Normal
	if c.FixtureA().Body().Type() != StaticBody {
		normal = normal.Neg()
	}
	if !normal.Near(Vector{0, 1}, 1e-6) {
		t.Errorf("Expected the normal to point from ground to box, got %v", wm.Normal)
	}
	for i := 0; i < c.Manifold().PointCount; i++ {
		if math.Abs(wm.Points[i].Y) > 0.02 {
			t.Errorf("Contact point %v off the ground surface: %v", i, wm.Points[i])
		}
	}
}
