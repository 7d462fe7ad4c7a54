package physics

import (
	"bytes"
	"io"
	"log"
	"math"
	"strings"
	"testing"
)

const (
	dt                 = 1.0 / 60.0
	velocityIterations = 8
	positionIterations = 3
)

func newTestWorld(gravity Vector) *World {
	world := NewWorld(gravity)
	world.SetLogger(log.New(io.Discard, "", 0))
	return world
}

func addGround(world *World) *Body {
	def := NewBodyDef()
	def.Position = Vector{0, -1}
	ground := world.CreateBody(&def)
	ground.CreateFixtureFromShape(NewBox(20, 1), 0)
	return ground
}

func addBox(world *World, position Vector, hx, hy float64) *Body {
	def := NewBodyDef()
	def.Type = DynamicBody
	def.Position = position
	body := world.CreateBody(&def)
	body.CreateFixtureFromShape(NewBox(hx, hy), 1)
	return body
}

func addBall(world *World, position Vector, radius float64) *Body {
	def := NewBodyDef()
	def.Type = DynamicBody
	def.Position = position
	body := world.CreateBody(&def)
	body.CreateFixtureFromShape(NewCircle(radius, Vector{}), 1)
	return body
}

func stepN(world *World, n int) {
	for i := 0; i < n; i++ {
		world.Step(dt, velocityIterations, positionIterations)
	}
}

func TestWorld_CreateDestroy(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	ground := addGround(world)
	box := addBox(world, Vector{0, 0.4}, 0.5, 0.5)

	if world.BodyCount() != 2 || world.ProxyCount() != 2 {
		t.Fatalf("Expected 2 bodies and proxies, got %v %v", world.BodyCount(), world.ProxyCount())
	}
	if world.BodyList() != box || box.Next() != ground {
		t.Error("Expected most recent body first")
	}
	if math.Abs(box.Mass()-1) > 1e-9 {
		t.Errorf("Expected unit mass, got %v", box.Mass())
	}
	if ground.Mass() != 0 {
		t.Errorf("Expected static body without mass, got %v", ground.Mass())
	}

	stepN(world, 1)
	if world.ContactCount() != 1 {
		t.Fatalf("Expected one contact, got %v", world.ContactCount())
	}

	world.DestroyBody(box)
	if world.BodyCount() != 1 || world.ContactCount() != 0 || world.ProxyCount() != 1 {
		t.Errorf("Unexpected counts after destroy: %v bodies, %v contacts, %v proxies",
			world.BodyCount(), world.ContactCount(), world.ProxyCount())
	}
	if ground.ContactList() != nil {
		t.Error("Ground still references a destroyed contact")
	}
}

func TestWorld_RestingBox(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	addGround(world)
	box := addBox(world, Vector{0, 4}, 0.5, 0.5)

	stepN(world, 180)

	p := box.Position()
	if math.Abs(p.X) > 0.01 || p.Y < 0.49 || p.Y > 0.53 {
		t.Errorf("Expected the box at rest on the ground, got %v", p)
	}
	if box.LinearVelocity().Length() > 0.05 {
		t.Errorf("Expected the box at rest, got velocity %v", box.LinearVelocity())
	}
	if math.Abs(box.Angle()) > 0.01 {
		t.Errorf("Expected the box not to rotate, got %v", box.Angle())
	}
}

func TestWorld_Sleep(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	addGround(world)
	var boxes []*Body
	for i := 0; i < 3; i++ {
		boxes = append(boxes, addBox(world, Vector{0, 0.5 + float64(i)*1.0}, 0.5, 0.5))
	}

	stepN(world, 600)
	for i, b := range boxes {
		if b.IsAwake() {
			t.Errorf("Box %v still awake at %v", i, b.Position())
		}
		if !b.LinearVelocity().Equal(Vector{}) {
			t.Errorf("Sleeping box %v has velocity %v", i, b.LinearVelocity())
		}
	}

	// Sleeping bodies do not move.
	before := boxes[2].Position()
	stepN(world, 10)
	if !boxes[2].Position().Equal(before) {
		t.Error("Sleeping box moved")
	}

	// An impulse wakes the whole island.
	boxes[2].ApplyLinearImpulse(Vector{0.5, 0}, boxes[2].WorldCenter(), true)
	stepN(world, 1)
	for i, b := range boxes {
		if !b.IsAwake() {
			t.Errorf("Box %v not woken by its island", i)
		}
	}
}

func TestWorld_SleepDisabled(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	world.SetAllowSleeping(false)
	addGround(world)
	box := addBox(world, Vector{0, 0.5}, 0.5, 0.5)
	box.SetSleepingAllowed(true)

	stepN(world, 600)
	if !box.IsAwake() {
		t.Error("Box fell asleep with sleeping disabled")
	}

	world.SetAllowSleeping(true)
	box.SetSleepingAllowed(false)
	stepN(world, 600)
	if !box.IsAwake() {
		t.Error("Box fell asleep with body sleeping disabled")
	}
}

func TestWorld_LockedNoOps(t *testing.T) {
	var logs bytes.Buffer
	world := NewWorld(Vector{0, -10})
	world.SetLogger(log.New(&logs, "", 0))
	ground := addGround(world)
	box := addBox(world, Vector{0, 0.45}, 0.5, 0.5)

	called := false
	world.SetContactListener(&CollisionHandler{
		BeginFunc: func(contact *Contact, _ interface{}) {
			called = true
			if !world.IsLocked() {
				t.Error("Expected the world to be locked inside a callback")
			}

			def := NewBodyDef()
			if world.CreateBody(&def) != nil {
				t.Error("CreateBody succeeded while locked")
			}
			world.DestroyBody(box)

			jd := NewDistanceJointDef()
			jd.Initialize(ground, box, ground.Position(), box.Position())
			if world.CreateJoint(jd) != nil {
				t.Error("CreateJoint succeeded while locked")
			}

			fd := NewFixtureDef(NewCircle(1, Vector{}))
			if box.CreateFixture(&fd) != nil {
				t.Error("CreateFixture succeeded while locked")
			}
			box.SetTransform(Vector{5, 5}, 0)
		},
	})

	stepN(world, 1)
	if !called {
		t.Fatal("BeginContact was not called")
	}
	if world.IsLocked() {
		t.Error("World still locked after Step")
	}
	if world.BodyCount() != 2 || world.JointCount() != 0 || box.FixtureCount() != 1 {
		t.Errorf("Locked calls changed the world: %v bodies, %v joints, %v fixtures",
			world.BodyCount(), world.JointCount(), box.FixtureCount())
	}
	if math.Abs(box.Position().X) > 1 {
		t.Errorf("SetTransform applied while locked: %v", box.Position())
	}

	lines := strings.Count(logs.String(), "\n")
	if lines != 1 {
		t.Errorf("Expected one log line per locked step, got %v:\n%v", lines, logs.String())
	}
}

func TestWorld_QueryAndRayCast(t *testing.T) {
	world := newTestWorld(Vector{})
	near := addBox(world, Vector{3, 0}, 0.5, 0.5)
	far := addBox(world, Vector{6, 0}, 0.5, 0.5)
	addBall(world, Vector{0, 10}, 0.5)

	var found []*Body
	world.QueryAABB(func(fixture *Fixture) bool {
		found = append(found, fixture.Body())
		return true
	}, NewBB(2, -1, 7, 1))
	if len(found) != 2 {
		t.Fatalf("Expected two fixtures, got %v", len(found))
	}

	// Closest hit: clip the ray at every hit.
	var closest *Body
	var point, normal Vector
	world.RayCast(func(fixture *Fixture, p, n Vector, fraction float64) float64 {
		closest = fixture.Body()
		point = p
		normal = n
		return fraction
	}, Vector{0, 0}, Vector{10, 0})
	if closest != near {
		t.Fatalf("Expected the near box, got %v", closest)
	}
	if math.Abs(point.X-2.5) > 1e-6 || !normal.Near(Vector{-1, 0}, 1e-9) {
		t.Errorf("Unexpected hit %v %v", point, normal)
	}

	// Any hit: ignoring the near box reaches the far one.
	var hits []*Body
	world.RayCast(func(fixture *Fixture, p, n Vector, fraction float64) float64 {
		if fixture.Body() == near {
			return -1
		}
		hits = append(hits, fixture.Body())
		return 0
	}, Vector{0, 0}, Vector{10, 0})
	if len(hits) != 1 || hits[0] != far {
		t.Errorf("Expected only the far box, got %v", hits)
	}
}

func TestWorld_SetActive(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	addGround(world)
	box := addBox(world, Vector{0, 0.45}, 0.5, 0.5)
	stepN(world, 1)

	box.SetActive(false)
	if world.ProxyCount() != 1 || world.ContactCount() != 0 {
		t.Errorf("Inactive body kept proxies or contacts: %v %v", world.ProxyCount(), world.ContactCount())
	}
	before := box.Position()
	stepN(world, 10)
	if !box.Position().Equal(before) {
		t.Error("Inactive body moved")
	}

	box.SetActive(true)
	stepN(world, 1)
	if world.ProxyCount() != 2 || world.ContactCount() != 1 {
		t.Errorf("Reactivated body missing proxies or contacts: %v %v", world.ProxyCount(), world.ContactCount())
	}
}

func TestWorld_ShiftOrigin(t *testing.T) {
	world := newTestWorld(Vector{})
	box := addBox(world, Vector{100, 50}, 0.5, 0.5)
	world.ShiftOrigin(Vector{100, 0})
	if !box.Position().Near(Vector{0, 50}, 1e-9) {
		t.Errorf("Expected (0, 50), got %v", box.Position())
	}

	var found bool
	world.QueryAABB(func(*Fixture) bool {
		found = true
		return false
	}, NewBB(-1, 49, 1, 51))
	if !found {
		t.Error("Broad phase not shifted")
	}
}

func TestWorld_Kinematic(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	def := NewBodyDef()
	def.Type = KinematicBody
	def.LinearVelocity = Vector{1, 0}
	body := world.CreateBody(&def)
	body.CreateFixtureFromShape(NewBox(1, 0.1), 1)

	stepN(world, 60)
	if !body.Position().Near(Vector{1, 0}, 1e-6) {
		t.Errorf("Expected kinematic body at (1, 0), got %v", body.Position())
	}
	if body.Mass() != 0 {
		t.Errorf("Expected kinematic body without mass, got %v", body.Mass())
	}
}

func TestWorld_ForcesAndDamping(t *testing.T) {
	world := newTestWorld(Vector{})
	box := addBox(world, Vector{}, 0.5, 0.5)

	box.ApplyForceToCenter(Vector{60, 0}, true)
	stepN(world, 1)
	if math.Abs(box.LinearVelocity().X-1) > 1e-9 {
		t.Errorf("Expected velocity 1 after one step, got %v", box.LinearVelocity())
	}

	// Forces are cleared after each step.
	stepN(world, 1)
	if math.Abs(box.LinearVelocity().X-1) > 1e-9 {
		t.Errorf("Force was not cleared: %v", box.LinearVelocity())
	}

	box.SetLinearDamping(1)
	stepN(world, 60)
	if box.LinearVelocity().X >= 0.5 {
		t.Errorf("Damping did not slow the box: %v", box.LinearVelocity())
	}

	box.SetGravityScale(0)
	world.SetGravity(Vector{0, -10})
	stepN(world, 10)
	if box.LinearVelocity().Y != 0 {
		t.Errorf("Gravity scale ignored: %v", box.LinearVelocity())
	}
}

func kineticEnergy(world *World) float64 {
	e := 0.0
	world.EachBody(func(b *Body) {
		v := b.LinearVelocity()
		w := b.AngularVelocity()
		e += 0.5*b.Mass()*v.Dot(v) + 0.5*b.Inertia()*w*w
	})
	return e
}

func linearMomentum(world *World) Vector {
	var p Vector
	world.EachBody(func(b *Body) {
		p = p.Add(b.LinearVelocity().Mult(b.Mass()))
	})
	return p
}

func TestWorld_Conservation(t *testing.T) {
	world := newTestWorld(Vector{})
	world.SetAllowSleeping(false)

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			p := Vector{float64(i) * 1.5, float64(j) * 1.5}
			var b *Body
			if (i+j)%2 == 0 {
				b = addBox(world, p, 0.4, 0.3)
			} else {
				b = addBall(world, p, 0.45)
			}
			b.SetLinearVelocity(Vector{float64(2 - i), float64(j - 1)})
			b.SetAngularVelocity(float64(i-j) * 0.5)
		}
	}

	p0 := linearMomentum(world)
	e0 := kineticEnergy(world)

	stepN(world, 1000)

	p1 := linearMomentum(world)
	e1 := kineticEnergy(world)
	if !p1.Near(p0, 1e-6*(1+p0.Length())) {
		t.Errorf("Linear momentum drifted: %v -> %v", p0, p1)
	}
	if e1 > e0*(1+1e-3) {
		t.Errorf("Kinetic energy grew: %v -> %v", e0, e1)
	}
}

func TestWorld_NoTunneling(t *testing.T) {
	run := func(continuous bool) float64 {
		world := newTestWorld(Vector{})
		world.SetContinuousPhysics(continuous)

		def := NewBodyDef()
		def.Position = Vector{10, 0}
		wall := world.CreateBody(&def)
		wall.CreateFixtureFromShape(NewBox(0.1, 5), 0)

		ball := addBall(world, Vector{0.3, 0}, 0.1)
		ball.SetLinearVelocity(Vector{100, 0})

		stepN(world, 30)
		return ball.Position().X
	}

	if x := run(true); x > 10 {
		t.Errorf("Ball tunneled through the wall with continuous physics: %v", x)
	}
	if x := run(false); x < 10 {
		t.Errorf("Expected the ball to tunnel without continuous physics, got %v", x)
	}
}

func TestWorld_Bullet(t *testing.T) {
	run := func(bullet bool) (float64, float64) {
		world := newTestWorld(Vector{})

		def := NewBodyDef()
		def.Type = DynamicBody
		def.Position = Vector{10, 0}
		wall := world.CreateBody(&def)
		wall.CreateFixtureFromShape(NewBox(0.05, 2), 100)

		ball := addBall(world, Vector{0.3, 0}, 0.1)
		ball.SetBullet(bullet)
		ball.SetLinearVelocity(Vector{100, 0})

		stepN(world, 30)
		return ball.Position().X, wall.Position().X
	}

	if ball, wall := run(true); ball > wall {
		t.Errorf("Bullet passed through the wall: ball %v, wall %v", ball, wall)
	}
	if ball, wall := run(false); ball < wall {
		t.Errorf("Expected a non-bullet to pass a dynamic wall: ball %v, wall %v", ball, wall)
	}
}

func addWall(world *World, position Vector) {
	def := NewBodyDef()
	def.Position = position
	wall := world.CreateBody(&def)
	wall.CreateFixtureFromShape(NewBox(0.1, 1), 0)
}

func TestWorld_SubStepping(t *testing.T) {
	world := newTestWorld(Vector{})
	world.SetSubStepping(true)

	// Both balls cross their wall within one step; the near one hits first.
	addWall(world, Vector{1, 0})
	addWall(world, Vector{1.7, 10})
	near := addBall(world, Vector{0, 0}, 0.1)
	near.SetLinearVelocity(Vector{120, 0})
	far := addBall(world, Vector{0, 10}, 0.1)
	far.SetLinearVelocity(Vector{120, 0})

	drifter := addBall(world, Vector{0, -20}, 0.1)
	drifter.SetLinearVelocity(Vector{1, 0})

	world.Step(dt, velocityIterations, positionIterations)
	if world.stepComplete {
		t.Fatal("Expected the step to stop after one impact")
	}
	if x := near.Position().X; x > 0.95 {
		t.Errorf("Near ball should rest against its wall after the first step, got x=%v", x)
	}
	if x := far.Position().X; x < 1.8 {
		t.Errorf("Far ball impact should wait for a later step, got x=%v", x)
	}
	moved := drifter.Position().X
	if math.Abs(moved-dt) > 1e-9 {
		t.Errorf("Expected the drifter to move %v, got %v", dt, moved)
	}

	steps := 0
	for !world.stepComplete && steps < 10 {
		world.Step(dt, velocityIterations, positionIterations)
		steps++
	}
	if !world.stepComplete {
		t.Fatal("Impacts never finished")
	}
	if steps < 1 {
		t.Errorf("Expected the far impact to take another step")
	}
	if x := far.Position().X; x > 1.65 {
		t.Errorf("Far ball passed its wall: x=%v", x)
	}
	if x := drifter.Position().X; x != moved {
		t.Errorf("Drifter moved during impact steps: %v -> %v", moved, x)
	}

	world.Step(dt, velocityIterations, positionIterations)
	if x := drifter.Position().X; x <= moved {
		t.Errorf("Drifter did not move once the step completed: %v", x)
	}
}

func TestWorld_SubStepLimit(t *testing.T) {
	world := newTestWorld(Vector{})
	world.SetContinuousPhysics(false)

	addWall(world, Vector{1, 0})
	ball := addBall(world, Vector{0, 0}, 0.1)
	ball.SetLinearVelocity(Vector{120, 0})

	// The discrete step carries the ball through the wall and leaves a
	// contact whose sweep crosses it.
	world.Step(dt, velocityIterations, positionIterations)
	c := world.contactManager.contactList
	if c == nil {
		t.Fatal("Expected a contact between the ball and the wall")
	}

	c.toiCount = MaxSubSteps
	if got, alpha := world.findMinTOIContact(); got != c || alpha >= 1 {
		t.Fatalf("Expected the contact at alpha < 1, got %v at %v", got, alpha)
	}

	c.flags &^= contactToiFlag
	c.toiCount = MaxSubSteps + 1
	if got, alpha := world.findMinTOIContact(); got != nil || alpha != 1 {
		t.Errorf("Expected the contact to be skipped after %d sub-steps, got %v at %v", MaxSubSteps, got, alpha)
	}
}

func buildPyramid(world *World, rows int) []*Body {
	addGround(world)
	var bodies []*Body
	for row := 0; row < rows; row++ {
		for i := 0; i < rows-row; i++ {
			x := float64(i) - float64(rows-row-1)*0.5
			y := 0.5 + float64(row)*1.0
			bodies = append(bodies, addBox(world, Vector{x * 1.05, y}, 0.5, 0.5))
		}
	}
	return bodies
}

func TestWorld_Determinism(t *testing.T) {
	run := func() []Transform {
		world := newTestWorld(Vector{0, -10})
		bodies := buildPyramid(world, 6)
		bodies[len(bodies)-1].ApplyLinearImpulse(Vector{2, 0}, bodies[len(bodies)-1].WorldCenter(), true)
		stepN(world, 240)
		out := make([]Transform, len(bodies))
		for i, b := range bodies {
			out[i] = b.Transform()
		}
		return out
	}

	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Body %v diverged: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestWorld_PyramidSettles(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	bodies := buildPyramid(world, 4)
	start := make([]Vector, len(bodies))
	for i, b := range bodies {
		start[i] = b.Position()
	}

	stepN(world, 600)
	for i, b := range bodies {
		if b.Position().Distance(start[i]) > 0.1 {
			t.Errorf("Box %v drifted from %v to %v", i, start[i], b.Position())
		}
	}
	if err := world.contactManager.broadPhase.tree.Validate(); err != nil {
		t.Error(err)
	}
}
