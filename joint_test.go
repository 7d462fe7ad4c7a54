package physics

import (
	"math"
	"testing"
)

func addAnchor(world *World, position Vector) *Body {
	def := NewBodyDef()
	def.Position = position
	return world.CreateBody(&def)
}

func TestJoint_TypeNames(t *testing.T) {
	for typ := RevoluteJointType; typ <= MotorJointType; typ++ {
		parsed, ok := ParseJointType(typ.String())
		if !ok || parsed != typ {
			t.Errorf("%v did not round trip, got %v", typ, parsed)
		}
	}
	if _, ok := ParseJointType("unknown"); ok {
		t.Error("Parsed the unknown joint type")
	}
	if _, ok := ParseJointType("spring"); ok {
		t.Error("Parsed a bogus joint type")
	}
}

func TestJoint_Distance(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	ground := addAnchor(world, Vector{0, 10})
	ball := addBall(world, Vector{0, 7}, 0.5)

	jd := NewDistanceJointDef()
	jd.Initialize(ground, ball, Vector{0, 10}, ball.Position())
	joint := world.CreateJoint(jd).(*DistanceJoint)
	if math.Abs(joint.Length()-3) > 1e-9 {
		t.Fatalf("Expected length 3, got %v", joint.Length())
	}

	// At rest the joint carries the ball's weight.
	stepN(world, 10)
	force := joint.ReactionForce(1 / dt)
	if math.Abs(force.Length()-ball.Mass()*10) > 0.01*ball.Mass()*10 {
		t.Errorf("Expected reaction %v, got %v", ball.Mass()*10, force)
	}

	ball.SetLinearVelocity(Vector{4, 0})
	for i := 0; i < 240; i++ {
		stepN(world, 1)
		length := joint.AnchorB().Distance(joint.AnchorA())
		if math.Abs(length-3) > 0.01 {
			t.Fatalf("Step %v: length drifted to %v", i, length)
		}
	}
}

func TestJoint_DistanceSoft(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	ground := addAnchor(world, Vector{0, 10})
	ball := addBall(world, Vector{0, 7}, 0.5)

	jd := NewDistanceJointDef()
	jd.Initialize(ground, ball, Vector{0, 10}, ball.Position())
	jd.FrequencyHz = 2
	jd.DampingRatio = 1
	joint := world.CreateJoint(jd)

	stepN(world, 300)
	// A spring of stiffness m*(2*pi*f)^2 stretches by g/(2*pi*f)^2.
	omega := 2 * math.Pi * 2
	want := 3 + 10/(omega*omega)
	length := joint.AnchorB().Distance(joint.AnchorA())
	if math.Abs(length-want) > 0.005 {
		t.Errorf("Expected spring length %v, got %v", want, length)
	}
}

func TestJoint_RevoluteLimit(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	ground := addAnchor(world, Vector{})
	bar := addBox(world, Vector{2, 0}, 2, 0.125)

	jd := NewRevoluteJointDef()
	jd.Initialize(ground, bar, Vector{})
	jd.EnableLimit = true
	jd.LowerAngle = -math.Pi / 4
	jd.UpperAngle = math.Pi / 4
	joint := world.CreateJoint(jd).(*RevoluteJoint)

	for i := 0; i < 180; i++ {
		stepN(world, 1)
		if joint.JointAngle() < -math.Pi/4-2*AngularSlop {
			t.Fatalf("Step %v: angle %v passed the lower limit", i, joint.JointAngle())
		}
		if d := joint.AnchorA().Distance(joint.AnchorB()); d > 4*LinearSlop {
			t.Fatalf("Step %v: anchors separated by %v", i, d)
		}
	}
	if math.Abs(joint.JointAngle()+math.Pi/4) > 2*AngularSlop {
		t.Errorf("Expected the bar to rest on the lower limit, got %v", joint.JointAngle())
	}
}

func TestJoint_RevoluteMotor(t *testing.T) {
	world := newTestWorld(Vector{})
	ground := addAnchor(world, Vector{})
	wheel := addBall(world, Vector{}, 1)

	jd := NewRevoluteJointDef()
	jd.Initialize(ground, wheel, Vector{})
	jd.EnableMotor = true
	jd.MotorSpeed = 2
	jd.MaxMotorTorque = 1000
	joint := world.CreateJoint(jd).(*RevoluteJoint)

	stepN(world, 30)
	if math.Abs(joint.JointSpeed()-2) > 1e-6 {
		t.Errorf("Expected motor speed 2, got %v", joint.JointSpeed())
	}
	if math.Abs(wheel.AngularVelocity()-2) > 1e-6 {
		t.Errorf("Expected wheel speed 2, got %v", wheel.AngularVelocity())
	}

	// A weak motor can only accelerate slowly.
	joint.SetMotorSpeed(-2)
	joint.SetMaxMotorTorque(wheel.Inertia())
	stepN(world, 30)
	if math.Abs(wheel.AngularVelocity()-1.5) > 1e-6 {
		t.Errorf("Expected torque limited speed 1.5, got %v", wheel.AngularVelocity())
	}
}

func TestJoint_Prismatic(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	ground := addAnchor(world, Vector{})
	box := addBox(world, Vector{}, 0.5, 0.5)

	jd := NewPrismaticJointDef()
	jd.Initialize(ground, box, Vector{}, Vector{0, 1})
	jd.EnableLimit = true
	jd.LowerTranslation = -1
	jd.UpperTranslation = 0
	joint := world.CreateJoint(jd).(*PrismaticJoint)

	box.ApplyAngularImpulse(0.5, true)
	stepN(world, 120)
	if math.Abs(joint.JointTranslation()+1) > 2*LinearSlop {
		t.Errorf("Expected the box on the lower limit, got %v", joint.JointTranslation())
	}
	if math.Abs(box.Position().X) > 1e-3 || math.Abs(box.Angle()) > 1e-3 {
		t.Errorf("Box left the axis: %v %v", box.Position(), box.Angle())
	}

	joint.EnableLimit(false)
	joint.EnableMotor(true)
	joint.SetMaxMotorForce(1000)
	joint.SetMotorSpeed(1)
	stepN(world, 10)
	if math.Abs(joint.JointSpeed()-1) > 1e-6 {
		t.Errorf("Expected motor speed 1, got %v", joint.JointSpeed())
	}
	if math.Abs(joint.MotorForce(1/dt)-10*box.Mass()) > 1e-3 {
		t.Errorf("Expected the motor to carry the weight, got %v", joint.MotorForce(1/dt))
	}
}

func TestJoint_Pulley(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	heavy := addBox(world, Vector{-2, 0}, 0.5, 0.5)
	light := addBox(world, Vector{2, 0}, 0.25, 0.25)

	jd := NewPulleyJointDef()
	jd.Initialize(heavy, light, Vector{-2, 5}, Vector{2, 5}, heavy.Position(), light.Position(), 1)
	joint := world.CreateJoint(jd).(*PulleyJoint)

	stepN(world, 30)
	if heavy.Position().Y >= 0 || light.Position().Y <= 0 {
		t.Errorf("Expected the heavy box to descend: %v %v", heavy.Position(), light.Position())
	}
	total := joint.CurrentLengthA() + joint.Ratio()*joint.CurrentLengthB()
	if math.Abs(total-10) > 0.02 {
		t.Errorf("Expected total rope length 10, got %v", total)
	}
}

func TestJoint_Gear(t *testing.T) {
	world := newTestWorld(Vector{})
	ground := addAnchor(world, Vector{})
	wheel1 := addBall(world, Vector{}, 1)
	wheel2 := addBall(world, Vector{3, 0}, 0.5)

	rd := NewRevoluteJointDef()
	rd.Initialize(ground, wheel1, wheel1.Position())
	joint1 := world.CreateJoint(rd)
	rd = NewRevoluteJointDef()
	rd.Initialize(ground, wheel2, wheel2.Position())
	joint2 := world.CreateJoint(rd)

	gd := NewGearJointDef()
	gd.Joint1 = joint1
	gd.Joint2 = joint2
	gd.Ratio = 2
	gear := world.CreateJoint(gd).(*GearJoint)
	if gear.BodyA() != wheel1 || gear.BodyB() != wheel2 {
		t.Fatal("Gear connected the wrong bodies")
	}

	wheel1.SetAngularVelocity(1)
	for i := 0; i < 60; i++ {
		stepN(world, 1)
		c := wheel1.Angle() + 2*wheel2.Angle()
		if math.Abs(c) > 0.01 {
			t.Fatalf("Step %v: gear constraint drifted to %v", i, c)
		}
	}
	if wheel1.Angle() <= 0 {
		t.Error("Expected the driving wheel to keep turning")
	}

	world.DestroyJoint(gear)
	world.DestroyJoint(joint1)
	world.DestroyJoint(joint2)
	if world.JointCount() != 0 {
		t.Errorf("Expected no joints, got %v", world.JointCount())
	}
}

func TestJoint_GearRejectsOtherJoints(t *testing.T) {
	world := newTestWorld(Vector{})
	ground := addAnchor(world, Vector{})
	a := addBall(world, Vector{}, 1)
	b := addBall(world, Vector{3, 0}, 1)

	dd := NewDistanceJointDef()
	dd.Initialize(ground, a, Vector{}, a.Position())
	distance := world.CreateJoint(dd)
	rd := NewRevoluteJointDef()
	rd.Initialize(ground, b, b.Position())
	revolute := world.CreateJoint(rd)

	gd := NewGearJointDef()
	gd.Joint1 = distance
	gd.Joint2 = revolute
	if world.CreateJoint(gd) != nil {
		t.Error("Gear accepted a distance joint")
	}
	if world.JointCount() != 2 {
		t.Errorf("Expected 2 joints, got %v", world.JointCount())
	}
}

func TestJoint_Wheel(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	chassis := addAnchor(world, Vector{0, 2})
	wheel := addBall(world, Vector{0, 2}, 0.4)

	jd := NewWheelJointDef()
	jd.Initialize(chassis, wheel, wheel.Position(), Vector{0, 1})
	jd.FrequencyHz = 4
	jd.DampingRatio = 0.7
	jd.EnableMotor = true
	jd.MotorSpeed = 3
	jd.MaxMotorTorque = 100
	joint := world.CreateJoint(jd).(*WheelJoint)

	stepN(world, 120)
	omega := 2 * math.Pi * 4
	want := -10 / (omega * omega)
	if math.Abs(joint.JointTranslation()-want) > 0.003 {
		t.Errorf("Expected suspension sag %v, got %v", want, joint.JointTranslation())
	}
	if math.Abs(wheel.Position().X) > 1e-3 {
		t.Errorf("Wheel left the axis: %v", wheel.Position())
	}
	if math.Abs(joint.JointAngularSpeed()-3) > 1e-3 {
		t.Errorf("Expected motor speed 3, got %v", joint.JointAngularSpeed())
	}
}

func TestJoint_Weld(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	ground := addAnchor(world, Vector{})
	box := addBox(world, Vector{1, 0}, 0.5, 0.25)

	jd := NewWeldJointDef()
	jd.Initialize(ground, box, Vector{0.5, 0})
	world.CreateJoint(jd)

	stepN(world, 120)
	if !box.Position().Near(Vector{1, 0}, 0.01) || math.Abs(box.Angle()) > 0.01 {
		t.Errorf("Weld sagged to %v %v", box.Position(), box.Angle())
	}
}

func TestJoint_WeldHeavy(t *testing.T) {
	for _, density := range []float64{1, 1e4, 1e6} {
		world := newTestWorld(Vector{0, -10})
		ground := addAnchor(world, Vector{})

		def := NewBodyDef()
		def.Type = DynamicBody
		def.Position = Vector{10, 0}
		box := world.CreateBody(&def)
		box.CreateFixtureFromShape(NewBox(10, 10), density)

		jd := NewWeldJointDef()
		jd.Initialize(ground, box, Vector{})
		world.CreateJoint(jd)

		stepN(world, 60)
		if !box.Position().Near(Vector{10, 0}, 0.05) {
			t.Errorf("Density %g: weld let the box fall to %v", density, box.Position())
		}
	}
}

func TestJoint_Mouse(t *testing.T) {
	world := newTestWorld(Vector{})
	ground := addAnchor(world, Vector{})
	ball := addBall(world, Vector{}, 0.5)

	jd := NewMouseJointDef()
	jd.BodyA = ground
	jd.BodyB = ball
	jd.Target = ball.Position()
	jd.MaxForce = 1000 * ball.Mass()
	joint := world.CreateJoint(jd).(*MouseJoint)

	joint.SetTarget(Vector{2, 1})
	stepN(world, 120)
	if !ball.Position().Near(Vector{2, 1}, 0.01) {
		t.Errorf("Expected the ball at the target, got %v", ball.Position())
	}

	world.ShiftOrigin(Vector{1, 1})
	if !joint.Target().Near(Vector{1, 0}, 1e-9) {
		t.Errorf("Target not shifted: %v", joint.Target())
	}
}

func TestJoint_Rope(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	ground := addAnchor(world, Vector{0, 5})
	ball := addBall(world, Vector{0, 4}, 0.25)

	jd := NewRopeJointDef()
	jd.BodyA = ground
	jd.BodyB = ball
	jd.LocalAnchorA = Vector{}
	jd.LocalAnchorB = Vector{}
	jd.MaxLength = 2
	joint := world.CreateJoint(jd).(*RopeJoint)

	for i := 0; i < 120; i++ {
		stepN(world, 1)
		if d := ball.Position().Distance(Vector{0, 5}); d > 2+2*LinearSlop {
			t.Fatalf("Step %v: rope stretched to %v", i, d)
		}
	}
	if d := ball.Position().Distance(Vector{0, 5}); d < 2-2*LinearSlop {
		t.Errorf("Expected the ball to hang from the rope, got %v", d)
	}

	// Slack rope is not a constraint.
	ball.SetTransform(Vector{0, 4.5}, 0)
	ball.SetLinearVelocity(Vector{})
	ball.SetAwake(true)
	stepN(world, 1)
	if joint.IsTaut() {
		t.Error("Expected a slack rope")
	}
}

func TestJoint_Friction(t *testing.T) {
	world := newTestWorld(Vector{})
	ground := addAnchor(world, Vector{})
	box := addBox(world, Vector{}, 0.5, 0.5)

	jd := NewFrictionJointDef()
	jd.Initialize(ground, box, box.WorldCenter())
	jd.MaxForce = 10 * box.Mass()
	jd.MaxTorque = 1
	world.CreateJoint(jd)

	box.SetLinearVelocity(Vector{5, 0})
	stepN(world, 15)
	if math.Abs(box.LinearVelocity().X-2.5) > 0.01 {
		t.Errorf("Expected constant deceleration, got %v", box.LinearVelocity())
	}
	stepN(world, 30)
	if box.LinearVelocity().Length() > 1e-6 {
		t.Errorf("Expected the box to stop, got %v", box.LinearVelocity())
	}
}

func TestJoint_Motor(t *testing.T) {
	world := newTestWorld(Vector{})
	ground := addAnchor(world, Vector{})
	box := addBox(world, Vector{}, 0.5, 0.5)

	jd := NewMotorJointDef()
	jd.Initialize(ground, box)
	jd.MaxForce = 1000
	jd.MaxTorque = 1000
	joint := world.CreateJoint(jd).(*MotorJoint)

	joint.SetLinearOffset(Vector{2, 0})
	joint.SetAngularOffset(1)
	stepN(world, 240)
	if !box.Position().Near(Vector{2, 0}, 0.02) || math.Abs(box.Angle()-1) > 0.02 {
		t.Errorf("Expected the box at its offset, got %v %v", box.Position(), box.Angle())
	}
}

func TestJoint_CollideConnected(t *testing.T) {
	world := newTestWorld(Vector{})
	a := addBox(world, Vector{}, 0.5, 0.5)
	b := addBox(world, Vector{0.5, 0}, 0.5, 0.5)

	jd := NewDistanceJointDef()
	jd.Initialize(a, b, a.Position(), b.Position())
	jd.CollideConnected = true
	joint := world.CreateJoint(jd)
	stepN(world, 1)
	if world.ContactCount() != 1 {
		t.Fatalf("Expected connected bodies to collide, got %v", world.ContactCount())
	}

	world.DestroyJoint(joint)
	jd.CollideConnected = false
	world.CreateJoint(jd)
	stepN(world, 1)
	if world.ContactCount() != 0 {
		t.Errorf("Expected the joint to filter the contact, got %v", world.ContactCount())
	}
}

type goodbyeRecorder struct {
	joints   []Joint
	fixtures []*Fixture
}

func (r *goodbyeRecorder) SayGoodbyeJoint(joint Joint) {
	r.joints = append(r.joints, joint)
}

func (r *goodbyeRecorder) SayGoodbyeFixture(fixture *Fixture) {
	r.fixtures = append(r.fixtures, fixture)
}

func TestJoint_DestroyBody(t *testing.T) {
	world := newTestWorld(Vector{0, -10})
	recorder := &goodbyeRecorder{}
	world.SetDestructionListener(recorder)
	ground := addAnchor(world, Vector{})
	a := addBall(world, Vector{1, 0}, 0.25)
	b := addBall(world, Vector{2, 0}, 0.25)

	rd := NewRevoluteJointDef()
	rd.Initialize(ground, a, Vector{})
	world.CreateJoint(rd)
	dd := NewDistanceJointDef()
	dd.Initialize(a, b, a.Position(), b.Position())
	distance := world.CreateJoint(dd)
	stepN(world, 5)

	world.DestroyBody(a)
	if len(recorder.joints) != 2 || len(recorder.fixtures) != 1 {
		t.Fatalf("Expected 2 joint and 1 fixture goodbyes, got %v %v", len(recorder.joints), len(recorder.fixtures))
	}
	if world.JointCount() != 0 || world.JointList() != nil {
		t.Errorf("Expected no joints, got %v", world.JointCount())
	}
	if ground.JointList() != nil || b.JointList() != nil {
		t.Error("Joint edges left on the surviving bodies")
	}
	found := false
	for _, j := range recorder.joints {
		found = found || j == distance
	}
	if !found {
		t.Error("Missing goodbye for the distance joint")
	}

	// Every destroyed body reports its fixtures.
	world.DestroyBody(b)
	if len(recorder.fixtures) != 2 || len(recorder.joints) != 2 {
		t.Errorf("Expected 2 fixture goodbyes and no new joint goodbyes, got %v %v", len(recorder.fixtures), len(recorder.joints))
	}
	if recorder.fixtures[1].Body() != b {
		t.Error("Fixture goodbye reported the wrong body")
	}
}
