package scene

import (
	physics "github.com/flowersteam/Interactive-DeepRL-Demo-sub000"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// FromWorld captures the bodies, fixtures and joints of a world. Records
// follow creation order, so building the scene recreates the world lists
// in the same order. Contacts and sleep timers are not captured.
func FromWorld(world *physics.World) (*Scene, error) {
	gravity := world.Gravity()
	s := &Scene{
		Gravity:           Vec(gravity),
		AllowSleep:        world.AllowSleeping(),
		WarmStarting:      world.WarmStarting(),
		ContinuousPhysics: world.ContinuousPhysics(),
		SubStepping:       world.SubStepping(),
		Shapes:            []ShapeRecord{},
		Fixtures:          []FixtureRecord{},
		Bodies:            []BodyRecord{},
		Joints:            []JointRecord{},
	}

	// World lists put the newest object first.
	var bodies []*physics.Body
	world.EachBody(func(b *physics.Body) {
		bodies = append(bodies, b)
	})
	reverseBodies(bodies)

	bodyIndex := make(map[*physics.Body]int, len(bodies))
	for i, b := range bodies {
		bodyIndex[b] = i
		rec, err := s.captureBody(b)
		if err != nil {
			return nil, errors.Wrapf(err, "body %d", i)
		}
		s.Bodies = append(s.Bodies, rec)
	}

	var joints []physics.Joint
	world.EachJoint(func(j physics.Joint) {
		joints = append(joints, j)
	})
	for i, j := 0, len(joints)-1; i < j; i, j = i+1, j-1 {
		joints[i], joints[j] = joints[j], joints[i]
	}

	jointIndex := make(map[physics.Joint]int, len(joints))
	for i, j := range joints {
		jointIndex[j] = i
	}
	for i, j := range joints {
		rec, err := captureJoint(j, bodyIndex, jointIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "joint %d", i)
		}
		s.Joints = append(s.Joints, rec)
	}

	return s, nil
}

func reverseBodies(bodies []*physics.Body) {
	for i, j := 0, len(bodies)-1; i < j; i, j = i+1, j-1 {
		bodies[i], bodies[j] = bodies[j], bodies[i]
	}
}

func (s *Scene) captureBody(b *physics.Body) (BodyRecord, error) {
	rec := BodyRecord{
		Kind:          b.Type().String(),
		AllowSleep:    b.IsSleepingAllowed(),
		Awake:         b.IsAwake(),
		FixedRotation: b.IsFixedRotation(),
		Bullet:        b.IsBullet(),
		Active:        b.IsActive(),
		Fixtures:      []int{},
	}
	if err := copier.Copy(&rec, b); err != nil {
		return rec, err
	}

	var fixtures []*physics.Fixture
	b.EachFixture(func(f *physics.Fixture) {
		fixtures = append(fixtures, f)
	})
	for i := len(fixtures) - 1; i >= 0; i-- {
		f := fixtures[i]
		shape, err := captureShape(f.Shape())
		if err != nil {
			return rec, err
		}
		fixture := FixtureRecord{
			ShapeIndex: len(s.Shapes),
			Filter:     Filter(f.FilterData()),
		}
		if err := copier.Copy(&fixture, f); err != nil {
			return rec, err
		}
		s.Shapes = append(s.Shapes, shape)
		rec.Fixtures = append(rec.Fixtures, len(s.Fixtures))
		s.Fixtures = append(s.Fixtures, fixture)
	}
	return rec, nil
}

func captureShape(shape physics.Shape) (ShapeRecord, error) {
	rec := ShapeRecord{Kind: shape.Kind().String()}
	switch sh := shape.(type) {
	case *physics.Circle:
		rec.Circle = &CircleParams{Radius: sh.R, Center: Vec(sh.Center)}
	case *physics.Edge:
		rec.Edge = &EdgeParams{}
		if err := copier.Copy(rec.Edge, sh); err != nil {
			return rec, err
		}
	case *physics.Polygon:
		rec.Polygon = &PolygonParams{Vertices: vecs(sh.Vertices)}
	case *physics.Chain:
		rec.Chain = &ChainParams{
			Vertices:      vecs(sh.Vertices),
			PrevVertex:    Vec(sh.PrevVertex),
			NextVertex:    Vec(sh.NextVertex),
			HasPrevVertex: sh.HasPrevVertex,
			HasNextVertex: sh.HasNextVertex,
		}
	default:
		return rec, errors.Wrapf(ErrUnknownShapeKind, "%T", shape)
	}
	return rec, nil
}

func captureJoint(j physics.Joint, bodyIndex map[*physics.Body]int, jointIndex map[physics.Joint]int) (JointRecord, error) {
	rec := JointRecord{
		Kind:             j.Type().String(),
		BodyA:            bodyIndex[j.BodyA()],
		BodyB:            bodyIndex[j.BodyB()],
		CollideConnected: j.CollideConnected(),
	}

	var params interface{}
	switch joint := j.(type) {
	case *physics.RevoluteJoint:
		rec.Revolute = &RevoluteParams{
			EnableLimit: joint.IsLimitEnabled(),
			LowerAngle:  joint.LowerLimit(),
			UpperAngle:  joint.UpperLimit(),
			EnableMotor: joint.IsMotorEnabled(),
		}
		params = rec.Revolute
	case *physics.PrismaticJoint:
		rec.Prismatic = &PrismaticParams{
			EnableLimit:      joint.IsLimitEnabled(),
			LowerTranslation: joint.LowerLimit(),
			UpperTranslation: joint.UpperLimit(),
			EnableMotor:      joint.IsMotorEnabled(),
		}
		params = rec.Prismatic
	case *physics.DistanceJoint:
		rec.Distance = &DistanceParams{FrequencyHz: joint.Frequency()}
		params = rec.Distance
	case *physics.PulleyJoint:
		rec.Pulley = &PulleyParams{}
		params = rec.Pulley
	case *physics.MouseJoint:
		rec.Mouse = &MouseParams{
			LocalAnchorB: Vec(joint.BodyB().LocalPoint(joint.AnchorB())),
			FrequencyHz:  joint.Frequency(),
		}
		params = rec.Mouse
	case *physics.GearJoint:
		first, ok1 := jointIndex[joint.Joint1()]
		second, ok2 := jointIndex[joint.Joint2()]
		if !ok1 || !ok2 {
			return rec, errors.Wrap(ErrBadReference, "gear joint outside the world")
		}
		rec.Gear = &GearParams{Joint1: first, Joint2: second, Ratio: joint.Ratio()}
		return rec, nil
	case *physics.WheelJoint:
		rec.Wheel = &WheelParams{
			EnableMotor:  joint.IsMotorEnabled(),
			FrequencyHz:  joint.SpringFrequencyHz(),
			DampingRatio: joint.SpringDampingRatio(),
		}
		params = rec.Wheel
	case *physics.WeldJoint:
		rec.Weld = &WeldParams{FrequencyHz: joint.Frequency()}
		params = rec.Weld
	case *physics.FrictionJoint:
		rec.Friction = &FrictionParams{}
		params = rec.Friction
	case *physics.RopeJoint:
		rec.Rope = &RopeParams{}
		params = rec.Rope
	case *physics.MotorJoint:
		rec.Motor = &MotorParams{}
		params = rec.Motor
	default:
		return rec, errors.Wrapf(ErrUnknownJointKind, "%T", j)
	}

	// The remaining parameters have getters named like the fields.
	return rec, errors.Wrapf(copier.Copy(params, j), "%s joint", rec.Kind)
}
