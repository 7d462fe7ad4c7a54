package scene

import (
	physics "github.com/flowersteam/Interactive-DeepRL-Demo-sub000"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// Validate checks every tag and index in the document without building
// anything.
func (s *Scene) Validate() error {
	for i := range s.Shapes {
		if _, ok := physics.ParseShapeKind(s.Shapes[i].Kind); !ok {
			return errors.Wrapf(ErrUnknownShapeKind, "shape %d: %q", i, s.Shapes[i].Kind)
		}
	}

	for i, f := range s.Fixtures {
		if f.ShapeIndex < 0 || f.ShapeIndex >= len(s.Shapes) {
			return errors.Wrapf(ErrBadReference, "fixture %d: shape %d of %d", i, f.ShapeIndex, len(s.Shapes))
		}
	}

	owner := make(map[int]int, len(s.Fixtures))
	for i, b := range s.Bodies {
		if _, ok := physics.ParseBodyType(b.Kind); !ok {
			return errors.Wrapf(ErrUnknownBodyType, "body %d: %q", i, b.Kind)
		}
		for _, f := range b.Fixtures {
			if f < 0 || f >= len(s.Fixtures) {
				return errors.Wrapf(ErrBadReference, "body %d: fixture %d of %d", i, f, len(s.Fixtures))
			}
			if other, ok := owner[f]; ok {
				return errors.Wrapf(ErrBadReference, "body %d: fixture %d already on body %d", i, f, other)
			}
			owner[f] = i
		}
	}

	for i, j := range s.Joints {
		typ, ok := physics.ParseJointType(j.Kind)
		if !ok {
			return errors.Wrapf(ErrUnknownJointKind, "joint %d: %q", i, j.Kind)
		}
		if typ == physics.GearJointType {
			if err := s.validateGear(i); err != nil {
				return err
			}
			continue
		}
		if j.BodyA < 0 || j.BodyA >= len(s.Bodies) || j.BodyB < 0 || j.BodyB >= len(s.Bodies) {
			return errors.Wrapf(ErrBadReference, "joint %d: bodies %d, %d of %d", i, j.BodyA, j.BodyB, len(s.Bodies))
		}
		if j.BodyA == j.BodyB {
			return errors.Wrapf(ErrBadReference, "joint %d: connects body %d to itself", i, j.BodyA)
		}
	}
	return nil
}

func (s *Scene) validateGear(i int) error {
	gear := s.Joints[i].Gear
	if gear == nil {
		return errors.Wrapf(ErrBadReference, "joint %d: gear without joints", i)
	}
	for _, ref := range [2]int{gear.Joint1, gear.Joint2} {
		if ref < 0 || ref >= len(s.Joints) {
			return errors.Wrapf(ErrBadReference, "joint %d: gear joint %d of %d", i, ref, len(s.Joints))
		}
		typ, _ := physics.ParseJointType(s.Joints[ref].Kind)
		switch typ {
		case physics.RevoluteJointType, physics.PrismaticJointType:
		case physics.GearJointType:
			return errors.Wrapf(ErrGearChain, "joint %d: joint %d", i, ref)
		default:
			return errors.Wrapf(ErrBadReference, "joint %d: gear needs revolute or prismatic joints, joint %d is %s", i, ref, typ)
		}
	}
	return nil
}

// Build validates the document and creates a new world from it.
func (s *Scene) Build() (*Instance, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	world := physics.NewWorld(s.Gravity.vector())
	world.SetAllowSleeping(s.AllowSleep)
	world.SetWarmStarting(s.WarmStarting)
	world.SetContinuousPhysics(s.ContinuousPhysics)
	world.SetSubStepping(s.SubStepping)

	inst := &Instance{
		World:    world,
		Bodies:   make([]*physics.Body, len(s.Bodies)),
		Fixtures: make([]*physics.Fixture, len(s.Fixtures)),
		Joints:   make([]physics.Joint, len(s.Joints)),
	}

	for i := range s.Bodies {
		rec := &s.Bodies[i]
		def := physics.NewBodyDef()
		if err := copier.Copy(&def, rec); err != nil {
			return nil, errors.Wrapf(err, "body %d", i)
		}
		def.Type, _ = physics.ParseBodyType(rec.Kind)
		body := world.CreateBody(&def)
		inst.Bodies[i] = body

		for _, f := range rec.Fixtures {
			fixture, err := s.buildFixture(body, f)
			if err != nil {
				return nil, errors.Wrapf(err, "body %d", i)
			}
			inst.Fixtures[f] = fixture
		}
	}

	// Gears need both of their joints, which may come later in the
	// document.
	for pass := 0; pass < 2; pass++ {
		for i := range s.Joints {
			typ, _ := physics.ParseJointType(s.Joints[i].Kind)
			if (typ == physics.GearJointType) != (pass == 1) {
				continue
			}
			joint, err := s.buildJoint(inst, i, typ)
			if err != nil {
				return nil, errors.Wrapf(err, "joint %d", i)
			}
			inst.Joints[i] = joint
		}
	}

	return inst, nil
}

func (s *Scene) buildFixture(body *physics.Body, index int) (*physics.Fixture, error) {
	rec := &s.Fixtures[index]
	shape, err := s.Shapes[rec.ShapeIndex].shape()
	if err != nil {
		return nil, errors.Wrapf(err, "fixture %d", index)
	}
	def := physics.NewFixtureDef(shape)
	if err := copier.Copy(&def, rec); err != nil {
		return nil, errors.Wrapf(err, "fixture %d", index)
	}
	return body.CreateFixture(&def), nil
}

func (rec *ShapeRecord) shape() (physics.Shape, error) {
	kind, ok := physics.ParseShapeKind(rec.Kind)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownShapeKind, "%q", rec.Kind)
	}

	switch kind {
	case physics.ShapeCircle:
		var p CircleParams
		if rec.Circle != nil {
			p = *rec.Circle
		}
		return physics.NewCircle(p.Radius, p.Center.vector()), nil
	case physics.ShapeEdge:
		edge := physics.NewEdge(physics.Vector{}, physics.Vector{})
		if rec.Edge != nil {
			if err := copier.Copy(edge, rec.Edge); err != nil {
				return nil, errors.Wrap(err, "edge")
			}
		}
		return edge, nil
	case physics.ShapePolygon:
		var vertices []physics.Vector
		if rec.Polygon != nil {
			vertices = vectors(rec.Polygon.Vertices)
		}
		return physics.NewPolygon(vertices), nil
	case physics.ShapeChain:
		chain := physics.NewChain(nil)
		if p := rec.Chain; p != nil {
			chain.Vertices = vectors(p.Vertices)
			chain.PrevVertex = p.PrevVertex.vector()
			chain.NextVertex = p.NextVertex.vector()
			chain.HasPrevVertex = p.HasPrevVertex
			chain.HasNextVertex = p.HasNextVertex
		}
		return chain, nil
	}
	return nil, errors.Wrapf(ErrUnknownShapeKind, "%v", kind)
}

func (s *Scene) buildJoint(inst *Instance, index int, typ physics.JointType) (physics.Joint, error) {
	// Work on a copy so a missing parameter block is not written back.
	rec := s.Joints[index]

	var def physics.JointDef
	var target *physics.Vector
	if typ == physics.GearJointType {
		gd := physics.NewGearJointDef()
		gd.CollideConnected = rec.CollideConnected
		gd.Joint1 = inst.Joints[rec.Gear.Joint1]
		gd.Joint2 = inst.Joints[rec.Gear.Joint2]
		gd.Ratio = rec.Gear.Ratio
		def = gd
	} else {
		params, jd, fresh := rec.bind(typ)
		if !fresh {
			if err := copier.Copy(jd, params); err != nil {
				return nil, err
			}
		}
		base := jointBase(jd)
		base.BodyA = inst.Bodies[rec.BodyA]
		base.BodyB = inst.Bodies[rec.BodyB]
		base.CollideConnected = rec.CollideConnected

		// The mouse anchor is fixed at creation from the target, so create
		// the joint on the grab point and move the target afterwards.
		if md, ok := jd.(*physics.MouseJointDef); ok && !fresh {
			t := md.Target
			target = &t
			md.Target = base.BodyB.WorldPoint(rec.Mouse.LocalAnchorB.vector())
		}
		def = jd
	}

	joint := inst.World.CreateJoint(def)
	if joint == nil {
		return nil, errors.Errorf("world rejected %s joint", typ)
	}
	if target != nil {
		joint.(*physics.MouseJoint).SetTarget(*target)
	}
	return joint, nil
}

func jointBase(def physics.JointDef) *physics.JointDefBase {
	switch d := def.(type) {
	case *physics.RevoluteJointDef:
		return &d.JointDefBase
	case *physics.PrismaticJointDef:
		return &d.JointDefBase
	case *physics.DistanceJointDef:
		return &d.JointDefBase
	case *physics.PulleyJointDef:
		return &d.JointDefBase
	case *physics.MouseJointDef:
		return &d.JointDefBase
	case *physics.GearJointDef:
		return &d.JointDefBase
	case *physics.WheelJointDef:
		return &d.JointDefBase
	case *physics.WeldJointDef:
		return &d.JointDefBase
	case *physics.FrictionJointDef:
		return &d.JointDefBase
	case *physics.RopeJointDef:
		return &d.JointDefBase
	case *physics.MotorJointDef:
		return &d.JointDefBase
	}
	panic("unknown joint definition")
}
