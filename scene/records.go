package scene

import (
	"encoding/json"

	physics "github.com/flowersteam/Interactive-DeepRL-Demo-sub000"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Vec is a point or direction.
type Vec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vec) vector() physics.Vector {
	return physics.Vector(v)
}

func vecs(vs []physics.Vector) []Vec {
	out := make([]Vec, len(vs))
	for i, v := range vs {
		out[i] = Vec(v)
	}
	return out
}

func vectors(vs []Vec) []physics.Vector {
	out := make([]physics.Vector, len(vs))
	for i, v := range vs {
		out[i] = v.vector()
	}
	return out
}

type Filter struct {
	CategoryBits uint16 `json:"categoryBits" yaml:"categoryBits"`
	MaskBits     uint16 `json:"maskBits" yaml:"maskBits"`
	GroupIndex   int16  `json:"groupIndex" yaml:"groupIndex"`
}

// ShapeRecord is tagged by Kind ("circle", "edge", "polygon", "chain"); only
// the matching parameter block is read.
type ShapeRecord struct {
	Kind string `json:"type" yaml:"type"`

	Circle  *CircleParams  `json:"circle,omitempty" yaml:"circle,omitempty"`
	Edge    *EdgeParams    `json:"edge,omitempty" yaml:"edge,omitempty"`
	Polygon *PolygonParams `json:"polygon,omitempty" yaml:"polygon,omitempty"`
	Chain   *ChainParams   `json:"chain,omitempty" yaml:"chain,omitempty"`
}

type CircleParams struct {
	Radius float64 `json:"radius" yaml:"radius"`
	Center Vec     `json:"center" yaml:"center"`
}

type EdgeParams struct {
	Vertex1    Vec  `json:"vertex1" yaml:"vertex1"`
	Vertex2    Vec  `json:"vertex2" yaml:"vertex2"`
	Vertex0    Vec  `json:"vertex0" yaml:"vertex0"`
	Vertex3    Vec  `json:"vertex3" yaml:"vertex3"`
	HasVertex0 bool `json:"hasVertex0" yaml:"hasVertex0"`
	HasVertex3 bool `json:"hasVertex3" yaml:"hasVertex3"`
}

// PolygonParams vertices go through the convex hull again when built.
type PolygonParams struct {
	Vertices []Vec `json:"vertices" yaml:"vertices"`
}

// ChainParams vertices of a loop end on the first vertex.
type ChainParams struct {
	Vertices      []Vec `json:"vertices" yaml:"vertices"`
	PrevVertex    Vec   `json:"prevVertex" yaml:"prevVertex"`
	NextVertex    Vec   `json:"nextVertex" yaml:"nextVertex"`
	HasPrevVertex bool  `json:"hasPrevVertex" yaml:"hasPrevVertex"`
	HasNextVertex bool  `json:"hasNextVertex" yaml:"hasNextVertex"`
}

// FixtureRecord attaches a shape, by index, to the body listing it.
type FixtureRecord struct {
	ShapeIndex  int     `json:"shape" yaml:"shape"`
	Friction    float64 `json:"friction" yaml:"friction"`
	Restitution float64 `json:"restitution" yaml:"restitution"`
	Density     float64 `json:"density" yaml:"density"`
	IsSensor    bool    `json:"sensor" yaml:"sensor"`
	Filter      Filter  `json:"filter" yaml:"filter"`
}

func (rec *FixtureRecord) reset() error {
	*rec = FixtureRecord{}
	def := physics.NewFixtureDef(nil)
	return errors.Wrap(copier.Copy(rec, &def), "fixture defaults")
}

func (rec *FixtureRecord) UnmarshalJSON(data []byte) error {
	if err := rec.reset(); err != nil {
		return err
	}
	type plain FixtureRecord
	return json.Unmarshal(data, (*plain)(rec))
}

func (rec *FixtureRecord) UnmarshalYAML(value *yaml.Node) error {
	if err := rec.reset(); err != nil {
		return err
	}
	type plain FixtureRecord
	return value.Decode((*plain)(rec))
}

// BodyRecord lists its fixtures by index in creation order.
type BodyRecord struct {
	Kind string `json:"type" yaml:"type"`

	Position        Vec     `json:"position" yaml:"position"`
	Angle           float64 `json:"angle" yaml:"angle"`
	LinearVelocity  Vec     `json:"linearVelocity" yaml:"linearVelocity"`
	AngularVelocity float64 `json:"angularVelocity" yaml:"angularVelocity"`
	LinearDamping   float64 `json:"linearDamping" yaml:"linearDamping"`
	AngularDamping  float64 `json:"angularDamping" yaml:"angularDamping"`
	GravityScale    float64 `json:"gravityScale" yaml:"gravityScale"`

	AllowSleep    bool `json:"allowSleep" yaml:"allowSleep"`
	Awake         bool `json:"awake" yaml:"awake"`
	FixedRotation bool `json:"fixedRotation" yaml:"fixedRotation"`
	Bullet        bool `json:"bullet" yaml:"bullet"`
	Active        bool `json:"active" yaml:"active"`

	Fixtures []int `json:"fixtures" yaml:"fixtures"`
}

func (rec *BodyRecord) reset() error {
	def := physics.NewBodyDef()
	*rec = BodyRecord{Kind: def.Type.String()}
	return errors.Wrap(copier.Copy(rec, &def), "body defaults")
}

func (rec *BodyRecord) UnmarshalJSON(data []byte) error {
	if err := rec.reset(); err != nil {
		return err
	}
	type plain BodyRecord
	return json.Unmarshal(data, (*plain)(rec))
}

func (rec *BodyRecord) UnmarshalYAML(value *yaml.Node) error {
	if err := rec.reset(); err != nil {
		return err
	}
	type plain BodyRecord
	return value.Decode((*plain)(rec))
}

// JointRecord is tagged by Kind, the joint type name. BodyA and BodyB are
// body indices; a gear takes its bodies from the joints it couples and
// ignores them.
type JointRecord struct {
	Kind             string `json:"type" yaml:"type"`
	BodyA            int    `json:"bodyA" yaml:"bodyA"`
	BodyB            int    `json:"bodyB" yaml:"bodyB"`
	CollideConnected bool   `json:"collideConnected" yaml:"collideConnected"`

	Revolute  *RevoluteParams  `json:"revolute,omitempty" yaml:"revolute,omitempty"`
	Prismatic *PrismaticParams `json:"prismatic,omitempty" yaml:"prismatic,omitempty"`
	Distance  *DistanceParams  `json:"distance,omitempty" yaml:"distance,omitempty"`
	Pulley    *PulleyParams    `json:"pulley,omitempty" yaml:"pulley,omitempty"`
	Mouse     *MouseParams     `json:"mouse,omitempty" yaml:"mouse,omitempty"`
	Gear      *GearParams      `json:"gear,omitempty" yaml:"gear,omitempty"`
	Wheel     *WheelParams     `json:"wheel,omitempty" yaml:"wheel,omitempty"`
	Weld      *WeldParams      `json:"weld,omitempty" yaml:"weld,omitempty"`
	Friction  *FrictionParams  `json:"friction,omitempty" yaml:"friction,omitempty"`
	Rope      *RopeParams      `json:"rope,omitempty" yaml:"rope,omitempty"`
	Motor     *MotorParams     `json:"motor,omitempty" yaml:"motor,omitempty"`
}

type RevoluteParams struct {
	LocalAnchorA   Vec     `json:"localAnchorA" yaml:"localAnchorA"`
	LocalAnchorB   Vec     `json:"localAnchorB" yaml:"localAnchorB"`
	ReferenceAngle float64 `json:"referenceAngle" yaml:"referenceAngle"`
	EnableLimit    bool    `json:"enableLimit" yaml:"enableLimit"`
	LowerAngle     float64 `json:"lowerAngle" yaml:"lowerAngle"`
	UpperAngle     float64 `json:"upperAngle" yaml:"upperAngle"`
	EnableMotor    bool    `json:"enableMotor" yaml:"enableMotor"`
	MotorSpeed     float64 `json:"motorSpeed" yaml:"motorSpeed"`
	MaxMotorTorque float64 `json:"maxMotorTorque" yaml:"maxMotorTorque"`
}

type PrismaticParams struct {
	LocalAnchorA     Vec     `json:"localAnchorA" yaml:"localAnchorA"`
	LocalAnchorB     Vec     `json:"localAnchorB" yaml:"localAnchorB"`
	LocalAxisA       Vec     `json:"localAxisA" yaml:"localAxisA"`
	ReferenceAngle   float64 `json:"referenceAngle" yaml:"referenceAngle"`
	EnableLimit      bool    `json:"enableLimit" yaml:"enableLimit"`
	LowerTranslation float64 `json:"lowerTranslation" yaml:"lowerTranslation"`
	UpperTranslation float64 `json:"upperTranslation" yaml:"upperTranslation"`
	EnableMotor      bool    `json:"enableMotor" yaml:"enableMotor"`
	MaxMotorForce    float64 `json:"maxMotorForce" yaml:"maxMotorForce"`
	MotorSpeed       float64 `json:"motorSpeed" yaml:"motorSpeed"`
}

type DistanceParams struct {
	LocalAnchorA Vec     `json:"localAnchorA" yaml:"localAnchorA"`
	LocalAnchorB Vec     `json:"localAnchorB" yaml:"localAnchorB"`
	Length       float64 `json:"length" yaml:"length"`
	FrequencyHz  float64 `json:"frequencyHz" yaml:"frequencyHz"`
	DampingRatio float64 `json:"dampingRatio" yaml:"dampingRatio"`
}

type PulleyParams struct {
	GroundAnchorA Vec     `json:"groundAnchorA" yaml:"groundAnchorA"`
	GroundAnchorB Vec     `json:"groundAnchorB" yaml:"groundAnchorB"`
	LocalAnchorA  Vec     `json:"localAnchorA" yaml:"localAnchorA"`
	LocalAnchorB  Vec     `json:"localAnchorB" yaml:"localAnchorB"`
	LengthA       float64 `json:"lengthA" yaml:"lengthA"`
	LengthB       float64 `json:"lengthB" yaml:"lengthB"`
	Ratio         float64 `json:"ratio" yaml:"ratio"`
}

// MouseParams keeps the grab point on body B separately from the target
// it is being dragged to.
type MouseParams struct {
	Target       Vec     `json:"target" yaml:"target"`
	LocalAnchorB Vec     `json:"localAnchorB" yaml:"localAnchorB"`
	MaxForce     float64 `json:"maxForce" yaml:"maxForce"`
	FrequencyHz  float64 `json:"frequencyHz" yaml:"frequencyHz"`
	DampingRatio float64 `json:"dampingRatio" yaml:"dampingRatio"`
}

// GearParams references two revolute or prismatic joints by index.
type GearParams struct {
	Joint1 int     `json:"joint1" yaml:"joint1"`
	Joint2 int     `json:"joint2" yaml:"joint2"`
	Ratio  float64 `json:"ratio" yaml:"ratio"`
}

type WheelParams struct {
	LocalAnchorA   Vec     `json:"localAnchorA" yaml:"localAnchorA"`
	LocalAnchorB   Vec     `json:"localAnchorB" yaml:"localAnchorB"`
	LocalAxisA     Vec     `json:"localAxisA" yaml:"localAxisA"`
	EnableMotor    bool    `json:"enableMotor" yaml:"enableMotor"`
	MaxMotorTorque float64 `json:"maxMotorTorque" yaml:"maxMotorTorque"`
	MotorSpeed     float64 `json:"motorSpeed" yaml:"motorSpeed"`
	FrequencyHz    float64 `json:"frequencyHz" yaml:"frequencyHz"`
	DampingRatio   float64 `json:"dampingRatio" yaml:"dampingRatio"`
}

type WeldParams struct {
	LocalAnchorA   Vec     `json:"localAnchorA" yaml:"localAnchorA"`
	LocalAnchorB   Vec     `json:"localAnchorB" yaml:"localAnchorB"`
	ReferenceAngle float64 `json:"referenceAngle" yaml:"referenceAngle"`
	FrequencyHz    float64 `json:"frequencyHz" yaml:"frequencyHz"`
	DampingRatio   float64 `json:"dampingRatio" yaml:"dampingRatio"`
}

type FrictionParams struct {
	LocalAnchorA Vec     `json:"localAnchorA" yaml:"localAnchorA"`
	LocalAnchorB Vec     `json:"localAnchorB" yaml:"localAnchorB"`
	MaxForce     float64 `json:"maxForce" yaml:"maxForce"`
	MaxTorque    float64 `json:"maxTorque" yaml:"maxTorque"`
}

type RopeParams struct {
	LocalAnchorA Vec     `json:"localAnchorA" yaml:"localAnchorA"`
	LocalAnchorB Vec     `json:"localAnchorB" yaml:"localAnchorB"`
	MaxLength    float64 `json:"maxLength" yaml:"maxLength"`
}

type MotorParams struct {
	LinearOffset     Vec     `json:"linearOffset" yaml:"linearOffset"`
	AngularOffset    float64 `json:"angularOffset" yaml:"angularOffset"`
	MaxForce         float64 `json:"maxForce" yaml:"maxForce"`
	MaxTorque        float64 `json:"maxTorque" yaml:"maxTorque"`
	CorrectionFactor float64 `json:"correctionFactor" yaml:"correctionFactor"`
}

// bind returns the parameter block for typ together with a fresh engine
// definition of that kind. A missing block is allocated and reported as
// fresh. Gear joints have no engine-side defaults to copy and are handled
// by the caller.
func (rec *JointRecord) bind(typ physics.JointType) (params interface{}, def physics.JointDef, fresh bool) {
	switch typ {
	case physics.RevoluteJointType:
		if fresh = rec.Revolute == nil; fresh {
			rec.Revolute = new(RevoluteParams)
		}
		return rec.Revolute, physics.NewRevoluteJointDef(), fresh
	case physics.PrismaticJointType:
		if fresh = rec.Prismatic == nil; fresh {
			rec.Prismatic = new(PrismaticParams)
		}
		return rec.Prismatic, physics.NewPrismaticJointDef(), fresh
	case physics.DistanceJointType:
		if fresh = rec.Distance == nil; fresh {
			rec.Distance = new(DistanceParams)
		}
		return rec.Distance, physics.NewDistanceJointDef(), fresh
	case physics.PulleyJointType:
		if fresh = rec.Pulley == nil; fresh {
			rec.Pulley = new(PulleyParams)
		}
		return rec.Pulley, physics.NewPulleyJointDef(), fresh
	case physics.MouseJointType:
		if fresh = rec.Mouse == nil; fresh {
			rec.Mouse = new(MouseParams)
		}
		return rec.Mouse, physics.NewMouseJointDef(), fresh
	case physics.WheelJointType:
		if fresh = rec.Wheel == nil; fresh {
			rec.Wheel = new(WheelParams)
		}
		return rec.Wheel, physics.NewWheelJointDef(), fresh
	case physics.WeldJointType:
		if fresh = rec.Weld == nil; fresh {
			rec.Weld = new(WeldParams)
		}
		return rec.Weld, physics.NewWeldJointDef(), fresh
	case physics.FrictionJointType:
		if fresh = rec.Friction == nil; fresh {
			rec.Friction = new(FrictionParams)
		}
		return rec.Friction, physics.NewFrictionJointDef(), fresh
	case physics.RopeJointType:
		if fresh = rec.Rope == nil; fresh {
			rec.Rope = new(RopeParams)
		}
		return rec.Rope, physics.NewRopeJointDef(), fresh
	case physics.MotorJointType:
		if fresh = rec.Motor == nil; fresh {
			rec.Motor = new(MotorParams)
		}
		return rec.Motor, physics.NewMotorJointDef(), fresh
	}
	return nil, nil, false
}

// reset clears the record and fills the parameter block of kind with the
// engine defaults, so fields a document leaves out keep them.
func (rec *JointRecord) reset(kind string) error {
	typ, ok := physics.ParseJointType(kind)
	if !ok {
		return errors.Wrapf(ErrUnknownJointKind, "%q", kind)
	}
	*rec = JointRecord{Kind: kind}
	if typ == physics.GearJointType {
		rec.Gear = &GearParams{Ratio: physics.NewGearJointDef().Ratio}
		return nil
	}
	params, def, _ := rec.bind(typ)
	return errors.Wrapf(copier.Copy(params, def), "%s joint defaults", kind)
}

func (rec *JointRecord) UnmarshalJSON(data []byte) error {
	var head struct {
		Kind string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if err := rec.reset(head.Kind); err != nil {
		return err
	}
	type plain JointRecord
	return json.Unmarshal(data, (*plain)(rec))
}

func (rec *JointRecord) UnmarshalYAML(value *yaml.Node) error {
	var head struct {
		Kind string `yaml:"type"`
	}
	if err := value.Decode(&head); err != nil {
		return err
	}
	if err := rec.reset(head.Kind); err != nil {
		return err
	}
	type plain JointRecord
	return value.Decode((*plain)(rec))
}
