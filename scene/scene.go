// Package scene reads and writes whole worlds as JSON or YAML documents.
//
// A document holds four arrays: shapes, fixtures (a shape index plus
// material and filter), bodies (state plus fixture indices) and joints
// (a type tag, two body indices and per-kind parameters). Records refer to
// each other by zero-based index. Gear joints refer to two other joints and
// are built after every other joint, so they may point forward in the
// document.
package scene

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	physics "github.com/flowersteam/Interactive-DeepRL-Demo-sub000"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Scene is the persisted form of a world.
type Scene struct {
	Gravity           Vec  `json:"gravity" yaml:"gravity"`
	AllowSleep        bool `json:"allowSleep" yaml:"allowSleep"`
	WarmStarting      bool `json:"warmStarting" yaml:"warmStarting"`
	ContinuousPhysics bool `json:"continuousPhysics" yaml:"continuousPhysics"`
	SubStepping       bool `json:"subStepping" yaml:"subStepping"`

	Shapes   []ShapeRecord   `json:"shapes" yaml:"shapes"`
	Fixtures []FixtureRecord `json:"fixtures" yaml:"fixtures"`
	Bodies   []BodyRecord    `json:"bodies" yaml:"bodies"`
	Joints   []JointRecord   `json:"joints" yaml:"joints"`
}

// New returns an empty scene with the world defaults.
func New() *Scene {
	return &Scene{
		Gravity:           Vec{0, -10},
		AllowSleep:        true,
		WarmStarting:      true,
		ContinuousPhysics: true,
	}
}

type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return JSON, errors.Errorf("unknown scene file extension %q", filepath.Ext(path))
}

// Decode parses a document. Settings it leaves out keep the defaults of
// New and of the engine definitions.
func Decode(data []byte, format Format) (*Scene, error) {
	s := New()
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, s)
	default:
		err = json.Unmarshal(data, s)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %v scene", format)
	}
	return s, nil
}

func (s *Scene) Encode(format Format) ([]byte, error) {
	switch format {
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, errors.Wrap(err, "encode yaml scene")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "encode yaml scene")
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(s, "", "\t")
		return data, errors.Wrap(err, "encode json scene")
	}
}

// Load reads a scene file, choosing the format from its extension.
func Load(path string) (*Scene, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scene")
	}
	s, err := Decode(data, format)
	return s, errors.Wrap(err, path)
}

func (s *Scene) Save(path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := s.Encode(format)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "write scene")
}

// Instance is a world built from a scene. The slices follow document order.
type Instance struct {
	World    *physics.World
	Bodies   []*physics.Body
	Fixtures []*physics.Fixture
	Joints   []physics.Joint
}
