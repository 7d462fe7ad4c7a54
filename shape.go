package physics

import "fmt"

// ShapeKind tags the closed set of collision shapes.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeEdge
	ShapePolygon
	ShapeChain
	shapeKindCount
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeEdge:
		return "edge"
	case ShapePolygon:
		return "polygon"
	case ShapeChain:
		return "chain"
	}
	return fmt.Sprintf("ShapeKind(%d)", uint8(k))
}

// ParseShapeKind is the inverse of ShapeKind.String.
func ParseShapeKind(name string) (ShapeKind, bool) {
	for k := ShapeCircle; k < shapeKindCount; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// MassData holds the mass properties computed for a shape.
type MassData struct {
	// The mass of the shape, usually in kilograms.
	Mass float64
	// The position of the shape's centroid relative to the shape's origin.
	Center Vector
	// The rotational inertia of the shape about the local origin.
	I float64
}

// RayCastInput is the ray p1 + t * (p2 - p1) for t in [0, MaxFraction].
type RayCastInput struct {
	P1, P2      Vector
	MaxFraction float64
}

// RayCastOutput is the hit normal and fraction along the input ray.
type RayCastOutput struct {
	Normal   Vector
	Fraction float64
}

// Shape is implemented by Circle, Polygon, Edge and Chain only. Shapes are
// immutable geometry in the body frame; the radius is the rounding skin
// every narrow-phase routine applies.
type Shape interface {
	Kind() ShapeKind
	Radius() float64

	// ChildCount is the number of child primitives (edges for a chain).
	ChildCount() int

	// TestPoint reports whether the world point p is inside the shape.
	TestPoint(xf Transform, p Vector) bool

	// RayCast casts a world ray against one child.
	RayCast(input RayCastInput, xf Transform, childIndex int) (RayCastOutput, bool)

	// ComputeAABB returns the world box of one child.
	ComputeAABB(xf Transform, childIndex int) BB

	// ComputeMass returns the mass properties for the given density.
	ComputeMass(density float64) MassData

	// Clone returns a deep copy of the shape.
	Clone() Shape

	// distanceProxy builds the GJK support set of one child.
	distanceProxy(childIndex int) DistanceProxy
}
