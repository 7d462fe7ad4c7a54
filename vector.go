package physics

import (
	"fmt"
	"math"
)

// Vector is a 2D column vector.
type Vector struct {
	X, Y float64
}

func (v Vector) String() string {
	return fmt.Sprintf("%f,%f", v.X, v.Y)
}

func (v Vector) Equal(other Vector) bool {
	return v.X == other.X && v.Y == other.Y
}

func (v Vector) Add(other Vector) Vector {
	return Vector{v.X + other.X, v.Y + other.Y}
}

func (v Vector) Sub(other Vector) Vector {
	return Vector{v.X - other.X, v.Y - other.Y}
}

func (v Vector) Neg() Vector {
	return Vector{-v.X, -v.Y}
}

func (v Vector) Mult(s float64) Vector {
	return Vector{v.X * s, v.Y * s}
}

func (v Vector) Dot(other Vector) float64 {
	return v.X*other.X + v.Y*other.Y
}

/// 2D vector cross product analog.
/// The cross product of 2D vectors results in a 3D vector with only a z component.
/// This function returns the magnitude of the z value.
func (v Vector) Cross(other Vector) float64 {
	return v.X*other.Y - v.Y*other.X
}

// CrossVS is the cross product of a vector and a scalar: (s*v.Y, -s*v.X).
func CrossVS(v Vector, s float64) Vector {
	return Vector{s * v.Y, -s * v.X}
}

// CrossSV is the cross product of a scalar and a vector: (-s*v.Y, s*v.X).
func CrossSV(s float64, v Vector) Vector {
	return Vector{-s * v.Y, s * v.X}
}

// Perp is the counter-clockwise perpendicular (the skew vector).
func (v Vector) Perp() Vector {
	return Vector{-v.Y, v.X}
}

func (v Vector) ReversePerp() Vector {
	return Vector{v.Y, -v.X}
}

/// Returns the unit length vector for the given angle (in radians).
func ForAngle(a float64) Vector {
	return Vector{math.Cos(a), math.Sin(a)}
}

func (v Vector) ToAngle() float64 {
	return math.Atan2(v.Y, v.X)
}

func (v Vector) LengthSq() float64 {
	return v.Dot(v)
}

func (v Vector) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vector) Lerp(other Vector, t float64) Vector {
	return v.Mult(1.0 - t).Add(other.Mult(t))
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector if v is shorter than epsilon.
func (v Vector) Normalize() Vector {
	n, _ := v.NormalizeLength()
	return n
}

// NormalizeLength returns the unit vector and the original length. Vectors
// shorter than epsilon are returned unchanged with a zero length.
func (v Vector) NormalizeLength() (Vector, float64) {
	length := v.Length()
	if length < epsilon {
		return v, 0
	}
	inv := 1.0 / length
	return Vector{v.X * inv, v.Y * inv}, length
}

func (v Vector) Abs() Vector {
	return Vector{math.Abs(v.X), math.Abs(v.Y)}
}

// Min is the component-wise minimum.
func (v Vector) Min(other Vector) Vector {
	return Vector{math.Min(v.X, other.X), math.Min(v.Y, other.Y)}
}

// Max is the component-wise maximum.
func (v Vector) Max(other Vector) Vector {
	return Vector{math.Max(v.X, other.X), math.Max(v.Y, other.Y)}
}

// IsValid reports whether both components are finite numbers.
func (v Vector) IsValid() bool {
	return IsValid(v.X) && IsValid(v.Y)
}

func (v Vector) Distance(other Vector) float64 {
	return v.Sub(other).Length()
}

func (v Vector) DistanceSq(other Vector) float64 {
	return v.Sub(other).LengthSq()
}

func (v Vector) Near(other Vector, d float64) bool {
	return v.DistanceSq(other) < d*d
}

func (v Vector) Clamp(length float64) Vector {
	if v.Dot(v) > length*length {
		return v.Normalize().Mult(length)
	}
	return v
}

func (p Vector) ClosestPointOnSegment(a, b Vector) Vector {
	delta := a.Sub(b)
	t := Clamp01(delta.Dot(p.Sub(b)) / delta.LengthSq())
	return b.Add(delta.Mult(t))
}

// IsValid reports whether x is neither NaN nor infinite.
func IsValid(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func Clamp(f, min, max float64) float64 {
	return math.Min(math.Max(f, min), max)
}

func Clamp01(f float64) float64 {
	return math.Max(0, math.Min(f, 1))
}

func Lerp(f1, f2, t float64) float64 {
	return f1*(1.0-t) + f2*t
}
