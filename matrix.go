package physics

import "github.com/go-gl/mathgl/mgl64"

// Mat22 is a 2x2 matrix stored in column-major order.
type Mat22 struct {
	Ex, Ey Vector
}

func NewMat22(a11, a12, a21, a22 float64) Mat22 {
	return Mat22{Ex: Vector{a11, a21}, Ey: Vector{a12, a22}}
}

// Inverse returns the inverse, or the zero matrix if m is singular.
func (m Mat22) Inverse() Mat22 {
	a, b, c, d := m.Ex.X, m.Ey.X, m.Ex.Y, m.Ey.Y
	det := a*d - b*c
	if det != 0 {
		det = 1.0 / det
	}
	return Mat22{
		Ex: Vector{det * d, -det * c},
		Ey: Vector{-det * b, det * a},
	}
}

// Solve returns x for A * x = b without computing the inverse. A singular
// matrix yields the zero vector.
func (m Mat22) Solve(b Vector) Vector {
	a11, a12, a21, a22 := m.Ex.X, m.Ey.X, m.Ex.Y, m.Ey.Y
	det := a11*a22 - a12*a21
	if det != 0 {
		det = 1.0 / det
	}
	return Vector{det * (a22*b.X - a12*b.Y), det * (a11*b.Y - a21*b.X)}
}

// Transform multiplies m by v.
func (m Mat22) Transform(v Vector) Vector {
	return Vector{m.Ex.X*v.X + m.Ey.X*v.Y, m.Ex.Y*v.X + m.Ey.Y*v.Y}
}

// Mat33 is a 3x3 matrix stored as three mgl64 columns.
type Mat33 struct {
	Ex, Ey, Ez mgl64.Vec3
}

func (m Mat33) mat3() mgl64.Mat3 {
	return mgl64.Mat3FromCols(m.Ex, m.Ey, m.Ez)
}

// Mul multiplies m by v.
func (m Mat33) Mul(v mgl64.Vec3) mgl64.Vec3 {
	return m.mat3().Mul3x1(v)
}

// Mul22 multiplies the upper 2x2 block of m by v.
func (m Mat33) Mul22(v Vector) Vector {
	return Vector{m.Ex[0]*v.X + m.Ey[0]*v.Y, m.Ex[1]*v.X + m.Ey[1]*v.Y}
}

// Solve33 returns x for A * x = b by Cramer's rule. Only an exactly
// singular matrix yields zero.
func (m Mat33) Solve33(b mgl64.Vec3) mgl64.Vec3 {
	det := m.Ex.Dot(m.Ey.Cross(m.Ez))
	if det != 0 {
		det = 1.0 / det
	}
	return mgl64.Vec3{
		det * b.Dot(m.Ey.Cross(m.Ez)),
		det * m.Ex.Dot(b.Cross(m.Ez)),
		det * m.Ex.Dot(m.Ey.Cross(b)),
	}
}

// Solve22 solves with the upper 2x2 block only.
func (m Mat33) Solve22(b Vector) Vector {
	return Mat22{Ex: Vector{m.Ex[0], m.Ex[1]}, Ey: Vector{m.Ey[0], m.Ey[1]}}.Solve(b)
}

// Inverse22 returns the inverse of the upper 2x2 block embedded in a 3x3
// matrix with zeros elsewhere.
func (m Mat33) Inverse22() Mat33 {
	inv := Mat22{Ex: Vector{m.Ex[0], m.Ex[1]}, Ey: Vector{m.Ey[0], m.Ey[1]}}.Inverse()
	return Mat33{
		Ex: mgl64.Vec3{inv.Ex.X, inv.Ex.Y, 0},
		Ey: mgl64.Vec3{inv.Ey.X, inv.Ey.Y, 0},
	}
}

// SymInverse33 returns the inverse of a symmetric matrix from its
// cofactors, or zero if it is singular.
func (m Mat33) SymInverse33() Mat33 {
	det := m.Ex.Dot(m.Ey.Cross(m.Ez))
	if det != 0 {
		det = 1.0 / det
	}

	a11, a12, a13 := m.Ex[0], m.Ey[0], m.Ez[0]
	a22, a23 := m.Ey[1], m.Ez[1]
	a33 := m.Ez[2]

	var inv Mat33
	inv.Ex[0] = det * (a22*a33 - a23*a23)
	inv.Ex[1] = det * (a13*a23 - a12*a33)
	inv.Ex[2] = det * (a12*a23 - a13*a22)

	inv.Ey[0] = inv.Ex[1]
	inv.Ey[1] = det * (a11*a33 - a13*a13)
	inv.Ey[2] = det * (a13*a12 - a11*a23)

	inv.Ez[0] = inv.Ex[2]
	inv.Ez[1] = inv.Ey[2]
	inv.Ez[2] = det * (a11*a22 - a12*a12)
	return inv
}
