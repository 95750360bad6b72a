package g3d

import "github.com/chewxy/math32"

// Mat4 represents a 4x4 transformation matrix in row-major order:
// element (row, col) is stored at index row*4 + col.
//
// Points and vectors transform as column vectors: p' = M * p.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation creates a translation matrix.
func Translation(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

// Scaling creates a scaling matrix.
func Scaling(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotationX creates a rotation matrix around the X axis (angle in radians).
func RotationX(angle float32) Mat4 {
	sin, cos := math32.Sincos(angle)
	return Mat4{
		1, 0, 0, 0,
		0, cos, -sin, 0,
		0, sin, cos, 0,
		0, 0, 0, 1,
	}
}

// RotationY creates a rotation matrix around the Y axis (angle in radians).
func RotationY(angle float32) Mat4 {
	sin, cos := math32.Sincos(angle)
	return Mat4{
		cos, 0, sin, 0,
		0, 1, 0, 0,
		-sin, 0, cos, 0,
		0, 0, 0, 1,
	}
}

// RotationZ creates a rotation matrix around the Z axis (angle in radians).
func RotationZ(angle float32) Mat4 {
	sin, cos := math32.Sincos(angle)
	return Mat4{
		cos, -sin, 0, 0,
		sin, cos, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two matrices (m * other). Applying the result to a
// point is equivalent to applying other first, then m.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * other[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// TransformPoint applies the full transformation (including translation)
// to a point.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		Y: m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		Z: m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// TransformVector applies the upper-left 3x3 part of the matrix to a
// direction vector, ignoring translation.
func (m Mat4) TransformVector(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

// TransformNormal applies the rotation part of the matrix to a surface
// normal and renormalizes the result. This is correct for rigid and
// uniformly scaled transforms; strongly non-uniform scales need the
// inverse-transpose, which callers can build via Inverse and Transpose.
func (m Mat4) TransformNormal(n Vec3) Vec3 {
	return m.TransformVector(n).Normalize()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[col*4+row] = m[row*4+col]
		}
	}
	return out
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float32 {
	return m[0]*cofactor(m, 0, 0) - m[1]*cofactor(m, 0, 1) +
		m[2]*cofactor(m, 0, 2) - m[3]*cofactor(m, 0, 3)
}

// Inverse returns the inverse matrix. The second return value is false
// if the matrix is singular, in which case the identity is returned.
func (m Mat4) Inverse() (Mat4, bool) {
	det := m.Determinant()
	if det == 0 {
		return Identity(), false
	}
	inv := 1 / det
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sign := float32(1)
			if (row+col)%2 == 1 {
				sign = -1
			}
			// Adjugate: transpose of the cofactor matrix.
			out[col*4+row] = sign * cofactor(m, row, col) * inv
		}
	}
	return out, true
}

// cofactor returns the 3x3 minor determinant for element (row, col).
func cofactor(m Mat4, row, col int) float32 {
	var sub [9]float32
	i := 0
	for r := 0; r < 4; r++ {
		if r == row {
			continue
		}
		for c := 0; c < 4; c++ {
			if c == col {
				continue
			}
			sub[i] = m[r*4+c]
			i++
		}
	}
	return sub[0]*(sub[4]*sub[8]-sub[5]*sub[7]) -
		sub[1]*(sub[3]*sub[8]-sub[5]*sub[6]) +
		sub[2]*(sub[3]*sub[7]-sub[4]*sub[6])
}

// IsIdentity returns true if the matrix is exactly the identity.
// This is an exact comparison, not an epsilon test: callers use it to
// skip transform work entirely, which is only safe for bit-identical
// identity matrices.
func (m Mat4) IsIdentity() bool {
	return m == Identity()
}

// Approx returns true if two matrices are approximately equal within epsilon.
func (m Mat4) Approx(other Mat4, epsilon float32) bool {
	for i := range m {
		if math32.Abs(m[i]-other[i]) >= epsilon {
			return false
		}
	}
	return true
}
