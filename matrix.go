package stereo

import (
	"math"

	"golang.org/x/image/math/f32"
)

// Matrix represents a 4x4 transformation matrix in row-major order:
//
//	| m[0]  m[1]  m[2]  m[3]  |
//	| m[4]  m[5]  m[6]  m[7]  |
//	| m[8]  m[9]  m[10] m[11] |
//	| m[12] m[13] m[14] m[15] |
//
// Points are column vectors: p' = M * p.
type Matrix f32.Mat4

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(x, y, z float32) Matrix {
	return Matrix{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y, z float32) Matrix {
	return Matrix{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation about the Z axis (angle in radians).
func RotateZ(angle float64) Matrix {
	cos := float32(math.Cos(angle))
	sin := float32(math.Sin(angle))
	return Matrix{
		cos, -sin, 0, 0,
		sin, cos, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho creates an orthographic projection mapping the box
// [left, right] x [bottom, top] x [near, far] to clip space with
// x, y in [-1, 1] and z in [0, 1].
func Ortho(left, right, bottom, top, near, far float32) Matrix {
	return Matrix{
		2 / (right - left), 0, 0, -(right + left) / (right - left),
		0, 2 / (top - bottom), 0, -(top + bottom) / (top - bottom),
		0, 0, 1 / (far - near), -near / (far - near),
		0, 0, 0, 1,
	}
}

// ScreenProjection returns the orthographic projection for a width x height
// pixel target with the origin at the top-left corner and Y growing down.
func ScreenProjection(width, height int) Matrix {
	return Ortho(0, float32(width), float32(height), 0, 0, 1)
}

// Multiply multiplies two matrices (m * other).
func (m Matrix) Multiply(other Matrix) Matrix {
	var out Matrix
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

// Transform applies the matrix to a homogeneous point.
func (m Matrix) Transform(p [4]float32) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row*4]*p[0] + m[row*4+1]*p[1] + m[row*4+2]*p[2] + m[row*4+3]*p[3]
	}
	return out
}

// Row returns one row of the matrix.
func (m Matrix) Row(i int) f32.Vec4 {
	return f32.Vec4{m[i*4], m[i*4+1], m[i*4+2], m[i*4+3]}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation returns true if the matrix is only a translation.
func (m Matrix) IsTranslation() bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 &&
		m[4] == 0 && m[5] == 1 && m[6] == 0 &&
		m[8] == 0 && m[9] == 0 && m[10] == 1 &&
		m[12] == 0 && m[13] == 0 && m[14] == 0 && m[15] == 1
}
