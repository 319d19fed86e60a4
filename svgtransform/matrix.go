// Implements the 2D affine algebra behind the transform attribute.
package svgtransform

import "math"

// Matrix2D is the affine transform
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
//
// matching the column order of the SVG matrix() function.
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the zero transform.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns a x b; the composite applies b first, then a.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Translate returns a composed with a translation by x, y.
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Scale returns a composed with a scale by x, y.
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// Rotate returns a composed with a rotation by ang radians about the origin.
func (a Matrix2D) Rotate(ang float64) Matrix2D {
	sin, cos := math.Sin(ang), math.Cos(ang)
	return a.Mult(Matrix2D{cos, sin, -sin, cos, 0, 0})
}

// SkewX returns a composed with a skew along x by ang radians.
func (a Matrix2D) SkewX(ang float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, math.Tan(ang), 1, 0, 0})
}

// SkewY returns a composed with a skew along y by ang radians.
func (a Matrix2D) SkewY(ang float64) Matrix2D {
	return a.Mult(Matrix2D{1, math.Tan(ang), 0, 1, 0, 0})
}

// Transform applies the matrix to the point x, y.
func (a Matrix2D) Transform(x, y float64) (float64, float64) {
	return a.A*x + a.C*y + a.E, a.B*x + a.D*y + a.F
}

// Det is the determinant of the linear part.
func (a Matrix2D) Det() float64 {
	return a.A*a.D - a.B*a.C
}
