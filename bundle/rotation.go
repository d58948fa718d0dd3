// Package bundle holds the rotation routines shared with the bundle adjustment
// code: camera orientations as axis-angle vectors, rotation matrices or
// quaternions, and pure functions applying them to sets of points.
package bundle

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rotation is a camera orientation. Implementations must be pure.
type Rotation interface {
	// Rotate returns v rotated about the origin.
	Rotate(v r3.Vec) r3.Vec
}

// ErrNotRotation is returned when a matrix is not a proper rotation.
var ErrNotRotation = errors.New("matrix is not a rotation")

// matrixTol is the tolerance on orthonormality and determinant checks.
const matrixTol = 1e-6

// Identity is the rotation that leaves every vector unchanged.
var Identity Rotation = identity{}

type identity struct{}

func (identity) Rotate(v r3.Vec) r3.Vec { return v }

// RotVec is an axis-angle rotation vector, the parametrization used by
// bundle adjustment: the direction is the rotation axis and the norm is the
// counter-clockwise angle in radians. The zero RotVec is the identity.
type RotVec r3.Vec

// Rotate applies Rodrigues' rotation formula to v.
func (rv RotVec) Rotate(v r3.Vec) r3.Vec {
	axis := r3.Vec(rv)
	theta := r3.Norm(axis)
	if theta == 0 {
		return v
	}
	return r3.NewRotation(theta, axis).Rotate(v)
}

// Quat is a rotation stored as a unit quaternion. Use NewQuat to build one
// from an arbitrary non-zero quaternion.
type Quat r3.Rotation

// NewQuat normalizes q and returns it as a rotation. The zero quaternion
// returns the identity.
func NewQuat(q quat.Number) Quat {
	n := quat.Abs(q)
	if n == 0 {
		return Quat{Real: 1}
	}
	return Quat(quat.Scale(1/n, q))
}

// Rotate rotates v by the quaternion.
func (q Quat) Rotate(v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

// Matrix is a 3x3 rotation matrix acting on column vectors.
type Matrix struct {
	m *mat.Dense
}

// NewMatrix returns the rotation matrix with elements given in row-major
// order. It fails with ErrNotRotation if the matrix is not orthonormal with
// determinant 1.
func NewMatrix(rowMajor [9]float64) (Matrix, error) {
	m := mat.NewDense(3, 3, rowMajor[:])
	var rtr mat.Dense
	rtr.Mul(m.T(), m)
	eye := mat.NewDiagDense(3, []float64{1, 1, 1})
	if !mat.EqualApprox(&rtr, eye, matrixTol) {
		return Matrix{}, errors.Wrap(ErrNotRotation, "columns not orthonormal")
	}
	if det := mat.Det(m); det < 1-matrixTol || det > 1+matrixTol {
		return Matrix{}, errors.Wrapf(ErrNotRotation, "determinant %g", det)
	}
	return Matrix{m: m}, nil
}

// Rotate returns R*v. The zero Matrix acts as the identity.
func (r Matrix) Rotate(v r3.Vec) r3.Vec {
	if r.m == nil {
		return v
	}
	var out mat.VecDense
	out.MulVec(r.m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return r3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// Rotate returns a new slice with every point rotated about the origin by rot.
// A nil rot is the identity.
func Rotate(points []r3.Vec, rot Rotation) []r3.Vec {
	return RotateAbout(points, r3.Vec{}, rot)
}

// RotateAbout returns a new slice with every point rotated by rot about center.
func RotateAbout(points []r3.Vec, center r3.Vec, rot Rotation) []r3.Vec {
	if rot == nil {
		rot = Identity
	}
	out := make([]r3.Vec, len(points))
	for i, p := range points {
		out[i] = r3.Add(center, rot.Rotate(r3.Sub(p, center)))
	}
	return out
}
