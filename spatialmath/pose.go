// Package spatialmath defines the spatial math used by the motion core: poses as
// dual quaternions, Euler angle conversions, and pose deltas.
package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a rigid transform in 3D space as a unit dual quaternion.
// The zero value is not usable; construct with one of the New functions.
type Pose struct {
	q dualquat.Number
}

// NewZeroPose returns a pose at the origin with no rotation. Since the real part
// of a dual quaternion must be a unit quaternion, not all zeroes, this should be
// used instead of &Pose{}.
func NewZeroPose() *Pose {
	return &Pose{dualquat.Number{
		Real: quat.Number{Real: 1},
		Dual: quat.Number{},
	}}
}

// NewPose returns a pose at the given point with the given orientation.
func NewPose(pt r3.Vector, o *EulerAngles) *Pose {
	p := &Pose{dualquat.Number{Real: o.Quaternion()}}
	p.setTranslation(pt.X, pt.Y, pt.Z)
	return p
}

// NewPoseFromPoint returns a pose at the given point with no rotation.
func NewPoseFromPoint(pt r3.Vector) *Pose {
	p := NewZeroPose()
	p.setTranslation(pt.X, pt.Y, pt.Z)
	return p
}

// NewPoseFromAxisAngle returns a pose with no translation, rotated by theta
// radians about the given axis.
func NewPoseFromAxisAngle(axis r3.Vector, theta float64) *Pose {
	axis = axis.Normalize()
	s := math.Sin(theta / 2)
	return &Pose{dualquat.Number{
		Real: quat.Number{
			Real: math.Cos(theta / 2),
			Imag: s * axis.X,
			Jmag: s * axis.Y,
			Kmag: s * axis.Z,
		},
	}}
}

// NewPoseFromDH returns the fixed portion of a Denavit-Hartenberg joint
// transform: a translation of (a, 0, d) composed with a rotation of alpha about
// the x axis. The variable rotation about z is composed separately by the caller.
func NewPoseFromDH(a, d, alpha float64) *Pose {
	m := mgl64.Ident4()

	m.Set(1, 1, math.Cos(alpha))
	m.Set(1, 2, -1*math.Sin(alpha))

	m.Set(2, 1, math.Sin(alpha))
	m.Set(2, 2, math.Cos(alpha))

	qRot := mgl64.Mat4ToQuat(m)
	p := &Pose{dualquat.Number{
		Real: quat.Number{Real: qRot.W, Imag: qRot.X(), Jmag: qRot.Y(), Kmag: qRot.Z()},
	}}
	p.setTranslation(a, 0, d)
	return p
}

// Compose returns the pose representing this transform followed by the given one.
func (p *Pose) Compose(by *Pose) *Pose {
	q := by.q
	// Ensure we are multiplying by a unit dual quaternion
	if vecLen := quat.Abs(q.Real); vecLen != 1 {
		q.Real = quat.Scale(1/vecLen, q.Real)
	}
	return &Pose{dualquat.Mul(p.q, q)}
}

// Point returns the translation component of the pose.
func (p *Pose) Point() r3.Vector {
	t := dualquat.Mul(p.q, dualquat.Conj(p.q))
	return r3.Vector{X: t.Dual.Imag, Y: t.Dual.Jmag, Z: t.Dual.Kmag}
}

// Quaternion returns the rotation quaternion of the pose.
func (p *Pose) Quaternion() quat.Number {
	return p.q.Real
}

// Orientation returns the rotation of the pose as Euler angles.
func (p *Pose) Orientation() *EulerAngles {
	return QuatToEulerAngles(p.q.Real)
}

// setTranslation correctly sets the translation quaternion against the rotation.
func (p *Pose) setTranslation(x, y, z float64) {
	p.q.Dual = quat.Mul(quat.Number{Imag: x / 2, Jmag: y / 2, Kmag: z / 2}, p.q.Real)
}

// ToDelta returns the difference between two poses as a six element vector:
// translation deltas followed by an orientation delta in axis angle form.
// Quaternion/axis angle is used for the orientation because distances are
// well-defined there.
func (p *Pose) ToDelta(other *Pose) []float64 {
	ret := make([]float64, 3, 6)

	pt := p.Point()
	otherPt := other.Point()
	ret[0] = otherPt.X - pt.X
	ret[1] = otherPt.Y - pt.Y
	ret[2] = otherPt.Z - pt.Z

	quatBetween := quat.Mul(other.q.Real, quat.Conj(p.q.Real))
	return append(ret, QuatToAxisAngle(quatBetween)...)
}

// AlmostCoincident returns whether two poses are within epsilon of each other
// in both translation and orientation, measured on the ToDelta vector.
func (p *Pose) AlmostCoincident(other *Pose, epsilon float64) bool {
	delta := p.ToDelta(other)
	var sum float64
	for _, d := range delta {
		sum += d * d
	}
	return sum < epsilon*epsilon
}

// QuatToAxisAngle converts a quaternion to an R3 axis angle, a vector whose
// direction is the rotation axis and whose magnitude is the rotation in radians.
func QuatToAxisAngle(q quat.Number) []float64 {
	denom := quatNorm(q)

	angle := 2 * math.Atan2(denom, math.Abs(q.Real))
	if q.Real < 0 {
		angle *= -1
	}

	axisAngle := make([]float64, 3)
	if denom > 1e-6 {
		axisAngle[0] = angle * q.Imag / denom
		axisAngle[1] = angle * q.Jmag / denom
		axisAngle[2] = angle * q.Kmag / denom
	}
	return axisAngle
}

// quatNorm returns the norm of the imaginary part of the quaternion.
func quatNorm(q quat.Number) float64 {
	return math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
}
