package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles are three angles used to represent the rotation of an object in
// 3D Euclidean space, following the Tait-Bryan ZYX (yaw, pitch, roll) convention.
type EulerAngles struct {
	Roll  float64 `json:"roll"`  // rotation about the x axis, radians
	Pitch float64 `json:"pitch"` // rotation about the y axis, radians
	Yaw   float64 `json:"yaw"`   // rotation about the z axis, radians
}

// NewEulerAngles creates an empty EulerAngles struct.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{}
}

// Quaternion returns the rotation quaternion equivalent to these Euler angles.
func (ea *EulerAngles) Quaternion() quat.Number {
	cy := math.Cos(ea.Yaw / 2)
	sy := math.Sin(ea.Yaw / 2)
	cp := math.Cos(ea.Pitch / 2)
	sp := math.Sin(ea.Pitch / 2)
	cr := math.Cos(ea.Roll / 2)
	sr := math.Sin(ea.Roll / 2)

	return quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}
}

// QuatToEulerAngles converts a rotation quaternion to Euler angles.
func QuatToEulerAngles(q quat.Number) *EulerAngles {
	sinPitch := 2 * (q.Real*q.Jmag - q.Kmag*q.Imag)
	// gimbal lock at pitch = +/- pi/2
	if math.Abs(sinPitch) >= 1 {
		return &EulerAngles{
			Roll:  0,
			Pitch: math.Copysign(math.Pi/2, sinPitch),
			Yaw:   2 * math.Atan2(q.Imag, q.Real),
		}
	}
	return &EulerAngles{
		Roll:  math.Atan2(2*(q.Real*q.Imag+q.Jmag*q.Kmag), 1-2*(q.Imag*q.Imag+q.Jmag*q.Jmag)),
		Pitch: math.Asin(sinPitch),
		Yaw:   math.Atan2(2*(q.Real*q.Kmag+q.Imag*q.Jmag), 1-2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag)),
	}
}
