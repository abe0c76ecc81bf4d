package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestNewZeroPose(t *testing.T) {
	p := NewZeroPose()
	test.That(t, p.Point(), test.ShouldResemble, r3.Vector{})
	o := p.Orientation()
	test.That(t, o.Roll, test.ShouldAlmostEqual, 0)
	test.That(t, o.Pitch, test.ShouldAlmostEqual, 0)
	test.That(t, o.Yaw, test.ShouldAlmostEqual, 0)
}

func TestPoseFromPoint(t *testing.T) {
	pt := r3.Vector{X: 1.5, Y: -2, Z: 0.25}
	p := NewPoseFromPoint(pt)
	test.That(t, p.Point().X, test.ShouldAlmostEqual, pt.X)
	test.That(t, p.Point().Y, test.ShouldAlmostEqual, pt.Y)
	test.That(t, p.Point().Z, test.ShouldAlmostEqual, pt.Z)
}

func TestCompose(t *testing.T) {
	// translation composes additively
	p := NewPoseFromPoint(r3.Vector{X: 1}).Compose(NewPoseFromPoint(r3.Vector{Y: 1}))
	test.That(t, p.Point().X, test.ShouldAlmostEqual, 1)
	test.That(t, p.Point().Y, test.ShouldAlmostEqual, 1)

	// a 90 degree rotation about z carries a subsequent x translation onto y
	rot := NewPoseFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2)
	p = rot.Compose(NewPoseFromPoint(r3.Vector{X: 1}))
	test.That(t, p.Point().X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, p.Point().Y, test.ShouldAlmostEqual, 1)
	test.That(t, p.Point().Z, test.ShouldAlmostEqual, 0, 1e-9)
}

func TestPoseFromDH(t *testing.T) {
	// pure link offset
	p := NewPoseFromDH(0, 0.1625, 0)
	test.That(t, p.Point().X, test.ShouldAlmostEqual, 0)
	test.That(t, p.Point().Z, test.ShouldAlmostEqual, 0.1625)

	// link twist of -pi/2 about x
	p = NewPoseFromDH(0.425, 0, -math.Pi/2)
	test.That(t, p.Point().X, test.ShouldAlmostEqual, 0.425)
	test.That(t, p.Orientation().Roll, test.ShouldAlmostEqual, -math.Pi/2)
}

func TestEulerAnglesRoundTrip(t *testing.T) {
	for _, ea := range []EulerAngles{
		{Roll: 0.3, Pitch: -0.2, Yaw: 1.1},
		{Roll: -math.Pi / 3, Pitch: 0.4, Yaw: -2.0},
		{Roll: math.Pi / 2, Pitch: 0, Yaw: 0},
		{},
	} {
		back := QuatToEulerAngles(ea.Quaternion())
		test.That(t, back.Roll, test.ShouldAlmostEqual, ea.Roll, 1e-9)
		test.That(t, back.Pitch, test.ShouldAlmostEqual, ea.Pitch, 1e-9)
		test.That(t, back.Yaw, test.ShouldAlmostEqual, ea.Yaw, 1e-9)
	}
}

func TestToDelta(t *testing.T) {
	a := NewPoseFromPoint(r3.Vector{X: 1})
	b := NewPoseFromPoint(r3.Vector{X: 2, Y: -1})
	delta := a.ToDelta(b)
	test.That(t, len(delta), test.ShouldEqual, 6)
	test.That(t, delta[0], test.ShouldAlmostEqual, 1)
	test.That(t, delta[1], test.ShouldAlmostEqual, -1)
	test.That(t, delta[2], test.ShouldAlmostEqual, 0)
	test.That(t, delta[3], test.ShouldAlmostEqual, 0)

	// rotation-only delta shows up in the axis angle components
	c := NewPoseFromAxisAngle(r3.Vector{Z: 1}, math.Pi/4)
	delta = NewZeroPose().ToDelta(c)
	test.That(t, delta[5], test.ShouldAlmostEqual, math.Pi/4, 1e-9)

	test.That(t, a.AlmostCoincident(a, 1e-9), test.ShouldBeTrue)
	test.That(t, a.AlmostCoincident(b, 1e-3), test.ShouldBeFalse)
}
