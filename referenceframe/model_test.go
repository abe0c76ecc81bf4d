package referenceframe

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func sixAxisModel(t *testing.T) *Model {
	t.Helper()
	halfPi := math.Pi / 2
	m, err := NewModel("test-arm",
		[]DHParam{
			{A: 0, D: 0.1625, Alpha: 0},
			{A: 0, D: 0, Alpha: -halfPi},
			{A: 0.425, D: 0, Alpha: 0},
			{A: 0.3922, D: 0.1333, Alpha: 0},
			{A: 0, D: 0.0997, Alpha: -halfPi},
			{A: 0, D: 0.0996, Alpha: halfPi},
		},
		[]Limit{
			{-math.Pi, math.Pi},
			{-halfPi, halfPi},
			{-math.Pi, math.Pi},
			{-math.Pi, math.Pi},
			{-halfPi, halfPi},
			{-math.Pi, math.Pi},
		},
	)
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestNewModelErrors(t *testing.T) {
	_, err := NewModel("empty", nil, nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewModel("mismatch", []DHParam{{}}, []Limit{{-1, 1}, {-1, 1}})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewModel("bad-limit", []DHParam{{}}, []Limit{{1, -1}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestForwardKinematicsHome(t *testing.T) {
	m := sixAxisModel(t)
	pose, err := m.Transform(FloatsToInputs([]float64{0, 0, 0, 0, 0, 0}))
	test.That(t, err, test.ShouldBeNil)

	pt := pose.Point()
	test.That(t, pt.X, test.ShouldAlmostEqual, 0.8172, 1e-6)
	test.That(t, pt.Y, test.ShouldAlmostEqual, 0.2330, 1e-6)
	test.That(t, pt.Z, test.ShouldAlmostEqual, 0.0629, 1e-6)

	o := pose.Orientation()
	test.That(t, o.Roll, test.ShouldAlmostEqual, -math.Pi/2, 1e-6)
	test.That(t, o.Pitch, test.ShouldAlmostEqual, 0, 1e-6)
	test.That(t, o.Yaw, test.ShouldAlmostEqual, 0, 1e-6)
}

func TestForwardKinematicsBaseRotation(t *testing.T) {
	m := sixAxisModel(t)
	home, err := m.Transform(FloatsToInputs([]float64{0, 0, 0, 0, 0, 0}))
	test.That(t, err, test.ShouldBeNil)
	rotated, err := m.Transform(FloatsToInputs([]float64{math.Pi / 2, 0, 0, 0, 0, 0}))
	test.That(t, err, test.ShouldBeNil)

	// rotating the base by 90 degrees carries x onto y
	test.That(t, rotated.Point().X, test.ShouldAlmostEqual, -home.Point().Y, 1e-9)
	test.That(t, rotated.Point().Y, test.ShouldAlmostEqual, home.Point().X, 1e-9)
	test.That(t, rotated.Point().Z, test.ShouldAlmostEqual, home.Point().Z, 1e-9)
}

func TestLimitChecking(t *testing.T) {
	m := sixAxisModel(t)

	err := m.CheckLimits(FloatsToInputs([]float64{0, 2, 0, 0, 0, 0}))
	test.That(t, err, test.ShouldNotBeNil)
	var oob OOBErr
	test.That(t, errors.As(err, &oob), test.ShouldBeTrue)
	test.That(t, oob.Joint, test.ShouldEqual, 1)

	// the pose is still computed alongside the error for internal solver use
	pose, err := m.Transform(FloatsToInputs([]float64{0, 2, 0, 0, 0, 0}))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, pose, test.ShouldNotBeNil)

	err = m.CheckLimits(FloatsToInputs([]float64{0, 0, 0}))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestClampToLimits(t *testing.T) {
	m := sixAxisModel(t)
	clamped := m.ClampToLimits(FloatsToInputs([]float64{4, -2, 0.5, 0, 0, -7}))
	test.That(t, clamped[0].Value, test.ShouldAlmostEqual, math.Pi)
	test.That(t, clamped[1].Value, test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, clamped[2].Value, test.ShouldAlmostEqual, 0.5)
	test.That(t, clamped[5].Value, test.ShouldAlmostEqual, -math.Pi)
}

func TestJointPoses(t *testing.T) {
	m := sixAxisModel(t)
	poses, err := m.JointPoses(FloatsToInputs([]float64{0, 0, 0, 0, 0, 0}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(poses), test.ShouldEqual, 7)
	test.That(t, poses[0].Point().Z, test.ShouldAlmostEqual, 0)
	test.That(t, poses[1].Point().Z, test.ShouldAlmostEqual, 0.1625)
}

func TestInterpolateInputs(t *testing.T) {
	from := FloatsToInputs([]float64{0, -1, 2})
	to := FloatsToInputs([]float64{1, 1, 2})
	mid := InterpolateInputs(from, to, 0.5)
	test.That(t, mid[0].Value, test.ShouldAlmostEqual, 0.5)
	test.That(t, mid[1].Value, test.ShouldAlmostEqual, 0)
	test.That(t, mid[2].Value, test.ShouldAlmostEqual, 2)

	test.That(t, InterpolateInputs(from, to, 0), test.ShouldResemble, from)
	test.That(t, InterpolateInputs(from, to, 1)[0].Value, test.ShouldAlmostEqual, 1)
}
