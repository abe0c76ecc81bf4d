package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestConversions(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90)
	test.That(t, RadToDeg(DegToRad(37.5)), test.ShouldAlmostEqual, 37.5)
}

func TestClamp(t *testing.T) {
	test.That(t, Clamp(0.5, -1, 1), test.ShouldAlmostEqual, 0.5)
	test.That(t, Clamp(-2, -1, 1), test.ShouldAlmostEqual, -1)
	test.That(t, Clamp(2, -1, 1), test.ShouldAlmostEqual, 1)
}

func TestAlmostEqual(t *testing.T) {
	test.That(t, AlmostEqual(1.0, 1.0+1e-10, 1e-9), test.ShouldBeTrue)
	test.That(t, AlmostEqual(1.0, 1.1, 1e-9), test.ShouldBeFalse)
}
