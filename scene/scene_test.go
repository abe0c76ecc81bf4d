package scene

import (
	"math"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/sightworks/armcore/referenceframe"
)

func testModel(t *testing.T) *referenceframe.Model {
	t.Helper()
	m, err := referenceframe.NewModel("test",
		[]referenceframe.DHParam{{D: 0.1}, {A: 0.4}},
		[]referenceframe.Limit{{Min: -math.Pi, Max: math.Pi}, {Min: -1, Max: 1}},
	)
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestAppendCopiesJoints(t *testing.T) {
	sc := &Scene{Name: "run"}
	joints := []float64{0.5, -0.5}
	sc.Append(RecordedPose{Name: "p0", Joints: joints})

	// mutating the caller's slice must not reach into the stored pose
	joints[0] = 99
	test.That(t, sc.Poses[0].Joints[0], test.ShouldAlmostEqual, 0.5)
	test.That(t, sc.Len(), test.ShouldEqual, 1)
}

func TestValidate(t *testing.T) {
	m := testModel(t)

	sc := &Scene{Name: "ok"}
	sc.Append(RecordedPose{Name: "p0", Joints: []float64{0, 0}})
	sc.Append(RecordedPose{Name: "p1", Joints: []float64{1, 0.5}})
	test.That(t, sc.Validate(m), test.ShouldBeNil)

	bad := &Scene{Name: "bad"}
	bad.Append(RecordedPose{Name: "oob", Joints: []float64{0, 5}})
	bad.Append(RecordedPose{Name: "short", Joints: []float64{0}})
	err := bad.Validate(m)
	test.That(t, err, test.ShouldNotBeNil)

	unnamed := &Scene{}
	test.That(t, unnamed.Validate(m), test.ShouldNotBeNil)
}

func TestFileRoundTrip(t *testing.T) {
	sc := &Scene{Name: "persisted", Description: "two pose scan"}
	sc.Append(RecordedPose{
		Name:   "top",
		Joints: []float64{0.1, -0.2},
		Config: InspectionConfig{
			InspectionType: "surface_quality",
			ViewType:       "top_view",
			Lighting:       "standard",
			CameraProfile:  "default",
		},
	})
	sc.Append(RecordedPose{Name: "side", Joints: []float64{0.7, 0.3}})

	path := filepath.Join(t.TempDir(), "scene.json")
	test.That(t, sc.WriteToFile(path), test.ShouldBeNil)

	loaded, err := ReadSceneFromFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded, test.ShouldResemble, sc)

	_, err = ReadSceneFromFile(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}
