// Package scene holds operator-recorded arm poses and the ordered sequences
// they form. The inspection configuration attached to each pose is opaque to
// the motion core and handed through to the inspection collaborator.
package scene

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/sightworks/armcore/referenceframe"
)

// InspectionConfig describes how a recorded pose should be inspected. The
// values are opaque to the motion core.
type InspectionConfig struct {
	InspectionType string `json:"inspection_type"`
	ViewType       string `json:"view_type"`
	Lighting       string `json:"lighting"`
	CameraProfile  string `json:"camera_profile"`
}

// RecordedPose is a snapshot of the arm's joint angles, in radians, plus the
// inspection configuration to use at that pose. Once appended to a Scene it is
// owned by the scene and must not be mutated.
type RecordedPose struct {
	Name   string           `json:"name"`
	Joints []float64        `json:"joints"`
	Config InspectionConfig `json:"config"`
}

// Scene is an ordered sequence of recorded poses forming one inspection run.
// Order is significant.
type Scene struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Poses       []RecordedPose `json:"poses"`
}

// Append adds a pose to the end of the scene, deep copying the joint snapshot
// so later mutation of the caller's slice cannot reach into the scene.
func (s *Scene) Append(p RecordedPose) {
	joints := make([]float64, len(p.Joints))
	copy(joints, p.Joints)
	p.Joints = joints
	s.Poses = append(s.Poses, p)
}

// Len returns the number of poses in the scene.
func (s *Scene) Len() int {
	return len(s.Poses)
}

// Validate checks every pose in the scene against the given model's DoF and
// joint limits, accumulating all problems found.
func (s *Scene) Validate(m *referenceframe.Model) error {
	var err error
	if s.Name == "" {
		err = multierr.Append(err, errors.New("scene must have a name"))
	}
	for idx, p := range s.Poses {
		if inErr := m.CheckLimits(referenceframe.FloatsToInputs(p.Joints)); inErr != nil {
			err = multierr.Append(err, errors.Wrapf(inErr, "pose %d (%s)", idx, p.Name))
		}
	}
	return err
}

// ReadSceneFromFile loads a scene from a JSON file.
func ReadSceneFromFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read scene file %q", path)
	}
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "cannot parse scene file %q", path)
	}
	return &s, nil
}

// WriteToFile persists the scene as JSON.
func (s *Scene) WriteToFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "cannot write scene file %q", path)
}
