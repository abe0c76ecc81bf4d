package referenceframe

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/sightworks/armcore/spatialmath"
	"github.com/sightworks/armcore/utils"
)

// DHParam holds the fixed Denavit-Hartenberg parameters of one revolute joint.
type DHParam struct {
	A     float64 `json:"a"`     // link length along x, meters
	D     float64 `json:"d"`     // link offset along z, meters
	Alpha float64 `json:"alpha"` // link twist about x, radians
}

// Model is a serial kinematic chain of revolute joints described by DH
// parameters, with per-joint limits. It implements Frame.
type Model struct {
	name   string
	joints []DHParam
	limits []Limit
	// fixed portion of each joint transform, precomputed from the DH table
	fixed []*spatialmath.Pose
}

// NewModel constructs a model from a DH table and matching joint limits.
func NewModel(name string, joints []DHParam, limits []Limit) (*Model, error) {
	if len(joints) == 0 {
		return nil, errors.New("model must have at least one joint")
	}
	if len(joints) != len(limits) {
		return nil, errors.Errorf("model has %d joints but %d limits", len(joints), len(limits))
	}
	var err error
	for i, l := range limits {
		if l.Min >= l.Max {
			err = multierr.Append(err, errors.Errorf("joint %d limit min %.4f not below max %.4f", i, l.Min, l.Max))
		}
	}
	if err != nil {
		return nil, err
	}
	fixed := make([]*spatialmath.Pose, len(joints))
	for i, j := range joints {
		fixed[i] = spatialmath.NewPoseFromDH(j.A, j.D, j.Alpha)
	}
	return &Model{name: name, joints: joints, limits: limits, fixed: fixed}, nil
}

// Name returns the name of the model.
func (m *Model) Name() string {
	return m.name
}

// DoF returns the limits of each joint.
func (m *Model) DoF() []Limit {
	return m.limits
}

// CheckLimits returns an OOBErr for the first input outside its joint limit.
func (m *Model) CheckLimits(inputs []Input) error {
	if len(inputs) != len(m.limits) {
		return NewIncorrectInputLengthError(len(inputs), len(m.limits))
	}
	for i, in := range inputs {
		if in.Value < m.limits[i].Min || in.Value > m.limits[i].Max {
			return OOBErr{Joint: i, Value: in.Value, Limit: m.limits[i]}
		}
	}
	return nil
}

// ClampToLimits returns a copy of the inputs with each value clamped to its
// joint limit. Used by iterative solvers on internal candidates only; inputs
// crossing the API boundary are checked, not clamped.
func (m *Model) ClampToLimits(inputs []Input) []Input {
	clamped := make([]Input, len(inputs))
	for i, in := range inputs {
		clamped[i] = Input{utils.Clamp(in.Value, m.limits[i].Min, m.limits[i].Max)}
	}
	return clamped
}

// Transform computes the forward kinematics of the chain, returning the pose of
// the end effector in the base frame. The pose is computed and returned even
// when an input is out of bounds, alongside the OOBErr, so that iterative
// solvers may evaluate internal candidates.
func (m *Model) Transform(inputs []Input) (*spatialmath.Pose, error) {
	if len(inputs) != len(m.joints) {
		return nil, NewIncorrectInputLengthError(len(inputs), len(m.joints))
	}
	err := m.CheckLimits(inputs)
	return m.compose(inputs, len(m.joints)), err
}

// JointPoses returns the pose of the base and of each joint in order, for
// consumption by the visualization layer.
func (m *Model) JointPoses(inputs []Input) ([]*spatialmath.Pose, error) {
	if len(inputs) != len(m.joints) {
		return nil, NewIncorrectInputLengthError(len(inputs), len(m.joints))
	}
	poses := make([]*spatialmath.Pose, 0, len(m.joints)+1)
	for i := 0; i <= len(m.joints); i++ {
		poses = append(poses, m.compose(inputs, i))
	}
	return poses, m.CheckLimits(inputs)
}

// compose multiplies the first n joint transforms together. Each joint is a
// rotation about its local z axis followed by the fixed DH transform.
func (m *Model) compose(inputs []Input, n int) *spatialmath.Pose {
	pose := spatialmath.NewZeroPose()
	zAxis := r3.Vector{Z: 1}
	for i := 0; i < n; i++ {
		pose = pose.Compose(spatialmath.NewPoseFromAxisAngle(zAxis, inputs[i].Value))
		pose = pose.Compose(m.fixed[i])
	}
	return pose
}
