package motionplan

import (
	"github.com/pkg/errors"

	"github.com/sightworks/armcore/referenceframe"
	"github.com/sightworks/armcore/scene"
)

// Easing selects the interpolation profile within each trajectory segment.
type Easing int

const (
	// EasingLinear interpolates at constant rate.
	EasingLinear Easing = iota
	// EasingSmoothstep eases in and out of each segment endpoint.
	EasingSmoothstep
)

// ParseEasing converts a configuration string to an Easing.
func ParseEasing(s string) (Easing, error) {
	switch s {
	case "", "linear":
		return EasingLinear, nil
	case "smoothstep":
		return EasingSmoothstep, nil
	}
	return 0, errors.Errorf("unknown easing %q", s)
}

// TrajectoryStep is one interpolated state along a trajectory.
type TrajectoryStep struct {
	// Inputs is the interpolated joint state.
	Inputs []referenceframe.Input
	// Segment is the index of the pose pair this step interpolates between.
	Segment int
	// NearestPose is the index of the nearer original recorded pose, for
	// progress reporting.
	NearestPose int
}

// Trajectory lazily produces interpolated joint states between consecutive
// recorded poses of a scene. Interpolation happens in joint space so every
// intermediate state is itself reachable without re-solving inverse
// kinematics. A trajectory can be re-iterated from the beginning without side
// effects.
type Trajectory struct {
	waypoints       [][]referenceframe.Input
	stepsPerSegment int
	easing          Easing
}

// NewTrajectory validates the parameters and returns a trajectory over the
// scene. A scene with fewer than two poses yields a valid empty trajectory; a
// non-positive step count is a configuration error.
func NewTrajectory(sc *scene.Scene, stepsPerSegment int, easing Easing) (*Trajectory, error) {
	if sc == nil {
		return nil, errors.New("invalid scene config: scene is nil")
	}
	if stepsPerSegment < 1 {
		return nil, errors.Errorf("invalid scene config: steps per segment must be at least 1, got %d", stepsPerSegment)
	}
	waypoints := make([][]referenceframe.Input, 0, sc.Len())
	for _, p := range sc.Poses {
		waypoints = append(waypoints, referenceframe.FloatsToInputs(p.Joints))
	}
	return &Trajectory{waypoints: waypoints, stepsPerSegment: stepsPerSegment, easing: easing}, nil
}

// Len returns the total number of steps: stepsPerSegment * (poses - 1).
func (t *Trajectory) Len() int {
	if len(t.waypoints) < 2 {
		return 0
	}
	return t.stepsPerSegment * (len(t.waypoints) - 1)
}

// Step computes the i-th step of the trajectory. The last step of each segment
// lands exactly on the segment's end pose.
func (t *Trajectory) Step(i int) (TrajectoryStep, error) {
	if i < 0 || i >= t.Len() {
		return TrajectoryStep{}, errors.Errorf("trajectory step %d out of range [0, %d)", i, t.Len())
	}
	segment := i / t.stepsPerSegment
	within := i % t.stepsPerSegment
	by := float64(within+1) / float64(t.stepsPerSegment)
	nearest := segment
	if by > 0.5 {
		nearest = segment + 1
	}
	if t.easing == EasingSmoothstep {
		by = by * by * (3 - 2*by)
	}
	return TrajectoryStep{
		Inputs:      referenceframe.InterpolateInputs(t.waypoints[segment], t.waypoints[segment+1], by),
		Segment:     segment,
		NearestPose: nearest,
	}, nil
}

// AtWaypoint reports whether step i lands exactly on a recorded pose, and if
// so which one. True for the final step of every segment.
func (t *Trajectory) AtWaypoint(i int) (int, bool) {
	if i < 0 || i >= t.Len() {
		return 0, false
	}
	if (i+1)%t.stepsPerSegment != 0 {
		return 0, false
	}
	return i/t.stepsPerSegment + 1, true
}

// Iterator returns a fresh cursor over the trajectory, starting at the first step.
func (t *Trajectory) Iterator() *TrajectoryIterator {
	return &TrajectoryIterator{traj: t}
}

// TrajectoryIterator walks a trajectory one step at a time. Obtaining a new
// iterator restarts from the beginning.
type TrajectoryIterator struct {
	traj *Trajectory
	next int
}

// Next returns the next step, or false when the trajectory is exhausted.
func (it *TrajectoryIterator) Next() (TrajectoryStep, bool) {
	if it.next >= it.traj.Len() {
		return TrajectoryStep{}, false
	}
	step, err := it.traj.Step(it.next)
	if err != nil {
		return TrajectoryStep{}, false
	}
	it.next++
	return step, true
}
