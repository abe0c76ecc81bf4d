// Package arm orchestrates the motion core: it resolves Cartesian targets
// through inverse kinematics, steps the per-joint control loops each tick, and
// consults the safety interlock before applying any motion.
package arm

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/sightworks/armcore/config"
	"github.com/sightworks/armcore/control"
	"github.com/sightworks/armcore/motionplan"
	"github.com/sightworks/armcore/referenceframe"
	"github.com/sightworks/armcore/safety"
	"github.com/sightworks/armcore/scene"
	"github.com/sightworks/armcore/spatialmath"
	"github.com/sightworks/armcore/utils"
)

// Status is the observable outcome of a tick.
type Status int

const (
	// StatusMoving means a joint delta was applied this tick.
	StatusMoving Status = iota
	// StatusSettled means all joints are within tolerance of the target, or
	// no target is set.
	StatusSettled
	// StatusBlocked means the safety interlock vetoed motion; the joints hold
	// their last safe state. Callers must distinguish this from StatusSettled.
	StatusBlocked
)

func (s Status) String() string {
	switch s {
	case StatusMoving:
		return "moving"
	case StatusSettled:
		return "settled"
	case StatusBlocked:
		return "blocked"
	}
	return "unknown"
}

// Controller owns the arm's joint state exclusively. The control loop is
// single threaded and cooperative: the caller drives progress by invoking Tick
// once per simulated time step. The safety interlock is injected shared state,
// consulted strictly before any state mutation within a tick.
type Controller struct {
	logger    golog.Logger
	model     *referenceframe.Model
	solver    *motionplan.IKSolver
	pids      []*control.PID
	interlock *safety.Interlock

	current []referenceframe.Input
	target  []referenceframe.Input // nil when no target is pending
	// directDrive removes the per-tick output clamp: joint space targets are
	// applied in a single tick, modeling interactive slider moves.
	directDrive bool
	settleTol   float64
	playback    config.PlaybackConfig
}

// NewController builds a controller from configuration. The arm starts at the
// home position with all joints at zero.
func NewController(cfg *config.Config, interlock *safety.Interlock, logger golog.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid arm config")
	}
	model, err := cfg.Model()
	if err != nil {
		return nil, err
	}
	solver, err := motionplan.NewIKSolver(model, logger, cfg.Solver)
	if err != nil {
		return nil, err
	}
	pids := make([]*control.PID, 0, len(cfg.Joints))
	for _, j := range cfg.Joints {
		pid, err := control.NewPID(j.PID)
		if err != nil {
			return nil, errors.Wrapf(err, "joint %s", j.Name)
		}
		pids = append(pids, pid)
	}
	return &Controller{
		logger:    logger,
		model:     model,
		solver:    solver,
		pids:      pids,
		interlock: interlock,
		current:   make([]referenceframe.Input, len(cfg.Joints)),
		settleTol: cfg.SettleTolerance,
		playback:  cfg.Playback,
	}, nil
}

// Model returns the controller's kinematic model.
func (c *Controller) Model() *referenceframe.Model {
	return c.model
}

// SafetyState returns the current state of the injected interlock.
func (c *Controller) SafetyState() safety.State {
	return c.interlock.State()
}

// CurrentInputs returns a copy of the current joint state.
func (c *Controller) CurrentInputs() []referenceframe.Input {
	out := make([]referenceframe.Input, len(c.current))
	copy(out, c.current)
	return out
}

// CurrentPose returns the Cartesian pose of the end effector.
func (c *Controller) CurrentPose() *spatialmath.Pose {
	pose, err := c.model.Transform(c.current)
	if err != nil {
		// current is maintained within limits by every mutation path
		c.logger.Errorw("current joint state failed limit check", "error", err)
	}
	return pose
}

// SetDirectDrive toggles direct drive mode for joint space targets.
func (c *Controller) SetDirectDrive(enabled bool) {
	c.directDrive = enabled
}

// SetTargetJoints commands a joint space target. Out of range targets are
// rejected with an OOBErr; the current state is untouched. Setting a target
// discards any in-progress approach to a previous target by resetting the
// per-joint PID state.
func (c *Controller) SetTargetJoints(target []referenceframe.Input) error {
	if err := c.model.CheckLimits(target); err != nil {
		return err
	}
	c.target = make([]referenceframe.Input, len(target))
	copy(c.target, target)
	c.resetPIDs()
	return nil
}

// SetTargetPose commands a Cartesian target, resolved through inverse
// kinematics seeded with the current joint state. On failure the error is
// surfaced and the arm holds its last valid state.
func (c *Controller) SetTargetPose(ctx context.Context, goal *spatialmath.Pose) error {
	solution, err := c.solver.Solve(ctx, goal, c.current)
	if err != nil {
		return err
	}
	c.target = solution
	c.resetPIDs()
	return nil
}

// MoveJoint sets a single joint directly to the given angle, bypassing the
// control loop. This is the teach mode primitive; it still honors the safety
// gate and joint limits.
func (c *Controller) MoveJoint(joint int, angle float64) error {
	if joint < 0 || joint >= len(c.current) {
		return errors.Errorf("joint %d out of range for %d joint arm", joint, len(c.current))
	}
	if !c.interlock.MotionAllowed() {
		return NewMotionBlockedError(c.interlock.State())
	}
	limit := c.model.DoF()[joint]
	if angle < limit.Min || angle > limit.Max {
		return referenceframe.OOBErr{Joint: joint, Value: angle, Limit: limit}
	}
	c.current[joint].Value = angle
	return nil
}

// RecordPose snapshots the current joint state as a recorded pose with the
// given inspection configuration.
func (c *Controller) RecordPose(name string, cfg scene.InspectionConfig) scene.RecordedPose {
	return scene.RecordedPose{
		Name:   name,
		Joints: referenceframe.InputsToFloats(c.current),
		Config: cfg,
	}
}

// Tick advances the control loop by dt seconds and returns the resulting joint
// state. If the interlock disallows motion the state is returned unchanged
// with StatusBlocked; a fault raised mid-approach therefore halts motion on
// the very next tick, holding the last safe joint state.
func (c *Controller) Tick(dt float64) ([]referenceframe.Input, Status) {
	if !c.interlock.MotionAllowed() {
		return c.CurrentInputs(), StatusBlocked
	}
	if c.settled() {
		return c.CurrentInputs(), StatusSettled
	}
	limits := c.model.DoF()
	for i := range c.current {
		var next float64
		if c.directDrive {
			next = c.target[i].Value
		} else {
			next = c.pids[i].Step(c.current[i].Value, c.target[i].Value, dt)
		}
		// joints stay within limits regardless of what the loop commands
		c.current[i].Value = utils.Clamp(next, limits[i].Min, limits[i].Max)
	}
	return c.CurrentInputs(), StatusMoving
}

// settled reports whether there is no pending target or every joint is within
// tolerance of it.
func (c *Controller) settled() bool {
	if c.target == nil {
		return true
	}
	for i := range c.current {
		if !control.Settled(c.current[i].Value, c.target[i].Value, c.settleTol) {
			return false
		}
	}
	return true
}

func (c *Controller) resetPIDs() {
	for _, pid := range c.pids {
		pid.Reset()
	}
}
