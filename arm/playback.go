package arm

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sightworks/armcore/inspection"
	"github.com/sightworks/armcore/motionplan"
	"github.com/sightworks/armcore/safety"
	"github.com/sightworks/armcore/scene"
)

// ProgressFunc is invoked after each applied playback step with the number of
// steps completed so far, the total step count, and the index of the nearest
// original recorded pose.
type ProgressFunc func(completed, total, nearestPose int)

// PlaybackOption configures a call to PlaySequence.
type PlaybackOption func(*playbackOptions)

type playbackOptions struct {
	easing   motionplan.Easing
	capturer inspection.Capturer
	progress ProgressFunc
}

// WithEasing overrides the configured interpolation easing.
func WithEasing(e motionplan.Easing) PlaybackOption {
	return func(o *playbackOptions) { o.easing = e }
}

// WithCapturer invokes the given inspection collaborator each time the arm
// reaches one of the scene's recorded poses.
func WithCapturer(c inspection.Capturer) PlaybackOption {
	return func(o *playbackOptions) { o.capturer = c }
}

// WithProgress registers a progress callback for the visualization layer.
func WithProgress(f ProgressFunc) PlaybackOption {
	return func(o *playbackOptions) { o.progress = f }
}

// PlaybackResult reports how a sequence playback ended.
type PlaybackResult struct {
	StepsCompleted int
	TotalSteps     int
	// Blocked is set when a safety fault halted playback. The arm holds the
	// state of the last completed step until the interlock is reset.
	Blocked   bool
	HaltState safety.State
	Captures  []inspection.Result
}

// PlaySequence drains an interpolated trajectory over the scene, applying each
// intermediate joint state directly. The interpolator already guarantees
// continuity between steps, so the per-joint control loops are bypassed; the
// safety gate is still checked before every step, so a fault raised mid
// trajectory halts playback immediately.
func (c *Controller) PlaySequence(ctx context.Context, sc *scene.Scene, stepsPerSegment int, opts ...PlaybackOption) (*PlaybackResult, error) {
	options := playbackOptions{easing: motionplan.EasingLinear}
	for _, opt := range opts {
		opt(&options)
	}
	if err := sc.Validate(c.model); err != nil {
		return nil, errors.Wrap(err, "invalid scene")
	}
	traj, err := motionplan.NewTrajectory(sc, stepsPerSegment, options.easing)
	if err != nil {
		return nil, err
	}

	// playback supersedes any pending target
	c.target = nil
	c.resetPIDs()

	result := &PlaybackResult{TotalSteps: traj.Len()}
	it := traj.Iterator()
	for i := 0; ; i++ {
		step, ok := it.Next()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !c.interlock.MotionAllowed() {
			result.Blocked = true
			result.HaltState = c.interlock.State()
			c.logger.Warnw("playback halted by safety interlock",
				"state", result.HaltState.String(),
				"completed", result.StepsCompleted,
				"total", result.TotalSteps,
			)
			return result, nil
		}
		copy(c.current, step.Inputs)
		result.StepsCompleted++
		if options.progress != nil {
			options.progress(result.StepsCompleted, result.TotalSteps, step.NearestPose)
		}
		if waypoint, at := traj.AtWaypoint(i); at && options.capturer != nil {
			pose := sc.Poses[waypoint]
			capture, err := options.capturer.Capture(ctx, pose.Name, c.CurrentInputs(), pose.Config)
			if err != nil {
				return result, errors.Wrapf(err, "capture failed at pose %d (%s)", waypoint, pose.Name)
			}
			result.Captures = append(result.Captures, capture)
		}
	}
	return result, nil
}
