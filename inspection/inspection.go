// Package inspection defines the collaborator interface the motion core calls
// when the arm reaches a recorded pose, plus a simulated implementation.
package inspection

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/sightworks/armcore/referenceframe"
	"github.com/sightworks/armcore/scene"
)

// Result is what a capturer produced for one viewpoint.
type Result struct {
	PoseName   string
	Config     scene.InspectionConfig
	Joints     []float64
	CapturedAt time.Time
	Passed     bool
	Detail     string
}

// Capturer produces an inspection result for the arm's current viewpoint. The
// motion core invokes it with the resolved joint state and the recorded pose's
// inspection configuration the moment the pose is reached.
type Capturer interface {
	Capture(ctx context.Context, poseName string, joints []referenceframe.Input, cfg scene.InspectionConfig) (Result, error)
}

// SimCapturer is a Capturer that fabricates a passing inspection result, for
// use in simulation and tests.
type SimCapturer struct {
	logger golog.Logger
	clock  clock.Clock
}

// NewSimCapturer returns a simulated capturer.
func NewSimCapturer(logger golog.Logger) *SimCapturer {
	return NewSimCapturerWithClock(logger, clock.New())
}

// NewSimCapturerWithClock returns a simulated capturer using the given clock
// for capture timestamps.
func NewSimCapturerWithClock(logger golog.Logger, c clock.Clock) *SimCapturer {
	return &SimCapturer{logger: logger, clock: c}
}

// Capture implements Capturer.
func (s *SimCapturer) Capture(ctx context.Context, poseName string, joints []referenceframe.Input, cfg scene.InspectionConfig) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.logger.Infow("simulated capture",
		"pose", poseName,
		"inspection_type", cfg.InspectionType,
		"view_type", cfg.ViewType,
		"lighting", cfg.Lighting,
	)
	return Result{
		PoseName:   poseName,
		Config:     cfg,
		Joints:     referenceframe.InputsToFloats(joints),
		CapturedAt: s.clock.Now(),
		Passed:     true,
		Detail:     "simulated capture",
	}, nil
}
