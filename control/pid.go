// Package control implements the discrete per-joint feedback loop driving each
// joint toward its commanded angle one tick at a time.
package control

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/sightworks/armcore/utils"
)

// Config holds the gains and limits of one joint's PID loop.
type Config struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`
	// IntegralLimit bounds the magnitude of the accumulated integral term
	// to prevent windup while the output is saturated.
	IntegralLimit float64 `json:"integral_limit"`
	// MaxStep is the largest angular change, in radians, the loop may command
	// in a single tick. This models the actuator speed limit.
	MaxStep float64 `json:"max_step"`
}

// Validate returns an error if the configuration cannot produce a stable loop.
func (cfg Config) Validate() error {
	var err error
	if cfg.Kp < 0 || cfg.Ki < 0 || cfg.Kd < 0 {
		err = multierr.Append(err, errors.New("pid gains must be non-negative"))
	}
	if cfg.Kp == 0 && cfg.Ki == 0 && cfg.Kd == 0 {
		err = multierr.Append(err, errors.New("pid must have at least one non-zero gain"))
	}
	if cfg.IntegralLimit < 0 {
		err = multierr.Append(err, errors.New("pid integral limit must be non-negative"))
	}
	if cfg.MaxStep <= 0 {
		err = multierr.Append(err, errors.New("pid max step must be positive"))
	}
	return err
}

// PID is a discrete proportional-integral-derivative controller for a single
// joint. It is not safe for concurrent use; each joint owns its own instance.
type PID struct {
	cfg      Config
	integral float64
	prevErr  float64
}

// NewPID returns a controller with the given configuration.
func NewPID(cfg Config) (*PID, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid pid config")
	}
	return &PID{cfg: cfg}, nil
}

// Step advances the loop by dt seconds and returns the next joint angle. The
// commanded change is clamped to MaxStep per tick. A non-positive dt produces
// no movement.
func (p *PID) Step(current, target, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	err := target - current
	p.integral += err * dt
	if p.cfg.IntegralLimit > 0 {
		p.integral = utils.Clamp(p.integral, -p.cfg.IntegralLimit, p.cfg.IntegralLimit)
	}
	deriv := (err - p.prevErr) / dt
	output := p.cfg.Kp*err + p.cfg.Ki*p.integral + p.cfg.Kd*deriv
	output = utils.Clamp(output, -p.cfg.MaxStep, p.cfg.MaxStep)
	p.prevErr = err
	return current + output
}

// Reset zeroes the integral accumulator and previous error. It must be called
// whenever the target changes discontinuously, otherwise the integral
// accumulated against the old target corrupts the approach to the new one.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
}

// Settled reports whether current is within tolerance of target.
func Settled(current, target, tolerance float64) bool {
	return math.Abs(target-current) <= tolerance
}
