// Package config defines the static configuration of the arm: its kinematic
// description, per-joint control gains, solver options, and playback defaults.
package config

import (
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/sightworks/armcore/control"
	"github.com/sightworks/armcore/motionplan"
	"github.com/sightworks/armcore/referenceframe"
)

// JointConfig describes one revolute joint of the arm.
type JointConfig struct {
	Name  string                 `json:"name"`
	DH    referenceframe.DHParam `json:"dh"`
	Limit referenceframe.Limit   `json:"limit"`
	PID   control.Config         `json:"pid"`
}

// PlaybackConfig holds defaults for scene playback. The interpolation step
// count is configuration, not a constant baked into the core.
type PlaybackConfig struct {
	StepsPerSegment int    `json:"steps_per_segment"`
	Easing          string `json:"easing"`
}

// Config is the full static configuration of the motion core.
type Config struct {
	Name     string                   `json:"name"`
	Joints   []JointConfig            `json:"joints"`
	Solver   motionplan.SolverOptions `json:"solver"`
	Playback PlaybackConfig           `json:"playback"`
	// SettleTolerance is the joint error, in radians, below which a target
	// counts as reached.
	SettleTolerance float64 `json:"settle_tolerance"`
}

// DefaultConfig returns the configuration of the simulated six axis
// inspection arm, a UR style chain.
func DefaultConfig() *Config {
	pid := control.Config{Kp: 1.0, Ki: 0.1, Kd: 0.05, IntegralLimit: 10, MaxStep: 1.0}
	halfPi := math.Pi / 2
	return &Config{
		Name: "inspection-arm",
		Joints: []JointConfig{
			{Name: "base", DH: referenceframe.DHParam{A: 0, D: 0.1625, Alpha: 0}, Limit: referenceframe.Limit{Min: -math.Pi, Max: math.Pi}, PID: pid},
			{Name: "shoulder", DH: referenceframe.DHParam{A: 0, D: 0, Alpha: -halfPi}, Limit: referenceframe.Limit{Min: -halfPi, Max: halfPi}, PID: pid},
			{Name: "elbow", DH: referenceframe.DHParam{A: 0.425, D: 0, Alpha: 0}, Limit: referenceframe.Limit{Min: -math.Pi, Max: math.Pi}, PID: pid},
			{Name: "wrist1", DH: referenceframe.DHParam{A: 0.3922, D: 0.1333, Alpha: 0}, Limit: referenceframe.Limit{Min: -math.Pi, Max: math.Pi}, PID: pid},
			{Name: "wrist2", DH: referenceframe.DHParam{A: 0, D: 0.0997, Alpha: -halfPi}, Limit: referenceframe.Limit{Min: -halfPi, Max: halfPi}, PID: pid},
			{Name: "wrist3", DH: referenceframe.DHParam{A: 0, D: 0.0996, Alpha: halfPi}, Limit: referenceframe.Limit{Min: -math.Pi, Max: math.Pi}, PID: pid},
		},
		Solver:          motionplan.DefaultSolverOptions(),
		Playback:        PlaybackConfig{StepsPerSegment: 8, Easing: "linear"},
		SettleTolerance: 1e-3,
	}
}

// Validate checks the configuration, accumulating all problems found.
func (c *Config) Validate() error {
	var err error
	if c.Name == "" {
		err = multierr.Append(err, errors.New("config must have a name"))
	}
	if len(c.Joints) == 0 {
		err = multierr.Append(err, errors.New("config must have at least one joint"))
	}
	for i, j := range c.Joints {
		if j.Limit.Min >= j.Limit.Max {
			err = multierr.Append(err, errors.Errorf("joint %d (%s): limit min not below max", i, j.Name))
		}
		if pidErr := j.PID.Validate(); pidErr != nil {
			err = multierr.Append(err, errors.Wrapf(pidErr, "joint %d (%s)", i, j.Name))
		}
	}
	if solverErr := c.Solver.Validate(); solverErr != nil {
		err = multierr.Append(err, solverErr)
	}
	if c.Playback.StepsPerSegment < 1 {
		err = multierr.Append(err, errors.New("playback steps per segment must be at least 1"))
	}
	if _, easeErr := motionplan.ParseEasing(c.Playback.Easing); easeErr != nil {
		err = multierr.Append(err, easeErr)
	}
	if c.SettleTolerance <= 0 {
		err = multierr.Append(err, errors.New("settle tolerance must be positive"))
	}
	return err
}

// Model builds the kinematic model described by the configuration.
func (c *Config) Model() (*referenceframe.Model, error) {
	joints := make([]referenceframe.DHParam, 0, len(c.Joints))
	limits := make([]referenceframe.Limit, 0, len(c.Joints))
	for _, j := range c.Joints {
		joints = append(joints, j.DH)
		limits = append(limits, j.Limit)
	}
	return referenceframe.NewModel(c.Name, joints, limits)
}

// ReadConfigFromFile loads and validates a configuration from a JSON file.
func ReadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %q", path)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config file %q", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %q", path)
	}
	return &c, nil
}
