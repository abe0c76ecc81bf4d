// Package referenceframe defines the joint space of the arm: joint angle inputs,
// per-joint limits, and the kinematic model mapping joint space to Cartesian space.
package referenceframe

import (
	"github.com/sightworks/armcore/spatialmath"
)

// Input wraps the input to a joint. Revolute inputs are in radians.
type Input struct {
	Value float64
}

// Limit defines the inclusive range a joint input may take, in radians.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// A Frame maps inputs to the Cartesian pose of its end.
type Frame interface {
	// Name returns the name of the frame.
	Name() string

	// Transform computes the pose of the end of the frame for the given inputs.
	// If an input exceeds its limit, the pose is still computed and returned
	// alongside an OOBErr so callers that clamp internally may proceed.
	Transform([]Input) (*spatialmath.Pose, error)

	// DoF returns the limits of each degree of freedom of the frame.
	DoF() []Limit
}

// FloatsToInputs wraps a slice of floats in Inputs.
func FloatsToInputs(floats []float64) []Input {
	inputs := make([]Input, len(floats))
	for i, f := range floats {
		inputs[i] = Input{f}
	}
	return inputs
}

// InputsToFloats unwraps Inputs to raw floats.
func InputsToFloats(inputs []Input) []float64 {
	floats := make([]float64, len(inputs))
	for i, f := range inputs {
		floats[i] = f.Value
	}
	return floats
}

// InterpolateInputs returns a set of inputs that are the specified percent
// between the two given sets of inputs. For example, setting by to 0.5 will
// return the inputs halfway between the from/to values.
func InterpolateInputs(from, to []Input, by float64) []Input {
	var newVals []Input
	for i, j1 := range from {
		newVals = append(newVals, Input{j1.Value + ((to[i].Value - j1.Value) * by)})
	}
	return newVals
}
