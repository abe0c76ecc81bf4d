package referenceframe

import (
	"fmt"

	"github.com/pkg/errors"
)

// OOBErr indicates a joint input outside its configured limits. Out of range
// inputs are rejected at the boundary, never silently wrapped or clamped.
type OOBErr struct {
	Joint int
	Value float64
	Limit Limit
}

func (e OOBErr) Error() string {
	return fmt.Sprintf("joint %d input %.4f rad outside limit [%.4f, %.4f]",
		e.Joint, e.Value, e.Limit.Min, e.Limit.Max)
}

// NewIncorrectInputLengthError returns an error describing a joint input of the
// wrong length for a model.
func NewIncorrectInputLengthError(got, want int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", want, got)
}
