package arm

import (
	"fmt"

	"github.com/sightworks/armcore/safety"
)

// MotionBlockedError indicates the safety interlock vetoed a motion command.
// It is an observable outcome rather than a failure of the command itself.
type MotionBlockedError struct {
	State safety.State
}

// NewMotionBlockedError returns a MotionBlockedError for the given state.
func NewMotionBlockedError(state safety.State) error {
	return MotionBlockedError{State: state}
}

func (e MotionBlockedError) Error() string {
	return fmt.Sprintf("motion blocked: interlock in state %s", e.State)
}
