// Package safety implements the interlock state machine gating all arm motion.
package safety

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// State is the current state of the interlock.
type State int

// The interlock states. Every fault state blocks motion until an explicit,
// successful Reset. EStop has the highest priority and preempts any state;
// the other faults only latch from Running.
const (
	StateRunning State = iota
	StateEStop
	StateLightCurtainBreached
	StateDoorOpen
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateEStop:
		return "estop"
	case StateLightCurtainBreached:
		return "light_curtain_breached"
	case StateDoorOpen:
		return "door_open"
	}
	return "unknown"
}

// Event is one entry in the interlock's audit log.
type Event struct {
	Description string
	State       State
	Time        time.Time
}

// Interlock latches safety faults and gates motion. It is shared between the
// motion controller and the safety signal sources, so it synchronizes
// internally even though the control loop itself is single threaded.
type Interlock struct {
	mu     sync.Mutex
	logger golog.Logger
	clock  clock.Clock

	state State
	// live physical conditions, tracked separately from the latched state so
	// that Reset can be rejected while a condition is still active
	estopActive     bool
	curtainBreached bool
	doorOpen        bool

	events []Event
}

// NewInterlock returns an interlock in the Running state.
func NewInterlock(logger golog.Logger) *Interlock {
	return NewInterlockWithClock(logger, clock.New())
}

// NewInterlockWithClock returns an interlock using the given clock for event
// timestamps.
func NewInterlockWithClock(logger golog.Logger, c clock.Clock) *Interlock {
	return &Interlock{logger: logger, clock: c, state: StateRunning}
}

// TriggerEStop signals an emergency stop. It preempts any current state.
func (i *Interlock) TriggerEStop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.estopActive = true
	i.state = StateEStop
	i.record("emergency stop triggered")
}

// BreachLightCurtain signals a light curtain breach. It latches a fault only
// from Running; an already latched higher priority fault is left in place.
func (i *Interlock) BreachLightCurtain() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.curtainBreached = true
	if i.state == StateRunning {
		i.state = StateLightCurtainBreached
	}
	i.record("light curtain breached")
}

// OpenDoor signals that the safety door opened.
func (i *Interlock) OpenDoor() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.doorOpen = true
	if i.state == StateRunning {
		i.state = StateDoorOpen
	}
	i.record("door opened")
}

// ReleaseEStop reports that the emergency stop button has been released. The
// latched fault state remains until Reset.
func (i *Interlock) ReleaseEStop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.estopActive = false
	i.record("emergency stop released")
}

// ClearLightCurtain reports that the light curtain is intact again.
func (i *Interlock) ClearLightCurtain() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.curtainBreached = false
	i.record("light curtain clear")
}

// CloseDoor reports that the safety door is closed again.
func (i *Interlock) CloseDoor() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.doorOpen = false
	i.record("door closed")
}

// Reset returns the interlock to Running. It fails if any physical fault
// condition is still active; recovery never happens implicitly on a tick.
func (i *Interlock) Reset() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.estopActive {
		return errors.New("cannot reset interlock: emergency stop still active")
	}
	if i.curtainBreached {
		return errors.New("cannot reset interlock: light curtain still breached")
	}
	if i.doorOpen {
		return errors.New("cannot reset interlock: door still open")
	}
	i.state = StateRunning
	i.record("interlock reset")
	return nil
}

// State returns the current latched state.
func (i *Interlock) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// MotionAllowed reports whether motion commands may be applied. The motion
// controller consults this before applying every joint delta, every tick.
func (i *Interlock) MotionAllowed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state == StateRunning
}

// Events returns up to limit of the most recent audit events, all of them if
// limit is non-positive.
func (i *Interlock) Events(limit int) []Event {
	i.mu.Lock()
	defer i.mu.Unlock()
	start := 0
	if limit > 0 && len(i.events) > limit {
		start = len(i.events) - limit
	}
	out := make([]Event, len(i.events)-start)
	copy(out, i.events[start:])
	return out
}

// record appends an audit event; callers must hold the lock.
func (i *Interlock) record(desc string) {
	i.events = append(i.events, Event{Description: desc, State: i.state, Time: i.clock.Now()})
	i.logger.Infow("safety event", "event", desc, "state", i.state.String())
}
