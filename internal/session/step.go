// Package session holds per-booking wizard state: one live browser page,
// the extracted rooms, the selections made so far and the wizard step the
// flow has reached.
package session

// Step is the wizard position of a session.
type Step string

const (
	StepSearch        Step = "search"
	StepRoomSelection Step = "room-selection"
	StepPersonalData  Step = "personal-data"
	StepPayment       Step = "payment"
	StepCompleted     Step = "booking_completed"
	StepFailed        Step = "booking_failed"
)

// Terminal reports whether the step ends the wizard.
func (s Step) Terminal() bool {
	return s == StepCompleted || s == StepFailed
}

// next holds the single forward transition for each non-terminal step.
var next = map[Step]Step{
	StepSearch:        StepRoomSelection,
	StepRoomSelection: StepPersonalData,
	StepPersonalData:  StepPayment,
	StepPayment:       StepCompleted,
}

// CanAdvanceTo reports whether a transition is legal. The wizard only
// moves forward one step at a time; any non-terminal step may fail.
func (s Step) CanAdvanceTo(to Step) bool {
	if s.Terminal() {
		return false
	}
	if to == StepFailed {
		return true
	}
	return next[s] == to
}
