package models

// ExtractOutcome tags the result of a room-extraction pass.
type ExtractOutcome string

const (
	// Extracted means at least one room was parsed from the page.
	Extracted ExtractOutcome = "extracted"
	// NoAvailability means the page rendered but no room containers
	// appeared. This is an expected outcome, not an error.
	NoAvailability ExtractOutcome = "no_availability"
	// ExtractFailed means the extraction operation itself failed.
	ExtractFailed ExtractOutcome = "failed"
)

// ExtractionResult is the structured payload returned to the caller
// after walking a results page.
type ExtractionResult struct {
	Outcome ExtractOutcome `json:"outcome"`
	Rooms   []Room         `json:"rooms"`
	Message string         `json:"message,omitempty"`
}

// Success reports whether rooms were extracted.
func (r ExtractionResult) Success() bool { return r.Outcome == Extracted }

// ClickResult reports how (and whether) a book action was triggered.
type ClickResult struct {
	Clicked  bool   `json:"clicked"`
	Strategy string `json:"strategy,omitempty"`
}

// SelectionResult is returned to callers after a room/rate selection.
type SelectionResult struct {
	Success          bool   `json:"success"`
	SelectedOptionID string `json:"selectedOptionId,omitempty"`
	SelectorUsed     string `json:"diagnosticSelectorUsed,omitempty"`
	Message          string `json:"message,omitempty"`
}

// StepResult reports a form-fill step outcome.
type StepResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// BookingResult is the terminal outcome of the booking flow.
type BookingResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Reference string `json:"bookingReference,omitempty"`
	TestMode  bool   `json:"testMode,omitempty"`
}
