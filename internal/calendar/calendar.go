// Package calendar drives the site's date-picker widget: it reads the
// localized month header, computes how many months to navigate, clicks
// the navigation controls a bounded number of times and selects the
// target day cell if it is in an available state.
package calendar

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MaxNavSteps bounds month navigation so an unresponsive widget can never
// trap the flow in an endless click loop.
const MaxNavSteps = 24

// monthNames maps localized month names (full Italian, English, and the
// Italian short forms the widget abbreviates to) to their index. Longer
// names are matched first so "marzo" is not shadowed by "mar".
var monthNames = []struct {
	name  string
	month time.Month
}{
	{"gennaio", time.January}, {"febbraio", time.February}, {"marzo", time.March},
	{"aprile", time.April}, {"maggio", time.May}, {"giugno", time.June},
	{"luglio", time.July}, {"agosto", time.August}, {"settembre", time.September},
	{"ottobre", time.October}, {"novembre", time.November}, {"dicembre", time.December},
	{"january", time.January}, {"february", time.February}, {"march", time.March},
	{"april", time.April}, {"may", time.May}, {"june", time.June},
	{"july", time.July}, {"august", time.August}, {"september", time.September},
	{"october", time.October}, {"november", time.November}, {"december", time.December},
	{"gen", time.January}, {"feb", time.February}, {"mar", time.March},
	{"apr", time.April}, {"mag", time.May}, {"giu", time.June},
	{"lug", time.July}, {"ago", time.August}, {"set", time.September},
	{"ott", time.October}, {"nov", time.November}, {"dic", time.December},
}

var yearRe = regexp.MustCompile(`\b(20\d{2})\b`)

// ParseHeader extracts the displayed month and year from a calendar header
// such as "febbraio 2026". When the year is missing, fallbackYear is used.
func ParseHeader(text string, fallbackYear int) (time.Month, int, bool) {
	lower := strings.ToLower(text)
	for _, m := range monthNames {
		if strings.Contains(lower, m.name) {
			year := fallbackYear
			if match := yearRe.FindString(text); match != "" {
				year, _ = strconv.Atoi(match)
			}
			return m.month, year, true
		}
	}
	return 0, 0, false
}

// MonthDelta returns the signed number of months from the current view to
// the target: positive means navigate forward.
func MonthDelta(curYear int, curMonth time.Month, tgtYear int, tgtMonth time.Month) int {
	return (tgtYear-curYear)*12 + int(tgtMonth) - int(curMonth)
}

// Day is one selectable day cell in the widget.
type Day interface {
	// Number returns the visible day-of-month, false if unreadable.
	Number() (int, bool)
	// State returns the cell's class list, which encodes availability.
	State() string
	Click() error
}

// Widget abstracts the date-picker controls so the navigation logic can
// run against the live page or a test double.
type Widget interface {
	Header() (string, error)
	Next() error
	Prev() error
	Days() ([]Day, error)
}

// Navigator selects dates in a calendar widget.
type Navigator struct {
	logger *slog.Logger
	settle time.Duration
	now    func() time.Time
}

// New creates a Navigator with the default post-click settle delay.
func New(logger *slog.Logger) *Navigator {
	return &Navigator{
		logger: logger,
		settle: 800 * time.Millisecond,
		now:    time.Now,
	}
}

// SelectDate navigates the widget to the target month and clicks the day
// cell for target. It returns false, never an error, when no enabled cell
// matches; callers fall back to direct form fill or surface a
// date-unavailable outcome.
func (n *Navigator) SelectDate(w Widget, target time.Time, checkIn bool) bool {
	if !n.navigateToMonth(w, target) {
		return false
	}

	days, err := w.Days()
	if err != nil {
		n.logger.Warn("could not enumerate day cells", "error", err)
		return false
	}

	for _, day := range days {
		num, ok := day.Number()
		if !ok || num != target.Day() {
			continue
		}
		state := day.State()
		if !DayAvailable(state, checkIn) {
			// Same day number but a past or blocked cell; keep scanning.
			continue
		}
		if err := day.Click(); err != nil {
			n.logger.Warn("day cell click failed", "day", num, "error", err)
			continue
		}
		n.logger.Info("date selected", "date", target.Format("2006-01-02"), "state", state)
		n.pause()
		return true
	}

	n.logger.Warn("no enabled cell for target day", "day", target.Day(), "check_in", checkIn)
	return false
}

// navigateToMonth clicks next/prev until the widget shows the target month.
func (n *Navigator) navigateToMonth(w Widget, target time.Time) bool {
	curMonth, curYear := n.currentView(w)

	delta := MonthDelta(curYear, curMonth, target.Year(), target.Month())
	if delta == 0 {
		return true
	}

	steps := delta
	click := w.Next
	if steps < 0 {
		steps = -steps
		click = w.Prev
	}
	if steps > MaxNavSteps {
		n.logger.Warn("month delta exceeds navigation bound", "delta", delta, "max", MaxNavSteps)
		steps = MaxNavSteps
	}

	n.logger.Debug("navigating calendar",
		"from", curMonth.String(), "from_year", curYear,
		"to", target.Month().String(), "to_year", target.Year(),
		"delta", delta,
	)

	for i := 0; i < steps; i++ {
		if err := click(); err != nil {
			n.logger.Warn("month navigation click failed", "step", i+1, "error", err)
			return false
		}
		n.pause()
	}
	return true
}

// currentView parses the widget header, anchoring on the system clock
// when the header is unreadable.
func (n *Navigator) currentView(w Widget) (time.Month, int) {
	now := n.now()
	text, err := w.Header()
	if err != nil {
		n.logger.Warn("could not read calendar header, assuming current month", "error", err)
		return now.Month(), now.Year()
	}
	month, year, ok := ParseHeader(text, now.Year())
	if !ok {
		n.logger.Warn("unparseable calendar header, assuming current month", "header", text)
		return now.Month(), now.Year()
	}
	return month, year
}

func (n *Navigator) pause() {
	if n.settle > 0 {
		time.Sleep(n.settle)
	}
}

// DayAvailable reports whether a day cell's class list marks it
// selectable. The widget renders fully available days with
// "availability_full"; check-in-only days carry "availability_check_in",
// which is acceptable only when selecting the check-in date.
func DayAvailable(state string, checkIn bool) bool {
	if !strings.Contains(state, "enabled") {
		return false
	}
	if strings.Contains(state, "availability_full") {
		return true
	}
	return checkIn && strings.Contains(state, "availability_check_in")
}
