// Package book resolves which physical "Prenota" action to click for a
// selected room and rate option. Several visually similar buttons exist on
// a results page, so resolution runs inside the room's own DOM scope and
// works through an ordered strategy cascade, confirming every click by
// observing a URL change or a next-step page marker instead of trusting
// that the click landed.
package book

import (
	"log/slog"
	"strings"
	"time"

	"github.com/prenotabot/prenotabot/internal/models"
	"github.com/prenotabot/prenotabot/internal/price"
)

// Strategy names reported in ClickResult.
const (
	StrategyPrecomputed    = "precomputed-selector"
	StrategyPriceMatch     = "price-match"
	StrategyIndex          = "index-fallback"
	StrategyTitleMatch     = "title-match"
	StrategyGeneric        = "generic"
	StrategyFirstAvailable = "first-available"
)

// RateRow is one clickable rate line (or book button) inside a room scope.
type RateRow interface {
	// Text returns the row's visible text.
	Text() string
	// PriceText returns the row's displayed price, raw.
	PriceText() string
	// Book triggers the row's book action.
	Book() error
}

// Scope is the DOM region of a single room on the results page.
type Scope interface {
	// ClickSelector clicks the element addressed by a selector captured at
	// extraction time.
	ClickSelector(sel string) error
	// Rows enumerates the room's rate rows, in page order.
	Rows() []RateRow
	// Buttons enumerates visible, enabled book-affirmative buttons in the
	// scope, excluding info/details toggles.
	Buttons() []RateRow
	// Confirm watches for a URL change or a next-step marker within the
	// given window.
	Confirm(window time.Duration) bool
}

// Resolver runs the click-strategy cascade.
type Resolver struct {
	logger        *slog.Logger
	confirmWindow time.Duration
}

// NewResolver creates a Resolver with the given post-click confirmation
// window.
func NewResolver(logger *slog.Logger, confirmWindow time.Duration) *Resolver {
	if confirmWindow <= 0 {
		confirmWindow = 5 * time.Second
	}
	return &Resolver{logger: logger, confirmWindow: confirmWindow}
}

// ClickBookAction clicks the book action for the given room and option.
// When option is nil the first available book button in scope is used.
// Each strategy is tried only if the previous one failed or could not be
// confirmed; total exhaustion yields Clicked=false, never a panic or
// error.
func (r *Resolver) ClickBookAction(scope Scope, room models.Room, option *models.RateOption) models.ClickResult {
	if option == nil {
		return r.clickFirstAvailable(scope, room)
	}

	strategies := []struct {
		name string
		run  func(Scope, models.Room, *models.RateOption) bool
	}{
		{StrategyPrecomputed, r.tryPrecomputed},
		{StrategyPriceMatch, r.tryPriceMatch},
		{StrategyIndex, r.tryIndex},
		{StrategyTitleMatch, r.tryTitleMatch},
		{StrategyGeneric, r.tryGeneric},
	}

	for _, s := range strategies {
		if !s.run(scope, room, option) {
			continue
		}
		if !scope.Confirm(r.confirmWindow) {
			r.logger.Warn("click not confirmed, trying next strategy",
				"room", room.Name, "option", option.Name, "strategy", s.name)
			continue
		}
		r.logger.Info("book action confirmed",
			"room", room.Name, "option", option.Name, "strategy", s.name)
		return models.ClickResult{Clicked: true, Strategy: s.name}
	}

	r.logger.Warn("click strategy cascade exhausted", "room", room.Name, "option", option.Name)
	return models.ClickResult{}
}

func (r *Resolver) clickFirstAvailable(scope Scope, room models.Room) models.ClickResult {
	for _, btn := range scope.Buttons() {
		if err := btn.Book(); err != nil {
			continue
		}
		if scope.Confirm(r.confirmWindow) {
			return models.ClickResult{Clicked: true, Strategy: StrategyFirstAvailable}
		}
	}
	r.logger.Warn("no available book button", "room", room.Name)
	return models.ClickResult{}
}

// tryPrecomputed replays the selector captured during extraction.
func (r *Resolver) tryPrecomputed(scope Scope, _ models.Room, option *models.RateOption) bool {
	if option.BookSelector == "" {
		return false
	}
	if err := scope.ClickSelector(option.BookSelector); err != nil {
		r.logger.Debug("precomputed selector failed", "selector", option.BookSelector, "error", err)
		return false
	}
	return true
}

// tryPriceMatch clicks the rate row whose displayed price is cent-equal
// to the target option's. Among several cent-equal rows, one whose text
// also contains a prefix of the option name is preferred; otherwise the
// first match is taken and the ambiguity is logged.
func (r *Resolver) tryPriceMatch(scope Scope, _ models.Room, option *models.RateOption) bool {
	target := price.Cents(option.Price)
	prefix := namePrefix(option.Name)

	var matches []RateRow
	var preferred RateRow
	for _, row := range scope.Rows() {
		v, ok := price.Normalize(row.PriceText())
		if !ok || price.Cents(v) != target {
			continue
		}
		matches = append(matches, row)
		if preferred == nil && prefix != "" && strings.Contains(strings.ToLower(row.Text()), prefix) {
			preferred = row
		}
	}

	if len(matches) == 0 {
		return false
	}
	pick := preferred
	if pick == nil {
		if len(matches) > 1 {
			r.logger.Warn("multiple cent-equal rate rows, taking first",
				"option", option.Name, "price", option.Price, "matches", len(matches))
		}
		pick = matches[0]
	}
	return pick.Book() == nil
}

// tryIndex clicks the Nth rate row, deriving N from the option id.
func (r *Resolver) tryIndex(scope Scope, _ models.Room, option *models.RateOption) bool {
	idx, ok := optionOrdinal(option.ID)
	if !ok {
		return false
	}
	rows := scope.Rows()
	if idx < 0 || idx >= len(rows) {
		return false
	}
	return rows[idx].Book() == nil
}

// tryTitleMatch scans rows for one whose text contains a prefix of the
// option name.
func (r *Resolver) tryTitleMatch(scope Scope, _ models.Room, option *models.RateOption) bool {
	prefix := namePrefix(option.Name)
	if prefix == "" {
		return false
	}
	for _, row := range scope.Rows() {
		if strings.Contains(strings.ToLower(row.Text()), prefix) {
			return row.Book() == nil
		}
	}
	return false
}

// tryGeneric clicks any book-affirmative button within the room scope.
func (r *Resolver) tryGeneric(scope Scope, _ models.Room, _ *models.RateOption) bool {
	for _, btn := range scope.Buttons() {
		if btn.Book() == nil {
			return true
		}
	}
	return false
}

// namePrefix lowercases and truncates an option name for fuzzy row
// matching; full names routinely get shortened in row text.
func namePrefix(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if len(s) > 12 {
		s = s[:12]
	}
	return s
}

// optionOrdinal derives the option's position from ids of the form
// "room-N-option-M" (M is 1-based).
func optionOrdinal(id string) (int, bool) {
	i := strings.LastIndex(id, "-")
	if i < 0 || i+1 >= len(id) {
		return 0, false
	}
	n := 0
	for _, r := range id[i+1:] {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n - 1, true
}
