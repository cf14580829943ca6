package wizard

import (
	"regexp"
	"strings"
)

// successIndicators and errorIndicators are phrase fragments scanned in
// the final page content; the engine localizes its confirmation page but
// these survive every variant seen so far.
var successIndicators = []string{
	"prenotazione confermata",
	"booking confirmed",
	"conferma prenotazione",
	"numero di prenotazione",
	"booking reference",
	"conferma di prenotazione",
}

var errorIndicators = []string{
	"errore",
	"error",
	"carta rifiutata",
	"declined",
	"payment failed",
	"pagamento fallito",
	"fondi insufficienti",
}

var referenceRe = regexp.MustCompile(`[A-Z]{2,}\d{4,}|\d{8,}`)

// Outcome classifies the final page: confirmed, failed, or unclear when
// neither signal is present.
type Outcome int

const (
	OutcomeUnclear Outcome = iota
	OutcomeConfirmed
	OutcomeFailed
)

// AssessOutcome scans rendered page content for confirmation or failure
// phrases. An error phrase wins over a success phrase: engines render
// "prenotazione" boilerplate even on declined-card pages.
func AssessOutcome(content string) Outcome {
	lower := strings.ToLower(content)
	hasError := containsAny(lower, errorIndicators)
	hasSuccess := containsAny(lower, successIndicators)
	switch {
	case hasSuccess && !hasError:
		return OutcomeConfirmed
	case hasError:
		return OutcomeFailed
	default:
		return OutcomeUnclear
	}
}

// ExtractReference pulls the first booking-reference-shaped token
// (letters+digits code or a long digit run) from page content.
func ExtractReference(content string) string {
	return referenceRe.FindString(content)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
