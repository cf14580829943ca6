// Package wizard drives the booking engine end to end: loading results,
// the widget-driven search fallback, the customer-data form and the final
// guarantee page.
package wizard

import (
	"fmt"
	"strings"

	"github.com/prenotabot/prenotabot/internal/models"
)

// BuildSearchURL composes the deep link that lands directly on the
// results page. The engine reads dates from `in`/`out` and the party from
// `guests`, one "A" per adult with a literal %2C separator; the raw comma
// is not accepted.
func BuildSearchURL(baseURL string, p models.SearchParams) string {
	adults := p.Adults
	if adults < 1 {
		adults = 1
	}
	guests := strings.Repeat("A%2C", adults)
	guests = strings.TrimSuffix(guests, "%2C")
	return fmt.Sprintf("%s&in=%s&out=%s&guests=%s", baseURL, p.CheckinDate, p.CheckoutDate, guests)
}
