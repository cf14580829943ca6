package wizard

import (
	"testing"

	"github.com/prenotabot/prenotabot/internal/models"
)

func TestBuildSearchURL(t *testing.T) {
	base := "https://www.simplebooking.it/ibe2/hotel/1467?lang=IT&cur=EUR"

	t.Run("two adults", func(t *testing.T) {
		got := BuildSearchURL(base, models.SearchParams{
			CheckinDate:  "2026-04-15",
			CheckoutDate: "2026-04-18",
			Adults:       2,
		})
		want := base + "&in=2026-04-15&out=2026-04-18&guests=A%2CA"
		if got != want {
			t.Errorf("got  %q\nwant %q", got, want)
		}
	})

	t.Run("single adult has no separator", func(t *testing.T) {
		got := BuildSearchURL(base, models.SearchParams{
			CheckinDate:  "2026-04-15",
			CheckoutDate: "2026-04-16",
			Adults:       1,
		})
		want := base + "&in=2026-04-15&out=2026-04-16&guests=A"
		if got != want {
			t.Errorf("got  %q\nwant %q", got, want)
		}
	})

	t.Run("zero adults defaults to one", func(t *testing.T) {
		got := BuildSearchURL(base, models.SearchParams{CheckinDate: "2026-04-15", CheckoutDate: "2026-04-16"})
		want := base + "&in=2026-04-15&out=2026-04-16&guests=A"
		if got != want {
			t.Errorf("got %q", got)
		}
	})
}

// Card filling depends on data and method only; the fields are typed in
// test mode as well, since test mode stops before submission, not before
// completing the form.
func TestFillCard(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		cardNumber string
		want       bool
	}{
		{"credit card with number", "credit_card", "4111111111111111", true},
		{"default method with number", "", "4111111111111111", true},
		{"no card number", "credit_card", "", false},
		{"bank transfer", "bank_transfer", "4111111111111111", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fillCard(tt.method, tt.cardNumber); got != tt.want {
				t.Errorf("fillCard(%q, card=%v) = %v, want %v", tt.method, tt.cardNumber != "", got, tt.want)
			}
		})
	}
}

func TestAssessOutcome(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Outcome
	}{
		{"confirmed", "<h1>Prenotazione Confermata</h1> Numero di prenotazione: AB12345", OutcomeConfirmed},
		{"english confirmed", "Your booking confirmed. Booking reference: 12345678", OutcomeConfirmed},
		{"declined card", "Si è verificato un errore: carta rifiutata", OutcomeFailed},
		{"error wins over success", "Conferma prenotazione — pagamento fallito", OutcomeFailed},
		{"unclear", "<html><body>Caricamento...</body></html>", OutcomeUnclear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssessOutcome(tt.content); got != tt.want {
				t.Errorf("AssessOutcome = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractReference(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"Numero di prenotazione: HB123456", "HB123456"},
		{"riferimento 202604151234", "202604151234"},
		{"nessun riferimento qui", ""},
	}
	for _, tt := range tests {
		if got := ExtractReference(tt.content); got != tt.want {
			t.Errorf("ExtractReference(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}
