package extract

import (
	"strings"
	"testing"

	"github.com/prenotabot/prenotabot/internal/models"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  Camera   Doppia\n Superior ", "Camera Doppia Superior"},
		{"Suite", "Suite"},
		{"\t\n ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanDescription(t *testing.T) {
	t.Run("strips expand artifact", func(t *testing.T) {
		got := CleanDescription("Camera luminosa con vista mare.  Leggi di più")
		if got != "Camera luminosa con vista mare" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		got := CleanDescription("Ampia \n\n camera   matrimoniale")
		if got != "Ampia camera matrimoniale" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("bounds length at word boundary", func(t *testing.T) {
		long := strings.Repeat("parola ", 100)
		got := CleanDescription(long)
		if len(got) > 410 {
			t.Errorf("length = %d", len(got))
		}
		if !strings.HasSuffix(got, "…") {
			t.Errorf("no ellipsis on truncated text: %q", got[len(got)-10:])
		}
	})
}

func TestInferRefundable(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Cancellazione gratuita fino a 3 giorni prima", true},
		{"Tariffa NON RIMBORSABILE", false},
		{"Non-refundable rate", false},
		{"Nessun rimborso in caso di cancellazione", false},
		{"Pagamento alla struttura", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := InferRefundable(tt.text); got != tt.want {
			t.Errorf("InferRefundable(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestParseDiscount(t *testing.T) {
	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{"-15%", 15, true},
		{"Sconto 10 %", 10, true},
		{"Offerta speciale", 0, false},
		{"0%", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDiscount(tt.text)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseDiscount(%q) = %d, %v; want %d, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseRemaining(t *testing.T) {
	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{"Ne resta solo 1", 1, true},
		{"Ne restano solo 2", 2, true},
		{"NE RESTANO SOLO 3", 3, true},
		{"Ultime 2 camere", 2, true},
		{"Alta richiesta", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseRemaining(tt.text)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseRemaining(%q) = %d, %v; want %d, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDedupe(t *testing.T) {
	// Name alone is the key: a repeated name is a duplicate card even
	// when it carries a different price.
	rooms := []models.Room{
		{ID: "room-0", Name: "Camera Doppia", Price: 150},
		{ID: "room-1", Name: "camera  doppia", Price: 150.00},
		{ID: "room-2", Name: "camera  DOPPIA", Price: 160},
		{ID: "room-3", Name: "Suite", Price: 150},
	}
	kept, removed := Dedupe(rooms)
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if len(kept) != 2 {
		t.Fatalf("kept = %d rooms, want 2", len(kept))
	}
	if kept[0].ID != "room-0" || kept[1].ID != "room-3" {
		t.Errorf("kept order = %s %s", kept[0].ID, kept[1].ID)
	}
	names := make(map[string]bool)
	for _, r := range kept {
		key := strings.ToLower(NormalizeName(r.Name))
		if names[key] {
			t.Errorf("normalized name %q kept twice", key)
		}
		names[key] = true
	}
}

func TestFallbackDescription(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Ampia camera matrimoniale con vista mare", "Ampia camera matrimoniale con vista mare"},
		{"", "Camera disponibile"},
		{"Vista", "Camera disponibile"},
	}
	for _, tt := range tests {
		if got := FallbackDescription(tt.in); got != tt.want {
			t.Errorf("FallbackDescription(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
