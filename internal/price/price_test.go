package price

import (
	"fmt"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"€2.085,72", 2085.72, true},
		{"2085,72", 2085.72, true},
		{"2,085.72", 2085.72, true},
		{"99", 99.0, true},
		{"€1.701", 1701.0, true},
		{"1701,00", 1701.0, true},
		{"180", 180.0, true},
		{"162,00 €", 162.0, true},
		{"12.50", 12.5, true},
		{"1.234.567", 1234567.0, true},
		{"EUR 1.234,5", 1234.5, true},
		{"  €  89,90 ", 89.9, true},
		{"", 0, false},
		{"gratis", 0, false},
		{"0", 0, false},
		{"-10", 0, false},
		{"€ -10,00", 0, false},
		{"99,00 -", 99.0, true}, // dash after the amount is not a sign
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			if ok != tt.ok {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Normalize(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	// Formatting a normalized value back and re-normalizing must give the
	// same number.
	for _, raw := range []string{"€2.085,72", "99", "1701,00", "12.50"} {
		v, ok := Normalize(raw)
		if !ok {
			t.Fatalf("Normalize(%q) failed", raw)
		}
		again, ok := Normalize(fmt.Sprintf("%.2f", v))
		if !ok {
			t.Fatalf("re-normalize of %q failed", raw)
		}
		if math.Abs(v-again) > 1e-9 {
			t.Errorf("round trip of %q: %v != %v", raw, v, again)
		}
	}
}

func TestCents(t *testing.T) {
	if got := Cents(1701.0); got != 170100 {
		t.Errorf("Cents(1701.0) = %d, want 170100", got)
	}
	if got := Cents(2085.72); got != 208572 {
		t.Errorf("Cents(2085.72) = %d, want 208572", got)
	}
	if got := Cents(0.1 + 0.2); got != 30 {
		t.Errorf("Cents(0.1+0.2) = %d, want 30", got)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"€1.701", "1701,00", true},
		{"2,085.72", "€2.085,72", true},
		{"99", "99,00", true},
		{"150,00", "150.01", false},
		{"", "99", false},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
