// Package price normalizes locale-formatted price strings into canonical
// numeric values. The target site renders amounts in Italian locale
// ("2.085,72") but some widgets fall back to English formatting
// ("2,085.72"), so both conventions must parse to the same number.
package price

import (
	"math"
	"strconv"
	"strings"
)

// Normalize parses raw into a float value. It strips currency symbols and
// whitespace, then disambiguates separators:
//   - both "." and "," present: "." is a thousands separator, "," decimal
//   - only ",": decimal separator
//   - only ".": decimal if the trailing group has at most two digits and
//     there is a single dot, thousands separator otherwise
//
// It returns false for unparseable or non-positive results; callers fall
// back to their own default value in that case.
func Normalize(raw string) (float64, bool) {
	var b strings.Builder
	seenDigit := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteRune(r)
		case r == '-' && !seenDigit:
			// A minus before the amount makes it negative, and a
			// negative price is a parse failure, not an amount.
			return 0, false
		}
	}
	s := b.String()
	if s == "" {
		return 0, false
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")

	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case hasComma:
		s = strings.Replace(s, ",", ".", 1)
	case hasDot:
		last := strings.LastIndex(s, ".")
		frac := s[last+1:]
		if strings.Count(s, ".") > 1 || len(frac) > 2 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// Cents rounds v to integer cents. All price comparisons go through this
// to avoid floating-point equality pitfalls.
func Cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// Equal reports whether two raw price strings normalize to the same
// amount, compared at cent precision. It is false if either side fails
// to parse.
func Equal(a, b string) bool {
	va, oka := Normalize(a)
	vb, okb := Normalize(b)
	if !oka || !okb {
		return false
	}
	return Cents(va) == Cents(vb)
}
