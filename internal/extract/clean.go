// Package extract walks a rendered results page and turns room cards into
// structured rooms with their rate options. Every field is resolved
// independently so one broken sub-element degrades a single field, never
// the whole extraction.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/prenotabot/prenotabot/internal/models"
)

var (
	spaceRe     = regexp.MustCompile(`\s+`)
	percentRe   = regexp.MustCompile(`(\d{1,2})\s*%`)
	remainingRe = regexp.MustCompile(`(?i)ne\s+resta(?:no)?\s+sol[oi]\s+(\d+)`)
	digitsRe    = regexp.MustCompile(`\d+`)
)

// expandMoreSuffixes are widget artifacts appended to truncated
// descriptions.
var expandMoreSuffixes = []string{
	"leggi di più",
	"leggi tutto",
	"mostra di più",
	"mostra dettagli",
	"read more",
	"show more",
}

// negativePhrases mark a rate as non-refundable. Refundability is inferred
// by absence of a negative phrase, since policy wording varies far more on
// the positive side.
var negativePhrases = []string{
	"non rimborsabile",
	"non-rimborsabile",
	"non rimborsabili",
	"nessun rimborso",
	"non-refundable",
	"non refundable",
	"no refund",
}

// NormalizeName collapses whitespace in a room or rate title.
func NormalizeName(raw string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))
}

// CleanDescription collapses whitespace, drops expand-more widget
// artifacts and bounds the text length, cutting at a word boundary.
func CleanDescription(raw string) string {
	s := NormalizeName(raw)
	lower := strings.ToLower(s)
	for _, suffix := range expandMoreSuffixes {
		if strings.HasSuffix(lower, suffix) {
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			lower = strings.ToLower(s)
		}
	}
	s = strings.TrimRight(s, " .…")
	const maxLen = 400
	if len(s) > maxLen {
		cut := strings.LastIndex(s[:maxLen], " ")
		if cut < maxLen/2 {
			cut = maxLen
		}
		s = s[:cut] + "…"
	}
	return s
}

// minDescriptionLen is the shortest cleaned description considered
// usable; anything shorter is replaced by genericDescription.
const minDescriptionLen = 10

const genericDescription = "Camera disponibile"

// FallbackDescription substitutes a generic text when cleanup left less
// than a usable description behind.
func FallbackDescription(s string) string {
	if len(s) < minDescriptionLen {
		return genericDescription
	}
	return s
}

// InferRefundable scans policy text for a negative phrase. Empty text
// gives no refundability claim either way and reports false.
func InferRefundable(policyText string) bool {
	s := strings.ToLower(NormalizeName(policyText))
	if s == "" {
		return false
	}
	for _, p := range negativePhrases {
		if strings.Contains(s, p) {
			return false
		}
	}
	return true
}

// ParseDiscount reads a percentage out of a discount badge, e.g.
// "-15%" or "Sconto 10 %".
func ParseDiscount(badgeText string) (int, bool) {
	m := percentRe.FindStringSubmatch(badgeText)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 || n >= 100 {
		return 0, false
	}
	return n, true
}

// ParseRemaining reads the room count from a scarcity badge such as
// "Ne resta solo 1" or "Ne restano solo 2". Unknown phrasings fall back
// to the first number in the text.
func ParseRemaining(badgeText string) (int, bool) {
	if m := remainingRe.FindStringSubmatch(badgeText); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	if m := digitsRe.FindString(badgeText); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil && n > 0 && n <= 50 {
			return n, true
		}
	}
	return 0, false
}

// Dedupe removes rooms that repeat an earlier room's normalized name;
// sites occasionally render the same card twice under different container
// classes. The first occurrence wins, whatever its price. Returns the
// kept rooms and the number removed.
func Dedupe(rooms []models.Room) ([]models.Room, int) {
	seen := make(map[string]bool, len(rooms))
	kept := rooms[:0]
	removed := 0
	for _, r := range rooms {
		name := strings.ToLower(NormalizeName(r.Name))
		if seen[name] {
			removed++
			continue
		}
		seen[name] = true
		kept = append(kept, r)
	}
	return kept, removed
}
