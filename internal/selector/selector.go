// Package selector implements ordered-candidate resolution of DOM targets.
// Every logical target on the site (room card, price block, book button,
// calendar control, form field) has an ordered list of fallback selectors
// reflecting the markup variants the site has shipped over time; the first
// candidate that matches a visible, enabled element wins. Exhausting the
// list is an expected outcome, not an error.
package selector

import "time"

// DefaultTimeout bounds a single candidate probe. It is deliberately short
// so that resolving a target with a dozen fallbacks stays fast even when
// none of them match.
const DefaultTimeout = 2 * time.Second

// Candidate is one selector to try, with an optional per-probe timeout.
type Candidate struct {
	Selector string
	Timeout  time.Duration
}

// List builds a candidate list from plain selectors with default timeouts.
func List(selectors ...string) []Candidate {
	cands := make([]Candidate, len(selectors))
	for i, s := range selectors {
		cands[i] = Candidate{Selector: s}
	}
	return cands
}

// ProbeFunc checks a single candidate and reports whether it matched a
// usable element. Implementations must respect the candidate timeout.
type ProbeFunc[T any] func(Candidate) (T, bool)

// Resolution describes a successful resolve: the matched handle, the
// selector that produced it, and how many probes were spent.
type Resolution[T any] struct {
	Handle   T
	Selector string
	Attempts int
}

// Resolve tries each candidate in order and returns the first hit. The
// boolean is false when every candidate was exhausted; callers treat that
// as a recoverable not-found condition.
func Resolve[T any](cands []Candidate, probe ProbeFunc[T]) (Resolution[T], bool) {
	attempts := 0
	for _, c := range cands {
		if c.Timeout <= 0 {
			c.Timeout = DefaultTimeout
		}
		attempts++
		if h, ok := probe(c); ok {
			return Resolution[T]{Handle: h, Selector: c.Selector, Attempts: attempts}, true
		}
	}
	return Resolution[T]{Attempts: attempts}, false
}
