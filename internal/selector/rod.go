package selector

import (
	"github.com/go-rod/rod"
)

// Element resolves a candidate list against the whole page.
func Element(page *rod.Page, cands []Candidate) (*rod.Element, bool) {
	res, ok := Resolve(cands, pageProbe(page))
	if !ok {
		return nil, false
	}
	return res.Handle, true
}

// ElementIn resolves a candidate list inside a previously resolved
// container. Scoping is what keeps structurally identical sub-elements of
// sibling room cards from being confused with each other.
func ElementIn(scope *rod.Element, cands []Candidate) (*rod.Element, bool) {
	res, ok := Resolve(cands, scopeProbe(scope))
	if !ok {
		return nil, false
	}
	return res.Handle, true
}

// Text resolves a candidate list and returns the element's trimmed text,
// or fallback when nothing matched.
func Text(scope *rod.Element, cands []Candidate, fallback string) string {
	el, ok := ElementIn(scope, cands)
	if !ok {
		return fallback
	}
	txt, err := el.Text()
	if err != nil || txt == "" {
		return fallback
	}
	return txt
}

func pageProbe(page *rod.Page) ProbeFunc[*rod.Element] {
	return func(c Candidate) (*rod.Element, bool) {
		el, err := page.Timeout(c.Timeout).Element(c.Selector)
		if err != nil {
			return nil, false
		}
		el = el.CancelTimeout()
		if !Usable(el) {
			return nil, false
		}
		return el, true
	}
}

func scopeProbe(scope *rod.Element) ProbeFunc[*rod.Element] {
	return func(c Candidate) (*rod.Element, bool) {
		el, err := scope.Timeout(c.Timeout).Element(c.Selector)
		if err != nil {
			return nil, false
		}
		el = el.CancelTimeout()
		if !Usable(el) {
			return nil, false
		}
		return el, true
	}
}

// Usable reports whether an element is visible and not disabled.
func Usable(el *rod.Element) bool {
	visible, err := el.Visible()
	if err != nil || !visible {
		return false
	}
	disabled, err := el.Property("disabled")
	if err == nil && disabled.Bool() {
		return false
	}
	return true
}
