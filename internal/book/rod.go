package book

import (
	"errors"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/prenotabot/prenotabot/internal/selector"
)

var errScopeNotFound = errors.New("room scope not found")

// infoWords mark buttons that open detail panes rather than booking.
var infoWords = []string{"info", "dettagli", "details", "scopri"}

// bookWords mark affirmative booking actions.
var bookWords = []string{"prenota", "book", "seleziona", "scegli", "continua"}

// RoomScope binds Scope to the DOM container of one room card.
type RoomScope struct {
	page *rod.Page
	root *rod.Element
}

// NewRoomScope locates the room container at the given page-order index.
// Containers are looked up with the same cascade the extractor uses, so
// indexes line up with extraction results.
func NewRoomScope(page *rod.Page, roomIndex int) (*RoomScope, error) {
	for _, c := range selector.RoomContainers {
		els, err := page.Elements(c.Selector)
		if err != nil || len(els) == 0 {
			continue
		}
		if roomIndex < 0 || roomIndex >= len(els) {
			return nil, errScopeNotFound
		}
		return &RoomScope{page: page, root: els[roomIndex]}, nil
	}
	return nil, errScopeNotFound
}

// ClickSelector replays a locator captured at extraction time. Extraction
// stores XPaths (leading slash); plain CSS selectors work too.
func (s *RoomScope) ClickSelector(sel string) error {
	page := s.page.Timeout(selector.DefaultTimeout)
	var el *rod.Element
	var err error
	if strings.HasPrefix(sel, "/") {
		el, err = page.ElementX(sel)
	} else {
		el, err = page.Element(sel)
	}
	if err != nil {
		return err
	}
	el = el.CancelTimeout()
	if err := el.ScrollIntoView(); err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (s *RoomScope) Rows() []RateRow {
	els, err := s.root.Elements(selector.RateRowSelector)
	if err != nil {
		return nil
	}
	rows := make([]RateRow, 0, len(els))
	for _, el := range els {
		rows = append(rows, &domRow{el: el})
	}
	return rows
}

func (s *RoomScope) Buttons() []RateRow {
	els, err := s.root.Elements("button, a[role=button], a.Button")
	if err != nil {
		return nil
	}
	var out []RateRow
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			continue
		}
		lower := strings.ToLower(text)
		if !containsAny(lower, bookWords) || containsAny(lower, infoWords) {
			continue
		}
		if vis, err := el.Visible(); err != nil || !vis {
			continue
		}
		if dis, _ := el.Property("disabled"); dis.Bool() {
			continue
		}
		out = append(out, &domRow{el: el})
	}
	return out
}

// Confirm polls for a URL change or a next-step marker appearing.
func (s *RoomScope) Confirm(window time.Duration) bool {
	start, err := s.page.Info()
	if err != nil {
		return false
	}
	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		if info, err := s.page.Info(); err == nil && info.URL != start.URL {
			return true
		}
		for _, marker := range selector.NextStepMarkers {
			if has, _, err := s.page.Has(marker); err == nil && has {
				return true
			}
		}
		time.Sleep(250 * time.Millisecond)
	}
	return false
}

type domRow struct {
	el *rod.Element
}

func (r *domRow) Text() string {
	text, err := r.el.Text()
	if err != nil {
		return ""
	}
	return text
}

func (r *domRow) PriceText() string {
	for _, c := range selector.RatePrice {
		el, err := r.el.Element(c.Selector)
		if err != nil {
			continue
		}
		if text, err := el.Text(); err == nil && text != "" {
			return text
		}
	}
	// No dedicated price node; the row text often carries the amount.
	return r.Text()
}

func (r *domRow) Book() error {
	target := r.el
	// Rate rows nest their action button; bare buttons are their own target.
	if el, err := r.el.Element("button, a[role=button]"); err == nil {
		target = el
	}
	if err := target.ScrollIntoView(); err != nil {
		return err
	}
	return target.Click(proto.InputMouseButtonLeft, 1)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
