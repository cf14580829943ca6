package calendar

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/prenotabot/prenotabot/internal/selector"
)

var errControlNotFound = errors.New("calendar control not found")

// PageWidget binds the Widget interface to a live rod page.
type PageWidget struct {
	page *rod.Page
}

// NewPageWidget wraps the page's date-picker.
func NewPageWidget(page *rod.Page) *PageWidget {
	return &PageWidget{page: page}
}

func (w *PageWidget) Header() (string, error) {
	el, ok := selector.Element(w.page, selector.CalendarHeader)
	if !ok {
		return "", errControlNotFound
	}
	return el.Text()
}

func (w *PageWidget) Next() error {
	return w.clickControl(selector.CalendarNextMonth)
}

func (w *PageWidget) Prev() error {
	return w.clickControl(selector.CalendarPrevMonth)
}

func (w *PageWidget) clickControl(cands []selector.Candidate) error {
	el, ok := selector.Element(w.page, cands)
	if !ok {
		return errControlNotFound
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (w *PageWidget) Days() ([]Day, error) {
	els, err := w.page.Elements(selector.CalendarDaySelector)
	if err != nil {
		return nil, err
	}
	days := make([]Day, 0, len(els))
	for _, el := range els {
		days = append(days, &pageDay{el: el})
	}
	return days, nil
}

type pageDay struct {
	el *rod.Element
}

func (d *pageDay) Number() (int, bool) {
	// The visible day number lives in an aria-hidden span; fall back to
	// the cell's own text.
	text := ""
	if span, err := d.el.Element(`span[aria-hidden="true"]`); err == nil {
		text, _ = span.Text()
	}
	if text == "" {
		text, _ = d.el.Text()
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (d *pageDay) State() string {
	class, err := d.el.Attribute("class")
	if err != nil || class == nil {
		return ""
	}
	return *class
}

func (d *pageDay) Click() error {
	return d.el.Click(proto.InputMouseButtonLeft, 1)
}
