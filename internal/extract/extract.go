package extract

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/prenotabot/prenotabot/internal/models"
	"github.com/prenotabot/prenotabot/internal/price"
	"github.com/prenotabot/prenotabot/internal/selector"
)

// defaultFeatures are assumed for rooms whose facility list is missing or
// unreadable; the engine renders these on every room of the property.
var defaultFeatures = []string{"WiFi gratuito", "Aria condizionata"}

const maxImages = 5

// Extractor parses room cards from a rendered results page.
type Extractor struct {
	logger         *slog.Logger
	resultsTimeout time.Duration
}

// New creates an Extractor that waits up to resultsTimeout for the first
// room container to appear.
func New(logger *slog.Logger, resultsTimeout time.Duration) *Extractor {
	if resultsTimeout <= 0 {
		resultsTimeout = 15 * time.Second
	}
	return &Extractor{logger: logger, resultsTimeout: resultsTimeout}
}

// Extract walks the page's room cards. A page with no containers is a
// no-availability outcome, not an error; a panic from a detached DOM node
// is recovered into a failed outcome.
func (e *Extractor) Extract(page *rod.Page) (result models.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extraction panicked", "panic", r)
			result = models.ExtractionResult{
				Outcome: models.ExtractFailed,
				Message: fmt.Sprintf("extraction failed: %v", r),
			}
		}
	}()

	containers, matched := e.waitContainers(page)
	if len(containers) == 0 {
		e.logger.Info("no room containers on results page")
		return models.ExtractionResult{
			Outcome: models.NoAvailability,
			Rooms:   []models.Room{},
			Message: "nessuna camera disponibile per le date selezionate",
		}
	}
	e.logger.Info("room containers found", "count", len(containers), "selector", matched)

	rooms := make([]models.Room, 0, len(containers))
	for i, el := range containers {
		rooms = append(rooms, e.extractRoom(el, i))
	}

	rooms, removed := Dedupe(rooms)
	if removed > 0 {
		e.logger.Debug("duplicate room cards removed", "removed", removed)
	}

	return models.ExtractionResult{Outcome: models.Extracted, Rooms: rooms}
}

// waitContainers blocks until a room container renders, then enumerates
// all cards with the candidate that matched.
func (e *Extractor) waitContainers(page *rod.Page) ([]*rod.Element, string) {
	if _, err := page.Timeout(e.resultsTimeout).Element(selector.RoomContainerSelector); err != nil {
		return nil, ""
	}
	for _, c := range selector.RoomContainers {
		els, err := page.Elements(c.Selector)
		if err != nil || len(els) == 0 {
			continue
		}
		return els, c.Selector
	}
	return nil, ""
}

func (e *Extractor) extractRoom(el *rod.Element, idx int) models.Room {
	room := models.Room{
		ID:       fmt.Sprintf("room-%d", idx),
		Name:     NormalizeName(selector.Text(el, selector.RoomTitle, fmt.Sprintf("Camera %d", idx+1))),
		Currency: "EUR",
	}

	if v, ok := price.Normalize(selector.Text(el, selector.RoomPrice, "")); ok {
		room.Price = v
	} else {
		e.logger.Warn("room price unreadable", "room", room.Name)
	}

	room.Description = FallbackDescription(CleanDescription(selector.Text(el, selector.RoomDescription, "")))
	room.Features = e.extractFeatures(el)
	room.Images = extractImages(el)
	room.Availability = extractAvailability(el)
	room.BookSelector = capturePath(el, selector.RateDrawerToggle)
	room.Options = e.extractOptions(el, idx, room.Price)
	return room
}

func (e *Extractor) extractFeatures(el *rod.Element) []string {
	list, ok := selector.ElementIn(el, selector.RoomFeatureList)
	if !ok {
		return defaultFeatures
	}
	items, err := list.Elements("li")
	if err != nil || len(items) == 0 {
		return defaultFeatures
	}
	features := make([]string, 0, len(items))
	for _, item := range items {
		if text, err := item.Text(); err == nil {
			if f := NormalizeName(text); f != "" {
				features = append(features, f)
			}
		}
	}
	if len(features) == 0 {
		return defaultFeatures
	}
	return features
}

func extractImages(el *rod.Element) []string {
	imgs, err := el.Elements("img")
	if err != nil {
		return nil
	}
	var urls []string
	seen := make(map[string]bool)
	for _, img := range imgs {
		src, err := img.Attribute("src")
		if err != nil || src == nil || *src == "" || seen[*src] {
			continue
		}
		seen[*src] = true
		urls = append(urls, *src)
		if len(urls) == maxImages {
			break
		}
	}
	return urls
}

func extractAvailability(el *rod.Element) *models.AvailabilityInfo {
	badge, ok := selector.ElementIn(el, selector.RoomAvailabilityBadge)
	if !ok {
		return nil
	}
	text, err := badge.Text()
	if err != nil || text == "" {
		return nil
	}
	info := &models.AvailabilityInfo{Description: NormalizeName(text)}
	if n, ok := ParseRemaining(text); ok {
		info.Remaining = &n
	}
	return info
}

// drawerSettle is how long a clicked rate drawer gets to render its rows.
const drawerSettle = time.Second

// rateRows enumerates the card's rate rows, expanding a collapsed
// "show options" drawer first when none are rendered. Cards that ship
// their rows expanded are not clicked: the toggle would collapse them.
func (e *Extractor) rateRows(el *rod.Element) []*rod.Element {
	rows, err := el.Elements(selector.RateRowSelector)
	if err == nil && len(rows) > 0 {
		return rows
	}

	toggle, ok := selector.ElementIn(el, selector.RateDrawerToggle)
	if !ok {
		return nil
	}
	if err := toggle.ScrollIntoView(); err != nil {
		return nil
	}
	if err := toggle.Click(proto.InputMouseButtonLeft, 1); err != nil {
		e.logger.Debug("rate drawer toggle click failed", "error", err)
		return nil
	}
	time.Sleep(drawerSettle)

	rows, err = el.Elements(selector.RateRowSelector)
	if err != nil {
		return nil
	}
	return rows
}

// extractOptions expands the card's rate drawer if needed and reads the
// rendered rate rows. A card without rows gets a single synthetic option
// mirroring the room's headline price, so selection always has something
// to address.
func (e *Extractor) extractOptions(el *rod.Element, roomIdx int, roomPrice float64) []models.RateOption {
	rows := e.rateRows(el)
	if len(rows) == 0 {
		return []models.RateOption{{
			ID:           fmt.Sprintf("room-%d-option-1", roomIdx),
			Name:         "Tariffa standard",
			Price:        roomPrice,
			Available:    true,
			BookSelector: capturePath(el, selector.RateDrawerToggle),
		}}
	}

	options := make([]models.RateOption, 0, len(rows))
	for j, row := range rows {
		opt := models.RateOption{
			ID:          fmt.Sprintf("room-%d-option-%d", roomIdx, j+1),
			Name:        NormalizeName(selector.Text(row, selector.RateName, fmt.Sprintf("Opzione %d", j+1))),
			Description: CleanDescription(selector.Text(row, selector.RateDescription, "")),
			MealPlan:    NormalizeName(selector.Text(row, selector.RateMealPlan, "")),
			Available:   true,
		}

		if v, ok := price.Normalize(selector.Text(row, selector.RatePrice, "")); ok {
			opt.Price = v
		} else {
			opt.Price = roomPrice
		}

		cancText := NormalizeName(selector.Text(row, selector.RateCancellation, ""))
		opt.Cancellation = models.CancellationPolicy{
			Text:       cancText,
			Refundable: InferRefundable(cancText),
		}

		if badge, ok := selector.ElementIn(row, selector.RateDiscountBadge); ok {
			if text, err := badge.Text(); err == nil {
				opt.SpecialOffer = true
				if pct, ok := ParseDiscount(text); ok {
					opt.Discount = &models.DiscountInfo{Percent: pct}
					if orig, ok := price.Normalize(selector.Text(row, selector.RateOriginalPrice, "")); ok {
						opt.Discount.OriginalPrice = orig
					}
				}
			}
		}

		opt.BookSelector = captureRowAction(row)
		options = append(options, opt)
	}
	return options
}

// capturePath resolves a target inside the card and stores its XPath so
// the click resolver can replay it without re-running the cascade.
func capturePath(el *rod.Element, cands []selector.Candidate) string {
	target, ok := selector.ElementIn(el, cands)
	if !ok {
		return ""
	}
	return xpathOf(target)
}

// captureRowAction stores the XPath of a rate row's own book button.
func captureRowAction(row *rod.Element) string {
	btn, err := row.Element("button, a[role=button]")
	if err != nil {
		return xpathOf(row)
	}
	return xpathOf(btn)
}

func xpathOf(el *rod.Element) string {
	path, err := el.GetXPath(false)
	if err != nil {
		return ""
	}
	return path
}
