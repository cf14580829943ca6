// Package consent dismisses cookie banners before the automation flow
// starts interacting with the page; an open banner overlays the search
// widget and swallows clicks.
package consent

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// consentButtonSelectors cover the consent platforms seen on Italian
// hotel sites, most specific first. iubenda is near-universal there;
// OneTrust and Cookiebot show up on chain properties.
var consentButtonSelectors = []string{
	// iubenda
	`button.iubenda-cs-accept-btn`,
	`.iubenda-cs-accept-btn`,
	`button[class*="iubenda"][class*="accept"]`,

	// OneTrust
	`button#onetrust-accept-btn-handler`,
	`button[id*="onetrust-accept"]`,

	// Cookiebot
	`button#CybotCookiebotDialogBodyLevelButtonLevelOptinAllowAll`,
	`button#CybotCookiebotDialogBodyButtonAccept`,

	// Didomi
	`button#didomi-notice-agree-button`,

	// Generic patterns
	`button[aria-label*="Accetta"]`,
	`button[aria-label*="Accept"]`,
	`button.cookie-accept`,
	`button.accept-cookies`,
	`div[class*="cookie"] button[class*="accept"]`,
	`div[class*="consent"] button[class*="accept"]`,
}

// acceptTexts are scanned as a last resort when no known selector
// matches. Italian labels first.
var acceptTexts = []string{
	"Accetta tutti",
	"Accetta tutto",
	"Accetta e chiudi",
	"Accetta",
	"Consenti tutti",
	"Ho capito",
	"Accept All",
	"Accept all",
	"I Accept",
	"Agree",
}

// Dismisser closes cookie consent banners.
type Dismisser struct {
	logger  *slog.Logger
	timeout time.Duration
}

// NewDismisser creates a Dismisser. Probe timeouts stay short: most
// pages have no banner and the flow should not stall looking for one.
func NewDismisser(logger *slog.Logger) *Dismisser {
	return &Dismisser{
		logger:  logger,
		timeout: 2 * time.Second,
	}
}

// Dismiss clicks the first matching consent button, trying known
// selectors and then a text scan. Returns true when a banner was closed.
func (d *Dismisser) Dismiss(ctx context.Context, page *rod.Page) bool {
	// Give the banner a moment to render after navigation.
	time.Sleep(500 * time.Millisecond)

	for _, sel := range consentButtonSelectors {
		if ctx.Err() != nil {
			return false
		}
		if d.tryClickSelector(page, sel) {
			return true
		}
	}
	return d.tryClickByText(ctx, page)
}

func (d *Dismisser) tryClickSelector(page *rod.Page, sel string) bool {
	el, err := page.Timeout(d.timeout).Element(sel)
	if err != nil {
		return false
	}
	el = el.CancelTimeout()

	if visible, err := el.Visible(); err != nil || !visible {
		return false
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		d.logger.Debug("consent button click failed", "selector", sel, "error", err)
		return false
	}

	d.logger.Info("cookie banner dismissed", "selector", sel)
	time.Sleep(300 * time.Millisecond)
	return true
}

// tryClickByText clicks the first visible button or link whose text
// contains an accept label.
func (d *Dismisser) tryClickByText(ctx context.Context, page *rod.Page) bool {
	clickJS := `(text) => {
		for (const el of document.querySelectorAll('button, a')) {
			if (!el.textContent.includes(text)) continue;
			const rect = el.getBoundingClientRect();
			if (rect.width === 0 || rect.height === 0) continue;
			el.click();
			return true;
		}
		return false;
	}`

	for _, text := range acceptTexts {
		if ctx.Err() != nil {
			return false
		}
		res, err := page.Timeout(d.timeout).Eval(clickJS, text)
		if err != nil || !res.Value.Bool() {
			continue
		}
		d.logger.Info("cookie banner dismissed", "method", "text_scan", "text", text)
		time.Sleep(300 * time.Millisecond)
		return true
	}
	return false
}
