// Package browser launches hardened headless Chromium instances and
// creates stealth pages for driving the booking engine.
package browser

import (
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// blockedURLPatterns are tracking and ad domains aborted at the network
// layer; they slow page loads down and occasionally wedge the onload
// event.
var blockedURLPatterns = []string{
	"*googletagmanager.com*",
	"*google-analytics.com*",
	"*facebook.net*",
	"*doubleclick.net*",
	"*googlesyndication.com*",
	"*googleadservices.com*",
}

// Options configures a browser launch.
type Options struct {
	// ChromePath overrides the auto-downloaded Chromium binary.
	ChromePath string
	Headless   bool
	// SlowMo inserts a delay before every input action, useful when
	// watching a non-headless run.
	SlowMo time.Duration
}

// Instance is one launched browser. Close is safe to call more than once
// and from concurrent goroutines.
type Instance struct {
	browser *rod.Browser

	closeOnce sync.Once
	closeErr  error
}

// Launch starts a Chromium instance with automation-detection and
// permission-prompt surfaces disabled.
func Launch(opts Options) (*Instance, error) {
	l := launcher.New().
		Headless(opts.Headless).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-infobars").
		Set("disable-extensions").
		Set("disable-background-networking").
		Set("disable-notifications").
		Set("deny-permission-prompts").
		Set("disable-permissions-api").
		Set("block-new-web-contents").
		Set("window-size", "1920,1080").
		Set("lang", "it-IT,it")

	if opts.ChromePath != "" {
		l = l.Bin(opts.ChromePath)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, err
	}

	b := rod.New().ControlURL(u)
	if opts.SlowMo > 0 {
		b = b.SlowMotion(opts.SlowMo)
	}
	if err := b.Connect(); err != nil {
		return nil, err
	}

	return &Instance{browser: b}, nil
}

// NewPage opens a stealth page with tracker requests blocked.
func (i *Instance) NewPage() (*rod.Page, error) {
	page, err := stealth.Page(i.browser)
	if err != nil {
		return nil, err
	}

	block := proto.NetworkSetBlockedURLs{Urls: blockedURLPatterns}
	if err := block.Call(page); err != nil {
		page.Close()
		return nil, err
	}
	return page, nil
}

// Close shuts the browser down. Repeated calls return the first error.
func (i *Instance) Close() error {
	i.closeOnce.Do(func() {
		i.closeErr = i.browser.Close()
	})
	return i.closeErr
}
