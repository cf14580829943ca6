package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/prenotabot/prenotabot/internal/calendar"
	"github.com/prenotabot/prenotabot/internal/consent"
	"github.com/prenotabot/prenotabot/internal/models"
	"github.com/prenotabot/prenotabot/internal/selector"
)

// Driver executes the wizard steps on a session's page.
type Driver struct {
	logger     *slog.Logger
	dismisser  *consent.Dismisser
	navigator  *calendar.Navigator
	navTimeout time.Duration
	navRetries int
}

// NewDriver creates a Driver.
func NewDriver(logger *slog.Logger, navTimeout time.Duration, navRetries int) *Driver {
	if navTimeout <= 0 {
		navTimeout = 15 * time.Second
	}
	if navRetries < 1 {
		navRetries = 2
	}
	return &Driver{
		logger:     logger,
		dismisser:  consent.NewDismisser(logger),
		navigator:  calendar.New(logger),
		navTimeout: navTimeout,
		navRetries: navRetries,
	}
}

// LoadSearchResults deep-links straight onto the results page and clears
// any cookie banner. Navigation is retried a bounded number of times;
// the last error is returned when every attempt fails.
func (d *Driver) LoadSearchResults(ctx context.Context, page *rod.Page, baseURL string, params models.SearchParams) error {
	url := BuildSearchURL(baseURL, params)
	d.logger.Info("loading search results", "url", url)

	var lastErr error
	for attempt := 1; attempt <= d.navRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.navigate(page, url); err != nil {
			lastErr = err
			d.logger.Warn("navigation failed", "attempt", attempt, "error", err)
			continue
		}
		d.dismisser.Dismiss(ctx, page)
		return nil
	}
	return fmt.Errorf("loading results page: %w", lastErr)
}

func (d *Driver) navigate(page *rod.Page, url string) error {
	p := page.Timeout(d.navTimeout)
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

// SearchViaWidget runs the search through the on-page widget: open the
// calendar, pick both dates, submit. Used when the deep link lands on the
// home page instead of results.
func (d *Driver) SearchViaWidget(ctx context.Context, page *rod.Page, params models.SearchParams) error {
	d.dismisser.Dismiss(ctx, page)

	if err := d.clickTarget(page, selector.CalendarOpenCTA); err != nil {
		return fmt.Errorf("opening calendar: %w", err)
	}
	time.Sleep(2 * time.Second)

	checkin, err := time.Parse("2006-01-02", params.CheckinDate)
	if err != nil {
		return fmt.Errorf("check-in date: %w", err)
	}
	checkout, err := time.Parse("2006-01-02", params.CheckoutDate)
	if err != nil {
		return fmt.Errorf("check-out date: %w", err)
	}

	widget := calendar.NewPageWidget(page)
	if !d.navigator.SelectDate(widget, checkin, true) {
		return fmt.Errorf("check-in date %s not selectable", params.CheckinDate)
	}
	if !d.navigator.SelectDate(widget, checkout, false) {
		return fmt.Errorf("check-out date %s not selectable", params.CheckoutDate)
	}

	// The widget defaults to two adults; only touch the guests panel for
	// other party sizes.
	if params.Adults != 2 {
		if err := d.clickTarget(page, selector.GuestsOpenCTA); err != nil {
			d.logger.Warn("guests panel not reachable, continuing with default", "error", err)
		}
	}

	if err := d.clickTarget(page, selector.SearchCTA); err != nil {
		return fmt.Errorf("submitting search: %w", err)
	}
	if err := page.Timeout(d.navTimeout).WaitLoad(); err != nil {
		d.logger.Warn("results load wait ended early", "error", err)
	}
	return nil
}

// FillPersonalData completes the customer-data form and advances to the
// guarantee page. Missing optional fields degrade with a log line; an
// unreachable continue button fails the step.
func (d *Driver) FillPersonalData(ctx context.Context, page *rod.Page, data models.PersonalData) models.StepResult {
	if err := ctx.Err(); err != nil {
		return models.StepResult{Message: err.Error()}
	}

	d.fillField(page, selector.FirstNameField, data.FirstName, "first name")
	d.fillField(page, selector.LastNameField, data.LastName, "last name")
	d.fillField(page, selector.EmailField, data.Email, "email")
	d.fillField(page, selector.EmailConfirmField, data.Email, "email confirmation")

	if !d.ensureChecked(page, selector.PrivacyCheckbox) {
		return models.StepResult{Message: "privacy policy checkbox not found"}
	}
	if data.AcceptNewsletter {
		if !d.ensureChecked(page, selector.NewsletterCheckbox) {
			d.logger.Warn("newsletter checkbox not found, continuing")
		}
	}

	if err := d.clickTarget(page, selector.ContinueCTA); err != nil {
		return models.StepResult{Message: "continue button not found"}
	}
	time.Sleep(3 * time.Second)

	return models.StepResult{Success: true, Message: "dati personali inseriti"}
}

// CompleteBooking fills the guarantee page and submits. In test mode the
// form is completed but never submitted.
func (d *Driver) CompleteBooking(ctx context.Context, page *rod.Page, data models.PersonalData, payment models.PaymentData, testMode bool) models.BookingResult {
	if err := ctx.Err(); err != nil {
		return models.BookingResult{Message: err.Error()}
	}

	if data.Phone != "" {
		d.fillField(page, selector.MobilePhoneField, data.Phone, "mobile phone")
	}

	method := payment.Method
	if method == "" {
		method = "credit_card"
	}
	switch method {
	case "bank_transfer":
		if !d.ensureChecked(page, selector.BankTransferRadio) {
			d.logger.Warn("bank transfer option not found, leaving default payment method")
		}
	default:
		if d.ensureChecked(page, selector.CreditCardRadio) {
			// Card fields render lazily after the radio flips.
			time.Sleep(2 * time.Second)
		}
		// Test mode completes the form too; it only skips submission.
		if fillCard(method, payment.CardNumber) {
			d.fillField(page, selector.CardNumberField, payment.CardNumber, "card number")
			d.fillField(page, selector.CardExpiryField, payment.CardExpiry, "card expiry")
			d.fillField(page, selector.CardCVVField, payment.CardCVV, "card cvv")
			d.fillField(page, selector.CardHolderField, payment.CardHolder, "card holder")
		} else {
			d.logger.Info("no card data provided, skipping card fields")
		}
	}

	if !d.ensureChecked(page, selector.TermsCheckbox) {
		return models.BookingResult{Message: "termini e condizioni non accettabili: checkbox non trovata"}
	}

	if testMode {
		d.logger.Info("test mode: stopping before submission")
		return models.BookingResult{
			Success:  true,
			Message:  "test mode: modulo completato ma non inviato",
			TestMode: true,
		}
	}

	if err := d.submitBooking(page); err != nil {
		return models.BookingResult{Message: err.Error()}
	}

	// Payment processing is slow; give the engine time to render the
	// confirmation or failure page before reading it.
	time.Sleep(10 * time.Second)
	return d.readBookingResult(page)
}

// fillCard reports whether the card fields should be typed. The decision
// depends only on the data and the chosen method, never on test mode.
func fillCard(method, cardNumber string) bool {
	if cardNumber == "" {
		return false
	}
	return method == "" || method == "credit_card"
}

func (d *Driver) submitBooking(page *rod.Page) error {
	for _, cands := range [][]selector.Candidate{selector.FinalBookCTA, selector.SidebarBookCTA} {
		if err := d.clickTarget(page, cands); err == nil {
			return nil
		}
	}
	return fmt.Errorf("booking submit button not found")
}

func (d *Driver) readBookingResult(page *rod.Page) models.BookingResult {
	content, err := page.HTML()
	if err != nil {
		return models.BookingResult{Message: fmt.Sprintf("esito non leggibile: %v", err)}
	}

	switch AssessOutcome(content) {
	case OutcomeConfirmed:
		ref := ExtractReference(content)
		d.logger.Info("booking confirmed", "reference", ref)
		return models.BookingResult{Success: true, Message: "prenotazione confermata", Reference: ref}
	case OutcomeFailed:
		d.logger.Warn("booking failed on final page")
		return models.BookingResult{Message: "prenotazione fallita: errore di pagamento o validazione"}
	default:
		return models.BookingResult{Message: "esito della prenotazione non chiaro"}
	}
}

func (d *Driver) fillField(page *rod.Page, cands []selector.Candidate, value string, label string) bool {
	if value == "" {
		return false
	}
	el, ok := selector.Element(page, cands)
	if !ok {
		d.logger.Warn("form field not found", "field", label)
		return false
	}
	// Clear any prefill before typing.
	_ = el.SelectAllText()
	if err := el.Input(value); err != nil {
		d.logger.Warn("form field input failed", "field", label, "error", err)
		return false
	}
	d.logger.Debug("form field filled", "field", label)
	return true
}

// ensureChecked ticks a checkbox or radio if it is not already set.
func (d *Driver) ensureChecked(page *rod.Page, cands []selector.Candidate) bool {
	el, ok := selector.Element(page, cands)
	if !ok {
		return false
	}
	if checked, err := el.Property("checked"); err == nil && checked.Bool() {
		return true
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		d.logger.Warn("checkbox click failed", "error", err)
		return false
	}
	return true
}

func (d *Driver) clickTarget(page *rod.Page, cands []selector.Candidate) error {
	el, ok := selector.Element(page, cands)
	if !ok {
		return fmt.Errorf("no candidate matched")
	}
	if err := el.ScrollIntoView(); err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}
