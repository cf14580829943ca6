// Package models defines the domain and API types for the booking service.
package models

// SearchParams holds the validated availability-search input.
type SearchParams struct {
	CheckinDate  string `json:"checkinDate"`
	CheckoutDate string `json:"checkoutDate"`
	Adults       int    `json:"adults"`
	Children     int    `json:"children"`
}

// Room is one bookable room type extracted from a results page.
// IDs are derived from page position and are only valid within the
// extraction pass that produced them.
type Room struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Price        float64           `json:"price"`
	Currency     string            `json:"currency"`
	Description  string            `json:"description"`
	Features     []string          `json:"features"`
	Images       []string          `json:"images,omitempty"`
	Availability *AvailabilityInfo `json:"availability,omitempty"`
	Options      []RateOption      `json:"bookingOptions,omitempty"`

	// BookSelector is the selector captured at extraction time for the
	// room's own book action, replayable without re-resolving.
	BookSelector string `json:"-"`
}

// FindOption looks a rate option up by id.
func (r *Room) FindOption(optionID string) (*RateOption, bool) {
	for i := range r.Options {
		if r.Options[i].ID == optionID {
			return &r.Options[i], true
		}
	}
	return nil, false
}

// AvailabilityInfo describes a limited-availability badge, when present.
type AvailabilityInfo struct {
	Remaining   *int   `json:"remaining,omitempty"`
	Description string `json:"description,omitempty"`
}

// RateOption is a purchasable rate variant within a room (meal plan,
// cancellation policy and price combination).
type RateOption struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Price        float64            `json:"price"`
	MealPlan     string             `json:"mealPlan,omitempty"`
	Cancellation CancellationPolicy `json:"cancellationPolicy"`
	Discount     *DiscountInfo      `json:"discountInfo,omitempty"`
	SpecialOffer bool               `json:"specialOffer"`
	Available    bool               `json:"available"`

	// BookSelector is precomputed at extraction time, scoped to
	// (room index, option index).
	BookSelector string `json:"-"`
}

// CancellationPolicy holds the policy text and the refundability
// inferred from it.
type CancellationPolicy struct {
	Text       string `json:"text,omitempty"`
	Refundable bool   `json:"refundable"`
}

// DiscountInfo describes a discount badge on a rate option.
type DiscountInfo struct {
	Percent       int     `json:"percent"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
}

// PersonalData is the guest information filled into the customer form.
type PersonalData struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	AcceptNewsletter bool   `json:"acceptNewsletter,omitempty"`
}

// PaymentData is the payment information for the guarantee step.
type PaymentData struct {
	Method      string `json:"method,omitempty"` // "credit_card" (default) or "bank_transfer"
	CardNumber  string `json:"cardNumber,omitempty"`
	CardExpiry  string `json:"cardExpiry,omitempty"`
	CardCVV     string `json:"cvv,omitempty"`
	CardHolder  string `json:"cardHolder,omitempty"`
	MobilePhone string `json:"mobilePhone,omitempty"`
}
