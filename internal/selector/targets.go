package selector

// Candidate lists for every logical target on the SimpleBooking engine,
// ordered from the currently shipped markup to older variants and generic
// last-resort patterns. Adding or reordering a fallback is a data change
// here, not a code change in the callers.

// Results page.
var (
	RoomContainers = List(
		".RoomCard",
		".RoomResultBlock",
		".ekc2wag12",
		".eio1k2u2",
	)

	// RoomContainerSelector is the union used when enumerating every room
	// card at once.
	RoomContainerSelector = ".RoomCard, .RoomResultBlock, .ekc2wag12, .eio1k2u2"

	RoomTitle = List(
		"h3.Heading strong",
		".RoomCard h3",
		".ekc2wag9 h3",
		"h3",
		"h2",
	)

	RoomPrice = List(
		".Prices .mainAmount",
		".eiup2eu1",
		".mainAmount span",
		".mainAmount",
		"[class*='Price'] [class*='Amount']",
	)

	RoomDescription = List(
		".ekc2wag6",
		".RoomCard .Paragraph",
		"[class*='RoomCard'] p",
		"p.Paragraph",
	)

	RoomFeatureList = List(
		".RoomFacilities",
		"[class*='Facilities']",
		"[class*='features']",
		"ul[class*='Amenit']",
	)

	RoomAvailabilityBadge = List(
		".enongdq2",
		"[class*='LastRooms']",
		"[class*='availability-warning']",
	)

	RateDrawerToggle = List(
		".RoomCard_CTA",
		".ekc2wag2",
		"[class*='ShowOptions']",
		"[class*='RoomCard'] button[class*='CTA']",
	)

	RateRowSelector = ".RoomOption, .RateCard, .eq023md2, [class*='RatePlan']"

	RateName = List(
		".RoomOption h4",
		"[class*='RateName']",
		"h4",
		"strong",
	)

	RateDescription = List(
		"[class*='RateDescription']",
		".RoomOption .Paragraph",
		"[class*='RatePlan'] p",
		".RoomOption p",
	)

	RatePrice = List(
		".Prices .mainAmount",
		".mainAmount",
		"[class*='Amount']",
	)

	RateMealPlan = List(
		"[class*='MealPlan']",
		"[class*='Board']",
		"[class*='Treatment']",
	)

	RateCancellation = List(
		"[class*='Cancellation']",
		"[class*='Policy']",
		"[class*='Refund']",
	)

	RateDiscountBadge = List(
		"[class*='Discount']",
		"[class*='Badge'][class*='offer']",
		"[class*='SpecialOffer']",
		"del + [class*='percent']",
	)

	RateOriginalPrice = List(
		"del",
		"[class*='strikethrough']",
		"[class*='OldPrice']",
	)
)

// Search widget and calendar.
var (
	CalendarOpenCTA = List(
		"button.OpenPanelCTA.SearchWidget__Calendar_CTA",
		"[class*='SearchWidget'] [class*='Calendar']",
		"[class*='datepicker-toggle']",
	)

	GuestsOpenCTA = List(
		"button.OpenPanelCTA.SearchWidget__Allocations_CTA",
		"[class*='SearchWidget'] [class*='Allocations']",
		"[class*='guests-toggle']",
	)

	SearchCTA = List(
		"a#PanelSearchWidgetCTA",
		"[class*='SearchWidget'] [class*='CTA'][class*='Search']",
		"button[type='submit'][class*='search']",
	)

	CalendarHeader = List(
		".Calendar__Header .Calendar__Month",
		".Calendar__Header",
		".Calendar__Navigation h3",
		".Calendar__Navigation span",
		"[class*='Calendar'][class*='Month']",
		".Calendar__Navigation",
	)

	CalendarNextMonth = List(
		"button.Calendar__Navigation__NextMonth",
		".Calendar__Navigation .next",
		"[class*='Calendar'][class*='Next']",
		"button[class*='next']",
	)

	CalendarPrevMonth = List(
		"button.Calendar__Navigation__PrevMonth",
		".Calendar__Navigation .prev",
		"[class*='Calendar'][class*='Prev']",
		"button[class*='prev']",
	)

	// CalendarDaySelector enumerates day cells; state classes are checked
	// per cell afterwards.
	CalendarDaySelector = "button.Calendar__Day"
)

// Customer data page.
var (
	FirstNameField = List(
		"input[name='name']",
		"input[name='firstName']",
		"input[id*='first']",
		"input[placeholder*='Nome']",
	)

	LastNameField = List(
		"input[name='lastName']",
		"input[name='surname']",
		"input[id*='last']",
		"input[placeholder*='Cognome']",
	)

	EmailField = List(
		"input[name='email']",
		"input[type='email']",
		"input[id*='email']",
		"input[placeholder*='email']",
	)

	EmailConfirmField = List(
		"input[name='emailConfirm']",
		"input[type='email']:nth-of-type(2)",
		"input[placeholder*='onferma']",
	)

	PrivacyCheckbox = List(
		"input[name='privacyPolicyAcceptance']",
		"input[name='privacy']",
		"input[id*='privacy']",
		"input[type='checkbox']",
	)

	NewsletterCheckbox = List(
		"input[name='newsletterSubscription']",
		"input[name='newsletter']",
		"input[id*='newsletter']",
	)

	ContinueCTA = List(
		"button.CustomerDataCollectionPage_CTA",
		".CustomerDataCollectionPage_CTA",
		"button[type='submit']",
		"input[type='submit']",
		"a.CTA",
	)
)

// Guarantee / payment page.
var (
	MobilePhoneField = List(
		"input[name='mobilePhone']",
		"input[name='phone']",
		"input[type='tel']",
	)

	CreditCardRadio = List(
		"input[type='radio'][value*='credit']",
		"input[name*='payment'][value*='card']",
		"input[id*='creditcard']",
	)

	BankTransferRadio = List(
		"input[type='radio'][value*='transfer']",
		"input[id*='banktransfer']",
	)

	CardNumberField = List(
		"input[name='creditCardNumber']",
		"input[name*='card'][name*='umber']",
		"input[placeholder*='numero carta']",
		"#cardNumber",
		".card-number input",
	)

	CardExpiryField = List(
		"input[name='creditCardExpiry']",
		"input[name*='expir']",
		"input[placeholder*='MM']",
		"#cardExpiry",
	)

	CardCVVField = List(
		"input[name='creditCardCVC']",
		"input[name*='cvv']",
		"input[name*='cvc']",
		"input[placeholder*='CVV']",
		"#cvv",
	)

	CardHolderField = List(
		"input[name='creditCardHolder']",
		"input[name*='holder']",
		"input[placeholder*='intestatario']",
		"#cardHolder",
	)

	TermsCheckbox = List(
		"input[name='termsAndConditionsAcceptance']",
		"input[name*='terms']",
		"input[id*='terms']",
		"input[type='checkbox']",
	)

	FinalBookCTA = List(
		"button.ReservationGuaranteePage_CTA",
		"[class*='Guarantee'] button[class*='CTA']",
		"button[type='submit']",
	)

	SidebarBookCTA = List(
		"[class*='Sidebar'] button[class*='CTA']",
		"[class*='BookingSummary'] button",
	)
)

// NextStepMarkers indicate that a book click actually advanced the wizard:
// either the customer-data form or the guarantee/payment form is on screen.
var NextStepMarkers = []string{
	"input[name='name']",
	"input[name='email']",
	".CustomerDataCollectionPage_CTA",
	"[class*='CustomerDataCollection']",
	"[class*='Guarantee']",
	"input[name='creditCardNumber']",
}
