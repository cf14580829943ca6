// Package handlers provides HTTP handlers for the booking service API.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/prenotabot/prenotabot/internal/book"
	"github.com/prenotabot/prenotabot/internal/config"
	"github.com/prenotabot/prenotabot/internal/extract"
	"github.com/prenotabot/prenotabot/internal/journal"
	"github.com/prenotabot/prenotabot/internal/logging"
	"github.com/prenotabot/prenotabot/internal/models"
	"github.com/prenotabot/prenotabot/internal/session"
	"github.com/prenotabot/prenotabot/internal/wizard"
)

// BookingHandler carries the wizard through its HTTP surface.
type BookingHandler struct {
	sessions  *session.Manager
	driver    *wizard.Driver
	extractor *extract.Extractor
	resolver  *book.Resolver
	journal   *journal.Journal
	cfg       *config.Config
	logger    *slog.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(
	sessions *session.Manager,
	driver *wizard.Driver,
	extractor *extract.Extractor,
	resolver *book.Resolver,
	jnl *journal.Journal,
	cfg *config.Config,
	logger *slog.Logger,
) *BookingHandler {
	return &BookingHandler{
		sessions:  sessions,
		driver:    driver,
		extractor: extractor,
		resolver:  resolver,
		journal:   jnl,
		cfg:       cfg,
		logger:    logger,
	}
}

// SearchRequest is the start-search payload.
type SearchRequest struct {
	CheckinDate  string `json:"checkinDate" pattern:"^\\d{4}-\\d{2}-\\d{2}$" doc:"Check-in date, YYYY-MM-DD"`
	CheckoutDate string `json:"checkoutDate" pattern:"^\\d{4}-\\d{2}-\\d{2}$" doc:"Check-out date, YYYY-MM-DD"`
	Adults       int    `json:"adults" minimum:"1" maximum:"6" doc:"Number of adults"`
	Children     int    `json:"children,omitempty" minimum:"0" maximum:"4" doc:"Number of children"`
}

// SearchResponse reports the search outcome and extracted rooms.
type SearchResponse struct {
	SessionID string                `json:"sessionId"`
	Step      session.Step          `json:"step"`
	Outcome   models.ExtractOutcome `json:"outcome"`
	Rooms     []models.Room         `json:"rooms"`
	Message   string                `json:"message,omitempty"`
}

// StartSearch creates a session, loads the results page and extracts
// rooms.
func (h *BookingHandler) StartSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	params := models.SearchParams{
		CheckinDate:  req.CheckinDate,
		CheckoutDate: req.CheckoutDate,
		Adults:       req.Adults,
		Children:     req.Children,
	}
	if err := validateDates(params); err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	sess, err := h.sessions.Create(ctx, params)
	if err != nil {
		if err == session.ErrTooManySessions {
			return nil, huma.Error429TooManyRequests(err.Error())
		}
		return nil, huma.Error502BadGateway("browser launch failed: " + err.Error())
	}

	ctx = logging.WithSessionID(ctx, sess.ID)
	logger := logging.FromContext(ctx, h.logger)

	if err := h.driver.LoadSearchResults(ctx, sess.Page, h.cfg.HotelURL, params); err != nil {
		logger.Error("search navigation failed", "error", err)
		h.sessions.Destroy(sess.ID)
		return nil, huma.Error502BadGateway("could not load results page")
	}

	result := h.extractor.Extract(sess.Page)
	if result.Success() {
		h.sessions.SetRooms(sess, result.Rooms)
		if err := h.sessions.Advance(sess, session.StepRoomSelection); err != nil {
			logger.Warn("step advance failed", "error", err)
		}
	}
	logger.Info("search completed", "outcome", result.Outcome, "rooms", len(result.Rooms))

	return &SearchResponse{
		SessionID: sess.ID,
		Step:      sess.Step,
		Outcome:   result.Outcome,
		Rooms:     result.Rooms,
		Message:   result.Message,
	}, nil
}

// RoomsResponse lists a session's extracted rooms.
type RoomsResponse struct {
	SessionID string        `json:"sessionId"`
	Step      session.Step  `json:"step"`
	Rooms     []models.Room `json:"rooms"`
}

// Rooms returns the rooms extracted for a session.
func (h *BookingHandler) Rooms(ctx context.Context, sessionID string) (*RoomsResponse, error) {
	sess, err := h.sessions.Get(sessionID)
	if err != nil {
		return nil, huma.Error404NotFound("session not found")
	}
	return &RoomsResponse{SessionID: sess.ID, Step: sess.Step, Rooms: sess.Rooms}, nil
}

// SelectRoomRequest picks a room and optionally one of its rate options.
type SelectRoomRequest struct {
	RoomID   string `json:"roomId" minLength:"1" doc:"Room id from the search response"`
	OptionID string `json:"optionId,omitempty" doc:"Rate option id; omit to book the room's first available rate"`
}

// SelectRoom clicks the book action for the chosen room and rate.
func (h *BookingHandler) SelectRoom(ctx context.Context, sessionID string, req SelectRoomRequest) (*models.SelectionResult, error) {
	sess, err := h.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer h.sessions.Release(sess)

	ctx = logging.WithSessionID(ctx, sess.ID)
	logger := logging.FromContext(ctx, h.logger)

	room, ok := sess.FindRoom(req.RoomID)
	if !ok {
		return &models.SelectionResult{Message: "camera non trovata: ripetere la ricerca"}, nil
	}

	// The container index is encoded in the id. The slice position is
	// wrong once deduplication has removed a card before this one.
	idx, ok := containerIndex(room.ID)
	if !ok {
		return &models.SelectionResult{Message: "camera non trovata: ripetere la ricerca"}, nil
	}

	var option *models.RateOption
	if req.OptionID != "" {
		option, ok = room.FindOption(req.OptionID)
		if !ok {
			return &models.SelectionResult{Message: "opzione tariffaria non trovata"}, nil
		}
	}

	scope, err := book.NewRoomScope(sess.Page, idx)
	if err != nil {
		logger.Warn("room scope not resolvable", "room", req.RoomID, "error", err)
		return &models.SelectionResult{Message: "camera non più presente sulla pagina"}, nil
	}

	res := h.resolver.ClickBookAction(scope, *room, option)
	if !res.Clicked {
		return &models.SelectionResult{Message: "nessuna strategia di selezione ha funzionato"}, nil
	}

	sess.SelectedRoom = room
	sess.SelectedOption = option
	if err := h.sessions.Advance(sess, session.StepPersonalData); err != nil {
		return nil, huma.Error409Conflict(err.Error())
	}

	out := &models.SelectionResult{
		Success:      true,
		SelectorUsed: res.Strategy,
		Message:      "camera selezionata",
	}
	if option != nil {
		out.SelectedOptionID = option.ID
	}
	return out, nil
}

// PersonalDataRequest is the customer-data payload.
type PersonalDataRequest struct {
	FirstName        string `json:"firstName" minLength:"1"`
	LastName         string `json:"lastName" minLength:"1"`
	Email            string `json:"email" format:"email"`
	Phone            string `json:"phone,omitempty"`
	AcceptNewsletter bool   `json:"acceptNewsletter,omitempty"`
}

// PersonalData fills the customer-data form and advances to payment.
func (h *BookingHandler) PersonalData(ctx context.Context, sessionID string, req PersonalDataRequest) (*models.StepResult, error) {
	sess, err := h.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer h.sessions.Release(sess)

	if sess.Step != session.StepPersonalData {
		return nil, huma.Error409Conflict(fmt.Sprintf("session is at step %s", sess.Step))
	}

	data := models.PersonalData{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		AcceptNewsletter: req.AcceptNewsletter,
	}

	ctx = logging.WithSessionID(ctx, sess.ID)
	result := h.driver.FillPersonalData(ctx, sess.Page, data)
	if result.Success {
		sess.Personal = &data
		if err := h.sessions.Advance(sess, session.StepPayment); err != nil {
			return nil, huma.Error409Conflict(err.Error())
		}
	}
	return &result, nil
}

// CompleteRequest is the final guarantee-page payload.
type CompleteRequest struct {
	Method      string `json:"method,omitempty" enum:"credit_card,bank_transfer" doc:"Payment method, default credit_card"`
	CardNumber  string `json:"cardNumber,omitempty"`
	CardExpiry  string `json:"cardExpiry,omitempty"`
	CardCVV     string `json:"cvv,omitempty"`
	CardHolder  string `json:"cardHolder,omitempty"`
	MobilePhone string `json:"mobilePhone,omitempty"`
	TestMode    *bool  `json:"testMode,omitempty" doc:"Override the service-level test mode; true never submits"`
}

// Complete fills the guarantee page and submits the booking. The session
// reaches a terminal step either way and the outcome is journaled.
func (h *BookingHandler) Complete(ctx context.Context, sessionID string, req CompleteRequest) (*models.BookingResult, error) {
	sess, err := h.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer h.sessions.Release(sess)

	if sess.Step != session.StepPayment {
		return nil, huma.Error409Conflict(fmt.Sprintf("session is at step %s", sess.Step))
	}

	payment := models.PaymentData{
		Method:      req.Method,
		CardNumber:  req.CardNumber,
		CardExpiry:  req.CardExpiry,
		CardCVV:     req.CardCVV,
		CardHolder:  req.CardHolder,
		MobilePhone: req.MobilePhone,
	}
	personal := models.PersonalData{}
	if sess.Personal != nil {
		personal = *sess.Personal
	}
	if req.MobilePhone != "" {
		personal.Phone = req.MobilePhone
	}

	// Service-level test mode can only be loosened explicitly per request.
	testMode := h.cfg.TestMode
	if req.TestMode != nil {
		testMode = *req.TestMode
	}

	ctx = logging.WithSessionID(ctx, sess.ID)
	result := h.driver.CompleteBooking(ctx, sess.Page, personal, payment, testMode)

	final := session.StepFailed
	if result.Success {
		final = session.StepCompleted
	}
	if err := h.sessions.Advance(sess, final); err != nil {
		h.logger.Warn("terminal step advance failed", "session_id", sess.ID, "error", err)
	}

	if err := h.journal.Record(journal.Entry{
		SessionID: sess.ID,
		Outcome:   string(final),
		Reference: result.Reference,
		Message:   result.Message,
		Checkin:   sess.Params.CheckinDate,
		Checkout:  sess.Params.CheckoutDate,
		TestMode:  result.TestMode,
	}); err != nil {
		h.logger.Warn("journal write failed", "session_id", sess.ID, "error", err)
	}

	return &result, nil
}

// StatusResponse describes a session's wizard position.
type StatusResponse struct {
	SessionID        string       `json:"sessionId"`
	Step             session.Step `json:"step"`
	CheckinDate      string       `json:"checkinDate"`
	CheckoutDate     string       `json:"checkoutDate"`
	RoomCount        int          `json:"roomCount"`
	SelectedRoomID   string       `json:"selectedRoomId,omitempty"`
	SelectedOptionID string       `json:"selectedOptionId,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	LastActivity     time.Time    `json:"lastActivity"`
}

// Status reports where a session stands.
func (h *BookingHandler) Status(ctx context.Context, sessionID string) (*StatusResponse, error) {
	sess, err := h.sessions.Get(sessionID)
	if err != nil {
		return nil, huma.Error404NotFound("session not found")
	}

	out := &StatusResponse{
		SessionID:    sess.ID,
		Step:         sess.Step,
		CheckinDate:  sess.Params.CheckinDate,
		CheckoutDate: sess.Params.CheckoutDate,
		RoomCount:    len(sess.Rooms),
		CreatedAt:    sess.CreatedAt,
		LastActivity: sess.LastActivity,
	}
	if sess.SelectedRoom != nil {
		out.SelectedRoomID = sess.SelectedRoom.ID
	}
	if sess.SelectedOption != nil {
		out.SelectedOptionID = sess.SelectedOption.ID
	}
	return out, nil
}

// DestroyResponse acknowledges a teardown.
type DestroyResponse struct {
	Success bool `json:"success"`
}

// Destroy tears a session down. Unknown ids succeed: teardown is
// idempotent.
func (h *BookingHandler) Destroy(ctx context.Context, sessionID string) (*DestroyResponse, error) {
	h.sessions.Destroy(sessionID)
	return &DestroyResponse{Success: true}, nil
}

// JournalResponse lists recent terminal booking outcomes.
type JournalResponse struct {
	Entries []journal.Entry `json:"entries"`
}

// RecentOutcomes returns the newest journal rows.
func (h *BookingHandler) RecentOutcomes(ctx context.Context, limit int) (*JournalResponse, error) {
	entries, err := h.journal.Recent(limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("journal read failed")
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return &JournalResponse{Entries: entries}, nil
}

func (h *BookingHandler) acquire(sessionID string) (*session.Session, error) {
	sess, err := h.sessions.Acquire(sessionID)
	switch err {
	case nil:
		return sess, nil
	case session.ErrBusy:
		return nil, huma.Error409Conflict("an operation is already running for this session")
	default:
		return nil, huma.Error404NotFound("session not found")
	}
}

// containerIndex recovers the DOM container position a room id encodes.
// Extraction numbers ids before deduplication, so the id is the only
// value that still addresses the right card on the page.
func containerIndex(roomID string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(roomID, "room-"))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// validateDates enforces ordering beyond the schema's format check.
func validateDates(p models.SearchParams) error {
	in, err := time.Parse("2006-01-02", p.CheckinDate)
	if err != nil {
		return fmt.Errorf("invalid check-in date")
	}
	out, err := time.Parse("2006-01-02", p.CheckoutDate)
	if err != nil {
		return fmt.Errorf("invalid check-out date")
	}
	if !out.After(in) {
		return fmt.Errorf("check-out must be after check-in")
	}
	return nil
}
