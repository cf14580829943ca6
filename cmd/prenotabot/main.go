// Package main provides the entry point for the booking automation server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-rod/rod"

	"github.com/prenotabot/prenotabot/internal/api/handlers"
	"github.com/prenotabot/prenotabot/internal/book"
	"github.com/prenotabot/prenotabot/internal/browser"
	"github.com/prenotabot/prenotabot/internal/config"
	"github.com/prenotabot/prenotabot/internal/extract"
	"github.com/prenotabot/prenotabot/internal/journal"
	"github.com/prenotabot/prenotabot/internal/logging"
	"github.com/prenotabot/prenotabot/internal/session"
	"github.com/prenotabot/prenotabot/internal/shutdown"
	"github.com/prenotabot/prenotabot/internal/version"
	"github.com/prenotabot/prenotabot/internal/wizard"
)

func main() {
	// Load configuration first (logging config comes from env)
	cfg := config.Load()

	// Initialize logger using slog-logfilter (respects LOG_LEVEL, LOG_FORMAT env vars)
	logger := logging.SetDefault()

	logger.Info("starting booking server",
		"version", version.Get().Version,
		"port", cfg.Port,
		"target", cfg.HotelURL,
		"test_mode", cfg.TestMode,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Outcome journal
	jnl, err := journal.Open(cfg.JournalPath, logger)
	if err != nil {
		logger.Error("journal open failed", "error", err)
		os.Exit(1)
	}
	defer jnl.Close()

	// Each session gets its own browser instance and stealth page.
	launch := func(ctx context.Context) (*browser.Instance, *rod.Page, error) {
		b, err := browser.Launch(browser.Options{
			ChromePath: cfg.ChromePath,
			Headless:   cfg.Headless,
			SlowMo:     cfg.SlowMo,
		})
		if err != nil {
			return nil, nil, err
		}
		page, err := b.NewPage()
		if err != nil {
			b.Close()
			return nil, nil, err
		}
		return b, page, nil
	}

	sessions := session.NewManager(session.NewMemoryStore(), logger, launch, cfg.MaxSessions, cfg.SessionMaxIdle)
	defer sessions.DestroyAll()
	go sessions.StartCleanup(ctx, cfg.CleanupInterval)

	driver := wizard.NewDriver(logger, cfg.NavTimeout, cfg.NavRetries)
	extractor := extract.New(logger, cfg.ResultsTimeout)
	resolver := book.NewResolver(logger, cfg.ConfirmTimeout)

	healthHandler := handlers.NewHealthHandler(sessions, cfg.TestMode)
	bookingHandler := handlers.NewBookingHandler(sessions, driver, extractor, resolver, jnl, cfg, logger)

	// Idle monitor: auto-shutdown when nothing has used the service.
	idle := shutdown.NewIdleMonitor(shutdown.IdleMonitorConfig{
		Timeout: cfg.IdleTimeout,
		Logger:  logger,
	})
	idle.Start()
	defer idle.Stop()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(idle.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Browser-backed operations are expensive; keep per-client pressure low.
	r.Use(httprate.LimitByIP(30, time.Minute))

	humaConfig := huma.DefaultConfig("Prenotabot", version.Get().Version)
	humaConfig.Info.Description = "Headless booking automation for a SimpleBooking-style reservation engine"
	api := humachi.New(r, humaConfig)

	registerRoutes(api, healthHandler, bookingHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt or idle shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info("signal received, shutting down")
	case <-idle.ShutdownChan():
		logger.Info("idle timeout reached, shutting down")
	}

	// Cancel context to stop background tasks
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	sessions.DestroyAll()
	logger.Info("server stopped")
}

// Huma wrapper types.

type searchInput struct {
	Body handlers.SearchRequest
}

type searchOutput struct {
	Body handlers.SearchResponse
}

type sessionInput struct {
	SessionID string `path:"sessionId" doc:"Booking session id"`
}

type roomsOutput struct {
	Body handlers.RoomsResponse
}

type selectRoomInput struct {
	SessionID string `path:"sessionId"`
	Body      handlers.SelectRoomRequest
}

type selectRoomOutput struct {
	Body selectionBody
}

type selectionBody struct {
	Success          bool   `json:"success"`
	SelectedOptionID string `json:"selectedOptionId,omitempty"`
	SelectorUsed     string `json:"diagnosticSelectorUsed,omitempty"`
	Message          string `json:"message,omitempty"`
}

type personalDataInput struct {
	SessionID string `path:"sessionId"`
	Body      handlers.PersonalDataRequest
}

type stepOutput struct {
	Body struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}
}

type completeInput struct {
	SessionID string `path:"sessionId"`
	Body      handlers.CompleteRequest
}

type bookingOutput struct {
	Body struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		Reference string `json:"bookingReference,omitempty"`
		TestMode  bool   `json:"testMode,omitempty"`
	}
}

type statusOutput struct {
	Body handlers.StatusResponse
}

type destroyOutput struct {
	Body handlers.DestroyResponse
}

type journalInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Number of entries"`
}

type journalOutput struct {
	Body handlers.JournalResponse
}

func registerRoutes(api huma.API, health *handlers.HealthHandler, booking *handlers.BookingHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, func(ctx context.Context, input *struct{}) (*handlers.HealthOutput, error) {
		return &handlers.HealthOutput{Body: *health.Handle(ctx)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "startSearch",
		Method:      http.MethodPost,
		Path:        "/api/booking/start-search",
		Summary:     "Start an availability search",
		Description: "Creates a booking session, loads the results page and extracts rooms",
		Tags:        []string{"Booking"},
	}, func(ctx context.Context, input *searchInput) (*searchOutput, error) {
		resp, err := booking.StartSearch(ctx, input.Body)
		if err != nil {
			return nil, err
		}
		return &searchOutput{Body: *resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "listRooms",
		Method:      http.MethodGet,
		Path:        "/api/booking/rooms/{sessionId}",
		Summary:     "List extracted rooms",
		Tags:        []string{"Booking"},
	}, func(ctx context.Context, input *sessionInput) (*roomsOutput, error) {
		resp, err := booking.Rooms(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
		return &roomsOutput{Body: *resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "selectRoom",
		Method:      http.MethodPost,
		Path:        "/api/booking/select-room/{sessionId}",
		Summary:     "Select a room and rate option",
		Tags:        []string{"Booking"},
	}, func(ctx context.Context, input *selectRoomInput) (*selectRoomOutput, error) {
		resp, err := booking.SelectRoom(ctx, input.SessionID, input.Body)
		if err != nil {
			return nil, err
		}
		return &selectRoomOutput{Body: selectionBody{
			Success:          resp.Success,
			SelectedOptionID: resp.SelectedOptionID,
			SelectorUsed:     resp.SelectorUsed,
			Message:          resp.Message,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "personalData",
		Method:      http.MethodPost,
		Path:        "/api/booking/personal-data/{sessionId}",
		Summary:     "Fill the customer data form",
		Tags:        []string{"Booking"},
	}, func(ctx context.Context, input *personalDataInput) (*stepOutput, error) {
		resp, err := booking.PersonalData(ctx, input.SessionID, input.Body)
		if err != nil {
			return nil, err
		}
		out := &stepOutput{}
		out.Body.Success = resp.Success
		out.Body.Message = resp.Message
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "completeBooking",
		Method:      http.MethodPost,
		Path:        "/api/booking/complete/{sessionId}",
		Summary:     "Complete the booking",
		Description: "Fills the guarantee page and submits unless test mode is active",
		Tags:        []string{"Booking"},
	}, func(ctx context.Context, input *completeInput) (*bookingOutput, error) {
		resp, err := booking.Complete(ctx, input.SessionID, input.Body)
		if err != nil {
			return nil, err
		}
		out := &bookingOutput{}
		out.Body.Success = resp.Success
		out.Body.Message = resp.Message
		out.Body.Reference = resp.Reference
		out.Body.TestMode = resp.TestMode
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "sessionStatus",
		Method:      http.MethodGet,
		Path:        "/api/booking/status/{sessionId}",
		Summary:     "Session status",
		Tags:        []string{"Booking"},
	}, func(ctx context.Context, input *sessionInput) (*statusOutput, error) {
		resp, err := booking.Status(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
		return &statusOutput{Body: *resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "destroySession",
		Method:      http.MethodDelete,
		Path:        "/api/booking/session/{sessionId}",
		Summary:     "Destroy a session",
		Tags:        []string{"Booking"},
	}, func(ctx context.Context, input *sessionInput) (*destroyOutput, error) {
		resp, err := booking.Destroy(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
		return &destroyOutput{Body: *resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "recentOutcomes",
		Method:      http.MethodGet,
		Path:        "/api/booking/journal",
		Summary:     "Recent terminal booking outcomes",
		Tags:        []string{"Booking"},
	}, func(ctx context.Context, input *journalInput) (*journalOutput, error) {
		resp, err := booking.RecentOutcomes(ctx, input.Limit)
		if err != nil {
			return nil, err
		}
		return &journalOutput{Body: *resp}, nil
	})
}
