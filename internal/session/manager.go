package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/oklog/ulid/v2"

	"github.com/prenotabot/prenotabot/internal/browser"
	"github.com/prenotabot/prenotabot/internal/models"
)

var (
	// ErrNotFound is returned for unknown or already destroyed sessions.
	ErrNotFound = errors.New("session not found")
	// ErrBusy is returned when a session already has an operation in
	// flight. Browser pages cannot service interleaved commands.
	ErrBusy = errors.New("session busy")
	// ErrTooManySessions is returned when the live-session cap is hit.
	ErrTooManySessions = errors.New("too many active sessions")
	// ErrBadTransition is returned for an illegal wizard-step advance.
	ErrBadTransition = errors.New("invalid step transition")
)

// LaunchFunc provisions the browser and page for a new session. Injected
// so tests run the manager without Chromium.
type LaunchFunc func(ctx context.Context) (*browser.Instance, *rod.Page, error)

// Manager owns session lifecycle: creation with a live browser page,
// single-operation locking, step transitions, idle cleanup and idempotent
// teardown.
type Manager struct {
	store   Store
	logger  *slog.Logger
	launch  LaunchFunc
	maxLive int
	maxIdle time.Duration
}

// NewManager creates a Manager. maxLive bounds concurrent sessions;
// maxIdle is how long an untouched session survives before cleanup.
func NewManager(store Store, logger *slog.Logger, launch LaunchFunc, maxLive int, maxIdle time.Duration) *Manager {
	if maxLive <= 0 {
		maxLive = 5
	}
	if maxIdle <= 0 {
		maxIdle = 10 * time.Minute
	}
	return &Manager{
		store:   store,
		logger:  logger,
		launch:  launch,
		maxLive: maxLive,
		maxIdle: maxIdle,
	}
}

// Create launches a browser page and registers a new session at the
// search step.
func (m *Manager) Create(ctx context.Context, params models.SearchParams) (*Session, error) {
	if m.store.Len() >= m.maxLive {
		return nil, ErrTooManySessions
	}

	b, page, err := m.launch(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s := &Session{
		ID:           ulid.Make().String(),
		Params:       params,
		Step:         StepSearch,
		CreatedAt:    now,
		LastActivity: now,
		Browser:      b,
		Page:         page,
	}
	m.store.Put(s)
	m.logger.Info("session created", "session_id", s.ID,
		"checkin", params.CheckinDate, "checkout", params.CheckoutDate)
	return s, nil
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, error) {
	s, ok := m.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Acquire locks a session for one operation. Callers must Release.
func (m *Manager) Acquire(id string) (*Session, error) {
	s, ok := m.store.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return nil, ErrNotFound
	}
	if s.busy {
		return nil, ErrBusy
	}
	s.busy = true
	s.LastActivity = time.Now()
	return s, nil
}

// Release unlocks a session after an operation.
func (m *Manager) Release(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.LastActivity = time.Now()
}

// Advance moves a session to the next wizard step.
func (m *Manager) Advance(s *Session, to Step) error {
	if !s.Step.CanAdvanceTo(to) {
		m.logger.Warn("rejected step transition", "session_id", s.ID, "from", s.Step, "to", to)
		return ErrBadTransition
	}
	m.logger.Info("step advanced", "session_id", s.ID, "from", s.Step, "to", to)
	s.Step = to
	return nil
}

// SetRooms replaces the session's extracted rooms wholesale. Room and
// option ids are positional, so selections referring to a previous
// extraction are cleared at the same time.
func (m *Manager) SetRooms(s *Session, rooms []models.Room) {
	s.Rooms = rooms
	s.SelectedRoom = nil
	s.SelectedOption = nil
}

// Destroy tears a session down: page, then browser, then registry entry.
// Safe to call repeatedly; teardown errors are logged, never returned.
func (m *Manager) Destroy(id string) {
	s, ok := m.store.Get(id)
	if !ok {
		return
	}

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	s.mu.Unlock()

	if s.Page != nil {
		if err := s.Page.Close(); err != nil {
			m.logger.Warn("page close failed", "session_id", id, "error", err)
		}
	}
	if s.Browser != nil {
		if err := s.Browser.Close(); err != nil {
			m.logger.Warn("browser close failed", "session_id", id, "error", err)
		}
	}
	m.store.Delete(id)
	m.logger.Info("session destroyed", "session_id", id, "final_step", s.Step)
}

// DestroyAll tears down every live session, for shutdown.
func (m *Manager) DestroyAll() {
	for _, s := range m.store.List() {
		m.Destroy(s.ID)
	}
}

// Count reports live sessions.
func (m *Manager) Count() int {
	return m.store.Len()
}

// StartCleanup runs the idle-session reaper until ctx is cancelled.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reapIdle()
		}
	}
}

func (m *Manager) reapIdle() {
	for _, s := range m.store.List() {
		s.mu.Lock()
		idle := !s.busy && time.Since(s.LastActivity) > m.maxIdle
		s.mu.Unlock()
		if idle {
			m.logger.Info("reaping idle session", "session_id", s.ID, "idle", time.Since(s.LastActivity).Round(time.Second))
			m.Destroy(s.ID)
		}
	}
}
