package session

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/go-rod/rod"

	"github.com/prenotabot/prenotabot/internal/browser"
	"github.com/prenotabot/prenotabot/internal/models"
)

func noBrowser(context.Context) (*browser.Instance, *rod.Page, error) {
	return nil, nil, nil
}

func testManager(maxLive int) *Manager {
	return NewManager(NewMemoryStore(), slog.Default(), noBrowser, maxLive, time.Minute)
}

func testParams() models.SearchParams {
	return models.SearchParams{CheckinDate: "2026-04-15", CheckoutDate: "2026-04-18", Adults: 2}
}

func TestStepTransitions(t *testing.T) {
	tests := []struct {
		from, to Step
		want     bool
	}{
		{StepSearch, StepRoomSelection, true},
		{StepRoomSelection, StepPersonalData, true},
		{StepPersonalData, StepPayment, true},
		{StepPayment, StepCompleted, true},
		{StepSearch, StepPersonalData, false},
		{StepPersonalData, StepRoomSelection, false},
		{StepSearch, StepFailed, true},
		{StepPayment, StepFailed, true},
		{StepCompleted, StepFailed, false},
		{StepFailed, StepRoomSelection, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanAdvanceTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCreateAndGet(t *testing.T) {
	m := testManager(2)
	s, err := m.Create(context.Background(), testParams())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Step != StepSearch {
		t.Errorf("new session step = %s, want %s", s.Step, StepSearch)
	}
	if len(s.ID) != 26 {
		t.Errorf("session id %q is not a ULID", s.ID)
	}

	got, err := m.Get(s.ID)
	if err != nil || got.ID != s.ID {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if _, err := m.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) = %v, want ErrNotFound", err)
	}
}

func TestCreateEnforcesCap(t *testing.T) {
	m := testManager(1)
	if _, err := m.Create(context.Background(), testParams()); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := m.Create(context.Background(), testParams()); !errors.Is(err, ErrTooManySessions) {
		t.Errorf("second Create = %v, want ErrTooManySessions", err)
	}
}

func TestAcquireRelease(t *testing.T) {
	m := testManager(2)
	s, _ := m.Create(context.Background(), testParams())

	got, err := m.Acquire(s.ID)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := m.Acquire(s.ID); !errors.Is(err, ErrBusy) {
		t.Errorf("second Acquire = %v, want ErrBusy", err)
	}

	m.Release(got)
	if _, err := m.Acquire(s.ID); err != nil {
		t.Errorf("Acquire after Release: %v", err)
	}
}

func TestAdvance(t *testing.T) {
	m := testManager(2)
	s, _ := m.Create(context.Background(), testParams())

	if err := m.Advance(s, StepPersonalData); !errors.Is(err, ErrBadTransition) {
		t.Errorf("skip-ahead Advance = %v, want ErrBadTransition", err)
	}
	if err := m.Advance(s, StepRoomSelection); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if s.Step != StepRoomSelection {
		t.Errorf("step = %s", s.Step)
	}
	if err := m.Advance(s, StepFailed); err != nil {
		t.Errorf("fail from any step: %v", err)
	}
	if err := m.Advance(s, StepPayment); !errors.Is(err, ErrBadTransition) {
		t.Errorf("Advance after terminal = %v, want ErrBadTransition", err)
	}
}

func TestSetRoomsClearsSelections(t *testing.T) {
	m := testManager(2)
	s, _ := m.Create(context.Background(), testParams())

	s.Rooms = []models.Room{{ID: "room-0", Name: "Doppia"}}
	s.SelectedRoom = &s.Rooms[0]
	s.SelectedOption = &models.RateOption{ID: "room-0-option-1"}

	m.SetRooms(s, []models.Room{{ID: "room-0", Name: "Suite"}})
	if s.SelectedRoom != nil || s.SelectedOption != nil {
		t.Error("selections survived re-extraction")
	}
	if len(s.Rooms) != 1 || s.Rooms[0].Name != "Suite" {
		t.Errorf("rooms = %+v", s.Rooms)
	}
}

func TestDestroyIdempotent(t *testing.T) {
	m := testManager(2)
	s, _ := m.Create(context.Background(), testParams())

	m.Destroy(s.ID)
	if m.Count() != 0 {
		t.Fatalf("count after destroy = %d", m.Count())
	}
	// Second and third destroys are no-ops.
	m.Destroy(s.ID)
	m.Destroy(s.ID)
	if _, err := m.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Destroy = %v, want ErrNotFound", err)
	}
}

func TestDestroyAll(t *testing.T) {
	m := testManager(3)
	for i := 0; i < 3; i++ {
		if _, err := m.Create(context.Background(), testParams()); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	m.DestroyAll()
	if m.Count() != 0 {
		t.Errorf("count after DestroyAll = %d", m.Count())
	}
}

func TestReapIdle(t *testing.T) {
	m := NewManager(NewMemoryStore(), slog.Default(), noBrowser, 2, 10*time.Millisecond)
	s, _ := m.Create(context.Background(), testParams())
	s.LastActivity = time.Now().Add(-time.Second)

	m.reapIdle()
	if m.Count() != 0 {
		t.Errorf("idle session survived reap, count = %d", m.Count())
	}
}

func TestReapSkipsBusySessions(t *testing.T) {
	m := NewManager(NewMemoryStore(), slog.Default(), noBrowser, 2, 10*time.Millisecond)
	s, _ := m.Create(context.Background(), testParams())
	if _, err := m.Acquire(s.ID); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	s.LastActivity = time.Now().Add(-time.Second)

	m.reapIdle()
	if m.Count() != 1 {
		t.Errorf("busy session reaped, count = %d", m.Count())
	}
}

func TestFindRoomAndOption(t *testing.T) {
	s := &Session{Rooms: []models.Room{
		{ID: "room-0", Options: []models.RateOption{{ID: "room-0-option-1"}}},
		{ID: "room-1"},
	}}

	room, ok := s.FindRoom("room-1")
	if !ok || room.ID != "room-1" {
		t.Fatalf("FindRoom = %+v, %v", room, ok)
	}
	if _, ok := s.FindRoom("room-9"); ok {
		t.Error("found nonexistent room")
	}

	first, _ := s.FindRoom("room-0")
	opt, ok := first.FindOption("room-0-option-1")
	if !ok || opt.ID != "room-0-option-1" {
		t.Fatalf("FindOption = %+v, %v", opt, ok)
	}
	if _, ok := first.FindOption("room-0-option-9"); ok {
		t.Error("found nonexistent option")
	}
}
