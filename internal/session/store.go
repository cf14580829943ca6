package session

import (
	"sync"
	"time"

	"github.com/go-rod/rod"

	"github.com/prenotabot/prenotabot/internal/browser"
	"github.com/prenotabot/prenotabot/internal/models"
)

// Session is one booking wizard in flight. Field access is guarded by the
// manager's acquire/release discipline: at most one operation works on a
// session at a time.
type Session struct {
	ID             string
	Params         models.SearchParams
	Step           Step
	Rooms          []models.Room
	SelectedRoom   *models.Room
	SelectedOption *models.RateOption
	Personal       *models.PersonalData

	CreatedAt    time.Time
	LastActivity time.Time

	Browser *browser.Instance
	Page    *rod.Page

	mu        sync.Mutex
	busy      bool
	destroyed bool
}

// FindRoom looks a room up by the id assigned at extraction time.
func (s *Session) FindRoom(roomID string) (*models.Room, bool) {
	for i := range s.Rooms {
		if s.Rooms[i].ID == roomID {
			return &s.Rooms[i], true
		}
	}
	return nil, false
}

// Store holds live sessions. Implementations must be safe for concurrent
// use.
type Store interface {
	Get(id string) (*Session, bool)
	Put(s *Session)
	Delete(id string)
	List() []*Session
	Len() int
}

// MemoryStore is the process-lifetime session store. Sessions are
// deliberately not persisted: a browser page cannot be resurrected after
// a restart, so durable session rows would only ever be stale.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *MemoryStore) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

func (m *MemoryStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *MemoryStore) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
