package autosave

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager tracks the live editing sessions. Sessions address disjoint notes
// in the intended usage, so the manager imposes no ordering between them.
type Manager struct {
	saver  Saver
	window time.Duration
	log    zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Coordinator
}

func NewManager(saver Saver, window time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		saver:    saver,
		window:   window,
		log:      log,
		sessions: make(map[string]*Coordinator),
	}
}

// Open starts a session for the given note, or for a not-yet-created note
// when noteID is 0, and returns its handle.
func (m *Manager) Open(noteID int64) (string, *Coordinator) {
	id := uuid.NewString()
	c := New(m.saver, noteID, m.window, m.log.With().Str("session_id", id).Logger())

	m.mu.Lock()
	m.sessions[id] = c
	m.mu.Unlock()

	return id, c
}

func (m *Manager) Get(id string) (*Coordinator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.sessions[id]
	return c, ok
}

// Close tears a session down and forgets it. It reports whether the session
// existed.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	c, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		c.Close()
	}
	return ok
}
