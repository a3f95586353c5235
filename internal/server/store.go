package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/CK6170/GazeCal-go/gaze"
	"github.com/CK6170/GazeCal-go/models"
	"github.com/CK6170/GazeCal-go/modern"
)

// Session owns one calibration model. The model itself has no locking, so
// every access goes through mu.
type Session struct {
	ID     string
	Params *models.PARAMETERS

	mu    sync.Mutex
	model *gaze.Model
}

// With runs fn while holding the session lock.
func (s *Session) With(fn func(m *gaze.Model)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.model)
}

type SessionStore struct {
	mu sync.RWMutex
	m  map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{m: make(map[string]*Session)}
}

// Create registers a fresh, empty session for p.
func (s *SessionStore) Create(p *models.PARAMETERS) (*Session, error) {
	if err := modern.ValidateParameters(p); err != nil {
		return nil, err
	}
	sess := &Session{
		ID:     uuid.NewString(),
		Params: p,
		model:  gaze.NewModel(gaze.Config{Ridge: p.RIDGE}),
	}
	s.mu.Lock()
	s.m[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.m[id]
	return sess, ok
}

func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return false
	}
	delete(s.m, id)
	return true
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
