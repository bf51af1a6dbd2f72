package memory

import (
	"context"
	"sync"
	"time"

	"github.com/evhartley/fiction-passport/internal/model"
	"github.com/evhartley/fiction-passport/internal/session"
)

// Store is an in-memory implementation of the session store
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session

	now func() time.Time
}

// New creates a new in-memory session store
func New() *Store {
	return &Store{
		sessions: make(map[string]*session.Session),
		now:      time.Now,
	}
}

// NewWithNow creates a store with a custom time source (for testing expiry)
func NewWithNow(now func() time.Time) *Store {
	s := New()
	s.now = now
	return s
}

// Ensure Store implements the interface
var _ session.Store = (*Store)(nil)

func (s *Store) Save(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return nil
}

func (s *Store) Get(_ context.Context, token string) (*session.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, model.ErrInvalidSession
	}

	if s.now().After(sess.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, model.ErrInvalidSession
	}

	return sess, nil
}

func (s *Store) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *Store) Close() error {
	return nil
}
