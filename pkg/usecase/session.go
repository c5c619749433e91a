package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// FormSessions keeps the forms opened through the dashboard API, keyed by a
// random session ID
type FormSessions struct {
	mu       sync.Mutex
	sessions map[string]*formSession
	now      func() time.Time
}

type formSession struct {
	form     *FormController
	lastUsed time.Time
}

type SessionsOption func(*FormSessions)

// WithSessionClock replaces time.Now for idle tracking
func WithSessionClock(now func() time.Time) SessionsOption {
	return func(s *FormSessions) {
		s.now = now
	}
}

func NewFormSessions(opts ...SessionsOption) *FormSessions {
	s := &FormSessions{
		sessions: make(map[string]*formSession),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a form and returns its session ID
func (s *FormSessions) Add(form *FormController) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.sessions[id] = &formSession{form: form, lastUsed: s.now()}
	return id
}

// Get returns the form of a session and marks it used
func (s *FormSessions) Get(id string) (*FormController, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, goerr.Wrap(ErrSessionNotFound, "form session not found", goerr.V(SessionIDKey, id))
	}
	sess.lastUsed = s.now()
	return sess.form, nil
}

// Close disposes the form of a session and forgets it
func (s *FormSessions) Close(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return goerr.Wrap(ErrSessionNotFound, "form session not found", goerr.V(SessionIDKey, id))
	}
	sess.form.Dispose()
	return nil
}

// DisposeIdle closes every session unused for longer than ttl. Sessions with
// a submission in flight are kept. It returns the number of closed sessions.
func (s *FormSessions) DisposeIdle(ttl time.Duration) int {
	s.mu.Lock()
	cutoff := s.now().Add(-ttl)
	var expired []*FormController
	for id, sess := range s.sessions {
		if sess.lastUsed.After(cutoff) || sess.form.Status() == types.SubmitStatusSubmitting {
			continue
		}
		expired = append(expired, sess.form)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, form := range expired {
		form.Dispose()
	}
	return len(expired)
}

// CloseAll disposes every session
func (s *FormSessions) CloseAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*formSession)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.form.Dispose()
	}
}

func (s *FormSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
