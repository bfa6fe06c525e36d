package memory

import (
	"context"
	"sync"
	"time"

	"rations/internal/domain"
)

// SessionRepo keeps live sessions keyed by token. It is separate from the
// entity store: sessions are never part of the dataset.
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	now      func() time.Time
}

// NewSessionRepo creates an empty session registry.
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

// Create registers a session under its token.
func (r *SessionRepo) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *session
	r.sessions[session.Token] = &cp
	return nil
}

// GetByToken retrieves a session by token, expired or not. Callers decide
// what expiry means; DeleteExpired sweeps them.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for k, v := range r.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.sessions, k)
		}
	}
	return nil
}

// Len returns the number of registered sessions.
func (r *SessionRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
