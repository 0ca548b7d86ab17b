package datastore

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/featurekit/errors"
)

// Session is the authenticated user session.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Repository stores the current session.
type Repository interface {
	SaveSession(ctx context.Context, s Session) error
	// Session returns NOT_FOUND when nothing is stored or the stored
	// session has expired.
	Session(ctx context.Context) (Session, error)
	ClearSession(ctx context.Context) error
}

type memoryRepository struct {
	namespace string
	now       func() time.Time

	mu      sync.Mutex
	session *Session
}

func newMemoryRepository(namespace string) *memoryRepository {
	return &memoryRepository{namespace: namespace, now: time.Now}
}

func (r *memoryRepository) SaveSession(ctx context.Context, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSession(s, r.now()); err != nil {
		return err
	}
	r.mu.Lock()
	r.session = &s
	r.mu.Unlock()
	return nil
}

func (r *memoryRepository) Session(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session != nil && r.session.Expired(r.now()) {
		r.session = nil
	}
	if r.session == nil {
		return Session{}, errors.NotFound("session", r.namespace)
	}
	return *r.session, nil
}

func (r *memoryRepository) ClearSession(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.clear()
	return nil
}

func (r *memoryRepository) clear() {
	r.mu.Lock()
	r.session = nil
	r.mu.Unlock()
}

func validateSession(s Session, now time.Time) error {
	if s.Token == "" {
		return errors.InvalidInput("token", "session token is required")
	}
	if s.UserID == "" {
		return errors.InvalidInput("user_id", "session user is required")
	}
	if s.Expired(now) {
		return errors.InvalidInput("expires_at", "session is already expired")
	}
	return nil
}
