package datastore

import (
	"context"
	"time"

	"github.com/kbukum/featurekit/errors"
	"github.com/kbukum/featurekit/redis"
)

const sessionKey = "session"

// redisRepository keeps the session under <namespace>:session, expiring
// with the session itself.
type redisRepository struct {
	namespace string
	store     *redis.TypedStore[Session]
	now       func() time.Time
}

func newRedisRepository(store *redis.TypedStore[Session], namespace string) *redisRepository {
	return &redisRepository{namespace: namespace, store: store, now: time.Now}
}

func (r *redisRepository) SaveSession(ctx context.Context, s Session) error {
	now := r.now()
	if err := validateSession(s, now); err != nil {
		return err
	}
	var ttl time.Duration
	if !s.ExpiresAt.IsZero() {
		ttl = s.ExpiresAt.Sub(now)
	}
	if err := r.store.Save(ctx, sessionKey, &s, ttl); err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (r *redisRepository) Session(ctx context.Context) (Session, error) {
	s, err := r.store.Load(ctx, sessionKey)
	if err != nil {
		return Session{}, errors.Internal(err)
	}
	if s == nil {
		return Session{}, errors.NotFound("session", r.namespace)
	}
	// The key TTL has second granularity; the session expiry is exact.
	if s.Expired(r.now()) {
		if err := r.store.Delete(ctx, sessionKey); err != nil {
			return Session{}, errors.Internal(err)
		}
		return Session{}, errors.NotFound("session", r.namespace)
	}
	return *s, nil
}

func (r *redisRepository) ClearSession(ctx context.Context) error {
	if err := r.store.Delete(ctx, sessionKey); err != nil {
		return errors.Internal(err)
	}
	return nil
}
