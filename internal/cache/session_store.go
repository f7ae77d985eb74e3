package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session token does not resolve.
var ErrSessionNotFound = errors.New("session: not found or expired")

// Session is the server-side session payload keyed by an opaque token.
type Session struct {
	UserID  string          `json:"user_id"`
	Role    models.UserRole `json:"role"`
	ChildID *string         `json:"child_id,omitempty"`
}

// SessionStore manages sessions in Redis with a fixed TTL.
// Tokens are opaque UUIDs, so a session is revocable by deleting its key.
type SessionStore interface {
	Create(ctx context.Context, session Session) (string, error)
	Get(ctx context.Context, token string) (*Session, error)
	Destroy(ctx context.Context, token string) error
}

type sessionStore struct {
	cache CacheService
	ttl   time.Duration
}

func NewSessionStore(cache CacheService, ttl time.Duration) SessionStore {
	return &sessionStore{cache: cache, ttl: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *sessionStore) Create(ctx context.Context, session Session) (string, error) {
	token := uuid.NewString()
	if err := s.cache.Set(ctx, sessionKey(token), session, s.ttl); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

func (s *sessionStore) Get(ctx context.Context, token string) (*Session, error) {
	var session Session
	if err := s.cache.Get(ctx, sessionKey(token), &session); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *sessionStore) Destroy(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, sessionKey(token))
}
