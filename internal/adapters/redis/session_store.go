package redis

// Package redis provides Redis-based adapters for the portal: the durable
// session store and the short-lived pending-login store.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/redis/go-redis/v9"
)

// SessionStore persists serialized session records under a fixed key prefix.
// TTL semantics follow the session ExpiresAt, and corrupt payloads are
// self-healed: the offending key is removed and the caller sees ErrNotFound,
// so a bad record degrades to an anonymous state instead of an error loop.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a session store with the default "session:" prefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, prefix: "session:"}
}

// NewSessionStoreWithPrefix creates a session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.SchemaVersion == 0 {
		sess.SchemaVersion = domainauth.SessionSchemaVersion
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	key := s.prefix + id
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	switch {
	case json.Unmarshal([]byte(data), &sess) != nil:
		// Corrupt payload: clear the key so the next load starts clean.
		return s.discard(ctx, id, "clear corrupt session")
	case sess.SchemaVersion != domainauth.SessionSchemaVersion:
		// A record written by a different schema version is treated the same
		// as corruption; forcing re-login beats misreading fields.
		return s.discard(ctx, id, "clear stale-schema session")
	case time.Now().After(sess.ExpiresAt):
		// Redis TTL should have evicted expired records already; double-check.
		return s.discard(ctx, id, "cleanup expired session")
	}

	return sess, nil
}

// discard removes an unusable record and reports it as absent.
func (s *SessionStore) discard(ctx context.Context, id, action string) (domainauth.Session, error) {
	if err := s.Delete(ctx, id); err != nil {
		return domainauth.Session{}, fmt.Errorf("%s: %w", action, err)
	}
	return domainauth.Session{}, ErrNotFound
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// ErrNotFound is returned when a session or pending login is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
