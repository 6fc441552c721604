package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hirespherex/portal-api/internal/ports"
	"github.com/redis/go-redis/v9"
)

// pendingLoginTTL bounds how long a multi-role user has to pick a role after
// authenticating before the pending login lapses.
const pendingLoginTTL = 5 * time.Minute

// PendingLoginStore holds pending role selections keyed by opaque token.
type PendingLoginStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewPendingLoginStore creates a pending-login store with the default
// "pending-login:" prefix and a 5 minute TTL.
func NewPendingLoginStore(client redis.UniversalClient) *PendingLoginStore {
	return &PendingLoginStore{client: client, prefix: "pending-login:", ttl: pendingLoginTTL}
}

func (s *PendingLoginStore) Save(ctx context.Context, p ports.PendingLogin) error {
	if p.Token == "" {
		return errors.New("pending login token cannot be empty")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending login: %w", err)
	}

	return s.client.Set(ctx, s.prefix+p.Token, data, s.ttl).Err()
}

func (s *PendingLoginStore) Get(ctx context.Context, token string) (ports.PendingLogin, error) {
	if token == "" {
		return ports.PendingLogin{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.PendingLogin{}, ErrNotFound
		}
		return ports.PendingLogin{}, fmt.Errorf("redis get: %w", err)
	}

	var p ports.PendingLogin
	if unmarshalErr := json.Unmarshal([]byte(data), &p); unmarshalErr != nil {
		if deleteErr := s.Delete(ctx, token); deleteErr != nil {
			return ports.PendingLogin{}, fmt.Errorf("clear corrupt pending login: %w", deleteErr)
		}
		return ports.PendingLogin{}, ErrNotFound
	}

	return p, nil
}

func (s *PendingLoginStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+token).Err()
}
