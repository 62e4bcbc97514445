package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "oauth_state:"

// ErrInvalidState indicates an unknown or expired login state nonce.
var ErrInvalidState = errors.New("invalid or expired oauth state")

// StateStore issues and validates single-use OAuth state nonces.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	Validate(ctx context.Context, state string) error
}

type redisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateStore creates a Redis-backed state store.
func NewRedisStateStore(client *redis.Client, ttl time.Duration) StateStore {
	return &redisStateStore{client: client, ttl: ttl}
}

func (s *redisStateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.client.Set(ctx, stateKeyPrefix+state, "1", s.ttl).Err(); err != nil {
		return "", err
	}
	return state, nil
}

// Validate consumes the nonce so a state can be used at most once.
func (s *redisStateStore) Validate(ctx context.Context, state string) error {
	if state == "" {
		return ErrInvalidState
	}
	if err := s.client.GetDel(ctx, stateKeyPrefix+state).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidState
		}
		return err
	}
	return nil
}
