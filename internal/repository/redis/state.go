package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"starsbot/internal/domain"

	"github.com/redis/go-redis/v9"
)

// stateTTL bounds how long an unanswered custom amount prompt survives
const stateTTL = 24 * time.Hour

// StateRepo keeps conversation state in Redis so it survives restarts
type StateRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateRepo creates a new redis-backed state store
func NewStateRepo(client *redis.Client) *StateRepo {
	return &StateRepo{
		client: client,
		ttl:    stateTTL,
	}
}

func stateKey(userID int64) string {
	return fmt.Sprintf("conversation:%d:state", userID)
}

// Get returns user's current state, idle when no key exists
func (r *StateRepo) Get(ctx context.Context, userID int64) (domain.UserState, error) {
	value, err := r.client.Get(ctx, stateKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.StateIdle, nil
	}
	if err != nil {
		return domain.StateIdle, fmt.Errorf("get state for user %d: %w", userID, err)
	}
	return domain.UserState(value), nil
}

// Set stores user's state with TTL
func (r *StateRepo) Set(ctx context.Context, userID int64, state domain.UserState) error {
	if state == domain.StateIdle {
		return r.Reset(ctx, userID)
	}
	if err := r.client.Set(ctx, stateKey(userID), string(state), r.ttl).Err(); err != nil {
		return fmt.Errorf("set state for user %d: %w", userID, err)
	}
	return nil
}

// Reset removes user's state
func (r *StateRepo) Reset(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, stateKey(userID)).Err(); err != nil {
		return fmt.Errorf("reset state for user %d: %w", userID, err)
	}
	return nil
}
