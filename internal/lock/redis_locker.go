package lock

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	apperrors "task-tracker.com/task-tracker/internal/errors"
)

const token = "1"

// RedisLocker keeps a single token in a Redis list shared by every process
// using the same store. Holding the lock means having popped the token;
// releasing pushes it back. A busy lock fails at once instead of waiting.
type RedisLocker struct {
	client rueidis.Client
	key    string
}

func NewRedisLocker(client rueidis.Client, key string) *RedisLocker {
	return &RedisLocker{
		client: client,
		key:    key,
	}
}

func (r *RedisLocker) Acquire(ctx context.Context) error {
	got, err := r.client.Do(ctx, r.client.B().Lpop().Key(r.key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return apperrors.ErrStoreBusy
		}
		return fmt.Errorf("failed to acquire store lock %s: %w", r.key, err)
	}
	if got != token {
		return fmt.Errorf("store lock %s holds unexpected value %q", r.key, got)
	}
	return nil
}

// Release pushes the token back. It ignores cancellation of ctx so that a
// caller giving up halfway never takes the token with it.
func (r *RedisLocker) Release(ctx context.Context) error {
	cmd := r.client.B().Rpush().Key(r.key).Element(token).Build()
	if err := r.client.Do(context.WithoutCancel(ctx), cmd).Error(); err != nil {
		return fmt.Errorf("failed to release store lock %s: %w", r.key, err)
	}
	return nil
}

// Initialize resets the list to exactly one token in a single round trip.
func (r *RedisLocker) Initialize(ctx context.Context) error {
	results := r.client.DoMulti(ctx,
		r.client.B().Del().Key(r.key).Build(),
		r.client.B().Rpush().Key(r.key).Element(token).Build(),
	)
	for _, res := range results {
		if err := res.Error(); err != nil {
			return fmt.Errorf("failed to initialize store lock %s: %w", r.key, err)
		}
	}
	return nil
}
