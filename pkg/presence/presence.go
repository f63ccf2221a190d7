package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "presence:"

// Tracker keeps short-lived online markers in Redis. All methods are
// nil-safe: without a Redis client every user reads as offline here and
// callers fall back to the stored last_seen columns.
type Tracker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTracker creates a presence tracker. client may be nil.
func NewTracker(client *redis.Client, ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Tracker{client: client, ttl: ttl}
}

// Available reports whether a Redis backend is wired
func (t *Tracker) Available() bool {
	return t != nil && t.client != nil
}

// Touch refreshes the online marker for a user
func (t *Tracker) Touch(ctx context.Context, userID uint64) error {
	if !t.Available() {
		return nil
	}
	return t.client.Set(ctx, key(userID), 1, t.ttl).Err()
}

// OnlineSet returns the subset of userIDs with a live marker
func (t *Tracker) OnlineSet(ctx context.Context, userIDs []uint64) (map[uint64]bool, error) {
	online := make(map[uint64]bool, len(userIDs))
	if !t.Available() || len(userIDs) == 0 {
		return online, nil
	}

	pipe := t.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(userIDs))
	for i, id := range userIDs {
		cmds[i] = pipe.Exists(ctx, key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	for i, id := range userIDs {
		online[id] = cmds[i].Val() > 0
	}
	return online, nil
}

func key(userID uint64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}
