package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Liveness is a cross-process camera-state registry, supplementing the
// in-process State() getter: any server instance can answer "what state is
// camera X in" without talking to the instance actually running it. It
// follows the same session-key-with-TTL idiom as the teacher's
// internal/live package (live:sess:*), scoped to camera state here.
type Liveness struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLiveness(rdb *redis.Client, ttl time.Duration) *Liveness {
	return &Liveness{rdb: rdb, ttl: ttl}
}

func livenessKey(cameraID string) string { return "live:camera:" + cameraID }

func (l *Liveness) Set(ctx context.Context, cameraID string, state State) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Set(ctx, livenessKey(cameraID), string(state), l.ttl).Err()
}

// Get returns the last recorded state for cameraID, and false if nothing
// is recorded or it expired.
func (l *Liveness) Get(ctx context.Context, cameraID string) (State, bool, error) {
	if l == nil || l.rdb == nil {
		return "", false, nil
	}
	val, err := l.rdb.Get(ctx, livenessKey(cameraID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("worker: liveness get: %w", err)
	}
	return State(val), true, nil
}
