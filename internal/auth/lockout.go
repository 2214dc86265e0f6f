package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LockoutTTL       = 15 * time.Minute
	LockoutThreshold = 5
)

// Lockout tracks failed login attempts per email and locks an account out
// for LockoutTTL once LockoutThreshold is reached. Grounded on the
// teacher's internal/session.Manager lockout counters, with the tenant
// dimension dropped from the key.
type Lockout struct {
	client *redis.Client
}

func NewLockout(client *redis.Client) *Lockout {
	return &Lockout{client: client}
}

func (l *Lockout) CheckLockout(ctx context.Context, email string) (bool, error) {
	key := fmt.Sprintf("auth:lockout:%s", email)
	val, err := l.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "locked", nil
}

// RecordFailedAttempt increments the failure counter for email and locks
// the account once LockoutThreshold is reached within LockoutTTL.
func (l *Lockout) RecordFailedAttempt(ctx context.Context, email string) error {
	key := fmt.Sprintf("auth:lockout_count:%s", email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		l.client.Expire(ctx, key, LockoutTTL)
	}
	if count >= LockoutThreshold {
		lockKey := fmt.Sprintf("auth:lockout:%s", email)
		l.client.Set(ctx, lockKey, "locked", LockoutTTL)
		l.client.Del(ctx, key)
	}
	return nil
}

func (l *Lockout) ClearAttempts(ctx context.Context, email string) error {
	return l.client.Del(ctx, fmt.Sprintf("auth:lockout_count:%s", email)).Err()
}
