package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist lets a logout revoke one token's jti before its natural
// expiry. There is no tenant dimension here (single-operator model).
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type RedisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (r *RedisBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	key := fmt.Sprintf("auth:blacklist:%s", jti)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (r *RedisBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	key := fmt.Sprintf("auth:blacklist:%s", jti)
	return r.client.Set(ctx, key, "revoked", ttl).Err()
}
