package redisdb

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cartify/auth-service/internal/domain/repository"
)

const blacklistPrefix = "auth:blacklist:"

// RevocationList keeps blacklisted access tokens in Redis. Entries carry a
// TTL equal to the token's remaining natural life, so the list garbage
// collects itself once a token would have expired anyway.
type RevocationList struct {
	rdb *redis.Client
}

func NewRevocationList(rdb *redis.Client) *RevocationList {
	return &RevocationList{rdb: rdb}
}

func (l *RevocationList) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already past natural expiry; the middleware rejects it on its own.
		return nil
	}
	return l.rdb.Set(ctx, blacklistPrefix+token, "1", ttl).Err()
}

func (l *RevocationList) Contains(ctx context.Context, token string) (bool, error) {
	_, err := l.rdb.Get(ctx, blacklistPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var _ repository.RevocationList = (*RevocationList)(nil)
