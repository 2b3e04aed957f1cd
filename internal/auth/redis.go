package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisSessions keeps live token ids in Redis so that several API instances
// share revocations. Keys expire with the session.
type RedisSessions struct {
	client *redis.Client
}

// NewRedisSessions wraps an existing client. The caller owns the client.
func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

// ConnectRedis opens a client for addr and checks it with PING.
func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("auth.ConnectRedis: ping: %w", err)
	}
	return client, nil
}

func sessionKey(tokenID string) string {
	return sessionKeyPrefix + tokenID
}

func (r *RedisSessions) Save(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	if err := r.client.Set(ctx, sessionKey(tokenID), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("auth.RedisSessions.Save: %w", err)
	}
	return nil
}

func (r *RedisSessions) Lookup(ctx context.Context, tokenID string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, sessionKey(tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrSessionUnknown
		}
		return uuid.Nil, fmt.Errorf("auth.RedisSessions.Lookup: %w", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.RedisSessions.Lookup: corrupt value: %w", err)
	}
	return id, nil
}

func (r *RedisSessions) Delete(ctx context.Context, tokenID string) error {
	if err := r.client.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("auth.RedisSessions.Delete: %w", err)
	}
	return nil
}

var _ SessionStore = (*RedisSessions)(nil)
