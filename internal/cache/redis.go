// Package cache holds small per-user sets and revoked token ids, in Redis or in memory.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (c *Redis) readKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:read:%s", c.prefix, userID)
}

func (c *Redis) revokedKey(jti string) string {
	return fmt.Sprintf("%s:revoked:%s", c.prefix, jti)
}

func (c *Redis) AddReadMark(ctx context.Context, userID uuid.UUID, itemID string) error {
	return c.client.SAdd(ctx, c.readKey(userID), itemID).Err()
}

func (c *Redis) ReadMarks(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	members, err := c.client.SMembers(ctx, c.readKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(members))
	for _, m := range members {
		out[m] = struct{}{}
	}
	return out, nil
}

func (c *Redis) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, c.revokedKey(jti), 1, ttl).Err()
}

func (c *Redis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := c.client.Exists(ctx, c.revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
