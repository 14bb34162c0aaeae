package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Memory struct {
	mu      sync.Mutex
	read    map[uuid.UUID]map[string]struct{}
	revoked map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{
		read:    make(map[uuid.UUID]map[string]struct{}),
		revoked: make(map[string]time.Time),
	}
}

func (c *Memory) AddReadMark(_ context.Context, userID uuid.UUID, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.read[userID] == nil {
		c.read[userID] = make(map[string]struct{})
	}
	c.read[userID][itemID] = struct{}{}
	return nil
}

func (c *Memory) ReadMarks(_ context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]struct{}, len(c.read[userID]))
	for id := range c.read[userID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (c *Memory) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, exp := range c.revoked {
		if now.After(exp) {
			delete(c.revoked, id)
		}
	}
	c.revoked[jti] = now.Add(ttl)
	return nil
}

func (c *Memory) IsRevoked(_ context.Context, jti string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	exp, ok := c.revoked[jti]
	return ok && time.Now().Before(exp), nil
}
