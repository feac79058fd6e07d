package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hireflow/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// WizardCache handles Redis operations for in-progress creation wizards
type WizardCache interface {
	Save(ctx context.Context, ws *model.WizardSession) error
	Get(ctx context.Context, id string) (*model.WizardSession, error)
	Delete(ctx context.Context, id string) error
	// AcquireSubmitLock returns false when another submission holds the lock
	AcquireSubmitLock(ctx context.Context, id string) (bool, error)
	ReleaseSubmitLock(ctx context.Context, id string) error
}

type wizardCache struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewWizardCache creates a new wizard cache. Abandoned wizards expire after ttl.
func NewWizardCache(client *redis.Client, ttl time.Duration) WizardCache {
	return &wizardCache{
		client:  client,
		ttl:     ttl,
		lockTTL: 30 * time.Second, // longer than any submit should take
	}
}

func (c *wizardCache) key(id string) string {
	return fmt.Sprintf("wizard:%s", id)
}

func (c *wizardCache) lockKey(id string) string {
	return fmt.Sprintf("wizard:%s:submit", id)
}

func (c *wizardCache) Save(ctx context.Context, ws *model.WizardSession) error {
	data, err := json.Marshal(ws)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(ws.ID), data, c.ttl).Err()
}

func (c *wizardCache) Get(ctx context.Context, id string) (*model.WizardSession, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ws model.WizardSession
	if err := json.Unmarshal([]byte(data), &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

func (c *wizardCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id), c.lockKey(id)).Err()
}

func (c *wizardCache) AcquireSubmitLock(ctx context.Context, id string) (bool, error) {
	return c.client.SetNX(ctx, c.lockKey(id), 1, c.lockTTL).Result()
}

func (c *wizardCache) ReleaseSubmitLock(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.lockKey(id)).Err()
}
