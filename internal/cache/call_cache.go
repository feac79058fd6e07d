package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hireflow/internal/callflow"
	"hireflow/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// CallSessionCache handles Redis operations for live applicant call sessions
type CallSessionCache interface {
	Set(ctx context.Context, s *callflow.Session) error
	Get(ctx context.Context, id string) (*callflow.Session, error)
	Delete(ctx context.Context, id string) error

	SetApplicant(ctx context.Context, sessionID string, a *model.Applicant) error
	GetApplicant(ctx context.Context, sessionID string) (*model.Applicant, error)
}

type callSessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCallSessionCache creates a new call session cache
func NewCallSessionCache(client *redis.Client, ttl time.Duration) CallSessionCache {
	return &callSessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *callSessionCache) key(id string) string {
	return fmt.Sprintf("call:%s", id)
}

func (c *callSessionCache) applicantKey(id string) string {
	return fmt.Sprintf("call:%s:applicant", id)
}

func (c *callSessionCache) Set(ctx context.Context, s *callflow.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(s.ID), data, c.ttl).Err()
}

func (c *callSessionCache) Get(ctx context.Context, id string) (*callflow.Session, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s callflow.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *callSessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id), c.applicantKey(id)).Err()
}

func (c *callSessionCache) SetApplicant(ctx context.Context, sessionID string, a *model.Applicant) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.applicantKey(sessionID), data, c.ttl).Err()
}

func (c *callSessionCache) GetApplicant(ctx context.Context, sessionID string) (*model.Applicant, error) {
	data, err := c.client.Get(ctx, c.applicantKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var a model.Applicant
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, err
	}
	return &a, nil
}
