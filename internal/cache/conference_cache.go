package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hireflow/internal/model"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConferenceCache handles the Redis HASH of participants in a call
type ConferenceCache interface {
	SetParticipant(ctx context.Context, sessionID string, p *model.Participant) error
	GetParticipant(ctx context.Context, sessionID, participantID string) (*model.Participant, error)
	Participants(ctx context.Context, sessionID string) ([]*model.Participant, error)
	Clear(ctx context.Context, sessionID string) error
}

type conferenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewConferenceCache creates a new conference cache
func NewConferenceCache(client *redis.Client, ttl time.Duration) ConferenceCache {
	return &conferenceCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *conferenceCache) key(sessionID string) string {
	return fmt.Sprintf("call:%s:participants", sessionID)
}

func (c *conferenceCache) SetParticipant(ctx context.Context, sessionID string, p *model.Participant) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, c.key(sessionID), p.ID, data)
	pipe.Expire(ctx, c.key(sessionID), c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *conferenceCache) GetParticipant(ctx context.Context, sessionID, participantID string) (*model.Participant, error) {
	data, err := c.client.HGet(ctx, c.key(sessionID), participantID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p model.Participant
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *conferenceCache) Participants(ctx context.Context, sessionID string) ([]*model.Participant, error) {
	data, err := c.client.HGetAll(ctx, c.key(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*model.Participant, 0, len(data))
	for _, jsonStr := range data {
		var p model.Participant
		if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *conferenceCache) Clear(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.key(sessionID)).Err()
}
