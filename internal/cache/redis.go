// Package cache keeps a read-through copy of conversation rows in redis
// so repeated GetByID lookups skip the store. Best effort: a cold or
// unreachable redis only costs the extra store read.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"

	"github.com/yourorg/chat-app/services/messenger-service/internal/models"
)

type ConversationCache struct {
	cli *redis.Client
	ttl time.Duration
}

func NewConversationCache(cli *redis.Client, ttl time.Duration) *ConversationCache {
	return &ConversationCache{cli: cli, ttl: ttl}
}

func (c *ConversationCache) Get(ctx context.Context, id gocql.UUID) (*models.Conversation, bool) {
	raw, err := c.cli.Get(ctx, key(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var conv models.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil, false
	}
	return &conv, true
}

func (c *ConversationCache) Set(ctx context.Context, conv *models.Conversation) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return c.cli.Set(ctx, key(conv.ID), raw, c.ttl).Err()
}

// Invalidate drops the cached row; called after every summary change.
func (c *ConversationCache) Invalidate(ctx context.Context, id gocql.UUID) error {
	return c.cli.Del(ctx, key(id)).Err()
}

func key(id gocql.UUID) string {
	return "conversation:" + id.String()
}
