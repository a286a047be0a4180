package assistant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const chatContextPrefix = "chat:ctx:"

// ConversationState is the per-conversation assistant memory. LockedSlotID
// non-empty means the conversation is pinned to one slot and matching is
// suppressed until an explicit unlock.
type ConversationState struct {
	LockedSlotID  string   `json:"lockedSlotId,omitempty"`
	LastShortlist []string `json:"lastShortlist,omitempty"` // slot IDs of the most recent match
	LastDegraded  bool     `json:"lastDegraded,omitempty"`
	Unbound       bool     `json:"unbound,omitempty"` // the user explicitly left the conversation's booked appointment
}

func (s *ConversationState) Locked() bool {
	return s.LockedSlotID != ""
}

// ContextStore persists per-conversation assistant state.
type ContextStore interface {
	Get(ctx context.Context, conversationID string) (*ConversationState, error)
	Set(ctx context.Context, conversationID string, state *ConversationState) error
	Clear(ctx context.Context, conversationID string) error
}

type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, conversationID string) (*ConversationState, error) {
	key := chatContextPrefix + conversationID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &ConversationState{}, nil
	}
	if err != nil {
		return nil, err
	}
	var state ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RedisContextStore) Set(ctx context.Context, conversationID string, state *ConversationState) error {
	key := chatContextPrefix + conversationID
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, conversationID string) error {
	key := chatContextPrefix + conversationID
	return s.client.Del(ctx, key).Err()
}
