package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/utils"
)

// ConnectState is the payload bound to one pending authorization attempt
type ConnectState struct {
	CustomerID uint            `json:"customer_id"`
	Platform   models.Platform `json:"platform"`
	CreatedAt  time.Time       `json:"created_at"`
}

// StateStore holds short-lived state tokens for in-flight authorization
// attempts. Take is strictly single-use: the first call consumes the token
// and every later call misses, expired entries included.
type StateStore interface {
	Put(ctx context.Context, token string, state ConnectState, ttl time.Duration) error
	Take(ctx context.Context, token string) (*ConnectState, bool, error)
}

// RedisStateStore keeps state tokens in Redis under a key prefix, with the
// TTL enforced by SETEX and single-use reads by GETDEL.
type RedisStateStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStateStore creates a Redis-backed state store
func NewRedisStateStore(client *redis.Client, prefix string) *RedisStateStore {
	if prefix == "" {
		prefix = "oauth_state"
	}
	return &RedisStateStore{client: client, prefix: prefix}
}

func (s *RedisStateStore) key(token string) string {
	return fmt.Sprintf("%s:%s", s.prefix, token)
}

func (s *RedisStateStore) Put(ctx context.Context, token string, state ConnectState, ttl time.Duration) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := s.client.SetEx(ctx, s.key(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state token: %w", err)
	}

	return nil
}

func (s *RedisStateStore) Take(ctx context.Context, token string) (*ConnectState, bool, error) {
	payload, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to take state token: %w", err)
	}

	var state ConnectState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	return &state, true, nil
}

type memoryStateEntry struct {
	state     ConnectState
	expiresAt time.Time
}

// MemoryStateStore is an in-process state store for single-instance
// deployments and tests. Expiry is checked on read.
type MemoryStateStore struct {
	mu      sync.Mutex
	entries map[string]memoryStateEntry
}

// NewMemoryStateStore creates an in-memory state store
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		entries: make(map[string]memoryStateEntry),
	}
}

func (s *MemoryStateStore) Put(_ context.Context, token string, state ConnectState, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[token] = memoryStateEntry{
		state:     state,
		expiresAt: utils.UTCNow().Add(ttl),
	}

	return nil
}

func (s *MemoryStateStore) Take(_ context.Context, token string) (*ConnectState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return nil, false, nil
	}
	delete(s.entries, token)

	if utils.UTCNow().After(entry.expiresAt) {
		return nil, false, nil
	}

	return &entry.state, true, nil
}
