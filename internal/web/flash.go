package web

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	FlashSuccess = "success"
	FlashError   = "danger"
)

// Flash is a one-time message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func Success(msg string) Flash { return Flash{Category: FlashSuccess, Message: msg} }
func Failure(msg string) Flash { return Flash{Category: FlashError, Message: msg} }

// FlashStore carries flashes across a redirect, keyed by session id.
type FlashStore interface {
	Push(ctx context.Context, session string, flashes ...Flash) error
	Pop(ctx context.Context, session string) ([]Flash, error)
}

type RedisFlashStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisFlashStore(client *redis.Client, ttl time.Duration) *RedisFlashStore {
	return &RedisFlashStore{client: client, ttl: ttl}
}

func flashKey(session string) string {
	return "flash:" + session
}

func (s *RedisFlashStore) Push(ctx context.Context, session string, flashes ...Flash) error {
	if len(flashes) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(flashes))
	for _, f := range flashes {
		b, err := json.Marshal(f)
		if err != nil {
			return err
		}
		values = append(values, b)
	}

	key := flashKey(session)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push flashes: %w", err)
	}
	return nil
}

func (s *RedisFlashStore) Pop(ctx context.Context, session string) ([]Flash, error) {
	key := flashKey(session)

	var lrange *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("pop flashes: %w", err)
	}

	var flashes []Flash
	for _, raw := range lrange.Val() {
		var f Flash
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}

// MemoryFlashStore is the single-process store used when Redis is disabled.
type MemoryFlashStore struct {
	mu      sync.Mutex
	pending map[string][]Flash
}

func NewMemoryFlashStore() *MemoryFlashStore {
	return &MemoryFlashStore{pending: make(map[string][]Flash)}
}

func (s *MemoryFlashStore) Push(_ context.Context, session string, flashes ...Flash) error {
	if len(flashes) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[session] = append(s.pending[session], flashes...)
	return nil
}

func (s *MemoryFlashStore) Pop(_ context.Context, session string) ([]Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	flashes := s.pending[session]
	delete(s.pending, session)
	return flashes, nil
}
