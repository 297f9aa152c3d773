package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appErrors "github.com/unclebandit/influencer-outreach/internal/errors"
)

type Store interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id uuid.UUID) (*Run, error)
}

// MemoryStore keeps runs for the life of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*Run
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[uuid.UUID]*Run)}
}

func (s *MemoryStore) Save(_ context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run.clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, appErrors.NewRunNotFound(id)
	}
	return run.clone(), nil
}

// RedisStore shares runs between the API and worker processes.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func runKey(id uuid.UUID) string { return "outreach:run:" + id.String() }

func (s *RedisStore) Save(ctx context.Context, run *Run) error {
	buf, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	if err := s.client.Set(ctx, runKey(run.ID), buf, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis save run: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	buf, err := s.client.Get(ctx, runKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.NewRunNotFound(id)
		}
		return nil, fmt.Errorf("redis get run: %w", err)
	}
	var run Run
	if err := json.Unmarshal(buf, &run); err != nil {
		return nil, fmt.Errorf("decode run: %w", err)
	}
	return &run, nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
