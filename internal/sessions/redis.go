package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pavelanni/scanner/internal/quiz"
)

// RedisStore keeps snapshots in Redis so several server instances behind a
// load balancer can serve the same browser.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a Redis-backed Repository. Every save refreshes the TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Load implements Repository.
func (s *RedisStore) Load(ctx context.Context, id string) (quiz.State, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return quiz.State{}, ErrNotFound
	}
	if err != nil {
		return quiz.State{}, err
	}
	var st quiz.State
	if err := json.Unmarshal(data, &st); err != nil {
		return quiz.State{}, err
	}
	return st, nil
}

// Save implements Repository.
func (s *RedisStore) Save(ctx context.Context, id string, st quiz.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(id), data, s.ttl).Err()
}

// Delete implements Repository.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *RedisStore) key(id string) string {
	return "scanner:session:" + id
}
