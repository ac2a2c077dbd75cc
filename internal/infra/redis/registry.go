package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefixes of the two registries the bot keeps.
const (
	QuizSessionPrefix    = "ent:quiz:session:"
	ScheduleWizardPrefix = "ent:schedule:wizard:"
)

// Registry stores one JSON value per id under prefix+id, refreshing the TTL on every Put.
// Each call is a single Redis command, so it is atomic per key.
type Registry[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRegistry[T any](client *redis.Client, prefix string, ttl time.Duration) *Registry[T] {
	return &Registry[T]{client: client, prefix: prefix, ttl: ttl}
}

func (r *Registry[T]) Put(ctx context.Context, id int64, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s%d: %w", r.prefix, id, err)
	}
	return r.client.Set(ctx, r.key(id), data, r.ttl).Err()
}

func (r *Registry[T]) Get(ctx context.Context, id int64) (T, bool, error) {
	var value T
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("decode %s%d: %w", r.prefix, id, err)
	}
	return value, true, nil
}

func (r *Registry[T]) Remove(ctx context.Context, id int64) error {
	return r.client.Del(ctx, r.key(id)).Err()
}

func (r *Registry[T]) key(id int64) string {
	return r.prefix + strconv.FormatInt(id, 10)
}
