package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"ent-bot/internal/domain"
	"ent-bot/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionBank caches question pools in Redis as JSON and falls back to a loader on cache miss.
// Pools are stored as: SET ent:questions:{subject}:{language} [...questions]
type QuestionBank struct {
	client *redis.Client
	loader memory.PoolLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionBank(client *redis.Client, loader memory.PoolLoader, ttl time.Duration) *QuestionBank {
	return &QuestionBank{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *QuestionBank) FetchQuestions(ctx context.Context, subject, language string, limit int) ([]domain.Question, error) {
	pool, err := b.pool(ctx, subject, language)
	if err != nil {
		return nil, err
	}
	return domain.SampleQuestions(pool, limit), nil
}

// Invalidate drops a cached pool.
func (b *QuestionBank) Invalidate(ctx context.Context, subject, language string) error {
	return b.client.Del(ctx, b.key(subject, language)).Err()
}

func (b *QuestionBank) pool(ctx context.Context, subject, language string) ([]domain.Question, error) {
	key := b.key(subject, language)
	if pool, ok := b.cached(ctx, key); ok {
		return pool, nil
	}

	result, err, _ := b.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if pool, ok := b.cached(ctx, key); ok {
			return pool, nil
		}

		pool, err := b.loader.LoadPool(ctx, subject, language)
		if err != nil {
			return nil, err
		}
		if len(pool) > 0 {
			if data, err := json.Marshal(pool); err == nil {
				// best-effort: a failed write only costs another load
				_ = b.client.Set(ctx, key, data, b.ttlWithJitter()).Err()
			}
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (b *QuestionBank) cached(ctx context.Context, key string) ([]domain.Question, bool) {
	data, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var pool []domain.Question
	if err := json.Unmarshal(data, &pool); err != nil || len(pool) == 0 {
		return nil, false
	}
	return pool, true
}

func (b *QuestionBank) key(subject, language string) string {
	return "ent:questions:" + memory.PoolKey(subject, language)
}

func (b *QuestionBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	jitterMax := int64(b.ttl) / 10
	b.rndMu.Lock()
	defer b.rndMu.Unlock()
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}
