package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"ent-bot/internal/domain"
	"golang.org/x/sync/singleflight"
)

// PoolLoader fetches every question of a subject in one language from a backing store.
type PoolLoader interface {
	LoadPool(ctx context.Context, subject, language string) ([]domain.Question, error)
}

// QuestionBank caches question pools with TTL and samples a random subset per request.
type QuestionBank struct {
	loader PoolLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedPool
}

type cachedPool struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionBank(loader PoolLoader, ttl time.Duration) *QuestionBank {
	return &QuestionBank{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPool),
	}
}

func (b *QuestionBank) FetchQuestions(ctx context.Context, subject, language string, limit int) ([]domain.Question, error) {
	pool, err := b.pool(ctx, subject, language)
	if err != nil {
		return nil, err
	}
	return domain.SampleQuestions(pool, limit), nil
}

// Invalidate drops a cached pool, e.g. after seeding new questions.
func (b *QuestionBank) Invalidate(subject, language string) {
	b.mu.Lock()
	delete(b.cache, PoolKey(subject, language))
	b.mu.Unlock()
}

func (b *QuestionBank) pool(ctx context.Context, subject, language string) ([]domain.Question, error) {
	key := PoolKey(subject, language)
	now := b.clock()

	b.mu.RLock()
	if entry, ok := b.cache[key]; ok && entry.expiresAt.After(now) {
		b.mu.RUnlock()
		return entry.questions, nil
	}
	b.mu.RUnlock()

	result, err, _ := b.sf.Do(key, func() (interface{}, error) {
		now := b.clock()
		b.mu.RLock()
		if entry, ok := b.cache[key]; ok && entry.expiresAt.After(now) {
			b.mu.RUnlock()
			return entry.questions, nil
		}
		b.mu.RUnlock()

		questions, err := b.loader.LoadPool(ctx, subject, language)
		if err != nil {
			return nil, err
		}
		// An empty pool is not cached so that freshly seeded questions show up at once.
		if len(questions) > 0 && b.ttl > 0 {
			b.mu.Lock()
			b.cache[key] = cachedPool{questions: questions, expiresAt: now.Add(b.ttlWithJitter())}
			b.mu.Unlock()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (b *QuestionBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(b.ttl) / 10
	b.rndMu.Lock()
	defer b.rndMu.Unlock()
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}

// PoolKey names a subject/language pool.
func PoolKey(subject, language string) string {
	return subject + ":" + language
}

// StaticLoader serves pools from a fixed slice (demos, tests and the memory backend).
type StaticLoader struct {
	mu        sync.RWMutex
	questions []domain.Question
}

func NewStaticLoader(questions []domain.Question) *StaticLoader {
	return &StaticLoader{questions: questions}
}

func (l *StaticLoader) LoadPool(_ context.Context, subject, language string) ([]domain.Question, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var pool []domain.Question
	for _, q := range l.questions {
		if q.Subject == subject && q.Language == language {
			pool = append(pool, q)
		}
	}
	return pool, nil
}

// Add appends questions, assigning ids above the highest known one to those without one.
func (l *StaticLoader) Add(questions ...domain.Question) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var max int64
	for _, q := range l.questions {
		if q.ID > max {
			max = q.ID
		}
	}
	for _, q := range questions {
		if q.ID > max {
			max = q.ID
		}
	}
	for _, q := range questions {
		if q.ID == 0 {
			max++
			q.ID = max
		}
		l.questions = append(l.questions, q)
	}
}
