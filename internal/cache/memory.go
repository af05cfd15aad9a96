package cache

import (
	"context"
	"sync"
	"time"

	"github.com/lshigami/mbti-compass/internal/model"
)

// MemoryQuestionCache keeps the question list in process memory with a TTL.
// A zero TTL disables caching.
type MemoryQuestionCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	questions []model.Question
	expiresAt time.Time
	now       func() time.Time
}

func NewMemoryQuestionCache(ttl time.Duration) *MemoryQuestionCache {
	return &MemoryQuestionCache{ttl: ttl, now: time.Now}
}

func (c *MemoryQuestionCache) Get(_ context.Context) ([]model.Question, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.questions == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	return cloneQuestions(c.questions), true, nil
}

func (c *MemoryQuestionCache) Set(_ context.Context, questions []model.Question) error {
	if c.ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.questions = cloneQuestions(questions)
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

func (c *MemoryQuestionCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.questions = nil
	c.expiresAt = time.Time{}
	return nil
}
