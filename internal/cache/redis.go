package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/mbti-compass/internal/model"
	"github.com/redis/go-redis/v9"
)

const questionsKey = "mbti:questions:ordered"

// RedisQuestionCache shares the question list between processes as a JSON blob.
type RedisQuestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisQuestionCache builds a cache on its own client. Close releases it.
func NewRedisQuestionCache(addr, password string, ttl time.Duration) (*RedisQuestionCache, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}
	return &RedisQuestionCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}, nil
}

func (c *RedisQuestionCache) Get(ctx context.Context) ([]model.Question, bool, error) {
	raw, err := c.client.Get(ctx, questionsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get questions: %w", err)
	}
	var questions []model.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, false, fmt.Errorf("decode cached questions: %w", err)
	}
	return questions, true, nil
}

func (c *RedisQuestionCache) Set(ctx context.Context, questions []model.Question) error {
	if c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	if err := c.client.Set(ctx, questionsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set questions: %w", err)
	}
	return nil
}

func (c *RedisQuestionCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, questionsKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis del questions: %w", err)
	}
	return nil
}

// Ping checks the connection, used at startup.
func (c *RedisQuestionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisQuestionCache) Close() error {
	return c.client.Close()
}
