// Package cache holds read-through caches for the question bank.
package cache

import (
	"context"

	"github.com/lshigami/mbti-compass/internal/model"
)

// QuestionCache stores the ordered question list. A miss is reported as
// (nil, false, nil); errors are reserved for backend failures.
type QuestionCache interface {
	Get(ctx context.Context) ([]model.Question, bool, error)
	Set(ctx context.Context, questions []model.Question) error
	Invalidate(ctx context.Context) error
}

func cloneQuestions(questions []model.Question) []model.Question {
	return append([]model.Question(nil), questions...)
}
