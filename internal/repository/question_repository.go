package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/mbti-compass/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindAllOrdered(ctx context.Context) ([]model.Question, error)
	// Sync inserts and updates the given rows in one transaction. Rows are never deleted.
	Sync(ctx context.Context, inserts, updates []model.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindAllOrdered(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Sync(ctx context.Context, inserts, updates []model.Question) error {
	if len(inserts) == 0 && len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range inserts {
			if err := tx.Create(&inserts[i]).Error; err != nil {
				return fmt.Errorf("insert question %d: %w", inserts[i].ID, translate(err))
			}
		}
		now := time.Now().UTC()
		for _, q := range updates {
			res := tx.Model(&model.Question{}).Where("id = ?", q.ID).Updates(map[string]any{
				"text":       q.Text,
				"dimension":  q.Dimension,
				"trait_high": q.TraitHigh,
				"trait_low":  q.TraitLow,
				"updated_at": now,
			})
			if res.Error != nil {
				return fmt.Errorf("update question %d: %w", q.ID, res.Error)
			}
		}
		return nil
	})
}
