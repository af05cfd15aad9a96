package repository

import (
	"context"

	"github.com/lshigami/mbti-compass/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TestResultRepository interface {
	Create(ctx context.Context, result *model.TestResult) error
	FindByID(ctx context.Context, id uint) (*model.TestResult, error)
	// FindAllByUser lists results newest first.
	FindAllByUser(ctx context.Context, userID uint) ([]model.TestResult, error)
	FindLatestByUser(ctx context.Context, userID uint) (*model.TestResult, error)
}

type testResultRepository struct {
	db *gorm.DB
}

func NewTestResultRepository(db *gorm.DB) TestResultRepository {
	return &testResultRepository{db: db}
}

func (r *testResultRepository) Create(ctx context.Context, result *model.TestResult) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(result).Error)
}

func (r *testResultRepository) FindByID(ctx context.Context, id uint) (*model.TestResult, error) {
	var result model.TestResult
	if err := r.db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, translate(err)
	}
	return &result, nil
}

func (r *testResultRepository) FindAllByUser(ctx context.Context, userID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Order("id DESC").
		Find(&results).Error
	return results, err
}

func (r *testResultRepository) FindLatestByUser(ctx context.Context, userID uint) (*model.TestResult, error) {
	var result model.TestResult
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Order("id DESC").
		First(&result).Error
	if err != nil {
		return nil, translate(err)
	}
	return &result, nil
}
