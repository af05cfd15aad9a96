package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/mbti-compass/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TestSessionRepository interface {
	Create(ctx context.Context, session *model.TestSession) error
	Update(ctx context.Context, session *model.TestSession) error
	FindByID(ctx context.Context, id uint) (*model.TestSession, error)
	// FindLatestInProgress returns the most recently updated in-progress session of the user.
	FindLatestInProgress(ctx context.Context, userID uint) (*model.TestSession, error)
	// CancelInProgress moves every in-progress session of the user to cancelled.
	CancelInProgress(ctx context.Context, userID uint, at time.Time) (int64, error)
	// CompleteWithResult inserts the result and saves the session pointing at it atomically.
	CompleteWithResult(ctx context.Context, session *model.TestSession, result *model.TestResult) error
}

type testSessionRepository struct {
	db *gorm.DB
}

func NewTestSessionRepository(db *gorm.DB) TestSessionRepository {
	return &testSessionRepository{db: db}
}

func (r *testSessionRepository) Create(ctx context.Context, session *model.TestSession) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(session).Error)
}

func (r *testSessionRepository) Update(ctx context.Context, session *model.TestSession) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(session).Error)
}

func (r *testSessionRepository) FindByID(ctx context.Context, id uint) (*model.TestSession, error) {
	var session model.TestSession
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *testSessionRepository) FindLatestInProgress(ctx context.Context, userID uint) (*model.TestSession, error) {
	var session model.TestSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.SessionInProgress).
		Order("updated_at DESC").
		Order("id DESC").
		First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *testSessionRepository) CancelInProgress(ctx context.Context, userID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.TestSession{}).
		Where("user_id = ? AND status = ?", userID, model.SessionInProgress).
		Updates(map[string]any{
			"status":     model.SessionCancelled,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *testSessionRepository) CompleteWithResult(ctx context.Context, session *model.TestSession, result *model.TestResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result.SessionID = &session.ID
		if err := tx.Omit(clause.Associations).Create(result).Error; err != nil {
			return fmt.Errorf("create test result: %w", translate(err))
		}
		session.TestResultID = &result.ID
		if err := tx.Omit(clause.Associations).Save(session).Error; err != nil {
			return fmt.Errorf("save completed session: %w", translate(err))
		}
		return nil
	})
}
