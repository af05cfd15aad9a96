package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/lshigami/mbti-compass/internal/cache"
	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/model"
	"github.com/lshigami/mbti-compass/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

type QuestionBankService interface {
	// Reconcile brings stored questions in line with the canonical catalog.
	// Missing rows are inserted and drifted rows overwritten; nothing is deleted.
	Reconcile(ctx context.Context) (bool, error)
	// Ordered returns the bank ordered by id, served from cache when possible.
	Ordered(ctx context.Context) ([]model.Question, error)
	ListQuestions(ctx context.Context) ([]dto.QuestionResponse, error)
	// ListStored reads the bank straight from storage.
	ListStored(ctx context.Context) ([]dto.QuestionResponse, error)
}

type questionBankService struct {
	repo    repository.QuestionRepository
	cache   cache.QuestionCache
	catalog []model.Question

	reconcileMu sync.Mutex
	loads       singleflight.Group
}

func NewQuestionBankService(repo repository.QuestionRepository, qc cache.QuestionCache) QuestionBankService {
	return newQuestionBank(repo, qc, CanonicalQuestions())
}

func newQuestionBank(repo repository.QuestionRepository, qc cache.QuestionCache, catalog []model.Question) *questionBankService {
	return &questionBankService{repo: repo, cache: qc, catalog: catalog}
}

func (s *questionBankService) Reconcile(ctx context.Context) (bool, error) {
	s.reconcileMu.Lock()
	defer s.reconcileMu.Unlock()

	changed, err := s.reconcileOnce(ctx)
	if errors.Is(err, repository.ErrDuplicateKey) {
		// Another process inserted the same rows first; the second pass sees them.
		log.Warn().Err(err).Msg("Question reconcile raced with another writer, retrying")
		changed, err = s.reconcileOnce(ctx)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to reconcile question bank")
		return false, fmt.Errorf("reconcile question bank: %w", err)
	}
	if changed {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate question cache")
		}
	}
	return changed, nil
}

func (s *questionBankService) reconcileOnce(ctx context.Context) (bool, error) {
	stored, err := s.repo.FindAllOrdered(ctx)
	if err != nil {
		return false, err
	}
	byID := indexQuestions(stored)

	var inserts, updates []model.Question
	for _, ref := range s.catalog {
		current, ok := byID[ref.ID]
		switch {
		case !ok:
			inserts = append(inserts, ref)
		case !current.SameContent(ref):
			updates = append(updates, ref)
		}
	}
	if len(inserts) == 0 && len(updates) == 0 {
		return false, nil
	}
	if err := s.repo.Sync(ctx, inserts, updates); err != nil {
		return false, err
	}
	log.Info().Int("inserted", len(inserts)).Int("updated", len(updates)).Msg("Question bank reconciled")
	return true, nil
}

func (s *questionBankService) Ordered(ctx context.Context) ([]model.Question, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Question cache read failed, falling back to storage")
	}
	if ok && len(cached) > 0 {
		return cached, nil
	}

	v, err, _ := s.loads.Do("ordered", func() (any, error) {
		questions, err := s.repo.FindAllOrdered(ctx)
		if err != nil {
			return nil, err
		}
		if len(questions) > 0 {
			if err := s.cache.Set(ctx, questions); err != nil {
				log.Warn().Err(err).Msg("Question cache write failed")
			}
		}
		return questions, nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to load question bank")
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	questions := append([]model.Question(nil), v.([]model.Question)...)
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: question bank is empty", ErrConfiguration)
	}
	return questions, nil
}

func (s *questionBankService) ListQuestions(ctx context.Context) ([]dto.QuestionResponse, error) {
	questions, err := s.Ordered(ctx)
	if err != nil {
		return nil, err
	}
	return toQuestionResponses(questions)
}

func (s *questionBankService) ListStored(ctx context.Context) ([]dto.QuestionResponse, error) {
	questions, err := s.repo.FindAllOrdered(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list stored questions")
		return nil, fmt.Errorf("list stored questions: %w", err)
	}
	return toQuestionResponses(questions)
}

func toQuestionResponses(questions []model.Question) ([]dto.QuestionResponse, error) {
	resp := make([]dto.QuestionResponse, 0, len(questions))
	if len(questions) == 0 {
		return resp, nil
	}
	if err := copier.Copy(&resp, &questions); err != nil {
		return nil, fmt.Errorf("error preparing question response: %w", err)
	}
	return resp, nil
}

func toQuestionResponse(q model.Question) *dto.QuestionResponse {
	return &dto.QuestionResponse{
		ID:        q.ID,
		Text:      q.Text,
		Dimension: q.Dimension,
		TraitHigh: q.TraitHigh,
		TraitLow:  q.TraitLow,
	}
}
