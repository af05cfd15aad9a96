package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/model"
	"github.com/lshigami/mbti-compass/internal/repository"
	"github.com/rs/zerolog/log"
)

type ResultService interface {
	// ListUserResults returns the user's results, most recent first.
	ListUserResults(ctx context.Context, userID uint) ([]dto.TestResultResponse, error)
	LatestPersonality(ctx context.Context, userID uint) (*dto.PersonalityResponse, error)
}

type resultService struct {
	users   repository.UserRepository
	results repository.TestResultRepository
}

func NewResultService(users repository.UserRepository, results repository.TestResultRepository) ResultService {
	return &resultService{users: users, results: results}
}

func (s *resultService) ListUserResults(ctx context.Context, userID uint) ([]dto.TestResultResponse, error) {
	if err := ensureUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	results, err := s.results.FindAllByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to list test results")
		return nil, fmt.Errorf("list test results: %w", err)
	}
	resp := make([]dto.TestResultResponse, 0, len(results))
	for _, r := range results {
		resp = append(resp, toTestResultResponse(r))
	}
	return resp, nil
}

func (s *resultService) LatestPersonality(ctx context.Context, userID uint) (*dto.PersonalityResponse, error) {
	latest, err := s.results.FindLatestByUser(ctx, userID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no test result for user %d", ErrNotFound, userID)
	}
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to load latest test result")
		return nil, fmt.Errorf("load latest result: %w", err)
	}
	return &dto.PersonalityResponse{
		PersonalityType: latest.PersonalityType,
		Description:     DescribeType(latest.PersonalityType),
		CompletedAt:     latest.CompletedAt,
	}, nil
}

func toTestResultResponse(r model.TestResult) dto.TestResultResponse {
	answers := make([]dto.QuestionAnswerDTO, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, dto.QuestionAnswerDTO{QuestionID: a.QuestionID, Answer: a.Answer})
	}
	return dto.TestResultResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		SessionID:       r.SessionID,
		PersonalityType: r.PersonalityType,
		Description:     DescribeType(r.PersonalityType),
		TraitScores:     r.TraitScores.Data(),
		Answers:         answers,
		CompletedAt:     r.CompletedAt,
	}
}
