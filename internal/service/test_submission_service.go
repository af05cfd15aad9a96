package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/model"
	"github.com/lshigami/mbti-compass/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// TestSubmissionService completes the questionnaire in a single request,
// independent of the session state machine.
type TestSubmissionService interface {
	SubmitTest(ctx context.Context, req dto.TestSubmissionRequest) (*dto.SubmissionResultResponse, error)
}

type testSubmissionService struct {
	bank    QuestionBankService
	users   repository.UserRepository
	results repository.TestResultRepository
	now     func() time.Time
}

func NewTestSubmissionService(
	bank QuestionBankService,
	users repository.UserRepository,
	results repository.TestResultRepository,
) TestSubmissionService {
	return &testSubmissionService{
		bank:    bank,
		users:   users,
		results: results,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *testSubmissionService) SubmitTest(ctx context.Context, req dto.TestSubmissionRequest) (*dto.SubmissionResultResponse, error) {
	if err := ensureUser(ctx, s.users, req.UserID); err != nil {
		return nil, err
	}
	bank, err := s.bank.Ordered(ctx)
	if err != nil {
		return nil, err
	}
	answers, err := validateSubmission(req.Answers, bank)
	if err != nil {
		log.Warn().Err(err).Uint("userID", req.UserID).Msg("SubmitTest: rejected submission")
		return nil, err
	}

	scores, personality, err := ScoreAnswers(answers, indexQuestions(bank))
	if err != nil {
		return nil, err
	}
	result := &model.TestResult{
		UserID:          req.UserID,
		PersonalityType: personality,
		Answers:         answers,
		TraitScores:     datatypes.NewJSONType(scores),
		CompletedAt:     s.now(),
	}
	if err := s.results.Create(ctx, result); err != nil {
		log.Error().Err(err).Uint("userID", req.UserID).Msg("SubmitTest: failed to store result")
		return nil, fmt.Errorf("store test result: %w", err)
	}
	log.Info().Uint("userID", req.UserID).Uint("testResultID", result.ID).Str("type", personality).Msg("Bulk test submitted")

	return &dto.SubmissionResultResponse{
		TestResultID:    result.ID,
		PersonalityType: personality,
		Description:     DescribeType(personality),
		TraitScores:     scores,
	}, nil
}

// validateSubmission requires exactly one valid answer per bank question.
func validateSubmission(items []dto.QuestionAnswerDTO, bank []model.Question) (datatypes.JSONSlice[model.AnswerEntry], error) {
	byID := indexQuestions(bank)
	seen := make(map[uint]struct{}, len(items))
	answers := make(datatypes.JSONSlice[model.AnswerEntry], 0, len(items))
	for _, item := range items {
		if _, ok := byID[item.QuestionID]; !ok {
			return nil, fmt.Errorf("%w: question %d", ErrInvalidQuestion, item.QuestionID)
		}
		if _, dup := seen[item.QuestionID]; dup {
			return nil, fmt.Errorf("%w: question %d answered more than once", ErrInvalidInput, item.QuestionID)
		}
		if !model.ValidAnswer(item.Answer) {
			return nil, fmt.Errorf("%w: answer %d for question %d must be between %d and %d",
				ErrInvalidInput, item.Answer, item.QuestionID, model.MinAnswer, model.MaxAnswer)
		}
		seen[item.QuestionID] = struct{}{}
		answers = append(answers, model.AnswerEntry{QuestionID: item.QuestionID, Answer: item.Answer})
	}
	var missing []uint
	for _, q := range bank {
		if _, ok := seen[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing answers for questions %v", ErrInvalidInput, missing)
	}
	return answers, nil
}
