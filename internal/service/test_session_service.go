package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/model"
	"github.com/lshigami/mbti-compass/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// TestSessionService drives a user's incremental run through the questionnaire.
// Every read and mutation aligns the session with the current question bank first.
type TestSessionService interface {
	CreateOrResume(ctx context.Context, userID uint, restart bool) (*dto.SessionView, error)
	GetSession(ctx context.Context, sessionID uint) (*dto.SessionView, error)
	SubmitAnswer(ctx context.Context, sessionID uint, req dto.SessionAnswerRequest) (*dto.SessionView, error)
	Rewind(ctx context.Context, sessionID uint) (*dto.SessionView, error)
}

type testSessionService struct {
	bank     QuestionBankService
	users    repository.UserRepository
	sessions repository.TestSessionRepository
	results  repository.TestResultRepository

	sessionLocks *keyedMutex
	userLocks    *keyedMutex
	now          func() time.Time
}

func NewTestSessionService(
	bank QuestionBankService,
	users repository.UserRepository,
	sessions repository.TestSessionRepository,
	results repository.TestResultRepository,
) TestSessionService {
	return &testSessionService{
		bank:         bank,
		users:        users,
		sessions:     sessions,
		results:      results,
		sessionLocks: newKeyedMutex(),
		userLocks:    newKeyedMutex(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *testSessionService) CreateOrResume(ctx context.Context, userID uint, restart bool) (*dto.SessionView, error) {
	unlockUser := s.userLocks.Lock(userID)
	defer unlockUser()

	if _, err := s.bank.Reconcile(ctx); err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	bank, err := s.bank.Ordered(ctx)
	if err != nil {
		return nil, err
	}

	if restart {
		n, err := s.sessions.CancelInProgress(ctx, userID, s.now())
		if err != nil {
			log.Error().Err(err).Uint("userID", userID).Msg("Failed to cancel in-progress sessions")
			return nil, fmt.Errorf("cancel in-progress sessions: %w", err)
		}
		log.Info().Uint("userID", userID).Int64("cancelled", n).Msg("Restarting test session")
	} else {
		view, err := s.resume(ctx, userID, bank)
		if err != nil || view != nil {
			return view, err
		}
	}
	return s.start(ctx, userID, bank)
}

// resume returns the view of the user's latest in-progress session, or nil
// when there is none worth resuming.
func (s *testSessionService) resume(ctx context.Context, userID uint, bank []model.Question) (*dto.SessionView, error) {
	session, err := s.sessions.FindLatestInProgress(ctx, userID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to look up in-progress session")
		return nil, fmt.Errorf("find in-progress session: %w", err)
	}

	unlock := s.sessionLocks.Lock(session.ID)
	defer unlock()

	if err := s.alignAndPersist(ctx, session, bank); err != nil {
		return nil, err
	}
	if session.Status == model.SessionInProgress && session.CurrentIndex >= len(session.QuestionOrder) {
		session.Status = model.SessionCancelled
		session.UpdatedAt = s.now()
		if err := s.sessions.Update(ctx, session); err != nil {
			return nil, fmt.Errorf("cancel unusable session %d: %w", session.ID, err)
		}
		log.Warn().Uint("sessionID", session.ID).Msg("Cancelled session without a next question")
		return nil, nil
	}
	log.Info().Uint("sessionID", session.ID).Uint("userID", userID).Msg("Resuming test session")
	return s.buildView(ctx, session, bank), nil
}

func (s *testSessionService) start(ctx context.Context, userID uint, bank []model.Question) (*dto.SessionView, error) {
	now := s.now()
	order := make(datatypes.JSONSlice[uint], 0, len(bank))
	for _, q := range bank {
		order = append(order, q.ID)
	}
	session := &model.TestSession{
		UserID:        userID,
		Status:        model.SessionInProgress,
		Answers:       datatypes.JSONSlice[model.AnswerEntry]{},
		QuestionOrder: order,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to create test session")
		return nil, fmt.Errorf("create test session: %w", err)
	}

	unlock := s.sessionLocks.Lock(session.ID)
	defer unlock()

	if err := s.alignAndPersist(ctx, session, bank); err != nil {
		return nil, err
	}
	if session.Status != model.SessionInProgress || session.CurrentIndex >= len(session.QuestionOrder) {
		return nil, fmt.Errorf("%w: session %d has no question to serve", ErrConfiguration, session.ID)
	}
	log.Info().Uint("sessionID", session.ID).Uint("userID", userID).Int("questions", len(order)).Msg("Started test session")
	return s.buildView(ctx, session, bank), nil
}

func (s *testSessionService) GetSession(ctx context.Context, sessionID uint) (*dto.SessionView, error) {
	unlock := s.sessionLocks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	bank, err := s.bank.Ordered(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.alignAndPersist(ctx, session, bank); err != nil {
		return nil, err
	}
	return s.buildView(ctx, session, bank), nil
}

func (s *testSessionService) SubmitAnswer(ctx context.Context, sessionID uint, req dto.SessionAnswerRequest) (*dto.SessionView, error) {
	if !model.ValidAnswer(req.Answer) {
		return nil, fmt.Errorf("%w: answer must be between %d and %d", ErrInvalidInput, model.MinAnswer, model.MaxAnswer)
	}

	unlock := s.sessionLocks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, fmt.Errorf("%w: session %d is %s", ErrInvalidState, sessionID, session.Status)
	}
	bank, err := s.bank.Ordered(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.alignAndPersist(ctx, session, bank); err != nil {
		return nil, err
	}
	if session.Status.Terminal() || session.CurrentIndex >= len(session.QuestionOrder) {
		return nil, fmt.Errorf("%w: session %d has no unanswered question", ErrInvalidState, sessionID)
	}
	expected := session.QuestionOrder[session.CurrentIndex]
	if req.QuestionID != expected {
		return nil, fmt.Errorf("%w: expected question %d, got %d", ErrOutOfSequence, expected, req.QuestionID)
	}

	now := s.now()
	session.Answers = append(session.Answers, model.AnswerEntry{QuestionID: req.QuestionID, Answer: req.Answer})
	session.CurrentIndex++
	session.UpdatedAt = now

	if session.CurrentIndex == len(session.QuestionOrder) {
		session.Status = model.SessionCompleted
		session.CompletedAt = &now
		if err := s.finalize(ctx, session, bank); err != nil {
			return nil, err
		}
		log.Info().Uint("sessionID", sessionID).Uint("testResultID", *session.TestResultID).Msg("Test session completed")
	} else if err := s.sessions.Update(ctx, session); err != nil {
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("Failed to save answer")
		return nil, fmt.Errorf("save answer: %w", err)
	}
	return s.buildView(ctx, session, bank), nil
}

func (s *testSessionService) Rewind(ctx context.Context, sessionID uint) (*dto.SessionView, error) {
	unlock := s.sessionLocks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, fmt.Errorf("%w: session %d is %s", ErrInvalidState, sessionID, session.Status)
	}
	bank, err := s.bank.Ordered(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.alignAndPersist(ctx, session, bank); err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, fmt.Errorf("%w: session %d is %s", ErrInvalidState, sessionID, session.Status)
	}
	if len(session.Answers) == 0 {
		return s.buildView(ctx, session, bank), nil
	}

	session.Answers = session.Answers[:len(session.Answers)-1]
	session.CurrentIndex = max(session.CurrentIndex-1, 0)
	session.UpdatedAt = s.now()
	if err := s.sessions.Update(ctx, session); err != nil {
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("Failed to rewind session")
		return nil, fmt.Errorf("rewind session: %w", err)
	}
	if err := s.alignAndPersist(ctx, session, bank); err != nil {
		return nil, err
	}
	return s.buildView(ctx, session, bank), nil
}

func (s *testSessionService) load(ctx context.Context, sessionID uint) (*model.TestSession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}
	if err != nil {
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("Failed to load test session")
		return nil, fmt.Errorf("load session %d: %w", sessionID, err)
	}
	return session, nil
}

// alignAndPersist runs the alignment pass and saves the session if it changed.
// A session completed by alignment is finalized so it always carries a result.
func (s *testSessionService) alignAndPersist(ctx context.Context, session *model.TestSession, bank []model.Question) error {
	if !alignSession(session, bank, s.now()) {
		return nil
	}
	log.Debug().Uint("sessionID", session.ID).Int("currentIndex", session.CurrentIndex).Str("status", string(session.Status)).Msg("Session aligned with question bank")
	if session.Status == model.SessionCompleted && session.TestResultID == nil {
		return s.finalize(ctx, session, bank)
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("Failed to persist aligned session")
		return fmt.Errorf("persist aligned session: %w", err)
	}
	return nil
}

// finalize scores a completed session and stores its result and the link to it atomically.
func (s *testSessionService) finalize(ctx context.Context, session *model.TestSession, bank []model.Question) error {
	scores, personality, err := ScoreAnswers(session.Answers, indexQuestions(bank))
	if err != nil {
		return fmt.Errorf("score session %d: %w", session.ID, err)
	}
	completedAt := s.now()
	if session.CompletedAt != nil {
		completedAt = *session.CompletedAt
	}
	result := &model.TestResult{
		UserID:          session.UserID,
		PersonalityType: personality,
		Answers:         append(datatypes.JSONSlice[model.AnswerEntry]{}, session.Answers...),
		TraitScores:     datatypes.NewJSONType(scores),
		CompletedAt:     completedAt,
	}
	if err := s.sessions.CompleteWithResult(ctx, session, result); err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("Failed to store session result")
		return fmt.Errorf("complete session %d: %w", session.ID, err)
	}
	return nil
}

func (s *testSessionService) buildView(ctx context.Context, session *model.TestSession, bank []model.Question) *dto.SessionView {
	byID := indexQuestions(bank)
	view := &dto.SessionView{
		ID:             session.ID,
		UserID:         session.UserID,
		Status:         string(session.Status),
		CurrentIndex:   session.CurrentIndex,
		TotalQuestions: len(session.QuestionOrder),
		AnswersCount:   len(session.Answers),
		Answered:       make([]dto.AnsweredItemDTO, 0, len(session.Answers)),
		TestResultID:   session.TestResultID,
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
		CompletedAt:    session.CompletedAt,
	}
	if session.Status == model.SessionInProgress && session.CurrentIndex < len(session.QuestionOrder) {
		if q, ok := byID[session.QuestionOrder[session.CurrentIndex]]; ok {
			view.Question = toQuestionResponse(q)
		}
	}
	for _, a := range session.Answers {
		view.Answered = append(view.Answered, dto.AnsweredItemDTO{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
			Dimension:  byID[a.QuestionID].Dimension,
		})
	}
	if len(session.Answers) == 0 {
		return view
	}

	scores, personality := scoreKnownAnswers(session.Answers, byID)
	view.TraitScores = scores
	if session.Status != model.SessionCompleted {
		return view
	}
	if session.TestResultID != nil {
		result, err := s.results.FindByID(ctx, *session.TestResultID)
		if err != nil {
			log.Warn().Err(err).Uint("testResultID", *session.TestResultID).Msg("Falling back to recomputed personality type")
		} else {
			personality = result.PersonalityType
		}
	}
	description := DescribeType(personality)
	view.PersonalityType = &personality
	view.Description = &description
	return view
}
