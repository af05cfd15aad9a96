package service

import (
	"context"
	"sync"
	"testing"

	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func answerNext(t *testing.T, f *fixture, view *dto.SessionView, value int) *dto.SessionView {
	t.Helper()
	require.NotNil(t, view.Question, "session %d has no next question", view.ID)
	next, err := f.svc.SubmitAnswer(context.Background(), view.ID, dto.SessionAnswerRequest{QuestionID: view.Question.ID, Answer: value})
	require.NoError(t, err)
	return next
}

func TestCreateOrResume_StartsFreshSession(t *testing.T) {
	f := newFixture()
	userID := f.users.add("Ada", "ada@example.com")

	view, err := f.svc.CreateOrResume(context.Background(), userID, false)
	require.NoError(t, err)

	assert.Equal(t, string(model.SessionInProgress), view.Status)
	assert.Equal(t, 12, view.TotalQuestions)
	assert.Equal(t, 0, view.CurrentIndex)
	assert.Equal(t, 0, view.AnswersCount)
	require.NotNil(t, view.Question)
	assert.Equal(t, uint(1), view.Question.ID)
	assert.Nil(t, view.TraitScores)
	assert.Nil(t, view.PersonalityType)
	assert.Empty(t, view.Answered)
	assert.Equal(t, 1, f.questions.syncs, "bank is reconciled before a session starts")
}

func TestCreateOrResume_UnknownUser(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateOrResume(context.Background(), 42, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrResume_ResumesLatest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.users.add("Ada", "ada@example.com")

	first, err := f.svc.CreateOrResume(ctx, userID, false)
	require.NoError(t, err)
	answerNext(t, f, first, 4)

	resumed, err := f.svc.CreateOrResume(ctx, userID, false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, resumed.ID)
	assert.Equal(t, 1, resumed.CurrentIndex)
	assert.Equal(t, uint(2), resumed.Question.ID)
}

func TestCreateOrResume_RestartCancelsInProgress(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.users.add("Ada", "ada@example.com")

	first, err := f.svc.CreateOrResume(ctx, userID, false)
	require.NoError(t, err)

	second, err := f.svc.CreateOrResume(ctx, userID, true)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, model.SessionCancelled, f.sessions.stored(first.ID).Status)
	assert.Equal(t, 0, second.CurrentIndex)
}

func TestCreateOrResume_RebuildsSessionWithEmptyOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.users.add("Ada", "ada@example.com")

	f.sessions.put(model.TestSession{
		ID:            77,
		UserID:        userID,
		Status:        model.SessionInProgress,
		QuestionOrder: datatypes.JSONSlice[uint]{},
		Answers:       datatypes.JSONSlice[model.AnswerEntry]{},
	})

	view, err := f.svc.CreateOrResume(ctx, userID, false)
	require.NoError(t, err)
	assert.Equal(t, uint(77), view.ID)
	assert.Equal(t, 12, view.TotalQuestions)
	require.NotNil(t, view.Question)
	assert.Equal(t, uint(1), view.Question.ID)
	assert.Len(t, f.sessions.stored(77).QuestionOrder, 12)
}

func TestCreateOrResume_EmptyBankIsConfigurationError(t *testing.T) {
	f := newFixture()
	f.bank.catalog = nil
	userID := f.users.add("Ada", "ada@example.com")

	_, err := f.svc.CreateOrResume(context.Background(), userID, false)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSubmitAnswer_IndexAndNextQuestion(t *testing.T) {
	f := newFixture()
	userID := f.users.add("Ada", "ada@example.com")
	view, err := f.svc.CreateOrResume(context.Background(), userID, false)
	require.NoError(t, err)

	view = answerNext(t, f, view, 5)
	view = answerNext(t, f, view, 1)

	assert.Equal(t, 2, view.CurrentIndex)
	assert.Equal(t, 2, view.AnswersCount)
	require.NotNil(t, view.Question)
	assert.Equal(t, uint(3), view.Question.ID)
	assert.Equal(t, []dto.AnsweredItemDTO{
		{QuestionID: 1, Answer: 5, Dimension: "E/I"},
		{QuestionID: 2, Answer: 1, Dimension: "S/N"},
	}, view.Answered)
	assert.Equal(t, 2, view.TraitScores["I"])
	assert.Equal(t, 2, view.TraitScores["N"])
	assert.Nil(t, view.PersonalityType, "partial sessions never show a type")
}

func TestSubmitAnswer_OutOfSequenceLeavesSessionUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.users.add("Ada", "ada@example.com")
	view, err := f.svc.CreateOrResume(ctx, userID, false)
	require.NoError(t, err)
	view = answerNext(t, f, view, 4)

	before := f.sessions.stored(view.ID)
	updates := f.sessions.updates

	_, err = f.svc.SubmitAnswer(ctx, view.ID, dto.SessionAnswerRequest{QuestionID: 5, Answer: 4})
	assert.ErrorIs(t, err, ErrOutOfSequence)
	assert.Equal(t, before, f.sessions.stored(view.ID))
	assert.Equal(t, updates, f.sessions.updates)
}

func TestSubmitAnswer_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.users.add("Ada", "ada@example.com")
	view, err := f.svc.CreateOrResume(ctx, userID, false)
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(ctx, view.ID, dto.SessionAnswerRequest{QuestionID: 1, Answer: 6})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.SubmitAnswer(ctx, 999, dto.SessionAnswerRequest{QuestionID: 1, Answer: 3})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.CreateOrResume(ctx, userID, true)
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(ctx, view.ID, dto.SessionAnswerRequest{QuestionID: 1, Answer: 3})
	assert.ErrorIs(t, err, ErrInvalidState, "cancelled sessions accept no answers")
}

func TestSubmitAnswer_CompletionStoresResult(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.users.add("Ada", "ada@example.com")
	view, err := f.svc.CreateOrResume(ctx, userID, false)
	require.NoError(t, err)

	for view.Question != nil {
		view = answerNext(t, f, view, 3)
	}

	assert.Equal(t, string(model.SessionCompleted), view.Status)
	require.NotNil(t, view.TestResultID)
	require.NotNil(t, view.PersonalityType)
	assert.Equal(t, "ESTJ", *view.PersonalityType)
	require.NotNil(t, view.Description)
	assert.Equal(t, DescribeType("ESTJ"), *view.Description)
	require.NotNil(t, view.CompletedAt)
	assert.Equal(t, 12, view.AnswersCount)

	result, err := f.results.FindByID(ctx, *view.TestResultID)
	require.NoError(t, err)
	assert.Equal(t, "ESTJ", result.PersonalityType)
	require.NotNil(t, result.SessionID)
	assert.Equal(t, view.ID, *result.SessionID)
	assert.Len(t, result.Answers, 12)

	_, err = f.svc.SubmitAnswer(ctx, view.ID, dto.SessionAnswerRequest{QuestionID: 1, Answer: 3})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.svc.Rewind(ctx, view.ID)
	assert.ErrorIs(t, err, ErrInvalidState, "completion is one-way")

	again, err := f.svc.GetSession(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.TestResultID, again.TestResultID)
	assert.Equal(t, 1, f.results.count())
}

func TestRewind_EmptyLogIsNoop(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.users.add("Ada", "ada@example.com")
	view, err := f.svc.CreateOrResume(ctx, userID, false)
	require.NoError(t, err)

	before := f.sessions.stored(view.ID)
	updates := f.sessions.updates

	after, err := f.svc.Rewind(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, before, f.sessions.stored(view.ID))
	assert.Equal(t, updates, f.sessions.updates)
	assert.Equal(t, view.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, 0, after.CurrentIndex)
}

func TestRewind_RoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.users.add("Ada", "ada@example.com")
	view, err := f.svc.CreateOrResume(ctx, userID, false)
	require.NoError(t, err)
	view = answerNext(t, f, view, 2)
	view = answerNext(t, f, view, 5)

	rewound, err := f.svc.Rewind(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rewound.CurrentIndex)
	assert.Equal(t, uint(2), rewound.Question.ID)

	replayed := answerNext(t, f, rewound, 5)

	assert.Equal(t, view.Status, replayed.Status)
	assert.Equal(t, view.CurrentIndex, replayed.CurrentIndex)
	assert.Equal(t, view.Answered, replayed.Answered)
	assert.Equal(t, view.TraitScores, replayed.TraitScores)
	assert.Equal(t, view.Question, replayed.Question)

	stored := f.sessions.stored(view.ID)
	assert.Equal(t, []model.AnswerEntry{{QuestionID: 1, Answer: 2}, {QuestionID: 2, Answer: 5}}, []model.AnswerEntry(stored.Answers))
}

func TestGetSession_AlignsAfterBankShrinks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.users.add("Ada", "ada@example.com")
	view, err := f.svc.CreateOrResume(ctx, userID, false)
	require.NoError(t, err)
	view = answerNext(t, f, view, 4)

	f.questions.remove(2)

	got, err := f.svc.GetSession(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, got.TotalQuestions)
	assert.Equal(t, 1, got.CurrentIndex)
	assert.Equal(t, uint(3), got.Question.ID)
	assert.NotContains(t, []uint(f.sessions.stored(view.ID).QuestionOrder), uint(2))
}

func TestGetSession_AlignmentCompletionCreatesResult(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.users.add("Ada", "ada@example.com")
	view, err := f.svc.CreateOrResume(ctx, userID, false)
	require.NoError(t, err)
	for i := 0; i < 11; i++ {
		view = answerNext(t, f, view, 5)
	}
	require.Equal(t, uint(12), view.Question.ID)

	f.questions.remove(12)

	got, err := f.svc.GetSession(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.SessionCompleted), got.Status)
	require.NotNil(t, got.TestResultID)
	require.NotNil(t, got.PersonalityType)
	assert.Equal(t, 1, f.results.count())
}

func TestGetSession_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.GetSession(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitAnswer_ConcurrentSameQuestionAcceptsOne(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.users.add("Ada", "ada@example.com")
	view, err := f.svc.CreateOrResume(ctx, userID, false)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.SubmitAnswer(ctx, view.ID, dto.SessionAnswerRequest{QuestionID: 1, Answer: 4})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrOutOfSequence)
	}
	assert.Equal(t, 1, ok)
	assert.Len(t, f.sessions.stored(view.ID).Answers, 1)
	assert.Zero(t, f.svc.sessionLocks.size())
}
