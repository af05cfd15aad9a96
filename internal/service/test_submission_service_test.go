package service

import (
	"context"
	"testing"

	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSubmission(userID uint, value int) dto.TestSubmissionRequest {
	req := dto.TestSubmissionRequest{UserID: userID}
	for _, q := range CanonicalQuestions() {
		req.Answers = append(req.Answers, dto.QuestionAnswerDTO{QuestionID: q.ID, Answer: value})
	}
	return req
}

func newSubmissionFixture(t *testing.T) (*fixture, TestSubmissionService, uint) {
	t.Helper()
	f := newFixture()
	_, err := f.bank.Reconcile(context.Background())
	require.NoError(t, err)
	userID := f.users.add("Ada", "ada@example.com")
	return f, NewTestSubmissionService(f.bank, f.users, f.results), userID
}

func TestSubmitTest_StoresResult(t *testing.T) {
	f, svc, userID := newSubmissionFixture(t)

	resp, err := svc.SubmitTest(context.Background(), fullSubmission(userID, 5))
	require.NoError(t, err)

	assert.Equal(t, "ENFJ", resp.PersonalityType)
	assert.Equal(t, DescribeType("ENFJ"), resp.Description)
	assert.Equal(t, 4, resp.TraitScores["E"])

	stored, err := f.results.FindByID(context.Background(), resp.TestResultID)
	require.NoError(t, err)
	assert.Nil(t, stored.SessionID)
	assert.Len(t, stored.Answers, 12)
	assert.Equal(t, 4, stored.TraitScores.Data()["N"])
}

func TestSubmitTest_MissingQuestionWritesNothing(t *testing.T) {
	f, svc, userID := newSubmissionFixture(t)
	req := fullSubmission(userID, 4)
	req.Answers = req.Answers[1:]

	_, err := svc.SubmitTest(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, f.results.count())
}

func TestSubmitTest_Rejections(t *testing.T) {
	f, svc, userID := newSubmissionFixture(t)
	ctx := context.Background()

	dup := fullSubmission(userID, 4)
	dup.Answers[1].QuestionID = dup.Answers[0].QuestionID
	_, err := svc.SubmitTest(ctx, dup)
	assert.ErrorIs(t, err, ErrInvalidInput)

	unknown := fullSubmission(userID, 4)
	unknown.Answers = append(unknown.Answers, dto.QuestionAnswerDTO{QuestionID: 404, Answer: 3})
	_, err = svc.SubmitTest(ctx, unknown)
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	outOfRange := fullSubmission(userID, 4)
	outOfRange.Answers[3].Answer = 0
	_, err = svc.SubmitTest(ctx, outOfRange)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SubmitTest(ctx, fullSubmission(999, 4))
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Zero(t, f.results.count())
}
