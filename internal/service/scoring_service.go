package service

import (
	"fmt"
	"strings"

	"github.com/lshigami/mbti-compass/internal/model"
)

// neutralAnswer is the midpoint of the Likert scale; it moves no counter.
const neutralAnswer = 3

// ScoreAnswers tallies the eight trait counters and derives the four-letter type.
// Answers of 4 and 5 add (answer-3) to the question's high trait, answers of 1
// and 2 add (3-answer) to its low trait. The result does not depend on the
// order of answers.
func ScoreAnswers(answers []model.AnswerEntry, questionsByID map[uint]model.Question) (model.TraitScores, string, error) {
	scores := newTraitScores()
	for _, a := range answers {
		q, ok := questionsByID[a.QuestionID]
		if !ok {
			return nil, "", fmt.Errorf("%w: question %d", ErrInvalidQuestion, a.QuestionID)
		}
		if !model.ValidAnswer(a.Answer) {
			return nil, "", fmt.Errorf("%w: answer %d for question %d must be between %d and %d",
				ErrInvalidInput, a.Answer, a.QuestionID, model.MinAnswer, model.MaxAnswer)
		}
		tally(scores, q, a.Answer)
	}
	return scores, personalityType(scores), nil
}

// scoreKnownAnswers is the lenient variant used for progress views: entries
// that do not resolve to a bank question or a valid value are skipped.
func scoreKnownAnswers(answers []model.AnswerEntry, questionsByID map[uint]model.Question) (model.TraitScores, string) {
	scores := newTraitScores()
	for _, a := range answers {
		q, ok := questionsByID[a.QuestionID]
		if !ok || !model.ValidAnswer(a.Answer) {
			continue
		}
		tally(scores, q, a.Answer)
	}
	return scores, personalityType(scores)
}

func newTraitScores() model.TraitScores {
	scores := make(model.TraitScores, 8)
	for _, pair := range dimensionPairs {
		scores[pair[0]] = 0
		scores[pair[1]] = 0
	}
	return scores
}

func tally(scores model.TraitScores, q model.Question, answer int) {
	switch {
	case answer > neutralAnswer:
		scores[q.TraitHigh] += answer - neutralAnswer
	case answer < neutralAnswer:
		scores[q.TraitLow] += neutralAnswer - answer
	}
}

func personalityType(scores model.TraitScores) string {
	var b strings.Builder
	for _, pair := range dimensionPairs {
		if scores[pair[1]] > scores[pair[0]] {
			b.WriteString(pair[1])
		} else {
			b.WriteString(pair[0])
		}
	}
	return b.String()
}

func indexQuestions(questions []model.Question) map[uint]model.Question {
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return byID
}
