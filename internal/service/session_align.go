package service

import (
	"time"

	"github.com/lshigami/mbti-compass/internal/model"
	"gorm.io/datatypes"
)

// alignSession reconciles an in-progress session with the current bank and
// reports whether anything changed. Completed and cancelled sessions are
// left untouched. Afterwards the session satisfies:
//   - every id of the order and of the answer log is in the bank;
//   - the answer log is a prefix of the order, with valid values;
//   - current index equals the number of answers;
//   - a session whose order is fully answered is completed.
func alignSession(s *model.TestSession, bank []model.Question, now time.Time) bool {
	if s.Status.Terminal() {
		return false
	}
	inBank := make(map[uint]struct{}, len(bank))
	for _, q := range bank {
		inBank[q.ID] = struct{}{}
	}

	changed := false

	order := make(datatypes.JSONSlice[uint], 0, len(s.QuestionOrder))
	for _, id := range s.QuestionOrder {
		if _, ok := inBank[id]; ok {
			order = append(order, id)
		}
	}
	if len(order) != len(s.QuestionOrder) {
		changed = true
	}

	answers := s.Answers
	if len(order) == 0 && len(bank) > 0 {
		// Nothing of the stored order survives: restart on the current bank.
		order = make(datatypes.JSONSlice[uint], 0, len(bank))
		for _, q := range bank {
			order = append(order, q.ID)
		}
		answers = nil
		s.TestResultID = nil
		s.CompletedAt = nil
		changed = true
	}

	kept := make(datatypes.JSONSlice[model.AnswerEntry], 0, len(answers))
	for _, a := range answers {
		if len(kept) == len(order) {
			break
		}
		if _, ok := inBank[a.QuestionID]; !ok || !model.ValidAnswer(a.Answer) {
			continue
		}
		kept = append(kept, a)
	}
	if len(kept) != len(s.Answers) {
		changed = true
	}

	if !answersFollowOrder(kept, order) {
		kept = longestOrderedPrefix(kept, order)
		changed = true
	}

	s.QuestionOrder = order
	s.Answers = kept
	if s.CurrentIndex != len(kept) {
		s.CurrentIndex = len(kept)
		changed = true
	}

	if len(order) > 0 && s.CurrentIndex == len(order) {
		s.Status = model.SessionCompleted
		if s.CompletedAt == nil {
			at := now
			s.CompletedAt = &at
		}
		changed = true
	}
	if changed {
		s.UpdatedAt = now
	}
	return changed
}

func answersFollowOrder(answers []model.AnswerEntry, order []uint) bool {
	if len(answers) > len(order) {
		return false
	}
	for i, a := range answers {
		if order[i] != a.QuestionID {
			return false
		}
	}
	return true
}

func longestOrderedPrefix(answers []model.AnswerEntry, order []uint) datatypes.JSONSlice[model.AnswerEntry] {
	out := make(datatypes.JSONSlice[model.AnswerEntry], 0, len(answers))
	for i, a := range answers {
		if i >= len(order) || order[i] != a.QuestionID {
			break
		}
		out = append(out, a)
	}
	return out
}
