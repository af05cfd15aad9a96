package model

import "encoding/json"

// AnswerEntry is one element of an answer log: a Likert value (1-5) given to a question.
type AnswerEntry struct {
	QuestionID uint `json:"question_id"`
	Answer     int  `json:"answer"`
}

// UnmarshalJSON decodes a stored log entry without failing on bad data.
// A field that is not a whole number of the right range decodes as 0, which
// no question id or answer accepts, so the entry is dropped on alignment.
func (a *AnswerEntry) UnmarshalJSON(data []byte) error {
	*a = AnswerEntry{}
	var raw struct {
		QuestionID json.RawMessage `json:"question_id"`
		Answer     json.RawMessage `json:"answer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if len(raw.QuestionID) > 0 && json.Unmarshal(raw.QuestionID, &a.QuestionID) != nil {
		a.QuestionID = 0
	}
	if len(raw.Answer) > 0 && json.Unmarshal(raw.Answer, &a.Answer) != nil {
		a.Answer = 0
	}
	return nil
}

const (
	MinAnswer = 1
	MaxAnswer = 5
)

// ValidAnswer reports whether v is on the 1-5 scale.
func ValidAnswer(v int) bool {
	return v >= MinAnswer && v <= MaxAnswer
}

// TraitScores tallies the eight single-letter traits.
type TraitScores map[string]int
