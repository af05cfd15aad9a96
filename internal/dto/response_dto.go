package dto

import "time"

type QuestionResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	Dimension string `json:"dimension"`
	TraitHigh string `json:"trait_high"`
	TraitLow  string `json:"trait_low"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AnsweredItemDTO is an entry of the session's answer log enriched with its dimension.
type AnsweredItemDTO struct {
	QuestionID uint   `json:"question_id"`
	Answer     int    `json:"answer"`
	Dimension  string `json:"dimension"`
}

// SessionView is the client-facing projection of a test session.
type SessionView struct {
	ID              uint              `json:"id"`
	UserID          uint              `json:"user_id"`
	Status          string            `json:"status"`
	CurrentIndex    int               `json:"current_index"`
	TotalQuestions  int               `json:"total_questions"`
	AnswersCount    int               `json:"answers_count"`
	Question        *QuestionResponse `json:"question"` // next unanswered question, nil when done
	Answered        []AnsweredItemDTO `json:"answered"`
	TraitScores     map[string]int    `json:"trait_scores"`     // nil until the first answer
	PersonalityType *string           `json:"personality_type"` // set only once completed
	Description     *string           `json:"description,omitempty"`
	TestResultID    *uint             `json:"test_result_id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	CompletedAt     *time.Time        `json:"completed_at"`
}

// SubmissionResultResponse is returned by the bulk submission endpoint.
type SubmissionResultResponse struct {
	TestResultID    uint           `json:"test_result_id"`
	PersonalityType string         `json:"personality_type"`
	Description     string         `json:"description"`
	TraitScores     map[string]int `json:"trait_scores"`
}

type TestResultResponse struct {
	ID              uint                `json:"id"`
	UserID          uint                `json:"user_id"`
	SessionID       *uint               `json:"session_id,omitempty"`
	PersonalityType string              `json:"personality_type"`
	Description     string              `json:"description"`
	TraitScores     map[string]int      `json:"trait_scores"`
	Answers         []QuestionAnswerDTO `json:"answers"`
	CompletedAt     time.Time           `json:"completed_at"`
}

type PersonalityResponse struct {
	PersonalityType string    `json:"personality_type"`
	Description     string    `json:"description"`
	CompletedAt     time.Time `json:"completed_at"`
}

type ChatMessageResponse struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}

type ReconcileResponse struct {
	Changed       bool `json:"changed"`
	QuestionCount int  `json:"question_count"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
