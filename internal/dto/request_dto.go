package dto

// CreateUserRequest registers a participant.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"required,email"`
}

// StartSessionRequest creates a new session or resumes the latest in-progress one.
type StartSessionRequest struct {
	UserID  uint `json:"user_id" binding:"required"`
	Restart bool `json:"restart"`
}

// SessionAnswerRequest answers the session's current question.
type SessionAnswerRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
	Answer     int  `json:"answer" binding:"required,min=1,max=5"`
}

// QuestionAnswerDTO is one item of a bulk submission.
type QuestionAnswerDTO struct {
	QuestionID uint `json:"question_id" binding:"required"`
	Answer     int  `json:"answer" binding:"required,min=1,max=5"`
}

// TestSubmissionRequest submits the whole questionnaire at once.
type TestSubmissionRequest struct {
	UserID  uint                `json:"user_id" binding:"required"`
	Answers []QuestionAnswerDTO `json:"answers" binding:"required,min=1,dive"`
}

type ChatMessageRequest struct {
	UserID  uint   `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required,max=4000"`
}
