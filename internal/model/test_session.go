package model

import (
	"time"

	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed from s.
// Only an in-progress session accepts answers or rewinds.
func (s SessionStatus) Terminal() bool {
	return s != SessionInProgress
}

// TestSession tracks a user's incremental progress through a fixed question order.
type TestSession struct {
	ID            uint                             `gorm:"primarykey" json:"id"`
	UserID        uint                             `json:"user_id" gorm:"not null;index"`
	User          *User                            `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Status        SessionStatus                    `json:"status" gorm:"type:varchar(20);not null;index"`
	CurrentIndex  int                              `json:"current_index" gorm:"not null;default:0"`
	Answers       datatypes.JSONSlice[AnswerEntry] `json:"answers" gorm:"not null"`
	QuestionOrder datatypes.JSONSlice[uint]        `json:"question_order" gorm:"not null"`
	TestResultID  *uint                            `json:"test_result_id,omitempty" gorm:"index"`
	TestResult    *TestResult                      `json:"-" gorm:"foreignKey:TestResultID;constraint:OnDelete:SET NULL;"`
	CreatedAt     time.Time                        `json:"created_at"`
	UpdatedAt     time.Time                        `json:"updated_at"`
	CompletedAt   *time.Time                       `json:"completed_at,omitempty"`
}
