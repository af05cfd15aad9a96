package model

import (
	"time"

	"gorm.io/datatypes"
)

// TestResult is the immutable outcome of a finished assessment, produced either
// by a completed session or by a bulk submission.
type TestResult struct {
	ID              uint                             `gorm:"primarykey" json:"id"`
	UserID          uint                             `json:"user_id" gorm:"not null;index"`
	User            *User                            `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SessionID       *uint                            `json:"session_id,omitempty" gorm:"index"` // nil for bulk submissions
	PersonalityType string                           `json:"personality_type" gorm:"size:4;not null"`
	Answers         datatypes.JSONSlice[AnswerEntry] `json:"answers" gorm:"not null"`
	TraitScores     datatypes.JSONType[TraitScores]  `json:"trait_scores"`
	CompletedAt     time.Time                        `json:"completed_at" gorm:"not null;index"`
}
