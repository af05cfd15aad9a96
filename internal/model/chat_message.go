package model

import "time"

type ChatMessage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	IsUser    bool      `json:"is_user" gorm:"not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}
