package model

import "time"

// Question is one item of the assessment bank. Rows are reconciled against
// the in-code catalog at startup, never deleted.
type Question struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Dimension string    `json:"dimension" gorm:"not null"` // "E/I", "S/N", "T/F", "J/P"
	TraitHigh string    `json:"trait_high" gorm:"size:1;not null"`
	TraitLow  string    `json:"trait_low" gorm:"size:1;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SameContent reports whether the reference fields of q and other match.
func (q Question) SameContent(other Question) bool {
	return q.Text == other.Text &&
		q.Dimension == other.Dimension &&
		q.TraitHigh == other.TraitHigh &&
		q.TraitLow == other.TraitLow
}
