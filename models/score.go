package models

import (
	"time"
)

// Score is an append-only score submission. A user may appear any number of
// times; entries are never deduplicated or updated in place.
type Score struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	QuizID      uint      `json:"quiz_id" gorm:"not null;index"`
	UserID      string    `json:"user_id" gorm:"not null"`
	Score       int       `json:"score" gorm:"not null"`
	SubmittedAt time.Time `json:"submitted_at"`
}
