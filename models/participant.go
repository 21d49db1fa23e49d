package models

import (
	"time"
)

// Participant is a user who joined a quiz while it was still waiting.
// The (quiz_id, user_id) unique index backs the storage-level
// append-if-absent used by join.
type Participant struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	QuizID   uint      `json:"quiz_id" gorm:"not null;uniqueIndex:idx_quiz_participant"`
	UserID   string    `json:"user_id" gorm:"not null;uniqueIndex:idx_quiz_participant"`
	Username string    `json:"username" gorm:"not null"`
	Score    int       `json:"score" gorm:"not null;default:0"`
	JoinedAt time.Time `json:"joined_at"`
}
