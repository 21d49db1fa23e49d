package models

import (
	"time"
)

// Answer is an append-only record of a single submission for one question.
// Resubmitting the same question appends another record.
type Answer struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	QuizID        uint      `json:"quiz_id" gorm:"not null;index"`
	UserID        string    `json:"user_id" gorm:"not null"`
	QuestionIndex int       `json:"question_index" gorm:"not null"`
	Answer        string    `json:"answer" gorm:"not null"`
	IsCorrect     bool      `json:"is_correct" gorm:"not null"`
	SubmittedAt   time.Time `json:"submitted_at"`
}
