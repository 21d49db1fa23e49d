package models

import (
	"time"
)

// Quiz statuses. A quiz only ever advances waiting -> active; StatusCompleted
// is declared for forward compatibility but no transition sets it yet.
const (
	StatusWaiting   = "waiting"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// CodeLength is the length of every join code.
const CodeLength = 6

type Quiz struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Code        string     `json:"code" gorm:"uniqueIndex;size:12;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Category    string     `json:"category" gorm:"not null"`
	CreatedBy   string     `json:"created_by" gorm:"not null"`
	CreatorName string     `json:"creator_name"`
	Status      string     `json:"status" gorm:"not null;default:'waiting'"`
	StartTime   *time.Time `json:"start_time"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	Questions    []Question    `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:QuizID"`
	Scores       []Score       `json:"scores,omitempty" gorm:"foreignKey:QuizID"`
	Answers      []Answer      `json:"answers,omitempty" gorm:"foreignKey:QuizID"`
}

// HasParticipant reports whether the user already joined this quiz.
func (q *Quiz) HasParticipant(userID string) bool {
	for _, p := range q.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
