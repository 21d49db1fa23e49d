package models

// Question types. "multiple" questions must carry at least two options.
const (
	QuestionTypeMultiple = "multiple"
)

// DefaultTimeLimit is applied when a question is created without one.
const DefaultTimeLimit = 30 // seconds

type Question struct {
	ID            uint     `json:"id" gorm:"primaryKey"`
	QuizID        uint     `json:"quiz_id" gorm:"not null;index"`
	Position      int      `json:"position" gorm:"not null"`
	Text          string   `json:"text" gorm:"not null"`
	Type          string   `json:"type" gorm:"not null"`
	Options       []string `json:"options" gorm:"serializer:json"`
	CorrectAnswer string   `json:"correct_answer" gorm:"not null"`
	TimeLimit     int      `json:"time_limit" gorm:"not null;default:30"` // seconds
}
