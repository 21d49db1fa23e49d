package services

import (
	"time"

	"quizroom/models"
)

// QuestionView is a question with the correct answer stripped.
type QuestionView struct {
	Text      string   `json:"text"`
	Type      string   `json:"type"`
	Options   []string `json:"options"`
	TimeLimit int      `json:"time_limit"`
}

// ParticipantView is the public shape of a participant record.
type ParticipantView struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// QuizView is the sanitized quiz representation returned to participants.
// It never contains a correct answer.
type QuizView struct {
	Code             string            `json:"code"`
	Title            string            `json:"title"`
	Category         string            `json:"category"`
	Status           string            `json:"status"`
	CreatorName      string            `json:"creator_name"`
	IsCreator        bool              `json:"is_creator"`
	ParticipantCount int               `json:"participant_count"`
	Participants     []ParticipantView `json:"participants"`
	Questions        []QuestionView    `json:"questions"`
	StartTime        *time.Time        `json:"start_time,omitempty"`
}

// QuizSummary is the projection returned by list.
type QuizSummary struct {
	Code             string `json:"code"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	Status           string `json:"status"`
	CreatedBy        string `json:"created_by"`
	ParticipantCount int    `json:"participant_count"`
}

// LeaderboardEntry annotates one score submission with its rank. Duplicate
// user IDs appear once per submission, each ranked independently.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      string    `json:"user_id"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func sanitizeQuestions(questions []models.Question) []QuestionView {
	views := make([]QuestionView, len(questions))
	for i, q := range questions {
		views[i] = QuestionView{
			Text:      q.Text,
			Type:      q.Type,
			Options:   q.Options,
			TimeLimit: q.TimeLimit,
		}
	}
	return views
}

func newQuizView(quiz *models.Quiz, callerID string) *QuizView {
	participants := make([]ParticipantView, len(quiz.Participants))
	for i, p := range quiz.Participants {
		participants[i] = ParticipantView{
			UserID:   p.UserID,
			Username: p.Username,
			Score:    p.Score,
		}
	}
	return &QuizView{
		Code:             quiz.Code,
		Title:            quiz.Title,
		Category:         quiz.Category,
		Status:           quiz.Status,
		CreatorName:      quiz.CreatorName,
		IsCreator:        callerID != "" && callerID == quiz.CreatedBy,
		ParticipantCount: len(quiz.Participants),
		Participants:     participants,
		Questions:        sanitizeQuestions(quiz.Questions),
		StartTime:        quiz.StartTime,
	}
}
