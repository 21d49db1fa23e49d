package store

import (
	"context"
	"errors"
	"time"

	"quizroom/models"
)

// ErrNotFound is returned when no quiz exists for the given code.
var ErrNotFound = errors.New("quiz not found")

// QuizStore is the persistence boundary for quizzes. Appends to the
// participant, score and answer collections are atomic per call;
// AddParticipant is additionally an append-if-absent keyed by
// (quiz, user), and ActivateQuiz is a conditional waiting -> active
// transition, so concurrent callers cannot lose updates.
type QuizStore interface {
	CreateQuiz(ctx context.Context, quiz *models.Quiz) error
	// GetQuiz loads the full document for a code, including questions
	// (ordered), participants, scores and answers.
	GetQuiz(ctx context.Context, code string) (*models.Quiz, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListQuizzes(ctx context.Context) ([]models.Quiz, error)
	// AddParticipant appends the participant unless the user already joined.
	// It reports whether a row was actually added.
	AddParticipant(ctx context.Context, participant *models.Participant) (bool, error)
	// ActivateQuiz flips status to active and sets the start time, but only
	// if the quiz is still waiting. It reports whether the transition
	// happened.
	ActivateQuiz(ctx context.Context, quizID uint, startTime time.Time) (bool, error)
	AppendScore(ctx context.Context, score *models.Score) error
	AppendAnswer(ctx context.Context, answer *models.Answer) error
}
