package services

import (
	"context"
	"crypto/rand"
	"fmt"

	"quizroom/models"
	"quizroom/store"

	"go.uber.org/zap"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxCodeAttempts bounds the generate-and-check loop before giving up
	// with ErrCodeSpaceExhausted.
	maxCodeAttempts = 5
)

// QuizService covers quiz creation and the read operations.
type QuizService struct {
	store  store.QuizStore
	tokens *TokenService
	logger *zap.Logger
}

func NewQuizService(st store.QuizStore, tokens *TokenService, logger *zap.Logger) *QuizService {
	return &QuizService{store: st, tokens: tokens, logger: logger}
}

type CreateQuestionRequest struct {
	Text          string   `json:"text" binding:"required"`
	Type          string   `json:"type" binding:"required"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	TimeLimit     int      `json:"time_limit"`
}

type CreateQuizRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Category    string                  `json:"category" binding:"required"`
	CreatedBy   string                  `json:"created_by" binding:"required"`
	CreatorName string                  `json:"creator_name"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"required,min=1"`
}

// CreateQuizResult carries the join code plus the creator token that
// authorizes admin and start for this quiz.
type CreateQuizResult struct {
	Code         string `json:"code"`
	CreatorToken string `json:"creator_token"`
}

// CreateQuiz validates the request, allocates a unique join code and
// persists the quiz in the waiting state.
func (s *QuizService) CreateQuiz(ctx context.Context, req *CreateQuizRequest) (*CreateQuizResult, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	code, err := s.allocateCode(ctx)
	if err != nil {
		return nil, err
	}

	questions := make([]models.Question, len(req.Questions))
	for i, q := range req.Questions {
		timeLimit := q.TimeLimit
		if timeLimit <= 0 {
			timeLimit = models.DefaultTimeLimit
		}
		questions[i] = models.Question{
			Position:      i,
			Text:          q.Text,
			Type:          q.Type,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			TimeLimit:     timeLimit,
		}
	}

	quiz := &models.Quiz{
		Code:        code,
		Title:       req.Title,
		Category:    req.Category,
		CreatedBy:   req.CreatedBy,
		CreatorName: req.CreatorName,
		Status:      models.StatusWaiting,
		Questions:   questions,
	}

	if err := s.store.CreateQuiz(ctx, quiz); err != nil {
		return nil, fmt.Errorf("persist quiz: %w", err)
	}

	token, err := s.tokens.Issue(code, req.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("issue creator token: %w", err)
	}

	s.logger.Info("quiz created",
		zap.String("code", code),
		zap.Int("questions", len(questions)),
	)
	return &CreateQuizResult{Code: code, CreatorToken: token}, nil
}

// GetPublic returns the sanitized quiz view. The optional callerID only
// drives the is_creator display hint; it grants nothing.
func (s *QuizService) GetPublic(ctx context.Context, code, callerID string) (*QuizView, error) {
	quiz, err := s.getQuiz(ctx, code)
	if err != nil {
		return nil, err
	}
	return newQuizView(quiz, callerID), nil
}

// GetAdmin returns the full quiz document, correct answers included. The
// creator token is checked before the lookup, so an invalid token is
// forbidden whether or not the quiz exists.
func (s *QuizService) GetAdmin(ctx context.Context, code, creatorToken string) (*models.Quiz, error) {
	if _, err := s.tokens.Authorize(creatorToken, code); err != nil {
		return nil, err
	}
	return s.getQuiz(ctx, code)
}

// ListQuizzes returns a summary of every quiz. No pagination.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]QuizSummary, error) {
	quizzes, err := s.store.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]QuizSummary, len(quizzes))
	for i, quiz := range quizzes {
		summaries[i] = QuizSummary{
			Code:             quiz.Code,
			Title:            quiz.Title,
			Category:         quiz.Category,
			Status:           quiz.Status,
			CreatedBy:        quiz.CreatedBy,
			ParticipantCount: len(quiz.Participants),
		}
	}
	return summaries, nil
}

func (s *QuizService) getQuiz(ctx context.Context, code string) (*models.Quiz, error) {
	quiz, err := s.store.GetQuiz(ctx, code)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// allocateCode generates codes until one is unused, bounded by
// maxCodeAttempts.
func (s *QuizService) allocateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return "", err
		}
		exists, err := s.store.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		s.logger.Warn("join code collision, regenerating", zap.String("code", code))
	}
	return "", ErrCodeSpaceExhausted
}

// generateCode draws CodeLength characters uniformly from {A-Z,0-9}.
func generateCode() (string, error) {
	buf := make([]byte, models.CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	code := make([]byte, models.CodeLength)
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(code), nil
}

func validateCreateRequest(req *CreateQuizRequest) error {
	if req.Title == "" || req.Category == "" || req.CreatedBy == "" {
		return validationErrorf("title, category and created_by are required")
	}
	if len(req.Questions) == 0 {
		return validationErrorf("at least one question is required")
	}
	for i, q := range req.Questions {
		if q.Text == "" || q.Type == "" || q.CorrectAnswer == "" {
			return validationErrorf("question %d: text, type and correct_answer are required", i)
		}
		if q.Type == models.QuestionTypeMultiple && len(q.Options) < 2 {
			return validationErrorf("question %d: multiple choice questions need at least 2 options", i)
		}
	}
	return nil
}
