package services

import (
	"context"
	"sort"
	"time"

	"quizroom/models"
	"quizroom/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlayService covers everything that happens to a quiz after creation:
// joining, starting, answer and score submission, and the leaderboard.
type PlayService struct {
	store  store.QuizStore
	tokens *TokenService
	live   *LiveState
	hub    *Hub
	logger *zap.Logger
}

func NewPlayService(st store.QuizStore, tokens *TokenService, live *LiveState, hub *Hub, logger *zap.Logger) *PlayService {
	return &PlayService{store: st, tokens: tokens, live: live, hub: hub, logger: logger}
}

type JoinRequest struct {
	Code     string `json:"code" binding:"required"`
	UserID   string `json:"user_id" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type SubmitAnswerRequest struct {
	Code          string `json:"code" binding:"required"`
	UserID        string `json:"user_id" binding:"required"`
	QuestionIndex *int   `json:"question_index" binding:"required"`
	Answer        string `json:"answer"`
}

type SubmitScoreRequest struct {
	Code   string `json:"code" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
	Score  int    `json:"score"`
}

// AnswerResult reveals the correct answer only to the submitter, only for
// the question they just answered.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

type ScoreResult struct {
	CurrentRank int `json:"current_rank"`
}

// Join adds the user to a waiting quiz. Joining twice is an idempotent
// no-op; the storage layer enforces append-if-absent, so concurrent joins
// cannot lose updates.
func (s *PlayService) Join(ctx context.Context, req *JoinRequest) (*QuizView, error) {
	quiz, err := s.getQuiz(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if quiz.Status != models.StatusWaiting {
		return nil, ErrQuizNotJoinable
	}

	participant := &models.Participant{
		QuizID:   quiz.ID,
		UserID:   req.UserID,
		Username: req.Username,
		JoinedAt: time.Now(),
	}
	added, err := s.store.AddParticipant(ctx, participant)
	if err != nil {
		return nil, err
	}
	if added {
		quiz.Participants = append(quiz.Participants, *participant)
		s.publishState(ctx, quiz)
		s.broadcast(quiz.Code, "participant_joined", ParticipantView{
			UserID:   req.UserID,
			Username: req.Username,
		})
	}

	return newQuizView(quiz, req.UserID), nil
}

// Start transitions the quiz to active. Only the creator token authorizes
// it; the transition itself is conditional at the storage layer, so a lost
// race reports the quiz as already active.
func (s *PlayService) Start(ctx context.Context, code, creatorToken string) ([]QuestionView, error) {
	if _, err := s.tokens.Authorize(creatorToken, code); err != nil {
		return nil, err
	}
	quiz, err := s.getQuiz(ctx, code)
	if err != nil {
		return nil, err
	}
	if quiz.Status == models.StatusActive {
		return nil, ErrQuizAlreadyActive
	}
	if len(quiz.Participants) == 0 {
		return nil, ErrNoParticipants
	}

	now := time.Now()
	activated, err := s.store.ActivateQuiz(ctx, quiz.ID, now)
	if err != nil {
		return nil, err
	}
	if !activated {
		return nil, ErrQuizAlreadyActive
	}

	quiz.Status = models.StatusActive
	quiz.StartTime = &now
	s.publishState(ctx, quiz)
	s.broadcast(code, "quiz_started", map[string]interface{}{
		"code":       code,
		"start_time": now,
	})
	s.logger.Info("quiz started",
		zap.String("code", code),
		zap.Int("participants", len(quiz.Participants)),
	)

	return sanitizeQuestions(quiz.Questions), nil
}

// SubmitAnswer records one answer attempt. Resubmitting the same question
// appends another record; correctness is exact, case-sensitive string
// equality against the stored answer.
func (s *PlayService) SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest) (*AnswerResult, error) {
	quiz, err := s.getQuiz(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if quiz.Status != models.StatusActive {
		return nil, ErrQuizNotActive
	}
	index := *req.QuestionIndex
	if index < 0 || index >= len(quiz.Questions) {
		return nil, validationErrorf("question_index %d out of range [0, %d)", index, len(quiz.Questions))
	}

	question := quiz.Questions[index]
	correct := req.Answer == question.CorrectAnswer

	answer := &models.Answer{
		ID:            uuid.New().String(),
		QuizID:        quiz.ID,
		UserID:        req.UserID,
		QuestionIndex: index,
		Answer:        req.Answer,
		IsCorrect:     correct,
		SubmittedAt:   time.Now(),
	}
	if err := s.store.AppendAnswer(ctx, answer); err != nil {
		return nil, err
	}

	// The broadcast deliberately omits the answer and its correctness.
	s.broadcast(req.Code, "answer_submitted", map[string]interface{}{
		"user_id":        req.UserID,
		"question_index": index,
	})

	return &AnswerResult{Correct: correct, CorrectAnswer: question.CorrectAnswer}, nil
}

// SubmitScore appends the caller-supplied score and returns its rank among
// the scores recorded before it (1 + number of strictly greater entries).
// The score is not rederived from the answer log.
func (s *PlayService) SubmitScore(ctx context.Context, req *SubmitScoreRequest) (*ScoreResult, error) {
	quiz, err := s.getQuiz(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	rank := 1
	for _, existing := range quiz.Scores {
		if existing.Score > req.Score {
			rank++
		}
	}

	score := &models.Score{
		ID:          uuid.New().String(),
		QuizID:      quiz.ID,
		UserID:      req.UserID,
		Score:       req.Score,
		SubmittedAt: time.Now(),
	}
	if err := s.store.AppendScore(ctx, score); err != nil {
		return nil, err
	}

	s.publishState(ctx, quiz)
	s.broadcast(req.Code, "score_submitted", map[string]interface{}{
		"user_id": req.UserID,
		"score":   req.Score,
		"rank":    rank,
	})

	return &ScoreResult{CurrentRank: rank}, nil
}

// Leaderboard ranks every score submission descending. Ties go to the
// earlier submission. Users with multiple submissions appear once per
// submission.
func (s *PlayService) Leaderboard(ctx context.Context, code string) ([]LeaderboardEntry, error) {
	quiz, err := s.getQuiz(ctx, code)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(quiz.Scores))
	for i, score := range quiz.Scores {
		entries[i] = LeaderboardEntry{
			UserID:      score.UserID,
			Score:       score.Score,
			SubmittedAt: score.SubmittedAt,
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].SubmittedAt.Before(entries[j].SubmittedAt)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *PlayService) getQuiz(ctx context.Context, code string) (*models.Quiz, error) {
	quiz, err := s.store.GetQuiz(ctx, code)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *PlayService) publishState(ctx context.Context, quiz *models.Quiz) {
	if s.live == nil {
		return
	}
	s.live.Store(ctx, &QuizState{
		Code:             quiz.Code,
		Status:           quiz.Status,
		ParticipantCount: len(quiz.Participants),
		StartTime:        quiz.StartTime,
	})
}

func (s *PlayService) broadcast(code, eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(code, eventType, payload)
}
