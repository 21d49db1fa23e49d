package services_test

import (
	"context"
	"testing"
	"time"

	"quizroom/services"
	"quizroom/store"

	"go.uber.org/zap"
)

type playFixture struct {
	quizzes *services.QuizService
	play    *services.PlayService
	code    string
	token   string
}

func newPlayFixture(t *testing.T) *playFixture {
	t.Helper()
	st := store.NewMemoryStore()
	tokens := services.NewTokenService("test-secret", time.Hour)
	logger := zap.NewNop()
	quizzes := services.NewQuizService(st, tokens, logger)
	play := services.NewPlayService(st, tokens, nil, nil, logger)

	result, err := quizzes.CreateQuiz(context.Background(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return &playFixture{quizzes: quizzes, play: play, code: result.Code, token: result.CreatorToken}
}

func (f *playFixture) join(t *testing.T, userID, username string) *services.QuizView {
	t.Helper()
	view, err := f.play.Join(context.Background(), &services.JoinRequest{
		Code:     f.code,
		UserID:   userID,
		Username: username,
	})
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	return view
}

func (f *playFixture) start(t *testing.T) []services.QuestionView {
	t.Helper()
	questions, err := f.play.Start(context.Background(), f.code, f.token)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return questions
}

func intPtr(i int) *int { return &i }

func TestJoinIsIdempotentPerUser(t *testing.T) {
	f := newPlayFixture(t)

	first := f.join(t, "u2", "Bob")
	if first.ParticipantCount != 1 {
		t.Fatalf("expected 1 participant, got %d", first.ParticipantCount)
	}

	second := f.join(t, "u2", "Bob")
	if second.ParticipantCount != 1 {
		t.Fatalf("rejoin changed participant count: %d", second.ParticipantCount)
	}

	third := f.join(t, "u3", "Carol")
	if third.ParticipantCount != 2 {
		t.Fatalf("expected 2 participants, got %d", third.ParticipantCount)
	}
}

func TestJoinFailsOnceStarted(t *testing.T) {
	f := newPlayFixture(t)
	f.join(t, "u2", "Bob")
	f.start(t)

	_, err := f.play.Join(context.Background(), &services.JoinRequest{
		Code: f.code, UserID: "u3", Username: "Carol",
	})
	if err != services.ErrQuizNotJoinable {
		t.Fatalf("expected not joinable, got %v", err)
	}
}

func TestJoinUnknownCode(t *testing.T) {
	f := newPlayFixture(t)
	_, err := f.play.Join(context.Background(), &services.JoinRequest{
		Code: "NOPE42", UserID: "u2", Username: "Bob",
	})
	if err != services.ErrQuizNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStartRules(t *testing.T) {
	f := newPlayFixture(t)
	ctx := context.Background()

	// No participants yet.
	if _, err := f.play.Start(ctx, f.code, f.token); err != services.ErrNoParticipants {
		t.Fatalf("expected no-participants error, got %v", err)
	}

	// Wrong token.
	f.join(t, "u2", "Bob")
	if _, err := f.play.Start(ctx, f.code, "bogus"); err != services.ErrForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	questions := f.start(t)
	if len(questions) != 1 {
		t.Fatalf("expected sanitized question list, got %d entries", len(questions))
	}

	view, err := f.quizzes.GetPublic(ctx, f.code, "")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if view.Status != "active" || view.StartTime == nil {
		t.Fatalf("expected active quiz with start time, got status=%q", view.Status)
	}

	// Starting twice conflicts.
	if _, err := f.play.Start(ctx, f.code, f.token); err != services.ErrQuizAlreadyActive {
		t.Fatalf("expected already-active error, got %v", err)
	}
}

func TestSubmitAnswer(t *testing.T) {
	f := newPlayFixture(t)
	ctx := context.Background()
	f.join(t, "u2", "Bob")

	// Quiz not active yet.
	_, err := f.play.SubmitAnswer(ctx, &services.SubmitAnswerRequest{
		Code: f.code, UserID: "u2", QuestionIndex: intPtr(0), Answer: "Paris",
	})
	if err != services.ErrQuizNotActive {
		t.Fatalf("expected not-active error, got %v", err)
	}

	f.start(t)

	// Out-of-range index.
	_, err = f.play.SubmitAnswer(ctx, &services.SubmitAnswerRequest{
		Code: f.code, UserID: "u2", QuestionIndex: intPtr(5), Answer: "Paris",
	})
	if !services.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Correct answer, exact match.
	result, err := f.play.SubmitAnswer(ctx, &services.SubmitAnswerRequest{
		Code: f.code, UserID: "u2", QuestionIndex: intPtr(0), Answer: "Paris",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !result.Correct || result.CorrectAnswer != "Paris" {
		t.Fatalf("unexpected result %+v", result)
	}

	// Comparison is case-sensitive.
	result, err = f.play.SubmitAnswer(ctx, &services.SubmitAnswerRequest{
		Code: f.code, UserID: "u2", QuestionIndex: intPtr(0), Answer: "paris",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Correct {
		t.Fatalf("lowercase answer should not match")
	}

	// Resubmission appends; both records are visible in the admin view.
	quiz, err := f.quizzes.GetAdmin(ctx, f.code, f.token)
	if err != nil {
		t.Fatalf("admin get failed: %v", err)
	}
	if len(quiz.Answers) != 2 {
		t.Fatalf("expected 2 answer records, got %d", len(quiz.Answers))
	}
}

func TestSubmitScoreRankSnapshot(t *testing.T) {
	f := newPlayFixture(t)
	ctx := context.Background()

	submit := func(userID string, score int) int {
		result, err := f.play.SubmitScore(ctx, &services.SubmitScoreRequest{
			Code: f.code, UserID: userID, Score: score,
		})
		if err != nil {
			t.Fatalf("submit score failed: %v", err)
		}
		return result.CurrentRank
	}

	if rank := submit("u1", 90); rank != 1 {
		t.Fatalf("first submission should rank 1, got %d", rank)
	}
	if rank := submit("u2", 70); rank != 2 {
		t.Fatalf("expected rank 2, got %d", rank)
	}
	// 80 beats 70 and loses to 90: rank 2 against the prior snapshot.
	if rank := submit("u3", 80); rank != 2 {
		t.Fatalf("expected rank 2, got %d", rank)
	}
}

func TestSubmitScoreUnknownCode(t *testing.T) {
	f := newPlayFixture(t)
	_, err := f.play.SubmitScore(context.Background(), &services.SubmitScoreRequest{
		Code: "NOPE42", UserID: "u1", Score: 10,
	})
	if err != services.ErrQuizNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	f := newPlayFixture(t)
	ctx := context.Background()

	for _, s := range []struct {
		user  string
		score int
	}{{"a", 50}, {"b", 90}, {"c", 70}} {
		if _, err := f.play.SubmitScore(ctx, &services.SubmitScoreRequest{
			Code: f.code, UserID: s.user, Score: s.score,
		}); err != nil {
			t.Fatalf("submit score failed: %v", err)
		}
	}

	entries, err := f.play.Leaderboard(ctx, f.code)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantOrder := []struct {
		user  string
		score int
		rank  int
	}{{"b", 90, 1}, {"c", 70, 2}, {"a", 50, 3}}
	for i, want := range wantOrder {
		got := entries[i]
		if got.UserID != want.user || got.Score != want.score || got.Rank != want.rank {
			t.Fatalf("entry %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestLeaderboardDuplicateUsers(t *testing.T) {
	f := newPlayFixture(t)
	ctx := context.Background()

	for _, score := range []int{40, 60} {
		if _, err := f.play.SubmitScore(ctx, &services.SubmitScoreRequest{
			Code: f.code, UserID: "u1", Score: score,
		}); err != nil {
			t.Fatalf("submit score failed: %v", err)
		}
	}

	entries, err := f.play.Leaderboard(ctx, f.code)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("duplicate submissions should rank independently, got %d entries", len(entries))
	}
	if entries[0].Score != 60 || entries[1].Score != 40 {
		t.Fatalf("unexpected ordering: %+v", entries)
	}
}

// Full lifecycle: create, join, start, answer.
func TestQuizLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	tokens := services.NewTokenService("test-secret", time.Hour)
	logger := zap.NewNop()
	quizzes := services.NewQuizService(st, tokens, logger)
	play := services.NewPlayService(st, tokens, nil, nil, logger)

	created, err := quizzes.CreateQuiz(ctx, &services.CreateQuizRequest{
		Title:     "T",
		Category:  "C",
		CreatedBy: "u1",
		Questions: []services.CreateQuestionRequest{
			{Text: "Q1", Type: "multiple", Options: []string{"A", "B"}, CorrectAnswer: "A"},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	view, err := play.Join(ctx, &services.JoinRequest{Code: created.Code, UserID: "u2", Username: "Bob"})
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if view.ParticipantCount != 1 {
		t.Fatalf("expected participant count 1, got %d", view.ParticipantCount)
	}

	questions, err := play.Start(ctx, created.Code, created.CreatorToken)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if len(questions) != 1 || questions[0].Text != "Q1" {
		t.Fatalf("unexpected questions %+v", questions)
	}

	result, err := play.SubmitAnswer(ctx, &services.SubmitAnswerRequest{
		Code: created.Code, UserID: "u2", QuestionIndex: intPtr(0), Answer: "A",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !result.Correct || result.CorrectAnswer != "A" {
		t.Fatalf("unexpected result %+v", result)
	}
}
