package services_test

import (
	"context"
	"testing"

	"quizroom/services"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestLiveState(t *testing.T) (*services.LiveState, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return services.NewLiveState(client, zap.NewNop()), mr
}

func TestLiveStateStoreAndGet(t *testing.T) {
	live, mr := newTestLiveState(t)
	ctx := context.Background()

	live.Store(ctx, &services.QuizState{
		Code:             "ABC123",
		Status:           "waiting",
		ParticipantCount: 3,
	})

	if !mr.Exists("quiz:state:ABC123") {
		t.Fatalf("expected redis key to be set")
	}

	state := live.Get(ctx, "ABC123")
	if state == nil {
		t.Fatalf("expected cached state")
	}
	if state.Status != "waiting" || state.ParticipantCount != 3 {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.UpdatedAt.IsZero() {
		t.Fatalf("expected updated_at to be set")
	}
}

func TestLiveStateMissReturnsNil(t *testing.T) {
	live, _ := newTestLiveState(t)

	if state := live.Get(context.Background(), "NOPE42"); state != nil {
		t.Fatalf("expected nil on cache miss, got %+v", state)
	}
}

func TestLiveStateOverwrite(t *testing.T) {
	live, _ := newTestLiveState(t)
	ctx := context.Background()

	live.Store(ctx, &services.QuizState{Code: "ABC123", Status: "waiting", ParticipantCount: 1})
	live.Store(ctx, &services.QuizState{Code: "ABC123", Status: "active", ParticipantCount: 2})

	state := live.Get(ctx, "ABC123")
	if state == nil || state.Status != "active" || state.ParticipantCount != 2 {
		t.Fatalf("expected latest snapshot, got %+v", state)
	}
}
