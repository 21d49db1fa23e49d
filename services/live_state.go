package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const liveStateTTL = 2 * time.Hour

// QuizState is the live snapshot cached in Redis and pushed to websocket
// clients when they connect. It carries no question content.
type QuizState struct {
	Code             string     `json:"code"`
	Status           string     `json:"status"`
	ParticipantCount int        `json:"participant_count"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// LiveState stores per-quiz snapshots in Redis with a TTL. Writes are
// best-effort: a cache failure is logged, never surfaced to the caller.
type LiveState struct {
	redis  *redis.Client
	logger *zap.Logger
}

func NewLiveState(client *redis.Client, logger *zap.Logger) *LiveState {
	return &LiveState{redis: client, logger: logger}
}

func (l *LiveState) Store(ctx context.Context, state *QuizState) {
	state.UpdatedAt = time.Now()
	data, err := json.Marshal(state)
	if err != nil {
		l.logger.Warn("marshal quiz state", zap.Error(err))
		return
	}
	if err := l.redis.Set(ctx, l.key(state.Code), data, liveStateTTL).Err(); err != nil {
		l.logger.Warn("store quiz state", zap.String("code", state.Code), zap.Error(err))
	}
}

// Get returns the cached snapshot or nil on a miss.
func (l *LiveState) Get(ctx context.Context, code string) *QuizState {
	data, err := l.redis.Get(ctx, l.key(code)).Result()
	if err != nil {
		if err != redis.Nil {
			l.logger.Warn("load quiz state", zap.String("code", code), zap.Error(err))
		}
		return nil
	}
	var state QuizState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		l.logger.Warn("unmarshal quiz state", zap.String("code", code), zap.Error(err))
		return nil
	}
	return &state
}

func (l *LiveState) key(code string) string {
	return "quiz:state:" + code
}
