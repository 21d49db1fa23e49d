package store

import (
	"context"
	"errors"
	"time"

	"quizroom/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists quizzes in PostgreSQL through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	return s.db.WithContext(ctx).Create(quiz).Error
}

func (s *GormStore) GetQuiz(ctx context.Context, code string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).
		Where("code = ?", code).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("participants.joined_at")
		}).
		Preload("Scores", func(db *gorm.DB) *gorm.DB {
			return db.Order("scores.submitted_at")
		}).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.submitted_at")
		}).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

func (s *GormStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Quiz{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.WithContext(ctx).
		Preload("Participants").
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// AddParticipant relies on the (quiz_id, user_id) unique index: a duplicate
// join inserts nothing and reports added=false.
func (s *GormStore) AddParticipant(ctx context.Context, participant *models.Participant) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "quiz_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(participant)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ActivateQuiz is a conditional update so two concurrent starts cannot both
// succeed.
func (s *GormStore) ActivateQuiz(ctx context.Context, quizID uint, startTime time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.Quiz{}).
		Where("id = ? AND status = ?", quizID, models.StatusWaiting).
		Updates(map[string]interface{}{
			"status":     models.StatusActive,
			"start_time": startTime,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) AppendScore(ctx context.Context, score *models.Score) error {
	return s.db.WithContext(ctx).Create(score).Error
}

func (s *GormStore) AppendAnswer(ctx context.Context, answer *models.Answer) error {
	return s.db.WithContext(ctx).Create(answer).Error
}
