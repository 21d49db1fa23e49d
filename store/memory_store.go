package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"quizroom/models"
)

// MemoryStore is an in-memory QuizStore used in tests and for running the
// service without a database. All methods hold the store mutex, which gives
// appends the same atomicity the gorm implementation gets from the database.
type MemoryStore struct {
	mu      sync.RWMutex
	quizzes map[string]*models.Quiz
	nextID  uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{quizzes: make(map[string]*models.Quiz)}
}

func (s *MemoryStore) CreateQuiz(_ context.Context, quiz *models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	quiz.ID = s.nextID
	quiz.CreatedAt = time.Now()
	for i := range quiz.Questions {
		quiz.Questions[i].QuizID = quiz.ID
	}
	stored := cloneQuiz(quiz)
	s.quizzes[quiz.Code] = &stored
	return nil
}

func (s *MemoryStore) GetQuiz(_ context.Context, code string) (*models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quiz, ok := s.quizzes[code]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneQuiz(quiz)
	return &out, nil
}

func (s *MemoryStore) CodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.quizzes[code]
	return ok, nil
}

func (s *MemoryStore) ListQuizzes(_ context.Context) ([]models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Quiz, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		out = append(out, cloneQuiz(quiz))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) AddParticipant(_ context.Context, participant *models.Participant) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz := s.findByID(participant.QuizID)
	if quiz == nil {
		return false, ErrNotFound
	}
	if quiz.HasParticipant(participant.UserID) {
		return false, nil
	}
	s.nextID++
	participant.ID = s.nextID
	quiz.Participants = append(quiz.Participants, *participant)
	return true, nil
}

func (s *MemoryStore) ActivateQuiz(_ context.Context, quizID uint, startTime time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz := s.findByID(quizID)
	if quiz == nil {
		return false, ErrNotFound
	}
	if quiz.Status != models.StatusWaiting {
		return false, nil
	}
	quiz.Status = models.StatusActive
	t := startTime
	quiz.StartTime = &t
	return true, nil
}

func (s *MemoryStore) AppendScore(_ context.Context, score *models.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz := s.findByID(score.QuizID)
	if quiz == nil {
		return ErrNotFound
	}
	quiz.Scores = append(quiz.Scores, *score)
	return nil
}

func (s *MemoryStore) AppendAnswer(_ context.Context, answer *models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz := s.findByID(answer.QuizID)
	if quiz == nil {
		return ErrNotFound
	}
	quiz.Answers = append(quiz.Answers, *answer)
	return nil
}

func (s *MemoryStore) findByID(quizID uint) *models.Quiz {
	for _, quiz := range s.quizzes {
		if quiz.ID == quizID {
			return quiz
		}
	}
	return nil
}

// cloneQuiz copies the quiz and its slices so callers cannot mutate stored
// state outside the lock.
func cloneQuiz(quiz *models.Quiz) models.Quiz {
	out := *quiz
	out.Questions = append([]models.Question(nil), quiz.Questions...)
	for i := range out.Questions {
		out.Questions[i].Options = append([]string(nil), quiz.Questions[i].Options...)
	}
	out.Participants = append([]models.Participant(nil), quiz.Participants...)
	out.Scores = append([]models.Score(nil), quiz.Scores...)
	out.Answers = append([]models.Answer(nil), quiz.Answers...)
	return out
}
