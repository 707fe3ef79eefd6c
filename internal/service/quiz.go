package service

import (
	"context"
	"log/slog"

	"github.com/asukabase7/ip-skill-quiz/internal/domain/question"
	"github.com/asukabase7/ip-skill-quiz/internal/domain/report"
	"github.com/asukabase7/ip-skill-quiz/internal/domain/session"
	"github.com/asukabase7/ip-skill-quiz/internal/store"
)

// QuizService exposes the three collaborator operations of the quiz engine —
// question source, answer judge, outcome recorder — directly over the store.
// The HTTP handlers and the in-process simulation both sit on top of it, so
// the engine behaves identically with or without the network in between.
type QuizService struct {
	store  *store.SQLiteStore
	logger *slog.Logger
}

// Compile-time check: *QuizService can judge answers for a session.
var _ session.Judge = (*QuizService)(nil)

// NewQuizService creates a QuizService.
func NewQuizService(s *store.SQLiteStore, logger *slog.Logger) *QuizService {
	return &QuizService{store: s, logger: logger}
}

// Questions returns the question records matching the filter.
func (s *QuizService) Questions(ctx context.Context, f question.Filter) ([]question.Question, error) {
	return s.store.ListQuestions(ctx, f)
}

// CheckAnswer judges a submitted answer against the stored correct answer.
// Returns store.ErrNotFound for an unknown question.
func (s *QuizService) CheckAnswer(ctx context.Context, questionID int64, answer question.Label) (question.Verdict, error) {
	q, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return question.Verdict{}, err
	}

	return question.Verdict{
		Correct:       answer == q.CorrectAnswer,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}, nil
}

// Record appends one answer outcome to the history.
func (s *QuizService) Record(ctx context.Context, questionID int64, correct bool) error {
	return s.store.RecordOutcome(ctx, questionID, correct)
}

// CategoryAccuracy aggregates the recorded history per category.
func (s *QuizService) CategoryAccuracy(ctx context.Context) ([]report.CategoryStat, error) {
	return s.store.CategoryAccuracy(ctx)
}
