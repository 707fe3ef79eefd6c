package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asukabase7/ip-skill-quiz/internal/domain/question"
	"github.com/asukabase7/ip-skill-quiz/internal/service"
	"github.com/asukabase7/ip-skill-quiz/internal/store"
)

func newQuizService(t *testing.T) (*service.QuizService, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "quiz_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return service.NewQuizService(s, discardLogger()), s
}

func TestQuizService_CheckAnswer(t *testing.T) {
	svc, s := newQuizService(t)

	q := &store.StoredQuestion{
		Question: question.Question{
			ExamType: "第52回 学科", Category: "特許法",
			QuestionText: "問題", OptionA: "a", OptionB: "b",
		},
		CorrectAnswer: question.LabelB,
		Explanation:   "解説文",
	}
	require.NoError(t, s.InsertQuestion(context.Background(), q))

	verdict, err := svc.CheckAnswer(context.Background(), q.ID, question.LabelB)
	require.NoError(t, err)
	assert.True(t, verdict.Correct)
	assert.Equal(t, question.LabelB, verdict.CorrectAnswer)
	assert.Equal(t, "解説文", verdict.Explanation)

	verdict, err = svc.CheckAnswer(context.Background(), q.ID, question.LabelA)
	require.NoError(t, err)
	assert.False(t, verdict.Correct)
	assert.Equal(t, question.LabelB, verdict.CorrectAnswer)
}

func TestQuizService_CheckAnswer_UnknownQuestion(t *testing.T) {
	svc, _ := newQuizService(t)

	_, err := svc.CheckAnswer(context.Background(), 42, question.LabelA)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestQuizService_RecordAndAccuracy(t *testing.T) {
	svc, s := newQuizService(t)

	q := &store.StoredQuestion{
		Question: question.Question{
			ExamType: "AI模擬", Category: "商標法",
			QuestionText: "問題", OptionA: "a",
		},
		CorrectAnswer: question.LabelA,
	}
	require.NoError(t, s.InsertQuestion(context.Background(), q))

	require.NoError(t, svc.Record(context.Background(), q.ID, true))
	require.NoError(t, svc.Record(context.Background(), q.ID, false))

	stats, err := svc.CategoryAccuracy(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "商標法", stats[0].Category)
	assert.Equal(t, 50, stats[0].AccuracyPercent())
}
