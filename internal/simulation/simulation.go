// Package simulation runs one complete quiz session in-process against the
// store-backed QuizService — no HTTP in between. Useful as a smoke run and
// as an end-to-end exercise of the engine wiring.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/asukabase7/ip-skill-quiz/internal/domain/question"
	"github.com/asukabase7/ip-skill-quiz/internal/domain/report"
	"github.com/asukabase7/ip-skill-quiz/internal/domain/session"
	"github.com/asukabase7/ip-skill-quiz/internal/service"
)

// Result summarizes one simulated session.
type Result struct {
	Total    int
	Correct  int
	Title    string
	Stats    []report.CategoryStat
	Skipped  int // questions whose judge call failed
}

// Run fetches the question universe matching the filter, answers every
// question with its first offered option, and returns the final tally.
func Run(ctx context.Context, quiz *service.QuizService, f question.Filter, logger *slog.Logger) (*Result, error) {
	universe, err := quiz.Questions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}

	recorder := service.NewRecordService(quiz, logger)
	defer recorder.Close()

	ctrl := session.NewController(universe, quiz, recorder)
	if err := ctrl.Start(nil); err != nil {
		return nil, err
	}

	result := &Result{Total: ctrl.Total()}

	for ctrl.State() == session.StateAwaitingSelection {
		q, ok := ctrl.Current()
		if !ok {
			break
		}
		options := q.Options()
		if len(options) == 0 {
			logger.Warn("question offers no options", "question_id", q.ID)
		}

		answer := question.LabelA
		if len(options) > 0 {
			answer = options[0].Label
		}

		verdict, err := ctrl.SelectAnswer(ctx, answer)
		var judgeErr *session.JudgeError
		switch {
		case errors.As(err, &judgeErr):
			result.Skipped++
			logger.Warn("judge unavailable, skipping question", "question_id", q.ID, "error", err)
		case err != nil:
			return nil, err
		default:
			logger.Info("answered",
				"question_id", q.ID,
				"correct", verdict.Correct,
				"streak", ctrl.Streak(),
				"combo_tier", session.ComboTier(ctrl.Streak()),
			)
		}

		ctrl.Advance()
	}

	result.Correct = ctrl.CorrectCount()
	result.Title = report.TitleForAccuracy(result.Correct, result.Total)
	result.Stats = report.ComputeCategoryStats(ctrl.Outcomes())

	logger.Info("session complete",
		"correct", result.Correct,
		"total", result.Total,
		"title", result.Title,
	)
	return result, nil
}
