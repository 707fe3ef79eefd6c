// Package importer loads question CSV files into the store, replacing the
// current universe. Expected columns: exam_type, category, scenario,
// question_text, option_a..option_d, correct_answer, explanation.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/asukabase7/ip-skill-quiz/internal/domain/question"
	"github.com/asukabase7/ip-skill-quiz/internal/store"
)

// Parse reads one CSV stream into stored-question records. Rows without a
// question text are skipped. An empty option stays empty so it will not be
// offered as a choice.
func Parse(r io.Reader) ([]store.StoredQuestion, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["question_text"]; !ok {
		return nil, fmt.Errorf("missing question_text column")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var questions []store.StoredQuestion
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		if field(row, "question_text") == "" {
			continue
		}

		questions = append(questions, store.StoredQuestion{
			Question: question.Question{
				ExamType:     field(row, "exam_type"),
				Category:     field(row, "category"),
				Scenario:     field(row, "scenario"),
				QuestionText: field(row, "question_text"),
				OptionA:      field(row, "option_a"),
				OptionB:      field(row, "option_b"),
				OptionC:      field(row, "option_c"),
				OptionD:      field(row, "option_d"),
			},
			CorrectAnswer: question.Label(field(row, "correct_answer")),
			Explanation:   field(row, "explanation"),
		})
	}
	return questions, nil
}

// Run parses every given CSV file and atomically replaces the questions
// table with their combined contents. Missing files are skipped with a log
// line so a partial CSV set still imports.
func Run(ctx context.Context, s *store.SQLiteStore, paths []string, logger *slog.Logger) (int, error) {
	var all []store.StoredQuestion

	for _, path := range paths {
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			logger.Warn("csv file not found, skipping", "path", path)
			continue
		}
		if err != nil {
			return 0, err
		}

		questions, err := Parse(f)
		f.Close()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}

		logger.Info("parsed csv", "path", path, "questions", len(questions))
		all = append(all, questions...)
	}

	if err := s.ReplaceQuestions(ctx, all); err != nil {
		return 0, err
	}
	return len(all), nil
}
