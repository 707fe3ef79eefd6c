package store

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/asukabase7/ip-skill-quiz/internal/domain/question"
	"github.com/asukabase7/ip-skill-quiz/internal/domain/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    exam_type TEXT NOT NULL,
    category TEXT NOT NULL,
    scenario TEXT,
    question_text TEXT NOT NULL,
    option_a TEXT NOT NULL,
    option_b TEXT NOT NULL,
    option_c TEXT NOT NULL,
    option_d TEXT NOT NULL,
    correct_answer TEXT NOT NULL,
    explanation TEXT
);

CREATE TABLE IF NOT EXISTS history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id INTEGER NOT NULL,
    is_correct INTEGER NOT NULL,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (question_id) REFERENCES questions(id)
);
`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Questions
// ============================================================================

const questionColumns = "id, exam_type, category, scenario, question_text, option_a, option_b, option_c, option_d"

// appendExamSeries adds the WHERE clause for an exam-series filter.
// "past" matches the three real past exams, "ai" the AI mock set, and an
// explicit series name is a prefix match; anything else is ignored.
// alias is a table prefix such as "q." for joined queries.
func appendExamSeries(series, alias string, where *[]string, args *[]any) {
	switch series {
	case "":
	case question.SeriesPast:
		*where = append(*where, "("+alias+"exam_type LIKE ? OR "+alias+"exam_type LIKE ? OR "+alias+"exam_type LIKE ?)")
		*args = append(*args, "第50回%", "第51回%", "第52回%")
	case question.SeriesAI:
		*where = append(*where, alias+"exam_type = ?")
		*args = append(*args, "AI模擬")
	case "第50回", "第51回", "第52回":
		*where = append(*where, alias+"exam_type LIKE ?")
		*args = append(*args, series+"%")
	}
}

// ListQuestions returns the client-visible question records matching the
// filter, ordered by id. In review mode only questions whose most recent
// history entry is incorrect are returned.
func (s *SQLiteStore) ListQuestions(ctx context.Context, f question.Filter) ([]question.Question, error) {
	var (
		query string
		where []string
		args  []any
	)

	if f.Review {
		query = "SELECT q.id, q.exam_type, q.category, q.scenario, q.question_text, " +
			"q.option_a, q.option_b, q.option_c, q.option_d FROM questions q " +
			"JOIN history h ON q.id = h.question_id " +
			"WHERE h.timestamp = (SELECT MAX(timestamp) FROM history WHERE question_id = q.id) " +
			"AND h.is_correct = 0"
		appendExamSeries(f.ExamSeries, "q.", &where, &args)
		if f.Category != "" {
			where = append(where, "q.category = ?")
			args = append(args, f.Category)
		}
		for _, clause := range where {
			query += " AND " + clause
		}
		query += " ORDER BY q.id"
	} else {
		query = "SELECT " + questionColumns + " FROM questions WHERE 1=1"
		appendExamSeries(f.ExamSeries, "", &where, &args)
		if f.Category != "" {
			where = append(where, "category = ?")
			args = append(args, f.Category)
		}
		for _, clause := range where {
			query += " AND " + clause
		}
		query += " ORDER BY id"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []question.Question
	for rows.Next() {
		var q question.Question
		var scenario sql.NullString
		if err := rows.Scan(&q.ID, &q.ExamType, &q.Category, &scenario, &q.QuestionText,
			&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD); err != nil {
			return nil, err
		}
		q.Scenario = scenario.String
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetQuestion loads one question with its server-side answer fields.
func (s *SQLiteStore) GetQuestion(ctx context.Context, id int64) (*StoredQuestion, error) {
	var q StoredQuestion
	var scenario, explanation sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT "+questionColumns+", correct_answer, explanation FROM questions WHERE id = ?", id,
	).Scan(&q.ID, &q.ExamType, &q.Category, &scenario, &q.QuestionText,
		&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectAnswer, &explanation)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	q.Scenario = scenario.String
	q.Explanation = explanation.String
	return &q, nil
}

// InsertQuestion adds one question and fills in its assigned id.
func (s *SQLiteStore) InsertQuestion(ctx context.Context, q *StoredQuestion) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO questions (exam_type, category, scenario, question_text,
		 option_a, option_b, option_c, option_d, correct_answer, explanation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ExamType, q.Category, nullable(q.Scenario), q.QuestionText,
		q.OptionA, q.OptionB, q.OptionC, q.OptionD, string(q.CorrectAnswer), q.Explanation,
	)
	if err != nil {
		return err
	}
	q.ID, err = result.LastInsertId()
	return err
}

// ReplaceQuestions atomically swaps the entire question universe, assigning
// fresh ids. Answer history is kept; review mode simply stops matching ids
// that no longer exist.
func (s *SQLiteStore) ReplaceQuestions(ctx context.Context, questions []StoredQuestion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM questions"); err != nil {
		return err
	}

	for i := range questions {
		q := &questions[i]
		result, err := tx.ExecContext(ctx,
			`INSERT INTO questions (exam_type, category, scenario, question_text,
			 option_a, option_b, option_c, option_d, correct_answer, explanation)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			q.ExamType, q.Category, nullable(q.Scenario), q.QuestionText,
			q.OptionA, q.OptionB, q.OptionC, q.OptionD, string(q.CorrectAnswer), q.Explanation,
		)
		if err != nil {
			return err
		}
		if q.ID, err = result.LastInsertId(); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ============================================================================
// History
// ============================================================================

// RecordOutcome appends one answer outcome to the history table.
func (s *SQLiteStore) RecordOutcome(ctx context.Context, questionID int64, correct bool) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO history (question_id, is_correct) VALUES (?, ?)",
		questionID, boolToInt(correct),
	)
	return err
}

// CategoryAccuracy aggregates the full answer history into per-category
// totals, ordered by category name. Categories with no recorded answers do
// not appear.
func (s *SQLiteStore) CategoryAccuracy(ctx context.Context) ([]report.CategoryStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.category,
		       COUNT(*) AS total,
		       SUM(CASE WHEN h.is_correct = 1 THEN 1 ELSE 0 END) AS correct
		FROM history h
		JOIN questions q ON q.id = h.question_id
		GROUP BY q.category
		HAVING total > 0
		ORDER BY q.category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []report.CategoryStat
	for rows.Next() {
		var stat report.CategoryStat
		if err := rows.Scan(&stat.Category, &stat.Total, &stat.Correct); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
