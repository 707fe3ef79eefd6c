// Command importer replaces the question universe from CSV files:
//
//	importer -db quiz.db questions.csv ai_questions.csv
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/asukabase7/ip-skill-quiz/internal/importer"
	"github.com/asukabase7/ip-skill-quiz/internal/store"
)

func main() {
	dbPath := flag.String("db", "quiz.db", "path to the sqlite database")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"questions.csv", "ai_questions.csv"}
	}

	db, err := store.NewSQLite(*dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	count, err := importer.Run(context.Background(), db, paths, logger)
	if err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}

	logger.Info("import complete", "questions", count, "db", *dbPath)
}
