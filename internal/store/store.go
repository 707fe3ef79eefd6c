package store

import (
	"errors"

	"github.com/asukabase7/ip-skill-quiz/internal/domain/question"
)

var (
	ErrNotFound = errors.New("not found")
)

// StoredQuestion is a question as persisted, including the two fields that
// never leave the server: the correct answer and its explanation.
type StoredQuestion struct {
	question.Question
	CorrectAnswer question.Label
	Explanation   string
}
