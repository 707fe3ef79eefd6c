package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/asukabase7/ip-skill-quiz/internal/domain/question"
)

// State is the position of a session in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingSelection
	StateAnswered
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingSelection:
		return "awaiting_selection"
	case StateAnswered:
		return "answered"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// FallbackCategory buckets outcomes of questions with no category.
// It is applied at answer-record time, not at question-load time.
const FallbackCategory = "その他"

var (
	// ErrEmptySelection means neither the candidate list nor the question
	// universe had any questions; the session was not started.
	ErrEmptySelection = errors.New("no questions available")

	// ErrNoActiveQuestion means SelectAnswer was called with no question shown.
	ErrNoActiveQuestion = errors.New("no active question")

	// ErrAlreadyAnswered means the current question already has an answer
	// submitted; the duplicate submission was ignored.
	ErrAlreadyAnswered = errors.New("question already answered")
)

// JudgeError wraps a failed judge call. The affected question is not recorded
// as an outcome; the streak is reset and the session may still advance.
type JudgeError struct {
	QuestionID int64
	Wrapped    error
}

func (e *JudgeError) Error() string {
	return fmt.Sprintf("answer evaluation failed for question %d: %v", e.QuestionID, e.Wrapped)
}

func (e *JudgeError) Unwrap() error {
	return e.Wrapped
}

// Outcome is the recorded correctness of one answered question.
// Outcomes are appended in answer order and never mutated.
type Outcome struct {
	Category string
	Correct  bool
}

// Judge decides whether a submitted answer to a question is correct.
type Judge interface {
	CheckAnswer(ctx context.Context, questionID int64, answer question.Label) (question.Verdict, error)
}

// Recorder persists one (question, correctness) outcome. Calls are
// fire-and-forget: implementations must return without blocking and must
// swallow their own failures; the session never observes either.
type Recorder interface {
	RecordOutcome(questionID int64, correct bool)
}

// Controller drives a single user through one quiz session at a time:
// question shown → answer evaluated → next question or session complete.
// It is not safe for concurrent use; one external event is processed at
// a time, which is also what the answered guard in SelectAnswer assumes.
type Controller struct {
	judge    Judge
	recorder Recorder

	universe []question.Question // fallback for Start(nil)

	state    State
	list     []question.Question
	index    int
	correct  int
	streak   int
	answered bool
	outcomes []Outcome
}

// NewController creates an idle controller. The universe is the full known
// question set, used as the fallback when Start is given an empty list.
// recorder may be nil, in which case outcomes are not reported anywhere.
func NewController(universe []question.Question, judge Judge, recorder Recorder) *Controller {
	return &Controller{
		judge:    judge,
		recorder: recorder,
		universe: universe,
		state:    StateIdle,
	}
}

// Start begins a new session over a shuffled copy of the candidate list.
// An empty candidate list falls back to the full universe; if that too is
// empty, Start returns ErrEmptySelection and the controller stays as it was.
func (c *Controller) Start(candidates []question.Question) error {
	if len(candidates) == 0 {
		candidates = c.universe
	}
	if len(candidates) == 0 {
		return ErrEmptySelection
	}

	c.list = shuffle(candidates)
	c.index = 0
	c.correct = 0
	c.streak = 0
	c.answered = false
	c.outcomes = nil
	c.state = StateAwaitingSelection
	return nil
}

// Current returns the question currently shown, if any.
func (c *Controller) Current() (question.Question, bool) {
	if c.state != StateAwaitingSelection && c.state != StateAnswered {
		return question.Question{}, false
	}
	return c.list[c.index], true
}

// SelectAnswer submits an answer for the current question and folds the
// judge's verdict into the session tallies.
//
// A second submission for the same question returns ErrAlreadyAnswered and
// changes nothing. If the judge call fails, no outcome is recorded and the
// counts are untouched, but the streak resets and the session moves to
// StateAnswered so the user can still advance past the question.
func (c *Controller) SelectAnswer(ctx context.Context, answer question.Label) (question.Verdict, error) {
	switch c.state {
	case StateAnswered:
		return question.Verdict{}, ErrAlreadyAnswered
	case StateAwaitingSelection:
	default:
		return question.Verdict{}, ErrNoActiveQuestion
	}
	if c.answered {
		return question.Verdict{}, ErrAlreadyAnswered
	}
	c.answered = true

	q := c.list[c.index]
	verdict, err := c.judge.CheckAnswer(ctx, q.ID, answer)
	if err != nil {
		c.streak = 0
		c.state = StateAnswered
		return question.Verdict{}, &JudgeError{QuestionID: q.ID, Wrapped: err}
	}

	category := q.Category
	if category == "" {
		category = FallbackCategory
	}
	c.outcomes = append(c.outcomes, Outcome{Category: category, Correct: verdict.Correct})

	if verdict.Correct {
		c.correct++
		c.streak++
	} else {
		c.streak = 0
	}

	if c.recorder != nil {
		c.recorder.RecordOutcome(q.ID, verdict.Correct)
	}

	c.state = StateAnswered
	return verdict, nil
}

// Advance moves past the current question. When the list is exhausted the
// session completes and the final tally stays available until the next
// Start or Abort. Advancing in any other state is a no-op.
func (c *Controller) Advance() State {
	if c.state != StateAnswered {
		return c.state
	}

	c.index++
	if c.index >= len(c.list) {
		c.state = StateComplete
		return c.state
	}

	c.answered = false
	c.state = StateAwaitingSelection
	return c.state
}

// Abort discards the session and returns to idle without touching any
// external service. Aborting an idle controller is a no-op.
func (c *Controller) Abort() {
	if c.state == StateIdle {
		return
	}
	c.list = nil
	c.index = 0
	c.correct = 0
	c.streak = 0
	c.answered = false
	c.outcomes = nil
	c.state = StateIdle
}

// State reports the current lifecycle state.
func (c *Controller) State() State { return c.state }

// CorrectCount is the number of correctly answered questions so far.
func (c *Controller) CorrectCount() int { return c.correct }

// Streak is the length of the trailing run of correct outcomes.
func (c *Controller) Streak() int { return c.streak }

// Total is the number of questions in the running session.
func (c *Controller) Total() int { return len(c.list) }

// Progress returns the 1-based number of the current question and the total.
func (c *Controller) Progress() (current, total int) {
	if c.state == StateIdle {
		return 0, 0
	}
	current = c.index + 1
	if current > len(c.list) {
		current = len(c.list)
	}
	return current, len(c.list)
}

// Outcomes returns a copy of the per-question outcome log in answer order.
func (c *Controller) Outcomes() []Outcome {
	out := make([]Outcome, len(c.outcomes))
	copy(out, c.outcomes)
	return out
}

// Combo display policy: the indicator activates at two consecutive correct
// answers and its intensity tier is capped at 10.
const (
	comboThreshold = 2
	comboTierCap   = 10
)

// ComboTier maps a streak to a display intensity tier. Zero means the combo
// indicator is inactive.
func ComboTier(streak int) int {
	if streak < comboThreshold {
		return 0
	}
	if streak > comboTierCap {
		return comboTierCap
	}
	return streak
}

// shuffle returns a uniformly shuffled copy; the input is left untouched.
func shuffle(questions []question.Question) []question.Question {
	shuffled := make([]question.Question, len(questions))
	copy(shuffled, questions)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}
