// Package apiclient is the HTTP client for the quiz service: it fetches
// question lists, asks the answer judge for verdicts, and posts outcome
// records. It is the transport the session engine normally runs against.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/asukabase7/ip-skill-quiz/internal/domain/question"
	"github.com/asukabase7/ip-skill-quiz/internal/domain/session"
)

// Kind classifies which collaborator call failed.
type Kind int

const (
	// KindQuestionsUnavailable: the question fetch failed. Fatal to session
	// start; distinct from an empty (but successful) selection.
	KindQuestionsUnavailable Kind = iota
	// KindJudgeUnavailable: the answer judge call failed or was malformed.
	// The question stays unscored and the streak resets.
	KindJudgeUnavailable
	// KindRecorderUnavailable: the outcome record failed. Always swallowed
	// by callers.
	KindRecorderUnavailable
	// KindComboUnavailable: the server-side combo reset failed. Advisory;
	// the in-engine streak is unaffected.
	KindComboUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindQuestionsUnavailable:
		return "questions unavailable"
	case KindJudgeUnavailable:
		return "judge unavailable"
	case KindRecorderUnavailable:
		return "recorder unavailable"
	case KindComboUnavailable:
		return "combo reset unavailable"
	}
	return "unknown"
}

// Error is returned for every failed call so the caller can distinguish
// which collaborator was unreachable.
type Error struct {
	Kind    Kind
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Wrapped)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Client calls the quiz service API.
type Client struct {
	baseURL string       // e.g. "http://localhost:8080"
	client  *http.Client // reused across calls
}

// Compile-time check: *Client judges answers for a session.
var _ session.Judge = (*Client)(nil)

// New creates a client for the service at baseURL. The cookie jar keeps the
// server-side combo counter tied to this client across calls.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// FetchQuestions retrieves the question records matching the filter.
// An empty filter fetches the full universe.
func (c *Client) FetchQuestions(ctx context.Context, f question.Filter) ([]question.Question, error) {
	params := url.Values{}
	if f.ExamSeries != "" {
		params.Set("exam_series", f.ExamSeries)
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.Review {
		params.Set("mode", "review")
	}

	endpoint := c.baseURL + "/api/questions"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: KindQuestionsUnavailable, Wrapped: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindQuestionsUnavailable, Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindQuestionsUnavailable, Wrapped: fmt.Errorf("service returned status %d", resp.StatusCode)}
	}

	var questions []question.Question
	if err := json.NewDecoder(resp.Body).Decode(&questions); err != nil {
		return nil, &Error{Kind: KindQuestionsUnavailable, Wrapped: err}
	}
	return questions, nil
}

// HasReviewQuestions reports whether any previously-missed questions exist.
// Advisory only: it gates the review entry point in a UI, never Start itself.
func (c *Client) HasReviewQuestions(ctx context.Context) (bool, error) {
	questions, err := c.FetchQuestions(ctx, question.Filter{Review: true})
	if err != nil {
		return false, err
	}
	return len(questions) > 0, nil
}

type checkResponse struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// CheckAnswer asks the judge whether the submitted label is correct.
func (c *Client) CheckAnswer(ctx context.Context, questionID int64, answer question.Label) (question.Verdict, error) {
	endpoint := fmt.Sprintf("%s/api/check/%d?answer=%s",
		c.baseURL, questionID, url.QueryEscape(string(answer)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return question.Verdict{}, &Error{Kind: KindJudgeUnavailable, Wrapped: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return question.Verdict{}, &Error{Kind: KindJudgeUnavailable, Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return question.Verdict{}, &Error{Kind: KindJudgeUnavailable, Wrapped: fmt.Errorf("service returned status %d", resp.StatusCode)}
	}

	var body checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return question.Verdict{}, &Error{Kind: KindJudgeUnavailable, Wrapped: err}
	}

	return question.Verdict{
		Correct:       body.IsCorrect,
		CorrectAnswer: question.Label(body.CorrectAnswer),
		Explanation:   body.Explanation,
	}, nil
}

type recordRequest struct {
	QuestionID int64 `json:"question_id"`
	IsCorrect  bool  `json:"is_correct"`
}

// Record posts one answer outcome. The response body is ignored; callers are
// expected to swallow the returned error (see service.RecordService).
func (c *Client) Record(ctx context.Context, questionID int64, correct bool) error {
	payload, err := json.Marshal(recordRequest{QuestionID: questionID, IsCorrect: correct})
	if err != nil {
		return &Error{Kind: KindRecorderUnavailable, Wrapped: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/record", bytes.NewReader(payload))
	if err != nil {
		return &Error{Kind: KindRecorderUnavailable, Wrapped: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Kind: KindRecorderUnavailable, Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Kind: KindRecorderUnavailable, Wrapped: fmt.Errorf("service returned status %d", resp.StatusCode)}
	}
	return nil
}

// ResetCombo resets the caller's server-side streak counter. Called once at
// quiz start.
func (c *Client) ResetCombo(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/quiz/start", nil)
	if err != nil {
		return &Error{Kind: KindComboUnavailable, Wrapped: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Kind: KindComboUnavailable, Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Kind: KindComboUnavailable, Wrapped: fmt.Errorf("service returned status %d", resp.StatusCode)}
	}
	return nil
}
