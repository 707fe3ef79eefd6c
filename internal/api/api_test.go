package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asukabase7/ip-skill-quiz/internal/api"
	"github.com/asukabase7/ip-skill-quiz/internal/domain/question"
	"github.com/asukabase7/ip-skill-quiz/internal/service"
	"github.com/asukabase7/ip-skill-quiz/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.SQLiteStore) {
	t.Helper()

	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "quiz_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.DiscardHandler)
	handler := api.NewHandler(service.NewQuizService(db, logger), logger)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	srv := httptest.NewServer(api.Logging(logger)(api.CORS(mux)))
	t.Cleanup(srv.Close)
	return srv, db
}

func seedQuestion(t *testing.T, db *store.SQLiteStore, category string, correct question.Label) *store.StoredQuestion {
	t.Helper()
	q := &store.StoredQuestion{
		Question: question.Question{
			ExamType: "第52回 学科", Category: category,
			QuestionText: "問題文", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d",
		},
		CorrectAnswer: correct,
		Explanation:   "解説",
	}
	require.NoError(t, db.InsertQuestion(context.Background(), q))
	return q
}

// newCookieClient returns a client with a cookie jar, so the combo session
// cookie persists across requests like a browser's would.
func newCookieClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestListQuestions(t *testing.T) {
	srv, db := newTestServer(t)
	seedQuestion(t, db, "特許法", question.LabelA)
	seedQuestion(t, db, "著作権法", question.LabelB)

	resp, err := http.Get(srv.URL + "/api/questions")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var questions []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&questions))
	require.Len(t, questions, 2)

	// The correct answer and explanation must never appear in the list.
	_, leaked := questions[0]["correct_answer"]
	assert.False(t, leaked, "correct_answer leaked into question list")
	_, leaked = questions[0]["explanation"]
	assert.False(t, leaked, "explanation leaked into question list")
}

func TestListQuestions_EmptyIsJSONArray(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/questions")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))
}

func TestCheckAnswer(t *testing.T) {
	srv, db := newTestServer(t)
	q := seedQuestion(t, db, "特許法", question.LabelC)

	resp, err := http.Get(srv.URL + "/api/check/" + itoa(q.ID) + "?answer=" + url.QueryEscape("ウ"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		IsCorrect     bool    `json:"is_correct"`
		CorrectAnswer string  `json:"correct_answer"`
		Explanation   string  `json:"explanation"`
		Combo         int     `json:"combo"`
		Title         *string `json:"title"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.IsCorrect)
	assert.Equal(t, "ウ", body.CorrectAnswer)
	assert.Equal(t, "解説", body.Explanation)
	assert.Equal(t, 1, body.Combo)
	assert.Nil(t, body.Title, "no streak title below the lowest threshold")
}

func TestCheckAnswer_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/check/12345?answer=" + url.QueryEscape("ア"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckAnswer_ComboAcrossRequests(t *testing.T) {
	srv, db := newTestServer(t)
	q := seedQuestion(t, db, "特許法", question.LabelA)

	client := newCookieClient(t)

	// Five consecutive correct answers earn the first streak title.
	var last struct {
		Combo int     `json:"combo"`
		Title *string `json:"title"`
	}
	for i := 0; i < 5; i++ {
		resp, err := client.Get(srv.URL + "/api/check/" + itoa(q.ID) + "?answer=" + url.QueryEscape("ア"))
		require.NoError(t, err)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&last))
		resp.Body.Close()
	}
	assert.Equal(t, 5, last.Combo)
	require.NotNil(t, last.Title)
	assert.Equal(t, "駆け出し知財担当", *last.Title)

	// A wrong answer resets the combo.
	resp, err := client.Get(srv.URL + "/api/check/" + itoa(q.ID) + "?answer=" + url.QueryEscape("イ"))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&last))
	resp.Body.Close()
	assert.Equal(t, 0, last.Combo)
	assert.Nil(t, last.Title)
}

func TestQuizStart_ResetsCombo(t *testing.T) {
	srv, db := newTestServer(t)
	q := seedQuestion(t, db, "特許法", question.LabelA)

	client := newCookieClient(t)

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL + "/api/check/" + itoa(q.ID) + "?answer=" + url.QueryEscape("ア"))
		require.NoError(t, err)
		resp.Body.Close()
	}

	resp, err := client.Post(srv.URL+"/api/quiz/start", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Get(srv.URL + "/api/check/" + itoa(q.ID) + "?answer=" + url.QueryEscape("ア"))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Combo int `json:"combo"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Combo, "combo restarts from zero after quiz start")
}

func TestRecordAnswer(t *testing.T) {
	srv, db := newTestServer(t)
	q := seedQuestion(t, db, "特許法", question.LabelA)

	resp, err := http.Post(srv.URL+"/api/record", "application/json",
		strings.NewReader(`{"question_id": `+itoa(q.ID)+`, "is_correct": false}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The recorded miss shows up in review mode.
	review, err := db.ListQuestions(context.Background(), question.Filter{Review: true})
	require.NoError(t, err)
	require.Len(t, review, 1)
	assert.Equal(t, q.ID, review[0].ID)
}

func TestRecordAnswer_MissingFields(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/record", "application/json",
		strings.NewReader(`{"question_id": 1}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardStats(t *testing.T) {
	srv, db := newTestServer(t)
	patent := seedQuestion(t, db, "特許法", question.LabelA)
	copyright := seedQuestion(t, db, "著作権法", question.LabelA)

	ctx := context.Background()
	require.NoError(t, db.RecordOutcome(ctx, patent.ID, true))
	require.NoError(t, db.RecordOutcome(ctx, patent.ID, false))
	require.NoError(t, db.RecordOutcome(ctx, copyright.ID, true))

	resp, err := http.Get(srv.URL + "/api/dashboard/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Labels []string `json:"labels"`
		Data   []int    `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"特許法", "著作権法"}, body.Labels)
	assert.Equal(t, []int{50, 100}, body.Data)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/questions", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
