package api

import (
	"net/http"
	"strconv"

	"github.com/asukabase7/ip-skill-quiz/internal/domain/question"
	"github.com/asukabase7/ip-skill-quiz/internal/domain/report"
)

// ── Request / Response types ────────────────────────────────────────────────

type CheckAnswerResponse struct {
	IsCorrect     bool    `json:"is_correct"`
	CorrectAnswer string  `json:"correct_answer"`
	Explanation   string  `json:"explanation"`
	Combo         int     `json:"combo"`
	Title         *string `json:"title"`
}

type RecordAnswerRequest struct {
	QuestionID *int64 `json:"question_id"`
	IsCorrect  *bool  `json:"is_correct"`
}

type DashboardStatsResponse struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /api/questions
//
// Optional query params: exam_series (past | ai | explicit series name),
// category, mode=review. No params → the full universe.
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	filter := question.Filter{
		ExamSeries: r.URL.Query().Get("exam_series"),
		Category:   r.URL.Query().Get("category"),
		Review:     r.URL.Query().Get("mode") == "review",
	}

	questions, err := h.quiz.Questions(r.Context(), filter)
	if h.handleStoreError(w, err, "questions") {
		return
	}

	if questions == nil {
		questions = []question.Question{}
	}
	respondJSON(w, http.StatusOK, questions)
}

// GET /api/check/{questionID}?answer=<label>
func (h *Handler) checkAnswer(w http.ResponseWriter, r *http.Request) {
	questionID, err := strconv.ParseInt(r.PathValue("questionID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_question_id")
		return
	}
	answer := question.Label(r.URL.Query().Get("answer"))

	verdict, err := h.quiz.CheckAnswer(r.Context(), questionID, answer)
	if h.handleStoreError(w, err, "question") {
		return
	}

	combo := h.combos.Bump(h.comboKey(w, r), verdict.Correct)

	resp := CheckAnswerResponse{
		IsCorrect:     verdict.Correct,
		CorrectAnswer: string(verdict.CorrectAnswer),
		Explanation:   verdict.Explanation,
		Combo:         combo,
	}
	if title, ok := report.TitleForStreak(combo); ok {
		resp.Title = &title
	}

	respondJSON(w, http.StatusOK, resp)
}

// POST /api/record
//
// Best-effort from the client's point of view: the caller ignores both the
// response and any failure.
func (h *Handler) recordAnswer(w http.ResponseWriter, r *http.Request) {
	var req RecordAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.QuestionID == nil || req.IsCorrect == nil {
		respondError(w, http.StatusBadRequest, "question_id and is_correct required")
		return
	}

	if err := h.quiz.Record(r.Context(), *req.QuestionID, *req.IsCorrect); err != nil {
		h.logger.Error("failed to record answer", "question_id", *req.QuestionID, "error", err)
		respondError(w, http.StatusInternalServerError, "database_error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// POST /api/quiz/start
func (h *Handler) startQuiz(w http.ResponseWriter, r *http.Request) {
	h.combos.Reset(h.comboKey(w, r))
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GET /api/dashboard/stats
//
// Category accuracy over the whole answer history, shaped for a radar chart.
func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.quiz.CategoryAccuracy(r.Context())
	if h.handleStoreError(w, err, "history") {
		return
	}

	resp := DashboardStatsResponse{Labels: []string{}, Data: []int{}}
	for _, stat := range stats {
		resp.Labels = append(resp.Labels, stat.Category)
		resp.Data = append(resp.Data, stat.AccuracyPercent())
	}
	respondJSON(w, http.StatusOK, resp)
}
