package api

import "net/http"

// RegisterRoutes wires all API endpoints onto the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Questions
	mux.HandleFunc("GET /api/questions", h.listQuestions)

	// Answer judging and recording
	mux.HandleFunc("GET /api/check/{questionID}", h.checkAnswer)
	mux.HandleFunc("POST /api/record", h.recordAnswer)

	// Session support
	mux.HandleFunc("POST /api/quiz/start", h.startQuiz)

	// Dashboard
	mux.HandleFunc("GET /api/dashboard/stats", h.dashboardStats)
}
