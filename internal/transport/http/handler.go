package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tutorial-quiz-service/internal/app"
	"tutorial-quiz-service/internal/domain"
)

// AssessmentService is the slice of the orchestrator the handlers need.
type AssessmentService interface {
	GetAssessment(ctx context.Context, tutorialID, userID string) (app.AssessmentResult, error)
	GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
}

type Handler struct {
	service AssessmentService
}

func NewHandler(service AssessmentService) *Handler {
	return &Handler{service: service}
}

type preferencesResponse struct {
	UserPreferences domain.UserPreferences `json:"userPreferences"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Preferences serves GET /preferences?user_id=.
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id")
		return
	}

	prefs, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preferencesResponse{UserPreferences: prefs})
}

// Assessment serves GET /assessment?tutorial_id=&user_id=.
func (h *Handler) Assessment(w http.ResponseWriter, r *http.Request) {
	tutorialID := r.URL.Query().Get("tutorial_id")
	userID := r.URL.Query().Get("user_id")
	if tutorialID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "missing tutorial_id or user_id")
		return
	}

	result, err := h.service.GetAssessment(r.Context(), tutorialID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeServiceError maps error kinds onto status codes. Rate limiting and
// generation failures surface as 500 with a message, by current convention.
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
