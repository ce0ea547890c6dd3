package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"nox/internal/middleware"
	"nox/internal/models"
	"nox/internal/repository"
)

type ReviewHandler struct {
	repo repository.ReviewRepository
	v    *validator.Validate
}

func NewReviewHandler(repo repository.ReviewRepository) *ReviewHandler {
	return &ReviewHandler{repo: repo, v: validator.New()}
}

// @Tags Reviews
// @Summary List reviews for a club
// @Produce json
// @Param clubID path string true "Club ID"
// @Param source query string false "Review source (app or google)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/reviews/club/{clubID} [get]
func (h *ReviewHandler) ListByClub(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	if clubID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Club ID is required")
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = models.ReviewSourceApp
	}
	if source != models.ReviewSourceApp && source != models.ReviewSourceGoogle {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Source must be app or google")
		return
	}

	reviews, err := h.repo.ListByClub(r.Context(), clubID, source)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list reviews: "+err.Error())
		return
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

// @Tags Reviews
// @Summary Add a review
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateReviewRequest true "Review payload"
// @Success 201 {object} models.Review
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/reviews/ [post]
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	review := &models.Review{
		ID:         uuid.NewString(),
		ClubID:     req.ClubID,
		UserID:     middleware.UserID(r.Context()),
		Rating:     req.Rating,
		Genres:     req.Genres,
		ReviewText: req.ReviewText,
		Source:     models.ReviewSourceApp,
	}

	if err := h.repo.Create(r.Context(), review); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to add review: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, review)
}
