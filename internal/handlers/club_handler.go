package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"nox/internal/models"
	"nox/internal/repository"
)

// trendingWindow is how far back reviews count toward a club's trending
// status.
const trendingWindow = 5 * time.Hour

type ClubHandler struct {
	repo repository.ClubRepository
	v    *validator.Validate
}

func NewClubHandler(repo repository.ClubRepository) *ClubHandler {
	return &ClubHandler{repo: repo, v: validator.New()}
}

// @Tags Clubs
// @Summary List clubs
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/clubs/ [get]
func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination, err := parsePaginationParams(r, 20, 100)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_pagination", "Invalid pagination: "+err.Error())
		return
	}

	clubs, err := h.repo.List(r.Context(), pagination.limit, pagination.offset)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list clubs: "+err.Error())
		return
	}
	if clubs == nil {
		clubs = []*models.Club{}
	}

	total, err := h.repo.Count(r.Context())
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to count clubs: "+err.Error())
		return
	}

	writePaginatedResponse(w, http.StatusOK, clubs, pagination.page, pagination.pageSize, total)
}

// @Tags Clubs
// @Summary Get club
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} models.Club
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/clubs/{id} [get]
func (h *ClubHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Club ID is required")
		return
	}

	club, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if err.Error() == "club not found" {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "Club not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to get club: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, club)
}

// @Tags Clubs
// @Summary Create club
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateClubRequest true "Club payload"
// @Success 201 {object} models.Club
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/clubs/ [post]
func (h *ClubHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateClubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	club := &models.Club{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		MusicGenres: req.MusicGenres,
	}

	if err := h.repo.Create(r.Context(), club); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to create club: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, club)
}

// @Tags Clubs
// @Summary Search clubs by name or address
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/clubs/search [get]
func (h *ClubHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Query parameter q is required")
		return
	}

	clubs, err := h.repo.Search(r.Context(), query, 20)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to search clubs: "+err.Error())
		return
	}
	if clubs == nil {
		clubs = []*models.Club{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"clubs": clubs})
}

// @Tags Clubs
// @Summary List trending clubs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/clubs/trending [get]
func (h *ClubHandler) Trending(w http.ResponseWriter, r *http.Request) {
	since := time.Now().Add(-trendingWindow)

	clubs, err := h.repo.ListTrending(r.Context(), since)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list trending clubs: "+err.Error())
		return
	}
	if clubs == nil {
		clubs = []*models.TrendingClub{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"clubs": clubs})
}
