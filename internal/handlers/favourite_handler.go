package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"nox/internal/middleware"
	"nox/internal/models"
	"nox/internal/repository"
)

type FavouriteHandler struct {
	repo repository.FavouriteRepository
	v    *validator.Validate
}

func NewFavouriteHandler(repo repository.FavouriteRepository) *FavouriteHandler {
	return &FavouriteHandler{repo: repo, v: validator.New()}
}

// @Tags Favourites
// @Summary List favourite clubs
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/favourites/ [get]
func (h *FavouriteHandler) List(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.repo.ListClubs(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list favourites: "+err.Error())
		return
	}
	if clubs == nil {
		clubs = []*models.Club{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"clubs": clubs})
}

// @Tags Favourites
// @Summary Add a favourite club
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.FavouritePayload true "Club"
// @Success 201 {object} map[string]interface{}
// @Router /api/v1/favourites/ [post]
func (h *FavouriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.FavouritePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.repo.Add(r.Context(), middleware.UserID(r.Context()), req.ClubID); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to add favourite: "+err.Error())
		return
	}

	writeJSONMessage(w, http.StatusCreated, "Added to favourites")
}

// @Tags Favourites
// @Summary Remove a favourite club
// @Security BearerAuth
// @Produce json
// @Param clubID path string true "Club ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/favourites/{clubID} [delete]
func (h *FavouriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	if clubID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Club ID is required")
		return
	}

	if err := h.repo.Remove(r.Context(), middleware.UserID(r.Context()), clubID); err != nil {
		if err.Error() == "favourite not found" {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "Favourite not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to remove favourite: "+err.Error())
		return
	}

	writeJSONMessage(w, http.StatusOK, "Removed from favourites")
}

// @Tags Favourites
// @Summary Check whether a club is a favourite
// @Security BearerAuth
// @Produce json
// @Param clubID path string true "Club ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/favourites/{clubID} [get]
func (h *FavouriteHandler) Check(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	if clubID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Club ID is required")
		return
	}

	exists, err := h.repo.Exists(r.Context(), middleware.UserID(r.Context()), clubID)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to check favourite: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"is_favourite": exists})
}
