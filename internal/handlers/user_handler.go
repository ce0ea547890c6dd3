package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"nox/internal/middleware"
	"nox/internal/models"
	"nox/internal/repository"
)

// attendanceTTL is how long a check-in marks a user as at a club before it
// is considered stale.
const attendanceTTL = 6 * time.Hour

type UserHandler struct {
	users repository.UserRepository
	v     *validator.Validate
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users, v: validator.New()}
}

// @Tags Users
// @Summary Get user profile
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.UserProfile
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "User ID is required")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if err.Error() == "user not found" {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to get user: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// @Tags Users
// @Summary Update own profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.UserProfile
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "User ID is required")
		return
	}
	if middleware.UserID(r.Context()) != id {
		writeJSONErrorResponse(w, http.StatusForbidden, "forbidden", "Cannot update another user's profile")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "User not found")
		return
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := h.users.Update(r.Context(), user); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to update user: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// @Tags Users
// @Summary Search users
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/users/search [get]
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Query parameter q is required")
		return
	}

	users, err := h.users.Search(r.Context(), query, 20)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to search users: "+err.Error())
		return
	}
	if users == nil {
		users = []*models.UserProfile{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// CheckIn marks the authenticated user as currently at a club.
// @Tags Users
// @Summary Check in to a club
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CheckInRequest true "Club to check in to"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/users/checkin [post]
func (h *UserHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req models.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	userID := middleware.UserID(r.Context())
	now := time.Now()
	if err := h.users.SetActiveClub(r.Context(), userID, &req.ClubID, &now); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to check in: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"active_club_id": req.ClubID, "checked_in_at": now})
}

// @Tags Users
// @Summary Check out of the current club
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/users/checkout [post]
func (h *UserHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if err := h.users.SetActiveClub(r.Context(), userID, nil, nil); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to check out: "+err.Error())
		return
	}

	writeJSONMessage(w, http.StatusOK, "Checked out")
}

// ClearExpiredAttendance drops a stale check-in. Clients call this before
// rendering "friends at this club" so nobody appears parked at a venue from
// last weekend.
// @Tags Users
// @Summary Clear expired club attendance
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/users/{id}/attendance/expire [post]
func (h *UserHandler) ClearExpiredAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "User ID is required")
		return
	}

	cleared, err := h.users.ClearExpiredAttendance(r.Context(), id, time.Now().Add(-attendanceTTL))
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to clear attendance: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"cleared": cleared})
}

// @Tags Users
// @Summary Delete own account
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "User ID is required")
		return
	}
	if middleware.UserID(r.Context()) != id {
		writeJSONErrorResponse(w, http.StatusForbidden, "forbidden", "Cannot delete another user's account")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		if err.Error() == "user not found" {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to delete user: "+err.Error())
		return
	}

	writeJSONMessage(w, http.StatusOK, "Account deleted")
}
