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

type FriendshipHandler struct {
	repo repository.FriendshipRepository
	v    *validator.Validate
}

func NewFriendshipHandler(repo repository.FriendshipRepository) *FriendshipHandler {
	return &FriendshipHandler{repo: repo, v: validator.New()}
}

func (h *FriendshipHandler) decodePayload(w http.ResponseWriter, r *http.Request) (models.FriendRequestPayload, bool) {
	var req models.FriendRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return req, false
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return req, false
	}
	return req, true
}

// @Tags Friendships
// @Summary Send a friend request
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.FriendRequestPayload true "Receiver"
// @Success 201 {object} map[string]interface{}
// @Router /api/v1/friendships/request [post]
func (h *FriendshipHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	requesterID := middleware.UserID(r.Context())
	if requesterID == req.UserID {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Cannot befriend yourself")
		return
	}

	if err := h.repo.SendRequest(r.Context(), requesterID, req.UserID); err != nil {
		if err.Error() == "friend request already exists" {
			writeJSONErrorResponse(w, http.StatusConflict, "already_exists", "Friend request already exists")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to send request: "+err.Error())
		return
	}

	writeJSONMessage(w, http.StatusCreated, "Friend request sent")
}

// Accept is called by the receiver; the payload names the requester.
// @Tags Friendships
// @Summary Accept a friend request
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.FriendRequestPayload true "Requester"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/friendships/accept [post]
func (h *FriendshipHandler) Accept(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	receiverID := middleware.UserID(r.Context())
	if err := h.repo.AcceptRequest(r.Context(), req.UserID, receiverID); err != nil {
		if err.Error() == "friend request not found" {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "Friend request not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to accept request: "+err.Error())
		return
	}

	writeJSONMessage(w, http.StatusOK, "Friend request accepted")
}

// @Tags Friendships
// @Summary Cancel a sent friend request
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.FriendRequestPayload true "Receiver"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/friendships/cancel [post]
func (h *FriendshipHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	requesterID := middleware.UserID(r.Context())
	if err := h.repo.CancelRequest(r.Context(), requesterID, req.UserID); err != nil {
		if err.Error() == "friend request not found" {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "Friend request not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to cancel request: "+err.Error())
		return
	}

	writeJSONMessage(w, http.StatusOK, "Friend request cancelled")
}

// @Tags Friendships
// @Summary Unfriend a user
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.FriendRequestPayload true "Friend to remove"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/friendships/unfriend [post]
func (h *FriendshipHandler) Unfriend(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	userID := middleware.UserID(r.Context())
	if err := h.repo.Unfriend(r.Context(), userID, req.UserID); err != nil {
		if err.Error() == "friendship not found" {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "Friendship not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to unfriend: "+err.Error())
		return
	}

	writeJSONMessage(w, http.StatusOK, "Unfriended")
}

// @Tags Friendships
// @Summary Friendship status with another user
// @Security BearerAuth
// @Produce json
// @Param userID path string true "Other user ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/friendships/status/{userID} [get]
func (h *FriendshipHandler) Status(w http.ResponseWriter, r *http.Request) {
	otherID := chi.URLParam(r, "userID")
	if otherID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "User ID is required")
		return
	}

	status, err := h.repo.Status(r.Context(), middleware.UserID(r.Context()), otherID)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to get status: "+err.Error())
		return
	}
	if status == "" {
		status = "none"
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// @Tags Friendships
// @Summary List friends
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/friendships/ [get]
func (h *FriendshipHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.repo.ListFriends(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list friends: "+err.Error())
		return
	}
	if friends == nil {
		friends = []*models.UserProfile{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"friends": friends})
}

// @Tags Friendships
// @Summary List pending friend requests
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/friendships/pending [get]
func (h *FriendshipHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	requesters, err := h.repo.ListPendingRequesters(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list pending requests: "+err.Error())
		return
	}
	if requesters == nil {
		requesters = []*models.UserProfile{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"requests": requesters})
}
