package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"nox/internal/config"
	"nox/internal/generator"
	"nox/internal/middleware"
	"nox/internal/models"
	"nox/internal/recurrence"
	"nox/internal/repository"
)

type EventHandler struct {
	repo repository.EventRepository
	gen  *generator.Generator
	s3   *config.S3Config
	cfg  *config.Config
	v    *validator.Validate
}

func NewEventHandler(repo repository.EventRepository, gen *generator.Generator, s3cfg *config.S3Config, cfg *config.Config) *EventHandler {
	return &EventHandler{
		repo: repo,
		gen:  gen,
		s3:   s3cfg,
		cfg:  cfg,
		v:    validator.New(),
	}
}

// @Tags Events
// @Summary List upcoming events for a club
// @Produce json
// @Param clubID path string true "Club ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/events/club/{clubID} [get]
func (h *EventHandler) ListUpcomingByClub(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	if clubID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Club ID is required")
		return
	}

	pagination, err := parsePaginationParams(r, 20, 100)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_pagination", "Invalid pagination: "+err.Error())
		return
	}

	events, err := h.repo.ListUpcomingByClub(r.Context(), clubID, time.Now(), pagination.limit, pagination.offset)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list events: "+err.Error())
		return
	}
	if events == nil {
		events = []*models.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// @Tags Events
// @Summary Get event
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.Event
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/events/{id} [get]
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Event ID is required")
		return
	}

	event, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if err.Error() == "event not found" {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "Event not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to get event: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// @Tags Events
// @Summary Create a one-off event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateEventRequest true "Event payload"
// @Success 201 {object} models.Event
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/events/ [post]
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	event := &models.Event{
		ID:          uuid.NewString(),
		ClubID:      req.ClubID,
		Title:       req.Title,
		Caption:     req.Caption,
		PosterURL:   req.PosterURL,
		TicketLink:  req.TicketLink,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MusicGenres: req.MusicGenres,
		CreatedBy:   middleware.UserID(r.Context()),
	}

	if err := h.repo.Create(r.Context(), event); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to create event: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// CreateRecurring persists a template row. Future instances are produced by
// the generation pass, never at creation time.
// @Tags Events
// @Summary Create a recurring event template
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateRecurringEventRequest true "Template payload"
// @Success 201 {object} models.Event
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/events/recurring [post]
func (h *EventHandler) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRecurringEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	cfg := req.Recurring
	loc := h.cfg.Location()

	// Reject rules the generator would only skip later.
	dates, err := recurrence.Dates(&cfg, 1, time.Now(), loc)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_rule", err.Error())
		return
	}

	// The template row itself carries the first occurrence's span so clients
	// can render it without waiting for a generation pass.
	startClock, endClock, err := recurrence.Times(&cfg)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_rule", err.Error())
		return
	}
	var start, end time.Time
	if len(dates) > 0 {
		start, end = recurrence.Span(dates[0], startClock, endClock, loc)
	}

	event := &models.Event{
		ID:              uuid.NewString(),
		ClubID:          req.ClubID,
		Title:           req.Title,
		Caption:         req.Caption,
		PosterURL:       req.PosterURL,
		TicketLink:      req.TicketLink,
		StartDate:       start,
		EndDate:         end,
		MusicGenres:     req.MusicGenres,
		CreatedBy:       middleware.UserID(r.Context()),
		RecurringConfig: &cfg,
	}

	if err := h.repo.Create(r.Context(), event); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to create template: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// @Tags Events
// @Summary Delete event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/events/{id} [delete]
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Event ID is required")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if err.Error() == "event not found" {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "Event not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to delete event: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

// @Tags Events
// @Summary Run the recurring-event generation pass
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.GenerateEventsRequest true "Generation options"
// @Success 200 {object} generator.Report
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/events/generate [post]
func (h *EventHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_json", "Invalid JSON: "+err.Error())
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	weeks := req.WeeksAhead
	if weeks == 0 {
		weeks = h.cfg.GenerateWeeksAhead
	}

	report, err := h.gen.Generate(r.Context(), weeks, req.DryRun)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadGateway, "generation_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// @Tags Events
// @Summary Upload event poster
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Event ID"
// @Param file formData file true "Poster image"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/events/{id}/poster [post]
func (h *EventHandler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Event ID is required")
		return
	}
	if h.s3 == nil || h.s3.Client == nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "server_error", "Poster storage not configured")
		return
	}

	if _, err := h.repo.GetByID(r.Context(), id); err != nil {
		writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "Event not found")
		return
	}

	const maxMemory = 16 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Failed to parse form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "Poster file is required")
		return
	}
	defer file.Close()

	key := filepath.Join("posters", id+filepath.Ext(header.Filename))
	uploader := manager.NewUploader(h.s3.Client)
	if _, err := uploader.Upload(r.Context(), &s3.PutObjectInput{
		Bucket: aws.String(h.s3.Bucket),
		Key:    aws.String(key),
		Body:   file,
	}); err != nil {
		log.Printf("Failed to upload poster for event %s: %v", id, err)
		writeJSONErrorResponse(w, http.StatusInternalServerError, "upload_failed", "Failed to upload poster")
		return
	}

	posterURL := strings.TrimRight(h.s3.PublicBaseURL, "/") + "/" + key
	if err := h.repo.SetPosterURL(r.Context(), id, posterURL); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to save poster URL: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"poster_url": posterURL})
}
