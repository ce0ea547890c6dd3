package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"nox/internal/config"
	"nox/internal/generator"
	"nox/internal/models"
	"nox/internal/repository"
)

type mockEventRepo struct {
	templates []*models.Event
	instances []*models.Event
	created   []*models.Event
	deleted   []string
}

var _ repository.EventRepository = (*mockEventRepo)(nil)

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	m.created = append(m.created, event)
	return nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	for _, ev := range append(m.templates, m.instances...) {
		if ev.ID == id {
			return ev, nil
		}
	}
	return nil, fmt.Errorf("event not found")
}

func (m *mockEventRepo) ListUpcomingByClub(ctx context.Context, clubID string, from time.Time, limit, offset int) ([]*models.Event, error) {
	var out []*models.Event
	for _, ev := range m.instances {
		if ev.ClubID == clubID && !ev.StartDate.Before(from) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *mockEventRepo) Update(ctx context.Context, event *models.Event) error { return nil }

func (m *mockEventRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockEventRepo) SetPosterURL(ctx context.Context, id, posterURL string) error { return nil }

func (m *mockEventRepo) ListTemplates(ctx context.Context) ([]*models.Event, error) {
	return m.templates, nil
}

func (m *mockEventRepo) ListInstancesByTitle(ctx context.Context, title string) ([]*models.Event, error) {
	var out []*models.Event
	for _, ev := range m.instances {
		if ev.Title == title {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *mockEventRepo) InsertInstances(ctx context.Context, events []*models.Event) ([]*models.Event, error) {
	m.instances = append(m.instances, events...)
	return events, nil
}

func newEventTestHandler(repo *mockEventRepo) *EventHandler {
	cfg := &config.Config{Timezone: "UTC", GenerateWeeksAhead: 4}
	gen := generator.New(repo, time.UTC, generator.WithClock(func() time.Time {
		return time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	}))
	return NewEventHandler(repo, gen, nil, cfg)
}

func weekdayPtr(v int) *int { return &v }

func TestGenerateEndpointReturnsReport(t *testing.T) {
	repo := &mockEventRepo{templates: []*models.Event{{
		ID:     "t1",
		ClubID: "c1",
		Title:  "Techno Friday",
		RecurringConfig: &models.RecurringConfig{
			Type:      models.FrequencyWeekly,
			Weekday:   weekdayPtr(4),
			StartTime: "22:00",
			EndTime:   "02:00",
			Active:    true,
		},
	}}}
	h := newEventTestHandler(repo)

	body, _ := json.Marshal(models.GenerateEventsRequest{WeeksAhead: 2})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/generate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Generate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var report generator.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if report.TemplatesProcessed != 1 || report.InstancesCreated != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(repo.instances) != 2 {
		t.Fatalf("expected 2 persisted instances got %d", len(repo.instances))
	}
}

func TestGenerateEndpointDryRun(t *testing.T) {
	repo := &mockEventRepo{templates: []*models.Event{{
		ID:     "t1",
		ClubID: "c1",
		Title:  "Techno Friday",
		RecurringConfig: &models.RecurringConfig{
			Type:      models.FrequencyWeekly,
			Weekday:   weekdayPtr(4),
			StartTime: "22:00",
			EndTime:   "02:00",
			Active:    true,
		},
	}}}
	h := newEventTestHandler(repo)

	body, _ := json.Marshal(models.GenerateEventsRequest{WeeksAhead: 2, DryRun: true})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/generate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Generate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if len(repo.instances) != 0 {
		t.Fatalf("dry run must not persist, got %d", len(repo.instances))
	}
}

func TestCreateRecurringRejectsInvalidRule(t *testing.T) {
	repo := &mockEventRepo{}
	h := newEventTestHandler(repo)

	payload := map[string]any{
		"club_id": "0b52c1e3-4f7a-4b6e-9a83-27a7e9a1ff10",
		"title":   "Broken Night",
		"recurring_config": map[string]any{
			"type":       "weekly",
			"start_time": "22:00",
			"end_time":   "02:00",
			"active":     true,
			// weekday missing
		},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/recurring", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateRecurring(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	if len(repo.created) != 0 {
		t.Fatalf("invalid rule must not be persisted")
	}
}

func TestCreateRecurringPersistsTemplate(t *testing.T) {
	repo := &mockEventRepo{}
	h := newEventTestHandler(repo)

	payload := map[string]any{
		"club_id": "0b52c1e3-4f7a-4b6e-9a83-27a7e9a1ff10",
		"title":   "Techno Friday",
		"recurring_config": map[string]any{
			"type":       "weekly",
			"weekday":    4,
			"start_time": "22:00",
			"end_time":   "02:00",
			"active":     true,
		},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/recurring", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateRecurring(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", w.Code, w.Body.String())
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created row got %d", len(repo.created))
	}
	tmpl := repo.created[0]
	if !tmpl.IsTemplate() {
		t.Fatalf("created row must carry the recurring config")
	}
	if tmpl.StartDate.IsZero() || tmpl.EndDate.IsZero() {
		t.Fatalf("template must carry the first occurrence span, got %v/%v", tmpl.StartDate, tmpl.EndDate)
	}
}

func TestGetEventNotFoundJSON(t *testing.T) {
	h := newEventTestHandler(&mockEventRepo{})
	r := chi.NewRouter()
	r.Get("/events/{id}", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/events/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] == nil {
		t.Fatalf("expected error field, got %v", resp)
	}
}
