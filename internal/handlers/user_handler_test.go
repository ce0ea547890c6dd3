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

	"nox/internal/middleware"
	"nox/internal/models"
	"nox/internal/repository"
)

type mockUserRepo struct {
	users map[string]*models.UserProfile

	clearedBefore time.Time
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Create(ctx context.Context, user *models.UserProfile) error {
	if m.users == nil {
		m.users = map[string]*models.UserProfile{}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user not found")
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.UserProfile) error { return nil }

func (m *mockUserRepo) Search(ctx context.Context, query string, limit int) ([]*models.UserProfile, error) {
	return nil, nil
}

func (m *mockUserRepo) SetActiveClub(ctx context.Context, userID string, clubID *string, checkedInAt *time.Time) error {
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.ActiveClubID = clubID
	u.CheckedInAt = checkedInAt
	return nil
}

func (m *mockUserRepo) ClearExpiredAttendance(ctx context.Context, userID string, before time.Time) (bool, error) {
	m.clearedBefore = before
	u, ok := m.users[userID]
	if !ok {
		return false, nil
	}
	if u.CheckedInAt != nil && u.CheckedInAt.Before(before) {
		u.ActiveClubID = nil
		u.CheckedInAt = nil
		return true, nil
	}
	return false, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("user not found")
	}
	delete(m.users, id)
	return nil
}

func authedRequest(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.CtxUserID, userID)
	return req.WithContext(ctx)
}

func TestCheckInSetsActiveClub(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.UserProfile{
		"u1": {ID: "u1", Email: "a@b.com", Username: "nightowl"},
	}}
	h := NewUserHandler(repo)

	body, _ := json.Marshal(map[string]any{"club_id": "0b52c1e3-4f7a-4b6e-9a83-27a7e9a1ff10"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/checkin", bytes.NewReader(body))
	req = authedRequest(req, "u1")
	w := httptest.NewRecorder()
	h.CheckIn(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	u := repo.users["u1"]
	if u.ActiveClubID == nil || *u.ActiveClubID != "0b52c1e3-4f7a-4b6e-9a83-27a7e9a1ff10" {
		t.Fatalf("expected active club set, got %+v", u)
	}
	if u.CheckedInAt == nil {
		t.Fatalf("expected checked_in_at set")
	}
}

func TestCheckOutClearsActiveClub(t *testing.T) {
	clubID := "c1"
	now := time.Now()
	repo := &mockUserRepo{users: map[string]*models.UserProfile{
		"u1": {ID: "u1", ActiveClubID: &clubID, CheckedInAt: &now},
	}}
	h := NewUserHandler(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/checkout", nil)
	req = authedRequest(req, "u1")
	w := httptest.NewRecorder()
	h.CheckOut(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if repo.users["u1"].ActiveClubID != nil {
		t.Fatalf("expected active club cleared")
	}
}

func TestClearExpiredAttendanceUsesSixHourCutoff(t *testing.T) {
	clubID := "c1"
	stale := time.Now().Add(-8 * time.Hour)
	repo := &mockUserRepo{users: map[string]*models.UserProfile{
		"u1": {ID: "u1", ActiveClubID: &clubID, CheckedInAt: &stale},
	}}
	h := NewUserHandler(repo)
	r := chi.NewRouter()
	r.Post("/users/{id}/attendance/expire", h.ClearExpiredAttendance)

	req := httptest.NewRequest(http.MethodPost, "/users/u1/attendance/expire", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}

	cutoffAge := time.Since(repo.clearedBefore)
	if cutoffAge < 6*time.Hour-time.Minute || cutoffAge > 6*time.Hour+time.Minute {
		t.Fatalf("expected a six hour cutoff, got %v", cutoffAge)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["cleared"] != true {
		t.Fatalf("expected cleared=true got %v", resp)
	}
	if repo.users["u1"].ActiveClubID != nil {
		t.Fatalf("expected stale attendance cleared")
	}
}

func TestUpdateRejectsOtherUser(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.UserProfile{"u1": {ID: "u1"}}}
	h := NewUserHandler(repo)
	r := chi.NewRouter()
	r.Put("/users/{id}", h.Update)

	body, _ := json.Marshal(map[string]any{"username": "impostor"})
	req := httptest.NewRequest(http.MethodPut, "/users/u1", bytes.NewReader(body))
	req = authedRequest(req, "u2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d (%s)", w.Code, w.Body.String())
	}
}
