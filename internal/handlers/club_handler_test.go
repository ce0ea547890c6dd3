package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nox/internal/models"
	"nox/internal/repository"
)

type mockClubRepo struct {
	clubs    []*models.Club
	trending []*models.TrendingClub

	trendingSince time.Time
}

var _ repository.ClubRepository = (*mockClubRepo)(nil)

func (m *mockClubRepo) Create(ctx context.Context, club *models.Club) error {
	m.clubs = append(m.clubs, club)
	return nil
}

func (m *mockClubRepo) GetByID(ctx context.Context, id string) (*models.Club, error) {
	for _, c := range m.clubs {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("club not found")
}

func (m *mockClubRepo) List(ctx context.Context, limit, offset int) ([]*models.Club, error) {
	return m.clubs, nil
}

func (m *mockClubRepo) Count(ctx context.Context) (int, error) { return len(m.clubs), nil }

func (m *mockClubRepo) Search(ctx context.Context, query string, limit int) ([]*models.Club, error) {
	return m.clubs, nil
}

func (m *mockClubRepo) ListTrending(ctx context.Context, since time.Time) ([]*models.TrendingClub, error) {
	m.trendingSince = since
	return m.trending, nil
}

func TestTrendingUsesFiveHourWindow(t *testing.T) {
	repo := &mockClubRepo{trending: []*models.TrendingClub{{
		Club:               models.Club{ID: "c1", Name: "Basement"},
		IsTrending:         true,
		TrendingScore:      18.0,
		RecentReviewsCount: 4,
		AvgRating:          4.5,
	}}}
	h := NewClubHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clubs/trending", nil)
	w := httptest.NewRecorder()
	h.Trending(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}

	window := time.Since(repo.trendingSince)
	if window < 5*time.Hour-time.Minute || window > 5*time.Hour+time.Minute {
		t.Fatalf("expected a five hour lookback, got %v", window)
	}

	var resp struct {
		Clubs []models.TrendingClub `json:"clubs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Clubs) != 1 || !resp.Clubs[0].IsTrending {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestTrendingEmptyIsArray(t *testing.T) {
	h := NewClubHandler(&mockClubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clubs/trending", nil)
	w := httptest.NewRecorder()
	h.Trending(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := resp["clubs"].([]any); !ok {
		t.Fatalf("expected clubs array, got %v", resp)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	h := NewClubHandler(&mockClubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clubs/search", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
}
