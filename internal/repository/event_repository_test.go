package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"nox/internal/models"
)

var eventRowColumns = []string{
	"id", "club_id", "title", "caption", "poster_url", "ticket_link",
	"start_date", "end_date", "music_genres", "created_by",
	"recurring_config", "created_at", "updated_at",
}

func TestListTemplatesDecodesConfig(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	weekday := 4
	cfg := models.RecurringConfig{
		Type:      models.FrequencyWeekly,
		Weekday:   &weekday,
		StartTime: "22:00",
		EndTime:   "02:00",
		Active:    true,
	}
	cfgJSON, _ := json.Marshal(cfg)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM events\s+WHERE recurring_config IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows(eventRowColumns).
			AddRow("t1", "c1", "Techno Friday", nil, nil, nil, now, now,
				pq.StringArray{"techno"}, "u1", cfgJSON, now, now))

	repo := NewEventRepository(db)
	templates, err := repo.ListTemplates(context.Background())
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("expected 1 template got %d", len(templates))
	}
	got := templates[0]
	if got.RecurringConfig == nil || got.RecurringConfig.Type != models.FrequencyWeekly {
		t.Fatalf("expected decoded weekly config, got %+v", got.RecurringConfig)
	}
	if got.RecurringConfig.Weekday == nil || *got.RecurringConfig.Weekday != 4 {
		t.Fatalf("expected weekday 4, got %+v", got.RecurringConfig.Weekday)
	}
	if !got.IsTemplate() {
		t.Fatalf("template row must report IsTemplate")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListInstancesByTitleFiltersNullConfig(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM events\s+WHERE recurring_config IS NULL AND title = \$1`).
		WithArgs("Techno Friday").
		WillReturnRows(sqlmock.NewRows(eventRowColumns).
			AddRow("e1", "c1", "Techno Friday", nil, nil, nil, now, now,
				pq.StringArray{}, "u1", nil, now, now))

	repo := NewEventRepository(db)
	instances, err := repo.ListInstancesByTitle(context.Background(), "Techno Friday")
	if err != nil {
		t.Fatalf("ListInstancesByTitle: %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("expected 1 instance got %d", len(instances))
	}
	if instances[0].IsTemplate() {
		t.Fatalf("instance row must not carry a config")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertInstancesSkipsConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO events").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("e1"))
	// Second row hits the partial unique index; ON CONFLICT DO NOTHING
	// returns no rows.
	mock.ExpectQuery("INSERT INTO events").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	events := []*models.Event{
		{ID: "e1", ClubID: "c1", Title: "Techno Friday", StartDate: time.Now(), EndDate: time.Now(), CreatedBy: "u1"},
		{ID: "e2", ClubID: "c1", Title: "Techno Friday", StartDate: time.Now().AddDate(0, 0, 7), EndDate: time.Now().AddDate(0, 0, 7), CreatedBy: "u1"},
	}

	repo := NewEventRepository(db)
	inserted, err := repo.InsertInstances(context.Background(), events)
	if err != nil {
		t.Fatalf("InsertInstances: %v", err)
	}
	if len(inserted) != 1 || inserted[0].ID != "e1" {
		t.Fatalf("expected only the non-conflicting row, got %+v", inserted)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertInstancesRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO events").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	events := []*models.Event{
		{ID: "e1", ClubID: "c1", Title: "Techno Friday", StartDate: time.Now(), EndDate: time.Now(), CreatedBy: "u1"},
	}

	repo := NewEventRepository(db)
	if _, err := repo.InsertInstances(context.Background(), events); err == nil {
		t.Fatalf("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	repo := NewEventRepository(db)
	if _, err := repo.GetByID(context.Background(), "missing"); err == nil || err.Error() != "event not found" {
		t.Fatalf("expected not-found error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
