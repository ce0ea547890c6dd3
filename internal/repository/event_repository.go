package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"nox/internal/models"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	ListUpcomingByClub(ctx context.Context, clubID string, from time.Time, limit int, offset int) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	SetPosterURL(ctx context.Context, id string, posterURL string) error

	// Generation pass support.
	ListTemplates(ctx context.Context) ([]*models.Event, error)
	ListInstancesByTitle(ctx context.Context, title string) ([]*models.Event, error)
	InsertInstances(ctx context.Context, events []*models.Event) ([]*models.Event, error)
}

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, club_id, title, caption, poster_url, ticket_link, start_date, end_date, music_genres, created_by, recurring_config, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	var event models.Event
	var genres pq.StringArray
	var configJSON []byte
	if err := row.Scan(
		&event.ID, &event.ClubID, &event.Title, &event.Caption, &event.PosterURL,
		&event.TicketLink, &event.StartDate, &event.EndDate, &genres,
		&event.CreatedBy, &configJSON, &event.CreatedAt, &event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	event.MusicGenres = genres
	if configJSON != nil {
		var cfg models.RecurringConfig
		if err := json.Unmarshal(configJSON, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal recurring_config: %w", err)
		}
		event.RecurringConfig = &cfg
	}
	return &event, nil
}

func configValue(cfg *models.RecurringConfig) (any, error) {
	if cfg == nil {
		return nil, nil
	}
	return json.Marshal(cfg)
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `INSERT INTO events (id, club_id, title, caption, poster_url, ticket_link, start_date, end_date, music_genres, created_by, recurring_config, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	configJSON, err := configValue(event.RecurringConfig)
	if err != nil {
		return fmt.Errorf("marshal recurring_config: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.ClubID, event.Title, event.Caption, event.PosterURL,
		event.TicketLink, event.StartDate, event.EndDate, pq.Array(event.MusicGenres),
		event.CreatedBy, configJSON, now, now,
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	event.CreatedAt = now
	event.UpdatedAt = now
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("event not found")
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	return event, nil
}

func (r *eventRepository) ListUpcomingByClub(ctx context.Context, clubID string, from time.Time, limit int, offset int) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
			  WHERE club_id = $1 AND recurring_config IS NULL AND start_date >= $2
			  ORDER BY start_date ASC LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, clubID, from, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `UPDATE events SET title = $1, caption = $2, poster_url = $3, ticket_link = $4,
			  start_date = $5, end_date = $6, music_genres = $7, updated_at = $8
			  WHERE id = $9`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		event.Title, event.Caption, event.PosterURL, event.TicketLink,
		event.StartDate, event.EndDate, pq.Array(event.MusicGenres), now, event.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("event not found")
	}

	event.UpdatedAt = now
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("event not found")
	}
	return nil
}

func (r *eventRepository) SetPosterURL(ctx context.Context, id string, posterURL string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE events SET poster_url = $1, updated_at = $2 WHERE id = $3",
		posterURL, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("set poster url: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("event not found")
	}
	return nil
}

func (r *eventRepository) ListTemplates(ctx context.Context) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
			  WHERE recurring_config IS NOT NULL
			  ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *eventRepository) ListInstancesByTitle(ctx context.Context, title string) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
			  WHERE recurring_config IS NULL AND title = $1
			  ORDER BY start_date ASC`

	rows, err := r.db.QueryContext(ctx, query, title)
	if err != nil {
		return nil, fmt.Errorf("list instances by title: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// InsertInstances writes a generation batch inside one transaction, so a
// failed run leaves nothing behind. The partial unique index on
// (title, start_date) absorbs races with a concurrent run: conflicting rows
// are silently dropped from the returned slice instead of failing the batch.
func (r *eventRepository) InsertInstances(ctx context.Context, events []*models.Event) ([]*models.Event, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert instances: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO events (id, club_id, title, caption, poster_url, ticket_link, start_date, end_date, music_genres, created_by, recurring_config, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL, $11, $11)
			  ON CONFLICT (title, start_date) WHERE recurring_config IS NULL DO NOTHING
			  RETURNING id`

	now := time.Now()
	var inserted []*models.Event
	for _, event := range events {
		err := tx.QueryRowContext(ctx, query,
			event.ID, event.ClubID, event.Title, event.Caption, event.PosterURL,
			event.TicketLink, event.StartDate, event.EndDate, pq.Array(event.MusicGenres),
			event.CreatedBy, now,
		).Scan(&event.ID)
		if err == sql.ErrNoRows {
			// Lost the race to a concurrent run; the date is covered.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("insert instance %q at %s: %w", event.Title, event.StartDate.Format(time.RFC3339), err)
		}
		event.CreatedAt = now
		event.UpdatedAt = now
		inserted = append(inserted, event)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert instances: %w", err)
	}
	return inserted, nil
}

func collectEvents(rows *sql.Rows) ([]*models.Event, error) {
	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
