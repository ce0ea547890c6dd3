package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"nox/internal/models"
)

type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id string) (*models.Club, error)
	List(ctx context.Context, limit int, offset int) ([]*models.Club, error)
	Count(ctx context.Context) (int, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Club, error)
	ListTrending(ctx context.Context, since time.Time) ([]*models.TrendingClub, error)
}

type clubRepository struct {
	db *sql.DB
}

func NewClubRepository(db *sql.DB) ClubRepository {
	return &clubRepository{db: db}
}

const clubColumns = `id, name, address, description, rating, music_genres, poster_url, created_at, updated_at`

func scanClub(row interface{ Scan(...any) error }, club *models.Club) error {
	var genres pq.StringArray
	if err := row.Scan(
		&club.ID, &club.Name, &club.Address, &club.Description, &club.Rating,
		&genres, &club.PosterURL, &club.CreatedAt, &club.UpdatedAt,
	); err != nil {
		return err
	}
	club.MusicGenres = genres
	return nil
}

func (r *clubRepository) Create(ctx context.Context, club *models.Club) error {
	query := `INSERT INTO clubs (id, name, address, description, rating, music_genres, poster_url, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		club.ID, club.Name, club.Address, club.Description, club.Rating,
		pq.Array(club.MusicGenres), club.PosterURL, now,
	)
	if err != nil {
		return fmt.Errorf("create club: %w", err)
	}

	club.CreatedAt = now
	club.UpdatedAt = now
	return nil
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*models.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`

	var club models.Club
	if err := scanClub(r.db.QueryRowContext(ctx, query, id), &club); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("club not found")
		}
		return nil, fmt.Errorf("get club by id: %w", err)
	}
	return &club, nil
}

func (r *clubRepository) List(ctx context.Context, limit int, offset int) ([]*models.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs ORDER BY name ASC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()

	var clubs []*models.Club
	for rows.Next() {
		var club models.Club
		if err := scanClub(rows, &club); err != nil {
			return nil, fmt.Errorf("scan club: %w", err)
		}
		clubs = append(clubs, &club)
	}
	return clubs, rows.Err()
}

func (r *clubRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clubs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count clubs: %w", err)
	}
	return count, nil
}

// Search matches the query against club name and address, ranking
// name-prefix matches before substring matches.
func (r *clubRepository) Search(ctx context.Context, query string, limit int) ([]*models.Club, error) {
	sqlQuery := `SELECT ` + clubColumns + ` FROM clubs
				 WHERE name ILIKE '%' || $1 || '%' OR address ILIKE '%' || $1 || '%'
				 ORDER BY (name ILIKE $1 || '%') DESC, LOWER(name) ASC
				 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, sqlQuery, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search clubs: %w", err)
	}
	defer rows.Close()

	var clubs []*models.Club
	for rows.Next() {
		var club models.Club
		if err := scanClub(rows, &club); err != nil {
			return nil, fmt.Errorf("scan club: %w", err)
		}
		clubs = append(clubs, &club)
	}
	return clubs, rows.Err()
}

// ListTrending returns clubs with at least three reviews since the given
// time averaging 3.5 or better, scored by count times average rating.
func (r *clubRepository) ListTrending(ctx context.Context, since time.Time) ([]*models.TrendingClub, error) {
	query := `SELECT c.id, c.name, c.address, c.description, c.rating, c.music_genres, c.poster_url, c.created_at, c.updated_at,
					 COUNT(r.id) AS recent_reviews, AVG(r.rating)::float8 AS avg_rating
			  FROM clubs c
			  JOIN club_reviews r ON r.club_id = c.id AND r.created_at >= $1
			  GROUP BY c.id
			  HAVING COUNT(r.id) >= 3 AND AVG(r.rating) >= 3.5
			  ORDER BY COUNT(r.id) * AVG(r.rating) DESC`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("list trending clubs: %w", err)
	}
	defer rows.Close()

	var clubs []*models.TrendingClub
	for rows.Next() {
		var club models.TrendingClub
		var genres pq.StringArray
		if err := rows.Scan(
			&club.ID, &club.Name, &club.Address, &club.Description, &club.Rating,
			&genres, &club.PosterURL, &club.CreatedAt, &club.UpdatedAt,
			&club.RecentReviewsCount, &club.AvgRating,
		); err != nil {
			return nil, fmt.Errorf("scan trending club: %w", err)
		}
		club.MusicGenres = genres
		club.IsTrending = true
		club.TrendingScore = float64(club.RecentReviewsCount) * club.AvgRating
		clubs = append(clubs, &club)
	}
	return clubs, rows.Err()
}
