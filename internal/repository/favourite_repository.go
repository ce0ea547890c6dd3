package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"nox/internal/models"
)

type FavouriteRepository interface {
	Add(ctx context.Context, userID, clubID string) error
	Remove(ctx context.Context, userID, clubID string) error
	Exists(ctx context.Context, userID, clubID string) (bool, error)
	ListClubs(ctx context.Context, userID string) ([]*models.Club, error)
}

type favouriteRepository struct {
	db *sql.DB
}

func NewFavouriteRepository(db *sql.DB) FavouriteRepository {
	return &favouriteRepository{db: db}
}

func (r *favouriteRepository) Add(ctx context.Context, userID, clubID string) error {
	query := `INSERT INTO user_favourites (user_id, club_id, created_at)
			  VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, userID, clubID, time.Now())
	if err != nil {
		return fmt.Errorf("add favourite: %w", err)
	}
	return nil
}

func (r *favouriteRepository) Remove(ctx context.Context, userID, clubID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM user_favourites WHERE user_id = $1 AND club_id = $2", userID, clubID)
	if err != nil {
		return fmt.Errorf("remove favourite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("favourite not found")
	}
	return nil
}

func (r *favouriteRepository) Exists(ctx context.Context, userID, clubID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM user_favourites WHERE user_id = $1 AND club_id = $2)",
		userID, clubID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check favourite exists: %w", err)
	}
	return exists, nil
}

func (r *favouriteRepository) ListClubs(ctx context.Context, userID string) ([]*models.Club, error) {
	query := `SELECT c.id, c.name, c.address, c.description, c.rating, c.music_genres, c.poster_url, c.created_at, c.updated_at
			  FROM clubs c
			  JOIN user_favourites f ON f.club_id = c.id
			  WHERE f.user_id = $1
			  ORDER BY f.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favourite clubs: %w", err)
	}
	defer rows.Close()

	var clubs []*models.Club
	for rows.Next() {
		var club models.Club
		var genres pq.StringArray
		if err := rows.Scan(
			&club.ID, &club.Name, &club.Address, &club.Description, &club.Rating,
			&genres, &club.PosterURL, &club.CreatedAt, &club.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan club: %w", err)
		}
		club.MusicGenres = genres
		clubs = append(clubs, &club)
	}
	return clubs, rows.Err()
}
