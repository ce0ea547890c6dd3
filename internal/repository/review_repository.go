package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"nox/internal/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByClub(ctx context.Context, clubID string, source string) ([]*models.Review, error)
}

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `INSERT INTO club_reviews (id, club_id, user_id, rating, genres, review_text, source, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.ClubID, review.UserID, review.Rating,
		pq.Array(review.Genres), review.ReviewText, review.Source, now,
	)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	review.CreatedAt = now
	return nil
}

func (r *reviewRepository) ListByClub(ctx context.Context, clubID string, source string) ([]*models.Review, error) {
	query := `SELECT id, club_id, user_id, rating, genres, review_text, source, created_at
			  FROM club_reviews WHERE club_id = $1 AND source = $2
			  ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, clubID, source)
	if err != nil {
		return nil, fmt.Errorf("list reviews by club: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var review models.Review
		var genres pq.StringArray
		if err := rows.Scan(
			&review.ID, &review.ClubID, &review.UserID, &review.Rating,
			&genres, &review.ReviewText, &review.Source, &review.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		review.Genres = genres
		reviews = append(reviews, &review)
	}
	return reviews, rows.Err()
}
