package models

import "time"

type Club struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address" db:"address"`
	Description string    `json:"description" db:"description"`
	Rating      float64   `json:"rating" db:"rating"`
	MusicGenres []string  `json:"music_genres" db:"music_genres"`
	PosterURL   *string   `json:"poster_url,omitempty" db:"poster_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TrendingClub is a club annotated with recent-review activity. A club is
// trending when it collected at least three reviews in the lookback window
// with an average rating of 3.5 or better.
type TrendingClub struct {
	Club
	IsTrending         bool    `json:"is_trending"`
	TrendingScore      float64 `json:"trending_score"`
	RecentReviewsCount int     `json:"recent_reviews_count"`
	AvgRating          float64 `json:"avg_rating"`
}

type CreateClubRequest struct {
	Name        string   `json:"name" validate:"required"`
	Address     string   `json:"address" validate:"required"`
	Description string   `json:"description"`
	MusicGenres []string `json:"music_genres"`
}
