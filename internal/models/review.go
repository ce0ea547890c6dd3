package models

import "time"

// Review sources. App reviews feed the trending computation; google reviews
// are imported read-only.
const (
	ReviewSourceApp    = "app"
	ReviewSourceGoogle = "google"
)

type Review struct {
	ID         string    `json:"id" db:"id"`
	ClubID     string    `json:"club_id" db:"club_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Rating     int       `json:"rating" db:"rating"`
	Genres     []string  `json:"genres" db:"genres"`
	ReviewText string    `json:"review_text" db:"review_text"`
	Source     string    `json:"source" db:"source"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type CreateReviewRequest struct {
	ClubID     string   `json:"club_id" validate:"required,uuid4"`
	Rating     int      `json:"rating" validate:"required,min=1,max=5"`
	Genres     []string `json:"genres"`
	ReviewText string   `json:"review_text"`
}
