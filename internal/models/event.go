package models

import "time"

// Recurrence frequencies supported by recurring_config.
const (
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// RecurringConfig is stored as a JSONB column on the events table. An event
// row with a non-null config is a recurring template; generated instances
// carry a null config.
type RecurringConfig struct {
	Type      string `json:"type"`
	Weekday   *int   `json:"weekday,omitempty"`   // 0=Monday .. 6=Sunday; required for weekly
	MonthDay  int    `json:"month_day,omitempty"` // 1-31 anchor for monthly; defaults to 1
	StartTime string `json:"start_time"`          // wall-clock "HH:MM"
	EndTime   string `json:"end_time"`            // wall-clock "HH:MM"; may be before StartTime (spans midnight)
	Active    bool   `json:"active"`
}

type Event struct {
	ID              string           `json:"id" db:"id"`
	ClubID          string           `json:"club_id" db:"club_id"`
	Title           string           `json:"title" db:"title"`
	Caption         *string          `json:"caption,omitempty" db:"caption"`
	PosterURL       *string          `json:"poster_url,omitempty" db:"poster_url"`
	TicketLink      *string          `json:"ticket_link,omitempty" db:"ticket_link"`
	StartDate       time.Time        `json:"start_date" db:"start_date"`
	EndDate         time.Time        `json:"end_date" db:"end_date"`
	MusicGenres     []string         `json:"music_genres" db:"music_genres"`
	CreatedBy       string           `json:"created_by" db:"created_by"`
	RecurringConfig *RecurringConfig `json:"recurring_config,omitempty" db:"recurring_config"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

// IsTemplate reports whether the row defines a recurrence rather than a
// concrete bookable occurrence.
func (e *Event) IsTemplate() bool {
	return e.RecurringConfig != nil
}

type CreateEventRequest struct {
	ClubID      string    `json:"club_id" validate:"required,uuid4"`
	Title       string    `json:"title" validate:"required"`
	Caption     *string   `json:"caption,omitempty"`
	PosterURL   *string   `json:"poster_url,omitempty"`
	TicketLink  *string   `json:"ticket_link,omitempty"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	MusicGenres []string  `json:"music_genres"`
}

type CreateRecurringEventRequest struct {
	ClubID      string          `json:"club_id" validate:"required,uuid4"`
	Title       string          `json:"title" validate:"required"`
	Caption     *string         `json:"caption,omitempty"`
	PosterURL   *string         `json:"poster_url,omitempty"`
	TicketLink  *string         `json:"ticket_link,omitempty"`
	MusicGenres []string        `json:"music_genres"`
	Recurring   RecurringConfig `json:"recurring_config" validate:"required"`
}

type GenerateEventsRequest struct {
	WeeksAhead int  `json:"weeks_ahead" validate:"omitempty,min=0,max=52"`
	DryRun     bool `json:"dry_run"`
}
