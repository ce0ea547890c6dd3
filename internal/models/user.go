package models

import "time"

type UserProfile struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Username     string     `json:"username" db:"username"`
	AvatarURL    *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	ActiveClubID *string    `json:"active_club_id,omitempty" db:"active_club_id"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty" db:"checked_in_at"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=32"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

type CheckInRequest struct {
	ClubID string `json:"club_id" validate:"required,uuid4"`
}
