package models

import "time"

// Friendship statuses. A row exists from the moment a request is sent.
const (
	FriendshipPending = "pending"
	FriendshipFriends = "friends"
)

type Friendship struct {
	RequesterID string    `json:"requester_id" db:"requester_id"`
	ReceiverID  string    `json:"receiver_id" db:"receiver_id"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// FriendRequestPayload names the other side of a friendship operation: the
// receiver when sending or cancelling, the requester when accepting.
type FriendRequestPayload struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}

type Favourite struct {
	UserID    string    `json:"user_id" db:"user_id"`
	ClubID    string    `json:"club_id" db:"club_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type FavouritePayload struct {
	ClubID string `json:"club_id" validate:"required,uuid4"`
}
