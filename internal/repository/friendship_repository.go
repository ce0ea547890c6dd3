package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nox/internal/models"
)

type FriendshipRepository interface {
	SendRequest(ctx context.Context, requesterID, receiverID string) error
	AcceptRequest(ctx context.Context, requesterID, receiverID string) error
	CancelRequest(ctx context.Context, requesterID, receiverID string) error
	Unfriend(ctx context.Context, userA, userB string) error
	Status(ctx context.Context, userA, userB string) (string, error)
	ListFriends(ctx context.Context, userID string) ([]*models.UserProfile, error)
	ListPendingRequesters(ctx context.Context, receiverID string) ([]*models.UserProfile, error)
}

type friendshipRepository struct {
	db *sql.DB
}

func NewFriendshipRepository(db *sql.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) SendRequest(ctx context.Context, requesterID, receiverID string) error {
	query := `INSERT INTO friendships (requester_id, receiver_id, status, created_at)
			  VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, requesterID, receiverID, models.FriendshipPending, time.Now())
	if err != nil {
		return fmt.Errorf("send friend request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("friend request already exists")
	}
	return nil
}

func (r *friendshipRepository) AcceptRequest(ctx context.Context, requesterID, receiverID string) error {
	query := `UPDATE friendships SET status = $1
			  WHERE requester_id = $2 AND receiver_id = $3 AND status = $4`

	result, err := r.db.ExecContext(ctx, query, models.FriendshipFriends, requesterID, receiverID, models.FriendshipPending)
	if err != nil {
		return fmt.Errorf("accept friend request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("friend request not found")
	}
	return nil
}

func (r *friendshipRepository) CancelRequest(ctx context.Context, requesterID, receiverID string) error {
	query := `DELETE FROM friendships
			  WHERE requester_id = $1 AND receiver_id = $2 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, requesterID, receiverID, models.FriendshipPending)
	if err != nil {
		return fmt.Errorf("cancel friend request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("friend request not found")
	}
	return nil
}

// Unfriend deletes the friendship in whichever direction it was stored.
func (r *friendshipRepository) Unfriend(ctx context.Context, userA, userB string) error {
	query := `DELETE FROM friendships
			  WHERE (requester_id = $1 AND receiver_id = $2)
				 OR (requester_id = $2 AND receiver_id = $1)`

	result, err := r.db.ExecContext(ctx, query, userA, userB)
	if err != nil {
		return fmt.Errorf("unfriend: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("friendship not found")
	}
	return nil
}

func (r *friendshipRepository) Status(ctx context.Context, userA, userB string) (string, error) {
	query := `SELECT status FROM friendships
			  WHERE (requester_id = $1 AND receiver_id = $2)
				 OR (requester_id = $2 AND receiver_id = $1)`

	var status string
	err := r.db.QueryRowContext(ctx, query, userA, userB).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("friendship status: %w", err)
	}
	return status, nil
}

func (r *friendshipRepository) ListFriends(ctx context.Context, userID string) ([]*models.UserProfile, error) {
	query := `SELECT ` + friendUserColumns + ` FROM friendships f
			  JOIN user_profiles u
				ON u.id = CASE WHEN f.requester_id = $1 THEN f.receiver_id ELSE f.requester_id END
			  WHERE (f.requester_id = $1 OR f.receiver_id = $1) AND f.status = $2
			  ORDER BY u.username ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, models.FriendshipFriends)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *friendshipRepository) ListPendingRequesters(ctx context.Context, receiverID string) ([]*models.UserProfile, error) {
	query := `SELECT ` + friendUserColumns + ` FROM friendships f
			  JOIN user_profiles u ON u.id = f.requester_id
			  WHERE f.receiver_id = $1 AND f.status = $2
			  ORDER BY f.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, receiverID, models.FriendshipPending)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

const friendUserColumns = `u.id, u.email, u.username, u.avatar_url, u.active_club_id, u.checked_in_at, u.password_hash, u.created_at, u.updated_at`

func collectUsers(rows *sql.Rows) ([]*models.UserProfile, error) {
	var users []*models.UserProfile
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
