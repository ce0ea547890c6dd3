package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nox/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.UserProfile) error
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	Update(ctx context.Context, user *models.UserProfile) error
	Search(ctx context.Context, query string, limit int) ([]*models.UserProfile, error)
	SetActiveClub(ctx context.Context, userID string, clubID *string, checkedInAt *time.Time) error
	ClearExpiredAttendance(ctx context.Context, userID string, before time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, username, avatar_url, active_club_id, checked_in_at, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.UserProfile, error) {
	var user models.UserProfile
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.AvatarURL,
		&user.ActiveClubID, &user.CheckedInAt, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.UserProfile) error {
	query := `INSERT INTO user_profiles (id, email, username, avatar_url, password_hash, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $6)`

	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Username, user.AvatarURL, user.PasswordHash, now,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM user_profiles WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM user_profiles WHERE email = $1`, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.UserProfile) error {
	query := `UPDATE user_profiles SET username = $1, avatar_url = $2, updated_at = $3 WHERE id = $4`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, user.Username, user.AvatarURL, now, user.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	user.UpdatedAt = now
	return nil
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]*models.UserProfile, error) {
	sqlQuery := `SELECT ` + userColumns + ` FROM user_profiles
				 WHERE username ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
				 ORDER BY (username ILIKE $1 || '%') DESC, LOWER(username) ASC
				 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, sqlQuery, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

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

func (r *userRepository) SetActiveClub(ctx context.Context, userID string, clubID *string, checkedInAt *time.Time) error {
	query := `UPDATE user_profiles SET active_club_id = $1, checked_in_at = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, clubID, checkedInAt, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("set active club: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// ClearExpiredAttendance drops the active club when the check-in is older
// than the cutoff. Returns whether anything was cleared.
func (r *userRepository) ClearExpiredAttendance(ctx context.Context, userID string, before time.Time) (bool, error) {
	query := `UPDATE user_profiles SET active_club_id = NULL, checked_in_at = NULL, updated_at = $1
			  WHERE id = $2 AND checked_in_at IS NOT NULL AND checked_in_at < $3`

	result, err := r.db.ExecContext(ctx, query, time.Now(), userID, before)
	if err != nil {
		return false, fmt.Errorf("clear expired attendance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM user_profiles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}
