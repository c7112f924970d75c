package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/equipbot/internal/models"
	"github.com/jackc/pgx/v5"
)

// CreateUser inserts a new user and stores the assigned ID in user.
// A duplicate Telegram ID is reported as models.ErrConflict.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	err := r.db.QueryRow(ctx, insertUserSQL,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.IsAdmin,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with telegram id %d: %w", user.TelegramID, models.ErrConflict)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByTelegramID retrieves the user bound to the given Telegram ID.
// It returns nil without an error when no such user exists.
func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User

	err := r.db.QueryRow(ctx, selectUserByTelegramIDSQL, telegramID).Scan(
		&user.ID,
		&user.TelegramID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil // absent is a valid result
		}
		return nil, fmt.Errorf("failed to query user %d: %w", telegramID, err)
	}

	return &user, nil
}

// UpsertUser returns the user bound to telegramID, creating it when absent.
// Non-nil profile fields overwrite the stored ones on an existing row.
// The boolean result reports whether the row was created by this call.
func (r *Repository) UpsertUser(
	ctx context.Context,
	telegramID int64,
	profile models.UserProfile,
) (*models.User, bool, error) {
	var (
		user    models.User
		created bool
	)

	err := r.db.QueryRow(ctx, upsertUserSQL,
		telegramID,
		profile.Username,
		profile.FirstName,
		profile.LastName,
		time.Now().UTC().Truncate(time.Microsecond),
	).Scan(
		&user.ID,
		&user.TelegramID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.IsAdmin,
		&user.CreatedAt,
		&created,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert user %d: %w", telegramID, err)
	}

	return &user, created, nil
}

// EnsureAdmin grants the admin flag to telegramID, creating a bare user when absent.
func (r *Repository) EnsureAdmin(ctx context.Context, telegramID int64) error {
	_, err := r.db.Exec(ctx, ensureAdminSQL, telegramID, time.Now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return fmt.Errorf("failed to grant admin to user %d: %w", telegramID, err)
	}

	return nil
}
