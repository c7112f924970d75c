// Package directory manages users identified by their Telegram account.
package directory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/equipbot/internal/models"
	"github.com/UnknownOlympus/equipbot/internal/repository"
)

// Service is a stateless facade over the user store.
type Service struct {
	log   *slog.Logger
	store repository.UserManager
	now   func() time.Time
}

func NewService(log *slog.Logger, store repository.UserManager) *Service {
	return &Service{
		log:   log,
		store: store,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Create registers a new user. A Telegram ID that is already taken fails with
// models.ErrConflict.
func (s *Service) Create(
	ctx context.Context,
	telegramID int64,
	profile models.UserProfile,
	isAdmin bool,
) (*models.User, error) {
	profile = normalizeProfile(profile)
	user := &models.User{
		TelegramID: telegramID,
		Username:   profile.Username,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		IsAdmin:    isAdmin,
		CreatedAt:  s.now(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		return nil, &models.StorageError{Op: "create user", Err: err}
	}

	s.log.InfoContext(ctx, "User created", "telegram_id", telegramID)
	return user, nil
}

// FindByTelegramID returns the user bound to telegramID, or nil when there is none.
func (s *Service) FindByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	user, err := s.store.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, &models.StorageError{Op: "find user", Err: err}
	}

	return user, nil
}

// GetOrCreate returns the user bound to telegramID, refreshing the supplied profile
// fields, or creates a non-admin user when none exists. The boolean result reports
// whether the user was created. Concurrent calls for one ID yield a single record.
func (s *Service) GetOrCreate(
	ctx context.Context,
	telegramID int64,
	profile models.UserProfile,
) (*models.User, bool, error) {
	user, created, err := s.store.UpsertUser(ctx, telegramID, normalizeProfile(profile))
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get or create user", "telegram_id", telegramID, "error", err)
		return nil, false, &models.StorageError{Op: "get or create user", Err: err}
	}

	if created {
		s.log.InfoContext(ctx, "New user registered", "telegram_id", telegramID)
	}
	return user, created, nil
}

// IsAdmin reports the stored admin flag. Unknown users are not admins.
func (s *Service) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	user, err := s.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return false, err
	}

	return user != nil && user.IsAdmin, nil
}

// SeedAdmin grants the admin flag to the bootstrap identity. Zero disables it.
func (s *Service) SeedAdmin(ctx context.Context, telegramID int64) error {
	if telegramID == 0 {
		return nil
	}

	if err := s.store.EnsureAdmin(ctx, telegramID); err != nil {
		return &models.StorageError{Op: "seed admin", Err: err}
	}

	s.log.InfoContext(ctx, "Bootstrap admin ensured", "telegram_id", telegramID)
	return nil
}

// normalizeProfile turns blank values into absent ones so they never overwrite
// stored data.
func normalizeProfile(profile models.UserProfile) models.UserProfile {
	return models.UserProfile{
		Username:  blankToNil(profile.Username),
		FirstName: blankToNil(profile.FirstName),
		LastName:  blankToNil(profile.LastName),
	}
}

func blankToNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}
