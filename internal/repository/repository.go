package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/equipbot/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a duplicate unique key.
const uniqueViolation = "23505"

// Repository is the record store for equipment and users.
type Repository struct {
	db Database
}

// EquipmentManager defines the persistence operations of the equipment table.
type EquipmentManager interface {
	CreateEquipment(ctx context.Context, item *models.Equipment) error
	GetEquipment(ctx context.Context, id int64) (*models.Equipment, error)
	SearchEquipment(ctx context.Context, filter models.SearchFilter, offset, limit int) ([]models.Equipment, error)
	UpdateEquipment(ctx context.Context, id int64, apply func(item *models.Equipment) error) (*models.Equipment, error)
	DeleteEquipment(ctx context.Context, id int64) (bool, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctBrands(ctx context.Context) ([]string, error)
	GetCatalogStats(ctx context.Context) (models.CatalogStats, error)
}

// UserManager defines the persistence operations of the users table.
type UserManager interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	UpsertUser(ctx context.Context, telegramID int64, profile models.UserProfile) (*models.User, bool, error)
	EnsureAdmin(ctx context.Context, telegramID int64) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database) *Repository {
	return &Repository{db: db}
}

// withTx runs fn inside a single transaction. The transaction is committed when fn
// succeeds and rolled back on every other exit path.
func (r *Repository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
