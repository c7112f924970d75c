// Package catalog owns the equipment lifecycle: validation, timestamps,
// search windowing and specification hydration on top of the record store.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/UnknownOlympus/equipbot/internal/models"
	"github.com/UnknownOlympus/equipbot/internal/repository"
	"github.com/UnknownOlympus/equipbot/internal/specs"
)

// Config tunes the catalog service.
type Config struct {
	Categories      []string // Recommended categories, offered to users but not enforced
	DefaultCurrency string   // Applied when create omits the currency
	PageSize        int      // Used when a caller passes a non-positive limit
	MaxPageSize     int      // Upper bound for any limit
}

// Service is a stateless facade over the equipment store.
type Service struct {
	log   *slog.Logger
	store repository.EquipmentManager
	cfg   Config
	now   func() time.Time
}

// NewService creates a catalog service. Zero config values fall back to sane defaults.
func NewService(log *slog.Logger, store repository.EquipmentManager, cfg Config) *Service {
	const (
		defPageSize    = 10
		defMaxPageSize = 100
	)

	if cfg.PageSize <= 0 {
		cfg.PageSize = defPageSize
	}
	if cfg.MaxPageSize < cfg.PageSize {
		cfg.MaxPageSize = max(defMaxPageSize, cfg.PageSize)
	}
	if strings.TrimSpace(cfg.DefaultCurrency) == "" {
		cfg.DefaultCurrency = models.DefaultCurrency
	}

	return &Service{
		log:   log,
		store: store,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// PageSize returns the configured default window size.
func (s *Service) PageSize() int {
	return s.cfg.PageSize
}

// MaxPageSize returns the largest window any read returns.
func (s *Service) MaxPageSize() int {
	return s.cfg.MaxPageSize
}

// Create validates input, stamps both timestamps and persists a new record.
// The returned record carries its specifications exactly as a later Get would.
func (s *Service) Create(ctx context.Context, input models.EquipmentInput) (*models.Equipment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, &models.ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if input.Price == nil {
		return nil, &models.ValidationError{Field: "price", Reason: "is required"}
	}
	if err := validatePrice(*input.Price); err != nil {
		return nil, err
	}

	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}
	availability := true
	if input.Availability != nil {
		availability = *input.Availability
	}

	now := s.now()
	item := &models.Equipment{
		Name:           name,
		Category:       category,
		Description:    optionalText(input.Description),
		Price:          *input.Price,
		Currency:       currency,
		Brand:          optionalText(input.Brand),
		Model:          optionalText(input.Model),
		Specifications: hydrate(input.Specifications),
		Availability:   availability,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreateEquipment(ctx, item); err != nil {
		s.log.ErrorContext(ctx, "Failed to create equipment", "name", name, "error", err)
		return nil, &models.StorageError{Op: "create equipment", Err: err}
	}

	s.log.InfoContext(ctx, "Equipment created", "id", item.ID, "name", item.Name)
	return item, nil
}

// Get returns the record with the given id, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*models.Equipment, error) {
	item, err := s.store.GetEquipment(ctx, id)
	if err != nil {
		return nil, &models.StorageError{Op: "get equipment", Err: err}
	}

	return item, nil
}

// List returns the whole catalog, newest first, windowed by offset and limit.
func (s *Service) List(ctx context.Context, offset, limit int) ([]models.Equipment, error) {
	return s.Search(ctx, models.SearchFilter{}, offset, limit)
}

// Search returns the records matching every present criterion of filter,
// newest first, windowed by offset and limit. An empty filter behaves as List.
func (s *Service) Search(
	ctx context.Context,
	filter models.SearchFilter,
	offset, limit int,
) ([]models.Equipment, error) {
	offset, limit = s.window(offset, limit)

	items, err := s.store.SearchEquipment(ctx, filter.Normalize(), offset, limit)
	if err != nil {
		return nil, &models.StorageError{Op: "search equipment", Err: err}
	}

	return items, nil
}

// Update applies the present fields of patch to the record with the given id and
// refreshes updated_at. It returns nil when the record does not exist.
func (s *Service) Update(ctx context.Context, id int64, patch models.EquipmentPatch) (*models.Equipment, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	now := s.now()
	item, err := s.store.UpdateEquipment(ctx, id, func(item *models.Equipment) error {
		applyPatch(item, patch)
		item.UpdatedAt = now
		if item.UpdatedAt.Before(item.CreatedAt) {
			item.UpdatedAt = item.CreatedAt
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return nil, err
		}
		s.log.ErrorContext(ctx, "Failed to update equipment", "id", id, "error", err)
		return nil, &models.StorageError{Op: "update equipment", Err: err}
	}

	if item != nil {
		s.log.InfoContext(ctx, "Equipment updated", "id", id)
	}
	return item, nil
}

// Delete permanently removes the record and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.DeleteEquipment(ctx, id)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to delete equipment", "id", id, "error", err)
		return false, &models.StorageError{Op: "delete equipment", Err: err}
	}

	if deleted {
		s.log.InfoContext(ctx, "Equipment deleted", "id", id)
	}
	return deleted, nil
}

// Categories returns every category currently present, each once, sorted.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.store.DistinctCategories(ctx)
	if err != nil {
		return nil, &models.StorageError{Op: "distinct categories", Err: err}
	}

	return categories, nil
}

// Brands returns every non-absent brand currently present, each once, sorted.
func (s *Service) Brands(ctx context.Context) ([]string, error) {
	brands, err := s.store.DistinctBrands(ctx)
	if err != nil {
		return nil, &models.StorageError{Op: "distinct brands", Err: err}
	}

	return brands, nil
}

// RecommendedCategories returns the configured category list.
func (s *Service) RecommendedCategories() []string {
	return append([]string(nil), s.cfg.Categories...)
}

// Stats summarizes the catalog.
func (s *Service) Stats(ctx context.Context) (models.CatalogStats, error) {
	stats, err := s.store.GetCatalogStats(ctx)
	if err != nil {
		return models.CatalogStats{}, &models.StorageError{Op: "catalog stats", Err: err}
	}

	return stats, nil
}

// window clamps a caller supplied offset and limit to the configured bounds.
func (s *Service) window(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = s.cfg.PageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	return offset, limit
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return &models.ValidationError{Field: "price", Reason: "must be a finite number"}
	}
	if price < 0 {
		return &models.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

func validatePatch(patch models.EquipmentPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return &models.ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return err
		}
	}
	if patch.Currency != nil && strings.TrimSpace(*patch.Currency) == "" {
		return &models.ValidationError{Field: "currency", Reason: "must not be empty"}
	}
	return nil
}

// applyPatch copies the present fields of patch onto item.
// Blank optional text clears the field.
func applyPatch(item *models.Equipment, patch models.EquipmentPatch) {
	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		item.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Description != nil {
		item.Description = optionalText(patch.Description)
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Currency != nil {
		item.Currency = strings.TrimSpace(*patch.Currency)
	}
	if patch.Brand != nil {
		item.Brand = optionalText(patch.Brand)
	}
	if patch.Model != nil {
		item.Model = optionalText(patch.Model)
	}
	if patch.Specifications != nil {
		item.Specifications = hydrate(patch.Specifications)
	}
	if patch.Availability != nil {
		item.Availability = *patch.Availability
	}
}

// hydrate returns spec as it will read back from the store: nil when nothing
// is stored, otherwise the decoded form of its encoding.
func hydrate(spec models.Specifications) models.Specifications {
	encoded := specs.Encode(spec)
	if encoded == nil {
		return nil
	}
	return specs.Decode(encoded)
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
