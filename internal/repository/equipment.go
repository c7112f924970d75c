package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/equipbot/internal/models"
	"github.com/UnknownOlympus/equipbot/internal/specs"
	"github.com/jackc/pgx/v5"
)

// CreateEquipment inserts a new equipment row and stores the assigned ID in item.
// The specification map is encoded to its stored text form.
func (r *Repository) CreateEquipment(ctx context.Context, item *models.Equipment) error {
	err := r.db.QueryRow(ctx, insertEquipmentSQL,
		item.Name,
		item.Category,
		item.Description,
		item.Price,
		item.Currency,
		item.Brand,
		item.Model,
		specs.Encode(item.Specifications),
		item.Availability,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert equipment: %w", err)
	}

	return nil
}

// GetEquipment retrieves a single equipment row by its ID.
// It returns nil without an error when no such row exists.
func (r *Repository) GetEquipment(ctx context.Context, id int64) (*models.Equipment, error) {
	item, err := scanEquipment(r.db.QueryRow(ctx, selectEquipmentByIDSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil //nolint:nilnil // absent is a valid result
		}
		return nil, fmt.Errorf("failed to query equipment %d: %w", id, err)
	}

	return item, nil
}

// SearchEquipment returns the equipment rows matching filter, newest first.
// An empty filter lists the whole catalog.
func (r *Repository) SearchEquipment(
	ctx context.Context,
	filter models.SearchFilter,
	offset, limit int,
) ([]models.Equipment, error) {
	query, args := BuildSearchQuery(filter, offset, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query equipment: %w", err)
	}
	defer rows.Close()

	items := make([]models.Equipment, 0)
	for rows.Next() {
		item, errScan := scanEquipment(rows)
		if errScan != nil {
			return nil, fmt.Errorf("failed to scan equipment row: %w", errScan)
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read equipment rows: %w", err)
	}

	return items, nil
}

// UpdateEquipment locks the row with the given ID, lets apply modify it and writes
// the result back, all inside one transaction. It returns nil without an error when
// no such row exists. An error returned by apply aborts the transaction unchanged.
func (r *Repository) UpdateEquipment(
	ctx context.Context,
	id int64,
	apply func(item *models.Equipment) error,
) (*models.Equipment, error) {
	var updated *models.Equipment

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		item, err := scanEquipment(tx.QueryRow(ctx, selectEquipmentForUpdateSQL, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to lock equipment %d: %w", id, err)
		}

		if err = apply(item); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, updateEquipmentSQL,
			item.ID,
			item.Name,
			item.Category,
			item.Description,
			item.Price,
			item.Currency,
			item.Brand,
			item.Model,
			specs.Encode(item.Specifications),
			item.Availability,
			item.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update equipment %d: %w", id, err)
		}

		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEquipment permanently removes the row with the given ID.
// It reports whether a row existed.
func (r *Repository) DeleteEquipment(ctx context.Context, id int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, deleteEquipmentSQL, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete equipment %d: %w", id, err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// DistinctCategories returns every category present in the catalog, sorted.
func (r *Repository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.selectStrings(ctx, selectCategoriesSQL)
}

// DistinctBrands returns every non-null brand present in the catalog, sorted.
func (r *Repository) DistinctBrands(ctx context.Context) ([]string, error) {
	return r.selectStrings(ctx, selectBrandsSQL)
}

// GetCatalogStats aggregates availability, brand and per-category counts.
func (r *Repository) GetCatalogStats(ctx context.Context) (models.CatalogStats, error) {
	var stats models.CatalogStats

	err := r.db.QueryRow(ctx, selectCatalogTotalsSQL).Scan(&stats.Total, &stats.Available, &stats.Brands)
	if err != nil {
		return models.CatalogStats{}, fmt.Errorf("failed to query catalog totals: %w", err)
	}
	stats.Unavailable = stats.Total - stats.Available

	rows, err := r.db.Query(ctx, selectCategoryCountsSQL)
	if err != nil {
		return models.CatalogStats{}, fmt.Errorf("failed to query category counts: %w", err)
	}
	defer rows.Close()

	stats.Categories = make([]models.CategoryCount, 0)
	for rows.Next() {
		var count models.CategoryCount
		if err = rows.Scan(&count.Category, &count.Count); err != nil {
			return models.CatalogStats{}, fmt.Errorf("failed to scan category count row: %w", err)
		}
		stats.Categories = append(stats.Categories, count)
	}

	if err = rows.Err(); err != nil {
		return models.CatalogStats{}, fmt.Errorf("failed to read category count rows: %w", err)
	}

	return stats, nil
}

func (r *Repository) selectStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query values: %w", err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var value string
		if err = rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan value row: %w", err)
		}
		values = append(values, value)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read value rows: %w", err)
	}

	return values, nil
}

// scanEquipment reads one equipment row and rehydrates its specification map.
func scanEquipment(row pgx.Row) (*models.Equipment, error) {
	var (
		item     models.Equipment
		specText *string
	)

	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Description,
		&item.Price,
		&item.Currency,
		&item.Brand,
		&item.Model,
		&specText,
		&item.Availability,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if decoded := specs.Decode(specText); len(decoded) > 0 {
		item.Specifications = decoded
	}

	return &item, nil
}
