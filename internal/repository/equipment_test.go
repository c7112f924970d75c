package repository_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/UnknownOlympus/equipbot/internal/models"
	"github.com/UnknownOlympus/equipbot/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

func equipmentRow(id int64, name string, price float64, specText *string, now time.Time) []any {
	return []any{
		id, name, "Смартфоны", strPtr("Флагман"), price, "RUB", strPtr("Apple"), strPtr("A3101"),
		specText, true, now, now,
	}
}

func TestCreateEquipment(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	now := time.Now().UTC()

	newItem := func() *models.Equipment {
		return &models.Equipment{
			Name:           "iPhone 15 Pro",
			Category:       "Смартфоны",
			Price:          99990,
			Currency:       "RUB",
			Brand:          strPtr("Apple"),
			Specifications: models.Specifications{"Процессор": "A17 Pro"},
			Availability:   true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}

	t.Run("error - insert fails", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)
		item := newItem()

		mock.ExpectQuery(regexp.QuoteMeta(repository.InsertEquipmentSQL)).
			WithArgs(item.Name, item.Category, item.Description, item.Price, item.Currency,
				item.Brand, item.Model, pgxmock.AnyArg(), item.Availability, now, now).
			WillReturnError(assert.AnError)

		err = repo.CreateEquipment(ctx, item)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to insert equipment")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - assigns id and encodes specifications", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)
		item := newItem()

		mock.ExpectQuery(regexp.QuoteMeta(repository.InsertEquipmentSQL)).
			WithArgs(item.Name, item.Category, item.Description, item.Price, item.Currency,
				item.Brand, item.Model, strPtr(`{"Процессор":"A17 Pro"}`), item.Availability, now, now).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

		err = repo.CreateEquipment(ctx, item)

		require.NoError(t, err)
		assert.Equal(t, int64(42), item.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetEquipment(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	now := time.Now().UTC()

	t.Run("error - query fails", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectEquipmentByIDSQL)).
			WithArgs(int64(1)).
			WillReturnError(assert.AnError)

		item, err := repo.GetEquipment(ctx, 1)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, item)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - not found", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectEquipmentByIDSQL)).
			WithArgs(int64(7)).
			WillReturnError(pgx.ErrNoRows)

		item, err := repo.GetEquipment(ctx, 7)

		require.NoError(t, err)
		assert.Nil(t, item)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - decodes specifications", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectEquipmentByIDSQL)).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(repository.EquipmentColumns).
				AddRow(equipmentRow(1, "iPhone 15 Pro", 99990, strPtr(`{"Экран":"6.1 дюйма","ram":8}`), now)...))

		item, err := repo.GetEquipment(ctx, 1)

		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, "iPhone 15 Pro", item.Name)
		assert.Equal(t, models.Specifications{"Экран": "6.1 дюйма", "ram": float64(8)}, item.Specifications)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - malformed specifications are dropped", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectEquipmentByIDSQL)).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(repository.EquipmentColumns).
				AddRow(equipmentRow(1, "iPhone 15 Pro", 99990, strPtr("{oops"), now)...))

		item, err := repo.GetEquipment(ctx, 1)

		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Nil(t, item.Specifications)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSearchEquipment(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	now := time.Now().UTC()
	query := "iphone"
	filter := models.SearchFilter{Query: &query}
	sql, args := repository.BuildSearchQuery(filter, 0, 10)

	t.Run("error - query fails", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(sql)).WithArgs(args...).WillReturnError(assert.AnError)

		items, err := repo.SearchEquipment(ctx, filter, 0, 10)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - scan fails", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		row := equipmentRow(1, "iPhone 15 Pro", 99990, nil, now)
		row[0] = "not-a-number"
		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WithArgs(args...).
			WillReturnRows(pgxmock.NewRows(repository.EquipmentColumns).AddRow(row...))

		_, err = repo.SearchEquipment(ctx, filter, 0, 10)

		require.Error(t, err)
		require.ErrorContains(t, err, "failed to scan equipment row")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - rows error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WithArgs(args...).
			WillReturnRows(pgxmock.NewRows(repository.EquipmentColumns).
				AddRow(equipmentRow(1, "iPhone 15 Pro", 99990, nil, now)...).
				RowError(0, assert.AnError))

		_, err = repo.SearchEquipment(ctx, filter, 0, 10)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - empty result is an empty slice", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WithArgs(args...).
			WillReturnRows(pgxmock.NewRows(repository.EquipmentColumns))

		items, err := repo.SearchEquipment(ctx, filter, 0, 10)

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - rows returned in store order", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WithArgs(args...).
			WillReturnRows(pgxmock.NewRows(repository.EquipmentColumns).
				AddRow(equipmentRow(2, "iPhone 15 Pro Max", 129990, nil, now)...).
				AddRow(equipmentRow(1, "iPhone 15 Pro", 99990, nil, now)...))

		items, err := repo.SearchEquipment(ctx, filter, 0, 10)

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, int64(2), items[0].ID)
		assert.Equal(t, int64(1), items[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateEquipment(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	now := time.Now().UTC()
	later := now.Add(time.Minute)

	t.Run("error - failed to begin transaction", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectBegin().WillReturnError(assert.AnError)

		_, err = repo.UpdateEquipment(ctx, 1, func(*models.Equipment) error { return nil })

		require.Error(t, err)
		require.ErrorContains(t, err, "failed to begin transaction")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - not found commits without update", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectEquipmentForUpdateSQL)).
			WithArgs(int64(9)).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectCommit()

		called := false
		item, err := repo.UpdateEquipment(ctx, 9, func(*models.Equipment) error {
			called = true
			return nil
		})

		require.NoError(t, err)
		assert.Nil(t, item)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - apply rejects the change", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectEquipmentForUpdateSQL)).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(repository.EquipmentColumns).
				AddRow(equipmentRow(1, "iPhone 15 Pro", 99990, nil, now)...))
		mock.ExpectRollback()

		rejection := &models.ValidationError{Field: "price", Reason: "must not be negative"}
		_, err = repo.UpdateEquipment(ctx, 1, func(*models.Equipment) error { return rejection })

		require.ErrorIs(t, err, models.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - update fails", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectEquipmentForUpdateSQL)).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(repository.EquipmentColumns).
				AddRow(equipmentRow(1, "iPhone 15 Pro", 99990, nil, now)...))
		mock.ExpectExec(regexp.QuoteMeta(repository.UpdateEquipmentSQL)).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg()).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		_, err = repo.UpdateEquipment(ctx, 1, func(*models.Equipment) error { return nil })

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to update equipment 1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - writes the modified row", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectEquipmentForUpdateSQL)).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(repository.EquipmentColumns).
				AddRow(equipmentRow(1, "iPhone 15 Pro", 99990, strPtr(`{"ram":"8GB"}`), now)...))
		mock.ExpectExec(regexp.QuoteMeta(repository.UpdateEquipmentSQL)).
			WithArgs(int64(1), "iPhone 15 Pro", "Смартфоны", strPtr("Флагман"), float64(89990), "RUB",
				strPtr("Apple"), strPtr("A3101"), strPtr(`{"ram":"8GB"}`), false, later).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		item, err := repo.UpdateEquipment(ctx, 1, func(item *models.Equipment) error {
			item.Price = 89990
			item.Availability = false
			item.UpdatedAt = later
			return nil
		})

		require.NoError(t, err)
		require.NotNil(t, item)
		assert.InDelta(t, 89990, item.Price, 0.001)
		assert.False(t, item.Availability)
		assert.Equal(t, now, item.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteEquipment(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("error - delete fails", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectExec(regexp.QuoteMeta(repository.DeleteEquipmentSQL)).
			WithArgs(int64(1)).
			WillReturnError(assert.AnError)

		deleted, err := repo.DeleteEquipment(ctx, 1)

		require.ErrorIs(t, err, assert.AnError)
		assert.False(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - row removed", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectExec(regexp.QuoteMeta(repository.DeleteEquipmentSQL)).
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		deleted, err := repo.DeleteEquipment(ctx, 1)

		require.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - nothing to remove", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectExec(regexp.QuoteMeta(repository.DeleteEquipmentSQL)).
			WithArgs(int64(99)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		deleted, err := repo.DeleteEquipment(ctx, 99)

		require.NoError(t, err)
		assert.False(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDistinctValues(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("error - categories query fails", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectCategoriesSQL)).WillReturnError(assert.AnError)

		_, err = repo.DistinctCategories(ctx)

		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - categories", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectCategoriesSQL)).
			WillReturnRows(pgxmock.NewRows([]string{"category"}).AddRow("Ноутбуки").AddRow("Смартфоны"))

		categories, err := repo.DistinctCategories(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"Ноутбуки", "Смартфоны"}, categories)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - no brands", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectBrandsSQL)).
			WillReturnRows(pgxmock.NewRows([]string{"brand"}))

		brands, err := repo.DistinctBrands(ctx)

		require.NoError(t, err)
		assert.NotNil(t, brands)
		assert.Empty(t, brands)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetCatalogStats(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("error - totals query fails", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectCatalogTotalsSQL)).WillReturnError(assert.AnError)

		_, err = repo.GetCatalogStats(ctx)

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to query catalog totals")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - category counts query fails", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectCatalogTotalsSQL)).
			WillReturnRows(pgxmock.NewRows([]string{"total", "available", "brands"}).AddRow(3, 2, 2))
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectCategoryCountsSQL)).WillReturnError(assert.AnError)

		_, err = repo.GetCatalogStats(ctx)

		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectCatalogTotalsSQL)).
			WillReturnRows(pgxmock.NewRows([]string{"total", "available", "brands"}).AddRow(3, 2, 2))
		mock.ExpectQuery(regexp.QuoteMeta(repository.SelectCategoryCountsSQL)).
			WillReturnRows(pgxmock.NewRows([]string{"category", "count"}).
				AddRow("Смартфоны", 2).
				AddRow("Ноутбуки", 1))

		stats, err := repo.GetCatalogStats(ctx)

		require.NoError(t, err)
		assert.Equal(t, models.CatalogStats{
			Total:       3,
			Available:   2,
			Unavailable: 1,
			Brands:      2,
			Categories: []models.CategoryCount{
				{Category: "Смартфоны", Count: 2},
				{Category: "Ноутбуки", Count: 1},
			},
		}, stats)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
