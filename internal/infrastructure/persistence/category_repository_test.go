package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storemate/backend/internal/domain/catalog"
	"github.com/storemate/backend/internal/domain/shared"
)

func setupCategoryTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&catalog.Category{})
	require.NoError(t, err)

	return db
}

func mustNewCategory(t *testing.T, name string, cgst, sgst string) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory(name, "8517",
		decimal.RequireFromString(cgst),
		decimal.RequireFromString(sgst),
		decimal.Zero)
	require.NoError(t, err)
	return category
}

func TestGormCategoryRepository_Save(t *testing.T) {
	db := setupCategoryTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	t.Run("saves new category", func(t *testing.T) {
		category := mustNewCategory(t, "Electronics", "9", "9")

		err := repo.Save(ctx, category)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Electronics", found.Name)
		assert.True(t, found.CGSTRate.Equal(decimal.RequireFromString("9")))
		assert.True(t, found.SGSTRate.Equal(decimal.RequireFromString("9")))
	})

	t.Run("updates existing category", func(t *testing.T) {
		category := mustNewCategory(t, "Groceries", "2.5", "2.5")
		require.NoError(t, repo.Save(ctx, category))

		err := category.UpdateRates(
			decimal.RequireFromString("6"),
			decimal.RequireFromString("6"),
			decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, category))

		found, err := repo.FindByID(ctx, category.ID)
		require.NoError(t, err)
		assert.True(t, found.CGSTRate.Equal(decimal.RequireFromString("6")))
		assert.Equal(t, 2, found.Version)
	})
}

func TestGormCategoryRepository_FindByID(t *testing.T) {
	db := setupCategoryTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	t.Run("returns ErrNotFound for missing id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCategoryRepository_FindByName(t *testing.T) {
	db := setupCategoryTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	category := mustNewCategory(t, "Hardware", "9", "9")
	require.NoError(t, repo.Save(ctx, category))

	t.Run("finds by exact name", func(t *testing.T) {
		found, err := repo.FindByName(ctx, "Hardware")
		require.NoError(t, err)
		assert.Equal(t, category.ID, found.ID)
	})

	t.Run("returns ErrNotFound for unknown name", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "Stationery")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCategoryRepository_FindAll(t *testing.T) {
	db := setupCategoryTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Apparel", "Batteries", "Cables"} {
		require.NoError(t, repo.Save(ctx, mustNewCategory(t, name, "9", "9")))
	}

	t.Run("returns all categories ordered by name", func(t *testing.T) {
		categories, err := repo.FindAll(ctx, shared.Filter{OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, categories, 3)
		assert.Equal(t, "Apparel", categories[0].Name)
		assert.Equal(t, "Cables", categories[2].Name)
	})

	t.Run("paginates results", func(t *testing.T) {
		categories, err := repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 2, OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, categories, 1)
		assert.Equal(t, "Cables", categories[0].Name)
	})
}

func TestGormCategoryRepository_Delete(t *testing.T) {
	db := setupCategoryTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	t.Run("deletes existing category", func(t *testing.T) {
		category := mustNewCategory(t, "Toys", "9", "9")
		require.NoError(t, repo.Save(ctx, category))

		err := repo.Delete(ctx, category.ID)
		require.NoError(t, err)

		_, err = repo.FindByID(ctx, category.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("returns ErrNotFound for missing id", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
