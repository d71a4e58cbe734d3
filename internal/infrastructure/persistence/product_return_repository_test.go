package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storemate/backend/internal/domain/shared"
)

func TestGormProductReturnRepository_SumReturnedQuantity(t *testing.T) {
	t.Run("totals quantity_returned for one invoice and product", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormProductReturnRepository(db)

		invoiceID := uuid.New()
		productID := uuid.New()
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity_returned\), 0\) FROM "product_returns" WHERE invoice_id = \$1 AND product_id = \$2`).
			WithArgs(invoiceID, productID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(4)))

		total, err := repo.SumReturnedQuantity(context.Background(), invoiceID, productID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplierReturnRepository_FindByID(t *testing.T) {
	t.Run("returns ErrNotFound for a missing supplier return", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierReturnRepository(db)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "supplier_returns" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
