package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/storemate/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDForUpdate loads the product under an exclusive row lock.
	// Stock mutations must go through this method so that concurrent
	// sales cannot both pass a stale sufficiency check.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
