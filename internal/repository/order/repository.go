package order

import (
	"context"

	"storefront-api/internal/domain"
)

type CreateOrderInput struct {
	CurrencyID int64
	Lines      []domain.OrderLine
}

// UpdateOrderInput carries optional changes: Lines replaces the whole item
// set when HasLines is true; CurrencyID swaps the order currency when
// non-nil.
type UpdateOrderInput struct {
	Lines      []domain.OrderLine
	HasLines   bool
	CurrencyID *int64
}

// Repository persists orders. Create and Update run their validation reads
// and writes inside a single database transaction, so a concurrent catalog
// change cannot invalidate an already-validated order between check and
// write, and no partial order is ever visible.
type Repository interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	Update(ctx context.Context, id int64, in UpdateOrderInput) (*domain.Order, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}
