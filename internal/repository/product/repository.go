package product

import (
	"context"

	"storefront-api/internal/domain"
)

// Repository loads fully materialized products: gallery, attributes with
// their items, and prices are attached before a product is returned.
type Repository interface {
	List(ctx context.Context, limit int) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64, limit int) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}
