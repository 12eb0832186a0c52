package catalog

import (
	"context"

	"storefront-api/internal/domain"
)

// DefaultProductLimit caps product listings when the caller does not ask
// for an explicit limit.
const DefaultProductLimit = 10

type productRepo interface {
	List(ctx context.Context, limit int) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64, limit int) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type categoryRepo interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
}

// Service exposes read-only catalog use cases.
type Service struct {
	products   productRepo
	categories categoryRepo
}

func New(products productRepo, categories categoryRepo) *Service {
	return &Service{products: products, categories: categories}
}

// Products lists products, optionally filtered by category. A non-positive
// limit falls back to DefaultProductLimit.
func (s *Service) Products(ctx context.Context, categoryID *int64, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = DefaultProductLimit
	}
	if categoryID != nil {
		return s.products.ListByCategory(ctx, *categoryID, limit)
	}
	return s.products.List(ctx, limit)
}

func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) Category(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}
