package order

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"storefront-api/internal/domain"
	orderrepo "storefront-api/internal/repository/order"
)

// ProductInput is one checkout line as the API receives it.
// SelectedAttributes is a JSON-encoded list of attribute-item ids.
type ProductInput struct {
	ID                 string `json:"id"`
	Quantity           int    `json:"quantity"`
	SelectedAttributes string `json:"selectedAttributes"`
}

type repo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	Update(ctx context.Context, id int64, in orderrepo.UpdateOrderInput) (*domain.Order, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

type Service struct {
	repo repo
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new order atomically. Any failure leaves
// no trace in the store.
func (s *Service) Create(ctx context.Context, inputs []ProductInput, currencyID int64) (*domain.Order, error) {
	lines, err := decodeLines(inputs)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, orderrepo.CreateOrderInput{
		CurrencyID: currencyID,
		Lines:      lines,
	})
}

// Update replaces the order's item set and/or currency. When inputs is nil
// the existing items are kept.
func (s *Service) Update(ctx context.Context, id int64, inputs []ProductInput, currencyID *int64) (*domain.Order, error) {
	in := orderrepo.UpdateOrderInput{CurrencyID: currencyID}
	if inputs != nil {
		lines, err := decodeLines(inputs)
		if err != nil {
			return nil, err
		}
		in.Lines = lines
		in.HasLines = true
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func decodeLines(inputs []ProductInput) ([]domain.OrderLine, error) {
	lines := make([]domain.OrderLine, 0, len(inputs))
	for _, in := range inputs {
		ids, err := decodeSelectedAttributes(in.SelectedAttributes)
		if err != nil {
			return nil, &domain.ValidationError{
				Reason: fmt.Sprintf("invalid selectedAttributes for product '%s': expected a JSON list of attribute item ids", in.ID),
			}
		}
		lines = append(lines, domain.OrderLine{
			ProductID:            in.ID,
			Quantity:             in.Quantity,
			SelectedAttributeIDs: ids,
		})
	}
	return lines, nil
}

func decodeSelectedAttributes(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
