package domain

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"storefront-api/internal/money"
)

// Order owns its items. Total is derived from the items and is never set
// independently of them.
type Order struct {
	ID        int64        `json:"id"`
	Total     money.Amount `json:"total"`
	Currency  Currency     `json:"currency"`
	CreatedAt time.Time    `json:"created_at"`
	Items     []OrderItem  `json:"items"`
}

// OrderItem snapshots the product's unit price at order time, so later
// catalog price changes do not affect persisted orders. OrderID is a
// non-owning back-reference.
type OrderItem struct {
	ID                   int64        `json:"id"`
	OrderID              int64        `json:"-"`
	ProductID            string       `json:"product_id"`
	Quantity             int          `json:"quantity"`
	UnitPrice            money.Amount `json:"unit_price"`
	SelectedAttributeIDs []int64      `json:"selected_attributes"`
}

// Total is the line total: unit price times quantity, decimal-exact.
func (i OrderItem) Total() money.Amount {
	return i.UnitPrice.MulInt(int64(i.Quantity))
}

// SumItems recomputes the order total from the full item set. It always
// walks every item rather than adjusting incrementally, so partial updates
// cannot drift.
func (o *Order) SumItems() money.Amount {
	total := money.Zero()
	for _, item := range o.Items {
		total = total.Add(item.Total())
	}
	return total
}

// OrderLine is one requested (product, quantity, attribute-selection)
// tuple submitted at checkout.
type OrderLine struct {
	ProductID            string
	Quantity             int
	SelectedAttributeIDs []int64
}

// CatalogView is the read access order building needs. Implementations
// return *NotFoundError for missing rows. The postgres implementation runs
// on the same transaction as the order write, so validation and persist see
// one snapshot.
type CatalogView interface {
	CurrencyByID(ctx context.Context, id int64) (*Currency, error)
	ProductByID(ctx context.Context, id string) (*Product, error)
	// AttributeItemByID returns the item and its parent attribute; the
	// attribute is nil when the item is orphaned.
	AttributeItemByID(ctx context.Context, id int64) (*AttributeItem, *Attribute, error)
}

// BuildOrder validates the requested lines against the catalog and
// assembles an unpersisted order. It short-circuits on the first failing
// condition: currency, then per line product existence, stock, quantity,
// and selected attribute items.
func BuildOrder(ctx context.Context, catalog CatalogView, currencyID int64, lines []OrderLine) (*Order, error) {
	currency, err := catalog.CurrencyByID(ctx, currencyID)
	if err != nil {
		return nil, err
	}

	order := &Order{Currency: *currency}
	for _, line := range lines {
		item, err := buildItem(ctx, catalog, line)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
	}
	order.Total = order.SumItems()
	return order, nil
}

func buildItem(ctx context.Context, catalog CatalogView, line OrderLine) (*OrderItem, error) {
	product, err := catalog.ProductByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.InStock {
		return nil, &ValidationError{Reason: fmt.Sprintf("Product '%s' is out of stock", product.Name)}
	}
	if line.Quantity <= 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("quantity must be a positive integer for product '%s'", product.ID)}
	}

	for _, itemID := range line.SelectedAttributeIDs {
		attrItem, attr, err := catalog.AttributeItemByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if attr == nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("Attribute item with ID '%d' does not have a parent attribute", attrItem.ID)}
		}
		if !product.HasAttribute(attr.ID) {
			return nil, &ValidationError{Reason: fmt.Sprintf("Attribute '%s' does not exist for product '%s'", attr.Name, product.Name)}
		}
	}

	price := product.PrimaryPrice()
	if price == nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("Product '%s' has no price", product.Name)}
	}

	return &OrderItem{
		ProductID:            product.ID,
		Quantity:             line.Quantity,
		UnitPrice:            price.Amount,
		SelectedAttributeIDs: line.SelectedAttributeIDs,
	}, nil
}

// FormatCreatedAt renders the order timestamp the way the API exposes it.
func (o *Order) FormatCreatedAt() string {
	return o.CreatedAt.Format("2006-01-02 15:04:05")
}

// AttributeIDStrings renders the selected attribute item ids for the wire,
// which carries them as a list of strings.
func (i OrderItem) AttributeIDStrings() []string {
	out := make([]string, 0, len(i.SelectedAttributeIDs))
	for _, id := range i.SelectedAttributeIDs {
		out = append(out, strconv.FormatInt(id, 10))
	}
	return out
}
