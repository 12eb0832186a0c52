package domain

import "storefront-api/internal/money"

// Product is a fully materialized catalog entry: gallery, attributes and
// prices are loaded by the repository, never lazily on access.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Brand       string      `json:"brand"`
	Description string      `json:"description,omitempty"`
	InStock     bool        `json:"inStock"`
	CategoryID  *int64      `json:"-"`
	Category    *Category   `json:"category,omitempty"`
	Gallery     []string    `json:"gallery"`
	Attributes  []Attribute `json:"attributes"`
	Prices      []Price     `json:"prices"`
}

// PrimaryPrice is the price snapshotted at order time: the first price in
// the product's list, ordered by id. It is nil when the product has no
// prices, which bars it from checkout.
func (p *Product) PrimaryPrice() *Price {
	if len(p.Prices) == 0 {
		return nil
	}
	return &p.Prices[0]
}

// HasAttribute reports whether the attribute with the given id belongs to
// this product.
func (p *Product) HasAttribute(attributeID int64) bool {
	for _, a := range p.Attributes {
		if a.ID == attributeID {
			return true
		}
	}
	return false
}

// Attribute is one axis of product variation, e.g. "Color". ProductID is a
// non-owning back-reference used for lookup only.
type Attribute struct {
	ID        int64           `json:"id"`
	ProductID string          `json:"-"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Items     []AttributeItem `json:"items"`
}

// AttributeItem is one concrete value on an attribute axis, e.g. "Red" with
// underlying value "#FF0000".
type AttributeItem struct {
	ID           int64  `json:"id"`
	DisplayValue string `json:"displayValue"`
	Value        string `json:"value"`
}

type Price struct {
	ID       int64        `json:"-"`
	Amount   money.Amount `json:"amount"`
	Currency Currency     `json:"currency"`
}
