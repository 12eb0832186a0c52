package order

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"storefront-api/internal/domain"
	"storefront-api/internal/money"
)

// txCatalog is the domain.CatalogView used during order building. It reads
// through the transaction that will also write the order, so validation and
// persist observe one snapshot.
type txCatalog struct {
	tx pgx.Tx
}

func (c *txCatalog) CurrencyByID(ctx context.Context, id int64) (*domain.Currency, error) {
	const q = `
SELECT id, label, symbol
FROM currencies
WHERE id = $1
`
	var cur domain.Currency
	if err := c.tx.QueryRow(ctx, q, id).Scan(&cur.ID, &cur.Label, &cur.Symbol); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: domain.KindCurrency, ID: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}
	return &cur, nil
}

// ProductByID loads what order validation needs: stock flag, prices ordered
// by id (the first one is the snapshot source) and the product's attribute
// set.
func (c *txCatalog) ProductByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id, name, brand, COALESCE(description, ''), in_stock, category_id
FROM products
WHERE id = $1
`
	var p domain.Product
	err := c.tx.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Brand, &p.Description, &p.InStock, &p.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: domain.KindProduct, ID: id}
		}
		return nil, err
	}

	const priceQuery = `
SELECT p.id, p.amount::text, c.id, c.label, c.symbol
FROM prices p
JOIN currencies c ON c.id = p.currency_id
WHERE p.product_id = $1
ORDER BY p.id
`
	priceRows, err := c.tx.Query(ctx, priceQuery, id)
	if err != nil {
		return nil, err
	}
	defer priceRows.Close()

	for priceRows.Next() {
		var price domain.Price
		var amount string
		if err := priceRows.Scan(&price.ID, &amount, &price.Currency.ID, &price.Currency.Label, &price.Currency.Symbol); err != nil {
			return nil, err
		}
		if price.Amount, err = money.Parse(amount); err != nil {
			return nil, err
		}
		p.Prices = append(p.Prices, price)
	}
	if err := priceRows.Err(); err != nil {
		return nil, err
	}

	const attrQuery = `
SELECT id, name, type
FROM attributes
WHERE product_id = $1
ORDER BY id
`
	attrRows, err := c.tx.Query(ctx, attrQuery, id)
	if err != nil {
		return nil, err
	}
	defer attrRows.Close()

	for attrRows.Next() {
		var a domain.Attribute
		if err := attrRows.Scan(&a.ID, &a.Name, &a.Type); err != nil {
			return nil, err
		}
		a.ProductID = p.ID
		p.Attributes = append(p.Attributes, a)
	}
	return &p, attrRows.Err()
}

func (c *txCatalog) AttributeItemByID(ctx context.Context, id int64) (*domain.AttributeItem, *domain.Attribute, error) {
	const q = `
SELECT i.id, i.display_value, i.value, a.id, a.product_id, a.name, a.type
FROM attribute_items i
LEFT JOIN attributes a ON a.id = i.attribute_id
WHERE i.id = $1
`
	var item domain.AttributeItem
	var attrID *int64
	var attrProductID, attrName, attrType *string
	err := c.tx.QueryRow(ctx, q, id).Scan(&item.ID, &item.DisplayValue, &item.Value, &attrID, &attrProductID, &attrName, &attrType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, &domain.NotFoundError{Kind: domain.KindAttributeItem, ID: strconv.FormatInt(id, 10)}
		}
		return nil, nil, err
	}
	if attrID == nil {
		return &item, nil, nil
	}
	return &item, &domain.Attribute{
		ID:        *attrID,
		ProductID: *attrProductID,
		Name:      *attrName,
		Type:      *attrType,
	}, nil
}
