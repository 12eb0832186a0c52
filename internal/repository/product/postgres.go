package product

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront-api/internal/domain"
	"storefront-api/internal/money"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id, name, brand, COALESCE(description, ''), in_stock, category_id`

func (r *postgresRepo) List(ctx context.Context, limit int) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
ORDER BY id
LIMIT $1
`
	products, err := r.queryProducts(ctx, q, limit)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(products)))
	return products, nil
}

func (r *postgresRepo) ListByCategory(ctx context.Context, categoryID int64, limit int) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE category_id = $1
ORDER BY id
LIMIT $2
`
	products, err := r.queryProducts(ctx, q, categoryID, limit)
	if err != nil {
		r.logger.Error("product repo: list by category", zap.Int64("category_id", categoryID), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: list by category", zap.Int64("category_id", categoryID), zap.Int("count", len(products)))
	return products, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	products, err := r.queryProducts(ctx, q, id)
	if err != nil {
		r.logger.Error("product repo: get", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if len(products) == 0 {
		return nil, &domain.NotFoundError{Kind: domain.KindProduct, ID: id}
	}
	return &products[0], nil
}

// queryProducts runs a product query and materializes gallery, attributes,
// attribute items, prices and category for every returned row.
func (r *postgresRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Description, &p.InStock, &p.CategoryID); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(products))
	index := make(map[string]*domain.Product, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
		index[products[i].ID] = &products[i]
	}

	if err := r.attachGallery(ctx, ids, index); err != nil {
		return nil, err
	}
	if err := r.attachAttributes(ctx, ids, index); err != nil {
		return nil, err
	}
	if err := r.attachPrices(ctx, ids, index); err != nil {
		return nil, err
	}
	if err := r.attachCategories(ctx, index); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *postgresRepo) attachGallery(ctx context.Context, ids []string, index map[string]*domain.Product) error {
	const q = `
SELECT product_id, image_url
FROM gallery
WHERE product_id = ANY($1)
ORDER BY product_id, position, id
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var productID, imageURL string
		if err := rows.Scan(&productID, &imageURL); err != nil {
			return err
		}
		if p, ok := index[productID]; ok {
			p.Gallery = append(p.Gallery, imageURL)
		}
	}
	return rows.Err()
}

func (r *postgresRepo) attachAttributes(ctx context.Context, ids []string, index map[string]*domain.Product) error {
	const attrQuery = `
SELECT id, product_id, name, type
FROM attributes
WHERE product_id = ANY($1)
ORDER BY product_id, id
`
	rows, err := r.pool.Query(ctx, attrQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Attribute
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Name, &a.Type); err != nil {
			return err
		}
		if p, ok := index[a.ProductID]; ok {
			p.Attributes = append(p.Attributes, a)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Index attribute slots only after every append: appending can
	// reallocate the slice, which would leave earlier pointers stale.
	var attributeIDs []int64
	attrIndex := make(map[int64]*domain.Attribute)
	for _, p := range index {
		for i := range p.Attributes {
			a := &p.Attributes[i]
			attrIndex[a.ID] = a
			attributeIDs = append(attributeIDs, a.ID)
		}
	}
	if len(attributeIDs) == 0 {
		return nil
	}

	const itemQuery = `
SELECT id, attribute_id, display_value, value
FROM attribute_items
WHERE attribute_id = ANY($1)
ORDER BY attribute_id, position, id
`
	itemRows, err := r.pool.Query(ctx, itemQuery, attributeIDs)
	if err != nil {
		return err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item domain.AttributeItem
		var attributeID int64
		if err := itemRows.Scan(&item.ID, &attributeID, &item.DisplayValue, &item.Value); err != nil {
			return err
		}
		if a, ok := attrIndex[attributeID]; ok {
			a.Items = append(a.Items, item)
		}
	}
	return itemRows.Err()
}

func (r *postgresRepo) attachPrices(ctx context.Context, ids []string, index map[string]*domain.Product) error {
	const q = `
SELECT p.id, p.product_id, p.amount::text, c.id, c.label, c.symbol
FROM prices p
JOIN currencies c ON c.id = p.currency_id
WHERE p.product_id = ANY($1)
ORDER BY p.product_id, p.id
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var price domain.Price
		var productID, amount string
		if err := rows.Scan(&price.ID, &productID, &amount, &price.Currency.ID, &price.Currency.Label, &price.Currency.Symbol); err != nil {
			return err
		}
		parsed, err := money.Parse(amount)
		if err != nil {
			return err
		}
		price.Amount = parsed
		if p, ok := index[productID]; ok {
			p.Prices = append(p.Prices, price)
		}
	}
	return rows.Err()
}

func (r *postgresRepo) attachCategories(ctx context.Context, index map[string]*domain.Product) error {
	categoryIDs := make([]int64, 0, len(index))
	seen := make(map[int64]bool)
	for _, p := range index {
		if p.CategoryID != nil && !seen[*p.CategoryID] {
			seen[*p.CategoryID] = true
			categoryIDs = append(categoryIDs, *p.CategoryID)
		}
	}
	if len(categoryIDs) == 0 {
		return nil
	}

	const q = `
SELECT id, name
FROM categories
WHERE id = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, categoryIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	categories := make(map[int64]domain.Category)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return err
		}
		categories[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range index {
		if p.CategoryID == nil {
			continue
		}
		if c, ok := categories[*p.CategoryID]; ok {
			category := c
			p.Category = &category
		}
	}
	return nil
}
