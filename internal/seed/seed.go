package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type attributeSeed struct {
	Name  string
	Type  string
	Items [][2]string // displayValue, value
}

type productSeed struct {
	ID          string
	Name        string
	Brand       string
	Description string
	InStock     bool
	Category    string
	Gallery     []string
	Attributes  []attributeSeed
	Prices      map[string]string // currency label -> amount
}

// Apply inserts basic catalog data for manual testing. It is idempotent via
// ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	currencies := map[string]string{"USD": "$", "EUR": "€"}
	currencyIDs := make(map[string]int64, len(currencies))
	for label, symbol := range currencies {
		id, err := ensureCurrency(ctx, pool, label, symbol)
		if err != nil {
			return fmt.Errorf("ensure currency %s: %w", label, err)
		}
		currencyIDs[label] = id
	}

	categoryIDs := make(map[string]int64)
	for _, name := range []string{"clothes", "tech"} {
		id, err := ensureCategory(ctx, pool, name)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", name, err)
		}
		categoryIDs[name] = id
	}

	products := []productSeed{
		{
			ID:          "classic-tee",
			Name:        "Classic Tee",
			Brand:       "Atelier",
			Description: "Soft cotton tee in seasonal colors",
			InStock:     true,
			Category:    "clothes",
			Gallery: []string{
				"https://cdn.example.com/img/classic-tee-front.jpg",
				"https://cdn.example.com/img/classic-tee-back.jpg",
			},
			Attributes: []attributeSeed{
				{Name: "Size", Type: "text", Items: [][2]string{{"Small", "S"}, {"Medium", "M"}, {"Large", "L"}}},
				{Name: "Color", Type: "swatch", Items: [][2]string{{"Black", "#000000"}, {"White", "#FFFFFF"}}},
			},
			Prices: map[string]string{"USD": "19.99", "EUR": "18.50"},
		},
		{
			ID:          "canvas-sneaker",
			Name:        "Canvas Sneaker",
			Brand:       "Atelier",
			Description: "Low-top canvas sneaker",
			InStock:     true,
			Category:    "clothes",
			Gallery: []string{
				"https://cdn.example.com/img/canvas-sneaker.jpg",
			},
			Attributes: []attributeSeed{
				{Name: "Size", Type: "text", Items: [][2]string{{"40", "40"}, {"41", "41"}, {"42", "42"}}},
			},
			Prices: map[string]string{"USD": "64.00"},
		},
		{
			ID:          "wireless-earbuds",
			Name:        "Wireless Earbuds",
			Brand:       "Soundline",
			Description: "In-ear buds with charging case",
			InStock:     false,
			Category:    "tech",
			Gallery: []string{
				"https://cdn.example.com/img/wireless-earbuds.jpg",
			},
			Prices: map[string]string{"USD": "129.99", "EUR": "119.00"},
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p, categoryIDs, currencyIDs); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}

	return nil
}

func ensureCurrency(ctx context.Context, pool *pgxpool.Pool, label, symbol string) (int64, error) {
	const q = `
INSERT INTO currencies (label, symbol)
VALUES ($1, $2)
ON CONFLICT (label) DO UPDATE SET symbol = EXCLUDED.symbol
RETURNING id
`
	var id int64
	if err := pool.QueryRow(ctx, q, label, symbol).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, name string) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, `SELECT id FROM categories WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err := pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed, categoryIDs, currencyIDs map[string]int64) error {
	const q = `
INSERT INTO products (id, name, brand, description, in_stock, category_id)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    brand = EXCLUDED.brand,
    description = EXCLUDED.description,
    in_stock = EXCLUDED.in_stock,
    category_id = EXCLUDED.category_id
`
	categoryID := categoryIDs[p.Category]
	if _, err := pool.Exec(ctx, q, p.ID, p.Name, p.Brand, p.Description, p.InStock, categoryID); err != nil {
		return err
	}

	for i, imageURL := range p.Gallery {
		const galleryQ = `
INSERT INTO gallery (product_id, image_url, position)
VALUES ($1, $2, $3)
ON CONFLICT (product_id, image_url) DO UPDATE SET position = EXCLUDED.position
`
		if _, err := pool.Exec(ctx, galleryQ, p.ID, imageURL, i); err != nil {
			return err
		}
	}

	for _, attr := range p.Attributes {
		const attrQ = `
INSERT INTO attributes (product_id, name, type)
VALUES ($1, $2, $3)
ON CONFLICT (product_id, name) DO UPDATE SET type = EXCLUDED.type
RETURNING id
`
		var attrID int64
		if err := pool.QueryRow(ctx, attrQ, p.ID, attr.Name, attr.Type).Scan(&attrID); err != nil {
			return err
		}
		for i, item := range attr.Items {
			const itemQ = `
INSERT INTO attribute_items (attribute_id, display_value, value, position)
VALUES ($1, $2, $3, $4)
ON CONFLICT (attribute_id, value) DO UPDATE
SET display_value = EXCLUDED.display_value,
    position = EXCLUDED.position
`
			if _, err := pool.Exec(ctx, itemQ, attrID, item[0], item[1], i); err != nil {
				return err
			}
		}
	}

	for label, amount := range p.Prices {
		const priceQ = `
INSERT INTO prices (product_id, currency_id, amount)
VALUES ($1, $2, $3)
ON CONFLICT (product_id, currency_id) DO UPDATE SET amount = EXCLUDED.amount
`
		if _, err := pool.Exec(ctx, priceQ, p.ID, currencyIDs[label], amount); err != nil {
			return err
		}
	}

	return nil
}
