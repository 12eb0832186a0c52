package order

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/domain"
	"storefront-api/internal/migrate"
)

func TestPostgres_CreateComputesExactTotal(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	resetTables(ctx, t, pool)
	fx := seedCatalog(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, CreateOrderInput{
		CurrencyID: fx.usdID,
		Lines: []domain.OrderLine{
			{ProductID: "classic-tee", Quantity: 2, SelectedAttributeIDs: []int64{fx.sizeSmallID}},
			{ProductID: "canvas-sneaker", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned order id")
	}
	if created.Total.String() != "103.98" {
		t.Fatalf("expected total 103.98, got %s", created.Total)
	}
	if created.Currency.Label != "USD" {
		t.Fatalf("unexpected currency %+v", created.Currency)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Total.String() != "103.98" {
		t.Fatalf("persisted total mismatch: %s", got.Total)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	first := got.Items[0]
	if first.ProductID != "classic-tee" || first.Quantity != 2 || first.UnitPrice.String() != "19.99" {
		t.Fatalf("unexpected first item %+v", first)
	}
	if len(first.SelectedAttributeIDs) != 1 || first.SelectedAttributeIDs[0] != fx.sizeSmallID {
		t.Fatalf("selected attributes did not round-trip: %v", first.SelectedAttributeIDs)
	}
	if len(got.Items[1].SelectedAttributeIDs) != 0 {
		t.Fatalf("expected no selected attributes, got %v", got.Items[1].SelectedAttributeIDs)
	}
}

func TestPostgres_CreatePersistsNothingOnFailure(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	resetTables(ctx, t, pool)
	fx := seedCatalog(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	cases := []struct {
		name  string
		lines []domain.OrderLine
		check func(error) bool
	}{
		{
			name: "unknown product",
			lines: []domain.OrderLine{
				{ProductID: "classic-tee", Quantity: 1},
				{ProductID: "ghost", Quantity: 1},
			},
			check: domain.IsNotFound,
		},
		{
			name: "out of stock",
			lines: []domain.OrderLine{
				{ProductID: "wireless-earbuds", Quantity: 1},
			},
			check: domain.IsValidation,
		},
		{
			name: "attribute from another product",
			lines: []domain.OrderLine{
				{ProductID: "canvas-sneaker", Quantity: 1, SelectedAttributeIDs: []int64{fx.sizeSmallID}},
			},
			check: domain.IsValidation,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Create(ctx, CreateOrderInput{CurrencyID: fx.usdID, Lines: tc.lines})
			if err == nil {
				t.Fatal("expected error")
			}
			if !tc.check(err) {
				t.Fatalf("unexpected error class: %v", err)
			}
			if n := countRows(ctx, t, pool, "orders"); n != 0 {
				t.Fatalf("expected no persisted orders, got %d", n)
			}
			if n := countRows(ctx, t, pool, "order_items"); n != 0 {
				t.Fatalf("expected no persisted items, got %d", n)
			}
		})
	}
}

func TestPostgres_UpdateReplacesItemsAtomically(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	resetTables(ctx, t, pool)
	fx := seedCatalog(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, CreateOrderInput{
		CurrencyID: fx.usdID,
		Lines:      []domain.OrderLine{{ProductID: "classic-tee", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, UpdateOrderInput{
		HasLines: true,
		Lines:    []domain.OrderLine{{ProductID: "canvas-sneaker", Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Items) != 1 || updated.Items[0].ProductID != "canvas-sneaker" {
		t.Fatalf("items were not replaced: %+v", updated.Items)
	}
	if updated.Total.String() != "192.00" {
		t.Fatalf("expected recomputed total 192.00, got %s", updated.Total)
	}
	if n := countRows(ctx, t, pool, "order_items"); n != 1 {
		t.Fatalf("expected 1 persisted item after replacement, got %d", n)
	}
}

func TestPostgres_UpdateCurrencyOnlyKeepsItems(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	resetTables(ctx, t, pool)
	fx := seedCatalog(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, CreateOrderInput{
		CurrencyID: fx.usdID,
		Lines:      []domain.OrderLine{{ProductID: "classic-tee", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, UpdateOrderInput{CurrencyID: &fx.eurID})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Currency.Label != "EUR" {
		t.Fatalf("expected EUR, got %+v", updated.Currency)
	}
	if len(updated.Items) != 1 {
		t.Fatalf("items must survive a currency-only update, got %d", len(updated.Items))
	}
	// Unit prices were snapshotted at creation time and stay put.
	if updated.Items[0].UnitPrice.String() != "19.99" {
		t.Fatalf("unit price changed: %s", updated.Items[0].UnitPrice)
	}
}

func TestPostgres_UpdateMissingOrder(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	resetTables(ctx, t, pool)
	seedCatalog(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	_, err := repo.Update(ctx, 424242, UpdateOrderInput{HasLines: true})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestPostgres_DeleteCascadesItems(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	resetTables(ctx, t, pool)
	fx := seedCatalog(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, CreateOrderInput{
		CurrencyID: fx.usdID,
		Lines:      []domain.OrderLine{{ProductID: "classic-tee", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := repo.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected first delete to report true")
	}
	if n := countRows(ctx, t, pool, "order_items"); n != 0 {
		t.Fatalf("expected cascaded items, %d left", n)
	}

	deleted, err = repo.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if deleted {
		t.Fatal("expected second delete to report false")
	}
}

type fixtures struct {
	usdID       int64
	eurID       int64
	sizeSmallID int64
}

// seedCatalog inserts two currencies and three products: classic-tee
// (19.99 USD, Size attribute), canvas-sneaker (64.00 USD), and the
// out-of-stock wireless-earbuds.
func seedCatalog(ctx context.Context, t *testing.T, pool *pgxpool.Pool) fixtures {
	t.Helper()

	var fx fixtures
	if err := pool.QueryRow(ctx, `INSERT INTO currencies (label, symbol) VALUES ('USD', '$') RETURNING id`).Scan(&fx.usdID); err != nil {
		t.Fatalf("insert currency: %v", err)
	}
	if err := pool.QueryRow(ctx, `INSERT INTO currencies (label, symbol) VALUES ('EUR', '€') RETURNING id`).Scan(&fx.eurID); err != nil {
		t.Fatalf("insert currency: %v", err)
	}

	products := []struct {
		id      string
		name    string
		inStock bool
		amount  string
	}{
		{"classic-tee", "Classic Tee", true, "19.99"},
		{"canvas-sneaker", "Canvas Sneaker", true, "64.00"},
		{"wireless-earbuds", "Wireless Earbuds", false, "129.99"},
	}
	for _, p := range products {
		if _, err := pool.Exec(ctx, `INSERT INTO products (id, name, in_stock) VALUES ($1, $2, $3)`, p.id, p.name, p.inStock); err != nil {
			t.Fatalf("insert product: %v", err)
		}
		if _, err := pool.Exec(ctx, `INSERT INTO prices (product_id, currency_id, amount) VALUES ($1, $2, $3)`, p.id, fx.usdID, p.amount); err != nil {
			t.Fatalf("insert price: %v", err)
		}
	}

	var sizeID int64
	if err := pool.QueryRow(ctx, `INSERT INTO attributes (product_id, name, type) VALUES ('classic-tee', 'Size', 'text') RETURNING id`).Scan(&sizeID); err != nil {
		t.Fatalf("insert attribute: %v", err)
	}
	if err := pool.QueryRow(ctx, `INSERT INTO attribute_items (attribute_id, display_value, value) VALUES ($1, 'Small', 'S') RETURNING id`, sizeID).Scan(&fx.sizeSmallID); err != nil {
		t.Fatalf("insert attribute item: %v", err)
	}
	return fx
}

func countRows(ctx context.Context, t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, prices, attribute_items, attributes, gallery, products, categories, currencies RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
