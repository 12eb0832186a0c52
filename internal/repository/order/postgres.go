package order

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
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

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so order fetching
// can run inside or outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	built, err := domain.BuildOrder(ctx, &txCatalog{tx: tx}, in.CurrencyID, in.Lines)
	if err != nil {
		return nil, err
	}

	const insertOrder = `
INSERT INTO orders (currency_id, total)
VALUES ($1, $2)
RETURNING id, created_at
`
	if err := tx.QueryRow(ctx, insertOrder, built.Currency.ID, built.Total.String()).Scan(&built.ID, &built.CreatedAt); err != nil {
		return nil, err
	}

	if err := insertItems(ctx, tx, built); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("order repo: created",
		zap.Int64("order_id", built.ID),
		zap.Int("items", len(built.Items)),
		zap.String("total", built.Total.String()))
	return built, nil
}

func (r *postgresRepo) Update(ctx context.Context, id int64, in UpdateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var currencyID int64
	err = tx.QueryRow(ctx, `SELECT currency_id FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&currencyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: domain.KindOrder, ID: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}

	cat := &txCatalog{tx: tx}
	if in.CurrencyID != nil {
		currencyID = *in.CurrencyID
	}

	if in.HasLines {
		built, err := domain.BuildOrder(ctx, cat, currencyID, in.Lines)
		if err != nil {
			return nil, err
		}
		built.ID = id

		// Atomic replacement of the whole item set.
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
			return nil, err
		}
		if err := insertItems(ctx, tx, built); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `UPDATE orders SET currency_id = $1 WHERE id = $2`, built.Currency.ID, id); err != nil {
			return nil, err
		}
	} else if in.CurrencyID != nil {
		currency, err := cat.CurrencyByID(ctx, currencyID)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `UPDATE orders SET currency_id = $1 WHERE id = $2`, currency.ID, id); err != nil {
			return nil, err
		}
	}

	if err := updateOrderTotal(ctx, tx, id); err != nil {
		return nil, err
	}

	updated, err := fetchOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("order repo: updated",
		zap.Int64("order_id", id),
		zap.Int("items", len(updated.Items)),
		zap.String("total", updated.Total.String()))
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	// order_items rows go via the FK cascade.
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	deleted := cmd.RowsAffected() > 0
	if deleted {
		r.logger.Info("order repo: deleted", zap.Int64("order_id", id))
	}
	return deleted, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return fetchOrder(ctx, r.pool, id)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	const q = `
SELECT o.id, o.total::text, o.created_at, c.id, c.label, c.symbol
FROM orders o
JOIN currencies c ON c.id = o.currency_id
ORDER BY o.id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := fetchItems(ctx, r.pool, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func insertItems(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	const q = `
INSERT INTO order_items (order_id, product_id, quantity, unit_price, selected_attributes)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		encoded, err := encodeAttributeIDs(item.SelectedAttributeIDs)
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, q, o.ID, item.ProductID, item.Quantity, item.UnitPrice.String(), encoded).Scan(&item.ID); err != nil {
			return err
		}
	}
	return nil
}

// updateOrderTotal recomputes the order total from the full persisted item
// set, never incrementally.
func updateOrderTotal(ctx context.Context, tx pgx.Tx, orderID int64) error {
	_, err := tx.Exec(ctx, `
UPDATE orders
SET total = COALESCE((
	SELECT SUM(quantity * unit_price)
	FROM order_items
	WHERE order_id = $1
), 0)
WHERE id = $1
`, orderID)
	return err
}

func fetchOrder(ctx context.Context, q querier, id int64) (*domain.Order, error) {
	const orderQuery = `
SELECT o.id, o.total::text, o.created_at, c.id, c.label, c.symbol
FROM orders o
JOIN currencies c ON c.id = o.currency_id
WHERE o.id = $1
`
	row := q.QueryRow(ctx, orderQuery, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{Kind: domain.KindOrder, ID: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}

	o.Items, err = fetchItems(ctx, q, o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func fetchItems(ctx context.Context, q querier, orderID int64) ([]domain.OrderItem, error) {
	const itemsQuery = `
SELECT id, order_id, product_id, quantity, unit_price::text, selected_attributes
FROM order_items
WHERE order_id = $1
ORDER BY id
`
	rows, err := q.Query(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var unitPrice, selected string
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &unitPrice, &selected); err != nil {
			return nil, err
		}
		if item.UnitPrice, err = money.Parse(unitPrice); err != nil {
			return nil, err
		}
		if item.SelectedAttributeIDs, err = decodeAttributeIDs(selected); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type orderScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row orderScanner) (*domain.Order, error) {
	var o domain.Order
	var total string
	if err := row.Scan(&o.ID, &total, &o.CreatedAt, &o.Currency.ID, &o.Currency.Label, &o.Currency.Symbol); err != nil {
		return nil, err
	}
	parsed, err := money.Parse(total)
	if err != nil {
		return nil, err
	}
	o.Total = parsed
	return &o, nil
}

func encodeAttributeIDs(ids []int64) (string, error) {
	if len(ids) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeAttributeIDs(raw string) ([]int64, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
