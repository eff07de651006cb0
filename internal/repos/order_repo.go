package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"artstore/internal/domain"
)

// OrderRepo only ever inserts and reads. Orders are never updated.
type OrderRepo struct{ db sqlx.ExtContext }

func NewOrderRepo(db sqlx.ExtContext) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID        string          `db:"id"`
	UserID    string          `db:"user_id"`
	Total     decimal.Decimal `db:"total_amount"`
	CreatedAt string          `db:"created_at"`
}

func (o orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:          o.ID,
		UserID:      o.UserID,
		CreatedAt:   parseTime(o.CreatedAt),
		TotalAmount: o.Total,
		Lines:       []domain.OrderLine{},
	}
}

// Create inserts the order header and its lines. Call it on a transaction so a
// failing line leaves no header behind. CreatedAt is set here when zero.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = parseTime(now())
	}
	if _, err := r.db.ExecContext(ctx, `
	  INSERT INTO orders(id, user_id, total_amount, created_at)
	  VALUES (?, ?, ?, ?)`,
		o.ID, o.UserID, o.TotalAmount.String(), o.CreatedAt.UTC().Format(timeLayout)); err != nil {
		return err
	}
	for _, l := range o.Lines {
		if _, err := r.db.ExecContext(ctx, `
		  INSERT INTO order_items(order_id, product_id, product_name, qty, unit_price)
		  VALUES (?, ?, ?, ?, ?)`,
			o.ID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice.String()); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) Get(ctx context.Context, orderID string) (domain.Order, error) {
	var row orderRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT id, user_id, total_amount, created_at FROM orders WHERE id = ?`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	out, err := r.withLines(ctx, []orderRow{row})
	if err != nil {
		return domain.Order{}, err
	}
	return out[0], nil
}

// ListByUser returns the user's orders, most recent first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var rows []orderRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT id, user_id, total_amount, created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC`, userID); err != nil {
		return nil, err
	}
	return r.withLines(ctx, rows)
}

// ListLatest returns the newest orders across all users, for the admin page.
func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []orderRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT id, user_id, total_amount, created_at
		FROM orders
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit); err != nil {
		return nil, err
	}
	return r.withLines(ctx, rows)
}

// HasPurchased reports whether any order of userID contains productID.
func (r *OrderRepo) HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	var ok bool
	err := sqlx.GetContext(ctx, r.db, &ok, `
		SELECT EXISTS(
		  SELECT 1 FROM order_items oi
		  JOIN orders o ON o.id = oi.order_id
		  WHERE o.user_id = ? AND oi.product_id = ?)`, userID, productID)
	return ok, err
}

func (r *OrderRepo) withLines(ctx context.Context, rows []orderRow) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	q, args, err := sqlx.In(`
		SELECT order_id, product_id, product_name, qty, unit_price
		FROM order_items
		WHERE order_id IN (?)
		ORDER BY rowid`, ids)
	if err != nil {
		return nil, err
	}
	var lines []domain.OrderLine
	if err := sqlx.SelectContext(ctx, r.db, &lines, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}

	byOrder := make(map[string][]domain.OrderLine, len(rows))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}
	for _, row := range rows {
		o := row.toDomain()
		if ls, ok := byOrder[row.ID]; ok {
			o.Lines = ls
		}
		out = append(out, o)
	}
	return out, nil
}
