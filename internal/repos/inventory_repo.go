package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"artstore/internal/domain"
)

// InventoryRepo owns products.quantity. Nothing else writes that column.
type InventoryRepo struct{ db sqlx.ExtContext }

func NewInventoryRepo(db sqlx.ExtContext) *InventoryRepo { return &InventoryRepo{db: db} }

// ListAll returns stock for every product, for the admin stock page.
func (r *InventoryRepo) ListAll(ctx context.Context) ([]domain.StockLevel, error) {
	var rows []domain.StockLevel
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT id AS product_id, name, quantity
		FROM products
		ORDER BY name`)
	return rows, err
}

// Qty returns current stock for a product.
func (r *InventoryRepo) Qty(ctx context.Context, productID string) (int, error) {
	var qty int
	err := sqlx.GetContext(ctx, r.db, &qty, `SELECT quantity FROM products WHERE id = ?`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrProductNotFound
	}
	return qty, err
}

// Decrement atomically subtracts "by" units if enough stock exists.
// It reports false, with no change made, when there isn't.
func (r *InventoryRepo) Decrement(ctx context.Context, productID string, by int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity - ?
		WHERE id = ? AND quantity >= ?`, by, productID, by)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SetQty overwrites the stock count, used by admin corrections.
func (r *InventoryRepo) SetQty(ctx context.Context, productID string, qty int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET quantity = ? WHERE id = ?`, qty, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
