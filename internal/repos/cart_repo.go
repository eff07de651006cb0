package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"artstore/internal/domain"
)

// CartRepo stores cart lines. Prices are never stored here; Lines joins the catalog.
type CartRepo struct{ db sqlx.ExtContext }

func NewCartRepo(db sqlx.ExtContext) *CartRepo { return &CartRepo{db: db} }

// EnsureCart returns the id of the user's cart, creating it on first use.
// Two concurrent callers for the same user end up with the same id.
func (r *CartRepo) EnsureCart(ctx context.Context, userID string) (string, error) {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO carts(id,user_id,updated_at) VALUES(?,?,?)
		ON CONFLICT(user_id) DO NOTHING`, uuid.NewString(), userID, now()); err != nil {
		return "", err
	}
	var cartID string
	err := sqlx.GetContext(ctx, r.db, &cartID, `SELECT id FROM carts WHERE user_id = ?`, userID)
	return cartID, err
}

// UpsertItem adds qty to the line for productID, creating it if needed.
// The increment happens in SQL so concurrent adds never lose an update.
// It reports false, changing nothing, when the line would exceed max units.
func (r *CartRepo) UpsertItem(ctx context.Context, cartID, productID string, qty, max int) (bool, error) {
	ts := now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items(cart_id,product_id,qty,created_at)
		VALUES(?,?,?,?)
		ON CONFLICT(cart_id,product_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = ?
		WHERE cart_items.qty + excluded.qty <= ?
	`, cartID, productID, qty, ts, ts, max)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil || n == 0 {
		return false, err
	}
	return true, r.touch(ctx, cartID)
}

// SetQty overwrites the quantity of an existing line. It reports false when there is no such line.
func (r *CartRepo) SetQty(ctx context.Context, cartID, productID string, qty int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items SET qty = ?, updated_at = ?
		WHERE cart_id = ? AND product_id = ?`, qty, now(), cartID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil || n == 0 {
		return false, err
	}
	return true, r.touch(ctx, cartID)
}

// RemoveItem deletes a line. It reports false when there was nothing to delete.
func (r *CartRepo) RemoveItem(ctx context.Context, cartID, productID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil || n == 0 {
		return false, err
	}
	return true, r.touch(ctx, cartID)
}

// Lines returns the cart in insertion order, priced at the current catalog price.
func (r *CartRepo) Lines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	rows := []domain.CartLine{}
	err := sqlx.SelectContext(ctx, r.db, &rows, `
	  SELECT ci.product_id, p.name, ci.qty, p.price
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.rowid`, cartID)
	return rows, err
}

func (r *CartRepo) Clear(ctx context.Context, cartID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return err
	}
	return r.touch(ctx, cartID)
}

func (r *CartRepo) touch(ctx context.Context, cartID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE carts SET updated_at = ? WHERE id = ?`, now(), cartID)
	return err
}
