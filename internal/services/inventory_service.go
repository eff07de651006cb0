package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"artstore/internal/domain"
	"artstore/internal/repos"
)

// InventoryLedger is the only writer of product stock.
type InventoryLedger struct {
	Inv *repos.InventoryRepo
}

func NewInventoryLedger(inv *repos.InventoryRepo) *InventoryLedger {
	return &InventoryLedger{Inv: inv}
}

// Reserve takes qty units of productID or fails with *domain.InsufficientStockError
// leaving stock untouched. q is normally the checkout transaction; the
// check and the decrement are one conditional UPDATE, so concurrent
// reservations can never jointly oversell.
func (l *InventoryLedger) Reserve(ctx context.Context, q sqlx.ExtContext, productID string, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	inv := repos.NewInventoryRepo(q)
	ok, err := inv.Decrement(ctx, productID, qty)
	if err != nil {
		return fmt.Errorf("reserve %s: %w", productID, err)
	}
	if ok {
		return nil
	}
	avail, err := inv.Qty(ctx, productID)
	if err != nil {
		return err
	}
	return &domain.InsufficientStockError{ProductID: productID, Requested: qty, Available: avail}
}

func (l *InventoryLedger) Available(ctx context.Context, productID string) (int, error) {
	return l.Inv.Qty(ctx, productID)
}

// Restock sets the absolute stock count. Admin only.
func (l *InventoryLedger) Restock(ctx context.Context, who domain.Identity, productID string, qty int) error {
	if !who.IsAdmin() {
		return domain.ErrForbidden
	}
	if qty < 0 {
		return domain.ErrInvalidQuantity
	}
	return l.Inv.SetQty(ctx, productID, qty)
}

func (l *InventoryLedger) ListStock(ctx context.Context, who domain.Identity) ([]domain.StockLevel, error) {
	if !who.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return l.Inv.ListAll(ctx)
}

// CheckAvailability converts qty into IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (l *InventoryLedger) CheckAvailability(ctx context.Context, productID string) (domain.Availability, error) {
	qty, err := l.Inv.Qty(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}
	status := "OUT_OF_STOCK"
	switch {
	case qty >= 5:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{ProductID: productID, Status: status, Qty: qty}, nil
}
