package services

import (
	"context"

	"artstore/internal/domain"
	"artstore/internal/repos"
)

// OrderHistory is the read side of placed orders.
type OrderHistory struct {
	Orders *repos.OrderRepo
}

func NewOrderHistory(orders *repos.OrderRepo) *OrderHistory {
	return &OrderHistory{Orders: orders}
}

// ListOrders returns the caller's orders, most recent first.
func (h *OrderHistory) ListOrders(ctx context.Context, who domain.Identity) ([]domain.Order, error) {
	if !who.Authenticated() {
		return nil, domain.ErrUserNotAuthenticated
	}
	return h.Orders.ListByUser(ctx, who.UserID)
}
