package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"artstore/internal/domain"
	"artstore/internal/log"
	"artstore/internal/repos"
)

// OrderService places orders. A checkout reads the cart, reserves stock,
// writes the order and clears the cart in one transaction.
type OrderService struct {
	db          *sqlx.DB
	Ledger      *InventoryLedger
	Orders      *repos.OrderRepo
	Eligibility *EligibilityService
}

func NewOrderService(db *sqlx.DB, ledger *InventoryLedger, orders *repos.OrderRepo, elig *EligibilityService) *OrderService {
	return &OrderService{db: db, Ledger: ledger, Orders: orders, Eligibility: elig}
}

type orderPlacedItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderPlacedEvent struct {
	OrderID     string            `json:"order_id"`
	UserID      string            `json:"user_id"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Items       []orderPlacedItem `json:"items"`
	PlacedAt    time.Time         `json:"placed_at"`
}

// Checkout turns the caller's cart into an order. On any error nothing is changed:
// stock, cart and order history stay exactly as they were.
func (s *OrderService) Checkout(ctx context.Context, who domain.Identity) (domain.Order, error) {
	if !who.Authenticated() {
		return domain.Order{}, domain.ErrUserNotAuthenticated
	}

	var order domain.Order
	err := repos.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		carts := repos.NewCartRepo(tx)
		cartID, err := carts.EnsureCart(ctx, who.UserID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		lines, err := carts.Lines(ctx, cartID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		order = domain.Order{ID: uuid.NewString(), UserID: who.UserID}
		for _, l := range lines {
			if err := s.Ledger.Reserve(ctx, tx, l.ProductID, l.Quantity); err != nil {
				var short *domain.InsufficientStockError
				if errors.As(err, &short) {
					short.ProductName = l.Name
				}
				return err
			}
			// the price read above, inside this transaction, is the snapshot
			order.Lines = append(order.Lines, domain.OrderLine{
				OrderID:     order.ID,
				ProductID:   l.ProductID,
				ProductName: l.Name,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
			})
		}
		order.TotalAmount = domain.OrderTotal(order.Lines)

		if err := repos.NewOrderRepo(tx).Create(ctx, &order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		payload, err := json.Marshal(placedEvent(order))
		if err != nil {
			return fmt.Errorf("encode order event: %w", err)
		}
		if err := repos.NewOutboxRepo(tx).Append(ctx, order.ID, repos.EventOrderPlaced, payload); err != nil {
			return fmt.Errorf("append outbox: %w", err)
		}
		if err := carts.Clear(ctx, cartID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	if s.Eligibility != nil {
		ids := make([]string, 0, len(order.Lines))
		for _, l := range order.Lines {
			ids = append(ids, l.ProductID)
		}
		s.Eligibility.Remember(ctx, who.UserID, ids)
	}
	return order, nil
}

func placedEvent(o domain.Order) orderPlacedEvent {
	evt := orderPlacedEvent{OrderID: o.ID, UserID: o.UserID, TotalAmount: o.TotalAmount, PlacedAt: o.CreatedAt}
	for _, l := range o.Lines {
		evt.Items = append(evt.Items, orderPlacedItem{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return evt
}

// GetOrder returns one order to its owner or an admin. Anyone else gets
// ErrOrderNotFound, the same as for an id that does not exist.
func (s *OrderService) GetOrder(ctx context.Context, who domain.Identity, orderID string) (domain.Order, error) {
	if !who.Authenticated() {
		return domain.Order{}, domain.ErrUserNotAuthenticated
	}
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !domain.CanManage(who, o.UserID) {
		log.Security(nil, "access.denied.order", map[string]any{"user_id": who.UserID, "order_id": orderID})
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) ListLatest(ctx context.Context, who domain.Identity, limit int) ([]domain.Order, error) {
	if !who.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.Orders.ListLatest(ctx, limit)
}
