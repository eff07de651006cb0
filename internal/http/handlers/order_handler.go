package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "artstore/internal/log"
	"artstore/internal/services"
	"artstore/internal/validate"
)

type OrderHandler struct {
	Order   *services.OrderService
	History *services.OrderHistory
}

// POST /api/v1/checkout
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	o, err := h.Order.Checkout(c.UserContext(), identity(c))
	if err != nil {
		return fail(c, "order.place", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID,
		"total":    o.TotalAmount.String(),
		"lines":    len(o.Lines),
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// GET /api/v1/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.History.ListOrders(c.UserContext(), identity(c))
	if err != nil {
		return fail(c, "orders.history", err)
	}
	return c.JSON(orders)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	o, err := h.Order.GetOrder(c.UserContext(), identity(c), id)
	if err != nil {
		return fail(c, "orders.get", err)
	}
	return c.JSON(o)
}
