package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"artstore/internal/domain"
	applog "artstore/internal/log"
	"artstore/internal/services"
	"artstore/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type lineView struct {
	domain.CartLine
	Subtotal decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	ID    string          `json:"id"`
	Lines []lineView      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func viewOf(cart domain.Cart) cartView {
	v := cartView{ID: cart.ID, Lines: make([]lineView, 0, len(cart.Lines)), Total: cart.Total()}
	for _, l := range cart.Lines {
		v.Lines = append(v.Lines, lineView{CartLine: l, Subtotal: l.Subtotal()})
	}
	return v
}

// Quantity arrives as a JSON number or a form field; both go through validate.Qty.
type lineRequest struct {
	ProductID string      `json:"productId" form:"productId"`
	Quantity  json.Number `json:"quantity" form:"quantity"`
}

func (h *CartHandler) respond(c *fiber.Ctx, action string) error {
	cart, err := h.Cart.GetLines(c.UserContext(), identity(c))
	if err != nil {
		return fail(c, action, err)
	}
	return c.JSON(viewOf(cart))
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	return h.respond(c, "cart.view")
}

// POST /api/v1/cart/lines
func (h *CartHandler) AddLine(c *fiber.Ctx) error {
	var req lineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return badRequest(c, "productId")
	}
	qty, ok := validate.Qty(req.Quantity.String(), domain.MaxLineQty)
	if !ok {
		return badRequest(c, "quantity")
	}
	if err := h.Cart.AddLine(c.UserContext(), identity(c), pid, qty); err != nil {
		return fail(c, "cart.line.add", err)
	}
	applog.Audit(c, "cart.line.add", map[string]any{"product_id": pid, "qty": qty})
	return h.respond(c, "cart.view")
}

// PUT /api/v1/cart/lines/:productId
func (h *CartHandler) UpdateLine(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "productId")
	}
	var req lineRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	qty, ok := validate.Qty(req.Quantity.String(), domain.MaxLineQty)
	if !ok {
		return badRequest(c, "quantity")
	}
	if err := h.Cart.UpdateLineQuantity(c.UserContext(), identity(c), pid, qty); err != nil {
		return fail(c, "cart.line.update", err)
	}
	return h.respond(c, "cart.view")
}

// DELETE /api/v1/cart/lines/:productId
func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "productId")
	}
	if err := h.Cart.RemoveLine(c.UserContext(), identity(c), pid); err != nil {
		return fail(c, "cart.line.remove", err)
	}
	return h.respond(c, "cart.view")
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(c.UserContext(), identity(c)); err != nil {
		return fail(c, "cart.clear", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
