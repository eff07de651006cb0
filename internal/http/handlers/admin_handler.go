package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"artstore/internal/domain"
	applog "artstore/internal/log"
	"artstore/internal/services"
	"artstore/internal/validate"
)

type AdminHandler struct {
	Order   *services.OrderService
	Ledger  *services.InventoryLedger
	Catalog *services.CatalogService
}

// GET /api/v1/admin/orders?limit=
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	ords, err := h.Order.ListLatest(c.UserContext(), identity(c), c.QueryInt("limit", 100))
	if err != nil {
		return fail(c, "admin.orders.list", err)
	}
	return c.JSON(ords)
}

// GET /api/v1/admin/stock
func (h *AdminHandler) Stock(c *fiber.Ctx) error {
	rows, err := h.Ledger.ListStock(c.UserContext(), identity(c))
	if err != nil {
		return fail(c, "admin.stock.list", err)
	}
	return c.JSON(rows)
}

// PUT /api/v1/admin/products/:id/stock
func (h *AdminHandler) SetStock(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	var req struct {
		Quantity json.Number `json:"quantity" form:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	qty, ok := validate.Qty(req.Quantity.String(), validate.MaxStock)
	if !ok {
		return badRequest(c, "quantity")
	}
	if err := h.Ledger.Restock(c.UserContext(), identity(c), pid, qty); err != nil {
		return fail(c, "admin.stock.set", err)
	}
	applog.Audit(c, "admin.stock.set", map[string]any{"product_id": pid, "qty": qty})
	return c.SendStatus(fiber.StatusNoContent)
}

// PUT /api/v1/admin/products/:id/price
func (h *AdminHandler) SetPrice(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	var req struct {
		Price string `json:"price" form:"price"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	price, ok := validate.Price(req.Price)
	if !ok {
		return badRequest(c, "price")
	}
	if err := h.Catalog.UpdatePrice(c.UserContext(), identity(c), pid, price); err != nil {
		return fail(c, "admin.price.set", err)
	}
	applog.Audit(c, "admin.price.set", map[string]any{"product_id": pid, "price": price.String()})
	return c.SendStatus(fiber.StatusNoContent)
}

type productRequest struct {
	ID          string      `json:"id" form:"id"`
	CategoryID  string      `json:"categoryId" form:"categoryId"`
	Name        string      `json:"name" form:"name"`
	Description string      `json:"description" form:"description"`
	Price       string      `json:"price" form:"price"`
	Quantity    json.Number `json:"quantity" form:"quantity"`
	ImageURL    string      `json:"imageUrl" form:"imageUrl"`
}

// POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	if req.ID != "" {
		if _, ok := validate.ID(req.ID); !ok {
			return badRequest(c, "id")
		}
	}
	cat, ok := validate.ID(req.CategoryID)
	if !ok {
		return badRequest(c, "categoryId")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "name")
	}
	price, ok := validate.Price(req.Price)
	if !ok {
		return badRequest(c, "price")
	}
	qty, ok := validate.Qty(req.Quantity.String(), validate.MaxStock)
	if !ok {
		return badRequest(c, "quantity")
	}

	p, err := h.Catalog.CreateProduct(c.UserContext(), identity(c), domain.Product{
		ID:          req.ID,
		CategoryID:  cat,
		Name:        name,
		Description: req.Description,
		Price:       price,
		Quantity:    qty,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return fail(c, "admin.product.create", err)
	}
	applog.Audit(c, "admin.product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}
