package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"artstore/internal/services"
	"artstore/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
	Ledger  *services.InventoryLedger
	Ratings *services.RatingService
}

// GET /api/v1/categories
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return fail(c, "catalog.categories", err)
	}
	return c.JSON(cats)
}

// GET /api/v1/products?category=&page=&pageSize=
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	cat := c.Query("category")
	if cat != "" {
		var ok bool
		if cat, ok = validate.ID(cat); !ok {
			return badRequest(c, "category")
		}
	}
	prods, err := h.Catalog.ListProducts(c.UserContext(), cat, c.QueryInt("page", 1), c.QueryInt("pageSize", 12))
	if err != nil {
		return fail(c, "catalog.products", err)
	}
	return c.JSON(prods)
}

// GET /api/v1/products/search?q=&category=&page=&pageSize=
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	var q string
	if raw := c.Query("q"); strings.TrimSpace(raw) != "" {
		var ok bool
		if q, ok = validate.Q(raw); !ok {
			return badRequest(c, "q")
		}
	}
	cat := c.Query("category")
	if cat != "" {
		var ok bool
		if cat, ok = validate.ID(cat); !ok {
			return badRequest(c, "category")
		}
	}
	prods, err := h.Catalog.Search(c.UserContext(), q, cat, c.QueryInt("page", 1), c.QueryInt("pageSize", 12))
	if err != nil {
		return fail(c, "catalog.search", err)
	}
	return c.JSON(prods)
}

// GET /api/v1/products/:id
func (h *CatalogHandler) Product(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "catalog.product", err)
	}
	summary, err := h.Ratings.Summary(c.UserContext(), id)
	if err != nil {
		return fail(c, "catalog.product", err)
	}
	return c.JSON(fiber.Map{"product": p, "ratings": summary})
}

// GET /api/v1/products/:id/availability
func (h *CatalogHandler) Availability(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	a, err := h.Ledger.CheckAvailability(c.UserContext(), id)
	if err != nil {
		return fail(c, "catalog.availability", err)
	}
	return c.JSON(a)
}
