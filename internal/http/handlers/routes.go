package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "artstore/internal/log"
)

// Mount registers every route on app. Global middleware (request id, access
// log, helmet, global limiter) is left to the caller.
func Mount(app *fiber.App, d *Deps) {
	app.Use(Identify(d.Sessions, d.Tokens))

	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			c.Status(fiber.StatusTooManyRequests)
			applog.Security(c, "rate.login.hit", nil)
			return c.JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)

	api := app.Group("/api/v1")

	// catalog
	api.Get("/categories", d.CatalogHandler.Categories)
	api.Get("/products", d.CatalogHandler.Products)
	api.Get("/products/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), d.CatalogHandler.Search)
	api.Get("/products/:id", d.CatalogHandler.Product)
	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Status(fiber.StatusTooManyRequests)
			applog.Security(c, "rate.availability.hit", nil)
			return c.JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/products/:id/availability", availLimiter, d.CatalogHandler.Availability)
	api.Get("/products/:id/ratings", d.FeedbackHandler.ListRatings)
	api.Get("/products/:id/reviews", d.FeedbackHandler.ListReviews)

	user := RequireUser()

	// cart
	api.Get("/cart", user, d.CartHandler.View)
	api.Delete("/cart", user, d.CartHandler.Clear)
	api.Post("/cart/lines", user, d.CartHandler.AddLine)
	api.Put("/cart/lines/:productId", user, d.CartHandler.UpdateLine)
	api.Delete("/cart/lines/:productId", user, d.CartHandler.RemoveLine)

	// orders
	api.Post("/checkout", user, d.OrderHandler.Checkout)
	api.Get("/orders", user, d.OrderHandler.List)
	api.Get("/orders/:id", user, d.OrderHandler.Get)

	// ratings & reviews
	api.Get("/products/:id/purchased", user, d.FeedbackHandler.Purchased)
	api.Post("/products/:id/ratings", user, d.FeedbackHandler.Rate)
	api.Delete("/ratings/:id", user, d.FeedbackHandler.DeleteRating)
	api.Post("/products/:id/reviews", user, d.FeedbackHandler.Review)
	api.Put("/reviews/:id", user, d.FeedbackHandler.UpdateReview)
	api.Delete("/reviews/:id", user, d.FeedbackHandler.DeleteReview)

	admin := api.Group("/admin", RequireAdmin())
	admin.Get("/orders", d.AdminHandler.Orders)
	admin.Get("/stock", d.AdminHandler.Stock)
	admin.Post("/products", d.AdminHandler.CreateProduct)
	admin.Put("/products/:id/stock", d.AdminHandler.SetStock)
	admin.Put("/products/:id/price", d.AdminHandler.SetPrice)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
}
