package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "artstore/internal/log"
	"artstore/internal/services"
	"artstore/internal/validate"
)

// FeedbackHandler serves purchase-gated ratings and reviews.
type FeedbackHandler struct {
	Eligibility *services.EligibilityService
	Ratings     *services.RatingService
	Reviews     *services.ReviewService
}

func productParam(c *fiber.Ctx) (string, bool) {
	return validate.ID(c.Params("id"))
}

// GET /api/v1/products/:id/purchased
func (h *FeedbackHandler) Purchased(c *fiber.Ctx) error {
	pid, ok := productParam(c)
	if !ok {
		return badRequest(c, "id")
	}
	bought, err := h.Eligibility.Purchased(c.UserContext(), identity(c), pid)
	if err != nil {
		return fail(c, "eligibility.check", err)
	}
	return c.JSON(fiber.Map{"productId": pid, "purchased": bought})
}

// GET /api/v1/products/:id/ratings
func (h *FeedbackHandler) ListRatings(c *fiber.Ctx) error {
	pid, ok := productParam(c)
	if !ok {
		return badRequest(c, "id")
	}
	list, err := h.Ratings.ListForProduct(c.UserContext(), pid)
	if err != nil {
		return fail(c, "rating.list", err)
	}
	summary, err := h.Ratings.Summary(c.UserContext(), pid)
	if err != nil {
		return fail(c, "rating.list", err)
	}
	return c.JSON(fiber.Map{"summary": summary, "ratings": list})
}

// POST /api/v1/products/:id/ratings
func (h *FeedbackHandler) Rate(c *fiber.Ctx) error {
	pid, ok := productParam(c)
	if !ok {
		return badRequest(c, "id")
	}
	var req struct {
		Value int `json:"value" form:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	r, err := h.Ratings.Rate(c.UserContext(), identity(c), pid, req.Value)
	if err != nil {
		return fail(c, "rating.create", err)
	}
	applog.Audit(c, "rating.create", map[string]any{"product_id": pid, "value": r.Value})
	return c.Status(fiber.StatusCreated).JSON(r)
}

// DELETE /api/v1/ratings/:id
func (h *FeedbackHandler) DeleteRating(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Ratings.Delete(c.UserContext(), identity(c), id); err != nil {
		return fail(c, "rating.delete", err)
	}
	applog.Audit(c, "rating.delete", map[string]any{"rating_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/products/:id/reviews
func (h *FeedbackHandler) ListReviews(c *fiber.Ctx) error {
	pid, ok := productParam(c)
	if !ok {
		return badRequest(c, "id")
	}
	list, err := h.Reviews.ListForProduct(c.UserContext(), pid)
	if err != nil {
		return fail(c, "review.list", err)
	}
	return c.JSON(list)
}

// POST /api/v1/products/:id/reviews
func (h *FeedbackHandler) Review(c *fiber.Ctx) error {
	pid, ok := productParam(c)
	if !ok {
		return badRequest(c, "id")
	}
	var req struct {
		Text string `json:"text" form:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	rv, err := h.Reviews.Submit(c.UserContext(), identity(c), pid, req.Text)
	if err != nil {
		return fail(c, "review.create", err)
	}
	applog.Audit(c, "review.create", map[string]any{"product_id": pid, "review_id": rv.ID})
	return c.Status(fiber.StatusCreated).JSON(rv)
}

// PUT /api/v1/reviews/:id
func (h *FeedbackHandler) UpdateReview(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	var req struct {
		Text string `json:"text" form:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body")
	}
	rv, err := h.Reviews.Update(c.UserContext(), identity(c), id, req.Text)
	if err != nil {
		return fail(c, "review.update", err)
	}
	applog.Audit(c, "review.update", map[string]any{"review_id": id})
	return c.JSON(rv)
}

// DELETE /api/v1/reviews/:id
func (h *FeedbackHandler) DeleteReview(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Reviews.Delete(c.UserContext(), identity(c), id); err != nil {
		return fail(c, "review.delete", err)
	}
	applog.Audit(c, "review.delete", map[string]any{"review_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
