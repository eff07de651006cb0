package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"artstore/internal/domain"
	applog "artstore/internal/log"
)

const genericError = "Something went wrong. Please try again."

// statusFor maps business errors onto HTTP codes. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidReview),
		errors.Is(err, domain.ErrInvalidPrice):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrBadCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotAuthenticated),
		errors.Is(err, domain.ErrNotEligible),
		errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrRatingNotFound),
		errors.Is(err, domain.ErrReviewNotFound),
		errors.Is(err, domain.ErrLineNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes the JSON error body for err. Internal detail only goes to the log.
func fail(c *fiber.Ctx, action string, err error) error {
	code := statusFor(err)
	c.Status(code)
	if code == fiber.StatusInternalServerError {
		applog.Error(c, action+".fail", err, nil)
		return c.JSON(fiber.Map{"error": genericError})
	}

	applog.Security(c, action+".fail", map[string]any{"error": err.Error()})
	body := fiber.Map{"error": err.Error()}
	var short *domain.InsufficientStockError
	if errors.As(err, &short) {
		body["productId"] = short.ProductID
		body["requested"] = short.Requested
		body["available"] = short.Available
	}
	return c.JSON(body)
}

func badRequest(c *fiber.Ctx, field string) error {
	c.Status(fiber.StatusBadRequest)
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.JSON(fiber.Map{"error": "invalid " + field})
}

// ErrorHandler is the app-level fallback for errors returned by handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericError})
}
