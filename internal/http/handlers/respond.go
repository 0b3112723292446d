package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
)

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// respondErr maps domain errors onto the REST status codes in one place so
// every handler surfaces the same taxonomy.
func respondErr(c *fiber.Ctx, err error) error {
	var (
		vErr     *domain.ValidationError
		stockErr *domain.InsufficientStockError
		statErr  *domain.InvalidStatusError
		transErr *domain.InvalidTransitionError
	)
	switch {
	case errors.As(err, &vErr):
		return jsonError(c, fiber.StatusBadRequest, vErr.Error())
	case errors.As(err, &stockErr):
		return jsonError(c, fiber.StatusBadRequest, stockErr.Error())
	case errors.As(err, &statErr):
		return jsonError(c, fiber.StatusBadRequest, statErr.Error())
	case errors.As(err, &transErr):
		return jsonError(c, fiber.StatusBadRequest, transErr.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		return jsonError(c, fiber.StatusBadRequest, "Cart is empty")
	case errors.Is(err, domain.ErrProductInactive):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return jsonError(c, fiber.StatusBadRequest, "Unsupported file format")
	case errors.Is(err, domain.ErrProductNotFound):
		return jsonError(c, fiber.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrCartItemNotFound):
		return jsonError(c, fiber.StatusNotFound, "Cart item not found")
	case errors.Is(err, domain.ErrOrderNotFound):
		return jsonError(c, fiber.StatusNotFound, "Order not found")
	case errors.Is(err, domain.ErrBusy):
		return jsonError(c, fiber.StatusServiceUnavailable, "Temporarily busy, please retry")
	default:
		applog.Error(c, "server.error", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
