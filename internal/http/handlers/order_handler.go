package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
	Repo  *repos.OrderRepo
}

// orderPayload is the full order representation with its line items.
type orderPayload struct {
	domain.Order
	Items []repos.ItemDetail `json:"items"`
}

// Create handles POST /api/orders: the checkout transaction.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var ship services.ShippingDetails
	if err := c.BodyParser(&ship); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	// Fail fast on malformed shipping fields before touching the cart.
	var ok bool
	if ship.Address, ok = validate.Address(ship.Address); !ok {
		return jsonError(c, fiber.StatusBadRequest, "Invalid shipping address")
	}
	if ship.City, ok = validate.Place(ship.City); !ok {
		return jsonError(c, fiber.StatusBadRequest, "Invalid shipping city")
	}
	if ship.State, ok = validate.Place(ship.State); !ok {
		return jsonError(c, fiber.StatusBadRequest, "Invalid shipping state")
	}
	if ship.Pincode, ok = validate.Pincode(ship.Pincode); !ok {
		return jsonError(c, fiber.StatusBadRequest, "Invalid shipping pincode")
	}
	if ship.Phone, ok = validate.Phone(ship.Phone); !ok {
		return jsonError(c, fiber.StatusBadRequest, "Invalid shipping phone")
	}

	order, items, err := h.Order.Checkout(userID(c), ship)
	if err != nil {
		applog.Security(c, "order.checkout.fail", map[string]any{"error": err.Error()})
		return respondErr(c, err)
	}
	applog.Audit(c, "order.checkout", map[string]any{
		"order_id": order.OrderID,
		"total":    order.Total.String(),
		"items":    len(items),
	})
	return c.Status(fiber.StatusCreated).JSON(orderPayload{Order: order, Items: items})
}

// List handles GET /api/orders: the caller's own order history, newest
// first.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Repo.ListByUser(userID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(orders)
}

// View handles GET /api/orders/:id. Owners see their own orders; admins see
// any.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Order not found")
	}
	order, items, err := h.Repo.Get(id)
	if err != nil {
		return respondErr(c, err)
	}
	u, _ := c.Locals("user").(*domain.User)
	if u == nil || (order.UserID != u.ID && u.Role != "ADMIN") {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": id})
		return jsonError(c, fiber.StatusNotFound, "Order not found")
	}
	return c.JSON(orderPayload{Order: order, Items: items})
}
