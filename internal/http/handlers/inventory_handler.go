package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
	"storefront/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// Check handles GET /api/availability?product=..., the ledger's own read
// surface, used by storefront pages to badge stock levels.
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("product"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Invalid product")
	}
	status, qty, err := h.Inv.Availability(productID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"status": status, "qty": qty})
}
