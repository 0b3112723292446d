package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartAddRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type cartUpdateRequest struct {
	Quantity int `json:"quantity"`
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartAddRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	productID, ok := validate.ID(req.Product)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Invalid product")
	}
	if !validate.Qty(req.Quantity) {
		return jsonError(c, fiber.StatusBadRequest, "Quantity must be a positive integer")
	}

	item, err := h.Cart.Add(userID(c), productID, req.Quantity)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Info(c, "cart.add", map[string]any{"product": productID, "qty": req.Quantity})
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update handles PUT /api/cart/:id.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	entryID, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Invalid cart item id")
	}
	var req cartUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if !validate.Qty(req.Quantity) {
		return jsonError(c, fiber.StatusBadRequest, "Quantity must be a positive integer")
	}

	item, err := h.Cart.SetQuantity(userID(c), entryID, req.Quantity)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(item)
}

// Clear handles DELETE /api/cart. Idempotent: an empty cart clears fine.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(userID(c)); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List handles GET /api/cart.
func (h *CartHandler) List(c *fiber.Ctx) error {
	cv, err := h.Cart.List(userID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(cv)
}
