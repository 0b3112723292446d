package handlers

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AdminHandler struct {
	Order   *services.OrderService
	Imports *services.ImportService
	Orders  *repos.OrderRepo
	Prods   *repos.ProductRepo
	Cats    *repos.CategoryRepo

	MaxImportBytes int
}

// OrdersList handles GET /api/admin/orders.
func (h *AdminHandler) OrdersList(c *fiber.Ctx) error {
	orders, err := h.Orders.ListLatest(100)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(orders)
}

// OrderDetail handles GET /api/admin/orders/:id.
func (h *AdminHandler) OrderDetail(c *fiber.Ctx) error {
	order, items, err := h.Orders.Get(c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(orderPayload{Order: order, Items: items})
}

// UpdateOrderStatus handles PUT /api/admin/orders/:id/update_status.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	order, items, err := h.Order.UpdateStatus(c.Params("id"), req.Status)
	if err != nil {
		applog.Error(c, "admin.orders.status.fail", err, map[string]any{"order_id": c.Params("id")})
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.orders.status", map[string]any{"order_id": order.OrderID, "status": order.Status})
	return c.JSON(orderPayload{Order: order, Items: items})
}

// AddOrderNotes handles PUT /api/admin/orders/:id/add_notes.
func (h *AdminHandler) AddOrderNotes(c *fiber.Ctx) error {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	order, items, err := h.Order.AddNotes(c.Params("id"), req.Notes)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.orders.notes", map[string]any{"order_id": order.OrderID})
	return c.JSON(orderPayload{Order: order, Items: items})
}

// ImportProducts handles POST /api/admin/products/import. The declared file
// extension picks the parser; a bad row never aborts the batch.
func (h *AdminHandler) ImportProducts(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "No file provided")
	}
	if h.MaxImportBytes > 0 && fh.Size > int64(h.MaxImportBytes) {
		return jsonError(c, fiber.StatusBadRequest, "File too large")
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")

	f, err := fh.Open()
	if err != nil {
		return respondErr(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return respondErr(c, err)
	}

	report, err := h.Imports.ImportCatalog(data, format)
	if err != nil {
		applog.Error(c, "admin.import.fail", err, map[string]any{"file": fh.Filename})
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.import", map[string]any{
		"file":     fh.Filename,
		"imported": report.Imported,
		"errors":   len(report.Errors),
	})
	return c.JSON(report)
}

type productRequest struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Weight      decimal.Decimal `json:"weight"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image"`
	Active      *bool           `json:"is_active"`
}

func (r *productRequest) validate() (productRequest, error) {
	out := *r
	var ok bool
	if out.Name, ok = validate.Name(r.Name); !ok {
		return out, &domain.ValidationError{Field: "name", Message: "is required"}
	}
	if _, ok = validate.ID(r.Category); !ok {
		return out, &domain.ValidationError{Field: "category", Message: "is required"}
	}
	if r.Price.IsNegative() {
		return out, &domain.ValidationError{Field: "price", Message: "must not be negative"}
	}
	if r.Stock < 0 {
		return out, &domain.ValidationError{Field: "stock", Message: "must not be negative"}
	}
	if out.Slug = strings.TrimSpace(r.Slug); out.Slug == "" {
		out.Slug = slug.Make(out.Name)
	} else if out.Slug, ok = validate.Slug(out.Slug); !ok {
		return out, &domain.ValidationError{Field: "slug", Message: "is not a valid slug"}
	}
	return out, nil
}

// CreateProduct handles POST /api/admin/products. Initial stock is set here;
// afterwards only the inventory ledger mutates it.
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req, err := req.validate()
	if err != nil {
		return respondErr(c, err)
	}
	if _, err := h.Cats.Get(req.Category); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Unknown category")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	p := domain.Product{
		ID:          uuid.NewString(),
		CategoryID:  req.Category,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Weight:      req.Weight,
		Stock:       req.Stock,
		Image:       req.Image,
		Active:      active,
	}
	if err := h.Prods.Create(p); err != nil {
		applog.Error(c, "admin.products.create.fail", err, map[string]any{"slug": p.Slug})
		return jsonError(c, fiber.StatusBadRequest, "Could not create product")
	}
	created, err := h.Prods.Get(p.ID)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product": p.ID})
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateProduct handles PUT /api/admin/products/:id. Stock is not editable
// here; it belongs to the inventory ledger.
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	existing, err := h.Prods.Get(c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req, err = req.validate()
	if err != nil {
		return respondErr(c, err)
	}
	if _, err := h.Cats.Get(req.Category); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Unknown category")
	}

	existing.CategoryID = req.Category
	existing.Name = req.Name
	existing.Slug = req.Slug
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Weight = req.Weight
	existing.Image = req.Image
	if req.Active != nil {
		existing.Active = *req.Active
	}
	if err := h.Prods.Update(existing); err != nil {
		return respondErr(c, err)
	}
	updated, err := h.Prods.Get(existing.ID)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product": existing.ID})
	return c.JSON(updated)
}

// DeleteProduct handles DELETE /api/admin/products/:id. Products referenced
// by order items stay as rows; delete maps to a soft disable.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.Prods.Disable(c.Params("id")); err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.products.disable", map[string]any{"product": c.Params("id")})
	return c.SendStatus(fiber.StatusNoContent)
}

// Categories handles GET /api/admin/categories (product form helper).
func (h *AdminHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Cats.List()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(cats)
}
