package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and keep internals out of the response
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard; catalog uploads are the largest payloads.
	app.Server().MaxRequestBodySize = cfg.MaxImportBytes + (1 << 20)

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, cfg)

	requireUser := handlers.RequireUser(deps.Users, cfg.JWTSecret)
	requireAdmin := handlers.RequireAdmin(deps.Users, cfg.JWTSecret)

	api := app.Group("/api")

	// Availability (public read on the ledger)
	api.Get("/availability", deps.InventoryHandler.Check)

	// Cart
	api.Post("/cart", requireUser, deps.CartHandler.Add)
	api.Get("/cart", requireUser, deps.CartHandler.List)
	api.Put("/cart/:id", requireUser, deps.CartHandler.Update)
	api.Delete("/cart", requireUser, deps.CartHandler.Clear)

	// Orders
	api.Post("/orders", requireUser, deps.OrderHandler.Create)
	api.Get("/orders", requireUser, deps.OrderHandler.List)
	api.Get("/orders/:id", requireUser, deps.OrderHandler.View)

	// Admin
	admin := api.Group("/admin", requireAdmin)
	admin.Get("/orders", deps.AdminHandler.OrdersList)
	admin.Get("/orders/:id", deps.AdminHandler.OrderDetail)
	admin.Put("/orders/:id/update_status", deps.AdminHandler.UpdateOrderStatus)
	admin.Put("/orders/:id/add_notes", deps.AdminHandler.AddOrderNotes)
	admin.Get("/categories", deps.AdminHandler.Categories)
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Put("/products/:id", deps.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", deps.AdminHandler.DeleteProduct)
	admin.Post("/products/import", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.import.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), deps.AdminHandler.ImportProducts)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
