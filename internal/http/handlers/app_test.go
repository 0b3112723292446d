package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	"storefront/internal/repos"
)

const testSecret = "test-secret"

// newApp builds the API surface the way main does, minus rate limiting.
func newApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{JWTSecret: testSecret, MaxImportBytes: 2 << 20}
	deps := handlers.NewDeps(db, cfg)

	requireUser := handlers.RequireUser(deps.Users, cfg.JWTSecret)
	requireAdmin := handlers.RequireAdmin(deps.Users, cfg.JWTSecret)

	app := fiber.New()
	app.Use(requestid.New())

	api := app.Group("/api")
	api.Get("/availability", deps.InventoryHandler.Check)

	api.Post("/cart", requireUser, deps.CartHandler.Add)
	api.Get("/cart", requireUser, deps.CartHandler.List)
	api.Put("/cart/:id", requireUser, deps.CartHandler.Update)
	api.Delete("/cart", requireUser, deps.CartHandler.Clear)

	api.Post("/orders", requireUser, deps.OrderHandler.Create)
	api.Get("/orders", requireUser, deps.OrderHandler.List)
	api.Get("/orders/:id", requireUser, deps.OrderHandler.View)

	admin := api.Group("/admin", requireAdmin)
	admin.Get("/orders", deps.AdminHandler.OrdersList)
	admin.Get("/orders/:id", deps.AdminHandler.OrderDetail)
	admin.Put("/orders/:id/update_status", deps.AdminHandler.UpdateOrderStatus)
	admin.Put("/orders/:id/add_notes", deps.AdminHandler.AddOrderNotes)
	admin.Get("/categories", deps.AdminHandler.Categories)
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Put("/products/:id", deps.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", deps.AdminHandler.DeleteProduct)
	admin.Post("/products/import", deps.AdminHandler.ImportProducts)

	return app, db
}

// bearer signs a short-lived HS256 token for a seeded user id.
func bearer(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + s
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
}
