package repos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartLine is a cart entry joined with the live product it points at:
// name and price reflect the catalog now, not the moment of add.
type CartLine struct {
	ID          string          `db:"id" json:"id"`
	ProductID   string          `db:"product_id" json:"product"`
	ProductName string          `db:"product_name" json:"product_name"`
	Price       decimal.Decimal `db:"price" json:"product_price"`
	Image       string          `db:"image" json:"product_image,omitempty"`
	Stock       int             `db:"stock" json:"-"`
	Active      bool            `db:"is_active" json:"-"`
	Qty         int             `db:"qty" json:"quantity"`
	Total       decimal.Decimal `db:"-" json:"total_price"`
}

// Upsert adds qty to the user's line for the product, creating the line when
// absent, and returns the resulting entry.
func (r *CartRepo) Upsert(userID, productID string, qty int) (domain.CartItem, error) {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(id, user_id, product_id, qty)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), userID, productID, qty)
	if err != nil {
		return domain.CartItem{}, err
	}
	return r.ByProduct(userID, productID)
}

func (r *CartRepo) ByProduct(userID, productID string) (domain.CartItem, error) {
	var it domain.CartItem
	err := r.db.Get(&it, `
	  SELECT id, user_id, product_id, qty, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM cart_items WHERE user_id = ? AND product_id = ?
	`, userID, productID)
	return it, err
}

// Get returns the entry only when it belongs to the given user.
func (r *CartRepo) Get(id, userID string) (domain.CartItem, error) {
	var it domain.CartItem
	err := r.db.Get(&it, `
	  SELECT id, user_id, product_id, qty, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM cart_items WHERE id = ? AND user_id = ?
	`, id, userID)
	if err == sql.ErrNoRows {
		return domain.CartItem{}, domain.ErrCartItemNotFound
	}
	return it, err
}

func (r *CartRepo) SetQty(id, userID string, qty int) error {
	res, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`, qty, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

// Lines returns the user's cart joined with live product data, ordered by
// product id so multi-line checkouts always reserve in the same order.
func (r *CartRepo) Lines(userID string) ([]CartLine, error) {
	lines := []CartLine{}
	err := r.db.Select(&lines, `
	  SELECT ci.id, ci.product_id, p.name AS product_name, p.price, p.image,
	         p.stock, p.is_active, ci.qty
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.user_id = ?
	  ORDER BY ci.product_id
	`, userID)
	// Line totals are decimal math, not sqlite float arithmetic.
	for i := range lines {
		lines[i].Total = lines[i].Price.Mul(decimal.NewFromInt(int64(lines[i].Qty)))
	}
	return lines, err
}

// Clear removes every entry for the user. Idempotent: clearing an empty cart
// succeeds. ext may be the pool or the checkout transaction.
func (r *CartRepo) Clear(ext sqlx.Ext, userID string) error {
	_, err := ext.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}

// DB exposes the underlying pool for pool-scoped calls to ext-taking methods.
func (r *CartRepo) DB() *sqlx.DB { return r.db }
