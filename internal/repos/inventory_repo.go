package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

// InventoryRepo owns the authoritative stock counter on products. All stock
// mutations in the system go through Reserve/Release.
type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// Stock returns the current stock for a product.
func (r *InventoryRepo) Stock(productID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT stock FROM products WHERE id = ?`, productID)
	if err == sql.ErrNoRows {
		return 0, domain.ErrProductNotFound
	}
	return qty, err
}

// Reserve atomically subtracts qty units if the product is active and has
// enough stock. The guarded UPDATE is a single indivisible statement, so
// concurrent reservations on the same product are strictly ordered and none
// can drive stock negative. ext may be the pool or an open transaction.
func (r *InventoryRepo) Reserve(ext sqlx.Ext, productID string, qty int) error {
	res, err := ext.Exec(`
		UPDATE products
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND is_active = 1 AND stock >= ?
	`, qty, productID, qty)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	// Nothing updated: distinguish missing/inactive/insufficient.
	var p struct {
		Name   string `db:"name"`
		Active bool   `db:"is_active"`
	}
	err = sqlx.Get(ext, &p, `SELECT name, is_active FROM products WHERE id = ?`, productID)
	if err == sql.ErrNoRows {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return err
	}
	if !p.Active {
		return domain.ErrProductInactive
	}
	return &domain.InsufficientStockError{Product: p.Name}
}

// Release returns qty units unconditionally. Used as the compensating action
// for cancelled orders.
func (r *InventoryRepo) Release(ext sqlx.Ext, productID string, qty int) error {
	_, err := ext.Exec(`
		UPDATE products
		SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	return err
}
