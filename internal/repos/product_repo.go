package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `
  id, category_id, name, slug, description, price, weight, stock, image,
  is_active, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, err
}

func (r *ProductRepo) GetBySlug(s string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productColumns+` FROM products WHERE slug = ?`, s)
	if err == sql.ErrNoRows {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, category_id, name, slug, description, price, weight, stock, image, is_active)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.Weight, p.Stock, p.Image, p.Active)
	return err
}

// Update rewrites the catalog attributes of a product. Stock is deliberately
// not touched here; only the inventory ledger mutates it.
func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET category_id = ?, name = ?, slug = ?, description = ?, price = ?,
	      weight = ?, image = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.Weight, p.Image, p.Active, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Disable soft-deletes a product. Hard deletes are never done while order
// items may reference the row, so delete always maps here.
func (r *ProductRepo) Disable(id string) error {
	res, err := r.db.Exec(`
	  UPDATE products SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) CountBySlug(s string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE slug = ?`, s)
	return n, err
}
