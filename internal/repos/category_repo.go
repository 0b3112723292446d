package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
	  SELECT id, name, slug, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM categories
	  ORDER BY name
	`)
	return out, err
}

func (r *CategoryRepo) Get(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `
	  SELECT id, name, slug, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM categories WHERE id = ?
	`, id)
	return c, err
}

// GetOrCreate resolves a category by name, creating it with the given slug
// when missing. Insert-then-select against the unique name/slug indexes, so
// concurrent callers converge on one row instead of racing a read-then-write.
func (r *CategoryRepo) GetOrCreate(name, catSlug string) (domain.Category, error) {
	_, err := r.db.Exec(`
		INSERT INTO categories(id, name, slug)
		VALUES(?, ?, ?)
		ON CONFLICT DO NOTHING
	`, uuid.NewString(), name, catSlug)
	if err != nil {
		return domain.Category{}, err
	}

	var c domain.Category
	err = r.db.Get(&c, `
	  SELECT id, name, slug, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM categories WHERE LOWER(name) = LOWER(?)
	`, name)
	return c, err
}
