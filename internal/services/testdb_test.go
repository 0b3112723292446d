package services_test

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"storefront/internal/repos"
)

// testdb opens a file-backed database in a per-test temp dir. A file (not
// :memory:) so every pooled connection sees the same data, which matters
// for the concurrency tests.
func testdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func stockOf(t *testing.T, db *sqlx.DB, productID string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT stock FROM products WHERE id=?`, productID); err != nil {
		t.Fatalf("stock of %s: %v", productID, err)
	}
	return n
}

func setStock(t *testing.T, db *sqlx.DB, productID string, qty int) {
	t.Helper()
	if _, err := db.Exec(`UPDATE products SET stock=? WHERE id=?`, qty, productID); err != nil {
		t.Fatalf("set stock: %v", err)
	}
}
