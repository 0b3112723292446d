package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ItemDetail is an order line joined with the product's current name for
// display. Price and qty come from the immutable snapshot.
type ItemDetail struct {
	domain.OrderItem
	ProductName string          `db:"product_name" json:"product_name"`
	Total       decimal.Decimal `db:"-" json:"total_price"`
}

const orderColumns = `
  id, order_id, user_id, status, total_amount,
  shipping_address, shipping_city, shipping_state, shipping_pincode, shipping_phone,
  admin_notes, created_at, COALESCE(updated_at,'') AS updated_at`

// CreateTx inserts the order header and all line items inside the caller's
// transaction, after reservations have succeeded.
func (r *OrderRepo) CreateTx(tx *sqlx.Tx, o domain.Order, items []domain.OrderItem) error {
	_, err := tx.Exec(`
	  INSERT INTO orders
	    (id, order_id, user_id, status, total_amount,
	     shipping_address, shipping_city, shipping_state, shipping_pincode, shipping_phone)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.OrderID, o.UserID, o.Status, o.Total,
		o.ShippingAddress, o.ShippingCity, o.ShippingState, o.ShippingPincode, o.ShippingPhone)
	if err != nil {
		return err
	}
	for _, it := range items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(id, order_id, product_id, qty, price)
		  VALUES(?, ?, ?, ?, ?)
		`, it.ID, it.OrderID, it.ProductID, it.Qty, it.Price); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) Get(id string) (domain.Order, []ItemDetail, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id); err != nil {
		if err == sql.ErrNoRows {
			return domain.Order{}, nil, domain.ErrOrderNotFound
		}
		return domain.Order{}, nil, err
	}
	items, err := r.Items(id)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (r *OrderRepo) Items(orderID string) ([]ItemDetail, error) {
	items := []ItemDetail{}
	err := r.db.Select(&items, `
	  SELECT oi.id, oi.order_id, oi.product_id, oi.qty, oi.price,
	         p.name AS product_name
	  FROM order_items oi JOIN products p ON p.id = oi.product_id
	  WHERE oi.order_id = ?
	  ORDER BY oi.product_id
	`, orderID)
	for i := range items {
		items[i].Total = items[i].TotalPrice()
	}
	return items, err
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT `+orderColumns+` FROM orders
	  WHERE user_id = ?
	  ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT `+orderColumns+` FROM orders
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}

// UpdateStatusTx flips the status inside the caller's transaction so that a
// cancellation commits atomically with its stock releases.
func (r *OrderRepo) UpdateStatusTx(ext sqlx.Ext, id string, status domain.Status) error {
	res, err := ext.Exec(`
		UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepo) UpdateNotes(id, notes string) error {
	res, err := r.db.Exec(`
		UPDATE orders SET admin_notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, notes, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
