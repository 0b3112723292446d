package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Slug      string `db:"slug" json:"slug"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

type Product struct {
	ID          string          `db:"id" json:"id"`
	CategoryID  string          `db:"category_id" json:"category"`
	Name        string          `db:"name" json:"name"`
	Slug        string          `db:"slug" json:"slug"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Weight      decimal.Decimal `db:"weight" json:"weight"`
	Stock       int             `db:"stock" json:"stock"`
	Image       string          `db:"image" json:"image,omitempty"`
	Active      bool            `db:"is_active" json:"is_active"`
	CreatedAt   string          `db:"created_at" json:"created_at"`
	UpdatedAt   string          `db:"updated_at" json:"updated_at,omitempty"`
}

// Availability buckets the raw stock count for display.
type Availability string

const (
	InStock    Availability = "IN_STOCK"
	LowStock   Availability = "LOW_STOCK"
	OutOfStock Availability = "OUT_OF_STOCK"
)

// CartItem is a live cart line. Quantity is advisory against stock; the
// binding check happens at checkout.
type CartItem struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"-"`
	ProductID string `db:"product_id" json:"product"`
	Qty       int    `db:"qty" json:"quantity"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

type Order struct {
	ID              string          `db:"id" json:"id"`
	OrderID         string          `db:"order_id" json:"order_id"`
	UserID          string          `db:"user_id" json:"user"`
	Status          Status          `db:"status" json:"status"`
	Total           decimal.Decimal `db:"total_amount" json:"total_amount"`
	ShippingAddress string          `db:"shipping_address" json:"shipping_address"`
	ShippingCity    string          `db:"shipping_city" json:"shipping_city"`
	ShippingState   string          `db:"shipping_state" json:"shipping_state"`
	ShippingPincode string          `db:"shipping_pincode" json:"shipping_pincode"`
	ShippingPhone   string          `db:"shipping_phone" json:"shipping_phone"`
	AdminNotes      string          `db:"admin_notes" json:"admin_notes"`
	CreatedAt       string          `db:"created_at" json:"created_at"`
	UpdatedAt       string          `db:"updated_at" json:"updated_at,omitempty"`
}

// OrderItem is an immutable purchase record: price and quantity are
// snapshots taken at checkout, not references to the live product.
type OrderItem struct {
	ID        string          `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"-"`
	ProductID string          `db:"product_id" json:"product"`
	Qty       int             `db:"qty" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
}

// TotalPrice is the derived line total, qty * snapshot price.
func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}
