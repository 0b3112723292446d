package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

// ShippingDetails carries the opaque shipping fields checkout persists on
// the order.
type ShippingDetails struct {
	Address string `json:"shipping_address"`
	City    string `json:"shipping_city"`
	State   string `json:"shipping_state"`
	Pincode string `json:"shipping_pincode"`
	Phone   string `json:"shipping_phone"`
}

type OrderService struct {
	DB     *sqlx.DB
	Carts  *repos.CartRepo
	Inv    *repos.InventoryRepo
	Orders *repos.OrderRepo
}

func NewOrderService(db *sqlx.DB, carts *repos.CartRepo, inv *repos.InventoryRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{DB: db, Carts: carts, Inv: inv, Orders: orders}
}

// newOrderID derives a human-readable order reference from a uuid.
func newOrderID() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// Checkout converts the user's cart into an order, all-or-nothing.
//
// The cart snapshot (with live prices) is read first; the write phase then
// runs in one transaction: reserve every line in ascending product-id order,
// insert the order and its items, clear the cart. A failed reservation rolls
// the whole transaction back, so no partial decrement or partial order ever
// survives.
func (s *OrderService) Checkout(userID string, ship ShippingDetails) (domain.Order, []repos.ItemDetail, error) {
	required := []struct{ field, value string }{
		{"shipping_address", ship.Address},
		{"shipping_city", ship.City},
		{"shipping_state", ship.State},
		{"shipping_pincode", ship.Pincode},
		{"shipping_phone", ship.Phone},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return domain.Order{}, nil, &domain.ValidationError{Field: f.field, Message: "is required"}
		}
	}

	lines, err := s.Carts.Lines(userID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	if len(lines) == 0 {
		return domain.Order{}, nil, domain.ErrEmptyCart
	}

	order := domain.Order{
		ID:              uuid.NewString(),
		OrderID:         newOrderID(),
		UserID:          userID,
		Status:          domain.StatusPending,
		ShippingAddress: ship.Address,
		ShippingCity:    ship.City,
		ShippingState:   ship.State,
		ShippingPincode: ship.Pincode,
		ShippingPhone:   ship.Phone,
	}
	total := decimal.Zero
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		it := domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: l.ProductID,
			Qty:       l.Qty,
			Price:     l.Price,
		}
		items = append(items, it)
		total = total.Add(it.TotalPrice())
	}
	order.Total = total

	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Order{}, nil, mapBusy(err)
	}
	defer func() { _ = tx.Rollback() }()

	// Lines arrive sorted by product id, so overlapping checkouts reserve in
	// the same global order.
	for _, l := range lines {
		if err := s.Inv.Reserve(tx, l.ProductID, l.Qty); err != nil {
			return domain.Order{}, nil, mapBusy(err)
		}
	}
	if err := s.Orders.CreateTx(tx, order, items); err != nil {
		return domain.Order{}, nil, mapBusy(err)
	}
	if err := s.Carts.Clear(tx, userID); err != nil {
		return domain.Order{}, nil, mapBusy(err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, nil, mapBusy(err)
	}

	return s.Orders.Get(order.ID)
}

// UpdateStatus applies a lifecycle transition. Cancellation releases every
// line's reserved stock in the same transaction as the status write. A
// same-status update is a no-op (idempotent cancel).
func (s *OrderService) UpdateStatus(orderID, raw string) (domain.Order, []repos.ItemDetail, error) {
	target, err := domain.ParseStatus(raw)
	if err != nil {
		return domain.Order{}, nil, err
	}

	o, items, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	if o.Status == target {
		return o, items, nil
	}
	if !o.Status.CanTransition(target) {
		return domain.Order{}, nil, &domain.InvalidTransitionError{From: o.Status, To: target}
	}

	if target == domain.StatusCancelled {
		tx, err := s.DB.Beginx()
		if err != nil {
			return domain.Order{}, nil, mapBusy(err)
		}
		defer func() { _ = tx.Rollback() }()
		for _, it := range items {
			if err := s.Inv.Release(tx, it.ProductID, it.Qty); err != nil {
				return domain.Order{}, nil, mapBusy(err)
			}
		}
		if err := s.Orders.UpdateStatusTx(tx, orderID, target); err != nil {
			return domain.Order{}, nil, mapBusy(err)
		}
		if err := tx.Commit(); err != nil {
			return domain.Order{}, nil, mapBusy(err)
		}
	} else if err := s.Orders.UpdateStatusTx(s.DB, orderID, target); err != nil {
		return domain.Order{}, nil, mapBusy(err)
	}

	return s.Orders.Get(orderID)
}

// AddNotes overwrites the admin notes on an order. Notes are the only other
// mutable field after creation.
func (s *OrderService) AddNotes(orderID, notes string) (domain.Order, []repos.ItemDetail, error) {
	if err := s.Orders.UpdateNotes(orderID, notes); err != nil {
		return domain.Order{}, nil, err
	}
	return s.Orders.Get(orderID)
}
