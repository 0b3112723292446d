package services

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add puts qty units of a product into the user's cart, summing with any
// existing line. The stock check here is advisory: stock can change before
// checkout, where the binding reservation happens.
func (s *CartService) Add(userID, productID string, qty int) (domain.CartItem, error) {
	if qty < 1 {
		return domain.CartItem{}, &domain.ValidationError{Field: "quantity", Message: "must be a positive integer"}
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if !p.Active {
		return domain.CartItem{}, domain.ErrProductNotFound
	}

	existing, err := s.Carts.ByProduct(userID, productID)
	if err != nil && err != sql.ErrNoRows {
		return domain.CartItem{}, err
	}
	if existing.Qty+qty > p.Stock {
		return domain.CartItem{}, &domain.InsufficientStockError{Product: p.Name}
	}
	return s.Carts.Upsert(userID, productID, qty)
}

// SetQuantity replaces the quantity on an entry owned by the user.
func (s *CartService) SetQuantity(userID, entryID string, qty int) (domain.CartItem, error) {
	if qty < 1 {
		return domain.CartItem{}, &domain.ValidationError{Field: "quantity", Message: "must be a positive integer"}
	}
	it, err := s.Carts.Get(entryID, userID)
	if err != nil {
		return domain.CartItem{}, err
	}
	p, err := s.Prods.Get(it.ProductID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if qty > p.Stock {
		return domain.CartItem{}, &domain.InsufficientStockError{Product: p.Name}
	}
	if err := s.Carts.SetQty(entryID, userID, qty); err != nil {
		return domain.CartItem{}, err
	}
	return s.Carts.Get(entryID, userID)
}

// Clear empties the user's cart. Never fails on an already-empty cart.
func (s *CartService) Clear(userID string) error {
	return s.Carts.Clear(s.Carts.DB(), userID)
}

type CartView struct {
	Items []repos.CartLine `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

// List returns the cart with live product names and prices. No inventory
// side effects.
func (s *CartService) List(userID string) (CartView, error) {
	lines, err := s.Carts.Lines(userID)
	if err != nil {
		return CartView{}, err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return CartView{Items: lines, Total: total}, nil
}
