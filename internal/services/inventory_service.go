package services

import (
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

// InventoryService is the single entry point for stock mutation. Cart and
// checkout code never touch the stock column directly.
type InventoryService struct {
	DB  *sqlx.DB
	Inv *repos.InventoryRepo
}

func NewInventoryService(db *sqlx.DB, inv *repos.InventoryRepo) *InventoryService {
	return &InventoryService{DB: db, Inv: inv}
}

// Reserve decrements stock atomically, failing when the product is missing,
// inactive, or short on stock.
func (s *InventoryService) Reserve(productID string, qty int) error {
	return mapBusy(s.Inv.Reserve(s.DB, productID, qty))
}

// Release is the compensating increment, used on order cancellation.
func (s *InventoryService) Release(productID string, qty int) error {
	return mapBusy(s.Inv.Release(s.DB, productID, qty))
}

// Availability converts a stock count into IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) Availability(productID string) (domain.Availability, int, error) {
	qty, err := s.Inv.Stock(productID)
	if err != nil {
		return "", 0, err
	}
	switch {
	case qty >= 5:
		return domain.InStock, qty, nil
	case qty > 0:
		return domain.LowStock, qty, nil
	default:
		return domain.OutOfStock, qty, nil
	}
}

// mapBusy folds transient sqlite lock timeouts into the retryable sentinel.
func mapBusy(err error) error {
	if repos.IsBusy(err) {
		return domain.ErrBusy
	}
	return err
}
