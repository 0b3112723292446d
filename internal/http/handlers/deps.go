package handlers

import (
	"github.com/jmoiron/sqlx"

	"storefront/internal/config"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type Deps struct {
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	AdminHandler     *AdminHandler
	InventoryHandler *InventoryHandler
	Users            *repos.UserRepo
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	invSvc := services.NewInventoryService(db, invRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(db, cartRepo, invRepo, orderRepo)
	importSvc := services.NewImportService(catRepo, prodRepo)

	return &Deps{
		CartHandler:  &CartHandler{Cart: cartSvc},
		OrderHandler: &OrderHandler{Order: orderSvc, Repo: orderRepo},
		AdminHandler: &AdminHandler{
			Order:          orderSvc,
			Imports:        importSvc,
			Orders:         orderRepo,
			Prods:          prodRepo,
			Cats:           catRepo,
			MaxImportBytes: cfg.MaxImportBytes,
		},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		Users:            userRepo,
	}
}
