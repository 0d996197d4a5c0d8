package handlers

import (
	"context"

	"warungjp/internal/config"
	"warungjp/internal/currency"
	"warungjp/internal/domain"
	"warungjp/internal/orderfeed"
	"warungjp/internal/repos"
	"warungjp/internal/services"
	"warungjp/internal/storage"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ProductHandler      *ProductHandler
	CartHandler         *CartHandler
	CheckoutHandler     *CheckoutHandler
	OrderHandler        *OrderHandler
	ShippingHandler     *ShippingHandler
	VerificationHandler *VerificationHandler
	CurrencyHandler     *CurrencyHandler
}

// NewDeps wires repos, services, handlers and the order feeds. Feeds stop
// when ctx is cancelled.
func NewDeps(ctx context.Context, db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	proofRepo := repos.NewProofRepo(db)
	shipRepo := repos.NewShippingRepo(db)

	shipSvc := services.NewShippingService(shipRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	store := storage.NewLocalStore(cfg.MediaDir, cfg.BaseURL)
	checkoutSvc := services.NewCheckoutService(cartRepo, orderRepo, proofRepo, shipSvc, store, cfg.StorePhone)
	verifySvc := services.NewVerificationService(proofRepo, orderRepo)
	converter := currency.NewConverter(cfg.RatePrimary, cfg.RateSecondary)

	adminFeed := orderfeed.NewAdminFeed(orderRepo.ListAll)
	go adminFeed.Run(ctx)
	userFeeds := orderfeed.NewRegistry(ctx, func(userID string) orderfeed.Fetch {
		return func() ([]domain.Order, error) { return orderRepo.ListByUser(userID) }
	})

	return &Deps{
		ProductHandler:      &ProductHandler{Products: prodRepo},
		CartHandler:         &CartHandler{Cart: cartSvc},
		CheckoutHandler:     &CheckoutHandler{Checkout: checkoutSvc, Feeds: userFeeds},
		OrderHandler:        &OrderHandler{Orders: orderRepo, AdminFeed: adminFeed, UserFeeds: userFeeds},
		ShippingHandler:     &ShippingHandler{Shipping: shipSvc},
		VerificationHandler: &VerificationHandler{Verify: verifySvc, AdminFeed: adminFeed},
		CurrencyHandler:     &CurrencyHandler{Converter: converter},
	}
}
