package handlers

import (
	"github.com/jmoiron/sqlx"

	"artstore/internal/auth"
	"artstore/internal/config"
	"artstore/internal/repos"
	"artstore/internal/services"
)

type Deps struct {
	Sessions *services.AuthService
	Tokens   *auth.Tokens

	AuthHandler     *AuthHandler
	CatalogHandler  *CatalogHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler
	FeedbackHandler *FeedbackHandler
	AdminHandler    *AdminHandler
}

// NewDeps wires repos, services and handlers over one database.
func NewDeps(db *sqlx.DB, cfg config.Config, cache services.EligibilityCache) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	sessions := services.NewAuthService(repos.NewUserRepo(db))
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	ledger := services.NewInventoryLedger(invRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	eligSvc := services.NewEligibilityService(orderRepo, cache)
	orderSvc := services.NewOrderService(db, ledger, orderRepo, eligSvc)
	historySvc := services.NewOrderHistory(orderRepo)
	ratingSvc := services.NewRatingService(repos.NewRatingRepo(db), eligSvc)
	reviewSvc := services.NewReviewService(repos.NewReviewRepo(db), eligSvc)

	return &Deps{
		Sessions:        sessions,
		Tokens:          tokens,
		AuthHandler:     &AuthHandler{Auth: sessions, Tokens: tokens, TTL: cfg.TokenTTL},
		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc, Ledger: ledger, Ratings: ratingSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		OrderHandler:    &OrderHandler{Order: orderSvc, History: historySvc},
		FeedbackHandler: &FeedbackHandler{Eligibility: eligSvc, Ratings: ratingSvc, Reviews: reviewSvc},
		AdminHandler:    &AdminHandler{Order: orderSvc, Ledger: ledger, Catalog: catalogSvc},
	}
}
