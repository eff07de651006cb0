package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"artstore/internal/cache"
	"artstore/internal/domain"
	"artstore/internal/repos"
	"artstore/internal/services"
)

var (
	alice = domain.Identity{UserID: "u-alice", Email: "alice@artstore.test", Role: domain.RoleCustomer}
	bob   = domain.Identity{UserID: "u-bob", Email: "bob@artstore.test", Role: domain.RoleCustomer}
	admin = domain.Identity{UserID: "u-admin", Email: "admin@artstore.test", Role: domain.RoleAdmin}
	guest = domain.Guest()
)

type env struct {
	db      *sqlx.DB
	catalog *services.CatalogService
	ledger  *services.InventoryLedger
	carts   *services.CartService
	orders  *services.OrderService
	history *services.OrderHistory
	elig    *services.EligibilityService
	ratings *services.RatingService
	reviews *services.ReviewService
	auth    *services.AuthService
}

func newEnvWith(t *testing.T, dsn string, c services.EligibilityCache) *env {
	t.Helper()
	db, err := repos.OpenDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	prods := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	ledger := services.NewInventoryLedger(repos.NewInventoryRepo(db))
	elig := services.NewEligibilityService(orderRepo, c)

	return &env{
		db:      db,
		catalog: services.NewCatalogService(repos.NewCategoryRepo(db), prods),
		ledger:  ledger,
		carts:   services.NewCartService(repos.NewCartRepo(db), prods),
		orders:  services.NewOrderService(db, ledger, orderRepo, elig),
		history: services.NewOrderHistory(orderRepo),
		elig:    elig,
		ratings: services.NewRatingService(repos.NewRatingRepo(db), elig),
		reviews: services.NewReviewService(repos.NewReviewRepo(db), elig),
		auth:    services.NewAuthService(repos.NewUserRepo(db)),
	}
}

// newEnv uses a private in-memory database.
func newEnv(t *testing.T) *env {
	return newEnvWith(t, ":memory:", cache.NoopCache{})
}

// newFileEnv uses a real file so several connections can race.
func newFileEnv(t *testing.T) *env {
	return newEnvWith(t, filepath.Join(t.TempDir(), "artstore.db"), cache.NoopCache{})
}

func (e *env) stock(t *testing.T, productID string) int {
	t.Helper()
	n, err := e.ledger.Available(testContext(t), productID)
	require.NoError(t, err)
	return n
}

func (e *env) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

// testContext stands in for testing.T.Context (Go 1.24+): the returned
// context is canceled when the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
