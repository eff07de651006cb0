package services

import (
	"context"

	"golang.org/x/sync/singleflight"

	"artstore/internal/domain"
	"artstore/internal/log"
	"artstore/internal/repos"
)

// EligibilityCache remembers positive purchase answers. A placed order is never
// removed, so a cached true cannot go stale; false is never cached.
type EligibilityCache interface {
	Purchased(ctx context.Context, userID, productID string) (bool, error)
	MarkPurchased(ctx context.Context, userID string, productIDs ...string) error
}

// EligibilityService answers "has this user ever bought this product".
type EligibilityService struct {
	Orders *repos.OrderRepo
	Cache  EligibilityCache

	group singleflight.Group
}

func NewEligibilityService(orders *repos.OrderRepo, cache EligibilityCache) *EligibilityService {
	return &EligibilityService{Orders: orders, Cache: cache}
}

func (s *EligibilityService) Purchased(ctx context.Context, who domain.Identity, productID string) (bool, error) {
	if !who.Authenticated() {
		return false, domain.ErrUserNotAuthenticated
	}
	if s.Cache != nil {
		hit, err := s.Cache.Purchased(ctx, who.UserID, productID)
		if err != nil {
			log.Error(nil, "eligibility.cache.get", err, map[string]any{"product_id": productID})
		} else if hit {
			return true, nil
		}
	}

	v, err, _ := s.group.Do(who.UserID+"|"+productID, func() (any, error) {
		ok, err := s.Orders.HasPurchased(ctx, who.UserID, productID)
		if err != nil {
			return false, err
		}
		if ok {
			s.Remember(ctx, who.UserID, []string{productID})
		}
		return ok, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Require returns a *domain.NotEligibleError unless who has bought productID.
// Admins get no exemption.
func (s *EligibilityService) Require(ctx context.Context, who domain.Identity, productID string) error {
	ok, err := s.Purchased(ctx, who, productID)
	if err != nil {
		return err
	}
	if !ok {
		log.Security(nil, "eligibility.denied", map[string]any{"user_id": who.UserID, "product_id": productID})
		return &domain.NotEligibleError{UserID: who.UserID, ProductID: productID}
	}
	return nil
}

// Remember caches positive answers. Failures are logged and otherwise ignored.
func (s *EligibilityService) Remember(ctx context.Context, userID string, productIDs []string) {
	if s.Cache == nil || len(productIDs) == 0 {
		return
	}
	if err := s.Cache.MarkPurchased(ctx, userID, productIDs...); err != nil {
		log.Error(nil, "eligibility.cache.set", err, map[string]any{"user_id": userID})
	}
}
