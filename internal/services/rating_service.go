package services

import (
	"context"

	"artstore/internal/domain"
	"artstore/internal/repos"
)

type RatingService struct {
	Ratings     *repos.RatingRepo
	Eligibility *EligibilityService
}

func NewRatingService(ratings *repos.RatingRepo, elig *EligibilityService) *RatingService {
	return &RatingService{Ratings: ratings, Eligibility: elig}
}

// Rate records a 1..5 rating. Only buyers of the product may rate it; rating
// again replaces the earlier value.
func (s *RatingService) Rate(ctx context.Context, who domain.Identity, productID string, value int) (domain.Rating, error) {
	if !who.Authenticated() {
		return domain.Rating{}, domain.ErrUserNotAuthenticated
	}
	if value < 1 || value > 5 {
		return domain.Rating{}, domain.ErrInvalidRating
	}
	if err := s.Eligibility.Require(ctx, who, productID); err != nil {
		return domain.Rating{}, err
	}
	return s.Ratings.Upsert(ctx, who.UserID, productID, value)
}

func (s *RatingService) ListForProduct(ctx context.Context, productID string) ([]domain.Rating, error) {
	return s.Ratings.ListByProduct(ctx, productID)
}

func (s *RatingService) Summary(ctx context.Context, productID string) (domain.RatingSummary, error) {
	return s.Ratings.Summary(ctx, productID)
}

// Delete removes a rating; allowed for its author and for admins.
func (s *RatingService) Delete(ctx context.Context, who domain.Identity, ratingID string) error {
	if !who.Authenticated() {
		return domain.ErrUserNotAuthenticated
	}
	r, err := s.Ratings.Get(ctx, ratingID)
	if err != nil {
		return err
	}
	if !domain.CanManage(who, r.UserID) {
		return domain.ErrForbidden
	}
	return s.Ratings.Delete(ctx, ratingID)
}
