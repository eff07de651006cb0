package services

import (
	"context"

	"github.com/google/uuid"

	"artstore/internal/domain"
	"artstore/internal/repos"
	"artstore/internal/validate"
)

type ReviewService struct {
	Reviews     *repos.ReviewRepo
	Eligibility *EligibilityService
}

func NewReviewService(reviews *repos.ReviewRepo, elig *EligibilityService) *ReviewService {
	return &ReviewService{Reviews: reviews, Eligibility: elig}
}

// Submit stores a review from a buyer of the product.
func (s *ReviewService) Submit(ctx context.Context, who domain.Identity, productID, text string) (domain.Review, error) {
	if !who.Authenticated() {
		return domain.Review{}, domain.ErrUserNotAuthenticated
	}
	body, ok := validate.ReviewText(text)
	if !ok {
		return domain.Review{}, domain.ErrInvalidReview
	}
	if err := s.Eligibility.Require(ctx, who, productID); err != nil {
		return domain.Review{}, err
	}

	rv := domain.Review{ID: uuid.NewString(), ProductID: productID, UserID: who.UserID, Text: body}
	if err := s.Reviews.Create(ctx, &rv); err != nil {
		return domain.Review{}, err
	}
	return s.Reviews.Get(ctx, rv.ID)
}

func (s *ReviewService) ListForProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.Reviews.ListByProduct(ctx, productID)
}

// Update replaces the text of a review. Only its author may edit it; admins
// can delete reviews but not reword them.
func (s *ReviewService) Update(ctx context.Context, who domain.Identity, reviewID, text string) (domain.Review, error) {
	if !who.Authenticated() {
		return domain.Review{}, domain.ErrUserNotAuthenticated
	}
	body, ok := validate.ReviewText(text)
	if !ok {
		return domain.Review{}, domain.ErrInvalidReview
	}
	rv, err := s.Reviews.Get(ctx, reviewID)
	if err != nil {
		return domain.Review{}, err
	}
	if rv.UserID != who.UserID {
		return domain.Review{}, domain.ErrForbidden
	}
	if err := s.Reviews.UpdateBody(ctx, reviewID, body); err != nil {
		return domain.Review{}, err
	}
	return s.Reviews.Get(ctx, reviewID)
}

func (s *ReviewService) Delete(ctx context.Context, who domain.Identity, reviewID string) error {
	if !who.Authenticated() {
		return domain.ErrUserNotAuthenticated
	}
	rv, err := s.Reviews.Get(ctx, reviewID)
	if err != nil {
		return err
	}
	if !domain.CanManage(who, rv.UserID) {
		return domain.ErrForbidden
	}
	return s.Reviews.Delete(ctx, reviewID)
}
