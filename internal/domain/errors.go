package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrLineNotFound         = errors.New("item not in cart")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrUserNotAuthenticated = errors.New("user is not logged in")
	ErrNotEligible          = errors.New("you have not purchased this product")

	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrRatingNotFound  = errors.New("rating not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrForbidden       = errors.New("not allowed")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidReview   = errors.New("review text must be 1-1000 characters")
	ErrInvalidPrice    = errors.New("price must be greater than 0")
	ErrBadCredentials  = errors.New("invalid email or password")
)

// InsufficientStockError names the product that could not be reserved.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("not enough stock for %s (requested %d, available %d)", name, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// NotEligibleError deliberately says nothing about whether the product exists.
type NotEligibleError struct {
	UserID    string
	ProductID string
}

func (e *NotEligibleError) Error() string { return ErrNotEligible.Error() }

func (e *NotEligibleError) Is(target error) bool { return target == ErrNotEligible }
