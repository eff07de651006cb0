package services

import (
	"context"

	"artstore/internal/domain"
	"artstore/internal/repos"
)

// CartService scopes every operation to the caller's own cart.
type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

func (s *CartService) cartID(ctx context.Context, who domain.Identity) (string, error) {
	if !who.Authenticated() {
		return "", domain.ErrUserNotAuthenticated
	}
	return s.Carts.EnsureCart(ctx, who.UserID)
}

// AddLine adds qty units, merging into an existing line. Stock is not checked
// here, but a line never holds more than domain.MaxLineQty units.
func (s *CartService) AddLine(ctx context.Context, who domain.Identity, productID string, qty int) error {
	if !who.Authenticated() {
		return domain.ErrUserNotAuthenticated
	}
	if qty <= 0 || qty > domain.MaxLineQty {
		return domain.ErrInvalidQuantity
	}
	ok, err := s.Prods.Exists(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrProductNotFound
	}
	cartID, err := s.cartID(ctx, who)
	if err != nil {
		return err
	}
	added, err := s.Carts.UpsertItem(ctx, cartID, productID, qty, domain.MaxLineQty)
	if err != nil {
		return err
	}
	if !added {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// UpdateLineQuantity sets an absolute quantity; 0 removes the line.
func (s *CartService) UpdateLineQuantity(ctx context.Context, who domain.Identity, productID string, qty int) error {
	if !who.Authenticated() {
		return domain.ErrUserNotAuthenticated
	}
	if qty < 0 || qty > domain.MaxLineQty {
		return domain.ErrInvalidQuantity
	}
	if qty == 0 {
		return s.RemoveLine(ctx, who, productID)
	}
	cartID, err := s.cartID(ctx, who)
	if err != nil {
		return err
	}
	found, err := s.Carts.SetQty(ctx, cartID, productID, qty)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrLineNotFound
	}
	return nil
}

func (s *CartService) RemoveLine(ctx context.Context, who domain.Identity, productID string) error {
	cartID, err := s.cartID(ctx, who)
	if err != nil {
		return err
	}
	found, err := s.Carts.RemoveItem(ctx, cartID, productID)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrLineNotFound
	}
	return nil
}

// GetLines returns the caller's cart, creating an empty one on first use.
func (s *CartService) GetLines(ctx context.Context, who domain.Identity) (domain.Cart, error) {
	cartID, err := s.cartID(ctx, who)
	if err != nil {
		return domain.Cart{}, err
	}
	lines, err := s.Carts.Lines(ctx, cartID)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{ID: cartID, UserID: who.UserID, Lines: lines}, nil
}

func (s *CartService) Clear(ctx context.Context, who domain.Identity) error {
	cartID, err := s.cartID(ctx, who)
	if err != nil {
		return err
	}
	return s.Carts.Clear(ctx, cartID)
}
