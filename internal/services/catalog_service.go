package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"artstore/internal/domain"
	"artstore/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Cats.List(ctx)
}

func paging(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 12
	}
	return pageSize, (page - 1) * pageSize
}

func (s *CatalogService) ListProducts(ctx context.Context, catID string, page, pageSize int) ([]domain.Product, error) {
	limit, offset := paging(page, pageSize)
	return s.Prods.List(ctx, catID, limit, offset)
}

// Search finds products whose name or description contains q. An empty q
// matches nothing rather than the whole catalog.
func (s *CatalogService) Search(ctx context.Context, q, catID string, page, pageSize int) ([]domain.Product, error) {
	if strings.TrimSpace(q) == "" {
		return []domain.Product{}, nil
	}
	limit, offset := paging(page, pageSize)
	out, err := s.Prods.Search(ctx, q, catID, limit, offset)
	if out == nil {
		out = []domain.Product{}
	}
	return out, err
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

// CreateProduct adds a product with its opening stock. An empty ID is generated.
func (s *CatalogService) CreateProduct(ctx context.Context, who domain.Identity, p domain.Product) (domain.Product, error) {
	if !who.IsAdmin() {
		return domain.Product{}, domain.ErrForbidden
	}
	if !p.Price.IsPositive() {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if p.Quantity < 0 {
		return domain.Product{}, domain.ErrInvalidQuantity
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.Prods.Create(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(ctx, p.ID)
}

// UpdatePrice changes the live price. Placed orders are unaffected.
func (s *CatalogService) UpdatePrice(ctx context.Context, who domain.Identity, id string, price decimal.Decimal) error {
	if !who.IsAdmin() {
		return domain.ErrForbidden
	}
	if !price.IsPositive() {
		return domain.ErrInvalidPrice
	}
	return s.Prods.UpdatePrice(ctx, id, price)
}
