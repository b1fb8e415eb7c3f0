package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/suryakv/ecommerce-backend/pkg/db/models"
	pkgerrors "github.com/suryakv/ecommerce-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes catalog operations.
type Service interface {
	ListProducts(ctx context.Context, filters ListFilters) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id int64) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
}

type service struct {
	repo  *Repository
	cache *Cache
}

// NewService constructs the catalog service.
func NewService(repo *Repository, cache *Cache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("catalog cache required")
	}
	return &service{repo: repo, cache: cache}, nil
}

// ListProducts serves the catalog. Only the unfiltered, unsorted listing goes
// through the cache; any filter or sort hits the database directly.
func (s *service) ListProducts(ctx context.Context, filters ListFilters) ([]ProductDTO, error) {
	if filters.IsEmpty() {
		if rows, ok := s.cache.Get(ctx); ok {
			return toDTOs(rows), nil
		}
	}

	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	if filters.IsEmpty() {
		s.cache.Set(ctx, rows)
	}
	return toDTOs(rows), nil
}

// GetProduct returns a single product by ID.
func (s *service) GetProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", id))
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toDTO(*product)
	return &dto, nil
}

// CreateProduct inserts a catalog row and drops the cached listing so the new
// product shows up immediately.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity cannot be negative")
	}

	product := &models.Product{
		Name:          input.Name,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		Category:      input.Category,
		Version:       1,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}

	s.cache.Invalidate(ctx)

	dto := toDTO(*created)
	return &dto, nil
}
