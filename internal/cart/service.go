package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suryakv/ecommerce-backend/pkg/db/models"
	pkgerrors "github.com/suryakv/ecommerce-backend/pkg/errors"
	"gorm.io/gorm"
)

// ItemDTO is the cart line shape returned to API callers.
type ItemDTO struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// AddItemInput holds the validated payload to add a cart line.
type AddItemInput struct {
	ProductID int64
	Quantity  int
}

type productReader interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

// Service exposes cart operations for the authenticated user.
type Service interface {
	ListItems(ctx context.Context, userEmail string) ([]ItemDTO, error)
	AddItem(ctx context.Context, userEmail string, input AddItemInput) (*ItemDTO, error)
	RemoveItem(ctx context.Context, userEmail string, itemID int64) error
}

type service struct {
	repo     *Repository
	products productReader
}

// NewService constructs the cart service.
func NewService(repo *Repository, products productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, products: products}, nil
}

// ListItems returns the caller's cart lines.
func (s *service) ListItems(ctx context.Context, userEmail string) ([]ItemDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}
	out := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toItemDTO(row))
	}
	return out, nil
}

// AddItem validates the product exists and inserts the cart line. Stock is
// not checked here; availability is settled at checkout time.
func (s *service) AddItem(ctx context.Context, userEmail string, input AddItemInput) (*ItemDTO, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	_, err := s.products.FindByID(ctx, input.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", input.ProductID))
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product for cart add")
	}

	item := &models.CartItem{
		UserEmail: userEmail,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	}
	created, err := s.repo.AddItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart item")
	}
	dto := toItemDTO(*created)
	return &dto, nil
}

// RemoveItem deletes the caller's cart line; removing someone else's line or
// a missing line reports not found.
func (s *service) RemoveItem(ctx context.Context, userEmail string, itemID int64) error {
	affected, err := s.repo.RemoveItem(ctx, userEmail, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("cart item %d not found", itemID))
	}
	return nil
}

func toItemDTO(item models.CartItem) ItemDTO {
	return ItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
	}
}
