package cart

import (
	"context"

	"github.com/suryakv/ecommerce-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists cart lines keyed by the owning user's email.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// AddItem inserts a cart line. Multiple lines for the same product are
// allowed; merging is left to callers that want it.
func (r *Repository) AddItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// ListForUser returns the user's cart lines in insertion order.
func (r *Repository) ListForUser(ctx context.Context, userEmail string) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_email = ?", userEmail).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListForCheckout returns the user's cart lines ordered by ascending product
// ID so concurrent checkouts touch product rows in a consistent order.
func (r *Repository) ListForCheckout(ctx context.Context, userEmail string) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_email = ?", userEmail).
		Order("product_id ASC, id ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindItem loads a single cart line scoped to its owner.
func (r *Repository) FindItem(ctx context.Context, userEmail string, itemID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_email = ?", itemID, userEmail).
		First(&item).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes a single cart line scoped to its owner. Returns the
// number of rows removed so callers can distinguish a no-op.
func (r *Repository) RemoveItem(ctx context.Context, userEmail string, itemID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_email = ?", itemID, userEmail).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// ClearForUser removes every cart line for the user. Runs inside the checkout
// transaction via WithTx.
func (r *Repository) ClearForUser(ctx context.Context, userEmail string) error {
	return r.db.WithContext(ctx).
		Where("user_email = ?", userEmail).
		Delete(&models.CartItem{}).
		Error
}
