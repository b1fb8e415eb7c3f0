package orders

import (
	"context"

	"github.com/suryakv/ecommerce-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists committed orders and their line items.
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

// Create inserts the order together with its items in one shot. GORM cascades
// the Items association, filling OrderID on each line.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads one order with its items.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListForUser returns the user's orders newest first, items included.
func (r *Repository) ListForUser(ctx context.Context, userEmail string) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_email = ?", userEmail).
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}
