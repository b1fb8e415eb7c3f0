package products

import (
	"context"

	"github.com/suryakv/ecommerce-backend/pkg/db/models"
	"gorm.io/gorm"
)

// ListFilters narrows a catalog listing. Zero values mean "no filter".
type ListFilters struct {
	Category string
	Sort     string
}

// IsEmpty reports whether the listing can be served from the shared cache.
func (f ListFilters) IsEmpty() bool {
	return f.Category == "" && f.Sort == ""
}

// Repository persists catalog rows.
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

// Create inserts a new product row. Version starts at 1 via the column default,
// set explicitly here so the returned struct matches the stored row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.Version == 0 {
		product.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a single product row.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns catalog rows matching the filters, newest first unless a price
// sort is requested.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if filters.Category != "" {
		qb = qb.Where("category = ?", filters.Category)
	}
	switch filters.Sort {
	case "price_asc":
		qb = qb.Order("price ASC")
	case "price_desc":
		qb = qb.Order("price DESC")
	default:
		qb = qb.Order("id ASC")
	}

	var rows []models.Product
	if err := qb.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
