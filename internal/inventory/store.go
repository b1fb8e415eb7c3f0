package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/suryakv/ecommerce-backend/pkg/db/models"
	pkgerrors "github.com/suryakv/ecommerce-backend/pkg/errors"
	"gorm.io/gorm"
)

// DecrementStatus tags the outcome of a versioned stock decrement.
type DecrementStatus string

const (
	// StatusUpdated means the compare-and-swap applied: stock was reduced
	// and the version advanced by exactly one.
	StatusUpdated DecrementStatus = "updated"
	// StatusVersionConflict means another transaction moved the version
	// first; stock was left untouched.
	StatusVersionConflict DecrementStatus = "version_conflict"
	// StatusInsufficientStock means the row cannot cover the requested
	// quantity regardless of version (missing products count as stock 0).
	StatusInsufficientStock DecrementStatus = "insufficient_stock"
)

// DecrementResult reports the outcome of AttemptDecrement. NewVersion and
// NewStock are only meaningful when Status is StatusUpdated.
type DecrementResult struct {
	Status     DecrementStatus
	NewVersion int64
	NewStock   int
}

// Store performs optimistic-concurrency stock updates on product rows. It
// never takes row locks and never retries; retry policy belongs to callers.
type Store struct {
	db *gorm.DB
}

// NewStore binds the store to the provided DB handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx scopes the store to the provided transaction.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	if tx == nil {
		return s
	}
	return &Store{db: tx}
}

// FindByID loads the current product row, including its version.
func (s *Store) FindByID(ctx context.Context, productID int64) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// AttemptDecrement applies a compare-and-swap decrement against the product
// row: it succeeds only when the stored version equals expectedVersion and
// stock covers quantity, in which case stock_quantity drops by quantity and
// version advances by one. A zero-row update is disambiguated by re-reading
// the row.
func (s *Store) AttemptDecrement(ctx context.Context, productID, expectedVersion int64, quantity int) (DecrementResult, error) {
	if quantity <= 0 {
		return DecrementResult{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be positive, got %d", quantity))
	}

	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND version = ? AND stock_quantity >= ?", productID, expectedVersion, quantity).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"version":        gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return DecrementResult{}, res.Error
	}

	if res.RowsAffected == 0 {
		var current models.Product
		err := s.db.WithContext(ctx).Where("id = ?", productID).First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DecrementResult{Status: StatusInsufficientStock}, nil
		}
		if err != nil {
			return DecrementResult{}, err
		}
		if current.StockQuantity < quantity {
			return DecrementResult{Status: StatusInsufficientStock}, nil
		}
		return DecrementResult{Status: StatusVersionConflict}, nil
	}

	var updated models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", productID).First(&updated).Error; err != nil {
		return DecrementResult{}, err
	}

	return DecrementResult{
		Status:     StatusUpdated,
		NewVersion: updated.Version,
		NewStock:   updated.StockQuantity,
	}, nil
}
