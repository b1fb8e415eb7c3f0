package users

import (
	"context"
	"errors"

	"github.com/suryakv/ecommerce-backend/pkg/db"
	"github.com/suryakv/ecommerce-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists user identities keyed by email.
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

// FindByEmail loads the user row.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureUser returns the existing user or creates one with the provided role.
// An existing user's stored role wins over the requested one.
func (r *Repository) EnsureUser(ctx context.Context, email, role string) (*models.User, error) {
	existing, err := r.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{Email: email, Role: role}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		// Two first-time logins can race; the earlier insert wins.
		if db.IsUniqueViolation(err) {
			return r.FindByEmail(ctx, email)
		}
		return nil, err
	}
	return user, nil
}
