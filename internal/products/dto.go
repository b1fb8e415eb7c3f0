package products

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/suryakv/ecommerce-backend/pkg/db/models"
)

// ProductDTO is the catalog read shape returned to API callers.
type ProductDTO struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Category      string          `json:"category,omitempty"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Price         decimal.Decimal
	StockQuantity int
	Category      string
}

func toDTO(product models.Product) ProductDTO {
	return ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		Category:      product.Category,
		Version:       product.Version,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

func toDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out
}
