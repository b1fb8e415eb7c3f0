package orders

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/suryakv/ecommerce-backend/pkg/db/models"
)

// OrderDTO is the order shape returned to API callers.
type OrderDTO struct {
	ID        int64           `json:"id"`
	UserEmail string          `json:"user_email"`
	Total     decimal.Decimal `json:"total"`
	Items     []OrderItemDTO  `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderItemDTO carries the price snapshot taken at checkout time.
type OrderItemDTO struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// ToDTO converts a stored order into its API shape.
func ToDTO(order models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return OrderDTO{
		ID:        order.ID,
		UserEmail: order.UserEmail,
		Total:     order.Total,
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}

// ToDTOs converts a list of stored orders.
func ToDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDTO(row))
	}
	return out
}
