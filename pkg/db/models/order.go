package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is created exactly once per successful checkout and is immutable
// after commit. Total always equals the sum of its items' qty x price.
type Order struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserEmail string          `gorm:"column:user_email;not null;index"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
