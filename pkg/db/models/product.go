package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog row guarded by an optimistic version column. Version
// starts at 1 and increases by exactly one on every successful stock
// decrement; readers never block writers.
type Product struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string          `gorm:"column:name;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0"`
	Category      string          `gorm:"column:category"`
	Version       int64           `gorm:"column:version;not null;default:1"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
