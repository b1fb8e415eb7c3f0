package models

import "time"

// CartItem is a pending line owned by a single user. Rows only exist between
// add-to-cart and checkout/removal.
type CartItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserEmail string    `gorm:"column:user_email;not null;index"`
	ProductID int64     `gorm:"column:product_id;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
