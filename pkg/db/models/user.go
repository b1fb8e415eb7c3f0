package models

import "time"

// User is keyed by email; accounts are auto-provisioned on first login.
type User struct {
	Email     string    `gorm:"column:email;primaryKey"`
	Role      string    `gorm:"column:role;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
