package models

import "time"

// Member is a household member transactions can be attributed to.
type Member struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Role      string    `gorm:"size:255" json:"role"`
	CreatedAt Date      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
