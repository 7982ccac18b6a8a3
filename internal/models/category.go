package models

// Category represents a transaction category
type Category struct {
	Base
	Name string `gorm:"size:255;not null" json:"name"`
}
