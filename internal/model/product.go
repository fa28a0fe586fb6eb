package model

import "time"

// Product is a catalog entry. Its lifecycle is independent from any machine;
// slots reference it by serial without an ownership constraint.
type Product struct {
	Serial    int64     `gorm:"primaryKey;autoIncrement:false" json:"serial"`
	Name      string    `gorm:"size:256;not null" json:"name"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
