package model

import "time"

// Sale is an immutable record of a completed purchase. It references the
// machine and product by serial; deleting either leaves the sale in place as
// a historical record.
type Sale struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MachineSerial int64     `gorm:"index;not null" json:"machine_serial"`
	ProductSerial int64     `gorm:"index;not null" json:"product_serial"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	Amount        float64   `gorm:"not null" json:"amount"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
