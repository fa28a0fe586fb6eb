package model

import "time"

// Slot is a numbered storage unit inside a machine and doubles as the
// inventory ledger row: it holds at most one product at a time together with
// the current stock count. Capacity is fixed when the machine is created.
// Invariant: 0 <= Quantity <= Capacity, and Quantity > 0 implies
// ProductSerial is set.
type Slot struct {
	MachineSerial int64     `gorm:"primaryKey;autoIncrement:false" json:"machine_serial"`
	Number        int       `gorm:"primaryKey;autoIncrement:false" json:"number"`
	Capacity      int       `gorm:"not null" json:"capacity"`
	ProductSerial *int64    `gorm:"index" json:"product_serial,omitempty"`
	Quantity      int       `gorm:"not null;default:0" json:"quantity"`
	UpdatedAt     time.Time `json:"-"`
}
