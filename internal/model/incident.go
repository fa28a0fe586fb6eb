package model

import "time"

// Incident is an operator-reported problem associated with a machine.
// Incidents are append-only; they are removed only through the explicit
// per-machine bulk delete operation.
type Incident struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MachineSerial int64     `gorm:"index;not null" json:"machine_serial"`
	Description   string    `gorm:"size:1024;not null" json:"description"`
	Reporter      string    `gorm:"size:128" json:"reporter"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
