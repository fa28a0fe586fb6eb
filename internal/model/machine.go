package model

import "time"

// Machine power states.
const (
	MachineOff = "off"
	MachineOn  = "on"
)

// Machine represents a vending machine in the fleet. The serial is assigned
// by the caller at registration time.
type Machine struct {
	Serial    int64     `gorm:"primaryKey;autoIncrement:false" json:"serial"`
	Location  string    `gorm:"size:256;not null" json:"location"`
	Address   string    `gorm:"size:256" json:"address"`
	State     string    `gorm:"size:8;not null;default:off" json:"state"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Slots []Slot `gorm:"foreignKey:MachineSerial;constraint:OnDelete:CASCADE" json:"-"`
}
