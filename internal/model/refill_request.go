package model

import "time"

// Origins of a refill request.
const (
	RefillSourceOperator = "operator"
	RefillSourceWatcher  = "watcher"
)

// RefillRequest is an advisory, append-only record noting how much stock a
// machine had left at a point in time. Requests are accepted even for
// machines that are not (yet) registered.
type RefillRequest struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MachineSerial    int64     `gorm:"index;not null" json:"machine_serial"`
	RemainingPercent int       `gorm:"not null" json:"remaining_percent"`
	Source           string    `gorm:"size:16;not null;default:operator" json:"source"`
	ReportedAt       time.Time `gorm:"not null" json:"reported_at"`
	CreatedAt        time.Time `json:"-"`
}
