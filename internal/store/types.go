package store

import (
	"vending-fleet-backend/internal/model"
)

// StockedProduct is one (product, slot) ledger entry of a machine, joined
// with the catalog attributes needed by callers.
type StockedProduct struct {
	Serial   int64   `json:"serial"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Slot     int     `json:"slot"`
}

// SaleResult is the outcome of a successful sale.
type SaleResult struct {
	SaleID    int64   `json:"sale_id"`
	Amount    float64 `json:"amount"`
	Remaining int     `json:"remaining"`
}

// LowStockStatus reports the current aggregate count for a (machine,
// product) pair and whether it is at or below the refill threshold.
type LowStockStatus struct {
	CurrentCount int  `json:"current_count"`
	NeedsRefill  bool `json:"needs_refill"`
}

// RevenueDirection selects which end of the per-machine revenue ranking
// ExtremalRevenue returns.
type RevenueDirection string

const (
	RevenueHighest RevenueDirection = "highest"
	RevenueLowest  RevenueDirection = "lowest"
)

// MachineRevenue is a machine's summed sale amount.
type MachineRevenue struct {
	MachineSerial int64   `json:"machine_serial"`
	Amount        float64 `json:"amount"`
}

// MachineFill is a machine's remaining stock relative to its total slot
// capacity, as scanned by the low-stock watcher.
type MachineFill struct {
	MachineSerial int64
	Quantity      int
	Capacity      int
	Percent       int
}

// MachineInfo is the aggregate state view of a single machine.
type MachineInfo struct {
	Machine        model.Machine         `json:"machine"`
	Products       []StockedProduct      `json:"products"`
	SlotCount      int                   `json:"slot_count"`
	TotalCapacity  int                   `json:"total_capacity"`
	Incidents      []model.Incident      `json:"incidents"`
	RefillRequests []model.RefillRequest `json:"refill_requests"`
	TotalRevenue   float64               `json:"total_revenue"`
}
