package store

import "errors"

// Expected operation outcomes. Callers branch on these with errors.Is; any
// other error returned by the store is a storage failure.
var (
	ErrMachineNotFound = errors.New("machine not found")
	ErrMachineExists   = errors.New("machine already exists")
	ErrMachineOff      = errors.New("machine is powered off")

	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")

	ErrSlotNotFound = errors.New("slot not found")
	ErrSlotOccupied = errors.New("slot holds a different product")
	ErrSlotFull     = errors.New("slot capacity exceeded")

	ErrNotStocked        = errors.New("product not stocked in machine")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoSalesData       = errors.New("no sales data")
)
