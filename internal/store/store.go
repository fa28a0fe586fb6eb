package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"vending-fleet-backend/internal/model"
)

// Documented defaults for machine creation and low-stock detection.
const (
	DefaultSlotsPerMachine   = 30
	DefaultSlotCapacity      = 10
	DefaultLowStockThreshold = 10
)

// Defaults carries the configurable inventory constants. Zero values fall
// back to the documented defaults.
type Defaults struct {
	SlotsPerMachine   int
	SlotCapacity      int
	LowStockThreshold int
}

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Catalog
	CreateMachine(ctx context.Context, serial int64, location, address string) error
	DeleteMachine(ctx context.Context, serial int64) error
	SetMachinePower(ctx context.Context, serial int64, on bool) error
	MachineInfo(ctx context.Context, serial int64) (*MachineInfo, error)
	CreateProduct(ctx context.Context, serial int64, name string, price float64) error
	UpdateProduct(ctx context.Context, serial int64, name string, price float64) error
	DeleteProduct(ctx context.Context, serial int64) error
	MachineProducts(ctx context.Context, machine int64) ([]StockedProduct, int, error)

	// Ledger and transaction engine
	GetStock(ctx context.Context, machine, product int64) (int, error)
	Restock(ctx context.Context, machine, product int64, slot, quantity int) (int, error)
	Sell(ctx context.Context, machine, product int64, quantity int) (*SaleResult, error)
	CheckLowStock(ctx context.Context, machine, product int64) (*LowStockStatus, error)
	MachineFillLevels(ctx context.Context) ([]MachineFill, error)

	// Incident and refill tracker
	ReportIncident(ctx context.Context, machine int64, description, reporter string) (int64, error)
	DeleteMachineIncidents(ctx context.Context, machine int64) (int64, error)
	ListIncidents(ctx context.Context) ([]model.Incident, error)
	RequestRefill(ctx context.Context, machine int64, remainingPercent int, reportedAt time.Time, source string) (int64, error)
	ListRefillRequests(ctx context.Context) ([]model.RefillRequest, error)

	// Reporting
	TotalRevenue(ctx context.Context, machine int64) (float64, error)
	ExtremalRevenue(ctx context.Context, direction RevenueDirection) (*MachineRevenue, error)
}

// gormStore implements the Store interface using GORM.
//
// Mutations to a (machine, product) ledger key are serialized through a
// per-key mutex so a sale's check-then-decrement cannot interleave with a
// concurrent sale or restock on the same key. Operations on disjoint keys
// proceed independently.
type gormStore struct {
	db       *gorm.DB
	defaults Defaults
	keys     *keyLocks
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, defaults Defaults) Store {
	if defaults.SlotsPerMachine <= 0 {
		defaults.SlotsPerMachine = DefaultSlotsPerMachine
	}
	if defaults.SlotCapacity <= 0 {
		defaults.SlotCapacity = DefaultSlotCapacity
	}
	if defaults.LowStockThreshold <= 0 {
		defaults.LowStockThreshold = DefaultLowStockThreshold
	}
	return &gormStore{
		db:       db,
		defaults: defaults,
		keys:     newKeyLocks(),
	}
}

// DB exposes the underlying handle for collaborators that need direct
// access (subscription handlers, the notification worker pool).
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// keyLocks hands out one mutex per ledger key.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

// lockLedgerKey acquires the single-writer lock for a (machine, product)
// pair and returns the unlock function.
func (s *gormStore) lockLedgerKey(machine, product int64) func() {
	l := s.keys.get(fmt.Sprintf("%d/%d", machine, product))
	l.Lock()
	return l.Unlock
}

// fetchMachine loads a machine inside a transaction, mapping the gorm
// not-found error to the domain error.
func fetchMachine(tx *gorm.DB, serial int64) (*model.Machine, error) {
	var m model.Machine
	if err := tx.First(&m, "serial = ?", serial).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrMachineNotFound
		}
		return nil, fmt.Errorf("failed to fetch machine %d: %w", serial, err)
	}
	return &m, nil
}
