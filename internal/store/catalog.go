package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"vending-fleet-backend/internal/model"
)

// CreateMachine registers a machine and its fixed slot set in a single
// transaction. Slots are numbered from 1. A failure partway through leaves
// neither the machine nor any slot behind.
func (s *gormStore) CreateMachine(ctx context.Context, serial int64, location, address string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Machine
		err := tx.First(&existing, "serial = ?", serial).Error
		if err == nil {
			return ErrMachineExists
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to check machine %d: %w", serial, err)
		}

		machine := model.Machine{
			Serial:   serial,
			Location: location,
			Address:  address,
			State:    model.MachineOff,
		}
		if err := tx.Create(&machine).Error; err != nil {
			return fmt.Errorf("failed to create machine %d: %w", serial, err)
		}

		slots := make([]model.Slot, s.defaults.SlotsPerMachine)
		for i := range slots {
			slots[i] = model.Slot{
				MachineSerial: serial,
				Number:        i + 1,
				Capacity:      s.defaults.SlotCapacity,
			}
		}
		if err := tx.Create(&slots).Error; err != nil {
			return fmt.Errorf("failed to create slots for machine %d: %w", serial, err)
		}
		return nil
	})
}

// DeleteMachine removes a machine and its slots. Sales and refill requests
// stay behind as history; incidents are only removed through
// DeleteMachineIncidents.
func (s *gormStore) DeleteMachine(ctx context.Context, serial int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := fetchMachine(tx, serial); err != nil {
			return err
		}
		if err := tx.Where("machine_serial = ?", serial).Delete(&model.Slot{}).Error; err != nil {
			return fmt.Errorf("failed to delete slots of machine %d: %w", serial, err)
		}
		if err := tx.Delete(&model.Machine{}, "serial = ?", serial).Error; err != nil {
			return fmt.Errorf("failed to delete machine %d: %w", serial, err)
		}
		return nil
	})
}

// SetMachinePower switches a machine on or off.
func (s *gormStore) SetMachinePower(ctx context.Context, serial int64, on bool) error {
	state := model.MachineOff
	if on {
		state = model.MachineOn
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := fetchMachine(tx, serial); err != nil {
			return err
		}
		if err := tx.Model(&model.Machine{}).Where("serial = ?", serial).
			Update("state", state).Error; err != nil {
			return fmt.Errorf("failed to update state of machine %d: %w", serial, err)
		}
		return nil
	})
}

// MachineInfo assembles the aggregate state view of a machine: attributes,
// stocked products, slot totals, incidents, refill requests, and revenue.
func (s *gormStore) MachineInfo(ctx context.Context, serial int64) (*MachineInfo, error) {
	db := s.db.WithContext(ctx)

	machine, err := fetchMachine(db, serial)
	if err != nil {
		return nil, err
	}

	products, _, err := s.stockedProducts(db, serial)
	if err != nil {
		return nil, err
	}

	type slotAgg struct {
		SlotCount     int
		TotalCapacity int
	}
	var agg slotAgg
	if err := db.Model(&model.Slot{}).
		Select("COUNT(*) AS slot_count, COALESCE(SUM(capacity), 0) AS total_capacity").
		Where("machine_serial = ?", serial).
		Scan(&agg).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate slots of machine %d: %w", serial, err)
	}

	var incidents []model.Incident
	if err := db.Where("machine_serial = ?", serial).Order("id").Find(&incidents).Error; err != nil {
		return nil, fmt.Errorf("failed to list incidents of machine %d: %w", serial, err)
	}

	var refills []model.RefillRequest
	if err := db.Where("machine_serial = ?", serial).Order("id").Find(&refills).Error; err != nil {
		return nil, fmt.Errorf("failed to list refill requests of machine %d: %w", serial, err)
	}

	revenue, err := s.TotalRevenue(ctx, serial)
	if err != nil {
		return nil, err
	}

	return &MachineInfo{
		Machine:        *machine,
		Products:       products,
		SlotCount:      agg.SlotCount,
		TotalCapacity:  agg.TotalCapacity,
		Incidents:      incidents,
		RefillRequests: refills,
		TotalRevenue:   revenue,
	}, nil
}

// CreateProduct adds a catalog entry. The price must be non-negative.
func (s *gormStore) CreateProduct(ctx context.Context, serial int64, name string, price float64) error {
	if price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		err := tx.First(&existing, "serial = ?", serial).Error
		if err == nil {
			return ErrProductExists
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to check product %d: %w", serial, err)
		}
		product := model.Product{Serial: serial, Name: name, Price: price}
		if err := tx.Create(&product).Error; err != nil {
			return fmt.Errorf("failed to create product %d: %w", serial, err)
		}
		return nil
	})
}

// UpdateProduct replaces a product's name and price.
func (s *gormStore) UpdateProduct(ctx context.Context, serial int64, name string, price float64) error {
	if price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fetchProduct(tx, serial); err != nil {
			return err
		}
		if err := tx.Model(&model.Product{}).Where("serial = ?", serial).
			Updates(map[string]any{"name": name, "price": price}).Error; err != nil {
			return fmt.Errorf("failed to update product %d: %w", serial, err)
		}
		return nil
	})
}

// DeleteProduct removes a catalog entry. Slot rows referencing the product
// keep their stock; the ledger and the catalog are separate stores and a
// sale against the orphaned stock fails the price lookup.
func (s *gormStore) DeleteProduct(ctx context.Context, serial int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fetchProduct(tx, serial); err != nil {
			return err
		}
		if err := tx.Delete(&model.Product{}, "serial = ?", serial).Error; err != nil {
			return fmt.Errorf("failed to delete product %d: %w", serial, err)
		}
		return nil
	})
}

// MachineProducts lists the products stocked in a machine together with the
// aggregate unit count.
func (s *gormStore) MachineProducts(ctx context.Context, machine int64) ([]StockedProduct, int, error) {
	db := s.db.WithContext(ctx)
	if _, err := fetchMachine(db, machine); err != nil {
		return nil, 0, err
	}
	return s.stockedProducts(db, machine)
}

func (s *gormStore) stockedProducts(db *gorm.DB, machine int64) ([]StockedProduct, int, error) {
	var rows []StockedProduct
	err := db.Table("products").
		Select("products.serial AS serial, products.name AS name, products.price AS price, slots.quantity AS quantity, slots.number AS slot").
		Joins("JOIN slots ON slots.product_serial = products.serial AND slots.machine_serial = ?", machine).
		Where("slots.quantity > 0").
		Order("slots.number").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products of machine %d: %w", machine, err)
	}

	total := 0
	for _, r := range rows {
		total += r.Quantity
	}
	return rows, total, nil
}

func fetchProduct(tx *gorm.DB, serial int64) error {
	var p model.Product
	if err := tx.First(&p, "serial = ?", serial).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to fetch product %d: %w", serial, err)
	}
	return nil
}
