package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"vending-fleet-backend/internal/model"
)

// A slot holds at most one product at a time. Restocking an empty slot
// assigns the product to it; restocking a slot that currently holds a
// different product fails with ErrSlotOccupied. The capacity ceiling is
// enforced per physical slot.

// GetStock returns the aggregate stock of a product across a machine's
// slots. It fails with ErrMachineNotFound when the machine is absent and
// with ErrNotStocked when no slot of the machine holds the product.
func (s *gormStore) GetStock(ctx context.Context, machine, product int64) (int, error) {
	db := s.db.WithContext(ctx)
	if _, err := fetchMachine(db, machine); err != nil {
		return 0, err
	}

	total, rows, err := aggregateStock(db, machine, product)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, ErrNotStocked
	}
	return total, nil
}

// Restock adds quantity units of a product to one slot and returns the
// slot's new count. Restocking is permitted while the machine is off; that
// is physical servicing access, not sale access.
func (s *gormStore) Restock(ctx context.Context, machine, product int64, slot, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: restock quantity must be positive", ErrInvalidInput)
	}

	unlock := s.lockLedgerKey(machine, product)
	defer unlock()

	var newCount int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := fetchMachine(tx, machine); err != nil {
			return err
		}
		if err := fetchProduct(tx, product); err != nil {
			return err
		}

		var row model.Slot
		err := tx.First(&row, "machine_serial = ? AND number = ?", machine, slot).Error
		if err == gorm.ErrRecordNotFound {
			return ErrSlotNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to fetch slot %d of machine %d: %w", slot, machine, err)
		}

		if row.ProductSerial != nil && *row.ProductSerial != product && row.Quantity > 0 {
			return ErrSlotOccupied
		}
		if row.Quantity+quantity > row.Capacity {
			return fmt.Errorf("%w: slot %d holds %d of %d", ErrSlotFull, slot, row.Quantity, row.Capacity)
		}

		newCount = row.Quantity + quantity
		updates := map[string]any{
			"product_serial": product,
			"quantity":       newCount,
		}
		if err := tx.Model(&model.Slot{}).
			Where("machine_serial = ? AND number = ?", machine, slot).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to restock slot %d of machine %d: %w", slot, machine, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

// CheckLowStock reports the aggregate count for a (machine, product) pair
// and whether it is at or below the refill threshold. The threshold is
// inclusive: a count exactly at the threshold needs a refill.
func (s *gormStore) CheckLowStock(ctx context.Context, machine, product int64) (*LowStockStatus, error) {
	count, err := s.GetStock(ctx, machine, product)
	if err != nil {
		return nil, err
	}
	return &LowStockStatus{
		CurrentCount: count,
		NeedsRefill:  count <= s.defaults.LowStockThreshold,
	}, nil
}

// MachineFillLevels computes each machine's remaining stock relative to its
// total slot capacity. Machines with no slots are skipped.
func (s *gormStore) MachineFillLevels(ctx context.Context) ([]MachineFill, error) {
	type aggRow struct {
		MachineSerial int64
		Quantity      int
		Capacity      int
	}
	var aggs []aggRow
	if err := s.db.WithContext(ctx).Model(&model.Slot{}).
		Select("machine_serial AS machine_serial, COALESCE(SUM(quantity), 0) AS quantity, COALESCE(SUM(capacity), 0) AS capacity").
		Group("machine_serial").
		Scan(&aggs).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate fill levels: %w", err)
	}

	fills := make([]MachineFill, 0, len(aggs))
	for _, a := range aggs {
		if a.Capacity <= 0 {
			continue
		}
		fills = append(fills, MachineFill{
			MachineSerial: a.MachineSerial,
			Quantity:      a.Quantity,
			Capacity:      a.Capacity,
			Percent:       a.Quantity * 100 / a.Capacity,
		})
	}
	return fills, nil
}

// aggregateStock sums a product's stock across a machine's slots and
// reports how many slot rows hold the product.
func aggregateStock(tx *gorm.DB, machine, product int64) (int, int, error) {
	type stockAgg struct {
		Total    int
		SlotRows int
	}
	var agg stockAgg
	if err := tx.Model(&model.Slot{}).
		Select("COALESCE(SUM(quantity), 0) AS total, COUNT(*) AS slot_rows").
		Where("machine_serial = ? AND product_serial = ?", machine, product).
		Scan(&agg).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate stock of product %d in machine %d: %w", product, machine, err)
	}
	return agg.Total, agg.SlotRows, nil
}
