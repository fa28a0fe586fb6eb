package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vending-fleet-backend/internal/model"
)

// Sell executes a sale as one atomic unit: the preconditions are checked,
// the sale record is appended, and the stock is decremented inside a single
// transaction held under the ledger key's single-writer lock. A caller never
// observes a sale without the matching decrement, or the other way around.
//
// Preconditions, each a distinct failure, checked in order: the machine
// exists, the machine is on, the aggregate stock covers the quantity, the
// product exists in the catalog for the price lookup.
func (s *gormStore) Sell(ctx context.Context, machine, product int64, quantity int) (*SaleResult, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: sale quantity must be at least 1", ErrInvalidInput)
	}

	unlock := s.lockLedgerKey(machine, product)
	defer unlock()

	var result SaleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := fetchMachine(tx, machine)
		if err != nil {
			return err
		}
		if m.State != model.MachineOn {
			return ErrMachineOff
		}

		var slots []model.Slot
		if err := tx.Where("machine_serial = ? AND product_serial = ?", machine, product).
			Order("number").Find(&slots).Error; err != nil {
			return fmt.Errorf("failed to fetch ledger rows for machine %d product %d: %w", machine, product, err)
		}
		total := 0
		for _, row := range slots {
			total += row.Quantity
		}
		if total < quantity {
			return ErrInsufficientStock
		}

		var p model.Product
		if err := tx.First(&p, "serial = ?", product).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to fetch product %d: %w", product, err)
		}

		// Drain slots in ascending slot order.
		remaining := quantity
		for _, row := range slots {
			if remaining == 0 {
				break
			}
			take := row.Quantity
			if take > remaining {
				take = remaining
			}
			if take == 0 {
				continue
			}
			if err := tx.Model(&model.Slot{}).
				Where("machine_serial = ? AND number = ?", machine, row.Number).
				Update("quantity", gorm.Expr("quantity - ?", take)).Error; err != nil {
				return fmt.Errorf("failed to decrement slot %d of machine %d: %w", row.Number, machine, err)
			}
			remaining -= take
		}

		sale := model.Sale{
			MachineSerial: machine,
			ProductSerial: product,
			Quantity:      quantity,
			Amount:        p.Price * float64(quantity),
			CreatedAt:     time.Now().UTC(),
		}
		if err := tx.Create(&sale).Error; err != nil {
			return fmt.Errorf("failed to record sale: %w", err)
		}

		result = SaleResult{
			SaleID:    sale.ID,
			Amount:    sale.Amount,
			Remaining: total - quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
