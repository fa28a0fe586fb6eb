package store

import (
	"context"
	"fmt"

	"vending-fleet-backend/internal/model"
)

// TotalRevenue sums the sale amounts of a machine. A machine with no sales
// yields 0, not an error.
func (s *gormStore) TotalRevenue(ctx context.Context, machine int64) (float64, error) {
	var total float64
	if err := s.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("machine_serial = ?", machine).
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum revenue of machine %d: %w", machine, err)
	}
	return total, nil
}

// ExtremalRevenue groups all sales by machine and returns the machine with
// the highest or lowest total. Ties are broken deterministically: the lowest
// machine serial wins. ErrNoSalesData signals an empty sales log.
func (s *gormStore) ExtremalRevenue(ctx context.Context, direction RevenueDirection) (*MachineRevenue, error) {
	order := "total DESC, machine_serial ASC"
	switch direction {
	case RevenueHighest:
	case RevenueLowest:
		order = "total ASC, machine_serial ASC"
	default:
		return nil, fmt.Errorf("%w: unknown revenue direction %q", ErrInvalidInput, direction)
	}

	type revenueRow struct {
		MachineSerial int64
		Total         float64
	}
	var rows []revenueRow
	if err := s.db.WithContext(ctx).Model(&model.Sale{}).
		Select("machine_serial AS machine_serial, SUM(amount) AS total").
		Group("machine_serial").
		Order(order).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to rank machine revenue: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoSalesData
	}
	return &MachineRevenue{MachineSerial: rows[0].MachineSerial, Amount: rows[0].Total}, nil
}
