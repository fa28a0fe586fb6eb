package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vending-fleet-backend/internal/model"
)

// ReportIncident records an operator-reported problem against a machine.
func (s *gormStore) ReportIncident(ctx context.Context, machine int64, description, reporter string) (int64, error) {
	var id int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := fetchMachine(tx, machine); err != nil {
			return err
		}
		incident := model.Incident{
			MachineSerial: machine,
			Description:   description,
			Reporter:      reporter,
			CreatedAt:     time.Now().UTC(),
		}
		if err := tx.Create(&incident).Error; err != nil {
			return fmt.Errorf("failed to record incident for machine %d: %w", machine, err)
		}
		id = incident.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteMachineIncidents removes every incident of a machine and returns
// how many were deleted. Zero is a valid, non-error result.
func (s *gormStore) DeleteMachineIncidents(ctx context.Context, machine int64) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := fetchMachine(tx, machine); err != nil {
			return err
		}
		res := tx.Where("machine_serial = ?", machine).Delete(&model.Incident{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete incidents of machine %d: %w", machine, res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// ListIncidents returns every recorded incident, oldest first.
func (s *gormStore) ListIncidents(ctx context.Context) ([]model.Incident, error) {
	var incidents []model.Incident
	if err := s.db.WithContext(ctx).Order("id").Find(&incidents).Error; err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	return incidents, nil
}

// RequestRefill appends an advisory refill request. There is deliberately no
// machine-existence check: field reports may arrive before the machine is
// registered.
func (s *gormStore) RequestRefill(ctx context.Context, machine int64, remainingPercent int, reportedAt time.Time, source string) (int64, error) {
	if remainingPercent < 0 || remainingPercent > 100 {
		return 0, fmt.Errorf("%w: remaining percentage must be between 0 and 100", ErrInvalidInput)
	}
	if source == "" {
		source = model.RefillSourceOperator
	}
	if reportedAt.IsZero() {
		reportedAt = time.Now().UTC()
	}

	request := model.RefillRequest{
		MachineSerial:    machine,
		RemainingPercent: remainingPercent,
		Source:           source,
		ReportedAt:       reportedAt,
	}
	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		return 0, fmt.Errorf("failed to record refill request for machine %d: %w", machine, err)
	}
	return request.ID, nil
}

// ListRefillRequests returns every refill request, oldest first.
func (s *gormStore) ListRefillRequests(ctx context.Context) ([]model.RefillRequest, error) {
	var requests []model.RefillRequest
	if err := s.db.WithContext(ctx).Order("id").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list refill requests: %w", err)
	}
	return requests, nil
}
