package watch

import (
	"context"
	"fmt"
	"log"
	"time"

	"vending-fleet-backend/config"
	"vending-fleet-backend/internal/model"
	"vending-fleet-backend/internal/notify"
	"vending-fleet-backend/internal/store"
)

// Dispatcher queues an operator notification. *notify.WorkerPool satisfies
// it; tests substitute a recorder.
type Dispatcher interface {
	Dispatch(event notify.Event)
}

// Service periodically scans the fleet's fill levels, files refill requests
// for machines at or below the configured trigger percentage, and notifies
// subscribed operators.
type Service struct {
	cfg   *config.Config
	store store.Store
	pool  Dispatcher

	// lastFiled tracks when a refill request was last filed per machine, so
	// a machine that stays low is not reported every cycle. Restarting the
	// process resets the cooldown; the next scan may file one extra request,
	// which is harmless for an advisory record.
	lastFiled map[int64]time.Time
	now       func() time.Time
}

// NewService creates a new watcher service.
func NewService(cfg *config.Config, s store.Store, pool Dispatcher) *Service {
	return &Service{
		cfg:       cfg,
		store:     s,
		pool:      pool,
		lastFiled: make(map[int64]time.Time),
		now:       time.Now,
	}
}

// Run starts the scan loop and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Watcher.Enabled {
		log.Println("Low-stock watcher is disabled. Not starting.")
		return
	}
	log.Println("Starting low-stock watcher...")

	s.ScanOnce(ctx)

	timer := time.NewTimer(s.cfg.Watcher.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Low-stock watcher shutting down.")
			return
		case <-timer.C:
			s.ScanOnce(ctx)
			timer.Reset(s.cfg.Watcher.Interval)
		}
	}
}

// ScanOnce performs a single fill-level scan.
func (s *Service) ScanOnce(ctx context.Context) {
	fills, err := s.store.MachineFillLevels(ctx)
	if err != nil {
		log.Printf("Error scanning fill levels: %v", err)
		return
	}

	now := s.now().UTC()
	for _, fill := range fills {
		if fill.Percent > s.cfg.Watcher.TriggerPercent {
			continue
		}
		if last, ok := s.lastFiled[fill.MachineSerial]; ok && now.Sub(last) < s.cfg.Watcher.Cooldown {
			continue
		}

		if _, err := s.store.RequestRefill(ctx, fill.MachineSerial, fill.Percent, now, model.RefillSourceWatcher); err != nil {
			log.Printf("Error filing refill request for machine %d: %v", fill.MachineSerial, err)
			continue
		}
		s.lastFiled[fill.MachineSerial] = now
		log.Printf("Filed refill request for machine %d (%d%% remaining)", fill.MachineSerial, fill.Percent)

		if s.pool != nil {
			s.pool.Dispatch(notify.Event{
				MachineSerial: fill.MachineSerial,
				Message:       fmt.Sprintf("Machine %d is low on stock (%d%% remaining)", fill.MachineSerial, fill.Percent),
			})
		}
	}
}
