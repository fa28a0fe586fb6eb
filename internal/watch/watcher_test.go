package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vending-fleet-backend/config"
	"vending-fleet-backend/internal/model"
	"vending-fleet-backend/internal/notify"
	"vending-fleet-backend/internal/store"
)

// recordingDispatcher captures dispatched events instead of pushing them.
type recordingDispatcher struct {
	events []notify.Event
}

func (r *recordingDispatcher) Dispatch(event notify.Event) {
	r.events = append(r.events, event)
}

func newWatchStore(t *testing.T) store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Machine{},
		&model.Slot{},
		&model.Product{},
		&model.Sale{},
		&model.RefillRequest{},
		&model.Incident{},
	))

	return store.NewGormStore(db, store.Defaults{})
}

func TestScanOnce(t *testing.T) {
	ctx := context.Background()
	s := newWatchStore(t)

	// Machine 1 sits at 5% of capacity, machine 2 at 50%.
	require.NoError(t, s.CreateMachine(ctx, 1, "Lobby", ""))
	require.NoError(t, s.CreateMachine(ctx, 2, "Station", ""))
	require.NoError(t, s.CreateProduct(ctx, 7, "Soles", 15.5))
	_, err := s.Restock(ctx, 1, 7, 1, 10)
	require.NoError(t, err)
	_, err = s.Restock(ctx, 1, 7, 2, 5)
	require.NoError(t, err)
	for slot := 1; slot <= 15; slot++ {
		_, err = s.Restock(ctx, 2, 7, slot, 10)
		require.NoError(t, err)
	}

	cfg := &config.Config{}
	cfg.Watcher.Enabled = true
	cfg.Watcher.TriggerPercent = 20
	cfg.Watcher.Cooldown = time.Hour

	dispatcher := &recordingDispatcher{}
	svc := NewService(cfg, s, dispatcher)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	t.Run("low machine gets a refill request and a notification", func(t *testing.T) {
		svc.ScanOnce(ctx)

		requests, err := s.ListRefillRequests(ctx)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, int64(1), requests[0].MachineSerial)
		assert.Equal(t, 5, requests[0].RemainingPercent)
		assert.Equal(t, model.RefillSourceWatcher, requests[0].Source)

		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, int64(1), dispatcher.events[0].MachineSerial)
	})

	t.Run("cooldown suppresses repeat requests", func(t *testing.T) {
		svc.now = func() time.Time { return base.Add(30 * time.Minute) }
		svc.ScanOnce(ctx)

		requests, err := s.ListRefillRequests(ctx)
		require.NoError(t, err)
		assert.Len(t, requests, 1)
	})

	t.Run("a second request is filed once the cooldown lapses", func(t *testing.T) {
		svc.now = func() time.Time { return base.Add(2 * time.Hour) }
		svc.ScanOnce(ctx)

		requests, err := s.ListRefillRequests(ctx)
		require.NoError(t, err)
		assert.Len(t, requests, 2)
	})
}
