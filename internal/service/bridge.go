// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-anki-bridge/internal/config"
	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/internal/store"
	"github.com/MKhiriev/go-anki-bridge/models"
)

// Bridge is the service facade: it serializes every store-touching call,
// dispatches API actions, and applies the trigger policy that keeps the
// background sync cadence honest.
type Bridge struct {
	ser     *Serializer
	sched   *Scheduler
	coord   *Coordinator
	actions *ActionService
	col     store.Collection
	logger  *logger.Logger
}

// NewBridge wires the full service graph over an open collection.
func NewBridge(col store.Collection, cfg *config.StructuredConfig, log *logger.Logger) *Bridge {
	coord := NewCoordinator(col, cfg.Sync, log)

	b := &Bridge{
		ser:     NewSerializer(col, log),
		coord:   coord,
		actions: NewActionService(col, coord, cfg.App.APIVersion, log),
		col:     col,
		logger:  log,
	}
	b.sched = NewSchedulerWithClock(cfg.Sync, b.backgroundSync, realClock{}, log)

	return b
}

// isSyncAction reports whether an action is an explicit sync request.
// Explicit syncs reset the timers instead of debouncing: the user just
// synced, so the next background sync starts from a full interval.
func isSyncAction(action string) bool {
	return action == "sync" || action == "fullSync"
}

// Handle executes one API request under the lock and applies the
// trigger policy afterwards:
//
//   - an explicit sync action cancels the pending debounce and restarts
//     the periodic timer, even when the sync itself failed;
//   - any other action that changed the store (re)arms the debounce
//     timer, coalescing bursts of modifications into one sync.
func (b *Bridge) Handle(ctx context.Context, req models.Request) models.Response {
	var resp models.Response
	snap := b.ser.Guarded(ctx, func() {
		resp = b.actions.Do(ctx, req)
	})

	switch {
	case isSyncAction(req.Action):
		b.sched.CancelDebounce()
		b.sched.RestartPeriodic()
	case snap.Changed():
		b.sched.ScheduleDebounce()
	}

	return resp
}

// Sync runs one incremental sync attempt under the lock and resets the
// timers, mirroring the explicit sync action.
func (b *Bridge) Sync(ctx context.Context) error {
	var err error
	b.ser.Guarded(ctx, func() {
		err = b.coord.syncLocked(ctx)
	})

	b.sched.CancelDebounce()
	b.sched.RestartPeriodic()
	return err
}

// FullSync runs one wholesale transfer under the lock and resets the
// timers. The mode is validated before the lock is even taken.
func (b *Bridge) FullSync(ctx context.Context, mode string) error {
	if _, err := parseFullSyncMode(mode); err != nil {
		return err
	}

	var err error
	b.ser.Guarded(ctx, func() {
		err = b.coord.fullSyncLocked(ctx, mode)
	})

	b.sched.CancelDebounce()
	b.sched.RestartPeriodic()
	return err
}

// CheckDatabase runs the integrity routine under the lock. Repairs bump
// the modification counter, so a repairing check debounces a sync like
// any other modification.
func (b *Bridge) CheckDatabase(ctx context.Context) (models.CheckDatabaseResult, error) {
	var (
		result models.CheckDatabaseResult
		err    error
	)
	snap := b.ser.Guarded(ctx, func() {
		result, err = b.coord.checkDatabaseLocked(ctx)
	})

	if snap.Changed() {
		b.sched.ScheduleDebounce()
	}
	return result, err
}

// backgroundSync is the timer callback: one guarded sync attempt that
// must never take the process down. Residual errors (missing key, full
// sync demanded) are logged; the periodic cadence keeps running either
// way.
func (b *Bridge) backgroundSync() {
	ctx := b.logger.WithContext(context.Background())

	b.logger.Debug().Msg("auto-syncing")

	var err error
	b.ser.Guarded(ctx, func() {
		err = b.coord.syncLocked(ctx)
	})
	if err != nil {
		b.logger.Warn().Err(err).Str("func", "Bridge.backgroundSync").Msg("background sync not performed")
	}
}

// StartPeriodic arms the periodic cadence. Call once at startup.
func (b *Bridge) StartPeriodic() {
	b.sched.RestartPeriodic()
}

// Close stops the scheduler, then closes the collection under the lock
// so no in-flight operation loses its handle.
func (b *Bridge) Close() error {
	b.sched.Stop()

	var err error
	b.ser.Guarded(context.Background(), func() {
		err = b.col.Close()
	})
	if err != nil {
		b.logger.Error().Err(err).Str("func", "Bridge.Close").Msg("closing collection failed")
	}
	return err
}
