// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-anki-bridge/internal/config"
	"github.com/MKhiriev/go-anki-bridge/internal/logger"
)

// TimerName identifies one of the scheduler's named timer slots. At most
// one live timer exists per name.
type TimerName string

const (
	// TimerDebounce is the short post-modification timer: re-arming it
	// coalesces bursts of writes into one sync.
	TimerDebounce TimerName = "debounce"

	// TimerPeriodic is the long self-renewing timer that syncs
	// unconditionally on its cadence.
	TimerPeriodic TimerName = "periodic"
)

// Timer is the cancellable handle armed by a [Clock].
type Timer interface {
	// Stop cancels the timer. Cancellation is advisory: a callback that
	// has already begun executing runs to completion.
	Stop() bool
}

// Clock arms callbacks after a delay. The production implementation
// wraps time.AfterFunc; tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Scheduler drives the background sync cadence with two named timers.
//
// Arming a name that already holds a live timer replaces it, so the
// debounce slot naturally coalesces and the periodic slot restarts from
// a full interval. The periodic timer re-arms itself after each fire.
// All methods are safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	clock   Clock
	timers  map[TimerName]Timer
	stopped bool

	debounceDelay time.Duration
	periodicDelay time.Duration
	runSync       func()
	logger        *logger.Logger
}

// NewScheduler constructs a Scheduler using the wall clock. runSync is
// invoked on a timer goroutine whenever a timer fires; it must do its
// own locking.
func NewScheduler(cfg config.Sync, runSync func(), log *logger.Logger) *Scheduler {
	return NewSchedulerWithClock(cfg, runSync, realClock{}, log)
}

// NewSchedulerWithClock is NewScheduler with an injectable clock.
func NewSchedulerWithClock(cfg config.Sync, runSync func(), clock Clock, log *logger.Logger) *Scheduler {
	return &Scheduler{
		clock:         clock,
		timers:        make(map[TimerName]Timer),
		debounceDelay: cfg.DebounceDelay,
		periodicDelay: cfg.PeriodicDelay,
		runSync:       runSync,
		logger:        log,
	}
}

// ScheduleDebounce (re)arms the debounce timer for a full debounce
// delay, replacing any pending one.
func (s *Scheduler) ScheduleDebounce() {
	s.arm(TimerDebounce, s.debounceDelay, func() {
		s.fire(TimerDebounce)
	})
}

// RestartPeriodic (re)arms the periodic timer for a full periodic delay,
// replacing any pending one. After the timer fires it re-arms itself, so
// one call keeps the cadence alive for the process lifetime.
func (s *Scheduler) RestartPeriodic() {
	s.arm(TimerPeriodic, s.periodicDelay, func() {
		s.fire(TimerPeriodic)
		s.RestartPeriodic()
	})
}

// CancelDebounce drops any pending debounce timer. A callback already in
// flight still completes.
func (s *Scheduler) CancelDebounce() {
	s.cancel(TimerDebounce)
}

// Stop cancels every pending timer and refuses all further arming.
// In-flight callbacks complete; nothing new starts.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for name, t := range s.timers {
		t.Stop()
		delete(s.timers, name)
	}
}

func (s *Scheduler) arm(name TimerName, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if prev, ok := s.timers[name]; ok {
		prev.Stop()
	}
	s.timers[name] = s.clock.AfterFunc(d, fn)
	s.logger.Debug().Str("timer", string(name)).Dur("delay", d).Msg("timer armed")
}

func (s *Scheduler) cancel(name TimerName) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[name]; ok {
		t.Stop()
		delete(s.timers, name)
	}
}

// fire clears the slot and invokes the sync callback. The slot is
// cleared first so the callback may re-arm its own name.
func (s *Scheduler) fire(name TimerName) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.timers, name)
	s.mu.Unlock()

	s.logger.Debug().Str("timer", string(name)).Msg("timer fired")
	s.runSync()
}
