// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-anki-bridge/internal/store"
	"github.com/MKhiriev/go-anki-bridge/models"
)

// fakeCollection is a hand-rolled store.Collection spy. Every method
// counts its calls; behaviour is overridden per test via the function
// fields, with harmless defaults otherwise.
type fakeCollection struct {
	mu sync.Mutex

	mod    int64
	modErr error

	closeCalls            int
	closeForFullSyncCalls int
	reopenCalls           int
	reopenErr             error
	syncCalls             int
	transferCalls         int
	fixIntegrityCalls     int

	syncFn     func(ctx context.Context, auth models.SyncAuth, wantMedia bool) (models.SyncStatus, error)
	transferFn func(ctx context.Context, auth models.SyncAuth, serverUSN int64, upload bool) error
	fixFn      func(ctx context.Context) (string, bool, error)

	lastAuth models.SyncAuth
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{mod: 1}
}

// bump simulates a content mutation from inside a guarded op.
func (f *fakeCollection) bump() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mod++
}

func (f *fakeCollection) Path() string { return "fake.collection" }

func (f *fakeCollection) Mod(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.modErr != nil {
		return 0, f.modErr
	}
	return f.mod, nil
}

func (f *fakeCollection) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls++
	return nil
}

func (f *fakeCollection) CloseForFullSync() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeForFullSyncCalls++
	return nil
}

func (f *fakeCollection) Reopen(context.Context, bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reopenCalls++
	return f.reopenErr
}

func (f *fakeCollection) SyncCollection(ctx context.Context, auth models.SyncAuth, wantMedia bool) (models.SyncStatus, error) {
	f.mu.Lock()
	f.syncCalls++
	f.lastAuth = auth
	fn := f.syncFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, auth, wantMedia)
	}
	return models.SyncStatus{Required: models.SyncNoChanges}, nil
}

func (f *fakeCollection) FullUploadOrDownload(ctx context.Context, auth models.SyncAuth, serverUSN int64, upload bool) error {
	f.mu.Lock()
	f.transferCalls++
	fn := f.transferFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, auth, serverUSN, upload)
	}
	return nil
}

func (f *fakeCollection) FixIntegrity(ctx context.Context) (string, bool, error) {
	f.mu.Lock()
	f.fixIntegrityCalls++
	fn := f.fixFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return "", true, nil
}

func (f *fakeCollection) DeckNames(context.Context) ([]string, error) {
	return []string{"Default"}, nil
}

func (f *fakeCollection) DeckNamesAndIDs(context.Context) (map[string]int64, error) {
	return map[string]int64{"Default": 1}, nil
}

func (f *fakeCollection) CreateDeck(context.Context, string) (int64, error) {
	f.bump()
	return 2, nil
}

func (f *fakeCollection) DeleteDecks(context.Context, []string) error {
	f.bump()
	return nil
}

func (f *fakeCollection) AddNote(context.Context, string, []string, []string) (int64, error) {
	f.bump()
	return 10, nil
}

func (f *fakeCollection) FindNotes(context.Context, store.NoteQuery) ([]int64, error) {
	return []int64{10}, nil
}

func (f *fakeCollection) NotesInfo(context.Context, []int64) ([]models.NoteInfo, error) {
	return nil, nil
}

func (f *fakeCollection) UpdateNoteFields(context.Context, int64, []string) error {
	f.bump()
	return nil
}

func (f *fakeCollection) DeleteNotes(context.Context, []int64) error {
	f.bump()
	return nil
}

func (f *fakeCollection) DeckCounts(context.Context) ([]models.DeckCounts, error) {
	return nil, nil
}

// ─────────────────────────────────────────────
// manual clock
// ─────────────────────────────────────────────

type fakeTimer struct {
	clock   *fakeClock
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasLive := !t.stopped && !t.fired
	t.stopped = true
	return wasLive
}

// fakeClock is a manually advanced Clock. Timers fire synchronously
// inside advance, in due order, on the caller's goroutine.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{}
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, due: c.now + d, seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// advance moves the clock forward, firing every due live timer in due
// order. The clock steps to each timer's deadline before invoking its
// callback, so a callback that re-arms (the periodic chain) keeps firing
// within a single advance.
func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		next := c.takeDue(target)
		if next == nil {
			break
		}
		next.fn()
	}

	c.mu.Lock()
	c.now = target
	c.mu.Unlock()
}

func (c *fakeClock) takeDue(target time.Duration) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var candidates []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.due <= target {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].due != candidates[j].due {
			return candidates[i].due < candidates[j].due
		}
		return candidates[i].seq < candidates[j].seq
	})

	next := candidates[0]
	next.fired = true
	if next.due > c.now {
		c.now = next.due
	}
	return next
}

// live reports how many timers are armed and not yet fired or stopped.
func (c *fakeClock) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
