// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/internal/store"
)

// Snapshot is the before/after pair of modification counter values
// captured around one guarded operation. It lives for exactly one call.
type Snapshot struct {
	Before int64
	After  int64
}

// Changed reports whether the guarded operation mutated the store. The
// comparison is the whole modification tracker: no attempt is made to
// infer what changed, only that something did.
func (s Snapshot) Changed() bool {
	return s.After != s.Before
}

// Serializer owns the single mutual-exclusion lock around the collection.
//
// Every store-touching call, API dispatch or background sync, executes
// only while holding it, so the whole system serializes to one logical
// thread of store access. No fairness beyond sync.Mutex is promised.
type Serializer struct {
	mu     sync.Mutex
	col    store.Collection
	logger *logger.Logger
}

// NewSerializer constructs a Serializer guarding col. Each service
// instance owns its own lock so independent instances never contend.
func NewSerializer(col store.Collection, log *logger.Logger) *Serializer {
	return &Serializer{
		col:    col,
		logger: log,
	}
}

// Guarded acquires the lock, captures the modification counter, invokes
// op, captures the counter again and releases the lock.
//
// The returned snapshot lets the caller decide whether to schedule a
// sync. Counter reads are meaningful only because they happen under the
// lock; if a read fails (e.g. the handle is transiently closed inside
// op) the snapshot reports "unchanged"; the periodic timer still covers
// any missed mutation.
func (s *Serializer) Guarded(ctx context.Context, op func()) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, beforeOK := s.readMod(ctx)

	op()

	after, afterOK := s.readMod(ctx)
	if !beforeOK || !afterOK {
		return Snapshot{}
	}

	return Snapshot{Before: before, After: after}
}

func (s *Serializer) readMod(ctx context.Context) (int64, bool) {
	mod, err := s.col.Mod(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "Serializer.readMod").Msg("modification counter unavailable")
		return 0, false
	}
	return mod, true
}
