// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Snapshot
// ─────────────────────────────────────────────

func TestSnapshot_Changed(t *testing.T) {
	assert.False(t, Snapshot{Before: 5, After: 5}.Changed())
	assert.True(t, Snapshot{Before: 5, After: 6}.Changed())
	assert.False(t, Snapshot{}.Changed())
}

// ─────────────────────────────────────────────
// Guarded
// ─────────────────────────────────────────────

func TestSerializer_Guarded_UnchangedWhenOpReadsOnly(t *testing.T) {
	col := newFakeCollection()
	ser := NewSerializer(col, logger.Nop())

	snap := ser.Guarded(context.Background(), func() {})

	assert.False(t, snap.Changed())
	assert.Equal(t, snap.Before, snap.After)
}

func TestSerializer_Guarded_DetectsModification(t *testing.T) {
	col := newFakeCollection()
	ser := NewSerializer(col, logger.Nop())

	snap := ser.Guarded(context.Background(), func() {
		col.bump()
	})

	require.True(t, snap.Changed())
	assert.Equal(t, snap.Before+1, snap.After)
}

func TestSerializer_Guarded_ModReadFailureReportsUnchanged(t *testing.T) {
	col := newFakeCollection()
	col.modErr = errors.New("handle closed")
	ser := NewSerializer(col, logger.Nop())

	snap := ser.Guarded(context.Background(), func() {
		col.bump()
	})

	assert.False(t, snap.Changed())
}

func TestSerializer_Guarded_MutualExclusion(t *testing.T) {
	col := newFakeCollection()
	ser := NewSerializer(col, logger.Nop())

	const goroutines = 16
	const iterations = 50

	var inside int
	var maxInside int

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				ser.Guarded(context.Background(), func() {
					// The serializer lock is the only protection here:
					// any overlap makes maxInside exceed 1.
					inside++
					if inside > maxInside {
						maxInside = inside
					}
					inside--
				})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside)
}

func TestSerializer_Guarded_ReadAfterWriteIsVisible(t *testing.T) {
	col := newFakeCollection()
	ser := NewSerializer(col, logger.Nop())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ser.Guarded(context.Background(), func() {
				col.bump()
			})
		}()
	}
	wg.Wait()

	mod, err := col.Mod(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9), mod)
}
