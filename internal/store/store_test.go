// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
	"testing"

	"github.com/MKhiriev/go-anki-bridge/internal/config"
	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/models"
	"github.com/stretchr/testify/require"
)

// stubSyncServer is a scriptable remote for store tests.
type stubSyncServer struct {
	mu sync.Mutex

	metaFn  func(models.ClientMeta) (models.ServerMeta, error)
	applyFn func(models.ChangeSet) (models.ChangeSet, error)

	metaCalls     int
	applyCalls    int
	uploadCalls   int
	downloadCalls int

	lastClientMeta models.ClientMeta
	lastPushed     models.ChangeSet
	uploadedBytes  []byte
	downloadBytes  []byte
}

func (s *stubSyncServer) Meta(_ context.Context, _ models.SyncAuth, client models.ClientMeta) (models.ServerMeta, error) {
	s.mu.Lock()
	s.metaCalls++
	s.lastClientMeta = client
	fn := s.metaFn
	s.mu.Unlock()

	if fn != nil {
		return fn(client)
	}
	// Default: echo the client so both sides look unchanged.
	return models.ServerMeta{Mod: client.LastSync, SCM: client.SCM, USN: client.USN}, nil
}

func (s *stubSyncServer) ApplyChanges(_ context.Context, _ models.SyncAuth, changes models.ChangeSet) (models.ChangeSet, error) {
	s.mu.Lock()
	s.applyCalls++
	s.lastPushed = changes
	fn := s.applyFn
	s.mu.Unlock()

	if fn != nil {
		return fn(changes)
	}
	return models.ChangeSet{}, nil
}

func (s *stubSyncServer) Upload(_ context.Context, _ models.SyncAuth, _ int64, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadCalls++
	s.uploadedBytes = payload
	return nil
}

func (s *stubSyncServer) Download(context.Context, models.SyncAuth, int64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloadCalls++
	return s.downloadBytes, nil
}

// openTestCollection creates a fresh collection in a temp dir.
func openTestCollection(t *testing.T) (Collection, *stubSyncServer) {
	t.Helper()

	remote := &stubSyncServer{}
	col, err := Open(context.Background(), config.Collection{
		BaseDir: t.TempDir(),
		Create:  true,
	}, remote, logger.Nop())
	require.NoError(t, err)

	t.Cleanup(func() { col.Close() })
	return col, remote
}

func testAuth() models.SyncAuth {
	return models.SyncAuth{HostKey: "key", Endpoint: "http://sync.local"}
}
