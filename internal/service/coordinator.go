// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MKhiriev/go-anki-bridge/internal/adapter"
	"github.com/MKhiriev/go-anki-bridge/internal/config"
	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/internal/store"
	"github.com/MKhiriev/go-anki-bridge/models"
)

// Coordinator drives the sync state machine against the remote endpoint.
//
// Its methods with the Locked suffix assume the caller already holds the
// serializer lock; every store interaction must happen under it. The
// only state the Coordinator guards itself is the sticky endpoint.
type Coordinator struct {
	col    store.Collection
	cfg    config.Sync
	logger *logger.Logger

	// endpoint is the effective sync endpoint. A server redirect replaces
	// it for the rest of the process lifetime.
	epMu     sync.Mutex
	endpoint string
}

// NewCoordinator constructs a Coordinator. The configured endpoint is
// the starting effective endpoint; redirects received during
// negotiation supersede it.
func NewCoordinator(col store.Collection, cfg config.Sync, log *logger.Logger) *Coordinator {
	return &Coordinator{
		col:      col,
		cfg:      cfg,
		logger:   log,
		endpoint: cfg.Endpoint,
	}
}

// auth assembles the per-call credentials, failing fast when no host key
// is configured. Endpoint normalization happens here so a raw host:port
// from config or a redirect still yields a usable base URL.
func (c *Coordinator) auth() (models.SyncAuth, error) {
	if strings.TrimSpace(c.cfg.HostKey) == "" {
		return models.SyncAuth{}, ErrSyncKeyNotConfigured
	}

	c.epMu.Lock()
	raw := c.endpoint
	c.epMu.Unlock()

	endpoint, err := adapter.NormalizeEndpoint(raw)
	if err != nil {
		return models.SyncAuth{}, fmt.Errorf("sync endpoint: %w", err)
	}

	return models.SyncAuth{
		HostKey:   c.cfg.HostKey,
		Endpoint:  endpoint,
		IOTimeout: c.cfg.IOTimeout,
	}, nil
}

// negotiate runs one sync negotiation round trip and applies its side
// effects: the sticky redirect and the operator-facing server message.
//
// A missing key or bad endpoint comes back unwrapped; every failure
// past that point is a *SyncError.
func (c *Coordinator) negotiate(ctx context.Context) (models.SyncStatus, error) {
	auth, err := c.auth()
	if err != nil {
		return models.SyncStatus{}, err
	}

	status, err := c.col.SyncCollection(ctx, auth, c.cfg.Media)
	if err != nil {
		return models.SyncStatus{}, &SyncError{Op: "negotiate", Err: err}
	}

	if status.NewEndpoint != "" {
		c.epMu.Lock()
		c.endpoint = status.NewEndpoint
		c.epMu.Unlock()
		c.logger.Info().Str("endpoint", status.NewEndpoint).Msg("sync endpoint redirected")
	}
	if status.ServerMessage != "" {
		c.logger.Info().Str("func", "Coordinator.negotiate").Msg(status.ServerMessage)
	}

	return status, nil
}

// syncLocked performs one incremental sync attempt. Caller holds the
// serializer lock.
//
// Network and protocol failures are logged and swallowed so a flaky
// endpoint never breaks API callers; what propagates is actionable by
// the caller alone: a missing credential, a bad endpoint, or the demand
// for an explicit full sync.
func (c *Coordinator) syncLocked(ctx context.Context) error {
	status, err := c.negotiate(ctx)
	if err != nil {
		var syncErr *SyncError
		if errors.As(err, &syncErr) {
			c.logger.Error().Err(err).Str("func", "Coordinator.syncLocked").Msg("sync attempt failed")
			return nil
		}
		return err
	}

	switch status.Required {
	case models.SyncNoChanges:
		c.logger.Debug().Msg("collections already in sync")
	case models.SyncNormal:
		c.logger.Info().Msg("incremental sync complete")
	case models.SyncFullRequired:
		return fmt.Errorf("could not sync status %s - %w", status.Required, ErrFullSyncRequired)
	}

	return nil
}

// fullSyncLocked performs one wholesale transfer in the given direction.
// Caller holds the serializer lock.
//
// The mode is validated before any store or network interaction. The
// handle is closed for exactly the duration of the transfer and
// reopened exactly once whether the transfer succeeded or not.
func (c *Coordinator) fullSyncLocked(ctx context.Context, mode string) error {
	upload, err := parseFullSyncMode(mode)
	if err != nil {
		return err
	}

	status, err := c.negotiate(ctx)
	if err != nil {
		return err
	}

	// Re-read the auth: negotiate may have applied a redirect.
	auth, err := c.auth()
	if err != nil {
		return err
	}

	if err = c.col.CloseForFullSync(); err != nil {
		return &SyncError{Op: "close for full sync", Err: err}
	}
	defer func() {
		if reopenErr := c.col.Reopen(ctx, true); reopenErr != nil {
			c.logger.Error().Err(reopenErr).Str("func", "Coordinator.fullSyncLocked").Msg("reopen after full sync failed")
		}
	}()

	if err = c.col.FullUploadOrDownload(ctx, auth, status.ServerUSN, upload); err != nil {
		return &SyncError{Op: "transfer", Err: err}
	}

	c.logger.Info().Str("mode", mode).Msg("full sync complete")
	return nil
}

// checkDatabaseLocked runs the integrity routine and shapes its findings
// for API consumption. Caller holds the serializer lock. Findings never
// become errors; only operational failures do.
func (c *Coordinator) checkDatabaseLocked(ctx context.Context) (models.CheckDatabaseResult, error) {
	problems, ok, err := c.col.FixIntegrity(ctx)
	if err != nil {
		return models.CheckDatabaseResult{}, err
	}

	result := models.CheckDatabaseResult{OK: ok}
	for _, line := range strings.Split(problems, "\n") {
		if line == "" {
			continue
		}
		result.Problems = append(result.Problems, line)
		c.logger.Warn().Str("func", "Coordinator.checkDatabaseLocked").Msg(line)
	}

	return result, nil
}
