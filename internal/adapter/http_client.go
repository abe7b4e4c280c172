// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-anki-bridge/internal/logger"
	"github.com/MKhiriev/go-anki-bridge/models"
)

// hostKeyHeader carries the sync credential on every request.
const hostKeyHeader = "X-Host-Key"

type httpSyncServer struct {
	client *resty.Client
	logger *logger.Logger
}

// NewHTTPSyncServer constructs an HTTP implementation of [SyncServer].
//
// The base URL and timeout are taken per call from [models.SyncAuth], not
// at construction time, because a sticky redirect may change the
// effective endpoint mid-process.
func NewHTTPSyncServer(log *logger.Logger) SyncServer {
	return &httpSyncServer{
		client: resty.New(),
		logger: log,
	}
}

// NormalizeEndpoint validates and canonicalises a sync endpoint URL.
// A bare host:port gets an http:// scheme; the result never ends in "/".
func NormalizeEndpoint(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty endpoint")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("endpoint must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpSyncServer) request(ctx context.Context, auth models.SyncAuth) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetHeader(hostKeyHeader, auth.HostKey)
}

// Meta implements [SyncServer].
func (h *httpSyncServer) Meta(ctx context.Context, auth models.SyncAuth, client models.ClientMeta) (models.ServerMeta, error) {
	h.client.SetTimeout(auth.IOTimeout)

	resp, err := h.request(ctx, auth).
		SetHeader("Content-Type", "application/json").
		SetBody(client).
		Post(auth.Endpoint + "/sync/meta")
	if err != nil {
		return models.ServerMeta{}, fmt.Errorf("meta request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ServerMeta{}, err
	}

	var meta models.ServerMeta
	if err = json.Unmarshal(resp.Body(), &meta); err != nil {
		return models.ServerMeta{}, fmt.Errorf("meta decode: %w", err)
	}

	return meta, nil
}

// ApplyChanges implements [SyncServer].
func (h *httpSyncServer) ApplyChanges(ctx context.Context, auth models.SyncAuth, changes models.ChangeSet) (models.ChangeSet, error) {
	h.client.SetTimeout(auth.IOTimeout)

	resp, err := h.request(ctx, auth).
		SetHeader("Content-Type", "application/json").
		SetBody(changes).
		Post(auth.Endpoint + "/sync/changes")
	if err != nil {
		return models.ChangeSet{}, fmt.Errorf("apply changes request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ChangeSet{}, err
	}

	var serverChanges models.ChangeSet
	if err = json.Unmarshal(resp.Body(), &serverChanges); err != nil {
		return models.ChangeSet{}, fmt.Errorf("apply changes decode: %w", err)
	}

	return serverChanges, nil
}

// Upload implements [SyncServer].
func (h *httpSyncServer) Upload(ctx context.Context, auth models.SyncAuth, serverUSN int64, payload []byte) error {
	h.client.SetTimeout(auth.IOTimeout)

	resp, err := h.request(ctx, auth).
		SetHeader("Content-Type", "application/octet-stream").
		SetQueryParam("usn", strconv.FormatInt(serverUSN, 10)).
		SetBody(payload).
		Post(auth.Endpoint + "/sync/upload")
	if err != nil {
		return fmt.Errorf("upload request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	h.logger.Info().Int("bytes", len(payload)).Msg("collection uploaded")
	return nil
}

// Download implements [SyncServer].
func (h *httpSyncServer) Download(ctx context.Context, auth models.SyncAuth, serverUSN int64) ([]byte, error) {
	h.client.SetTimeout(auth.IOTimeout)

	resp, err := h.request(ctx, auth).
		SetQueryParam("usn", strconv.FormatInt(serverUSN, 10)).
		Get(auth.Endpoint + "/sync/download")
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	h.logger.Info().Int("bytes", len(resp.Body())).Msg("collection downloaded")
	return resp.Body(), nil
}

// mapHTTPError translates a non-2xx reply into a sentinel error.
func mapHTTPError(resp *resty.Response) error {
	switch {
	case resp.IsSuccess():
		return nil
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode() >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrServerFailure, resp.StatusCode())
	default:
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode())
	}
}
