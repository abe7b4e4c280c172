// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/go-anki-bridge/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerAuth_DisabledWithoutSignKey(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := do(t, router, http.MethodPost, "/", `{"action":"version","version":6}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	cfg := testConfig()
	cfg.App.TokenSignKey = "sign-key"
	router := newTestRouter(t, cfg)

	rec := do(t, router, http.MethodPost, "/", `{"action":"version","version":6}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_InvalidToken(t *testing.T) {
	cfg := testConfig()
	cfg.App.TokenSignKey = "sign-key"
	router := newTestRouter(t, cfg)

	rec := do(t, router, http.MethodPost, "/", `{"action":"version","version":6}`, map[string]string{
		"Authorization": "Bearer not-a-token",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_WrongSignKey(t *testing.T) {
	cfg := testConfig()
	cfg.App.TokenSignKey = "sign-key"
	router := newTestRouter(t, cfg)

	token, err := utils.GenerateJWTToken(bridgeTokenIssuer, "client", time.Hour, "other-key")
	require.NoError(t, err)

	rec := do(t, router, http.MethodPost, "/", `{"action":"version","version":6}`, map[string]string{
		"Authorization": "Bearer " + token,
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_ValidToken(t *testing.T) {
	cfg := testConfig()
	cfg.App.TokenSignKey = "sign-key"
	router := newTestRouter(t, cfg)

	token, err := utils.GenerateJWTToken(bridgeTokenIssuer, "client", time.Hour, "sign-key")
	require.NoError(t, err)

	rec := do(t, router, http.MethodPost, "/", `{"action":"version","version":6}`, map[string]string{
		"Authorization": "Bearer " + token,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":6,"error":null}`, rec.Body.String())
}

func TestBearerAuth_HealthStaysOpen(t *testing.T) {
	cfg := testConfig()
	cfg.App.TokenSignKey = "sign-key"
	router := newTestRouter(t, cfg)

	rec := do(t, router, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}
