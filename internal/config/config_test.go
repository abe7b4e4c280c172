// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// validation
// ─────────────────────────────────────────────

func validConfig() *StructuredConfig {
	cfg := defaults()
	cfg.Collection.BaseDir = "/tmp/anki-bridge"
	return cfg
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().validate())
}

func TestValidate_MissingBaseDir(t *testing.T) {
	cfg := validConfig()
	cfg.Collection.BaseDir = ""

	assert.ErrorIs(t, cfg.validate(), ErrInvalidCollectionConfigs)
}

func TestValidate_MissingHTTPAddress(t *testing.T) {
	cfg := validConfig()
	cfg.Server.HTTPAddress = ""

	assert.ErrorIs(t, cfg.validate(), ErrInvalidServerConfigs)
}

func TestValidate_NonPositiveDelays(t *testing.T) {
	cfg := validConfig()
	cfg.Sync.DebounceDelay = 0
	assert.ErrorIs(t, cfg.validate(), ErrInvalidSyncConfigs)

	cfg = validConfig()
	cfg.Sync.PeriodicDelay = -time.Minute
	assert.ErrorIs(t, cfg.validate(), ErrInvalidSyncConfigs)
}

func TestValidate_MissingSyncKeyIsAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Sync.HostKey = ""

	assert.NoError(t, cfg.validate(), "the bridge serves local requests without a sync credential")
}

// ─────────────────────────────────────────────
// defaults and merge priority
// ─────────────────────────────────────────────

func TestDefaults_Cadence(t *testing.T) {
	cfg := defaults()

	assert.Equal(t, 2*time.Second, cfg.Sync.DebounceDelay)
	assert.Equal(t, 30*time.Minute, cfg.Sync.PeriodicDelay)
	assert.Equal(t, 900*cfg.Sync.DebounceDelay, cfg.Sync.PeriodicDelay)
	assert.Equal(t, "127.0.0.1:8765", cfg.Server.HTTPAddress)
	assert.Equal(t, 6, cfg.App.APIVersion)
}

func TestBuilder_HigherPrioritySourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Sync: Sync{DebounceDelay: 5 * time.Second}, Collection: Collection{BaseDir: "/env"}},
		&StructuredConfig{Sync: Sync{DebounceDelay: 9 * time.Second, HostKey: "from-flags"}},
	)
	b = b.withDefaults()

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Sync.DebounceDelay, "earlier source is never overwritten")
	assert.Equal(t, "from-flags", cfg.Sync.HostKey, "unset fields fall through to later sources")
	assert.Equal(t, 30*time.Minute, cfg.Sync.PeriodicDelay, "defaults fill the rest")
	assert.Equal(t, "/env", cfg.Collection.BaseDir)
}

func TestBuilder_DefaultsAloneFailValidation(t *testing.T) {
	b := newConfigBuilder().withDefaults()

	_, err := b.build()

	assert.ErrorIs(t, err, ErrInvalidCollectionConfigs, "base dir has no default")
}

// ─────────────────────────────────────────────
// JSON source
// ─────────────────────────────────────────────

func TestParseJSON_DurationsAndFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"collection": {"base_dir": "/data/anki", "create": true},
		"server": {"http_address": "0.0.0.0:9999", "request_timeout": "45s"},
		"sync": {"host_key": "abc", "debounce_delay": "3s", "periodic_delay": "1h"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := parseJSON(path)

	require.NoError(t, err)
	assert.Equal(t, "/data/anki", cfg.Collection.BaseDir)
	assert.True(t, cfg.Collection.Create)
	assert.Equal(t, "0.0.0.0:9999", cfg.Server.HTTPAddress)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "abc", cfg.Sync.HostKey)
	assert.Equal(t, 3*time.Second, cfg.Sync.DebounceDelay)
	assert.Equal(t, time.Hour, cfg.Sync.PeriodicDelay)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "nope.json"))

	assert.Error(t, err)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration

	require.NoError(t, json.Unmarshal([]byte(`"90s"`), &d))
	assert.Equal(t, Duration(90*time.Second), d)

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, Duration(time.Second), d)

	assert.Error(t, json.Unmarshal([]byte(`"not-a-duration"`), &d))
}

// ─────────────────────────────────────────────
// env source
// ─────────────────────────────────────────────

func TestParseEnv_PrefixedVariables(t *testing.T) {
	t.Setenv("ANKI_BRIDGE_COLLECTION_BASE_DIR", "/env/anki")
	t.Setenv("ANKI_BRIDGE_SYNC_HOST_KEY", "env-key")
	t.Setenv("ANKI_BRIDGE_SYNC_DEBOUNCE_DELAY", "7s")
	t.Setenv("ANKI_BRIDGE_SERVER_CORS_ORIGINS", "http://a,http://b")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "/env/anki", cfg.Collection.BaseDir)
	assert.Equal(t, "env-key", cfg.Sync.HostKey)
	assert.Equal(t, 7*time.Second, cfg.Sync.DebounceDelay)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.CORSOrigins)
}
