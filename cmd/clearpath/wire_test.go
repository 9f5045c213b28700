// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpath-dev/clearpath/internal/config"
	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
)

func testConfig() *config.Config {
	return &config.Config{
		Networking: config.NetworkingConfig{Listen: "127.0.0.1:8321"},
		Model: config.ModelConfig{
			Name:           "gemini-2.5-flash",
			TimeoutSeconds: 30,
		},
		Retry: config.RetryConfig{
			MaxAttempts:       3,
			BaseDelayMS:       1000,
			BackoffMultiplier: 2,
		},
	}
}

func TestBuildController_MissingAPIKey(t *testing.T) {
	cfg := testConfig()

	_, err := buildController(cfg, newMemStore())
	require.Error(t, err)
	assert.Equal(t, cperr.KindValidation, cperr.KindOf(err))
	assert.Contains(t, err.Error(), "clearpath init")
}

func TestBuildController_UnresolvableKeyringURI(t *testing.T) {
	cfg := testConfig()
	cfg.Model.APIKey = "keyring://clearpath/gemini-api-key"

	_, err := buildController(cfg, newMemStore())
	require.Error(t, err)
	assert.Equal(t, cperr.KindValidation, cperr.KindOf(err))
}

func TestBuildController_LiteralKey(t *testing.T) {
	cfg := testConfig()
	cfg.Model.APIKey = "AIzaSyLiteral"

	ctrl, err := buildController(cfg, newMemStore())
	require.NoError(t, err)
	assert.NotNil(t, ctrl)
}

func TestBuildController_KeyFromKeyring(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Store("clearpath", "gemini-api-key", "AIzaSyStored"))

	cfg := testConfig()
	cfg.Model.APIKey = "keyring://clearpath/gemini-api-key"

	ctrl, err := buildController(cfg, store)
	require.NoError(t, err)
	assert.NotNil(t, ctrl)
}
