// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package oracle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpath-dev/clearpath/internal/oracle"
	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
)

func TestNewGemini_MissingAPIKey(t *testing.T) {
	_, err := oracle.NewGemini(oracle.GeminiConfig{})
	require.Error(t, err)
	assert.Equal(t, cperr.KindValidation, cperr.KindOf(err))
}

func TestNewGemini_Defaults(t *testing.T) {
	client, err := oracle.NewGemini(oracle.GeminiConfig{APIKey: "test-key"})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestDefaultGenerationOptions(t *testing.T) {
	opts := oracle.DefaultGenerationOptions()
	assert.Equal(t, float32(0.7), opts.Temperature)
	assert.Equal(t, float32(40), opts.TopK)
	assert.Equal(t, float32(0.9), opts.TopP)
	assert.Equal(t, int32(2048), opts.MaxOutputTokens)
}

func TestProfileThinkingBudgets(t *testing.T) {
	assert.Equal(t, int32(0), oracle.ThinkingBudget(oracle.ProfileFast))
	assert.Equal(t, int32(-1), oracle.ThinkingBudget(oracle.ProfileThinking))

	// Unrecognized profiles fall back to the fast budget.
	assert.Equal(t, int32(0), oracle.ThinkingBudget(oracle.Profile("other")))
}
