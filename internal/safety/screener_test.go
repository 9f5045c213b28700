// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package safety_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpath-dev/clearpath/internal/oracle"
	"github.com/clearpath-dev/clearpath/internal/safety"
	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
	"github.com/clearpath-dev/clearpath/pkg/types"
)

// scriptedClient returns one canned response or error for every call.
type scriptedClient struct {
	response string
	err      error
	prompts  []string
}

func (c *scriptedClient) Complete(_ context.Context, prompt string, _ oracle.Profile) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func fastRetry() cperr.RetryConfig {
	return cperr.RetryConfig{MaxAttempts: 1, BaseDelay: time.Microsecond, BackoffMultiplier: 2}
}

func TestScreen_ModelPathNotTriggered(t *testing.T) {
	client := &scriptedClient{response: `{"safetyTrigger":false}`}
	screener := safety.NewScreener(client, fastRetry(), nil)

	result := screener.Screen(context.Background(), "should I take the new job?")
	assert.False(t, result.Triggered)
	assert.Nil(t, result.Resource)
}

func TestScreen_ModelPathTriggeredWithDetails(t *testing.T) {
	client := &scriptedClient{response: `{"safetyTrigger":true,"type":"self-harm","message":"I hear how much pain you're in."}`}
	screener := safety.NewScreener(client, fastRetry(), nil)

	result := screener.Screen(context.Background(), "some message")
	require.True(t, result.Triggered)
	require.NotNil(t, result.Resource)
	assert.Equal(t, types.CategorySelfHarm, result.Resource.Category)
	assert.Equal(t, "I hear how much pain you're in.", result.Resource.Message)
}

func TestScreen_ModelPathTriggeredDefaults(t *testing.T) {
	// Category and message absent: defaults kick in.
	client := &scriptedClient{response: `{"safetyTrigger":true}`}
	screener := safety.NewScreener(client, fastRetry(), nil)

	result := screener.Screen(context.Background(), "some message")
	require.True(t, result.Triggered)
	require.NotNil(t, result.Resource)
	assert.Equal(t, types.CategoryGeneral, result.Resource.Category)
	assert.NotEmpty(t, result.Resource.Message)
}

func TestScreen_UnknownCategoryBecomesGeneral(t *testing.T) {
	client := &scriptedClient{response: `{"safetyTrigger":true,"type":"something-else"}`}
	screener := safety.NewScreener(client, fastRetry(), nil)

	result := screener.Screen(context.Background(), "some message")
	require.True(t, result.Triggered)
	assert.Equal(t, types.CategoryGeneral, result.Resource.Category)
}

func TestScreen_KeywordFallbackOnModelFailure(t *testing.T) {
	client := &scriptedClient{err: cperr.New(cperr.KindNetwork, "connection refused")}
	screener := safety.NewScreener(client, fastRetry(), nil)

	t.Run("keyword match triggers", func(t *testing.T) {
		result := screener.Screen(context.Background(), "I keep thinking about suicide")
		require.True(t, result.Triggered)
		require.NotNil(t, result.Resource)
		assert.Equal(t, types.CategoryGeneral, result.Resource.Category)
		assert.NotEmpty(t, result.Resource.Message)
	})

	t.Run("no keyword no trigger", func(t *testing.T) {
		result := screener.Screen(context.Background(), "let's get coffee tomorrow")
		assert.False(t, result.Triggered)
	})
}

func TestScreen_ModelPathDisabled(t *testing.T) {
	screener := safety.NewScreener(nil, fastRetry(), nil)

	result := screener.Screen(context.Background(), "contains suicide somewhere")
	require.True(t, result.Triggered)
	assert.Equal(t, types.CategoryGeneral, result.Resource.Category)

	result = screener.Screen(context.Background(), "let's get coffee tomorrow")
	assert.False(t, result.Triggered)
}

func TestScreen_KeywordMatchIsCaseInsensitive(t *testing.T) {
	screener := safety.NewScreener(nil, fastRetry(), nil)

	result := screener.Screen(context.Background(), "NOT WORTH LIVING")
	assert.True(t, result.Triggered)
}

func TestScreen_CustomKeywords(t *testing.T) {
	screener := safety.NewScreener(nil, fastRetry(), []string{"custom-term"})

	assert.True(t, screener.Screen(context.Background(), "about custom-term here").Triggered)
	assert.False(t, screener.Screen(context.Background(), "I keep thinking about suicide").Triggered,
		"override replaces the default list")
}

func TestScreen_MalformedModelResponseFallsBack(t *testing.T) {
	client := &scriptedClient{response: "not json"}
	screener := safety.NewScreener(client, fastRetry(), nil)

	result := screener.Screen(context.Background(), "I want to hurt myself")
	assert.True(t, result.Triggered)
}
