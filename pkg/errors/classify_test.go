// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package errors_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"

	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_TaggedKindWins(t *testing.T) {
	// Message mentions "json" but the explicit tag takes priority.
	err := cperr.New(cperr.KindAPI, "backend rejected json body")
	assert.Equal(t, cperr.KindAPI, cperr.Classify(err))
}

func TestClassify_Network(t *testing.T) {
	assert.Equal(t, cperr.KindNetwork, cperr.Classify(stderrors.New("dial tcp: connection refused")))
	assert.Equal(t, cperr.KindNetwork, cperr.Classify(stderrors.New("Network is unreachable")))
	assert.Equal(t, cperr.KindNetwork, cperr.Classify(stderrors.New("lookup example.com: no such host")))
}

func TestClassify_Timeout(t *testing.T) {
	assert.Equal(t, cperr.KindTimeout, cperr.Classify(context.DeadlineExceeded))
	assert.Equal(t, cperr.KindTimeout, cperr.Classify(fmt.Errorf("completing: %w", context.DeadlineExceeded)))
	assert.Equal(t, cperr.KindTimeout, cperr.Classify(stderrors.New("request aborted")))
}

func TestClassify_API(t *testing.T) {
	assert.Equal(t, cperr.KindAPI, cperr.Classify(stderrors.New("HTTP 500: internal error")))
	assert.Equal(t, cperr.KindAPI, cperr.Classify(stderrors.New("quota exceeded")))
}

func TestClassify_Parse(t *testing.T) {
	var syntaxErr error = &json.SyntaxError{}
	assert.Equal(t, cperr.KindParse, cperr.Classify(syntaxErr))

	var target any
	err := json.Unmarshal([]byte("{not json"), &target)
	require.Error(t, err)
	assert.Equal(t, cperr.KindParse, cperr.Classify(err))
}

func TestClassify_Validation(t *testing.T) {
	assert.Equal(t, cperr.KindValidation, cperr.Classify(stderrors.New("validation failed: mood out of range")))
}

func TestClassify_Unknown(t *testing.T) {
	assert.Equal(t, cperr.KindUnknown, cperr.Classify(stderrors.New("weird state")))
	assert.Equal(t, cperr.KindUnknown, cperr.Classify(nil))
}

func TestClassify_PriorityOrder(t *testing.T) {
	// A message matching both network and api signals classifies as network.
	assert.Equal(t, cperr.KindNetwork, cperr.Classify(stderrors.New("api connection lost")))

	// A message matching both timeout and parse signals classifies as timeout.
	assert.Equal(t, cperr.KindTimeout, cperr.Classify(stderrors.New("json fetch timed out")))
}
