// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearpath-dev/clearpath/internal/oracle"
	"github.com/clearpath-dev/clearpath/internal/session"
	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
	"github.com/clearpath-dev/clearpath/pkg/types"
)

func TestRenderLatest_NewestReply(t *testing.T) {
	buf := new(bytes.Buffer)
	renderLatest(buf, session.Snapshot{
		Transcript: []types.Turn{
			{Speaker: types.SpeakerUser, Text: "I'm trying to decide: switch jobs"},
			{Speaker: types.SpeakerAssistant, Text: "What's pulling you toward the change?"},
			{Speaker: types.SpeakerUser, Text: "the pay"},
			{Speaker: types.SpeakerAssistant, Text: "Is pay the whole story?"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Is pay the whole story?")
	assert.NotContains(t, out, "What's pulling you toward the change?")
	assert.NotContains(t, out, "the pay")
}

func TestRenderLatest_ErrorBanner(t *testing.T) {
	buf := new(bytes.Buffer)
	renderLatest(buf, session.Snapshot{
		LastError: cperr.Describe(cperr.New(cperr.KindNetwork, "dial tcp: connection refused")),
		CanRetry:  true,
	})

	out := buf.String()
	assert.Contains(t, out, "Connection issue detected")
	assert.Contains(t, out, "/retry")
	assert.NotContains(t, out, "dial tcp", "raw error text never reaches the user")
}

func TestRenderLatest_SafetyBanner(t *testing.T) {
	buf := new(bytes.Buffer)
	renderLatest(buf, session.Snapshot{
		Safety: session.SafetyState{
			Triggered: true,
			Resource: &types.SafetyResource{
				Category: types.CategoryGeneral,
				Message:  "I'm concerned about what you've shared.",
			},
			Resources: types.CrisisResources(),
		},
		Transcript: []types.Turn{
			{Speaker: types.SpeakerAssistant, Text: "earlier reply"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "I'm concerned about what you've shared.")
	assert.Contains(t, out, "988")
	assert.NotContains(t, out, "earlier reply", "safety banner replaces the reply")
}

func TestRenderVerdict(t *testing.T) {
	buf := new(bytes.Buffer)
	renderVerdict(buf, session.Snapshot{
		Verdict: &oracle.Verdict{
			Recommendation: "Take the new job",
			Reasoning:      "The conversation kept circling back to growth.",
			Tips:           "Negotiate the start date.",
			Reminder:       "You can always course-correct.",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Take the new job")
	assert.Contains(t, out, "growth")
	assert.Contains(t, out, "Negotiate")
	assert.Contains(t, out, "course-correct")
}

func TestRenderVerdict_NilVerdict(t *testing.T) {
	buf := new(bytes.Buffer)
	renderVerdict(buf, session.Snapshot{})
	assert.Empty(t, buf.String())
}
