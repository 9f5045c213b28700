// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearpath-dev/clearpath/pkg/types"
)

func TestValidMood(t *testing.T) {
	for m := 1; m <= 5; m++ {
		assert.True(t, types.ValidMood(m), "mood %d", m)
	}
	assert.False(t, types.ValidMood(0))
	assert.False(t, types.ValidMood(6))
	assert.False(t, types.ValidMood(-1))
}

func TestMoodLabel(t *testing.T) {
	assert.Equal(t, "Very low", types.MoodLabel(1))
	assert.Equal(t, "Okay", types.MoodLabel(types.DefaultMood))
	assert.Equal(t, "Great", types.MoodLabel(5))
	assert.Empty(t, types.MoodLabel(0))
}

func TestKnownCategory(t *testing.T) {
	assert.True(t, types.KnownCategory(types.CategorySelfHarm))
	assert.True(t, types.KnownCategory(types.CategoryGeneral))
	assert.False(t, types.KnownCategory(types.SafetyCategory("other")))
	assert.False(t, types.KnownCategory(types.SafetyCategory("")))
}

func TestCrisisResources(t *testing.T) {
	resources := types.CrisisResources()
	assert.Len(t, resources, 3)
	for _, r := range resources {
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Contact)
		assert.NotEmpty(t, r.Availability)
	}
}
