// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

// Package types holds the domain vocabulary shared across the conversation
// core: transcript turns, session phases, mood levels, and safety resources.
package types

// Speaker identifies who authored a transcript turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one utterance in the transcript. Immutable once appended.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Phase is the coarse state of a session.
type Phase string

const (
	// PhaseInitial is the assessment screen: the user describes their
	// situation and mood. The transcript is empty in this phase.
	PhaseInitial Phase = "initial"

	// PhaseConversation is the multi-turn dialogue, optionally overlaid
	// with a verdict.
	PhaseConversation Phase = "conversation"
)

// DefaultMood is the mood level a fresh session starts with.
const DefaultMood = 3

// ValidMood reports whether m is within the 1..5 mood scale.
func ValidMood(m int) bool {
	return m >= 1 && m <= 5
}

// MoodLabel returns the human label for a mood level, or "" if out of range.
func MoodLabel(m int) string {
	switch m {
	case 1:
		return "Very low"
	case 2:
		return "Below average"
	case 3:
		return "Okay"
	case 4:
		return "Good"
	case 5:
		return "Great"
	}
	return ""
}

// SafetyCategory is the risk category of a triggered safety screen.
type SafetyCategory string

const (
	CategorySelfHarm   SafetyCategory = "self-harm"
	CategoryHarmOthers SafetyCategory = "harm-others"
	CategoryHarmAnimal SafetyCategory = "harm-animals"
	CategoryGeneral    SafetyCategory = "general"
)

// KnownCategory reports whether c is one of the defined safety categories.
func KnownCategory(c SafetyCategory) bool {
	switch c {
	case CategorySelfHarm, CategoryHarmOthers, CategoryHarmAnimal, CategoryGeneral:
		return true
	}
	return false
}

// SafetyResource is the supportive payload shown when a screen triggers.
type SafetyResource struct {
	Category SafetyCategory `json:"category"`
	Message  string         `json:"message"`
}

// CrisisResource is one entry in the fixed crisis hotline table.
type CrisisResource struct {
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	Availability string `json:"availability"`
}

// CrisisResources returns the fixed table of crisis contacts surfaced
// alongside every triggered safety state.
func CrisisResources() []CrisisResource {
	return []CrisisResource{
		{
			Name:         "National Suicide Prevention Lifeline",
			Contact:      "Call or text 988",
			Availability: "Available 24/7",
		},
		{
			Name:         "Crisis Text Line",
			Contact:      "Text HOME to 741741",
			Availability: "24/7",
		},
		{
			Name:         "Emergency Services",
			Contact:      "Call 911",
			Availability: "For immediate help",
		},
	}
}
