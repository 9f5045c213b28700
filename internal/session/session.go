// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

// Package session owns the conversation core: the state machine that
// sequences initial assessment, multi-turn dialogue and verdict generation,
// and the controller that interleaves safety screening with every
// user-originating action. Conversation data lives only in memory and is
// destroyed on reset.
package session

import (
	"github.com/clearpath-dev/clearpath/internal/oracle"
)

// Fixed fallback texts. Whenever the model pipeline fails, the user receives
// one of these instead of an error; the system must always keep conversing.
const (
	fallbackInitialReply = "That's a thoughtful question! Let me help you think through this decision.\n\n" +
		"Is there something specific about this situation that's making you feel uncertain, " +
		"or are you just trying to figure out the best approach?"

	fallbackTurnReply = "I'm here to support you through this decision. " +
		"Can you share more about how you're feeling about this situation?"

	// userFramingPrefix opens the first transcript turn.
	userFramingPrefix = "I'm trying to decide: "
)

// FallbackVerdict is the hand-authored verdict substituted when verdict
// generation fails. All four fields are non-empty by construction.
func FallbackVerdict() oracle.Verdict {
	return oracle.Verdict{
		Recommendation: "Trust yourself",
		Reasoning: "Whatever you decide right now is the right choice for you today. " +
			"Trust your instincts and be gentle with yourself.",
		Tips: "Remember that you can always change your mind later, " +
			"and it's okay to prioritize your mental health.",
		Reminder: "You know yourself best.",
	}
}
