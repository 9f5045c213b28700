// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

// Package prompt composes the four fixed prompt contracts sent to the model.
// The templates are product copy, not configuration: every one demands a
// strict JSON answer, which the oracle's fence stripping exists to enforce.
package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/clearpath-dev/clearpath/pkg/types"
)

// promptTurn is the wire shape the conversation templates embed turns as.
type promptTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// transcriptJSON renders the transcript as a JSON array of role/content
// pairs. Marshalling a slice of plain strings cannot fail; errors are
// impossible here and deliberately not surfaced.
func transcriptJSON(turns []types.Turn) string {
	wire := make([]promptTurn, 0, len(turns))
	for _, turn := range turns {
		wire = append(wire, promptTurn{
			Role:    string(turn.Speaker),
			Content: turn.Text,
		})
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Initial builds the first-turn prompt from the user's situation and mood.
// The model must answer with {"response": "..."}.
func Initial(situation string, mood int) string {
	return fmt.Sprintf(`You are a helpful friend helping someone think through a decision. They may be dealing with anxiety and/or depression, but don't assume that's the case unless they indicate it in what they share.

They shared: %q
Their current energy/mood: %d/5

Respond naturally based on what they actually said, not assumptions about their mental state. Be conversational and helpful:

- If they mention feeling overwhelmed, anxious, or low energy, respond with understanding
- If they just ask a straightforward question, respond straightforwardly
- Let THEM tell you how they're feeling rather than assuming

Guidelines:
1. Respond to what they actually said
2. Don't project mental health struggles unless they mention them
3. Ask ONE helpful question to understand their situation better
4. Match their tone and energy level
5. Be a practical, supportive friend

Keep it natural and appropriate to what they shared.

Respond with ONLY a JSON object:
{
  "response": "Your natural, appropriate response here"
}

DO NOT include anything other than valid JSON. No backticks or formatting.`, situation, mood)
}

// Conversation builds the mid-dialogue prompt from the full transcript,
// including the just-appended user turn. The model must answer with
// {"response": "..."}.
func Conversation(turns []types.Turn) string {
	return fmt.Sprintf(`You are a helpful friend helping someone think through a decision. They may be dealing with anxiety and/or depression, but don't assume that's the case unless they indicate it in what they share.

Conversation so far:
%s

Respond naturally based on what they actually said, not assumptions about their mental state. Be conversational and helpful - either ask a follow-up question to understand better, or help them think through their options.

Guidelines:
- Respond to what they actually said
- Don't project mental health struggles unless they mention them
- Ask ONE helpful question OR provide thoughtful reflection
- Match their tone and energy level
- Be a practical, supportive friend

Respond with ONLY this JSON format:
{
  "response": "Your natural, appropriate response"
}

NO other text, backticks, or formatting.`, transcriptJSON(turns))
}

// SafetyCheck builds the classification prompt for a single utterance. The
// model must answer with {"safetyTrigger": bool, "type"?, "message"?}.
func SafetyCheck(message string) string {
	return fmt.Sprintf(`You are a safety assessment tool. Analyze this message for any mentions or allusions to:
- Self-harm or suicide
- Harming others or violence
- Harming animals or abuse

Message to analyze: %q

If ANY safety concerns are present, respond with:
{
  "safetyTrigger": true,
  "type": "self-harm" | "harm-others" | "harm-animals",
  "message": "A supportive response acknowledging their pain"
}

If NO safety concerns, respond with:
{
  "safetyTrigger": false
}

DO NOT include anything other than valid JSON.`, message)
}

// Verdict builds the final-recommendation prompt from the full transcript
// and the user's initial mood. The model must answer with the four-field
// verdict shape.
func Verdict(turns []types.Turn, mood int) string {
	return fmt.Sprintf(`Based on this entire conversation, provide a thoughtful, personalized recommendation for their decision.

Conversation history:
%s

User's initial energy level: %d/5

Provide a warm, supportive verdict that:
- Acknowledges their specific situation and feelings
- Gives a clear but gentle recommendation
- Explains the reasoning in a caring way
- Offers practical tips for whatever they decide
- Reminds them that their choice is valid
- Sounds like advice from a caring friend, not a therapist

Respond with ONLY this JSON format:
{
  "recommendation": "Your clear recommendation (Go/Don't go/Modified version)",
  "reasoning": "2-3 sentences explaining why this feels right for them",
  "tips": "Practical advice for following through or self-care",
  "reminder": "A supportive reminder about their worth/validity"
}

NO other text, backticks, or formatting.`, transcriptJSON(turns), mood)
}
