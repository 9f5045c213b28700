// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/clearpath-dev/clearpath/internal/oracle"
	"github.com/clearpath-dev/clearpath/internal/prompt"
	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
	"github.com/clearpath-dev/clearpath/pkg/types"
)

// ErrInFlight reports that a turn is already being processed. A second
// submission while one is pending is rejected, not queued.
var ErrInFlight = cperr.New(cperr.KindValidation, "a turn is already being processed")

// Machine is the conversation state machine. It owns the phase, transcript,
// mood and verdict, and drives the model per turn. All mutation happens
// under the mutex at the moment an asynchronous step resolves, never
// mid-flight; the inFlight flag is the single-flight guard preventing two
// turns from interleaving. The generation counter invalidates in-flight
// work across Reset: a model call captures the generation when it starts
// and its result is dropped if the generation moved before it resolved.
type Machine struct {
	client oracle.Client
	retry  cperr.RetryConfig

	mu         sync.Mutex
	inFlight   bool
	gen        uint64
	phase      types.Phase
	situation  string
	mood       int
	transcript []types.Turn
	verdict    *oracle.Verdict
}

// MachineSnapshot is a point-in-time copy of the machine state.
type MachineSnapshot struct {
	Phase      types.Phase
	Situation  string
	Mood       int
	Transcript []types.Turn
	Verdict    *oracle.Verdict
	InFlight   bool
}

// NewMachine creates a Machine in the initial phase with the default mood.
func NewMachine(client oracle.Client, retry cperr.RetryConfig) *Machine {
	return &Machine{
		client: client,
		retry:  retry,
		phase:  types.PhaseInitial,
		mood:   types.DefaultMood,
	}
}

// BeginSession starts the conversation from the user's situation and mood.
// The phase transitions to conversation optimistically, before the model
// responds; if the model pipeline fails, a fixed fallback reply is appended
// instead. The transcript always ends up with at least the user framing
// line and one assistant reply.
func (m *Machine) BeginSession(ctx context.Context, situation string, mood int) error {
	situation = strings.TrimSpace(situation)

	m.mu.Lock()
	switch {
	case m.phase != types.PhaseInitial:
		m.mu.Unlock()
		return cperr.New(cperr.KindValidation, "session already started")
	case situation == "":
		m.mu.Unlock()
		return cperr.New(cperr.KindValidation, "situation must not be empty")
	case !types.ValidMood(mood):
		m.mu.Unlock()
		return cperr.Errorf(cperr.KindValidation, "mood must be between 1 and 5, got %d", mood)
	case m.inFlight:
		m.mu.Unlock()
		return ErrInFlight
	}

	m.phase = types.PhaseConversation
	m.situation = situation
	m.mood = mood
	m.inFlight = true
	gen := m.gen
	m.mu.Unlock()

	reply := fallbackInitialReply
	result, err := oracle.CompleteJSON[oracle.ChatReply](ctx, m.client, prompt.Initial(situation, mood), oracle.ProfileFast, m.retry)
	if err != nil {
		slog.Error("initial turn failed, using fallback reply", "error", err)
	} else {
		reply = result.Response
	}

	m.mu.Lock()
	if m.gen != gen {
		// Reset ran while the call was in flight; the reply belongs to a
		// dead session.
		m.mu.Unlock()
		return nil
	}
	m.transcript = append(m.transcript,
		types.Turn{Speaker: types.SpeakerUser, Text: userFramingPrefix + situation},
		types.Turn{Speaker: types.SpeakerAssistant, Text: reply},
	)
	m.inFlight = false
	m.mu.Unlock()

	return nil
}

// SubmitTurn appends the user's message and requests a reply. The user turn
// is appended immediately, before the model call resolves; a failed model
// pipeline appends the fixed fallback reply. Returns ErrInFlight if another
// turn is pending.
func (m *Machine) SubmitTurn(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	m.mu.Lock()
	if m.phase != types.PhaseConversation {
		m.mu.Unlock()
		return cperr.New(cperr.KindValidation, "no active conversation")
	}
	if m.inFlight {
		m.mu.Unlock()
		return ErrInFlight
	}

	m.inFlight = true
	gen := m.gen
	m.transcript = append(m.transcript, types.Turn{Speaker: types.SpeakerUser, Text: text})
	turns := append([]types.Turn(nil), m.transcript...)
	m.mu.Unlock()

	reply := fallbackTurnReply
	result, err := oracle.CompleteJSON[oracle.ChatReply](ctx, m.client, prompt.Conversation(turns), oracle.ProfileFast, m.retry)
	if err != nil {
		slog.Error("conversation turn failed, using fallback reply", "error", err)
	} else {
		reply = result.Response
	}

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		return nil
	}
	m.transcript = append(m.transcript, types.Turn{Speaker: types.SpeakerAssistant, Text: reply})
	m.inFlight = false
	m.mu.Unlock()

	return nil
}

// RequestVerdict generates the final recommendation from the full
// transcript using the thinking profile. A failed model pipeline yields the
// fixed fallback verdict; the result is never empty. A regenerated verdict
// replaces the previous one entirely.
func (m *Machine) RequestVerdict(ctx context.Context) (oracle.Verdict, error) {
	m.mu.Lock()
	if m.phase != types.PhaseConversation {
		m.mu.Unlock()
		return oracle.Verdict{}, cperr.New(cperr.KindValidation, "no active conversation")
	}
	if m.inFlight {
		m.mu.Unlock()
		return oracle.Verdict{}, ErrInFlight
	}

	m.inFlight = true
	gen := m.gen
	turns := append([]types.Turn(nil), m.transcript...)
	mood := m.mood
	m.mu.Unlock()

	verdict, err := oracle.CompleteJSON[oracle.Verdict](ctx, m.client, prompt.Verdict(turns, mood), oracle.ProfileThinking, m.retry)
	if err != nil {
		slog.Error("verdict generation failed, using fallback verdict", "error", err)
		verdict = FallbackVerdict()
	}

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		return oracle.Verdict{}, cperr.New(cperr.KindValidation, "session was reset")
	}
	m.verdict = &verdict
	m.inFlight = false
	m.mu.Unlock()

	return verdict, nil
}

// Reset returns the machine to the exact initial state: empty situation,
// default mood, empty transcript, no verdict, guard released. Bumping the
// generation orphans any model call still in flight, so its result cannot
// land on the fresh state.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	m.phase = types.PhaseInitial
	m.situation = ""
	m.mood = types.DefaultMood
	m.transcript = nil
	m.verdict = nil
	m.inFlight = false
}

// Snapshot returns a copy of the current machine state.
func (m *Machine) Snapshot() MachineSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MachineSnapshot{
		Phase:      m.phase,
		Situation:  m.situation,
		Mood:       m.mood,
		Transcript: append([]types.Turn(nil), m.transcript...),
		InFlight:   m.inFlight,
	}

	if m.verdict != nil {
		verdict := *m.verdict
		snap.Verdict = &verdict
	}

	return snap
}
