// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/clearpath-dev/clearpath/internal/oracle"
	"github.com/clearpath-dev/clearpath/internal/safety"
	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
	"github.com/clearpath-dev/clearpath/pkg/types"
)

// maxManualRetries caps the user-triggered retry path. This is presentation
// policy, separate from the automatic in-flight retry loop.
const maxManualRetries = 3

// ErrBusy reports that another user action is still being handled.
var ErrBusy = cperr.New(cperr.KindValidation, "an action is already in progress")

// Conversation is the state-machine surface the controller drives.
type Conversation interface {
	BeginSession(ctx context.Context, situation string, mood int) error
	SubmitTurn(ctx context.Context, text string) error
	RequestVerdict(ctx context.Context) (oracle.Verdict, error)
	Reset()
	Snapshot() MachineSnapshot
}

// Screener classifies a user utterance for crisis risk. It never fails.
type Screener interface {
	Screen(ctx context.Context, message string) safety.Result
}

// SafetyState records whether a screen has triggered. Once triggered,
// normal turn processing is suspended until reset.
type SafetyState struct {
	Triggered bool                   `json:"triggered"`
	Resource  *types.SafetyResource  `json:"resource,omitempty"`
	Resources []types.CrisisResource `json:"resources,omitempty"`
}

// actionKind identifies the last user action for the manual retry path.
type actionKind int

const (
	actionNone actionKind = iota
	actionInitial
	actionMessage
)

// action is a plain value describing a retryable user action. No closures:
// retry re-dispatches from these fields.
type action struct {
	kind      actionKind
	situation string
	mood      int
	text      string
}

// Controller is the top-level orchestrator. Every user-originating action
// runs: set busy, safety-screen the new text, halt on trigger or delegate to
// the state machine, clear busy. Exactly one controller exists per process.
type Controller struct {
	machine  Conversation
	screener Screener

	mu           sync.Mutex
	id           string
	busy         bool
	pendingInput string
	safetyState  SafetyState
	lastErr      *cperr.AppError
	retryCount   int
	lastAction   action
}

// Snapshot is the full session view handed to presentation layers.
type Snapshot struct {
	SessionID    string          `json:"sessionId"`
	Phase        types.Phase     `json:"phase"`
	Situation    string          `json:"situation"`
	Mood         int             `json:"moodLevel"`
	MoodLabel    string          `json:"moodLabel"`
	Transcript   []types.Turn    `json:"transcript"`
	PendingInput string          `json:"pendingInput"`
	Busy         bool            `json:"busy"`
	Verdict      *oracle.Verdict `json:"verdict,omitempty"`
	Safety       SafetyState     `json:"safety"`
	LastError    *cperr.AppError `json:"lastError,omitempty"`
	RetryCount   int             `json:"retryCount"`
	CanRetry     bool            `json:"canRetry"`
}

// NewController creates a Controller over the given machine and screener.
func NewController(machine Conversation, screener Screener) *Controller {
	return &Controller{
		machine:  machine,
		screener: screener,
		id:       uuid.New().String(),
	}
}

// SubmitInitial screens the situation text and, if clean, begins the
// conversation. A triggered screen halts the flow without error: the safety
// state is surfaced instead.
func (c *Controller) SubmitInitial(ctx context.Context, situation string, mood int) error {
	if err := c.acquire(situation); err != nil {
		return err
	}

	result := c.screener.Screen(ctx, situation)
	if result.Triggered {
		c.haltForSafety(result)
		return nil
	}

	err := c.machine.BeginSession(ctx, situation, mood)
	c.finish(action{kind: actionInitial, situation: situation, mood: mood}, err)
	return err
}

// SendMessage screens the message text and, if clean, submits it as a turn.
// Empty messages are ignored.
func (c *Controller) SendMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if err := c.acquire(text); err != nil {
		return err
	}

	result := c.screener.Screen(ctx, text)
	if result.Triggered {
		c.haltForSafety(result)
		return nil
	}

	err := c.machine.SubmitTurn(ctx, text)
	c.finish(action{kind: actionMessage, text: text}, err)
	return err
}

// RequestVerdict generates the final recommendation. The triggering text was
// already screened when submitted, so no safety screen runs here, and
// failures never surface a banner: the machine substitutes a fallback.
func (c *Controller) RequestVerdict(ctx context.Context) (oracle.Verdict, error) {
	if err := c.acquire(""); err != nil {
		return oracle.Verdict{}, err
	}

	verdict, err := c.machine.RequestVerdict(ctx)

	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()

	return verdict, err
}

// RetryLast re-dispatches the last failed action. Gated on the previous
// error being retryable and on the visible retry counter staying under the
// cap.
func (c *Controller) RetryLast(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.busy:
		c.mu.Unlock()
		return ErrBusy
	case c.lastErr == nil:
		c.mu.Unlock()
		return cperr.New(cperr.KindValidation, "nothing to retry")
	case !c.lastErr.Retryable:
		c.mu.Unlock()
		return cperr.New(cperr.KindValidation, "last error is not retryable")
	case c.retryCount >= maxManualRetries:
		c.mu.Unlock()
		return cperr.New(cperr.KindValidation, "retry limit reached")
	}

	act := c.lastAction
	c.retryCount++
	c.mu.Unlock()

	switch act.kind {
	case actionInitial:
		return c.SubmitInitial(ctx, act.situation, act.mood)
	case actionMessage:
		return c.SendMessage(ctx, act.text)
	}

	return cperr.New(cperr.KindValidation, "no retryable action recorded")
}

// Reset destroys all session state: machine, safety state, error state, and
// identity. The next interaction starts a fresh session.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.machine.Reset()
	c.id = uuid.New().String()
	c.busy = false
	c.pendingInput = ""
	c.safetyState = SafetyState{}
	c.lastErr = nil
	c.retryCount = 0
	c.lastAction = action{}
}

// Snapshot assembles the full session view.
func (c *Controller) Snapshot() Snapshot {
	machineSnap := c.machine.Snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		SessionID:    c.id,
		Phase:        machineSnap.Phase,
		Situation:    machineSnap.Situation,
		Mood:         machineSnap.Mood,
		MoodLabel:    types.MoodLabel(machineSnap.Mood),
		Transcript:   machineSnap.Transcript,
		PendingInput: c.pendingInput,
		Busy:         c.busy || machineSnap.InFlight,
		Verdict:      machineSnap.Verdict,
		Safety:       c.safetyState,
		LastError:    c.lastErr,
		RetryCount:   c.retryCount,
		CanRetry:     c.lastErr != nil && c.lastErr.Retryable && c.retryCount < maxManualRetries && !c.busy,
	}
}

// acquire sets the busy flag, rejecting re-entrant actions and anything
// arriving while the safety state is triggered.
func (c *Controller) acquire(pending string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	if c.safetyState.Triggered {
		return cperr.New(cperr.KindValidation, "safety mode active; reset to continue")
	}

	c.busy = true
	c.pendingInput = pending
	return nil
}

// haltForSafety records a triggered screen and releases the busy flag. The
// conversation machine is never reached.
func (c *Controller) haltForSafety(result safety.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.safetyState = SafetyState{
		Triggered: true,
		Resource:  result.Resource,
		Resources: types.CrisisResources(),
	}
	c.busy = false
	c.pendingInput = ""
}

// finish clears the busy flag and records the action outcome. A rejected
// in-flight submission is a no-op, not an error banner.
func (c *Controller) finish(act action, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.busy = false
	c.pendingInput = ""

	switch {
	case err == nil:
		c.lastErr = nil
		c.retryCount = 0
		c.lastAction = action{}
	case errors.Is(err, ErrInFlight):
		// no-op: the pending turn keeps its state
	default:
		c.lastErr = cperr.Describe(err)
		c.lastAction = act
	}
}
