// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/clearpath-dev/clearpath/internal/oracle"
	"github.com/clearpath-dev/clearpath/internal/session"
)

// SessionController is the controller surface the HTTP routes drive.
type SessionController interface {
	SubmitInitial(ctx context.Context, situation string, mood int) error
	SendMessage(ctx context.Context, text string) error
	RequestVerdict(ctx context.Context) (oracle.Verdict, error)
	RetryLast(ctx context.Context) error
	Reset()
	Snapshot() session.Snapshot
}

// RegisterSession sets the controller dependency and registers the session
// routes.
func (s *Server) RegisterSession(ctrl SessionController) {
	s.registerSessionRoutes(ctrl)
}

func (s *Server) registerSessionRoutes(ctrl SessionController) {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/api/v1/session",
		Summary:     "Get the current session state",
		Tags:        []string{"session"},
	}, func(_ context.Context, _ *struct{}) (*snapshotOutput, error) {
		return &snapshotOutput{Body: ctrl.Snapshot()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "begin-session",
		Method:      http.MethodPost,
		Path:        "/api/v1/session",
		Summary:     "Begin a session from the user's situation and mood",
		Tags:        []string{"session"},
	}, func(ctx context.Context, input *beginSessionInput) (*snapshotOutput, error) {
		if strings.TrimSpace(input.Body.Situation) == "" {
			return nil, huma.Error422UnprocessableEntity("situation must not be empty")
		}
		if err := ctrl.SubmitInitial(ctx, input.Body.Situation, input.Body.MoodLevel); err != nil {
			return nil, huma.Error409Conflict(err.Error())
		}
		return &snapshotOutput{Body: ctrl.Snapshot()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "send-message",
		Method:      http.MethodPost,
		Path:        "/api/v1/session/messages",
		Summary:     "Send a message in the current conversation",
		Tags:        []string{"session"},
	}, func(ctx context.Context, input *sendMessageInput) (*snapshotOutput, error) {
		if err := ctrl.SendMessage(ctx, input.Body.Text); err != nil {
			return nil, huma.Error409Conflict(err.Error())
		}
		return &snapshotOutput{Body: ctrl.Snapshot()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "request-verdict",
		Method:      http.MethodPost,
		Path:        "/api/v1/session/verdict",
		Summary:     "Generate the final recommendation",
		Tags:        []string{"session"},
	}, func(ctx context.Context, _ *struct{}) (*snapshotOutput, error) {
		if _, err := ctrl.RequestVerdict(ctx); err != nil {
			return nil, huma.Error409Conflict(err.Error())
		}
		return &snapshotOutput{Body: ctrl.Snapshot()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "retry-last",
		Method:      http.MethodPost,
		Path:        "/api/v1/session/retry",
		Summary:     "Retry the last failed action",
		Tags:        []string{"session"},
	}, func(ctx context.Context, _ *struct{}) (*snapshotOutput, error) {
		if err := ctrl.RetryLast(ctx); err != nil {
			return nil, huma.Error409Conflict(err.Error())
		}
		return &snapshotOutput{Body: ctrl.Snapshot()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "reset-session",
		Method:      http.MethodPost,
		Path:        "/api/v1/session/reset",
		Summary:     "Discard all session state",
		Tags:        []string{"session"},
	}, func(_ context.Context, _ *struct{}) (*snapshotOutput, error) {
		ctrl.Reset()
		return &snapshotOutput{Body: ctrl.Snapshot()}, nil
	})
}

// --- Request/Response types for huma ---

type snapshotOutput struct {
	Body session.Snapshot
}

type beginSessionInput struct {
	Body struct {
		Situation string `json:"situation" minLength:"1" doc:"The decision the user is facing"`
		MoodLevel int    `json:"moodLevel" minimum:"1" maximum:"5" doc:"Self-reported mood, 1 (very low) to 5 (great)"`
	}
}

type sendMessageInput struct {
	Body struct {
		Text string `json:"text" minLength:"1" doc:"Message content"`
	}
}
