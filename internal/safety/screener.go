// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

// Package safety classifies user utterances for crisis risk. The primary
// path asks the model; when that fails for any reason the screener degrades
// to a static keyword scan, which always returns a result. A false negative
// is preferred over blocking the user with a crash.
package safety

import (
	"context"
	"log/slog"
	"strings"

	"github.com/clearpath-dev/clearpath/internal/oracle"
	"github.com/clearpath-dev/clearpath/internal/prompt"
	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
	"github.com/clearpath-dev/clearpath/pkg/types"
)

// defaultMessage is used when a triggered screen carries no model-authored
// supportive message.
const defaultMessage = "I'm concerned about what you've shared and want to make sure you're safe."

// DefaultKeywords is the static fallback list scanned case-insensitively
// when the model path is unavailable.
func DefaultKeywords() []string {
	return []string{
		"kill", "die", "suicide", "hurt myself", "end it",
		"not worth living", "hurt someone", "hurt them",
		"violence", "attack", "hurt animal", "kill animal", "abuse",
	}
}

// Result is the outcome of screening one utterance. Resource is set exactly
// when Triggered is true.
type Result struct {
	Triggered bool
	Resource  *types.SafetyResource
}

// Screener classifies utterances. A nil client disables the model path
// entirely, leaving only the keyword fallback.
type Screener struct {
	client   oracle.Client
	retry    cperr.RetryConfig
	keywords []string
}

// NewScreener creates a Screener. An empty keyword list selects the default
// list; the retry config bounds the model-path completion.
func NewScreener(client oracle.Client, retry cperr.RetryConfig, keywords []string) *Screener {
	if len(keywords) == 0 {
		keywords = DefaultKeywords()
	}
	return &Screener{
		client:   client,
		retry:    retry,
		keywords: keywords,
	}
}

// Screen classifies a single user message. It never returns an error: a
// failed model path degrades to the keyword scan.
func (s *Screener) Screen(ctx context.Context, message string) Result {
	if s.client == nil {
		return s.keywordScan(message)
	}

	verdict, err := oracle.CompleteJSON[oracle.SafetyVerdict](ctx, s.client, prompt.SafetyCheck(message), oracle.ProfileFast, s.retry)
	if err != nil {
		slog.Warn("safety model path failed, using keyword fallback", "error", err)
		return s.keywordScan(message)
	}

	if !verdict.SafetyTrigger {
		return Result{}
	}

	return Result{
		Triggered: true,
		Resource:  buildResource(types.SafetyCategory(verdict.Type), verdict.Message),
	}
}

// keywordScan is the last line of defense. It cannot fail.
func (s *Screener) keywordScan(message string) Result {
	lowered := strings.ToLower(message)
	for _, keyword := range s.keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return Result{
				Triggered: true,
				Resource:  buildResource(types.CategoryGeneral, ""),
			}
		}
	}
	return Result{}
}

// buildResource fills in defaults for an absent category or message.
func buildResource(category types.SafetyCategory, message string) *types.SafetyResource {
	if !types.KnownCategory(category) {
		category = types.CategoryGeneral
	}
	if message == "" {
		message = defaultMessage
	}
	return &types.SafetyResource{
		Category: category,
		Message:  message,
	}
}
