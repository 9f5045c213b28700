// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

// Package oracle talks to the language-model backend. It owns the completion
// transport (timeouts, error mapping) and the JSON response contract
// (fence stripping, strict decode, single repair re-ask).
package oracle

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/genai"

	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
)

// DefaultTimeout is the hard wall-clock limit for a single completion call.
const DefaultTimeout = 30 * time.Second

// Profile selects the latency/reasoning trade-off for a completion.
type Profile string

const (
	// ProfileFast disables model reasoning. Used for conversational turns
	// and safety checks, where latency matters more than depth.
	ProfileFast Profile = "fast"

	// ProfileThinking enables unbounded model reasoning. Used only for
	// verdict generation.
	ProfileThinking Profile = "thinking"
)

// thinkingBudget maps the profile onto the Gemini thinking budget:
// 0 disables thinking, -1 lets the model decide how much to think.
func (p Profile) thinkingBudget() int32 {
	if p == ProfileThinking {
		return -1
	}
	return 0
}

// Client issues completion requests against the model backend.
type Client interface {
	// Complete sends prompt and returns the raw model text. The call is
	// bounded by the client's wall-clock timeout regardless of ctx.
	Complete(ctx context.Context, prompt string, profile Profile) (string, error)
}

// GenerationOptions are the sampling parameters sent with every request.
type GenerationOptions struct {
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
}

// DefaultGenerationOptions returns the standard sampling parameters.
func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.9,
		MaxOutputTokens: 2048,
	}
}

// GeminiConfig holds Gemini client configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Options GenerationOptions
}

// Gemini implements Client using the Google Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	options GenerationOptions
}

var _ Client = (*Gemini)(nil)

// NewGemini creates a Gemini client. A missing API key fails immediately
// with a validation error; no network attempt is made.
func NewGemini(cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, cperr.New(cperr.KindValidation, "gemini: missing API key")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Options == (GenerationOptions{}) {
		cfg.Options = DefaultGenerationOptions()
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, cperr.Wrap(err, cperr.KindAPI, "gemini: creating client")
	}

	return &Gemini{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		options: cfg.Options,
	}, nil
}

// Complete sends a single-turn completion request and extracts the text of
// the first candidate.
func (g *Gemini) Complete(ctx context.Context, prompt string, profile Profile) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	result, err := g.client.Models.GenerateContent(cctx, g.model, contents, g.buildConfig(profile))
	if err != nil {
		return "", g.mapError(cctx, err)
	}

	text := extractText(result)
	if text == "" {
		return "", cperr.New(cperr.KindAPI, "gemini: no usable output in response")
	}

	return text, nil
}

// buildConfig assembles the generation config for the given profile.
func (g *Gemini) buildConfig(profile Profile) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.options.Temperature),
		TopK:            genai.Ptr(g.options.TopK),
		TopP:            genai.Ptr(g.options.TopP),
		MaxOutputTokens: g.options.MaxOutputTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(profile.thinkingBudget()),
		},
	}
}

// mapError converts an SDK failure into a kinded error. A hit on the call's
// deadline is a timeout; everything else is classified by its signals, with
// unrecognized failures treated as backend API errors.
func (g *Gemini) mapError(cctx context.Context, err error) error {
	if cctx.Err() != nil {
		return cperr.Wrap(err, cperr.KindTimeout, "gemini: completion timed out")
	}

	kind := cperr.Classify(err)
	if kind == cperr.KindUnknown {
		kind = cperr.KindAPI
	}

	slog.Debug("gemini completion failed", "kind", kind, "error", err)

	return cperr.Wrap(err, kind, "gemini: completion failed")
}

// extractText walks the candidates and returns the first non-empty text part.
func extractText(result *genai.GenerateContentResponse) string {
	if result == nil {
		return ""
	}
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}
