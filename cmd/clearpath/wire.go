// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package main

import (
	"log/slog"
	"os"

	"github.com/clearpath-dev/clearpath/internal/config"
	"github.com/clearpath-dev/clearpath/internal/oracle"
	"github.com/clearpath-dev/clearpath/internal/safety"
	"github.com/clearpath-dev/clearpath/internal/secrets"
	"github.com/clearpath-dev/clearpath/internal/session"
	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
)

// setupLogging configures the process-wide slog handler.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// buildController wires the full session pipeline from configuration:
// credential resolution, model client, safety screener, state machine,
// controller.
func buildController(cfg *config.Config, store secrets.Store) (*session.Controller, error) {
	apiKey, err := secrets.ResolveKeyringURI(store, cfg.Model.APIKey)
	if err != nil {
		return nil, cperr.Wrap(err, cperr.KindOf(err), "resolving model API key")
	}
	if apiKey == "" {
		return nil, cperr.New(cperr.KindValidation,
			"no model API key configured; run 'clearpath init' or set GEMINI_API_KEY")
	}

	client, err := oracle.NewGemini(oracle.GeminiConfig{
		APIKey:  apiKey,
		Model:   cfg.Model.Name,
		Timeout: cfg.Model.Timeout(),
		Options: oracle.GenerationOptions{
			Temperature:     cfg.Model.Temperature,
			TopK:            cfg.Model.TopK,
			TopP:            cfg.Model.TopP,
			MaxOutputTokens: cfg.Model.MaxOutputTokens,
		},
	})
	if err != nil {
		return nil, err
	}

	retry := cfg.Retry.Policy()

	keywords := cfg.Safety.Keywords
	if len(keywords) == 0 {
		keywords = safety.DefaultKeywords()
	}
	screener := safety.NewScreener(client, retry, keywords)

	machine := session.NewMachine(client, retry)
	return session.NewController(machine, screener), nil
}
