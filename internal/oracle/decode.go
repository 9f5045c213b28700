// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package oracle

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
)

// repairInstruction is appended to a prompt when the first completion did not
// decode. The contract demands JSON only; unescaped quotes inside string
// values are the most common violation.
const repairInstruction = "\n\nIMPORTANT: Your previous answer was not valid JSON. " +
	"Answer again with ONLY a valid JSON object, escaping all quotes and apostrophes " +
	"inside string values correctly. No backticks, no formatting, no surrounding text."

// StripFence removes a single leading/trailing fenced code block marker
// (with optional language tag) and trims whitespace. The prompt contracts
// forbid fences, but models add them anyway.
func StripFence(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[3:]
		// Drop an optional language tag ending the opening fence line.
		if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 && len(strings.TrimSpace(cleaned[:idx])) <= 10 {
			cleaned = cleaned[idx+1:]
		}
	}

	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimSuffix(cleaned, "```")

	return strings.TrimSpace(cleaned)
}

// DecodeJSON strips fencing and decodes raw into T. Content that does not
// begin with '{' or '[' fails fast with a parse error before any decoder
// runs. If T implements Validate, required-field violations also surface as
// parse errors rather than silently defaulted fields.
func DecodeJSON[T any](raw string) (T, error) {
	var result T

	cleaned := StripFence(raw)
	if cleaned == "" || (cleaned[0] != '{' && cleaned[0] != '[') {
		return result, cperr.Errorf(cperr.KindParse, "response is not JSON: %q", truncate(cleaned, 80))
	}

	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return result, cperr.Wrap(err, cperr.KindParse, "decoding model response")
	}

	if v, ok := any(&result).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return result, err
		}
	}

	return result, nil
}

// CompleteJSON runs a completion and decodes the result into T. The initial
// completion is retried per cfg for transient failures. A decode failure
// triggers exactly one repair re-ask, issued without transport retries so a
// single logical operation stays bounded at cfg.MaxAttempts+1 model calls.
func CompleteJSON[T any](ctx context.Context, client Client, prompt string, profile Profile, cfg cperr.RetryConfig) (T, error) {
	var zero T

	raw, err := cperr.WithRetry(ctx, cfg, func(ctx context.Context) (string, error) {
		return client.Complete(ctx, prompt, profile)
	})
	if err != nil {
		return zero, err
	}

	result, decodeErr := DecodeJSON[T](raw)
	if decodeErr == nil {
		return result, nil
	}

	slog.Warn("model response did not decode, issuing repair re-ask", "error", decodeErr)

	repaired, err := client.Complete(ctx, prompt+repairInstruction, profile)
	if err != nil {
		// The repair call itself failed; the original parse failure is the
		// truer description of this operation's outcome.
		return zero, decodeErr
	}

	result, err = DecodeJSON[T](repaired)
	if err != nil {
		return zero, cperr.Wrap(err, cperr.KindParse, "model response undecodable after repair")
	}

	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
