// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"strings"
)

// Classify maps an arbitrary error to a Kind. An error already tagged with a
// kind keeps it; untagged errors are matched against type and message
// signals in fixed priority order: network, timeout, api, parse, validation.
// Anything unmatched is KindUnknown.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	if kind := KindOf(err); kind != "" {
		return kind
	}

	msg := strings.ToLower(err.Error())

	if isNetworkError(err, msg) {
		return KindNetwork
	}

	if isTimeoutError(err, msg) {
		return KindTimeout
	}

	if containsAny(msg, "http", "api", "status", "quota", "rate limit") {
		return KindAPI
	}

	if isParseError(err, msg) {
		return KindParse
	}

	if containsAny(msg, "validation", "invalid") {
		return KindValidation
	}

	return KindUnknown
}

func isNetworkError(err error, msg string) bool {
	var netErr net.Error
	if stderrors.As(err, &netErr) && !netErr.Timeout() {
		return true
	}

	return containsAny(msg, "network", "connection", "offline", "no such host", "broken pipe")
}

func isTimeoutError(err error, msg string) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return containsAny(msg, "timeout", "timed out", "deadline", "aborted")
}

func isParseError(err error, msg string) bool {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return true
	}

	return containsAny(msg, "parse", "json", "unexpected end")
}

func containsAny(msg string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
