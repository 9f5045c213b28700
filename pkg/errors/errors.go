// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

// Package errors defines the application error taxonomy and the helpers the
// rest of the codebase uses to create, classify, and surface errors. Every
// failure that crosses a component boundary carries exactly one Kind.
package errors

import (
	"fmt"
	"time"

	"github.com/samber/oops"
)

// Kind is the machine-readable category of an error.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindTimeout    Kind = "timeout"
	KindAPI        Kind = "api"
	KindParse      Kind = "parse"
	KindValidation Kind = "validation"
	KindUnknown    Kind = "unknown"
)

// userMessages maps each kind to the one fixed sentence shown to users.
var userMessages = map[Kind]string{
	KindNetwork:    "Connection issue detected. Please check your internet connection and try again.",
	KindTimeout:    "The request is taking longer than expected. Please try again.",
	KindAPI:        "There was an issue with the AI service. Please try again in a moment.",
	KindParse:      "There was an issue processing the response. Please try again.",
	KindValidation: "Please check your input and try again.",
	KindUnknown:    "Something unexpected happened. Please try again.",
}

// New creates an error tagged with the given kind.
func New(kind Kind, msg string) error {
	return oops.Code(kind).New(msg)
}

// Errorf creates a formatted error tagged with the given kind.
func Errorf(kind Kind, format string, args ...any) error {
	return oops.Code(kind).Errorf(format, args...)
}

// Wrap wraps err with a message, tagging it with the given kind.
// Returns nil if err is nil.
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return oops.Code(kind).Wrapf(err, "%s", msg)
}

// Wrapf wraps err with a formatted message, tagging it with the given kind.
// Returns nil if err is nil.
func Wrapf(err error, kind Kind, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return oops.Code(kind).Wrapf(err, format, args...)
}

// KindOf returns the kind attached to err, or "" if err carries none.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if kind, ok := oopsErr.Code().(Kind); ok {
		return kind
	}

	if kind, ok := oopsErr.Code().(string); ok {
		return Kind(kind)
	}

	return Kind(fmt.Sprintf("%v", oopsErr.Code()))
}

// HasKind reports whether err carries the given kind.
func HasKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// Retryable reports whether operations failing with this kind may be retried.
// Transient transport and service failures are retryable; malformed data and
// bad input are not.
func Retryable(kind Kind) bool {
	switch kind {
	case KindNetwork, KindTimeout, KindAPI:
		return true
	}
	return false
}

// Recoverable reports whether the user can recover from this kind without
// restarting the session.
func Recoverable(kind Kind) bool {
	switch kind {
	case KindNetwork, KindTimeout, KindAPI, KindParse:
		return true
	}
	return false
}

// UserMessage returns the fixed user-facing sentence for the kind.
func UserMessage(kind Kind) string {
	if msg, ok := userMessages[kind]; ok {
		return msg
	}
	return userMessages[KindUnknown]
}

// AppError is the value surfaced to presentation layers. It is created by
// Describe and never mutated afterwards; retry counting is tracked by the
// session controller, not here.
type AppError struct {
	Kind        Kind      `json:"kind"`
	RawMessage  string    `json:"rawMessage"`
	UserMessage string    `json:"userMessage"`
	Recoverable bool      `json:"recoverable"`
	Retryable   bool      `json:"retryable"`
	Timestamp   time.Time `json:"timestamp"`
}

// Describe classifies err and materializes the AppError view of it.
// Returns nil for a nil error.
func Describe(err error) *AppError {
	if err == nil {
		return nil
	}

	kind := Classify(err)

	return &AppError{
		Kind:        kind,
		RawMessage:  err.Error(),
		UserMessage: UserMessage(kind),
		Recoverable: Recoverable(kind),
		Retryable:   Retryable(kind),
		Timestamp:   time.Now(),
	}
}
