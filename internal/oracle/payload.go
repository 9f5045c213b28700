// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package oracle

import (
	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
)

// ChatReply is the payload every conversational turn must return.
type ChatReply struct {
	Response string `json:"response"`
}

// Validate reports a parse failure if the required response field is absent.
func (r *ChatReply) Validate() error {
	if r.Response == "" {
		return cperr.New(cperr.KindParse, "chat reply: missing response field")
	}
	return nil
}

// SafetyVerdict is the payload of a safety classification request.
// Type and Message are only present when SafetyTrigger is true, and even
// then the model may omit them; consumers substitute defaults.
type SafetyVerdict struct {
	SafetyTrigger bool   `json:"safetyTrigger"`
	Type          string `json:"type,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Verdict is the final recommendation produced once per decide request.
type Verdict struct {
	Recommendation string `json:"recommendation"`
	Reasoning      string `json:"reasoning"`
	Tips           string `json:"tips"`
	Reminder       string `json:"reminder"`
}

// Validate reports a parse failure if any of the four fields is absent.
func (v *Verdict) Validate() error {
	switch {
	case v.Recommendation == "":
		return cperr.New(cperr.KindParse, "verdict: missing recommendation field")
	case v.Reasoning == "":
		return cperr.New(cperr.KindParse, "verdict: missing reasoning field")
	case v.Tips == "":
		return cperr.New(cperr.KindParse, "verdict: missing tips field")
	case v.Reminder == "":
		return cperr.New(cperr.KindParse, "verdict: missing reminder field")
	}
	return nil
}
