// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

// Package secrets keeps the Gemini API key out of config files. Values may
// live in the OS keyring and be referenced from config as keyring:// URIs.
package secrets

// Default service and key under which the credential wizard stores the
// Gemini API key.
const (
	DefaultService = "clearpath"
	DefaultKey     = "gemini-api-key"
)

// Store provides secure credential storage operations.
// Implementations may use OS keyrings, encrypted files, or other backends.
type Store interface {
	// Store saves a secret value under the given service and key.
	Store(service, key, value string) error

	// Retrieve fetches the secret value for the given service and key.
	// A missing key yields a validation-kind error.
	Retrieve(service, key string) (string, error)

	// Delete removes the secret for the given service and key.
	Delete(service, key string) error
}
