// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package secrets

import (
	"errors"

	"github.com/zalando/go-keyring"

	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
)

// KeyringStore implements Store using the OS keyring via zalando/go-keyring.
// On macOS it uses Keychain, on Linux secret-service (D-Bus), and on Windows
// the Credential Manager.
type KeyringStore struct{}

// NewKeyringStore returns a KeyringStore.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (s *KeyringStore) Store(service, key, value string) error {
	if service == "" {
		return cperr.New(cperr.KindValidation, "secret store: service must not be empty")
	}
	if key == "" {
		return cperr.New(cperr.KindValidation, "secret store: key must not be empty")
	}

	if err := keyring.Set(service, key, value); err != nil {
		return cperr.Wrapf(err, cperr.KindUnknown, "storing secret %s/%s", service, key)
	}
	return nil
}

func (s *KeyringStore) Retrieve(service, key string) (string, error) {
	if service == "" {
		return "", cperr.New(cperr.KindValidation, "secret retrieve: service must not be empty")
	}
	if key == "" {
		return "", cperr.New(cperr.KindValidation, "secret retrieve: key must not be empty")
	}

	val, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", cperr.Errorf(cperr.KindValidation, "secret %s/%s not found", service, key)
		}
		return "", cperr.Wrapf(err, cperr.KindUnknown, "retrieving secret %s/%s", service, key)
	}
	return val, nil
}

func (s *KeyringStore) Delete(service, key string) error {
	if service == "" {
		return cperr.New(cperr.KindValidation, "secret delete: service must not be empty")
	}
	if key == "" {
		return cperr.New(cperr.KindValidation, "secret delete: key must not be empty")
	}

	if err := keyring.Delete(service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return cperr.Errorf(cperr.KindValidation, "secret %s/%s not found", service, key)
		}
		return cperr.Wrapf(err, cperr.KindUnknown, "deleting secret %s/%s", service, key)
	}
	return nil
}
