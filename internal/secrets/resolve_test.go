// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package secrets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpath-dev/clearpath/internal/secrets"
	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
)

// fakeStore backs resolution tests without touching the OS keyring.
type fakeStore struct {
	values map[string]string
}

func (s *fakeStore) Store(service, key, value string) error {
	s.values[service+"/"+key] = value
	return nil
}

func (s *fakeStore) Retrieve(service, key string) (string, error) {
	val, ok := s.values[service+"/"+key]
	if !ok {
		return "", cperr.Errorf(cperr.KindValidation, "secret %s/%s not found", service, key)
	}
	return val, nil
}

func (s *fakeStore) Delete(service, key string) error {
	delete(s.values, service+"/"+key)
	return nil
}

func TestIsKeyringURI(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"valid URI", "keyring://clearpath/gemini-api-key", true},
		{"valid URI with dashes", "keyring://my-svc/my-key", true},
		{"env var reference", "${GEMINI_API_KEY}", false},
		{"literal value", "AIzaSyAbc123", false},
		{"empty string", "", false},
		{"just scheme", "keyring://", true},
		{"other scheme", "vault://secret/key", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, secrets.IsKeyringURI(tt.value))
		})
	}
}

func TestParseKeyringURI(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		wantService string
		wantKey     string
		wantErr     bool
	}{
		{"valid", "keyring://clearpath/gemini-api-key", "clearpath", "gemini-api-key", false},
		{"dashes", "keyring://my-service/my-key-name", "my-service", "my-key-name", false},
		{"slashes in key", "keyring://clearpath/path/to/key", "clearpath", "path/to/key", false},
		{"not a keyring URI", "vault://secret/key", "", "", true},
		{"missing key", "keyring://clearpath/", "", "", true},
		{"missing service", "keyring:///key", "", "", true},
		{"missing both", "keyring://", "", "", true},
		{"no path", "keyring://clearpath", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, key, err := secrets.ParseKeyringURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, cperr.KindValidation, cperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantService, svc)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestResolveKeyringURI(t *testing.T) {
	store := &fakeStore{values: map[string]string{
		"clearpath/gemini-api-key": "AIzaSySecret",
	}}

	t.Run("resolves stored secret", func(t *testing.T) {
		got, err := secrets.ResolveKeyringURI(store, "keyring://clearpath/gemini-api-key")
		require.NoError(t, err)
		assert.Equal(t, "AIzaSySecret", got)
	})

	t.Run("passes through non-URI values", func(t *testing.T) {
		got, err := secrets.ResolveKeyringURI(store, "AIzaSyLiteral")
		require.NoError(t, err)
		assert.Equal(t, "AIzaSyLiteral", got)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := secrets.ResolveKeyringURI(store, "keyring://clearpath/absent")
		require.Error(t, err)
		assert.Equal(t, cperr.KindValidation, cperr.KindOf(err))
	})

	t.Run("malformed URI", func(t *testing.T) {
		_, err := secrets.ResolveKeyringURI(store, "keyring://no-key")
		require.Error(t, err)
		assert.Equal(t, cperr.KindValidation, cperr.KindOf(err))
	})
}

func TestKeyringStoreInputValidation(t *testing.T) {
	// Input validation happens before any keyring access, so these are safe
	// to run on machines without a secret service.
	ks := secrets.NewKeyringStore()

	_, err := ks.Retrieve("", "key")
	assert.Equal(t, cperr.KindValidation, cperr.KindOf(err))

	_, err = ks.Retrieve("svc", "")
	assert.Equal(t, cperr.KindValidation, cperr.KindOf(err))

	err = ks.Store("", "key", "v")
	assert.Equal(t, cperr.KindValidation, cperr.KindOf(err))

	err = ks.Delete("svc", "")
	assert.Equal(t, cperr.KindValidation, cperr.KindOf(err))
}
