// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clearpath-dev/clearpath/internal/secrets"
)

// doctorHTTPClient issues the server reachability probe. Overridden in tests
// via httptest.
var doctorHTTPClient = &http.Client{
	Timeout: 5 * time.Second,
}

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostics",
		Long:  "Check binary health, configuration, the stored Gemini credential, and whether the server is reachable.",
		RunE:  runDoctor,
	}

	cmd.Flags().String("address", "127.0.0.1:8321", "server address to check")

	return cmd
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	addr, _ := cmd.Flags().GetString("address")

	checks := []struct {
		name string
		fn   func() string
	}{
		{"Binary", checkBinary},
		{"Platform", checkPlatform},
		{"Config", checkConfig},
		{"Credential", checkCredential},
		{"Server", func() string { return checkServer(addr) }},
	}

	for _, c := range checks {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", c.name+":", c.fn()); err != nil {
			return err
		}
	}

	return nil
}

func checkBinary() string {
	return fmt.Sprintf("clearpath %s (%s/%s)", version, runtime.GOOS, runtime.GOARCH)
}

func checkPlatform() string {
	return fmt.Sprintf("%s/%s, Go %s", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func checkConfig() string {
	cfgFile := viper.ConfigFileUsed()
	if cfgFile != "" {
		return fmt.Sprintf("loaded from %s", cfgFile)
	}
	return "using defaults (no config file found)"
}

func checkCredential() string {
	configured := viper.GetString("model.api_key")
	if configured == "" {
		return "no API key configured (run 'clearpath init' or set GEMINI_API_KEY)"
	}

	if !secrets.IsKeyringURI(configured) {
		return "API key set directly in config/environment"
	}

	key, err := secrets.ResolveKeyringURI(secrets.NewKeyringStore(), configured)
	if err != nil {
		return fmt.Sprintf("keyring lookup failed: %s", err)
	}
	if key == "" {
		return "keyring entry is empty (re-run 'clearpath init')"
	}
	return fmt.Sprintf("stored in OS keyring (%s)", configured)
}

func checkServer(addr string) string {
	resp, err := doctorHTTPClient.Get("http://" + addr + "/health")
	if err != nil {
		if isDialError(err) {
			return fmt.Sprintf("not running at %s (run 'clearpath start')", addr)
		}
		return fmt.Sprintf("error: %s", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("unhealthy: status %d from %s", resp.StatusCode, addr)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Sprintf("error: invalid response: %s", err)
	}
	return fmt.Sprintf("%s at %s", body.Status, addr)
}

// isDialError returns true if err is a net dial error (connection refused, etc.).
func isDialError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial"
	}
	return false
}
