// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

//go:build !windows

package config

import (
	"io/fs"
	"log/slog"
	"os"
)

// WarnInsecurePermissions logs a warning when the config file is group- or
// world-readable. The file may hold the model API key, so anything looser
// than 0600 exposes it to other local users. Best effort: startup never
// fails on this.
func WarnInsecurePermissions(path string) {
	if path == "" {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("could not stat config file for permission check", "path", path, "error", err)
		return
	}

	const groupOrWorldRead fs.FileMode = 0o044

	if perm := info.Mode().Perm(); perm&groupOrWorldRead != 0 {
		slog.Warn("config file is readable by other users; the API key may be exposed",
			"path", path,
			"mode", info.Mode(),
			"recommended", "0600",
		)
	}
}
