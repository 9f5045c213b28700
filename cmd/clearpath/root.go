// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clearpath-dev/clearpath/internal/config"
	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
)

// NewRootCmd creates the root clearpath command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clearpath",
		Short:         "Clearpath — conversational decision support",
		Long:          "Clearpath helps you think through a decision in conversation and delivers a clear recommendation at the end.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initViper(cmd)
		},
	}

	// Global flags — these map to viper keys via initViper.
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	// Register subcommands
	root.AddCommand(
		newInitCmd(),
		newStartCmd(),
		newChatCmd(),
		newDoctorCmd(),
		newVersionCmd(),
	)

	return root
}

// initViper sets up the global Viper with defaults, env bindings, flag
// bindings, and optional config file so the standard precedence
// (flag > env > file > defaults) is handled uniformly.
func initViper(cmd *cobra.Command) error {
	v := viper.GetViper()

	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return cperr.Wrap(err, cperr.KindValidation, "reading config file")
		}
	} else {
		// Auto-discover clearpath.yaml from standard locations.
		// Note: SetConfigType is intentionally omitted. When set, Viper
		// falls back to trying the bare config name without extension,
		// which collides with the ./clearpath binary in the project root.
		v.SetConfigName("clearpath")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/clearpath")
		v.AddConfigPath("/etc/clearpath")
		// No config file is fine — defaults and env vars still apply.
		// Parse or permission errors must surface.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return cperr.Wrap(err, cperr.KindValidation, "reading config")
			}
			// No config found anywhere — bootstrap a default to ~/.config/clearpath/.
			if path := config.BootstrapConfig(); path != "" {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return cperr.Wrap(err, cperr.KindValidation, "reading bootstrapped config")
				}
			}
		}
	}

	if err := v.BindPFlag("verbose", cmd.Root().PersistentFlags().Lookup("verbose")); err != nil {
		return cperr.Wrap(err, cperr.KindUnknown, "binding verbose flag")
	}

	return nil
}
