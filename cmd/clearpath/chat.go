// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clearpath-dev/clearpath/internal/config"
	"github.com/clearpath-dev/clearpath/internal/secrets"
	"github.com/clearpath-dev/clearpath/internal/session"
	"github.com/clearpath-dev/clearpath/pkg/types"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [situation]",
		Short: "Talk through a decision in the terminal",
		Long:  "Run the conversation loop in-process, without the HTTP server. Provide your situation as an argument or enter it at the prompt.",
		RunE:  runChat,
	}

	cmd.Flags().IntP("mood", "m", types.DefaultMood, "how you're feeling, 1 (very low) to 5 (great)")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = viper.ConfigFileUsed()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	setupLogging(viper.GetBool("verbose"))

	ctrl, err := buildController(cfg, secrets.NewKeyringStore())
	if err != nil {
		return err
	}

	mood, _ := cmd.Flags().GetInt("mood")
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	situation := strings.TrimSpace(strings.Join(args, " "))
	if situation == "" {
		fmt.Fprint(out, "What decision are you weighing? ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		situation = strings.TrimSpace(scanner.Text())
	}
	if situation == "" {
		return fmt.Errorf("nothing to talk about")
	}

	ctx := cmd.Context()
	if err := ctrl.SubmitInitial(ctx, situation, mood); err != nil {
		return err
	}
	renderLatest(out, ctrl.Snapshot())

	fmt.Fprintln(out, "Commands: /verdict  /retry  /reset  /quit")

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/q":
			return nil
		case "/reset":
			ctrl.Reset()
			fmt.Fprintln(out, "Session cleared. Run 'clearpath chat' to start again.")
			return nil
		case "/retry":
			if err := ctrl.RetryLast(ctx); err != nil {
				fmt.Fprintln(out, err.Error())
				continue
			}
			renderLatest(out, ctrl.Snapshot())
		case "/verdict":
			if _, err := ctrl.RequestVerdict(ctx); err != nil {
				fmt.Fprintln(out, err.Error())
				continue
			}
			renderVerdict(out, ctrl.Snapshot())
		default:
			if err := ctrl.SendMessage(ctx, line); err != nil {
				fmt.Fprintln(out, err.Error())
				continue
			}
			renderLatest(out, ctrl.Snapshot())
		}

		if ctrl.Snapshot().Safety.Triggered {
			// Only /reset or /quit make sense from here on.
			fmt.Fprintln(out, "Type /reset to clear the session, or /quit to exit.")
		}
	}
}

// renderLatest prints whatever the last action produced: a safety banner, an
// error banner, or the newest reply.
func renderLatest(w io.Writer, snap session.Snapshot) {
	if snap.Safety.Triggered {
		renderSafety(w, snap)
		return
	}

	if snap.LastError != nil {
		fmt.Fprintln(w, snap.LastError.UserMessage)
		if snap.CanRetry {
			fmt.Fprintln(w, "Type /retry to try again.")
		}
		return
	}

	for i := len(snap.Transcript) - 1; i >= 0; i-- {
		if snap.Transcript[i].Speaker == types.SpeakerAssistant {
			fmt.Fprintf(w, "\n%s\n\n", snap.Transcript[i].Text)
			return
		}
	}
}

func renderSafety(w io.Writer, snap session.Snapshot) {
	fmt.Fprintln(w)
	if snap.Safety.Resource != nil {
		fmt.Fprintln(w, snap.Safety.Resource.Message)
	}
	for _, r := range snap.Safety.Resources {
		fmt.Fprintf(w, "  %s — %s\n", r.Name, r.Contact)
	}
	fmt.Fprintln(w)
}

func renderVerdict(w io.Writer, snap session.Snapshot) {
	if snap.Verdict == nil {
		return
	}
	v := snap.Verdict

	fmt.Fprintf(w, "\nRecommendation: %s\n\n", v.Recommendation)
	fmt.Fprintln(w, v.Reasoning)
	if v.Tips != "" {
		fmt.Fprintf(w, "\n%s\n", v.Tips)
	}
	if v.Reminder != "" {
		fmt.Fprintf(w, "\n%s\n", v.Reminder)
	}
}
