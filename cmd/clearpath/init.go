// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clearpath-dev/clearpath/internal/secrets"
	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
)

// initHTTPClient is the HTTP client used for API key validation.
// Exposed as a variable so tests can replace it.
var initHTTPClient = &http.Client{Timeout: 10 * time.Second}

// geminiModelsURL is the endpoint used to validate a key without spending
// tokens. Variable so tests can point it at a local server.
var geminiModelsURL = "https://generativelanguage.googleapis.com/v1beta/models?pageSize=1"

// initWizardStep tracks which step of the wizard is active.
type initWizardStep int

const (
	stepAPIKey      initWizardStep = iota // enter API key
	stepValidateKey                       // validating key (spinner)
	stepDone                              // wizard complete
	stepError                             // terminal error
)

// --- bubbletea messages ---

type (
	validationSuccessMsg struct{}
	validationErrorMsg   struct{ err error }
	configWrittenMsg     struct{ path string }
)

// --- lipgloss styles ---

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

// initModel is the bubbletea model for the init wizard.
type initModel struct {
	step           initWizardStep
	apiKeyInput    textinput.Model
	spinner        spinner.Model
	apiKey         string
	validationErr  string
	configPath     string
	secretStore    secrets.Store
	errFinal       error
	forceOverwrite bool
	skipValidation bool
}

func newInitModel(store secrets.Store) initModel {
	apiKey := textinput.New()
	apiKey.Placeholder = "paste Gemini API key here"
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.EchoCharacter = '•'
	apiKey.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return initModel{
		step:        stepAPIKey,
		apiKeyInput: apiKey,
		spinner:     sp,
		secretStore: store,
	}
}

func (m initModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m initModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case validationSuccessMsg:
		return m, writeConfigCmd(m.apiKey, m.secretStore, m.forceOverwrite)

	case validationErrorMsg:
		m.validationErr = msg.err.Error()
		m.step = stepAPIKey
		m.apiKeyInput.Focus()
		return m, textinput.Blink

	case configWrittenMsg:
		m.step = stepDone
		m.configPath = msg.path
		return m, tea.Quit

	case error:
		m.step = stepError
		m.errFinal = msg
		return m, tea.Quit
	}

	if m.step == stepAPIKey {
		var cmd tea.Cmd
		m.apiKeyInput, cmd = m.apiKeyInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m initModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.step != stepAPIKey {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "enter":
		key := strings.TrimSpace(m.apiKeyInput.Value())
		if key == "" {
			m.validationErr = "API key must not be empty"
			return m, nil
		}
		m.apiKey = key
		m.validationErr = ""
		if m.skipValidation {
			return m, writeConfigCmd(key, m.secretStore, m.forceOverwrite)
		}
		m.step = stepValidateKey
		return m, tea.Batch(
			m.spinner.Tick,
			validateKeyCmd(key),
		)
	case "ctrl+c", "esc":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.apiKeyInput, cmd = m.apiKeyInput.Update(msg)
	return m, cmd
}

func (m initModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("  Clearpath Setup  ") + "\n\n")

	switch m.step {
	case stepAPIKey:
		b.WriteString(promptStyle.Render("Gemini API key") + "\n\n")
		b.WriteString(m.apiKeyInput.View() + "\n")
		if m.validationErr != "" {
			b.WriteString("\n" + errorStyle.Render("  "+m.validationErr) + "\n")
		}
		b.WriteString("\n" + dimStyle.Render("enter to continue  ctrl+c to quit"))

	case stepValidateKey:
		b.WriteString(m.spinner.View() + " Validating API key…\n")

	case stepDone:
		b.WriteString(successStyle.Render("  Setup complete!  ") + "\n\n")
		if m.configPath != "" {
			b.WriteString(dimStyle.Render("Config written to: "+m.configPath) + "\n\n")
		}
		b.WriteString("Run " + promptStyle.Render("clearpath start") + " to serve the web app, or " + promptStyle.Render("clearpath chat") + " to talk in the terminal.\n")
		b.WriteString("Run " + promptStyle.Render("clearpath doctor") + " to verify setup.\n")

	case stepError:
		b.WriteString(errorStyle.Render("Setup failed: "+m.errFinal.Error()) + "\n")
	}

	return boxStyle.Render(b.String())
}

// --- tea.Cmd factories ---

func validateKeyCmd(key string) tea.Cmd {
	return func() tea.Msg {
		if err := validateGeminiKey(context.Background(), key); err != nil {
			return validationErrorMsg{err: err}
		}
		return validationSuccessMsg{}
	}
}

// validateGeminiKey lists models with the key, which verifies the credential
// without spending tokens.
func validateGeminiKey(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geminiModelsURL, nil)
	if err != nil {
		return cperr.Wrap(err, cperr.KindUnknown, "building validation request")
	}
	req.Header.Set("x-goog-api-key", key)

	resp, err := initHTTPClient.Do(req)
	if err != nil {
		return cperr.Wrap(err, cperr.KindNetwork, "reaching the Gemini API")
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return cperr.New(cperr.KindValidation, "the Gemini API rejected this key")
	default:
		return cperr.Errorf(cperr.KindAPI, "unexpected status %d from the Gemini API", resp.StatusCode)
	}
}

func writeConfigCmd(apiKey string, store secrets.Store, forceOverwrite bool) tea.Cmd {
	return func() tea.Msg {
		path, err := storeSecretAndWriteConfig(apiKey, store, forceOverwrite)
		if err != nil {
			return err
		}
		return configWrittenMsg{path: path}
	}
}

// --- Config generation (exported for tests) ---

// generatedConfig is the subset of the config schema the wizard writes.
type generatedConfig struct {
	Networking struct {
		Listen      string   `yaml:"listen"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"networking"`
	Model struct {
		Name   string `yaml:"name"`
		APIKey string `yaml:"api_key"`
	} `yaml:"model"`
}

// GenerateConfigYAML produces a minimal clearpath.yaml. The API key is
// referenced via a keyring:// URI; the actual secret is stored separately in
// the OS keyring.
func GenerateConfigYAML() string {
	var cfg generatedConfig
	cfg.Networking.Listen = "127.0.0.1:8321"
	cfg.Networking.CORSOrigins = []string{"http://localhost:5173"}
	cfg.Model.Name = "gemini-2.5-flash"
	cfg.Model.APIKey = fmt.Sprintf("keyring://%s/%s", secrets.DefaultService, secrets.DefaultKey)

	body, err := yaml.Marshal(cfg)
	if err != nil {
		// Marshalling a fixed struct cannot fail at runtime.
		panic(err)
	}

	return "# Clearpath configuration, generated by clearpath init\n\n" + string(body)
}

// storeSecretAndWriteConfig saves the API key to the OS keyring and writes
// the config YAML to the default config path.
//
// When forceOverwrite is false and the config file already exists, an error
// is returned asking the user to pass --force. If the config write fails the
// stored secret is not rolled back; an orphaned keyring entry is harmless
// and will be overwritten on a successful re-run.
func storeSecretAndWriteConfig(apiKey string, store secrets.Store, forceOverwrite bool) (string, error) {
	if err := store.Store(secrets.DefaultService, secrets.DefaultKey, apiKey); err != nil {
		return "", cperr.Wrap(err, cperr.KindOf(err), "storing Gemini API key")
	}

	cfgPath, err := configPathForWrite()
	if err != nil {
		return "", err
	}

	if !forceOverwrite {
		if _, statErr := os.Stat(cfgPath); statErr == nil {
			return "", cperr.Errorf(cperr.KindValidation,
				"config file already exists at %s; use --force to overwrite", cfgPath)
		}
	}

	dir := filepath.Dir(cfgPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", cperr.Wrapf(err, cperr.KindUnknown, "creating config directory %s", dir)
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateConfigYAML()), 0o600); err != nil {
		return "", cperr.Wrapf(err, cperr.KindUnknown, "writing config to %s", cfgPath)
	}

	return cfgPath, nil
}

// configPathForWrite returns the default config path. Exported as a variable
// so tests can override it.
var configPathForWrite = defaultConfigPathForWrite

func defaultConfigPathForWrite() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", cperr.Wrap(err, cperr.KindUnknown, "resolving home directory")
	}
	return filepath.Join(home, ".config", "clearpath", "clearpath.yaml"), nil
}

// --- Cobra command ---

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactive setup wizard for Clearpath",
		Long: `Run an interactive TUI wizard that stores your Gemini API key in the OS
keyring and writes a config file referencing it via a keyring:// URI.
No secrets are written in plain text.

After completion, run:
  clearpath start    — serve the web app API
  clearpath chat     — talk in the terminal
  clearpath doctor   — verify your setup`,
		RunE: runInit,
	}

	cmd.Flags().Bool("force", false, "Overwrite existing config file")
	cmd.Flags().Bool("no-validate", false, "Skip the API key validation call")

	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	// Refuse to run the wizard without a terminal on stdin.
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !isTerminal(f) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(),
			"clearpath init requires an interactive terminal.\n"+
				"To configure Clearpath non-interactively, edit ~/.config/clearpath/clearpath.yaml directly.")
		return cperr.New(cperr.KindValidation, "clearpath init: not an interactive terminal")
	}

	forceOverwrite, _ := cmd.Flags().GetBool("force")
	skipValidation, _ := cmd.Flags().GetBool("no-validate")

	m := newInitModel(secrets.NewKeyringStore())
	m.forceOverwrite = forceOverwrite
	m.skipValidation = skipValidation

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return cperr.Wrap(err, cperr.KindUnknown, "init wizard error")
	}

	fm, ok := finalModel.(initModel)
	if !ok {
		return cperr.New(cperr.KindUnknown, "unexpected model type after wizard")
	}

	if fm.errFinal != nil {
		return cperr.Wrap(fm.errFinal, cperr.KindOf(fm.errFinal), "init failed")
	}

	// User quitting early is not an error.
	return nil
}

// isTerminal reports whether f is a terminal file descriptor.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
