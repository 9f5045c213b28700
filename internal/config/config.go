// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clearpath Contributors

// Package config loads and validates the Clearpath configuration with the
// standard precedence: flag > environment > file > defaults.
package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	cperr "github.com/clearpath-dev/clearpath/pkg/errors"
)

// Config is the top-level Clearpath configuration.
type Config struct {
	Networking NetworkingConfig `mapstructure:"networking"`
	Model      ModelConfig      `mapstructure:"model"`
	Retry      RetryConfig      `mapstructure:"retry"`
	Safety     SafetyConfig     `mapstructure:"safety"`
}

// NetworkingConfig controls how Clearpath listens for connections.
type NetworkingConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// ModelConfig holds the Gemini credential, model selection and sampling
// parameters. APIKey may be a literal, or a keyring://service/key URI
// resolved before use.
type ModelConfig struct {
	Name            string  `mapstructure:"name"`
	APIKey          string  `mapstructure:"api_key"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds"`
	Temperature     float32 `mapstructure:"temperature"`
	TopK            float32 `mapstructure:"top_k"`
	TopP            float32 `mapstructure:"top_p"`
	MaxOutputTokens int32   `mapstructure:"max_output_tokens"`
}

// Timeout returns the per-call wall-clock limit.
func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// RetryConfig tunes the automatic retry loop for model calls.
type RetryConfig struct {
	MaxAttempts       int     `mapstructure:"max_attempts"`
	BaseDelayMS       int     `mapstructure:"base_delay_ms"`
	BackoffMultiplier float64 `mapstructure:"backoff_multiplier"`
}

// Policy converts the retry settings into the error-policy form.
func (r RetryConfig) Policy() cperr.RetryConfig {
	return cperr.RetryConfig{
		MaxAttempts:       r.MaxAttempts,
		BaseDelay:         time.Duration(r.BaseDelayMS) * time.Millisecond,
		BackoffMultiplier: r.BackoffMultiplier,
	}
}

// SafetyConfig overrides the built-in keyword fallback list when set.
type SafetyConfig struct {
	Keywords []string `mapstructure:"keywords"`
}

// SetDefaults registers all configuration defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("networking.listen", "127.0.0.1:8321")
	v.SetDefault("networking.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("model.name", "gemini-2.5-flash")
	v.SetDefault("model.timeout_seconds", 30)
	v.SetDefault("model.temperature", 0.7)
	v.SetDefault("model.top_k", 40)
	v.SetDefault("model.top_p", 0.9)
	v.SetDefault("model.max_output_tokens", 2048)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay_ms", 1000)
	v.SetDefault("retry.backoff_multiplier", 2)
}

// SetupEnv binds environment variables with the CLEARPATH_ prefix. The model
// credential additionally honors GEMINI_API_KEY.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("CLEARPATH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("model.api_key", "CLEARPATH_MODEL_API_KEY", "GEMINI_API_KEY")
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, cperr.Wrapf(err, cperr.KindValidation, "reading config %s", path)
		}
		WarnInsecurePermissions(path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, cperr.Wrap(err, cperr.KindValidation, "unmarshalling config")
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, cperr.Wrap(errors.Join(errs...), cperr.KindValidation, "validating config")
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors, collecting all
// issues rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateNetworking()...)
	errs = append(errs, c.validateModel()...)
	errs = append(errs, c.validateRetry()...)

	return errs
}

func (c *Config) validateNetworking() []error {
	var errs []error

	host, port, err := net.SplitHostPort(c.Networking.Listen)
	if err != nil {
		errs = append(errs, cperr.Errorf(cperr.KindValidation,
			"config: networking.listen must be host:port, got %q", c.Networking.Listen))
		return errs
	}

	if host == "" {
		errs = append(errs, cperr.New(cperr.KindValidation,
			"config: networking.listen host must not be empty"))
	}

	if p, err := strconv.Atoi(port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, cperr.Errorf(cperr.KindValidation,
			"config: networking.listen port must be 1-65535, got %q", port))
	}

	return errs
}

func (c *Config) validateModel() []error {
	var errs []error

	if c.Model.Name == "" {
		errs = append(errs, cperr.New(cperr.KindValidation, "config: model.name must not be empty"))
	}

	if c.Model.TimeoutSeconds <= 0 {
		errs = append(errs, cperr.Errorf(cperr.KindValidation,
			"config: model.timeout_seconds must be positive, got %d", c.Model.TimeoutSeconds))
	}

	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		errs = append(errs, cperr.Errorf(cperr.KindValidation,
			"config: model.temperature must be within [0, 2], got %g", c.Model.Temperature))
	}

	if c.Model.TopP < 0 || c.Model.TopP > 1 {
		errs = append(errs, cperr.Errorf(cperr.KindValidation,
			"config: model.top_p must be within [0, 1], got %g", c.Model.TopP))
	}

	if c.Model.MaxOutputTokens <= 0 {
		errs = append(errs, cperr.Errorf(cperr.KindValidation,
			"config: model.max_output_tokens must be positive, got %d", c.Model.MaxOutputTokens))
	}

	return errs
}

func (c *Config) validateRetry() []error {
	var errs []error

	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, cperr.Errorf(cperr.KindValidation,
			"config: retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts))
	}

	if c.Retry.BaseDelayMS < 0 {
		errs = append(errs, cperr.Errorf(cperr.KindValidation,
			"config: retry.base_delay_ms must not be negative, got %d", c.Retry.BaseDelayMS))
	}

	if c.Retry.BackoffMultiplier < 1 {
		errs = append(errs, cperr.Errorf(cperr.KindValidation,
			"config: retry.backoff_multiplier must be at least 1, got %g", c.Retry.BackoffMultiplier))
	}

	return errs
}
