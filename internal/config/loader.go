package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load populates a [Config] from environment variables and returns a
// validated result. A `.env` file at dotenvPath is loaded first (missing
// file is not an error — it is a local-development convenience only);
// real environment variables always take precedence over values it sets.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: load %q: %w", dotenvPath, err)
		}
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns a
// single joined error listing every violation found, rather than stopping
// at the first.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if cfg.LLM.APIKey == "" {
		errs = append(errs, errors.New("llm.api_key is required"))
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature %.2f is out of range [0, 2]", cfg.LLM.Temperature))
	}
	if cfg.LLM.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("llm.max_tokens %d must be positive", cfg.LLM.MaxTokens))
	}

	if cfg.STT.ServerURL == "" {
		errs = append(errs, errors.New("stt.server_url is required"))
	}
	if cfg.STT.RequestTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("stt.request_timeout_seconds %d must be positive", cfg.STT.RequestTimeoutSeconds))
	}

	if cfg.Pipeline.DefaultMaxTier < 1 || cfg.Pipeline.DefaultMaxTier > 3 {
		errs = append(errs, fmt.Errorf("pipeline.default_max_tier %d is out of range [1, 3]", cfg.Pipeline.DefaultMaxTier))
	}
	if cfg.Pipeline.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.timeout_seconds %d must be positive", cfg.Pipeline.TimeoutSeconds))
	}

	if cfg.STT.NativeModelPath == "" {
		// Not an error — Tier 3 is optional — but worth surfacing, since a
		// silently-disabled Tier 3 changes the escalation policy's ceiling.
	}

	return errors.Join(errs...)
}
