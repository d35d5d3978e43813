package config_test

import (
	"strings"
	"testing"

	"github.com/MrWong99/glyphoxa/internal/config"
)

func TestLogLevel_IsValid(t *testing.T) {
	valid := []config.LogLevel{config.LogDebug, config.LogInfo, config.LogWarn, config.LogError}
	for _, l := range valid {
		if !l.IsValid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if config.LogLevel("verbose").IsValid() {
		t.Error(`"verbose" should not be a valid log level`)
	}
	if config.LogLevel("").IsValid() {
		t.Error(`"" should not be a valid log level`)
	}
}

func TestValidate_RequiresLLMAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.APIKey = ""
	if err := config.Validate(cfg); err == nil {
		t.Fatal("expected error for missing llm.api_key")
	}
}

func TestValidate_RequiresSTTServerURL(t *testing.T) {
	cfg := validConfig()
	cfg.STT.ServerURL = ""
	if err := config.Validate(cfg); err == nil {
		t.Fatal("expected error for missing stt.server_url")
	}
}

func TestValidate_RejectsOutOfRangeTemperature(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Temperature = 3.5
	if err := config.Validate(cfg); err == nil {
		t.Fatal("expected error for out-of-range temperature")
	}
}

func TestValidate_RejectsNonPositiveMaxTokens(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.MaxTokens = 0
	if err := config.Validate(cfg); err == nil {
		t.Fatal("expected error for non-positive max_tokens")
	}
}

func TestValidate_RejectsInvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Server.LogLevel = "verbose"
	if err := config.Validate(cfg); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestValidate_RejectsOutOfRangeMaxTier(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.DefaultMaxTier = 4
	if err := config.Validate(cfg); err == nil {
		t.Fatal("expected error for out-of-range default_max_tier")
	}
}

func TestValidate_RejectsNonPositiveTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.TimeoutSeconds = 0
	if err := config.Validate(cfg); err == nil {
		t.Fatal("expected error for non-positive pipeline timeout")
	}
}

func TestValidate_RejectsNonPositiveSTTTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.STT.RequestTimeoutSeconds = 0
	if err := config.Validate(cfg); err == nil {
		t.Fatal("expected error for non-positive stt.request_timeout_seconds")
	}
}

func TestValidate_MultipleErrorsAreJoined(t *testing.T) {
	cfg := &config.Config{}
	err := config.Validate(cfg)
	if err == nil {
		t.Fatal("expected errors for an entirely empty config")
	}
	msg := err.Error()
	for _, want := range []string{"llm.api_key", "stt.server_url"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected joined error to mention %q, got: %v", want, msg)
		}
	}
}

func TestValidate_AcceptsFullyValidConfig(t *testing.T) {
	if err := config.Validate(validConfig()); err != nil {
		t.Fatalf("unexpected error for a valid config: %v", err)
	}
}

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{ListenAddr: ":8080", LogLevel: config.LogInfo},
		LLM: config.LLMConfig{
			APIKey:      "sk-test",
			Model:       "gpt-4.1",
			Temperature: 0,
			MaxTokens:   2000,
		},
		STT: config.STTConfig{
			ServerURL:             "http://localhost:9000",
			Tier1Model:            "base",
			Tier2Model:            "base",
			RequestTimeoutSeconds: 30,
		},
		Pipeline: config.PipelineConfig{
			DefaultMaxTier: 3,
			LLMEnabled:     true,
			TimeoutSeconds: 120,
		},
	}
}
