package config_test

import (
	"strings"
	"testing"

	"github.com/MrWong99/glyphoxa/internal/config"
)

// setEnv sets environment variables for the duration of the test and
// restores the previous values on cleanup, via t.Setenv.
func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoad_ValidEnvironment(t *testing.T) {
	setEnv(t, map[string]string{
		"LLM_API_KEY":     "sk-test",
		"STT_SERVER_URL":  "http://localhost:9000",
		"PIPELINE_LLM_ENABLED": "true",
	})

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("llm.api_key: got %q", cfg.LLM.APIKey)
	}
	if cfg.STT.ServerURL != "http://localhost:9000" {
		t.Errorf("stt.server_url: got %q", cfg.STT.ServerURL)
	}
	// Defaults should apply when not overridden.
	if cfg.LLM.Model != "gpt-4.1" {
		t.Errorf("llm.model default: got %q, want gpt-4.1", cfg.LLM.Model)
	}
	if cfg.Pipeline.DefaultMaxTier != 3 {
		t.Errorf("pipeline.default_max_tier default: got %d, want 3", cfg.Pipeline.DefaultMaxTier)
	}
}

func TestLoad_MissingRequiredFieldsFails(t *testing.T) {
	// No LLM_API_KEY or STT_SERVER_URL set — Load should fail validation.
	_, err := config.Load("")
	if err == nil {
		t.Fatal("expected error when required env vars are unset")
	}
}

func TestLoad_MissingDotenvFileIsNotFatal(t *testing.T) {
	setEnv(t, map[string]string{
		"LLM_API_KEY":    "sk-test",
		"STT_SERVER_URL": "http://localhost:9000",
	})

	_, err := config.Load("/nonexistent/path/.env")
	if err != nil {
		t.Fatalf("a missing .env overlay should not be fatal: %v", err)
	}
}

func TestLoad_FallbackModelsFromCSV(t *testing.T) {
	setEnv(t, map[string]string{
		"LLM_API_KEY":          "sk-test",
		"STT_SERVER_URL":       "http://localhost:9000",
		"LLM_FALLBACK_MODELS":  "gpt-4o,gpt-4o-mini",
	})

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.LLM.FallbackModels) != 2 {
		t.Fatalf("llm.fallback_models: got %d entries, want 2 (%v)", len(cfg.LLM.FallbackModels), cfg.LLM.FallbackModels)
	}
	if cfg.LLM.FallbackModels[0] != "gpt-4o" || cfg.LLM.FallbackModels[1] != "gpt-4o-mini" {
		t.Errorf("llm.fallback_models: got %v", cfg.LLM.FallbackModels)
	}
}

func TestValidate_ErrorMessagesAreJoined(t *testing.T) {
	cfg := &config.Config{}
	err := config.Validate(cfg)
	if err == nil {
		t.Fatal("expected a non-nil error")
	}
	if !strings.Contains(err.Error(), "\n") {
		t.Error("errors.Join should separate individual violations by newline")
	}
}
